package controllers

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/rfigueroa/talentbridge-backend/api/responses"
	"github.com/rfigueroa/talentbridge-backend/api/validators"
	"github.com/rfigueroa/talentbridge-backend/internal/wallet"
	"github.com/rfigueroa/talentbridge-backend/pkg/config"
	"github.com/rfigueroa/talentbridge-backend/pkg/enums"
	pkgerrors "github.com/rfigueroa/talentbridge-backend/pkg/errors"
	"github.com/rfigueroa/talentbridge-backend/pkg/logger"
	"github.com/rfigueroa/talentbridge-backend/pkg/pagination"
	"github.com/rfigueroa/talentbridge-backend/pkg/security"
)

const creditSecretHeader = "X-Webhook-Secret"

// WalletSnapshot returns the authenticated company's point balance.
func WalletSnapshot(svc wallet.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "wallet service unavailable"))
			return
		}
		companyID, ok := requireCompanyID(w, r, logg)
		if !ok {
			return
		}
		balance, err := svc.Balance(r.Context(), companyID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]any{
			"company_id":    companyID,
			"point_balance": balance,
		})
	}
}

// WalletLedger serves the cursor-paginated transaction history, newest first.
func WalletLedger(svc wallet.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "wallet service unavailable"))
			return
		}
		companyID, ok := requireCompanyID(w, r, logg)
		if !ok {
			return
		}
		limit, err := validators.ParseQueryInt(r, "limit", pagination.DefaultLimit, 1, pagination.MaxLimit)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		entries, nextCursor, err := svc.History(r.Context(), companyID, pagination.Params{
			Limit:  limit,
			Cursor: strings.TrimSpace(r.URL.Query().Get("cursor")),
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]any{
			"entries":     entries,
			"next_cursor": nextCursor,
		})
	}
}

type walletCreditRequest struct {
	Points         int              `json:"points" validate:"required,min=1"`
	Kind           string           `json:"kind" validate:"required"`
	PointPackageID *uuid.UUID       `json:"point_package_id,omitempty"`
	Amount         *decimal.Decimal `json:"amount,omitempty"`
	Description    string           `json:"description,omitempty" validate:"max=500"`
	ExpiresAt      *time.Time       `json:"expires_at,omitempty"`
	Metadata       json.RawMessage  `json:"metadata,omitempty"`
}

// WalletCredit is the payment-confirmation entry point: the caller proves
// knowledge of the shared webhook secret and the company is credited. The
// payment gateway conversation itself happens elsewhere.
func WalletCredit(svc wallet.Service, webhookCfg config.WebhookConfig, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "wallet service unavailable"))
			return
		}
		if webhookCfg.CreditSecretHash == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "credit webhook secret not configured"))
			return
		}

		secret := strings.TrimSpace(r.Header.Get(creditSecretHeader))
		if secret == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing webhook secret"))
			return
		}
		match, err := security.VerifySecret(secret, webhookCfg.CreditSecretHash)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "verify webhook secret"))
			return
		}
		if !match {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid webhook secret"))
			return
		}

		companyID, ok := requireCompanyID(w, r, logg)
		if !ok {
			return
		}
		var payload walletCreditRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		kind, err := enums.ParseLedgerEntryKind(payload.Kind)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid kind"))
			return
		}

		input := wallet.CreditInput{
			CompanyID:      companyID,
			Points:         payload.Points,
			Kind:           kind,
			MonetaryAmount: payload.Amount,
			Description:    payload.Description,
			Metadata:       payload.Metadata,
			ExpiresAt:      payload.ExpiresAt,
		}
		if payload.PointPackageID != nil {
			input.ReferenceKind = enums.LedgerReferenceKindPointPackage
			input.ReferenceID = payload.PointPackageID
		}

		entry, err := svc.Credit(r.Context(), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, entry)
	}
}
