package controllers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/rfigueroa/talentbridge-backend/api/middleware"
	"github.com/rfigueroa/talentbridge-backend/internal/jobs"
	"github.com/rfigueroa/talentbridge-backend/pkg/db/models"
	"github.com/rfigueroa/talentbridge-backend/pkg/enums"
	pkgerrors "github.com/rfigueroa/talentbridge-backend/pkg/errors"
)

type stubJobService struct {
	listing *models.JobListing
	err     error
}

func (s stubJobService) Create(ctx context.Context, input jobs.CreateListingInput) (*models.JobListing, error) {
	return s.listing, s.err
}

func (s stubJobService) Get(ctx context.Context, companyID, listingID uuid.UUID) (*models.JobListing, error) {
	return s.listing, s.err
}

func (s stubJobService) ListByCompany(ctx context.Context, companyID uuid.UUID) ([]models.JobListing, error) {
	if s.listing == nil {
		return nil, s.err
	}
	return []models.JobListing{*s.listing}, s.err
}

func (s stubJobService) Publish(ctx context.Context, companyID, listingID uuid.UUID) (*models.JobListing, error) {
	return s.listing, s.err
}

func (s stubJobService) ChargeForPosting(ctx context.Context, listingID uuid.UUID) (bool, error) {
	return s.err == nil, s.err
}

func (s stubJobService) Close(ctx context.Context, companyID, listingID uuid.UUID) (*models.JobListing, error) {
	return s.listing, s.err
}

func jobRequest(method, path string, body []byte, companyID uuid.UUID, listingID string) *http.Request {
	var req *http.Request
	if body == nil {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, bytes.NewReader(body))
	}
	req = req.WithContext(middleware.WithCompanyID(req.Context(), companyID.String()))
	if listingID != "" {
		routeCtx := chi.NewRouteContext()
		routeCtx.URLParams.Add("jobId", listingID)
		req = req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, routeCtx))
	}
	return req
}

func TestJobCreateSuccess(t *testing.T) {
	companyID := uuid.New()
	listing := &models.JobListing{
		ID:        uuid.New(),
		CompanyID: companyID,
		Title:     "Senior Backend Engineer",
		Status:    enums.JobListingStatusDraft,
	}
	handler := JobCreate(stubJobService{listing: listing}, nil)

	body, _ := json.Marshal(map[string]any{"title": "Senior Backend Engineer"})
	req := jobRequest(http.MethodPost, "/api/v1/company/me/jobs", body, companyID, "")

	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusCreated {
		t.Fatalf("expected 201 got %d: %s", resp.Code, resp.Body.String())
	}

	var envelope struct {
		Data models.JobListing `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if envelope.Data.ID != listing.ID {
		t.Fatalf("unexpected listing id: %s", envelope.Data.ID)
	}
}

func TestJobCreateRejectsShortTitle(t *testing.T) {
	handler := JobCreate(stubJobService{}, nil)

	body, _ := json.Marshal(map[string]any{"title": "no"})
	req := jobRequest(http.MethodPost, "/api/v1/company/me/jobs", body, uuid.New(), "")

	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}

func TestJobPublishSuccess(t *testing.T) {
	companyID := uuid.New()
	listingID := uuid.New()
	listing := &models.JobListing{
		ID:        listingID,
		CompanyID: companyID,
		Status:    enums.JobListingStatusPublished,
	}
	handler := JobPublish(stubJobService{listing: listing}, nil)

	req := jobRequest(http.MethodPost, "/api/v1/company/me/jobs/"+listingID.String()+"/publish", nil, companyID, listingID.String())

	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", resp.Code, resp.Body.String())
	}
}

func TestJobPublishInsufficientPoints(t *testing.T) {
	companyID := uuid.New()
	listingID := uuid.New()
	svc := stubJobService{err: pkgerrors.New(pkgerrors.CodeInsufficientPoints, "not enough points to publish this listing")}
	handler := JobPublish(svc, nil)

	req := jobRequest(http.MethodPost, "/api/v1/company/me/jobs/"+listingID.String()+"/publish", nil, companyID, listingID.String())

	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusPaymentRequired {
		t.Fatalf("expected 402 got %d", resp.Code)
	}

	var envelope struct {
		Error struct {
			Code    string `json:"code"`
			Message string `json:"message"`
		} `json:"error"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if envelope.Error.Code != string(pkgerrors.CodeInsufficientPoints) {
		t.Fatalf("unexpected code: %s", envelope.Error.Code)
	}
	if envelope.Error.Message != "not enough points to publish this listing" {
		t.Fatalf("unexpected message: %s", envelope.Error.Message)
	}
}

func TestJobPublishRejectsBadID(t *testing.T) {
	handler := JobPublish(stubJobService{}, nil)

	req := jobRequest(http.MethodPost, "/api/v1/company/me/jobs/not-a-uuid/publish", nil, uuid.New(), "not-a-uuid")

	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}

func TestJobPublishMissingCompanyContext(t *testing.T) {
	handler := JobPublish(stubJobService{}, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/company/me/jobs/"+uuid.NewString()+"/publish", nil)
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusForbidden {
		t.Fatalf("expected 403 got %d", resp.Code)
	}
}
