package companies

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/rfigueroa/talentbridge-backend/pkg/db/models"
	"github.com/rfigueroa/talentbridge-backend/pkg/enums"
	pkgerrors "github.com/rfigueroa/talentbridge-backend/pkg/errors"
)

// Service exposes company profile operations.
type Service interface {
	Register(ctx context.Context, input RegisterCompanyInput) (*models.Company, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.Company, error)
	SetVerificationStatus(ctx context.Context, id uuid.UUID, status enums.VerificationStatus) (*models.Company, error)
}

// RegisterCompanyInput captures the fields required to create a company.
type RegisterCompanyInput struct {
	Name          string
	MaxActiveJobs int
}

type service struct {
	repo Repository
}

// NewService wires a company service with the provided repository.
func NewService(repo Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("company repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) Register(ctx context.Context, input RegisterCompanyInput) (*models.Company, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "company name is required")
	}
	if input.MaxActiveJobs < 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "max active jobs cannot be negative")
	}

	company := &models.Company{
		Name:               name,
		VerificationStatus: enums.VerificationStatusUnverified,
		MaxActiveJobs:      input.MaxActiveJobs,
	}
	if err := s.repo.Create(ctx, company); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create company")
	}
	return company, nil
}

func (s *service) GetByID(ctx context.Context, id uuid.UUID) (*models.Company, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "company id is required")
	}
	company, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "company not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load company")
	}
	return company, nil
}

func (s *service) SetVerificationStatus(ctx context.Context, id uuid.UUID, status enums.VerificationStatus) (*models.Company, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "company id is required")
	}
	if !status.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("invalid verification status %q", status))
	}

	company, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.repo.UpdateVerificationStatus(ctx, id, status); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update verification status")
	}
	company.VerificationStatus = status
	return company, nil
}
