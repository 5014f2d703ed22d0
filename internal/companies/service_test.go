package companies

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/rfigueroa/talentbridge-backend/pkg/db/models"
	"github.com/rfigueroa/talentbridge-backend/pkg/enums"
	pkgerrors "github.com/rfigueroa/talentbridge-backend/pkg/errors"
)

type fakeRepository struct {
	createFn     func(ctx context.Context, company *models.Company) error
	findFn       func(ctx context.Context, id uuid.UUID) (*models.Company, error)
	updateStatus func(ctx context.Context, id uuid.UUID, status enums.VerificationStatus) error
}

func (f *fakeRepository) WithTx(tx *gorm.DB) Repository { return f }

func (f *fakeRepository) Create(ctx context.Context, company *models.Company) error {
	if f.createFn != nil {
		return f.createFn(ctx, company)
	}
	return nil
}

func (f *fakeRepository) FindByID(ctx context.Context, id uuid.UUID) (*models.Company, error) {
	if f.findFn != nil {
		return f.findFn(ctx, id)
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeRepository) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*models.Company, error) {
	return f.FindByID(ctx, id)
}

func (f *fakeRepository) UpdateBalance(ctx context.Context, id uuid.UUID, balance int, at time.Time) error {
	return nil
}

func (f *fakeRepository) IncrementJobPostCounters(ctx context.Context, id uuid.UUID) error {
	return nil
}

func (f *fakeRepository) DecrementActiveJobPosts(ctx context.Context, id uuid.UUID) error {
	return nil
}

func (f *fakeRepository) UpdateVerificationStatus(ctx context.Context, id uuid.UUID, status enums.VerificationStatus) error {
	if f.updateStatus != nil {
		return f.updateStatus(ctx, id, status)
	}
	return nil
}

func TestService_Register(t *testing.T) {
	repo := &fakeRepository{}
	svc, err := NewService(repo)
	if err != nil {
		t.Fatalf("unexpected service error: %v", err)
	}

	var created *models.Company
	repo.createFn = func(ctx context.Context, company *models.Company) error {
		created = company
		return nil
	}

	got, err := svc.Register(context.Background(), RegisterCompanyInput{Name: "  Acme  ", MaxActiveJobs: 5})
	if err != nil {
		t.Fatalf("Register error: %v", err)
	}
	if created == nil {
		t.Fatal("expected company to be created")
	}
	if got.Name != "Acme" {
		t.Fatalf("expected trimmed name, got %q", got.Name)
	}
	if got.VerificationStatus != enums.VerificationStatusUnverified {
		t.Fatalf("new companies start unverified, got %s", got.VerificationStatus)
	}
	if got.MaxActiveJobs != 5 {
		t.Fatalf("expected max active jobs 5, got %d", got.MaxActiveJobs)
	}
}

func TestService_RegisterValidation(t *testing.T) {
	svc, err := NewService(&fakeRepository{})
	if err != nil {
		t.Fatalf("unexpected service error: %v", err)
	}

	if _, err := svc.Register(context.Background(), RegisterCompanyInput{Name: "   "}); err == nil {
		t.Fatal("expected validation error for blank name")
	}
	if _, err := svc.Register(context.Background(), RegisterCompanyInput{Name: "Acme", MaxActiveJobs: -1}); err == nil {
		t.Fatal("expected validation error for negative max active jobs")
	}
}

func TestService_GetByIDNotFound(t *testing.T) {
	svc, err := NewService(&fakeRepository{})
	if err != nil {
		t.Fatalf("unexpected service error: %v", err)
	}

	_, err = svc.GetByID(context.Background(), uuid.New())
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found error, got %v", err)
	}
}

func TestService_SetVerificationStatus(t *testing.T) {
	companyID := uuid.New()
	repo := &fakeRepository{
		findFn: func(ctx context.Context, id uuid.UUID) (*models.Company, error) {
			return &models.Company{ID: id, Name: "Acme", VerificationStatus: enums.VerificationStatusPending}, nil
		},
	}
	svc, err := NewService(repo)
	if err != nil {
		t.Fatalf("unexpected service error: %v", err)
	}

	var updated enums.VerificationStatus
	repo.updateStatus = func(ctx context.Context, id uuid.UUID, status enums.VerificationStatus) error {
		updated = status
		return nil
	}

	got, err := svc.SetVerificationStatus(context.Background(), companyID, enums.VerificationStatusVerified)
	if err != nil {
		t.Fatalf("SetVerificationStatus error: %v", err)
	}
	if updated != enums.VerificationStatusVerified {
		t.Fatalf("repo saw status %s", updated)
	}
	if !got.IsVerified() {
		t.Fatal("returned company should be verified")
	}

	if _, err := svc.SetVerificationStatus(context.Background(), companyID, enums.VerificationStatus("bogus")); err == nil {
		t.Fatal("expected validation error for bogus status")
	}
}

func TestService_RegisterRepoError(t *testing.T) {
	expectedErr := errors.New("boom")
	repo := &fakeRepository{
		createFn: func(ctx context.Context, company *models.Company) error {
			return expectedErr
		},
	}
	svc, err := NewService(repo)
	if err != nil {
		t.Fatalf("unexpected service error: %v", err)
	}

	if _, err := svc.Register(context.Background(), RegisterCompanyInput{Name: "Acme"}); !errors.Is(err, expectedErr) {
		t.Fatalf("expected repo error to bubble up, got %v", err)
	}
}
