package branches

import (
	"context"

	"github.com/Aidin1998/qrmenu/common/dbutil"
	"github.com/Aidin1998/qrmenu/common/errors"
	"github.com/Aidin1998/qrmenu/internal/database"
	"github.com/Aidin1998/qrmenu/pkg/models"
	"github.com/Aidin1998/qrmenu/pkg/validation"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// BranchService defines branch operations.
type BranchService interface {
	List(ctx context.Context, includeInactive bool) ([]models.Branch, error)
	Get(ctx context.Context, id uuid.UUID) (*models.Branch, error)
	GetBySubdomain(ctx context.Context, subdomain string) (*models.Branch, error)
	Detect(ctx context.Context, host string) (*Detection, error)
	Create(ctx context.Context, in *models.BranchInput) (*models.Branch, error)
	Update(ctx context.Context, id uuid.UUID, in *models.BranchInput) (*models.Branch, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// Detection is the branch resolved from a request host.
type Detection struct {
	Status    DetectionStatus `json:"status"`
	Subdomain string          `json:"subdomain,omitempty"`
	Branch    *models.Branch  `json:"branch,omitempty"`
}

var errSubdomainTaken = errors.Conflict.Explain("Subdomain already exists")

// Service implements BranchService
type Service struct {
	logger   *zap.Logger
	db       *gorm.DB
	validate *validation.Validator
}

// NewService creates a new BranchService
func NewService(logger *zap.Logger, db *gorm.DB, validate *validation.Validator) (BranchService, error) {
	return &Service{logger: logger, db: db, validate: validate}, nil
}

// List returns branches ordered by sort order then name.
func (s *Service) List(ctx context.Context, includeInactive bool) ([]models.Branch, error) {
	query := s.db.WithContext(ctx).Model(&models.Branch{})
	if !includeInactive {
		query = query.Where("is_active = ?", true)
	}

	branches := []models.Branch{}
	if err := query.Order("sort_order ASC, name ASC").Find(&branches).Error; err != nil {
		return nil, dbutil.WrapError(err)
	}
	return branches, nil
}

// Get returns a branch by id, active or not.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (*models.Branch, error) {
	branch, err := dbutil.FindOne[models.Branch](s.db.WithContext(ctx).Where("id = ?", id))
	if err != nil {
		return nil, notFound(err)
	}
	return branch, nil
}

// GetBySubdomain returns the active branch with exactly this subdomain.
func (s *Service) GetBySubdomain(ctx context.Context, subdomain string) (*models.Branch, error) {
	if subdomain == "" {
		return nil, errors.NotFound.Explain("Branch not found")
	}
	branch, err := dbutil.FindOne[models.Branch](
		s.db.WithContext(ctx).Where("subdomain = ? AND is_active = ?", subdomain, true),
	)
	if err != nil {
		return nil, notFound(err)
	}
	return branch, nil
}

// Detect resolves the branch addressed by host.
func (s *Service) Detect(ctx context.Context, host string) (*Detection, error) {
	subdomain, ok := ParseSubdomain(host)
	if !ok {
		return &Detection{Status: DetectionNone}, nil
	}

	branch, err := s.GetBySubdomain(ctx, subdomain)
	if errors.Is(err, errors.NotFound) {
		return &Detection{Status: DetectionNotFound, Subdomain: subdomain}, nil
	} else if err != nil {
		return nil, err
	}
	return &Detection{Status: DetectionFound, Subdomain: subdomain, Branch: branch}, nil
}

// Create stores a new branch. Subdomains are unique among branches.
func (s *Service) Create(ctx context.Context, in *models.BranchInput) (*models.Branch, error) {
	branch := &models.Branch{}
	if err := s.apply(branch, in); err != nil {
		return nil, err
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := checkSubdomain(tx, branch.Subdomain, nil); err != nil {
			return err
		}
		return conflict(tx.Create(branch).Error)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("branch created", zap.String("branch_id", branch.ID.String()), zap.String("name", branch.Name))
	return branch, nil
}

// Update replaces the writable fields of a branch.
func (s *Service) Update(ctx context.Context, id uuid.UUID, in *models.BranchInput) (*models.Branch, error) {
	var branch *models.Branch
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		branch, err = dbutil.FindOne[models.Branch](tx.Where("id = ?", id))
		if err != nil {
			return notFound(err)
		}
		if err := s.apply(branch, in); err != nil {
			return err
		}
		if err := checkSubdomain(tx, branch.Subdomain, &branch.ID); err != nil {
			return err
		}
		return conflict(tx.Save(branch).Error)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("branch updated", zap.String("branch_id", id.String()))
	return branch, nil
}

// Delete removes a branch together with its category and product links and
// its settings overrides.
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := dbutil.FindOne[models.Branch](tx.Where("id = ?", id)); err != nil {
			return notFound(err)
		}
		if err := database.CategoryBranches.DeleteBranch(tx, id); err != nil {
			return dbutil.WrapError(err)
		}
		if err := database.ProductBranches.DeleteBranch(tx, id); err != nil {
			return dbutil.WrapError(err)
		}
		if err := tx.Where("branch_id = ?", id).Delete(&models.SettingEntry{}).Error; err != nil {
			return dbutil.WrapError(err)
		}
		return dbutil.WrapError(tx.Delete(&models.Branch{}, "id = ?", id).Error)
	})
	if err != nil {
		return err
	}

	s.logger.Info("branch deleted", zap.String("branch_id", id.String()))
	return nil
}

func (s *Service) apply(branch *models.Branch, in *models.BranchInput) error {
	if in.Subdomain != nil && *in.Subdomain == "" {
		in.Subdomain = nil
	}
	if err := s.validate.Validate(in); err != nil {
		return err
	}
	branch.Name = s.validate.Text(in.Name)
	if branch.Name == "" {
		return errors.Invalid.Explain("name is required")
	}
	branch.Subdomain = in.Subdomain
	branch.SortOrder = in.SortOrder
	branch.IsActive = in.IsActive == nil || *in.IsActive
	return nil
}

func checkSubdomain(tx *gorm.DB, subdomain *string, self *uuid.UUID) error {
	if subdomain == nil {
		return nil
	}
	query := tx.Where("subdomain = ?", *subdomain)
	if self != nil {
		query = query.Where("id <> ?", *self)
	}
	taken, err := dbutil.Exists(query, &models.Branch{})
	if err != nil {
		return err
	}
	if taken {
		return errSubdomainTaken
	}
	return nil
}

// conflict maps a unique index violation that slipped past checkSubdomain.
func conflict(err error) error {
	err = dbutil.WrapError(err)
	if errors.Is(err, errors.Conflict) {
		return errSubdomainTaken.Wrap(err)
	}
	return err
}

func notFound(err error) error {
	if errors.Is(err, errors.NotFound) {
		return errors.NotFound.Explain("Branch not found")
	}
	return err
}
