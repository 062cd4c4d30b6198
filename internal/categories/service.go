package categories

import (
	"context"

	"github.com/Aidin1998/qrmenu/common/dbutil"
	"github.com/Aidin1998/qrmenu/common/errors"
	"github.com/Aidin1998/qrmenu/common/set"
	"github.com/Aidin1998/qrmenu/internal/database"
	"github.com/Aidin1998/qrmenu/internal/sortorder"
	"github.com/Aidin1998/qrmenu/internal/textutil"
	"github.com/Aidin1998/qrmenu/pkg/models"
	"github.com/Aidin1998/qrmenu/pkg/validation"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// CategoryService defines menu category operations.
type CategoryService interface {
	List(ctx context.Context, filter ListFilter) ([]models.Category, error)
	Get(ctx context.Context, id uuid.UUID) (*models.Category, error)
	HasSubcategories(ctx context.Context, id uuid.UUID) (bool, error)
	Create(ctx context.Context, in *models.CategoryInput) (*models.Category, error)
	Update(ctx context.Context, id uuid.UUID, in *models.CategoryInput) (*models.Category, error)
	Delete(ctx context.Context, id uuid.UUID) (*models.Category, error)
	FindByName(ctx context.Context, name string, parentID *uuid.UUID) (*models.Category, error)
}

// ListFilter narrows a category listing.
type ListFilter struct {
	// ParentID selects children of a category; nil selects root categories.
	ParentID *uuid.UUID
	// AllLevels ignores ParentID and lists roots and subcategories together.
	AllLevels bool
	// BranchID keeps categories visible on the branch: those linked to it
	// and those linked to no branch at all.
	BranchID        *uuid.UUID
	IncludeInactive bool
}

// Service implements CategoryService
type Service struct {
	logger   *zap.Logger
	db       *gorm.DB
	validate *validation.Validator
}

// NewService creates a new CategoryService
func NewService(logger *zap.Logger, db *gorm.DB, validate *validation.Validator) (CategoryService, error) {
	return &Service{logger: logger, db: db, validate: validate}, nil
}

func listQuery(db *gorm.DB, filter ListFilter) *gorm.DB {
	query := db.Model(&models.Category{})
	if !filter.IncludeInactive {
		query = query.Where("active = ?", true)
	}
	if !filter.AllLevels {
		if filter.ParentID == nil {
			query = query.Where("parent_id IS NULL")
		} else {
			query = query.Where("parent_id = ?", *filter.ParentID)
		}
	}
	if filter.BranchID != nil {
		query = query.Where(database.CategoryBranches.Visible(), *filter.BranchID)
	}
	return query.Order("sort_order ASC, name ASC")
}

// List returns the categories matching filter ordered by sort order then name.
func (s *Service) List(ctx context.Context, filter ListFilter) ([]models.Category, error) {
	db := s.db.WithContext(ctx)

	categories := []models.Category{}
	if err := listQuery(db, filter).Find(&categories).Error; err != nil {
		return nil, dbutil.WrapError(err)
	}
	if err := attachBranches(db, categories); err != nil {
		return nil, err
	}
	return categories, nil
}

// Get returns a single category with its branch links.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (*models.Category, error) {
	db := s.db.WithContext(ctx)

	category, err := dbutil.FindOne[models.Category](db.Where("id = ?", id))
	if err != nil {
		return nil, notFound(err)
	}

	links, err := database.CategoryBranches.Load(db, []uuid.UUID{category.ID})
	if err != nil {
		return nil, dbutil.WrapError(err)
	}
	category.BranchIDs = links[category.ID]
	return category, nil
}

// HasSubcategories reports whether the category has active children.
func (s *Service) HasSubcategories(ctx context.Context, id uuid.UUID) (bool, error) {
	return dbutil.Exists(s.db.WithContext(ctx).Where("parent_id = ? AND active = ?", id, true), &models.Category{})
}

// Create stores a new category. A zero sort order places it after its siblings.
func (s *Service) Create(ctx context.Context, in *models.CategoryInput) (*models.Category, error) {
	category := &models.Category{}
	if err := s.apply(category, in); err != nil {
		return nil, err
	}
	branchIDs := set.Unique(in.BranchIDs)

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := checkParent(tx, nil, category.ParentID); err != nil {
			return err
		}
		if err := database.CheckBranches(tx, branchIDs); err != nil {
			return err
		}
		taken, err := siblingOrders(tx, category.ParentID, nil)
		if err != nil {
			return err
		}
		category.SortOrder = sortorder.Assign(category.SortOrder, taken)

		if err := tx.Create(category).Error; err != nil {
			return dbutil.WrapError(err)
		}
		return dbutil.WrapError(database.CategoryBranches.Replace(tx, category.ID, branchIDs))
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("category created", zap.String("category_id", category.ID.String()), zap.String("name", category.Name))
	category.BranchIDs = branchIDs
	return category, nil
}

// Update replaces the writable fields of a category and its branch links.
func (s *Service) Update(ctx context.Context, id uuid.UUID, in *models.CategoryInput) (*models.Category, error) {
	var category *models.Category
	branchIDs := set.Unique(in.BranchIDs)

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		category, err = dbutil.FindOne[models.Category](tx.Where("id = ?", id))
		if err != nil {
			return notFound(err)
		}
		if err := s.apply(category, in); err != nil {
			return err
		}
		if err := checkParent(tx, &category.ID, category.ParentID); err != nil {
			return err
		}
		if err := database.CheckBranches(tx, branchIDs); err != nil {
			return err
		}
		taken, err := siblingOrders(tx, category.ParentID, &category.ID)
		if err != nil {
			return err
		}
		category.SortOrder = sortorder.Assign(category.SortOrder, taken)

		if err := tx.Save(category).Error; err != nil {
			return dbutil.WrapError(err)
		}
		return dbutil.WrapError(database.CategoryBranches.Replace(tx, category.ID, branchIDs))
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("category updated", zap.String("category_id", category.ID.String()))
	category.BranchIDs = branchIDs
	return category, nil
}

// Delete removes a category and its branch links. Subcategories and products
// of the category are left in place. The removed category is returned so the
// caller can clean up its image.
func (s *Service) Delete(ctx context.Context, id uuid.UUID) (*models.Category, error) {
	var category *models.Category
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		category, err = dbutil.FindOne[models.Category](tx.Where("id = ?", id))
		if err != nil {
			return notFound(err)
		}
		if err := database.CategoryBranches.DeleteOwner(tx, id); err != nil {
			return dbutil.WrapError(err)
		}
		return dbutil.WrapError(tx.Delete(&models.Category{}, "id = ?", id).Error)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("category deleted", zap.String("category_id", id.String()))
	return category, nil
}

// FindByName looks a category up by name under parentID (nil for roots),
// ignoring case with Turkish folding rules. Inactive categories match too.
func (s *Service) FindByName(ctx context.Context, name string, parentID *uuid.UUID) (*models.Category, error) {
	query := s.db.WithContext(ctx).Model(&models.Category{})
	if parentID == nil {
		query = query.Where("parent_id IS NULL")
	} else {
		query = query.Where("parent_id = ?", *parentID)
	}

	var candidates []models.Category
	if err := query.Order("sort_order ASC").Find(&candidates).Error; err != nil {
		return nil, dbutil.WrapError(err)
	}

	key := textutil.Fold(name)
	for i := range candidates {
		if textutil.Fold(candidates[i].Name) == key {
			return &candidates[i], nil
		}
	}
	return nil, errors.NotFound.Explain("Category not found")
}

func (s *Service) apply(category *models.Category, in *models.CategoryInput) error {
	if err := s.validate.Validate(in); err != nil {
		return err
	}
	category.Name = s.validate.Text(in.Name)
	if category.Name == "" {
		return errors.Invalid.Explain("name is required")
	}
	category.NameEN = s.validate.OptionalText(in.NameEN)
	category.ImageURL = blankToNil(in.ImageURL)
	category.ParentID = in.ParentID
	category.SortOrder = in.SortOrder
	category.Active = in.Active == nil || *in.Active
	return nil
}

// checkParent enforces the two level hierarchy: a parent must be a root and
// a category that has children cannot become a child itself.
func checkParent(tx *gorm.DB, self, parentID *uuid.UUID) error {
	if parentID == nil {
		return nil
	}
	if self != nil && *self == *parentID {
		return errors.Invalid.Explain("a category cannot be its own parent")
	}

	parent, err := dbutil.FindOne[models.Category](tx.Where("id = ?", *parentID))
	if errors.Is(err, errors.NotFound) {
		return errors.Invalid.Explain("parent category not found")
	} else if err != nil {
		return err
	}
	if parent.ParentID != nil {
		return errors.Invalid.Explain("subcategories cannot have subcategories")
	}

	if self != nil {
		hasChildren, err := dbutil.Exists(tx.Where("parent_id = ?", *self), &models.Category{})
		if err != nil {
			return err
		}
		if hasChildren {
			return errors.Invalid.Explain("a category with subcategories cannot be moved under another category")
		}
	}
	return nil
}

func siblingOrders(tx *gorm.DB, parentID, exclude *uuid.UUID) (set.Set[int], error) {
	query := tx.Model(&models.Category{})
	if parentID == nil {
		query = query.Where("parent_id IS NULL")
	} else {
		query = query.Where("parent_id = ?", *parentID)
	}
	if exclude != nil {
		query = query.Where("id <> ?", *exclude)
	}

	var orders []int
	if err := query.Pluck("sort_order", &orders).Error; err != nil {
		return nil, dbutil.WrapError(err)
	}
	return set.FromSlice(orders), nil
}

func attachBranches(db *gorm.DB, categories []models.Category) error {
	ids := make([]uuid.UUID, len(categories))
	for i := range categories {
		ids[i] = categories[i].ID
	}
	links, err := database.CategoryBranches.Load(db, ids)
	if err != nil {
		return dbutil.WrapError(err)
	}
	for i := range categories {
		categories[i].BranchIDs = links[categories[i].ID]
	}
	return nil
}

func notFound(err error) error {
	if errors.Is(err, errors.NotFound) {
		return errors.NotFound.Explain("Category not found")
	}
	return err
}

func blankToNil(s *string) *string {
	if s == nil || *s == "" {
		return nil
	}
	return s
}
