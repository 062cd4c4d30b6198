package categories

import (
	"context"
	"testing"

	"github.com/Aidin1998/qrmenu/common/errors"
	"github.com/Aidin1998/qrmenu/internal/database"
	"github.com/Aidin1998/qrmenu/pkg/models"
	"github.com/Aidin1998/qrmenu/pkg/validation"
	"github.com/Aidin1998/qrmenu/testutil"
	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func setupService(t *testing.T) (CategoryService, *gorm.DB) {
	t.Helper()
	db := testutil.NewDB(t)
	svc, err := NewService(zap.NewNop(), db, validation.NewValidator())
	require.NoError(t, err)
	return svc, db
}

func createCategory(t *testing.T, svc CategoryService, in models.CategoryInput) *models.Category {
	t.Helper()
	category, err := svc.Create(context.Background(), &in)
	require.NoError(t, err)
	return category
}

func names(categories []models.Category) []string {
	result := make([]string, len(categories))
	for i, c := range categories {
		result[i] = c.Name
	}
	return result
}

func TestListRootsOrderedAndActive(t *testing.T) {
	svc, _ := setupService(t)
	ctx := context.Background()

	createCategory(t, svc, models.CategoryInput{Name: "Tatlılar", SortOrder: 2})
	createCategory(t, svc, models.CategoryInput{Name: "Çorbalar", SortOrder: 1})
	createCategory(t, svc, models.CategoryInput{Name: "Arşiv", SortOrder: 3, Active: testutil.Ptr(false)})
	root := createCategory(t, svc, models.CategoryInput{Name: "İçecekler", SortOrder: 4})
	createCategory(t, svc, models.CategoryInput{Name: "Soğuk", ParentID: &root.ID})

	public, err := svc.List(ctx, ListFilter{})
	require.NoError(t, err)
	assert.Equal(t, []string{"Çorbalar", "Tatlılar", "İçecekler"}, names(public))

	all, err := svc.List(ctx, ListFilter{AllLevels: true, IncludeInactive: true})
	require.NoError(t, err)
	assert.Len(t, all, 5)

	children, err := svc.List(ctx, ListFilter{ParentID: &root.ID})
	require.NoError(t, err)
	assert.Equal(t, []string{"Soğuk"}, names(children))
}

func TestListEmpty(t *testing.T) {
	svc, _ := setupService(t)

	categories, err := svc.List(context.Background(), ListFilter{})
	require.NoError(t, err)
	assert.NotNil(t, categories)
	assert.Empty(t, categories)
}

func TestBranchVisibility(t *testing.T) {
	svc, db := setupService(t)
	ctx := context.Background()

	branchA := models.Branch{Name: "Kadıköy", IsActive: true}
	branchB := models.Branch{Name: "Beşiktaş", IsActive: true}
	require.NoError(t, db.Create(&branchA).Error)
	require.NoError(t, db.Create(&branchB).Error)

	createCategory(t, svc, models.CategoryInput{Name: "Global", SortOrder: 1})
	scoped := createCategory(t, svc, models.CategoryInput{Name: "Only A", SortOrder: 2, BranchIDs: []uuid.UUID{branchA.ID, branchA.ID}})
	assert.Equal(t, []uuid.UUID{branchA.ID}, scoped.BranchIDs)

	forA, err := svc.List(ctx, ListFilter{BranchID: &branchA.ID})
	require.NoError(t, err)
	assert.Equal(t, []string{"Global", "Only A"}, names(forA))
	assert.Empty(t, forA[0].BranchIDs)
	assert.Equal(t, []uuid.UUID{branchA.ID}, forA[1].BranchIDs)

	forB, err := svc.List(ctx, ListFilter{BranchID: &branchB.ID})
	require.NoError(t, err)
	assert.Equal(t, []string{"Global"}, names(forB))

	unfiltered, err := svc.List(ctx, ListFilter{})
	require.NoError(t, err)
	assert.Len(t, unfiltered, 2)
}

func TestListIsSingleStatement(t *testing.T) {
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer sqlDB.Close()

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{})
	require.NoError(t, err)

	branch := uuid.New()
	mock.ExpectQuery(`SELECT \* FROM "categories" WHERE active = \$1 AND parent_id IS NULL AND .*NOT EXISTS \(SELECT 1 FROM category_branches bl WHERE bl\.category_id = categories\.id\) OR EXISTS \(SELECT 1 FROM category_branches bl WHERE bl\.category_id = categories\.id AND bl\.branch_id = \$2\).* ORDER BY sort_order ASC, name ASC`).
		WithArgs(true, branch.String()).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "sort_order", "active"}))

	svc, err := NewService(zap.NewNop(), db, validation.NewValidator())
	require.NoError(t, err)

	categories, err := svc.List(context.Background(), ListFilter{BranchID: &branch})
	require.NoError(t, err)
	assert.Empty(t, categories)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateAssignsSortOrder(t *testing.T) {
	svc, _ := setupService(t)

	first := createCategory(t, svc, models.CategoryInput{Name: "A"})
	second := createCategory(t, svc, models.CategoryInput{Name: "B"})
	colliding := createCategory(t, svc, models.CategoryInput{Name: "C", SortOrder: 1})
	assert.Equal(t, 1, first.SortOrder)
	assert.Equal(t, 2, second.SortOrder)
	assert.Equal(t, 3, colliding.SortOrder)

	// siblings are scoped by parent
	child := createCategory(t, svc, models.CategoryInput{Name: "A1", ParentID: &first.ID})
	assert.Equal(t, 1, child.SortOrder)
}

func TestParentDepth(t *testing.T) {
	svc, _ := setupService(t)
	ctx := context.Background()

	root := createCategory(t, svc, models.CategoryInput{Name: "Root"})
	child := createCategory(t, svc, models.CategoryInput{Name: "Child", ParentID: &root.ID})

	_, err := svc.Create(ctx, &models.CategoryInput{Name: "Grandchild", ParentID: &child.ID})
	assert.True(t, errors.Is(err, errors.Invalid))

	missing := uuid.New()
	_, err = svc.Create(ctx, &models.CategoryInput{Name: "Orphan", ParentID: &missing})
	assert.True(t, errors.Is(err, errors.Invalid))

	_, err = svc.Update(ctx, root.ID, &models.CategoryInput{Name: "Root", ParentID: &root.ID})
	assert.True(t, errors.Is(err, errors.Invalid))

	other := createCategory(t, svc, models.CategoryInput{Name: "Other"})
	_, err = svc.Update(ctx, root.ID, &models.CategoryInput{Name: "Root", ParentID: &other.ID})
	assert.True(t, errors.Is(err, errors.Invalid), "a parent with children cannot be nested")
}

func TestCreateValidation(t *testing.T) {
	svc, _ := setupService(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, &models.CategoryInput{Name: "  "})
	assert.True(t, errors.Is(err, errors.Invalid))

	_, err = svc.Create(ctx, &models.CategoryInput{Name: "X", BranchIDs: []uuid.UUID{uuid.New()}})
	assert.True(t, errors.Is(err, errors.Invalid))

	created := createCategory(t, svc, models.CategoryInput{Name: "<b>Kahvaltı</b>"})
	assert.Equal(t, "Kahvaltı", created.Name)
}

func TestUpdate(t *testing.T) {
	svc, db := setupService(t)
	ctx := context.Background()

	branch := models.Branch{Name: "Merkez", IsActive: true}
	require.NoError(t, db.Create(&branch).Error)

	category := createCategory(t, svc, models.CategoryInput{Name: "Eski", BranchIDs: []uuid.UUID{branch.ID}})
	updated, err := svc.Update(ctx, category.ID, &models.CategoryInput{
		Name:      "Yeni",
		NameEN:    testutil.Ptr("New"),
		SortOrder: 5,
		Active:    testutil.Ptr(false),
	})
	require.NoError(t, err)
	assert.Equal(t, "Yeni", updated.Name)
	assert.Equal(t, 5, updated.SortOrder)
	assert.False(t, updated.Active)
	assert.Empty(t, updated.BranchIDs)

	loaded, err := svc.Get(ctx, category.ID)
	require.NoError(t, err)
	assert.Equal(t, "New", *loaded.NameEN)
	assert.Empty(t, loaded.BranchIDs)

	_, err = svc.Update(ctx, uuid.New(), &models.CategoryInput{Name: "Nope"})
	assert.True(t, errors.Is(err, errors.NotFound))
}

func TestDeleteLeavesChildrenAndProducts(t *testing.T) {
	svc, db := setupService(t)
	ctx := context.Background()

	branch := models.Branch{Name: "Merkez", IsActive: true}
	require.NoError(t, db.Create(&branch).Error)

	root := createCategory(t, svc, models.CategoryInput{Name: "Root", ImageURL: testutil.Ptr("/uploads/img/root.png"), BranchIDs: []uuid.UUID{branch.ID}})
	child := createCategory(t, svc, models.CategoryInput{Name: "Child", ParentID: &root.ID})
	product := models.Product{CategoryID: root.ID, Name: "Simit", Active: true}
	require.NoError(t, db.Create(&product).Error)

	removed, err := svc.Delete(ctx, root.ID)
	require.NoError(t, err)
	assert.Equal(t, "/uploads/img/root.png", *removed.ImageURL)

	_, err = svc.Get(ctx, root.ID)
	assert.True(t, errors.Is(err, errors.NotFound))

	orphan, err := svc.Get(ctx, child.ID)
	require.NoError(t, err)
	assert.Equal(t, root.ID, *orphan.ParentID)

	var productCount int64
	require.NoError(t, db.Model(&models.Product{}).Where("id = ?", product.ID).Count(&productCount).Error)
	assert.Equal(t, int64(1), productCount)

	links, err := database.CategoryBranches.Load(db, []uuid.UUID{root.ID})
	require.NoError(t, err)
	assert.Empty(t, links[root.ID])

	_, err = svc.Delete(ctx, root.ID)
	assert.True(t, errors.Is(err, errors.NotFound))
}

func TestHasSubcategories(t *testing.T) {
	svc, _ := setupService(t)
	ctx := context.Background()

	root := createCategory(t, svc, models.CategoryInput{Name: "Root"})
	has, err := svc.HasSubcategories(ctx, root.ID)
	require.NoError(t, err)
	assert.False(t, has)

	createCategory(t, svc, models.CategoryInput{Name: "Hidden", ParentID: &root.ID, Active: testutil.Ptr(false)})
	has, err = svc.HasSubcategories(ctx, root.ID)
	require.NoError(t, err)
	assert.False(t, has)

	createCategory(t, svc, models.CategoryInput{Name: "Visible", ParentID: &root.ID})
	has, err = svc.HasSubcategories(ctx, root.ID)
	require.NoError(t, err)
	assert.True(t, has)
}

func TestFindByName(t *testing.T) {
	svc, _ := setupService(t)
	ctx := context.Background()

	root := createCategory(t, svc, models.CategoryInput{Name: "İçecekler"})
	child := createCategory(t, svc, models.CategoryInput{Name: "Soğuk İçecekler", ParentID: &root.ID})

	found, err := svc.FindByName(ctx, "İÇECEKLER", nil)
	require.NoError(t, err)
	assert.Equal(t, root.ID, found.ID)

	found, err = svc.FindByName(ctx, "soğuk içecekler", &root.ID)
	require.NoError(t, err)
	assert.Equal(t, child.ID, found.ID)

	_, err = svc.FindByName(ctx, "Soğuk İçecekler", nil)
	assert.True(t, errors.Is(err, errors.NotFound))
}
