package settings

import (
	"context"
	"testing"

	"github.com/Aidin1998/qrmenu/common/errors"
	"github.com/Aidin1998/qrmenu/pkg/models"
	"github.com/Aidin1998/qrmenu/testutil"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func setup(t *testing.T) (SettingsService, *gorm.DB) {
	t.Helper()
	db := testutil.NewDB(t)
	svc, err := NewService(zap.NewNop(), db)
	require.NoError(t, err)
	return svc, db
}

func TestGetDefaults(t *testing.T) {
	svc, _ := setup(t)

	values, err := svc.Get(context.Background(), nil)
	require.NoError(t, err)
	assert.Len(t, values, len(models.SettingSpecs))
	assert.Equal(t, "#ffffff", values["bg_color"])
	assert.Equal(t, "two", values["category_grid"])
}

func TestSeedIsIdempotent(t *testing.T) {
	svc, db := setup(t)
	ctx := context.Background()

	created, err := svc.Seed(ctx)
	require.NoError(t, err)
	assert.Equal(t, len(models.SettingSpecs), created)

	created, err = svc.Seed(ctx)
	require.NoError(t, err)
	assert.Zero(t, created)

	var count int64
	require.NoError(t, db.Model(&models.SettingEntry{}).Count(&count).Error)
	assert.Equal(t, int64(len(models.SettingSpecs)), count)
}

func TestBranchFallbackPerKey(t *testing.T) {
	svc, db := setup(t)
	ctx := context.Background()

	branch := models.Branch{Name: "Moda", IsActive: true}
	require.NoError(t, db.Create(&branch).Error)
	_, err := svc.Seed(ctx)
	require.NoError(t, err)

	_, err = svc.Update(ctx, nil, map[string]string{"header_bg_color": "#111111", "nav_bg_color": "#222222"})
	require.NoError(t, err)
	_, err = svc.Update(ctx, &branch.ID, map[string]string{"header_bg_color": "#333333"})
	require.NoError(t, err)

	forBranch, err := svc.Get(ctx, &branch.ID)
	require.NoError(t, err)
	assert.Equal(t, "#333333", forBranch["header_bg_color"])
	assert.Equal(t, "#222222", forBranch["nav_bg_color"])

	global, err := svc.Get(ctx, nil)
	require.NoError(t, err)
	assert.Equal(t, "#111111", global["header_bg_color"])

	other := uuid.New()
	unknownBranch, err := svc.Get(ctx, &other)
	require.NoError(t, err)
	assert.Equal(t, "#111111", unknownBranch["header_bg_color"])
}

func TestUpdateUpserts(t *testing.T) {
	svc, db := setup(t)
	ctx := context.Background()

	for _, color := range []string{"#abc", "#A1B2C3"} {
		values, err := svc.Update(ctx, nil, map[string]string{"product_price_color": color})
		require.NoError(t, err)
		assert.Equal(t, color, values["product_price_color"])
	}

	var count int64
	require.NoError(t, db.Model(&models.SettingEntry{}).Where("setting_key = ?", "product_price_color").Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestUpdateRejectsInvalid(t *testing.T) {
	svc, db := setup(t)
	ctx := context.Background()

	tests := []map[string]string{
		{"favourite_food": "lahmacun"},
		{"header_bg_color": "red"},
		{"logo_width": "-10"},
		{"category_grid": "three"},
		{"logo_url": "javascript:alert(1)"},
		{},
	}
	for _, values := range tests {
		_, err := svc.Update(ctx, nil, values)
		assert.True(t, errors.Is(err, errors.Invalid), "%v", values)
	}

	// a single bad key rejects the whole batch
	_, err := svc.Update(ctx, nil, map[string]string{"nav_bg_color": "#000000", "bogus": "1"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bogus")

	var count int64
	require.NoError(t, db.Model(&models.SettingEntry{}).Count(&count).Error)
	assert.Zero(t, count)

	missing := uuid.New()
	_, err = svc.Update(ctx, &missing, map[string]string{"nav_bg_color": "#000000"})
	assert.True(t, errors.Is(err, errors.NotFound))
}

func TestTyped(t *testing.T) {
	svc, _ := setup(t)
	ctx := context.Background()

	_, err := svc.Update(ctx, nil, map[string]string{"logo_width": "180", "product_grid": "two", "site_title": "Kafe"})
	require.NoError(t, err)

	typed, err := svc.Typed(ctx, nil)
	require.NoError(t, err)
	assert.Equal(t, 180, typed.LogoWidth)
	assert.Equal(t, "two", typed.ProductGrid)
	assert.Equal(t, "Kafe", typed.SiteTitle)
	assert.Equal(t, 24, typed.WelcomeFontSize)
}
