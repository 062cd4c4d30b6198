package settings

import (
	"context"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/Aidin1998/qrmenu/common/dbutil"
	"github.com/Aidin1998/qrmenu/common/errors"
	"github.com/Aidin1998/qrmenu/pkg/models"
	"github.com/go-viper/mapstructure/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const maxValueLength = 2048

var colorPattern = regexp.MustCompile(`^#(?:[0-9a-fA-F]{3}|[0-9a-fA-F]{6})$`)

// SettingsService defines presentation settings operations.
type SettingsService interface {
	Get(ctx context.Context, branchID *uuid.UUID) (map[string]string, error)
	Typed(ctx context.Context, branchID *uuid.UUID) (*models.Settings, error)
	Update(ctx context.Context, branchID *uuid.UUID, values map[string]string) (map[string]string, error)
	Seed(ctx context.Context) (int, error)
}

// Service implements SettingsService
type Service struct {
	logger *zap.Logger
	db     *gorm.DB
}

// NewService creates a new SettingsService
func NewService(logger *zap.Logger, db *gorm.DB) (SettingsService, error) {
	return &Service{logger: logger, db: db}, nil
}

// Get folds the stored rows into one flat map. Every recognised key is
// present: a branch row wins over the global row, which wins over the
// compiled default.
func (s *Service) Get(ctx context.Context, branchID *uuid.UUID) (map[string]string, error) {
	return s.fold(s.db.WithContext(ctx), branchID)
}

func (s *Service) fold(db *gorm.DB, branchID *uuid.UUID) (map[string]string, error) {
	query := db.Model(&models.SettingEntry{})
	if branchID == nil {
		query = query.Where("branch_id IS NULL")
	} else {
		query = query.Where("branch_id IS NULL OR branch_id = ?", *branchID)
	}

	var entries []models.SettingEntry
	if err := query.Find(&entries).Error; err != nil {
		return nil, dbutil.WrapError(err)
	}

	values := models.DefaultSettings()
	// global rows first so branch rows override them
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].BranchID == nil && entries[j].BranchID != nil
	})
	for _, entry := range entries {
		if _, ok := models.LookupSetting(entry.SettingKey); ok {
			values[entry.SettingKey] = entry.SettingValue
		}
	}
	return values, nil
}

// Typed returns the folded settings decoded into models.Settings.
func (s *Service) Typed(ctx context.Context, branchID *uuid.UUID) (*models.Settings, error) {
	values, err := s.Get(ctx, branchID)
	if err != nil {
		return nil, err
	}
	return Decode(values)
}

// Decode converts a folded settings map into the typed record.
func Decode(values map[string]string) (*models.Settings, error) {
	settings := &models.Settings{}
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:          "json",
		WeaklyTypedInput: true,
		Result:           settings,
	})
	if err != nil {
		return nil, err
	}
	if err := decoder.Decode(values); err != nil {
		return nil, errors.Invalid.Explain("malformed settings").Wrap(err)
	}
	return settings, nil
}

// Update validates every key and value, then upserts the rows for branchID
// (nil for the global rows) in one transaction. The folded view after the
// update is returned.
func (s *Service) Update(ctx context.Context, branchID *uuid.UUID, values map[string]string) (map[string]string, error) {
	if len(values) == 0 {
		return nil, errors.Invalid.Explain("no settings given")
	}
	if err := Validate(values); err != nil {
		return nil, err
	}

	keys := make([]string, 0, len(values))
	for key := range values {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	var folded map[string]string
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if branchID != nil {
			exists, err := dbutil.Exists(tx.Where("id = ?", *branchID), &models.Branch{})
			if err != nil {
				return err
			}
			if !exists {
				return errors.NotFound.Explain("Branch not found")
			}
		}

		for _, key := range keys {
			if err := upsert(tx, branchID, key, strings.TrimSpace(values[key])); err != nil {
				return err
			}
		}

		var err error
		folded, err = s.fold(tx, branchID)
		return err
	})
	if err != nil {
		return nil, err
	}

	fields := []zap.Field{zap.Strings("keys", keys)}
	if branchID != nil {
		fields = append(fields, zap.String("branch_id", branchID.String()))
	}
	s.logger.Info("settings updated", fields...)
	return folded, nil
}

func upsert(tx *gorm.DB, branchID *uuid.UUID, key, value string) error {
	query := tx.Model(&models.SettingEntry{}).Where("setting_key = ?", key)
	if branchID == nil {
		query = query.Where("branch_id IS NULL")
	} else {
		query = query.Where("branch_id = ?", *branchID)
	}

	result := query.Update("setting_value", value)
	if result.Error != nil {
		return dbutil.WrapError(result.Error)
	}
	if result.RowsAffected > 0 {
		return nil
	}

	entry := &models.SettingEntry{SettingKey: key, SettingValue: value, BranchID: branchID}
	return dbutil.WrapError(tx.Create(entry).Error)
}

// Seed inserts the compiled default of every key lacking a global row and
// returns how many rows were created.
func (s *Service) Seed(ctx context.Context) (int, error) {
	created := 0
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing []string
		if err := tx.Model(&models.SettingEntry{}).Where("branch_id IS NULL").Pluck("setting_key", &existing).Error; err != nil {
			return dbutil.WrapError(err)
		}
		present := make(map[string]bool, len(existing))
		for _, key := range existing {
			present[key] = true
		}

		for _, spec := range models.SettingSpecs {
			if present[spec.Key] {
				continue
			}
			entry := &models.SettingEntry{SettingKey: spec.Key, SettingValue: spec.Default}
			if err := tx.Create(entry).Error; err != nil {
				return dbutil.WrapError(err)
			}
			created++
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	if created > 0 {
		s.logger.Info("default settings seeded", zap.Int("created", created))
	}
	return created, nil
}

// Validate checks that every key is recognised and every value fits its kind.
// The first offending key is named in the error; all of them are listed as
// field errors.
func Validate(values map[string]string) error {
	keys := make([]string, 0, len(values))
	for key := range values {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	var invalid *errors.Error
	for _, key := range keys {
		reason := check(key, strings.TrimSpace(values[key]))
		if reason == "" {
			continue
		}
		if invalid == nil {
			invalid = errors.Invalid.Explain("%s: %s", key, reason)
		}
		invalid = invalid.WithField("setting", key, reason)
	}
	if invalid != nil {
		return invalid
	}
	return nil
}

func check(key, value string) string {
	spec, ok := models.LookupSetting(key)
	if !ok {
		return "unknown setting"
	}
	if len(value) > maxValueLength {
		return "value too long"
	}

	switch spec.Kind {
	case models.SettingColor:
		if !colorPattern.MatchString(value) {
			return "must be a #rgb or #rrggbb color"
		}
	case models.SettingSize:
		n, err := strconv.Atoi(value)
		if err != nil || n <= 0 {
			return "must be a positive integer"
		}
	case models.SettingGrid:
		if value != "one" && value != "two" {
			return `must be "one" or "two"`
		}
	case models.SettingURL:
		if value != "" && !strings.HasPrefix(value, "/") &&
			!strings.HasPrefix(value, "http://") && !strings.HasPrefix(value, "https://") {
			return "must be an absolute URL or a path"
		}
	}
	return ""
}
