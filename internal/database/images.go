package database

import (
	"context"
	"strings"

	"github.com/Aidin1998/qrmenu/common/dbutil"
	"github.com/Aidin1998/qrmenu/pkg/models"
	"gorm.io/gorm"
)

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// ImageReferences looks up stored images in the catalogue tables.
type ImageReferences struct {
	db *gorm.DB
}

func NewImageReferences(db *gorm.DB) *ImageReferences {
	return &ImageReferences{db: db}
}

// ImageInUse reports whether any product or category image_url names the
// file, either bare or as the last element of a URL.
func (r *ImageReferences) ImageInUse(ctx context.Context, filename string) (bool, error) {
	suffix := "%/" + likeEscaper.Replace(filename)
	for _, model := range []any{&models.Product{}, &models.Category{}} {
		found, err := dbutil.Exists(r.db.WithContext(ctx).
			Where(`image_url = ? OR image_url LIKE ? ESCAPE '\'`, filename, suffix), model)
		if err != nil {
			return false, err
		}
		if found {
			return true, nil
		}
	}
	return false, nil
}
