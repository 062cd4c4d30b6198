// Package media stores uploaded menu images.
package media

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"os"
	"path"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/Aidin1998/qrmenu/common/errors"
	"github.com/gabriel-vasile/mimetype"
	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/util"
	"go.uber.org/zap"
)

// Dir is the directory images are written to, relative to the store root.
const Dir = "img"

var (
	unsafeChars = regexp.MustCompile(`[^a-zA-Z0-9._-]`)

	allowedTypes = map[string]string{
		"image/jpeg": ".jpg",
		"image/png":  ".png",
		"image/gif":  ".gif",
		"image/webp": ".webp",
	}
	allowedExts = map[string]bool{".jpg": true, ".jpeg": true, ".png": true, ".gif": true, ".webp": true}

	kinds = map[string]bool{"logo": true, "header-logo": true, "kategori": true, "urun": true}

	errNotImage     = errors.Invalid.Explain("Only image files are allowed")
	errFileNotFound = errors.NotFound.Explain("File not found")
)

// Upload describes an incoming image.
type Upload struct {
	// Kind prefixes generated names: logo, header-logo, kategori or urun.
	Kind string
	// Filename is the name requested by the client. It wins over a generated name.
	Filename     string
	OriginalName string
	Body         io.Reader
}

// Image is a stored image.
type Image struct {
	Filename    string `json:"filename"`
	ContentType string `json:"content_type"`
	Size        int64  `json:"size"`
}

// References reports whether a stored image is still used by a catalogue row.
type References interface {
	ImageInUse(ctx context.Context, filename string) (bool, error)
}

// Store keeps images on a billy filesystem.
type Store struct {
	logger   *zap.Logger
	fs       billy.Filesystem
	maxBytes int64
	refs     References
	now      func() time.Time
}

// Option configures a Store.
type Option func(*Store)

// WithReferences makes Release keep images that are still referenced.
func WithReferences(refs References) Option {
	return func(s *Store) { s.refs = refs }
}

func NewStore(logger *zap.Logger, fs billy.Filesystem, maxBytes int64, opts ...Option) *Store {
	if maxBytes <= 0 {
		maxBytes = 5 << 20
	}
	s := &Store{logger: logger, fs: fs, maxBytes: maxBytes, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// MaxBytes is the largest accepted upload.
func (s *Store) MaxBytes() int64 { return s.maxBytes }

// Save sniffs, names and writes an uploaded image. An existing file with
// the same name is replaced.
func (s *Store) Save(_ context.Context, up Upload) (*Image, error) {
	if up.Body == nil {
		return nil, errors.Invalid.Explain("No file uploaded")
	}
	if up.Kind != "" && !kinds[up.Kind] {
		return nil, errors.Invalid.Explain("unknown image kind %q", up.Kind)
	}

	data, err := io.ReadAll(io.LimitReader(up.Body, s.maxBytes+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read upload: %w", err)
	}
	if int64(len(data)) > s.maxBytes {
		return nil, errors.TooLarge.Explain("File too large (max %d bytes)", s.maxBytes)
	}
	if len(data) == 0 {
		return nil, errors.Invalid.Explain("No file uploaded")
	}

	mt := mimetype.Detect(data)
	ext, ok := allowedTypes[mt.String()]
	if !ok {
		return nil, errNotImage
	}

	name := s.filename(up, ext)
	if err := util.WriteFile(s.fs, path.Join(Dir, name), data, 0o644); err != nil {
		return nil, fmt.Errorf("failed to write image: %w", err)
	}

	s.logger.Info("image stored", zap.String("filename", name), zap.String("content_type", mt.String()), zap.Int("size", len(data)))
	return &Image{Filename: name, ContentType: mt.String(), Size: int64(len(data))}, nil
}

func (s *Store) filename(up Upload, ext string) string {
	name := path.Base(strings.ReplaceAll(up.Filename, `\`, "/"))
	if up.Filename == "" {
		original := path.Base(strings.ReplaceAll(up.OriginalName, `\`, "/"))
		if up.OriginalName == "" {
			original = "image" + ext
		}
		name = strconv.FormatInt(s.now().UnixMilli(), 10) + "_" + original
		if up.Kind != "" {
			name = up.Kind + "_" + name
		}
	}

	name = unsafeChars.ReplaceAllString(name, "_")
	name = strings.TrimLeft(name, ".")
	if name == "" {
		name = "image"
	}
	if !allowedExts[strings.ToLower(path.Ext(name))] {
		name += ext
	}
	return name
}

// Open returns a stored image for reading.
func (s *Store) Open(name string) (billy.File, os.FileInfo, error) {
	name, err := basename(name)
	if err != nil {
		return nil, nil, err
	}
	p := path.Join(Dir, name)
	info, err := s.fs.Stat(p)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil, errFileNotFound
		}
		return nil, nil, err
	}
	f, err := s.fs.Open(p)
	if err != nil {
		return nil, nil, err
	}
	return f, info, nil
}

// Delete removes the image named by a file name or by its public URL.
// Only the last path element is used.
func (s *Store) Delete(_ context.Context, nameOrURL string) error {
	name, err := basename(nameOrURL)
	if err != nil {
		return err
	}
	p := path.Join(Dir, name)
	if _, err := s.fs.Stat(p); err != nil {
		if os.IsNotExist(err) {
			return errFileNotFound
		}
		return fmt.Errorf("failed to stat image: %w", err)
	}
	if err := s.fs.Remove(p); err != nil {
		return fmt.Errorf("failed to delete image: %w", err)
	}
	s.logger.Info("image deleted", zap.String("filename", name))
	return nil
}

// Release removes images left behind by deleted entities. URLs outside the
// store, and images some row still references, are kept. Failures are only
// logged.
func (s *Store) Release(ctx context.Context, urls ...string) {
	seen := make(map[string]bool, len(urls))
	for _, u := range urls {
		name, ok := StoredName(u)
		if !ok || seen[name] {
			continue
		}
		seen[name] = true

		if s.refs != nil {
			inUse, err := s.refs.ImageInUse(ctx, name)
			if err != nil {
				s.logger.Warn("failed to check image references", zap.String("filename", name), zap.Error(err))
				continue
			}
			if inUse {
				s.logger.Debug("image still referenced", zap.String("filename", name))
				continue
			}
		}
		if err := s.Delete(ctx, name); err != nil && !errors.Is(err, errors.NotFound) {
			s.logger.Warn("failed to delete image", zap.String("url", u), zap.Error(err))
		}
	}
}

// StoredName returns the file name of an image served by a store: a bare
// file name or a URL whose path is .../uploads/img/<name>.
func StoredName(nameOrURL string) (string, bool) {
	raw := strings.TrimSpace(nameOrURL)
	if raw == "" {
		return "", false
	}
	u, err := url.Parse(raw)
	if err != nil {
		return "", false
	}
	p, err := url.PathUnescape(u.EscapedPath())
	if err != nil {
		return "", false
	}
	if u.Scheme == "" && u.Host == "" && !strings.Contains(p, "/") {
		return storedBase(p)
	}
	dir, name := path.Split(p)
	if !strings.HasSuffix(dir, "/uploads/"+Dir+"/") {
		return "", false
	}
	return storedBase(name)
}

func storedBase(name string) (string, bool) {
	if name == "" || name == "." || name == ".." || strings.ContainsAny(name, `/\`) {
		return "", false
	}
	return name, true
}

// URL builds the public address of a stored image.
func URL(baseURL, filename string) string {
	return strings.TrimRight(baseURL, "/") + "/uploads/" + Dir + "/" + url.PathEscape(filename)
}

func basename(nameOrURL string) (string, error) {
	raw := strings.TrimSpace(nameOrURL)
	if u, err := url.Parse(raw); err == nil && u.Path != "" {
		raw = u.Path
	}
	if unescaped, err := url.PathUnescape(raw); err == nil {
		raw = unescaped
	}
	name := path.Base(strings.ReplaceAll(raw, `\`, "/"))
	if name == "" || name == "." || name == ".." || name == "/" {
		return "", errors.Invalid.Explain("No URL provided")
	}
	return name, nil
}
