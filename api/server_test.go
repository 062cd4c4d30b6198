package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Aidin1998/qrmenu/api"
	"github.com/Aidin1998/qrmenu/internal/branches"
	"github.com/Aidin1998/qrmenu/internal/bulk"
	"github.com/Aidin1998/qrmenu/internal/categories"
	"github.com/Aidin1998/qrmenu/internal/database"
	"github.com/Aidin1998/qrmenu/internal/identities"
	"github.com/Aidin1998/qrmenu/internal/media"
	"github.com/Aidin1998/qrmenu/internal/products"
	"github.com/Aidin1998/qrmenu/internal/settings"
	"github.com/Aidin1998/qrmenu/pkg/validation"
	"github.com/Aidin1998/qrmenu/testutil"
	"github.com/gin-gonic/gin"
	"github.com/go-git/go-billy/v5/memfs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

var pngHeader = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR\x00\x00\x00\x01\x00\x00\x00\x01\x08\x06\x00\x00\x00")

type env struct {
	router *gin.Engine
	token  string
}

func setupEnv(t *testing.T, opts api.Options) *env {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db := testutil.NewDB(t)
	logger := zap.NewNop()
	validate := validation.NewValidator()

	ids, err := identities.NewService(logger, db, validate, identities.Options{Secret: "test-secret"})
	require.NoError(t, err)
	cats, err := categories.NewService(logger, db, validate)
	require.NoError(t, err)
	prods, err := products.NewService(logger, db, validate)
	require.NoError(t, err)
	brs, err := branches.NewService(logger, db, validate)
	require.NoError(t, err)
	sets, err := settings.NewService(logger, db)
	require.NoError(t, err)
	_, err = sets.Seed(context.Background())
	require.NoError(t, err)
	_, err = ids.CreateAdmin(context.Background(), "admin", "secret123")
	require.NoError(t, err)

	if opts.LoginBurst == 0 {
		opts.LoginBurst = 100
	}
	if opts.PublicBaseURL == "" {
		opts.PublicBaseURL = "https://menu.example.com"
	}
	srv := api.NewServer(logger, api.Services{
		Identities: ids,
		Categories: cats,
		Products:   prods,
		Branches:   brs,
		Settings:   sets,
		Media:      media.NewStore(logger, memfs.New(), 1024, media.WithReferences(database.NewImageReferences(db))),
		Importer:   bulk.NewImporter(logger, cats, prods, brs),
		Exporter:   bulk.NewExporter(cats, prods, brs),
	}, opts)

	e := &env{router: srv.Router()}
	w := e.do(t, http.MethodPost, "/api/auth/login", map[string]string{"username": "admin", "password": "secret123"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var login struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &login))
	e.token = login.Token
	return e
}

func (e *env) request(t *testing.T, req *http.Request) *httptest.ResponseRecorder {
	t.Helper()
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

// do sends an unauthenticated JSON request.
func (e *env) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var r io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		r = bytes.NewReader(data)
	}
	req := httptest.NewRequest(method, path, r)
	req.Header.Set("Content-Type", "application/json")
	return e.request(t, req)
}

// admin sends an authenticated JSON request.
func (e *env) admin(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var r io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		r = bytes.NewReader(data)
	}
	req := httptest.NewRequest(method, path, r)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+e.token)
	return e.request(t, req)
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), w.Body.String())
	return v
}

func errorMessage(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	return decode[map[string]any](t, w)["error"].(string)
}

func TestHealthCheck(t *testing.T) {
	e := setupEnv(t, api.Options{})
	w := e.do(t, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "ok", decode[map[string]any](t, w)["status"])

	down := setupEnv(t, api.Options{Health: func(context.Context) error { return fmt.Errorf("database unreachable") }})
	w = down.do(t, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestUnknownRoutes(t *testing.T) {
	e := setupEnv(t, api.Options{})

	w := e.do(t, http.MethodGet, "/api/nothing-here", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "Not found", errorMessage(t, w))

	w = e.do(t, http.MethodPatch, "/api/categories", nil)
	assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
	assert.Equal(t, "Method not allowed", errorMessage(t, w))
}

func TestAdminRoutesRequireToken(t *testing.T) {
	e := setupEnv(t, api.Options{})

	w := e.do(t, http.MethodPost, "/api/categories", map[string]any{"name": "Tatlılar"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "Authorization required", errorMessage(t, w))

	req := httptest.NewRequest(http.MethodGet, "/api/admin/products", nil)
	req.Header.Set("Authorization", "Bearer not-a-token")
	w = e.request(t, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "Invalid token", errorMessage(t, w))
}

func TestCategoryEndpoints(t *testing.T) {
	e := setupEnv(t, api.Options{})

	w := e.do(t, http.MethodGet, "/api/categories", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, "[]", w.Body.String())

	w = e.admin(t, http.MethodPost, "/api/categories", map[string]any{"name": "İçecekler"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	root := decode[map[string]any](t, w)
	rootID := root["id"].(string)
	assert.Equal(t, float64(1), root["sort_order"])

	w = e.admin(t, http.MethodPost, "/api/categories", map[string]any{"name": "Sıcak", "parent_id": rootID})
	require.Equal(t, http.StatusCreated, w.Code)
	childID := decode[map[string]any](t, w)["id"].(string)

	w = e.admin(t, http.MethodPost, "/api/categories", map[string]any{"name": "Derin", "parent_id": childID})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = e.do(t, http.MethodGet, "/api/categories/"+rootID+"/has-subcategories", nil)
	assert.Equal(t, true, decode[map[string]any](t, w)["has_subcategories"])

	w = e.do(t, http.MethodGet, "/api/categories?parent_id="+rootID, nil)
	list := decode[[]map[string]any](t, w)
	require.Len(t, list, 1)
	assert.Equal(t, "Sıcak", list[0]["name"])

	w = e.do(t, http.MethodGet, "/api/categories?parent_id=all", nil)
	assert.Len(t, decode[[]map[string]any](t, w), 2)

	w = e.admin(t, http.MethodPut, "/api/categories/"+childID, map[string]any{"name": "Sıcak İçecekler", "parent_id": rootID, "active": false})
	require.Equal(t, http.StatusOK, w.Code)
	w = e.do(t, http.MethodGet, "/api/categories?parent_id="+rootID, nil)
	assert.Empty(t, decode[[]map[string]any](t, w))
	w = e.admin(t, http.MethodGet, "/api/admin/categories", nil)
	assert.Len(t, decode[[]map[string]any](t, w), 2)

	w = e.admin(t, http.MethodDelete, "/api/categories/"+childID, nil)
	assert.Equal(t, http.StatusNoContent, w.Code)
	w = e.do(t, http.MethodGet, "/api/categories/"+childID, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "Category not found", errorMessage(t, w))

	w = e.do(t, http.MethodGet, "/api/categories/not-a-uuid", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	w = e.do(t, http.MethodGet, "/api/categories?branch_id=nope", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestProductEndpoints(t *testing.T) {
	e := setupEnv(t, api.Options{})

	w := e.admin(t, http.MethodPost, "/api/categories", map[string]any{"name": "Kahveler"})
	require.Equal(t, http.StatusCreated, w.Code)
	categoryID := decode[map[string]any](t, w)["id"].(string)

	w = e.admin(t, http.MethodPost, "/api/products", map[string]any{
		"category_id":  categoryID,
		"name":         "Latte",
		"price_small":  12.5,
		"price_medium": 15,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	latte := decode[map[string]any](t, w)
	assert.Equal(t, "₺12.50+", latte["price_display"])

	w = e.admin(t, http.MethodPost, "/api/products", map[string]any{"category_id": categoryID, "name": "Filtre", "active": false})
	require.Equal(t, http.StatusCreated, w.Code)
	filtre := decode[map[string]any](t, w)

	w = e.admin(t, http.MethodPost, "/api/products", map[string]any{"category_id": "00000000-0000-0000-0000-000000000001", "name": "Yetim"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "category not found", errorMessage(t, w))

	w = e.do(t, http.MethodGet, "/api/products?category_id="+categoryID, nil)
	list := decode[[]map[string]any](t, w)
	require.Len(t, list, 1)
	assert.Equal(t, "Latte", list[0]["name"])

	w = e.admin(t, http.MethodGet, "/api/admin/products?active=false", nil)
	list = decode[[]map[string]any](t, w)
	require.Len(t, list, 1)
	assert.Equal(t, "Filtre", list[0]["name"])

	w = e.admin(t, http.MethodPost, "/api/products/bulk-delete", map[string]any{"ids": []string{latte["id"].(string), filtre["id"].(string)}})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, float64(2), decode[map[string]any](t, w)["deleted"])

	w = e.admin(t, http.MethodDelete, "/api/products/"+latte["id"].(string), nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "Product not found", errorMessage(t, w))
}

func TestBranchEndpoints(t *testing.T) {
	e := setupEnv(t, api.Options{})

	w := e.admin(t, http.MethodPost, "/api/branches", map[string]any{"name": "Kadıköy", "subdomain": "kadikoy"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	branchID := decode[map[string]any](t, w)["id"].(string)

	w = e.admin(t, http.MethodPost, "/api/branches", map[string]any{"name": "Kadıköy 2", "subdomain": "kadikoy"})
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "Subdomain already exists", errorMessage(t, w))

	detect := func(host string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, "/api/branches/detect", nil)
		req.Host = host
		return e.request(t, req)
	}

	w = detect("kadikoy.menu.example.com:8080")
	require.Equal(t, http.StatusOK, w.Code)
	found := decode[map[string]any](t, w)
	assert.Equal(t, "found", found["status"])
	assert.Equal(t, branchID, found["branch"].(map[string]any)["id"])

	w = detect("moda.menu.example.com")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "Branch not found", errorMessage(t, w))

	w = detect("localhost:8080")
	assert.Equal(t, "none", decode[map[string]any](t, w)["status"])

	w = e.do(t, http.MethodGet, "/api/branches/by-subdomain/kadikoy", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = e.admin(t, http.MethodDelete, "/api/branches/"+branchID, nil)
	assert.Equal(t, http.StatusNoContent, w.Code)
	w = e.do(t, http.MethodGet, "/api/branches", nil)
	assert.JSONEq(t, "[]", w.Body.String())
}

func TestSettingsEndpoints(t *testing.T) {
	e := setupEnv(t, api.Options{})

	w := e.admin(t, http.MethodPost, "/api/branches", map[string]any{"name": "Moda"})
	require.Equal(t, http.StatusCreated, w.Code)
	branchID := decode[map[string]any](t, w)["id"].(string)

	w = e.admin(t, http.MethodPut, "/api/settings", map[string]any{"bg_color": "#112233", "welcome_font_size": 30})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "30", decode[map[string]string](t, w)["welcome_font_size"])

	w = e.admin(t, http.MethodPut, "/api/settings?branch_id="+branchID, map[string]any{"bg_color": "#000"})
	require.Equal(t, http.StatusOK, w.Code)

	w = e.do(t, http.MethodGet, "/api/settings?branch_id="+branchID, nil)
	branchView := decode[map[string]string](t, w)
	assert.Equal(t, "#000", branchView["bg_color"])
	assert.Equal(t, "30", branchView["welcome_font_size"])

	w = e.do(t, http.MethodGet, "/api/settings", nil)
	assert.Equal(t, "#112233", decode[map[string]string](t, w)["bg_color"])

	w = e.admin(t, http.MethodPut, "/api/settings", map[string]any{"favourite_food": "lahmacun"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, errorMessage(t, w), "favourite_food")

	w = e.do(t, http.MethodPut, "/api/settings", map[string]any{"bg_color": "#fff"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthEndpoints(t *testing.T) {
	e := setupEnv(t, api.Options{})

	w := e.do(t, http.MethodPost, "/api/auth/login", map[string]string{"username": "admin", "password": "wrong"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "Invalid credentials", errorMessage(t, w))

	w = e.admin(t, http.MethodGet, "/api/auth/session", nil)
	require.Equal(t, http.StatusOK, w.Code)
	session := decode[map[string]any](t, w)
	assert.Equal(t, "admin", session["admin"].(map[string]any)["username"])
	assert.NotContains(t, w.Body.String(), "password")

	w = e.admin(t, http.MethodPut, "/api/auth/password", map[string]string{"current_password": "nope", "new_password": "another1"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "Current password is incorrect", errorMessage(t, w))

	w = e.admin(t, http.MethodPut, "/api/auth/username", map[string]string{"current_password": "secret123", "new_username": "owner"})
	require.Equal(t, http.StatusOK, w.Code)

	w = e.admin(t, http.MethodPost, "/api/auth/logout", nil)
	assert.Equal(t, http.StatusNoContent, w.Code)
	w = e.admin(t, http.MethodGet, "/api/auth/session", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = e.do(t, http.MethodPost, "/api/auth/login", map[string]string{"username": "owner", "password": "secret123"})
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestLoginThrottle(t *testing.T) {
	e := setupEnv(t, api.Options{LoginRPS: 0.001, LoginBurst: 1})

	// the successful setup login used the only token of the bucket
	w := e.do(t, http.MethodPost, "/api/auth/login", map[string]string{"username": "admin", "password": "secret123"})
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.NotEmpty(t, w.Header().Get("Retry-After"))
}

func multipartBody(t *testing.T, field, filename string, content []byte, extra map[string]string) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for k, v := range extra {
		require.NoError(t, mw.WriteField(k, v))
	}
	fw, err := mw.CreateFormFile(field, filename)
	require.NoError(t, err)
	_, err = fw.Write(content)
	require.NoError(t, err)
	require.NoError(t, mw.Close())
	return &buf, mw.FormDataContentType()
}

func (e *env) upload(t *testing.T, path, field, filename string, content []byte, extra map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	body, contentType := multipartBody(t, field, filename, content, extra)
	req := httptest.NewRequest(http.MethodPost, path, body)
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Authorization", "Bearer "+e.token)
	return e.request(t, req)
}

func TestMediaEndpoints(t *testing.T) {
	e := setupEnv(t, api.Options{})

	w := e.upload(t, "/api/upload", "image", "logo.png", pngHeader, map[string]string{"filename": "logo_1_ana logo.png"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	uploaded := decode[map[string]string](t, w)
	assert.Equal(t, "https://menu.example.com/uploads/img/logo_1_ana_logo.png", uploaded["url"])

	w = e.do(t, http.MethodGet, "/uploads/img/logo_1_ana_logo.png", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, pngHeader, w.Body.Bytes())

	w = e.upload(t, "/api/upload", "image", "notes.png", []byte("plain text pretending"), nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Only image files are allowed", errorMessage(t, w))

	w = e.upload(t, "/api/upload", "image", "big.png", append(append([]byte{}, pngHeader...), make([]byte, 2048)...), nil)
	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)

	w = e.admin(t, http.MethodDelete, "/api/delete", map[string]string{"url": uploaded["url"]})
	assert.Equal(t, http.StatusOK, w.Code)
	w = e.admin(t, http.MethodDelete, "/api/delete", map[string]string{"url": uploaded["url"]})
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "File not found", errorMessage(t, w))
	w = e.admin(t, http.MethodPost, "/api/delete", map[string]string{})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestImportExportEndpoints(t *testing.T) {
	e := setupEnv(t, api.Options{})

	rows := []bulk.Row{
		{Category: "Tatlılar", Name: "Künefe", Price: "120"},
		{Category: "Tatlılar", Subcategory: "Sütlü", Name: "Sütlaç", Price: "80,5"},
	}
	var sheet bytes.Buffer
	require.NoError(t, bulk.WriteXLSX(&sheet, rows))

	w := e.upload(t, "/api/import?mode=update", "file", "menu.xlsx", sheet.Bytes(), nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	result := decode[map[string]any](t, w)
	assert.Equal(t, float64(2), result["success_count"])
	assert.Equal(t, float64(2), result["categories_created"])

	w = e.upload(t, "/api/import?mode=replace", "file", "menu.xlsx", sheet.Bytes(), nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = e.admin(t, http.MethodGet, "/api/export", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Disposition"), ".xlsx")
	exported, err := bulk.ReadXLSX(bytes.NewReader(w.Body.Bytes()))
	require.NoError(t, err)
	require.Len(t, exported, 2)
}

func (e *env) createProduct(t *testing.T, categoryID, name, imageURL string) string {
	t.Helper()
	w := e.admin(t, http.MethodPost, "/api/products", map[string]any{"category_id": categoryID, "name": name, "image_url": imageURL})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	return decode[map[string]any](t, w)["id"].(string)
}

func (e *env) uploadImage(t *testing.T, filename string) string {
	t.Helper()
	w := e.upload(t, "/api/upload", "image", filename, pngHeader, map[string]string{"filename": filename})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	return decode[map[string]string](t, w)["url"]
}

func TestImportDeleteAllKeepsReusedImages(t *testing.T) {
	e := setupEnv(t, api.Options{})

	kunefe := e.uploadImage(t, "kunefe.png")
	baklava := e.uploadImage(t, "baklava.png")
	w := e.admin(t, http.MethodPost, "/api/categories", map[string]any{"name": "Tatlılar"})
	require.Equal(t, http.StatusCreated, w.Code)
	categoryID := decode[map[string]any](t, w)["id"].(string)
	e.createProduct(t, categoryID, "Künefe", kunefe)
	e.createProduct(t, categoryID, "Baklava", baklava)

	w = e.admin(t, http.MethodGet, "/api/export", nil)
	require.Equal(t, http.StatusOK, w.Code)
	exported, err := bulk.ReadXLSX(bytes.NewReader(w.Body.Bytes()))
	require.NoError(t, err)
	var kept []bulk.Row
	for _, row := range exported {
		if row.Name == "Künefe" {
			kept = append(kept, row)
		}
	}
	require.Len(t, kept, 1)
	var sheet bytes.Buffer
	require.NoError(t, bulk.WriteXLSX(&sheet, kept))

	w = e.upload(t, "/api/import?mode=delete_all", "file", "menu.xlsx", sheet.Bytes(), nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, float64(1), decode[map[string]any](t, w)["success_count"])

	w = e.admin(t, http.MethodGet, "/api/admin/products", nil)
	list := decode[[]map[string]any](t, w)
	require.Len(t, list, 1)
	assert.Equal(t, kunefe, list[0]["image_url"])

	assert.Equal(t, http.StatusOK, e.do(t, http.MethodGet, "/uploads/img/kunefe.png", nil).Code)
	assert.Equal(t, http.StatusNotFound, e.do(t, http.MethodGet, "/uploads/img/baklava.png", nil).Code)
}

func TestDeleteKeepsSharedAndForeignImages(t *testing.T) {
	e := setupEnv(t, api.Options{})

	shared := e.uploadImage(t, "cay.png")
	e.uploadImage(t, "logo.png")
	w := e.admin(t, http.MethodPost, "/api/categories", map[string]any{"name": "İçecekler", "image_url": shared})
	require.Equal(t, http.StatusCreated, w.Code)
	categoryID := decode[map[string]any](t, w)["id"].(string)

	first := e.createProduct(t, categoryID, "Çay", shared)
	second := e.createProduct(t, categoryID, "Demli Çay", shared)
	foreign := e.createProduct(t, categoryID, "Limonata", "https://cdn.other.example/x/logo.png")

	require.Equal(t, http.StatusNoContent, e.admin(t, http.MethodDelete, "/api/products/"+foreign, nil).Code)
	assert.Equal(t, http.StatusOK, e.do(t, http.MethodGet, "/uploads/img/logo.png", nil).Code)

	require.Equal(t, http.StatusNoContent, e.admin(t, http.MethodDelete, "/api/products/"+first, nil).Code)
	assert.Equal(t, http.StatusOK, e.do(t, http.MethodGet, "/uploads/img/cay.png", nil).Code)

	w = e.admin(t, http.MethodPost, "/api/products/bulk-delete", map[string]any{"ids": []string{second}})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, http.StatusOK, e.do(t, http.MethodGet, "/uploads/img/cay.png", nil).Code)

	require.Equal(t, http.StatusNoContent, e.admin(t, http.MethodDelete, "/api/categories/"+categoryID, nil).Code)
	assert.Equal(t, http.StatusNotFound, e.do(t, http.MethodGet, "/uploads/img/cay.png", nil).Code)
}
