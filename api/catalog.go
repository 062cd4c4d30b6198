package api

import (
	"net/http"
	"strconv"

	"github.com/Aidin1998/qrmenu/common/apiutil"
	"github.com/Aidin1998/qrmenu/common/errors"
	"github.com/Aidin1998/qrmenu/internal/categories"
	"github.com/Aidin1998/qrmenu/internal/products"
	"github.com/Aidin1998/qrmenu/pkg/models"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

var (
	errCategoryNotFound = errors.NotFound.Explain("Category not found")
	errProductNotFound  = errors.NotFound.Explain("Product not found")
)

// --- CATEGORY HANDLERS ---

// listCategories lists active categories. parent_id selects children of a
// category, "all" lists every level and no value lists roots.
func (s *Server) listCategories(c *gin.Context) {
	filter := categories.ListFilter{}
	if err := categoryFilter(c, &filter); err != nil {
		s.writeError(c, err)
		return
	}
	s.respondCategories(c, filter)
}

func (s *Server) adminListCategories(c *gin.Context) {
	filter := categories.ListFilter{AllLevels: true, IncludeInactive: true}
	if c.Query("parent_id") != "" {
		filter.AllLevels = false
		if err := categoryFilter(c, &filter); err != nil {
			s.writeError(c, err)
			return
		}
	}
	s.respondCategories(c, filter)
}

func categoryFilter(c *gin.Context, filter *categories.ListFilter) error {
	branchID, err := apiutil.QueryUUID(c, "branch_id")
	if err != nil {
		return err
	}
	filter.BranchID = branchID

	if c.Query("parent_id") == "all" {
		filter.AllLevels = true
		return nil
	}
	parentID, err := apiutil.QueryUUID(c, "parent_id")
	if err != nil {
		return err
	}
	filter.ParentID = parentID
	return nil
}

func (s *Server) respondCategories(c *gin.Context, filter categories.ListFilter) {
	list, err := s.svc.Categories.List(c.Request.Context(), filter)
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

func (s *Server) getCategory(c *gin.Context) {
	id, err := apiutil.ParamUUID(c, "id", errCategoryNotFound)
	if err != nil {
		s.writeError(c, err)
		return
	}
	category, err := s.svc.Categories.Get(c.Request.Context(), id)
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, category)
}

func (s *Server) hasSubcategories(c *gin.Context) {
	id, err := apiutil.ParamUUID(c, "id", errCategoryNotFound)
	if err != nil {
		s.writeError(c, err)
		return
	}
	has, err := s.svc.Categories.HasSubcategories(c.Request.Context(), id)
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"has_subcategories": has})
}

func (s *Server) createCategory(c *gin.Context) {
	var in models.CategoryInput
	if err := apiutil.BindJSON(c, &in); err != nil {
		s.writeError(c, err)
		return
	}
	category, err := s.svc.Categories.Create(c.Request.Context(), &in)
	if err != nil {
		s.writeError(c, err)
		return
	}
	s.auditLog(c, "category_created", zap.String("category_id", category.ID.String()))
	c.JSON(http.StatusCreated, category)
}

func (s *Server) updateCategory(c *gin.Context) {
	id, err := apiutil.ParamUUID(c, "id", errCategoryNotFound)
	if err != nil {
		s.writeError(c, err)
		return
	}
	var in models.CategoryInput
	if err := apiutil.BindJSON(c, &in); err != nil {
		s.writeError(c, err)
		return
	}
	category, err := s.svc.Categories.Update(c.Request.Context(), id, &in)
	if err != nil {
		s.writeError(c, err)
		return
	}
	s.auditLog(c, "category_updated", zap.String("category_id", id.String()))
	c.JSON(http.StatusOK, category)
}

func (s *Server) deleteCategory(c *gin.Context) {
	id, err := apiutil.ParamUUID(c, "id", errCategoryNotFound)
	if err != nil {
		s.writeError(c, err)
		return
	}
	category, err := s.svc.Categories.Delete(c.Request.Context(), id)
	if err != nil {
		s.writeError(c, err)
		return
	}
	if category.ImageURL != nil {
		s.svc.Media.Release(c.Request.Context(), *category.ImageURL)
	}
	s.auditLog(c, "category_deleted", zap.String("category_id", id.String()))
	c.Status(http.StatusNoContent)
}

// --- PRODUCT HANDLERS ---

func (s *Server) listProducts(c *gin.Context) {
	filter := products.ListFilter{}
	if err := productFilter(c, &filter); err != nil {
		s.writeError(c, err)
		return
	}
	s.respondProducts(c, filter)
}

func (s *Server) adminListProducts(c *gin.Context) {
	filter := products.ListFilter{IncludeInactive: true}
	if err := productFilter(c, &filter); err != nil {
		s.writeError(c, err)
		return
	}
	if raw := c.Query("active"); raw != "" {
		active, err := strconv.ParseBool(raw)
		if err != nil {
			s.writeError(c, errors.Invalid.Explain("invalid active"))
			return
		}
		filter.Active = &active
	}
	s.respondProducts(c, filter)
}

func productFilter(c *gin.Context, filter *products.ListFilter) error {
	var err error
	if filter.CategoryID, err = apiutil.QueryUUID(c, "category_id"); err != nil {
		return err
	}
	filter.BranchID, err = apiutil.QueryUUID(c, "branch_id")
	return err
}

func (s *Server) respondProducts(c *gin.Context, filter products.ListFilter) {
	list, err := s.svc.Products.List(c.Request.Context(), filter)
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

func (s *Server) getProduct(c *gin.Context) {
	id, err := apiutil.ParamUUID(c, "id", errProductNotFound)
	if err != nil {
		s.writeError(c, err)
		return
	}
	product, err := s.svc.Products.Get(c.Request.Context(), id)
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, product)
}

func (s *Server) createProduct(c *gin.Context) {
	var in models.ProductInput
	if err := apiutil.BindJSON(c, &in); err != nil {
		s.writeError(c, err)
		return
	}
	product, err := s.svc.Products.Create(c.Request.Context(), &in)
	if err != nil {
		s.writeError(c, err)
		return
	}
	s.auditLog(c, "product_created", zap.String("product_id", product.ID.String()))
	c.JSON(http.StatusCreated, product)
}

func (s *Server) updateProduct(c *gin.Context) {
	id, err := apiutil.ParamUUID(c, "id", errProductNotFound)
	if err != nil {
		s.writeError(c, err)
		return
	}
	var in models.ProductInput
	if err := apiutil.BindJSON(c, &in); err != nil {
		s.writeError(c, err)
		return
	}
	product, err := s.svc.Products.Update(c.Request.Context(), id, &in)
	if err != nil {
		s.writeError(c, err)
		return
	}
	s.auditLog(c, "product_updated", zap.String("product_id", id.String()))
	c.JSON(http.StatusOK, product)
}

func (s *Server) deleteProduct(c *gin.Context) {
	id, err := apiutil.ParamUUID(c, "id", errProductNotFound)
	if err != nil {
		s.writeError(c, err)
		return
	}
	product, err := s.svc.Products.Delete(c.Request.Context(), id)
	if err != nil {
		s.writeError(c, err)
		return
	}
	if product.ImageURL != nil {
		s.svc.Media.Release(c.Request.Context(), *product.ImageURL)
	}
	s.auditLog(c, "product_deleted", zap.String("product_id", id.String()))
	c.Status(http.StatusNoContent)
}

func (s *Server) bulkDeleteProducts(c *gin.Context) {
	var req models.BulkDeleteRequest
	if err := apiutil.BindJSON(c, &req); err != nil {
		s.writeError(c, err)
		return
	}
	if len(req.IDs) == 0 {
		s.writeError(c, errors.Invalid.Explain("ids are required"))
		return
	}
	removed, err := s.svc.Products.DeleteMany(c.Request.Context(), req.IDs)
	if err != nil {
		s.writeError(c, err)
		return
	}
	s.svc.Media.Release(c.Request.Context(), imageURLs(removed)...)
	s.auditLog(c, "products_bulk_deleted", zap.Strings("product_ids", uuidList(req.IDs)), zap.Int("deleted", len(removed)))
	c.JSON(http.StatusOK, gin.H{"deleted": len(removed)})
}

func imageURLs(list []models.Product) []string {
	urls := make([]string, 0, len(list))
	for _, p := range list {
		if p.ImageURL != nil {
			urls = append(urls, *p.ImageURL)
		}
	}
	return urls
}

// uuidList renders ids for logs.
func uuidList(ids []uuid.UUID) []string {
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = id.String()
	}
	return out
}
