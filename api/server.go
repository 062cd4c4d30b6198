package api

import (
	"context"
	"net/http"
	"slices"
	"time"

	"github.com/Aidin1998/qrmenu/common/apiutil"
	"github.com/Aidin1998/qrmenu/internal/branches"
	"github.com/Aidin1998/qrmenu/internal/bulk"
	"github.com/Aidin1998/qrmenu/internal/categories"
	"github.com/Aidin1998/qrmenu/internal/identities"
	"github.com/Aidin1998/qrmenu/internal/media"
	"github.com/Aidin1998/qrmenu/internal/products"
	"github.com/Aidin1998/qrmenu/internal/settings"
	"github.com/Aidin1998/qrmenu/pkg/metrics"
	"github.com/gin-contrib/cors"
	ginzap "github.com/gin-contrib/zap"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.uber.org/zap"
)

// Services are the domain services behind the HTTP API.
type Services struct {
	Identities identities.IdentityService
	Categories categories.CategoryService
	Products   products.ProductService
	Branches   branches.BranchService
	Settings   settings.SettingsService
	Media      *media.Store
	Importer   *bulk.Importer
	Exporter   *bulk.Exporter
}

// Options tune the HTTP layer.
type Options struct {
	ServiceName string
	// PublicBaseURL prefixes uploaded image URLs; derived from the request
	// when empty.
	PublicBaseURL string
	CORSOrigins   []string
	LoginRPS      float64
	LoginBurst    int
	// Health reports whether the backing store is reachable.
	Health func(ctx context.Context) error
}

// Server represents the API server
type Server struct {
	router       *gin.Engine
	logger       *zap.Logger
	svc          Services
	opts         Options
	loginLimiter *apiutil.IPRateLimiter
}

// NewServer creates a new API server with injected services
func NewServer(logger *zap.Logger, services Services, opts Options) *Server {
	if opts.ServiceName == "" {
		opts.ServiceName = "qrmenu"
	}
	if opts.LoginRPS <= 0 {
		opts.LoginRPS = 0.2
	}

	server := &Server{
		logger:       logger,
		svc:          services,
		opts:         opts,
		loginLimiter: apiutil.NewIPRateLimiter(opts.LoginRPS, opts.LoginBurst),
	}
	server.loginLimiter.OnLimit = func(c *gin.Context) {
		metrics.LoginAttempts.WithLabelValues("throttled").Inc()
		logger.Warn("login throttled", zap.String("ip", c.ClientIP()))
	}

	router := gin.New()
	router.HandleMethodNotAllowed = true

	router.Use(ginzap.Ginzap(logger, time.RFC3339, true))
	router.Use(ginzap.RecoveryWithZap(logger, true))
	router.Use(otelgin.Middleware(opts.ServiceName))
	router.Use(apiutil.MetricsMiddleware())
	router.Use(cors.New(corsConfig(opts.CORSOrigins)))

	router.NoRoute(func(c *gin.Context) {
		apiutil.WriteErrorResponse(c, http.StatusNotFound, "Not found")
	})
	router.NoMethod(func(c *gin.Context) {
		apiutil.WriteErrorResponse(c, http.StatusMethodNotAllowed, "Method not allowed")
	})

	server.router = router
	server.registerRoutes()
	return server
}

func corsConfig(origins []string) cors.Config {
	cfg := cors.Config{
		AllowMethods:  []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders: []string{"Content-Length", "Content-Disposition"},
		MaxAge:        12 * time.Hour,
	}
	if len(origins) == 0 || slices.Contains(origins, "*") {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = origins
		cfg.AllowCredentials = true
	}
	return cfg
}

// Handler returns the HTTP handler of the server
func (s *Server) Handler() http.Handler {
	return s.router
}

// Router returns the internal Gin engine for testing purposes
func (s *Server) Router() *gin.Engine {
	return s.router
}

// RunMaintenance runs background upkeep such as pruning the login limiter
// until ctx is done.
func (s *Server) RunMaintenance(ctx context.Context) {
	s.loginLimiter.Cleanup(ctx, time.Minute)
}

// registerRoutes registers all API routes
func (s *Server) registerRoutes() {
	s.router.GET("/health", s.healthCheck)
	s.router.GET("/metrics", gin.WrapH(promhttp.Handler()))
	s.router.GET("/uploads/img/:name", s.serveImage)

	api := s.router.Group("/api")
	admin := s.authMiddleware()

	// Catalogue
	api.GET("/categories", s.listCategories)
	api.POST("/categories", admin, s.createCategory)
	api.GET("/categories/:id", s.getCategory)
	api.PUT("/categories/:id", admin, s.updateCategory)
	api.DELETE("/categories/:id", admin, s.deleteCategory)
	api.GET("/categories/:id/has-subcategories", s.hasSubcategories)

	api.GET("/products", s.listProducts)
	api.POST("/products", admin, s.createProduct)
	api.POST("/products/bulk-delete", admin, s.bulkDeleteProducts)
	api.GET("/products/:id", s.getProduct)
	api.PUT("/products/:id", admin, s.updateProduct)
	api.DELETE("/products/:id", admin, s.deleteProduct)

	// Branches
	api.GET("/branches", s.listBranches)
	api.POST("/branches", admin, s.createBranch)
	api.GET("/branches/detect", s.detectBranch)
	api.GET("/branches/by-subdomain/:subdomain", s.getBranchBySubdomain)
	api.GET("/branches/:id", s.getBranch)
	api.PUT("/branches/:id", admin, s.updateBranch)
	api.DELETE("/branches/:id", admin, s.deleteBranch)

	// Settings
	api.GET("/settings", s.getSettings)
	api.PUT("/settings", admin, s.updateSettings)

	// Authentication
	auth := api.Group("/auth")
	{
		auth.POST("/login", s.loginLimiter.Middleware(), s.login)
		auth.POST("/logout", admin, s.logout)
		auth.GET("/session", admin, s.session)
		auth.PUT("/password", admin, s.changePassword)
		auth.PUT("/username", admin, s.changeUsername)
	}

	// Media and spreadsheets
	api.POST("/upload", admin, s.uploadImage)
	api.POST("/delete", admin, s.deleteImage)
	api.DELETE("/delete", admin, s.deleteImage)
	api.POST("/import", admin, s.importProducts)
	api.GET("/export", admin, s.exportProducts)

	// Back office listings
	back := api.Group("/admin", admin)
	{
		back.GET("/categories", s.adminListCategories)
		back.GET("/products", s.adminListProducts)
		back.GET("/branches", s.adminListBranches)
	}
}

// healthCheck handles the health check endpoint
func (s *Server) healthCheck(c *gin.Context) {
	if s.opts.Health != nil {
		if err := s.opts.Health(c.Request.Context()); err != nil {
			s.logger.Warn("health check failed", zap.Error(err))
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
			return
		}
	}
	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
		"time":   time.Now().UTC(),
	})
}

// --- AUDIT LOGGING ---
func (s *Server) auditLog(c *gin.Context, event string, fields ...zap.Field) {
	base := []zap.Field{
		zap.String("event", event),
		zap.String("admin_id", c.GetString(adminIDKey)),
		zap.String("ip", c.ClientIP()),
	}
	s.logger.Info("AUDIT", append(base, fields...)...)
}

func (s *Server) writeError(c *gin.Context, err error) {
	apiutil.WriteError(c, s.logger, err)
}
