package api

import (
	"edunova/config"
	"edunova/content"
	"edunova/db"
	_ "edunova/docs" // Registers the swagger spec
	"edunova/logging"
	"edunova/utils"
	"net/http"
	"slices"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"
)

// HealthResponse is the body of GET /health.
type HealthResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

// HealthHandler reports that the server is up.
// @Summary      Health Check
// @Tags         System
// @Produce      json
// @Success      200  {object}  HealthResponse
// @Router       /health [get]
func HealthHandler(c *gin.Context) {
	c.JSON(http.StatusOK, HealthResponse{Status: "ok", Message: "edunova API is running"})
}

// NewRouter wires every route. limiter may be nil, in which case the auth routes
// are not rate limited.
func NewRouter(database *db.Database, cfg *config.Config, logger *zap.Logger, limiter *RateLimiter) *gin.Engine {
	logger = logging.OrNop(logger)
	catalog := content.NewCatalog(database, logger.Named("catalog"))

	router := gin.New()
	router.RedirectTrailingSlash = false
	router.Use(logging.GinLogger(logger.Named("http")))
	router.Use(gin.Recovery())
	router.Use(cors.New(corsConfig(cfg)))

	// --- Public Routes ---
	router.GET("/health", HealthHandler)
	router.GET("/accounts", func(c *gin.Context) {
		AccountsHandler(c, database, cfg)
	})

	authRateLimit := func(name string) gin.HandlerFunc {
		if limiter == nil || cfg.LoginRateLimit <= 0 {
			return func(c *gin.Context) { c.Next() }
		}
		return limiter.Limit(name, cfg.LoginRateLimit, cfg.LoginRateWindow)
	}

	authGroup := router.Group("/auth")
	{
		// POST /auth/login
		authGroup.POST("/login", authRateLimit("login"), func(c *gin.Context) {
			LoginHandler(c, database, cfg)
		})
		// POST /auth/register
		authGroup.POST("/register", authRateLimit("register"), func(c *gin.Context) {
			RegisterHandler(c, database, cfg)
		})
	}

	docGroup := router.Group("/documents")
	{
		docGroup.GET("", func(c *gin.Context) { GetDocumentsHandler(c, catalog) })
		docGroup.GET("/:id", func(c *gin.Context) { GetDocumentByIDHandler(c, catalog) })
	}

	videoGroup := router.Group("/videos")
	{
		videoGroup.GET("", func(c *gin.Context) { GetVideosHandler(c, catalog) })
		videoGroup.GET("/:id", func(c *gin.Context) { GetVideoByIDHandler(c, catalog) })
	}

	// --- Protected Routes ---
	authMiddleware := utils.AuthMiddleware(cfg, database)

	// Logout and me live under /auth but need the middleware
	router.POST("/auth/logout", authMiddleware, func(c *gin.Context) {
		LogoutHandler(c, database, cfg)
	})
	router.GET("/auth/me", authMiddleware, func(c *gin.Context) {
		MeHandler(c, database, cfg)
	})

	userGroup := router.Group("")
	userGroup.Use(authMiddleware)
	{
		userGroup.GET("/settings", func(c *gin.Context) { GetSettingsHandler(c, database, cfg) })
		userGroup.PUT("/settings", func(c *gin.Context) { UpdateSettingsHandler(c, database, cfg) })
		userGroup.GET("/progress", func(c *gin.Context) { GetProgressHandler(c, database, cfg) })
		userGroup.POST("/progress", func(c *gin.Context) { UpdateProgressHandler(c, database, cfg) })
		userGroup.GET("/stats", func(c *gin.Context) { GetStatsHandler(c, database, cfg) })
	}

	// --- Swagger Route ---
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	return router
}

func corsConfig(cfg *config.Config) cors.Config {
	c := cors.DefaultConfig()
	if len(cfg.AllowedOrigins) == 0 || slices.Contains(cfg.AllowedOrigins, "*") {
		c.AllowAllOrigins = true
	} else {
		c.AllowOrigins = cfg.AllowedOrigins
		c.AllowCredentials = true
	}
	c.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type", "Authorization"}
	c.AllowMethods = []string{"GET", "POST", "PUT", "OPTIONS"}
	return c
}
