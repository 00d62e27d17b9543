// Package server wires the HTTP engine, middleware and handlers.
package server

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/forkfeed/backend/config"
	"github.com/forkfeed/backend/internal/api"
	"github.com/forkfeed/backend/internal/middleware"
	"github.com/forkfeed/backend/internal/service"
)

// Server represents the HTTP server
type Server struct {
	router *gin.Engine
	http   *http.Server
	log    zerolog.Logger
}

// New builds a fully wired server. The Redis client and S3 config may
// be nil: rate limiting and image uploads degrade gracefully without
// them.
func New(cfg *config.Config, db *gorm.DB, redisClient *redis.Client, s3cfg *config.S3Config, log zerolog.Logger) *Server {
	if !config.IsDevelopment() {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.CORS())
	router.Use(middleware.ErrorHandler(log))

	authService := service.NewAuthService(db, log, cfg.JWTSecret)
	recipeService := service.NewRecipeService(db, log)
	favoriteService := service.NewFavoriteService(db, log)
	cartService := service.NewShoppingCartService(db, log)
	shoppingListService := service.NewShoppingListService(db, log)
	followService := service.NewFollowService(db, log)
	ingredientService := service.NewIngredientService(db, log)
	tagService := service.NewTagService(db, log)
	imageService := service.NewImageService(s3cfg, log)

	var writeLimiter *middleware.RateLimiter
	if redisClient != nil {
		writeLimiter = middleware.NewRecipeWriteRateLimiter(redisClient)
	}

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	v1 := router.Group("/api/v1")
	api.NewAuthHandler(authService).RegisterRoutes(v1)
	api.NewIngredientHandler(ingredientService).RegisterRoutes(v1)
	api.NewTagHandler(tagService).RegisterRoutes(v1)
	api.NewRecipeHandler(
		recipeService,
		favoriteService,
		cartService,
		shoppingListService,
		imageService,
		authService,
		writeLimiter,
	).RegisterRoutes(v1)
	api.NewFollowHandler(followService, authService).RegisterRoutes(v1)

	return &Server{
		router: router,
		http: &http.Server{
			Addr:    ":" + cfg.ServerPort,
			Handler: router,
		},
		log: log,
	}
}

// Router exposes the engine for tests.
func (s *Server) Router() *gin.Engine { return s.router }

// Start blocks serving HTTP until Shutdown is called.
func (s *Server) Start() error {
	s.log.Info().Str("addr", s.http.Addr).Msg("starting server")
	if err := s.http.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown gracefully stops the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.http.Shutdown(ctx)
}
