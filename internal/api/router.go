package api

import (
	"github.com/acantarero/news-server/internal/api/handler"
	"github.com/acantarero/news-server/internal/api/middleware"
	"github.com/acantarero/news-server/internal/config"
	"github.com/acantarero/news-server/internal/logger"
	"github.com/acantarero/news-server/internal/service"
	"github.com/gin-gonic/gin"
)

// SetupRouter configures the Gin router with all routes
func SetupRouter(
	serveService *service.ServeService,
	learnService *service.LearnService,
	userService *service.UserService,
	cfg *config.Config,
	log *logger.Logger,
) *gin.Engine {
	// Set Gin mode
	switch cfg.Server.Mode {
	case "release":
		gin.SetMode(gin.ReleaseMode)
	case "test":
		gin.SetMode(gin.TestMode)
	default:
		gin.SetMode(gin.DebugMode)
	}

	r := gin.New()

	// Add middleware
	r.Use(gin.Recovery())
	r.Use(middleware.LoggerMiddleware(log))
	r.Use(middleware.CORS(middleware.CORSConfig{
		AllowedOrigins:  cfg.Server.CORS.AllowedOrigins,
		AllowAllOrigins: cfg.Server.CORS.AllowAllOrigins,
	}))

	// Create handlers
	healthHandler := handler.NewHealthHandler()
	articlesHandler := handler.NewArticlesHandler(serveService)
	usersHandler := handler.NewUsersHandler(userService, learnService)

	// Health check
	r.GET("/health", healthHandler.Health)

	// Versioned API
	v1 := r.Group("/1.0")
	{
		v1.GET("/articles", articlesHandler.GetArticles)
		v1.GET("/users", usersHandler.CreateUser)
		v1.POST("/users", usersHandler.SubmitEngagement)
		v1.GET("/alive", healthHandler.Alive)
	}

	return r
}
