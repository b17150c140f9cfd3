// Package routes はルーティングを行います。
package routes

import (
	"database/sql"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"go-sync-todo/internal/config"
	"go-sync-todo/internal/graph"
	"go-sync-todo/internal/handlers"
	"go-sync-todo/internal/repositories"
	"go-sync-todo/internal/services"
)

// SetupRouter はGinルーターをセットアップし、すべてのエンドポイントを登録します。
func SetupRouter(db *sql.DB, cfg *config.Server) (*gin.Engine, error) {
	r := gin.New()
	r.Use(gin.Recovery(), RequestLogger())

	// CORS対策
	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = cfg.CORSOrigins
	corsConfig.AllowMethods = []string{"GET", "POST", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Accept", "Authorization"}
	corsConfig.AllowCredentials = true
	corsConfig.MaxAge = 12 * time.Hour
	r.Use(cors.New(corsConfig))

	// リポジトリ
	itemRepo := repositories.NewItemRepository(db)
	userRepo := repositories.NewUserRepository(db)

	// サービス
	itemService := services.NewItemService(itemRepo)
	userService := services.NewUserService(userRepo)
	jwtService, err := services.NewJWTService(cfg.JWTSecret)
	if err != nil {
		return nil, err
	}

	// ハンドラー
	userHandler := handlers.NewUserHandler(userService, jwtService)
	graphqlHandler := handlers.NewGraphQLHandler(graph.NewSchema(graph.NewResolver(itemService)))

	// ルーティング
	r.GET("/api/hello", HelloHandler)
	r.GET("/api/dbcheck", func(c *gin.Context) {
		if err := db.PingContext(c.Request.Context()); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"status": "error", "message": "Database connection failed", "error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok", "message": "Database connection is healthy"})
	})
	r.POST("/api/register", userHandler.RegisterHandler)
	r.POST("/api/login", userHandler.LoginHandler)
	r.POST("/api/login/anonymous", userHandler.AnonymousLoginHandler)

	authorized := r.Group("/")
	authorized.Use(AuthMiddleware(jwtService))
	{
		authorized.GET("/api/me", userHandler.MeHandler)
		authorized.POST("/graphql", graphqlHandler.ServeGraphQL)
	}

	return r, nil
}

func HelloHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"message": "Hello from Go Backend!"})
}
