package main

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"bookstore-catalog/internal/shared/middleware"
	"bookstore-catalog/pkg/container"
)

func SetupRouter(c *container.Container) *gin.Engine {
	router := gin.New()
	router.MaxMultipartMemory = 16 << 20

	router.Use(
		middleware.Recovery(),
		middleware.RequestID(),
		middleware.Logger(),
		middleware.CORS(),
	)

	// Files written by the local storage driver are served from here.
	if c.Config.Storage.Driver == "local" {
		router.Static("/storage", c.Config.Storage.LocalRoot)
	}

	v1 := router.Group("/api/v1")
	{
		v1.GET("/health", healthCheckHandler(c))

		setupAuthRoutes(v1, c)
		setupProfileRoutes(v1, c)

		admin := v1.Group("/admin")
		admin.Use(middleware.AuthMiddleware(c.JWTManager), middleware.AdminMiddleware())
		{
			setupBookRoutes(admin, c)
			setupAuthorRoutes(admin, c)
			setupCategoryRoutes(admin, c)
		}
	}

	return router
}

// ========================================
// AUTH ROUTES
// ========================================
func setupAuthRoutes(v1 *gin.RouterGroup, c *container.Container) {
	auth := v1.Group("/auth")
	{
		auth.POST("/register", c.UserHandler.Register)
		auth.POST("/login", c.UserHandler.Login)
	}
}

func setupProfileRoutes(v1 *gin.RouterGroup, c *container.Container) {
	me := v1.Group("/me")
	me.Use(middleware.AuthMiddleware(c.JWTManager))
	{
		me.GET("", c.UserHandler.Me)
		me.PUT("/profile", c.UserHandler.UpdateProfile)
	}
}

// ========================================
// BOOK ROUTES
// ========================================
func setupBookRoutes(admin *gin.RouterGroup, c *container.Container) {
	books := admin.Group("/books")
	{
		books.GET("", c.BookHandler.List)
		books.GET("/export", c.BookHandler.Export)
		books.GET("/author-suggestions", c.BookHandler.SuggestAuthors)
		books.POST("", c.BookHandler.Create)
		books.POST("/bulk", c.BookHandler.Bulk)
		books.GET("/:id", c.BookHandler.Get)
		books.PUT("/:id", c.BookHandler.Update)
		books.POST("/:id", c.BookHandler.Update)
		books.DELETE("/:id", c.BookHandler.Delete)
	}
}

// ========================================
// AUTHOR ROUTES
// ========================================
func setupAuthorRoutes(admin *gin.RouterGroup, c *container.Container) {
	authors := admin.Group("/authors")
	{
		authors.GET("", c.AuthorHandler.List)
		authors.GET("/suggest", c.AuthorHandler.Suggest)
		authors.POST("", c.AuthorHandler.Create)
		authors.GET("/:id", c.AuthorHandler.Get)
		authors.PUT("/:id", c.AuthorHandler.Update)
		authors.DELETE("/:id", c.AuthorHandler.Delete)
	}
}

// ========================================
// CATEGORY ROUTES
// ========================================
func setupCategoryRoutes(admin *gin.RouterGroup, c *container.Container) {
	categories := admin.Group("/categories")
	{
		categories.GET("", c.CategoryHandler.List)
		categories.GET("/active", c.CategoryHandler.Active)
		categories.POST("", c.CategoryHandler.Create)
		categories.POST("/bulk", c.CategoryHandler.Bulk)
		categories.GET("/:id", c.CategoryHandler.Get)
		categories.PUT("/:id", c.CategoryHandler.Update)
		categories.DELETE("/:id", c.CategoryHandler.Delete)
	}
}

// ========================================
// HEALTH CHECK
// ========================================
func healthCheckHandler(appCtx *container.Container) gin.HandlerFunc {
	return func(c *gin.Context) {
		health := gin.H{
			"status":    "ok",
			"timestamp": time.Now().Format(time.RFC3339),
			"version":   appCtx.Config.App.Version,
		}

		dbStatus := "ok"
		if appCtx.DB == nil || appCtx.DB.Pool == nil {
			dbStatus = "disconnected"
			health["status"] = "degraded"
		} else if err := appCtx.DB.HealthCheck(c.Request.Context()); err != nil {
			dbStatus = fmt.Sprintf("error: %v", err)
			health["status"] = "degraded"
		}

		// Redis is optional: the list and suggestion caches fall back to the DB.
		redisStatus := "ok"
		if appCtx.Cache == nil {
			redisStatus = "disconnected"
		} else {
			ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
			defer cancel()

			if err := appCtx.Cache.Ping(ctx); err != nil {
				redisStatus = fmt.Sprintf("error: %v", err)
			}
		}

		services := gin.H{
			"database": dbStatus,
			"redis":    redisStatus,
			"storage":  appCtx.Config.Storage.Driver,
		}
		if appCtx.DB != nil {
			if stats, err := appCtx.DB.Stats(); err == nil {
				services["pool"] = stats
			}
		}
		health["services"] = services

		statusCode := http.StatusOK
		if dbStatus != "ok" {
			statusCode = http.StatusServiceUnavailable
		}

		c.JSON(statusCode, health)
	}
}
