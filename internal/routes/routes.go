package routes

import (
	"eventify_backend/internal/handlers"
	"eventify_backend/internal/middleware"

	"github.com/gin-gonic/gin"
)

// RegisterRoutes registers every HTTP route of the application.
func RegisterRoutes(ginRouter *gin.Engine, appHandlers *handlers.AppHandlers) {
	// Image serving lives outside the API prefix so references stored on
	// events stay short and stable.
	ginRouter.GET("/images/:width/:filename", appHandlers.ImageHandler.Serve)
	ginRouter.GET("/uploads/*filepath", appHandlers.UploadHandler.Serve)

	api := ginRouter.Group("/api/v1")
	{
		api.POST("/auth/register", appHandlers.AuthHandler.Register)
		api.POST("/auth/login", appHandlers.AuthHandler.Login)

		api.GET("/events", appHandlers.EventHandler.List)
		api.GET("/events/:id", appHandlers.EventHandler.Show)

		api.GET("/translations", appHandlers.TranslationHandler.Locales)
		api.GET("/translations/:locale", appHandlers.TranslationHandler.Show)

		authed := api.Group("")
		authed.Use(middleware.AuthMiddleware())
		{
			authed.GET("/user", appHandlers.AuthHandler.CurrentUser)
			authed.POST("/auth/logout", appHandlers.AuthHandler.Logout)

			authed.POST("/events", appHandlers.EventHandler.Create)
			authed.PUT("/events/:id", appHandlers.EventHandler.Update)
			authed.DELETE("/events/:id", appHandlers.EventHandler.Delete)

			authed.GET("/users", appHandlers.UserHandler.List)
			authed.GET("/roles", appHandlers.UserHandler.ListRoles)
			authed.PUT("/users/:id/roles", appHandlers.UserHandler.SetRoles)
		}
	}
}
