package handlers

import (
	"github.com/GoodNightBuddy/realtor-app/internal/middleware"
	"github.com/GoodNightBuddy/realtor-app/internal/models"

	"github.com/labstack/echo/v4"
)

// RegisterRoutes mounts every HTTP route. health may be nil.
func RegisterRoutes(e *echo.Echo, auth *AuthHandlers, listings *ListingHandlers, health *HealthHandlers, guard *middleware.RoleGuard) {
	if health != nil {
		e.GET("/health", health.LivenessCheck)
		e.GET("/health/ready", health.ReadinessCheck)
	}

	authGroup := e.Group("/auth")
	authGroup.POST("/sign-up/:userType", auth.SignUp)
	authGroup.POST("/sign-in", auth.SignIn)
	authGroup.POST("/key", auth.GenerateProductKey)
	authGroup.GET("/me", auth.Me)

	realtor := guard.RequireRoles(models.UserTypeRealtor)
	buyer := guard.RequireRoles(models.UserTypeBuyer)

	home := e.Group("/home")
	home.GET("", listings.ListListings)
	home.GET("/:id", listings.GetListing)
	home.POST("", listings.CreateListing, realtor)
	home.PUT("/:id", listings.UpdateListing, realtor)
	home.DELETE("/:id", listings.DeleteListing, realtor)
	home.POST("/:id/images", listings.UploadImage, realtor)
	home.POST("/:id/inquire", listings.Inquire, buyer)
	home.GET("/:id/messages", listings.GetMessages, realtor)
}
