package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"unimaterials/internal/handlers"
	"unimaterials/internal/middleware"
	"unimaterials/internal/services"
)

func SetupRoutes(
	r *gin.Engine,
	authHandler *handlers.AuthHandler,
	materialHandler *handlers.MaterialHandler,
	tokenService services.TokenService,
) *gin.Engine {

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := r.Group("/api/v1")

	auth := api.Group("/auth")
	{
		auth.POST("/register", authHandler.Register)
		auth.POST("/request-otp", authHandler.RequestOTP)
		auth.POST("/verify-otp", authHandler.VerifyOTP)
		auth.POST("/login", authHandler.Login)
	}

	materials := api.Group("/materials")
	{
		// public reads
		materials.GET("", materialHandler.List)
		materials.GET("/:id", materialHandler.Get)

		// mutations need a bearer token
		authed := materials.Group("", middleware.Authenticate(tokenService))
		{
			authed.POST("", materialHandler.Create)
			authed.PUT("/:id", materialHandler.Update)
			authed.DELETE("/:id", materialHandler.Delete)
			authed.PATCH("/:id/approve", middleware.RequireAdmin(), materialHandler.ToggleApproval)
		}
	}

	return r
}
