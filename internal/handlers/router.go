package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/studyshare-platform/material-service/internal/models"
	"github.com/studyshare-platform/material-service/internal/services"
	"github.com/studyshare-platform/material-service/internal/utils"
)

type HandlerManager struct {
	authHandler     *AuthHandler
	materialHandler *MaterialHandler
	adminHandler    *AdminHandler
	authMiddleware  *JWTAuthMiddleware
}

func NewHandlerManager(
	serviceManager services.ServiceManager,
	logger utils.Logger,
) *HandlerManager {
	return &HandlerManager{
		authHandler:     NewAuthHandler(serviceManager.Auth(), logger),
		materialHandler: NewMaterialHandler(serviceManager.Material(), logger),
		adminHandler:    NewAdminHandler(serviceManager.Material(), serviceManager.Auth(), logger),
		authMiddleware:  NewJWTAuthMiddleware(serviceManager.Auth()),
	}
}

// SetupRoutes sets up all API routes
func (hm *HandlerManager) SetupRoutes(router *gin.Engine) {
	api := router.Group("/api")
	{
		// Public authentication routes
		auth := api.Group("/auth")
		{
			auth.POST("/send-otp", hm.authHandler.SendOTP)
			auth.POST("/register", hm.authHandler.Register)
			auth.POST("/login", hm.authHandler.Login)
		}

		// Material routes - all authenticated users
		materials := api.Group("/materials")
		materials.Use(hm.authMiddleware.AuthMiddleware())
		{
			materials.GET("", hm.materialHandler.ListApproved)
			materials.POST("/upload", hm.materialHandler.Upload)
			materials.GET("/download/:id", hm.materialHandler.Download)

			// Moderation routes - admins only
			admin := materials.Group("/admin")
			admin.Use(hm.authMiddleware.RequireRoleMiddleware(models.RoleAdmin))
			{
				admin.GET("/pending", hm.adminHandler.ListPending)
				admin.GET("/pending/latest", hm.adminHandler.ListPendingLatest)
				admin.GET("/materials", hm.adminHandler.ListAllMaterials)
				admin.PUT("/approve/:id", hm.adminHandler.Approve)
				admin.PUT("/update-filename/:id", hm.adminHandler.Rename)
				admin.GET("/view/:id", hm.adminHandler.View)
				admin.DELETE("/materials/:id", hm.adminHandler.Delete)
			}
		}

		// User directory - admins only
		adminUsers := api.Group("/admin")
		adminUsers.Use(hm.authMiddleware.AuthMiddleware(), hm.authMiddleware.RequireRoleMiddleware(models.RoleAdmin))
		{
			adminUsers.GET("/users", hm.adminHandler.ListUsers)
		}
	}

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "healthy",
			"service": "material-service",
		})
	})
}
