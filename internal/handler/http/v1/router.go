package v1

import "github.com/gin-gonic/gin"

// RegisterRoutes регистрирует маршруты API v1
func (h *Handler) RegisterRoutes(api *gin.RouterGroup) {
	auth := api.Group("/auth")
	{
		auth.POST("/register", h.register)
		auth.POST("/login", h.login)
		auth.POST("/logout", h.logout)
		auth.POST("/reset", h.resetPassword)
	}

	secured := api.Group("/")
	secured.Use(JWTAuthMiddleware(h.authService, h.logger))
	{
		secured.GET("/me", h.me)

		secured.GET("/incidents", h.listIncidents)
		secured.POST("/incidents", h.createIncident)
		secured.GET("/incidents/:id", h.getIncident)
		secured.POST("/incidents/:id/follow", h.toggleFollow)

		// Стримы живут на отдельных путях, чтобы не пересекаться с /incidents/:id
		secured.GET("/feed/stream", h.streamIncidents)
		secured.GET("/alerts/stream", h.streamAlerts)

		admin := secured.Group("/")
		admin.Use(AdminOnlyMiddleware(h.logger))
		{
			admin.PUT("/incidents/:id/status", h.setStatus)
			admin.DELETE("/incidents/:id", h.deleteIncident)
			admin.POST("/alerts", h.broadcastAlert)
		}
	}

	api.GET("/system/health", h.healthCheck)
}
