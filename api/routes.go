package api

import (
	"github.com/gin-gonic/gin"
)

// SetupRoutes configures all API routes
func SetupRoutes(r *gin.Engine, h *Handlers) {
	r.NoMethod(MethodNotAllowed)

	api := r.Group("/api")

	api.GET("/health", h.Health)

	// Remote (autopilot) imports
	api.POST("/autopilot/import", h.AutopilotImport)
	api.POST("/autopilot/history", h.AutopilotHistory)

	// Local imports
	api.POST("/import/folder", h.ImportFolder)
	api.POST("/import/archive", h.ImportArchive)

	// Import journal
	api.GET("/imports", h.ListImports)
	api.GET("/imports/stream", h.ImportStream)
}
