package api

import (
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/xiaoyuanzhu-com/project-import/log"
)

type autopilotRequest struct {
	ProjectHex string `json:"projectHex"`
}

// bindProjectHex reads {"projectHex": "..."} and answers 400 when it is missing
func bindProjectHex(c *gin.Context) (string, bool) {
	var req autopilotRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		RespondError(c, http.StatusBadRequest, "Invalid JSON body")
		return "", false
	}
	hex := strings.TrimSpace(req.ProjectHex)
	if hex == "" {
		RespondError(c, http.StatusBadRequest, MsgMissingProjectHex)
		return "", false
	}
	return hex, true
}

// AutopilotImport handles POST /api/autopilot/import
// Responds with the project name and every file's content.
func (h *Handlers) AutopilotImport(c *gin.Context) {
	hex, ok := bindProjectHex(c)
	if !ok {
		return
	}

	result, err := h.server.Importer().FetchRemoteProject(c.Request.Context(), hex)
	if err != nil {
		log.Error().Err(err).Str("projectHex", hex).Msg("autopilot import failed")
		RespondErr(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// AutopilotHistory handles POST /api/autopilot/history
// Responds with a ready-to-store chat history item for the project.
func (h *Handlers) AutopilotHistory(c *gin.Context) {
	hex, ok := bindProjectHex(c)
	if !ok {
		return
	}

	item, err := h.server.Importer().ImportRemote(c.Request.Context(), hex)
	if err != nil {
		log.Error().Err(err).Str("projectHex", hex).Msg("autopilot history import failed")
		RespondErr(c, err)
		return
	}

	c.JSON(http.StatusOK, item)
}

// Health handles GET /api/health
func (h *Handlers) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
