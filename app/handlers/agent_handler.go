package handlers

import (
	"errors"
	"io"
	"net/http"

	"remote-admin-svc/app/dto"
	"remote-admin-svc/app/services"
	"remote-admin-svc/app/utils"

	"github.com/gin-gonic/gin"
)

// respondJSON sends a JSON response
func respondJSON(c *gin.Context, status int, data interface{}) {
	c.JSON(status, data)
}

// respondError sends an error response
func respondError(c *gin.Context, status int, message string, details map[string]string) {
	c.JSON(status, dto.ErrorResponse{
		Error:   message,
		Details: details,
	})
}

// respondServiceError maps service errors to HTTP status codes. Unrecognized
// errors surface as a generic 500 so internal detail never leaks.
func respondServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrUnauthenticated):
		respondError(c, http.StatusUnauthorized, "invalid API key", nil)
	case errors.Is(err, services.ErrValidation):
		respondError(c, http.StatusBadRequest, err.Error(), nil)
	case errors.Is(err, services.ErrNotFound):
		respondError(c, http.StatusNotFound, err.Error(), nil)
	default:
		respondError(c, http.StatusInternalServerError, "internal error", nil)
	}
}

// bearerToken extracts the bearer credential from the Authorization header
func bearerToken(c *gin.Context) string {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" || len(authHeader) < 7 || authHeader[:7] != "Bearer " {
		return ""
	}
	return authHeader[7:]
}

// AgentHandler handles the game-server-facing endpoints
type AgentHandler struct {
	authService    *services.AuthService
	commandService *services.CommandService
	ingestService  *services.IngestService
}

// NewAgentHandler creates a new agent handler
func NewAgentHandler(
	authService *services.AuthService,
	commandService *services.CommandService,
	ingestService *services.IngestService,
) *AgentHandler {
	return &AgentHandler{
		authService:    authService,
		commandService: commandService,
		ingestService:  ingestService,
	}
}

// Poll handles a command poll from a game server. Delivered commands are
// marked before the response is written, so a command is handed out once
// even when pollers race.
func (h *AgentHandler) Poll(c *gin.Context) {
	ctx := c.Request.Context()

	server, err := h.authService.Authenticate(ctx, bearerToken(c))
	if err != nil {
		respondServiceError(c, err)
		return
	}

	// Body fields are advisory context; an empty body is a valid poll.
	var req dto.PollRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		respondError(c, http.StatusBadRequest, "invalid request body", nil)
		return
	}

	commands, err := h.commandService.Poll(ctx, server, services.DefaultPollLimit)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	if err := h.authService.Heartbeat(ctx, server.ID, nil); err != nil {
		respondServiceError(c, err)
		return
	}

	polled := make([]dto.PolledCommand, len(commands))
	for i, cmd := range commands {
		polled[i] = dto.PolledCommand{
			ID:           cmd.ID,
			Command:      cmd.Command,
			TargetUserID: dto.FromOptionalInt64(cmd.TargetUserID),
			Parameters:   cmd.Parameters,
			ExecutedBy:   dto.ExecutorInfo{Username: cmd.ExecutorUsername},
			Timestamp:    dto.FormatTime(cmd.CreatedAt),
		}
	}

	respondJSON(c, http.StatusOK, dto.PollResponse{
		Commands:     polled,
		ServerStatus: "active",
	})
}

// PushActivity handles a tagged telemetry envelope from a game server.
func (h *AgentHandler) PushActivity(c *gin.Context) {
	ctx := c.Request.Context()

	server, err := h.authService.Authenticate(ctx, bearerToken(c))
	if err != nil {
		respondServiceError(c, err)
		return
	}

	var req dto.ActivityPushRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "invalid request body", nil)
		return
	}

	if err := utils.ValidateStruct(&req); err != nil {
		respondError(c, http.StatusBadRequest, "validation failed", map[string]string{"error": err.Error()})
		return
	}

	if err := h.ingestService.Ingest(ctx, server, req.Type, req.Data); err != nil {
		respondServiceError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, dto.ActivityPushResponse{Success: true})
}
