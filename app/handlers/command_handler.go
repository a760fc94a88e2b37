package handlers

import (
	"net/http"

	"remote-admin-svc/app/domains"
	"remote-admin-svc/app/dto"
	"remote-admin-svc/app/services"
	"remote-admin-svc/app/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// CommandHandler handles operator command endpoints
type CommandHandler struct {
	commandService *services.CommandService
}

// NewCommandHandler creates a new command handler
func NewCommandHandler(commandService *services.CommandService) *CommandHandler {
	return &CommandHandler{commandService: commandService}
}

// Enqueue handles operator command submission. An empty or "all" serverId
// targets every active server of the workspace.
func (h *CommandHandler) Enqueue(c *gin.Context) {
	var req dto.EnqueueCommandRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "invalid request body", nil)
		return
	}

	if err := utils.ValidateStruct(&req); err != nil {
		respondError(c, http.StatusBadRequest, "validation failed", map[string]string{"error": err.Error()})
		return
	}

	target := domains.BroadcastTarget()
	if req.ServerID != "" && req.ServerID != "all" {
		serverID, err := uuid.Parse(req.ServerID)
		if err != nil {
			respondError(c, http.StatusBadRequest, "invalid server id", nil)
			return
		}
		target = domains.ServerTarget(serverID)
	}

	priority := 1
	if req.Priority != nil {
		priority = *req.Priority
	}

	ctx := c.Request.Context()
	cmd, err := h.commandService.Enqueue(
		ctx,
		workspaceFrom(c),
		operatorFrom(c),
		req.Command,
		target,
		dto.OptionalInt64(req.TargetUserID),
		req.Parameters,
		priority,
	)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	targetDesc := "All servers"
	if cmd.ServerName != nil {
		targetDesc = *cmd.ServerName
	}

	respondJSON(c, http.StatusCreated, dto.EnqueueCommandResponse{
		Success:           true,
		CommandID:         cmd.ID,
		Message:           "Command queued for delivery",
		Target:            targetDesc,
		EstimatedDelivery: "Within 30 seconds",
	})
}

// ListQueue handles the operator queue listing.
func (h *CommandHandler) ListQueue(c *gin.Context) {
	ctx := c.Request.Context()
	commands, err := h.commandService.ListQueue(ctx, workspaceFrom(c))
	if err != nil {
		respondServiceError(c, err)
		return
	}

	infos := make([]dto.QueuedCommandInfo, len(commands))
	for i, cmd := range commands {
		info := dto.QueuedCommandInfo{
			ID:           cmd.ID,
			Command:      cmd.Command,
			TargetUserID: dto.FromOptionalInt64(cmd.TargetUserID),
			Parameters:   cmd.Parameters,
			Status:       cmd.Status,
			Priority:     cmd.Priority,
			CreatedAt:    dto.FormatTime(cmd.CreatedAt),
			DeliveredAt:  dto.FormatTimePtr(cmd.DeliveredAt),
			Executor:     dto.ExecutorInfo{Username: cmd.ExecutorUsername},
		}
		if cmd.ServerID != nil {
			name := ""
			if cmd.ServerName != nil {
				name = *cmd.ServerName
			}
			info.Server = &dto.ServerRef{ID: cmd.ServerID.String(), Name: name}
		}
		infos[i] = info
	}

	respondJSON(c, http.StatusOK, dto.QueueResponse{
		Commands: infos,
		Total:    len(infos),
	})
}
