package handlers

import (
	"net/http"

	"remote-admin-svc/app/dto"
	"remote-admin-svc/app/services"
	"remote-admin-svc/app/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// ServerHandler handles operator server management endpoints
type ServerHandler struct {
	serverService *services.ServerService
}

// NewServerHandler creates a new server handler
func NewServerHandler(serverService *services.ServerService) *ServerHandler {
	return &ServerHandler{serverService: serverService}
}

// List handles the workspace server listing with fleet stats.
func (h *ServerHandler) List(c *gin.Context) {
	ctx := c.Request.Context()
	servers, err := h.serverService.List(ctx, workspaceFrom(c))
	if err != nil {
		respondServiceError(c, err)
		return
	}

	infos := make([]dto.ServerInfo, len(servers))
	var stats dto.WorkspaceServerStats
	for i, srv := range servers {
		infos[i] = dto.ServerInfo{
			ID:              srv.ID.String(),
			Name:            srv.Name,
			Description:     srv.Description,
			GameID:          dto.UserID(srv.GameID),
			UniverseID:      dto.FromOptionalInt64(srv.UniverseID),
			PlayerCount:     srv.PlayerCount,
			MaxPlayers:      srv.MaxPlayers,
			IsActive:        srv.IsActive,
			LastSeen:        dto.FormatTimePtr(srv.LastSeen),
			CreatedAt:       dto.FormatTime(srv.CreatedAt),
			ChatMessages24h: srv.ChatMessages24h,
			Events24h:       srv.Events24h,
		}
		stats.TotalServers++
		if srv.IsActive {
			stats.ActiveServers++
			stats.TotalPlayers += srv.PlayerCount
		}
		stats.TotalChatMessages24h += srv.ChatMessages24h
		stats.TotalEvents24h += srv.Events24h
	}

	respondJSON(c, http.StatusOK, dto.ListServersResponse{
		Servers: infos,
		Stats:   stats,
	})
}

// Create handles server registration. The response is the only place the
// minted API key is ever shown.
func (h *ServerHandler) Create(c *gin.Context) {
	var req dto.CreateServerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "invalid request body", nil)
		return
	}

	if err := utils.ValidateStruct(&req); err != nil {
		respondError(c, http.StatusBadRequest, "validation failed", map[string]string{"error": err.Error()})
		return
	}

	maxPlayers := 0
	if req.MaxPlayers != nil {
		maxPlayers = *req.MaxPlayers
	}

	ctx := c.Request.Context()
	server, err := h.serverService.Create(
		ctx,
		workspaceFrom(c),
		req.Name,
		req.Description,
		req.GameID.Int64(),
		dto.OptionalInt64(req.UniverseID),
		maxPlayers,
	)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondJSON(c, http.StatusCreated, dto.CreateServerResponse{
		ID:          server.ID.String(),
		Name:        server.Name,
		Description: server.Description,
		GameID:      dto.UserID(server.GameID),
		UniverseID:  dto.FromOptionalInt64(server.UniverseID),
		APIKey:      server.APIKey,
		MaxPlayers:  server.MaxPlayers,
		IsActive:    server.IsActive,
		CreatedAt:   dto.FormatTime(server.CreatedAt),
	})
}

// Update handles mutation of operator-editable server fields.
func (h *ServerHandler) Update(c *gin.Context) {
	var req dto.UpdateServerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "invalid request body", nil)
		return
	}

	if err := utils.ValidateStruct(&req); err != nil {
		respondError(c, http.StatusBadRequest, "validation failed", map[string]string{"error": err.Error()})
		return
	}

	serverID, err := uuid.Parse(req.ServerID)
	if err != nil {
		respondError(c, http.StatusBadRequest, "invalid server id", nil)
		return
	}

	ctx := c.Request.Context()
	server, err := h.serverService.Update(ctx, workspaceFrom(c), serverID, req.Name, req.Description, req.MaxPlayers, req.IsActive)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, dto.UpdateServerResponse{
		ID:          server.ID.String(),
		Name:        server.Name,
		Description: server.Description,
		GameID:      dto.UserID(server.GameID),
		MaxPlayers:  server.MaxPlayers,
		IsActive:    server.IsActive,
		UpdatedAt:   dto.FormatTime(server.UpdatedAt),
	})
}

// Delete handles server removal including all dependent records.
func (h *ServerHandler) Delete(c *gin.Context) {
	var req dto.DeleteServerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "invalid request body", nil)
		return
	}

	if err := utils.ValidateStruct(&req); err != nil {
		respondError(c, http.StatusBadRequest, "validation failed", map[string]string{"error": err.Error()})
		return
	}

	serverID, err := uuid.Parse(req.ServerID)
	if err != nil {
		respondError(c, http.StatusBadRequest, "invalid server id", nil)
		return
	}

	ctx := c.Request.Context()
	if err := h.serverService.Delete(ctx, workspaceFrom(c), serverID); err != nil {
		respondServiceError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, dto.DeleteServerResponse{Success: true})
}
