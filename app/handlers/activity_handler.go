package handlers

import (
	"net/http"
	"strconv"
	"time"

	"remote-admin-svc/app/domains"
	"remote-admin-svc/app/dto"
	"remote-admin-svc/app/services"
	"remote-admin-svc/app/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// ActivityHandler handles operator activity and chat endpoints
type ActivityHandler struct {
	activityService *services.ActivityService
	chatService     *services.ChatService
}

// NewActivityHandler creates a new activity handler
func NewActivityHandler(activityService *services.ActivityService, chatService *services.ChatService) *ActivityHandler {
	return &ActivityHandler{
		activityService: activityService,
		chatService:     chatService,
	}
}

// queryServerID parses the optional serverId query parameter.
func queryServerID(c *gin.Context) (*uuid.UUID, bool) {
	raw := c.Query("serverId")
	if raw == "" || raw == "all" {
		return nil, true
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return nil, false
	}
	return &id, true
}

// queryUserID parses the optional userId query parameter.
func queryUserID(c *gin.Context) (*int64, bool) {
	raw := c.Query("userId")
	if raw == "" {
		return nil, true
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return nil, false
	}
	return &id, true
}

// queryLimit parses the optional limit query parameter.
func queryLimit(c *gin.Context, fallback, max int) int {
	raw := c.Query("limit")
	if raw == "" {
		return fallback
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		return fallback
	}
	if n > max {
		return max
	}
	return n
}

// Feed handles the merged activity feed.
func (h *ActivityHandler) Feed(c *gin.Context) {
	serverID, ok := queryServerID(c)
	if !ok {
		respondError(c, http.StatusBadRequest, "invalid server id", nil)
		return
	}
	userID, ok := queryUserID(c)
	if !ok {
		respondError(c, http.StatusBadRequest, "invalid user id", nil)
		return
	}

	includeChat := c.DefaultQuery("includeChatMessages", "true") != "false"

	ctx := c.Request.Context()
	envelopes, err := h.activityService.Feed(ctx, services.FeedFilter{
		WorkspaceGroupID: workspaceFrom(c),
		ServerID:         serverID,
		EventType:        c.Query("eventType"),
		UserID:           userID,
		Search:           c.Query("search"),
		IncludeChat:      includeChat,
		Limit:            queryLimit(c, services.DefaultFeedLimit, 200),
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, dto.ActivityFeedResponse{Events: envelopes})
}

// ListChat handles the operator chat listing.
func (h *ActivityHandler) ListChat(c *gin.Context) {
	serverID, ok := queryServerID(c)
	if !ok {
		respondError(c, http.StatusBadRequest, "invalid server id", nil)
		return
	}
	userID, ok := queryUserID(c)
	if !ok {
		respondError(c, http.StatusBadRequest, "invalid user id", nil)
		return
	}

	ctx := c.Request.Context()
	messages, err := h.chatService.ListMessages(ctx, services.ChatFilter{
		WorkspaceGroupID: workspaceFrom(c),
		Since:            services.ChatTimeRange(c.Query("timeRange"), time.Now()),
		ServerID:         serverID,
		FlaggedOnly:      c.Query("flaggedOnly") == "true",
		UserID:           userID,
		Search:           c.Query("search"),
		Limit:            queryLimit(c, services.DefaultChatLimit, 500),
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}

	infos := make([]dto.ChatMessageInfo, len(messages))
	for i, msg := range messages {
		infos[i] = dto.ChatMessageInfo{
			ID:          msg.ID,
			ServerID:    msg.ServerID.String(),
			ServerName:  msg.ServerName,
			UserID:      dto.UserID(msg.UserID),
			Username:    msg.Username,
			Message:     msg.Message,
			Filtered:    msg.Filtered,
			Flagged:     msg.Flagged,
			Timestamp:   dto.FormatTime(msg.Timestamp),
			ModeratedBy: dto.FromOptionalInt64(msg.ModeratedBy),
		}
	}

	respondJSON(c, http.StatusOK, dto.ChatListResponse{Messages: infos})
}

// ModerateChat handles a moderation action on one chat message.
func (h *ActivityHandler) ModerateChat(c *gin.Context) {
	var req dto.ModerateChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "invalid request body", nil)
		return
	}

	if err := utils.ValidateStruct(&req); err != nil {
		respondError(c, http.StatusBadRequest, "validation failed", map[string]string{"error": err.Error()})
		return
	}

	ctx := c.Request.Context()
	operator := operatorFrom(c)
	if err := h.chatService.Moderate(ctx, workspaceFrom(c), operator.UserID, req.MessageID, domains.ModerationAction(req.Action)); err != nil {
		respondServiceError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, dto.ModerateChatResponse{Success: true})
}
