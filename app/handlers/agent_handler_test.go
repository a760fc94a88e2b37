package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"remote-admin-svc/app/domains"
	"remote-admin-svc/app/dto"
	"remote-admin-svc/app/services"
	"remote-admin-svc/storage/memory"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testEnv struct {
	store  *memory.Store
	router *gin.Engine
	server *domains.GameServer
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	store := memory.NewStore()
	server := &domains.GameServer{
		ID:               uuid.New(),
		WorkspaceGroupID: 1,
		Name:             "lobby",
		GameID:           123456,
		APIKey:           "ra_test_key",
		MaxPlayers:       50,
		IsActive:         true,
	}
	require.NoError(t, store.CreateServer(context.Background(), server))

	authService := services.NewAuthService(store)
	commandService := services.NewCommandService(store)
	ingestService := services.NewIngestService(store, authService, services.SubstringFilter([]string{"badword"}))

	agentHandler := NewAgentHandler(authService, commandService, ingestService)

	router := gin.New()
	router.POST("/api/remote-admin/poll", agentHandler.Poll)
	router.POST("/api/remote-admin/activity", agentHandler.PushActivity)

	return &testEnv{store: store, router: router, server: server}
}

func (e *testEnv) request(method, path, apiKey string, body interface{}) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+apiKey)
	}
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func TestPollRejectsMissingKey(t *testing.T) {
	env := newTestEnv(t)
	w := env.request(http.MethodPost, "/api/remote-admin/poll", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestPollRejectsUnknownKey(t *testing.T) {
	env := newTestEnv(t)
	w := env.request(http.MethodPost, "/api/remote-admin/poll", "ra_wrong", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestPollReturnsQueuedCommands(t *testing.T) {
	env := newTestEnv(t)
	svc := services.NewCommandService(env.store)
	target := int64(42)
	_, err := svc.Enqueue(context.Background(), 1, services.Operator{UserID: 7, Username: "admin"},
		"kick_player", domains.ServerTarget(env.server.ID), &target, map[string]interface{}{"reason": "afk"}, 0)
	require.NoError(t, err)

	w := env.request(http.MethodPost, "/api/remote-admin/poll", "ra_test_key", dto.PollRequest{})
	require.Equal(t, http.StatusOK, w.Code)

	var resp dto.PollResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Commands, 1)
	assert.Equal(t, "kick_player", resp.Commands[0].Command)
	assert.Equal(t, "admin", resp.Commands[0].ExecutedBy.Username)
	assert.Equal(t, "active", resp.ServerStatus)

	// Target user IDs travel as strings to survive 64-bit precision.
	raw := w.Body.String()
	assert.Contains(t, raw, `"targetUserId":"42"`)

	// Poll again: the command was delivered and must not reappear.
	w = env.request(http.MethodPost, "/api/remote-admin/poll", "ra_test_key", dto.PollRequest{})
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Empty(t, resp.Commands)
}

func TestPollAcceptsEmptyBody(t *testing.T) {
	env := newTestEnv(t)
	w := env.request(http.MethodPost, "/api/remote-admin/poll", "ra_test_key", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestPushActivityStoresChat(t *testing.T) {
	env := newTestEnv(t)
	body := dto.ActivityPushRequest{
		Type: "chat_message",
		Data: json.RawMessage(`{"userId":"42","username":"player1","message":"contains badword here"}`),
	}
	w := env.request(http.MethodPost, "/api/remote-admin/activity", "ra_test_key", body)
	require.Equal(t, http.StatusOK, w.Code)

	var resp dto.ActivityPushResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
}

func TestPushActivityRejectsUnknownType(t *testing.T) {
	env := newTestEnv(t)
	body := dto.ActivityPushRequest{
		Type: "player_yawn",
		Data: json.RawMessage(`{}`),
	}
	w := env.request(http.MethodPost, "/api/remote-admin/activity", "ra_test_key", body)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestPushActivityRejectsMissingFields(t *testing.T) {
	env := newTestEnv(t)
	w := env.request(http.MethodPost, "/api/remote-admin/activity", "ra_test_key", map[string]string{"type": "chat_message"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
