// README: Manual notification send handler.
package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"gonow/internal/modules/guide"
	"gonow/internal/types"
)

// PushSender sends an ad-hoc push to one device token.
type PushSender interface {
	SendDirect(ctx context.Context, token, title, body string, data map[string]string) error
}

// UserResolver looks up a user to resolve their device token.
type UserResolver interface {
	Get(ctx context.Context, id types.ID) (*guide.Guide, error)
}

type NotificationHandler struct {
	sender PushSender
	users  UserResolver
}

func NewNotificationHandler(sender PushSender, users UserResolver) *NotificationHandler {
	return &NotificationHandler{sender: sender, users: users}
}

type sendNotificationReq struct {
	UserID string            `json:"user_id"`
	Token  string            `json:"token"`
	Title  string            `json:"title"`
	Body   string            `json:"body"`
	Data   map[string]string `json:"data"`
}

// Send pushes an arbitrary title/body to a token or a user. Backs the
// back-office "send notification" button.
func (h *NotificationHandler) Send(c *gin.Context) {
	var req sendNotificationReq
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid json")
		return
	}
	if req.Title == "" || req.Body == "" {
		writeError(c, http.StatusBadRequest, "missing fields")
		return
	}
	token := req.Token
	if token == "" {
		if req.UserID == "" {
			writeError(c, http.StatusBadRequest, "token or user_id required")
			return
		}
		u, err := h.users.Get(c.Request.Context(), types.ID(req.UserID))
		if err != nil {
			writeError(c, http.StatusNotFound, "user not found")
			return
		}
		token = u.FirebaseToken
	}
	if token == "" {
		writeError(c, http.StatusConflict, "user has no push token")
		return
	}
	if err := h.sender.SendDirect(c.Request.Context(), token, req.Title, req.Body, req.Data); err != nil {
		writeError(c, http.StatusBadGateway, "push delivery failed")
		return
	}
	writeJSON(c, http.StatusOK, gin.H{"status": "sent"})
}
