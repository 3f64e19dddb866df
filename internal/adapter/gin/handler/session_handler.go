package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"commerce-service/internal/adapter/gin/response"
	"commerce-service/internal/adapter/session"
	apperrors "commerce-service/pkg/errors"
)

// SessionStore creates and invalidates sessions.
type SessionStore interface {
	Create(ctx context.Context) (*session.Session, error)
	Delete(ctx context.Context, id string) error
	TTL() time.Duration
}

// SessionHandler exposes the caller's session.
type SessionHandler struct {
	store SessionStore
	log   *zap.Logger
}

// NewSessionHandler creates a new SessionHandler instance
func NewSessionHandler(store SessionStore, log *zap.Logger) *SessionHandler {
	return &SessionHandler{store: store, log: log}
}

// Register mounts the session routes on rg.
func (h *SessionHandler) Register(rg *gin.RouterGroup) {
	rg.GET("/session", h.Get)
	rg.DELETE("/session", h.Invalidate)
}

// Get handles GET /api/session, starting a session when the request has none.
func (h *SessionHandler) Get(c *gin.Context) {
	if sess, ok := current(c); ok {
		c.JSON(http.StatusOK, sess)
		return
	}

	sess, err := h.store.Create(c.Request.Context())
	if err != nil {
		response.Error(c, h.log, apperrors.NewUnavailableError("session store", err))
		return
	}
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(session.CookieName, sess.ID, int(h.store.TTL().Seconds()), "/", "", false, true)
	c.JSON(http.StatusOK, sess)
}

// Invalidate handles DELETE /api/session
func (h *SessionHandler) Invalidate(c *gin.Context) {
	if sess, ok := current(c); ok {
		if err := h.store.Delete(c.Request.Context(), sess.ID); err != nil {
			h.log.Warn("failed to invalidate session", zap.String("session_id", sess.ID), zap.Error(err))
		}
	}
	c.SetCookie(session.CookieName, "", -1, "/", "", false, true)
	c.Status(http.StatusNoContent)
}

// Session attributes recorded by the read handlers.
const (
	lastViewedProduct = "lastViewedProduct"
	lastViewedOrder   = "lastViewedOrder"
)

// remember queues a session attribute; the session middleware saves it after
// the handler returns. Requests without a session are ignored.
func remember(c *gin.Context, name, value string) {
	if _, ok := current(c); !ok {
		return
	}
	pending, ok := c.Get(session.PendingKey)
	attrs, _ := pending.(map[string]string)
	if !ok || attrs == nil {
		attrs = map[string]string{}
		c.Set(session.PendingKey, attrs)
	}
	attrs[name] = value
}

func current(c *gin.Context) (*session.Session, bool) {
	v, ok := c.Get(session.ContextKey)
	if !ok {
		return nil, false
	}
	sess, ok := v.(*session.Session)
	return sess, ok && sess != nil
}
