package middleware

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"commerce-service/internal/adapter/session"
	"commerce-service/pkg/logger"
)

// SessionLoader resolves a session id, extends its lifetime and saves
// attributes queued by handlers.
type SessionLoader interface {
	Touch(ctx context.Context, id string) (*session.Session, error)
	SetAttribute(ctx context.Context, id, name, value string) error
}

// Session attaches the caller's session to the gin context and, after the
// handler, saves the attributes it queued under session.PendingKey. When the
// store fails the request continues without a session.
func Session(store SessionLoader, log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := c.Cookie(session.CookieName)
		if err != nil || id == "" {
			c.Next()
			return
		}

		sess, err := store.Touch(c.Request.Context(), id)
		switch {
		case errors.Is(err, session.ErrNotFound):
			c.SetSameSite(http.SameSiteLaxMode)
			c.SetCookie(session.CookieName, "", -1, "/", "", false, true)
		case err != nil:
			log.Warn("session store unavailable, continuing without session", zap.Error(err))
		default:
			c.Set(session.ContextKey, sess)
			c.Request = c.Request.WithContext(context.WithValue(c.Request.Context(), logger.SessionIDKey, sess.ID))
			c.Next()
			saveAttributes(c, store, sess.ID, log)
			return
		}
		c.Next()
	}
}

func saveAttributes(c *gin.Context, store SessionLoader, id string, log *zap.Logger) {
	v, ok := c.Get(session.PendingKey)
	if !ok {
		return
	}
	attrs, _ := v.(map[string]string)
	for name, value := range attrs {
		if err := store.SetAttribute(c.Request.Context(), id, name, value); err != nil {
			log.Warn("failed to save session attribute",
				zap.String("session_id", id),
				zap.String("attribute", name),
				zap.Error(err),
			)
		}
	}
}
