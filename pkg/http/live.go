package http

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Live streams the caller's live events as Server-Sent Events until the
// client goes away.
func (rs *RestfulServer) Live(c *gin.Context) {
	if rs.Hub == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "live channel is not configured"})
		return
	}

	userID := currentUser(c)
	sub := rs.Hub.Join(userID)
	defer rs.Hub.Leave(sub)

	l := handlerLogger("live")
	l.Info("Live stream opened", zap.String("user_id", userID))
	defer l.Info("Live stream closed", zap.String("user_id", userID))

	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Header("X-Accel-Buffering", "no")
	c.Status(http.StatusOK)
	c.Writer.Flush()

	ctx := c.Request.Context()
	c.Stream(func(w io.Writer) bool {
		select {
		case <-ctx.Done():
			return false
		case ev, ok := <-sub.C:
			if !ok {
				return false
			}
			c.SSEvent(ev.Name, ev.Payload)
			return true
		}
	})
}

