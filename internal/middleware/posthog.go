package middleware

import (
	"net/http"
	"strings"

	"github.com/SscSPs/baki_khata/internal/utils"
	"github.com/gin-gonic/gin"
)

// eventName turns a route template into an analytics event name, e.g.
// "/api/v1/ledger/customers/:customerName" becomes "ledger_customers_customerName".
// Templates are used instead of raw paths so customer names never leave the server.
func eventName(route string) string {
	route = strings.TrimPrefix(route, "/api/v1")
	route = strings.Trim(route, "/")
	route = strings.ReplaceAll(route, ":", "")
	return strings.ReplaceAll(route, "/", "_")
}

// PosthogMiddleware reports each successful authenticated request to PostHog.
// A nil or disabled client turns it into a pass-through.
func PosthogMiddleware(posthogClient *utils.PosthogClientWrapper) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if !posthogClient.IsInitialized() || c.Writer.Status() >= http.StatusBadRequest {
			return
		}
		userID, ok := GetUserIDFromContext(c)
		if !ok {
			return
		}
		name := eventName(c.FullPath())
		if name == "" {
			return
		}
		posthogClient.Enqueue(userID, name, map[string]any{
			"method":      c.Request.Method,
			"route":       c.FullPath(),
			"status_code": c.Writer.Status(),
		})
	}
}

// PosthogEvent sends a custom event for the authenticated user.
func PosthogEvent(c *gin.Context, posthogClient *utils.PosthogClientWrapper, event string, properties map[string]any) {
	if !posthogClient.IsInitialized() {
		return
	}
	userID, ok := GetUserIDFromContext(c)
	if !ok {
		return
	}
	if properties == nil {
		properties = make(map[string]any)
	}
	properties["route"] = c.FullPath()
	posthogClient.Enqueue(userID, event, properties)
}
