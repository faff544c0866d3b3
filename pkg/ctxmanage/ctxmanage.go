package ctxmanage

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type key string

// TraceIdKey is the gin context key under which the request trace id is stored.
const TraceIdKey key = "trace_id"

// GetTraceIdOfRequest returns the trace id assigned to the request by the
// logging middleware, generating one if the middleware did not run.
func GetTraceIdOfRequest(c *gin.Context) string {
	v, ok := c.Get(string(TraceIdKey))
	if !ok {
		return uuid.NewString()
	}
	traceId, ok := v.(string)
	if !ok || traceId == "" {
		return uuid.NewString()
	}
	return traceId
}
