package middleware

import (
	"encoding/hex"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/trace"

	"github.com/yungbote/promptdesk-backend/internal/platform/ctxutil"
)

const (
	headerTraceID   = "X-Trace-Id"
	headerRequestID = "X-Request-Id"

	maxRequestIDLen = 128
)

// AttachTraceContext gives every request a request id and a trace id, stores
// them in the request context for services and the request log, and echoes
// them back as response headers.
//
// A caller-supplied request id is kept when it is a short printable token.
// The trace id comes from the active span when otelgin started one, then from
// a well-formed X-Trace-Id header, and is generated otherwise.
func AttachTraceContext() gin.HandlerFunc {
	return func(c *gin.Context) {
		reqID := strings.TrimSpace(c.GetHeader(headerRequestID))
		if !validRequestID(reqID) {
			reqID = uuid.NewString()
		}

		traceID := ""
		if spanCtx := trace.SpanContextFromContext(c.Request.Context()); spanCtx.HasTraceID() {
			traceID = spanCtx.TraceID().String()
		} else if h := strings.ToLower(strings.TrimSpace(c.GetHeader(headerTraceID))); validTraceID(h) {
			traceID = h
		} else {
			id := uuid.New()
			traceID = hex.EncodeToString(id[:])
		}

		ctx := ctxutil.WithTraceData(c.Request.Context(), &ctxutil.TraceData{
			TraceID:   traceID,
			RequestID: reqID,
		})
		c.Request = c.Request.WithContext(ctx)
		c.Writer.Header().Set(headerTraceID, traceID)
		c.Writer.Header().Set(headerRequestID, reqID)
		c.Next()
	}
}

func validRequestID(id string) bool {
	if id == "" || len(id) > maxRequestIDLen {
		return false
	}
	for _, r := range id {
		if r <= ' ' || r > '~' {
			return false
		}
	}
	return true
}

// validTraceID accepts the W3C form: 32 lower-case hex digits, not all zero.
func validTraceID(id string) bool {
	_, err := trace.TraceIDFromHex(id)
	return err == nil
}
