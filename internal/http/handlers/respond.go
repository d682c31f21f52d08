package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Error bodies are a flat {message, ...} object, which is what the web
// client renders directly in the form banner.

func requestIDFrom(ctx *gin.Context) string {
	v, ok := ctx.Get("request_id")

	if ok {
		s, ok := v.(string)
		if ok && s != "" {
			return s
		}
	}

	// fallback header
	return ctx.GetHeader("X-Request-Id")
}

func RespondError(ctx *gin.Context, status int, message string, details interface{}) {
	body := gin.H{
		"message": message,
	}

	if id := requestIDFrom(ctx); id != "" {
		body["requestId"] = id
	}

	if details != nil {
		body["fields"] = details
	}

	ctx.JSON(status, body)
}

func RespondBadRequest(ctx *gin.Context, message string, details interface{}) {
	RespondError(ctx, http.StatusBadRequest, message, details)
}

func RespondUnauthorized(ctx *gin.Context, message string) {
	RespondError(ctx, http.StatusUnauthorized, message, nil)
}

func RespondInternal(ctx *gin.Context, message string) {
	RespondError(ctx, http.StatusInternalServerError, message, nil)
}
