package http

import (
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/grupo7/ecommerce-api/internal/adapter/metrics"
	"github.com/grupo7/ecommerce-api/internal/core/domain"
	"github.com/grupo7/ecommerce-api/internal/core/port"
)

const authHeaderKey = "Authorization"
const authType = "Bearer"
const userPayloadKey = "user_payload"

// authCheck resolves the authenticated identity once and stores it on the
// request context; handlers pass it into the core explicitly.
func authCheck(tokenService port.TokenService, base *Handler) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		header := ctx.Request.Header.Get(authHeaderKey)
		if len(header) == 0 {
			base.handleAbort(ctx, domain.ErrEmptyAuthorizationHeader)
			return
		}

		words := strings.Split(header, " ")
		if len(words) != 2 {
			base.handleAbort(ctx, domain.ErrInvalidAuthorizationHeader)
			return
		}
		if words[0] != authType {
			base.handleAbort(ctx, domain.ErrInvalidAuthorizationType)
			return
		}
		token := words[1]
		payload, err := tokenService.VerifyToken(token)
		if err != nil {
			base.handleAbort(ctx, domain.ErrInvalidToken)
			return
		}

		ctx.Set(userPayloadKey, payload)

		ctx.Next()
	}
}

func getAuthPayload(ctx *gin.Context) *port.TokenPayload {
	return ctx.MustGet(userPayloadKey).(*port.TokenPayload)
}

func observeRequests(m *metrics.ServerMetrics) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		ctx.Next()
		m.Requests.WithLabelValues(ctx.FullPath(), strconv.Itoa(ctx.Writer.Status())).Inc()
	}
}
