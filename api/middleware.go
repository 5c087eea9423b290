package api

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/katatrina/postboard/internal/token"
)

const (
	authorizationHeaderKey  = "Authorization"
	authorizationTypeBearer = "Bearer"
	authorizationPayloadKey = "authPayload"
	accessTokenQueryKey     = "access_token"
)

// authMiddleware authenticates the user.
// Browsers cannot set headers on EventSource or WebSocket requests, so the token
// may also be passed as the access_token query parameter.
func authMiddleware(tokenMaker token.Maker) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		accessToken, err := extractAccessToken(ctx)
		if err != nil {
			ctx.AbortWithStatusJSON(http.StatusUnauthorized, errorResponse(err))
			return
		}

		payload, err := tokenMaker.VerifyToken(accessToken)
		if err != nil {
			ctx.AbortWithStatusJSON(http.StatusUnauthorized, errorResponse(err))
			return
		}

		ctx.Set(authorizationPayloadKey, payload)
		ctx.Next()
	}
}

func extractAccessToken(ctx *gin.Context) (string, error) {
	authorizationHeader := ctx.GetHeader(authorizationHeaderKey)
	if authorizationHeader == "" {
		if accessToken := ctx.Query(accessTokenQueryKey); accessToken != "" {
			return accessToken, nil
		}
		return "", errors.New("authorization header is not provided")
	}

	fields := strings.Fields(authorizationHeader)
	if len(fields) != 2 {
		return "", errors.New("invalid authorization header format")
	}

	authorizationHeaderType := fields[0]
	if authorizationHeaderType != authorizationTypeBearer {
		return "", errors.New("unsupported authorization header type")
	}

	return fields[1], nil
}

// authenticatedUserID returns the user resolved by authMiddleware.
func authenticatedUserID(ctx *gin.Context) string {
	return ctx.MustGet(authorizationPayloadKey).(*token.Payload).UserID()
}
