package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"

	inErrors "github.com/aprayoga/storefront/internal/errors"
	inHttp "github.com/aprayoga/storefront/internal/http"
	"github.com/aprayoga/storefront/internal/log"
	"github.com/aprayoga/storefront/internal/otel"
)

type sessionKey struct{}

func SessionKeyFromContext(c context.Context) string {
	v, ok := c.Value(sessionKey{}).(string)
	if !ok {
		return ""
	}
	return v
}

func AttachSessionKeyToContext(c context.Context, key string) context.Context {
	return context.WithValue(c, sessionKey{}, key)
}

// Session resolves the opaque cart session key. An authenticated request
// carries a bearer token whose subject becomes the key so a user keeps the
// same cart across devices; a guest request carries an X-Session-Key header
// issued by the frontend. Guest and authenticated keys never collide because
// token subjects are uuids and guest keys are prefixed by the frontend.
func Session(secretKey string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			c, span := otel.Tracer.Start(r.Context(), "middleware Session")
			defer span.End()

			logger := zerolog.Ctx(c).With().Str(log.KeyTag, "middleware Session").Logger()

			key := ""
			authorization := r.Header.Get("Authorization")
			if authorization != "" {
				raw := strings.TrimPrefix(authorization, "Bearer ")
				token, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
					return []byte(secretKey), nil
				})
				if err != nil || !token.Valid {
					logger.Error().Err(inErrors.ErrTokenInvalid).Msg(inErrors.ErrTokenInvalid.Error())
					otel.RecordError(inErrors.ErrTokenInvalid, span)
					inHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
						"status":     "failed",
						"statusCode": http.StatusUnauthorized,
						"message":    inErrors.ErrTokenInvalid.Error(),
					})
					return
				}
				key, err = token.Claims.GetSubject()
				if err != nil || key == "" {
					logger.Error().Err(inErrors.ErrTokenInvalid).Msg("token has no subject")
					otel.RecordError(inErrors.ErrTokenInvalid, span)
					inHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
						"status":     "failed",
						"statusCode": http.StatusUnauthorized,
						"message":    inErrors.ErrTokenInvalid.Error(),
					})
					return
				}
			} else {
				key = r.Header.Get(inHttp.HeaderSessionKey)
			}

			if key == "" {
				logger.Error().
					Err(inErrors.ErrEmptySessionKey).
					Msg(inErrors.ErrEmptySessionKey.Error())
				otel.RecordError(inErrors.ErrEmptySessionKey, span)
				inHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
					"status":     "failed",
					"statusCode": http.StatusBadRequest,
					"message":    inErrors.ErrEmptySessionKey.Error(),
				})
				return
			}

			logger = logger.With().Str(log.KeySessionKey, key).Logger()
			c = AttachSessionKeyToContext(c, key)
			c = logger.WithContext(c)
			next.ServeHTTP(w, r.WithContext(c))
		})
	}
}
