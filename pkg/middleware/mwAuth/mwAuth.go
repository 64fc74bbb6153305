package mwAuth

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/golang-jwt/jwt/v5"

	"tours-service/pkg/response"
	"tours-service/pkg/sl"
)

type ctxKey struct{}

// UserID returns the authenticated caller, or "" outside an authenticated route.
func UserID(ctx context.Context) string {
	id, _ := ctx.Value(ctxKey{}).(string)
	return id
}

// WithUserID is used by tests and internal callers that bypass the middleware.
func WithUserID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, ctxKey{}, id)
}

// New validates an HS256 bearer token and stores its subject as the caller.
// An empty issuer accepts any iss claim.
func New(log *slog.Logger, secret, issuer string) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		log := log.With(
			slog.String("component", "middleware/auth"),
		)

		log.Info("auth middleware enabled")

		opts := []jwt.ParserOption{
			jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
			jwt.WithExpirationRequired(),
			jwt.WithLeeway(30 * time.Second),
		}
		if issuer != "" {
			opts = append(opts, jwt.WithIssuer(issuer))
		}
		parser := jwt.NewParser(opts...)

		fn := func(w http.ResponseWriter, r *http.Request) {
			raw, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
			if !ok || raw == "" {
				unauthorized(w, r, "missing bearer token")
				return
			}

			var claims jwt.RegisteredClaims
			_, err := parser.ParseWithClaims(raw, &claims, func(*jwt.Token) (any, error) {
				return []byte(secret), nil
			})
			if err != nil {
				level := slog.LevelWarn
				if errors.Is(err, jwt.ErrTokenExpired) {
					level = slog.LevelDebug
				}
				log.Log(r.Context(), level, "rejected token",
					slog.String("request_id", middleware.GetReqID(r.Context())),
					sl.Err(err),
				)
				unauthorized(w, r, "invalid token")
				return
			}
			if claims.Subject == "" {
				unauthorized(w, r, "token has no subject")
				return
			}

			next.ServeHTTP(w, r.WithContext(WithUserID(r.Context(), claims.Subject)))
		}

		return http.HandlerFunc(fn)
	}
}

func unauthorized(w http.ResponseWriter, r *http.Request, msg string) {
	render.Status(r, http.StatusUnauthorized)
	render.JSON(w, r, response.Error(string(response.UNAUTHORIZED), msg))
}
