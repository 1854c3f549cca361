package jwt

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"CSS-Society/site-backend/internal"
	"CSS-Society/site-backend/internal/user"

	logutil "github.com/NYCU-SDC/summer/pkg/log"
	"github.com/NYCU-SDC/summer/pkg/problem"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

const AccessTokenCookieName = "access_token"

type Parser interface {
	Parse(ctx context.Context, tokenString string) (user.Admin, error)
}

type Middleware struct {
	logger        *zap.Logger
	tracer        trace.Tracer
	problemWriter *problem.HttpWriter
	parser        Parser
	allowed       *user.AllowedList
}

func NewMiddleware(logger *zap.Logger, problemWriter *problem.HttpWriter, parser Parser, allowed *user.AllowedList) *Middleware {
	return &Middleware{
		logger:        logger,
		tracer:        otel.Tracer("jwt/middleware"),
		problemWriter: problemWriter,
		parser:        parser,
		allowed:       allowed,
	}
}

func tokenFromRequest(r *http.Request) (string, error) {
	if cookie, err := r.Cookie(AccessTokenCookieName); err == nil && cookie.Value != "" {
		return cookie.Value, nil
	}

	header := r.Header.Get("Authorization")
	if header == "" {
		return "", internal.ErrMissingAuthHeader
	}
	if !strings.HasPrefix(header, "Bearer ") {
		return "", internal.ErrInvalidAuthHeaderFormat
	}
	return strings.TrimPrefix(header, "Bearer "), nil
}

// AuthenticateMiddleware rejects requests without a valid admin token and
// stores the admin in the request context. Removing an account from the
// allowed list revokes its existing tokens.
func (m *Middleware) AuthenticateMiddleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		traceCtx, span := m.tracer.Start(r.Context(), "AuthenticateMiddleware")
		defer span.End()
		logger := logutil.WithContext(traceCtx, m.logger)

		tokenString, err := tokenFromRequest(r)
		if err != nil {
			m.problemWriter.WriteError(traceCtx, w, err, logger)
			return
		}

		admin, err := m.parser.Parse(traceCtx, tokenString)
		if err != nil {
			m.problemWriter.WriteError(traceCtx, w, fmt.Errorf("%w: %v", internal.ErrInvalidJWTToken, err), logger)
			return
		}

		if m.allowed != nil && !m.allowed.IsAllowed(admin) {
			logger.Warn("Token belongs to an account no longer on the admin list", zap.String("login", admin.Login))
			m.problemWriter.WriteError(traceCtx, w, internal.ErrAdminNotAllowed, logger)
			return
		}

		next(w, r.WithContext(user.WithAdmin(traceCtx, &admin)))
	}
}
