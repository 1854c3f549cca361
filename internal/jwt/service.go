package jwt

import (
	"context"
	"errors"
	"strings"
	"time"

	"CSS-Society/site-backend/internal/user"

	logutil "github.com/NYCU-SDC/summer/pkg/log"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

const (
	Issuer          = "css-site"
	StateExpiration = 5 * time.Minute
)

type Service struct {
	logger                *zap.Logger
	tracer                trace.Tracer
	secret                string
	accessTokenExpiration time.Duration
	now                   func() time.Time
}

func NewService(logger *zap.Logger, secret string, accessTokenExpiration time.Duration) *Service {
	return &Service{
		logger:                logger,
		tracer:                otel.Tracer("jwt/service"),
		secret:                secret,
		accessTokenExpiration: accessTokenExpiration,
		now:                   time.Now,
	}
}

type claims struct {
	Name      string
	Email     string
	AvatarUrl string
	jwt.RegisteredClaims
}

// stateClaims is signed into the OAuth state parameter; it only carries where
// to send the admin once the login completes.
type stateClaims struct {
	RedirectURL string
	jwt.RegisteredClaims
}

func (s *Service) registered(subject string, ttl time.Duration) jwt.RegisteredClaims {
	now := s.now()
	return jwt.RegisteredClaims{
		Issuer:    Issuer,
		Subject:   subject,
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		IssuedAt:  jwt.NewNumericDate(now),
		NotBefore: jwt.NewNumericDate(now),
		ID:        uuid.New().String(),
	}
}

func (s *Service) sign(c jwt.Claims) (string, error) {
	return jwt.NewWithClaims(jwt.SigningMethodHS256, c).SignedString([]byte(s.secret))
}

func (s *Service) keyFunc(token *jwt.Token) (interface{}, error) {
	if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
		return nil, jwt.ErrTokenSignatureInvalid
	}
	return []byte(s.secret), nil
}

func (s *Service) New(ctx context.Context, admin user.Admin) (string, error) {
	traceCtx, span := s.tracer.Start(ctx, "New")
	defer span.End()
	logger := logutil.WithContext(traceCtx, s.logger)

	tokenString, err := s.sign(&claims{
		Name:             admin.Name,
		Email:            admin.Email,
		AvatarUrl:        admin.AvatarURL,
		RegisteredClaims: s.registered(admin.Login, s.accessTokenExpiration),
	})
	if err != nil {
		span.RecordError(err)
		logger.Error("failed to sign token", zap.Error(err), zap.String("login", admin.Login))
		return "", err
	}

	logger.Debug("Generated JWT token", zap.String("login", admin.Login))
	return tokenString, nil
}

func (s *Service) Parse(ctx context.Context, tokenString string) (user.Admin, error) {
	traceCtx, span := s.tracer.Start(ctx, "Parse")
	defer span.End()
	logger := logutil.WithContext(traceCtx, s.logger)

	tokenString = strings.TrimPrefix(tokenString, "Bearer ")

	tokenClaims := &claims{}
	token, err := jwt.ParseWithClaims(tokenString, tokenClaims, s.keyFunc, jwt.WithIssuer(Issuer))
	if err != nil {
		span.RecordError(err)
		logParseError(logger, token, err)
		return user.Admin{}, err
	}

	return user.Admin{
		Login:     tokenClaims.Subject,
		Name:      tokenClaims.Name,
		Email:     tokenClaims.Email,
		AvatarURL: tokenClaims.AvatarUrl,
	}, nil
}

func (s *Service) NewState(ctx context.Context, redirectURL string) (string, error) {
	traceCtx, span := s.tracer.Start(ctx, "NewState")
	defer span.End()
	logger := logutil.WithContext(traceCtx, s.logger)

	tokenString, err := s.sign(&stateClaims{
		RedirectURL:      redirectURL,
		RegisteredClaims: s.registered("oauth-state", StateExpiration),
	})
	if err != nil {
		span.RecordError(err)
		logger.Error("failed to sign state token", zap.Error(err))
		return "", err
	}

	return tokenString, nil
}

// ParseState parses the state jwt payload to get redirect URL
func (s *Service) ParseState(ctx context.Context, tokenString string) (string, error) {
	traceCtx, span := s.tracer.Start(ctx, "ParseState")
	defer span.End()
	logger := logutil.WithContext(traceCtx, s.logger)

	tokenClaims := &stateClaims{}
	token, err := jwt.ParseWithClaims(tokenString, tokenClaims, s.keyFunc, jwt.WithIssuer(Issuer))
	if err != nil {
		span.RecordError(err)
		logParseError(logger, token, err)
		return "", err
	}

	logger.Debug("Successfully parsed OAuth state token", zap.String("redirect_url", tokenClaims.RedirectURL))
	return tokenClaims.RedirectURL, nil
}

func logParseError(logger *zap.Logger, token *jwt.Token, err error) {
	switch {
	case errors.Is(err, jwt.ErrTokenMalformed):
		logger.Warn("Failed to parse JWT token due to malformed structure, this is not a JWT token", zap.String("error", err.Error()))
	case errors.Is(err, jwt.ErrTokenSignatureInvalid):
		logger.Warn("Failed to parse JWT token due to invalid signature", zap.String("error", err.Error()))
	case errors.Is(err, jwt.ErrTokenExpired):
		if token != nil {
			if expiredTime, getErr := token.Claims.GetExpirationTime(); getErr == nil && expiredTime != nil {
				logger.Warn("Failed to parse JWT token due to expired timestamp", zap.String("error", err.Error()), zap.Time("expired_at", expiredTime.Time))
				return
			}
		}
		logger.Warn("Failed to parse JWT token due to expired timestamp", zap.String("error", err.Error()))
	case errors.Is(err, jwt.ErrTokenNotValidYet):
		logger.Warn("Failed to parse JWT token due to not valid yet timestamp", zap.String("error", err.Error()))
	default:
		logger.Error("Failed to parse JWT token", zap.Error(err))
	}
}
