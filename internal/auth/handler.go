package auth

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"CSS-Society/site-backend/internal"
	"CSS-Society/site-backend/internal/auth/oauthprovider"
	"CSS-Society/site-backend/internal/config"
	"CSS-Society/site-backend/internal/jwt"
	"CSS-Society/site-backend/internal/user"

	handlerutil "github.com/NYCU-SDC/summer/pkg/handler"
	logutil "github.com/NYCU-SDC/summer/pkg/log"
	"github.com/NYCU-SDC/summer/pkg/problem"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"golang.org/x/oauth2"
)

const DefaultRedirect = "/admin"

type JWTIssuer interface {
	New(ctx context.Context, admin user.Admin) (string, error)
	NewState(ctx context.Context, redirectURL string) (string, error)
	ParseState(ctx context.Context, tokenString string) (string, error)
}

type OAuthProvider interface {
	Name() string
	Config() *oauth2.Config
	Exchange(ctx context.Context, code string) (*oauth2.Token, error)
	GetUserInfo(ctx context.Context, token *oauth2.Token) (user.Admin, error)
}

type CallBackInfo struct {
	code       string
	oauthError string
	redirectTo string
}

type Handler struct {
	logger *zap.Logger
	tracer trace.Tracer

	baseURL string
	devMode bool

	problemWriter *problem.HttpWriter

	jwtIssuer JWTIssuer
	provider  map[string]OAuthProvider
	allowed   *user.AllowedList

	accessTokenExpiration time.Duration
}

func NewHandler(
	logger *zap.Logger,
	problemWriter *problem.HttpWriter,
	jwtIssuer JWTIssuer,
	providers map[string]OAuthProvider,
	allowed *user.AllowedList,

	baseURL string,
	devMode bool,
	accessTokenExpiration time.Duration,
) *Handler {
	return &Handler{
		logger: logger,
		tracer: otel.Tracer("auth/handler"),

		baseURL: baseURL,
		devMode: devMode,

		problemWriter: problemWriter,

		jwtIssuer: jwtIssuer,
		provider:  providers,
		allowed:   allowed,

		accessTokenExpiration: accessTokenExpiration,
	}
}

// Oauth2Start initiates the OAuth2 flow by redirecting the user to the provider's authorization URL
func (h *Handler) Oauth2Start(w http.ResponseWriter, r *http.Request) {
	traceCtx, span := h.tracer.Start(r.Context(), "Oauth2Start")
	defer span.End()
	logger := logutil.WithContext(traceCtx, h.logger)

	providerName := r.PathValue("provider")
	provider := h.provider[providerName]
	if provider == nil {
		h.problemWriter.WriteError(traceCtx, w, fmt.Errorf("%w: provider not found: %s", internal.ErrProviderNotFound, providerName), logger)
		return
	}

	state, err := h.jwtIssuer.NewState(traceCtx, safeRedirect(r.URL.Query().Get("r")))
	if err != nil {
		h.problemWriter.WriteError(traceCtx, w, fmt.Errorf("%w: %v", internal.ErrNewStateFailed, err), logger)
		return
	}

	http.Redirect(w, r, provider.Config().AuthCodeURL(state), http.StatusFound)
}

func (h *Handler) Callback(w http.ResponseWriter, r *http.Request) {
	traceCtx, span := h.tracer.Start(r.Context(), "Callback")
	defer span.End()
	logger := logutil.WithContext(traceCtx, h.logger)

	providerName := r.PathValue("provider")
	provider := h.provider[providerName]
	if provider == nil {
		h.problemWriter.WriteError(traceCtx, w, fmt.Errorf("%w: provider not found: %s", internal.ErrProviderNotFound, providerName), logger)
		return
	}

	callbackInfo, err := h.GetCallBackInfo(traceCtx, r.URL)
	if err != nil {
		h.problemWriter.WriteError(traceCtx, w, fmt.Errorf("%w: %v", internal.ErrInvalidCallbackInfo, err), logger)
		return
	}

	if callbackInfo.oauthError != "" {
		h.problemWriter.WriteError(traceCtx, w, fmt.Errorf("%w: %s", internal.ErrOAuthError, callbackInfo.oauthError), logger)
		return
	}

	token, err := provider.Exchange(traceCtx, callbackInfo.code)
	if err != nil {
		h.problemWriter.WriteError(traceCtx, w, fmt.Errorf("%w: %v", internal.ErrInvalidExchangeToken, err), logger)
		return
	}

	admin, err := provider.GetUserInfo(traceCtx, token)
	if err != nil {
		h.problemWriter.WriteError(traceCtx, w, err, logger)
		return
	}

	if !h.allowed.IsAllowed(admin) {
		logger.Warn("Rejected login from account not on the admin list", zap.String("login", admin.Login), zap.String("provider", providerName))
		h.problemWriter.WriteError(traceCtx, w, fmt.Errorf("%w: %s", internal.ErrAdminNotAllowed, admin.Login), logger)
		return
	}

	accessToken, err := h.jwtIssuer.New(traceCtx, admin)
	if err != nil {
		h.problemWriter.WriteError(traceCtx, w, err, logger)
		return
	}

	baseURL, err := url.Parse(h.baseURL)
	if err != nil {
		h.problemWriter.WriteError(traceCtx, w, internal.ErrInternalServerError, logger)
		return
	}

	h.setAccessCookie(w, baseURL.Hostname(), accessToken)
	logger.Info("Admin signed in", zap.String("login", admin.Login), zap.String("provider", providerName))

	redirectURL := callbackInfo.redirectTo
	if redirectURL == "" {
		redirectURL = DefaultRedirect
	}

	http.Redirect(w, r, redirectURL, http.StatusFound)
}

func (h *Handler) GetCallBackInfo(ctx context.Context, url *url.URL) (CallBackInfo, error) {
	code := url.Query().Get("code")
	state := url.Query().Get("state")
	oauthError := url.Query().Get("error")

	redirectURL, err := h.jwtIssuer.ParseState(ctx, state)
	if err != nil {
		return CallBackInfo{}, err
	}

	return CallBackInfo{
		code:       code,
		oauthError: oauthError,
		redirectTo: redirectURL,
	}, nil
}

// Me returns the admin attached by the authentication middleware.
func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	traceCtx, span := h.tracer.Start(r.Context(), "Me")
	defer span.End()
	logger := logutil.WithContext(traceCtx, h.logger)

	admin, ok := user.GetFromContext(traceCtx)
	if !ok {
		h.problemWriter.WriteError(traceCtx, w, internal.ErrNoAdminInContext, logger)
		return
	}

	handlerutil.WriteJSONResponse(w, http.StatusOK, admin)
}

func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	_, span := h.tracer.Start(r.Context(), "Logout")
	defer span.End()

	h.clearAccessCookie(w)

	handlerutil.WriteJSONResponse(w, http.StatusOK, map[string]string{"message": "Successfully logged out"})
}

func (h *Handler) sameSite() http.SameSite {
	if h.devMode {
		return http.SameSiteNoneMode
	}
	return http.SameSiteStrictMode
}

// setAccessCookie sets the access cookie with HTTP-only and secure flags
func (h *Handler) setAccessCookie(w http.ResponseWriter, domain, accessToken string) {
	http.SetCookie(w, &http.Cookie{
		Name:     jwt.AccessTokenCookieName,
		Value:    accessToken,
		HttpOnly: true,
		Secure:   true,
		SameSite: h.sameSite(),
		Path:     "/",
		MaxAge:   int(h.accessTokenExpiration.Seconds()),
		Domain:   domain,
	})
}

// clearAccessCookie expires the access cookie; a negative MaxAge deletes it immediately
func (h *Handler) clearAccessCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     jwt.AccessTokenCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   true,
		SameSite: h.sameSite(),
	})
}

// safeRedirect keeps post-login redirects on this site.
func safeRedirect(target string) string {
	if !strings.HasPrefix(target, "/") || strings.HasPrefix(target, "//") || strings.HasPrefix(target, "/\\") {
		return ""
	}
	return target
}

// CreateAuthProviders builds the login providers that have credentials configured
func CreateAuthProviders(logger *zap.Logger, baseURL string, githubOauthConfig config.GitHubOauth) map[string]OAuthProvider {
	providers := make(map[string]OAuthProvider)

	if githubOauthConfig.ClientID != "" && githubOauthConfig.ClientSecret != "" {
		callbackURL := fmt.Sprintf("%s/api/auth/login/oauth/github/callback", strings.TrimSuffix(baseURL, "/"))
		providers["github"] = oauthprovider.NewGitHubConfig(githubOauthConfig.ClientID, githubOauthConfig.ClientSecret, callbackURL)
		logger.Info("GitHub OAuth provider configured for auth", zap.String("callbackURL", callbackURL))
	}

	if len(providers) == 0 {
		logger.Warn("No OAuth providers configured for authentication, admin routes are unreachable")
	}

	return providers
}
