// Package auth contains the Google OAuth login flow and session endpoints.
package auth

import (
	"errors"
	"net/http"
	"time"

	"github.com/Jawadabbaskhan/socialauth/internal/cache"
	"github.com/Jawadabbaskhan/socialauth/internal/http/dto"
	httperrors "github.com/Jawadabbaskhan/socialauth/internal/http/errors"
	"github.com/Jawadabbaskhan/socialauth/internal/http/helpers"
	"github.com/Jawadabbaskhan/socialauth/internal/oauth/google"
	"github.com/Jawadabbaskhan/socialauth/internal/observability/logger"
	"github.com/Jawadabbaskhan/socialauth/internal/store/core"
	"github.com/Jawadabbaskhan/socialauth/internal/token"
)

// Duraciones de las cookies de sesión, en segundos.
const (
	accessCookieMaxAge  = 1800
	refreshCookieMaxAge = 86400
	csrfCookieMaxAge    = 1800
)

const (
	accessCookieName  = "access_token"
	refreshCookieName = "refresh_token"
	csrfCookieName    = "csrf_token"
)

// stateTTL acota la ventana entre el redirect a Google y el callback.
const stateTTL = 10 * time.Minute

const stateKeyPrefix = "oauth:state:"

// Controller handles the OAuth login redirect, callback, logout and the
// refresh-token exchange.
type Controller struct {
	google   *google.Client
	state    cache.Client
	issuer   *token.Issuer
	exchange *token.Exchange
	users    core.UserStore
}

func New(g *google.Client, state cache.Client, issuer *token.Issuer, exchange *token.Exchange, users core.UserStore) *Controller {
	return &Controller{google: g, state: state, issuer: issuer, exchange: exchange, users: users}
}

// Login handles GET /api/v1/oauth/login
// Genera un nonce de state, lo guarda con TTL y redirige a Google.
func (c *Controller) Login(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.From(ctx).With(logger.Component("controller"), logger.Op("oauth.login"))

	state, err := token.GenerateCSRFToken()
	if err != nil {
		log.Error("state generation failed", logger.Err(err))
		httperrors.WriteError(w, httperrors.ErrInternalServerError)
		return
	}

	if err := c.state.Set(ctx, stateKeyPrefix+state, "1", stateTTL); err != nil {
		log.Error("state store failed", logger.Err(err))
		httperrors.WriteError(w, httperrors.ErrInternalServerError)
		return
	}

	url, err := c.google.AuthURL(ctx, state)
	if err != nil {
		log.Error("provider discovery failed", logger.Err(err))
		httperrors.WriteError(w, httperrors.ErrUpstreamProvider.WithCause(err))
		return
	}

	http.Redirect(w, r, url, http.StatusTemporaryRedirect)
}

// Callback handles GET /api/v1/oauth/callback?code=&state=
// Valida el state (un solo uso), canjea el code, upserta el usuario y deja
// la sesión en cookies: access, refresh y csrf.
func (c *Controller) Callback(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.From(ctx).With(logger.Component("controller"), logger.Op("oauth.callback"))

	code := r.URL.Query().Get("code")
	state := r.URL.Query().Get("state")
	if code == "" || state == "" {
		httperrors.WriteError(w, httperrors.ErrBadRequest.WithDetail("code y state son requeridos"))
		return
	}

	// State de un solo uso: si no está (expiró o ya se usó) se rechaza.
	if _, err := c.state.Get(ctx, stateKeyPrefix+state); err != nil {
		log.Warn("state rejected", logger.Err(err))
		httperrors.WriteError(w, httperrors.ErrBadRequest.WithDetail("state inválido o vencido"))
		return
	}
	_ = c.state.Delete(ctx, stateKeyPrefix+state)

	tok, err := c.google.ExchangeCode(ctx, code)
	if err != nil {
		log.Error("code exchange failed", logger.Err(err))
		httperrors.WriteError(w, httperrors.ErrUpstreamProvider.WithCause(err))
		return
	}

	info, err := c.google.Userinfo(ctx, tok.AccessToken)
	if err != nil {
		log.Error("userinfo failed", logger.Err(err))
		httperrors.WriteError(w, httperrors.ErrUpstreamProvider.WithCause(err))
		return
	}

	u, err := c.upsertUser(r, info, tok.AccessToken)
	if err != nil {
		log.Error("user upsert failed", logger.Email(info.Email), logger.Err(err))
		httperrors.WriteError(w, httperrors.ErrInternalServerError)
		return
	}

	role, _ := token.ParseRole(u.Role)
	id := token.Identity{Email: u.Email, Role: role}

	access, err := c.issuer.IssueAccessToken(id, 0)
	if err != nil {
		log.Error("access token issue failed", logger.Err(err))
		httperrors.WriteError(w, httperrors.ErrInternalServerError)
		return
	}
	refresh, err := c.issuer.IssueRefreshToken(id)
	if err != nil {
		log.Error("refresh token issue failed", logger.Err(err))
		httperrors.WriteError(w, httperrors.ErrInternalServerError)
		return
	}
	csrf, err := token.GenerateCSRFToken()
	if err != nil {
		log.Error("csrf token issue failed", logger.Err(err))
		httperrors.WriteError(w, httperrors.ErrInternalServerError)
		return
	}

	setSessionCookie(w, accessCookieName, access, accessCookieMaxAge)
	setSessionCookie(w, refreshCookieName, refresh, refreshCookieMaxAge)
	setSessionCookie(w, csrfCookieName, csrf, csrfCookieMaxAge)

	log.Info("login ok", logger.Email(u.Email), logger.Role(u.Role))
	helpers.WriteJSON(w, http.StatusOK, dto.LoginResponse{Message: "Login successful", Email: u.Email})
}

// upsertUser busca el usuario por email y lo crea si no existe.
func (c *Controller) upsertUser(r *http.Request, info *google.UserInfo, oauthToken string) (*core.User, error) {
	ctx := r.Context()

	u, err := c.users.FindUserByEmail(ctx, info.Email)
	if err == nil {
		return u, nil
	}
	if !errors.Is(err, core.ErrNotFound) {
		return nil, err
	}

	provider := "google"
	username := info.Name
	if username == "" {
		username = info.Email
	}
	u = &core.User{
		Username:      username,
		Email:         info.Email,
		IsActive:      true,
		OAuthProvider: &provider,
		OAuthToken:    &oauthToken,
		Role:          "user",
	}
	if err := c.users.CreateUser(ctx, u); err != nil {
		// Carrera con otro callback del mismo usuario: releer.
		if errors.Is(err, core.ErrDuplicateEmail) {
			return c.users.FindUserByEmail(ctx, info.Email)
		}
		return nil, err
	}
	return u, nil
}

// Logout handles POST /api/v1/oauth/logout
// Borra las cookies de sesión. No hay revocación server-side.
func (c *Controller) Logout(w http.ResponseWriter, r *http.Request) {
	clearSessionCookie(w, accessCookieName)
	clearSessionCookie(w, refreshCookieName)
	clearSessionCookie(w, csrfCookieName)

	helpers.WriteJSON(w, http.StatusOK, dto.MessageResponse{Message: "Logged out"})
}

// Refresh handles POST /refresh-token
// Lee el refresh token de la cookie y emite un access token nuevo.
func (c *Controller) Refresh(w http.ResponseWriter, r *http.Request) {
	ck, err := r.Cookie(refreshCookieName)
	if err != nil || ck.Value == "" {
		httperrors.WriteError(w, httperrors.ErrMissingToken)
		return
	}

	access, ok := c.exchange.RefreshAccessToken(ck.Value)
	if !ok {
		httperrors.WriteError(w, httperrors.ErrInvalidToken)
		return
	}

	setSessionCookie(w, accessCookieName, access, accessCookieMaxAge)
	helpers.WriteJSON(w, http.StatusOK, dto.TokenResponse{AccessToken: access, TokenType: "bearer"})
}

func setSessionCookie(w http.ResponseWriter, name, value string, maxAge int) {
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

func clearSessionCookie(w http.ResponseWriter, name string) {
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}
