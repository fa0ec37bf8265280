package auth

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/Jawadabbaskhan/socialauth/internal/cache"
	"github.com/Jawadabbaskhan/socialauth/internal/config"
	"github.com/Jawadabbaskhan/socialauth/internal/http/dto"
	"github.com/Jawadabbaskhan/socialauth/internal/oauth/google"
	"github.com/Jawadabbaskhan/socialauth/internal/store/core"
	"github.com/Jawadabbaskhan/socialauth/internal/token"
)

type fakeUsers struct {
	byEmail map[string]*core.User
	created int
}

func newFakeUsers() *fakeUsers {
	return &fakeUsers{byEmail: map[string]*core.User{}}
}

func (f *fakeUsers) FindUserByEmail(_ context.Context, email string) (*core.User, error) {
	if u, ok := f.byEmail[email]; ok {
		return u, nil
	}
	return nil, core.ErrNotFound
}

func (f *fakeUsers) CreateUser(_ context.Context, u *core.User) error {
	if _, ok := f.byEmail[u.Email]; ok {
		return core.ErrDuplicateEmail
	}
	u.ID = "id-" + u.Email
	f.byEmail[u.Email] = u
	f.created++
	return nil
}

func (f *fakeUsers) ListUsers(_ context.Context) ([]core.User, error) { return nil, nil }

// fakeGoogle serves discovery, token and userinfo for the callback flow.
func fakeGoogle(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	var srv *httptest.Server
	mux.HandleFunc("/.well-known/openid-configuration", func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]string{
			"issuer":                 srv.URL,
			"authorization_endpoint": srv.URL + "/auth",
			"token_endpoint":         srv.URL + "/token",
			"userinfo_endpoint":      srv.URL + "/userinfo",
		})
	})
	mux.HandleFunc("/token", func(w http.ResponseWriter, r *http.Request) {
		_ = r.ParseForm()
		if r.PostForm.Get("code") != "good-code" {
			w.WriteHeader(http.StatusBadRequest)
			_ = json.NewEncoder(w).Encode(map[string]string{"error": "invalid_grant"})
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"access_token": "provider-access",
			"token_type":   "Bearer",
			"expires_in":   3600,
		})
	})
	mux.HandleFunc("/userinfo", func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{
			"email": "alice@example.com", "email_verified": true, "name": "Alice",
		})
	})
	srv = httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func testConfig() *config.Config {
	cfg := &config.Config{}
	cfg.JWT.Secret = "auth-test-secret"
	cfg.JWT.Algorithm = "HS256"
	cfg.JWT.AccessTTLMinutes = 30
	cfg.JWT.RefreshTTLMinutes = 1440
	return cfg
}

func newController(t *testing.T) (*Controller, *fakeUsers, cache.Client) {
	t.Helper()
	srv := fakeGoogle(t)

	g := google.New("cid", "csecret", "http://app.local/api/v1/oauth/callback")
	g.DiscoveryURL = srv.URL + "/.well-known/openid-configuration"

	cfg := testConfig()
	issuer := token.NewIssuer(cfg)
	verifier := token.NewVerifier(cfg)
	state := cache.NewMemory("test")
	users := newFakeUsers()

	return New(g, state, issuer, token.NewExchange(issuer, verifier), users), users, state
}

// loginState drives Login and extracts the state param from the redirect.
func loginState(t *testing.T, c *Controller) string {
	t.Helper()
	rec := httptest.NewRecorder()
	c.Login(rec, httptest.NewRequest(http.MethodGet, "/api/v1/oauth/login", nil))

	if rec.Code != http.StatusTemporaryRedirect {
		t.Fatalf("login status = %d, want 307 (body %s)", rec.Code, rec.Body.String())
	}
	loc, err := url.Parse(rec.Header().Get("Location"))
	if err != nil {
		t.Fatalf("parse redirect: %v", err)
	}
	state := loc.Query().Get("state")
	if state == "" {
		t.Fatal("redirect carries no state")
	}
	if loc.Query().Get("client_id") != "cid" {
		t.Fatalf("client_id = %q", loc.Query().Get("client_id"))
	}
	return state
}

func cookieByName(cookies []*http.Cookie, name string) *http.Cookie {
	for _, ck := range cookies {
		if ck.Name == name {
			return ck
		}
	}
	return nil
}

func TestLoginCallback_FullFlow(t *testing.T) {
	c, users, _ := newController(t)
	state := loginState(t, c)

	rec := httptest.NewRecorder()
	c.Callback(rec, httptest.NewRequest(http.MethodGet, "/api/v1/oauth/callback?code=good-code&state="+state, nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("callback status = %d (body %s)", rec.Code, rec.Body.String())
	}

	// User upserted with provider info and default role.
	u := users.byEmail["alice@example.com"]
	if u == nil {
		t.Fatal("user not created")
	}
	if u.Role != "user" || u.OAuthProvider == nil || *u.OAuthProvider != "google" {
		t.Fatalf("stored user = %+v", u)
	}

	cookies := rec.Result().Cookies()
	wantAges := map[string]int{
		"access_token":  1800,
		"refresh_token": 86400,
		"csrf_token":    1800,
	}
	for name, age := range wantAges {
		ck := cookieByName(cookies, name)
		if ck == nil {
			t.Fatalf("cookie %s not set", name)
		}
		if ck.MaxAge != age {
			t.Fatalf("cookie %s max-age = %d, want %d", name, ck.MaxAge, age)
		}
		if !ck.HttpOnly || ck.Path != "/" || ck.SameSite != http.SameSiteLaxMode {
			t.Fatalf("cookie %s attrs = %+v", name, ck)
		}
	}

	// Access cookie verifies and carries sub + role; refresh carries the scope.
	verifier := token.NewVerifier(testConfig())
	acs, ok := verifier.Verify(cookieByName(cookies, "access_token").Value)
	if !ok {
		t.Fatal("access cookie does not verify")
	}
	if acs.Sub != "alice@example.com" || acs.Role != token.RoleUser {
		t.Fatalf("access claims = %+v", acs)
	}
	rcs, ok := verifier.Verify(cookieByName(cookies, "refresh_token").Value)
	if !ok {
		t.Fatal("refresh cookie does not verify")
	}
	if !rcs.IsRefresh() {
		t.Fatalf("refresh claims = %+v", rcs)
	}
}

func TestCallback_SecondLoginReusesUser(t *testing.T) {
	c, users, _ := newController(t)

	for i := 0; i < 2; i++ {
		state := loginState(t, c)
		rec := httptest.NewRecorder()
		c.Callback(rec, httptest.NewRequest(http.MethodGet, "/api/v1/oauth/callback?code=good-code&state="+state, nil))
		if rec.Code != http.StatusOK {
			t.Fatalf("login %d status = %d", i, rec.Code)
		}
	}
	if users.created != 1 {
		t.Fatalf("users created = %d, want 1", users.created)
	}
}

func TestCallback_StateIsSingleUse(t *testing.T) {
	c, _, _ := newController(t)
	state := loginState(t, c)

	first := httptest.NewRecorder()
	c.Callback(first, httptest.NewRequest(http.MethodGet, "/api/v1/oauth/callback?code=good-code&state="+state, nil))
	if first.Code != http.StatusOK {
		t.Fatalf("first callback status = %d", first.Code)
	}

	second := httptest.NewRecorder()
	c.Callback(second, httptest.NewRequest(http.MethodGet, "/api/v1/oauth/callback?code=good-code&state="+state, nil))
	if second.Code != http.StatusBadRequest {
		t.Fatalf("replayed state status = %d, want 400", second.Code)
	}
}

func TestCallback_UnknownState(t *testing.T) {
	c, _, _ := newController(t)

	rec := httptest.NewRecorder()
	c.Callback(rec, httptest.NewRequest(http.MethodGet, "/api/v1/oauth/callback?code=good-code&state=invented", nil))
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestCallback_BadCode(t *testing.T) {
	c, _, _ := newController(t)
	state := loginState(t, c)

	rec := httptest.NewRecorder()
	c.Callback(rec, httptest.NewRequest(http.MethodGet, "/api/v1/oauth/callback?code=wrong&state="+state, nil))
	if rec.Code != http.StatusBadGateway {
		t.Fatalf("status = %d, want 502", rec.Code)
	}
}

func TestRefresh(t *testing.T) {
	c, _, _ := newController(t)

	issuer := token.NewIssuer(testConfig())
	refresh, err := issuer.IssueRefreshToken(token.Identity{Email: "alice@example.com"})
	if err != nil {
		t.Fatalf("issue refresh: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, "/refresh-token", nil)
	req.AddCookie(&http.Cookie{Name: "refresh_token", Value: refresh})
	rec := httptest.NewRecorder()
	c.Refresh(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d (body %s)", rec.Code, rec.Body.String())
	}
	var resp dto.TokenResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.TokenType != "bearer" || resp.AccessToken == "" {
		t.Fatalf("resp = %+v", resp)
	}

	// The fresh access token carries sub only: no role survives the exchange.
	cs, ok := token.NewVerifier(testConfig()).Verify(resp.AccessToken)
	if !ok {
		t.Fatal("new access token does not verify")
	}
	if cs.Sub != "alice@example.com" || cs.Role != "" {
		t.Fatalf("claims = %+v", cs)
	}

	if ck := cookieByName(rec.Result().Cookies(), "access_token"); ck == nil || ck.MaxAge != 1800 {
		t.Fatal("access cookie not refreshed")
	}
}

func TestRefresh_MissingCookie(t *testing.T) {
	c, _, _ := newController(t)

	rec := httptest.NewRecorder()
	c.Refresh(rec, httptest.NewRequest(http.MethodPost, "/refresh-token", nil))
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}
}

func TestRefresh_AccessTokenRejected(t *testing.T) {
	c, _, _ := newController(t)

	issuer := token.NewIssuer(testConfig())
	access, err := issuer.IssueAccessToken(token.Identity{Email: "a@b.com", Role: token.RoleUser}, time.Minute)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, "/refresh-token", nil)
	req.AddCookie(&http.Cookie{Name: "refresh_token", Value: access})
	rec := httptest.NewRecorder()
	c.Refresh(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}
}

func TestLogout_ClearsCookies(t *testing.T) {
	c, _, _ := newController(t)

	rec := httptest.NewRecorder()
	c.Logout(rec, httptest.NewRequest(http.MethodPost, "/api/v1/oauth/logout", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	for _, name := range []string{"access_token", "refresh_token", "csrf_token"} {
		ck := cookieByName(rec.Result().Cookies(), name)
		if ck == nil {
			t.Fatalf("cookie %s not cleared", name)
		}
		if ck.MaxAge != -1 || ck.Value != "" {
			t.Fatalf("cookie %s = %+v, want expired empty", name, ck)
		}
	}
}
