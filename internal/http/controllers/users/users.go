// Package users contains the user registration and listing controller.
package users

import (
	"errors"
	"net/http"
	"strings"

	"github.com/Jawadabbaskhan/socialauth/internal/http/dto"
	httperrors "github.com/Jawadabbaskhan/socialauth/internal/http/errors"
	"github.com/Jawadabbaskhan/socialauth/internal/http/helpers"
	"github.com/Jawadabbaskhan/socialauth/internal/observability/logger"
	"github.com/Jawadabbaskhan/socialauth/internal/security/password"
	"github.com/Jawadabbaskhan/socialauth/internal/store/core"
)

// Controller handles /users endpoints.
type Controller struct {
	store core.UserStore
}

func New(store core.UserStore) *Controller {
	return &Controller{store: store}
}

// Register handles POST /api/v1/users/register
func (c *Controller) Register(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.From(ctx).With(logger.Component("controller"), logger.Op("users.register"))

	var req dto.RegisterUserRequest
	if !helpers.ReadJSON(w, r, &req) {
		return
	}

	req.Username = strings.TrimSpace(req.Username)
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if req.Username == "" || req.Email == "" || req.Password == "" {
		httperrors.WriteError(w, httperrors.ErrMissingFields.WithDetail("username, email y password son requeridos"))
		return
	}

	hash, err := password.Hash(req.Password)
	if err != nil {
		log.Error("hash failed", logger.Err(err))
		httperrors.WriteError(w, httperrors.ErrInternalServerError)
		return
	}

	u := &core.User{
		Username:     req.Username,
		Email:        req.Email,
		PasswordHash: &hash,
		IsActive:     true,
		Role:         "user",
	}
	if err := c.store.CreateUser(ctx, u); err != nil {
		if errors.Is(err, core.ErrDuplicateEmail) {
			httperrors.WriteError(w, httperrors.ErrDuplicateEmail)
			return
		}
		log.Error("create user failed", logger.Err(err))
		httperrors.WriteError(w, httperrors.ErrInternalServerError)
		return
	}

	log.Info("user registered", logger.Email(u.Email))
	helpers.WriteJSON(w, http.StatusCreated, toResponse(u))
}

// RegisterOAuth handles POST /api/v1/users/register/oauth
// Alta sin password: el usuario viene de un proveedor externo.
func (c *Controller) RegisterOAuth(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.From(ctx).With(logger.Component("controller"), logger.Op("users.register_oauth"))

	var req dto.OAuthRegisterRequest
	if !helpers.ReadJSON(w, r, &req) {
		return
	}

	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if req.Email == "" || req.OAuthProvider == "" {
		httperrors.WriteError(w, httperrors.ErrMissingFields.WithDetail("email y oauth_provider son requeridos"))
		return
	}
	if req.Username == "" {
		req.Username = req.Email
	}

	u := &core.User{
		Username:      req.Username,
		Email:         req.Email,
		IsActive:      true,
		OAuthProvider: &req.OAuthProvider,
		Role:          "user",
	}
	if req.OAuthToken != "" {
		u.OAuthToken = &req.OAuthToken
	}
	if err := c.store.CreateUser(ctx, u); err != nil {
		if errors.Is(err, core.ErrDuplicateEmail) {
			httperrors.WriteError(w, httperrors.ErrDuplicateEmail)
			return
		}
		log.Error("create oauth user failed", logger.Err(err))
		httperrors.WriteError(w, httperrors.ErrInternalServerError)
		return
	}

	log.Info("oauth user registered", logger.Email(u.Email))
	helpers.WriteJSON(w, http.StatusCreated, toResponse(u))
}

// List handles GET /api/v1/users
func (c *Controller) List(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	users, err := c.store.ListUsers(ctx)
	if err != nil {
		logger.From(ctx).Error("list users failed", logger.Op("users.list"), logger.Err(err))
		httperrors.WriteError(w, httperrors.ErrInternalServerError)
		return
	}

	out := make([]dto.UserResponse, 0, len(users))
	for i := range users {
		out = append(out, toResponse(&users[i]))
	}
	helpers.WriteJSON(w, http.StatusOK, out)
}

func toResponse(u *core.User) dto.UserResponse {
	return dto.UserResponse{
		ID:        u.ID,
		Username:  u.Username,
		Email:     u.Email,
		IsActive:  u.IsActive,
		Role:      u.Role,
		CreatedAt: u.CreatedAt,
	}
}
