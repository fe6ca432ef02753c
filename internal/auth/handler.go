package auth

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/mehmetcc/financeu/internal/config"
	"github.com/mehmetcc/financeu/internal/httpx"
	"github.com/mehmetcc/financeu/internal/password"
	"github.com/mehmetcc/financeu/internal/person"
	"github.com/mehmetcc/financeu/internal/session"
	"go.uber.org/zap"
)

const requestTimeout = 3 * time.Second

type AuthenticationHandler interface {
	Register(w http.ResponseWriter, r *http.Request)
	Login(w http.ResponseWriter, r *http.Request)
	Logout(w http.ResponseWriter, r *http.Request)
	Me(w http.ResponseWriter, r *http.Request)
	Routes() chi.Router
}

type authenticationHandler struct {
	logger        *zap.Logger
	authService   AuthService
	issuer        session.Issuer
	persons       person.PersonRepo
	authenticator *Authenticator
	rateLimit     *config.RateLimitConfig
	validator     *validator.Validate
}

func NewAuthenticationHandler(
	authService AuthService,
	issuer session.Issuer,
	persons person.PersonRepo,
	authenticator *Authenticator,
	rateLimit *config.RateLimitConfig,
	l *zap.Logger,
) AuthenticationHandler {
	return &authenticationHandler{
		logger:        l,
		authService:   authService,
		issuer:        issuer,
		persons:       persons,
		authenticator: authenticator,
		rateLimit:     rateLimit,
		validator:     httpx.NewValidator(),
	}
}

func (a *authenticationHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Group(func(r chi.Router) {
		if a.rateLimit != nil && a.rateLimit.AuthRequests > 0 {
			r.Use(RateLimit(a.rateLimit))
		}
		r.Post("/register", a.Register)
		r.Post("/login", a.Login)
	})
	r.Post("/logout", a.Logout)
	r.With(a.authenticator.Authenticate).Get("/me", a.Me)
	return r
}

func (a *authenticationHandler) Register(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	var req registerPersonRequest
	if !httpx.DecodeJSON(w, r, a.validator, a.logger, &req) {
		return
	}

	created, err := a.authService.Register(ctx, req.Name, req.Email, req.Password)
	if err != nil {
		if errors.Is(err, person.ErrDuplicateEmail) {
			httpx.WriteError(w, http.StatusConflict, httpx.ErrorResponse[any]{
				Code:    httpx.ErrConflict,
				Message: "email already exists",
			})
			return
		}
		if errors.Is(err, password.ErrTooLong) {
			httpx.WriteError(w, http.StatusUnprocessableEntity, httpx.ErrorResponse[[]httpx.FieldError]{
				Code:    httpx.ErrValidationFailed,
				Message: "validation failed",
				Details: []httpx.FieldError{{Field: "password", Rule: "maxbytes", Param: strconv.Itoa(password.MaxBytes)}},
			})
			return
		}
		a.logger.Error("failed to register user", zap.Error(err))
		httpx.WriteInternalError(w)
		return
	}

	a.logger.Info("user registered", zap.Int64("id", created.ID))
	httpx.WriteJSON(w, http.StatusCreated, userResponse{User: created.Public()})
}

func (a *authenticationHandler) Login(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	var req loginRequest
	if !httpx.DecodeJSON(w, r, a.validator, a.logger, &req) {
		return
	}

	s, err := a.issuer.Login(ctx, req.Email, req.Password)
	if err != nil {
		if errors.Is(err, session.ErrInvalidCredentials) {
			httpx.WriteError(w, http.StatusUnauthorized, httpx.ErrorResponse[any]{
				Code:    httpx.ErrInvalidCredentials,
				Message: session.ErrInvalidCredentials.Error(),
			})
			return
		}
		a.logger.Error("login failed", zap.Error(err))
		httpx.WriteInternalError(w)
		return
	}

	a.issuer.Attach(w, s)
	a.logger.Info("user logged in", zap.Int64("id", s.Person.ID))
	httpx.WriteJSON(w, http.StatusOK, userResponse{User: s.Person.Public()})
}

func (a *authenticationHandler) Logout(w http.ResponseWriter, r *http.Request) {
	a.issuer.Clear(w)
	httpx.WriteJSON(w, http.StatusOK, messageResponse{Message: "logout successful"})
}

func (a *authenticationHandler) Me(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	claims, ok := ClaimsFromContext(ctx)
	if !ok {
		WriteUnauthenticated(w)
		return
	}

	p, err := a.persons.GetByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, person.ErrPersonNotFound) {
			httpx.WriteError(w, http.StatusNotFound, httpx.ErrorResponse[any]{
				Code:    httpx.ErrNotFound,
				Message: "user not found",
			})
			return
		}
		httpx.WriteInternalError(w)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, userResponse{User: p.Public()})
}

type registerPersonRequest struct {
	Name     string `json:"name"     validate:"required,min=1,max=100"`
	Email    string `json:"email"    validate:"required,email,max=254"`
	Password string `json:"password" validate:"required,min=8,maxbytes=72"`
}

type loginRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,maxbytes=72"`
}

type userResponse struct {
	User person.PublicPerson `json:"user"`
}

type messageResponse struct {
	Message string `json:"message"`
}
