package users

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/mehmetcc/financeu/internal/auth"
	"github.com/mehmetcc/financeu/internal/httpx"
	"github.com/mehmetcc/financeu/internal/lesson"
	"github.com/mehmetcc/financeu/internal/person"
	"github.com/mehmetcc/financeu/internal/session"
	"github.com/mehmetcc/financeu/internal/tier"
	"go.uber.org/zap"
)

const requestTimeout = 3 * time.Second

var errDeleteSelf = errors.New("you cannot delete your own account")

type UserHandler interface {
	Profile(w http.ResponseWriter, r *http.Request)
	UpdateMembership(w http.ResponseWriter, r *http.Request)
	List(w http.ResponseWriter, r *http.Request)
	UpdateRole(w http.ResponseWriter, r *http.Request)
	UpdateTier(w http.ResponseWriter, r *http.Request)
	Delete(w http.ResponseWriter, r *http.Request)
	// Routes serves the caller's own account and authenticates by itself.
	Routes() chi.Router
	// AdminRoutes must be mounted behind Authenticate and RequireAdmin.
	AdminRoutes() chi.Router
}

type userHandler struct {
	logger        *zap.Logger
	persons       person.PersonRepo
	progress      lesson.ProgressRepo
	issuer        session.Issuer
	authenticator *auth.Authenticator
	validator     *validator.Validate
}

func NewUserHandler(
	persons person.PersonRepo,
	progress lesson.ProgressRepo,
	issuer session.Issuer,
	authenticator *auth.Authenticator,
	l *zap.Logger,
) UserHandler {
	return &userHandler{
		logger:        l,
		persons:       persons,
		progress:      progress,
		issuer:        issuer,
		authenticator: authenticator,
		validator:     httpx.NewValidator(),
	}
}

func (u *userHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(u.authenticator.Authenticate)
	r.Get("/profile", u.Profile)
	r.Put("/membership", u.UpdateMembership)
	return r
}

func (u *userHandler) AdminRoutes() chi.Router {
	r := chi.NewRouter()
	r.Get("/", u.List)
	r.Put("/{id}/role", u.UpdateRole)
	r.Put("/{id}/tier", u.UpdateTier)
	r.Delete("/{id}", u.Delete)
	return r
}

func (u *userHandler) Profile(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	claims, ok := auth.ClaimsFromContext(ctx)
	if !ok {
		auth.WriteUnauthenticated(w)
		return
	}

	p, ok := u.findPerson(ctx, w, claims.UserID)
	if !ok {
		return
	}
	completed, err := u.progress.CompletedCount(ctx, p.ID)
	if err != nil {
		httpx.WriteInternalError(w)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, profileResponse{User: p.Public(), CompletedLessons: completed})
}

// UpdateMembership changes the caller's tier and re-issues the session
// cookie so the new tier applies to the next request.
func (u *userHandler) UpdateMembership(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	claims, ok := auth.ClaimsFromContext(ctx)
	if !ok {
		auth.WriteUnauthenticated(w)
		return
	}

	var req updateTierRequest
	if !httpx.DecodeJSON(w, r, u.validator, u.logger, &req) {
		return
	}
	t, err := tier.Parse(req.Tier)
	if err != nil {
		writeBadRequest(w, err.Error())
		return
	}

	if err := u.persons.UpdateTier(ctx, claims.UserID, t); err != nil {
		u.writeStoreError(w, err)
		return
	}
	p, ok := u.findPerson(ctx, w, claims.UserID)
	if !ok {
		return
	}

	s, err := u.issuer.Renew(ctx, p)
	if err != nil {
		u.logger.Error("failed to renew session", zap.Int64("id", p.ID), zap.Error(err))
		httpx.WriteInternalError(w)
		return
	}
	u.issuer.Attach(w, s)

	u.logger.Info("membership updated", zap.Int64("id", p.ID), zap.String("tier", t.String()))
	httpx.WriteJSON(w, http.StatusOK, userResponse{User: p.Public()})
}

func (u *userHandler) List(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	persons, err := u.persons.List(ctx)
	if err != nil {
		httpx.WriteInternalError(w)
		return
	}

	out := make([]person.PublicPerson, 0, len(persons))
	for _, p := range persons {
		out = append(out, p.Public())
	}
	httpx.WriteJSON(w, http.StatusOK, listUsersResponse{Users: out, Total: len(out)})
}

func (u *userHandler) UpdateRole(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var req updateRoleRequest
	if !httpx.DecodeJSON(w, r, u.validator, u.logger, &req) {
		return
	}

	if err := u.persons.UpdateRole(ctx, id, person.Role(req.Role)); err != nil {
		u.writeStoreError(w, err)
		return
	}

	u.logger.Info("role updated", zap.Int64("id", id), zap.String("role", req.Role))
	httpx.WriteJSON(w, http.StatusOK, messageResponse{Message: "user role updated"})
}

func (u *userHandler) UpdateTier(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var req updateTierRequest
	if !httpx.DecodeJSON(w, r, u.validator, u.logger, &req) {
		return
	}
	t, err := tier.Parse(req.Tier)
	if err != nil {
		writeBadRequest(w, err.Error())
		return
	}

	if err := u.persons.UpdateTier(ctx, id, t); err != nil {
		u.writeStoreError(w, err)
		return
	}

	u.logger.Info("tier updated by admin", zap.Int64("id", id), zap.String("tier", t.String()))
	httpx.WriteJSON(w, http.StatusOK, messageResponse{Message: "user tier updated"})
}

func (u *userHandler) Delete(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if claims, ok := auth.ClaimsFromContext(ctx); ok && claims.UserID == id {
		writeBadRequest(w, errDeleteSelf.Error())
		return
	}

	if err := u.persons.Delete(ctx, id); err != nil {
		u.writeStoreError(w, err)
		return
	}

	u.logger.Info("user deleted", zap.Int64("id", id))
	httpx.WriteJSON(w, http.StatusOK, messageResponse{Message: "user deleted"})
}

func (u *userHandler) findPerson(ctx context.Context, w http.ResponseWriter, id int64) (*person.Person, bool) {
	p, err := u.persons.GetByID(ctx, id)
	if err != nil {
		u.writeStoreError(w, err)
		return nil, false
	}
	return p, true
}

func (u *userHandler) writeStoreError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, person.ErrPersonNotFound):
		httpx.WriteError(w, http.StatusNotFound, httpx.ErrorResponse[any]{
			Code:    httpx.ErrNotFound,
			Message: "user not found",
		})
	case errors.Is(err, tier.ErrUnknownTier):
		writeBadRequest(w, err.Error())
	default:
		httpx.WriteInternalError(w)
	}
}

func pathID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		writeBadRequest(w, "invalid user id")
		return 0, false
	}
	return id, true
}

func writeBadRequest(w http.ResponseWriter, msg string) {
	httpx.WriteError(w, http.StatusBadRequest, httpx.ErrorResponse[any]{
		Code:    httpx.ErrBadRequest,
		Message: msg,
	})
}

type updateTierRequest struct {
	Tier string `json:"tier" validate:"required,oneof=free premium pro"`
}

type updateRoleRequest struct {
	Role string `json:"role" validate:"required,oneof=user admin"`
}

type userResponse struct {
	User person.PublicPerson `json:"user"`
}

type profileResponse struct {
	User             person.PublicPerson `json:"user"`
	CompletedLessons int                 `json:"completedLessons"`
}

type listUsersResponse struct {
	Users []person.PublicPerson `json:"users"`
	Total int                   `json:"total"`
}

type messageResponse struct {
	Message string `json:"message"`
}
