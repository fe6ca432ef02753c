package lesson

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/mehmetcc/financeu/internal/auth"
	"github.com/mehmetcc/financeu/internal/httpx"
	"github.com/mehmetcc/financeu/internal/tier"
	"go.uber.org/zap"
)

const requestTimeout = 3 * time.Second

type LessonHandler interface {
	List(w http.ResponseWriter, r *http.Request)
	Progress(w http.ResponseWriter, r *http.Request)
	Complete(w http.ResponseWriter, r *http.Request)
	Routes() chi.Router
}

type lessonHandler struct {
	logger        *zap.Logger
	progress      ProgressRepo
	authenticator *auth.Authenticator
	validator     *validator.Validate
}

func NewLessonHandler(progress ProgressRepo, authenticator *auth.Authenticator, l *zap.Logger) LessonHandler {
	return &lessonHandler{
		logger:        l,
		progress:      progress,
		authenticator: authenticator,
		validator:     httpx.NewValidator(),
	}
}

func (h *lessonHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(h.authenticator.Authenticate)
	r.Get("/", h.List)
	r.Get("/progress", h.Progress)
	r.Post("/complete", h.Complete)
	r.With(auth.RequireTier(tier.Premium)).Get("/premium", h.tierLessons(tier.Premium))
	r.With(auth.RequireTier(tier.Pro)).Get("/pro", h.tierLessons(tier.Pro))
	return r
}

// List returns the whole catalog, marking what the caller may open and what
// they already finished.
func (h *lessonHandler) List(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	claims, ok := auth.ClaimsFromContext(ctx)
	if !ok {
		auth.WriteUnauthenticated(w)
		return
	}

	progress, err := h.progress.GetProgress(ctx, claims.UserID)
	if err != nil {
		httpx.WriteInternalError(w)
		return
	}
	done := make(map[string]bool, len(progress))
	for _, p := range progress {
		done[p.LessonID] = p.Completed
	}

	lessons := Catalog()
	entries := make([]CatalogEntry, 0, len(lessons))
	for _, l := range lessons {
		entries = append(entries, CatalogEntry{
			Lesson:     l,
			Accessible: tier.Allows(claims.Tier(), l.RequiredTier),
			Completed:  done[l.ID],
		})
	}

	httpx.WriteJSON(w, http.StatusOK, catalogResponse{Lessons: entries, Tier: claims.Tier()})
}

func (h *lessonHandler) Progress(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	claims, ok := auth.ClaimsFromContext(ctx)
	if !ok {
		auth.WriteUnauthenticated(w)
		return
	}

	progress, err := h.progress.GetProgress(ctx, claims.UserID)
	if err != nil {
		httpx.WriteInternalError(w)
		return
	}

	completed := 0
	for _, p := range progress {
		if p.Completed {
			completed++
		}
	}
	httpx.WriteJSON(w, http.StatusOK, progressResponse{
		Progress:         progress,
		CompletedLessons: completed,
		TotalLessons:     len(catalog),
	})
}

func (h *lessonHandler) Complete(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	claims, ok := auth.ClaimsFromContext(ctx)
	if !ok {
		auth.WriteUnauthenticated(w)
		return
	}

	var req completeLessonRequest
	if !httpx.DecodeJSON(w, r, h.validator, h.logger, &req) {
		return
	}

	l, found := Find(req.LessonID)
	if !found {
		httpx.WriteError(w, http.StatusNotFound, httpx.ErrorResponse[any]{
			Code:    httpx.ErrNotFound,
			Message: ErrLessonNotFound.Error(),
		})
		return
	}
	if !tier.Allows(claims.Tier(), l.RequiredTier) {
		httpx.WriteError(w, http.StatusForbidden, httpx.ErrorResponse[lockedDetails]{
			Code:    httpx.ErrForbidden,
			Message: ErrLessonLocked.Error(),
			Details: lockedDetails{LessonID: l.ID, RequiredTier: l.RequiredTier, CurrentTier: claims.Tier()},
		})
		return
	}

	if err := h.progress.MarkComplete(ctx, claims.UserID, l.ID); err != nil {
		httpx.WriteInternalError(w)
		return
	}

	h.logger.Debug("lesson completed", zap.Int64("id", claims.UserID), zap.String("lesson_id", l.ID))
	httpx.WriteJSON(w, http.StatusOK, completeLessonResponse{Message: "lesson marked as complete", LessonID: l.ID})
}

func (h *lessonHandler) tierLessons(t tier.Tier) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		httpx.WriteJSON(w, http.StatusOK, tierLessonsResponse{Tier: t, Lessons: ForTier(t)})
	}
}

type completeLessonRequest struct {
	LessonID string `json:"lessonId" validate:"required,max=64"`
}

type completeLessonResponse struct {
	Message  string `json:"message"`
	LessonID string `json:"lessonId"`
}

type catalogResponse struct {
	Lessons []CatalogEntry `json:"lessons"`
	Tier    tier.Tier      `json:"membershipTier"`
}

type progressResponse struct {
	Progress         []*Progress `json:"progress"`
	CompletedLessons int         `json:"completedLessons"`
	TotalLessons     int         `json:"totalLessons"`
}

type tierLessonsResponse struct {
	Tier    tier.Tier `json:"tier"`
	Lessons []Lesson  `json:"lessons"`
}

type lockedDetails struct {
	LessonID     string    `json:"lessonId"`
	RequiredTier tier.Tier `json:"requiredTier"`
	CurrentTier  tier.Tier `json:"currentTier"`
}
