package feedback

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/mehmetcc/financeu/internal/httpx"
	"go.uber.org/zap"
)

const requestTimeout = 3 * time.Second

type FeedbackHandler interface {
	Submit(w http.ResponseWriter, r *http.Request)
	List(w http.ResponseWriter, r *http.Request)
	Delete(w http.ResponseWriter, r *http.Request)
	// Routes is the public submission endpoint.
	Routes() chi.Router
	// AdminRoutes must be mounted behind admin authorization.
	AdminRoutes() chi.Router
}

type feedbackHandler struct {
	logger    *zap.Logger
	repo      FeedbackRepo
	validator *validator.Validate
}

func NewFeedbackHandler(repo FeedbackRepo, l *zap.Logger) FeedbackHandler {
	return &feedbackHandler{
		logger:    l,
		repo:      repo,
		validator: httpx.NewValidator(),
	}
}

func (h *feedbackHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Post("/", h.Submit)
	return r
}

func (h *feedbackHandler) AdminRoutes() chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.List)
	r.Delete("/{id}", h.Delete)
	return r
}

func (h *feedbackHandler) Submit(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	var req submitFeedbackRequest
	if !httpx.DecodeJSON(w, r, h.validator, h.logger, &req) {
		return
	}

	id, err := h.repo.Create(ctx, &FeedbackDTO{
		Name:    req.Name,
		Email:   req.Email,
		Type:    Type(req.FeedbackType),
		Message: req.Message,
	})
	if err != nil {
		httpx.WriteInternalError(w)
		return
	}

	h.logger.Info("feedback submitted", zap.Int64("id", id), zap.String("type", req.FeedbackType))
	httpx.WriteJSON(w, http.StatusCreated, submitFeedbackResponse{
		Message:    "thank you for your feedback",
		FeedbackID: id,
	})
}

func (h *feedbackHandler) List(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	items, err := h.repo.List(ctx)
	if err != nil {
		httpx.WriteInternalError(w)
		return
	}
	total, err := h.repo.Count(ctx)
	if err != nil {
		httpx.WriteInternalError(w)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, listFeedbackResponse{Feedback: items, Total: total})
}

func (h *feedbackHandler) Delete(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		httpx.WriteError(w, http.StatusBadRequest, httpx.ErrorResponse[any]{
			Code:    httpx.ErrBadRequest,
			Message: "invalid feedback id",
		})
		return
	}

	if err := h.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, ErrFeedbackNotFound) {
			httpx.WriteError(w, http.StatusNotFound, httpx.ErrorResponse[any]{
				Code:    httpx.ErrNotFound,
				Message: ErrFeedbackNotFound.Error(),
			})
			return
		}
		httpx.WriteInternalError(w)
		return
	}

	h.logger.Info("feedback deleted", zap.Int64("id", id))
	httpx.WriteJSON(w, http.StatusOK, messageResponse{Message: "feedback deleted"})
}

type submitFeedbackRequest struct {
	Name         *string `json:"name"         validate:"omitempty,max=100"`
	Email        *string `json:"email"        validate:"omitempty,email,max=254"`
	FeedbackType string  `json:"feedbackType" validate:"required,oneof='Bug Report' 'Feature Request' 'General Feedback' 'Compliment'"`
	Message      string  `json:"message"      validate:"required,min=10,max=5000"`
}

type submitFeedbackResponse struct {
	Message    string `json:"message"`
	FeedbackID int64  `json:"feedbackId"`
}

type listFeedbackResponse struct {
	Feedback []*Feedback `json:"feedback"`
	Total    int         `json:"total"`
}

type messageResponse struct {
	Message string `json:"message"`
}
