package server

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/mehmetcc/financeu/internal/auth"
	"github.com/mehmetcc/financeu/internal/config"
	"github.com/mehmetcc/financeu/internal/feedback"
	"github.com/mehmetcc/financeu/internal/httpx"
	"github.com/mehmetcc/financeu/internal/lesson"
	"github.com/mehmetcc/financeu/internal/users"
	"go.uber.org/zap"
	"moul.io/chizap"
)

// Pinger is satisfied by *sql.DB.
type Pinger interface {
	PingContext(ctx context.Context) error
}

type Deps struct {
	Logger        *zap.Logger
	DB            Pinger
	CORS          *config.CORSConfig
	Authenticator *auth.Authenticator
	Auth          auth.AuthenticationHandler
	Users         users.UserHandler
	Lessons       lesson.LessonHandler
	Feedback      feedback.FeedbackHandler
}

func NewRouter(d Deps) chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(chizap.New(d.Logger, &chizap.Opts{
		WithReferer:   true,
		WithUserAgent: true,
	}))
	r.Use(middleware.Recoverer)
	if d.CORS != nil && len(d.CORS.AllowedOrigins) > 0 {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins:   d.CORS.AllowedOrigins,
			AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
			AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-Id"},
			ExposedHeaders:   []string{"Content-Length"},
			AllowCredentials: true,
			MaxAge:           int((12 * time.Hour).Seconds()),
		}))
	}

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		httpx.WriteError(w, http.StatusNotFound, httpx.ErrorResponse[any]{
			Code:    httpx.ErrNotFound,
			Message: "route not found",
		})
	})
	r.Get("/healthz", health(d.DB, d.Logger))

	r.Route("/api", func(r chi.Router) {
		r.Mount("/auth", d.Auth.Routes())
		r.Mount("/users", d.Users.Routes())
		r.Mount("/lessons", d.Lessons.Routes())
		r.Mount("/feedback", d.Feedback.Routes())

		r.Route("/admin", func(r chi.Router) {
			r.Use(d.Authenticator.Authenticate, auth.RequireAdmin)
			r.Mount("/users", d.Users.AdminRoutes())
			r.Mount("/feedback", d.Feedback.AdminRoutes())
		})
	})

	return r
}

func health(db Pinger, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		if err := db.PingContext(ctx); err != nil {
			logger.Warn("health check failed", zap.Error(err))
			httpx.WriteError(w, http.StatusServiceUnavailable, httpx.ErrorResponse[any]{
				Code:    httpx.ErrUnavailable,
				Message: "database unavailable",
			})
			return
		}
		httpx.WriteJSON(w, http.StatusOK, healthResponse{Status: "ok"})
	}
}

type healthResponse struct {
	Status string `json:"status"`
}
