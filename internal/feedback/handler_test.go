package feedback

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type memFeedback struct {
	items []*Feedback
}

func (m *memFeedback) Create(_ context.Context, dto *FeedbackDTO) (int64, error) {
	fb := &Feedback{ID: int64(len(m.items) + 1), Name: dto.Name, Email: dto.Email, Type: dto.Type, Message: dto.Message}
	m.items = append(m.items, fb)
	return fb.ID, nil
}

func (m *memFeedback) List(context.Context) ([]*Feedback, error) {
	return m.items, nil
}

func (m *memFeedback) Count(context.Context) (int, error) {
	return len(m.items), nil
}

func (m *memFeedback) Delete(_ context.Context, id int64) error {
	for i, fb := range m.items {
		if fb.ID == id {
			m.items = append(m.items[:i], m.items[i+1:]...)
			return nil
		}
	}
	return ErrFeedbackNotFound
}

func newRouter(repo FeedbackRepo) http.Handler {
	h := NewFeedbackHandler(repo, zap.NewNop())
	r := chi.NewRouter()
	r.Mount("/feedback", h.Routes())
	r.Mount("/admin/feedback", h.AdminRoutes())
	return r
}

func send(h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestSubmit(t *testing.T) {
	repo := &memFeedback{}
	h := newRouter(repo)

	rec := send(h, http.MethodPost, "/feedback", `{"feedbackType":"Feature Request","message":"please add a budgeting pillar"}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var env struct {
		Data submitFeedbackResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	assert.Equal(t, int64(1), env.Data.FeedbackID)
	require.Len(t, repo.items, 1)
	assert.Equal(t, TypeFeatureRequest, repo.items[0].Type)
}

func TestSubmitValidation(t *testing.T) {
	h := newRouter(&memFeedback{})

	cases := map[string]string{
		"short message": `{"feedbackType":"Compliment","message":"nice"}`,
		"unknown type":  `{"feedbackType":"Rant","message":"long enough message"}`,
		"bad email":     `{"email":"nope","feedbackType":"Compliment","message":"long enough message"}`,
		"missing type":  `{"message":"long enough message"}`,
	}
	for name, body := range cases {
		rec := send(h, http.MethodPost, "/feedback", body)
		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code, name)
	}
}

func TestAdminListAndDelete(t *testing.T) {
	repo := &memFeedback{}
	h := newRouter(repo)
	for i := 0; i < 2; i++ {
		require.Equal(t, http.StatusCreated, send(h, http.MethodPost, "/feedback", `{"feedbackType":"Bug Report","message":"something is broken"}`).Code)
	}

	rec := send(h, http.MethodGet, "/admin/feedback", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var env struct {
		Data listFeedbackResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	assert.Equal(t, 2, env.Data.Total)
	assert.Len(t, env.Data.Feedback, 2)

	assert.Equal(t, http.StatusOK, send(h, http.MethodDelete, "/admin/feedback/1", "").Code)
	assert.Equal(t, http.StatusNotFound, send(h, http.MethodDelete, "/admin/feedback/1", "").Code)
	assert.Equal(t, http.StatusBadRequest, send(h, http.MethodDelete, "/admin/feedback/abc", "").Code)
}
