package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// Routes builds the HTTP router. Extra middleware (CORS) runs after the
// standard chi stack and before routing.
func (h *Handler) Routes(extra ...func(http.Handler) http.Handler) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RealIP)
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(extra...)

	r.Get("/", h.Root)
	r.Get("/health", h.Health)
	r.Post("/predict", h.Predict)
	r.Post("/predict/tensor", h.PredictTensor)
	r.Post("/predict-with-caption", h.PredictWithCaption)

	return r
}
