package httpapi

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/robertvg253/arrankar-vehiculos-app/internal/common"
	"github.com/robertvg253/arrankar-vehiculos-app/internal/logging"
)

// MediaPrefix is where a disk object store is served from.
const MediaPrefix = "/media/"

// NewRouter wires the vehicle routes. media may be nil when objects are
// served from elsewhere.
func NewRouter(h *VehiclesHandler, media http.Handler, log logging.Logger) *mux.Router {
	r := mux.NewRouter()
	r.Use(requestLogger(log.With("module", "http")))

	api := r.PathPrefix("/api").Subrouter()
	api.HandleFunc("/vehicles", h.Create).Methods(http.MethodPost)
	api.HandleFunc("/vehicles/{id}", h.Get).Methods(http.MethodGet)
	api.HandleFunc("/vehicles/{id}", h.Update).Methods(http.MethodPut)
	api.HandleFunc("/vehicles/{id}/gallery", h.ListGallery).Methods(http.MethodGet)
	api.HandleFunc("/vehicles/{id}/gallery", h.SubmitGallery).Methods(http.MethodPost)

	if media != nil {
		r.PathPrefix(MediaPrefix).Handler(http.StripPrefix(MediaPrefix, media)).Methods(http.MethodGet, http.MethodHead)
	}
	return r
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (s *statusRecorder) WriteHeader(code int) {
	s.status = code
	s.ResponseWriter.WriteHeader(code)
}

// requestLogger echoes or assigns a request id and logs one line per request.
func requestLogger(log logging.Logger) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := r.Header.Get(common.RequestIDHeaderName)
			if id == "" {
				id = uuid.NewString()
			}
			w.Header().Set(common.RequestIDHeaderName, id)

			rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
			start := time.Now()
			next.ServeHTTP(rec, r)

			log.Info(r.Context(), "http request",
				"request_id", id,
				"method", r.Method,
				"path", r.URL.Path,
				"status", rec.status,
				"duration", time.Since(start),
			)
		})
	}
}
