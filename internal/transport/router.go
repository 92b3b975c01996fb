package transport

import (
	"context"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/graphql-go/graphql"
	"github.com/graphql-go/handler"
	log "github.com/sirupsen/logrus"
)

const requestIDHeader = "X-Request-ID"

// Pinger reports whether the backing database is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Handler serves the non-GraphQL endpoints.
type Handler struct {
	db     Pinger
	logger log.FieldLogger
}

// Router serves the GraphQL endpoint on /graphql and a liveness probe on /healthz.
func Router(schema graphql.Schema, db Pinger, graphiql bool, logger log.FieldLogger) http.Handler {
	h := &Handler{db: db, logger: logger}

	gql := handler.New(&handler.Config{
		Schema:   &schema,
		Pretty:   true,
		GraphiQL: graphiql,
	})

	r := mux.NewRouter()
	r.Handle("/graphql", gql).Methods(http.MethodGet, http.MethodPost)
	r.HandleFunc("/healthz", h.healthHandler).Methods(http.MethodGet)

	return h.logMiddleware(r)
}

func (h *Handler) healthHandler(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	if err := h.db.Ping(ctx); err != nil {
		h.logger.WithError(err).Error("Health check failed")
		http.Error(w, "database unavailable", http.StatusServiceUnavailable)
		return
	}
	w.Header().Set("Content-Type", "text/plain")
	_, _ = w.Write([]byte("ok"))
}

func (h *Handler) logMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get(requestIDHeader)
		if requestID == "" {
			requestID = uuid.NewString()
		}
		w.Header().Set(requestIDHeader, requestID)

		start := time.Now()
		next.ServeHTTP(w, r)

		h.logger.WithFields(log.Fields{
			"requestId":  requestID,
			"method":     r.Method,
			"url":        r.URL.String(),
			"remoteAddr": r.RemoteAddr,
			"userAgent":  r.UserAgent(),
			"duration":   time.Since(start).String(),
		}).Info("handled request")
	})
}
