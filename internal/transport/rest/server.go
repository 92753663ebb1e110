// Package rest is the HTTP boundary: route handlers over the mutation
// service plus the middleware stack. The transport never touches the store
// directly; every mutation routes through the service so publish-after-write
// is never skipped.
package rest

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"netcontrol/internal/ports"
	"netcontrol/internal/usecase/opslog"
)

type Server struct {
	svc    *opslog.Service
	auth   ports.Authenticator
	router chi.Router
}

// NewServer builds the route tree. ws, when non-nil, is mounted as the
// dashboard socket endpoint.
func NewServer(svc *opslog.Service, auth ports.Authenticator, ws http.Handler) *Server {
	s := &Server{
		svc:  svc,
		auth: auth,
	}

	r := chi.NewRouter()
	r.Use(metricsMiddleware)
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Use(s.authMiddleware)

		r.Route("/events", func(r chi.Router) {
			r.Get("/", s.listEvents)
			r.Post("/", s.createEvent)
			r.Get("/{id}", s.listEvents)
			r.Put("/{id}", s.updateEvent)
			r.Delete("/{id}", s.removeEvent)
		})

		r.Route("/observations", func(r chi.Router) {
			r.Get("/", s.listObservations)
			r.Post("/", s.createObservation)
			r.Get("/{id}", s.listObservations)
			r.Put("/{id}", s.updateObservation)
			r.Delete("/{id}", s.removeObservation)
		})

		for path, kind := range referenceRoutes {
			kind := kind
			r.Route("/"+path, func(r chi.Router) {
				r.Get("/", s.listReference(kind))
				r.Post("/", s.createReference(kind))
				r.Get("/{id}", s.listReference(kind))
				r.Put("/{id}", s.updateReference(kind))
				r.Delete("/{id}", s.removeReference(kind))
			})
		}

		r.Post("/admin/purge", s.adminPurge)
	})

	if ws != nil {
		// The socket carries the same payloads as the API; it sits behind
		// the same authentication, with the token on the query string.
		r.With(s.authMiddleware).Handle("/ws/api", ws)
	}

	s.router = r
	return s
}

func (s *Server) Handler() http.Handler {
	return s.router
}
