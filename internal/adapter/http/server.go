package http

import (
	"net/http"

	"github.com/OwenK944/discompress/internal/adapter/http/middleware"
)

type Server struct {
	mux      *http.ServeMux
	handlers *Handlers
	handler  http.Handler
}

func NewServer(handlers *Handlers, cors middleware.CORSPolicy) *Server {
	s := &Server{
		mux:      http.NewServeMux(),
		handlers: handlers,
	}

	s.registerRoutes()

	s.handler = middleware.Metrics(
		middleware.CORS(cors)(
			middleware.SecurityHeaders(s.mux),
		),
	)

	return s
}

func (s *Server) registerRoutes() {
	s.mux.HandleFunc("GET /health", s.handlers.Health())
	s.mux.HandleFunc("POST /api/upload", s.handlers.Upload())

	// Everything else, including "/" and wrong methods on known paths.
	s.mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.handler.ServeHTTP(w, r)
}
