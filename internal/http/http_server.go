package http

// this is the entry point of the http request handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"gitlab.com/codearena-2026.net/internal/core/ports/primary"
	"gitlab.com/codearena-2026.net/internal/core/services/grading"
	"gitlab.com/codearena-2026.net/internal/core/services/submission"
	"gitlab.com/codearena-2026.net/internal/handlers/submissions"
)

type ServiceProvider struct {
	gradingService    grading.IGradingService
	submissionService submission.ISubmissionService
}

func NewServiceProvider(
	gradingService grading.IGradingService,
	submissionService submission.ISubmissionService,
) *ServiceProvider {
	return &ServiceProvider{
		gradingService:    gradingService,
		submissionService: submissionService,
	}
}

type Server struct {
	router          *mux.Router
	server          *http.Server
	Port            int
	ServiceName     string
	ServiceProvider ServiceProvider
	logger          primary.Logger
}

func NewServer(port int, serviceName string, serviceProvider ServiceProvider, logger primary.Logger) *Server {
	return &Server{
		Port:            port,
		ServiceName:     serviceName,
		ServiceProvider: serviceProvider,
		logger:          logger,
	}
}

func (s *Server) Init() error {
	r := mux.NewRouter()
	submissions.
		NewSubmissionHandler(s.ServiceProvider.gradingService, s.ServiceProvider.submissionService, s.logger).
		RegisterRoutes(r)
	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	}).Methods("GET")
	s.router = r
	return nil
}

func (s *Server) Start(ctx context.Context) {
	s.server = &http.Server{
		Addr:         fmt.Sprintf(":%d", s.Port),
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		s.logger.Info("HTTP server listening", "service", s.ServiceName, "addr", s.server.Addr)
		if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("HTTP server error", "error", err)
		}
	}()
}

func (s *Server) Stop() {
	if s.server == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := s.server.Shutdown(ctx); err != nil {
		s.logger.Error("HTTP server forced to shutdown", "error", err)
	}
}
