// Package rest exposes the recipebox services over HTTP/JSON.
package rest

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/dmitrijs2005/recipebox/internal/logging"
	"github.com/dmitrijs2005/recipebox/internal/server/auth"
	"github.com/dmitrijs2005/recipebox/internal/server/models"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type UserManager interface {
	Register(ctx context.Context, userName, password string) (*models.User, error)
	Login(ctx context.Context, userName, password string) (*auth.Token, error)
	Identify(ctx context.Context, userID int64) (auth.Identity, error)
	Delete(ctx context.Context, userID int64) error
}

type RecipeManager interface {
	Create(ctx context.Context, owner auth.Identity, draft models.RecipeDraft) (*models.Recipe, error)
	List(ctx context.Context, filter models.RecipeFilter) ([]*models.Recipe, error)
	Get(ctx context.Context, id int64) (*models.Recipe, error)
	Delete(ctx context.Context, id int64) error
}

type TagManager interface {
	Create(ctx context.Context, recipeID int64, name string) (*models.Tag, error)
	Get(ctx context.Context, id int64) (*models.Tag, error)
	Rename(ctx context.Context, id int64, name string) error
	Delete(ctx context.Context, id int64) error
}

type ReviewManager interface {
	Create(ctx context.Context, recipeID int64, content string, anonymous bool, author auth.Identity) (*models.Review, error)
	ListForRecipe(ctx context.Context, recipeName string) ([]*models.Review, error)
	Delete(ctx context.Context, reviewID int64, requester int64) error
}

// TokenVerifier turns a bearer token into the id of the user it was issued to.
type TokenVerifier interface {
	Verify(token string) (int64, error)
}

// Pinger reports whether the database is reachable.
type Pinger interface {
	PingContext(ctx context.Context) error
}

// Services groups the resource managers the handlers call into.
type Services struct {
	Users   UserManager
	Recipes RecipeManager
	Tags    TagManager
	Reviews ReviewManager
}

type Server struct {
	address         string
	shutdownTimeout time.Duration

	users   UserManager
	recipes RecipeManager
	tags    TagManager
	reviews ReviewManager
	tokens  TokenVerifier
	db      Pinger

	logger   logging.Logger
	registry *prometheus.Registry
	metrics  *metrics
	router   *mux.Router
}

// NewServer builds the HTTP server and its routes. db may be nil, in which
// case /health reports only that the process is up.
func NewServer(address string, shutdownTimeout time.Duration, svc Services, tokens TokenVerifier, db Pinger, l logging.Logger) *Server {
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	s := &Server{
		address:         address,
		shutdownTimeout: shutdownTimeout,
		users:           svc.Users,
		recipes:         svc.Recipes,
		tags:            svc.Tags,
		reviews:         svc.Reviews,
		tokens:          tokens,
		db:              db,
		logger:          l.With("module", "rest_server"),
		registry:        registry,
		metrics:         newMetrics(registry),
		router:          mux.NewRouter(),
	}

	s.setupRoutes()
	return s
}

// Handler returns the root HTTP handler with all middleware applied.
func (s *Server) Handler() http.Handler {
	return s.requestIDMiddleware(s.recoveryMiddleware(s.router))
}

func (s *Server) setupRoutes() {
	r := s.router
	r.Use(s.metricsMiddleware, s.loggingMiddleware)
	r.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		writeMessage(w, http.StatusNotFound, "resource not found")
	})
	r.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		writeMessage(w, http.StatusMethodNotAllowed, "method not allowed")
	})

	// Users
	r.HandleFunc("/users", s.registerUser).Methods(http.MethodPost)
	r.HandleFunc("/login", s.login).Methods(http.MethodPost)
	r.HandleFunc("/users", s.requireAuth(s.deleteUser)).Methods(http.MethodDelete)
	r.HandleFunc("/logout", s.requireAuth(s.logout)).Methods(http.MethodDelete)

	// Recipes
	r.HandleFunc("/recipes/create", s.requireAuth(s.createRecipe)).Methods(http.MethodPost)
	r.HandleFunc("/recipes", s.requireAuth(s.listRecipes)).Methods(http.MethodGet)
	r.HandleFunc("/recipes/{id:[0-9]+}", s.requireAuth(s.getRecipe)).Methods(http.MethodGet)
	r.HandleFunc("/recipes/{id:[0-9]+}", s.requireAuth(s.deleteRecipe)).Methods(http.MethodDelete)

	// Tags
	r.HandleFunc("/recipes/{id:[0-9]+}/tags", s.requireAuth(s.createTag)).Methods(http.MethodPost)
	r.HandleFunc("/tags/{id:[0-9]+}", s.requireAuth(s.getTag)).Methods(http.MethodGet)
	r.HandleFunc("/tags/{id:[0-9]+}", s.requireAuth(s.updateTag)).Methods(http.MethodPut)
	r.HandleFunc("/tags/{id:[0-9]+}", s.requireAuth(s.deleteTag)).Methods(http.MethodDelete)

	// Reviews
	r.HandleFunc("/recipes/{id:[0-9]+}/reviews", s.requireAuth(s.createReview)).Methods(http.MethodPost)
	r.HandleFunc("/recipes/{name}/reviews", s.requireAuth(s.listReviews)).Methods(http.MethodGet)
	r.HandleFunc("/reviews/{id:[0-9]+}", s.requireAuth(s.deleteReview)).Methods(http.MethodDelete)

	// Operations
	r.HandleFunc("/health", s.health).Methods(http.MethodGet)
	r.Handle("/metrics", promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{})).Methods(http.MethodGet)
}

// Run serves HTTP until ctx is cancelled, then shuts down gracefully,
// giving in-flight requests up to the configured timeout.
func (s *Server) Run(ctx context.Context) error {
	listen, err := net.Listen("tcp", s.address)
	if err != nil {
		return err
	}

	srv := &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return context.WithoutCancel(ctx) },
	}

	shutdownErr := make(chan error, 1)
	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping HTTP server...")

		sctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.shutdownTimeout)
		defer cancel()
		shutdownErr <- srv.Shutdown(sctx)
	}()

	s.logger.Info(ctx, "Starting HTTP server", "address", listen.Addr().String())

	if err := srv.Serve(listen); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	return <-shutdownErr
}
