package server

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/scansoal/scansoal/config"
	"github.com/scansoal/scansoal/pkg/auth"
	"github.com/scansoal/scansoal/server/api"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

type Server struct {
	*config.Config
	http.Handler
}

func New(cfg *config.Config) (*Server, error) {
	api, err := api.New(cfg)

	if err != nil {
		return nil, err
	}

	mux := chi.NewRouter()

	s := &Server{
		Config:  cfg,
		Handler: otelhttp.NewHandler(mux, "scansoal"),
	}

	mux.Use(middleware.Recoverer)

	mux.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{
			http.MethodGet,
			http.MethodPost,
			http.MethodOptions,
		},
		AllowedHeaders:   []string{"*"},
		ExposedHeaders:   []string{"Content-Disposition"},
		AllowCredentials: false,
	}))

	mux.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	})

	mux.Group(func(r chi.Router) {
		r.Use(s.handleAuth)

		api.Attach(r)
	})

	return s, nil
}

// ListenAndServe serves until ctx is done, then drains in-flight requests.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:    s.Address,
		Handler: s,

		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)

	go func() {
		slog.Info("server listening", "address", s.Address)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}

		return err

	case <-ctx.Done():
	}

	slog.Info("server shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	return srv.Shutdown(shutdownCtx)
}

func (s *Server) handleAuth(next http.Handler) http.Handler {
	chain := auth.Chain(s.Authorizers)

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx, err := chain.Authenticate(r.Context(), r)

		if err != nil {
			api.WriteError(w, err)
			return
		}

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
