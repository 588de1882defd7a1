package server

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"docflow/internal/config"
	"docflow/internal/http/handlers/docs"
	"docflow/internal/http/handlers/notifications"
	"docflow/internal/http/handlers/reviews"
	"docflow/internal/http/handlers/signatures"
	"docflow/internal/http/middleware"
	"docflow/internal/models"
	utils "docflow/internal/utils/http_errors"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func StartServer(
	ctx context.Context,
	cfg *config.HTTPServer,
	log *slog.Logger,
	lifecycle LifecycleService,
	signature SignatureService,
	review ReviewService,
	notify NotificationService,
	resolver ActorResolver,
	registry *prometheus.Registry,
	httpRequests *prometheus.CounterVec,
) error {
	r := mux.NewRouter()

	r.Use(middleware.Logger(log))
	r.Use(middleware.Prometheus(httpRequests))

	setupRoutes(r, log, lifecycle, signature, review, notify, resolver, registry)

	srv := &http.Server{
		Addr:         cfg.Address,
		ReadTimeout:  cfg.Timeout,
		WriteTimeout: cfg.Timeout,
		IdleTimeout:  cfg.IdleTimeout,
		Handler:      r,
	}

	errChan := make(chan error, 1)

	go func() {
		log.Info("server started", slog.String("address", cfg.Address))
		if err := srv.ListenAndServe(); err != nil {
			if errors.Is(err, http.ErrServerClosed) {
				log.Info("server closed gracefully")
			} else {
				log.Error("could not start server:", "error", err)
				errChan <- err
			}
		}
	}()
	select {
	case <-ctx.Done():
		log.Info("shutting down server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Error("error shutting down server", "error", err)
			return err
		}
		log.Info("server exited gracefully")
		return nil
	case err := <-errChan:
		return err
	}
}

func setupRoutes(
	r *mux.Router,
	log *slog.Logger,
	lifecycle LifecycleService,
	signature SignatureService,
	review ReviewService,
	notify NotificationService,
	resolver ActorResolver,
	registry *prometheus.Registry,
) {
	// GET metrics
	r.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{})).Methods(http.MethodGet)

	protected := r.NewRoute().Subrouter()

	protected.Use(middleware.Auth(log, resolver))

	// POST doc
	protected.HandleFunc("/api/docs", func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		docs.Upload(ctx, log, w, r, lifecycle)
	}).Methods(http.MethodPost)

	// GET docs search
	protected.HandleFunc("/api/docs", func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		docs.Search(ctx, log, w, r, lifecycle)
	}).Methods(http.MethodGet)

	// PATCH doc by id
	protected.HandleFunc("/api/docs/{id}", func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		vars := mux.Vars(r)
		docID := vars["id"]
		docs.Update(ctx, log, w, r, docID, lifecycle)
	}).Methods(http.MethodPatch)

	// DELETE doc by id
	protected.HandleFunc("/api/docs/{id}", func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		vars := mux.Vars(r)
		docID := vars["id"]
		docs.Delete(ctx, log, w, r, docID, lifecycle)
	}).Methods(http.MethodDelete)

	// GET doc download url
	protected.HandleFunc("/api/docs/{id}/url", func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		vars := mux.Vars(r)
		docID := vars["id"]
		docs.DownloadURL(ctx, log, w, r, docID, lifecycle)
	}).Methods(http.MethodGet)

	// POST doc share
	protected.HandleFunc("/api/docs/{id}/share", func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		vars := mux.Vars(r)
		docID := vars["id"]
		docs.Share(ctx, log, w, r, docID, lifecycle)
	}).Methods(http.MethodPost)

	// POST signature request
	protected.HandleFunc("/api/docs/{id}/signatures", func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		vars := mux.Vars(r)
		docID := vars["id"]
		signatures.Request(ctx, log, w, r, docID, signature)
	}).Methods(http.MethodPost)

	// POST sign
	protected.HandleFunc("/api/docs/{id}/sign", func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		vars := mux.Vars(r)
		docID := vars["id"]
		signatures.Sign(ctx, log, w, r, docID, signature)
	}).Methods(http.MethodPost)

	// GET pending signatures
	protected.HandleFunc("/api/signatures/pending", func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		signatures.Pending(ctx, log, w, r, signature)
	}).Methods(http.MethodGet)

	// POST revision
	protected.HandleFunc("/api/docs/{id}/revisions", func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		vars := mux.Vars(r)
		docID := vars["id"]
		reviews.SaveEdit(ctx, log, w, r, docID, review)
	}).Methods(http.MethodPost)

	// POST revision submit
	protected.HandleFunc("/api/docs/{id}/revisions/{revision_id}/submit", func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		vars := mux.Vars(r)
		docID := vars["id"]
		revID := vars["revision_id"]
		reviews.Submit(ctx, log, w, r, docID, revID, review)
	}).Methods(http.MethodPost)

	// POST revision review
	protected.HandleFunc("/api/docs/{id}/revisions/{revision_id}/review", func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		vars := mux.Vars(r)
		docID := vars["id"]
		revID := vars["revision_id"]
		reviews.Review(ctx, log, w, r, docID, revID, review)
	}).Methods(http.MethodPost)

	// GET pending reviews
	protected.HandleFunc("/api/reviews/pending", func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		reviews.Pending(ctx, log, w, r, review)
	}).Methods(http.MethodGet)

	// GET notifications
	protected.HandleFunc("/api/notifications", func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		notifications.List(ctx, log, w, r, notify)
	}).Methods(http.MethodGet)

	// Not allowed
	r.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		utils.WriteJSONError(w, http.StatusMethodNotAllowed, models.ErrMethodNotAllowed.Error())
	})
}
