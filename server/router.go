package server

import (
	"context"
	"net/http"
	"time"

	"github.com/APTrust/dart-profiles/bagit"
	"github.com/APTrust/dart-profiles/models/common"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// Handler serves the profile API. It reads and writes profiles
// through the Redis client in Context.
type Handler struct {
	Context   *common.Context
	Converter *bagit.Converter
	Namer     *bagit.Namer
}

func NewHandler(appContext *common.Context) *Handler {
	return &Handler{
		Context:   appContext,
		Converter: bagit.NewConverter(),
		Namer:     bagit.NewNamer(appContext.Settings),
	}
}

// NewRouter returns the routes for the profile API.
func NewRouter(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Use(h.logRequests)
	r.Use(chimw.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: h.Context.Config.CORSOrigins,
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))

	r.Route("/profiles", func(r chi.Router) {
		r.Get("/", h.ListProfiles)
		r.Post("/import", h.ImportProfile)
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", h.GetProfile)
			r.Put("/", h.SaveProfile)
			r.Delete("/", h.DeleteProfile)
			r.Get("/bagname", h.BagName)
			r.Get("/export", h.ExportProfile)
			r.Get("/tagfiles", h.TagFileNames)
			// Tag file names may include a directory, as in dpn-tags/dpn-info.txt
			r.Get("/tagfiles/*", h.TagFile)
			r.Get("/validate", h.ValidateProfile)
		})
	})
	r.Post("/imports", h.EnqueueImport)
	r.Get("/settings/{name}", h.GetSetting)
	r.Put("/settings/{name}", h.SaveSetting)
	r.Get("/ping", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("pong"))
	})
	return r
}

// logRequests writes one line per request to the context's logger.
func (h *Handler) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		h.Context.Logger.Infof("%s %s %d %dB %s", r.Method, r.URL.RequestURI(),
			status, ww.BytesWritten(), time.Since(start))
	})
}

// ListenAndServe serves the API on addr until ctx is cancelled.
func ListenAndServe(ctx context.Context, addr string, handler http.Handler) error {
	srv := &http.Server{Addr: addr, Handler: handler}
	errc := make(chan error, 1)
	go func() { errc <- srv.ListenAndServe() }()
	select {
	case <-ctx.Done():
		return srv.Shutdown(context.Background())
	case err := <-errc:
		return err
	}
}
