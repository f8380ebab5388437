package httpx

import (
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
)

func NewRouter(log zerolog.Logger) *chi.Mux {
	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.RealIP, RequestLogger(log))
	r.Use(middleware.Timeout(15 * time.Second))
	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	return r
}

// MountStatic serves dir at / and falls back to index.html for paths that
// are not files, so client-side routes load the app.
func MountStatic(r chi.Router, dir string) {
	fs := http.FileServer(http.Dir(dir))
	index := filepath.Join(dir, "index.html")
	r.Get("/*", func(w http.ResponseWriter, req *http.Request) {
		p := filepath.Join(dir, filepath.FromSlash(filepath.Clean("/"+req.URL.Path)))
		if info, err := os.Stat(p); err == nil && !info.IsDir() {
			fs.ServeHTTP(w, req)
			return
		}
		http.ServeFile(w, req, index)
	})
}
