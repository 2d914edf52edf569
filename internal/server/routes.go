package server

import (
	"net/http"
	"os"

	"gitalyzer/internal/config"
)

// NewHandler wires the API routes and, when the configured frontend
// directory exists, serves it from the root path so the project works out
// of the box.
func NewHandler(cfg *config.Config) http.Handler {
	a := &api{cfg: cfg}

	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/analyze", a.handleAnalyze)
	mux.HandleFunc("POST /api/generate-pdf", a.handleGeneratePDF)
	mux.HandleFunc("GET /api/analysis-schema", a.handleSchema)
	mux.HandleFunc("GET /api/health", a.handleHealth)

	if info, err := os.Stat(cfg.FrontendDir); err == nil && info.IsDir() {
		mux.Handle("/", http.FileServer(http.Dir(cfg.FrontendDir)))
	}

	return CORS(mux)
}
