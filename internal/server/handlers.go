package server

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"gitalyzer/internal/analysis"
	"gitalyzer/internal/config"
	"gitalyzer/internal/github"
	"gitalyzer/internal/models"
	"gitalyzer/internal/pipeline"
	"gitalyzer/internal/report"
)

const maxBodyBytes = 1 << 20

type api struct {
	cfg *config.Config
}

type analyzeRequest struct {
	RepoURL string `json:"repo_url"`
	APIKey  string `json:"api_key"`
	Model   string `json:"model"`
}

type analyzeResponse struct {
	Repository  *models.Snapshot `json:"repository"`
	Analysis    models.Analysis  `json:"analysis"`
	UsedAI      bool             `json:"used_ai"`
	RawResponse *string          `json:"raw_response"`
}

type pdfRequest struct {
	RepoName string          `json:"repo_name"`
	Analysis json.RawMessage `json:"analysis"`
}

func (a *api) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	var req analyzeRequest
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	res, err := pipeline.Analyze(r.Context(), a.cfg, pipeline.Request{
		RepoURL: req.RepoURL,
		APIKey:  req.APIKey,
		Model:   req.Model,
	})
	if err != nil {
		status, detail := errorStatus(err)
		writeError(w, status, detail)
		return
	}

	writeJSON(w, http.StatusOK, analyzeResponse{
		Repository:  res.Repository,
		Analysis:    res.Analysis,
		UsedAI:      res.UsedAI,
		RawResponse: res.RawResponse,
	})
}

func (a *api) handleGeneratePDF(w http.ResponseWriter, r *http.Request) {
	var req pdfRequest
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	parsed, err := models.ParseAnalysis(req.Analysis)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	doc, err := report.Build(req.RepoName, parsed)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	name := req.RepoName
	if name == "" {
		name = "repository"
	}
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%s-gitalyzer.pdf", name))
	w.Header().Set("Content-Length", strconv.Itoa(len(doc)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(doc)
}

func (a *api) handleSchema(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, analysis.FieldSchema())
}

func (a *api) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"ok":   true,
		"time": time.Now().UTC().Format(time.RFC3339),
	})
}

// errorStatus maps pipeline failures onto the API's status codes: bad URLs
// are the client's fault, GitHub failures are upstream, and a misshapen
// final analysis is ours.
func errorStatus(err error) (int, string) {
	var invalidURL *github.InvalidURLError
	if errors.As(err, &invalidURL) {
		return http.StatusBadRequest, invalidURL.Reason
	}
	var apiErr *github.APIError
	if errors.As(err, &apiErr) {
		return http.StatusBadGateway, apiErr.Error()
	}
	var validation *models.ValidationError
	if errors.As(err, &validation) {
		return http.StatusInternalServerError, "Failed to parse analysis: " + validation.Error()
	}
	return http.StatusInternalServerError, err.Error()
}

func readJSON(r *http.Request, dst any) error {
	defer func() { _, _ = io.Copy(io.Discard, r.Body) }()
	data, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	if err != nil {
		return fmt.Errorf("reading request body: %w", err)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		data = []byte("{}")
	}
	if err := json.Unmarshal(data, dst); err != nil {
		return fmt.Errorf("decoding JSON: %w", err)
	}
	return nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		http.Error(w, "encoding response failed", http.StatusInternalServerError)
		return
	}
	data = append(data, '\n')
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(status)
	_, _ = w.Write(data)
}

func writeError(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, map[string]string{"detail": detail})
}
