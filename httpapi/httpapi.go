// Package httpapi serves the file count page over HTTP.
package httpapi

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/krisalay/compute-cache/page"
)

// Page is what the handler serves.
type Page interface {
	Build(ctx context.Context) (page.Report, error)
	Clear(req page.ClearRequest) (page.ClearResult, error)
}

type handler struct {
	page    Page
	metrics http.Handler
	mux     *http.ServeMux
}

// New returns the HTTP surface of p. metrics may be nil, in which case
// /metrics is not routed.
func New(p Page, metrics http.Handler) http.Handler {
	h := &handler{page: p, metrics: metrics}
	mux := http.NewServeMux()
	mux.HandleFunc("/", h.handleReport)
	mux.HandleFunc("/clear", h.handleClear)
	if metrics != nil {
		mux.Handle("/metrics", metrics)
	}
	h.mux = mux
	return h
}

func (h *handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
	h.mux.ServeHTTP(rec, r)
	log.Debug("request", "method", r.Method, "path", r.URL.Path, "status", rec.status, "took", time.Since(start))
}

func (h *handler) handleReport(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		writeError(w, http.StatusNotFound, "not found")
		return
	}
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	rep, err := h.page.Build(r.Context())
	if err != nil {
		log.Error("unable to build report", "error", err)
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, reportResponse{Report: rep, Message: rep.Message()})
}

func (h *handler) handleClear(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	if err := r.ParseForm(); err != nil {
		writeError(w, http.StatusBadRequest, "invalid form")
		return
	}

	res, err := h.page.Clear(page.ClearRequest{
		Key:       r.Form.Get("key"),
		Confirmed: confirmed(r.Form.Get("confirm")),
	})
	if err != nil {
		log.Error("unable to clear cache key", "key", r.Form.Get("key"), "error", err)
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if !res.Cleared {
		writeJSON(w, http.StatusBadRequest, res)
		return
	}

	log.Info(res.Message, "key", res.Key, "existed", res.Existed)
	writeJSON(w, http.StatusOK, res)
}

type reportResponse struct {
	page.Report
	Message string `json:"message"`
}

func confirmed(v string) bool {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "yes", "true", "1":
		return true
	}
	return false
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (s *statusRecorder) WriteHeader(status int) {
	s.status = status
	s.ResponseWriter.WriteHeader(status)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
