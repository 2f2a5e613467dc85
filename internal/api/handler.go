// Package api exposes the mood conversation over HTTP for browser clients.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"moodmate/internal/dialog"
	"moodmate/internal/insights"
	"moodmate/internal/speech"
)

const (
	surfaceName    = "api"
	maxVoiceUpload = 10 << 20
)

// TurnHandler is the part of dialog.Handler the API drives.
type TurnHandler interface {
	Handle(ctx context.Context, req dialog.Request, out dialog.Output) (dialog.Turn, error)
	Greeting(name string, out dialog.Output)
	Quote() string
	Insights() insights.Counts
}

// Handler holds dependencies for HTTP handlers.
type Handler struct {
	turns       TurnHandler
	recognizer  speech.Recognizer
	origins     []string
	defaultName string
	logger      *zap.Logger
}

func NewHandler(turns TurnHandler, rec speech.Recognizer, origins []string, defaultName string, logger *zap.Logger) *Handler {
	if rec == nil {
		rec = speech.Disabled{}
	}
	return &Handler{turns: turns, recognizer: rec, origins: origins, defaultName: defaultName, logger: logger}
}

// Router builds the chi router with all routes.
func (h *Handler) Router() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: h.origins,
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
	}))

	r.Get("/healthz", h.healthCheck)
	r.Route("/api", func(r chi.Router) {
		r.Post("/messages", h.postMessage)
		r.Post("/voice", h.postVoice)
		r.Get("/insights", h.getInsights)
		r.Get("/quote", h.getQuote)
		r.Get("/greeting", h.getGreeting)
	})
	return r
}

type messageRequest struct {
	Text string `json:"text"`
}

// turnResponse carries the rendered blocks and the lines the browser should
// speak.
type turnResponse struct {
	Turn  dialog.Turn `json:"turn"`
	Heard string      `json:"heard,omitempty"`
	dialog.Transcript
}

type insightsResponse struct {
	insights.Counts
	Total int `json:"total"`
}

func (h *Handler) healthCheck(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) postMessage(w http.ResponseWriter, r *http.Request) {
	var req messageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	h.handleTurn(w, r, req.Text, "")
}

func (h *Handler) postVoice(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxVoiceUpload)
	file, header, err := r.FormFile("audio")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "multipart field \"audio\" is required"})
		return
	}
	defer file.Close()

	text, err := h.recognizer.Transcribe(r.Context(), header.Filename, file)
	switch {
	case errors.Is(err, speech.ErrNotConfigured):
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"error": err.Error()})
		return
	case err != nil:
		if !errors.Is(err, speech.ErrNotUnderstood) {
			h.logger.Warn("speech recognition failed", zap.Error(err))
		}
		tr := dialog.Transcript{}
		tr.Warning(speech.NotUnderstood)
		writeJSON(w, http.StatusOK, turnResponse{Transcript: tr})
		return
	}
	h.handleTurn(w, r, text, text)
}

func (h *Handler) handleTurn(w http.ResponseWriter, r *http.Request, text, heard string) {
	if strings.TrimSpace(text) == "" {
		// Blank input is ignored like an empty line at the prompt.
		writeJSON(w, http.StatusOK, turnResponse{Heard: heard})
		return
	}
	resp := turnResponse{Heard: heard}
	turn, err := h.turns.Handle(r.Context(), dialog.Request{Text: text, Surface: surfaceName}, &resp.Transcript)
	if err != nil {
		h.logger.Error("turn failed", zap.String("request_id", middleware.GetReqID(r.Context())), zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to process message"})
		return
	}
	resp.Turn = turn
	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) getInsights(w http.ResponseWriter, r *http.Request) {
	c := h.turns.Insights()
	writeJSON(w, http.StatusOK, insightsResponse{Counts: c, Total: c.Total()})
}

func (h *Handler) getQuote(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"quote": h.turns.Quote()})
}

func (h *Handler) getGreeting(w http.ResponseWriter, r *http.Request) {
	name := strings.TrimSpace(r.URL.Query().Get("name"))
	if name == "" {
		name = h.defaultName
	}
	tr := dialog.Transcript{}
	h.turns.Greeting(name, &tr)
	writeJSON(w, http.StatusOK, tr)
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
