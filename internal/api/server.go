package api

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/doppelbot/doppel/internal/bot"
	"github.com/doppelbot/doppel/internal/store"
)

// Replier generates a reply for an incoming message.
type Replier interface {
	Reply(ctx context.Context, contactID, contactName, message string) (bot.Reply, error)
}

// Directory exposes the stored collections for the read endpoints.
type Directory interface {
	CountByContact(ctx context.Context) (map[string]int, error)
	Contacts(ctx context.Context) ([]store.ContactInfo, error)
	ClearHistory(ctx context.Context, contactID string) error
}

type Server struct {
	router *chi.Mux
	port   int
	bot    Replier
	dir    Directory
	model  string
	logger *slog.Logger
}

func NewServer(port int, b Replier, dir Directory, model string, logger *slog.Logger) *Server {
	router := chi.NewRouter()
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)

	s := &Server{
		router: router,
		port:   port,
		bot:    b,
		dir:    dir,
		model:  model,
		logger: logger,
	}

	router.Post("/reply", s.reply)
	router.Get("/health", s.health)
	router.Get("/stats", s.stats)
	router.Get("/contacts", s.contacts)
	router.Delete("/history/{contactID}", s.clearHistory)

	return s
}

func (s *Server) Start() error {
	addr := fmt.Sprintf(":%d", s.port)
	slog.Info("API server starting", "addr", addr)
	return http.ListenAndServe(addr, s.router)
}

type replyRequest struct {
	ContactID   string `json:"contact_id"`
	ContactName string `json:"contact_name"`
	Message     string `json:"message"`
}

type replyResponse struct {
	Reply           string `json:"reply"`
	RagExamplesUsed int    `json:"rag_examples_used"`
	ResponseTimeMs  int64  `json:"response_time_ms"`
}

func (s *Server) reply(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	var req replyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON payload")
		return
	}
	if req.ContactID == "" || req.Message == "" {
		writeError(w, http.StatusBadRequest, "contact_id and message are required")
		return
	}

	s.logger.Info("incoming message",
		"contact_id", req.ContactID,
		"contact_name", req.ContactName,
		"len", len(req.Message),
	)

	reply, err := s.bot.Reply(r.Context(), req.ContactID, req.ContactName, req.Message)
	if err != nil {
		s.logger.Error("reply generation failed", "contact_id", req.ContactID, "error", err)
		writeError(w, http.StatusInternalServerError, fmt.Sprintf("LLM error: %v", err))
		return
	}

	elapsed := time.Since(start).Milliseconds()
	s.logger.Info("reply generated",
		"contact_id", req.ContactID,
		"examples_used", reply.ExamplesUsed,
		"elapsed_ms", elapsed,
	)

	writeJSON(w, http.StatusOK, replyResponse{
		Reply:           reply.Text,
		RagExamplesUsed: reply.ExamplesUsed,
		ResponseTimeMs:  elapsed,
	})
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":    "ok",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"model":     s.model,
	})
}

func (s *Server) stats(w http.ResponseWriter, r *http.Request) {
	counts, err := s.dir.CountByContact(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	total := 0
	for _, n := range counts {
		total += n
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"total_embeddings": total,
		"contacts":         counts,
		"collections":      len(counts),
	})
}

func (s *Server) contacts(w http.ResponseWriter, r *http.Request) {
	contacts, err := s.dir.Contacts(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if contacts == nil {
		contacts = []store.ContactInfo{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"contacts": contacts})
}

func (s *Server) clearHistory(w http.ResponseWriter, r *http.Request) {
	contactID := chi.URLParam(r, "contactID")
	if err := s.dir.ClearHistory(r.Context(), contactID); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{
		"status":     "cleared",
		"contact_id": contactID,
	})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, map[string]string{"detail": detail})
}
