// Package server exposes the memory coordinator over HTTP.
//
// Two JSON operations (submit-note, ask) plus a websocket chat endpoint.
// The chat keeps its conversation history per connection and passes it
// explicitly into each query; the coordinator itself stays stateless.
package server

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gorilla/websocket"

	"github.com/pfranklin/memvault/memory"
)

// Server routes HTTP requests to a memory.Coordinator.
type Server struct {
	coord    *memory.Coordinator
	logger   *slog.Logger
	upgrader websocket.Upgrader
	mux      *http.ServeMux
}

// New creates a Server over coord. A nil logger uses slog.Default.
func New(coord *memory.Coordinator, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Server{
		coord:  coord,
		logger: logger.With("component", "server"),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
		mux: http.NewServeMux(),
	}
	s.mux.HandleFunc("POST /notes", s.handleStoreNote)
	s.mux.HandleFunc("POST /query", s.handleQuery)
	s.mux.HandleFunc("GET /health", s.handleHealth)
	s.mux.HandleFunc("GET /ws", s.handleChat)
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

type storeNoteRequest struct {
	Text string `json:"text"`
}

type storeNoteResponse struct {
	ID      string `json:"id"`
	Warning string `json:"warning,omitempty"`
}

func (s *Server) handleStoreNote(w http.ResponseWriter, r *http.Request) {
	var req storeNoteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	// Empty input is rejected here at the boundary; nothing reaches the
	// coordinator.
	if strings.TrimSpace(req.Text) == "" {
		s.writeError(w, http.StatusBadRequest, "text must not be empty")
		return
	}

	id, err := s.coord.StoreNote(r.Context(), req.Text)
	if err != nil {
		var partial *memory.PartialStoreError
		switch {
		case errors.As(err, &partial):
			// Content is durable but unsearchable; report the gap
			// instead of pretending full success.
			s.logger.Warn("note stored but not indexed", "id", partial.NoteID, "cause", partial.Cause)
			s.writeJSON(w, http.StatusAccepted, storeNoteResponse{
				ID:      partial.NoteID,
				Warning: "note stored but not indexed; run reconcile",
			})
		case errors.Is(err, memory.ErrInvalidInput):
			s.writeError(w, http.StatusBadRequest, err.Error())
		default:
			s.logger.Error("store note failed", "error", err)
			s.writeError(w, http.StatusInternalServerError, "failed to store note")
		}
		return
	}

	s.writeJSON(w, http.StatusCreated, storeNoteResponse{ID: id})
}

type queryRequest struct {
	Query string `json:"query"`
	TopK  int    `json:"top_k"`
}

func (s *Server) handleQuery(w http.ResponseWriter, r *http.Request) {
	var req queryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if strings.TrimSpace(req.Query) == "" {
		s.writeError(w, http.StatusBadRequest, "query must not be empty")
		return
	}

	var opts []memory.QueryOption
	if req.TopK != 0 {
		opts = append(opts, memory.WithTopK(req.TopK))
	}

	res, err := s.coord.QueryNotes(r.Context(), req.Query, opts...)
	if err != nil {
		switch {
		case errors.Is(err, memory.ErrInvalidInput):
			s.writeError(w, http.StatusBadRequest, err.Error())
		case errors.Is(err, memory.ErrEmbeddingService), errors.Is(err, memory.ErrCompletionService):
			s.logger.Error("model gateway failed", "error", err)
			s.writeError(w, http.StatusBadGateway, "upstream model service failed")
		default:
			s.logger.Error("query failed", "error", err)
			s.writeError(w, http.StatusInternalServerError, "failed to answer query")
		}
		return
	}

	s.writeJSON(w, http.StatusOK, res)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Error("websocket upgrade failed", "error", err)
		return
	}
	defer conn.Close()

	// History lives with the connection and is handed to every query;
	// nothing about the conversation survives the socket.
	var history []memory.Turn

	for {
		var msg chatMessage
		if err := conn.ReadJSON(&msg); err != nil {
			return
		}
		if strings.TrimSpace(msg.Content) == "" {
			if err := conn.WriteJSON(chatMessage{Role: "ai", Content: "Ask me something about your notes."}); err != nil {
				return
			}
			continue
		}

		res, err := s.coord.QueryNotes(r.Context(), msg.Content, memory.WithHistory(history))
		if err != nil {
			s.logger.Error("chat query failed", "error", err)
			if err := conn.WriteJSON(chatMessage{Role: "ai", Content: "Something went wrong answering that."}); err != nil {
				return
			}
			continue
		}

		history = append(history,
			memory.Turn{Role: "user", Content: msg.Content},
			memory.Turn{Role: "ai", Content: res.Answer},
		)
		if err := conn.WriteJSON(chatMessage{Role: "ai", Content: res.Answer}); err != nil {
			return
		}
	}
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("write response failed", "error", err)
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, msg string) {
	s.writeJSON(w, status, map[string]string{"error": msg})
}
