package server_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/websocket"

	"github.com/pfranklin/memvault/memory"
	"github.com/pfranklin/memvault/memory/embedder/mock"
	"github.com/pfranklin/memvault/memory/index/chromem"
	"github.com/pfranklin/memvault/note"
	"github.com/pfranklin/memvault/server"
)

// mapArchive is a minimal in-memory memory.Archive.
type mapArchive struct {
	notes map[string]note.Note
}

func (a *mapArchive) Insert(ctx context.Context, n note.Note) error {
	a.notes[n.ID] = n
	return nil
}

func (a *mapArchive) FetchByIDs(ctx context.Context, ids []string) ([]note.Note, error) {
	var out []note.Note
	for _, id := range ids {
		if n, ok := a.notes[id]; ok {
			out = append(out, n)
		}
	}
	return out, nil
}

func (a *mapArchive) List(ctx context.Context) ([]note.Note, error) {
	out := make([]note.Note, 0, len(a.notes))
	for _, n := range a.notes {
		out = append(out, n)
	}
	return out, nil
}

type echoCompleter struct{}

func (echoCompleter) Complete(ctx context.Context, prompt string) (string, error) {
	return "canned answer", nil
}

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	index, err := chromem.New()
	if err != nil {
		t.Fatalf("chromem.New: %v", err)
	}
	coord := memory.NewCoordinator(
		&mapArchive{notes: make(map[string]note.Note)},
		index,
		mock.New(32),
		echoCompleter{},
	)
	srv := httptest.NewServer(server.New(coord, nil))
	t.Cleanup(srv.Close)
	return srv
}

func postJSON(t *testing.T, url string, body any) *http.Response {
	t.Helper()
	data, _ := json.Marshal(body)
	resp, err := http.Post(url, "application/json", bytes.NewReader(data))
	if err != nil {
		t.Fatalf("POST %s: %v", url, err)
	}
	return resp
}

func TestStoreNote(t *testing.T) {
	srv := newTestServer(t)

	resp := postJSON(t, srv.URL+"/notes", map[string]string{"text": "Finished quarterly report"})
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("status = %d, want 201", resp.StatusCode)
	}
	var out struct {
		ID string `json:"id"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if out.ID == "" {
		t.Error("response missing note id")
	}
}

func TestStoreNote_RejectsEmptyText(t *testing.T) {
	srv := newTestServer(t)

	for _, text := range []string{"", "   "} {
		resp := postJSON(t, srv.URL+"/notes", map[string]string{"text": text})
		resp.Body.Close()
		if resp.StatusCode != http.StatusBadRequest {
			t.Errorf("text %q: status = %d, want 400", text, resp.StatusCode)
		}
	}
}

func TestQuery_EmptyMemory(t *testing.T) {
	srv := newTestServer(t)

	resp := postJSON(t, srv.URL+"/query", map[string]any{"query": "anything at all"})
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	var out memory.Result
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if out.Answer != memory.NoRelevantNotes {
		t.Errorf("answer = %q, want the fixed no-results response", out.Answer)
	}
}

func TestQuery_RoundTrip(t *testing.T) {
	srv := newTestServer(t)

	resp := postJSON(t, srv.URL+"/notes", map[string]string{"text": "Started budget review"})
	resp.Body.Close()

	resp = postJSON(t, srv.URL+"/query", map[string]any{"query": "Started budget review", "top_k": 2})
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	var out memory.Result
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if out.Answer != "canned answer" {
		t.Errorf("answer = %q", out.Answer)
	}
	if len(out.Sources) == 0 || out.Sources[0].Content != "Started budget review" {
		t.Errorf("sources = %+v, want the stored note", out.Sources)
	}
}

func TestQuery_RejectsBadTopK(t *testing.T) {
	srv := newTestServer(t)

	resp := postJSON(t, srv.URL+"/query", map[string]any{"query": "x", "top_k": -1})
	resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", resp.StatusCode)
	}
}

func TestHealth(t *testing.T) {
	srv := newTestServer(t)

	resp, err := http.Get(srv.URL + "/health")
	if err != nil {
		t.Fatalf("GET /health: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("status = %d, want 200", resp.StatusCode)
	}
}

func TestChat_AnswersOverWebsocket(t *testing.T) {
	srv := newTestServer(t)

	resp := postJSON(t, srv.URL+"/notes", map[string]string{"text": "Met the finance team"})
	resp.Body.Close()

	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("dial websocket: %v", err)
	}
	defer conn.Close()

	if err := conn.WriteJSON(map[string]string{"role": "user", "content": "Met the finance team"}); err != nil {
		t.Fatalf("write: %v", err)
	}

	var reply struct {
		Role    string `json:"role"`
		Content string `json:"content"`
	}
	if err := conn.ReadJSON(&reply); err != nil {
		t.Fatalf("read: %v", err)
	}
	if reply.Role != "ai" || reply.Content != "canned answer" {
		t.Errorf("reply = %+v", reply)
	}
}
