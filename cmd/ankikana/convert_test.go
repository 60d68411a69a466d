package main

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/nao1215/ankikana/internal/anki"
	"github.com/nao1215/ankikana/internal/config"
)

// fakeAnkiConnect serves a single deck and records note updates.
type fakeAnkiConnect struct {
	mu      sync.Mutex
	actions []string
	updates []json.RawMessage
	notes   string
}

func newFakeAnkiConnect(t *testing.T, notes string) (*fakeAnkiConnect, *httptest.Server) {
	t.Helper()

	f := &fakeAnkiConnect{notes: notes}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Action string          `json:"action"`
			Params json.RawMessage `json:"params"`
		}
		body, _ := io.ReadAll(r.Body)
		if err := json.Unmarshal(body, &req); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		f.mu.Lock()
		f.actions = append(f.actions, req.Action)
		if req.Action == "updateNoteFields" {
			f.updates = append(f.updates, req.Params)
		}
		f.mu.Unlock()

		var result string
		switch req.Action {
		case "version":
			result = "6"
		case "findCards":
			result = "[1, 2, 3, 4]"
		case "cardsToNotes":
			result = "[10, 11, 12, 13]"
		case "notesInfo":
			result = f.notes
		case "updateNoteFields":
			result = "null"
		default:
			_, _ = w.Write([]byte(`{"result": null, "error": "unsupported action"}`))
			return
		}
		_, _ = w.Write([]byte(`{"result": ` + result + `, "error": null}`))
	}))
	t.Cleanup(srv.Close)
	return f, srv
}

func (f *fakeAnkiConnect) recorded() ([]string, []json.RawMessage) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.actions...), append([]json.RawMessage(nil), f.updates...)
}

const deckNotes = `[
  {"noteId": 10, "modelName": "Basic", "tags": [], "fields": {
    "Romaji": {"value": "sakana", "order": 0}, "Kanji": {"value": "魚", "order": 1}}},
  {"noteId": 11, "modelName": "Basic", "tags": [], "fields": {
    "Romaji": {"value": "terebi", "order": 0}, "Kanji": {"value": "テレビ", "order": 1}}},
  {"noteId": 12, "modelName": "Basic", "tags": [], "fields": {
    "Romaji": {"value": "", "order": 0}, "Kanji": {"value": "猫", "order": 1}}},
  {"noteId": 13, "modelName": "Basic", "tags": [], "fields": {
    "Romaji": {"value": "nitchuq", "order": 0}, "Kanji": {"value": "日中", "order": 1}}}
]`

// convertArgs returns the flags every convert test needs: an isolated
// configuration file, dictionary and cache.
func convertArgs(t *testing.T, url string) []string {
	t.Helper()

	dir := t.TempDir()
	configPath := filepath.Join(dir, "ankikana.yaml")
	if err := os.WriteFile(configPath, []byte("defaults: {}\n"), 0600); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}
	return []string{
		"--url", url,
		"--config", configPath,
		"--dict", writeDict(t, dir, testDict),
		"--db-dir", filepath.Join(dir, "db"),
	}
}

func TestConvertCmd_SoftEdit(t *testing.T) {
	t.Parallel()

	f, srv := newFakeAnkiConnect(t, deckNotes)
	args := append([]string{"convert", "--soft-edit", "-w", "Kanji", "Vocab", "Romaji"}, convertArgs(t, srv.URL)...)

	stdout, stderr, err := executeCommand(t, "", args...)
	if err != nil {
		t.Fatalf("unexpected error: %v\n%s", err, stderr)
	}

	for _, want := range []string{
		"[+] 10 sakana -> さかな (hint '魚')",
		"[+] 11 terebi -> テレビ (hint 'テレビ')",
		"[x] 12 error:",
		"[!] 13 nitchuq -> にっちゅう nitchuq (hint '日中')",
		"candidate: 日中 = ひなか",
		"Soft edit: no note was modified.",
	} {
		if !strings.Contains(stdout, want) {
			t.Errorf("expected output to contain %q\n%s", want, stdout)
		}
	}
	if !strings.Contains(stderr, "4 notes in deck 'Vocab'") {
		t.Errorf("expected the note count on stderr, got %q", stderr)
	}

	_, updates := f.recorded()
	if len(updates) != 0 {
		t.Errorf("soft edit must not update notes, got %d updates", len(updates))
	}
}

func TestConvertCmd_Edit(t *testing.T) {
	t.Parallel()

	f, srv := newFakeAnkiConnect(t, deckNotes)
	args := append([]string{"convert", "--yes", "--jobs", "3", "--written-field", "Kanji", "Vocab", "Romaji"}, convertArgs(t, srv.URL)...)

	stdout, stderr, err := executeCommand(t, "", args...)
	if err != nil {
		t.Fatalf("unexpected error: %v\n%s", err, stderr)
	}
	if strings.Contains(stdout, "backup") {
		t.Error("--yes must skip the backup question")
	}

	_, updates := f.recorded()
	if len(updates) != 3 {
		t.Fatalf("expected 3 updates, got %d", len(updates))
	}

	type update struct {
		Note struct {
			ID     int64             `json:"id"`
			Fields map[string]string `json:"fields"`
		} `json:"note"`
	}
	want := map[int64]string{10: "さかな", 11: "テレビ", 13: "にっちゅう nitchuq"}
	for _, raw := range updates {
		var u update
		if err := json.Unmarshal(raw, &u); err != nil {
			t.Fatalf("invalid update params: %v", err)
		}
		if got := u.Note.Fields["Romaji"]; got != want[u.Note.ID] {
			t.Errorf("note %d: Romaji = %q, want %q", u.Note.ID, got, want[u.Note.ID])
		}
		if _, ok := u.Note.Fields["Kanji"]; ok {
			t.Errorf("note %d: the written field must not be updated", u.Note.ID)
		}
	}
	if !strings.Contains(stdout, "TOTAL:     4 notes, 3 saved") {
		t.Errorf("unexpected summary:\n%s", stdout)
	}
}

func TestConvertCmd_BackupPrompt(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		answer  string
		updates int
	}{
		{name: "no", answer: "no\n", updates: 0},
		{name: "empty", answer: "", updates: 0},
		{name: "yes", answer: "yes\n", updates: 3},
		{name: "Y", answer: "Y\n", updates: 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			f, srv := newFakeAnkiConnect(t, deckNotes)
			args := append([]string{"convert", "Vocab", "Romaji"}, convertArgs(t, srv.URL)...)

			stdout, _, err := executeCommand(t, tt.answer, args...)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !strings.Contains(stdout, "(yes or no)") {
				t.Errorf("expected the backup question, got %q", stdout)
			}

			actions, updates := f.recorded()
			if len(updates) != tt.updates {
				t.Errorf("expected %d updates, got %d", tt.updates, len(updates))
			}
			if tt.updates == 0 {
				if !strings.Contains(stdout, backupHint) {
					t.Errorf("expected the backup hint, got %q", stdout)
				}
				if len(actions) != 0 {
					t.Errorf("declining must not contact AnkiConnect, got %v", actions)
				}
			}
		})
	}
}

func TestConvertCmd_Reports(t *testing.T) {
	t.Parallel()

	t.Run("json to file", func(t *testing.T) {
		t.Parallel()

		_, srv := newFakeAnkiConnect(t, deckNotes)
		output := filepath.Join(t.TempDir(), "out", "report.json")
		args := append([]string{"convert", "-s", "-j", "-o", output, "-w", "Kanji", "Vocab", "Romaji"},
			convertArgs(t, srv.URL)...)

		stdout, _, err := executeCommand(t, "", args...)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if stdout != "" {
			t.Errorf("expected nothing on stdout, got %q", stdout)
		}

		data, err := os.ReadFile(output)
		if err != nil {
			t.Fatalf("failed to read report: %v", err)
		}
		var doc struct {
			Summary struct {
				Total     int `json:"total"`
				Converted int `json:"converted"`
				Warnings  int `json:"warnings"`
				Errors    int `json:"errors"`
			} `json:"summary"`
		}
		if err := json.Unmarshal(data, &doc); err != nil {
			t.Fatalf("invalid JSON report: %v", err)
		}
		if doc.Summary.Total != 4 || doc.Summary.Converted != 2 || doc.Summary.Warnings != 1 || doc.Summary.Errors != 1 {
			t.Errorf("unexpected summary: %+v", doc.Summary)
		}
	})

	t.Run("markdown only warnings", func(t *testing.T) {
		t.Parallel()

		_, srv := newFakeAnkiConnect(t, deckNotes)
		args := append([]string{"convert", "-s", "-m", "--only-warnings", "-w", "Kanji", "Vocab", "Romaji"},
			convertArgs(t, srv.URL)...)

		stdout, _, err := executeCommand(t, "", args...)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.Contains(stdout, "# ankikana Report") {
			t.Errorf("expected a Markdown report:\n%s", stdout)
		}
		if strings.Contains(stdout, "sakana") {
			t.Errorf("clean notes should be hidden:\n%s", stdout)
		}
	})
}

func TestConvertCmd_Errors(t *testing.T) {
	t.Parallel()

	t.Run("conflicting formats", func(t *testing.T) {
		t.Parallel()

		_, srv := newFakeAnkiConnect(t, deckNotes)
		args := append([]string{"convert", "-s", "-j", "-m", "Vocab", "Romaji"}, convertArgs(t, srv.URL)...)
		_, _, err := executeCommand(t, "", args...)
		if !errors.Is(err, config.ErrConflictingReportFormats) {
			t.Errorf("expected ErrConflictingReportFormats, got %v", err)
		}
	})

	t.Run("no workers", func(t *testing.T) {
		t.Parallel()

		_, srv := newFakeAnkiConnect(t, deckNotes)
		args := append([]string{"convert", "-s", "--jobs", "0", "Vocab", "Romaji"}, convertArgs(t, srv.URL)...)
		_, _, err := executeCommand(t, "", args...)
		if !errors.Is(err, config.ErrInvalidJobs) {
			t.Errorf("expected ErrInvalidJobs, got %v", err)
		}
	})

	t.Run("missing romaji field", func(t *testing.T) {
		t.Parallel()

		_, srv := newFakeAnkiConnect(t, deckNotes)
		args := append([]string{"convert", "-s", "Vocab"}, convertArgs(t, srv.URL)...)
		_, _, err := executeCommand(t, "", args...)
		if !errors.Is(err, config.ErrNoRomajiField) {
			t.Errorf("expected ErrNoRomajiField, got %v", err)
		}
	})

	t.Run("AnkiConnect not running", func(t *testing.T) {
		t.Parallel()

		srv := httptest.NewServer(http.NotFoundHandler())
		url := srv.URL
		srv.Close()

		args := append([]string{"convert", "-s", "Vocab", "Romaji"}, convertArgs(t, url)...)
		_, _, err := executeCommand(t, "", args...)
		if !errors.Is(err, anki.ErrCannotConnect) {
			t.Errorf("expected ErrCannotConnect, got %v", err)
		}
	})

	t.Run("empty deck", func(t *testing.T) {
		t.Parallel()

		_, srv := newFakeAnkiConnect(t, "[]")
		args := append([]string{"convert", "-s", "Vocab", "Romaji"}, convertArgs(t, srv.URL)...)
		_, stderr, err := executeCommand(t, "", args...)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.Contains(stderr, "0 notes") && !strings.Contains(stderr, "No cards in deck 'Vocab'") {
			t.Errorf("unexpected stderr: %q", stderr)
		}
	})
}

func TestConvertCmd_DeckConfigFromFile(t *testing.T) {
	t.Parallel()

	f, srv := newFakeAnkiConnect(t, deckNotes)
	args := convertArgs(t, srv.URL)

	configPath := filepath.Join(t.TempDir(), ".ankikana")
	content := `decks:
  Vocab:
    romajiField: Romaji
    writtenField: Kanji
    safetyNet: false
`
	if err := os.WriteFile(configPath, []byte(content), 0600); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}
	// A later --config wins over the one in convertArgs.
	args = append(append([]string{"convert", "--yes", "Vocab"}, args...), "--config", configPath)

	if _, stderr, err := executeCommand(t, "", args...); err != nil {
		t.Fatalf("unexpected error: %v\n%s", err, stderr)
	}

	_, updates := f.recorded()
	var sawNote13 bool
	for _, raw := range updates {
		if strings.Contains(string(raw), `"id":13`) {
			sawNote13 = true
			if strings.Contains(string(raw), "nitchuq") {
				t.Errorf("safety net should be off for this deck: %s", raw)
			}
		}
	}
	if !sawNote13 {
		t.Error("expected note 13 to be written using the deck's written field")
	}
}
