package anki

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/nao1215/ankikana/internal/model"
)

const (
	// DefaultURL is where AnkiConnect listens unless configured otherwise.
	DefaultURL = "http://127.0.0.1:8765"

	// APIVersion is the AnkiConnect API version this client speaks.
	APIVersion = 6

	// DefaultTimeout bounds a single request.
	DefaultTimeout = 30 * time.Second

	// maxResponseSize bounds a response body. notesInfo for a large deck
	// can be several megabytes.
	maxResponseSize = 256 * 1024 * 1024
)

// Client is an AnkiConnect client.
type Client struct {
	url        string
	apiKey     string
	httpClient *http.Client
	logger     *slog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithURL sets the AnkiConnect URL.
func WithURL(url string) Option {
	return func(c *Client) {
		if url != "" {
			c.url = url
		}
	}
}

// WithTimeout sets the per-request timeout.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		if timeout > 0 {
			c.httpClient.Timeout = timeout
		}
	}
}

// WithAPIKey sets the key sent with every request, for AnkiConnect
// installations that require one.
func WithAPIKey(key string) Option {
	return func(c *Client) {
		c.apiKey = key
	}
}

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// WithLogger sets the logger for request tracing.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// NewClient creates a Client. It does not contact AnkiConnect; call
// CheckConnection for that.
func NewClient(opts ...Option) *Client {
	c := &Client{
		url:        DefaultURL,
		httpClient: &http.Client{Timeout: DefaultTimeout},
		logger:     slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// URL returns the AnkiConnect URL.
func (c *Client) URL() string {
	return c.url
}

type request struct {
	Action  string `json:"action"`
	Version int    `json:"version"`
	Params  any    `json:"params,omitempty"`
	Key     string `json:"key,omitempty"`
}

// invoke performs one action and decodes its result into out (if non-nil).
func (c *Client) invoke(ctx context.Context, action string, params, out any) error {
	body, err := json.Marshal(request{
		Action:  action,
		Version: APIVersion,
		Params:  params,
		Key:     c.apiKey,
	})
	if err != nil {
		return fmt.Errorf("failed to encode %s request: %w", action, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to create %s request: %w", action, err)
	}
	req.Header.Set("Content-Type", "application/json")

	c.logger.Debug("invoking AnkiConnect", "action", action, "has_key", c.apiKey != "")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return classifyTransportError(action, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("AnkiConnect %s: unexpected status code: %d", action, resp.StatusCode)
	}

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return fmt.Errorf("failed to read %s response: %w", action, err)
	}

	var envelope map[string]json.RawMessage
	if err := json.Unmarshal(raw, &envelope); err != nil {
		return fmt.Errorf("%w: %s: %w", ErrMalformedResponse, action, err)
	}
	if len(envelope) != 2 {
		return fmt.Errorf("%w: %s: response has an unexpected number of fields", ErrMalformedResponse, action)
	}
	errField, ok := envelope["error"]
	if !ok {
		return fmt.Errorf("%w: %s: response is missing required error field", ErrMalformedResponse, action)
	}
	result, ok := envelope["result"]
	if !ok {
		return fmt.Errorf("%w: %s: response is missing required result field", ErrMalformedResponse, action)
	}

	var apiErr *string
	if err := json.Unmarshal(errField, &apiErr); err != nil {
		return fmt.Errorf("%w: %s: error field is not a string", ErrMalformedResponse, action)
	}
	if apiErr != nil {
		return &APIError{Action: action, Message: *apiErr}
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(result, out); err != nil {
		return fmt.Errorf("failed to decode %s result: %w", action, err)
	}
	return nil
}

func classifyTransportError(action string, err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: %s", ErrTimeout, action)
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return fmt.Errorf("%w: %s", ErrTimeout, action)
	}
	var opErr *net.OpError
	if errors.As(err, &opErr) {
		return fmt.Errorf("%w: %s: %w", ErrCannotConnect, action, err)
	}
	return fmt.Errorf("AnkiConnect %s: %w", action, err)
}

// Version returns the API version reported by AnkiConnect.
func (c *Client) Version(ctx context.Context) (int, error) {
	var v int
	if err := c.invoke(ctx, "version", nil, &v); err != nil {
		return 0, err
	}
	return v, nil
}

// CheckConnection verifies that AnkiConnect is reachable and new enough.
func (c *Client) CheckConnection(ctx context.Context) ConnectionStatus {
	v, err := c.Version(ctx)
	switch {
	case errors.Is(err, ErrTimeout):
		return ConnectionTimeout
	case errors.Is(err, ErrCannotConnect):
		return ConnectionRefused
	case err != nil:
		return ConnectionWrongService
	case v < APIVersion:
		return ConnectionWrongService
	default:
		return ConnectionOK
	}
}

// FindCards returns the IDs of the cards matching an Anki search query.
func (c *Client) FindCards(ctx context.Context, query string) ([]int64, error) {
	var ids []int64
	if err := c.invoke(ctx, "findCards", map[string]any{"query": query}, &ids); err != nil {
		return nil, err
	}
	return ids, nil
}

// CardsToNotes returns the distinct note IDs owning the given cards.
func (c *Client) CardsToNotes(ctx context.Context, cards []int64) ([]int64, error) {
	var ids []int64
	if err := c.invoke(ctx, "cardsToNotes", map[string]any{"cards": cards}, &ids); err != nil {
		return nil, err
	}
	return ids, nil
}

type noteInfo struct {
	NoteID    int64                  `json:"noteId"`
	ModelName string                 `json:"modelName"`
	Tags      []string               `json:"tags"`
	Fields    map[string]model.Field `json:"fields"`
}

// NotesInfo returns the notes with the given IDs. AnkiConnect returns an
// empty object for IDs that do not exist; those are dropped.
func (c *Client) NotesInfo(ctx context.Context, notes []int64) ([]model.Note, error) {
	var infos []noteInfo
	if err := c.invoke(ctx, "notesInfo", map[string]any{"notes": notes}, &infos); err != nil {
		return nil, err
	}

	out := make([]model.Note, 0, len(infos))
	for _, info := range infos {
		if info.NoteID == 0 {
			continue
		}
		out = append(out, model.Note{
			NoteID:    info.NoteID,
			ModelName: info.ModelName,
			Tags:      info.Tags,
			Fields:    info.Fields,
		})
	}
	return out, nil
}

// UpdateNoteFields overwrites the given fields of one note.
func (c *Client) UpdateNoteFields(ctx context.Context, noteID int64, fields map[string]string) error {
	params := map[string]any{
		"note": map[string]any{
			"id":     noteID,
			"fields": fields,
		},
	}
	return c.invoke(ctx, "updateNoteFields", params, nil)
}

// DeckQuery returns the search query selecting every card of deck.
func DeckQuery(deck string) string {
	return `"deck:` + deck + `"`
}

// DeckNotes returns every note in deck. A deck without cards yields no notes
// and no error.
func (c *Client) DeckNotes(ctx context.Context, deck string) ([]model.Note, error) {
	cards, err := c.FindCards(ctx, DeckQuery(deck))
	if err != nil {
		return nil, err
	}
	if len(cards) == 0 {
		c.logger.Info("no cards in deck", "deck", deck)
		return nil, nil
	}
	c.logger.Info("cards found", "deck", deck, "cards", len(cards))

	noteIDs, err := c.CardsToNotes(ctx, cards)
	if err != nil {
		return nil, err
	}
	return c.NotesInfo(ctx, noteIDs)
}
