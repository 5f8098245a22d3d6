package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"voice-notes/models"
)

const (
	msgFetchNotes  = "Failed to fetch notes"
	msgFetchNote   = "Failed to fetch note"
	msgCreateNote  = "Failed to create note"
	msgCreateAudio = "Failed to create audio note"
	msgUpdateNote  = "Failed to update note"
	msgDeleteNote  = "Failed to delete note"
	msgLogin       = "Login failed"
)

// NotesClient issues each request exactly once; there is no retry, backoff
// or queueing.
type NotesClient struct {
	client    *http.Client
	baseURL   string
	session   *Session
	userAgent string
}

func NewNotesClient(baseURL string, session *Session, httpClient *http.Client) *NotesClient {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}
	return &NotesClient{
		client:    httpClient,
		baseURL:   strings.TrimRight(baseURL, "/"),
		session:   session,
		userAgent: "voice-notes-cli/1.0",
	}
}

func (h *NotesClient) Session() *Session { return h.session }

// Login exchanges credentials for a token and stores it in the session.
func (h *NotesClient) Login(ctx context.Context, email, password string) (string, error) {
	var out struct {
		Token string `json:"token"`
	}
	err := h.do(ctx, http.MethodPost, "/auth/login", false, models.Credentials{Email: email, Password: password}, &out, msgLogin)
	if err != nil {
		return "", err
	}
	if err := h.session.Acquire(out.Token); err != nil {
		return "", fmt.Errorf("save session: %w", err)
	}
	return out.Token, nil
}

func (h *NotesClient) ListNotes(ctx context.Context) ([]models.Note, error) {
	var notes []models.Note
	if err := h.do(ctx, http.MethodGet, "/notes", true, nil, &notes, msgFetchNotes); err != nil {
		return nil, err
	}
	if notes == nil {
		notes = []models.Note{}
	}
	return notes, nil
}

func (h *NotesClient) GetNote(ctx context.Context, id string) (models.Note, error) {
	var note models.Note
	err := h.do(ctx, http.MethodGet, "/notes/"+url.PathEscape(id), true, nil, &note, msgFetchNote)
	return note, err
}

func (h *NotesClient) CreateNote(ctx context.Context, in models.CreateNoteInput) (models.Note, error) {
	fallback := msgCreateNote
	if in.Type == models.NoteKindAudio {
		fallback = msgCreateAudio
	}
	var note models.Note
	err := h.do(ctx, http.MethodPost, "/notes", true, in, &note, fallback)
	return note, err
}

func (h *NotesClient) UpdateNote(ctx context.Context, id string, patch models.NotePatch) (models.Note, error) {
	var note models.Note
	err := h.do(ctx, http.MethodPut, "/notes/"+url.PathEscape(id), true, patch, &note, msgUpdateNote)
	return note, err
}

func (h *NotesClient) DeleteNote(ctx context.Context, id string) error {
	return h.do(ctx, http.MethodDelete, "/notes/"+url.PathEscape(id), true, nil, nil, msgDeleteNote)
}

func (h *NotesClient) do(ctx context.Context, method, path string, authed bool, body, out interface{}, fallback string) error {
	token := h.session.Token()
	if authed && token == "" {
		return ErrNotAuthenticated
	}

	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, h.baseURL+path, reqBody)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", h.userAgent)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if authed {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := h.client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrTransient, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{Status: resp.StatusCode, Message: errorMessage(resp.Body, fallback)}
		if authed && resp.StatusCode == http.StatusUnauthorized {
			// The token is expired or was never valid; drop it.
			_ = h.session.Clear()
		}
		return apiErr
	}

	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func errorMessage(r io.Reader, fallback string) string {
	var body struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	data, err := io.ReadAll(io.LimitReader(r, 64*1024))
	if err != nil || json.Unmarshal(data, &body) != nil {
		return fallback
	}
	switch {
	case body.Error != "":
		return body.Error
	case body.Message != "":
		return body.Message
	}
	return fallback
}
