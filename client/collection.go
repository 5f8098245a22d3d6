package client

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"voice-notes/models"

	"golang.org/x/exp/slog"
)

type SortOrder string

const (
	SortDesc SortOrder = "desc"
	SortAsc  SortOrder = "asc"
)

// ErrNotInView is returned by intents that need a note the collection has
// not loaded.
var ErrNotInView = errors.New("note is not in the current list")

type NotesAPI interface {
	ListNotes(ctx context.Context) ([]models.Note, error)
	CreateNote(ctx context.Context, in models.CreateNoteInput) (models.Note, error)
	UpdateNote(ctx context.Context, id string, patch models.NotePatch) (models.Note, error)
	DeleteNote(ctx context.Context, id string) error
}

// Collection holds the last list the server returned and derives the
// filtered, sorted projection shown to the user. The held list is only ever
// replaced wholesale by a successful fetch.
type Collection struct {
	api    NotesAPI
	notify Notifier
	log    *slog.Logger

	mu      sync.Mutex
	notes   []models.Note
	loaded  bool
	query   string
	order   SortOrder
	issued  uint64
	applied uint64

	now        func() time.Time
	formatTime func(time.Time) string
}

func NewCollection(api NotesAPI, notify Notifier, log *slog.Logger) *Collection {
	if notify == nil {
		notify = NopNotifier{}
	}
	return &Collection{
		api:        api,
		notify:     notify,
		log:        log.With(slog.String("component", "note_collection")),
		order:      SortDesc,
		now:        time.Now,
		formatTime: func(t time.Time) string { return t.Format("1/2/2006, 3:04:05 PM") },
	}
}

// Refresh fetches the full list. Each fetch takes a sequence number and a
// completion older than the list already applied is dropped, so overlapping
// refreshes cannot regress the view. A 401 or a missing token is not shown
// to the user.
func (c *Collection) Refresh(ctx context.Context) error {
	c.mu.Lock()
	c.issued++
	seq := c.issued
	c.mu.Unlock()

	notes, err := c.api.ListNotes(ctx)
	if err != nil {
		if !IsUnauthorized(err) && !errors.Is(err, ErrNotAuthenticated) {
			c.notify.Error(UserMessage(err, msgFetchNotes))
		}
		c.log.Debug("refresh failed", slog.Uint64("seq", seq), slog.Any("error", err))
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if seq < c.applied {
		c.log.Debug("discarding stale refresh", slog.Uint64("seq", seq), slog.Uint64("applied", c.applied))
		return nil
	}
	c.notes = notes
	c.applied = seq
	c.loaded = true
	return nil
}

func (c *Collection) Loaded() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.loaded
}

// Notes returns a copy of the authoritative list in server order.
func (c *Collection) Notes() []models.Note {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]models.Note(nil), c.notes...)
}

func (c *Collection) Find(id string) (models.Note, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, n := range c.notes {
		if n.ID.Hex() == id {
			return n, true
		}
	}
	return models.Note{}, false
}

func (c *Collection) SetQuery(q string) {
	c.mu.Lock()
	c.query = q
	c.mu.Unlock()
}

func (c *Collection) Query() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.query
}

func (c *Collection) SetOrder(o SortOrder) error {
	if o != SortAsc && o != SortDesc {
		return fmt.Errorf("unknown sort order %q", o)
	}
	c.mu.Lock()
	c.order = o
	c.mu.Unlock()
	return nil
}

func (c *Collection) Order() SortOrder {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.order
}

func (c *Collection) ToggleOrder() SortOrder {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.order == SortDesc {
		c.order = SortAsc
	} else {
		c.order = SortDesc
	}
	return c.order
}

// Visible filters the full list by the current query, then sorts it.
func (c *Collection) Visible() []models.Note {
	c.mu.Lock()
	notes, query, order := c.notes, c.query, c.order
	c.mu.Unlock()

	out := Filter(notes, query)
	SortNotes(out, order)
	return out
}

// Filter keeps the notes whose title or content contains q, ignoring case.
// It always returns a fresh slice.
func Filter(notes []models.Note, q string) []models.Note {
	out := make([]models.Note, 0, len(notes))
	needle := strings.ToLower(q)
	for _, n := range notes {
		if needle == "" ||
			strings.Contains(strings.ToLower(n.Title), needle) ||
			strings.Contains(strings.ToLower(n.Content), needle) {
			out = append(out, n)
		}
	}
	return out
}

// SortNotes orders by creation time, breaking ties by id so that flipping
// the order reverses the sequence exactly.
func SortNotes(notes []models.Note, order SortOrder) {
	sort.SliceStable(notes, func(i, j int) bool {
		a, b := notes[i], notes[j]
		less := a.CreatedAt.Before(b.CreatedAt) ||
			(a.CreatedAt.Equal(b.CreatedAt) && a.ID.Hex() < b.ID.Hex())
		if order == SortAsc {
			return less
		}
		greater := a.CreatedAt.After(b.CreatedAt) ||
			(a.CreatedAt.Equal(b.CreatedAt) && a.ID.Hex() > b.ID.Hex())
		return greater
	})
}

// MatchSummary describes the search result, or is empty without a query.
func (c *Collection) MatchSummary() string {
	q := c.Query()
	if q == "" {
		return ""
	}
	n := len(c.Visible())
	noun := "notes"
	if n == 1 {
		noun = "note"
	}
	return fmt.Sprintf("Found %d %s matching %s", n, noun, q)
}

func (c *Collection) EmptyMessage() string {
	if c.Query() != "" {
		return "No notes found matching your search"
	}
	return "No notes yet. Create your first note!"
}

// CanCreate reports whether the manual create action is enabled.
func CanCreate(title, content string) bool {
	return title != "" && content != ""
}

// mutate runs call, reports its outcome, and then refetches the whole list
// whatever happened.
func (c *Collection) mutate(ctx context.Context, success, fallback string, call func(context.Context) error) error {
	err := call(ctx)
	if err != nil {
		c.notify.Error(UserMessage(err, fallback))
	} else {
		c.notify.Success(success)
	}
	_ = c.Refresh(ctx)
	return err
}

// Create is a no-op while title or content is empty.
func (c *Collection) Create(ctx context.Context, title, content string) error {
	if !CanCreate(title, content) {
		return nil
	}
	return c.mutate(ctx, "Note created successfully", msgCreateNote, func(ctx context.Context) error {
		_, err := c.api.CreateNote(ctx, models.CreateNoteInput{Title: title, Content: content, Type: models.NoteKindText})
		return err
	})
}

// CreateFromTranscript stores a finished capture as an audio note.
func (c *Collection) CreateFromTranscript(ctx context.Context, transcript string) error {
	title := "Audio Note " + c.formatTime(c.now())
	return c.mutate(ctx, "Audio note created successfully", msgCreateAudio, func(ctx context.Context) error {
		_, err := c.api.CreateNote(ctx, models.CreateNoteInput{Title: title, Content: transcript, Type: models.NoteKindAudio})
		return err
	})
}

func (c *Collection) Update(ctx context.Context, id string, patch models.NotePatch) error {
	return c.mutate(ctx, "Note updated successfully", msgUpdateNote, func(ctx context.Context) error {
		_, err := c.api.UpdateNote(ctx, id, patch)
		return err
	})
}

// ToggleFavorite flips the favorite flag of a loaded note.
func (c *Collection) ToggleFavorite(ctx context.Context, id string) error {
	note, ok := c.Find(id)
	if !ok {
		c.notify.Error("Note not found")
		return ErrNotInView
	}
	favorite := !note.Favorite
	return c.Update(ctx, id, models.NotePatch{Favorite: &favorite})
}

func (c *Collection) AttachImage(ctx context.Context, id, dataURL string) error {
	if !isImageDataURL(dataURL) {
		c.notify.Error("Please upload an image file")
		return ErrNotImage
	}
	return c.Update(ctx, id, models.NotePatch{ImageURL: &dataURL})
}

func (c *Collection) Delete(ctx context.Context, id string) error {
	return c.mutate(ctx, "Note deleted successfully", msgDeleteNote, func(ctx context.Context) error {
		return c.api.DeleteNote(ctx, id)
	})
}
