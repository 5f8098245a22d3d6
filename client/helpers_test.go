package client

import (
	"context"
	"sync"
	"time"

	"voice-notes/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type recordingNotifier struct {
	mu        sync.Mutex
	successes []string
	errors    []string
	infos     []string
}

func (n *recordingNotifier) Success(msg string) {
	n.mu.Lock()
	n.successes = append(n.successes, msg)
	n.mu.Unlock()
}

func (n *recordingNotifier) Error(msg string) {
	n.mu.Lock()
	n.errors = append(n.errors, msg)
	n.mu.Unlock()
}

func (n *recordingNotifier) Info(msg string) {
	n.mu.Lock()
	n.infos = append(n.infos, msg)
	n.mu.Unlock()
}

func (n *recordingNotifier) Errors() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]string(nil), n.errors...)
}

// fakeAPI is an in-memory NotesAPI that records every call.
type fakeAPI struct {
	mu        sync.Mutex
	notes     []models.Note
	listCalls int
	listErr   error
	writeErr  error
	created   []models.CreateNoteInput
	patches   []models.NotePatch
	deleted   []string
	clock     time.Time
}

func newFakeAPI(notes ...models.Note) *fakeAPI {
	return &fakeAPI{notes: notes, clock: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)}
}

func (f *fakeAPI) ListNotes(context.Context) ([]models.Note, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.listCalls++
	if f.listErr != nil {
		return nil, f.listErr
	}
	return append([]models.Note(nil), f.notes...), nil
}

func (f *fakeAPI) CreateNote(_ context.Context, in models.CreateNoteInput) (models.Note, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.created = append(f.created, in)
	if f.writeErr != nil {
		return models.Note{}, f.writeErr
	}
	f.clock = f.clock.Add(time.Minute)
	n := models.Note{ID: primitive.NewObjectID(), Title: in.Title, Content: in.Content, Type: in.Type, CreatedAt: f.clock}
	f.notes = append([]models.Note{n}, f.notes...)
	return n, nil
}

func (f *fakeAPI) UpdateNote(_ context.Context, id string, patch models.NotePatch) (models.Note, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.patches = append(f.patches, patch)
	if f.writeErr != nil {
		return models.Note{}, f.writeErr
	}
	for i, n := range f.notes {
		if n.ID.Hex() != id {
			continue
		}
		if patch.Favorite != nil {
			n.Favorite = *patch.Favorite
		}
		if patch.Title != nil {
			n.Title = *patch.Title
		}
		if patch.ImageURL != nil {
			n.ImageURL = *patch.ImageURL
		}
		f.notes[i] = n
		return n, nil
	}
	return models.Note{}, &APIError{Status: 404, Message: "Note not found"}
}

func (f *fakeAPI) DeleteNote(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deleted = append(f.deleted, id)
	if f.writeErr != nil {
		return f.writeErr
	}
	for i, n := range f.notes {
		if n.ID.Hex() == id {
			f.notes = append(f.notes[:i], f.notes[i+1:]...)
			return nil
		}
	}
	return &APIError{Status: 404, Message: "Note not found"}
}

func (f *fakeAPI) ListCalls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.listCalls
}

func mkNote(title, content string, created time.Time) models.Note {
	return models.Note{
		ID:        primitive.NewObjectID(),
		Title:     title,
		Content:   content,
		Type:      models.NoteKindText,
		CreatedAt: created,
	}
}
