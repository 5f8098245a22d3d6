package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"voice-notes/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MemoryNoteRepository keeps notes in a map. It backs `serve --memory` and
// the handler tests.
type MemoryNoteRepository struct {
	data map[primitive.ObjectID]models.Note
	mu   sync.RWMutex
}

func NewMemoryNoteRepository() *MemoryNoteRepository {
	return &MemoryNoteRepository{
		data: make(map[primitive.ObjectID]models.Note),
	}
}

func (m *MemoryNoteRepository) FindNotesByUserID(_ context.Context, userID primitive.ObjectID) ([]models.Note, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	notes := []models.Note{}
	for _, note := range m.data {
		if note.UserID == userID {
			notes = append(notes, note)
		}
	}
	sort.SliceStable(notes, func(i, j int) bool {
		if notes[i].CreatedAt.Equal(notes[j].CreatedAt) {
			return notes[i].ID.Hex() > notes[j].ID.Hex()
		}
		return notes[i].CreatedAt.After(notes[j].CreatedAt)
	})
	return notes, nil
}

func (m *MemoryNoteRepository) FindNoteByID(_ context.Context, userID, id primitive.ObjectID) (models.Note, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	note, ok := m.data[id]
	if !ok || note.UserID != userID {
		return models.Note{}, ErrNotFound
	}
	return note, nil
}

func (m *MemoryNoteRepository) InsertNote(_ context.Context, note models.Note) (models.Note, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if note.ID.IsZero() {
		note.ID = primitive.NewObjectID()
	}
	m.data[note.ID] = note
	return note, nil
}

func (m *MemoryNoteRepository) UpdateNote(_ context.Context, userID, id primitive.ObjectID, patch models.NotePatch, now time.Time) (models.Note, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	note, ok := m.data[id]
	if !ok || note.UserID != userID {
		return models.Note{}, ErrNotFound
	}
	if patch.Title != nil {
		note.Title = *patch.Title
	}
	if patch.Content != nil {
		note.Content = *patch.Content
	}
	if patch.Favorite != nil {
		note.Favorite = *patch.Favorite
	}
	if patch.ImageURL != nil {
		note.ImageURL = *patch.ImageURL
	}
	note.UpdatedAt = now
	m.data[id] = note
	return note, nil
}

func (m *MemoryNoteRepository) DeleteNote(_ context.Context, userID, id primitive.ObjectID) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	note, ok := m.data[id]
	if !ok || note.UserID != userID {
		return ErrNotFound
	}
	delete(m.data, id)
	return nil
}

type MemoryUserRepository struct {
	byEmail map[string]models.User
	mu      sync.RWMutex
}

func NewMemoryUserRepository() *MemoryUserRepository {
	return &MemoryUserRepository{byEmail: make(map[string]models.User)}
}

func (m *MemoryUserRepository) FindUserByEmail(_ context.Context, email string) (models.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	user, ok := m.byEmail[email]
	if !ok {
		return models.User{}, ErrNotFound
	}
	return user, nil
}

func (m *MemoryUserRepository) InsertUser(_ context.Context, user models.User) (models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.byEmail[user.Email]; exists {
		return models.User{}, ErrDuplicate
	}
	if user.ID.IsZero() {
		user.ID = primitive.NewObjectID()
	}
	m.byEmail[user.Email] = user
	return user, nil
}

type MemoryLoginAttemptRepository struct {
	counts map[string]*attempt
	mu     sync.Mutex
	now    func() time.Time
}

type attempt struct {
	count   int64
	resetAt time.Time
}

func NewMemoryLoginAttemptRepository() *MemoryLoginAttemptRepository {
	return &MemoryLoginAttemptRepository{counts: make(map[string]*attempt), now: time.Now}
}

func (m *MemoryLoginAttemptRepository) Increment(_ context.Context, key string, window time.Duration) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	a, ok := m.counts[key]
	if !ok || now.After(a.resetAt) {
		m.counts[key] = &attempt{count: 1, resetAt: now.Add(window)}
		return 1, nil
	}
	a.count++
	return a.count, nil
}

func (m *MemoryLoginAttemptRepository) Reset(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.counts, key)
	return nil
}
