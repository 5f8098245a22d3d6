package controllers

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"voice-notes/models"
	service "voice-notes/services"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MockNoteService keeps notes in memory and records the owner of every call.
type MockNoteService struct {
	data   map[string]models.Note
	owners []string
	mu     sync.Mutex
}

func NewMockNoteService() *MockNoteService {
	return &MockNoteService{data: make(map[string]models.Note)}
}

func (m *MockNoteService) List(_ context.Context, owner string) ([]models.Note, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.owners = append(m.owners, owner)
	if owner == "broken" {
		return nil, errors.New("connection reset")
	}
	notes := []models.Note{}
	for _, n := range m.data {
		notes = append(notes, n)
	}
	return notes, nil
}

func (m *MockNoteService) Get(_ context.Context, owner, id string) (models.Note, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.owners = append(m.owners, owner)
	n, ok := m.data[id]
	if !ok {
		return models.Note{}, service.ErrNoteNotFound
	}
	return n, nil
}

func (m *MockNoteService) Create(_ context.Context, owner string, in models.CreateNoteInput) (models.Note, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.owners = append(m.owners, owner)
	if in.Title == "" {
		return models.Note{}, fmt.Errorf("%w: title is required", service.ErrValidation)
	}
	n := models.Note{
		ID:        primitive.NewObjectID(),
		Title:     in.Title,
		Content:   in.Content,
		Type:      in.Type,
		CreatedAt: time.Now(),
	}
	m.data[n.ID.Hex()] = n
	return n, nil
}

func (m *MockNoteService) Update(_ context.Context, owner, id string, patch models.NotePatch) (models.Note, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.owners = append(m.owners, owner)
	n, ok := m.data[id]
	if !ok {
		return models.Note{}, service.ErrNoteNotFound
	}
	if patch.Title != nil {
		n.Title = *patch.Title
	}
	if patch.Favorite != nil {
		n.Favorite = *patch.Favorite
	}
	m.data[id] = n
	return n, nil
}

func (m *MockNoteService) Delete(_ context.Context, owner, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.owners = append(m.owners, owner)
	if _, ok := m.data[id]; !ok {
		return service.ErrNoteNotFound
	}
	delete(m.data, id)
	return nil
}

type MockAuthService struct{}

func (MockAuthService) Login(_ context.Context, email, password string) (string, error) {
	if email == "ana@example.com" && password == "secret1" {
		return "signed-token", nil
	}
	return "", service.ErrInvalidCredentials
}

func (MockAuthService) Register(_ context.Context, email, _ string) (models.User, error) {
	if email == "taken@example.com" {
		return models.User{}, service.ErrEmailTaken
	}
	return models.User{ID: primitive.NewObjectID(), Email: email}, nil
}
