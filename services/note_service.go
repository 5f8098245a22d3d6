package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"voice-notes/models"
	"voice-notes/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/exp/slog"
)

// Publisher receives change notifications after a successful write.
type Publisher interface {
	Publish(userID string, event models.NoteEvent)
}

type NoteService struct {
	repo   repository.NoteRepositoryInterface
	events Publisher
	log    *slog.Logger
	now    func() time.Time
}

func NewNoteService(repo repository.NoteRepositoryInterface, events Publisher, log *slog.Logger) *NoteService {
	return &NoteService{
		repo:   repo,
		events: events,
		log:    log.With(slog.String("component", "note_service")),
		now:    func() time.Time { return time.Now().UTC() },
	}
}

func parseOwner(owner string) (primitive.ObjectID, error) {
	userID, err := primitive.ObjectIDFromHex(owner)
	if err != nil {
		return primitive.NilObjectID, ErrUnauthorized
	}
	return userID, nil
}

// A malformed id can never match a stored note, so it is reported the same
// way as a missing one.
func parseNoteID(id string) (primitive.ObjectID, error) {
	noteID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, ErrNoteNotFound
	}
	return noteID, nil
}

func notFound(err error) error {
	if errors.Is(err, repository.ErrNotFound) {
		return ErrNoteNotFound
	}
	return err
}

func (s *NoteService) List(ctx context.Context, owner string) ([]models.Note, error) {
	userID, err := parseOwner(owner)
	if err != nil {
		return nil, err
	}
	return s.repo.FindNotesByUserID(ctx, userID)
}

func (s *NoteService) Get(ctx context.Context, owner, id string) (models.Note, error) {
	userID, err := parseOwner(owner)
	if err != nil {
		return models.Note{}, err
	}
	noteID, err := parseNoteID(id)
	if err != nil {
		return models.Note{}, err
	}
	note, err := s.repo.FindNoteByID(ctx, userID, noteID)
	return note, notFound(err)
}

func (s *NoteService) Create(ctx context.Context, owner string, in models.CreateNoteInput) (models.Note, error) {
	userID, err := parseOwner(owner)
	if err != nil {
		return models.Note{}, err
	}
	if strings.TrimSpace(in.Title) == "" || strings.TrimSpace(in.Content) == "" {
		return models.Note{}, fmt.Errorf("%w: title and content are required", ErrValidation)
	}
	if !in.Type.Valid() {
		return models.Note{}, fmt.Errorf("%w: type must be %q or %q", ErrValidation, models.NoteKindText, models.NoteKindAudio)
	}

	now := s.now()
	note, err := s.repo.InsertNote(ctx, models.Note{
		UserID:    userID,
		Title:     in.Title,
		Content:   in.Content,
		Type:      in.Type,
		CreatedAt: now,
		UpdatedAt: now,
	})
	if err != nil {
		return models.Note{}, err
	}

	s.log.Debug("note created", slog.String("note_id", note.ID.Hex()), slog.String("type", string(note.Type)))
	s.publish(owner, models.NoteCreated, note.ID)
	return note, nil
}

func validatePatch(p models.NotePatch) error {
	if p.Title != nil && strings.TrimSpace(*p.Title) == "" {
		return fmt.Errorf("%w: title must not be empty", ErrValidation)
	}
	if p.Content != nil && strings.TrimSpace(*p.Content) == "" {
		return fmt.Errorf("%w: content must not be empty", ErrValidation)
	}
	if p.ImageURL != nil && *p.ImageURL != "" && !strings.HasPrefix(*p.ImageURL, "data:image/") {
		return fmt.Errorf("%w: image must be an image data URL", ErrValidation)
	}
	return nil
}

func (s *NoteService) Update(ctx context.Context, owner, id string, patch models.NotePatch) (models.Note, error) {
	userID, err := parseOwner(owner)
	if err != nil {
		return models.Note{}, err
	}
	noteID, err := parseNoteID(id)
	if err != nil {
		return models.Note{}, err
	}
	if err := validatePatch(patch); err != nil {
		return models.Note{}, err
	}

	note, err := s.repo.UpdateNote(ctx, userID, noteID, patch, s.now())
	if err != nil {
		return models.Note{}, notFound(err)
	}
	s.publish(owner, models.NoteUpdated, note.ID)
	return note, nil
}

func (s *NoteService) Delete(ctx context.Context, owner, id string) error {
	userID, err := parseOwner(owner)
	if err != nil {
		return err
	}
	noteID, err := parseNoteID(id)
	if err != nil {
		return err
	}
	if err := s.repo.DeleteNote(ctx, userID, noteID); err != nil {
		return notFound(err)
	}
	s.publish(owner, models.NoteDeleted, noteID)
	return nil
}

func (s *NoteService) publish(owner string, kind models.NoteEventType, id primitive.ObjectID) {
	if s.events == nil {
		return
	}
	s.events.Publish(owner, models.NoteEvent{Type: kind, NoteID: id.Hex()})
}
