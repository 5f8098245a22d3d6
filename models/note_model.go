package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type NoteKind string

const (
	NoteKindText  NoteKind = "text"
	NoteKindAudio NoteKind = "audio"
)

func (k NoteKind) Valid() bool {
	return k == NoteKindText || k == NoteKindAudio
}

type Note struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	UserID    primitive.ObjectID `bson:"user_id" json:"userId"`
	Title     string             `bson:"title" json:"title"`
	Content   string             `bson:"content" json:"content"`
	Type      NoteKind           `bson:"type" json:"type"`
	Favorite  bool               `bson:"favorite" json:"favorite"`
	ImageURL  string             `bson:"image_url,omitempty" json:"imageUrl,omitempty"`
	CreatedAt time.Time          `bson:"created_at" json:"createdAt"`
	UpdatedAt time.Time          `bson:"updated_at" json:"updatedAt"`
}

// CreateNoteInput is the body accepted by POST /notes.
type CreateNoteInput struct {
	Title   string   `json:"title"`
	Content string   `json:"content"`
	Type    NoteKind `json:"type"`
}

// NotePatch lists the only fields a client may change after creation.
// Anything else in a PUT body is dropped when it is decoded.
type NotePatch struct {
	Title    *string `json:"title,omitempty"`
	Content  *string `json:"content,omitempty"`
	Favorite *bool   `json:"favorite,omitempty"`
	ImageURL *string `json:"imageUrl,omitempty"`
}

func (p NotePatch) Empty() bool {
	return p.Title == nil && p.Content == nil && p.Favorite == nil && p.ImageURL == nil
}
