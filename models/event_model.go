package models

type NoteEventType string

const (
	NoteCreated NoteEventType = "created"
	NoteUpdated NoteEventType = "updated"
	NoteDeleted NoteEventType = "deleted"
)

// NoteEvent is pushed to an owner's websocket subscribers after a mutation.
type NoteEvent struct {
	Type   NoteEventType `json:"type"`
	NoteID string        `json:"noteId"`
}
