package controllers

import (
	"context"

	middleware "voice-notes/middlewares"
	"voice-notes/models"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/exp/slog"
)

type NoteServiceInterface interface {
	List(ctx context.Context, owner string) ([]models.Note, error)
	Get(ctx context.Context, owner, id string) (models.Note, error)
	Create(ctx context.Context, owner string, in models.CreateNoteInput) (models.Note, error)
	Update(ctx context.Context, owner, id string, patch models.NotePatch) (models.Note, error)
	Delete(ctx context.Context, owner, id string) error
}

type NoteController struct {
	notes NoteServiceInterface
	log   *slog.Logger
}

func NewNoteController(notes NoteServiceInterface, log *slog.Logger) *NoteController {
	return &NoteController{notes: notes, log: log.With(slog.String("component", "note_controller"))}
}

func (nc *NoteController) GetNotes(c *fiber.Ctx) error {
	notes, err := nc.notes.List(c.UserContext(), middleware.UserID(c))
	if err != nil {
		return respondError(c, nc.log, err, "Failed to fetch notes")
	}
	return c.Status(fiber.StatusOK).JSON(notes)
}

func (nc *NoteController) CreateNote(c *fiber.Ctx) error {
	var in models.CreateNoteInput
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	note, err := nc.notes.Create(c.UserContext(), middleware.UserID(c), in)
	if err != nil {
		return respondError(c, nc.log, err, "Failed to create note")
	}
	return c.Status(fiber.StatusCreated).JSON(note)
}

func (nc *NoteController) GetNoteByID(c *fiber.Ctx) error {
	note, err := nc.notes.Get(c.UserContext(), middleware.UserID(c), c.Params("id"))
	if err != nil {
		return respondError(c, nc.log, err, "Failed to fetch note")
	}
	return c.Status(fiber.StatusOK).JSON(note)
}

func (nc *NoteController) UpdateNote(c *fiber.Ctx) error {
	var patch models.NotePatch
	if err := c.BodyParser(&patch); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	note, err := nc.notes.Update(c.UserContext(), middleware.UserID(c), c.Params("id"), patch)
	if err != nil {
		return respondError(c, nc.log, err, "Failed to update note")
	}
	return c.Status(fiber.StatusOK).JSON(note)
}

func (nc *NoteController) DeleteNoteByID(c *fiber.Ctx) error {
	if err := nc.notes.Delete(c.UserContext(), middleware.UserID(c), c.Params("id")); err != nil {
		return respondError(c, nc.log, err, "Failed to delete note")
	}
	return c.SendStatus(fiber.StatusNoContent)
}
