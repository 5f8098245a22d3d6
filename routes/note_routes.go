package routes

import (
	"voice-notes/controllers"

	"github.com/gofiber/fiber/v2"
)

func NoteRoutes(app *fiber.App, noteController *controllers.NoteController, requireAuth fiber.Handler) {
	notes := app.Group("/notes", requireAuth)
	notes.Get("/", noteController.GetNotes)
	notes.Post("/", noteController.CreateNote)
	notes.Get("/:id", noteController.GetNoteByID)
	notes.Put("/:id", noteController.UpdateNote)
	notes.Delete("/:id", noteController.DeleteNoteByID)
}
