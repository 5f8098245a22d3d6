package repository

import (
	"context"
	"errors"
	"time"

	"voice-notes/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type NoteRepositoryInterface interface {
	FindNotesByUserID(ctx context.Context, userID primitive.ObjectID) ([]models.Note, error)
	FindNoteByID(ctx context.Context, userID, id primitive.ObjectID) (models.Note, error)
	InsertNote(ctx context.Context, note models.Note) (models.Note, error)
	UpdateNote(ctx context.Context, userID, id primitive.ObjectID, patch models.NotePatch, now time.Time) (models.Note, error)
	DeleteNote(ctx context.Context, userID, id primitive.ObjectID) error
}

type NoteRepository struct {
	collection *mongo.Collection
}

func NewNoteRepository(collection *mongo.Collection) *NoteRepository {
	return &NoteRepository{collection: collection}
}

// Every filter carries user_id, so a note owned by someone else looks exactly
// like a missing one.
func ownedBy(userID, id primitive.ObjectID) bson.M {
	return bson.M{"_id": id, "user_id": userID}
}

func (r *NoteRepository) FindNotesByUserID(ctx context.Context, userID primitive.ObjectID) ([]models.Note, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := r.collection.Find(ctx, bson.M{"user_id": userID}, opts)
	if err != nil {
		return nil, err
	}
	notes := []models.Note{}
	if err = cursor.All(ctx, &notes); err != nil {
		return nil, err
	}
	return notes, nil
}

func (r *NoteRepository) FindNoteByID(ctx context.Context, userID, id primitive.ObjectID) (models.Note, error) {
	var note models.Note
	err := r.collection.FindOne(ctx, ownedBy(userID, id)).Decode(&note)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return note, ErrNotFound
	}
	return note, err
}

func (r *NoteRepository) InsertNote(ctx context.Context, note models.Note) (models.Note, error) {
	if note.ID.IsZero() {
		note.ID = primitive.NewObjectID()
	}
	if _, err := r.collection.InsertOne(ctx, note); err != nil {
		return models.Note{}, err
	}
	return note, nil
}

func (r *NoteRepository) UpdateNote(ctx context.Context, userID, id primitive.ObjectID, patch models.NotePatch, now time.Time) (models.Note, error) {
	set := bson.M{"updated_at": now}
	if patch.Title != nil {
		set["title"] = *patch.Title
	}
	if patch.Content != nil {
		set["content"] = *patch.Content
	}
	if patch.Favorite != nil {
		set["favorite"] = *patch.Favorite
	}
	if patch.ImageURL != nil {
		set["image_url"] = *patch.ImageURL
	}

	var note models.Note
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	err := r.collection.FindOneAndUpdate(ctx, ownedBy(userID, id), bson.M{"$set": set}, opts).Decode(&note)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return note, ErrNotFound
	}
	return note, err
}

func (r *NoteRepository) DeleteNote(ctx context.Context, userID, id primitive.ObjectID) error {
	res, err := r.collection.DeleteOne(ctx, ownedBy(userID, id))
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}
