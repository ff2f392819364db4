package repository

import (
	"context"
	"liveroom/internal/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

type RoomRepo interface {
	Create(ctx context.Context, room *model.Room) error
	GetByID(ctx context.Context, id string) (*model.Room, error)
	GetByOwner(ctx context.Context, ownerID string) (*model.Room, error)
	Update(ctx context.Context, room *model.Room) error
	SetFields(ctx context.Context, id string, fields bson.M) error
	Delete(ctx context.Context, id string) error
}

type roomRepo struct {
	collection *mongo.Collection
}

func NewRoomRepo(db *mongo.Database) RoomRepo {
	return &roomRepo{collection: db.Collection("rooms")}
}

func (r *roomRepo) Create(ctx context.Context, room *model.Room) error {
	_, err := r.collection.InsertOne(ctx, room)
	return err
}

func (r *roomRepo) GetByID(ctx context.Context, id string) (*model.Room, error) {
	var room model.Room
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&room)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil // room not found
		}
		return nil, err
	}
	return &room, nil
}

func (r *roomRepo) GetByOwner(ctx context.Context, ownerID string) (*model.Room, error) {
	var room model.Room
	err := r.collection.FindOne(ctx, bson.M{"owner": ownerID}).Decode(&room)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, err
	}
	return &room, nil
}

// Update replaces the whole room document. The room id is the unit of
// atomicity; there is no cross-field isolation beyond this replace.
func (r *roomRepo) Update(ctx context.Context, room *model.Room) error {
	_, err := r.collection.ReplaceOne(ctx, bson.M{"_id": room.ID}, room)
	return err
}

// SetFields applies a targeted $set, used by the deactivation cascade and
// the participant-count updates so they do not clobber concurrent seat writes.
func (r *roomRepo) SetFields(ctx context.Context, id string, fields bson.M) error {
	_, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": fields})
	return err
}

func (r *roomRepo) Delete(ctx context.Context, id string) error {
	_, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	return err
}
