package repository

import (
	"context"
	"liveroom/internal/model"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type ParticipantRepo interface {
	// Ensure inserts a member record unless one already exists for the pair.
	Ensure(ctx context.Context, roomID, userID string) error
	// Upsert writes the record with the resolved role, creating it if absent.
	Upsert(ctx context.Context, p *model.Participant) error
	DeleteByRoomAndUser(ctx context.Context, roomID, userID string) error
	DeleteByRoom(ctx context.Context, roomID string) error
	ListByRoom(ctx context.Context, roomID string, page, limit int) ([]model.Participant, error)
	CountByRoom(ctx context.Context, roomID string) (int64, error)
}

type participantRepo struct {
	collection *mongo.Collection
}

func NewParticipantRepo(db *mongo.Database) ParticipantRepo {
	return &participantRepo{collection: db.Collection("participants")}
}

func (r *participantRepo) Ensure(ctx context.Context, roomID, userID string) error {
	_, err := r.collection.UpdateOne(ctx,
		bson.M{"roomId": roomID, "userId": userID},
		bson.M{"$setOnInsert": bson.M{"joinedAt": time.Now(), "role": model.RoleMember}},
		options.Update().SetUpsert(true),
	)
	return err
}

func (r *participantRepo) Upsert(ctx context.Context, p *model.Participant) error {
	_, err := r.collection.UpdateOne(ctx,
		bson.M{"roomId": p.RoomID, "userId": p.UserID},
		bson.M{"$set": bson.M{"role": p.Role, "joinedAt": p.JoinedAt}},
		options.Update().SetUpsert(true),
	)
	return err
}

func (r *participantRepo) DeleteByRoomAndUser(ctx context.Context, roomID, userID string) error {
	_, err := r.collection.DeleteMany(ctx, bson.M{"roomId": roomID, "userId": userID})
	return err
}

func (r *participantRepo) DeleteByRoom(ctx context.Context, roomID string) error {
	_, err := r.collection.DeleteMany(ctx, bson.M{"roomId": roomID})
	return err
}

func (r *participantRepo) ListByRoom(ctx context.Context, roomID string, page, limit int) ([]model.Participant, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 20
	}
	opts := options.Find().
		SetSkip(int64((page - 1) * limit)).
		SetLimit(int64(limit)).
		SetSort(bson.M{"joinedAt": 1})
	cur, err := r.collection.Find(ctx, bson.M{"roomId": roomID}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var participants []model.Participant
	if err := cur.All(ctx, &participants); err != nil {
		return nil, err
	}
	return participants, nil
}

func (r *participantRepo) CountByRoom(ctx context.Context, roomID string) (int64, error) {
	return r.collection.CountDocuments(ctx, bson.M{"roomId": roomID})
}
