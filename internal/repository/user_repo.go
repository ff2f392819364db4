package repository

import (
	"context"
	"liveroom/internal/apperror"
	"liveroom/internal/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// UserRepo is the engine's window onto the user collection: display
// snapshots, presence pointers, the balance-deduction capability and the
// blocked-user check. Everything else about users is owned elsewhere.
type UserRepo interface {
	GetByID(ctx context.Context, id string) (*model.User, error)
	SetCurrentRoom(ctx context.Context, userID, roomID string) (*model.User, error)
	ClearCurrentRoom(ctx context.Context, userID string) (*model.User, error)
	DeductBalance(ctx context.Context, userID string, amount int) error
	IsBlocked(ctx context.Context, ownerID, userID string) (bool, error)
}

type userRepo struct {
	collection *mongo.Collection
}

func NewUserRepo(db *mongo.Database) UserRepo {
	return &userRepo{collection: db.Collection("users")}
}

func (r *userRepo) GetByID(ctx context.Context, id string) (*model.User, error) {
	var user model.User
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&user)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, err
	}
	return &user, nil
}

func (r *userRepo) SetCurrentRoom(ctx context.Context, userID, roomID string) (*model.User, error) {
	var user model.User
	err := r.collection.FindOneAndUpdate(ctx,
		bson.M{"_id": userID},
		bson.M{"$set": bson.M{"currentRoom": roomID}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&user)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, err
	}
	return &user, nil
}

func (r *userRepo) ClearCurrentRoom(ctx context.Context, userID string) (*model.User, error) {
	var user model.User
	err := r.collection.FindOneAndUpdate(ctx,
		bson.M{"_id": userID},
		bson.M{"$unset": bson.M{"currentRoom": ""}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&user)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, err
	}
	return &user, nil
}

// DeductBalance decrements the balance only when it covers the amount; the
// conditional filter makes the check-and-deduct a single atomic update.
func (r *userRepo) DeductBalance(ctx context.Context, userID string, amount int) error {
	res, err := r.collection.UpdateOne(ctx,
		bson.M{"_id": userID, "balance": bson.M{"$gte": amount}},
		bson.M{"$inc": bson.M{"balance": -amount}},
	)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		n, err := r.collection.CountDocuments(ctx, bson.M{"_id": userID})
		if err != nil {
			return err
		}
		if n == 0 {
			return apperror.ErrUserNotFound
		}
		return apperror.ErrInsufficientFunds
	}
	return nil
}

func (r *userRepo) IsBlocked(ctx context.Context, ownerID, userID string) (bool, error) {
	n, err := r.collection.CountDocuments(ctx, bson.M{"_id": ownerID, "blocked": userID})
	if err != nil {
		return false, err
	}
	return n > 0, nil
}
