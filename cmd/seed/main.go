package main

import (
	"context"
	"fmt"
	"liveroom/internal/model"
	"log"
	"os"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Seeds a handful of users and the constant lobby rooms for local development.
func main() {
	mongoURI := os.Getenv("MONGO_URI")
	if mongoURI == "" {
		mongoURI = "mongodb://localhost:27017"
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(mongoURI))
	if err != nil {
		log.Fatalf("Failed to connect to MongoDB: %v", err)
	}
	defer client.Disconnect(ctx)

	db := client.Database("liveroom")
	userColl := db.Collection("users")
	roomColl := db.Collection("rooms")

	users := []model.User{
		{ID: "u_alice", Name: "Alice", Avatar: "avatars/alice.png", Balance: 10000, OwnedRoom: "r_alice001"},
		{ID: "u_bob", Name: "Bob", Avatar: "avatars/bob.png", IsMale: true, Balance: 5000},
		{ID: "u_carol", Name: "Carol", Avatar: "avatars/carol.png", Balance: 2500},
		{ID: "u_admin", Name: "Admin", Avatar: "avatars/admin.png", Balance: 0, IsElevated: true},
	}

	for _, u := range users {
		_, err := userColl.ReplaceOne(ctx, bson.M{"_id": u.ID}, u, options.Replace().SetUpsert(true))
		if err != nil {
			log.Fatalf("Failed to seed user %s: %v", u.ID, err)
		}
		fmt.Printf("seeded user %s\n", u.ID)
	}

	rooms := []model.Room{
		{
			ID:           "r_alice001",
			Name:         "Alice's Room",
			Owner:        "u_alice",
			Status:       model.RoomInactive,
			Seats:        []model.Seat{hostSeat()},
			SpecialSeats: map[string]model.SpecialSeat{},
			CreatedAt:    time.Now(),
		},
		{
			ID:           "r_lobby001",
			Name:         "Main Lobby",
			Owner:        "u_admin",
			Status:       model.RoomActive,
			Seats:        []model.Seat{hostSeat()},
			SpecialSeats: map[string]model.SpecialSeat{},
			IsConstant:   true,
			ConstantRank: 1,
			CreatedAt:    time.Now(),
		},
	}

	for _, r := range rooms {
		_, err := roomColl.ReplaceOne(ctx, bson.M{"_id": r.ID}, r, options.Replace().SetUpsert(true))
		if err != nil {
			log.Fatalf("Failed to seed room %s: %v", r.ID, err)
		}
		fmt.Printf("seeded room %s\n", r.ID)
	}

	fmt.Println("done")
}

func hostSeat() model.Seat {
	s := model.NewSeat(1, model.SeatNoSpeaker)
	s.Kind = model.SeatKindHost
	return s
}
