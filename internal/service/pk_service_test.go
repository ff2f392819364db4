package service

import (
	"context"
	"errors"
	"liveroom/internal/apperror"
	"liveroom/internal/model"
	"testing"
	"time"
)

func pkTestRoom() *model.Room {
	host := model.NewSeat(1, model.SeatNoSpeaker)
	host.Kind = model.SeatKindHost
	return &model.Room{
		ID:     "r_pk",
		Owner:  "u_owner",
		Status: model.RoomActive,
		Seats: []model.Seat{
			host,
			model.NewSeat(2, model.SeatNoSpeaker),
			model.NewSeat(3, model.SeatNoSpeaker),
		},
	}
}

func newPkService(rooms *fakeRoomRepo) *PkService {
	seatSvc := NewSeatService(rooms, newFakeUserRepo(), newFakeSeatCache(), newFakeLease())
	return NewPkService(rooms, seatSvc)
}

func TestPkCreate_InstallsBattleAndResetsSeats(t *testing.T) {
	rooms := newFakeRoomRepo(pkTestRoom())
	svc := newPkService(rooms)

	battle, err := svc.Create(context.Background(), "r_pk", &model.PkBattle{Duration: 120, SeatsCount: 6})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	if battle.Started {
		t.Error("a fresh battle must not be started")
	}
	if battle.StartedAt != nil {
		t.Error("a fresh battle must have no start timestamp")
	}
	if battle.Remaining != 120 {
		t.Errorf("expected remaining = duration, got %d", battle.Remaining)
	}

	stored := rooms.stored("r_pk")
	if !stored.IsPkEnabled {
		t.Error("expected isPkEnabled true")
	}
	if len(stored.Seats) != 1 || stored.Seats[0].Number != 1 {
		t.Errorf("battle creation must trim seats down to seat 1, got %+v", stored.Seats)
	}
}

func TestPkCreate_OverwritesPrevious(t *testing.T) {
	room := pkTestRoom()
	room.PkBattle = &model.PkBattle{Duration: 60, Started: true}
	room.IsPkEnabled = true
	rooms := newFakeRoomRepo(room)
	svc := newPkService(rooms)

	battle, err := svc.Create(context.Background(), "r_pk", &model.PkBattle{Duration: 300})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if battle.Duration != 300 || battle.Started {
		t.Errorf("previous session must be overwritten: %+v", battle)
	}
}

func TestPkGet_DerivesCountdown(t *testing.T) {
	room := pkTestRoom()
	startedAt := time.Now().Add(-10 * time.Second)
	room.PkBattle = &model.PkBattle{Duration: 60, Started: true, StartedAt: &startedAt, Remaining: 60}
	room.IsPkEnabled = true
	rooms := newFakeRoomRepo(room)
	svc := newPkService(rooms)

	battle, err := svc.Get(context.Background(), "r_pk")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if battle.Remaining < 48 || battle.Remaining > 50 {
		t.Errorf("expected remaining near 50, got %d", battle.Remaining)
	}

	// the derived value is not written back
	if got := rooms.stored("r_pk").PkBattle.Remaining; got != 60 {
		t.Errorf("Get must not persist the derived countdown, stored %d", got)
	}
}

func TestPkGet_LapsedClampsToZero(t *testing.T) {
	room := pkTestRoom()
	startedAt := time.Now().Add(-2 * time.Minute)
	room.PkBattle = &model.PkBattle{Duration: 60, Started: true, StartedAt: &startedAt}
	rooms := newFakeRoomRepo(room)
	svc := newPkService(rooms)

	battle, err := svc.Get(context.Background(), "r_pk")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if battle.Remaining != 0 {
		t.Errorf("lapsed countdown must clamp to 0, got %d", battle.Remaining)
	}
}

func TestPkGet_NotFound(t *testing.T) {
	rooms := newFakeRoomRepo(pkTestRoom())
	svc := newPkService(rooms)

	_, err := svc.Get(context.Background(), "r_pk")
	if !errors.Is(err, apperror.ErrPkNotFound) {
		t.Fatalf("expected ErrPkNotFound, got %v", err)
	}
}

func TestPkAddTeamMember(t *testing.T) {
	room := pkTestRoom()
	room.PkBattle = &model.PkBattle{Duration: 60}
	room.IsPkEnabled = true
	rooms := newFakeRoomRepo(room)
	svc := newPkService(rooms)
	ctx := context.Background()

	if _, err := svc.AddTeamMember(ctx, "r_pk", "green", model.PkTeamMember{UserID: "u_a"}); !errors.Is(err, apperror.ErrInvalidTeam) {
		t.Fatalf("expected ErrInvalidTeam, got %v", err)
	}

	member := model.PkTeamMember{UserID: "u_a", Charisma: 10}
	if _, err := svc.AddTeamMember(ctx, "r_pk", model.PkTeamBlue, member); err != nil {
		t.Fatalf("AddTeamMember failed: %v", err)
	}
	battle, err := svc.AddTeamMember(ctx, "r_pk", model.PkTeamBlue, member)
	if err != nil {
		t.Fatalf("second AddTeamMember failed: %v", err)
	}

	// repeated joins append repeated entries
	if len(battle.BlueTeam.Members) != 2 {
		t.Errorf("expected 2 roster entries, got %d", len(battle.BlueTeam.Members))
	}

	if _, err := svc.AddTeamMember(ctx, "r_pk", model.PkTeamRed, model.PkTeamMember{UserID: "u_b"}); err != nil {
		t.Fatalf("red team add failed: %v", err)
	}
	if got := rooms.stored("r_pk").PkBattle; len(got.RedTeam.Members) != 1 {
		t.Errorf("expected 1 red member, got %d", len(got.RedTeam.Members))
	}
}

func TestPkAddTeamMember_NoSession(t *testing.T) {
	rooms := newFakeRoomRepo(pkTestRoom())
	svc := newPkService(rooms)

	_, err := svc.AddTeamMember(context.Background(), "r_pk", model.PkTeamBlue, model.PkTeamMember{UserID: "u_a"})
	if !errors.Is(err, apperror.ErrPkNotFound) {
		t.Fatalf("expected ErrPkNotFound, got %v", err)
	}
}

func TestPkUpdate_StampsStartOnce(t *testing.T) {
	room := pkTestRoom()
	room.PkBattle = &model.PkBattle{Duration: 60}
	rooms := newFakeRoomRepo(room)
	svc := newPkService(rooms)
	ctx := context.Background()

	started := true
	battle, err := svc.Update(ctx, "r_pk", model.PkUpdate{Started: &started})
	if err != nil {
		t.Fatalf("Update failed: %v", err)
	}
	if battle.StartedAt == nil {
		t.Fatal("first started=true must stamp StartedAt")
	}
	first := *battle.StartedAt

	time.Sleep(20 * time.Millisecond)
	battle, err = svc.Update(ctx, "r_pk", model.PkUpdate{Started: &started})
	if err != nil {
		t.Fatalf("second Update failed: %v", err)
	}
	if !battle.StartedAt.Equal(first) {
		t.Error("repeated started=true must not restamp StartedAt")
	}
}

func TestPkUpdate_ScalarMerge(t *testing.T) {
	room := pkTestRoom()
	room.PkBattle = &model.PkBattle{
		Duration:   60,
		SeatsCount: 4,
		BlueTeam:   model.PkTeam{Members: []model.PkTeamMember{{UserID: "u_a"}}, Points: 5},
		RedTeam:    model.PkTeam{Points: 3},
	}
	rooms := newFakeRoomRepo(room)
	svc := newPkService(rooms)

	blue := 42
	battle, err := svc.Update(context.Background(), "r_pk", model.PkUpdate{BluePoints: &blue})
	if err != nil {
		t.Fatalf("Update failed: %v", err)
	}
	if battle.BlueTeam.Points != 42 {
		t.Errorf("expected blue points 42, got %d", battle.BlueTeam.Points)
	}
	if battle.RedTeam.Points != 3 || battle.Duration != 60 || battle.SeatsCount != 4 {
		t.Errorf("untouched fields must survive: %+v", battle)
	}
	if len(battle.BlueTeam.Members) != 1 {
		t.Errorf("roster must survive a points update, got %d members", len(battle.BlueTeam.Members))
	}
}

func TestPkUpdate_CreatesSessionWhenMissing(t *testing.T) {
	rooms := newFakeRoomRepo(pkTestRoom())
	svc := newPkService(rooms)

	duration := 90
	battle, err := svc.Update(context.Background(), "r_pk", model.PkUpdate{Duration: &duration})
	if err != nil {
		t.Fatalf("Update of missing session must upsert: %v", err)
	}
	if battle.Duration != 90 {
		t.Errorf("expected duration 90, got %d", battle.Duration)
	}
}

func TestPkUpdate_Broadcasts(t *testing.T) {
	room := pkTestRoom()
	room.PkBattle = &model.PkBattle{Duration: 60}
	rooms := newFakeRoomRepo(room)
	svc := newPkService(rooms)
	bc := &fakeBroadcaster{}
	svc.SetBroadcaster(bc)

	points := 10
	if _, err := svc.Update(context.Background(), "r_pk", model.PkUpdate{BluePoints: &points}); err != nil {
		t.Fatalf("Update failed: %v", err)
	}
	if !bc.sent("pk-updated") {
		t.Error("expected pk-updated broadcast after a committed battle write")
	}
}

func TestPkReset(t *testing.T) {
	room := pkTestRoom()
	room.PkBattle = &model.PkBattle{Duration: 60, Started: true}
	room.IsPkEnabled = true
	rooms := newFakeRoomRepo(room)
	svc := newPkService(rooms)

	if err := svc.Reset(context.Background(), "r_pk"); err != nil {
		t.Fatalf("Reset failed: %v", err)
	}

	stored := rooms.stored("r_pk")
	if stored.PkBattle != nil {
		t.Error("expected session nulled")
	}
	if stored.IsPkEnabled {
		t.Error("expected isPkEnabled false")
	}
}
