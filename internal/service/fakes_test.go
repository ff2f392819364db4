package service

import (
	"context"
	"fmt"
	"liveroom/internal/apperror"
	"liveroom/internal/model"
	"sync"

	"go.mongodb.org/mongo-driver/bson"
)

// In-memory fakes for the repository and cache interfaces. They copy on
// read and write so a service mutating a returned room cannot leak the
// change back without going through Update, same as the real store.

type fakeRoomRepo struct {
	mu    sync.Mutex
	rooms map[string]*model.Room
}

func newFakeRoomRepo(rooms ...*model.Room) *fakeRoomRepo {
	f := &fakeRoomRepo{rooms: make(map[string]*model.Room)}
	for _, r := range rooms {
		f.rooms[r.ID] = cloneRoom(r)
	}
	return f
}

func cloneRoom(r *model.Room) *model.Room {
	if r == nil {
		return nil
	}
	c := *r
	c.Seats = append([]model.Seat(nil), r.Seats...)
	c.Moderators = append([]string(nil), r.Moderators...)
	c.BlockedUsers = append([]string(nil), r.BlockedUsers...)
	if r.SpecialSeats != nil {
		c.SpecialSeats = make(map[string]model.SpecialSeat, len(r.SpecialSeats))
		for k, v := range r.SpecialSeats {
			c.SpecialSeats[k] = v
		}
	}
	if r.PkBattle != nil {
		b := *r.PkBattle
		b.BlueTeam.Members = append([]model.PkTeamMember(nil), r.PkBattle.BlueTeam.Members...)
		b.RedTeam.Members = append([]model.PkTeamMember(nil), r.PkBattle.RedTeam.Members...)
		if r.PkBattle.StartedAt != nil {
			t := *r.PkBattle.StartedAt
			b.StartedAt = &t
		}
		c.PkBattle = &b
	}
	return &c
}

func (f *fakeRoomRepo) Create(ctx context.Context, room *model.Room) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.rooms[room.ID] = cloneRoom(room)
	return nil
}

func (f *fakeRoomRepo) GetByID(ctx context.Context, id string) (*model.Room, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return cloneRoom(f.rooms[id]), nil
}

func (f *fakeRoomRepo) GetByOwner(ctx context.Context, ownerID string) (*model.Room, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, r := range f.rooms {
		if r.Owner == ownerID {
			return cloneRoom(r), nil
		}
	}
	return nil, nil
}

func (f *fakeRoomRepo) Update(ctx context.Context, room *model.Room) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.rooms[room.ID] = cloneRoom(room)
	return nil
}

func (f *fakeRoomRepo) SetFields(ctx context.Context, id string, fields bson.M) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	room, ok := f.rooms[id]
	if !ok {
		return nil
	}
	for k, v := range fields {
		switch k {
		case "status":
			room.Status = v.(model.RoomStatus)
		case "participantsCount":
			room.ParticipantsCount = v.(int)
		case "seats":
			room.Seats = v.([]model.Seat)
		case "specialSeats":
			room.SpecialSeats = v.(map[string]model.SpecialSeat)
		case "pkBattle":
			if v == nil {
				room.PkBattle = nil
			} else {
				room.PkBattle = v.(*model.PkBattle)
			}
		case "isPkEnabled":
			room.IsPkEnabled = v.(bool)
		case "pkBattle.started":
			if room.PkBattle != nil {
				room.PkBattle.Started = v.(bool)
			}
		case "pkBattle.remaining":
			if room.PkBattle != nil {
				room.PkBattle.Remaining = v.(int)
			}
		default:
			return fmt.Errorf("fakeRoomRepo: unhandled field %q", k)
		}
	}
	return nil
}

func (f *fakeRoomRepo) Delete(ctx context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.rooms, id)
	return nil
}

// stored returns the persisted room, bypassing the service under test.
func (f *fakeRoomRepo) stored(id string) *model.Room {
	f.mu.Lock()
	defer f.mu.Unlock()
	return cloneRoom(f.rooms[id])
}

type fakeUserRepo struct {
	mu    sync.Mutex
	users map[string]*model.User
}

func newFakeUserRepo(users ...*model.User) *fakeUserRepo {
	f := &fakeUserRepo{users: make(map[string]*model.User)}
	for _, u := range users {
		c := *u
		f.users[u.ID] = &c
	}
	return f
}

func (f *fakeUserRepo) GetByID(ctx context.Context, id string) (*model.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[id]
	if !ok {
		return nil, nil
	}
	c := *u
	return &c, nil
}

func (f *fakeUserRepo) SetCurrentRoom(ctx context.Context, userID, roomID string) (*model.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[userID]
	if !ok {
		return nil, nil
	}
	u.CurrentRoom = roomID
	c := *u
	return &c, nil
}

func (f *fakeUserRepo) ClearCurrentRoom(ctx context.Context, userID string) (*model.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[userID]
	if !ok {
		return nil, nil
	}
	u.CurrentRoom = ""
	c := *u
	return &c, nil
}

func (f *fakeUserRepo) DeductBalance(ctx context.Context, userID string, amount int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[userID]
	if !ok {
		return apperror.ErrUserNotFound
	}
	if u.Balance < amount {
		return apperror.ErrInsufficientFunds
	}
	u.Balance -= amount
	return nil
}

func (f *fakeUserRepo) IsBlocked(ctx context.Context, ownerID, userID string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	owner, ok := f.users[ownerID]
	if !ok {
		return false, nil
	}
	for _, b := range owner.Blocked {
		if b == userID {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeUserRepo) balance(id string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.users[id].Balance
}

type fakeParticipantRepo struct {
	mu      sync.Mutex
	records map[string]model.Participant
}

func newFakeParticipantRepo() *fakeParticipantRepo {
	return &fakeParticipantRepo{records: make(map[string]model.Participant)}
}

func pKey(roomID, userID string) string { return roomID + "/" + userID }

func (f *fakeParticipantRepo) Ensure(ctx context.Context, roomID, userID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	key := pKey(roomID, userID)
	if _, ok := f.records[key]; !ok {
		f.records[key] = model.Participant{RoomID: roomID, UserID: userID, Role: model.RoleMember}
	}
	return nil
}

func (f *fakeParticipantRepo) Upsert(ctx context.Context, p *model.Participant) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.records[pKey(p.RoomID, p.UserID)] = *p
	return nil
}

func (f *fakeParticipantRepo) DeleteByRoomAndUser(ctx context.Context, roomID, userID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.records, pKey(roomID, userID))
	return nil
}

func (f *fakeParticipantRepo) DeleteByRoom(ctx context.Context, roomID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for k, p := range f.records {
		if p.RoomID == roomID {
			delete(f.records, k)
		}
	}
	return nil
}

func (f *fakeParticipantRepo) ListByRoom(ctx context.Context, roomID string, page, limit int) ([]model.Participant, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []model.Participant
	for _, p := range f.records {
		if p.RoomID == roomID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (f *fakeParticipantRepo) CountByRoom(ctx context.Context, roomID string) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var n int64
	for _, p := range f.records {
		if p.RoomID == roomID {
			n++
		}
	}
	return n, nil
}

func (f *fakeParticipantRepo) has(roomID, userID string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.records[pKey(roomID, userID)]
	return ok
}

func (f *fakeParticipantRepo) role(roomID, userID string) model.ParticipantRole {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.records[pKey(roomID, userID)].Role
}

type fakeSeatCache struct {
	mu        sync.Mutex
	data      map[string][]model.Seat
	getErr    error
	refreshes int
}

func newFakeSeatCache() *fakeSeatCache {
	return &fakeSeatCache{data: make(map[string][]model.Seat)}
}

func (f *fakeSeatCache) Get(ctx context.Context, roomID string) ([]model.Seat, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.getErr != nil {
		return nil, f.getErr
	}
	seats, ok := f.data[roomID]
	if !ok {
		return nil, nil
	}
	// an empty cached list is a hit, not a miss
	out := make([]model.Seat, len(seats))
	copy(out, seats)
	return out, nil
}

func (f *fakeSeatCache) Set(ctx context.Context, roomID string, seats []model.Seat) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.data[roomID] = append([]model.Seat(nil), seats...)
	return nil
}

func (f *fakeSeatCache) Invalidate(ctx context.Context, roomID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.data, roomID)
	return nil
}

func (f *fakeSeatCache) Refresh(ctx context.Context, roomID string, seats []model.Seat) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.refreshes++
	f.data[roomID] = append([]model.Seat(nil), seats...)
	return nil
}

type fakeLease struct {
	mu      sync.Mutex
	holders map[string]string
}

func newFakeLease() *fakeLease {
	return &fakeLease{holders: make(map[string]string)}
}

func leaseKey(roomID string, seatNumber int) string {
	return fmt.Sprintf("%s:%d", roomID, seatNumber)
}

func (f *fakeLease) Reserve(ctx context.Context, roomID string, seatNumber int, userID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.holders[leaseKey(roomID, seatNumber)] = userID
	return nil
}

func (f *fakeLease) Get(ctx context.Context, roomID string, seatNumber int) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.holders[leaseKey(roomID, seatNumber)], nil
}

func (f *fakeLease) Clear(ctx context.Context, roomID string, seatNumber int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.holders, leaseKey(roomID, seatNumber))
	return nil
}

type broadcastEvent struct {
	RoomID  string
	MsgType string
}

type fakeBroadcaster struct {
	mu     sync.Mutex
	events []broadcastEvent
}

func (f *fakeBroadcaster) BroadcastToRoom(roomID string, msgType string, payload interface{}) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events = append(f.events, broadcastEvent{RoomID: roomID, MsgType: msgType})
}

func (f *fakeBroadcaster) BroadcastToAll(msgType string, payload interface{}) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events = append(f.events, broadcastEvent{MsgType: msgType})
}

func (f *fakeBroadcaster) sent(msgType string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, e := range f.events {
		if e.MsgType == msgType {
			return true
		}
	}
	return false
}
