package membership

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/thereayou/watchparty/internal/apperrors"
	"github.com/thereayou/watchparty/internal/models"
)

// fakeRegistry mimics the store's semantics: the guarded append succeeds
// only when the key is absent and the room has a free seat.
type fakeRegistry struct {
	rooms   map[string]*models.Room
	appends int
}

func newFakeRegistry() *fakeRegistry {
	return &fakeRegistry{rooms: make(map[string]*models.Room)}
}

func (f *fakeRegistry) addRoom(id string, maxUsers int, users ...string) {
	if users == nil {
		users = []string{}
	}
	f.rooms[id] = &models.Room{
		GroupName: "movie night",
		VideoURL:  "https://example.com/video.mp4",
		MaxUsers:  maxUsers,
		Users:     users,
		CreatedAt: time.Now(),
	}
}

func (f *fakeRegistry) GetRoom(_ context.Context, roomID string) (*models.Room, error) {
	room, ok := f.rooms[roomID]
	if !ok {
		return nil, apperrors.ErrRoomNotFound
	}
	copied := *room
	copied.Users = append([]string(nil), room.Users...)
	return &copied, nil
}

func (f *fakeRegistry) AppendMemberGuarded(_ context.Context, roomID, memberKey string) (bool, error) {
	f.appends++
	room, ok := f.rooms[roomID]
	if !ok {
		return false, apperrors.ErrRoomNotFound
	}
	if room.HasMember(memberKey) || room.IsFull() {
		return false, nil
	}
	room.Users = append(room.Users, memberKey)
	return true, nil
}

func TestJoinAdmitsFirstMember(t *testing.T) {
	reg := newFakeRegistry()
	reg.addRoom("r1", 1)
	gate := NewGate(reg)

	result, err := gate.Join(context.Background(), "r1", "10.0.0.1")
	if err != nil {
		t.Fatalf("Join returned error: %v", err)
	}
	if result != Joined {
		t.Fatalf("result = %v, want Joined", result)
	}
	if got := reg.rooms["r1"].Users; len(got) != 1 || got[0] != "10.0.0.1" {
		t.Fatalf("users = %v, want [10.0.0.1]", got)
	}
}

func TestJoinIsIdempotent(t *testing.T) {
	reg := newFakeRegistry()
	reg.addRoom("r1", 5)
	gate := NewGate(reg)

	if _, err := gate.Join(context.Background(), "r1", "10.0.0.1"); err != nil {
		t.Fatalf("first join: %v", err)
	}
	result, err := gate.Join(context.Background(), "r1", "10.0.0.1")
	if err != nil {
		t.Fatalf("second join: %v", err)
	}
	if result != AlreadyMember {
		t.Fatalf("result = %v, want AlreadyMember", result)
	}
	if got := len(reg.rooms["r1"].Users); got != 1 {
		t.Fatalf("len(users) = %d, want 1", got)
	}
}

func TestJoinRejectsWhenFull(t *testing.T) {
	reg := newFakeRegistry()
	reg.addRoom("r1", 1, "10.0.0.1")
	gate := NewGate(reg)

	_, err := gate.Join(context.Background(), "r1", "10.0.0.2")
	if !errors.Is(err, apperrors.ErrRoomFull) {
		t.Fatalf("err = %v, want ErrRoomFull", err)
	}
	if got := reg.rooms["r1"].Users; len(got) != 1 || got[0] != "10.0.0.1" {
		t.Fatalf("users changed on rejected join: %v", got)
	}
}

func TestJoinUnknownRoom(t *testing.T) {
	gate := NewGate(newFakeRegistry())

	_, err := gate.Join(context.Background(), "missing", "10.0.0.1")
	if !errors.Is(err, apperrors.ErrRoomNotFound) {
		t.Fatalf("err = %v, want ErrRoomNotFound", err)
	}
}

func TestJoinEmptyKeyFailsValidation(t *testing.T) {
	reg := newFakeRegistry()
	reg.addRoom("r1", 5)
	gate := NewGate(reg)

	_, err := gate.Join(context.Background(), "r1", "")
	if !errors.Is(err, apperrors.ErrValidation) {
		t.Fatalf("err = %v, want ErrValidation", err)
	}
	if reg.appends != 0 {
		t.Fatalf("append attempted on invalid input")
	}
}

// raceRegistry lets another member grab the last seat between the gate's
// read and its append, forcing the gate down its reclassification path.
type raceRegistry struct {
	*fakeRegistry
	sneak string
}

func (r *raceRegistry) AppendMemberGuarded(ctx context.Context, roomID, memberKey string) (bool, error) {
	if r.sneak != "" {
		r.fakeRegistry.AppendMemberGuarded(ctx, roomID, r.sneak)
		r.sneak = ""
	}
	return r.fakeRegistry.AppendMemberGuarded(ctx, roomID, memberKey)
}

func TestJoinLosingRaceReportsFull(t *testing.T) {
	reg := newFakeRegistry()
	reg.addRoom("r1", 1)
	gate := NewGate(&raceRegistry{fakeRegistry: reg, sneak: "10.0.0.9"})

	_, err := gate.Join(context.Background(), "r1", "10.0.0.1")
	if !errors.Is(err, apperrors.ErrRoomFull) {
		t.Fatalf("err = %v, want ErrRoomFull", err)
	}
	if got := len(reg.rooms["r1"].Users); got != 1 {
		t.Fatalf("len(users) = %d, want 1 (cap must hold under race)", got)
	}
}

func TestJoinLosingRaceToOwnKeyReportsAlreadyMember(t *testing.T) {
	reg := newFakeRegistry()
	reg.addRoom("r1", 1)
	gate := NewGate(&raceRegistry{fakeRegistry: reg, sneak: "10.0.0.1"})

	result, err := gate.Join(context.Background(), "r1", "10.0.0.1")
	if err != nil {
		t.Fatalf("Join returned error: %v", err)
	}
	if result != AlreadyMember {
		t.Fatalf("result = %v, want AlreadyMember", result)
	}
}
