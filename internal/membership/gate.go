package membership

import (
	"context"
	"fmt"

	"github.com/thereayou/watchparty/internal/apperrors"
	"github.com/thereayou/watchparty/internal/models"
)

// Result of a join evaluation.
type Result int

const (
	Joined Result = iota
	AlreadyMember
)

func (r Result) String() string {
	if r == AlreadyMember {
		return "already_member"
	}
	return "joined"
}

// Registry is the slice of the room store the gate consults.
type Registry interface {
	GetRoom(ctx context.Context, roomID string) (*models.Room, error)
	AppendMemberGuarded(ctx context.Context, roomID, memberKey string) (bool, error)
}

// Gate decides whether a client may view a room's content and records the
// decision as membership.
type Gate struct {
	reg Registry
}

func NewGate(reg Registry) *Gate {
	return &Gate{reg: reg}
}

// Join admits memberKey into the room. Re-joining with a key already in the
// member list is an idempotent success. The capacity check is re-run by the
// store inside the guarded append, so two racing joins cannot push the room
// past maxUsers; the loser is reclassified from a fresh read.
func (g *Gate) Join(ctx context.Context, roomID, memberKey string) (Result, error) {
	if memberKey == "" {
		return 0, fmt.Errorf("%w: memberKey is required", apperrors.ErrValidation)
	}

	room, err := g.reg.GetRoom(ctx, roomID)
	if err != nil {
		return 0, err
	}

	if room.HasMember(memberKey) {
		return AlreadyMember, nil
	}
	if room.IsFull() {
		return 0, apperrors.ErrRoomFull
	}

	modified, err := g.reg.AppendMemberGuarded(ctx, roomID, memberKey)
	if err != nil {
		return 0, err
	}
	if modified {
		return Joined, nil
	}

	// Lost a race between the read and the append: either someone added
	// this key, or the last seat was taken.
	room, err = g.reg.GetRoom(ctx, roomID)
	if err != nil {
		return 0, err
	}
	if room.HasMember(memberKey) {
		return AlreadyMember, nil
	}
	return 0, apperrors.ErrRoomFull
}
