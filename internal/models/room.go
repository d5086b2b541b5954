package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Room is a watch-party room document. The users field holds opaque
// membership keys and only ever grows through the store's $addToSet union,
// so duplicates cannot appear.
type Room struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	GroupName string             `bson:"groupName" json:"groupName"`
	VideoURL  string             `bson:"videoURL" json:"videoURL"`
	MaxUsers  int                `bson:"maxUsers" json:"maxUsers"`
	Users     []string           `bson:"users" json:"users"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
}

func (r *Room) HasMember(key string) bool {
	for _, u := range r.Users {
		if u == key {
			return true
		}
	}
	return false
}

func (r *Room) IsFull() bool {
	return len(r.Users) >= r.MaxUsers
}
