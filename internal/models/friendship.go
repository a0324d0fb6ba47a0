package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// FriendshipStatus is the state of an edge in the friend graph.
type FriendshipStatus string

const (
	StatusPending  FriendshipStatus = "pending"
	StatusAccepted FriendshipStatus = "accepted"
	StatusRejected FriendshipStatus = "rejected"
	StatusBlocked  FriendshipStatus = "blocked"
)

// Friendship is a directed edge from SenderID to RecipientID. PairKey is the
// canonical unordered pair; a partial unique index on it (status <> 'rejected',
// created in repository.AutoMigrate) keeps at most one active edge per pair
// even under concurrent requests.
type Friendship struct {
	ID          uuid.UUID        `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	SenderID    uuid.UUID        `json:"sender_id" gorm:"type:uuid;not null;index"`
	RecipientID uuid.UUID        `json:"recipient_id" gorm:"type:uuid;not null;index"`
	PairKey     string           `json:"-" gorm:"not null;index"`
	Status      FriendshipStatus `json:"status" gorm:"type:varchar(20);not null;default:'pending'"`
	CreatedAt   time.Time        `json:"created_at"`
	UpdatedAt   time.Time        `json:"updated_at"`

	Sender    User `json:"-" gorm:"foreignKey:SenderID"`
	Recipient User `json:"-" gorm:"foreignKey:RecipientID"`
}

// PairKey canonicalizes an unordered user pair.
func PairKey(a, b uuid.UUID) string {
	s1, s2 := a.String(), b.String()
	if strings.Compare(s1, s2) > 0 {
		s1, s2 = s2, s1
	}
	return s1 + "|" + s2
}

// Other returns the endpoint of the edge that is not userID.
func (f *Friendship) Other(userID uuid.UUID) uuid.UUID {
	if f.SenderID == userID {
		return f.RecipientID
	}
	return f.SenderID
}

func (Friendship) TableName() string {
	return "friendships"
}
