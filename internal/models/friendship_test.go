package models

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestPairKey_OrderIndependent(t *testing.T) {
	a := uuid.New()
	b := uuid.New()

	assert.Equal(t, PairKey(a, b), PairKey(b, a))
	assert.NotEqual(t, PairKey(a, b), PairKey(a, uuid.New()))
}

func TestPairKey_SortedEndpoints(t *testing.T) {
	a := uuid.MustParse("00000000-0000-0000-0000-000000000001")
	b := uuid.MustParse("00000000-0000-0000-0000-000000000002")

	want := a.String() + "|" + b.String()
	assert.Equal(t, want, PairKey(a, b))
	assert.Equal(t, want, PairKey(b, a))
}

func TestOther(t *testing.T) {
	sender := uuid.New()
	recipient := uuid.New()
	edge := &Friendship{SenderID: sender, RecipientID: recipient}

	assert.Equal(t, recipient, edge.Other(sender))
	assert.Equal(t, sender, edge.Other(recipient))
}

func TestVisibilityValid(t *testing.T) {
	assert.True(t, VisibilityPublic.Valid())
	assert.True(t, VisibilityPrivate.Valid())
	assert.True(t, VisibilityFriendsOnly.Valid())
	assert.False(t, Visibility("everyone").Valid())
	assert.False(t, Visibility("").Valid())
}
