package keyword

import (
	"testing"
	"time"

	"seo-content-generator/internal/pkg/common"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	admin = common.Viewer{UserID: "admin-1", Role: common.RoleAdmin}
	alice = common.Viewer{UserID: "alice", Role: common.RoleEmployee}
	bob   = common.Viewer{UserID: "bob", Role: common.RoleEmployee}
)

func TestAddEnforcesUniquePerOwner(t *testing.T) {
	s := NewMemoryStore()

	row, err := s.Add(alice, "  Banana Bread ", "")
	require.NoError(t, err)
	assert.Equal(t, "Banana Bread", row.Keyword)
	assert.Equal(t, "alice", row.OwnerID)
	assert.Equal(t, StatusPending, row.Status)

	_, err = s.Add(alice, "banana bread", "")
	var ce *common.CustomError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, common.ErrCodeConflict, ce.Code)

	_, err = s.Add(bob, "banana bread", "")
	assert.NoError(t, err)
}

func TestAddOwnership(t *testing.T) {
	s := NewMemoryStore()

	_, err := s.Add(alice, "paleo breakfast", "bob")
	assert.ErrorIs(t, err, common.ErrForbidden)

	row, err := s.Add(admin, "paleo breakfast", "bob")
	require.NoError(t, err)
	assert.Equal(t, "bob", row.OwnerID)
	assert.Equal(t, "admin-1", row.CreatedBy)

	_, err = s.Add(alice, " ", "")
	assert.True(t, common.IsValidationError(err))
}

func TestListAndPendingRespectRoles(t *testing.T) {
	s := NewMemoryStore()
	a1, _ := s.Add(alice, "one", "")
	_, _ = s.Add(bob, "two", "")
	a3, _ := s.Add(alice, "three", "")

	rows := s.List(alice)
	require.Len(t, rows, 2)
	assert.Equal(t, a1.ID, rows[0].ID)
	assert.Equal(t, a3.ID, rows[1].ID)
	assert.Len(t, s.List(admin), 3)

	at := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	require.NoError(t, s.MarkPublished(a1.ID, 7, "https://example.com/one", at))

	pending := s.Pending(alice)
	require.Len(t, pending, 1)
	assert.Equal(t, "three", pending[0].Keyword)

	got, err := s.Get(admin, a1.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusPublished, got.Status)
	assert.Equal(t, 7, got.PostID)
	assert.Equal(t, at, *got.PublicationDate)
}

func TestGetAndDelete(t *testing.T) {
	s := NewMemoryStore()
	row, _ := s.Add(alice, "one", "")

	_, err := s.Get(bob, row.ID)
	assert.ErrorIs(t, err, common.ErrForbidden)
	assert.ErrorIs(t, s.Delete(bob, row.ID), common.ErrForbidden)
	_, err = s.Get(alice, "missing")
	assert.ErrorIs(t, err, common.ErrNotFound)

	require.NoError(t, s.Delete(alice, row.ID))
	assert.Empty(t, s.List(admin))

	_, err = s.Add(alice, "one", "")
	assert.NoError(t, err)
	assert.ErrorIs(t, s.MarkPublished("missing", 1, "", time.Now()), common.ErrNotFound)
}
