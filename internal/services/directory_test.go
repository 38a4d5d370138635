package services

import (
	"context"
	"testing"
	"time"

	"orderrelay/internal/models"

	"github.com/stretchr/testify/require"
)

func seedOwner(m *memStore, id, uid, restaurantPhone string) *models.RestaurantOwner {
	owner := &models.RestaurantOwner{
		ID:              id,
		Email:           id + "@example.com",
		RestaurantName:  "Cafe " + id,
		RestaurantPhone: restaurantPhone,
		ApprovalStatus:  models.ApprovalApproved,
		CreatedAt:       time.Now().UTC(),
	}
	if uid != "" {
		owner.RestaurantUID = &uid
	}
	m.owners[id] = owner
	return owner
}

func TestResolveByUID(t *testing.T) {
	m := newMemStore()
	seedOwner(m, "owner-1", "R1", "9000000001")
	d := &OwnerDirectory{Store: m}

	owner, err := d.Resolve(context.Background(), "R1", "")
	require.NoError(t, err)
	require.NotNil(t, owner)
	require.Equal(t, "owner-1", owner.ID)
}

func TestResolveFallsBackToPhone(t *testing.T) {
	m := newMemStore()
	seedOwner(m, "owner-1", "R1", "9000000001")
	d := &OwnerDirectory{Store: m}

	owner, err := d.Resolve(context.Background(), "unknown-uid", "9000000001")
	require.NoError(t, err)
	require.NotNil(t, owner)
	require.Equal(t, "owner-1", owner.ID)
}

func TestResolveNoMatch(t *testing.T) {
	m := newMemStore()
	seedOwner(m, "owner-1", "R1", "9000000001")
	d := &OwnerDirectory{Store: m}

	owner, err := d.Resolve(context.Background(), "R2", "9000000002")
	require.NoError(t, err)
	require.Nil(t, owner)
}
