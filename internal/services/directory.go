package services

import (
	"context"
	"errors"

	"orderrelay/internal/models"

	"github.com/jackc/pgx/v5"
)

// OwnerStore is the owner-lookup slice of the management store.
type OwnerStore interface {
	GetOwnerByRestaurantUID(ctx context.Context, uid string) (*models.RestaurantOwner, error)
	GetOwnerByRestaurantPhone(ctx context.Context, phone string) (*models.RestaurantOwner, error)
}

// OwnerDirectory maps a restaurant identifier carried on an incoming order
// to its owner record.
type OwnerDirectory struct {
	Store OwnerStore
}

// Resolve looks up an owner by restaurant UID first, then by restaurant
// phone. The UID is authoritative; phone is a best-effort fallback for
// orders that lack one. Returns (nil, nil) when neither matches.
func (d *OwnerDirectory) Resolve(ctx context.Context, restaurantUID, restaurantPhone string) (*models.RestaurantOwner, error) {
	if restaurantUID != "" {
		owner, err := d.Store.GetOwnerByRestaurantUID(ctx, restaurantUID)
		if err == nil {
			return owner, nil
		}
		if !errors.Is(err, pgx.ErrNoRows) {
			return nil, err
		}
	}
	if restaurantPhone != "" {
		owner, err := d.Store.GetOwnerByRestaurantPhone(ctx, restaurantPhone)
		if err == nil {
			return owner, nil
		}
		if !errors.Is(err, pgx.ErrNoRows) {
			return nil, err
		}
	}
	return nil, nil
}
