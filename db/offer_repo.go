package db

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/roamlight/swipefeed/feed"
)

// InsertOffer adds one flight offer. A zero ID is replaced with a fresh
// UUIDv7.
func (repo *Repository) InsertOffer(ctx context.Context, offer Offer) error {
	if offer.ID == uuid.Nil {
		id, err := uuid.NewV7()
		if err != nil {
			return fmt.Errorf("creating offer id: %w", err)
		}
		offer.ID = id
	}

	query := `INSERT INTO offers
		(id, origin, destination, destination_city, airline, departure, arrival, stops, price_cents, currency)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := repo.dbConn.ExecContext(ctx, query,
		offer.ID, offer.Origin, offer.Destination, offer.DestinationCity,
		offer.Airline, offer.Departure, offer.Arrival, offer.Stops,
		offer.PriceCents, offer.Currency)
	if err != nil {
		return fmt.Errorf("inserting offer %s-%s: %w", offer.Origin, offer.Destination, err)
	}
	return nil
}

// ListOffers returns offers matching the filter, cheapest first.
func (repo *Repository) ListOffers(ctx context.Context, filter OfferFilter) ([]Offer, error) {
	query := `SELECT * FROM offers WHERE 1=1`
	args := []any{}

	if filter.Origin != "" {
		query += ` AND origin = ?`
		args = append(args, filter.Origin)
	}
	if filter.Destination != "" {
		query += ` AND destination = ?`
		args = append(args, filter.Destination)
	}
	if filter.MaxPriceCents > 0 {
		query += ` AND price_cents <= ?`
		args = append(args, filter.MaxPriceCents)
	}
	query += ` ORDER BY price_cents ASC`
	if filter.Limit > 0 {
		query += ` LIMIT ?`
		args = append(args, filter.Limit)
	}

	var offers []Offer
	if err := repo.dbConn.SelectContext(ctx, &offers, query, args...); err != nil {
		return nil, fmt.Errorf("listing offers: %w", err)
	}
	return offers, nil
}

// CountOffers returns the total number of stored offers.
func (repo *Repository) CountOffers(ctx context.Context) (int, error) {
	var n int
	if err := repo.dbConn.GetContext(ctx, &n, `SELECT COUNT(*) FROM offers`); err != nil {
		return 0, fmt.Errorf("counting offers: %w", err)
	}
	return n, nil
}

// BuildItems joins offers with their destination's media library to produce
// the feed's input items. Offers without catalog media still appear, with an
// empty library (the feed renders their placeholder state).
func (repo *Repository) BuildItems(ctx context.Context, offers []Offer, timeOfDay string) ([]feed.Item, error) {
	items := make([]feed.Item, 0, len(offers))
	for _, offer := range offers {
		lib, err := repo.DestinationMedia(ctx, offer.Destination, timeOfDay)
		if err != nil {
			return nil, fmt.Errorf("building item for offer %s: %w", offer.ID, err)
		}
		items = append(items, feed.Item{
			ID:    offer.ID.String(),
			Media: lib,
		})
	}
	return items, nil
}
