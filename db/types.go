package db

import (
	"time"

	"github.com/google/uuid"
)

// DestinationMedia is one catalog row: a photo/video/embed for a
// destination, ordered by slot. TimeOfDay is empty for always-on rows or
// one of "morning", "day", "evening", "night" for context-specific ones.
type DestinationMedia struct {
	ID                 uuid.UUID `db:"id"`
	Destination        string    `db:"destination"`
	Slot               int       `db:"slot"`
	Type               string    `db:"media_type"`
	URL                string    `db:"url"`
	PreviewURL         string    `db:"preview_url"`
	ProgressiveLowURL  string    `db:"progressive_low_url"`
	ProgressiveFullURL string    `db:"progressive_full_url"`
	TimeOfDay          string    `db:"time_of_day"`
	CreatedAt          time.Time `db:"created_at"`
}

// Offer is one flight offer row.
type Offer struct {
	ID              uuid.UUID `db:"id"`
	Origin          string    `db:"origin"`
	Destination     string    `db:"destination"`
	DestinationCity string    `db:"destination_city"`
	Airline         string    `db:"airline"`
	Departure       time.Time `db:"departure"`
	Arrival         time.Time `db:"arrival"`
	Stops           int       `db:"stops"`
	PriceCents      int64     `db:"price_cents"`
	Currency        string    `db:"currency"`
	CreatedAt       time.Time `db:"created_at"`
}

// OfferFilter narrows ListOffers. Zero fields are ignored.
type OfferFilter struct {
	Origin        string
	Destination   string
	MaxPriceCents int64
	Limit         int
}
