package db

import (
	"context"
	"fmt"
	"time"
)

// SeedDemo populates an empty database with a small set of offers and
// catalog media so the demo has something to show. No-op when offers exist.
func (repo *Repository) SeedDemo(ctx context.Context) error {
	n, err := repo.CountOffers(ctx)
	if err != nil {
		return err
	}
	if n > 0 {
		return nil
	}

	depart := time.Now().Add(14 * 24 * time.Hour).Truncate(time.Hour)

	offers := []Offer{
		{Origin: "SFO", Destination: "LIS", DestinationCity: "Lisbon", Airline: "TP", Departure: depart, Arrival: depart.Add(11 * time.Hour), Stops: 1, PriceCents: 48900, Currency: "USD"},
		{Origin: "SFO", Destination: "TYO", DestinationCity: "Tokyo", Airline: "NH", Departure: depart.Add(2 * time.Hour), Arrival: depart.Add(13 * time.Hour), PriceCents: 76400, Currency: "USD"},
		{Origin: "SFO", Destination: "CDG", DestinationCity: "Paris", Airline: "AF", Departure: depart.Add(4 * time.Hour), Arrival: depart.Add(15 * time.Hour), PriceCents: 59900, Currency: "USD"},
		{Origin: "SFO", Destination: "MEX", DestinationCity: "Mexico City", Airline: "AM", Departure: depart.Add(6 * time.Hour), Arrival: depart.Add(10 * time.Hour), PriceCents: 28700, Currency: "USD"},
		{Origin: "SFO", Destination: "REK", DestinationCity: "Reykjavik", Airline: "FI", Departure: depart.Add(8 * time.Hour), Arrival: depart.Add(16 * time.Hour), PriceCents: 51200, Currency: "USD"},
	}
	for _, offer := range offers {
		if err := repo.InsertOffer(ctx, offer); err != nil {
			return err
		}
	}

	mediaRows := []DestinationMedia{
		{Destination: "LIS", Slot: 0, Type: "video", URL: "https://cdn.example.com/lis/tram.mp4", PreviewURL: "https://cdn.example.com/lis/tram.jpg"},
		{Destination: "LIS", Slot: 1, Type: "photo", URL: "https://cdn.example.com/lis/alfama.jpg", ProgressiveLowURL: "https://cdn.example.com/lis/alfama_low.jpg", ProgressiveFullURL: "https://cdn.example.com/lis/alfama_full.jpg"},
		{Destination: "TYO", Slot: 0, Type: "photo", URL: "https://cdn.example.com/tyo/shibuya.jpg"},
		{Destination: "TYO", Slot: 0, Type: "photo", URL: "https://cdn.example.com/tyo/shibuya_night.jpg", TimeOfDay: "night"},
		{Destination: "TYO", Slot: 1, Type: "embedded_video", URL: "https://embed.example.com/tyo/crossing"},
		{Destination: "CDG", Slot: 0, Type: "photo", URL: "https://cdn.example.com/par/seine.jpg"},
		{Destination: "MEX", Slot: 0, Type: "video", URL: "https://cdn.example.com/mex/zocalo.mp4", PreviewURL: "https://cdn.example.com/mex/zocalo.jpg"},
		{Destination: "MEX", Slot: 1, Type: "photo", URL: "https://cdn.example.com/mex/coyoacan.jpg"},
		{Destination: "REK", Slot: 0, Type: "photo", URL: "https://cdn.example.com/rek/aurora.jpg", TimeOfDay: "night"},
		{Destination: "REK", Slot: 0, Type: "photo", URL: "https://cdn.example.com/rek/harbor.jpg"},
	}
	for _, row := range mediaRows {
		if err := repo.InsertDestinationMedia(ctx, row); err != nil {
			return fmt.Errorf("seeding media: %w", err)
		}
	}
	return nil
}
