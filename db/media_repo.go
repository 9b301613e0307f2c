package db

import (
	"context"
	"fmt"
	"sort"

	"github.com/google/uuid"

	"github.com/roamlight/swipefeed/media"
)

// InsertDestinationMedia adds one catalog row. A zero ID is replaced with a
// fresh UUIDv7.
func (repo *Repository) InsertDestinationMedia(ctx context.Context, row DestinationMedia) error {
	if row.ID == uuid.Nil {
		id, err := uuid.NewV7()
		if err != nil {
			return fmt.Errorf("creating media id: %w", err)
		}
		row.ID = id
	}
	if _, err := media.ParseType(row.Type); err != nil {
		return fmt.Errorf("inserting destination media: %w", err)
	}

	query := `INSERT INTO destination_media
		(id, destination, slot, media_type, url, preview_url, progressive_low_url, progressive_full_url, time_of_day)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := repo.dbConn.ExecContext(ctx, query,
		row.ID, row.Destination, row.Slot, row.Type, row.URL,
		row.PreviewURL, row.ProgressiveLowURL, row.ProgressiveFullURL, row.TimeOfDay)
	if err != nil {
		return fmt.Errorf("inserting destination media for %s: %w", row.Destination, err)
	}
	return nil
}

// DestinationMedia returns a destination's media library in slot order.
// When timeOfDay is non-empty, rows tagged with that context are preferred
// per slot and untagged rows fill the rest; rows tagged with a different
// context are excluded.
func (repo *Repository) DestinationMedia(ctx context.Context, destination, timeOfDay string) (media.Library, error) {
	var rows []DestinationMedia
	query := `SELECT * FROM destination_media
		WHERE destination = ? AND (time_of_day = '' OR time_of_day = ?)
		ORDER BY slot ASC, time_of_day DESC`
	err := repo.dbConn.SelectContext(ctx, &rows, query, destination, timeOfDay)
	if err != nil {
		return nil, fmt.Errorf("getting media for %s: %w", destination, err)
	}

	// Keep one row per slot; the tagged row sorts first when present.
	bySlot := make(map[int]DestinationMedia, len(rows))
	slots := make([]int, 0, len(rows))
	for _, row := range rows {
		if existing, ok := bySlot[row.Slot]; ok {
			if existing.TimeOfDay == "" && row.TimeOfDay == timeOfDay && timeOfDay != "" {
				bySlot[row.Slot] = row
			}
			continue
		}
		bySlot[row.Slot] = row
		slots = append(slots, row.Slot)
	}
	sort.Ints(slots)

	lib := make(media.Library, 0, len(slots))
	for _, slot := range slots {
		row := bySlot[slot]
		typ, err := media.ParseType(row.Type)
		if err != nil {
			return nil, fmt.Errorf("row %s: %w", row.ID, err)
		}
		lib = append(lib, media.Entry{
			ID:                 row.ID,
			Type:               typ,
			URL:                row.URL,
			PreviewURL:         row.PreviewURL,
			ProgressiveLowURL:  row.ProgressiveLowURL,
			ProgressiveFullURL: row.ProgressiveFullURL,
		})
	}
	return lib, nil
}
