// Package media defines the media entries attached to feed items and the
// HTTP prefetcher that checks their readiness ahead of display.
package media

import (
	"fmt"

	"github.com/google/uuid"
)

// Type identifies the kind of a media entry.
type Type uint8

const (
	// TypePhoto is a still image rendered directly.
	TypePhoto Type = iota + 1

	// TypeVideo is a video file played by an in-app player.
	TypeVideo

	// TypeEmbeddedVideo is a video hosted by an external embed provider.
	TypeEmbeddedVideo
)

// String returns the storage/wire name of the type.
func (t Type) String() string {
	switch t {
	case TypePhoto:
		return "photo"
	case TypeVideo:
		return "video"
	case TypeEmbeddedVideo:
		return "embedded_video"
	default:
		return "unknown"
	}
}

// IsVideo reports whether the entry needs a playback resource when displayed.
func (t Type) IsVideo() bool {
	return t == TypeVideo || t == TypeEmbeddedVideo
}

// ParseType converts a storage name back into a Type.
func ParseType(s string) (Type, error) {
	switch s {
	case "photo":
		return TypePhoto, nil
	case "video":
		return TypeVideo, nil
	case "embedded_video":
		return TypeEmbeddedVideo, nil
	default:
		return 0, fmt.Errorf("unknown media type %q", s)
	}
}

// Entry is one photo, video, or embedded video associated with a
// destination. Entries are immutable once constructed.
type Entry struct {
	ID   uuid.UUID
	Type Type

	// URL is the primary media source.
	URL string

	// PreviewURL is an optional thumbnail/poster shown before the
	// primary source is ready.
	PreviewURL string

	// ProgressiveLowURL and ProgressiveFullURL form an optional
	// progressive pair: a cheap low-res placeholder swapped for the
	// full-res asset once loaded.
	ProgressiveLowURL  string
	ProgressiveFullURL string
}

// PrefetchURL returns the cheapest URL worth fetching to establish
// readiness: the progressive placeholder if present, then the preview,
// then the primary source.
func (e Entry) PrefetchURL() string {
	if e.ProgressiveLowURL != "" {
		return e.ProgressiveLowURL
	}
	if e.PreviewURL != "" {
		return e.PreviewURL
	}
	return e.URL
}

// Library is an item's ordered list of media entries.
type Library []Entry

// FirstPhoto returns the slot of the first photo entry in list order.
// The bool is false when the library contains no photo.
func (l Library) FirstPhoto() (int, bool) {
	for i, e := range l {
		if e.Type == TypePhoto {
			return i, true
		}
	}
	return 0, false
}

// HasVideo reports whether any entry is video-typed.
func (l Library) HasVideo() bool {
	for _, e := range l {
		if e.Type.IsVideo() {
			return true
		}
	}
	return false
}
