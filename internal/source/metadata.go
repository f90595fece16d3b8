package source

import (
	"os"
	"path/filepath"

	"github.com/dhowden/tag"
)

// TrackTags holds the textual metadata read from an audio file.
type TrackTags struct {
	Title  string
	Artist string
	Album  string
}

// ReadTags extracts title, artist, and album from the file at the given
// locator. A file that cannot be opened or carries no tags yields a TrackTags
// with the file name as title; tag reading is best effort.
func ReadTags(locator string) TrackTags {
	fallback := TrackTags{Title: filepath.Base(locator)}

	f, err := os.Open(locator)
	if err != nil {
		return fallback
	}
	defer f.Close()

	m, err := tag.ReadFrom(f)
	if err != nil {
		return fallback
	}

	tags := TrackTags{
		Title:  m.Title(),
		Artist: m.Artist(),
		Album:  m.Album(),
	}
	if tags.Title == "" {
		tags.Title = fallback.Title
	}
	return tags
}
