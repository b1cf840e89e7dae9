package services

import (
	"strings"

	"github.com/desertthunder/jamlist/internal/models"
)

// imagePreference lists album image indexes from most to least preferred. Spotify orders images largest first, so
// index 2 is the small thumbnail.
var imagePreference = []int{2, 1, 0}

// NormalizeTrack converts a catalog track into a [models.Track].
func NormalizeTrack(t SpotifyTrack) models.Track {
	names := make([]string, 0, len(t.Artists))
	for _, a := range t.Artists {
		names = append(names, a.Name)
	}

	track := models.Track{
		ID:       t.ID,
		Name:     t.Name,
		Artist:   strings.Join(names, ", "),
		Album:    t.Album.Name,
		URI:      t.URI,
		ImageURL: albumImage(t.Album.Images),
	}
	if t.PreviewURL != nil && *t.PreviewURL != "" {
		preview := *t.PreviewURL
		track.PreviewURL = &preview
	}
	return track
}

// NormalizeTracks normalizes every item, returning an empty non-nil slice for no items.
func NormalizeTracks(items []SpotifyTrack) []models.Track {
	tracks := make([]models.Track, 0, len(items))
	for _, item := range items {
		tracks = append(tracks, NormalizeTrack(item))
	}
	return tracks
}

func albumImage(images []SpotifyImage) string {
	for _, i := range imagePreference {
		if i < len(images) && images[i].URL != "" {
			return images[i].URL
		}
	}
	return ""
}
