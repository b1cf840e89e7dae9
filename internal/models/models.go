package models

import "fmt"

// Track is the normalized view of a catalog track.
//
// PreviewURL is nil when the catalog has no 30 second preview. ImageURL is empty when the album has no artwork.
type Track struct {
	ID         string  `json:"id"`
	Name       string  `json:"name"`
	Artist     string  `json:"artist"` // artist names joined with ", "
	Album      string  `json:"album"`
	URI        string  `json:"uri"`
	PreviewURL *string `json:"preview_url"`
	ImageURL   string  `json:"image_url"`
}

// String renders the track as "Artist - Name".
func (t Track) String() string {
	return fmt.Sprintf("%s - %s", t.Artist, t.Name)
}

// PlaylistOptions configures a new playlist.
//
// A nil Public means the playlist is public.
type PlaylistOptions struct {
	Public      *bool
	Description string
}

// IsPublic reports the visibility that will be sent to the API.
func (o PlaylistOptions) IsPublic() bool {
	return o.Public == nil || *o.Public
}

// Visibility returns a pointer suitable for [PlaylistOptions.Public].
func Visibility(public bool) *bool {
	return &public
}

// Playlist describes a playlist saved through the API.
type Playlist struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Public      bool     `json:"public"`
	URIs        []string `json:"uris"`
}
