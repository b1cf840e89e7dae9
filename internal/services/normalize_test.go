package services

import "testing"

func TestNormalizeTrack(t *testing.T) {
	t.Run("Image Fallback", func(t *testing.T) {
		tc := []struct {
			name   string
			images []SpotifyImage
			want   string
		}{
			{name: "Third", images: []SpotifyImage{{URL: "a"}, {URL: "b"}, {URL: "c"}, {URL: "d"}}, want: "c"},
			{name: "Empty Third", images: []SpotifyImage{{URL: "a"}, {URL: "b"}, {URL: ""}}, want: "b"},
			{name: "Second", images: []SpotifyImage{{URL: "a"}, {URL: "b"}}, want: "b"},
			{name: "First", images: []SpotifyImage{{URL: "a"}}, want: "a"},
			{name: "All Empty", images: []SpotifyImage{{}, {}, {}}, want: ""},
			{name: "None", images: nil, want: ""},
		}

		for _, tt := range tc {
			t.Run(tt.name, func(t *testing.T) {
				got := NormalizeTrack(SpotifyTrack{Album: SpotifyAlbum{Images: tt.images}})
				if got.ImageURL != tt.want {
					t.Errorf("expected %q, got %q", tt.want, got.ImageURL)
				}
			})
		}
	})

	t.Run("Artists", func(t *testing.T) {
		tc := []struct {
			artists []SpotifyArtist
			want    string
		}{
			{artists: nil, want: ""},
			{artists: []SpotifyArtist{{Name: "Bicep"}}, want: "Bicep"},
			{artists: []SpotifyArtist{{Name: "Disclosure"}, {Name: "Sam Smith"}, {Name: "Eliza Doolittle"}}, want: "Disclosure, Sam Smith, Eliza Doolittle"},
		}

		for _, tt := range tc {
			if got := NormalizeTrack(SpotifyTrack{Artists: tt.artists}).Artist; got != tt.want {
				t.Errorf("expected %q, got %q", tt.want, got)
			}
		}
	})

	t.Run("Preview And Identity", func(t *testing.T) {
		preview := "https://p.scdn.co/mp3-preview/abc"
		got := NormalizeTrack(SpotifyTrack{
			ID:         "abc",
			Name:       "Glue",
			URI:        "spotify:track:abc",
			PreviewURL: &preview,
			Album:      SpotifyAlbum{Name: "Isles"},
		})

		if got.ID != "abc" || got.Name != "Glue" || got.URI != "spotify:track:abc" || got.Album != "Isles" {
			t.Errorf("unexpected track %+v", got)
		}
		if got.PreviewURL == nil || *got.PreviewURL != preview {
			t.Errorf("expected preview URL, got %v", got.PreviewURL)
		}

		preview = "changed"
		if *got.PreviewURL == "changed" {
			t.Error("normalized track should not alias the response")
		}
	})

	t.Run("NormalizeTracks Empty", func(t *testing.T) {
		if got := NormalizeTracks(nil); got == nil || len(got) != 0 {
			t.Errorf("expected empty non-nil slice, got %#v", got)
		}
	})
}
