package formatter

import (
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/desertthunder/jamlist/internal/models"
	"github.com/desertthunder/jamlist/internal/shared"
	th "github.com/desertthunder/jamlist/internal/testing"
)

func sampleList() *TrackList {
	preview := "https://p.scdn.co/mp3-preview/1"
	return &TrackList{
		Title:       "Road Trip",
		Description: "Built from 2 queries",
		Tracks: []models.Track{
			{
				ID:         "1",
				Name:       "One More Time",
				Artist:     "Daft Punk",
				Album:      "Discovery",
				URI:        "spotify:track:1",
				PreviewURL: &preview,
				ImageURL:   "https://i.scdn.co/image/1",
			},
			{
				ID:     "2",
				Name:   "D.A.N.C.E., Pt. 2",
				Artist: "Justice",
				URI:    "spotify:track:2",
			},
		},
	}
}

func TestExporters(t *testing.T) {
	t.Run("ExportToCSV", func(t *testing.T) {
		data, err := ExportToCSV(sampleList())
		if err != nil {
			t.Fatalf("ExportToCSV failed: %v", err)
		}

		output := string(data)
		if !strings.Contains(output, "ID,Name,Artist,Album,URI,Preview URL,Image URL") {
			t.Errorf("CSV missing headers, got: %s", output)
		}
		if !strings.Contains(output, "1,One More Time,Daft Punk,Discovery,spotify:track:1,https://p.scdn.co/mp3-preview/1,https://i.scdn.co/image/1") {
			t.Errorf("CSV missing first track, got: %s", output)
		}
		if !strings.Contains(output, `"D.A.N.C.E., Pt. 2"`) {
			t.Errorf("CSV should quote fields with commas, got: %s", output)
		}
		if lines := strings.Count(strings.TrimSpace(output), "\n"); lines != 2 {
			t.Errorf("expected header plus 2 rows, got %d newlines", lines)
		}
	})

	t.Run("ExportToMarkdown", func(t *testing.T) {
		data, err := ExportToMarkdown(sampleList())
		if err != nil {
			t.Fatalf("ExportToMarkdown failed: %v", err)
		}

		output := string(data)
		for _, want := range []string{
			"# Road Trip",
			"**Description**: Built from 2 queries",
			"**Tracks**: 2",
			"1. Daft Punk - One More Time (Discovery) [preview](https://p.scdn.co/mp3-preview/1)",
			"2. Justice - D.A.N.C.E., Pt. 2\n",
		} {
			if !strings.Contains(output, want) {
				t.Errorf("Markdown missing %q, got: %s", want, output)
			}
		}
	})

	t.Run("ExportToText", func(t *testing.T) {
		data, err := ExportToText(sampleList())
		if err != nil {
			t.Fatalf("ExportToText failed: %v", err)
		}

		output := string(data)
		if !strings.HasPrefix(output, "Road Trip\n") {
			t.Errorf("text should start with the title, got: %s", output)
		}
		if !strings.Contains(output, "2. Justice - D.A.N.C.E., Pt. 2  spotify:track:2") {
			t.Errorf("text missing track line, got: %s", output)
		}
	})

	t.Run("ExportToJSON", func(t *testing.T) {
		data, err := ExportToJSON(sampleList(), false)
		if err != nil {
			t.Fatalf("ExportToJSON failed: %v", err)
		}

		output := string(data)
		if !strings.Contains(output, `"preview_url":null`) {
			t.Errorf("missing preview should encode as null, got: %s", output)
		}
		if !strings.Contains(output, `"title":"Road Trip"`) {
			t.Errorf("JSON missing title, got: %s", output)
		}
	})

	t.Run("Empty List", func(t *testing.T) {
		list := &TrackList{Title: "Nothing"}
		for _, f := range []Format{FormatCSV, FormatMarkdown, FormatText, FormatJSON} {
			if _, err := Render(list, f); err != nil {
				t.Errorf("%s: expected no error, got %v", f, err)
			}
		}
	})
}

func TestParseFormat(t *testing.T) {
	tc := []struct {
		in   string
		want Format
	}{
		{in: "", want: FormatText},
		{in: "TXT", want: FormatText},
		{in: "json", want: FormatJSON},
		{in: "csv", want: FormatCSV},
		{in: "md", want: FormatMarkdown},
		{in: " markdown ", want: FormatMarkdown},
	}

	for _, tt := range tc {
		got, err := ParseFormat(tt.in)
		if err != nil || got != tt.want {
			t.Errorf("ParseFormat(%q) = %q, %v; want %q", tt.in, got, err, tt.want)
		}
	}

	if _, err := ParseFormat("xml"); !errors.Is(err, shared.ErrInvalidArgument) {
		t.Errorf("expected invalid argument error, got %v", err)
	}
}

func TestWriteExport(t *testing.T) {
	t.Run("WithDefaultPath", func(t *testing.T) {
		tempDir := t.TempDir()
		originalDir := th.MustGetwd(t)
		th.MustChdir(t, tempDir)
		defer th.MustChdir(t, originalDir)

		path, err := WriteExport(sampleList(), FormatMarkdown, "")
		if err != nil {
			t.Fatalf("WriteExport failed: %v", err)
		}
		if path != "road-trip.md" {
			t.Errorf("expected road-trip.md, got %s", path)
		}
		th.AssertFileExists(t, path)

		if content := th.MustReadFile(t, path); !strings.HasPrefix(content, "# Road Trip") {
			t.Errorf("unexpected file content: %s", content)
		}
	})

	t.Run("WithCustomPath", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "exports", "mix.csv")

		got, err := WriteExport(sampleList(), FormatCSV, path)
		if err != nil {
			t.Fatalf("WriteExport failed: %v", err)
		}
		if got != path {
			t.Errorf("expected %s, got %s", path, got)
		}
		th.AssertFileExists(t, path)
	})

	t.Run("Unknown Format", func(t *testing.T) {
		if _, err := WriteExport(sampleList(), Format("xml"), filepath.Join(t.TempDir(), "x")); err == nil {
			t.Error("expected error for unknown format")
		}
	})
}

func TestSlug(t *testing.T) {
	tc := map[string]string{
		"Road Trip":          "road-trip",
		"  Late -- Night!! ": "late-night",
		"Café del Mar 2025":  "café-del-mar-2025",
		"***":                "tracks",
	}
	for in, want := range tc {
		if got := Slug(in); got != want {
			t.Errorf("Slug(%q) = %q, want %q", in, got, want)
		}
	}
}
