package main

import "github.com/charmbracelet/lipgloss"

// styles colors terminal output. lipgloss drops the colors when stdout is not a terminal.
var styles = newPalette(map[string]string{
	"title": "#1DB954",
	"ok":    "#04B575",
	"err":   "#FF0000",
	"warn":  "#FFA500",
	"help":  "#626262",
})

// palette holds a [lipgloss.Style] per kind of output line
type palette struct {
	title, ok, err, warn, help lipgloss.Style
}

func newPalette(colors map[string]string) *palette {
	fg := func(name string) lipgloss.Style {
		return lipgloss.NewStyle().Foreground(lipgloss.Color(colors[name]))
	}
	return &palette{
		title: fg("title").Bold(true),
		ok:    fg("ok").Bold(true),
		err:   fg("err").Bold(true),
		warn:  fg("warn"),
		help:  fg("help").Italic(true),
	}
}

func (p *palette) Title(s string) string { return p.title.Render(s) }
func (p *palette) OK(s string) string    { return p.ok.Render(s) }
func (p *palette) Err(s string) string   { return p.err.Render(s) }
func (p *palette) Warn(s string) string  { return p.warn.Render(s) }
func (p *palette) Help(s string) string  { return p.help.Render(s) }
