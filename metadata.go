// metadata.go - Player-facing summary of a VGM document.

package vgm

import (
	"fmt"
	"math"
)

// SampleRate is the fixed rate VGM sample counts are expressed in.
const SampleRate = 44100

// MusicFile is implemented by parsed music files.
type MusicFile interface {
	// Metadata returns common metadata fields
	Metadata() MusicMetadata
	// Data returns the raw command stream
	Data() []byte
}

var _ MusicFile = (*Document)(nil)

// MusicMetadata contains the common fields a music player shows.
type MusicMetadata struct {
	Title        string     `json:"title"`
	Author       string     `json:"author"`
	Game         string     `json:"game"`
	System       string     `json:"system"`
	Date         string     `json:"date"`
	RippedBy     string     `json:"rippedBy"`
	Duration     float64    `json:"duration"` // seconds, whole stream
	LoopDuration float64    `json:"loopDuration"`
	DurationText string     `json:"durationText"`
	Chips        []ChipName `json:"chips"`
}

// Metadata summarizes the tag, timing and chips of d. English tag strings
// are preferred; Japanese ones fill in when the English field is empty.
func (d *Document) Metadata() MusicMetadata {
	m := MusicMetadata{
		Duration:     float64(d.header.Samples.Total) / SampleRate,
		LoopDuration: float64(d.header.Samples.Loop) / SampleRate,
		DurationText: FormatMinSec(int(d.header.Samples.Total), SampleRate),
	}
	if t := d.gd3; t != nil {
		m.Title = firstNonEmpty(t.TrackTitle, t.Japanese.TrackTitle)
		m.Author = firstNonEmpty(t.Composer, t.Japanese.Composer)
		m.Game = firstNonEmpty(t.GameName, t.Japanese.GameName)
		m.System = firstNonEmpty(t.System, t.Japanese.System)
		m.Date = t.ReleaseDate
		m.RippedBy = t.VGMBy
	}
	for _, f := range clockFields {
		if _, ok := d.header.Chips[f.chip]; ok {
			m.Chips = append(m.Chips, f.chip)
		}
	}
	return m
}

func firstNonEmpty(s ...string) string {
	for _, v := range s {
		if v != "" {
			return v
		}
	}
	return ""
}

// FormatMinSec renders a sample count as "mm:ss.cc". A rate of 0 means
// SampleRate.
func FormatMinSec(samples, rate int) string {
	if rate <= 0 {
		rate = SampleRate
	}
	millis := int(math.Round(float64(samples) / float64(rate) * 1000))
	minutes := millis / 60000
	seconds := millis / 1000 % 60
	centis := millis % 1000 / 10
	return fmt.Sprintf("%02d:%02d.%02d", minutes, seconds, centis)
}
