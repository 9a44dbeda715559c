package vgm

import (
	"reflect"
	"testing"
)

func TestFormatMinSec(t *testing.T) {
	tests := []struct {
		samples, rate int
		want          string
	}{
		{0, SampleRate, "00:00.00"},
		{44100, SampleRate, "00:01.00"},
		{66150, SampleRate, "00:01.50"},
		{44100 * 61, SampleRate, "01:01.00"},
		{2*(0xAC44+0x1588) + 16, SampleRate, "00:02.25"},
		{441, 0, "00:00.01"},
		{735, 735, "00:01.00"},
	}
	for _, tt := range tests {
		if got := FormatMinSec(tt.samples, tt.rate); got != tt.want {
			t.Errorf("FormatMinSec(%d, %d) = %q, want %q", tt.samples, tt.rate, got, tt.want)
		}
	}
}

func TestDocument_Metadata(t *testing.T) {
	d := buildSong(t)
	d.SetChip(ChipSN76489, ChipConfig{Clock: 3579545})
	tag, _ := d.GD3Tag()
	tag.Composer = ""
	d.SetGD3Tag(&tag)

	m := d.Metadata()
	if m.Title != "Green Hill Zone" || m.Game != "Sonic the Hedgehog" || m.System != "Sega Mega Drive" {
		t.Errorf("metadata strings = %+v", m)
	}
	if m.Author != "中村正人" {
		t.Errorf("Author = %q, want the Japanese composer as fallback", m.Author)
	}
	if m.Date != "1991-06-23" || m.RippedBy != "ripper" {
		t.Errorf("date %q ripped by %q", m.Date, m.RippedBy)
	}
	wantChips := []ChipName{ChipSN76489, ChipYM2413, ChipYM2612}
	if !reflect.DeepEqual(m.Chips, wantChips) {
		t.Errorf("Chips = %v, want %v", m.Chips, wantChips)
	}
	total := ym2413Tune(t).TotalSamples()
	if m.Duration != float64(total)/SampleRate {
		t.Errorf("Duration = %v", m.Duration)
	}
	if m.DurationText != FormatMinSec(total, SampleRate) {
		t.Errorf("DurationText = %q", m.DurationText)
	}
}

func TestDocument_MetadataWithoutTag(t *testing.T) {
	m := NewDocument().Metadata()
	if m.Title != "" || m.Chips != nil || m.Duration != 0 {
		t.Errorf("empty document metadata = %+v", m)
	}
}
