// gd3.go - GD3 track tag: eleven null-terminated UTF-16LE strings after a
// 12-byte header.

package vgm

import (
	"bytes"
	"unicode/utf16"

	"github.com/pkg/errors"
	"golang.org/x/text/encoding/unicode"
)

const (
	gd3Magic          = 0x20336447 // "Gd3 "
	gd3DefaultVersion = 0x100
	gd3HeaderSize     = 12
	gd3StringCount    = 11
)

var utf16LE = unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM)

// GD3Japanese holds the Japanese-language variants of the tag strings.
type GD3Japanese struct {
	TrackTitle string `json:"trackTitle"`
	GameName   string `json:"gameName"`
	System     string `json:"system"`
	Composer   string `json:"composer"`
}

// GD3Tag is the track metadata block referenced by the header GD3 offset.
type GD3Tag struct {
	Version     uint32      `json:"version"`
	TrackTitle  string      `json:"trackTitle"`
	GameName    string      `json:"gameName"`
	System      string      `json:"system"`
	Composer    string      `json:"composer"`
	ReleaseDate string      `json:"releaseDate"`
	VGMBy       string      `json:"vgmBy"`
	Notes       string      `json:"notes"`
	Japanese    GD3Japanese `json:"japanese"`
}

// EmptyGD3Tag returns a tag with every string empty.
func EmptyGD3Tag() GD3Tag {
	return GD3Tag{Version: gd3DefaultVersion}
}

// fields lists the strings in file order.
func (t *GD3Tag) fields() [gd3StringCount]*string {
	return [gd3StringCount]*string{
		&t.TrackTitle, &t.Japanese.TrackTitle,
		&t.GameName, &t.Japanese.GameName,
		&t.System, &t.Japanese.System,
		&t.Composer, &t.Japanese.Composer,
		&t.ReleaseDate, &t.VGMBy, &t.Notes,
	}
}

// ParseGD3Tag decodes a tag starting at b[0]. It returns EmptyGD3Tag and
// false when the signature is missing. Strings missing from a short body
// are left empty.
func ParseGD3Tag(b []byte) (GD3Tag, bool) {
	if len(b) < gd3HeaderSize || readUint32LE(b, 0) != gd3Magic {
		return EmptyGD3Tag(), false
	}
	t := GD3Tag{Version: readUint32LE(b, 4)}
	body := b[gd3HeaderSize:]
	if size := readUint32LE(b, 8); uint64(size) < uint64(len(body)) {
		body = body[:size]
	}
	dec := utf16LE.NewDecoder()
	for _, f := range t.fields() {
		end := utf16Terminator(body)
		if end < 0 {
			if len(body) >= 2 {
				s, _ := dec.Bytes(body[:len(body)&^1])
				*f = string(s)
			}
			break
		}
		s, err := dec.Bytes(body[:end])
		if err == nil {
			*f = string(s)
		}
		body = body[end+2:]
	}
	return t, true
}

// utf16Terminator returns the byte index of the first aligned 0x0000 unit.
func utf16Terminator(b []byte) int {
	for i := 0; i+1 < len(b); i += 2 {
		if b[i] == 0 && b[i+1] == 0 {
			return i
		}
	}
	return -1
}

// BodySize is the encoded length of the string block, terminators included.
func (t GD3Tag) BodySize() int {
	n := 0
	for _, f := range t.fields() {
		for _, r := range *f {
			n += 2 * len(utf16.Encode([]rune{r}))
		}
		n += 2
	}
	return n
}

// MarshalBinary encodes the tag with its 12-byte header. A zero Version is
// written as 1.00.
func (t GD3Tag) MarshalBinary() ([]byte, error) {
	version := t.Version
	if version == 0 {
		version = gd3DefaultVersion
	}
	var body bytes.Buffer
	enc := utf16LE.NewEncoder()
	for _, f := range t.fields() {
		s, err := enc.Bytes([]byte(*f))
		if err != nil {
			return nil, errors.Wrapf(err, "gd3: encode %q", *f)
		}
		body.Write(s)
		body.Write([]byte{0, 0})
	}
	out := make([]byte, 0, gd3HeaderSize+body.Len())
	out = appendUint32LE(out, gd3Magic)
	out = appendUint32LE(out, version)
	out = appendUint32LE(out, uint32(body.Len()))
	return append(out, body.Bytes()...), nil
}
