// data_stream.go - Command stream codec with sample and loop bookkeeping.

package vgm

import "github.com/pkg/errors"

// DataStream is an ordered list of commands together with the totals a VGM
// header needs: total samples, samples from the loop point to the end, and
// the loop point's position as a command index and as a byte offset.
type DataStream struct {
	commands     []Command
	byteLength   int
	totalSamples int
	loopSamples  int
	hasLoop      bool
	loopIndex    int
	loopByte     int
}

// NewDataStream returns an empty stream with no loop point. The zero value
// is ready to use as well.
func NewDataStream() *DataStream {
	return &DataStream{}
}

// Push appends c and accumulates its wait. A command failing Validate is
// not appended, so the totals always match the bytes Build produces.
func (s *DataStream) Push(c Command) error {
	if err := c.Validate(); err != nil {
		return err
	}
	s.commands = append(s.commands, c)
	s.byteLength += c.Size()
	n := WaitSamplesOf(c)
	s.totalSamples += n
	if s.HasLoop() {
		s.loopSamples += n
	}
	return nil
}

// MarkLoopPoint sets the loop point before the next pushed command. Marking
// again moves the loop point and restarts the loop sample count.
func (s *DataStream) MarkLoopPoint() {
	s.hasLoop = true
	s.loopIndex = len(s.commands)
	s.loopByte = s.byteLength
	s.loopSamples = 0
}

// ClearLoopPoint removes the loop point.
func (s *DataStream) ClearLoopPoint() {
	s.hasLoop, s.loopIndex, s.loopByte, s.loopSamples = false, 0, 0, 0
}

// Commands returns a copy of the command list.
func (s *DataStream) Commands() []Command {
	return append([]Command(nil), s.commands...)
}

func (s *DataStream) Len() int { return len(s.commands) }

// ByteLength is the encoded length, the plain sum of command sizes.
func (s *DataStream) ByteLength() int { return s.byteLength }

func (s *DataStream) TotalSamples() int { return s.totalSamples }

// LoopSamples is the wait total from the loop point to the end, or 0 when
// there is no loop.
func (s *DataStream) LoopSamples() int { return s.loopSamples }

func (s *DataStream) HasLoop() bool { return s.hasLoop }

// LoopIndexOffset is the number of commands before the loop point, or -1.
func (s *DataStream) LoopIndexOffset() int {
	if !s.hasLoop {
		return -1
	}
	return s.loopIndex
}

// LoopByteOffset is the encoded size of the commands before the loop point,
// or -1.
func (s *DataStream) LoopByteOffset() int {
	if !s.hasLoop {
		return -1
	}
	return s.loopByte
}

// Build concatenates the encoded commands.
func (s *DataStream) Build() []byte {
	out := make([]byte, 0, s.byteLength)
	for _, c := range s.commands {
		out = c.AppendTo(out)
	}
	return out
}

// BuildDataStream encodes cmds back to back.
func BuildDataStream(cmds []Command) ([]byte, error) {
	s := NewDataStream()
	for i, c := range cmds {
		if err := s.Push(c); err != nil {
			return nil, errors.Wrapf(err, "command %d", i)
		}
	}
	return s.Build(), nil
}

// ParseDataStream decodes commands from buf starting at dataStart until an
// End command. loopPoint is the absolute offset of the loop point, or 0 for
// none. Running out of input before End fails with ErrTruncatedStream.
func ParseDataStream(buf []byte, dataStart, loopPoint int) (*DataStream, error) {
	if loopPoint <= 0 {
		loopPoint = -1
	}
	return parseDataStream(buf, dataStart, loopPoint)
}

// parseDataStream is ParseDataStream with a negative loopPoint meaning none,
// so that a loop at offset 0 of a bare stream can be expressed.
func parseDataStream(buf []byte, dataStart, loopPoint int) (*DataStream, error) {
	s := NewDataStream()
	off := dataStart
	for {
		if off >= len(buf) {
			return nil, decodeError(ErrTruncatedStream, buf, off)
		}
		if off == loopPoint {
			s.MarkLoopPoint()
		}
		c, err := DecodeCommand(buf, off)
		if err != nil {
			return nil, err
		}
		if err := s.Push(c); err != nil {
			return nil, decodeError(err, buf, off)
		}
		off += c.Size()
		if _, ok := c.(End); ok {
			return s, nil
		}
	}
}
