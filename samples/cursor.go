package samples

import (
	"fmt"

	"github.com/dargueta/imgreformer"
)

// Cursor is a forward-only read position in a [Stream]. Each cursor has its own
// position, so any number of cursors may read the same stream at once.
type Cursor struct {
	stream   *Stream
	position int
}

// HasNext returns true if at least one sample remains.
func (c *Cursor) HasNext() bool {
	return c.position < len(c.stream.samples)
}

// Remaining returns the number of samples left to read.
func (c *Cursor) Remaining() int {
	return len(c.stream.samples) - c.position
}

// Position returns the index of the next sample to be read.
func (c *Cursor) Position() int {
	return c.position
}

// Peek returns the next sample without advancing.
func (c *Cursor) Peek() (uint8, error) {
	if !c.HasNext() {
		return 0, c.exhaustedError()
	}
	return c.stream.samples[c.position], nil
}

// Next returns the next sample and advances past it.
func (c *Cursor) Next() (uint8, error) {
	if !c.HasNext() {
		return 0, c.exhaustedError()
	}
	sample := c.stream.samples[c.position]
	c.position++
	return sample, nil
}

func (c *Cursor) exhaustedError() error {
	return imgreformer.ErrOutOfRange.WithMessage(
		fmt.Sprintf("read at %d, stream has %d samples", c.position, len(c.stream.samples)))
}
