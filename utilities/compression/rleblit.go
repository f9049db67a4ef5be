package compression

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"

	bitmap "github.com/boljen/go-bitmap"
	"github.com/dargueta/imgreformer"
	"github.com/dargueta/imgreformer/samples"
)

const (
	// minUnitRun is the shortest run the classifier stores as a run unit.
	// Shorter runs cost no more as literals.
	minUnitRun = 3
	// maxUnitRun is the longest run one run unit can hold. Like RLE8, the
	// length byte stores repeats - 1.
	maxUnitRun = 256
	// unitsPerInfoByte is the number of units one info byte describes.
	unitsPerInfoByte = 8
	// maxSegmentLength is the largest count a control byte can hold with the
	// top bit reserved for the segment kind.
	maxSegmentLength = 127
	// repeatSegmentFlag marks a control byte as starting a repeat segment.
	repeatSegmentFlag = 0x80
)

// EncodeRLEBlit compresses an 8 bpp stream into a PackBits-style stream of
// segments:
//
//	0x80 | n, v          v repeated n times (1 <= n <= 127)
//	n, b_1 ... b_n       n literal bytes (1 <= n <= 127)
//
// Encoding happens in two stages. The first classifies the input into run and
// literal units, flagging each batch of eight units with an info byte. The
// second walks those units and coalesces them into the final segments; info
// bytes never reach the output.
//
// For input with no run of three or more, the output is at most
// N + ceil(N / 127) bytes.
func EncodeRLEBlit(stream *samples.Stream) ([]byte, error) {
	if stream.BitWidth() != 8 {
		return nil, imgreformer.ErrUnsupportedFormat.WithMessage(
			fmt.Sprintf("adaptive RLE requires 8 bpp, got %d", stream.BitWidth()))
	}

	units, err := classifyUnits(stream)
	if err != nil {
		return nil, err
	}
	return repack(units, stream.Len())
}

////////////////////////////////////////////////////////////////////////////////
// Stage A

// classifyUnits splits the stream into units. A run of at least [minUnitRun]
// identical bytes is a run unit, stored as (repeats - 1, value); anything
// shorter becomes one literal unit per byte. Every batch of up to eight units
// is preceded by an info byte in which bit 7-k is set if unit k of the batch is
// a run unit.
func classifyUnits(stream *samples.Stream) ([]byte, error) {
	units := make([]byte, 0, stream.Len()+stream.Len()/unitsPerInfoByte+1)
	grouper := NewRunGrouper(stream.Cursor())
	infoOffset := 0
	unitCount := 0

	addUnit := func(isRun bool) {
		indexInBatch := unitCount % unitsPerInfoByte
		if indexInBatch == 0 {
			infoOffset = len(units)
			units = append(units, 0)
		}
		if isRun {
			bitmap.Bitmap(units[infoOffset:infoOffset+1]).Set(7-indexInBatch, true)
		}
		unitCount++
	}

	for {
		run, err := grouper.GetNextRun(maxUnitRun)
		if errors.Is(err, io.EOF) {
			return units, nil
		} else if err != nil {
			return nil, err
		}

		if run.RunLength >= minUnitRun {
			addUnit(true)
			units = append(units, byte(run.RunLength-1), run.Value)
			continue
		}

		for i := 0; i < run.RunLength; i++ {
			addUnit(false)
			units = append(units, run.Value)
		}
	}
}

////////////////////////////////////////////////////////////////////////////////
// Stage B

type unitEventKind int

const (
	eventRunUnit unitEventKind = iota
	eventLiteralUnit
	eventEndOfInput
)

// unitEvent is one classified unit read back from the stage A buffer.
type unitEvent struct {
	kind  unitEventKind
	value byte
	// count is the number of repeats for a run unit, always 1 for a literal.
	count int
}

type readerState int

const (
	readAwaitInfoByte readerState = iota
	readInBatch
)

// unitReader walks a stage A buffer and produces one [unitEvent] per unit,
// consuming the info bytes as it crosses batch boundaries.
type unitReader struct {
	data         []byte
	offset       int
	state        readerState
	info         bitmap.Bitmap
	indexInBatch int
}

func newUnitReader(data []byte) *unitReader {
	return &unitReader{data: data, state: readAwaitInfoByte}
}

func (r *unitReader) next() (unitEvent, error) {
	for {
		if r.offset >= len(r.data) {
			return unitEvent{kind: eventEndOfInput}, nil
		}

		switch r.state {
		case readAwaitInfoByte:
			r.info = bitmap.Bitmap{r.data[r.offset]}
			r.offset++
			r.indexInBatch = 0
			r.state = readInBatch

		case readInBatch:
			if r.indexInBatch == unitsPerInfoByte {
				r.state = readAwaitInfoByte
				continue
			}

			isRun := r.info.Get(7 - r.indexInBatch)
			r.indexInBatch++

			if !isRun {
				event := unitEvent{kind: eventLiteralUnit, value: r.data[r.offset], count: 1}
				r.offset++
				return event, nil
			}

			if r.offset+2 > len(r.data) {
				return unitEvent{}, imgreformer.ErrInvalidInput.WithMessage(
					fmt.Sprintf("run unit at offset %d is truncated", r.offset))
			}
			event := unitEvent{
				kind:  eventRunUnit,
				value: r.data[r.offset+1],
				count: int(r.data[r.offset]) + 1,
			}
			r.offset += 2
			return event, nil
		}
	}
}

type segmentState int

const (
	// stateIdle means no segment is open.
	stateIdle segmentState = iota
	// stateInRun means a repeat segment is open.
	stateInRun
	// stateInLiteral means a literal segment is open.
	stateInLiteral
	// stateOverflow means the open segment reached maxSegmentLength and must be
	// split before anything else is added.
	stateOverflow
)

func (s segmentState) String() string {
	switch s {
	case stateIdle:
		return "Idle"
	case stateInRun:
		return "InRun"
	case stateInLiteral:
		return "InLiteral"
	case stateOverflow:
		return "Overflow"
	}
	return fmt.Sprintf("segmentState(%d)", int(s))
}

// segmentBuilder is the state machine that turns unit events into segments.
type segmentBuilder struct {
	state segmentState
	// overflowFrom is the state that led to stateOverflow, either stateInRun or
	// stateInLiteral.
	overflowFrom segmentState
	runValue     byte
	runCount     int
	literals     []byte
	output       []byte
}

func newSegmentBuilder(capacity int) *segmentBuilder {
	return &segmentBuilder{
		state:    stateIdle,
		literals: make([]byte, 0, maxSegmentLength),
		output:   make([]byte, 0, capacity),
	}
}

// handle applies one event. After eventEndOfInput the builder is idle and every
// segment has been written to the output.
func (b *segmentBuilder) handle(event unitEvent) {
	if b.state == stateOverflow {
		b.splitOverflow()
	}

	switch b.state {
	case stateIdle:
		switch event.kind {
		case eventRunUnit:
			b.openRun(event.value, event.count)
		case eventLiteralUnit:
			b.openLiteral(event.value)
		}

	case stateInRun:
		switch event.kind {
		case eventRunUnit, eventLiteralUnit:
			if event.value == b.runValue {
				b.extendRun(event.count)
				return
			}
			b.flushRun()
			if event.kind == eventRunUnit {
				b.openRun(event.value, event.count)
			} else {
				b.openLiteral(event.value)
			}
		case eventEndOfInput:
			b.flushRun()
		}

	case stateInLiteral:
		switch event.kind {
		case eventLiteralUnit:
			b.literals = append(b.literals, event.value)
			if len(b.literals) == maxSegmentLength {
				b.overflowFrom = stateInLiteral
				b.state = stateOverflow
			}
		case eventRunUnit:
			b.flushLiteral()
			b.openRun(event.value, event.count)
		case eventEndOfInput:
			b.flushLiteral()
		}
	}
}

func (b *segmentBuilder) openRun(value byte, count int) {
	b.runValue = value
	b.runCount = 0
	b.state = stateInRun
	b.extendRun(count)
}

func (b *segmentBuilder) extendRun(count int) {
	b.runCount += count
	if b.runCount >= maxSegmentLength {
		b.overflowFrom = stateInRun
		b.state = stateOverflow
	}
}

func (b *segmentBuilder) openLiteral(value byte) {
	b.literals = append(b.literals[:0], value)
	b.state = stateInLiteral
}

// splitOverflow writes out full segments from an overflowed one. What remains
// of a run stays open so that a following unit with the same value can still
// join it.
func (b *segmentBuilder) splitOverflow() {
	if b.overflowFrom == stateInLiteral {
		b.flushLiteral()
		return
	}

	for b.runCount >= maxSegmentLength {
		b.output = append(b.output, repeatSegmentFlag|maxSegmentLength, b.runValue)
		b.runCount -= maxSegmentLength
	}
	if b.runCount > 0 {
		b.state = stateInRun
	} else {
		b.state = stateIdle
	}
}

func (b *segmentBuilder) flushRun() {
	if b.runCount > 0 {
		b.output = append(b.output, repeatSegmentFlag|byte(b.runCount), b.runValue)
	}
	b.runCount = 0
	b.state = stateIdle
}

func (b *segmentBuilder) flushLiteral() {
	if len(b.literals) > 0 {
		b.output = append(b.output, byte(len(b.literals)))
		b.output = append(b.output, b.literals...)
	}
	b.literals = b.literals[:0]
	b.state = stateIdle
}

// repack runs stage B over a stage A buffer.
func repack(units []byte, sampleCount int) ([]byte, error) {
	reader := newUnitReader(units)
	builder := newSegmentBuilder(sampleCount + (sampleCount+maxSegmentLength-1)/maxSegmentLength)

	for {
		event, err := reader.next()
		if err != nil {
			return nil, err
		}
		builder.handle(event)
		if event.kind == eventEndOfInput {
			return builder.output, nil
		}
	}
}

////////////////////////////////////////////////////////////////////////////////
// Decoding

// DecodeRLEBlit expands segments produced by [EncodeRLEBlit] until the input is
// exhausted. The return value is the number of samples written.
func DecodeRLEBlit(input io.Reader, output io.Writer) (int64, error) {
	source := bufio.NewReader(input)
	totalWritten := int64(0)

	for {
		control, err := source.ReadByte()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return totalWritten, nil
			}
			return totalWritten, fmt.Errorf("error reading input: %w", err)
		}

		count := int(control &^ repeatSegmentFlag)
		if count == 0 {
			return totalWritten, imgreformer.ErrInvalidInput.WithMessage(
				fmt.Sprintf("control byte %#02x has a zero count", control))
		}

		var segment []byte
		if control&repeatSegmentFlag != 0 {
			value, err := source.ReadByte()
			if err != nil {
				return totalWritten, truncatedSegmentError(err, control)
			}
			segment = bytes.Repeat([]byte{value}, count)
		} else {
			segment = make([]byte, count)
			_, err = io.ReadFull(source, segment)
			if err != nil {
				return totalWritten, truncatedSegmentError(err, control)
			}
		}

		n, err := output.Write(segment)
		totalWritten += int64(n)
		if err != nil {
			return totalWritten, fmt.Errorf("failed to write to output: %w", err)
		}
	}
}

func truncatedSegmentError(err error, control byte) error {
	if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
		return imgreformer.ErrInvalidInput.Wrap(
			fmt.Errorf("%w: segment %#02x is truncated", io.ErrUnexpectedEOF, control))
	}
	return fmt.Errorf("error reading input: %w", err)
}
