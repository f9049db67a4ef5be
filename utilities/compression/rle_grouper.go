package compression

import (
	"io"

	"github.com/dargueta/imgreformer/samples"
)

// NoRunLimit tells [RunGrouper.GetNextRun] not to cap the run length.
const NoRunLimit = 0

// SampleRun represents a single run of a particular sample value.
type SampleRun struct {
	// Value is the sample value for this run.
	Value uint8
	// RunLength gives the number of times the sample occurs in the run (not the
	// number of times it's repeated).
	//
	// A valid run will always have this be 1 or greater. A value less than 1
	// indicates the stream was exhausted.
	RunLength int
}

// InvalidRun is returned by [RunGrouper.GetNextRun] once the stream is exhausted.
var InvalidRun = SampleRun{Value: 0, RunLength: 0}

// RunGrouper splits a sample stream into runs of identical samples. Runs are
// found on sample boundaries, so a run may span any number of packed bytes.
type RunGrouper struct {
	cursor *samples.Cursor
}

func NewRunGrouper(cursor *samples.Cursor) RunGrouper {
	return RunGrouper{cursor: cursor}
}

// GetNextRun returns a [SampleRun] for the next sample or run of samples in the
// stream, at most `maxRunLength` long. A longer run is left for subsequent
// calls to continue. Pass [NoRunLimit] to return the whole run.
//
// When the stream is exhausted, it returns [InvalidRun] and io.EOF.
func (grouper RunGrouper) GetNextRun(maxRunLength int) (SampleRun, error) {
	if !grouper.cursor.HasNext() {
		return InvalidRun, io.EOF
	}

	firstSample, err := grouper.cursor.Next()
	if err != nil {
		return InvalidRun, err
	}

	runLength := 1
	for grouper.cursor.HasNext() && (maxRunLength == NoRunLimit || runLength < maxRunLength) {
		nextSample, err := grouper.cursor.Peek()
		if err != nil {
			return InvalidRun, err
		}
		if nextSample != firstSample {
			break
		}
		grouper.cursor.Next()
		runLength++
	}
	return SampleRun{Value: firstSample, RunLength: runLength}, nil
}
