package compression_test

import (
	"io"
	"testing"

	rtesting "github.com/dargueta/imgreformer/testing"
	c "github.com/dargueta/imgreformer/utilities/compression"
)

type BasicTestCase struct {
	Data           []byte
	ExpectedResult c.SampleRun
	Name           string
}

var basicTestCases = []BasicTestCase{
	{[]byte{}, c.InvalidRun, "empty"},
	{[]byte{0, 0, 1, 0, 0, 0, 0}, c.SampleRun{Value: 0, RunLength: 2}, "two initial"},
	{[]byte{6, 1, 5, 20, 31}, c.SampleRun{Value: 6, RunLength: 1}, "one byte"},
	{[]byte{9, 9, 9, 9, 9, 9}, c.SampleRun{Value: 9, RunLength: 6}, "entire run"},
}

func runBasicTestCase(t *testing.T, test BasicTestCase) {
	stream := rtesting.NewStream(t, 8, test.Data)
	grouper := c.NewRunGrouper(stream.Cursor())
	result, _ := grouper.GetNextRun(c.NoRunLimit)
	if result != test.ExpectedResult {
		t.Errorf("Expected %+v, got %+v", test.ExpectedResult, result)
	}
}

func TestRunGrouper__Basic(t *testing.T) {
	for _, test := range basicTestCases {
		t.Run(
			test.Name,
			func(t *testing.T) {
				runBasicTestCase(t, test)
			},
		)
	}
}

func TestRunGrouper__Sequence(t *testing.T) {
	data := []byte{1, 9, 4, 4, 4, 4, 4, 6, 6, 0, 1, 0, 0, 0}
	expected := []c.SampleRun{
		{1, 1}, {9, 1}, {4, 5}, {6, 2}, {0, 1},
		{1, 1}, {0, 3}, c.InvalidRun,
	}

	grouper := c.NewRunGrouper(rtesting.NewStream(t, 8, data).Cursor())
	for i, expectedRun := range expected {
		result, err := grouper.GetNextRun(c.NoRunLimit)
		if result != expectedRun {
			t.Errorf(
				"run %d is wrong: expected %+v but got %+v",
				i,
				expectedRun,
				result,
			)
		}
		if expectedRun == c.InvalidRun && err != io.EOF {
			t.Errorf("expected err to be io.EOF, got %v", err)
		}
	}
}

func TestRunGrouper__MaxRunLength(t *testing.T) {
	data := rtesting.RunsOf(1, 10, 0, 1)
	expected := []c.SampleRun{{1, 4}, {1, 4}, {1, 2}, {0, 1}, c.InvalidRun}

	grouper := c.NewRunGrouper(rtesting.NewStream(t, 1, data).Cursor())
	for i, expectedRun := range expected {
		result, _ := grouper.GetNextRun(4)
		if result != expectedRun {
			t.Errorf("run %d is wrong: expected %+v but got %+v", i, expectedRun, result)
		}
	}
}
