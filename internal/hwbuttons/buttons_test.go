package hwbuttons

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockLine is a test double for gpioLine, recording calls without
// requiring real GPIO hardware, the same shape as the teacher's
// mockGPIODLine in src/ptt_test.go.
type mockLine struct {
	closed bool
}

func (m *mockLine) Close() error {
	m.closed = true
	return nil
}

// withMockRequestLine swaps requestLine for a seam that records every
// requested offset and press callback and hands back a mockLine, restoring the
// real implementation on test cleanup.
func withMockRequestLine(t *testing.T) (calls *[]int, presses *[]func(), lines *[]*mockLine) {
	t.Helper()
	var gotOffsets []int
	var gotPresses []func()
	var gotLines []*mockLine
	orig := requestLine
	requestLine = func(chip string, offset int, onPress func()) (gpioLine, error) {
		gotOffsets = append(gotOffsets, offset)
		gotPresses = append(gotPresses, onPress)
		l := &mockLine{}
		gotLines = append(gotLines, l)
		return l, nil
	}
	t.Cleanup(func() { requestLine = orig })
	return &gotOffsets, &gotPresses, &gotLines
}

func TestRequest_NegativeLinesDisabled(t *testing.T) {
	offsets, _, _ := withMockRequestLine(t)

	b, err := Request("/dev/gpiochip0", -1, -1, -1, func() {}, func() {}, func() {})
	require.NoError(t, err)
	assert.Empty(t, *offsets)
	b.Close() // safe even when nothing was requested
}

func TestRequest_OnlyEnabledLinesRequested(t *testing.T) {
	offsets, _, _ := withMockRequestLine(t)

	b, err := Request("/dev/gpiochip0", 5, -1, 7, func() {}, func() {}, func() {})
	require.NoError(t, err)
	defer b.Close()
	assert.Equal(t, []int{5, 7}, *offsets)
}

func TestRequest_PressCallbackFires(t *testing.T) {
	_, presses, _ := withMockRequestLine(t)

	started := false
	b, err := Request("/dev/gpiochip0", 3, -1, -1, func() { started = true }, func() {}, func() {})
	require.NoError(t, err)
	defer b.Close()

	require.Len(t, *presses, 1)
	(*presses)[0]()
	assert.True(t, started)
}

func TestButtons_CloseClosesEveryRequestedLine(t *testing.T) {
	_, _, lines := withMockRequestLine(t)

	b, err := Request("/dev/gpiochip0", 1, 2, 3, func() {}, func() {}, func() {})
	require.NoError(t, err)
	b.Close()

	require.Len(t, *lines, 3)
	for _, l := range *lines {
		assert.True(t, l.closed)
	}
}
