package utils

import (
	"bytes"
	"image/color"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestUtils_MinMax(t *testing.T) {
	assert := assert.New(t)

	assert.Equal(2, Min(2, 5))
	assert.Equal(2, Min(5, 2))
	assert.Equal(5, Max(2, 5))
	assert.Equal(0.5, Max(0.5, -1.0))
	assert.Equal(3, Abs(-3))
	assert.Equal(0, Clamp(-10, 0, 100))
	assert.Equal(100, Clamp(120, 0, 100))
	assert.Equal(42, Clamp(42, 0, 100))
}

func TestUtils_HexToNRGBA(t *testing.T) {
	testCases := []struct {
		hex      string
		expected color.NRGBA
		wantErr  bool
	}{
		{hex: "#000000", expected: color.NRGBA{A: 255}},
		{hex: "#ff8000", expected: color.NRGBA{R: 255, G: 128, B: 0, A: 255}},
		{hex: "FDFCFB", expected: color.NRGBA{R: 0xfd, G: 0xfc, B: 0xfb, A: 255}},
		{hex: "#f00", expected: color.NRGBA{R: 255, A: 255}},
		{hex: "#12345", wantErr: true},
		{hex: "#zzzzzz", wantErr: true},
	}

	for _, tc := range testCases {
		t.Run(tc.hex, func(t *testing.T) {
			c, err := HexToNRGBA(tc.hex)
			if tc.wantErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tc.expected, c)
		})
	}

	assert.Equal(t, "#ff8000", NRGBAToHex(color.NRGBA{R: 255, G: 128, A: 10}))
}

func TestUtils_FormatTime(t *testing.T) {
	assert.Equal(t, "1.50s", FormatTime(1500*time.Millisecond))
	assert.Equal(t, "2m 5.00s", FormatTime(125*time.Second))
	assert.Equal(t, "640x480", FormatSize(640, 480))
}

func TestUtils_DecorateText(t *testing.T) {
	s := DecorateText("done", SuccessMessage)
	assert.True(t, strings.HasPrefix(s, SuccessColor))
	assert.True(t, strings.HasSuffix(s, DefaultColor))
}

func TestUtils_SpinnerStop(t *testing.T) {
	var buf bytes.Buffer

	s := NewSpinner("rendering", time.Millisecond, false)
	s.SetWriter(&buf)
	s.StopMsg = "finished"
	s.Start()
	time.Sleep(5 * time.Millisecond)
	s.Stop()
	// A second Stop must not block or panic.
	s.Stop()

	assert.Contains(t, buf.String(), "finished")
}
