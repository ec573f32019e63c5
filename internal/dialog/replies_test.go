package dialog

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
)

func TestTruncate(t *testing.T) {
	short := "hello"
	assert.Equal(t, short, Truncate(short))

	long := strings.Repeat("x", MaxReplyLength+500)
	got := Truncate(long)
	assert.Len(t, got, MaxReplyLength)
}

func TestTruncateKeepsValidUTF8(t *testing.T) {
	// Place a multi-byte rune straddling the cap so a byte-wise cut would
	// split it mid-sequence.
	long := strings.Repeat("a", MaxReplyLength-1) + strings.Repeat("📅", 200)
	got := Truncate(long)

	assert.True(t, utf8.ValidString(got), "truncation must not split a rune")
	assert.LessOrEqual(t, len(got), MaxReplyLength)
	assert.GreaterOrEqual(t, len(got), MaxReplyLength-utf8.UTFMax)

	// All-multi-byte input hits rune boundaries at every backup step.
	accents := strings.Repeat("á", MaxReplyLength)
	got = Truncate(accents)
	assert.True(t, utf8.ValidString(got))
	assert.LessOrEqual(t, len(got), MaxReplyLength)
}

func TestFormatHour(t *testing.T) {
	assert.Equal(t, "08:00", formatHour(8.0))
	assert.Equal(t, "08:30", formatHour(8.5))
	assert.Equal(t, "21:00", formatHour(21.0))
}
