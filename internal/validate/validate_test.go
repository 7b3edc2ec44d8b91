package validate_test

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"

	"elpunto/internal/validate"
)

func TestNotes_ClampKeepsValidUTF8(t *testing.T) {
	// 299 ASCII chars followed by multi-byte runes: the clamp must cut on a
	// rune boundary, never mid-sequence.
	long := strings.Repeat("a", 299) + "ñáé🌶️ por favor sin ají"
	got := validate.Notes(long)

	assert.True(t, utf8.ValidString(got))
	assert.Equal(t, 300, utf8.RuneCountInString(got))
	assert.True(t, strings.HasSuffix(got, "ñ"))
}

func TestNotes_TrimAndPassthrough(t *testing.T) {
	assert.Equal(t, "sin ají", validate.Notes("  sin ají  "))
	assert.Equal(t, "", validate.Notes("   "))
}

func TestPhone(t *testing.T) {
	ok := []string{"3001234567", "+573001234567", "300 123 4567"}
	for _, s := range ok {
		_, valid := validate.Phone(s)
		assert.True(t, valid, s)
	}
	bad := []string{"", "abc", "12345", "+", "300-123-4567"}
	for _, s := range bad {
		_, valid := validate.Phone(s)
		assert.False(t, valid, s)
	}
}

func TestQtyClamp(t *testing.T) {
	assert.Equal(t, 1, validate.Qty(""))
	assert.Equal(t, 1, validate.Qty("0"))
	assert.Equal(t, 1, validate.Qty("-3"))
	assert.Equal(t, 7, validate.Qty("7"))
	assert.Equal(t, 50, validate.Qty("999"))
}
