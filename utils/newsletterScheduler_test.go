package utils

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
)

func TestSlugify(t *testing.T) {
	assert.Equal(t, "learn-go-in-30-days", Slugify("Learn Go in 30 Days!"))
	assert.Equal(t, "whats-new", Slugify("  What's New?  "))
	assert.Equal(t, "a-b-c", Slugify("a_b - c"))
}

func TestExcerptOfShortContentUnchanged(t *testing.T) {
	assert.Equal(t, "short post", excerptOf("short post"))
}

func TestExcerptOfTruncatesOnRuneBoundary(t *testing.T) {
	// Multibyte runes around the cut point must survive intact
	content := strings.Repeat("é", 200)

	excerpt := excerptOf(content)

	assert.True(t, utf8.ValidString(excerpt))
	assert.True(t, strings.HasSuffix(excerpt, "..."))
	assert.Equal(t, 150, utf8.RuneCountInString(strings.TrimSuffix(excerpt, "...")))
}
