package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", Truncate("short", 10))
	assert.Equal(t, "exact", Truncate("exact", 5))
	assert.Equal(t, "abc...", Truncate("abcdef", 3))
	assert.Equal(t, "", Truncate("anything", 0))
}

func TestTruncateMultibyte(t *testing.T) {
	// Cut on rune boundaries, not bytes.
	assert.Equal(t, "héllø...", Truncate("héllø wörld", 5))
}
