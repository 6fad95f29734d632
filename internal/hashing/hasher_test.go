package hashing

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHash_FixedLengthHex(t *testing.T) {
	h := Hash("telegram:watch|42|text")

	assert.Len(t, h, 64)
	assert.Equal(t, h, Hash("telegram:watch|42|text"))
	assert.NotEqual(t, h, Hash("telegram:watch|43|text"))
}

func TestContentHash_IgnoresTextBeyondExcerpt(t *testing.T) {
	base := strings.Repeat("a", ExcerptLength)

	assert.Equal(t,
		ContentHash("rss:feed", "guid-1", base+" tail one"),
		ContentHash("rss:feed", "guid-1", base+" tail two"),
	)
}

func TestContentHash_WhitespaceInsensitive(t *testing.T) {
	assert.Equal(t,
		ContentHash("rss:feed", "1", "Armed group  attacks\ncheckpoint"),
		ContentHash("rss:feed", "1", "Armed group attacks checkpoint"),
	)
}

func TestExcerpt_Runes(t *testing.T) {
	assert.Equal(t, "При", Excerpt("Привет", 3))
	assert.Equal(t, "short", Excerpt("short", 10))
}
