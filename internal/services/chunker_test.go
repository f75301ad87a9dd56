package services

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChunkTextKeepsSmallParagraphsTogether(t *testing.T) {
	text := "First paragraph.\n\nSecond paragraph.\n\nThird paragraph."

	chunks := ChunkText(text, 1000)
	require.Len(t, chunks, 1)
	assert.Contains(t, chunks[0], "First paragraph.")
	assert.Contains(t, chunks[0], "Third paragraph.")
}

func TestChunkTextSplitsAtParagraphBoundary(t *testing.T) {
	a := strings.Repeat("a", 40)
	b := strings.Repeat("b", 40)

	chunks := ChunkText(a+"\n\n"+b, 50)
	require.Len(t, chunks, 2)
	assert.Equal(t, a, chunks[0])
	assert.Equal(t, b, chunks[1])
}

func TestChunkTextSplitsOversizedParagraph(t *testing.T) {
	para := strings.Repeat("This is a sentence. ", 30)

	chunks := ChunkText(para, 100)
	require.Greater(t, len(chunks), 1)
	for _, c := range chunks {
		assert.LessOrEqual(t, len(c), 120)
		assert.NotEmpty(t, c)
	}
}

func TestChunkTextEmptyInput(t *testing.T) {
	assert.Empty(t, ChunkText("", 100))
	assert.Empty(t, ChunkText("\n\n\n\n", 100))
}
