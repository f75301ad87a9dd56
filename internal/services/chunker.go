package services

import "strings"

// ChunkText splits reference material into snippets of at most maxChunkSize
// characters, preferring paragraph boundaries so retrieved context stays
// coherent.
func ChunkText(text string, maxChunkSize int) []string {
	if maxChunkSize <= 0 {
		maxChunkSize = 1000
	}

	paragraphs := strings.Split(text, "\n\n")

	var chunks []string
	var current strings.Builder

	flush := func() {
		if current.Len() > 0 {
			chunks = append(chunks, strings.TrimSpace(current.String()))
			current.Reset()
		}
	}

	for _, para := range paragraphs {
		para = strings.TrimSpace(para)
		if para == "" {
			continue
		}

		// Oversized paragraphs are split on sentence-ish boundaries.
		if len(para) > maxChunkSize {
			for _, sentence := range strings.SplitAfter(para, ". ") {
				if current.Len()+len(sentence) > maxChunkSize {
					flush()
				}
				current.WriteString(sentence)
			}
			flush()
			continue
		}

		if current.Len()+len(para)+2 > maxChunkSize {
			flush()
		}
		if current.Len() > 0 {
			current.WriteString("\n\n")
		}
		current.WriteString(para)
	}
	flush()

	return chunks
}
