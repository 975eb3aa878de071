package chunker

import (
	"strings"
)

func DefaultOptions() Options {
	return Options{
		MaxTokens:       800,
		OverlapTokens:   100,
		PreserveHeaders: true,
	}
}

// ChunkText splits extracted document text into ordered chunks sized for
// embedding. Markdown headers delimit sections when present; plain text
// falls into a single untitled section and is packed by paragraph.
// Sections larger than the token budget are split with a paragraph
// overlap so retrieval does not lose context at chunk boundaries.
func ChunkText(content string, opts Options) []Chunk {
	content = frontmatterRegex.ReplaceAllString(content, "")

	sections := splitByHeaders(content)

	var chunks []Chunk

	for _, sec := range sections {
		body := strings.TrimSpace(sec.Content)
		if body == "" {
			continue
		}

		if estimateTokens(body) <= opts.MaxTokens {
			chunks = append(chunks, Chunk{
				Index:        len(chunks),
				SectionTitle: sec.Title,
				Content:      body,
			})

			continue
		}

		for _, piece := range splitLargeSection(sec, opts) {
			chunks = append(chunks, Chunk{
				Index:        len(chunks),
				SectionTitle: sec.Title,
				Content:      piece,
			})
		}
	}

	return chunks
}
