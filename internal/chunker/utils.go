package chunker

import (
	"fmt"
	"regexp"
	"strings"
)

var (
	frontmatterRegex = regexp.MustCompile(`(?s)^---\n(.*?)\n---\n`)
	headerRegex      = regexp.MustCompile(`(?m)^(#{1,6})\s+(.+)$`)
)

func splitByHeaders(content string) []section {
	lines := strings.Split(content, "\n")

	var sections []section
	var current *section

	for _, line := range lines {
		matches := headerRegex.FindStringSubmatch(line)

		if len(matches) > 0 {
			if current != nil && strings.TrimSpace(current.Content) != "" {
				sections = append(sections, *current)
			}

			current = &section{
				Title:   strings.TrimSpace(matches[2]),
				Level:   len(matches[1]),
				Content: line + "\n",
			}
		} else if current != nil {
			current.Content += line + "\n"
		} else {
			// content before any header
			current = &section{Content: line + "\n"}
		}
	}

	if current != nil && strings.TrimSpace(current.Content) != "" {
		sections = append(sections, *current)
	}

	return sections
}

// splits an oversized section into paragraph-packed pieces, carrying a
// tail of the previous piece into the next one as overlap
func splitLargeSection(sec section, opts Options) []string {
	var pieces []string

	// drop the header line from the body; writeHeader re-adds it per piece
	body := sec.Content
	if sec.Title != "" {
		if idx := strings.Index(body, "\n"); idx >= 0 && headerRegex.MatchString(body[:idx]) {
			body = body[idx+1:]
		}
	}

	paragraphs := strings.Split(body, "\n\n")

	var current strings.Builder
	var overlap []string
	headerWritten := false

	flush := func() {
		if current.Len() == 0 {
			return
		}

		pieces = append(pieces, strings.TrimSpace(current.String()))
		current.Reset()
		headerWritten = false
	}

	writeHeader := func() {
		if headerWritten || !opts.PreserveHeaders || sec.Title == "" {
			return
		}

		current.WriteString(fmt.Sprintf("%s %s\n\n", strings.Repeat("#", sec.Level), sec.Title))
		headerWritten = true
	}

	for _, para := range paragraphs {
		para = strings.TrimSpace(para)
		if para == "" {
			continue
		}

		if estimateTokens(current.String()+"\n\n"+para) > opts.MaxTokens && current.Len() > 0 {
			flush()

			writeHeader()

			for _, prev := range overlap {
				current.WriteString(prev)
				current.WriteString("\n\n")
			}
		}

		writeHeader()

		if current.Len() > 0 {
			current.WriteString("\n\n")
		}

		current.WriteString(para)

		overlap = tailWithinBudget(append(overlap, para), opts.OverlapTokens)
	}

	flush()

	return pieces
}

// keeps the most recent paragraphs whose combined size fits the overlap
// budget
func tailWithinBudget(paragraphs []string, budget int) []string {
	if budget <= 0 {
		return nil
	}

	total := 0

	for i := len(paragraphs) - 1; i >= 0; i-- {
		total += estimateTokens(paragraphs[i])
		if total > budget {
			return paragraphs[i+1:]
		}
	}

	return paragraphs
}

// rough token count; close enough for sizing chunks
func estimateTokens(text string) int {
	return len(text) / 4
}
