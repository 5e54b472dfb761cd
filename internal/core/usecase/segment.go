package usecase

import (
	"strings"

	"github.com/kirillkom/content-moderation/internal/core/domain"
)

const segmentPreviewRunes = 50

// SplitSegments splits text into segments of at most maxLen bytes.
// The split prefers paragraph boundaries (double newline), keeping the
// boundary attached to the preceding segment; paragraphs longer than
// maxLen are hard-sliced. Concatenating the segments in index order
// reproduces the input byte-for-byte for any input and any maxLen >= 1.
func SplitSegments(text string, maxLen int) []domain.Segment {
	if maxLen < 1 {
		maxLen = 1
	}
	if len(text) <= maxLen {
		return []domain.Segment{newSegment(0, text)}
	}

	var chunks []string
	var current strings.Builder

	flush := func() {
		if current.Len() > 0 {
			chunks = append(chunks, current.String())
			current.Reset()
		}
	}

	for _, paragraph := range splitParagraphs(text) {
		if len(paragraph) > maxLen {
			flush()
			for len(paragraph) > maxLen {
				chunks = append(chunks, paragraph[:maxLen])
				paragraph = paragraph[maxLen:]
			}
			if paragraph == "" {
				continue
			}
			current.WriteString(paragraph)
			continue
		}
		if current.Len()+len(paragraph) > maxLen {
			flush()
		}
		current.WriteString(paragraph)
	}
	flush()

	segments := make([]domain.Segment, len(chunks))
	for i, chunk := range chunks {
		segments[i] = newSegment(i, chunk)
	}
	return segments
}

// splitParagraphs cuts text into pieces ending with "\n\n" (except possibly
// the last). The pieces always concatenate back to the input.
func splitParagraphs(text string) []string {
	var parts []string
	for {
		idx := strings.Index(text, "\n\n")
		if idx < 0 {
			if text != "" {
				parts = append(parts, text)
			}
			return parts
		}
		parts = append(parts, text[:idx+2])
		text = text[idx+2:]
	}
}

func newSegment(index int, text string) domain.Segment {
	return domain.Segment{
		Index:   index,
		Text:    text,
		Preview: previewOf(text),
	}
}

func previewOf(text string) string {
	runes := []rune(text)
	if len(runes) <= segmentPreviewRunes {
		return text
	}
	return string(runes[:segmentPreviewRunes])
}
