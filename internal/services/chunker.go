package services

import (
	"strings"
	"unicode/utf8"
)

// Defaults used when ingesting knowledge documents.
const (
	DefaultChunkSize    = 1000
	DefaultChunkOverlap = 200
)

type TextChunker interface {
	ChunkText(text string, maxChunkSize int, overlap int) []string
}

type textChunker struct{}

func NewTextChunker() TextChunker {
	return &textChunker{}
}

// ChunkText packs paragraphs into chunks of at most maxChunkSize runes,
// splitting oversized paragraphs at sentence boundaries. Each chunk after the
// first starts with the last overlap runes of its predecessor.
func (tc *textChunker) ChunkText(text string, maxChunkSize int, overlap int) []string {
	if maxChunkSize <= 0 {
		maxChunkSize = DefaultChunkSize
	}
	if overlap < 0 {
		overlap = 0
	}
	if overlap >= maxChunkSize {
		overlap = maxChunkSize / 4
	}

	b := &chunkBuilder{max: maxChunkSize, overlap: overlap}

	for _, para := range strings.Split(text, "\n\n") {
		para = strings.TrimSpace(para)
		if para == "" {
			continue
		}

		if utf8.RuneCountInString(para) <= maxChunkSize {
			b.add(para, "\n\n")
			continue
		}
		for _, sentence := range splitIntoSentences(para) {
			b.add(sentence, " ")
		}
	}

	return b.finish()
}

type chunkBuilder struct {
	max     int
	overlap int
	chunks  []string
	current strings.Builder
	runes   int
}

func (b *chunkBuilder) add(piece, sep string) {
	n := utf8.RuneCountInString(piece)
	if b.runes > 0 && b.runes+len(sep)+n > b.max {
		b.flush(sep)
	}
	if b.runes > 0 {
		b.current.WriteString(sep)
		b.runes += len(sep)
	}
	b.current.WriteString(piece)
	b.runes += n
}

// flush closes the current chunk and seeds the next with the overlap tail.
func (b *chunkBuilder) flush(sep string) {
	prev := b.current.String()
	b.chunks = append(b.chunks, prev)
	b.current.Reset()
	b.runes = 0

	if tail := lastNRunes(prev, b.overlap); tail != "" {
		b.current.WriteString(tail)
		b.runes = utf8.RuneCountInString(tail)
	}
}

func (b *chunkBuilder) finish() []string {
	if b.runes > 0 {
		b.chunks = append(b.chunks, b.current.String())
	}
	return b.chunks
}

func splitIntoSentences(text string) []string {
	sentences := strings.FieldsFunc(text, func(r rune) bool {
		return r == '.' || r == '!' || r == '?'
	})

	var result []string
	for _, s := range sentences {
		s = strings.TrimSpace(s)
		if s != "" {
			result = append(result, s)
		}
	}
	return result
}

func lastNRunes(text string, n int) string {
	if n <= 0 {
		return ""
	}

	runes := []rune(text)
	if len(runes) <= n {
		return text
	}

	return string(runes[len(runes)-n:])
}
