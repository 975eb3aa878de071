package chunker

// one contiguous slice of a source document, ordered by Index
type Chunk struct {
	Index        int
	SectionTitle string
	Content      string
}

type section struct {
	Title   string
	Level   int
	Content string
}

type Options struct {
	MaxTokens       int
	OverlapTokens   int
	PreserveHeaders bool
}
