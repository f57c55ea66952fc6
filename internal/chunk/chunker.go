package chunk

import "strings"

const (
	// DefaultMinWords is the word count after which a chunk closes at the
	// next sentence or clause boundary.
	DefaultMinWords = 20
	// DefaultMaxWords closes a chunk even when no boundary appeared.
	DefaultMaxWords = 25
)

// Chunker splits text into speakable units of bounded length.
type Chunker struct {
	minWords int
	maxWords int
}

// Option configures a Chunker.
type Option func(*Chunker)

// WithMinWords sets the boundary threshold.
func WithMinWords(n int) Option {
	return func(c *Chunker) {
		if n > 0 {
			c.minWords = n
		}
	}
}

// WithMaxWords sets the hard chunk limit.
func WithMaxWords(n int) Option {
	return func(c *Chunker) {
		if n > 0 {
			c.maxWords = n
		}
	}
}

// New returns a Chunker with the default limits unless overridden.
func New(opts ...Option) *Chunker {
	c := &Chunker{minWords: DefaultMinWords, maxWords: DefaultMaxWords}
	for _, opt := range opts {
		opt(c)
	}
	if c.maxWords < c.minWords {
		c.maxWords = c.minWords
	}
	return c
}

// Chunk splits text into chunks. Once a chunk holds minWords words it is
// closed at the first word ending in '.' or ',', or at maxWords. The
// remaining words form the last chunk. Empty input yields no chunks.
func (c *Chunker) Chunk(text string) []string {
	words := strings.Fields(text)
	if len(words) == 0 {
		return nil
	}

	var chunks []string
	current := make([]string, 0, c.maxWords)
	for _, w := range words {
		current = append(current, w)
		n := len(current)
		if n >= c.minWords && (boundaryWord(w) || n >= c.maxWords) {
			chunks = append(chunks, strings.Join(current, " "))
			current = current[:0]
		}
	}
	if len(current) > 0 {
		chunks = append(chunks, strings.Join(current, " "))
	}
	return chunks
}

// Limits returns the configured minimum and maximum word counts.
func (c *Chunker) Limits() (minWords, maxWords int) {
	return c.minWords, c.maxWords
}

func boundaryWord(w string) bool {
	return strings.HasSuffix(w, ".") || strings.HasSuffix(w, ",")
}
