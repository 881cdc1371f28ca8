package similarity

import (
	"errors"
	"strings"
	"unicode"
)

// ErrEmptyText indicates the input contained no scorable tokens after normalization.
var ErrEmptyText = errors.New("text is empty after normalization")

// NormalizedText is the canonical form of an answer text used for scoring.
// Tokens preserves occurrence order; Set collapses duplicates for overlap
// computation. Instances are built per request and never persisted.
type NormalizedText struct {
	Tokens []string
	Set    map[string]struct{}
}

// Joined returns the normalized tokens as a single space-separated string,
// suitable for embedding providers that consume plain text.
func (n NormalizedText) Joined() string {
	return strings.Join(n.Tokens, " ")
}

// NormalizerConfig controls optional normalization behaviour.
type NormalizerConfig struct {
	// StripStopwords removes common function words from the token set. If
	// stripping would leave no tokens the original tokens are kept, so a
	// stopword-only answer still scores instead of erroring.
	StripStopwords bool
	// Stopwords overrides the default english stopword list.
	Stopwords map[string]struct{}
}

// Normalizer canonicalizes raw extracted answer text before comparison.
type Normalizer struct {
	cfg NormalizerConfig
}

// NewNormalizer builds a normalizer with the provided configuration.
func NewNormalizer(cfg NormalizerConfig) *Normalizer {
	if cfg.StripStopwords && cfg.Stopwords == nil {
		cfg.Stopwords = defaultStopwords
	}
	return &Normalizer{cfg: cfg}
}

// Normalize lower-cases the input, collapses whitespace and strips characters
// outside the word-character set (letters, digits, intra-word hyphens and
// apostrophes). It returns ErrEmptyText when no tokens survive.
func (n *Normalizer) Normalize(raw string) (NormalizedText, error) {
	tokens := tokenize(raw)
	if len(tokens) == 0 {
		return NormalizedText{}, ErrEmptyText
	}

	if n.cfg.StripStopwords {
		kept := make([]string, 0, len(tokens))
		for _, token := range tokens {
			if _, skip := n.cfg.Stopwords[token]; !skip {
				kept = append(kept, token)
			}
		}
		if len(kept) > 0 {
			tokens = kept
		}
	}

	set := make(map[string]struct{}, len(tokens))
	for _, token := range tokens {
		set[token] = struct{}{}
	}

	return NormalizedText{Tokens: tokens, Set: set}, nil
}

func tokenize(raw string) []string {
	lowered := strings.ToLower(strings.TrimSpace(raw))
	fields := strings.FieldsFunc(lowered, func(r rune) bool {
		return !isWordRune(r)
	})

	tokens := make([]string, 0, len(fields))
	for _, field := range fields {
		// Hyphens and apostrophes are word characters only inside a word.
		token := strings.Trim(field, "-'")
		if token != "" {
			tokens = append(tokens, token)
		}
	}
	return tokens
}

func isWordRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r) || r == '-' || r == '\''
}

var defaultStopwords = map[string]struct{}{
	"a": {}, "an": {}, "and": {}, "are": {}, "as": {}, "at": {}, "be": {},
	"by": {}, "for": {}, "from": {}, "in": {}, "is": {}, "it": {}, "of": {},
	"on": {}, "or": {}, "that": {}, "the": {}, "to": {}, "was": {}, "were": {},
	"with": {},
}
