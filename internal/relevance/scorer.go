// Package relevance scores how well a search query matches an item's names.
package relevance

import (
	"math"
	"strings"
	"unicode/utf8"

	"github.com/agnivade/levenshtein"
	"github.com/sahilm/fuzzy"

	"github.com/kyleking/lazylaunch/internal/errs"
)

// DefaultThreshold is the largest field distance still counted as a match.
const DefaultThreshold = 0.35

const (
	nameWeight       = 0.3
	customNameWeight = 0.7

	// epsilon keeps exact matches from collapsing the weighted product to 0.
	epsilon = 0.001
	// positionPenalty is added per byte of offset before the first matched character.
	positionPenalty = 0.01
)

// Result is the outcome of matching one item.
type Result struct {
	Passes bool
	Score  float64
}

// Scorer performs case-insensitive token-level fuzzy matching.
type Scorer struct {
	Threshold float64
}

// New returns a scorer. The threshold must lie in [0, 1]: 0 accepts exact
// matches only, 1 accepts anything.
func New(threshold float64) (Scorer, error) {
	if math.IsNaN(threshold) || threshold < 0 || threshold > 1 {
		return Scorer{}, &errs.ScoringError{Param: "fuzzy_threshold", Value: threshold, Reason: "must be between 0 and 1"}
	}
	return Scorer{Threshold: threshold}, nil
}

// Default returns a scorer using DefaultThreshold.
func Default() Scorer {
	return Scorer{Threshold: DefaultThreshold}
}

type field struct {
	text   string
	weight float64
}

// Match scores query against an item's name and optional custom name.
// A blank query passes with score 1.
func (s Scorer) Match(query, name, customName string) Result {
	tokens := strings.Fields(strings.ToLower(query))
	if len(tokens) == 0 {
		return Result{Passes: true, Score: 1}
	}

	fields := []field{{text: strings.ToLower(name), weight: nameWeight}}
	if strings.TrimSpace(customName) != "" {
		fields = append(fields, field{text: strings.ToLower(customName), weight: customNameWeight})
	}
	// Weights are shares of both keys even when the item has no custom
	// name, so an alias hit always outweighs a plain name hit.
	const total = nameWeight + customNameWeight

	combined := 1.0
	matched := false
	for _, f := range fields {
		d := fieldDistance(tokens, f.text)
		if d > s.Threshold {
			continue
		}
		matched = true
		combined *= math.Pow(math.Max(d, epsilon), f.weight/total)
	}

	if !matched {
		return Result{Passes: false, Score: 0}
	}
	return Result{Passes: true, Score: 1 - combined}
}

// fieldDistance is the mean best distance of each token against text.
func fieldDistance(tokens []string, text string) float64 {
	candidates := append([]string{text}, strings.Fields(text)...)
	var sum float64
	for _, tok := range tokens {
		sum += tokenDistance(tok, candidates)
	}
	return sum / float64(len(tokens))
}

// tokenDistance is 0 for a contiguous match at the very start of a candidate
// and grows with gaps inside the match and with its offset. Typos that break
// the subsequence are scored by edit distance instead. No match is 1.
func tokenDistance(token string, candidates []string) float64 {
	best := typoDistance(token, candidates)
	for _, m := range fuzzy.Find(token, candidates) {
		if len(m.MatchedIndexes) == 0 {
			continue
		}
		first := m.MatchedIndexes[0]
		last := m.MatchedIndexes[len(m.MatchedIndexes)-1]
		_, size := utf8.DecodeRuneInString(m.Str[last:])
		span := last + size - first
		gaps := span - len(token)
		if gaps < 0 {
			gaps = 0
		}

		d := float64(gaps)/float64(span) + float64(first)*positionPenalty
		if d < best {
			best = d
		}
	}
	return math.Min(best, 1)
}

// typoDistance is the smallest edit distance between token and a candidate
// word, or the prefix of that word as long as token, per rune of token.
func typoDistance(token string, candidates []string) float64 {
	n := utf8.RuneCountInString(token)
	if n == 0 {
		return 1
	}
	best := n
	for _, c := range candidates {
		best = min(best, levenshtein.ComputeDistance(token, c))
		if r := []rune(c); len(r) > n {
			best = min(best, levenshtein.ComputeDistance(token, string(r[:n])))
		}
	}
	return math.Min(float64(best)/float64(n), 1)
}
