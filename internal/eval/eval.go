// Package eval scores detected rhyme chains for plausibility.
//
// The rhyme engine judges pairs on learned sound-pair probabilities; this
// package cross-checks its output with two independent, dictionary-free
// signals over the chains' orthographic rhyme words:
//
//   - Jaro-Winkler similarity of the whole rhyme words, averaged pairwise.
//   - Double Metaphone agreement: the fraction of word pairs sharing at
//     least one phonetic code.
//
// Chains weak on both signals are flagged suspicious. The report is purely
// diagnostic — it never feeds back into detection or training — and is
// surfaced by `chime tag -report` and the tagging API.
package eval

import (
	"strings"

	"github.com/antzucaro/matchr"
)

const (
	defaultSimilarityThreshold = 0.45
	defaultAgreementThreshold  = 0.5
)

// Option configures a [Reporter].
type Option func(*Reporter)

// WithSimilarityThreshold sets the mean Jaro-Winkler score below which a
// chain counts as orthographically weak. Default: 0.45.
func WithSimilarityThreshold(t float64) Option {
	return func(r *Reporter) { r.similarityThreshold = t }
}

// WithAgreementThreshold sets the Double Metaphone agreement ratio below
// which a chain counts as phonetically weak. Default: 0.5.
func WithAgreementThreshold(t float64) Option {
	return func(r *Reporter) { r.agreementThreshold = t }
}

// Reporter builds chain plausibility reports. Read-only after construction
// and safe for concurrent use.
type Reporter struct {
	similarityThreshold float64
	agreementThreshold  float64
}

// New returns a Reporter configured with the supplied options.
func New(opts ...Option) *Reporter {
	r := &Reporter{
		similarityThreshold: defaultSimilarityThreshold,
		agreementThreshold:  defaultAgreementThreshold,
	}
	for _, o := range opts {
		o(r)
	}
	return r
}

// ChainReport is the plausibility verdict for one rhyme chain.
type ChainReport struct {
	// Lines are the chain's line indices.
	Lines []int `json:"lines"`

	// Words are the rhyme words of those lines, in chain order.
	Words []string `json:"words"`

	// MeanSimilarity is the average pairwise Jaro-Winkler score.
	MeanSimilarity float64 `json:"mean_similarity"`

	// PhoneticAgreement is the fraction of word pairs sharing a Double
	// Metaphone code.
	PhoneticAgreement float64 `json:"phonetic_agreement"`

	// Suspicious marks chains weak on both signals.
	Suspicious bool `json:"suspicious"`
}

// Chains reports on every chain. words holds the rhyme word of each poem
// line ("" for wordless lines), indexed like the chains' line indices.
func (r *Reporter) Chains(chains [][]int, words []string) []ChainReport {
	reports := make([]ChainReport, 0, len(chains))
	for _, chain := range chains {
		reports = append(reports, r.chain(chain, words))
	}
	return reports
}

func (r *Reporter) chain(chain []int, words []string) ChainReport {
	rep := ChainReport{Lines: chain}
	for _, i := range chain {
		if i >= 0 && i < len(words) && words[i] != "" {
			rep.Words = append(rep.Words, strings.ToLower(words[i]))
		}
	}

	pairs, simSum, agreeing := 0, 0.0, 0
	for i := 0; i < len(rep.Words); i++ {
		for j := i + 1; j < len(rep.Words); j++ {
			pairs++
			simSum += matchr.JaroWinkler(rep.Words[i], rep.Words[j], false)
			if codesOverlap(codes(rep.Words[i]), codes(rep.Words[j])) {
				agreeing++
			}
		}
	}
	if pairs == 0 {
		return rep
	}

	rep.MeanSimilarity = simSum / float64(pairs)
	rep.PhoneticAgreement = float64(agreeing) / float64(pairs)
	rep.Suspicious = rep.MeanSimilarity < r.similarityThreshold &&
		rep.PhoneticAgreement < r.agreementThreshold
	return rep
}

// codes returns the non-empty Double Metaphone codes of word.
func codes(word string) map[string]struct{} {
	out := make(map[string]struct{}, 2)
	p, s := matchr.DoubleMetaphone(word)
	if p != "" {
		out[p] = struct{}{}
	}
	if s != "" {
		out[s] = struct{}{}
	}
	return out
}

// codesOverlap reports whether the two code sets share at least one code.
func codesOverlap(a, b map[string]struct{}) bool {
	if len(a) > len(b) {
		a, b = b, a
	}
	for code := range a {
		if _, ok := b[code]; ok {
			return true
		}
	}
	return false
}
