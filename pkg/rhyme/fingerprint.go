package rhyme

import (
	"regexp"
	"strings"
)

// vowelChars enumerates every IPA vowel letter the peak splitter treats as
// a syllable nucleus.
const vowelChars = "iyɨʉɯuɪʏʊeøɤoəɘɵɛœʌɔæɐaăɶɑɒɜ"

// peakRE matches one syllable peak: a vowel–tie–vowel diphthong, a single
// vowel, or any character carrying the combining vertical line below
// (a syllabic consonant). Vowels may carry a length mark. Both the U+0361
// tie and its ASCII "_" substitute are accepted, and the diphthong
// alternative is listed first so it wins over the single vowel.
var peakRE = regexp.MustCompile(
	`[` + vowelChars + `][ːˑ]?(?:\x{0361}|_)[` + vowelChars + `][ːˑ]?` +
		`|[` + vowelChars + `][ːˑ]?` +
		`|.\x{0329}`,
)

// foreignRE matches parenthesized foreign-language marks some transcribers
// embed, e.g. "(en)".
var foreignRE = regexp.MustCompile(`\([^)]+\)`)

// splitComponents turns an IPA string into the reversed fingerprint used
// for rhyme scoring: syllable peaks and the consonant clusters between
// them, alternating, last sound first.
//
// The reported reduplicant length is half the component count before
// truncation; its parity records whether the fingerprint ends on a peak or
// a cluster, which the scorer uses to penalize length mismatches.
func splitComponents(ipa string, s Settings) (comps []string, redup float64) {
	ipa = foreignRE.ReplaceAllString(ipa, "")
	if !s.VowelLength {
		ipa = strings.NewReplacer("ː", "", "ˑ", "").Replace(ipa)
	}
	if !s.Stress {
		ipa = strings.ReplaceAll(ipa, "ˈ", "")
	}
	ipa = strings.ReplaceAll(ipa, "ˌ", "")
	ipa = strings.ReplaceAll(ipa, " ", "")

	// Keep only the suffix after the last primary stress. When stress is
	// disabled the marker is already gone and this is a no-op.
	if i := strings.LastIndex(ipa, "ˈ"); i >= 0 {
		ipa = ipa[i+len("ˈ"):]
	}

	comps = splitKeeping(peakRE, ipa)
	if len(comps) > 0 && comps[0] == "" {
		comps = comps[1:]
	}

	redup = float64(len(comps)) / 2

	if limit := s.SyllMax * 2; len(comps) > limit {
		comps = comps[len(comps)-limit:]
	}

	for i, j := 0, len(comps)-1; i < j; i, j = i+1, j-1 {
		comps[i], comps[j] = comps[j], comps[i]
	}
	return comps, redup
}

// splitKeeping splits s around matches of re, keeping the matches: the
// result alternates non-matching stretches and matches, beginning and
// ending with a (possibly empty) non-match.
func splitKeeping(re *regexp.Regexp, s string) []string {
	var out []string
	last := 0
	for _, m := range re.FindAllStringIndex(s, -1) {
		out = append(out, s[last:m[0]], s[m[0]:m[1]])
		last = m[1]
	}
	return append(out, s[last:])
}
