package rhyme

import "fmt"

// Settings holds every tunable of the rhyme engine. The zero value is not
// usable; start from [DefaultSettings].
//
// JSON tags define the persisted model format (§ model files); YAML tags
// let the same struct sit inside a service configuration file.
type Settings struct {
	// Lang is the language code handed to the transcriber (espeak-ng
	// voice codes: "en", "cs", "fr", …). Required unless Transcribed.
	Lang string `json:"lang" yaml:"lang"`

	// Transcribed indicates that input lines carry their own IPA and no
	// transcriber will be called. Not persisted with the model.
	Transcribed bool `json:"-" yaml:"transcribed"`

	// Window is how many lines forward to look for rhyme partners.
	Window int `json:"window" yaml:"window"`

	// SyllMax bounds the fingerprint to the final SyllMax syllables.
	SyllMax int `json:"syll_max" yaml:"syll_max"`

	// Stress keeps only the sounds following the last primary stress.
	Stress bool `json:"stress" yaml:"stress"`

	// VowelLength keeps vowel length marks as distinctive.
	VowelLength bool `json:"vowel_length" yaml:"vowel_length"`

	// SameWords allows two identical words to rhyme with each other.
	SameWords bool `json:"same_words" yaml:"same_words"`

	// Ngram is the one-based training iteration from which the character
	// n-gram fallback participates in detection. 0 disables n-grams.
	Ngram int `json:"ngram" yaml:"ngram"`

	// NgramLength is the length of word-final character n-grams.
	NgramLength int `json:"ngram_length" yaml:"ngram_length"`

	// TScoreMin is the minimum collocation t-score for seeding the
	// training set. The default, 3.078, is the one-tailed 90% critical value
	// of Student's t with one degree of freedom.
	TScoreMin float64 `json:"t_score_min" yaml:"t_score_min"`

	// FrequencyMin is the minimum pair occurrence count for seeding.
	FrequencyMin int `json:"frequency_min" yaml:"frequency_min"`

	// StanzaLimit confines rhyme pairs to a single stanza.
	StanzaLimit bool `json:"stanza_limit" yaml:"stanza_limit"`

	// ProbIPAMin is the minimum component-based score to accept a pair.
	ProbIPAMin float64 `json:"prob_ipa_min" yaml:"prob_ipa_min"`

	// ProbNgramMin is the minimum n-gram-based score to accept a pair.
	ProbNgramMin float64 `json:"prob_ngram_min" yaml:"prob_ngram_min"`

	// MaxIter caps the number of training iterations.
	MaxIter int `json:"max_iter" yaml:"max_iter"`

	// LengthPenalty discounts pairs whose reduplicant parities differ.
	// 0 means no penalty, 1 zeroes such pairs out. Must lie in [0,1].
	LengthPenalty float64 `json:"length_penalty" yaml:"length_penalty"`

	// FastIPA transcribes a whole poem per call using the separator
	// sentinel instead of one call per line.
	FastIPA bool `json:"fast_ipa" yaml:"fast_ipa"`

	// Radif enables radif stripping when ≤ 1: any word ending at least
	// this fraction of a poem's lines is stripped before ingestion so the
	// rhyme underneath it can be found. Values above 1 disable stripping.
	Radif float64 `json:"radif" yaml:"radif"`
}

// DefaultSettings returns the engine defaults.
func DefaultSettings() Settings {
	return Settings{
		Window:        5,
		SyllMax:       2,
		Stress:        true,
		VowelLength:   true,
		SameWords:     true,
		Ngram:         1,
		NgramLength:   3,
		TScoreMin:     3.078,
		FrequencyMin:  3,
		ProbIPAMin:    0.95,
		ProbNgramMin:  0.95,
		MaxIter:       20,
		LengthPenalty: 0,
		FastIPA:       true,
		Radif:         2,
	}
}

// validate rejects settings combinations the engine cannot run with.
func (s Settings) validate() error {
	if s.Lang == "" && !s.Transcribed {
		return fmt.Errorf("rhyme: settings: lang must be set when input is not pre-transcribed")
	}
	if s.LengthPenalty < 0 || s.LengthPenalty > 1 {
		return fmt.Errorf("rhyme: settings: length_penalty %v is out of range [0,1]", s.LengthPenalty)
	}
	return nil
}

// TagOption overrides a setting for a single [Model.Tag] call.
type TagOption func(*Settings)

// WithLang overrides the transcriber language code.
func WithLang(lang string) TagOption { return func(s *Settings) { s.Lang = lang } }

// WithTranscribedInput declares that the tagged poem carries its own IPA.
func WithTranscribedInput(v bool) TagOption { return func(s *Settings) { s.Transcribed = v } }

// WithWindow overrides the detection window.
func WithWindow(n int) TagOption { return func(s *Settings) { s.Window = n } }

// WithSameWords overrides whether identical words may rhyme.
func WithSameWords(v bool) TagOption { return func(s *Settings) { s.SameWords = v } }

// WithNgram overrides the n-gram activation iteration (0 disables).
func WithNgram(n int) TagOption { return func(s *Settings) { s.Ngram = n } }

// WithTScoreMin overrides the collocation t-score threshold.
func WithTScoreMin(v float64) TagOption { return func(s *Settings) { s.TScoreMin = v } }

// WithFrequencyMin overrides the collocation frequency threshold.
func WithFrequencyMin(n int) TagOption { return func(s *Settings) { s.FrequencyMin = n } }

// WithStanzaLimit overrides stanza confinement.
func WithStanzaLimit(v bool) TagOption { return func(s *Settings) { s.StanzaLimit = v } }

// WithProbIPAMin overrides the component score threshold.
func WithProbIPAMin(v float64) TagOption { return func(s *Settings) { s.ProbIPAMin = v } }

// WithProbNgramMin overrides the n-gram score threshold.
func WithProbNgramMin(v float64) TagOption { return func(s *Settings) { s.ProbNgramMin = v } }

// WithLengthPenalty overrides the reduplicant parity penalty.
func WithLengthPenalty(v float64) TagOption { return func(s *Settings) { s.LengthPenalty = v } }

// WithFastIPA overrides batched transcription.
func WithFastIPA(v bool) TagOption { return func(s *Settings) { s.FastIPA = v } }

// WithRadif overrides the radif stripping threshold.
func WithRadif(v float64) TagOption { return func(s *Settings) { s.Radif = v } }
