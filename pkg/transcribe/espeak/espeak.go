// Package espeak implements [transcribe.Transcriber] by invoking the
// espeak-ng text-to-speech engine as a subprocess in quiet IPA mode.
//
// espeak-ng is invoked once per call with:
//
//	espeak-ng -q --ipa=2 --punct="" --tie=_ -v <lang> <text>
//
// so the output uses ASCII "_" as the tie character. Callers batching many
// lines should use [transcribe.Batch] rather than one process per line.
package espeak

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"regexp"
	"strings"

	"github.com/verselabs/chime/pkg/transcribe"
)

// DefaultBinary is the espeak-ng executable looked up on PATH when no
// explicit binary path is configured.
const DefaultBinary = "espeak-ng"

// Substitution is an ordered IPA rewrite applied to transcriber output.
// Useful for collapsing sounds a model should not distinguish, or for
// repairing systematic espeak-ng quirks in a particular language.
type Substitution struct {
	From string
	To   string
}

// Option configures a [Transcriber].
type Option func(*Transcriber)

// WithBinary sets the espeak-ng executable path. Default: [DefaultBinary].
func WithBinary(path string) Option {
	return func(t *Transcriber) { t.binary = path }
}

// WithSubstitutions sets an ordered list of IPA rewrites applied to every
// transcription, in order, after language-specific normalization.
func WithSubstitutions(subs []Substitution) Option {
	return func(t *Transcriber) { t.subs = subs }
}

// Transcriber shells out to espeak-ng. Safe for concurrent use; each call
// spawns its own process.
type Transcriber struct {
	binary string
	subs   []Substitution
}

// Compile-time interface check.
var _ transcribe.Transcriber = (*Transcriber)(nil)

// New returns a Transcriber configured with the supplied options.
func New(opts ...Option) *Transcriber {
	t := &Transcriber{binary: DefaultBinary}
	for _, o := range opts {
		o(t)
	}
	return t
}

var (
	dotRunRE     = regexp.MustCompile(`\.+`)
	leadHyphenRE = regexp.MustCompile(`^ *-+`)
)

// IPA transcribes text via espeak-ng. Input is lightly cleaned first: runs
// of dots collapse to one (espeak-ng reads "..." aloud as a pause word),
// leading dash sequences (dialogue dashes) are dropped, and slashes become
// spaces. The subprocess respects ctx cancellation.
func (t *Transcriber) IPA(ctx context.Context, text, lang string) (string, error) {
	text = dotRunRE.ReplaceAllString(text, ".")
	text = leadHyphenRE.ReplaceAllString(text, "")
	text = strings.ReplaceAll(text, "/", " ")

	cmd := exec.CommandContext(ctx, t.binary, "-q", "--ipa=2", `--punct=""`, "--tie=_", "-v", lang, text)
	out, err := cmd.Output()
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) && len(exitErr.Stderr) > 0 {
			return "", fmt.Errorf("espeak: %s -v %s: %w: %s", t.binary, lang, err, strings.TrimSpace(string(exitErr.Stderr)))
		}
		return "", fmt.Errorf("espeak: %s -v %s: %w", t.binary, lang, err)
	}

	ipa := strings.ReplaceAll(strings.TrimSpace(string(out)), "\n", "")
	ipa = normalizeLang(ipa, lang)
	for _, sub := range t.subs {
		ipa = strings.ReplaceAll(ipa, sub.From, sub.To)
	}
	return ipa, nil
}

// normalizeLang repairs known espeak-ng output quirks per language.
func normalizeLang(ipa, lang string) string {
	if lang == "bn" {
		// espeak-ng emits syllable dots and aspiration marks for Bengali
		// that fragment the peak splitter, and nasalized ã where plain a
		// is wanted for rhyme purposes.
		ipa = strings.NewReplacer(".", "", "ʰ", "", "ã", "a").Replace(ipa)
	}
	return ipa
}
