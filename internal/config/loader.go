package config

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/verselabs/chime/pkg/rhyme"
	"gopkg.in/yaml.v3"
)

// Load reads the YAML configuration file at path and returns a validated
// [Config]. It is a convenience wrapper around [LoadFromReader].
func Load(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("config: open %q: %w", path, err)
	}
	defer f.Close()

	cfg, err := LoadFromReader(f)
	if err != nil {
		return nil, fmt.Errorf("config: parse %q: %w", path, err)
	}
	return cfg, nil
}

// LoadFromReader decodes a YAML config from r and validates the result.
// Unset model settings keep their engine defaults; unknown fields are
// rejected so typos fail loudly.
func LoadFromReader(r io.Reader) (*Config, error) {
	cfg := &Config{Model: rhyme.DefaultSettings()}
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil {
		return nil, fmt.Errorf("config: decode yaml: %w", err)
	}
	if err := Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks that cfg contains a coherent set of values. It returns a
// joined error listing every validation failure found.
func Validate(cfg *Config) error {
	var errs []error

	if cfg.Server.LogLevel != "" && !cfg.Server.LogLevel.IsValid() {
		errs = append(errs, fmt.Errorf("server.log_level %q is invalid; valid values: debug, info, warn, error", cfg.Server.LogLevel))
	}

	m := cfg.Model
	if m.Window < 1 {
		errs = append(errs, fmt.Errorf("model.window %d must be at least 1", m.Window))
	}
	if m.SyllMax < 1 {
		errs = append(errs, fmt.Errorf("model.syll_max %d must be at least 1", m.SyllMax))
	}
	if m.NgramLength < 1 {
		errs = append(errs, fmt.Errorf("model.ngram_length %d must be at least 1", m.NgramLength))
	}
	if m.Ngram < 0 {
		errs = append(errs, fmt.Errorf("model.ngram %d must not be negative", m.Ngram))
	}
	if m.MaxIter < 1 {
		errs = append(errs, fmt.Errorf("model.max_iter %d must be at least 1", m.MaxIter))
	}
	if m.FrequencyMin < 0 {
		errs = append(errs, fmt.Errorf("model.frequency_min %d must not be negative", m.FrequencyMin))
	}
	if m.LengthPenalty < 0 || m.LengthPenalty > 1 {
		errs = append(errs, fmt.Errorf("model.length_penalty %v is out of range [0, 1]", m.LengthPenalty))
	}
	if m.ProbIPAMin < 0 || m.ProbIPAMin > 1 {
		errs = append(errs, fmt.Errorf("model.prob_ipa_min %v is out of range [0, 1]", m.ProbIPAMin))
	}
	if m.ProbNgramMin < 0 || m.ProbNgramMin > 1 {
		errs = append(errs, fmt.Errorf("model.prob_ngram_min %v is out of range [0, 1]", m.ProbNgramMin))
	}
	if m.Radif < 0 {
		errs = append(errs, fmt.Errorf("model.radif %v must not be negative (use a value above 1 to disable)", m.Radif))
	}
	if m.Lang == "" && !m.Transcribed {
		errs = append(errs, errors.New("model.lang is required unless model.transcribed is true"))
	}

	for i, sub := range cfg.Transcribe.Substitutions {
		if sub.From == "" {
			errs = append(errs, fmt.Errorf("transcribe.substitutions[%d].from must not be empty", i))
		}
	}

	return errors.Join(errs...)
}
