package rhyme

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func persistModel() *Model {
	s := DefaultSettings()
	s.Lang = "cs"
	s.Window = 4
	s.Ngram = 2
	s.NgramLength = 3
	s.LengthPenalty = 0.25
	s.Radif = 0.8

	m := &Model{settings: s, vocab: make(map[string]vocabEntry)}
	m.probs = newProbTables()
	m.probs.ngram[NewPair("oon", "une")] = 0.875
	m.probs.comp[0] = map[Pair]float64{NewPair("t", "t"): 0.5}
	m.probs.comp[1] = map[Pair]float64{NewPair("æ", "a"): 0.375}
	return m
}

func TestSaveLoad_RoundTrip(t *testing.T) {
	t.Parallel()

	m := persistModel()
	path := filepath.Join(t.TempDir(), "model.json")
	if err := m.Save(path); err != nil {
		t.Fatalf("Save: %v", err)
	}

	loaded, err := Load(path, nil)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if !loaded.probs.equal(m.probs) {
		t.Errorf("probabilities changed across save/load:\nsaved:  %+v\nloaded: %+v", m.probs, loaded.probs)
	}
	if loaded.settings != m.settings {
		t.Errorf("settings changed across save/load:\nsaved:  %+v\nloaded: %+v", m.settings, loaded.settings)
	}
}

func TestSave_AppendsExtension(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	if err := persistModel().Save(filepath.Join(dir, "model")); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "model.json")); err != nil {
		t.Errorf("model.json not written: %v", err)
	}
}

func TestSave_Untrained(t *testing.T) {
	t.Parallel()

	m := &Model{settings: DefaultSettings(), vocab: make(map[string]vocabEntry)}
	if err := m.Save(filepath.Join(t.TempDir(), "m.json")); !errors.Is(err, ErrNotTrained) {
		t.Errorf("Save on untrained model: err=%v, want ErrNotTrained", err)
	}
}

func TestLoad_NamedModelFromModelDir(t *testing.T) {
	// Mutates the package-level model directory; not parallel.
	dir := t.TempDir()
	old := DefaultModelDir
	DefaultModelDir = dir
	defer func() { DefaultModelDir = old }()

	if err := persistModel().Save(filepath.Join(dir, "cs.json")); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if _, err := Load("cs", nil); err != nil {
		t.Errorf("Load(\"cs\"): %v", err)
	}
}

func TestLoad_MalformedPairKey(t *testing.T) {
	t.Parallel()

	doc := `{"settings": {"lang": "en"}, "probs": {"0": {"not-a-pair": 0.5}}}`
	_, err := LoadFromReader(strings.NewReader(doc), nil)
	if err == nil {
		t.Fatal("LoadFromReader succeeded on malformed pair key")
	}
	if !strings.Contains(err.Error(), "not-a-pair") {
		t.Errorf("error %q does not name the offending key", err)
	}
}

func TestLoad_InvalidKeyspace(t *testing.T) {
	t.Parallel()

	doc := `{"settings": {"lang": "en"}, "probs": {"x": {"[\"a\",\"b\"]": 0.5}}}`
	if _, err := LoadFromReader(strings.NewReader(doc), nil); err == nil {
		t.Fatal("LoadFromReader succeeded on unknown keyspace")
	}
}

func TestLoad_MalformedJSON(t *testing.T) {
	t.Parallel()

	if _, err := LoadFromReader(strings.NewReader("{"), nil); err == nil {
		t.Fatal("LoadFromReader succeeded on malformed JSON")
	}
}

func TestLoad_RecanonicalizesPairKeys(t *testing.T) {
	t.Parallel()

	// An unsorted key from a foreign writer is canonicalized on load.
	doc := `{"settings": {"lang": "en"}, "probs": {"g": {"[\"zzz\",\"aaa\"]": 0.7}}}`
	m, err := LoadFromReader(strings.NewReader(doc), nil)
	if err != nil {
		t.Fatalf("LoadFromReader: %v", err)
	}
	if got := m.probs.ngram[NewPair("aaa", "zzz")]; got != 0.7 {
		t.Errorf("p_g[(aaa,zzz)] = %v, want 0.7", got)
	}
}
