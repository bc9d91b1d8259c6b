package rhyme

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/verselabs/chime/pkg/transcribe"
)

// DefaultModelDir is where [Load] resolves bare model names (anything
// without a .json suffix): <DefaultModelDir>/<name>.json.
var DefaultModelDir = "models"

// modelFile is the on-disk model document. Probability tables are keyed by
// keyspace ("g" for n-grams, decimal digits for component positions), then
// by stringified sorted pair.
type modelFile struct {
	Settings Settings                      `json:"settings"`
	Probs    map[string]map[string]float64 `json:"probs"`
}

// ngramKeyspace names the n-gram table in the persisted document.
const ngramKeyspace = "g"

// pairKey stringifies a canonical pair as a two-element JSON array.
func pairKey(p Pair) string {
	b, _ := json.Marshal([2]string{p.A, p.B})
	return string(b)
}

// parsePairKey inverts [pairKey]. The stored key is expected to be sorted
// already; it is re-canonicalized anyway so the invariant holds at the
// table boundary.
func parsePairKey(k string) (Pair, error) {
	var kv [2]string
	if err := json.Unmarshal([]byte(k), &kv); err != nil {
		return Pair{}, fmt.Errorf("invalid pair key %q: %w", k, err)
	}
	return NewPair(kv[0], kv[1]), nil
}

// Save writes the trained model as a JSON document. A ".json" suffix is
// appended to path when missing. Only settings and probability tables are
// persisted; the corpus is not.
func (m *Model) Save(path string) error {
	if m.probs == nil {
		return ErrNotTrained
	}
	if !strings.HasSuffix(path, ".json") {
		path += ".json"
	}

	probs := make(map[string]map[string]float64, len(m.probs.comp)+1)
	if len(m.probs.ngram) > 0 {
		probs[ngramKeyspace] = make(map[string]float64, len(m.probs.ngram))
		for p, v := range m.probs.ngram {
			probs[ngramKeyspace][pairKey(p)] = v
		}
	}
	for i, tbl := range m.probs.comp {
		key := strconv.Itoa(i)
		probs[key] = make(map[string]float64, len(tbl))
		for p, v := range tbl {
			probs[key][pairKey(p)] = v
		}
	}

	doc, err := json.MarshalIndent(modelFile{Settings: m.settings, Probs: probs}, "", "  ")
	if err != nil {
		return fmt.Errorf("rhyme: save %q: %w", path, err)
	}
	if err := os.WriteFile(path, doc, 0o644); err != nil {
		return fmt.Errorf("rhyme: save %q: %w", path, err)
	}
	return nil
}

// Load reads a persisted model. path is either a .json file path or a bare
// model name resolved under [DefaultModelDir]. tr supplies transcriptions
// at tagging time and may be nil when tagged input will carry its own IPA.
func Load(path string, tr transcribe.Transcriber) (*Model, error) {
	if !strings.HasSuffix(path, ".json") {
		path = filepath.Join(DefaultModelDir, path+".json")
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("rhyme: load %q: %w", path, err)
	}
	defer f.Close()

	m, err := LoadFromReader(f, tr)
	if err != nil {
		return nil, fmt.Errorf("rhyme: load %q: %w", path, err)
	}
	return m, nil
}

// LoadFromReader decodes a persisted model from r. Useful in tests where
// model documents are built from string literals.
func LoadFromReader(r io.Reader, tr transcribe.Transcriber) (*Model, error) {
	mf := modelFile{Settings: DefaultSettings()}
	dec := json.NewDecoder(r)
	if err := dec.Decode(&mf); err != nil {
		return nil, fmt.Errorf("decode model: %w", err)
	}

	probs := newProbTables()
	for keyspace, tbl := range mf.Probs {
		if keyspace == ngramKeyspace {
			for k, v := range tbl {
				p, err := parsePairKey(k)
				if err != nil {
					return nil, fmt.Errorf("keyspace %q: %w", keyspace, err)
				}
				probs.ngram[p] = v
			}
			continue
		}

		pos, err := strconv.Atoi(keyspace)
		if err != nil || pos < 0 {
			return nil, fmt.Errorf("invalid keyspace %q: expected %q or a position index", keyspace, ngramKeyspace)
		}
		probs.comp[pos] = make(map[Pair]float64, len(tbl))
		for k, v := range tbl {
			p, err := parsePairKey(k)
			if err != nil {
				return nil, fmt.Errorf("keyspace %q: %w", keyspace, err)
			}
			probs.comp[pos][p] = v
		}
	}

	// Older model writers saved the n-gram activation iteration
	// overwritten with the n-gram length. Equal values may be a
	// coincidence, but more often mean the model came from such a writer.
	if mf.Settings.Ngram == mf.Settings.NgramLength {
		slog.Warn("model settings have ngram == ngram_length; the ngram field may be mislabeled",
			"ngram", mf.Settings.Ngram,
			"ngram_length", mf.Settings.NgramLength,
		)
	}

	return &Model{
		settings: mf.Settings,
		tr:       tr,
		vocab:    make(map[string]vocabEntry),
		probs:    probs,
	}, nil
}
