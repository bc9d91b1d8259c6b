// Package corpus reads poem corpora from disk.
//
// Two file formats are supported:
//
//   - Plain text (.txt): one poem per file; blank lines separate stanzas.
//   - JSON (.json): an array of poems. A poem is an array of stanzas
//     (arrays of lines) or a flat array of lines. A line is either a plain
//     string or an object {"text": ..., "ipa": ...} for pre-transcribed
//     corpora.
//
// Directory loading parses files concurrently; poem order follows the
// lexical order of file names, so repeated runs ingest identically.
package corpus

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"slices"
	"strings"

	"github.com/verselabs/chime/pkg/rhyme"
	"golang.org/x/sync/errgroup"
)

// LoadDir loads every .txt and .json file directly under dir, in lexical
// file-name order. Files are parsed concurrently; the returned poem order
// is deterministic regardless.
func LoadDir(ctx context.Context, dir string) ([]rhyme.Poem, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("corpus: read dir %q: %w", dir, err)
	}

	var files []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		switch filepath.Ext(e.Name()) {
		case ".txt", ".json":
			files = append(files, filepath.Join(dir, e.Name()))
		}
	}
	slices.Sort(files)
	if len(files) == 0 {
		return nil, fmt.Errorf("corpus: no .txt or .json files in %q", dir)
	}

	results := make([][]rhyme.Poem, len(files))
	g, _ := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i, path := range files {
		g.Go(func() error {
			poems, err := LoadFile(path)
			if err != nil {
				return err
			}
			results[i] = poems
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var poems []rhyme.Poem
	for _, r := range results {
		poems = append(poems, r...)
	}
	return poems, nil
}

// LoadFile parses a single corpus file by extension.
func LoadFile(path string) ([]rhyme.Poem, error) {
	switch filepath.Ext(path) {
	case ".json":
		return loadJSON(path)
	default:
		poem, err := loadText(path)
		if err != nil {
			return nil, err
		}
		return []rhyme.Poem{poem}, nil
	}
}

// loadText reads one poem: lines in file order, stanzas split on runs of
// blank lines.
func loadText(path string) (rhyme.Poem, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("corpus: open %q: %w", path, err)
	}
	defer f.Close()

	var poem rhyme.Poem
	var stanza rhyme.Stanza
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line := strings.TrimRight(sc.Text(), " \t")
		if strings.TrimSpace(line) == "" {
			if len(stanza) > 0 {
				poem = append(poem, stanza)
				stanza = nil
			}
			continue
		}
		stanza = append(stanza, rhyme.Line{Text: line})
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("corpus: read %q: %w", path, err)
	}
	if len(stanza) > 0 {
		poem = append(poem, stanza)
	}
	if len(poem) == 0 {
		return nil, fmt.Errorf("corpus: %q holds no lines", path)
	}
	return poem, nil
}

// loadJSON reads an array of poems.
func loadJSON(path string) ([]rhyme.Poem, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("corpus: read %q: %w", path, err)
	}

	var rawPoems []json.RawMessage
	if err := json.Unmarshal(raw, &rawPoems); err != nil {
		return nil, fmt.Errorf("corpus: %q: expected a JSON array of poems: %w", path, err)
	}

	poems := make([]rhyme.Poem, 0, len(rawPoems))
	for i, rp := range rawPoems {
		poem, err := ParsePoem(rp)
		if err != nil {
			return nil, fmt.Errorf("corpus: %q: poem %d: %w", path, i, err)
		}
		poems = append(poems, poem)
	}
	return poems, nil
}

// ParsePoem decodes one poem: an array of stanzas or a flat array of
// lines. A flat poem becomes a single stanza, which preserves the "no
// stanza structure" reading (all lines share one stanza). Also used by the
// tagging API to decode request bodies.
func ParsePoem(raw json.RawMessage) (rhyme.Poem, error) {
	var elems []json.RawMessage
	if err := json.Unmarshal(raw, &elems); err != nil {
		return nil, fmt.Errorf("expected an array: %w", err)
	}
	if len(elems) == 0 {
		return nil, fmt.Errorf("poem is empty")
	}

	if isArray(elems[0]) {
		poem := make(rhyme.Poem, 0, len(elems))
		for i, e := range elems {
			var rawLines []json.RawMessage
			if err := json.Unmarshal(e, &rawLines); err != nil {
				return nil, fmt.Errorf("stanza %d: %w", i, err)
			}
			stanza, err := parseLines(rawLines)
			if err != nil {
				return nil, fmt.Errorf("stanza %d: %w", i, err)
			}
			poem = append(poem, stanza)
		}
		return poem, nil
	}

	stanza, err := parseLines(elems)
	if err != nil {
		return nil, err
	}
	return rhyme.Poem{stanza}, nil
}

func parseLines(raw []json.RawMessage) (rhyme.Stanza, error) {
	stanza := make(rhyme.Stanza, 0, len(raw))
	for i, r := range raw {
		var text string
		if err := json.Unmarshal(r, &text); err == nil {
			stanza = append(stanza, rhyme.Line{Text: text})
			continue
		}
		var obj struct {
			Text string `json:"text"`
			IPA  string `json:"ipa"`
		}
		if err := json.Unmarshal(r, &obj); err != nil {
			return nil, fmt.Errorf("line %d: expected a string or {text, ipa}: %w", i, err)
		}
		stanza = append(stanza, rhyme.Line{Text: obj.Text, IPA: obj.IPA})
	}
	return stanza, nil
}

func isArray(raw json.RawMessage) bool {
	trimmed := strings.TrimLeft(string(raw), " \t\r\n")
	return strings.HasPrefix(trimmed, "[")
}
