package rhyme

// Pair is an unordered pair of strings in canonical (sorted) form. Every
// pair-keyed table in the engine uses Pair keys, so canonicalization
// happens exactly once, at construction.
type Pair struct {
	A, B string
}

// NewPair returns the canonical pair for a and b.
func NewPair(a, b string) Pair {
	if a > b {
		a, b = b, a
	}
	return Pair{A: a, B: b}
}

// frequencies holds corpus-wide counts gathered in a single sweep:
// rhyme-word unigrams, windowed word pairs, word-final n-grams, and sound
// components per fingerprint position.
type frequencies struct {
	word     map[string]int
	wordPair map[Pair]int
	nPairs   int

	ngram  map[string]int
	nNgram int

	comp  map[int]map[string]int
	nComp map[int]int
}

func newFrequencies() *frequencies {
	return &frequencies{
		word:     make(map[string]int),
		wordPair: make(map[Pair]int),
		ngram:    make(map[string]int),
		comp:     make(map[int]map[string]int),
		nComp:    make(map[int]int),
	}
}

// trainSet counts co-occurrences of n-gram pairs and per-position component
// pairs across word pairs believed to rhyme.
type trainSet struct {
	ngram map[Pair]int
	comp  map[int]map[Pair]int
}

func newTrainSet() *trainSet {
	return &trainSet{
		ngram: make(map[Pair]int),
		comp:  make(map[int]map[Pair]int),
	}
}

// add registers a rhyming word pair with weight k: its n-gram pair once and
// the component pair at every position both fingerprints cover.
func (t *trainSet) add(v1, v2 vocabEntry, k int) {
	t.ngram[NewPair(v1.ngram, v2.ngram)] += k
	n := min(len(v1.comps), len(v2.comps))
	for i := 0; i < n; i++ {
		if t.comp[i] == nil {
			t.comp[i] = make(map[Pair]int)
		}
		t.comp[i][NewPair(v1.comps[i], v2.comps[i])] += k
	}
}

// probTables is the estimator output: the probability that two lines rhyme
// given an observed n-gram pair or component pair at a position.
type probTables struct {
	ngram map[Pair]float64
	comp  map[int]map[Pair]float64
}

func newProbTables() *probTables {
	return &probTables{
		ngram: make(map[Pair]float64),
		comp:  make(map[int]map[Pair]float64),
	}
}

// compAt returns the probability stored for pair at position i.
func (p *probTables) compAt(i int, pair Pair) (float64, bool) {
	tbl, ok := p.comp[i]
	if !ok {
		return 0, false
	}
	v, ok := tbl[pair]
	return v, ok
}

// equal reports exact equality of both sub-stores: same keys, same values.
// The training loop's equilibrium test is exact equality, not tolerance.
func (p *probTables) equal(q *probTables) bool {
	if len(p.ngram) != len(q.ngram) || len(p.comp) != len(q.comp) {
		return false
	}
	for k, v := range p.ngram {
		if w, ok := q.ngram[k]; !ok || v != w {
			return false
		}
	}
	for i, tbl := range p.comp {
		qtbl, ok := q.comp[i]
		if !ok || len(tbl) != len(qtbl) {
			return false
		}
		for k, v := range tbl {
			if w, ok := qtbl[k]; !ok || v != w {
				return false
			}
		}
	}
	return true
}
