package rhyme

import "testing"

func TestOverallFrequencies_WindowAndBoundaries(t *testing.T) {
	t.Parallel()

	s := detectSettings()
	s.Window = 10
	m := detectModel(s, []lineRecord{
		{word: "cat", poemID: 0, comps: []string{"t", "æ"}, redup: 1},
		{word: "hat", poemID: 0, comps: []string{"t", "æ"}, redup: 1},
		{word: "", poemID: 0},
		{word: "cat", poemID: 1, comps: []string{"t", "æ"}, redup: 1},
		{word: "moon", poemID: 1, comps: []string{"n", "uː"}, redup: 1},
	})

	f := m.overallFrequencies()

	if got := f.word["cat"]; got != 2 {
		t.Errorf("f.word[cat] = %d, want 2", got)
	}

	// Pairs stay inside their poem despite the wide window.
	if got := f.wordPair[NewPair("cat", "hat")]; got != 1 {
		t.Errorf("f.wordPair[(cat,hat)] = %d, want 1", got)
	}
	if got := f.wordPair[NewPair("cat", "moon")]; got != 1 {
		t.Errorf("f.wordPair[(cat,moon)] = %d, want 1", got)
	}
	if _, ok := f.wordPair[NewPair("hat", "moon")]; ok {
		t.Error("cross-poem pair (hat,moon) counted")
	}
	if f.nPairs != 2 {
		t.Errorf("f.nPairs = %d, want 2", f.nPairs)
	}

	// Component totals: 4 worded lines, position 0 over vocab components.
	if got := f.comp[0]["t"]; got != 3 {
		t.Errorf("f.comp[0][t] = %d, want 3", got)
	}
	if got := f.nComp[0]; got != 4 {
		t.Errorf("f.nComp[0] = %d, want 4", got)
	}
	if got := f.nNgram; got != 4 {
		t.Errorf("f.nNgram = %d, want 4", got)
	}
}

func TestCollocations_Thresholds(t *testing.T) {
	t.Parallel()

	s := detectSettings()
	s.TScoreMin = 1.0
	s.FrequencyMin = 2

	// Five couplet poems of (cat, hat): pair count 5, each word count 5,
	// 10 lines total.
	var entries []lineRecord
	for p := 0; p < 5; p++ {
		entries = append(entries,
			lineRecord{word: "cat", poemID: p, comps: []string{"t", "æ"}, redup: 1},
			lineRecord{word: "hat", poemID: p, comps: []string{"t", "æ"}, redup: 1},
		)
	}
	m := detectModel(s, entries)

	f := m.overallFrequencies()
	train := m.collocations(f)

	// t = (5 - 5·5/10) / √5 ≈ 1.118 > 1.0 and 5 > 2: the pair seeds the
	// training set weighted by its occurrence count.
	if got := train.ngram[NewPair("cat", "hat")]; got != 5 {
		t.Errorf("train.ngram[(cat,hat)] = %d, want 5", got)
	}
	if got := train.comp[1][NewPair("æ", "æ")]; got != 5 {
		t.Errorf("train.comp[1][(æ,æ)] = %d, want 5", got)
	}

	// Raising the frequency floor above the pair count empties the seed.
	m.settings.FrequencyMin = 5
	if train := m.collocations(f); len(train.ngram) != 0 {
		t.Errorf("training set seeded despite frequency floor: %v", train.ngram)
	}
}

func TestCollocations_SelfPairSkipped(t *testing.T) {
	t.Parallel()

	s := detectSettings()
	s.TScoreMin = 0
	s.FrequencyMin = 0
	s.SameWords = false

	var entries []lineRecord
	for p := 0; p < 3; p++ {
		entries = append(entries,
			lineRecord{word: "night", poemID: p, comps: []string{"t", "aɪ"}, redup: 1},
			lineRecord{word: "night", poemID: p, comps: []string{"t", "aɪ"}, redup: 1},
		)
	}
	m := detectModel(s, entries)

	f := m.overallFrequencies()
	if train := m.collocations(f); len(train.ngram) != 0 {
		t.Errorf("self-pair seeded with same_words=false: %v", train.ngram)
	}
}

func TestEstimate_ProbabilityFormula(t *testing.T) {
	t.Parallel()

	f := newFrequencies()
	f.ngram["cat"] = 5
	f.ngram["hat"] = 5
	f.nNgram = 10
	f.comp[0] = map[string]int{"t": 10}
	f.nComp[0] = 10

	train := newTrainSet()
	train.ngram[NewPair("cat", "hat")] = 5
	train.comp[0] = map[Pair]int{NewPair("t", "t"): 5}

	probs := estimate(train, f)

	// ft = 1, fc = 0.5 each: p = 1 / (1 + 0.25) = 0.8.
	if got := probs.ngram[NewPair("cat", "hat")]; got != 0.8 {
		t.Errorf("p_g[(cat,hat)] = %v, want 0.8", got)
	}
	// ft = 1, fc = 1: p = 0.5.
	if got := probs.comp[0][NewPair("t", "t")]; got != 0.5 {
		t.Errorf("p_c[0][(t,t)] = %v, want 0.5", got)
	}
}

func TestProbTables_Equal(t *testing.T) {
	t.Parallel()

	a := newProbTables()
	a.ngram[NewPair("cat", "hat")] = 0.8
	a.comp[0] = map[Pair]float64{NewPair("t", "t"): 0.5}

	b := newProbTables()
	b.ngram[NewPair("cat", "hat")] = 0.8
	b.comp[0] = map[Pair]float64{NewPair("t", "t"): 0.5}

	if !a.equal(b) {
		t.Error("identical tables reported unequal")
	}

	b.comp[0][NewPair("t", "t")] = 0.51
	if a.equal(b) {
		t.Error("differing tables reported equal")
	}

	c := newProbTables()
	if a.equal(c) || !c.equal(newProbTables()) {
		t.Error("empty-table comparisons wrong")
	}
}
