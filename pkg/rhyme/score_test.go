package rhyme

import "testing"

func scoringModel(penalty float64) *Model {
	s := DefaultSettings()
	s.Lang = "en"
	s.LengthPenalty = penalty
	return &Model{settings: s, probs: newProbTables()}
}

func TestComponentScore_IdenticalFingerprints(t *testing.T) {
	t.Parallel()

	m := scoringModel(0)
	comps := []string{"t", "æ"}

	// Identical fingerprints score 1 regardless of the tables.
	if got := m.componentScore(comps, comps, 1, 1); got != 1 {
		t.Errorf("componentScore(identical) = %v, want 1", got)
	}
}

func TestComponentScore_IdenticalWithParityMismatch(t *testing.T) {
	t.Parallel()

	m := scoringModel(0.25)

	// Truncation makes the fingerprints equal; the parity mismatch still
	// discounts the score.
	got := m.componentScore([]string{"t", "æ"}, []string{"t", "æ", "k"}, 1, 1.5)
	if want := 0.75; got != want {
		t.Errorf("componentScore = %v, want %v", got, want)
	}
}

func TestComponentScore_FallbackConstants(t *testing.T) {
	t.Parallel()

	m := scoringModel(0)

	// Same unseen components multiply in 0.99, different ones 0.0001.
	got := m.componentScore([]string{"t", "æ"}, []string{"t", "uː"}, 1, 1)
	// Typed variables keep the arithmetic in float64, as in componentScore;
	// constant literals would be folded at exact precision instead.
	same, diff := 0.99, 0.0001
	num := same * diff
	den := (1 - same) * (1 - diff)
	if want := num / (num + den); got != want {
		t.Errorf("componentScore = %v, want %v", got, want)
	}
}

func TestComponentScore_UsesLearnedProbability(t *testing.T) {
	t.Parallel()

	m := scoringModel(0)
	m.probs.comp[1] = map[Pair]float64{NewPair("æ", "uː"): 0.9}

	got := m.componentScore([]string{"t", "æ"}, []string{"t", "uː"}, 1, 1)
	num := 0.99 * 0.9
	den := (1 - 0.99) * (1 - 0.9)
	if want := num / (num + den); got != want {
		t.Errorf("componentScore = %v, want %v", got, want)
	}
}

func TestComponentScore_Bounds(t *testing.T) {
	t.Parallel()

	m := scoringModel(1)
	cases := [][2][]string{
		{{"t", "æ"}, {"d", "uː"}},
		{{"t"}, {"t", "æ", "k"}},
		{{}, {"t"}},
	}
	for _, c := range cases {
		got := m.componentScore(c[0], c[1], 1, 1.5)
		if got < 0 || got > 1 {
			t.Errorf("componentScore(%v, %v) = %v, out of [0,1]", c[0], c[1], got)
		}
	}
}

func TestNgramScore_Paths(t *testing.T) {
	t.Parallel()

	m := scoringModel(0)
	m.probs.ngram[NewPair("oon", "une")] = 0.8

	if got := m.ngramScore("oon", "une", 1, 1); got != 0.8 {
		t.Errorf("learned ngram score = %v, want 0.8", got)
	}
	if got := m.ngramScore("oon", "oon", 1, 1); got != 0.99 {
		t.Errorf("same unseen ngram score = %v, want 0.99", got)
	}
	if got := m.ngramScore("oon", "ight", 1, 1); got != 0.0001 {
		t.Errorf("different unseen ngram score = %v, want 0.0001", got)
	}
}

func TestNgramScore_ParityPenalty(t *testing.T) {
	t.Parallel()

	m := scoringModel(0.5)
	if got := m.ngramScore("oon", "oon", 1, 1.5); got != 0.99*0.5 {
		t.Errorf("ngram score with parity mismatch = %v, want %v", got, 0.99*0.5)
	}
}

func TestLengthCoef_ParityClasses(t *testing.T) {
	t.Parallel()

	m := scoringModel(0.25)
	cases := []struct {
		l1, l2 float64
		same   bool
	}{
		{1, 1, true},
		{1, 3, true},
		{0.5, 2.5, true},
		{1, 2, false},
		{0.5, 1, false},
		{1.5, 2, false},
		{0.5, 1.5, false},
	}
	for _, c := range cases {
		got := m.lengthCoef(c.l1, c.l2)
		want := 0.75
		if c.same {
			want = 1
		}
		if got != want {
			t.Errorf("lengthCoef(%v, %v) = %v, want %v", c.l1, c.l2, got, want)
		}
	}
}
