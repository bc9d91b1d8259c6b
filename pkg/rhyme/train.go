package rhyme

import "log/slog"

// TrainResult reports how a training run ended.
type TrainResult struct {
	// Iterations is the number of estimation passes performed.
	Iterations int

	// Equilibrium is true when the probability tables stopped changing
	// before the iteration cap.
	Equilibrium bool
}

// Train learns pair probabilities from the ingested corpus.
//
// Corpus frequencies are counted once; collocations seed the training set;
// then estimation and detection alternate. Each iteration rebuilds the
// training set solely from the previous iteration's probabilities, so a
// repeated run over the same corpus is deterministic. The loop stops at
// equilibrium — an estimation pass that changes nothing — or at the
// iteration cap, whichever comes first.
func (m *Model) Train() (TrainResult, error) {
	if len(m.data) == 0 {
		return TrainResult{}, ErrEmptyCorpus
	}

	slog.Info("counting corpus frequencies", "lines", len(m.data), "words", len(m.vocab))
	m.freqs = m.overallFrequencies()

	slog.Info("detecting collocations", "pairs", len(m.freqs.wordPair))
	train := m.collocations(m.freqs)

	prev := newProbTables()
	for t := 1; t <= m.settings.MaxIter; t++ {
		slog.Info("learning iteration", "iteration", t)

		probs := estimate(train, m.freqs)
		m.probs = probs

		if probs.equal(prev) {
			slog.Info("equilibrium reached", "iterations", t)
			return TrainResult{Iterations: t, Equilibrium: true}, nil
		}
		if t == m.settings.MaxIter {
			// Still improving on the last pass; rebuilding one more
			// training set would be wasted work.
			slog.Info("equilibrium not reached", "iterations", t)
			return TrainResult{Iterations: t, Equilibrium: false}, nil
		}

		useNgram := m.settings.Ngram != 0 && t >= m.settings.Ngram
		det := m.detectRhymes(useNgram)
		train = m.trainSetFrom(det)
		prev = probs
	}

	// MaxIter < 1: no estimation passes; leave usable empty tables.
	if m.probs == nil {
		m.probs = newProbTables()
	}
	return TrainResult{}, nil
}
