package rhyme

import "math"

// collocations seeds the training set: every windowed word pair whose
// t-score and raw frequency clear the thresholds is taken as a rhyme,
// weighted by its occurrence count.
//
// The t-score compares the pair's observed co-occurrence against the
// expectation under independence over the whole corpus, wordless lines
// included.
func (m *Model) collocations(f *frequencies) *trainSet {
	train := newTrainSet()
	n := float64(len(m.data))

	for pair, fxy := range f.wordPair {
		if !m.settings.SameWords && pair.A == pair.B {
			continue
		}

		fx := float64(f.word[pair.A])
		fy := float64(f.word[pair.B])
		tScore := (float64(fxy) - fx*fy/n) / math.Sqrt(float64(fxy))

		if tScore > m.settings.TScoreMin && fxy > m.settings.FrequencyMin {
			train.add(m.vocab[pair.A], m.vocab[pair.B], fxy)
		}
	}
	return train
}
