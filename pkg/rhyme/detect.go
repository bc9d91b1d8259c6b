package rhyme

// detection is the symmetric rhyme graph over line indices built by one
// detection sweep.
type detection struct {
	rhymes map[int]map[int]struct{}
}

func (d *detection) link(i, j int) {
	if d.rhymes[i] == nil {
		d.rhymes[i] = make(map[int]struct{})
	}
	if d.rhymes[j] == nil {
		d.rhymes[j] = make(map[int]struct{})
	}
	d.rhymes[i][j] = struct{}{}
	d.rhymes[j][i] = struct{}{}
}

// detectRhymes sweeps the corpus and links rhyming line pairs inside the
// window using the stored probability tables.
//
// Phase 1 scores sound components. Each accepted pair is also closed
// transitively against the i-line's existing partners, which chains rhymes
// whose direct distance exceeds the window. Phase 2, active only when
// useNgram is set, rescans lines left without a partner using the n-gram
// score; its links are not closed transitively.
func (m *Model) detectRhymes(useNgram bool) *detection {
	det := &detection{rhymes: make(map[int]map[int]struct{})}

	for i, l := range m.data {
		if l.word == "" {
			continue
		}

		for j := i + 1; j <= i+m.settings.Window; j++ {
			if m.skipPair(l, j) {
				continue
			}

			score := m.componentScore(l.comps, m.data[j].comps, l.redup, m.data[j].redup)
			if score <= m.settings.ProbIPAMin {
				continue
			}

			// Close the new link against i's existing partners before
			// recording it, so j links to every k already chained to i.
			for k := range det.rhymes[i] {
				if k != j {
					det.link(k, j)
				}
			}
			det.link(i, j)
		}

		if !useNgram {
			continue
		}
		if _, linked := det.rhymes[i]; linked {
			continue
		}
		for j := i + 1; j <= i+m.settings.Window; j++ {
			if m.skipPair(l, j) {
				continue
			}
			if _, taken := det.rhymes[j]; taken {
				continue
			}

			v1, v2 := m.vocab[l.word], m.vocab[m.data[j].word]
			score := m.ngramScore(v1.ngram, v2.ngram, l.redup, m.data[j].redup)
			if score > m.settings.ProbNgramMin {
				det.link(i, j)
			}
		}
	}
	return det
}

// skipPair reports whether line j cannot pair with l: out of range, a
// different poem, a different stanza under stanza confinement, the same
// word when identical words may not rhyme, or no word at all.
func (m *Model) skipPair(l lineRecord, j int) bool {
	if j > len(m.data)-1 {
		return true
	}
	if l.poemID != m.data[j].poemID {
		return true
	}
	if m.settings.StanzaLimit && l.stanzaID != m.data[j].stanzaID {
		return true
	}
	if !m.settings.SameWords && l.word == m.data[j].word {
		return true
	}
	return m.data[j].word == ""
}

// trainSetFrom rebuilds the training set from detected rhymes, one count
// per unordered pair.
func (m *Model) trainSetFrom(det *detection) *trainSet {
	train := newTrainSet()
	for i, partners := range det.rhymes {
		for j := range partners {
			if i > j {
				continue
			}
			train.add(m.vocab[m.data[i].word], m.vocab[m.data[j].word], 1)
		}
	}
	return train
}
