package rhyme

// estimate derives fresh probability tables from the training set. For a
// pair (a,b) in keyspace x the estimate is
//
//	p = ft(a,b) / (ft(a,b) + fc(a)·fc(b))
//
// where ft is the pair's relative frequency inside the training set and fc
// are the items' relative frequencies in the whole corpus: the chance the
// pair indicates rhyme rather than chance co-occurrence.
func estimate(train *trainSet, f *frequencies) *probTables {
	probs := newProbTables()

	if total := sumPairs(train.ngram); total > 0 {
		for pair, cnt := range train.ngram {
			ft := float64(cnt) / float64(total)
			fca := float64(f.ngram[pair.A]) / float64(f.nNgram)
			fcb := float64(f.ngram[pair.B]) / float64(f.nNgram)
			probs.ngram[pair] = ft / (ft + fca*fcb)
		}
	}

	for i, tbl := range train.comp {
		total := sumPairs(tbl)
		if total == 0 {
			continue
		}
		probs.comp[i] = make(map[Pair]float64, len(tbl))
		for pair, cnt := range tbl {
			ft := float64(cnt) / float64(total)
			fca := float64(f.comp[i][pair.A]) / float64(f.nComp[i])
			fcb := float64(f.comp[i][pair.B]) / float64(f.nComp[i])
			probs.comp[i][pair] = ft / (ft + fca*fcb)
		}
	}
	return probs
}

func sumPairs(m map[Pair]int) int {
	total := 0
	for _, v := range m {
		total += v
	}
	return total
}
