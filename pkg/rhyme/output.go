package rhyme

import (
	"fmt"
	"slices"
)

// OutputFormat selects a rendering of detected rhymes.
type OutputFormat int

const (
	// FormatNeighbors lists, for every line, the indices it rhymes with.
	FormatNeighbors OutputFormat = 1

	// FormatChains lists each rhyme chain as a sorted index sequence.
	FormatChains OutputFormat = 2

	// FormatScheme assigns each line its chain's 1-based number, the
	// numeric analogue of an ABBA scheme. 0 marks an unrhymed line.
	FormatScheme OutputFormat = 3
)

// Rhymes is the result of tagging a poem: a symmetric rhyme graph over the
// poem's line indices, renderable in three formats.
type Rhymes struct {
	neighbors map[int]map[int]struct{}
	lines     int
}

// Lines returns the number of lines in the tagged poem.
func (r *Rhymes) Lines() int { return r.lines }

// Neighbors returns one slot per line holding the sorted indices of the
// lines it rhymes with; unrhymed lines hold an empty list.
func (r *Rhymes) Neighbors() [][]int {
	out := make([][]int, r.lines)
	for i := range out {
		out[i] = []int{}
		for j := range r.neighbors[i] {
			out[i] = append(out[i], j)
		}
		slices.Sort(out[i])
	}
	return out
}

// Chains returns the rhyme chains: each chain is the sorted indices of a
// set of mutually rhyming lines. Chains are deduplicated and ordered by
// their first line.
func (r *Rhymes) Chains() [][]int {
	seen := make(map[string]struct{})
	var chains [][]int
	for i, partners := range r.neighbors {
		chain := make([]int, 0, len(partners)+1)
		chain = append(chain, i)
		for j := range partners {
			chain = append(chain, j)
		}
		slices.Sort(chain)

		key := fmt.Sprint(chain)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		chains = append(chains, chain)
	}
	slices.SortFunc(chains, func(a, b []int) int { return a[0] - b[0] })
	return chains
}

// Scheme returns one entry per line: the 1-based number of the chain the
// line belongs to, or 0 when it rhymes with nothing.
func (r *Rhymes) Scheme() []int {
	chains := r.Chains()
	out := make([]int, r.lines)
	for idx, chain := range chains {
		for _, i := range chain {
			// A line can sit in several overlapping chains; the first
			// (lowest-starting) one names it.
			if out[i] == 0 {
				out[i] = idx + 1
			}
		}
	}
	return out
}

// Render returns the requested format as a JSON-friendly value.
func (r *Rhymes) Render(f OutputFormat) (any, error) {
	switch f {
	case FormatNeighbors:
		return r.Neighbors(), nil
	case FormatChains:
		return r.Chains(), nil
	case FormatScheme:
		return r.Scheme(), nil
	default:
		return nil, fmt.Errorf("rhyme: unknown output format %d", int(f))
	}
}
