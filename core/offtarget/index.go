package offtarget

import (
	"cmp"
	"slices"

	"grna/core/sequence"
)

// Query is one guide to look up through an Index. IDs must be unique.
type Query struct {
	ID     string
	Guide  string
	Origin Origin
}

// Index answers many guides against the same pool in one pass per target.
// With K allowed mismatches each strand pattern is cut into K+1 disjoint
// seeds; any window within K mismatches holds at least one of them exactly,
// so an Aho-Corasick scan for the seeds followed by a full verify finds the
// same hits as Search.
type Index struct {
	queries  []*query
	seeds    []seed
	nodes    []acNode
	fallback []int
}

type seed struct {
	query  int
	strand sequence.Strand
	offset int // seed start within the strand pattern
	pat    []byte
}

// NewIndex builds the seed automaton for queries.
func NewIndex(queries []Query, opt Options) *Index {
	ix := &Index{queries: make([]*query, 0, len(queries))}
	parts := opt.MaxMismatches + 1
	for qi, qq := range queries {
		q := newQuery(qq.Guide, qq.Origin, opt)
		q.id = qq.ID
		ix.queries = append(ix.queries, q)
		if q.n < parts || !isUnambig(q.guide) {
			ix.fallback = append(ix.fallback, qi)
			continue
		}
		for _, strand := range strands {
			pat := q.pattern(strand)
			for k := 0; k < parts; k++ {
				lo, hi := k*q.n/parts, (k+1)*q.n/parts
				ix.seeds = append(ix.seeds, seed{query: qi, strand: strand, offset: lo, pat: pat[lo:hi]})
			}
		}
	}
	ix.nodes = buildAC(ix.seeds)
	return ix
}

// Len is the number of indexed queries.
func (ix *Index) Len() int { return len(ix.queries) }

// Search returns hits keyed by query ID, in the same order Search would give.
func (ix *Index) Search(pool []sequence.Sequence) map[string][]Hit {
	out := make(map[string][]Hit, len(ix.queries))
	type locus struct {
		pos    int
		strand sequence.Strand
	}
	for ti, t := range pool {
		tb := []byte(t.Seq)
		found := make([][]Hit, len(ix.queries))
		seen := make([]map[locus]struct{}, len(ix.queries))
		for _, sh := range scanAC(tb, ix.nodes, ix.seeds) {
			s := ix.seeds[sh.seedIdx]
			l := locus{pos: sh.pos - s.offset, strand: s.strand}
			if seen[s.query] == nil {
				seen[s.query] = make(map[locus]struct{})
			}
			if _, dup := seen[s.query][l]; dup {
				continue
			}
			seen[s.query][l] = struct{}{}
			if h, ok := ix.queries[s.query].check(ti, t.ID, tb, l.pos, l.strand); ok {
				found[s.query] = append(found[s.query], h)
			}
		}
		for _, qi := range ix.fallback {
			q := ix.queries[qi]
			for pos := 0; q.n > 0 && pos+q.n <= len(tb); pos++ {
				for _, strand := range strands {
					if h, ok := q.check(ti, t.ID, tb, pos, strand); ok {
						found[qi] = append(found[qi], h)
					}
				}
			}
		}
		for qi, hs := range found {
			if len(hs) == 0 {
				continue
			}
			slices.SortFunc(hs, compareHits)
			id := ix.queries[qi].id
			out[id] = append(out[id], hs...)
		}
	}
	return out
}

func compareHits(a, b Hit) int {
	if c := cmp.Compare(a.Start, b.Start); c != 0 {
		return c
	}
	return cmp.Compare(strandRank(a.Strand), strandRank(b.Strand))
}

func strandRank(s sequence.Strand) int {
	if s == sequence.Minus {
		return 1
	}
	return 0
}

// ------------------------ Aho-Corasick over ACGT ----------------------------

type acNode struct {
	next [4]int // -1 means no edge until failure links are resolved
	fail int
	out  []int // seed indices ending here
}

func baseIdx(b byte) int {
	switch b {
	case 'A':
		return 0
	case 'C':
		return 1
	case 'G':
		return 2
	case 'T':
		return 3
	}
	return -1
}

func isUnambig(p []byte) bool {
	for _, c := range p {
		if baseIdx(c) < 0 {
			return false
		}
	}
	return true
}

func newNode() acNode {
	return acNode{next: [4]int{-1, -1, -1, -1}}
}

func buildAC(seeds []seed) []acNode {
	nodes := []acNode{newNode()}
	for si, s := range seeds {
		state := 0
		for _, b := range s.pat {
			ix := baseIdx(b)
			if nodes[state].next[ix] == -1 {
				nodes[state].next[ix] = len(nodes)
				nodes = append(nodes, newNode())
			}
			state = nodes[state].next[ix]
		}
		nodes[state].out = append(nodes[state].out, si)
	}

	// failure links (BFS); missing edges become goto transitions
	queue := make([]int, 0, len(nodes))
	for ch := 0; ch < 4; ch++ {
		if nx := nodes[0].next[ch]; nx != -1 {
			nodes[nx].fail = 0
			queue = append(queue, nx)
		} else {
			nodes[0].next[ch] = 0
		}
	}
	for qh := 0; qh < len(queue); qh++ {
		r := queue[qh]
		for ch := 0; ch < 4; ch++ {
			s := nodes[r].next[ch]
			if s == -1 {
				nodes[r].next[ch] = nodes[nodes[r].fail].next[ch]
				continue
			}
			queue = append(queue, s)
			nodes[s].fail = nodes[nodes[r].fail].next[ch]
			nodes[s].out = append(nodes[s].out, nodes[nodes[s].fail].out...)
		}
	}
	return nodes
}

type seedHit struct {
	seedIdx int
	pos     int // seed match start in seq
}

// scanAC reports every seed occurrence by start position.
// A non-ACGT byte resets the automaton.
func scanAC(seq []byte, nodes []acNode, seeds []seed) []seedHit {
	var hits []seedHit
	state := 0
	for i := 0; i < len(seq); i++ {
		ix := baseIdx(seq[i])
		if ix < 0 {
			state = 0
			continue
		}
		state = nodes[state].next[ix]
		for _, si := range nodes[state].out {
			hits = append(hits, seedHit{seedIdx: si, pos: i - (len(seeds[si].pat) - 1)})
		}
	}
	return hits
}
