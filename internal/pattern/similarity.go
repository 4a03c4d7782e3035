package pattern

import "github.com/Veraticus/rota/internal/model"

// Weights of the three signals blended by SemanticSimilarity.
const (
	alignmentWeight  = 0.5
	editWeight       = 0.3
	contextualWeight = 0.2
)

// SemanticSimilarity blends alignment, edit distance and feature similarity
// into a single score. Identical non-empty inputs score 1.
func SemanticSimilarity(a, b string) float64 {
	return alignmentWeight*AlignmentRatio(a, b) +
		editWeight*NormalizedEditSimilarity(a, b) +
		contextualWeight*ContextualSimilarity(a, b)
}

// AlignmentRatio is the Ratcliff/Obershelp similarity 2*M/T, where M is the
// total size of the matching blocks found by recursively taking the longest
// common substring. Two empty strings are identical.
func AlignmentRatio(a, b string) float64 {
	ra, rb := []rune(a), []rune(b)
	total := len(ra) + len(rb)
	if total == 0 {
		return 1
	}
	return 2 * float64(matchingCharacters(ra, rb)) / float64(total)
}

type span struct {
	alo, ahi, blo, bhi int
}

func matchingCharacters(a, b []rune) int {
	positions := make(map[rune][]int, len(b))
	for j, r := range b {
		positions[r] = append(positions[r], j)
	}

	matched := 0
	queue := []span{{0, len(a), 0, len(b)}}
	for len(queue) > 0 {
		s := queue[len(queue)-1]
		queue = queue[:len(queue)-1]

		i, j, size := longestMatch(a, positions, s)
		if size == 0 {
			continue
		}
		matched += size
		if s.alo < i && s.blo < j {
			queue = append(queue, span{s.alo, i, s.blo, j})
		}
		if i+size < s.ahi && j+size < s.bhi {
			queue = append(queue, span{i + size, s.ahi, j + size, s.bhi})
		}
	}
	return matched
}

// longestMatch finds the longest block a[i:i+k] == b[j:j+k] inside s. Ties go
// to the block starting earliest in a, then earliest in b.
func longestMatch(a []rune, positions map[rune][]int, s span) (besti, bestj, bestSize int) {
	besti, bestj = s.alo, s.blo
	lengths := map[int]int{}
	for i := s.alo; i < s.ahi; i++ {
		next := map[int]int{}
		for _, j := range positions[a[i]] {
			if j < s.blo {
				continue
			}
			if j >= s.bhi {
				break
			}
			k := lengths[j-1] + 1
			next[j] = k
			if k > bestSize {
				besti, bestj, bestSize = i-k+1, j-k+1, k
			}
		}
		lengths = next
	}
	return besti, bestj, bestSize
}

// EditDistance is the Levenshtein distance with unit costs.
func EditDistance(a, b string) int {
	ra, rb := []rune(a), []rune(b)
	if len(ra) < len(rb) {
		ra, rb = rb, ra
	}
	if len(rb) == 0 {
		return len(ra)
	}

	previous := make([]int, len(rb)+1)
	for j := range previous {
		previous[j] = j
	}
	current := make([]int, len(rb)+1)

	for i, ca := range ra {
		current[0] = i + 1
		for j, cb := range rb {
			cost := 1
			if ca == cb {
				cost = 0
			}
			current[j+1] = min(previous[j+1]+1, current[j]+1, previous[j]+cost)
		}
		previous, current = current, previous
	}
	return previous[len(rb)]
}

// NormalizedEditSimilarity is 1 - distance/maxLen, and 0 when both inputs are empty.
func NormalizedEditSimilarity(a, b string) float64 {
	maxLen := max(len([]rune(a)), len([]rune(b)))
	if maxLen == 0 {
		return 0
	}
	return 1 - float64(EditDistance(a, b))/float64(maxLen)
}

// ContextualSimilarity averages per-feature similarity over the eight
// features of the two patterns.
func ContextualSimilarity(a, b string) float64 {
	fa, fb := model.Features(a), model.Features(b)

	numeric := [][2]int{
		{fa.Length, fb.Length},
		{fa.RestDays, fb.RestDays},
		{fa.Mornings, fb.Mornings},
		{fa.Afternoons, fb.Afternoons},
		{fa.Nights, fb.Nights},
		{fa.Transitions, fb.Transitions},
	}

	total := 0.0
	for _, pair := range numeric {
		total += numericSimilarity(pair[0], pair[1])
	}
	if fa.First == fb.First {
		total++
	}
	if fa.Last == fb.Last {
		total++
	}

	return total / float64(len(numeric)+2)
}

func numericSimilarity(x, y int) float64 {
	diff := x - y
	if diff < 0 {
		diff = -diff
	}
	return 1 - float64(diff)/float64(max(x, y, 1))
}
