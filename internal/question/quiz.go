package question

import "math/rand/v2"

// Selector picks quiz questions uniformly at random among unseen candidates.
type Selector struct {
	intn func(n int) int
}

// NewSelector returns a Selector drawing from intn, which must return a value
// in [0, n). A nil intn uses math/rand/v2, which is safe for concurrent use.
func NewSelector(intn func(n int) int) *Selector {
	if intn == nil {
		intn = rand.IntN
	}
	return &Selector{intn: intn}
}

// Pick filters out previously asked ids and samples once from what remains.
// It always terminates; an empty remainder yields an exhausted result.
func (s *Selector) Pick(candidates []Question, previous []int64) QuizResult {
	asked := make(map[int64]struct{}, len(previous))
	for _, id := range previous {
		asked[id] = struct{}{}
	}

	unseen := make([]Question, 0, len(candidates))
	for _, q := range candidates {
		if _, ok := asked[q.ID]; !ok {
			unseen = append(unseen, q)
		}
	}
	if len(unseen) == 0 {
		return QuizResult{}
	}

	picked := unseen[s.intn(len(unseen))]
	return QuizResult{Question: &picked}
}
