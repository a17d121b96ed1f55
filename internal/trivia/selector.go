package trivia

import (
	"math/rand/v2"

	"github.com/gokatarajesh/trivia-api/internal/db/repository"
)

// RandomSource yields uniform integers in [0, n).
type RandomSource interface {
	IntN(n int) int
}

// globalSource draws from the runtime's goroutine-safe generator.
type globalSource struct{}

func (globalSource) IntN(n int) int { return rand.IntN(n) }

// Selector picks quiz questions the player has not seen yet.
type Selector struct {
	rng RandomSource
}

// NewSelector returns a Selector drawing from rng, or from the shared
// runtime generator when rng is nil. rng must be safe for concurrent use if
// the Selector is shared between requests.
func NewSelector(rng RandomSource) *Selector {
	if rng == nil {
		rng = globalSource{}
	}
	return &Selector{rng: rng}
}

// Pick draws candidates at random until it finds one whose id is not in
// previous. It returns nil once every distinct candidate id has been drawn
// and rejected, or immediately when there are no candidates.
func (s *Selector) Pick(previous map[int]struct{}, candidates []repository.Question) *repository.Question {
	if len(candidates) == 0 {
		return nil
	}

	distinct := make(map[int]struct{}, len(candidates))
	for _, c := range candidates {
		distinct[c.ID] = struct{}{}
	}

	tried := make(map[int]struct{}, len(distinct))
	for {
		candidate := candidates[s.rng.IntN(len(candidates))]
		if _, seen := tried[candidate.ID]; seen {
			continue
		}
		if _, used := previous[candidate.ID]; !used {
			return &candidate
		}
		tried[candidate.ID] = struct{}{}
		if len(tried) == len(distinct) {
			return nil
		}
	}
}
