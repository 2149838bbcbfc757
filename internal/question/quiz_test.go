package question

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSelectorSkipsPreviousQuestions(t *testing.T) {
	candidates := makeQuestions(5)
	previous := []int64{1, 2, 4}
	// Always take the first unseen candidate.
	selector := NewSelector(func(int) int { return 0 })

	result := selector.Pick(candidates, previous)

	require.False(t, result.Exhausted())
	assert.Equal(t, int64(3), result.Question.ID)
}

func TestSelectorSamplesOnlyUnseen(t *testing.T) {
	candidates := makeQuestions(5)
	previous := []int64{1, 3}
	var bounds []int
	selector := NewSelector(func(n int) int {
		bounds = append(bounds, n)
		return n - 1
	})

	result := selector.Pick(candidates, previous)

	require.NotNil(t, result.Question)
	assert.Equal(t, int64(5), result.Question.ID)
	assert.Equal(t, []int{3}, bounds, "should sample once over the 3 unseen candidates")
}

func TestSelectorExhausted(t *testing.T) {
	candidates := makeQuestions(4)
	selector := NewSelector(func(int) int {
		t.Fatal("must not sample from an empty pool")
		return 0
	})

	result := selector.Pick(candidates, []int64{4, 3, 2, 1})

	assert.True(t, result.Exhausted())
	assert.Nil(t, result.Question)
}

func TestSelectorEmptyCandidates(t *testing.T) {
	result := NewSelector(nil).Pick(nil, nil)
	assert.True(t, result.Exhausted())
}

func TestSelectorNeverRepeatsUnderConcurrency(t *testing.T) {
	candidates := makeQuestions(30)
	previous := []int64{2, 4, 6, 8, 10, 12, 14, 16, 18, 20, 22, 24, 26, 28, 30}
	selector := NewSelector(nil)

	var wg sync.WaitGroup
	results := make(chan QuizResult, 200)
	for i := 0; i < 200; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			results <- selector.Pick(candidates, previous)
		}()
	}
	wg.Wait()
	close(results)

	for result := range results {
		require.NotNil(t, result.Question)
		assert.NotContains(t, previous, result.Question.ID)
	}
}

func TestSelectorPlaysThroughWholePool(t *testing.T) {
	candidates := makeQuestions(7)
	selector := NewSelector(nil)

	var previous []int64
	for round := 0; round < len(candidates); round++ {
		result := selector.Pick(candidates, previous)
		require.False(t, result.Exhausted(), "round %d", round)
		assert.NotContains(t, previous, result.Question.ID)
		previous = append(previous, result.Question.ID)
	}

	assert.True(t, selector.Pick(candidates, previous).Exhausted())
	assert.ElementsMatch(t, ids(candidates), previous)
}
