package question

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	sqlcgen "github.com/gokatarajesh/trivia-api/internal/db/sqlc"
)

func strPtr(s string) *string { return &s }
func int64Ptr(v int64) *int64 { return &v }

func TestListQuestionsPages(t *testing.T) {
	service := newTestService(endToEndDB(), ServiceOptions{})

	first, err := service.ListQuestions(context.Background(), 1)
	require.NoError(t, err)
	assert.Len(t, first.Questions, 10)
	assert.Equal(t, int64(12), first.Total)

	second, err := service.ListQuestions(context.Background(), 2)
	require.NoError(t, err)
	assert.Equal(t, []int64{11, 12}, ids(second.Questions))
	assert.Equal(t, int64(12), second.Total)

	_, err = service.ListQuestions(context.Background(), 3)
	assert.ErrorIs(t, err, ErrPageNotFound)
}

func TestListQuestionsIdempotent(t *testing.T) {
	service := newTestService(endToEndDB(), ServiceOptions{})

	a, err := service.ListQuestions(context.Background(), 1)
	require.NoError(t, err)
	b, err := service.ListQuestions(context.Background(), 1)
	require.NoError(t, err)

	assert.Equal(t, a, b)
}

func TestListQuestionsStoreFailure(t *testing.T) {
	db := endToEndDB()
	db.failWith = errors.New("connection reset")
	service := newTestService(db, ServiceOptions{})

	_, err := service.ListQuestions(context.Background(), 1)
	assert.ErrorIs(t, err, db.failWith)
	assert.NotErrorIs(t, err, ErrPageNotFound)
}

func TestCategoriesUsesCache(t *testing.T) {
	cache := &memoryCache{}
	service := newTestService(endToEndDB(), ServiceOptions{Cache: cache})

	first, err := service.Categories(context.Background())
	require.NoError(t, err)
	second, err := service.Categories(context.Background())
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, 1, cache.sets, "store result should be cached once")
	assert.Equal(t, 2, cache.gets)
}

func TestDeleteQuestionOneShot(t *testing.T) {
	service := newTestService(endToEndDB(), ServiceOptions{})

	listing, err := service.DeleteQuestion(context.Background(), 5, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(11), listing.Total)
	assert.NotContains(t, ids(listing.Questions), int64(5))

	_, err = service.DeleteQuestion(context.Background(), 5, 1)
	assert.ErrorIs(t, err, ErrQuestionNotFound)
}

func TestDeleteLastQuestionReturnsEmptyListing(t *testing.T) {
	db := newMemDB(sqlcgen.Category{ID: 1, Type: "Science"})
	db.seed(1, 1)
	service := newTestService(db, ServiceOptions{})

	listing, err := service.DeleteQuestion(context.Background(), 1, 1)
	require.NoError(t, err)
	assert.Empty(t, listing.Questions)
	assert.Zero(t, listing.Total)
}

func TestDeleteQuestionStoreFailure(t *testing.T) {
	db := endToEndDB()
	db.failWith = errors.New("timeout")
	service := newTestService(db, ServiceOptions{})

	_, err := service.DeleteQuestion(context.Background(), 1, 1)
	assert.ErrorIs(t, err, db.failWith)
	assert.NotErrorIs(t, err, ErrQuestionNotFound)
}

func TestCreateQuestionRoundTrip(t *testing.T) {
	service := newTestService(endToEndDB(), ServiceOptions{})

	id, listing, err := service.CreateQuestion(context.Background(), NewQuestion{
		Question:   strPtr("What is the boiling point of water at sea level in Celsius?"),
		Answer:     strPtr("100"),
		Category:   int64Ptr(1),
		Difficulty: int64Ptr(1),
	}, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(13), id)
	assert.Equal(t, int64(13), listing.Total)

	page, err := service.ListQuestions(context.Background(), 2)
	require.NoError(t, err)
	created := page.Questions[len(page.Questions)-1]
	assert.Equal(t, Question{
		ID:         id,
		Question:   "What is the boiling point of water at sea level in Celsius?",
		Answer:     "100",
		Category:   1,
		Difficulty: 1,
	}, created)
}

func TestCreateQuestionRejected(t *testing.T) {
	service := newTestService(endToEndDB(), ServiceOptions{})

	cases := map[string]NewQuestion{
		"unknown category":            {Question: strPtr("Q"), Answer: strPtr("A"), Category: int64Ptr(42), Difficulty: int64Ptr(2)},
		"missing answer":              {Question: strPtr("Q"), Category: int64Ptr(1), Difficulty: int64Ptr(2)},
		"empty question":              {Question: strPtr(""), Answer: strPtr("A"), Category: int64Ptr(1), Difficulty: int64Ptr(2)},
		"nothing at all":              {},
		"difficulty wider than int32": {Question: strPtr("Q"), Answer: strPtr("A"), Category: int64Ptr(1), Difficulty: int64Ptr(4294967298)},
	}
	for name, q := range cases {
		t.Run(name, func(t *testing.T) {
			_, _, err := service.CreateQuestion(context.Background(), q, 1)
			assert.ErrorIs(t, err, ErrQuestionRejected)
		})
	}
}

func TestCreateQuestionOutOfRangeDifficultyStoresNothing(t *testing.T) {
	db := endToEndDB()
	service := newTestService(db, ServiceOptions{})

	_, _, err := service.CreateQuestion(context.Background(), NewQuestion{
		Question:   strPtr("Q"),
		Answer:     strPtr("A"),
		Category:   int64Ptr(1),
		Difficulty: int64Ptr(-4294967295),
	}, 1)
	require.ErrorIs(t, err, ErrQuestionRejected)

	listing, err := service.ListQuestions(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, int64(12), listing.Total)
}

func TestSearch(t *testing.T) {
	db := endToEndDB()
	questions, _ := db.repos()
	params, err := insertParams(NewQuestion{
		Question:   strPtr("Who painted the MONA Lisa?"),
		Answer:     strPtr("Leonardo"),
		Category:   int64Ptr(2),
		Difficulty: int64Ptr(3),
	})
	require.NoError(t, err)
	_, err = questions.Insert(context.Background(), params)
	require.NoError(t, err)
	service := newTestService(db, ServiceOptions{})

	listing, err := service.Search(context.Background(), "mona", 1)
	require.NoError(t, err)
	require.Len(t, listing.Questions, 1)
	assert.Contains(t, listing.Questions[0].Question, "MONA")
	assert.Equal(t, int64(13), listing.Total, "total is the unfiltered count")

	listing, err = service.Search(context.Background(), "question 1", 1)
	require.NoError(t, err)
	assert.Equal(t, []int64{1, 10, 11, 12}, ids(listing.Questions))

	_, err = service.Search(context.Background(), "photosynthesis", 1)
	assert.ErrorIs(t, err, ErrPageNotFound)

	_, err = service.Search(context.Background(), "  ", 1)
	assert.ErrorIs(t, err, ErrMissingField)
}

func TestQuestionsByCategory(t *testing.T) {
	db := endToEndDB()
	db.seed(3, 2)
	service := newTestService(db, ServiceOptions{})

	science, err := service.QuestionsByCategory(context.Background(), 1, 2)
	require.NoError(t, err)
	assert.Equal(t, []int64{11, 12}, ids(science.Questions))
	assert.Equal(t, int64(12), science.Total)

	art, err := service.QuestionsByCategory(context.Background(), 2, 1)
	require.NoError(t, err)
	assert.Equal(t, []int64{13, 14, 15}, ids(art.Questions))
	assert.Equal(t, int64(3), art.Total, "total is scoped to the category")

	_, err = service.QuestionsByCategory(context.Background(), 9, 1)
	assert.ErrorIs(t, err, ErrCategoryNotFound)
}

func TestQuestionsByCategoryEmptyIsNotAnError(t *testing.T) {
	service := newTestService(endToEndDB(), ServiceOptions{})

	listing, err := service.QuestionsByCategory(context.Background(), 2, 1)
	require.NoError(t, err)
	assert.NotNil(t, listing.Questions)
	assert.Empty(t, listing.Questions)
	assert.Zero(t, listing.Total)
}

func TestPlayQuizScopes(t *testing.T) {
	db := endToEndDB()
	db.seed(2, 2)
	service := newTestService(db, ServiceOptions{Selector: NewSelector(func(int) int { return 0 })})

	all, err := service.PlayQuiz(context.Background(), QuizRequest{Scope: AllCategories(), Previous: []int64{1, 2}})
	require.NoError(t, err)
	assert.Equal(t, int64(3), all.Question.ID)

	art, err := service.PlayQuiz(context.Background(), QuizRequest{Scope: SpecificCategory(2), Previous: []int64{13}})
	require.NoError(t, err)
	assert.Equal(t, int64(14), art.Question.ID)

	_, err = service.PlayQuiz(context.Background(), QuizRequest{Scope: SpecificCategory(77)})
	assert.ErrorIs(t, err, ErrCategoryNotFound)
}

func TestPlayQuizExhausted(t *testing.T) {
	db := endToEndDB()
	db.seed(3, 2)
	service := newTestService(db, ServiceOptions{})

	result, err := service.PlayQuiz(context.Background(), QuizRequest{
		Scope:    SpecificCategory(2),
		Previous: []int64{13, 14, 15},
	})
	require.NoError(t, err)
	assert.True(t, result.Exhausted())

	empty, err := service.PlayQuiz(context.Background(), QuizRequest{Scope: SpecificCategory(1), Previous: nil})
	require.NoError(t, err)
	require.False(t, empty.Exhausted())
	assert.Equal(t, int64(1), empty.Question.Category)
}
