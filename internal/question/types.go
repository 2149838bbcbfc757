package question

// QuestionsPerPage is the fixed page size for every paginated listing.
const QuestionsPerPage = 10

// Question is the formatted representation delivered to clients.
type Question struct {
	ID         int64  `json:"id"`
	Question   string `json:"question"`
	Answer     string `json:"answer"`
	Category   int64  `json:"category"`
	Difficulty int    `json:"difficulty"`
}

// Category is read-only reference data.
type Category struct {
	ID   int64  `json:"id"`
	Type string `json:"type"`
}

// Page is one bounded slice of an ordered listing plus the count it was cut from.
type Page struct {
	Questions []Question
	Total     int64
}

// NewQuestion carries the create payload. Nil fields are passed to the store
// as NULL so that its constraints decide whether the record is acceptable.
type NewQuestion struct {
	Question   *string
	Answer     *string
	Category   *int64
	Difficulty *int64
}

// QuizScope selects the candidate pool for a quiz round.
type QuizScope struct {
	categoryID int64
	specific   bool
}

// AllCategories draws quiz candidates from every question.
func AllCategories() QuizScope {
	return QuizScope{}
}

// SpecificCategory draws quiz candidates from a single category.
func SpecificCategory(id int64) QuizScope {
	return QuizScope{categoryID: id, specific: true}
}

// CategoryID returns the selected category and false for AllCategories.
func (s QuizScope) CategoryID() (int64, bool) {
	return s.categoryID, s.specific
}

// QuizRequest is one stateless quiz round: the scope plus every question id
// the client has already been served in this play session.
type QuizRequest struct {
	Scope    QuizScope
	Previous []int64
}

// QuizResult holds the next question, or nil once the pool is exhausted.
type QuizResult struct {
	Question *Question
}

// Exhausted reports whether every candidate had already been asked.
func (r QuizResult) Exhausted() bool {
	return r.Question == nil
}
