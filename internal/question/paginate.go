package question

// Paginate returns the 1-based page of items, QuestionsPerPage at a time.
// Pages past the end (and page numbers below 1) yield an empty, non-nil slice.
func Paginate(page int, items []Question) []Question {
	pages := (len(items) + QuestionsPerPage - 1) / QuestionsPerPage
	if page < 1 || page > pages {
		return []Question{}
	}
	start := (page - 1) * QuestionsPerPage
	end := start + QuestionsPerPage
	if end > len(items) {
		end = len(items)
	}
	out := make([]Question, end-start)
	copy(out, items[start:end])
	return out
}
