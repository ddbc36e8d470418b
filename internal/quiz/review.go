package quiz

import (
	"fmt"

	"github.com/abhisek/gachadeck/internal/bank"
)

// ReviewEntry is one row of the question review list.
type ReviewEntry struct {
	Number   int
	Question bank.Question
	Answer   string
}

// Review lists the questions matching filter in bank order, numbered from 1,
// each with its display answer. An empty filter lists every question.
func Review(questions *bank.QuestionBank, filter bank.QuestionType) []ReviewEntry {
	qs := questions.ByType(filter)
	entries := make([]ReviewEntry, len(qs))
	for i, q := range qs {
		entries[i] = ReviewEntry{Number: i + 1, Question: q, Answer: ReviewAnswer(q)}
	}
	return entries
}

// ReviewAnswer formats the answer line of the review list. Choice answers
// carry their option letter.
func ReviewAnswer(q bank.Question) string {
	if q.Type == bank.TypeChoice {
		return fmt.Sprintf("%s: %s", bank.OptionLabel(q.Answer.Index), q.AnswerText())
	}
	return q.AnswerText()
}

// ReviewFilters returns the filter cycle of the review list, starting with
// all types.
func ReviewFilters() []bank.QuestionType {
	return append([]bank.QuestionType{""}, bank.AllTypes()...)
}
