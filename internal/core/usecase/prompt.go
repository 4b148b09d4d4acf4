package usecase

import (
	"fmt"
	"strings"

	"github.com/avelkov/study-tutor-backend/internal/core/domain"
)

// Prompt templates are frozen: downstream consumers and prompt tuning depend
// on the exact wording, so changes here are breaking changes.

const (
	askSystemPrompt  = "You are a helpful tutor."
	quizSystemPrompt = "You are a helpful quiz generator."

	// noDocumentContext stands in for the document section when the caller
	// attached nothing. The gateway is still called in that case.
	noDocumentContext = "No document provided."

	// quizContextMaxChars is the quiz-specific context bound, stricter than
	// the general assembly limit.
	quizContextMaxChars = 4000
)

func composeAskPrompt(context, question string) string {
	return fmt.Sprintf(
		"You are an expert tutor. Use the following document to answer the question.\n\nDocument:\n%s\n\nQuestion: %s\n\nAnswer:",
		context, question,
	)
}

func composeQuizPrompt(spec domain.QuizSpec, context string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "You are an expert quiz generator. Based on the following document(s), create a quiz for the subject '%s'.\n", spec.Subject)
	fmt.Fprintf(&b, "Include %d questions. Question types: %s. Difficulty: %d.\n", spec.Length, strings.Join(spec.QuestionTypes, ", "), spec.Difficulty)
	fmt.Fprintf(&b, "Document Content:\n%s\n", truncate(context, quizContextMaxChars))
	b.WriteString("Return the quiz as a JSON array with each question having: id, type, question, options (if applicable), and answer.")
	return b.String()
}
