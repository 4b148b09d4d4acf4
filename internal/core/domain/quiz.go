package domain

// QuizSpec carries the parameters of one quiz-generation request. It is
// request-scoped and never persisted. Resources keeps the caller's order and
// duplicates.
type QuizSpec struct {
	Subject       string   `json:"subject"`
	QuestionTypes []string `json:"questionTypes"`
	Difficulty    int      `json:"difficulty"`
	Length        int      `json:"length"`
	Resources     []int64  `json:"resources"`
}

// Quiz is a generated quiz. Questions holds whatever the best-effort
// structured parse recovered from the gateway output: either the decoded
// JSON array or a single-element slice with the raw text.
type Quiz struct {
	Subject       string   `json:"subject"`
	QuestionTypes []string `json:"questionTypes"`
	Difficulty    int      `json:"difficulty"`
	Length        int      `json:"length"`
	Resources     []int64  `json:"resources"`
	Questions     []any    `json:"questions"`
}

// AskNoTextAnswer is the fixed answer returned when an attached PDF yields no
// text. Handlers compare against it when labeling ask outcomes.
const AskNoTextAnswer = "Sorry, I could not extract any text from the provided PDF."

// AskResult is the outcome of a tutoring question. Extraction and gateway
// failures are folded into Answer, so callers always have user-facing text.
type AskResult struct {
	Answer string `json:"answer"`
}
