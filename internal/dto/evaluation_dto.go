package dto

// Backend identifies a similarity scoring strategy.
type Backend string

// Known scoring backends.
const (
	BackendLexical   Backend = "lexical"
	BackendEmbedding Backend = "embedding"
)

// Valid reports whether the backend is a known strategy.
func (b Backend) Valid() bool {
	return b == BackendLexical || b == BackendEmbedding
}

// ErrorKind classifies evaluation failures for API clients.
type ErrorKind string

// Error kinds surfaced in failure responses.
const (
	ErrorKindValidation ErrorKind = "validation_error"
	ErrorKindEmptyText  ErrorKind = "empty_text"
	ErrorKindBackend    ErrorKind = "backend_error"
	ErrorKindTimeout    ErrorKind = "timeout"
)

// EvaluationRequest is the payload for scoring one candidate answer against
// a reference answer.
type EvaluationRequest struct {
	ReferenceText string  `json:"reference_text" validate:"required"`
	CandidateText string  `json:"candidate_text" validate:"required"`
	Backend       Backend `json:"backend" validate:"omitempty,oneof=lexical embedding"`
	MaxMarks      float64 `json:"max_marks" validate:"omitempty,gt=0"`
}

// EvaluationResult is returned to API clients after a successful evaluation.
type EvaluationResult struct {
	SimilarityScore float64 `json:"similarity_score"`
	MarksObtained   float64 `json:"marks_obtained"`
	BackendUsed     Backend `json:"backend_used"`
	Degraded        bool    `json:"degraded"`
	Truncated       bool    `json:"truncated"`
	ElapsedMS       int64   `json:"elapsed_ms"`
}

// BatchEvaluationRequest scores many candidate answers against one reference,
// the classroom scenario.
type BatchEvaluationRequest struct {
	ReferenceText  string   `json:"reference_text" validate:"required"`
	CandidateTexts []string `json:"candidate_texts" validate:"required,min=1"`
	Backend        Backend  `json:"backend" validate:"omitempty,oneof=lexical embedding"`
	MaxMarks       float64  `json:"max_marks" validate:"omitempty,gt=0"`
}

// BatchItemResult carries the outcome for a single candidate in a batch.
// Exactly one of Result and Error is set.
type BatchItemResult struct {
	Index  int               `json:"index"`
	Result *EvaluationResult `json:"result,omitempty"`
	Error  *EvaluationError  `json:"error,omitempty"`
}

// BatchEvaluationResult aggregates per-item outcomes, ordered like the
// request's candidate texts.
type BatchEvaluationResult struct {
	Results   []BatchItemResult `json:"results"`
	Succeeded int               `json:"succeeded"`
	Failed    int               `json:"failed"`
}

// EvaluationError is the structured failure shape for a single evaluation.
type EvaluationError struct {
	Kind    ErrorKind `json:"error_kind"`
	Message string    `json:"message"`
}
