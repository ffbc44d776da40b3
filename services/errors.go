package services

// ValidationError is what every validator raises. QuestionErrors is
// only populated by the per-question aggregate validator; the map is
// keyed by question uuid.
type ValidationError struct {
	Message        string
	QuestionErrors map[string]string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func NewValidationError(message string) *ValidationError {
	return &ValidationError{Message: message}
}
