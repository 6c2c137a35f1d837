package domain

import "errors"

// Sentinel errors shared across the engine. Callers match them with
// errors.Is after %w wrapping.
var (
	// ErrUserNotFound is returned when a serve or learn request names an
	// unknown user id.
	ErrUserNotFound = errors.New("user not found")

	// ErrUnknownTopic is returned when article data references a topic
	// outside the fixed taxonomy. The affected record is skipped; the
	// surrounding batch continues.
	ErrUnknownTopic = errors.New("unknown topic")

	// ErrUnsupportedAlgorithm is returned for an algorithm id with no
	// registered implementation. Fatal to the current operation.
	ErrUnsupportedAlgorithm = errors.New("unsupported algorithm")

	// ErrMissingArticle is returned when an engagement or serve reference
	// has no backing article record.
	ErrMissingArticle = errors.New("article not found")
)
