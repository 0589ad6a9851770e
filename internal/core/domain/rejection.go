package domain

import "fmt"

// RejectReason classifies why input was refused before any upload.
type RejectReason string

// Rejection reasons.
const (
	RejectNoFile           RejectReason = "no_file"
	RejectWrongType        RejectReason = "wrong_type"
	RejectTooLarge         RejectReason = "too_large"
	RejectNoText           RejectReason = "no_text"
	RejectInvalidReference RejectReason = "invalid_reference"
	RejectFetchFailed      RejectReason = "fetch_failed"
	RejectIncompletePost   RejectReason = "incomplete_post"
	RejectEmptyReference   RejectReason = "empty_reference"
	RejectInvalidLocation  RejectReason = "invalid_location"
)

// String returns the string representation.
func (r RejectReason) String() string {
	return string(r)
}

// Message returns the text shown to the user for this reason.
func (r RejectReason) Message() string {
	switch r {
	case RejectNoFile:
		return "No file selected"
	case RejectWrongType:
		return "Please select a valid image file (jpg, png, etc.)"
	case RejectTooLarge:
		return "File size must be less than 5 MB"
	case RejectNoText:
		return "Please provide an image and a description."
	case RejectInvalidReference:
		return "Invalid Twitter URL. Please enter a valid URL."
	case RejectEmptyReference:
		return "Please enter a valid Twitter post URL."
	case RejectInvalidLocation:
		return "Please enter a valid image URL."
	case RejectFetchFailed:
		return "Failed to fetch Twitter data. Please check the URL."
	case RejectIncompletePost:
		return "Failed to extract image or text from Twitter post."
	default:
		return "Invalid input"
	}
}

// InputError is a local rejection. No network call has been made for
// reasons other than RejectFetchFailed and RejectIncompletePost.
type InputError struct {
	Reason RejectReason
	Err    error
}

// NewInputError creates an InputError for reason.
func NewInputError(reason RejectReason) *InputError {
	return &InputError{Reason: reason}
}

func (e *InputError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Reason.Message(), e.Err)
	}
	return e.Reason.Message()
}

// Unwrap returns ErrInvalidInput so callers can match the class.
func (e *InputError) Unwrap() []error {
	if e.Err != nil {
		return []error{ErrInvalidInput, e.Err}
	}
	return []error{ErrInvalidInput}
}

// ValidationOutcome is the result of validating canonical content.
type ValidationOutcome struct {
	Content *CanonicalContent
	Reason  RejectReason
}

// Accepted reports whether validation passed.
func (o ValidationOutcome) Accepted() bool {
	return o.Reason == ""
}

// Accept wraps content as an accepted outcome.
func Accept(c *CanonicalContent) ValidationOutcome {
	return ValidationOutcome{Content: c}
}

// Reject builds a rejected outcome.
func Reject(reason RejectReason) ValidationOutcome {
	return ValidationOutcome{Reason: reason}
}

// Err returns an InputError for rejected outcomes and nil otherwise.
func (o ValidationOutcome) Err() error {
	if o.Accepted() {
		return nil
	}
	return NewInputError(o.Reason)
}
