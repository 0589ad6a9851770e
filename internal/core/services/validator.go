package services

import (
	"strings"

	"github.com/custodia-labs/descheck/internal/core/domain"
)

// Validator enforces the acceptance rules for canonical content.
// It never performs I/O.
type Validator struct {
	maxSize int64
}

// NewValidator creates a validator with the standard size ceiling.
func NewValidator() *Validator {
	return &Validator{maxSize: domain.MaxContentSize}
}

// ValidatePayload checks the payload rules only. The first failing rule wins:
// a payload must be present, must not exceed the ceiling when its size is
// known, and must be an image. Size is checked before type, so an oversized
// file of any media type is reported as TooLarge rather than WrongType.
func (v *Validator) ValidatePayload(content *domain.CanonicalContent) domain.ValidationOutcome {
	if content == nil || !content.HasPayload() {
		return domain.Reject(domain.RejectNoFile)
	}
	if content.SizeKnown() && content.Size > v.maxSize {
		return domain.Reject(domain.RejectTooLarge)
	}
	if !domain.IsImageMediaType(content.MediaType) {
		return domain.Reject(domain.RejectWrongType)
	}
	return domain.Accept(content)
}

// Validate checks the payload rules and, for variants that need one,
// that a non-blank description accompanies it.
func (v *Validator) Validate(content *domain.CanonicalContent, variant domain.Variant) domain.ValidationOutcome {
	outcome := v.ValidatePayload(content)
	if !outcome.Accepted() {
		return outcome
	}
	if variant.RequiresText() && strings.TrimSpace(content.Text) == "" {
		return domain.Reject(domain.RejectNoText)
	}
	return outcome
}
