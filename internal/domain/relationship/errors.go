package relationship

import (
	"errors"

	"family-tree-go/internal/domain/person"
)

var (
	ErrRelationshipNotFound = errors.New("relationship not found")

	ErrSelfRelationship     = errors.New("a person cannot have a relationship with themselves")
	ErrCrossTree            = errors.New("both people must be in the same family tree")
	ErrInvalidCategory      = errors.New("invalid relationship category")
	ErrGenerationRequired   = errors.New("generation difference is required for family_line relationships")
	ErrInvalidGeneration    = errors.New("generation difference must be -1 (parent) or +1 (child)")
	ErrGenerationNotAllowed = errors.New("generation difference is only valid for family_line relationships")
	ErrInvalidSubtype       = errors.New("invalid subtype for relationship category")

	ErrDuplicateRelationship = errors.New("a relationship of this category already exists between these people")
	ErrActivePartnerExists   = errors.New("person already has an active partner relationship")

	// ErrConflict means a concurrent request won the duplicate race; the
	// caller may retry.
	ErrConflict = errors.New("relationship conflicts with a concurrently created one")
)

// IsValidationError reports whether err is a caller-correctable rejection of
// a candidate relationship, as opposed to an infrastructure failure.
func IsValidationError(err error) bool {
	for _, e := range []error{
		ErrSelfRelationship,
		ErrCrossTree,
		ErrInvalidCategory,
		ErrGenerationRequired,
		ErrInvalidGeneration,
		ErrGenerationNotAllowed,
		ErrInvalidSubtype,
		ErrDuplicateRelationship,
		ErrActivePartnerExists,
		person.ErrPersonNotFound,
	} {
		if errors.Is(err, e) {
			return true
		}
	}
	return false
}
