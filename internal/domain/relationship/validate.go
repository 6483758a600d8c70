package relationship

import (
	"family-tree-go/internal/domain/person"
)

// Validate applies the relationship rules, in order, to a candidate whose
// endpoints have already been resolved. It performs no I/O.
//
// Rules:
//  1. no self-relationships
//  2. both endpoints in the same tree
//  3. category from the closed set
//  4. generation difference required and in {-1, +1} for family_line,
//     absent for everything else
//  5. subtype, when given, from the category's allowed set
func Validate(from, to *person.Person, c Candidate) error {
	if c.FromPersonID == c.ToPersonID {
		return ErrSelfRelationship
	}
	if from.TreeID != to.TreeID {
		return ErrCrossTree
	}
	if !ValidCategory(c.Category) {
		return ErrInvalidCategory
	}
	if err := validateGeneration(c.Category, c.GenerationDifference); err != nil {
		return err
	}
	if c.Subtype != "" && !ValidSubtype(c.Category, c.Subtype) {
		return ErrInvalidSubtype
	}
	return nil
}

// ValidateRules checks rules 3-5 only, for updates where the endpoints are
// already persisted and cannot change.
func ValidateRules(c Candidate) error {
	if !ValidCategory(c.Category) {
		return ErrInvalidCategory
	}
	if err := validateGeneration(c.Category, c.GenerationDifference); err != nil {
		return err
	}
	if c.Subtype != "" && !ValidSubtype(c.Category, c.Subtype) {
		return ErrInvalidSubtype
	}
	return nil
}

func validateGeneration(category string, generation *int) error {
	if category == CategoryFamilyLine {
		if generation == nil {
			return ErrGenerationRequired
		}
		if *generation != GenerationParent && *generation != GenerationChild {
			return ErrInvalidGeneration
		}
		return nil
	}
	if generation != nil {
		return ErrGenerationNotAllowed
	}
	return nil
}
