package relationship

import (
	"testing"

	reldomain "family-tree-go/internal/domain/relationship"
)

func TestPairKeyIgnoresOrientation(t *testing.T) {
	forward := toDoc(&reldomain.Relationship{
		ID:           "r1",
		FromPersonID: "person-a",
		ToPersonID:   "person-b",
		Category:     reldomain.CategoryFamilyLine,
	}, "tree-1")
	reverse := toDoc(&reldomain.Relationship{
		ID:           "r2",
		FromPersonID: "person-b",
		ToPersonID:   "person-a",
		Category:     reldomain.CategoryFamilyLine,
	}, "tree-1")

	if forward.PairKey == "" {
		t.Fatalf("expected pair key set")
	}
	if forward.PairKey != reverse.PairKey {
		t.Fatalf("expected the same pair key for both orientations, got %q and %q", forward.PairKey, reverse.PairKey)
	}
}
