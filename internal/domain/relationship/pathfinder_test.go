package relationship

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFindPathGrandparentChain(t *testing.T) {
	_, lookup, svc := newFixture()
	buildThreeGenerations(t, lookup, svc)

	result, err := svc.FindPath(context.Background(), "grand", "child2", 0)
	require.NoError(t, err)
	assert.True(t, result.Found)
	require.Len(t, result.Path, 2)
	assert.Equal(t, "grand", result.Path[0].FromPersonID)
	assert.Equal(t, "parent", result.Path[0].ToPersonID)
	assert.Equal(t, "child2", result.Path[1].ToPersonID)
}

func TestFindPathDepthLimit(t *testing.T) {
	_, lookup, svc := newFixture()
	buildThreeGenerations(t, lookup, svc)

	result, err := svc.FindPath(context.Background(), "grand", "child2", 1)
	require.NoError(t, err)
	assert.False(t, result.Found)
	assert.Empty(t, result.Path)
}

func TestFindPathSymmetricEdgesGoBothWays(t *testing.T) {
	repo, lookup, svc := newFixture()
	lookup.add("p1", "tree-1", "Ana")
	lookup.add("p2", "tree-1", "Ben")
	lookup.add("p3", "tree-1", "Cay")

	// Seeded directly, without the mirror row, so traversal against the
	// stored direction is what gets exercised.
	err := repo.Create(context.Background(), &Relationship{
		ID:           "sibling-edge",
		FromPersonID: "p1",
		ToPersonID:   "p2",
		Category:     CategorySibling,
		IsActive:     true,
	})
	require.NoError(t, err)
	mustCreate(t, svc, Candidate{
		FromPersonID:         "p1",
		ToPersonID:           "p3",
		Category:             CategoryFamilyLine,
		GenerationDifference: intPtr(GenerationParent),
	})

	// p2 reaches p3 through the sibling edge taken against its stored
	// direction, then down the family line.
	result, err := svc.FindPath(context.Background(), "p2", "p3", 0)
	require.NoError(t, err)
	assert.True(t, result.Found)
	assert.Len(t, result.Path, 2)
}

func TestFindPathDirectedEdgesAreOneWay(t *testing.T) {
	repo, lookup, svc := newFixture()
	lookup.add("parent", "tree-1", "Pat")
	lookup.add("child", "tree-1", "Kim")

	// Seeded directly so only the parent -> child orientation exists.
	err := repo.Create(context.Background(), &Relationship{
		ID:                   "edge-1",
		FromPersonID:         "parent",
		ToPersonID:           "child",
		Category:             CategoryFamilyLine,
		GenerationDifference: intPtr(GenerationParent),
		IsActive:             true,
	})
	require.NoError(t, err)

	result, err := svc.FindPath(context.Background(), "parent", "child", 0)
	require.NoError(t, err)
	assert.True(t, result.Found)

	result, err = svc.FindPath(context.Background(), "child", "parent", 0)
	require.NoError(t, err)
	assert.False(t, result.Found)
}

func TestFindPathSkipsInactiveEdges(t *testing.T) {
	_, lookup, svc := newFixture()
	lookup.add("p1", "tree-1", "Ana")
	lookup.add("p2", "tree-1", "Ben")

	mustCreate(t, svc, Candidate{
		FromPersonID: "p1",
		ToPersonID:   "p2",
		Category:     CategoryPartner,
		Subtype:      "divorced",
		IsActive:     boolPtr(false),
	})

	result, err := svc.FindPath(context.Background(), "p1", "p2", 0)
	require.NoError(t, err)
	assert.False(t, result.Found)
}

func TestFindPathNotFoundIsNotAnError(t *testing.T) {
	_, lookup, svc := newFixture()
	lookup.add("p1", "tree-1", "Ana")
	lookup.add("p2", "tree-1", "Ben")

	result, err := svc.FindPath(context.Background(), "p1", "p2", 0)
	require.NoError(t, err)
	assert.False(t, result.Found)
	assert.NotNil(t, result.Path)
	assert.Empty(t, result.Path)
}

func TestFindPathRejectsSelfAndCrossTree(t *testing.T) {
	_, lookup, svc := newFixture()
	lookup.add("p1", "tree-1", "Ana")
	lookup.add("p2", "tree-2", "Ben")

	_, err := svc.FindPath(context.Background(), "p1", "p1", 0)
	assert.ErrorIs(t, err, ErrSelfRelationship)

	_, err = svc.FindPath(context.Background(), "p1", "p2", 0)
	assert.ErrorIs(t, err, ErrCrossTree)
}

func TestFindPathCapsRequestedDepth(t *testing.T) {
	lookup := newFakeLookup()
	repo := newFakeRepo(lookup)
	policy := DefaultPolicy()
	policy.MaxPathDepth = 2
	svc := NewService(repo, lookup, policy)

	ids := []string{"a", "b", "c", "d"}
	for _, id := range ids {
		lookup.add(id, "tree-1", id)
	}
	for i := 0; i+1 < len(ids); i++ {
		mustCreate(t, svc, Candidate{
			FromPersonID:         ids[i],
			ToPersonID:           ids[i+1],
			Category:             CategoryFamilyLine,
			GenerationDifference: intPtr(GenerationParent),
		})
	}

	// Three hops are needed; a request above the cap is clamped to 2.
	result, err := svc.FindPath(context.Background(), "a", "d", 99)
	require.NoError(t, err)
	assert.False(t, result.Found)
}
