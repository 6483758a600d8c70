package relationship

import (
	"context"
	"errors"
	"testing"

	"family-tree-go/internal/domain/person"
)

type fakeRepo struct {
	lookup *fakeLookup
	rels   map[string]*Relationship
	order  []string
}

func newFakeRepo(lookup *fakeLookup) *fakeRepo {
	return &fakeRepo{lookup: lookup, rels: make(map[string]*Relationship)}
}

func (r *fakeRepo) Transaction(ctx context.Context, fn func(Repository) error) error {
	return fn(r)
}

func (r *fakeRepo) Create(ctx context.Context, rel *Relationship) error {
	clone := *rel
	r.rels[clone.ID] = &clone
	r.order = append(r.order, clone.ID)
	return nil
}

func (r *fakeRepo) Get(ctx context.Context, relationshipID string) (*Relationship, error) {
	rel, ok := r.rels[relationshipID]
	if !ok {
		return nil, ErrRelationshipNotFound
	}
	clone := *rel
	return &clone, nil
}

func (r *fakeRepo) Update(ctx context.Context, rel *Relationship) error {
	if _, ok := r.rels[rel.ID]; !ok {
		return ErrRelationshipNotFound
	}
	clone := *rel
	r.rels[clone.ID] = &clone
	return nil
}

func (r *fakeRepo) Delete(ctx context.Context, relationshipID string) error {
	if _, ok := r.rels[relationshipID]; !ok {
		return ErrRelationshipNotFound
	}
	delete(r.rels, relationshipID)
	for i, id := range r.order {
		if id == relationshipID {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return nil
}

func (r *fakeRepo) all() []Relationship {
	out := make([]Relationship, 0, len(r.order))
	for _, id := range r.order {
		if rel, ok := r.rels[id]; ok {
			out = append(out, *rel)
		}
	}
	return out
}

func (r *fakeRepo) ListByPerson(ctx context.Context, personID, category string, activeOnly bool) ([]Relationship, error) {
	var out []Relationship
	for _, rel := range r.all() {
		if !rel.Involves(personID) {
			continue
		}
		if category != "" && rel.Category != category {
			continue
		}
		if activeOnly && !rel.IsActive {
			continue
		}
		out = append(out, rel)
	}
	return out, nil
}

func (r *fakeRepo) ListByTree(ctx context.Context, treeID string) ([]Relationship, error) {
	var out []Relationship
	for _, rel := range r.all() {
		p, ok := r.lookup.people[rel.FromPersonID]
		if !ok || p.TreeID != treeID {
			continue
		}
		out = append(out, rel)
	}
	return out, nil
}

func (r *fakeRepo) FindBetween(ctx context.Context, person1ID, person2ID, category string, activeOnly bool) ([]Relationship, error) {
	var out []Relationship
	for _, rel := range r.all() {
		sameDir := rel.FromPersonID == person1ID && rel.ToPersonID == person2ID
		reversed := rel.FromPersonID == person2ID && rel.ToPersonID == person1ID
		if !sameDir && !reversed {
			continue
		}
		if rel.Category != category {
			continue
		}
		if activeOnly && !rel.IsActive {
			continue
		}
		out = append(out, rel)
	}
	return out, nil
}

func (r *fakeRepo) FindDirected(ctx context.Context, fromID, toID, category string) ([]Relationship, error) {
	var out []Relationship
	for _, rel := range r.all() {
		if rel.FromPersonID == fromID && rel.ToPersonID == toID && rel.Category == category {
			out = append(out, rel)
		}
	}
	return out, nil
}

type fakeLookup struct {
	people map[string]*person.Person
}

func newFakeLookup() *fakeLookup {
	return &fakeLookup{people: make(map[string]*person.Person)}
}

func (l *fakeLookup) add(id, treeID, firstName string) {
	l.people[id] = &person.Person{ID: id, TreeID: treeID, FirstName: firstName}
}

func (l *fakeLookup) Get(ctx context.Context, personID string) (*person.Person, error) {
	p, ok := l.people[personID]
	if !ok {
		return nil, person.ErrPersonNotFound
	}
	clone := *p
	return &clone, nil
}

func (l *fakeLookup) ListByIDs(ctx context.Context, ids []string) ([]person.Person, error) {
	var out []person.Person
	for _, id := range ids {
		if p, ok := l.people[id]; ok {
			out = append(out, *p)
		}
	}
	return out, nil
}

func newFixture() (*fakeRepo, *fakeLookup, *Service) {
	lookup := newFakeLookup()
	repo := newFakeRepo(lookup)
	svc := NewService(repo, lookup, DefaultPolicy())
	return repo, lookup, svc
}

func intPtr(v int) *int { return &v }

func boolPtr(v bool) *bool { return &v }

func strPtr(v string) *string { return &v }

func TestCreateFamilyLineRelationship(t *testing.T) {
	repo, lookup, svc := newFixture()
	lookup.add("p1", "tree-1", "Ana")
	lookup.add("p2", "tree-1", "Ben")

	rel, err := svc.Create(context.Background(), Candidate{
		FromPersonID:         "p1",
		ToPersonID:           "p2",
		Category:             CategoryFamilyLine,
		GenerationDifference: intPtr(GenerationParent),
		Subtype:              "biological",
	})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if rel.ID == "" {
		t.Fatalf("expected generated id")
	}
	if !rel.IsActive {
		t.Fatalf("expected active by default")
	}
	if got := len(repo.all()); got != 1 {
		t.Fatalf("expected 1 stored edge, got %d", got)
	}
	parentID, childID, ok := rel.ParentChild()
	if !ok || parentID != "p1" || childID != "p2" {
		t.Fatalf("expected p1 parent of p2, got (%s, %s, %v)", parentID, childID, ok)
	}
}

func TestCreatePartnerCreatesMirror(t *testing.T) {
	repo, lookup, svc := newFixture()
	lookup.add("p1", "tree-1", "Ana")
	lookup.add("p2", "tree-1", "Ben")

	rel, err := svc.Create(context.Background(), Candidate{
		FromPersonID: "p1",
		ToPersonID:   "p2",
		Category:     CategoryPartner,
		Subtype:      "married",
	})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	all := repo.all()
	if len(all) != 2 {
		t.Fatalf("expected mirrored pair, got %d edges", len(all))
	}
	mirrors, _ := repo.FindDirected(context.Background(), "p2", "p1", CategoryPartner)
	if len(mirrors) != 1 {
		t.Fatalf("expected exactly one mirror, got %d", len(mirrors))
	}
	mirror := mirrors[0]
	if mirror.ID == rel.ID {
		t.Fatalf("mirror must have its own id")
	}
	if mirror.GenerationDifference == nil || *mirror.GenerationDifference != 0 {
		t.Fatalf("expected mirror generation 0, got %v", mirror.GenerationDifference)
	}
	if mirror.Subtype != "married" || !mirror.IsActive {
		t.Fatalf("expected mirror to carry attributes, got %+v", mirror)
	}
}

func TestCreateSelfRejected(t *testing.T) {
	_, lookup, svc := newFixture()
	lookup.add("p1", "tree-1", "Ana")

	_, err := svc.Create(context.Background(), Candidate{
		FromPersonID: "p1",
		ToPersonID:   "p1",
		Category:     CategoryPartner,
	})
	if !errors.Is(err, ErrSelfRelationship) {
		t.Fatalf("expected ErrSelfRelationship, got %v", err)
	}
}

func TestCreateCrossTreeRejected(t *testing.T) {
	_, lookup, svc := newFixture()
	lookup.add("p1", "tree-1", "Ana")
	lookup.add("p2", "tree-2", "Ben")

	_, err := svc.Create(context.Background(), Candidate{
		FromPersonID: "p1",
		ToPersonID:   "p2",
		Category:     CategorySibling,
	})
	if !errors.Is(err, ErrCrossTree) {
		t.Fatalf("expected ErrCrossTree, got %v", err)
	}
}

func TestCreateUnknownPersonRejected(t *testing.T) {
	_, lookup, svc := newFixture()
	lookup.add("p1", "tree-1", "Ana")

	_, err := svc.Create(context.Background(), Candidate{
		FromPersonID: "p1",
		ToPersonID:   "ghost",
		Category:     CategorySibling,
	})
	if !errors.Is(err, person.ErrPersonNotFound) {
		t.Fatalf("expected ErrPersonNotFound, got %v", err)
	}
}

func TestCreateGenerationRules(t *testing.T) {
	_, lookup, svc := newFixture()
	lookup.add("p1", "tree-1", "Ana")
	lookup.add("p2", "tree-1", "Ben")

	_, err := svc.Create(context.Background(), Candidate{
		FromPersonID: "p1",
		ToPersonID:   "p2",
		Category:     CategoryFamilyLine,
	})
	if !errors.Is(err, ErrGenerationRequired) {
		t.Fatalf("expected ErrGenerationRequired, got %v", err)
	}

	_, err = svc.Create(context.Background(), Candidate{
		FromPersonID:         "p1",
		ToPersonID:           "p2",
		Category:             CategoryFamilyLine,
		GenerationDifference: intPtr(2),
	})
	if !errors.Is(err, ErrInvalidGeneration) {
		t.Fatalf("expected ErrInvalidGeneration, got %v", err)
	}

	_, err = svc.Create(context.Background(), Candidate{
		FromPersonID:         "p1",
		ToPersonID:           "p2",
		Category:             CategoryPartner,
		GenerationDifference: intPtr(GenerationParent),
	})
	if !errors.Is(err, ErrGenerationNotAllowed) {
		t.Fatalf("expected ErrGenerationNotAllowed, got %v", err)
	}
}

func TestCreateInvalidCategoryAndSubtype(t *testing.T) {
	_, lookup, svc := newFixture()
	lookup.add("p1", "tree-1", "Ana")
	lookup.add("p2", "tree-1", "Ben")

	_, err := svc.Create(context.Background(), Candidate{
		FromPersonID: "p1",
		ToPersonID:   "p2",
		Category:     "friendship",
	})
	if !errors.Is(err, ErrInvalidCategory) {
		t.Fatalf("expected ErrInvalidCategory, got %v", err)
	}

	_, err = svc.Create(context.Background(), Candidate{
		FromPersonID: "p1",
		ToPersonID:   "p2",
		Category:     CategoryPartner,
		Subtype:      "cousin",
	})
	if !errors.Is(err, ErrInvalidSubtype) {
		t.Fatalf("expected ErrInvalidSubtype, got %v", err)
	}
}

func TestCreateDuplicateRejectedEitherDirection(t *testing.T) {
	_, lookup, svc := newFixture()
	lookup.add("p1", "tree-1", "Ana")
	lookup.add("p2", "tree-1", "Ben")

	_, err := svc.Create(context.Background(), Candidate{
		FromPersonID:         "p1",
		ToPersonID:           "p2",
		Category:             CategoryFamilyLine,
		GenerationDifference: intPtr(GenerationParent),
	})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	_, err = svc.Create(context.Background(), Candidate{
		FromPersonID:         "p2",
		ToPersonID:           "p1",
		Category:             CategoryFamilyLine,
		GenerationDifference: intPtr(GenerationChild),
	})
	if !errors.Is(err, ErrDuplicateRelationship) {
		t.Fatalf("expected ErrDuplicateRelationship, got %v", err)
	}
}

func TestCreateAfterInactiveDuplicateAllowed(t *testing.T) {
	_, lookup, svc := newFixture()
	lookup.add("p1", "tree-1", "Ana")
	lookup.add("p2", "tree-1", "Ben")

	_, err := svc.Create(context.Background(), Candidate{
		FromPersonID: "p1",
		ToPersonID:   "p2",
		Category:     CategoryPartner,
		Subtype:      "divorced",
		IsActive:     boolPtr(false),
	})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	_, err = svc.Create(context.Background(), Candidate{
		FromPersonID: "p1",
		ToPersonID:   "p2",
		Category:     CategoryPartner,
		Subtype:      "married",
	})
	if err != nil {
		t.Fatalf("inactive edge must not block a new one, got %v", err)
	}
}

func TestPartnerExclusivity(t *testing.T) {
	lookup := newFakeLookup()
	repo := newFakeRepo(lookup)
	policy := DefaultPolicy()
	policy.PartnerExclusivity = true
	svc := NewService(repo, lookup, policy)

	lookup.add("p1", "tree-1", "Ana")
	lookup.add("p2", "tree-1", "Ben")
	lookup.add("p3", "tree-1", "Cay")

	_, err := svc.Create(context.Background(), Candidate{
		FromPersonID: "p1",
		ToPersonID:   "p2",
		Category:     CategoryPartner,
	})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	_, err = svc.Create(context.Background(), Candidate{
		FromPersonID: "p1",
		ToPersonID:   "p3",
		Category:     CategoryPartner,
	})
	if !errors.Is(err, ErrActivePartnerExists) {
		t.Fatalf("expected ErrActivePartnerExists, got %v", err)
	}
}

func TestUpdateToSymmetricCreatesMirror(t *testing.T) {
	repo, lookup, svc := newFixture()
	lookup.add("p1", "tree-1", "Ana")
	lookup.add("p2", "tree-1", "Ben")

	rel, err := svc.Create(context.Background(), Candidate{
		FromPersonID:         "p1",
		ToPersonID:           "p2",
		Category:             CategoryFamilyLine,
		GenerationDifference: intPtr(GenerationParent),
	})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	updated, err := svc.Update(context.Background(), rel.ID, Patch{
		Category: strPtr(CategorySibling),
		Subtype:  strPtr("half"),
	})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if updated.GenerationDifference != nil {
		t.Fatalf("expected generation cleared on category change, got %v", *updated.GenerationDifference)
	}
	if got := len(repo.all()); got != 2 {
		t.Fatalf("expected mirror created, got %d edges", got)
	}
}

func TestUpdateToDirectedRemovesMirror(t *testing.T) {
	repo, lookup, svc := newFixture()
	lookup.add("p1", "tree-1", "Ana")
	lookup.add("p2", "tree-1", "Ben")

	rel, err := svc.Create(context.Background(), Candidate{
		FromPersonID: "p1",
		ToPersonID:   "p2",
		Category:     CategoryPartner,
	})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if got := len(repo.all()); got != 2 {
		t.Fatalf("expected mirrored pair, got %d edges", got)
	}

	_, err = svc.Update(context.Background(), rel.ID, Patch{
		Category: strPtr(CategoryExtendedFamily),
		Subtype:  strPtr("cousin"),
	})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if got := len(repo.all()); got != 1 {
		t.Fatalf("expected mirror removed, got %d edges", got)
	}
}

func TestUpdateKeepsMirrorInStep(t *testing.T) {
	repo, lookup, svc := newFixture()
	lookup.add("p1", "tree-1", "Ana")
	lookup.add("p2", "tree-1", "Ben")

	rel, err := svc.Create(context.Background(), Candidate{
		FromPersonID: "p1",
		ToPersonID:   "p2",
		Category:     CategoryPartner,
		Subtype:      "engaged",
	})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	_, err = svc.Update(context.Background(), rel.ID, Patch{
		Subtype:  strPtr("married"),
		IsActive: boolPtr(false),
	})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	mirrors, _ := repo.FindDirected(context.Background(), "p2", "p1", CategoryPartner)
	if len(mirrors) != 1 {
		t.Fatalf("expected one mirror, got %d", len(mirrors))
	}
	if mirrors[0].Subtype != "married" || mirrors[0].IsActive {
		t.Fatalf("expected mirror updated, got %+v", mirrors[0])
	}
}

func TestUpdateNotesThroughMirrorRow(t *testing.T) {
	repo, lookup, svc := newFixture()
	lookup.add("p1", "tree-1", "Ana")
	lookup.add("p2", "tree-1", "Ben")

	mustCreate(t, svc, Candidate{
		FromPersonID: "p1",
		ToPersonID:   "p2",
		Category:     CategoryPartner,
		Subtype:      "married",
	})

	// ListForPerson hands p2 its own outgoing row, which is the mirror
	// half carrying the pinned generation 0.
	edges, err := svc.ListForPerson(context.Background(), "p2", "")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(edges) != 1 || edges[0].FromPersonID != "p2" {
		t.Fatalf("expected p2's outgoing half, got %+v", edges)
	}

	updated, err := svc.Update(context.Background(), edges[0].ID, Patch{
		Notes: strPtr("met in 1998"),
	})
	if err != nil {
		t.Fatalf("notes-only update of p2's own row failed: %v", err)
	}
	if updated.Notes != "met in 1998" {
		t.Fatalf("expected notes updated, got %q", updated.Notes)
	}
	if updated.GenerationDifference == nil || *updated.GenerationDifference != 0 {
		t.Fatalf("expected mirror to keep its pinned generation, got %v", updated.GenerationDifference)
	}

	primaries, _ := repo.FindDirected(context.Background(), "p1", "p2", CategoryPartner)
	if len(primaries) != 1 {
		t.Fatalf("expected one primary row, got %d", len(primaries))
	}
	if primaries[0].Notes != "met in 1998" {
		t.Fatalf("expected counterpart kept in step, got %q", primaries[0].Notes)
	}
	if primaries[0].GenerationDifference != nil {
		t.Fatalf("primary must keep its nil generation, got %v", *primaries[0].GenerationDifference)
	}
}

func TestUpdateMirrorRowToDirectedClearsPin(t *testing.T) {
	repo, lookup, svc := newFixture()
	lookup.add("p1", "tree-1", "Ana")
	lookup.add("p2", "tree-1", "Ben")

	mustCreate(t, svc, Candidate{
		FromPersonID: "p1",
		ToPersonID:   "p2",
		Category:     CategoryPartner,
	})

	mirrors, _ := repo.FindDirected(context.Background(), "p2", "p1", CategoryPartner)
	if len(mirrors) != 1 {
		t.Fatalf("expected one mirror, got %d", len(mirrors))
	}

	updated, err := svc.Update(context.Background(), mirrors[0].ID, Patch{
		Category: strPtr(CategoryExtendedFamily),
		Subtype:  strPtr("cousin"),
	})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if updated.GenerationDifference != nil {
		t.Fatalf("expected pinned generation cleared on leaving the symmetric set, got %v", *updated.GenerationDifference)
	}
	if got := len(repo.all()); got != 1 {
		t.Fatalf("expected counterpart removed, got %d edges", got)
	}
}

func TestDeleteRemovesMirror(t *testing.T) {
	repo, lookup, svc := newFixture()
	lookup.add("p1", "tree-1", "Ana")
	lookup.add("p2", "tree-1", "Ben")

	rel, err := svc.Create(context.Background(), Candidate{
		FromPersonID: "p1",
		ToPersonID:   "p2",
		Category:     CategorySibling,
	})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if err := svc.Delete(context.Background(), rel.ID); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if got := len(repo.all()); got != 0 {
		t.Fatalf("expected both halves deleted, got %d edges", got)
	}
}

func TestDeleteUnknownRelationship(t *testing.T) {
	_, _, svc := newFixture()
	err := svc.Delete(context.Background(), "missing")
	if !errors.Is(err, ErrRelationshipNotFound) {
		t.Fatalf("expected ErrRelationshipNotFound, got %v", err)
	}
}

func TestValidateOnlyDoesNotWrite(t *testing.T) {
	repo, lookup, svc := newFixture()
	lookup.add("p1", "tree-1", "Ana")
	lookup.add("p2", "tree-1", "Ben")

	result, err := svc.ValidateOnly(context.Background(), Candidate{
		FromPersonID: "p1",
		ToPersonID:   "p2",
		Category:     CategoryPartner,
	})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if !result.Valid {
		t.Fatalf("expected valid result, got %q", result.Message)
	}
	if got := len(repo.all()); got != 0 {
		t.Fatalf("validate must not persist, got %d edges", got)
	}
}

func TestValidateOnlyReportsRuleFailure(t *testing.T) {
	_, lookup, svc := newFixture()
	lookup.add("p1", "tree-1", "Ana")

	result, err := svc.ValidateOnly(context.Background(), Candidate{
		FromPersonID: "p1",
		ToPersonID:   "p1",
		Category:     CategoryPartner,
	})
	if err != nil {
		t.Fatalf("rule failures are results, not errors, got %v", err)
	}
	if result.Valid {
		t.Fatalf("expected invalid result")
	}
	if result.Message == "" {
		t.Fatalf("expected a message")
	}
}

func TestListForPersonCollapsesMirrors(t *testing.T) {
	_, lookup, svc := newFixture()
	lookup.add("p1", "tree-1", "Ana")
	lookup.add("p2", "tree-1", "Ben")

	_, err := svc.Create(context.Background(), Candidate{
		FromPersonID: "p1",
		ToPersonID:   "p2",
		Category:     CategoryPartner,
	})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	for _, personID := range []string{"p1", "p2"} {
		edges, err := svc.ListForPerson(context.Background(), personID, "")
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if len(edges) != 1 {
			t.Fatalf("expected mirrored pair collapsed for %s, got %d edges", personID, len(edges))
		}
		if edges[0].FromPersonID != personID {
			t.Fatalf("expected outgoing half for %s, got %+v", personID, edges[0])
		}
	}
}

func TestListForPersonInvalidCategory(t *testing.T) {
	_, lookup, svc := newFixture()
	lookup.add("p1", "tree-1", "Ana")

	_, err := svc.ListForPerson(context.Background(), "p1", "friendship")
	if !errors.Is(err, ErrInvalidCategory) {
		t.Fatalf("expected ErrInvalidCategory, got %v", err)
	}
}

func TestStatistics(t *testing.T) {
	_, lookup, svc := newFixture()
	lookup.add("p1", "tree-1", "Ana")
	lookup.add("p2", "tree-1", "Ben")
	lookup.add("p3", "tree-1", "Cay")

	mustCreate(t, svc, Candidate{
		FromPersonID:         "p1",
		ToPersonID:           "p2",
		Category:             CategoryFamilyLine,
		GenerationDifference: intPtr(GenerationParent),
		Subtype:              "biological",
	})
	mustCreate(t, svc, Candidate{
		FromPersonID: "p2",
		ToPersonID:   "p3",
		Category:     CategoryPartner,
		Subtype:      "married",
	})

	stats, err := svc.Statistics(context.Background(), "tree-1")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if stats.Total != 2 {
		t.Fatalf("expected 2 relationships with the mirror collapsed, got %d", stats.Total)
	}
	if stats.ByCategory[CategoryPartner] != 1 {
		t.Fatalf("expected one marriage to count once, got %d", stats.ByCategory[CategoryPartner])
	}
	if stats.BySubtype["married"] != 1 {
		t.Fatalf("expected one married subtype, got %d", stats.BySubtype["married"])
	}
	if stats.ByCategory[CategoryFamilyLine] != 1 {
		t.Fatalf("expected 1 family_line edge, got %d", stats.ByCategory[CategoryFamilyLine])
	}
	if stats.Active != 2 || stats.Inactive != 0 {
		t.Fatalf("expected all active, got %+v", stats)
	}
}

func TestListForTreeCollapsesMirrors(t *testing.T) {
	_, lookup, svc := newFixture()
	lookup.add("p1", "tree-1", "Ana")
	lookup.add("p2", "tree-1", "Ben")
	lookup.add("p3", "tree-1", "Cay")

	mustCreate(t, svc, Candidate{
		FromPersonID:         "p1",
		ToPersonID:           "p2",
		Category:             CategoryFamilyLine,
		GenerationDifference: intPtr(GenerationParent),
	})
	mustCreate(t, svc, Candidate{
		FromPersonID: "p2",
		ToPersonID:   "p3",
		Category:     CategoryPartner,
		Subtype:      "married",
	})

	edges, err := svc.ListForTree(context.Background(), "tree-1")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(edges) != 2 {
		t.Fatalf("expected each pair listed once, got %d edges", len(edges))
	}
	partners := 0
	for _, e := range edges {
		if e.Category == CategoryPartner {
			partners++
		}
	}
	if partners != 1 {
		t.Fatalf("expected one partner row for the marriage, got %d", partners)
	}
}

func TestCategoryNormalization(t *testing.T) {
	_, lookup, svc := newFixture()
	lookup.add("p1", "tree-1", "Ana")
	lookup.add("p2", "tree-1", "Ben")

	rel, err := svc.Create(context.Background(), Candidate{
		FromPersonID: "p1",
		ToPersonID:   "p2",
		Category:     "  Partner ",
		Subtype:      "MARRIED",
	})
	if err != nil {
		t.Fatalf("expected normalized input to pass, got %v", err)
	}
	if rel.Category != CategoryPartner || rel.Subtype != "married" {
		t.Fatalf("expected lowercase category and subtype, got %+v", rel)
	}
}

func mustCreate(t *testing.T, svc *Service, c Candidate) *Relationship {
	t.Helper()
	rel, err := svc.Create(context.Background(), c)
	if err != nil {
		t.Fatalf("create %s %s->%s: %v", c.Category, c.FromPersonID, c.ToPersonID, err)
	}
	return rel
}
