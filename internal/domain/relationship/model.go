package relationship

import "time"

// Relationship categories. This set is closed; there is no runtime
// registration of new categories.
const (
	CategoryFamilyLine     = "family_line"
	CategoryPartner        = "partner"
	CategorySibling        = "sibling"
	CategoryExtendedFamily = "extended_family"
)

// Generation difference values for family_line edges. Grandparent links are
// always two chained edges, never a direct one, so only one step in either
// direction is representable.
const (
	GenerationParent = -1 // from_person is parent of to_person
	GenerationChild  = 1  // from_person is child of to_person
)

const (
	SubtypeGrandparent = "grandparent"
	SubtypeGrandchild  = "grandchild"
)

var categoryOrder = []string{
	CategoryFamilyLine,
	CategoryPartner,
	CategorySibling,
	CategoryExtendedFamily,
}

var subtypesByCategory = map[string][]string{
	CategoryFamilyLine:     {"biological", "adoptive", "step", "foster"},
	CategoryPartner:        {"married", "engaged", "dating", "divorced", "separated", "widowed"},
	CategorySibling:        {"biological", "half", "step", "adoptive"},
	CategoryExtendedFamily: {"aunt", "uncle", "cousin", SubtypeGrandparent, SubtypeGrandchild, "in_law"},
}

func Categories() []string {
	out := make([]string, len(categoryOrder))
	copy(out, categoryOrder)
	return out
}

func ValidCategory(category string) bool {
	_, ok := subtypesByCategory[category]
	return ok
}

func SubtypesFor(category string) []string {
	subtypes, ok := subtypesByCategory[category]
	if !ok {
		return nil
	}
	out := make([]string, len(subtypes))
	copy(out, subtypes)
	return out
}

func ValidSubtype(category, subtype string) bool {
	for _, s := range subtypesByCategory[category] {
		if s == subtype {
			return true
		}
	}
	return false
}

// Symmetric reports whether edges of the category are conceptually
// undirected. Symmetric edges get a persisted mirror row; family_line and
// extended_family keep their direction because it carries meaning.
func Symmetric(category string) bool {
	return category == CategoryPartner || category == CategorySibling
}

type Relationship struct {
	ID                   string     `gorm:"type:uuid;primaryKey"`
	FromPersonID         string     `gorm:"type:uuid;not null;index"`
	ToPersonID           string     `gorm:"type:uuid;not null;index"`
	Category             string     `gorm:"column:relationship_category;size:50;not null;index"`
	GenerationDifference *int       `gorm:"column:generation_difference"`
	Subtype              string     `gorm:"column:relationship_subtype;size:50"`
	StartDate            *time.Time `gorm:""`
	EndDate              *time.Time `gorm:""`
	IsActive             bool       `gorm:"not null;default:true"`
	Notes                string     `gorm:"type:text"`
	CreatedAt            time.Time  `gorm:"autoCreateTime"`
	UpdatedAt            time.Time  `gorm:"autoUpdateTime"`
}

func (Relationship) TableName() string {
	return "relationships"
}

func (r *Relationship) Involves(personID string) bool {
	return r.FromPersonID == personID || r.ToPersonID == personID
}

// OtherPerson returns the endpoint opposite to personID, or "" when the
// edge does not touch personID at all.
func (r *Relationship) OtherPerson(personID string) string {
	switch personID {
	case r.FromPersonID:
		return r.ToPersonID
	case r.ToPersonID:
		return r.FromPersonID
	default:
		return ""
	}
}

// ParentChild normalizes a family_line edge into (parent, child) regardless
// of which endpoint the edge was recorded from.
func (r *Relationship) ParentChild() (parentID, childID string, ok bool) {
	if r.Category != CategoryFamilyLine || r.GenerationDifference == nil {
		return "", "", false
	}
	switch *r.GenerationDifference {
	case GenerationParent:
		return r.FromPersonID, r.ToPersonID, true
	case GenerationChild:
		return r.ToPersonID, r.FromPersonID, true
	default:
		return "", "", false
	}
}

// Candidate is a proposed relationship as supplied by the caller, before
// validation.
type Candidate struct {
	FromPersonID         string
	ToPersonID           string
	Category             string
	GenerationDifference *int
	Subtype              string
	StartDate            *time.Time
	EndDate              *time.Time
	IsActive             *bool
	Notes                string
}

func (c Candidate) active() bool {
	if c.IsActive == nil {
		return true
	}
	return *c.IsActive
}

// Patch carries partial updates; nil fields are left unchanged.
type Patch struct {
	Category             *string
	GenerationDifference *int
	Subtype              *string
	StartDate            *time.Time
	EndDate              *time.Time
	IsActive             *bool
	Notes                *string
}

type ValidationResult struct {
	Valid   bool   `json:"valid"`
	Message string `json:"message"`
}

type Statistics struct {
	Total      int            `json:"total_relationships"`
	Active     int            `json:"active_relationships"`
	Inactive   int            `json:"inactive_relationships"`
	ByCategory map[string]int `json:"by_category"`
	BySubtype  map[string]int `json:"by_subtype"`
}

type PathResult struct {
	Path  []Relationship `json:"path"`
	Found bool           `json:"relationship_found"`
}

type Proposal struct {
	Type       string `json:"type"`
	Person1ID  string `json:"person1_id"`
	Person2ID  string `json:"person2_id"`
	Confidence string `json:"confidence"`
	Reason     string `json:"reason"`
}
