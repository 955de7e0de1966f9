package graph

import (
	"time"

	"github.com/pkg/errors"
)

// ErrPersonNotFound is returned by lookups for an id missing from a snapshot
var ErrPersonNotFound = errors.New("person not found")

// Gender of a person as used for word choice
type Gender string

const (
	GenderMale        Gender = "male"
	GenderFemale      Gender = "female"
	GenderUnspecified Gender = "unspecified"
)

// Person represents a node in the family graph
type Person struct {
	ID         string     `json:"id"`
	GivenName  string     `json:"given_name,omitempty"`
	FamilyName string     `json:"family_name,omitempty"`
	Gender     Gender     `json:"gender"`
	BirthDate  *time.Time `json:"birth_date,omitempty"`
	DeathDate  *time.Time `json:"death_date,omitempty"`
	Deceased   bool       `json:"is_deceased,omitempty"`
}

// IsDeceased reports whether the person is flagged dead or has a death date
func (p Person) IsDeceased() bool {
	return p.Deceased || p.DeathDate != nil
}

// DisplayName joins the given and family name
func (p Person) DisplayName() string {
	switch {
	case p.GivenName == "" && p.FamilyName == "":
		return p.ID
	case p.FamilyName == "":
		return p.GivenName
	case p.GivenName == "":
		return p.FamilyName
	}
	return p.GivenName + " " + p.FamilyName
}

// RecordType discriminates the kind of a relationship record
type RecordType string

const (
	RecordParent  RecordType = "parent"
	RecordChild   RecordType = "child"
	RecordSpouse  RecordType = "spouse"
	RecordSibling RecordType = "sibling"
)

// Valid reports whether t is one of the four known record types
func (t RecordType) Valid() bool {
	switch t {
	case RecordParent, RecordChild, RecordSpouse, RecordSibling:
		return true
	}
	return false
}

// RelationshipRecord is a normalized raw edge: From is <Type> of To.
// Records decoded from any input convention end up in this shape.
type RelationshipRecord struct {
	Type             RecordType `json:"type"`
	From             string     `json:"from"`
	To               string     `json:"to"`
	IsEx             bool       `json:"is_ex,omitempty"`
	IsDeceasedSpouse bool       `json:"is_deceased_spouse,omitempty"`
}

// FamilyData is the pair of input collections a snapshot is built from
type FamilyData struct {
	People        []Person             `json:"people"`
	Relationships []RelationshipRecord `json:"relationships"`
}

// FindPerson returns the person with the given id
func (d *FamilyData) FindPerson(id string) (Person, error) {
	for _, p := range d.People {
		if p.ID == id {
			return p, nil
		}
	}
	return Person{}, ErrPersonNotFound
}
