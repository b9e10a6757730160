// Package family defines the flat input records a family tree is built from.
//
// A family is described by two ordered record lists:
//
//   - [Person]: a blood relative with an optional parent reference. The one
//     person without a parent is the root of the tree.
//   - [Partnership]: a partner attached to a person, with the children the
//     two have together and the period the relationship lasted.
//
// Records may reference each other in any order; resolving references is the
// job of package tree. This package only checks that each record is
// well-formed on its own (see [Records.Validate]).
//
// Records carry json, yaml, toml and bson tags so every loader in
// pkg/source shares the same field names:
//
//	{
//	  "persons": [
//	    {"id": 1, "name": "A", "sex": "m"},
//	    {"id": 2, "name": "B", "sex": "f", "parent": 1}
//	  ],
//	  "relationships": [
//	    {"id": 1, "partner": 1, "name": "S", "sex": "f",
//	     "children": [2], "since": "2010-09-20"}
//	  ]
//	}
package family

import (
	"fmt"
	"strings"
	"time"
)

// DateLayout is the layout of Partnership.Since and Partnership.Till.
const DateLayout = "2006-01-02"

// Sex selects the palette entry a renderer uses for a box.
type Sex string

// Supported values.
const (
	Female Sex = "f"
	Male   Sex = "m"
)

// ParseSex accepts "f", "m", "female" and "male" in any case.
func ParseSex(s string) (Sex, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "f", "female":
		return Female, nil
	case "m", "male":
		return Male, nil
	}
	return "", fmt.Errorf("invalid sex %q (must be f or m)", s)
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *Sex) UnmarshalText(b []byte) error {
	v, err := ParseSex(string(b))
	if err != nil {
		return err
	}
	*s = v
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (s Sex) MarshalText() ([]byte, error) { return []byte(s), nil }

func (s Sex) String() string {
	switch s {
	case Female:
		return "female"
	case Male:
		return "male"
	}
	return string(s)
}

// Person is a blood relative.
type Person struct {
	ID     int    `json:"id" yaml:"id" toml:"id" bson:"_id" validate:"gt=0"`
	Name   string `json:"name" yaml:"name" toml:"name" bson:"name" validate:"label"`
	Sex    Sex    `json:"sex" yaml:"sex" toml:"sex" bson:"sex" validate:"oneof=f m"`
	Parent *int   `json:"parent,omitempty" yaml:"parent,omitempty" toml:"parent,omitempty" bson:"parent,omitempty" validate:"omitempty,gt=0"`
}

// IsRoot reports whether p has no parent reference.
func (p Person) IsRoot() bool { return p.Parent == nil }

// Partnership is a partner attached to Partner, displayed as its own box.
// Children lists the ids of the children the two have together; they must
// also be children of Partner.
type Partnership struct {
	ID       int    `json:"id" yaml:"id" toml:"id" bson:"_id" validate:"gt=0"`
	Partner  int    `json:"partner" yaml:"partner" toml:"partner" bson:"partner" validate:"gt=0"`
	Name     string `json:"name" yaml:"name" toml:"name" bson:"name" validate:"label"`
	Sex      Sex    `json:"sex" yaml:"sex" toml:"sex" bson:"sex" validate:"oneof=f m"`
	Children []int  `json:"children,omitempty" yaml:"children,omitempty" toml:"children,omitempty" bson:"children,omitempty" validate:"dive,gt=0"`
	Since    string `json:"since" yaml:"since" toml:"since" bson:"since" validate:"required,datetime=2006-01-02"`
	Till     string `json:"till,omitempty" yaml:"till,omitempty" toml:"till,omitempty" bson:"till,omitempty" validate:"omitempty,datetime=2006-01-02"`
}

// Ongoing reports whether the relationship has no end date.
func (r Partnership) Ongoing() bool { return r.Till == "" }

// SinceDate parses Since.
func (r Partnership) SinceDate() (time.Time, error) {
	return time.Parse(DateLayout, r.Since)
}

// TillDate parses Till. The boolean is false for an ongoing relationship.
func (r Partnership) TillDate() (time.Time, bool, error) {
	if r.Till == "" {
		return time.Time{}, false, nil
	}
	t, err := time.Parse(DateLayout, r.Till)
	return t, err == nil, err
}

// Records is the complete input of one family tree.
type Records struct {
	Persons       []Person      `json:"persons" yaml:"persons" toml:"persons" bson:"persons" validate:"dive"`
	Relationships []Partnership `json:"relationships,omitempty" yaml:"relationships,omitempty" toml:"relationships,omitempty" bson:"relationships,omitempty" validate:"dive"`
}

// Empty reports whether r contains no persons.
func (r Records) Empty() bool { return len(r.Persons) == 0 }

// Clone returns a deep copy of r.
func (r Records) Clone() Records {
	out := Records{
		Persons:       make([]Person, len(r.Persons)),
		Relationships: make([]Partnership, len(r.Relationships)),
	}
	for i, p := range r.Persons {
		if p.Parent != nil {
			parent := *p.Parent
			p.Parent = &parent
		}
		out.Persons[i] = p
	}
	for i, rel := range r.Relationships {
		rel.Children = append([]int(nil), rel.Children...)
		out.Relationships[i] = rel
	}
	return out
}

// ParentOf returns a pointer to id, for building Person literals.
func ParentOf(id int) *int { return &id }
