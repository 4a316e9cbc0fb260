package domain

import "github.com/huellitas/vetrecords/internal/core/clinical"

// Pet is a patient profile together with its accumulated clinical history.
type Pet struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Species   string `json:"species"`
	Breed     string `json:"breed"`
	BirthYear int    `json:"birth_year"`
	Owner     string `json:"owner"`

	// History is only ever replaced by the result of clinical.AppendVisit.
	History clinical.Record `json:"-"`
}

// PetProfile holds the editable, non-clinical fields of a pet.
type PetProfile struct {
	Name      string
	Species   string
	Breed     string
	BirthYear int
	Owner     string
}

// PetFilter narrows a pet search. Empty fields are ignored; non-empty ones
// match case-insensitively anywhere in the field.
type PetFilter struct {
	Name    string
	Species string
}
