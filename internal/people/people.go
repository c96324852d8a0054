// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package people manages the register of recognizable people: adding a person
with a face image, listing and searching the register, and removing people.

The register lives in the recognition backend. The portal keeps no copy; the
list shown on the remove page is fetched for that one request.
*/
package people

import (
	"strconv"
	"strings"

	"github.com/taibuivan/facegate/internal/backend"
	"github.com/taibuivan/facegate/internal/platform/validate"
	"github.com/taibuivan/facegate/pkg/fold"
	"github.com/taibuivan/facegate/pkg/pagination"
)

// # Form Fields

const (
	FieldFullName    = "full_name"
	FieldAge         = "age"
	FieldDepartment  = "department"
	FieldEmail       = "email"
	FieldPhoneNumber = "phone_number"
	FieldHomeAddress = "home_address"
	FieldOccupation  = "occupation"
	FieldEducation   = "education"
	FieldInterests   = "interests"
	FieldHobbies     = "hobbies"
	FieldBio         = "bio"

	// FieldCapture carries a camera capture as a data URL.
	FieldCapture = "capture"
)

// formFields lists the text inputs of the add form in display order.
var formFields = []string{
	FieldFullName, FieldAge, FieldDepartment, FieldEmail, FieldPhoneNumber,
	FieldHomeAddress, FieldOccupation, FieldEducation, FieldInterests,
	FieldHobbies, FieldBio,
}

// Form is a submitted add-person form, keyed by input name.
type Form map[string]string

// Person converts the form into the backend's registration shape.
func (f Form) Person() backend.NewPerson {
	return backend.NewPerson{
		FullName:    f[FieldFullName],
		Age:         f[FieldAge],
		Department:  f[FieldDepartment],
		Email:       f[FieldEmail],
		PhoneNumber: f[FieldPhoneNumber],
		HomeAddress: f[FieldHomeAddress],
		Occupation:  f[FieldOccupation],
		Education:   f[FieldEducation],
		Interests:   f[FieldInterests],
		Hobbies:     f[FieldHobbies],
		Bio:         f[FieldBio],
	}
}

// Validate checks the text inputs. The image is checked separately because
// it arrives as an upload or a capture.
func (f Form) Validate(hasImage bool) error {
	v := &validate.Validator{}
	v.Required(FieldFullName, f[FieldFullName], "Full name is required").
		MaxLen(FieldFullName, f[FieldFullName], 120).
		LooseEmail(FieldEmail, f[FieldEmail], "Email is invalid").
		MaxLen(FieldBio, f[FieldBio], 2000)

	if age := f[FieldAge]; age != "" {
		n, err := strconv.Atoi(age)
		v.Custom(FieldAge, err != nil || n < 0 || n > 150, "Age must be a whole number")
	}

	v.Custom(backend.ImageField, !hasImage, "Please provide a face image")
	return v.Err()
}

// Listing is one page of the register after search.
type Listing struct {
	Query  string
	People []backend.Person
	Meta   pagination.Meta
}

// Search keeps the people whose name, email, or department contains query,
// ignoring case and accents.
func Search(people []backend.Person, query string) []backend.Person {
	query = strings.TrimSpace(query)
	if query == "" {
		return people
	}

	matched := make([]backend.Person, 0, len(people))
	for _, person := range people {
		if fold.Contains(query, person.FullName, person.Email, person.Department) {
			matched = append(matched, person)
		}
	}
	return matched
}
