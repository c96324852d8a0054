// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package backend

import (
	"encoding/json"
	"math"
	"strings"

	"github.com/taibuivan/facegate/internal/session"
)

// # Accounts

// Credentials is the login request body.
type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Registration is the signup request body.
type Registration struct {
	FullName string `json:"full_name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginResult is a verified login response.
type LoginResult struct {
	Message string
	Token   string
	User    session.User
}

type loginResponse struct {
	Message string      `json:"message"`
	Token   string      `json:"token" validate:"required"`
	User    accountUser `json:"user"`
}

type accountUser struct {
	ID       session.UserID `json:"id" validate:"required"`
	Username string         `json:"username"`
	FullName string         `json:"full_name"`
	Email    string         `json:"email"`
}

type messageResponse struct {
	Message string `json:"message"`
}

// # People

// Text decodes a JSON string, number, or null into a string. The backend
// stores some form fields (age, phone number) verbatim, so their JSON type
// varies between records.
type Text string

// UnmarshalJSON implements [json.Unmarshaler].
func (t *Text) UnmarshalJSON(data []byte) error {
	raw := strings.TrimSpace(string(data))
	switch {
	case raw == "null":
		*t = ""
	case strings.HasPrefix(raw, `"`):
		var text string
		if err := json.Unmarshal(data, &text); err != nil {
			return err
		}
		*t = Text(text)
	default:
		var number json.Number
		if err := json.Unmarshal(data, &number); err != nil {
			return err
		}
		*t = Text(number.String())
	}
	return nil
}

// Person is a registered person as listed by the backend.
type Person struct {
	ID          int64  `json:"id"         validate:"gt=0"`
	FullName    string `json:"full_name"`
	Department  string `json:"department"`
	Email       string `json:"email"`
	PhoneNumber Text   `json:"phone_number"`
	Age         Text   `json:"age"`
	HomeAddress string `json:"home_address"`
	Occupation  string `json:"occupation"`
	Education   string `json:"education"`
	Interests   string `json:"interests"`
	Hobbies     string `json:"hobbies"`
	Bio         string `json:"bio"`
	CreatedAt   string `json:"created_at"`
}

// Initials returns up to two initials for avatar placeholders.
func (p Person) Initials() string {
	var initials []rune
	for _, word := range strings.Fields(p.FullName) {
		for _, r := range word {
			initials = append(initials, r)
			break
		}
		if len(initials) == 2 {
			break
		}
	}
	if len(initials) == 0 {
		return "?"
	}
	return strings.ToUpper(string(initials))
}

// NewPerson is the form data of a person to register.
type NewPerson struct {
	FullName    string
	Age         string
	Department  string
	Email       string
	PhoneNumber string
	HomeAddress string
	Occupation  string
	Education   string
	Interests   string
	Hobbies     string
	Bio         string
}

// fields lists the multipart form fields in a stable order.
func (p NewPerson) fields() [][2]string {
	return [][2]string{
		{"full_name", p.FullName},
		{"age", p.Age},
		{"department", p.Department},
		{"email", p.Email},
		{"phone_number", p.PhoneNumber},
		{"home_address", p.HomeAddress},
		{"occupation", p.Occupation},
		{"education", p.Education},
		{"interests", p.Interests},
		{"hobbies", p.Hobbies},
		{"bio", p.Bio},
	}
}

// Created is the backend's answer to a successful registration.
type Created struct {
	ID      int64  `json:"id"`
	Message string `json:"message"`
}

// # Recognition

// Confidence bands used to colour match scores.
const (
	BandHigh   = "high"
	BandMedium = "medium"
	BandLow    = "low"
)

// Band classifies a 0-100 confidence score: ≥80 high, ≥60 medium, else low.
func Band(confidence float64) string {
	switch {
	case confidence >= 80:
		return BandHigh
	case confidence >= 60:
		return BandMedium
	default:
		return BandLow
	}
}

// Match is one ranked recognition candidate.
type Match struct {
	UserID     session.UserID `json:"user_id"`
	Name       string         `json:"name"`
	Department string         `json:"department"`
	Confidence float64        `json:"confidence" validate:"gte=0,lte=100"`
}

// Band returns the confidence band of the match.
func (m Match) Band() string { return Band(m.Confidence) }

// Profile is the full record of the best match when the face was recognized.
type Profile struct {
	ID         session.UserID `json:"id"`
	Name       string         `json:"name"`
	Department string         `json:"department"`
	Occupation string         `json:"occupation,omitempty"`
	Email      string         `json:"email,omitempty"`
	Confidence float64        `json:"confidence" validate:"gte=0,lte=100"`
}

// Band returns the confidence band of the profile.
func (p Profile) Band() string { return Band(p.Confidence) }

// Result is one recognition outcome.
type Result struct {
	Recognized bool     `json:"recognized"`
	Matches    []Match  `json:"matches"`
	User       *Profile `json:"user,omitempty"`
	Message    string   `json:"message,omitempty"`
}

// IsBest reports whether m is the recognized profile, for row highlighting.
func (r Result) IsBest(m Match) bool {
	return r.Recognized && r.User != nil && r.User.ID == m.UserID
}

type recognizeResponse struct {
	Recognized *bool    `json:"recognized" validate:"required"`
	Matches    []Match  `json:"matches"    validate:"dive"`
	User       *Profile `json:"user"`
	Message    string   `json:"message"`
}

// scanResponse is the single best match returned by the upload scan endpoint.
// Its confidence is a 0-1 similarity.
type scanResponse struct {
	ID          session.UserID `json:"id"         validate:"required"`
	FullName    string         `json:"full_name"`
	Department  string         `json:"department"`
	Email       string         `json:"email"`
	PhoneNumber Text           `json:"phone_number"`
	Confidence  float64        `json:"confidence" validate:"gte=0,lte=1"`
}

// result converts a scan match into the common [Result] shape.
func (s scanResponse) result() Result {
	percent := math.Round(s.Confidence*1000) / 10
	return Result{
		Recognized: true,
		Matches: []Match{{
			UserID:     s.ID,
			Name:       s.FullName,
			Department: s.Department,
			Confidence: percent,
		}},
		User: &Profile{
			ID:         s.ID,
			Name:       s.FullName,
			Department: s.Department,
			Email:      s.Email,
			Confidence: percent,
		},
	}
}

// errorResponse is the error body every endpoint uses in some combination.
type errorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Field   string `json:"field"`
}
