// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package fold_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/taibuivan/facegate/pkg/fold"
)

/*
TestContains covers case and accent insensitive matching across fields.
*/
func TestContains(t *testing.T) {
	tests := []struct {
		name   string
		needle string
		fields []string
		want   bool
	}{
		{"empty_needle", "", []string{"anything"}, true},
		{"case", "ADA", []string{"Ada Lovelace"}, true},
		{"accent", "jose", []string{"José Núñez"}, true},
		{"second_field", "research", []string{"Ada", "ada@example.com", "Research"}, true},
		{"miss", "bob", []string{"Ada", "ada@example.com", "Research"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, fold.Contains(tt.needle, tt.fields...))
		})
	}
}

/*
TestSlug checks ASCII file names derived from person names.
*/
func TestSlug(t *testing.T) {
	assert.Equal(t, "jose-nunez", fold.Slug("  José Núñez! "))
	assert.Equal(t, "ada-lovelace-2", fold.Slug("Ada -- Lovelace (2)"))
	assert.Equal(t, "", fold.Slug("!!!"))
}
