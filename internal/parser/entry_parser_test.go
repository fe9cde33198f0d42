package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseEntryTitle(t *testing.T) {
	tests := []struct {
		input    string
		project  string
		category string
		errors   int
	}{
		{"Build login page #Programming", "Build login page", "Programming", 0},
		{"#Meetings  standup   sync", "standup sync", "Meetings", 0},
		{"Quarterly review #Customer_Calls", "Quarterly review", "Customer Calls", 0},
		{"Plain project", "Plain project", "", 0},
		{"#Meetings", "", "Meetings", 1},
		{"Launch #Marketing #Meetings", "Launch", "Marketing", 1},
	}

	for _, tc := range tests {
		t.Run(tc.input, func(t *testing.T) {
			got := ParseEntryTitle(tc.input)
			assert.Equal(t, tc.project, got.Project)
			assert.Equal(t, tc.category, got.Category)
			assert.Len(t, got.Errors, tc.errors)
		})
	}
}
