package parser

import (
	"regexp"
	"strings"
)

// ParsedEntry represents an entry described in one line of text
type ParsedEntry struct {
	Project  string
	Category string
	Errors   []string
}

var categoryRegex = regexp.MustCompile(`#([^\s#]+)`)

// ParseEntryTitle extracts a category from a project description.
// Syntax: "Build login page #Programming". Underscores in the tag stand in
// for spaces, so "#Customer_Calls" names "Customer Calls".
func ParseEntryTitle(input string) ParsedEntry {
	result := ParsedEntry{Errors: []string{}}

	matches := categoryRegex.FindAllStringSubmatch(input, -1)
	if len(matches) > 1 {
		result.Errors = append(result.Errors, "more than one #category given")
	}
	if len(matches) > 0 {
		result.Category = strings.ReplaceAll(matches[0][1], "_", " ")
		input = categoryRegex.ReplaceAllString(input, "")
	}

	// Clean up the project (remove extra spaces)
	result.Project = strings.Join(strings.Fields(input), " ")
	if result.Project == "" {
		result.Errors = append(result.Errors, "project name is required")
	}

	return result
}
