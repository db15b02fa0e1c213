package bqdryrun

import (
	"regexp"
	"strconv"
)

// Regex to find [line:column] positions in BigQuery error messages
var errorLocationRegex = regexp.MustCompile(`\[(\d+):(\d+)\]`)

// ErrorLocation is a 1-indexed position in the submitted SQL, as reported by BigQuery.
type ErrorLocation struct {
	Line   int `json:"line"`
	Column int `json:"column"`
}

// ExtractErrorLocation returns the first [line:column] position found in
// message, or nil when there is none.
//
// Example:
//
//	loc := ExtractErrorLocation("Syntax error: Unexpected keyword WHERE at [3:15]")
//	// loc.Line == 3, loc.Column == 15
func ExtractErrorLocation(message string) *ErrorLocation {
	match := errorLocationRegex.FindStringSubmatch(message)
	if match == nil {
		return nil
	}
	line, err := strconv.Atoi(match[1])
	if err != nil {
		return nil
	}
	column, err := strconv.Atoi(match[2])
	if err != nil {
		return nil
	}
	return &ErrorLocation{Line: line, Column: column}
}
