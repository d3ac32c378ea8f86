package constants

import (
	"strings"
)

// CanonicalGrade maps loose user input ("Grade 5", "gr5", "GRADE5", "matric")
// to a grade key.
func CanonicalGrade(input string) (Grade, bool) {
	normalized := strings.ToLower(strings.TrimSpace(input))
	if normalized == "" {
		return "", false
	}

	compact := strings.ReplaceAll(normalized, " ", "")
	for _, row := range GradeTable {
		if compact == string(row.Key) {
			return row.Key, true
		}
		for _, p := range row.Patterns {
			if normalized == p {
				return row.Key, true
			}
		}
	}
	return "", false
}

// CanonicalSubject maps a case-insensitive subject name or synonym to its
// vocabulary entry. Unknown input yields GeneralSubject, false.
func CanonicalSubject(input string) (string, bool) {
	normalized := strings.ToLower(strings.TrimSpace(input))
	if normalized == "" {
		return GeneralSubject, false
	}
	if normalized == strings.ToLower(GeneralSubject) {
		return GeneralSubject, true
	}

	for _, row := range SubjectTable {
		if normalized == strings.ToLower(row.Key) {
			return row.Key, true
		}
		for _, p := range row.Patterns {
			if normalized == p {
				return row.Key, true
			}
		}
	}
	return GeneralSubject, false
}
