package constants

import "strings"

// Grade is one of the fixed school levels a resource is filed under.
type Grade string

const (
	Preschool Grade = "preschool"
	Reception Grade = "reception"
	Grade1    Grade = "grade1"
	Grade2    Grade = "grade2"
	Grade3    Grade = "grade3"
	Grade4    Grade = "grade4"
	Grade5    Grade = "grade5"
	Grade6    Grade = "grade6"
	Grade7    Grade = "grade7"
	Grade8    Grade = "grade8"
	Grade9    Grade = "grade9"
	Grade10   Grade = "grade10"
	Grade11   Grade = "grade11"
	Grade12   Grade = "grade12"
)

// Synonyms pairs a taxonomy key with the lowercase phrases that indicate it.
type Synonyms[K ~string] struct {
	Key      K
	Patterns []string
}

// GradeTable is scanned in order; the first grade with a matching pattern wins,
// so lower levels are listed first.
var GradeTable = []Synonyms[Grade]{
	{Preschool, []string{"preschool", "pre-school", "pre school", "playgroup", "creche"}},
	{Reception, []string{"reception", "grade r", "grade 0"}},
	{Grade1, []string{"grade 1", "grade one", "gr 1", "gr1"}},
	{Grade2, []string{"grade 2", "grade two", "gr 2", "gr2"}},
	{Grade3, []string{"grade 3", "grade three", "gr 3", "gr3"}},
	{Grade4, []string{"grade 4", "grade four", "gr 4", "gr4"}},
	{Grade5, []string{"grade 5", "grade five", "gr 5", "gr5"}},
	{Grade6, []string{"grade 6", "grade six", "gr 6", "gr6"}},
	{Grade7, []string{"grade 7", "grade seven", "gr 7", "gr7"}},
	{Grade8, []string{"grade 8", "grade eight", "gr 8", "gr8"}},
	{Grade9, []string{"grade 9", "grade nine", "gr 9", "gr9"}},
	{Grade10, []string{"grade 10", "grade ten", "gr 10", "gr10"}},
	{Grade11, []string{"grade 11", "grade eleven", "gr 11", "gr11"}},
	{Grade12, []string{"grade 12", "grade twelve", "gr 12", "gr12", "matric"}},
}

// AllGrades returns the grades in table order.
func AllGrades() []Grade {
	out := make([]Grade, len(GradeTable))
	for i, g := range GradeTable {
		out[i] = g.Key
	}
	return out
}

// IsValidGrade reports whether s is one of the fixed grade keys.
func IsValidGrade(s string) bool {
	for _, g := range GradeTable {
		if string(g.Key) == s {
			return true
		}
	}
	return false
}

// GradeRank orders grades by level; unknown grades sort last.
func GradeRank(g Grade) int {
	for i, row := range GradeTable {
		if row.Key == g {
			return i
		}
	}
	return len(GradeTable)
}

// DisplayName renders a grade for titles: "grade5" -> "Grade 5".
func (g Grade) DisplayName() string {
	switch g {
	case Preschool:
		return "Preschool"
	case Reception:
		return "Reception"
	}
	if n, ok := strings.CutPrefix(string(g), "grade"); ok && n != "" {
		return "Grade " + n
	}
	return string(g)
}
