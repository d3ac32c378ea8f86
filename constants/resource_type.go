package constants

import "strings"

// ResourceType is the kind of teaching material a document is.
type ResourceType string

const (
	Worksheets  ResourceType = "worksheets"
	Assessments ResourceType = "assessments"
	LessonPlans ResourceType = "lesson-plans"
	Activities  ResourceType = "activities"
	StudyGuides ResourceType = "study-guides"
)

// DefaultResourceType is used when no type pattern matches.
const DefaultResourceType = Worksheets

// ResourceTypeTable lists types in scoring order. Ties go to the earlier entry.
var ResourceTypeTable = []Synonyms[ResourceType]{
	{Worksheets, []string{"worksheet", "work sheet", "activity sheet", "werksblad"}},
	{Assessments, []string{"assessment", "test", "exam", "examination", "toets", "eksamen"}},
	{LessonPlans, []string{"lesson plan", "teaching plan", "lesplan"}},
	{Activities, []string{"activity", "activities", "aktiwiteit", "aktiwiteite"}},
	{StudyGuides, []string{"study guide", "revision", "notes", "studiegids", "hersiening"}},
}

// IsValidResourceType reports whether s is one of the five resource types.
func IsValidResourceType(s string) bool {
	for _, row := range ResourceTypeTable {
		if string(row.Key) == s {
			return true
		}
	}
	return false
}

// DisplayName renders a type for titles: "lesson-plans" -> "Lesson Plans".
func (t ResourceType) DisplayName() string {
	words := strings.Fields(strings.ReplaceAll(string(t), "-", " "))
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}
