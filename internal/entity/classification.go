package entity

import "github.com/capsresources/resource-organizer/constants"

// Classification is the attribute set inferred for one document.
type Classification struct {
	Grade   constants.Grade        `json:"grade"`
	Subject string                 `json:"subject"`
	Type    constants.ResourceType `json:"type"`
	Year    string                 `json:"year"`
}

// HasGrade reports whether a grade was found. Documents without one are rejected.
func (c Classification) HasGrade() bool {
	return c.Grade != ""
}
