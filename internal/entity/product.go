package entity

import (
	"time"

	"github.com/google/uuid"
)

// Product represents a catalog product for data transfer between layers.
type Product struct {
	ID          uuid.UUID `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Grade       string    `json:"grade"`
	Subject     string    `json:"subject"`
	Price       float64   `json:"price"`
	FileName    string    `json:"file_name"`
	FileSize    string    `json:"file_size"`
	Pages       int       `json:"pages"`
	Thumbnail   string    `json:"thumbnail"`
	Category    string    `json:"category"`
	Tags        []string  `json:"tags"`
	Downloads   int       `json:"downloads"`
	IsActive    bool      `json:"is_active"`
	CreatedAt   time.Time `json:"created_at"`
}

// GradeCount is one row of the per-grade catalog breakdown.
type GradeCount struct {
	Grade string `json:"grade"`
	Count int    `json:"count"`
}
