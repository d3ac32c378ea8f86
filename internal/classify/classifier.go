// Package classify infers grade, subject, resource type and year from a
// document's text sample and filename.
package classify

import (
	"log/slog"
	"regexp"
	"strings"

	"github.com/capsresources/resource-organizer/constants"
	"github.com/capsresources/resource-organizer/internal/entity"
)

var yearRe = regexp.MustCompile(`20\d{2}`)

// Classifier scores a corpus against the taxonomy tables.
type Classifier struct {
	grades   []constants.Synonyms[constants.Grade]
	subjects []constants.Synonyms[string]
	types    []constants.Synonyms[constants.ResourceType]
	logger   *slog.Logger
}

// New creates a classifier over the built-in tables.
func New(logger *slog.Logger) *Classifier {
	if logger == nil {
		logger = slog.Default()
	}
	return &Classifier{
		grades:   constants.GradeTable,
		subjects: constants.SubjectTable,
		types:    constants.ResourceTypeTable,
		logger:   logger,
	}
}

// Corpus is the single lowercase search string: text first, then filename.
func Corpus(text, filename string) string {
	return strings.ToLower(text) + " " + strings.ToLower(filename)
}

// Classify runs the four sub-classifiers over Corpus(text, filename).
// An empty Grade means the document should be rejected.
func (c *Classifier) Classify(text, filename string) entity.Classification {
	corpus := Corpus(text, filename)
	res := entity.Classification{
		Grade:   c.Grade(corpus),
		Subject: c.Subject(corpus),
		Type:    c.ResourceType(corpus),
		Year:    Year(corpus),
	}
	c.logger.Debug("classify.done",
		"filename", filename,
		"grade", res.Grade,
		"subject", res.Subject,
		"type", res.Type,
		"year", res.Year,
	)
	return res
}

// Grade returns the first grade in table order with a synonym present in
// corpus, or "" when none matches.
func (c *Classifier) Grade(corpus string) constants.Grade {
	for _, row := range c.grades {
		for _, p := range row.Patterns {
			if strings.Contains(corpus, p) {
				return row.Key
			}
		}
	}
	return ""
}

// Subject returns the highest scoring subject, or General when nothing scores.
func (c *Classifier) Subject(corpus string) string {
	return best(score(c.subjects, corpus), constants.GeneralSubject)
}

// ResourceType returns the highest scoring type, or worksheets when nothing scores.
func (c *Classifier) ResourceType(corpus string) constants.ResourceType {
	return best(score(c.types, corpus), constants.DefaultResourceType)
}

// Year returns the first "20xx" in corpus, or the default year.
func Year(corpus string) string {
	if y := yearRe.FindString(corpus); y != "" {
		return y
	}
	return constants.DefaultYear
}

// Score is one row of an Explain breakdown.
type Score[K ~string] struct {
	Key   K
	Score int
}

// Explanation shows how a corpus was scored.
type Explanation struct {
	Corpus   string
	Result   entity.Classification
	Subjects []Score[string]
	Types    []Score[constants.ResourceType]
}

// Explain classifies like Classify and also returns the non-zero scores
// in table order.
func (c *Classifier) Explain(text, filename string) Explanation {
	corpus := Corpus(text, filename)
	exp := Explanation{Corpus: corpus, Result: c.Classify(text, filename)}
	for _, s := range score(c.subjects, corpus) {
		if s.Score > 0 {
			exp.Subjects = append(exp.Subjects, s)
		}
	}
	for _, s := range score(c.types, corpus) {
		if s.Score > 0 {
			exp.Types = append(exp.Types, s)
		}
	}
	return exp
}

// score sums substring occurrences of each row's patterns.
func score[K ~string](table []constants.Synonyms[K], corpus string) []Score[K] {
	out := make([]Score[K], len(table))
	for i, row := range table {
		n := 0
		for _, p := range row.Patterns {
			n += strings.Count(corpus, p)
		}
		out[i] = Score[K]{Key: row.Key, Score: n}
	}
	return out
}

// best picks the strictly highest score; ties keep the earlier row.
func best[K ~string](scores []Score[K], def K) K {
	winner, top := def, 0
	for _, s := range scores {
		if s.Score > top {
			winner, top = s.Key, s.Score
		}
	}
	return winner
}
