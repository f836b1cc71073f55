package services

import "strings"

// domainKeywords is the fixed keyword set gating queries before
// retrieval. A query mentioning any of these anywhere is treated as
// course-related.
var domainKeywords = []string{
	"course",
	"learn",
	"tutorial",
	"class",
	"training",
	"education",
}

// Classifier decides whether a query is in-domain before retrieval and
// generation run. The gate is a case-insensitive substring match over
// the keyword set.
type Classifier struct {
	keywords []string
}

// NewClassifier creates a classifier over the fixed keyword set.
func NewClassifier() *Classifier {
	return &Classifier{keywords: domainKeywords}
}

// IsInDomain reports whether the query looks course-related.
func (c *Classifier) IsInDomain(query string) bool {
	q := strings.ToLower(query)
	for _, kw := range c.keywords {
		if strings.Contains(q, kw) {
			return true
		}
	}
	return false
}
