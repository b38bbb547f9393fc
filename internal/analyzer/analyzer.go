// Package analyzer defines the note analysis boundary and a
// fixture-backed implementation. Real inference lives behind the
// Analyzer interface; nothing in the application depends on how a
// Result is produced.
package analyzer

import "context"

// Result is the outcome of analyzing a note's content.
type Result struct {
	AwarenessPoints     []string           `yaml:"awareness_points" json:"awareness_points"`
	CounselorTopics     []string           `yaml:"counselor_topics" json:"counselor_topics"`
	EmotionDistribution map[string]float64 `yaml:"emotion_distribution" json:"emotion_distribution"`
}

// Analyzer produces a sentiment/awareness analysis for free text.
type Analyzer interface {
	Analyze(ctx context.Context, content string) (*Result, error)
}
