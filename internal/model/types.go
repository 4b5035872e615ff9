// Package model defines shared data structures.
package model

import "time"

// DateLayout is the calendar date format used for LastPracticeDate.
const DateLayout = "2006-01-02"

// Config defines practice settings.
type Config struct {
	TargetMinutes           int
	Topic                   string
	Microphone              bool
	SilenceThreshold        float64
	ClassifyTrailingSilence bool
	LiveVolume              string
}

// StatsConfig defines filters and options for report output.
type StatsConfig struct {
	Last        int
	CurveWindow int
	FocusTop    int
}

// Session is one completed practice session. It is immutable once saved.
type Session struct {
	ID              string          `json:"id"`
	Date            time.Time       `json:"date"`
	Duration        int             `json:"duration"`
	TargetDuration  int             `json:"targetDuration"`
	FillerWordCount int             `json:"fillerWordCount"`
	SelfRating      int             `json:"selfRating"`
	Notes           string          `json:"notes"`
	Checklist       map[string]bool `json:"checklist"`
	Topic           string          `json:"topic,omitempty"`
	Analysis        *Analysis       `json:"analysis,omitempty"`
}

// Analysis is the audio summary attached to a session.
type Analysis struct {
	AvgVolume          float64 `json:"avgVolume"`
	SpeakingRatio      float64 `json:"speakingRatio"`
	TotalSilenceEvents int     `json:"totalSilenceEvents"`
	GoodPauses         int     `json:"goodPauses"`
	PeakVolume         float64 `json:"peakVolume"`
}

// CheckedCount returns how many checklist entries are ticked.
func (s Session) CheckedCount() int {
	n := 0
	for _, v := range s.Checklist {
		if v {
			n++
		}
	}
	return n
}

// Progress is the single persisted progress record.
type Progress struct {
	Sessions          []Session `json:"sessions"`
	CompletedTips     []string  `json:"completedTips"`
	TotalPracticeTime int       `json:"totalPracticeTime"`
	Streak            int       `json:"streak"`
	LastPracticeDate  string    `json:"lastPracticeDate"`
}

// DefaultProgress returns the empty progress record.
func DefaultProgress() Progress {
	return Progress{
		Sessions:      []Session{},
		CompletedTips: []string{},
	}
}

// HasTip reports whether the tip id is marked completed.
func (p Progress) HasTip(id string) bool {
	for _, t := range p.CompletedTips {
		if t == id {
			return true
		}
	}
	return false
}

// ScoreBreakdown is the derived score. Each component is in [0, 25].
type ScoreBreakdown struct {
	PracticeFrequency int
	SessionQuality    int
	TipsProgress      int
	Consistency       int
	Total             int
}

// Level is a named score band. Low and High are inclusive.
type Level struct {
	Name        string `yaml:"name"`
	Low         int    `yaml:"low"`
	High        int    `yaml:"high"`
	Description string `yaml:"description"`
	Color       string `yaml:"color"`
}

// Contains reports whether score falls in the band.
func (l Level) Contains(score int) bool {
	return score >= l.Low && score <= l.High
}

// Tip is an entry of the tips library.
type Tip struct {
	ID         string `yaml:"id"`
	Title      string `yaml:"title"`
	Body       string `yaml:"body"`
	Category   string `yaml:"category"`
	Difficulty string `yaml:"difficulty"`
}

// Category groups tips.
type Category struct {
	Key   string `yaml:"key"`
	Label string `yaml:"label"`
}

// ChecklistItem is a self-assessment entry shown during review.
type ChecklistItem struct {
	ID    string `yaml:"id"`
	Label string `yaml:"label"`
}
