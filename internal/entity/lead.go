package entity

import (
	"errors"
	"regexp"
	"strings"
	"time"
)

// Lead is one tracked prospect sourced from a subreddit post.
// URL is the natural identity key: imports merge by it, never duplicate.
type Lead struct {
	Summary         string    `json:"summary"`
	LowHangingFruit bool      `json:"lowHangingFruit"`
	OriginalPost    string    `json:"originalPost"`
	Solution        string    `json:"solution"`
	Date            time.Time `json:"date"`
	URL             string    `json:"url"`
	Subreddit       string    `json:"subreddit"`
	Status          string    `json:"status"` // always one of the configured StatusSet
	Notes           string    `json:"notes"`
}

func (l *Lead) Validate() error {
	if l.URL == "" {
		return errors.New("url is required")
	}
	if l.Date.IsZero() {
		return errors.New("date is required")
	}
	return nil
}

// StatusSet is the configured funnel: which statuses exist, which one new
// leads start in, and which one counts as a conversion. Transitions are
// unconstrained; moving backwards through the funnel is allowed.
type StatusSet struct {
	Statuses  []string
	Initial   string
	Converted string
}

func DefaultStatusSet() StatusSet {
	return StatusSet{
		Statuses:  []string{"New", "In Progress", "Contacted", "Converted", "Closed"},
		Initial:   "New",
		Converted: "Converted",
	}
}

func (s StatusSet) Contains(status string) bool {
	for _, v := range s.Statuses {
		if v == status {
			return true
		}
	}
	return false
}

// Normalize maps unrecognized incoming values to the initial status.
func (s StatusSet) Normalize(status string) string {
	if s.Contains(status) {
		return status
	}
	return s.Initial
}

var dateLayouts = []string{
	"2006-01-02",
	time.RFC3339,
	time.RFC3339Nano,
	"2006-01-02T15:04:05.000-07:00",
	"2006-01-02 15:04:05",
}

// ParseDate accepts the date formats seen in incoming sheet exports.
// Anything else is an error; free text never survives into a Lead date.
func ParseDate(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t, nil
		}
	}
	return time.Time{}, errors.New("unrecognized date format: " + value)
}

// ParseFlag reads the lowHangingFruit column, which upstream sheets fill
// with anything from "TRUE" to a checkmark.
func ParseFlag(value string) bool {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "true", "yes", "y", "1", "x", "✓":
		return true
	}
	return false
}

var (
	reNewlines = regexp.MustCompile(`\n{3,}`)
	reSpaces   = regexp.MustCompile(` {2,}`)
)

// CleanText normalizes free-text fields copied out of Reddit posts.
func CleanText(text string) string {
	text = reNewlines.ReplaceAllString(text, "\n\n")
	text = reSpaces.ReplaceAllString(text, " ")
	return strings.TrimSpace(text)
}
