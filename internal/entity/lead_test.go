package entity

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestParseDateAcceptedFormats(t *testing.T) {
	cases := []string{
		"2025-06-01",
		"2025-06-01T10:30:00Z",
		"2025-06-01T10:30:00.000-04:00",
		"2025-06-01 10:30:00",
	}
	for _, c := range cases {
		parsed, err := ParseDate(c)
		assert.NoError(t, err, c)
		assert.Equal(t, 2025, parsed.Year())
		assert.Equal(t, time.June, parsed.Month())
	}
}

func TestParseDateRejectsFreeText(t *testing.T) {
	for _, c := range []string{"", "yesterday", "06/01/2025", "not a date"} {
		_, err := ParseDate(c)
		assert.Error(t, err, c)
	}
}

func TestParseFlag(t *testing.T) {
	for _, c := range []string{"TRUE", "yes", " y ", "1", "x", "✓"} {
		assert.True(t, ParseFlag(c), c)
	}
	for _, c := range []string{"", "false", "no", "0", "maybe"} {
		assert.False(t, ParseFlag(c), c)
	}
}

func TestCleanText(t *testing.T) {
	in := "  Looking  for a   tool\n\n\n\nthat does X  "
	assert.Equal(t, "Looking for a tool\n\nthat does X", CleanText(in))
}

func TestStatusSetNormalize(t *testing.T) {
	set := DefaultStatusSet()

	assert.Equal(t, "Contacted", set.Normalize("Contacted"))
	assert.Equal(t, "New", set.Normalize(""))
	assert.Equal(t, "New", set.Normalize("SOMETHING_ELSE"))
}

func TestLeadValidate(t *testing.T) {
	lead := Lead{URL: "https://reddit.com/r/saas/abc", Date: time.Now()}
	assert.NoError(t, lead.Validate())

	assert.Error(t, (&Lead{Date: time.Now()}).Validate())
	assert.Error(t, (&Lead{URL: "https://reddit.com/x"}).Validate())
}
