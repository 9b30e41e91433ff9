package usecase

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xavierca1/leadboard/internal/entity"
)

func analyticsLeads() []entity.Lead {
	mk := func(url, subreddit, day, status, notes string) entity.Lead {
		date, _ := entity.ParseDate(day)
		return entity.Lead{URL: url, Subreddit: subreddit, Date: date, Status: status, Notes: notes}
	}
	return []entity.Lead{
		mk("u1", "saas", "2025-06-01", "Converted", "[2025-06-02 10:00] closed"),
		mk("u2", "saas", "2025-06-01", "New", ""),
		mk("u3", "startups", "2025-06-04", "New", ""),
	}
}

func TestStatusDistributionIncludesZeroCategories(t *testing.T) {
	a := NewAnalytics(entity.DefaultStatusSet())
	dist := a.StatusDistribution(analyticsLeads())

	assert.Equal(t, 2, dist["New"])
	assert.Equal(t, 1, dist["Converted"])
	assert.Equal(t, 0, dist["In Progress"])
	assert.Equal(t, 0, dist["Contacted"])
	assert.Equal(t, 0, dist["Closed"])

	total := 0
	for _, c := range dist {
		total += c
	}
	assert.Equal(t, len(analyticsLeads()), total)
}

func TestConversionRate(t *testing.T) {
	a := NewAnalytics(entity.DefaultStatusSet())

	rate := a.ConversionRate(analyticsLeads())
	assert.InDelta(t, 1.0/3.0, rate, 1e-9)
	assert.GreaterOrEqual(t, rate, 0.0)
	assert.LessOrEqual(t, rate, 1.0)

	assert.Equal(t, 0.0, a.ConversionRate(nil))
	assert.Equal(t, 0.0, a.ConversionRate([]entity.Lead{}))
}

func TestDailyActivityAscendingAndZeroFilled(t *testing.T) {
	a := NewAnalytics(entity.DefaultStatusSet())
	activity := a.DailyActivity(analyticsLeads())

	require.Len(t, activity, 4) // 06-01 through 06-04, gaps filled
	assert.Equal(t, DailyCount{Date: "2025-06-01", Count: 2}, activity[0])
	assert.Equal(t, DailyCount{Date: "2025-06-02", Count: 0}, activity[1])
	assert.Equal(t, DailyCount{Date: "2025-06-03", Count: 0}, activity[2])
	assert.Equal(t, DailyCount{Date: "2025-06-04", Count: 1}, activity[3])
}

func TestDailyActivityEmptyInput(t *testing.T) {
	a := NewAnalytics(entity.DefaultStatusSet())
	assert.Empty(t, a.DailyActivity(nil))
}

func TestDailyActivityIsDeterministic(t *testing.T) {
	a := NewAnalytics(entity.DefaultStatusSet())
	leads := analyticsLeads()
	assert.Equal(t, a.DailyActivity(leads), a.DailyActivity(leads))
}

func TestSubredditBreakdown(t *testing.T) {
	a := NewAnalytics(entity.DefaultStatusSet())
	breakdown := a.SubredditBreakdown(analyticsLeads())

	assert.Equal(t, map[string]int{"saas": 2, "startups": 1}, breakdown)
}

func TestTopSubredditsStableOrder(t *testing.T) {
	a := NewAnalytics(entity.DefaultStatusSet())
	leads := analyticsLeads()
	leads = append(leads, entity.Lead{URL: "u4", Subreddit: "golang", Date: leads[0].Date, Status: "New"})

	top := a.TopSubreddits(leads, 2)
	require.Len(t, top, 2)
	assert.Equal(t, SubredditCount{Subreddit: "saas", Count: 2}, top[0])
	// golang and startups tie on 1; name breaks the tie.
	assert.Equal(t, SubredditCount{Subreddit: "golang", Count: 1}, top[1])
}

func TestFunnelData(t *testing.T) {
	a := NewAnalytics(entity.DefaultStatusSet())
	funnel := a.FunnelData(analyticsLeads())

	require.Len(t, funnel, 5)
	assert.Equal(t, FunnelStage{Status: "New", Count: 3, Percentage: 100}, funnel[0])
	// Everyone who is not still New has passed the first stage.
	assert.Equal(t, "In Progress", funnel[1].Status)
	assert.Equal(t, 1, funnel[1].Count)

	assert.Empty(t, a.FunnelData(nil))
}

func TestNoteStats(t *testing.T) {
	a := NewAnalytics(entity.DefaultStatusSet())
	stats := a.NoteStats(analyticsLeads())

	assert.Equal(t, 1, stats.LeadsWithNotes)
	assert.InDelta(t, 100.0/3.0, stats.NotesCoverage, 1e-9)
	assert.Greater(t, stats.AvgNoteLength, 0.0)

	assert.Equal(t, ResponseStats{}, a.NoteStats(nil))
}

func TestExportSummaryRoundTripsThroughJSON(t *testing.T) {
	a := NewAnalytics(entity.DefaultStatusSet())
	a.now = func() time.Time {
		return time.Date(2025, 6, 10, 12, 0, 0, 0, time.UTC)
	}

	summary := a.ExportSummary(analyticsLeads())
	assert.Equal(t, 3, summary.TotalLeads)
	assert.Equal(t, time.Date(2025, 6, 10, 12, 0, 0, 0, time.UTC), summary.GeneratedAt)

	raw, err := json.Marshal(summary)
	require.NoError(t, err)

	var decoded Summary
	require.NoError(t, json.Unmarshal(raw, &decoded))
	assert.Equal(t, summary, decoded)
}

func TestExportSummaryEmptyInput(t *testing.T) {
	a := NewAnalytics(entity.DefaultStatusSet())
	summary := a.ExportSummary(nil)

	assert.Equal(t, 0, summary.TotalLeads)
	assert.Equal(t, 0.0, summary.ConversionRate)
	assert.Empty(t, summary.DailyActivity)
	assert.Empty(t, summary.Funnel)
	assert.Equal(t, 5, len(summary.StatusDistribution))
}
