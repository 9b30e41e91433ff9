package usecase

import (
	"sort"
	"time"

	"github.com/xavierca1/leadboard/internal/entity"
)

// Analytics computes read-only summaries over a snapshot of leads. It
// never touches the manager; callers pass it the slice they got from
// Leads(). Given the same snapshot every function returns identical
// output, except the explicit GeneratedAt stamp on the export summary.
type Analytics struct {
	statuses entity.StatusSet
	now      func() time.Time
}

func NewAnalytics(statuses entity.StatusSet) *Analytics {
	return &Analytics{statuses: statuses, now: time.Now}
}

// StatusDistribution counts leads per status. Every configured status is
// present, zero or not, so charts keep stable categories.
func (a *Analytics) StatusDistribution(leads []entity.Lead) map[string]int {
	dist := make(map[string]int, len(a.statuses.Statuses))
	for _, s := range a.statuses.Statuses {
		dist[s] = 0
	}
	for i := range leads {
		dist[leads[i].Status]++
	}
	return dist
}

// ConversionRate is converted / total, in [0,1]. Zero for an empty set.
func (a *Analytics) ConversionRate(leads []entity.Lead) float64 {
	if len(leads) == 0 {
		return 0
	}
	converted := 0
	for i := range leads {
		if leads[i].Status == a.statuses.Converted {
			converted++
		}
	}
	return float64(converted) / float64(len(leads))
}

type DailyCount struct {
	Date  string `json:"date"`
	Count int    `json:"count"`
}

// DailyActivity groups leads by capture date, ascending, zero-filling
// the days between the earliest and latest date present so the timeline
// is continuous. Empty input yields an empty sequence.
func (a *Analytics) DailyActivity(leads []entity.Lead) []DailyCount {
	if len(leads) == 0 {
		return []DailyCount{}
	}

	counts := make(map[string]int)
	var first, last time.Time
	for i := range leads {
		d := leads[i].Date
		day := time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, time.UTC)
		counts[day.Format("2006-01-02")]++
		if first.IsZero() || day.Before(first) {
			first = day
		}
		if last.IsZero() || day.After(last) {
			last = day
		}
	}

	out := []DailyCount{}
	for day := first; !day.After(last); day = day.AddDate(0, 0, 1) {
		key := day.Format("2006-01-02")
		out = append(out, DailyCount{Date: key, Count: counts[key]})
	}
	return out
}

func (a *Analytics) SubredditBreakdown(leads []entity.Lead) map[string]int {
	breakdown := make(map[string]int)
	for i := range leads {
		breakdown[leads[i].Subreddit]++
	}
	return breakdown
}

type SubredditCount struct {
	Subreddit string `json:"subreddit"`
	Count     int    `json:"count"`
}

// TopSubreddits returns the n largest source categories, ties broken by
// name so the order is stable.
func (a *Analytics) TopSubreddits(leads []entity.Lead, n int) []SubredditCount {
	breakdown := a.SubredditBreakdown(leads)
	out := make([]SubredditCount, 0, len(breakdown))
	for sub, count := range breakdown {
		out = append(out, SubredditCount{Subreddit: sub, Count: count})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Subreddit < out[j].Subreddit
	})
	if n > 0 && len(out) > n {
		out = out[:n]
	}
	return out
}

type FunnelStage struct {
	Status     string  `json:"status"`
	Count      int     `json:"count"`
	Percentage float64 `json:"percentage"`
}

// FunnelData walks the configured status order and reports, per stage,
// how many leads reached at least that stage (cumulative remainder) and
// what share of the table that is.
func (a *Analytics) FunnelData(leads []entity.Lead) []FunnelStage {
	if len(leads) == 0 {
		return []FunnelStage{}
	}

	dist := a.StatusDistribution(leads)
	total := len(leads)
	remaining := total

	funnel := make([]FunnelStage, 0, len(a.statuses.Statuses))
	for _, status := range a.statuses.Statuses {
		funnel = append(funnel, FunnelStage{
			Status:     status,
			Count:      remaining,
			Percentage: float64(remaining) / float64(total) * 100,
		})
		remaining -= dist[status]
	}
	return funnel
}

type ResponseStats struct {
	LeadsWithNotes int     `json:"leads_with_notes"`
	NotesCoverage  float64 `json:"notes_coverage"`
	AvgNoteLength  float64 `json:"avg_note_length"`
}

// NoteStats measures how much of the table carries user annotations.
func (a *Analytics) NoteStats(leads []entity.Lead) ResponseStats {
	if len(leads) == 0 {
		return ResponseStats{}
	}

	withNotes := 0
	totalLen := 0
	for i := range leads {
		if leads[i].Notes != "" {
			withNotes++
		}
		totalLen += len(leads[i].Notes)
	}
	if withNotes == 0 {
		return ResponseStats{}
	}
	return ResponseStats{
		LeadsWithNotes: withNotes,
		NotesCoverage:  float64(withNotes) / float64(len(leads)) * 100,
		AvgNoteLength:  float64(totalLen) / float64(len(leads)),
	}
}

// Summary is the exportable analytics document. It round-trips through
// JSON without loss.
type Summary struct {
	StatusDistribution map[string]int `json:"status_distribution"`
	ConversionRate     float64        `json:"conversion_rate"`
	DailyActivity      []DailyCount   `json:"daily_activity"`
	SubredditBreakdown map[string]int `json:"subreddit_breakdown"`
	Funnel             []FunnelStage  `json:"funnel"`
	ResponseStats      ResponseStats  `json:"response_stats"`
	TotalLeads         int            `json:"total_leads"`
	GeneratedAt        time.Time      `json:"generated_at"`
}

func (a *Analytics) ExportSummary(leads []entity.Lead) Summary {
	return Summary{
		StatusDistribution: a.StatusDistribution(leads),
		ConversionRate:     a.ConversionRate(leads),
		DailyActivity:      a.DailyActivity(leads),
		SubredditBreakdown: a.SubredditBreakdown(leads),
		Funnel:             a.FunnelData(leads),
		ResponseStats:      a.NoteStats(leads),
		TotalLeads:         len(leads),
		GeneratedAt:        a.now().UTC(),
	}
}
