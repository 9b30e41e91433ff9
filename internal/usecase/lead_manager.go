package usecase

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/xavierca1/leadboard/internal/entity"
)

// LeadManager is the single authoritative in-memory view of the lead
// table for a running session. Every mutation persists the full set
// before returning; if the save fails the in-memory state is still valid
// and the error is surfaced to the caller.
//
// The RWMutex is the "one writer at a time within a process" discipline.
// Two processes sharing a data file can still lose each other's updates;
// the storage adapter's atomic write only prevents torn files.
type LeadManager struct {
	mu       sync.RWMutex
	storage  Storage
	statuses entity.StatusSet
	leads    []entity.Lead // insertion order, preserved across saves
	byURL    map[string]int
	now      func() time.Time
}

func NewLeadManager(storage Storage, statuses entity.StatusSet) (*LeadManager, error) {
	m := &LeadManager{
		storage:  storage,
		statuses: statuses,
		byURL:    make(map[string]int),
		now:      time.Now,
	}

	loaded, err := storage.Load()
	if err != nil {
		return nil, fmt.Errorf("load leads: %w", err)
	}
	for _, lead := range loaded {
		if _, dup := m.byURL[lead.URL]; dup {
			continue
		}
		lead.Status = statuses.Normalize(lead.Status)
		m.byURL[lead.URL] = len(m.leads)
		m.leads = append(m.leads, lead)
	}
	return m, nil
}

func (m *LeadManager) StatusSet() entity.StatusSet {
	return m.statuses
}

type SyncResult struct {
	BatchID string `json:"batch_id"`
	Added   int    `json:"added"`
	Updated int    `json:"updated"`
}

// Sync reconciles an imported batch with the table, keyed by url.
// Unknown urls are inserted; known urls take the incoming content fields
// but keep their status and notes, so user-entered state is never
// clobbered by a re-import. Syncing the same batch twice adds nothing.
func (m *LeadManager) Sync(incoming []entity.Lead) (SyncResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	result := SyncResult{BatchID: uuid.New().String()}
	for _, in := range incoming {
		if err := in.Validate(); err != nil {
			continue
		}
		in.Status = m.statuses.Normalize(in.Status)

		if i, ok := m.byURL[in.URL]; ok {
			existing := &m.leads[i]
			in.Status = existing.Status
			in.Notes = existing.Notes
			*existing = in
			result.Updated++
			continue
		}
		m.byURL[in.URL] = len(m.leads)
		m.leads = append(m.leads, in)
		result.Added++
	}

	if err := m.persistLocked(); err != nil {
		return result, err
	}
	return result, nil
}

type BulkResult struct {
	Updated int      `json:"updated"`
	Missing []string `json:"missing,omitempty"`
}

// UpdateStatus bulk-applies a status transition. Unknown urls are
// reported in Missing; the rest of the batch still goes through. Any
// status from the configured set may follow any other.
func (m *LeadManager) UpdateStatus(urls []string, status string) (BulkResult, error) {
	if !m.statuses.Contains(status) {
		return BulkResult{}, NewUnknownStatusError(status)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	var result BulkResult
	for _, url := range urls {
		i, ok := m.byURL[url]
		if !ok {
			result.Missing = append(result.Missing, url)
			continue
		}
		m.leads[i].Status = status
		result.Updated++
	}

	if err := m.persistLocked(); err != nil {
		return result, err
	}
	return result, nil
}

// AppendNote adds a timestamped line to each matching lead's notes.
// Existing notes are never overwritten.
func (m *LeadManager) AppendNote(urls []string, text string) (BulkResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	stamp := m.now().Format("2006-01-02 15:04")
	line := fmt.Sprintf("[%s] %s", stamp, text)

	var result BulkResult
	for _, url := range urls {
		i, ok := m.byURL[url]
		if !ok {
			result.Missing = append(result.Missing, url)
			continue
		}
		if m.leads[i].Notes == "" {
			m.leads[i].Notes = line
		} else {
			m.leads[i].Notes += "\n" + line
		}
		result.Updated++
	}

	if err := m.persistLocked(); err != nil {
		return result, err
	}
	return result, nil
}

// Leads returns a snapshot copy; mutating it never touches the table.
func (m *LeadManager) Leads() []entity.Lead {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]entity.Lead, len(m.leads))
	copy(out, m.leads)
	return out
}

func (m *LeadManager) FilterByStatus(statuses ...string) []entity.Lead {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.filterLocked(func(l *entity.Lead) bool {
		return contains(statuses, l.Status)
	})
}

func (m *LeadManager) FilterBySubreddit(subreddits ...string) []entity.Lead {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.filterLocked(func(l *entity.Lead) bool {
		return contains(subreddits, l.Subreddit)
	})
}

// Persist re-saves the current table. Mutations already persist
// themselves; this exists to retry after a surfaced save failure.
func (m *LeadManager) Persist() error {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.persistLocked()
}

func (m *LeadManager) persistLocked() error {
	if err := m.storage.Save(m.leads); err != nil {
		return fmt.Errorf("persist leads: %w", err)
	}
	return nil
}

func (m *LeadManager) filterLocked(keep func(*entity.Lead) bool) []entity.Lead {
	out := []entity.Lead{}
	for i := range m.leads {
		if keep(&m.leads[i]) {
			out = append(out, m.leads[i])
		}
	}
	return out
}

func contains(values []string, v string) bool {
	for _, s := range values {
		if s == v {
			return true
		}
	}
	return false
}
