package storage

import (
	"encoding/csv"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/xavierca1/leadboard/internal/entity"
)

// Column contract of the progress file: the import columns with the two
// mutable fields (status, notes) appended.
var columns = []string{
	"summary", "lowHangingFruit", "originalPost", "solution",
	"date", "url", "subreddit", "status", "notes",
}

// CSVStorage persists the full lead table to a single local CSV file.
// Writes are atomic (temp file + rename), so a crash mid-save leaves the
// previous file intact. It does NOT protect against two processes writing
// the same file: last rename wins and the other writer's update is lost.
type CSVStorage struct {
	path string
}

func NewCSVStorage(path string) *CSVStorage {
	return &CSVStorage{path: path}
}

func (s *CSVStorage) Path() string {
	return s.path
}

// Load reads the persisted table. A missing file is first-run bootstrap,
// not an error. Malformed rows are skipped with a warning; a row without
// url or date is dropped.
func (s *CSVStorage) Load() ([]entity.Lead, error) {
	f, err := os.Open(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return []entity.Lead{}, nil
		}
		return nil, fmt.Errorf("open %s: %w", s.path, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1

	header, err := r.Read()
	if err == io.EOF {
		return []entity.Lead{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read header of %s: %w", s.path, err)
	}

	index := make(map[string]int, len(header))
	for i, name := range header {
		index[name] = i
	}

	var leads []entity.Lead
	line := 1
	for {
		row, err := r.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			log.Printf("warning: %s line %d: skipping malformed row: %v", s.path, line, err)
			continue
		}

		lead, err := leadFromRow(row, index)
		if err != nil {
			log.Printf("warning: %s line %d: dropping row: %v", s.path, line, err)
			continue
		}
		leads = append(leads, lead)
	}

	if leads == nil {
		leads = []entity.Lead{}
	}
	return leads, nil
}

// Save overwrites the progress file with the given full set. The write
// goes to a temp file in the same directory and is renamed over the
// target only after a successful flush and fsync.
func (s *CSVStorage) Save(leads []entity.Lead) error {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create data dir %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(s.path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer func() {
		tmp.Close()
		os.Remove(tmp.Name())
	}()

	if err := WriteTable(tmp, leads); err != nil {
		return err
	}
	if err := tmp.Sync(); err != nil {
		return fmt.Errorf("sync %s: %w", tmp.Name(), err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close %s: %w", tmp.Name(), err)
	}

	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return fmt.Errorf("rename into place: %w", err)
	}
	return nil
}

// WriteTable writes the full column contract to w. Save and the detailed
// export download share it, so the persisted file and the export are
// always the same shape.
func WriteTable(w io.Writer, leads []entity.Lead) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(columns); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for i := range leads {
		if err := cw.Write(rowFromLead(&leads[i])); err != nil {
			return fmt.Errorf("write lead %s: %w", leads[i].URL, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

func leadFromRow(row []string, index map[string]int) (entity.Lead, error) {
	field := func(name string) string {
		i, ok := index[name]
		if !ok || i >= len(row) {
			return ""
		}
		return row[i]
	}

	rawDate := field("date")
	if field("url") == "" {
		return entity.Lead{}, fmt.Errorf("missing url")
	}
	date, err := entity.ParseDate(rawDate)
	if err != nil {
		return entity.Lead{}, fmt.Errorf("missing or malformed date %q", rawDate)
	}

	return entity.Lead{
		Summary:         field("summary"),
		LowHangingFruit: entity.ParseFlag(field("lowHangingFruit")),
		OriginalPost:    field("originalPost"),
		Solution:        field("solution"),
		Date:            date,
		URL:             field("url"),
		Subreddit:       field("subreddit"),
		Status:          field("status"),
		Notes:           field("notes"),
	}, nil
}

func rowFromLead(l *entity.Lead) []string {
	flag := "false"
	if l.LowHangingFruit {
		flag = "true"
	}
	return []string{
		l.Summary,
		flag,
		l.OriginalPost,
		l.Solution,
		l.Date.Format(time.RFC3339),
		l.URL,
		l.Subreddit,
		l.Status,
		l.Notes,
	}
}
