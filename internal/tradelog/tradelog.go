package tradelog

import (
	"bufio"
	"compress/gzip"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"trade-stats/internal/stats"
	"trade-stats/internal/types"
)

var mu sync.Mutex

// Entry is one journal line. OccurredAt stays a string so a bad timestamp
// can be reported with its file and line instead of failing the decoder.
type Entry struct {
	ID         string   `json:"id"`
	ItemKey    string   `json:"item_key"`
	ItemName   string   `json:"item_name"`
	ItemType   string   `json:"item_type"`
	Tags       []string `json:"tags"`
	Direction  string   `json:"direction"`
	Price      float64  `json:"price"`
	Quantity   int      `json:"quantity"`
	OccurredAt string   `json:"occurred_at"`
}

// ParseError points at the journal line that could not be read.
type ParseError struct {
	File string
	Line int
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s:%d: %v", e.File, e.Line, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

func FromRecord(r types.TransactionRecord) Entry {
	return Entry{
		ID:         r.ID,
		ItemKey:    r.ItemKey,
		ItemName:   r.ItemName,
		ItemType:   r.ItemType,
		Tags:       r.Tags,
		Direction:  string(r.Direction),
		Price:      r.Price,
		Quantity:   r.Quantity,
		OccurredAt: r.OccurredAt.Format(time.RFC3339Nano),
	}
}

func (e Entry) Record() (types.TransactionRecord, error) {
	at, err := time.Parse(time.RFC3339Nano, e.OccurredAt)
	if err != nil {
		return types.TransactionRecord{}, &stats.ValidationError{
			RecordID: e.ID,
			Field:    "occurred_at",
			Reason:   fmt.Sprintf("is unparsable (%q)", e.OccurredAt),
		}
	}
	tags := make([]string, 0, len(e.Tags))
	for _, t := range e.Tags {
		tags = append(tags, strings.ToLower(strings.TrimSpace(t)))
	}
	return types.TransactionRecord{
		ID:         e.ID,
		ItemKey:    e.ItemKey,
		ItemName:   e.ItemName,
		ItemType:   e.ItemType,
		Tags:       tags,
		Direction:  types.Direction(strings.ToLower(e.Direction)),
		Price:      e.Price,
		Quantity:   e.Quantity,
		OccurredAt: at,
	}, nil
}

func dailyFilepath(dir string, t time.Time) string {
	return filepath.Join(dir, t.Format("2006-01-02")+".txt")
}

// Append writes r to the daily file of the day it occurred.
func Append(dir string, r types.TransactionRecord) error {
	mu.Lock()
	defer mu.Unlock()
	p := dailyFilepath(dir, r.OccurredAt)
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return err
	}
	f, err := os.OpenFile(p, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return err
	}
	defer f.Close()
	b, err := json.Marshal(FromRecord(r))
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(f, string(b))
	return err
}

// Import appends the records of recs whose id is not yet in the journal
// under dir and returns how many were written.
func Import(dir string, recs []types.TransactionRecord) (int, error) {
	existing, err := Load(dir)
	if err != nil {
		return 0, err
	}
	seen := make(map[string]bool, len(existing))
	for _, r := range existing {
		seen[r.ID] = true
	}
	n := 0
	for _, r := range recs {
		if seen[r.ID] {
			continue
		}
		if err := Append(dir, r); err != nil {
			return n, err
		}
		seen[r.ID] = true
		n++
	}
	return n, nil
}

// Load reads every .txt and .txt.gz journal file under dir in name order.
// A missing dir is an empty journal.
func Load(dir string) ([]types.TransactionRecord, error) {
	mu.Lock()
	defer mu.Unlock()

	var files []string
	err := filepath.WalkDir(dir, func(p string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		if strings.HasSuffix(p, ".txt") || strings.HasSuffix(p, ".txt.gz") {
			files = append(files, p)
		}
		return nil
	})
	if os.IsNotExist(err) {
		return []types.TransactionRecord{}, nil
	}
	if err != nil {
		return nil, err
	}
	sort.Strings(files)

	out := make([]types.TransactionRecord, 0)
	for _, p := range files {
		recs, err := readFile(p)
		if err != nil {
			return nil, err
		}
		out = append(out, recs...)
	}
	return out, nil
}

func readFile(p string) ([]types.TransactionRecord, error) {
	f, err := os.Open(p)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var r io.Reader = f
	if strings.HasSuffix(p, ".gz") {
		gr, err := gzip.NewReader(f)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", p, err)
		}
		defer gr.Close()
		r = gr
	}

	var out []types.TransactionRecord
	sc := bufio.NewScanner(r)
	line := 0
	for sc.Scan() {
		line++
		text := strings.TrimSpace(sc.Text())
		if text == "" {
			continue
		}
		var e Entry
		if err := json.Unmarshal([]byte(text), &e); err != nil {
			return nil, &ParseError{File: p, Line: line, Err: err}
		}
		rec, err := e.Record()
		if err != nil {
			return nil, &ParseError{File: p, Line: line, Err: err}
		}
		out = append(out, rec)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", p, err)
	}
	return out, nil
}

// CompressOlder gzips journal files not modified within retentionDays.
func CompressOlder(dir string, retentionDays int) error {
	if retentionDays <= 0 {
		return nil
	}
	mu.Lock()
	defer mu.Unlock()
	cutoff := time.Now().AddDate(0, 0, -retentionDays)
	return filepath.WalkDir(dir, func(p string, d os.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if d.IsDir() || filepath.Ext(p) != ".txt" {
			return nil
		}
		info, er := d.Info()
		if er != nil || !info.ModTime().Before(cutoff) {
			return nil
		}
		return compressFile(p, p+".gz")
	})
}

// compressFile moves src into the gzip archive dst. An existing archive
// gets src appended as a further gzip member, which readers see as one
// stream.
func compressFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	var prevSize int64
	if info, err := os.Stat(dst); err == nil {
		prevSize = info.Size()
	}

	out, err := os.OpenFile(dst, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return err
	}
	gw := gzip.NewWriter(out)
	if _, err := io.Copy(gw, in); err != nil {
		_ = gw.Close()
		_ = out.Close()
		restoreArchive(dst, prevSize)
		return err
	}
	if err := gw.Close(); err != nil {
		_ = out.Close()
		restoreArchive(dst, prevSize)
		return err
	}
	if err := out.Close(); err != nil {
		return err
	}
	return os.Remove(src)
}

// restoreArchive drops a partially written member, leaving dst as it was.
func restoreArchive(dst string, size int64) {
	if size == 0 {
		_ = os.Remove(dst)
		return
	}
	_ = os.Truncate(dst, size)
}
