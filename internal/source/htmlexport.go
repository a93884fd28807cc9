package source

import (
	"context"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/google/uuid"

	"trade-stats/internal/interfaces"
	"trade-stats/internal/stats"
	"trade-stats/internal/types"
)

// Layouts accepted in the date column of an export.
var exportTimeLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
}

// HTMLExportSource reads a trade history table exported as HTML. The first
// table row holds the column names; recognised columns are id, item,
// item_key, type, tags, direction, price, quantity and date.
type HTMLExportSource struct {
	Path string
	Loc  *time.Location
}

var _ interfaces.TransactionSource = (*HTMLExportSource)(nil)

func NewHTMLExportSource(path string, loc *time.Location) *HTMLExportSource {
	if loc == nil {
		loc = time.Local
	}
	return &HTMLExportSource{Path: path, Loc: loc}
}

func (s *HTMLExportSource) FetchTransactions(ctx context.Context) ([]types.TransactionRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	f, err := os.Open(s.Path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ParseHTMLExport(f, s.Loc)
}

// ParseHTMLExport parses the first table in r.
func ParseHTMLExport(r io.Reader, loc *time.Location) ([]types.TransactionRecord, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to parse html export: %w", err)
	}

	table := doc.Find("table").First()
	if table.Length() == 0 {
		return nil, fmt.Errorf("html export has no table")
	}

	rows := table.Find("tr")
	cols := map[string]int{}
	rows.First().Find("th, td").Each(func(i int, cell *goquery.Selection) {
		name := strings.ToLower(strings.TrimSpace(cell.Text()))
		name = strings.ReplaceAll(name, " ", "_")
		cols[name] = i
	})
	for _, required := range []string{"item", "direction", "price", "quantity", "date"} {
		if _, ok := cols[required]; !ok {
			return nil, fmt.Errorf("html export is missing column %q", required)
		}
	}

	out := make([]types.TransactionRecord, 0, rows.Length())
	seen := map[string]int{}
	var rowErr error
	rows.Slice(1, rows.Length()).EachWithBreak(func(i int, row *goquery.Selection) bool {
		cells := row.Find("td").Map(func(_ int, c *goquery.Selection) string {
			return strings.TrimSpace(c.Text())
		})
		if len(cells) == 0 {
			return true
		}
		rec, err := parseExportRow(cells, cols, loc, seen)
		if err != nil {
			rowErr = fmt.Errorf("html export row %d: %w", i+1, err)
			return false
		}
		out = append(out, rec)
		return true
	})
	if rowErr != nil {
		return nil, rowErr
	}
	return out, nil
}

// exportRowNamespace scopes the ids derived for export rows that carry none.
var exportRowNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("trade-stats/html-export"))

// rowID derives a stable id from the row's cells. Identical rows get
// distinct ids by their occurrence count, so re-reading the same export
// yields the same ids.
func rowID(cells []string, seen map[string]int) string {
	content := strings.Join(cells, "\x1f")
	n := seen[content]
	seen[content] = n + 1
	return uuid.NewSHA1(exportRowNamespace, []byte(content+"\x1f"+strconv.Itoa(n))).String()
}

func parseExportRow(cells []string, cols map[string]int, loc *time.Location, seen map[string]int) (types.TransactionRecord, error) {
	get := func(name string) string {
		i, ok := cols[name]
		if !ok || i >= len(cells) {
			return ""
		}
		return cells[i]
	}

	rec := types.TransactionRecord{
		ID:       get("id"),
		ItemName: get("item"),
		ItemKey:  get("item_key"),
		ItemType: strings.ToLower(get("type")),
	}
	if rec.ID == "" {
		rec.ID = rowID(cells, seen)
	}
	if rec.ItemKey == "" {
		rec.ItemKey = strings.ReplaceAll(strings.ToLower(rec.ItemName), " ", "_")
	}
	if rec.ItemType == "" {
		rec.ItemType = "item"
	}
	rec.Tags = splitTags(get("tags"))

	invalid := func(field, reason string) error {
		return &stats.ValidationError{RecordID: rec.ID, Field: field, Reason: reason}
	}

	switch strings.ToLower(get("direction")) {
	case "buy", "purchase", "bought":
		rec.Direction = types.Purchase
	case "sell", "sale", "sold":
		rec.Direction = types.Sale
	default:
		return rec, invalid("direction", fmt.Sprintf("has unknown value %q", get("direction")))
	}

	price, err := strconv.ParseFloat(strings.ReplaceAll(get("price"), ",", ""), 64)
	if err != nil {
		return rec, invalid("price", fmt.Sprintf("is unparsable (%q)", get("price")))
	}
	rec.Price = price

	qty, err := strconv.Atoi(get("quantity"))
	if err != nil {
		return rec, invalid("quantity", fmt.Sprintf("is unparsable (%q)", get("quantity")))
	}
	rec.Quantity = qty

	at, ok := parseExportTime(get("date"), loc)
	if !ok {
		return rec, invalid("occurred_at", fmt.Sprintf("is unparsable (%q)", get("date")))
	}
	rec.OccurredAt = at

	return rec, stats.ValidateRecord(rec)
}

func splitTags(s string) []string {
	tags := make([]string, 0)
	for _, t := range strings.Split(s, ",") {
		t = strings.ToLower(strings.TrimSpace(t))
		if t != "" {
			tags = append(tags, t)
		}
	}
	return tags
}

func parseExportTime(s string, loc *time.Location) (time.Time, bool) {
	for _, layout := range exportTimeLayouts {
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
