package refdata

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

const dateLayout = "2006-01-02"

// readRows reads a CSV extract, validates the header, and returns the data
// rows. Reference extracts are small enough to hold in memory whole.
func readRows(path string, header []string) ([][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.TrimLeadingSpace = true

	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("%s: missing header row", path)
	}

	got := records[0]
	if len(got) != len(header) {
		return nil, fmt.Errorf("%s: expected %d columns, got %d", path, len(header), len(got))
	}
	for i := range header {
		if !strings.EqualFold(strings.TrimSpace(got[i]), header[i]) {
			return nil, fmt.Errorf("%s: expected column %q at position %d, got %q", path, header[i], i, got[i])
		}
	}

	return records[1:], nil
}

func parseInt(path string, line int, field, raw string) (int, error) {
	v, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 0, fmt.Errorf("%s line %d: invalid %s %q: %w", path, line, field, raw, err)
	}
	return v, nil
}

func parseDecimal(path string, line int, field, raw string) (decimal.Decimal, error) {
	v, err := decimal.NewFromString(strings.TrimSpace(raw))
	if err != nil {
		return decimal.Zero, fmt.Errorf("%s line %d: invalid %s %q: %w", path, line, field, raw, err)
	}
	return v, nil
}

// parseDate parses a YYYY-MM-DD field. An empty field maps to the zero time,
// which rate tables treat as open-ended.
func parseDate(path string, line int, field, raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, nil
	}
	v, err := time.Parse(dateLayout, raw)
	if err != nil {
		return time.Time{}, fmt.Errorf("%s line %d: invalid %s %q: %w", path, line, field, raw, err)
	}
	return v, nil
}
