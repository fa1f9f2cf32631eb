package dataset

import (
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"
)

// Column names expected in the source workbook. Matching against the header
// row is case-insensitive but the names themselves follow the upstream export
// exactly.
var requiredColumns = []string{
	"store name",
	"item_code",
	"description",
	"category",
	"department",
	"sub-department",
	"section",
	"quantity",
	"total sales",
	"supplier",
	"date of sale",
}

var optionalColumns = []string{
	"rrp",
	"item barcode",
}

// dateLayouts are tried in order when parsing the sale date cell. Excel
// exports are inconsistent between ISO dates and localized formats.
var dateLayouts = []string{
	"2006-01-02",
	"01-02-06",
	"1/2/06",
	"01/02/2006",
	"2006-01-02 15:04:05",
	"2-Jan-06",
}

// LoadFile reads a point-of-sale transaction workbook and returns an
// immutable Snapshot. Rows that cannot be parsed are skipped and counted,
// not treated as fatal; a workbook without the required columns is an error.
func LoadFile(path string, logger *slog.Logger) (Snapshot, error) {
	if logger == nil {
		logger = slog.Default()
	}

	f, err := excelize.OpenFile(path)
	if err != nil {
		return Snapshot{}, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	rows, sheet, err := findTransactionSheet(f)
	if err != nil {
		return Snapshot{}, err
	}

	logger.Info("found transaction sheet",
		slog.String("sheet", sheet),
		slog.Int("total_rows", len(rows)))

	headerRow, columns, err := mapColumns(rows)
	if err != nil {
		return Snapshot{}, err
	}

	snapshot := Snapshot{
		Source:   path,
		LoadedAt: time.Now(),
	}

	for i := headerRow + 1; i < len(rows); i++ {
		record, ok := parseRow(rows[i], columns)
		if !ok {
			snapshot.SkippedRows++
			continue
		}
		snapshot.Records = append(snapshot.Records, record)
	}

	if snapshot.IsEmpty() {
		return Snapshot{}, fmt.Errorf("no transaction rows parsed from %s", path)
	}

	logger.Info("snapshot loaded",
		slog.String("source", path),
		slog.Int("records", len(snapshot.Records)),
		slog.Int("skipped_rows", snapshot.SkippedRows))

	return snapshot, nil
}

// findTransactionSheet locates the sheet carrying transaction data by
// probing each sheet's first rows for the expected headers.
func findTransactionSheet(f *excelize.File) ([][]string, string, error) {
	for _, name := range f.GetSheetList() {
		rows, err := f.GetRows(name)
		if err != nil || len(rows) < 2 {
			continue
		}
		probe := len(rows)
		if probe > 5 {
			probe = 5
		}
		for _, row := range rows[:probe] {
			text := strings.ToLower(strings.Join(row, " "))
			if strings.Contains(text, "store name") &&
				strings.Contains(text, "quantity") &&
				strings.Contains(text, "total sales") {
				return rows, name, nil
			}
		}
	}
	return nil, "", fmt.Errorf("could not find transaction sheet in workbook")
}

// mapColumns finds the header row and maps column names to positions.
func mapColumns(rows [][]string) (int, map[string]int, error) {
	for i, row := range rows {
		columns := make(map[string]int)
		for j, header := range row {
			columns[strings.ToLower(strings.TrimSpace(header))] = j
		}

		missing := missingColumns(columns)
		if len(missing) == 0 {
			return i, columns, nil
		}
		// A near-miss means a malformed export rather than a preamble row.
		if len(missing) < len(requiredColumns)/2 {
			return 0, nil, fmt.Errorf("header row missing required columns: %s", strings.Join(missing, ", "))
		}
	}
	return 0, nil, fmt.Errorf("could not find header row in transaction sheet")
}

func missingColumns(columns map[string]int) []string {
	var missing []string
	for _, name := range requiredColumns {
		if _, ok := columns[name]; !ok {
			missing = append(missing, name)
		}
	}
	return missing
}

// parseRow converts one sheet row into a Record. Returns ok=false for rows
// that are empty, subtotal lines, or carry unparseable required fields.
func parseRow(row []string, columns map[string]int) (Record, bool) {
	getString := func(name string) string {
		if idx, ok := columns[name]; ok && idx < len(row) {
			return strings.TrimSpace(row[idx])
		}
		return ""
	}

	parseFloat := func(name string) (float64, bool) {
		raw := strings.ReplaceAll(getString(name), ",", "")
		if raw == "" {
			return 0, false
		}
		v, err := strconv.ParseFloat(raw, 64)
		return v, err == nil
	}

	store := getString("store name")
	if store == "" || strings.Contains(store, "Total") {
		return Record{}, false
	}

	code, err := strconv.ParseInt(strings.ReplaceAll(getString("item_code"), ",", ""), 10, 64)
	if err != nil {
		return Record{}, false
	}

	quantity, ok := parseFloat("quantity")
	if !ok {
		return Record{}, false
	}
	sales, ok := parseFloat("total sales")
	if !ok {
		return Record{}, false
	}

	saleDate, ok := parseDate(getString("date of sale"))
	if !ok {
		return Record{}, false
	}

	record := Record{
		Store:         store,
		ItemCode:      code,
		Barcode:       getString("item barcode"),
		Description:   getString("description"),
		Category:      getString("category"),
		Department:    getString("department"),
		SubDepartment: getString("sub-department"),
		Section:       getString("section"),
		Quantity:      quantity,
		TotalSales:    sales,
		Supplier:      getString("supplier"),
		SaleDate:      saleDate,
	}

	if rrp, ok := parseFloat("rrp"); ok {
		record.RRP = &rrp
	}

	return record, true
}

func parseDate(raw string) (time.Time, bool) {
	if raw == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t, true
		}
	}
	// Excel serial date fallback.
	if serial, err := strconv.ParseFloat(raw, 64); err == nil && serial > 0 {
		epoch := time.Date(1899, time.December, 30, 0, 0, 0, 0, time.UTC)
		return epoch.AddDate(0, 0, int(serial)), true
	}
	return time.Time{}, false
}
