package repository

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/okian/homespark/internal/domain/catalog"
)

// Dataset column names.
const (
	colRawID         = "raw_id"
	colName          = "item_name"
	colCost          = "item_cost"
	colStyle         = "item_style"
	colRoomType      = "item_room_type"
	colIndoorOutdoor = "item_indoor_outdoor"
	colClimate       = "climate_suitability"

	unknownItemName = "Unknown Item"
)

// userColumns hold the preference side of interaction rows. Their values
// join the item vocabulary of the same dimension.
var userColumns = map[catalog.Dimension]string{
	catalog.Style:         "user_preferred_style",
	catalog.RoomType:      "user_preferred_room_type",
	catalog.IndoorOutdoor: "user_indoor_outdoor",
	catalog.Climate:       "user_climate_type",
}

var itemColumns = map[catalog.Dimension]string{
	catalog.Style:         colStyle,
	catalog.RoomType:      colRoomType,
	catalog.IndoorOutdoor: colIndoorOutdoor,
	catalog.Climate:       colClimate,
}

// BuildReport summarizes a dataset build.
type BuildReport struct {
	Rows          int
	Items         int
	Duplicates    int
	FilledNames   int
	FilledCosts   int
	MedianCost    int
	Incomplete    int
	Vocabularies  map[string]int
	MissingColumn []string
}

// CSVBuilder turns an interaction dataset into a catalog.
type CSVBuilder struct {
	meta     catalog.Metadata
	progress func(row int)
}

// NewCSVBuilder creates a builder stamping meta on the catalog.
func NewCSVBuilder(meta catalog.Metadata) *CSVBuilder {
	return &CSVBuilder{meta: meta}
}

// OnRow registers a callback invoked after each data row is read.
func (b *CSVBuilder) OnRow(fn func(row int)) *CSVBuilder {
	b.progress = fn
	return b
}

type csvRow struct {
	id      int64
	name    string
	cost    string
	values  [4]string
	prefers [4]string
}

// Build reads r and returns the catalog. Missing names become
// "Unknown Item" and missing costs the median of the present ones. Rows
// lacking any category value are skipped. Without a raw_id column the row
// index is the id; repeated ids keep the first row.
func (b *CSVBuilder) Build(r io.Reader) (*catalog.Catalog, BuildReport, error) {
	report := BuildReport{Vocabularies: make(map[string]int, len(catalog.Dimensions))}

	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err != nil {
		return nil, report, fmt.Errorf("%w: reading header: %w", ErrMalformedArtifact, err)
	}
	idx := make(map[string]int, len(header))
	for i, h := range header {
		idx[strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))] = i
	}
	required := []string{colName, colCost, colStyle, colRoomType, colIndoorOutdoor, colClimate}
	for _, c := range required {
		if _, ok := idx[c]; !ok {
			report.MissingColumn = append(report.MissingColumn, c)
		}
	}
	if len(report.MissingColumn) > 0 {
		return nil, report, fmt.Errorf("%w: %s", ErrMissingColumn, strings.Join(report.MissingColumn, ", "))
	}

	field := func(rec []string, col string) string {
		i, ok := idx[col]
		if !ok || i >= len(rec) {
			return ""
		}
		return strings.TrimSpace(rec[i])
	}

	var rows []csvRow
	seen := make(map[int64]bool)
	for line := 0; ; line++ {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, report, fmt.Errorf("%w: row %d: %w", ErrMalformedArtifact, line+1, err)
		}
		report.Rows++
		if b.progress != nil {
			b.progress(report.Rows)
		}

		row := csvRow{id: int64(line), name: field(rec, colName), cost: field(rec, colCost)}
		if raw := field(rec, colRawID); raw != "" {
			id, err := parseID(raw)
			if err != nil {
				return nil, report, fmt.Errorf("%w: row %d raw_id %q", ErrMalformedArtifact, line+1, raw)
			}
			row.id = id
		}
		for _, d := range catalog.Dimensions {
			row.values[d] = field(rec, itemColumns[d])
			row.prefers[d] = field(rec, userColumns[d])
		}

		if seen[row.id] {
			report.Duplicates++
			continue
		}
		if incomplete(row.values) {
			report.Incomplete++
			continue
		}
		seen[row.id] = true
		rows = append(rows, row)
	}

	median, err := medianCost(rows)
	if err != nil {
		return nil, report, err
	}
	report.MedianCost = median

	vocabValues := make(map[catalog.Dimension][]string, len(catalog.Dimensions))
	items := make([]catalog.RawItem, 0, len(rows))
	for _, row := range rows {
		it := catalog.RawItem{
			ID:            row.id,
			Name:          row.name,
			Style:         row.values[catalog.Style],
			RoomType:      row.values[catalog.RoomType],
			IndoorOutdoor: row.values[catalog.IndoorOutdoor],
			Climate:       row.values[catalog.Climate],
		}
		if it.Name == "" {
			it.Name = unknownItemName
			report.FilledNames++
		}
		if row.cost == "" {
			it.Cost = median
			report.FilledCosts++
		} else {
			it.Cost, _ = parseCost(row.cost)
		}
		for _, d := range catalog.Dimensions {
			vocabValues[d] = append(vocabValues[d], row.values[d], row.prefers[d])
		}
		items = append(items, it)
	}

	vocabs := make(map[catalog.Dimension]*catalog.Vocabulary, len(catalog.Dimensions))
	for _, d := range catalog.Dimensions {
		vocabs[d] = catalog.NewVocabulary(vocabValues[d])
		report.Vocabularies[d.String()] = vocabs[d].Len()
	}

	meta := b.meta
	if meta.MaxCost == 0 {
		for _, it := range items {
			meta.MaxCost = max(meta.MaxCost, it.Cost)
		}
	}

	cat, err := catalog.New(meta, vocabs, items)
	if err != nil {
		return nil, report, fmt.Errorf("%w: %w", ErrMalformedArtifact, err)
	}
	report.Items = cat.Len()
	return cat, report, nil
}

func incomplete(values [4]string) bool {
	for _, v := range values {
		if v == "" {
			return true
		}
	}
	return false
}

func parseID(s string) (int64, error) {
	if id, err := strconv.ParseInt(s, 10, 64); err == nil {
		return id, nil
	}
	// Exported frames often write integer ids as floats.
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || f != float64(int64(f)) {
		return 0, fmt.Errorf("not an integer id: %q", s)
	}
	return int64(f), nil
}

// parseCost accepts integer or decimal costs and truncates toward zero.
func parseCost(s string) (int, error) {
	f, err := strconv.ParseFloat(strings.TrimPrefix(s, "$"), 64)
	if err != nil {
		return 0, err
	}
	return int(f), nil
}

func medianCost(rows []csvRow) (int, error) {
	costs := make([]float64, 0, len(rows))
	for i, row := range rows {
		if row.cost == "" {
			continue
		}
		c, err := parseCost(row.cost)
		if err != nil || c < 0 {
			return 0, fmt.Errorf("%w: item %d cost %q", ErrMalformedArtifact, rows[i].id, row.cost)
		}
		costs = append(costs, float64(c))
	}
	if len(costs) == 0 {
		return 0, nil
	}
	sort.Float64s(costs)
	mid := len(costs) / 2
	if len(costs)%2 == 1 {
		return int(costs[mid]), nil
	}
	return int((costs[mid-1] + costs[mid]) / 2), nil
}
