package catalog

import (
	"fmt"
	"io"
	"math"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"Concreteflow/internal/calc/calcerr"
	"Concreteflow/internal/calc/joist"
)

const (
	scanRows     = 15
	scanCols     = 30
	scanLoadCols = 50
	minLoadCols  = 3
)

type column int

const (
	colReference column = iota
	colBlock
	colSpacing
	colTopping
)

var columnPatterns = []struct {
	col column
	re  *regexp.Regexp
}{
	{colReference, regexp.MustCompile(`(?i)(ref|réf|référence|poutrelle|type|désignation)`)},
	{colBlock, regexp.MustCompile(`(?i)(hourdis|hauteur.*hourdis|h.*hourdis|h\s*=)`)},
	{colSpacing, regexp.MustCompile(`(?i)(entraxe|e/e|espacement|e\s*=)`)},
	{colTopping, regexp.MustCompile(`(?i)(table|compression|béton.*coulé|dc)`)},
}

var (
	loadHeader  = regexp.MustCompile(`(?i)^(\d{3,4})(\s*(kg|dan|kn))?`)
	blockInRef  = regexp.MustCompile(`[-_\s](\d{2})(?:\s|$|cm)`)
	notDataRows = []string{"type", "référence", "poutrelle", "total"}
	blockSizes  = map[int]bool{12: true, 16: true, 20: true, 25: true}
)

type ImportResult struct {
	Entries  []joist.Entry `json:"entries"`
	Loads    []float64     `json:"loads_kg_m2"`
	Imported int           `json:"imported"`
	Skipped  int           `json:"skipped"`
	Warnings []string      `json:"warnings,omitempty"`
}

type loadCol struct {
	idx  int
	load float64
}

// ImportXLSX reads the first sheet of a manufacturer span table. Column
// roles are detected from the header text; the load header is the first
// row holding at least three loads between 150 and 1200 kg/m2.
func ImportXLSX(r io.Reader) (ImportResult, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return ImportResult{}, calcerr.Invalid("not a readable xlsx file: %v", err)
	}
	defer f.Close()

	sheet := f.GetSheetName(0)
	rows, err := f.GetRows(sheet)
	if err != nil {
		return ImportResult{}, fmt.Errorf("read sheet %q: %w", sheet, err)
	}
	return ImportRows(rows)
}

// ImportRows applies the span table detection to rows already read.
func ImportRows(rows [][]string) (ImportResult, error) {
	cols := detectColumns(rows)
	if _, ok := cols[colReference]; !ok {
		return ImportResult{}, calcerr.Invalid("cannot detect the table layout: no reference column")
	}
	header, loads := detectLoads(rows)
	if len(loads) == 0 {
		return ImportResult{}, calcerr.Invalid("no load columns detected")
	}

	res := ImportResult{Entries: []joist.Entry{}}
	for _, lc := range loads {
		res.Loads = append(res.Loads, lc.load)
	}
	res.Warnings = append(res.Warnings, fmt.Sprintf("loads detected: %v", res.Loads))

	for i := header + 1; i < len(rows); i++ {
		e, ok := parseRow(rows[i], cols, loads)
		if !ok {
			res.Skipped++
			continue
		}
		res.Entries = append(res.Entries, e)
	}
	res.Imported = len(res.Entries)
	if res.Imported == 0 {
		return res, calcerr.Invalid("no span row could be read")
	}
	return res, nil
}

func cell(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

func detectColumns(rows [][]string) map[column]int {
	found := make(map[column]int)
	for i := 0; i < len(rows) && i < scanRows; i++ {
		for j := 0; j < len(rows[i]) && j < scanCols; j++ {
			v := strings.ToLower(cell(rows[i], j))
			if v == "" {
				continue
			}
			for _, p := range columnPatterns {
				if _, ok := found[p.col]; ok {
					continue
				}
				if p.re.MatchString(v) {
					found[p.col] = j
				}
			}
		}
	}
	return found
}

func detectLoads(rows [][]string) (int, []loadCol) {
	for i := 0; i < len(rows) && i < scanRows; i++ {
		var cols []loadCol
		seen := make(map[float64]bool)
		for j := 0; j < len(rows[i]) && j < scanLoadCols; j++ {
			m := loadHeader.FindStringSubmatch(cell(rows[i], j))
			if m == nil {
				continue
			}
			load, _ := strconv.ParseFloat(m[1], 64)
			if load < 150 || load > 1200 || seen[load] {
				continue
			}
			seen[load] = true
			cols = append(cols, loadCol{idx: j, load: load})
		}
		if len(cols) >= minLoadCols {
			sort.Slice(cols, func(a, b int) bool { return cols[a].load < cols[b].load })
			return i, cols
		}
	}
	return 0, nil
}

func parseNumber(s string) (float64, bool) {
	s = strings.ReplaceAll(strings.TrimSpace(s), ",", ".")
	if s == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}

// parseSpan accepts metres ("5.20", "5,20") or centimetres ("520").
func parseSpan(s string) (float64, bool) {
	v, ok := parseNumber(s)
	if !ok {
		return 0, false
	}
	if v > 15 {
		v /= 100
	}
	if v <= 1 || v >= 12 {
		return 0, false
	}
	return math.Round(v*100) / 100, true
}

func parseRow(row []string, cols map[column]int, loads []loadCol) (joist.Entry, bool) {
	ref := cell(row, cols[colReference])
	if ref == "" {
		return joist.Entry{}, false
	}
	lower := strings.ToLower(ref)
	for _, w := range notDataRows {
		if strings.Contains(lower, w) {
			return joist.Entry{}, false
		}
	}

	e := joist.Entry{Reference: ref, ToppingCM: joist.DefaultToppingCM}
	for _, lc := range loads {
		if span, ok := parseSpan(cell(row, lc.idx)); ok {
			e.Bands = append(e.Bands, joist.Band{LoadKgM2: lc.load, SpanM: span})
		}
	}
	if len(e.Bands) == 0 {
		return joist.Entry{}, false
	}

	if idx, ok := cols[colBlock]; ok {
		if v, ok := parseNumber(cell(row, idx)); ok {
			e.BlockHeightCM = int(v)
		}
	}
	if e.BlockHeightCM == 0 {
		// "BP 113-16" carries the block height in its suffix
		if m := blockInRef.FindStringSubmatch(ref); m != nil {
			e.BlockHeightCM, _ = strconv.Atoi(m[1])
		}
	}
	if !blockSizes[e.BlockHeightCM] {
		e.BlockHeightCM = 16
	}

	if idx, ok := cols[colSpacing]; ok {
		if v, ok := parseNumber(cell(row, idx)); ok {
			e.SpacingCM = int(v)
		}
	}
	if e.SpacingCM < 40 || e.SpacingCM > 80 {
		e.SpacingCM = 60
	}

	if idx, ok := cols[colTopping]; ok {
		if v, ok := parseNumber(cell(row, idx)); ok && v > 0 {
			e.ToppingCM = v
		}
	}
	return e, true
}
