package sheets

import (
	"fmt"
	"strings"
)

// table is a worksheet read with its first row treated as the header.
type table struct {
	header []string
	index  map[string]int
	rows   [][]interface{}
}

func parseTable(values [][]interface{}) table {
	t := table{index: map[string]int{}}
	if len(values) == 0 {
		return t
	}
	for i, h := range values[0] {
		name := strings.TrimSpace(fmt.Sprint(h))
		t.header = append(t.header, name)
		if _, dup := t.index[name]; !dup && name != "" {
			t.index[name] = i
		}
	}
	t.rows = values[1:]
	return t
}

// get returns a header-keyed cell; missing columns and short rows read as "".
func (t table) get(row []interface{}, col string) string {
	idx, ok := t.index[col]
	if !ok {
		return ""
	}
	return get(row, idx)
}

// has reports whether the header declares col.
func (t table) has(col string) bool {
	_, ok := t.index[col]
	return ok
}

// rowNum converts a data-row index into the sheet's 1-based row number.
func rowNum(dataIdx int) int { return dataIdx + 2 }

// rowFor lays vals out in header order. Columns missing from header are dropped.
func rowFor(header []string, vals map[string]interface{}) []interface{} {
	row := make([]interface{}, len(header))
	for i, h := range header {
		if v, ok := vals[h]; ok {
			row[i] = v
		} else {
			row[i] = ""
		}
	}
	return row
}

func get(row []interface{}, idx int) string {
	if idx < 0 || idx >= len(row) || row[idx] == nil {
		return ""
	}
	return strings.TrimSpace(fmt.Sprint(row[idx]))
}

func toStrings(row []interface{}) []string {
	out := make([]string, len(row))
	for i := range row {
		out[i] = get(row, i)
	}
	return out
}

func columnLetter(n int) string {
	s := ""
	for n > 0 {
		n--
		s = string(rune('A'+n%26)) + s
		n /= 26
	}
	return s
}
