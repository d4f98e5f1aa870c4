package corpus

import (
	"encoding/json"
	"fmt"
	"sort"
)

// FlattenRows turns generic JSON objects into a table.
// Nested objects become dotted column names and arrays are rendered as compact JSON.
// The header is the sorted union of every row's columns; missing cells are empty.
func FlattenRows(rows []map[string]any) ([]string, [][]string) {
	flat := make([]map[string]string, len(rows))
	columns := map[string]struct{}{}
	for i, row := range rows {
		flat[i] = map[string]string{}
		flattenInto(flat[i], "", row)
		for k := range flat[i] {
			columns[k] = struct{}{}
		}
	}

	header := make([]string, 0, len(columns))
	for k := range columns {
		header = append(header, k)
	}
	sort.Strings(header)

	table := make([][]string, len(flat))
	for i, row := range flat {
		cells := make([]string, len(header))
		for j, col := range header {
			cells[j] = row[col]
		}
		table[i] = cells
	}
	return header, table
}

func flattenInto(dst map[string]string, prefix string, obj map[string]any) {
	for k, v := range obj {
		key := k
		if prefix != "" {
			key = prefix + "." + k
		}
		if nested, ok := v.(map[string]any); ok && len(nested) > 0 {
			flattenInto(dst, key, nested)
			continue
		}
		dst[key] = cell(v)
	}
}

func cell(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case json.Number:
		return x.String()
	case bool, float64, int, int64, uint64:
		return fmt.Sprint(x)
	default:
		data, err := json.Marshal(x)
		if err != nil {
			return fmt.Sprint(x)
		}
		return string(data)
	}
}
