package feature

import (
	"fmt"
	"sort"
)

// Hand-maintained recodings for the categorical columns. Keys match raw input
// exactly: no trimming, no case folding. These tables are independent of the
// encoder the trainer fits, and nothing forces the two to agree.
var lookupTables = map[string]map[string]int{
	HypertensiveDisorders: {
		"No": 0, "no": 0, "NO": 0, "Nil": 0,
		"Yes": 1, "yes": 1, "Yes ": 1,
	},
	TypeOfTreatment: {
		"No Treatment": 0,
		"Metformin":    1, "metformin": 1, "metformin ": 1,
		"Metformin ": 1, "MetFORMIN": 1,
		"750, 500, 750": 2, "yes 1000BD": 2, "yes 500 od": 2, "yes": 2,
	},
	Nationality: {
		"UAE": 0, "India": 1, "Lebanon": 2, "Sudan": 3,
		"United States": 4, "Comoros": 5, "Oman": 6, "Iran": 7,
		"Philippenes": 8, "Philippines": 8, "United Kingdom": 9,
		"Pakistan": 10, "Bangladesh": 11, "Egypt": 12, "Jordan": 13,
		"Syria": 14, "Morocco": 15, "Yemen": 16, "Somalia": 17,
	},
}

// Lookup recodes a raw categorical value. Anything not in the column's table,
// including empty strings and non-string values, becomes 0, which cannot be
// told apart from the legitimate 0 category.
func Lookup(column string, raw any) float64 {
	table, ok := lookupTables[column]
	if !ok {
		return 0
	}
	s, ok := raw.(string)
	if !ok {
		return 0
	}
	return float64(table[s])
}

// Table returns a copy of the lookup table for column, or nil.
func Table(column string) map[string]int {
	table, ok := lookupTables[column]
	if !ok {
		return nil
	}
	out := make(map[string]int, len(table))
	for k, v := range table {
		out[k] = v
	}
	return out
}

// Mismatch describes a fitted encoding that disagrees with a lookup table.
type Mismatch struct {
	Column string
	Value  string
	Fitted int
	Table  int
	Known  bool
}

func (m Mismatch) String() string {
	if !m.Known {
		return fmt.Sprintf("%s: %q encoded as %d at training time but absent from lookup table (inference maps it to 0)", m.Column, m.Value, m.Fitted)
	}
	return fmt.Sprintf("%s: %q encoded as %d at training time but %d at inference time", m.Column, m.Value, m.Fitted, m.Table)
}

// CompareEncodings reports every value whose fitted code differs from the
// hand-maintained table. fitted maps column → value → code.
func CompareEncodings(fitted map[string]map[string]int) []Mismatch {
	var out []Mismatch
	for _, column := range CategoricalNames() {
		codes, ok := fitted[column]
		if !ok {
			continue
		}
		table := lookupTables[column]
		values := make([]string, 0, len(codes))
		for v := range codes {
			values = append(values, v)
		}
		sort.Strings(values)
		for _, v := range values {
			want, known := table[v]
			if known && want == codes[v] {
				continue
			}
			out = append(out, Mismatch{Column: column, Value: v, Fitted: codes[v], Table: want, Known: known})
		}
	}
	return out
}
