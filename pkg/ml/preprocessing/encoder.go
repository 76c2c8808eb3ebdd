package preprocessing

import (
	"fmt"
	"sort"
)

// LabelEncoder assigns each distinct string an integer by sorted order.
type LabelEncoder struct {
	Classes []string `json:"classes"`
}

// NewLabelEncoder creates an unfitted encoder.
func NewLabelEncoder() *LabelEncoder {
	return &LabelEncoder{}
}

// Fit records the sorted set of distinct values.
func (e *LabelEncoder) Fit(values []string) {
	seen := make(map[string]struct{}, len(values))
	classes := make([]string, 0, len(values))
	for _, v := range values {
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		classes = append(classes, v)
	}
	sort.Strings(classes)
	e.Classes = classes
}

// Transform maps values to their class index. Unseen values are an error.
func (e *LabelEncoder) Transform(values []string) ([]int, error) {
	if e.Classes == nil {
		return nil, ErrNotFitted
	}
	index := e.Mapping()
	out := make([]int, len(values))
	for i, v := range values {
		code, ok := index[v]
		if !ok {
			return nil, fmt.Errorf("preprocessing: unseen label %q", v)
		}
		out[i] = code
	}
	return out, nil
}

// FitTransform fits the encoder and encodes values in one pass.
func (e *LabelEncoder) FitTransform(values []string) []int {
	e.Fit(values)
	// Every value was seen during Fit.
	out, _ := e.Transform(values)
	return out
}

// Mapping returns the value → code table.
func (e *LabelEncoder) Mapping() map[string]int {
	m := make(map[string]int, len(e.Classes))
	for i, c := range e.Classes {
		m[c] = i
	}
	return m
}
