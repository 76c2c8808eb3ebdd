// Package feature defines the data contract shared by the trainer and the
// prediction service: the ordered feature columns, the frontend field mapping,
// and the categorical lookup tables.
package feature

// Canonical feature names. The order of Names is the column order the model
// was trained on; inference must build vectors in exactly this order.
const (
	OneHourGlucose            = "oneHourGlucose"
	BPSystolic                = "bpSystolic"
	BMIBaseline               = "bmiBaseline"
	FastingBloodGlucose       = "fastingBloodGlucose"
	WeightKg                  = "weightKg"
	PulseHeartRate            = "pulseHeartRate"
	HypertensiveDisorders     = "hypertensiveDisorders"
	TypeOfTreatment           = "typeOfTreatment"
	TwoHourGlucose            = "twoHourGlucose"
	Nationality               = "nationality"
	AgeYears                  = "ageYears"
	BPDiastolic               = "bpDiastolic"
	Height                    = "height"
	WeightGainDuringPregnancy = "weightGainDuringPregnancy"

	// Label is the target column appended by the shaper.
	Label = "GDM"
)

// Count is the width of the feature vector.
const Count = 14

var names = [Count]string{
	OneHourGlucose,
	BPSystolic,
	BMIBaseline,
	FastingBloodGlucose,
	WeightKg,
	PulseHeartRate,
	HypertensiveDisorders,
	TypeOfTreatment,
	TwoHourGlucose,
	Nationality,
	AgeYears,
	BPDiastolic,
	Height,
	WeightGainDuringPregnancy,
}

var categorical = map[string]bool{
	HypertensiveDisorders: true,
	TypeOfTreatment:       true,
	Nationality:           true,
}

// Names returns the canonical column order.
func Names() []string {
	out := make([]string, Count)
	copy(out, names[:])
	return out
}

// NumericNames returns the non-categorical columns in canonical order.
func NumericNames() []string {
	out := make([]string, 0, Count-len(categorical))
	for _, n := range names {
		if !categorical[n] {
			out = append(out, n)
		}
	}
	return out
}

// CategoricalNames returns the categorical columns in canonical order.
func CategoricalNames() []string {
	out := make([]string, 0, len(categorical))
	for _, n := range names {
		if categorical[n] {
			out = append(out, n)
		}
	}
	return out
}

// IsCategorical reports whether name is one of the looked-up columns.
func IsCategorical(name string) bool {
	return categorical[name]
}

// Index returns the position of name in the canonical order, or -1.
func Index(name string) int {
	for i, n := range names {
		if n == name {
			return i
		}
	}
	return -1
}

// fieldMapping maps frontend field names to model column names. It is the
// identity today; the indirection lets the two vocabularies diverge.
var fieldMapping = map[string]string{
	"oneHourGlucose":            OneHourGlucose,
	"bpSystolic":                BPSystolic,
	"bmiBaseline":               BMIBaseline,
	"fastingBloodGlucose":       FastingBloodGlucose,
	"weightKg":                  WeightKg,
	"pulseHeartRate":            PulseHeartRate,
	"hypertensiveDisorders":     HypertensiveDisorders,
	"typeOfTreatment":           TypeOfTreatment,
	"twoHourGlucose":            TwoHourGlucose,
	"nationality":               Nationality,
	"ageYears":                  AgeYears,
	"bpDiastolic":               BPDiastolic,
	"height":                    Height,
	"weightGainDuringPregnancy": WeightGainDuringPregnancy,
}

// MapFields renames frontend keys to model keys and drops unknown keys.
func MapFields(input map[string]any) map[string]any {
	out := make(map[string]any, len(fieldMapping))
	for frontend, column := range fieldMapping {
		if v, ok := input[frontend]; ok {
			out[column] = v
		}
	}
	return out
}
