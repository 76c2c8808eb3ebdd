package valueobject

import "fmt"

// RiskLabel is the human-readable verdict attached to a prediction.
type RiskLabel struct {
	value string
}

var (
	RiskLabelGDM   = RiskLabel{value: "GDM Risk"}
	RiskLabelNoGDM = RiskLabel{value: "No GDM Risk"}
)

// RiskLabelFromClass maps a predicted class to its label. Only class 1 is GDM.
func RiskLabelFromClass(class int) RiskLabel {
	if class == 1 {
		return RiskLabelGDM
	}
	return RiskLabelNoGDM
}

// RiskLabelFromString reconstructs a RiskLabel from its string representation.
func RiskLabelFromString(s string) (RiskLabel, error) {
	switch s {
	case RiskLabelGDM.value:
		return RiskLabelGDM, nil
	case RiskLabelNoGDM.value:
		return RiskLabelNoGDM, nil
	default:
		return RiskLabel{}, fmt.Errorf("invalid risk label: %s", s)
	}
}

// String returns the string representation.
func (l RiskLabel) String() string {
	return l.value
}

// Positive reports whether the label indicates GDM risk.
func (l RiskLabel) Positive() bool {
	return l == RiskLabelGDM
}
