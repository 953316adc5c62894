package enums

import "fmt"

// GoalType is the kind of fitness goal tracked on a profile.
type GoalType string

const (
	GoalTypeWeightLoss GoalType = "weight-loss"
	GoalTypeMuscleGain GoalType = "muscle-gain"
	GoalTypeStrength   GoalType = "strength"
	GoalTypeEndurance  GoalType = "endurance"
)

var validGoalTypes = []GoalType{
	GoalTypeWeightLoss,
	GoalTypeMuscleGain,
	GoalTypeStrength,
	GoalTypeEndurance,
}

// String implements fmt.Stringer.
func (g GoalType) String() string {
	return string(g)
}

// IsValid reports whether the value is a known GoalType.
func (g GoalType) IsValid() bool {
	for _, candidate := range validGoalTypes {
		if candidate == g {
			return true
		}
	}
	return false
}

// ParseGoalType converts raw input into a GoalType.
func ParseGoalType(value string) (GoalType, error) {
	for _, candidate := range validGoalTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid goal type %q", value)
}
