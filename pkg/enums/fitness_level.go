package enums

import "fmt"

// FitnessLevel is the self-reported training experience tier on a profile.
type FitnessLevel string

const (
	FitnessLevelBeginner     FitnessLevel = "beginner"
	FitnessLevelIntermediate FitnessLevel = "intermediate"
	FitnessLevelAdvanced     FitnessLevel = "advanced"
)

var validFitnessLevels = []FitnessLevel{
	FitnessLevelBeginner,
	FitnessLevelIntermediate,
	FitnessLevelAdvanced,
}

// String implements fmt.Stringer.
func (f FitnessLevel) String() string {
	return string(f)
}

// IsValid reports whether the value is a known FitnessLevel.
func (f FitnessLevel) IsValid() bool {
	for _, candidate := range validFitnessLevels {
		if candidate == f {
			return true
		}
	}
	return false
}

// ParseFitnessLevel converts raw input into a FitnessLevel.
func ParseFitnessLevel(value string) (FitnessLevel, error) {
	for _, candidate := range validFitnessLevels {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid fitness level %q", value)
}
