package models

import "fmt"

type Division string

const (
	DivisionBeginner     Division = "Beginner"
	DivisionIntermediate Division = "Intermediate"
	DivisionAdvanced     Division = "Advanced"
)

// Divisions returns all divisions in display order.
func Divisions() []Division {
	return []Division{DivisionBeginner, DivisionIntermediate, DivisionAdvanced}
}

func (d Division) Valid() bool {
	switch d {
	case DivisionBeginner, DivisionIntermediate, DivisionAdvanced:
		return true
	}
	return false
}

func ParseDivision(s string) (Division, error) {
	d := Division(s)
	if !d.Valid() {
		return "", fmt.Errorf("unknown division %q", s)
	}
	return d, nil
}
