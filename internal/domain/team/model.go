package team

import "fmt"

// Team is a club referenced by fixtures through its short code.
type Team struct {
	Code  string
	Name  string
	Badge string
	Venue string
}

func (t Team) Validate() error {
	if t.Code == "" {
		return fmt.Errorf("team code is required")
	}
	if t.Name == "" {
		return fmt.Errorf("team name is required")
	}

	return nil
}
