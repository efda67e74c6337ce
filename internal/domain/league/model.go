package league

import "fmt"

// League is a competition whose fixtures the service serves.
type League struct {
	Code        string
	Name        string
	CountryCode string
	Season      string
}

func (l League) Validate() error {
	if l.Code == "" {
		return fmt.Errorf("league code is required")
	}
	if l.Name == "" {
		return fmt.Errorf("league name is required")
	}

	return nil
}
