package types

import "fmt"

// Validation constraint constants.
const (
	MinPopThreshold = 0.0
	MaxPopThreshold = 100.0
	MinutesPerDay   = 1440
)

// ParseClock converts a 24-hour "HH:MM" clock string to minutes since
// midnight. "24:00" is rejected; midnight is "00:00".
func ParseClock(s string) (int, error) {
	var h, m int
	if len(s) != 5 || s[2] != ':' {
		return 0, NewAppError(ErrCodeValidationInvalidClock,
			fmt.Sprintf("clock time %q must be HH:MM", s), nil)
	}
	if _, err := fmt.Sscanf(s, "%02d:%02d", &h, &m); err != nil {
		return 0, NewAppError(ErrCodeValidationInvalidClock,
			fmt.Sprintf("clock time %q must be HH:MM", s), err)
	}
	if h < 0 || h > 23 || m < 0 || m > 59 {
		return 0, NewAppError(ErrCodeValidationInvalidClock,
			fmt.Sprintf("clock time %q out of range", s), nil)
	}
	return h*60 + m, nil
}

// FormatClock renders minutes since midnight as a "HH:MM" clock string.
// The input is normalized modulo 1440 first.
func FormatClock(minutes int) string {
	minutes = ((minutes % MinutesPerDay) + MinutesPerDay) % MinutesPerDay
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}

// Validate checks both window bounds are valid clock strings.
func (w Window) Validate() error {
	if _, err := ParseClock(w.Start); err != nil {
		return err
	}
	if _, err := ParseClock(w.End); err != nil {
		return err
	}
	return nil
}

// Duration returns the window length in minutes. A window whose end precedes
// its start wraps past midnight; equal bounds mean the whole day.
func (w Window) Duration() (int, error) {
	start, err := ParseClock(w.Start)
	if err != nil {
		return 0, err
	}
	end, err := ParseClock(w.End)
	if err != nil {
		return 0, err
	}
	if start == end {
		return MinutesPerDay, nil
	}
	if end >= start {
		return end - start, nil
	}
	return (MinutesPerDay - start) + end, nil
}

// Validate checks criteria thresholds and logic.
func (c UmbrellaCriteria) Validate() error {
	if c.PopThreshold < MinPopThreshold || c.PopThreshold > MaxPopThreshold {
		return NewAppError(ErrCodeValidationThresholdRange,
			fmt.Sprintf("pop threshold %.1f outside [0, 100]", c.PopThreshold), nil)
	}
	if c.PrecipThreshold < 0 {
		return NewAppError(ErrCodeValidationThresholdRange,
			fmt.Sprintf("precipitation threshold %.1f must be >= 0", c.PrecipThreshold), nil)
	}
	if c.Logic != LogicAnd && c.Logic != LogicOr {
		return NewAppError(ErrCodeValidationInvalidLogic,
			fmt.Sprintf("criteria logic %q must be AND or OR", c.Logic), nil)
	}
	return nil
}

// Validate checks the whole settings document: criteria, every day's window,
// and that every schedule reference points at a saved location.
func (s *Settings) Validate() error {
	if err := s.Criteria.Validate(); err != nil {
		return err
	}
	for d := range s.Week {
		day := s.Week[d]
		if err := (Window{Start: day.Start, End: day.End}).Validate(); err != nil {
			return err
		}
		if day.OriginID != nil && s.LocationByID(*day.OriginID) == nil {
			return NewAppError(ErrCodeValidationInvalidSettings,
				fmt.Sprintf("weekday %d origin references unknown location %q", d, *day.OriginID), nil)
		}
		if day.DestinationID != nil && s.LocationByID(*day.DestinationID) == nil {
			return NewAppError(ErrCodeValidationInvalidSettings,
				fmt.Sprintf("weekday %d destination references unknown location %q", d, *day.DestinationID), nil)
		}
	}
	return nil
}
