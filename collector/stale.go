package collector

import (
	"strings"
	"time"

	libErr "github.com/LerianStudio/snyk-gc-projects/error"
	"github.com/LerianStudio/snyk-gc-projects/model"
)

// lastTestedLayouts are the ISO-8601 forms accepted for lastTestedDate.
// All of them require a zone.
var lastTestedLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02 15:04:05.999999999Z07:00",
}

// ParseLastTested parses an ISO-8601 timestamp carrying a zone
func ParseLastTested(value string) (time.Time, error) {
	var firstErr error

	for _, layout := range lastTestedLayouts {
		t, err := time.Parse(layout, value)
		if err == nil {
			return t, nil
		}

		if firstErr == nil {
			firstErr = err
		}
	}

	return time.Time{}, &libErr.ParseError{Field: "lastTestedDate", Value: value, Err: firstErr}
}

// IsStale reports whether project was last tested more than ageDays*24
// hours before now. A project that was never tested is not stale.
func IsStale(project model.ProjectDetail, ageDays int, now time.Time) (bool, error) {
	if project.LastTestedDate == nil || strings.TrimSpace(*project.LastTestedDate) == "" {
		return false, nil
	}

	lastTested, err := ParseLastTested(*project.LastTestedDate)
	if err != nil {
		return false, err
	}

	return now.Sub(lastTested).Hours() > float64(ageDays*24), nil
}
