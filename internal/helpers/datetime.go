package helpers

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/araddon/dateparse"
	"github.com/joshua-takyi/devevent/internal/errs"
)

const DateLayout = "2006-01-02"

var timePattern = regexp.MustCompile(`^(\d{1,2}):(\d{2})(?:\s*([aApP][mM]))?$`)

// NormalizeDate accepts ISO strings, natural-language dates and
// slash-delimited dates and returns the calendar date as YYYY-MM-DD.
func NormalizeDate(raw string) (string, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return "", errs.Validation("date", "Date is required")
	}
	if t, err := time.Parse(DateLayout, s); err == nil {
		return t.Format(DateLayout), nil
	}
	// Anything without a digit cannot carry a year.
	if !strings.ContainsAny(s, "0123456789") {
		return "", errs.Validation("date", fmt.Sprintf("Invalid date format: %q", raw))
	}
	t, err := dateparse.ParseIn(s, time.UTC)
	if err != nil {
		return "", errs.Validation("date", fmt.Sprintf("Invalid date format: %q", raw))
	}
	return t.Format(DateLayout), nil
}

// NormalizeTime accepts H:MM / HH:MM (24-hour) or H:MM AM/PM (12-hour) and
// returns zero-padded 24-hour HH:MM.
func NormalizeTime(raw string) (string, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return "", errs.Validation("time", "Time is required")
	}
	m := timePattern.FindStringSubmatch(s)
	if m == nil {
		return "", invalidTime(raw)
	}
	hour, _ := strconv.Atoi(m[1])
	minute, _ := strconv.Atoi(m[2])
	if minute > 59 {
		return "", invalidTime(raw)
	}

	if period := strings.ToUpper(m[3]); period != "" {
		if hour < 1 || hour > 12 {
			return "", invalidTime(raw)
		}
		switch {
		case period == "AM" && hour == 12:
			hour = 0
		case period == "PM" && hour != 12:
			hour += 12
		}
	}
	if hour > 23 {
		return "", invalidTime(raw)
	}
	return fmt.Sprintf("%02d:%02d", hour, minute), nil
}

func invalidTime(raw string) error {
	return errs.Validation("time", fmt.Sprintf("Invalid time format: %q. Use HH:MM or H:MM AM/PM", raw))
}
