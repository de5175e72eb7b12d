package services

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"eventfolio/internal/domain"
)

// dateLayouts are tried in order when parsing user-supplied dates. ISO forms
// come first; the rest cover common human-entered shapes.
var dateLayouts = []string{
	"2006-01-02",
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006/01/02",
	"01/02/2006",
	"January 2, 2006",
	"January 2 2006",
	"Jan 2, 2006",
	"Jan 2 2006",
	"2 January 2006",
	"2 Jan 2006",
}

var (
	time24Regexp = regexp.MustCompile(`^([01]?\d|2[0-3]):([0-5]\d)$`)
	time12Regexp = regexp.MustCompile(`^(1[0-2]|0?[1-9]):([0-5]\d)\s*([AaPp][Mm])$`)
)

// NormalizeDate parses input as a calendar date and returns the canonical
// YYYY-MM-DD form. Any time-of-day component is discarded. Unparseable input
// fails with domain.ErrValidation.
func NormalizeDate(input string) (string, error) {
	s := strings.TrimSpace(input)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Format("2006-01-02"), nil
		}
	}
	return "", fmt.Errorf("%w: unparseable date %q", domain.ErrValidation, input)
}

// NormalizeTime converts a time string to zero-padded 24-hour HH:MM. It
// accepts 24-hour H:MM/HH:MM with hour 0-23, and 12-hour H:MM AM/PM
// (case-insensitive) with hour 1-12: 12:xx AM maps to 00:xx, 12:xx PM stays
// 12:xx, other PM hours add 12. Anything else fails with domain.ErrValidation.
func NormalizeTime(input string) (string, error) {
	s := strings.TrimSpace(input)
	if m := time24Regexp.FindStringSubmatch(s); m != nil {
		hour, _ := strconv.Atoi(m[1])
		return fmt.Sprintf("%02d:%s", hour, m[2]), nil
	}
	if m := time12Regexp.FindStringSubmatch(s); m != nil {
		hour, _ := strconv.Atoi(m[1])
		switch strings.ToUpper(m[3]) {
		case "PM":
			if hour != 12 {
				hour += 12
			}
		case "AM":
			if hour == 12 {
				hour = 0
			}
		}
		return fmt.Sprintf("%02d:%s", hour, m[2]), nil
	}
	return "", fmt.Errorf("%w: time %q must be HH:MM (24h) or H:MM AM/PM", domain.ErrValidation, input)
}
