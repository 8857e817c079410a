package billing

import (
	"math"
	"strconv"

	"timetracker/internal/apperr"
)

const minutesPerDay = 24 * 60

// DurationInput — либо ручной ввод часов, либо интервал начала/конца.
// Одновременно оба варианта не принимаются.
type DurationInput struct {
	ManualHours *float64
	StartTime   string // "HH:MM"
	EndTime     string // "HH:MM"
}

// ComputeDuration переводит ввод в часы x100.
// Интервал, где конец меньше начала, считается переходом через полночь.
func ComputeDuration(in DurationInput) (int, error) {
	hasManual := in.ManualHours != nil
	hasInterval := in.StartTime != "" || in.EndTime != ""

	switch {
	case hasManual && hasInterval:
		return 0, apperr.Validationf("provide either manual hours or a start/end interval, not both")

	case hasManual:
		if *in.ManualHours < 0 {
			return 0, apperr.Validationf("manual hours must not be negative")
		}
		return int(math.Round(*in.ManualHours * 100)), nil

	case in.StartTime != "" && in.EndTime != "":
		start, err := parseClock(in.StartTime)
		if err != nil {
			return 0, err
		}
		end, err := parseClock(in.EndTime)
		if err != nil {
			return 0, err
		}
		minutes := end - start
		if end < start {
			// работа через полночь
			minutes = minutesPerDay - start + end
		}
		return int(math.Round(float64(minutes) / 60 * 100)), nil

	default:
		return 0, apperr.Validationf("provide manual hours or both start and end times")
	}
}

// parseClock разбирает строго "HH:MM" в минуты от полуночи.
// Ровно две цифры с обеих сторон: "9:05" и "09:5" не принимаются.
func parseClock(s string) (int, error) {
	if len(s) != 5 || s[2] != ':' {
		return 0, apperr.Validationf("invalid time %q, expected HH:MM", s)
	}
	for _, i := range [...]int{0, 1, 3, 4} {
		if s[i] < '0' || s[i] > '9' {
			return 0, apperr.Validationf("invalid time %q, expected HH:MM", s)
		}
	}
	h, _ := strconv.Atoi(s[:2])
	m, _ := strconv.Atoi(s[3:])
	if h > 23 {
		return 0, apperr.Validationf("invalid hour in %q", s)
	}
	if m > 59 {
		return 0, apperr.Validationf("invalid minute in %q", s)
	}
	return h*60 + m, nil
}
