package availability

import "errors"

var (
	// ErrStoreUnavailable wraps any failure to read or write availability data
	ErrStoreUnavailable = errors.New("availability store unavailable")

	// ErrInvalidRange is returned for malformed or out-of-bounds months and days
	ErrInvalidRange = errors.New("invalid calendar range")

	// ErrSuperseded is returned by a load whose result was discarded because the
	// calendar has since navigated to another month or trainer
	ErrSuperseded = errors.New("calendar load superseded")

	ErrNoTrainer = errors.New("no trainer selected")

	// ErrNotLoaded is returned by a click while the displayed month is still loading
	ErrNotLoaded = errors.New("month not loaded yet")

	// ErrDayBusy is returned when a click arrives while an update for the same day is in flight
	ErrDayBusy = errors.New("update already in flight for day")
)
