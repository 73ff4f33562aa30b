package availability

import (
	"context"
	"fmt"
	"maps"
	"sync"
	"time"

	"go.uber.org/zap"
)

// View is a snapshot of the calendar for rendering
type View struct {
	TrainerID       string
	Month           YearMonth
	Grid            [][]CalendarCell
	Records         map[DayKey]Record
	LatestUpdatedAt time.Time

	// LoadErr is set when the last load of this month failed; Records is then empty
	LoadErr error

	// Loading is true while a load for the displayed month is outstanding
	Loading bool
}

// StateOf returns the state of day, Empty when there is no record
func (v View) StateOf(day DayKey) State {
	if rec, ok := v.Records[day]; ok {
		return rec.State
	}
	return Empty
}

// ClickResult describes a successful click
type ClickResult struct {
	Day       DayKey
	Previous  State
	State     State
	UpdatedAt time.Time

	// Applied is false when the calendar switched trainer before the write completed.
	// The write was persisted but is not part of the current view.
	Applied bool
}

// Option configures a Calendar
type Option func(*Calendar)

// WithClock overrides the time source used to stamp writes and resolve "today"
func WithClock(now func() time.Time) Option {
	return func(c *Calendar) {
		c.now = now
	}
}

// WithGrid overrides the grid layout
func WithGrid(grid GridBuilder) Option {
	return func(c *Calendar) {
		c.grid = grid
	}
}

type loadRequest struct {
	generation uint64
	session    uint64
	trainerID  string
	month      YearMonth
	writeSeq   uint64
}

type pendingWrite struct {
	seq    uint64
	record *Record // nil when the day was cleared
}

// Calendar is an interactive month view of one trainer's availability.
//
// Every navigation starts a new generation; a load whose generation is no longer
// current is discarded, so the last navigation always wins. Store calls are made
// without holding the lock, and the in-memory records are replaced, never mutated.
type Calendar struct {
	store  Store
	cycle  *Cycle
	grid   GridBuilder
	logger *zap.Logger
	now    func() time.Time

	mu         sync.Mutex
	trainerID  string
	session    uint64
	month      YearMonth
	cells      [][]CalendarCell
	records    map[DayKey]Record
	latest     time.Time
	loadErr    error
	loading    bool
	ready      bool // records reflect a completed load of month
	generation uint64
	writeSeq   uint64
	writes     map[DayKey]pendingWrite
	busy       map[DayKey]bool
}

// NewCalendar creates a calendar showing the current month with no trainer selected
func NewCalendar(store Store, cycle *Cycle, logger *zap.Logger, opts ...Option) *Calendar {
	c := &Calendar{
		store:   store,
		cycle:   cycle,
		grid:    DefaultGrid,
		logger:  logger,
		now:     time.Now,
		records: map[DayKey]Record{},
		writes:  map[DayKey]pendingWrite{},
		busy:    map[DayKey]bool{},
	}
	for _, opt := range opts {
		opt(c)
	}
	c.month = MonthOf(c.now())
	c.cells = c.grid.Build(c.month)
	return c
}

// Open selects trainerID and month and loads the month.
// Switching trainer clears the previous trainer's records before the load starts.
func (c *Calendar) Open(ctx context.Context, trainerID string, month YearMonth) error {
	if trainerID == "" {
		return ErrNoTrainer
	}
	if err := month.Validate(); err != nil {
		return err
	}

	c.mu.Lock()
	req := c.selectLocked(trainerID, month)
	c.mu.Unlock()

	return c.load(ctx, req)
}

// Refresh reloads the displayed month
func (c *Calendar) Refresh(ctx context.Context) error {
	c.mu.Lock()
	if c.trainerID == "" {
		c.mu.Unlock()
		return ErrNoTrainer
	}
	req := c.selectLocked(c.trainerID, c.month)
	c.mu.Unlock()

	return c.load(ctx, req)
}

// Next moves to the following month
func (c *Calendar) Next(ctx context.Context) error {
	return c.navigate(ctx, func(current YearMonth) (YearMonth, error) {
		return current.AddMonths(1)
	})
}

// Previous moves to the preceding month
func (c *Calendar) Previous(ctx context.Context) error {
	return c.navigate(ctx, func(current YearMonth) (YearMonth, error) {
		return current.AddMonths(-1)
	})
}

// Today moves to the month containing the current date
func (c *Calendar) Today(ctx context.Context) error {
	return c.navigate(ctx, func(YearMonth) (YearMonth, error) {
		return MonthOf(c.now()), nil
	})
}

func (c *Calendar) navigate(ctx context.Context, target func(YearMonth) (YearMonth, error)) error {
	c.mu.Lock()
	if c.trainerID == "" {
		c.mu.Unlock()
		return ErrNoTrainer
	}
	month, err := target(c.month)
	if err != nil {
		c.mu.Unlock()
		return err
	}
	req := c.selectLocked(c.trainerID, month)
	c.mu.Unlock()

	return c.load(ctx, req)
}

// selectLocked updates the navigational state and returns the load to run for it
func (c *Calendar) selectLocked(trainerID string, month YearMonth) loadRequest {
	if trainerID != c.trainerID {
		c.trainerID = trainerID
		c.session++
		c.records = map[DayKey]Record{}
		c.latest = time.Time{}
		c.loadErr = nil
		c.ready = false
		c.writes = map[DayKey]pendingWrite{}
		c.busy = map[DayKey]bool{}
	}
	if month != c.month {
		c.month = month
		c.cells = c.grid.Build(month)
		c.records = map[DayKey]Record{}
		c.ready = false
	}

	c.generation++
	c.loading = true

	return loadRequest{
		generation: c.generation,
		session:    c.session,
		trainerID:  c.trainerID,
		month:      c.month,
		writeSeq:   c.writeSeq,
	}
}

func (c *Calendar) load(ctx context.Context, req loadRequest) error {
	records, err := c.store.LoadMonth(ctx, req.trainerID, req.month)

	var latest time.Time
	var latestErr error
	if err == nil {
		latest, latestErr = c.store.LatestUpdate(ctx, req.trainerID)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if req.generation != c.generation {
		c.logger.Debug("Discarding stale availability load",
			zap.String("trainer_id", req.trainerID),
			zap.String("month", req.month.String()))
		return ErrSuperseded
	}
	c.loading = false

	if err != nil {
		c.records = map[DayKey]Record{}
		c.loadErr = err
		c.ready = false
		c.logger.Error("Failed to load availability",
			zap.String("trainer_id", req.trainerID),
			zap.String("month", req.month.String()),
			zap.Error(err))
		return err
	}

	fresh := make(map[DayKey]Record, len(records))
	maps.Copy(fresh, records)

	// Writes that completed after the load started may not be visible in its result
	for day, w := range c.writes {
		if w.seq <= req.writeSeq || !req.month.Contains(day) {
			continue
		}
		if w.record == nil {
			delete(fresh, day)
		} else {
			fresh[day] = *w.record
		}
	}

	c.records = fresh
	c.loadErr = nil
	c.ready = true

	if latestErr != nil {
		c.logger.Warn("Failed to load last availability update",
			zap.String("trainer_id", req.trainerID),
			zap.Error(latestErr))
	} else if latest.After(c.latest) {
		c.latest = latest
	}

	c.logger.Debug("Availability month loaded",
		zap.String("trainer_id", req.trainerID),
		zap.String("month", req.month.String()),
		zap.Int("records", len(fresh)))

	return nil
}

// Click advances day to its next state and persists it.
// On failure the view is left unchanged and the error is returned; clicking again retries.
// Clicks are refused until the displayed month has loaded, since the current state is unknown.
func (c *Calendar) Click(ctx context.Context, day DayKey) (*ClickResult, error) {
	day, err := ParseDayKey(string(day))
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	if c.trainerID == "" {
		c.mu.Unlock()
		return nil, ErrNoTrainer
	}
	if !c.month.Contains(day) {
		month := c.month
		c.mu.Unlock()
		return nil, fmt.Errorf("%w: %s is outside displayed month %s", ErrInvalidRange, day, month)
	}
	if !c.ready {
		month, loadErr := c.month, c.loadErr
		c.mu.Unlock()
		if loadErr != nil {
			return nil, fmt.Errorf("%w: %s did not load: %w", ErrStoreUnavailable, month, loadErr)
		}
		return nil, fmt.Errorf("%w: %s", ErrNotLoaded, month)
	}
	if c.busy[day] {
		c.mu.Unlock()
		return nil, fmt.Errorf("%w %s", ErrDayBusy, day)
	}

	previous := Empty
	if rec, ok := c.records[day]; ok {
		previous = rec.State
	}
	next := c.cycle.Next(previous)
	trainerID := c.trainerID
	session := c.session
	c.busy[day] = true
	c.mu.Unlock()

	at := c.now()
	saved, err := c.store.UpsertDay(ctx, trainerID, day, next, at)

	c.mu.Lock()
	defer c.mu.Unlock()

	if session != c.session {
		if err != nil {
			return nil, err
		}
		c.logger.Debug("Trainer changed during availability update, not applying",
			zap.String("trainer_id", trainerID),
			zap.String("day", string(day)))
		return &ClickResult{Day: day, Previous: previous, State: next, UpdatedAt: at}, nil
	}
	delete(c.busy, day)

	if err != nil {
		c.logger.Warn("Failed to update availability",
			zap.String("trainer_id", trainerID),
			zap.String("day", string(day)),
			zap.Stringer("state", next),
			zap.Error(err))
		return nil, err
	}

	updatedAt := at
	if saved != nil {
		updatedAt = saved.UpdatedAt
	}

	var written *Record
	if next != Empty {
		written = &Record{Day: day, State: next, UpdatedAt: updatedAt}
	}

	// A later load of day's month replays the write
	if c.month.Contains(day) {
		records := maps.Clone(c.records)
		if written == nil {
			delete(records, day)
		} else {
			records[day] = *written
		}
		c.records = records
	}

	if updatedAt.After(c.latest) {
		c.latest = updatedAt
	}

	c.writeSeq++
	c.writes[day] = pendingWrite{seq: c.writeSeq, record: written}

	c.logger.Debug("Availability updated",
		zap.String("trainer_id", trainerID),
		zap.String("day", string(day)),
		zap.Stringer("from", previous),
		zap.Stringer("to", next))

	return &ClickResult{
		Day:       day,
		Previous:  previous,
		State:     next,
		UpdatedAt: updatedAt,
		Applied:   true,
	}, nil
}

// View returns a snapshot of the calendar
func (c *Calendar) View() View {
	c.mu.Lock()
	defer c.mu.Unlock()

	return View{
		TrainerID:       c.trainerID,
		Month:           c.month,
		Grid:            c.cells,
		Records:         maps.Clone(c.records),
		LatestUpdatedAt: c.latest,
		LoadErr:         c.loadErr,
		Loading:         c.loading,
	}
}
