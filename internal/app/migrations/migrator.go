package migrations

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"
	"github.com/yigit/enrollment/internal/db"
	"github.com/yigit/enrollment/internal/pkg/apperrors"
	"github.com/yigit/enrollment/internal/schema"
)

// Options configures a Migrator
type Options struct {
	// HistoryTable is the table applied units are recorded in
	HistoryTable string
	// SingleTransaction runs a whole batch in one transaction instead of one per unit
	SingleTransaction bool
}

// Status describes one unit as seen by the history table
type Status struct {
	Version   string
	Name      string
	Applied   bool
	Batch     int
	AppliedAt *time.Time
	// Missing marks a recorded version that no known unit declares
	Missing bool
}

// Migrator manages database migrations
type Migrator struct {
	db       *db.PostgresDB
	units    []Unit
	history  *History
	singleTx bool
	logger   zerolog.Logger
}

// NewMigrator creates a new migrator. Units are ordered by version and
// checked with ValidateOrder.
func NewMigrator(database *db.PostgresDB, units []Unit, opts Options, lgr zerolog.Logger) (*Migrator, error) {
	ordered := make([]Unit, len(units))
	copy(ordered, units)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Version() < ordered[j].Version()
	})

	if err := ValidateOrder(ordered); err != nil {
		return nil, err
	}

	return &Migrator{
		db:       database,
		units:    ordered,
		history:  NewHistory(opts.HistoryTable),
		singleTx: opts.SingleTransaction,
		logger:   lgr,
	}, nil
}

// ValidateOrder checks that versions are unique and that no table unit
// references a table only a later unit creates.
func ValidateOrder(units []Unit) error {
	createdAt := make(map[string]int)
	versions := make(map[string]bool, len(units))
	for i, u := range units {
		if versions[u.Version()] {
			return apperrors.NewCustomError(apperrors.ErrDuplicateMigration,
				fmt.Sprintf("migration version %s is declared twice", u.Version()))
		}
		versions[u.Version()] = true

		if tu, ok := u.(*TableUnit); ok {
			if err := tu.Table().Validate(); err != nil {
				return err
			}
			createdAt[tu.Table().Name] = i
		}
	}

	for i, u := range units {
		tu, ok := u.(*TableUnit)
		if !ok {
			continue
		}
		for _, ref := range tu.Table().References() {
			if at, declared := createdAt[ref]; declared && at > i {
				return apperrors.NewMissingReferenceError(tu.Table().Name, tu.referencingColumn(ref), ref)
			}
		}
	}
	return nil
}

// Units returns the units in version order
func (m *Migrator) Units() []Unit {
	return m.units
}

// History returns the history table accessor
func (m *Migrator) History() *History {
	return m.history
}

func (m *Migrator) runLogger(direction string) zerolog.Logger {
	return m.logger.With().Str("run", uuid.NewString()).Str("direction", direction).Logger()
}

// Up applies every pending unit in version order as one new batch and
// returns how many were applied. On failure the count covers the units
// committed before it.
func (m *Migrator) Up(ctx context.Context) (int, error) {
	lgr := m.runLogger("up")

	if err := m.history.Ensure(ctx, m.db.Pool); err != nil {
		return 0, err
	}

	applied, err := m.history.Applied(ctx, m.db.Pool)
	if err != nil {
		return 0, err
	}

	var pending []Unit
	for _, u := range m.units {
		if _, ok := applied[u.Version()]; ok {
			lgr.Debug().Str("version", u.Version()).Msg("Migration already applied, skipping")
			continue
		}
		pending = append(pending, u)
	}

	if len(pending) == 0 {
		lgr.Info().Msg("Nothing to migrate")
		return 0, nil
	}

	batch, err := m.history.LastBatch(ctx, m.db.Pool)
	if err != nil {
		return 0, err
	}
	batch++

	lgr = lgr.With().Int("batch", batch).Logger()
	done, err := m.run(ctx, pending, func(ctx context.Context, tx *Tx, u Unit) error {
		return m.applyUnit(ctx, tx, u, batch, lgr)
	})
	if err != nil {
		return done, err
	}

	lgr.Info().Int("count", len(pending)).Msg("Migrations successfully applied")
	return len(pending), nil
}

// Down reverts every applied unit in reverse version order
func (m *Migrator) Down(ctx context.Context) (int, error) {
	return m.revertWhere(ctx, "down", func(applied map[string]Record, lastBatch int) func(Record) bool {
		return func(Record) bool { return true }
	})
}

// Reset reverts every applied unit; it is Down under the name the CLI uses
func (m *Migrator) Reset(ctx context.Context) (int, error) {
	return m.Down(ctx)
}

// Rollback reverts the last batch when steps is 0, otherwise the last steps
// applied units.
func (m *Migrator) Rollback(ctx context.Context, steps int) (int, error) {
	if steps < 0 {
		return 0, fmt.Errorf("rollback steps must not be negative, got %d", steps)
	}

	return m.revertWhere(ctx, "rollback", func(applied map[string]Record, lastBatch int) func(Record) bool {
		if steps == 0 {
			return func(r Record) bool { return r.Batch == lastBatch }
		}

		records := make([]Record, 0, len(applied))
		for _, r := range applied {
			records = append(records, r)
		}
		sort.Slice(records, func(i, j int) bool {
			if records[i].Batch != records[j].Batch {
				return records[i].Batch > records[j].Batch
			}
			return records[i].Version > records[j].Version
		})
		if steps < len(records) {
			records = records[:steps]
		}

		selected := make(map[string]bool, len(records))
		for _, r := range records {
			selected[r.Version] = true
		}
		return func(r Record) bool { return selected[r.Version] }
	})
}

// Refresh reverts everything and applies it again
func (m *Migrator) Refresh(ctx context.Context) (int, error) {
	if _, err := m.Reset(ctx); err != nil {
		return 0, err
	}
	return m.Up(ctx)
}

// Fresh drops every declared table regardless of history, drops the history
// table and then applies all units. SQL units are reverted only when the
// history records them, and those without a down script are left alone.
func (m *Migrator) Fresh(ctx context.Context) (int, error) {
	lgr := m.runLogger("fresh")

	err := m.db.WithTransaction(ctx, func(ctx context.Context, pgTx pgx.Tx) error {
		tx := m.wrap(pgTx)

		recorded := map[string]Record{}
		tracked, err := tx.Inspect.TableExists(ctx, m.history.Table())
		if err != nil {
			return err
		}
		if tracked {
			if recorded, err = m.history.Applied(ctx, tx); err != nil {
				return err
			}
		}

		for i := len(m.units) - 1; i >= 0; i-- {
			u := m.units[i]
			l := lgr.With().Str("version", u.Version()).Str("migration", u.Name()).Logger()
			if _, isTable := u.(*TableUnit); !isTable {
				if _, ok := recorded[u.Version()]; !ok {
					l.Debug().Msg("Migration not applied, skipping")
					continue
				}
			}

			l.Info().Msg("Dropping")
			err := u.Revert(ctx, tx)
			if apperrors.Is(err, apperrors.ErrIrreversible) {
				l.Warn().Err(err).Msg("Leaving irreversible migration in place")
				continue
			}
			if err != nil {
				return fmt.Errorf("migration %s (%s) failed to revert: %w", u.Version(), u.Name(), err)
			}
		}
		return m.history.Drop(ctx, tx)
	})
	if err != nil {
		lgr.Error().Err(err).Msg("Fresh failed")
		return 0, err
	}

	return m.Up(ctx)
}

// Apply runs a single unit as its own batch
func (m *Migrator) Apply(ctx context.Context, u Unit) error {
	lgr := m.runLogger("apply")

	if err := m.history.Ensure(ctx, m.db.Pool); err != nil {
		return err
	}
	batch, err := m.history.LastBatch(ctx, m.db.Pool)
	if err != nil {
		return err
	}
	batch++

	return m.db.WithTransaction(ctx, func(ctx context.Context, pgTx pgx.Tx) error {
		return m.applyUnit(ctx, m.wrap(pgTx), u, batch, lgr)
	})
}

// Revert reverts a single unit and forgets it in the history
func (m *Migrator) Revert(ctx context.Context, u Unit) error {
	lgr := m.runLogger("revert")

	if err := m.history.Ensure(ctx, m.db.Pool); err != nil {
		return err
	}

	return m.db.WithTransaction(ctx, func(ctx context.Context, pgTx pgx.Tx) error {
		return m.revertUnit(ctx, m.wrap(pgTx), u, lgr)
	})
}

// Find returns the unit with the given version or name
func (m *Migrator) Find(key string) (Unit, error) {
	for _, u := range m.units {
		if u.Version() == key || u.Name() == key {
			return u, nil
		}
	}
	return nil, apperrors.NewCustomError(apperrors.ErrUnknownMigration, fmt.Sprintf("no migration %q", key))
}

// Status lists every declared unit with its history, followed by recorded
// versions no unit declares.
func (m *Migrator) Status(ctx context.Context) ([]Status, error) {
	if err := m.history.Ensure(ctx, m.db.Pool); err != nil {
		return nil, err
	}

	applied, err := m.history.Applied(ctx, m.db.Pool)
	if err != nil {
		return nil, err
	}

	statuses := make([]Status, 0, len(m.units))
	known := make(map[string]bool, len(m.units))
	for _, u := range m.units {
		known[u.Version()] = true
		s := Status{Version: u.Version(), Name: u.Name()}
		if r, ok := applied[u.Version()]; ok {
			appliedAt := r.AppliedAt
			s.Applied = true
			s.Batch = r.Batch
			s.AppliedAt = &appliedAt
		}
		statuses = append(statuses, s)
	}

	var missing []Status
	for _, r := range applied {
		if known[r.Version] {
			continue
		}
		appliedAt := r.AppliedAt
		missing = append(missing, Status{
			Version:   r.Version,
			Name:      r.Name,
			Applied:   true,
			Batch:     r.Batch,
			AppliedAt: &appliedAt,
			Missing:   true,
		})
	}
	sort.Slice(missing, func(i, j int) bool { return missing[i].Version < missing[j].Version })

	return append(statuses, missing...), nil
}

// revertWhere reverts, in reverse version order, the applied units the
// selector picks.
func (m *Migrator) revertWhere(ctx context.Context, direction string, selector func(map[string]Record, int) func(Record) bool) (int, error) {
	lgr := m.runLogger(direction)

	if err := m.history.Ensure(ctx, m.db.Pool); err != nil {
		return 0, err
	}

	applied, err := m.history.Applied(ctx, m.db.Pool)
	if err != nil {
		return 0, err
	}
	lastBatch, err := m.history.LastBatch(ctx, m.db.Pool)
	if err != nil {
		return 0, err
	}

	pick := selector(applied, lastBatch)
	known := make(map[string]bool, len(m.units))
	var targets []Unit
	for i := len(m.units) - 1; i >= 0; i-- {
		u := m.units[i]
		known[u.Version()] = true
		if r, ok := applied[u.Version()]; ok && pick(r) {
			targets = append(targets, u)
		}
	}

	for _, r := range applied {
		if !known[r.Version] && pick(r) {
			return 0, apperrors.NewCustomError(apperrors.ErrUnknownMigration,
				fmt.Sprintf("migration %s (%s) is recorded but not declared", r.Version, r.Name))
		}
	}

	if len(targets) == 0 {
		lgr.Info().Msg("Nothing to roll back")
		return 0, nil
	}

	done, err := m.run(ctx, targets, func(ctx context.Context, tx *Tx, u Unit) error {
		return m.revertUnit(ctx, tx, u, lgr)
	})
	if err != nil {
		return done, err
	}

	lgr.Info().Int("count", len(targets)).Msg("Migrations successfully rolled back")
	return len(targets), nil
}

// run executes step for each unit, either in one transaction per unit or in
// a single transaction for all of them, and returns how many units committed.
func (m *Migrator) run(ctx context.Context, units []Unit, step func(context.Context, *Tx, Unit) error) (int, error) {
	if m.singleTx {
		err := m.db.WithTransaction(ctx, func(ctx context.Context, pgTx pgx.Tx) error {
			tx := m.wrap(pgTx)
			for _, u := range units {
				if err := step(ctx, tx, u); err != nil {
					return err
				}
			}
			return nil
		})
		if err != nil {
			return 0, err
		}
		return len(units), nil
	}

	for i, u := range units {
		err := m.db.WithTransaction(ctx, func(ctx context.Context, pgTx pgx.Tx) error {
			return step(ctx, m.wrap(pgTx), u)
		})
		if err != nil {
			return i, err
		}
	}
	return len(units), nil
}

func (m *Migrator) applyUnit(ctx context.Context, tx *Tx, u Unit, batch int, lgr zerolog.Logger) error {
	l := lgr.With().Str("version", u.Version()).Str("migration", u.Name()).Logger()
	l.Info().Msg("Applying migration")

	start := time.Now()
	if err := u.Apply(ctx, tx); err != nil {
		l.Error().Err(err).Msg("Migration failed")
		return fmt.Errorf("migration %s (%s) failed: %w", u.Version(), u.Name(), err)
	}
	if err := m.history.Record(ctx, tx, u, batch); err != nil {
		return err
	}

	l.Info().Dur("took", time.Since(start)).Msg("Migration applied")
	return nil
}

func (m *Migrator) revertUnit(ctx context.Context, tx *Tx, u Unit, lgr zerolog.Logger) error {
	l := lgr.With().Str("version", u.Version()).Str("migration", u.Name()).Logger()
	l.Info().Msg("Reverting migration")

	start := time.Now()
	if err := u.Revert(ctx, tx); err != nil {
		l.Error().Err(err).Msg("Revert failed")
		return fmt.Errorf("migration %s (%s) failed to revert: %w", u.Version(), u.Name(), err)
	}
	if err := m.history.Remove(ctx, tx, u.Version()); err != nil {
		return err
	}

	l.Info().Dur("took", time.Since(start)).Msg("Migration reverted")
	return nil
}

func (m *Migrator) wrap(tx pgx.Tx) *Tx {
	return &Tx{Tx: tx, Inspect: schema.NewInspector(tx, m.db.Schema)}
}
