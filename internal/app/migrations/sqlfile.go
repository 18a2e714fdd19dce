package migrations

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/yigit/enrollment/internal/pkg/apperrors"
)

const (
	upSuffix   = ".up.sql"
	downSuffix = ".down.sql"
)

// SQLUnit is a hand-written migration read from a pair of SQL files.
type SQLUnit struct {
	version string
	name    string
	up      string
	down    string
}

// Version returns the unit version
func (u *SQLUnit) Version() string { return u.version }

// Name returns the unit name
func (u *SQLUnit) Name() string { return u.name }

// Apply executes the up script. Store errors are wrapped with the unit
// name and not mapped onto table errors.
func (u *SQLUnit) Apply(ctx context.Context, tx *Tx) error {
	if _, err := tx.Exec(ctx, u.up); err != nil {
		return fmt.Errorf("up script of %s: %w", u.name, err)
	}
	return nil
}

// Revert executes the down script
func (u *SQLUnit) Revert(ctx context.Context, tx *Tx) error {
	if strings.TrimSpace(u.down) == "" {
		return apperrors.NewCustomError(apperrors.ErrIrreversible,
			fmt.Sprintf("migration %s (%s) has no down script", u.version, u.name))
	}
	if _, err := tx.Exec(ctx, u.down); err != nil {
		return fmt.Errorf("down script of %s: %w", u.name, err)
	}
	return nil
}

// Script returns the up script, or the down script when down is set
func (u *SQLUnit) Script(down bool) string {
	if down {
		return u.down
	}
	return u.up
}

// LoadSQLUnits reads "<version>_<name>.up.sql" files and their optional
// ".down.sql" counterparts from dirPath, ordered by file name.
func LoadSQLUnits(dirPath string) ([]Unit, error) {
	files, err := os.ReadDir(dirPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read migration directory: %w", err)
	}

	var upFiles []string
	for _, file := range files {
		if !file.IsDir() && strings.HasSuffix(file.Name(), upSuffix) {
			upFiles = append(upFiles, file.Name())
		}
	}
	sort.Strings(upFiles)

	units := make([]Unit, 0, len(upFiles))
	for _, file := range upFiles {
		base := strings.TrimSuffix(file, upSuffix)
		version, name, ok := strings.Cut(base, "_")
		if !ok || version == "" || name == "" {
			return nil, fmt.Errorf("migration file %s must be named <version>_<name>%s", file, upSuffix)
		}

		up, err := os.ReadFile(filepath.Join(dirPath, file))
		if err != nil {
			return nil, fmt.Errorf("failed to read migration file: %w", err)
		}

		down, err := os.ReadFile(filepath.Join(dirPath, base+downSuffix))
		if err != nil && !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to read migration file: %w", err)
		}

		units = append(units, &SQLUnit{
			version: version,
			name:    name,
			up:      string(up),
			down:    string(down),
		})
	}

	return units, nil
}
