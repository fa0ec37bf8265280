package pg

import (
	"context"
	"fmt"
	"io/fs"
	"sort"
	"strings"

	"github.com/Jawadabbaskhan/socialauth/internal/observability/logger"
)

// RunMigrations aplica en orden lexicográfico los *_up.sql del FS embebido.
// Los statements son idempotentes (IF NOT EXISTS), así que es seguro correr
// esto en cada arranque.
func (s *Store) RunMigrations(ctx context.Context, fsys fs.FS) error {
	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return err
	}
	var files []string
	for _, e := range entries {
		if e.Type().IsRegular() && strings.HasSuffix(strings.ToLower(e.Name()), "_up.sql") {
			files = append(files, e.Name())
		}
	}
	sort.Strings(files)

	log := logger.Named("store.pg")
	for _, f := range files {
		b, err := fs.ReadFile(fsys, f)
		if err != nil {
			return err
		}
		if _, err := s.pool.Exec(ctx, string(b)); err != nil {
			return fmt.Errorf("migrate %s: %w", f, err)
		}
		log.Info("migration applied", logger.Op(f))
	}
	return nil
}
