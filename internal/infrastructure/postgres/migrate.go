package postgres

import (
	"context"
	"crypto/sha256"
	"embed"
	"encoding/hex"
	"errors"
	"fmt"
	"io/fs"
	"sort"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Mihigojordan/Abysphere-sub003/pkg/logger"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// Migrate aplica en orden los archivos NNN_descripcion.sql pendientes. Cada archivo corre en
// su propia transacción y queda registrado en schema_migrations con su checksum; un archivo
// ya aplicado cuyo contenido cambió es un error.
func Migrate(ctx context.Context, pool *pgxpool.Pool, log *logger.Logger) error {
	if _, err := pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version    TEXT PRIMARY KEY,
			filename   TEXT NOT NULL,
			checksum   TEXT NOT NULL,
			applied_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`); err != nil {
		return fmt.Errorf("crear schema_migrations: %w", err)
	}

	files, err := fs.Glob(migrationsFS, "migrations/*.sql")
	if err != nil {
		return err
	}
	sort.Strings(files)

	for _, path := range files {
		name := strings.TrimPrefix(path, "migrations/")
		version, _, ok := strings.Cut(name, "_")
		if !ok {
			return fmt.Errorf("migración %s: se espera NNN_descripcion.sql", name)
		}
		body, err := migrationsFS.ReadFile(path)
		if err != nil {
			return err
		}
		sum := sha256.Sum256(body)
		checksum := hex.EncodeToString(sum[:])

		var existing string
		err = pool.QueryRow(ctx, `SELECT checksum FROM schema_migrations WHERE version = $1`, version).Scan(&existing)
		switch {
		case err == nil && existing == checksum:
			log.Debug().Str("migration", name).Msg("migración ya aplicada")
			continue
		case err == nil:
			return fmt.Errorf("migración %s: checksum distinto al aplicado", name)
		case !errors.Is(err, pgx.ErrNoRows):
			return fmt.Errorf("consultar schema_migrations: %w", err)
		}

		if err := applyMigration(ctx, pool, version, name, checksum, string(body)); err != nil {
			return err
		}
		log.Info().Str("migration", name).Msg("migración aplicada")
	}
	return nil
}

func applyMigration(ctx context.Context, pool *pgxpool.Pool, version, name, checksum, body string) error {
	tx, err := pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin migración %s: %w", name, err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if _, err := tx.Exec(ctx, body); err != nil {
		return fmt.Errorf("ejecutar migración %s: %w", name, err)
	}
	if _, err := tx.Exec(ctx,
		`INSERT INTO schema_migrations (version, filename, checksum) VALUES ($1, $2, $3)`,
		version, name, checksum); err != nil {
		return fmt.Errorf("registrar migración %s: %w", name, err)
	}
	return tx.Commit(ctx)
}
