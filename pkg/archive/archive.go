// Package archive mirrors the raw CSV ledgers into a SQLite database for ad hoc querying.
package archive

import (
	"context"
	"database/sql"
	_ "embed"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/travigo/rerdelay/pkg/ctdf"
	"github.com/travigo/rerdelay/pkg/ledger"

	_ "modernc.org/sqlite"
)

//go:embed schema.sql
var schemaSQL string

// Rows sharing the ledger key replace the stored row, the same last-write-wins rule as the CSV merge
const upsertSQL = `
INSERT INTO raw_poll (
    poll_at_utc, poll_at_local, service_day, stop_id, line_code,
    mean_delay_s, mean_lateness_s, n, n_neg, n_pos
) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
ON CONFLICT (poll_at_utc, stop_id, line_code) DO UPDATE SET
    poll_at_local = excluded.poll_at_local,
    service_day = excluded.service_day,
    mean_delay_s = excluded.mean_delay_s,
    mean_lateness_s = excluded.mean_lateness_s,
    n = excluded.n,
    n_neg = excluded.n_neg,
    n_pos = excluded.n_pos`

type Archive struct {
	conn *sql.DB
}

func Connect(ctx context.Context, dbPath string) (*Archive, error) {
	conn, err := sql.Open("sqlite", dbPath+"?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	conn.SetMaxOpenConns(1)
	conn.SetConnMaxLifetime(time.Hour)

	if err := conn.PingContext(ctx); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	if _, err := conn.ExecContext(ctx, schemaSQL); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to create schema: %w", err)
	}

	log.Debug().Str("path", dbPath).Msg("Connected to SQLite archive")

	return &Archive{conn: conn}, nil
}

func (a *Archive) Close() error {
	return a.conn.Close()
}

// Upsert writes one service day of rows in a single transaction
func (a *Archive) Upsert(ctx context.Context, serviceDay string, rows []ctdf.PollSummary) error {
	tx, err := a.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	statement, err := tx.PrepareContext(ctx, upsertSQL)
	if err != nil {
		return fmt.Errorf("failed to prepare upsert: %w", err)
	}
	defer statement.Close()

	for _, row := range rows {
		_, err := statement.ExecContext(ctx,
			row.PollAtUTC.UTC().Format(ctdf.LedgerDateTimeFormat),
			row.PollAtLocal.Format(ctdf.LedgerDateTimeFormat),
			serviceDay,
			row.StopID,
			row.LineCode,
			row.MeanDelaySeconds,
			row.MeanLatenessSeconds,
			row.N,
			row.NNeg,
			row.NPos,
		)
		if err != nil {
			return fmt.Errorf("failed to upsert %s/%s: %w", row.StopID, row.LineCode, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit service day %s: %w", serviceDay, err)
	}

	return nil
}

// Count returns the number of stored rows, optionally limited to one service day
func (a *Archive) Count(ctx context.Context, serviceDay string) (int, error) {
	query := "SELECT COUNT(*) FROM raw_poll"
	var args []interface{}
	if serviceDay != "" {
		query += " WHERE service_day = ?"
		args = append(args, serviceDay)
	}

	var count int
	if err := a.conn.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count rows: %w", err)
	}

	return count, nil
}

// Mirror loads every raw ledger file into the database at dbPath and returns the
// number of rows written
func Mirror(ctx context.Context, dbPath string, rawFiles []string) (int, error) {
	archive, err := Connect(ctx, dbPath)
	if err != nil {
		return 0, err
	}
	defer archive.Close()

	written := 0
	for _, rawFile := range rawFiles {
		serviceDay, err := ledger.ServiceDayFromPath(rawFile)
		if err != nil {
			return written, err
		}

		rows, err := ledger.ReadRaw(rawFile)
		if err != nil {
			return written, err
		}

		if err := archive.Upsert(ctx, serviceDay, rows); err != nil {
			return written, err
		}
		written += len(rows)

		log.Info().Str("serviceday", serviceDay).Int("rows", len(rows)).Msg("Mirrored raw ledger")
	}

	return written, nil
}
