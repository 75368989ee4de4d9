package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"go.uber.org/zap"
)

// AppendMetadata inserts one audit row for an ingest run. Rows are never
// deduplicated or pruned. A json.RawMessage is stored byte for byte; any
// other value is JSON encoded.
func (s *SQLiteStorage) AppendMetadata(ctx context.Context, totalSols int, rawResponse any) error {
	payload, err := serializeResponse(rawResponse)
	if err != nil {
		s.logger.Warn("failed to serialize API response", zap.Error(err))
		return fmt.Errorf("append_metadata: serialize response: %w", err)
	}

	err = s.withTx(ctx, "append_metadata", func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO api_metadata (total_sols, api_response, last_update)
			VALUES (?, ?, ?)
		`, totalSols, payload, formatTimestamp(s.now()))
		return err
	})
	if err != nil {
		return err
	}

	s.logger.Info("API metadata saved", zap.Int("total_sols", totalSols))
	return nil
}

func serializeResponse(raw any) (string, error) {
	if msg, ok := raw.(json.RawMessage); ok {
		if !json.Valid(msg) {
			return "", errors.New("response is not valid JSON")
		}
		return string(msg), nil
	}
	payload, err := json.Marshal(raw)
	if err != nil {
		return "", err
	}
	return string(payload), nil
}

// GetMetadata returns the most recent audit rows, newest first. It backs
// the operator's audit view only.
func (s *SQLiteStorage) GetMetadata(ctx context.Context, limit int) ([]MetadataEntry, error) {
	query := `SELECT id, total_sols, api_response, last_update FROM api_metadata ORDER BY id DESC`
	args := []any{}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	entries := []MetadataEntry{}
	err := s.withConn(ctx, func(conn *sql.Conn) error {
		rows, err := conn.QueryContext(ctx, query, args...)
		if err != nil {
			return fmt.Errorf("query metadata: %w", err)
		}
		defer rows.Close()

		for rows.Next() {
			var e MetadataEntry
			var total sql.NullInt64
			var response, lastUpdate sql.NullString
			if err := rows.Scan(&e.ID, &total, &response, &lastUpdate); err != nil {
				return fmt.Errorf("scan metadata row: %w", err)
			}
			e.TotalSols = int(total.Int64)
			e.APIResponse = response.String
			if lastUpdate.Valid {
				if t, err := parseTimestamp(lastUpdate.String); err == nil {
					e.LastUpdate = t
				}
			}
			entries = append(entries, e)
		}
		return rows.Err()
	})
	if err != nil {
		return nil, err
	}
	return entries, nil
}
