package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	_ "github.com/mattn/go-sqlite3"
)

// RunRecord is the history row for one pipeline run.
type RunRecord struct {
	ID         string
	StartedAt  time.Time
	FinishedAt time.Time
	Status     string
	TopicTitle string
	VideoID    string
	VideoURL   string
	Error      string
}

// History keeps run outcomes and used topics in SQLite so repeated runs can
// skip topics already turned into videos.
type History struct {
	db *sql.DB
	sb sq.StatementBuilderType
}

// OpenHistory opens (creating if needed) the history database.
func OpenHistory(path string) (*History, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open history db: %w", err)
	}
	h := &History{
		db: db,
		sb: sq.StatementBuilder.PlaceholderFormat(sq.Question),
	}
	if err := h.migrate(); err != nil {
		_ = db.Close()
		return nil, err
	}
	return h, nil
}

func (h *History) Close() error { return h.db.Close() }

func (h *History) migrate() error {
	schema := []string{
		`CREATE TABLE IF NOT EXISTS runs (
			id TEXT PRIMARY KEY,
			started_at TIMESTAMP NOT NULL,
			finished_at TIMESTAMP NOT NULL,
			status TEXT NOT NULL,
			topic_title TEXT,
			video_id TEXT,
			video_url TEXT,
			error TEXT
		)`,
		`CREATE TABLE IF NOT EXISTS used_topics (
			title TEXT PRIMARY KEY,
			source TEXT NOT NULL,
			used_at TIMESTAMP NOT NULL
		)`,
	}
	for _, stmt := range schema {
		if _, err := h.db.Exec(stmt); err != nil {
			return fmt.Errorf("migrate history db: %w", err)
		}
	}
	return nil
}

// RecordRun upserts the run row.
func (h *History) RecordRun(ctx context.Context, rec RunRecord) error {
	query, args, err := h.sb.
		Insert("runs").
		Columns("id", "started_at", "finished_at", "status", "topic_title", "video_id", "video_url", "error").
		Values(rec.ID, rec.StartedAt, rec.FinishedAt, rec.Status, rec.TopicTitle, rec.VideoID, rec.VideoURL, rec.Error).
		Suffix(`ON CONFLICT(id) DO UPDATE SET
			finished_at = excluded.finished_at,
			status = excluded.status,
			topic_title = excluded.topic_title,
			video_id = excluded.video_id,
			video_url = excluded.video_url,
			error = excluded.error`).
		ToSql()
	if err != nil {
		return fmt.Errorf("build run upsert: %w", err)
	}
	if _, err := h.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("record run: %w", err)
	}
	return nil
}

// MarkTopicUsed remembers a topic so later runs skip it.
func (h *History) MarkTopicUsed(ctx context.Context, title, source string) error {
	query, args, err := h.sb.
		Insert("used_topics").
		Columns("title", "source", "used_at").
		Values(title, source, time.Now().UTC()).
		Suffix("ON CONFLICT(title) DO NOTHING").
		ToSql()
	if err != nil {
		return fmt.Errorf("build topic insert: %w", err)
	}
	if _, err := h.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("mark topic used: %w", err)
	}
	return nil
}

// TopicUsed reports whether a topic title already produced a video.
func (h *History) TopicUsed(ctx context.Context, title string) (bool, error) {
	query, args, err := h.sb.
		Select("1").
		From("used_topics").
		Where(sq.Eq{"title": title}).
		Limit(1).
		ToSql()
	if err != nil {
		return false, fmt.Errorf("build topic query: %w", err)
	}

	var one int
	err = h.db.QueryRowContext(ctx, query, args...).Scan(&one)
	switch {
	case err == sql.ErrNoRows:
		return false, nil
	case err != nil:
		return false, fmt.Errorf("query used topic: %w", err)
	}
	return true, nil
}

// RecentRuns returns the newest runs first.
func (h *History) RecentRuns(ctx context.Context, limit int) ([]RunRecord, error) {
	query, args, err := h.sb.
		Select("id", "started_at", "finished_at", "status", "topic_title", "video_id", "video_url", "error").
		From("runs").
		OrderBy("started_at DESC").
		Limit(uint64(limit)).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build runs query: %w", err)
	}

	rows, err := h.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	var out []RunRecord
	for rows.Next() {
		var rec RunRecord
		if err := rows.Scan(&rec.ID, &rec.StartedAt, &rec.FinishedAt, &rec.Status,
			&rec.TopicTitle, &rec.VideoID, &rec.VideoURL, &rec.Error); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration: %w", err)
	}
	return out, nil
}
