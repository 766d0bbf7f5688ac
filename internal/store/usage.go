package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// SectionStat counts views of one page section.
type SectionStat struct {
	Section string `json:"section"`
	Views   int64  `json:"views"`
}

// PresetStat counts the phrases of one preset.
type PresetStat struct {
	Name    string `json:"name"`
	Phrases int64  `json:"phrases"`
}

// StreamRecord is one typewriter stream session.
type StreamRecord struct {
	ID           string     `json:"id"`
	HashedClient string     `json:"hashed_client"`
	Preset       string     `json:"preset"`
	Frames       int64      `json:"frames"`
	StartedAt    time.Time  `json:"started_at"`
	EndedAt      *time.Time `json:"ended_at,omitempty"`
	Reason       string     `json:"reason,omitempty"`
}

// Stats is the admin dashboard summary.
type Stats struct {
	TotalSectionViews int64          `json:"total_section_views"`
	UniqueVisitors    int64          `json:"unique_visitors"`
	ViewsToday        int64          `json:"views_today"`
	ViewsThisWeek     int64          `json:"views_this_week"`
	TopSections       []SectionStat  `json:"top_sections"`
	TotalStreams      int64          `json:"total_streams"`
	TotalFrames       int64          `json:"total_frames"`
	RecentStreams     []StreamRecord `json:"recent_streams"`
	Presets           []PresetStat   `json:"presets"`
}

// RecordSectionView stores that a (hashed) client reached a section.
func (s *Store) RecordSectionView(ctx context.Context, hashedClient, section string) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO section_views (hashed_client, section, timestamp)
		VALUES (?, ?, ?)
	`, hashedClient, section, s.timestamp())
	if err != nil {
		return fmt.Errorf("store: record section view: %w", err)
	}
	return nil
}

// StartStream records the start of a stream session.
func (s *Store) StartStream(ctx context.Context, id, hashedClient, preset string) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO streams (id, hashed_client, preset, started_at)
		VALUES (?, ?, ?, ?)
	`, id, hashedClient, preset, s.timestamp())
	if err != nil {
		return fmt.Errorf("store: start stream %s: %w", id, err)
	}
	return nil
}

// FinishStream records how a stream session ended.
func (s *Store) FinishStream(ctx context.Context, id string, frames int, reason string) error {
	result, err := s.db.ExecContext(ctx, `
		UPDATE streams SET frames = ?, ended_at = ?, reason = ?
		WHERE id = ?
	`, frames, s.timestamp(), reason, id)
	if err != nil {
		return fmt.Errorf("store: finish stream %s: %w", id, err)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// Stats gathers the dashboard summary.
func (s *Store) Stats(ctx context.Context) (*Stats, error) {
	stats := &Stats{}
	now := s.timestamp()

	counts := []struct {
		dst   *int64
		query string
		args  []any
	}{
		{&stats.TotalSectionViews, `SELECT COUNT(*) FROM section_views`, nil},
		{&stats.UniqueVisitors, `SELECT COUNT(DISTINCT hashed_client) FROM section_views`, nil},
		{&stats.ViewsToday, `SELECT COUNT(*) FROM section_views WHERE timestamp >= ?`, []any{now.Add(-24 * time.Hour)}},
		{&stats.ViewsThisWeek, `SELECT COUNT(*) FROM section_views WHERE timestamp >= ?`, []any{now.Add(-7 * 24 * time.Hour)}},
		{&stats.TotalStreams, `SELECT COUNT(*) FROM streams`, nil},
		{&stats.TotalFrames, `SELECT COALESCE(SUM(frames), 0) FROM streams`, nil},
	}
	for _, c := range counts {
		if err := s.db.QueryRowContext(ctx, c.query, c.args...).Scan(c.dst); err != nil {
			return nil, fmt.Errorf("store: stats: %w", err)
		}
	}

	var err error
	if stats.TopSections, err = s.topSections(ctx, 10); err != nil {
		return nil, err
	}
	if stats.RecentStreams, err = s.recentStreams(ctx, 20); err != nil {
		return nil, err
	}
	if stats.Presets, err = s.presetStats(ctx); err != nil {
		return nil, err
	}
	return stats, nil
}

func (s *Store) topSections(ctx context.Context, limit int) ([]SectionStat, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT section, COUNT(*) AS views
		FROM section_views
		GROUP BY section
		ORDER BY views DESC, section
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("store: top sections: %w", err)
	}
	defer rows.Close()

	var out []SectionStat
	for rows.Next() {
		var st SectionStat
		if err := rows.Scan(&st.Section, &st.Views); err != nil {
			return nil, fmt.Errorf("store: top sections: %w", err)
		}
		out = append(out, st)
	}
	return out, rows.Err()
}

func (s *Store) recentStreams(ctx context.Context, limit int) ([]StreamRecord, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, hashed_client, preset, frames, started_at, ended_at, reason
		FROM streams
		ORDER BY started_at DESC, id
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("store: recent streams: %w", err)
	}
	defer rows.Close()

	var out []StreamRecord
	for rows.Next() {
		var r StreamRecord
		var ended sql.NullTime
		if err := rows.Scan(&r.ID, &r.HashedClient, &r.Preset, &r.Frames, &r.StartedAt, &ended, &r.Reason); err != nil {
			return nil, fmt.Errorf("store: recent streams: %w", err)
		}
		if ended.Valid {
			t := ended.Time
			r.EndedAt = &t
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

func (s *Store) presetStats(ctx context.Context) ([]PresetStat, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT preset, COUNT(*) FROM phrases GROUP BY preset ORDER BY preset
	`)
	if err != nil {
		return nil, fmt.Errorf("store: preset stats: %w", err)
	}
	defer rows.Close()

	var out []PresetStat
	for rows.Next() {
		var p PresetStat
		if err := rows.Scan(&p.Name, &p.Phrases); err != nil {
			return nil, fmt.Errorf("store: preset stats: %w", err)
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// Cleanup deletes usage records older than maxAge and returns how many
// rows were removed.
func (s *Store) Cleanup(ctx context.Context, maxAge time.Duration) (int64, error) {
	cutoff := s.timestamp().Add(-maxAge)

	var total int64
	for _, q := range []string{
		`DELETE FROM section_views WHERE timestamp < ?`,
		`DELETE FROM streams WHERE started_at < ?`,
	} {
		result, err := s.db.ExecContext(ctx, q, cutoff)
		if err != nil {
			return total, fmt.Errorf("store: cleanup: %w", err)
		}
		n, _ := result.RowsAffected()
		total += n
	}
	return total, nil
}
