package sqlite

import (
	"fmt"
	"time"

	"attendance/internal/model"
)

// UploadRepository keeps a local history of frame upload outcomes.
type UploadRepository struct {
	db *DB
}

func NewUploadRepository(db *DB) *UploadRepository {
	return &UploadRepository{db: db}
}

// Insert records the outcome of one upload.
func (r *UploadRepository) Insert(u *model.UploadRecord) (int64, error) {
	r.db.Lock()
	defer r.db.Unlock()

	result, err := r.db.Conn().Exec(`
		INSERT INTO uploads (frame_id, captured_at, size, status, error)
		VALUES (?, ?, ?, ?, ?)
	`, u.FrameID, u.CapturedAt.UTC(), u.Size, u.Status, u.Error)
	if err != nil {
		return 0, fmt.Errorf("failed to insert upload: %w", err)
	}
	return result.LastInsertId()
}

// Recent returns the newest uploads first, at most limit rows.
func (r *UploadRepository) Recent(limit int) ([]model.UploadRecord, error) {
	r.db.RLock()
	defer r.db.RUnlock()

	rows, err := r.db.Conn().Query(`
		SELECT id, frame_id, captured_at, size, status, error
		FROM uploads ORDER BY captured_at DESC, id DESC LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query uploads: %w", err)
	}
	defer rows.Close()

	var uploads []model.UploadRecord
	for rows.Next() {
		var u model.UploadRecord
		if err := rows.Scan(&u.ID, &u.FrameID, &u.CapturedAt, &u.Size, &u.Status, &u.Error); err != nil {
			return nil, fmt.Errorf("failed to scan upload: %w", err)
		}
		uploads = append(uploads, u)
	}
	return uploads, rows.Err()
}

// CountByStatus returns how many uploads ended with each status since the given time.
func (r *UploadRepository) CountByStatus(since time.Time) (map[string]int, error) {
	r.db.RLock()
	defer r.db.RUnlock()

	rows, err := r.db.Conn().Query(`
		SELECT status, COUNT(*) FROM uploads WHERE captured_at >= ? GROUP BY status
	`, since.UTC())
	if err != nil {
		return nil, fmt.Errorf("failed to count uploads: %w", err)
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var status string
		var n int
		if err := rows.Scan(&status, &n); err != nil {
			return nil, fmt.Errorf("failed to scan upload count: %w", err)
		}
		counts[status] = n
	}
	return counts, rows.Err()
}

// DeleteBefore prunes history older than t.
func (r *UploadRepository) DeleteBefore(t time.Time) (int64, error) {
	r.db.Lock()
	defer r.db.Unlock()

	result, err := r.db.Conn().Exec(`DELETE FROM uploads WHERE captured_at < ?`, t.UTC())
	if err != nil {
		return 0, fmt.Errorf("failed to prune uploads: %w", err)
	}
	return result.RowsAffected()
}
