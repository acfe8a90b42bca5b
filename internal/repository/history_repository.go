package repository

import (
	"database/sql"
	"fmt"
	"time"
)

// CreatedIssue is one row of the creation journal: an issue the engine
// created on behalf of a note. The journal is append-only and is never
// consulted during a resolution pass.
type CreatedIssue struct {
	ID        string
	TaskID    string
	QueueKey  string
	Summary   string
	Source    string
	CreatedAt time.Time
}

type HistoryRepository struct {
	db *sql.DB
}

func NewHistoryRepository(db *sql.DB) *HistoryRepository {
	return &HistoryRepository{db: db}
}

func (r *HistoryRepository) Record(issue *CreatedIssue) error {
	query := `
		INSERT INTO created_issues (id, task_id, queue_key, summary, source)
        VALUES (?, ?, ?, ?, ?)
	`

	_, err := r.db.Exec(query,
		issue.ID,
		issue.TaskID,
		issue.QueueKey,
		issue.Summary,
		issue.Source,
	)

	if err != nil {
		return fmt.Errorf("record created issue: %w", err)
	}

	return nil
}

func (r *HistoryRepository) ListRecent(limit int) ([]CreatedIssue, error) {
	query := `
		SELECT id, task_id, queue_key, summary, source, created_at
        FROM created_issues
        ORDER BY created_at DESC, rowid DESC
        LIMIT ?
	`

	rows, err := r.db.Query(query, limit)
	if err != nil {
		return nil, fmt.Errorf("list created issues: %w", err)
	}
	defer rows.Close()

	var issues []CreatedIssue
	for rows.Next() {
		var issue CreatedIssue
		if err := rows.Scan(&issue.ID, &issue.TaskID, &issue.QueueKey, &issue.Summary, &issue.Source, &issue.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan created issue: %w", err)
		}
		issues = append(issues, issue)
	}
	return issues, rows.Err()
}
