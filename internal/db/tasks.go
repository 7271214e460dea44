package db

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/existflow/ironfocus/internal/model"
	"github.com/existflow/ironfocus/internal/store"
)

// sqliteTimeFormat is fixed width so lexical order matches time order.
const sqliteTimeFormat = "2006-01-02T15:04:05.000000000Z07:00"

var _ store.Store = (*DB)(nil)

// taskRow is the scan target for both dialects. Timestamps come back as text
// from SQLite and as time.Time from PostgreSQL; database/sql renders the
// latter as RFC 3339 when the destination is a string.
type taskRow struct {
	ID        string         `db:"id"`
	Name      string         `db:"name"`
	CreatedAt string         `db:"created_at"`
	UpdatedAt sql.NullString `db:"updated_at"`
	IsActive  bool           `db:"is_active"`
}

func (r taskRow) toTask() (model.Task, error) {
	created, err := parseTime(r.CreatedAt)
	if err != nil {
		return model.Task{}, fmt.Errorf("task %s created_at: %w", r.ID, err)
	}

	t := model.Task{
		ID:        r.ID,
		Name:      r.Name,
		CreatedAt: created,
		IsActive:  r.IsActive,
	}
	if r.UpdatedAt.Valid && r.UpdatedAt.String != "" {
		updated, err := parseTime(r.UpdatedAt.String)
		if err != nil {
			return model.Task{}, fmt.Errorf("task %s updated_at: %w", r.ID, err)
		}
		t.UpdatedAt = &updated
	}
	return t, nil
}

func parseTime(s string) (time.Time, error) {
	return time.Parse(time.RFC3339Nano, s)
}

// timeArg converts a timestamp into the bind value the dialect stores
func (d *DB) timeArg(t time.Time) interface{} {
	if d.dialect == DialectSQLite {
		return t.UTC().Format(sqliteTimeFormat)
	}
	return t.UTC()
}

func (d *DB) idText() string {
	if d.dialect == DialectPostgres {
		return "id::text"
	}
	return "id"
}

const selectTasks = `SELECT id, name, created_at, updated_at, is_active FROM tasks`

func (d *DB) queryTasks(ctx context.Context, query string, args ...interface{}) ([]model.Task, error) {
	var rows []taskRow
	if err := d.db.SelectContext(ctx, &rows, d.db.Rebind(query), args...); err != nil {
		return nil, err
	}

	tasks := make([]model.Task, 0, len(rows))
	for _, r := range rows {
		t, err := r.toTask()
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, t)
	}
	return tasks, nil
}

// ListActive returns active tasks, newest first
func (d *DB) ListActive(ctx context.Context) ([]model.Task, error) {
	tasks, err := d.queryTasks(ctx,
		selectTasks+` WHERE is_active = ? ORDER BY created_at DESC`, true)
	if err != nil {
		return nil, fmt.Errorf("failed to list active tasks: %w", err)
	}
	return tasks, nil
}

// ListCompleted returns completed tasks, most recently completed first
func (d *DB) ListCompleted(ctx context.Context, limit int) ([]model.Task, error) {
	if limit <= 0 {
		limit = store.CompletedLimit
	}
	tasks, err := d.queryTasks(ctx,
		selectTasks+` WHERE is_active = ? ORDER BY updated_at DESC NULLS LAST, created_at DESC LIMIT ?`,
		false, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list completed tasks: %w", err)
	}
	return tasks, nil
}

// CreateTask inserts a new active task
func (d *DB) CreateTask(ctx context.Context, name string) (model.Task, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return model.Task{}, store.ErrEmptyName
	}

	t := model.Task{
		ID:        uuid.New().String(),
		Name:      name,
		CreatedAt: d.now().UTC(),
		IsActive:  true,
	}

	_, err := d.db.ExecContext(ctx,
		d.db.Rebind(`INSERT INTO tasks (id, name, created_at, is_active) VALUES (?, ?, ?, ?)`),
		t.ID, t.Name, d.timeArg(t.CreatedAt), true)
	if err != nil {
		return model.Task{}, fmt.Errorf("failed to create task: %w", err)
	}

	return t, nil
}

// CompleteTask marks an active task completed. Only the first completion
// stamps updated_at; later calls report ErrAlreadyCompleted.
func (d *DB) CompleteTask(ctx context.Context, id string) error {
	res, err := d.db.ExecContext(ctx,
		d.db.Rebind(`UPDATE tasks SET is_active = ?, updated_at = ? WHERE `+d.idText()+` = ? AND is_active = ?`),
		false, d.timeArg(d.now()), id, true)
	if err != nil {
		return fmt.Errorf("failed to complete task: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to complete task: %w", err)
	}
	if n > 0 {
		return nil
	}

	var exists int
	err = d.db.GetContext(ctx, &exists,
		d.db.Rebind(`SELECT COUNT(*) FROM tasks WHERE `+d.idText()+` = ?`), id)
	if err != nil {
		return fmt.Errorf("failed to complete task: %w", err)
	}
	if exists == 0 {
		return store.ErrNotFound
	}
	return store.ErrAlreadyCompleted
}

// FindTask looks a task up by full id or unique prefix
func (d *DB) FindTask(ctx context.Context, idOrPrefix string) (model.Task, error) {
	idOrPrefix = strings.TrimSpace(idOrPrefix)
	// Ids never contain LIKE wildcards.
	if idOrPrefix == "" || strings.ContainsAny(idOrPrefix, `%_`) {
		return model.Task{}, store.ErrNotFound
	}

	tasks, err := d.queryTasks(ctx,
		selectTasks+` WHERE `+d.idText()+` LIKE ? ORDER BY created_at DESC LIMIT 2`,
		idOrPrefix+"%")
	if err != nil {
		return model.Task{}, fmt.Errorf("failed to find task: %w", err)
	}

	switch len(tasks) {
	case 0:
		return model.Task{}, store.ErrNotFound
	case 1:
		return tasks[0], nil
	}

	// A full id beats a longer id sharing it as prefix.
	for _, t := range tasks {
		if t.ID == idOrPrefix {
			return t, nil
		}
	}
	return model.Task{}, store.ErrAmbiguous
}
