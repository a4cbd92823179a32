package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"skill-matrix/internal/apperrors"
	"skill-matrix/internal/database"
	"skill-matrix/internal/domain/catalog"
)

const uniqueViolation = "23505"

var auditColumns = []string{"created_by", "created_at", "updated_by", "updated_at"}

// pgTable holds the SQL shared by every Postgres repository. columns never
// include id; scan receives id followed by columns in order.
type pgTable[T any] struct {
	db      database.DB
	name    string
	columns []string
	scan    func(row database.Row) (T, error)
	values  func(v T) []any
	key     func(v T) int64
}

func (t pgTable[T]) selectSQL() string {
	return "SELECT id, " + strings.Join(t.columns, ", ") + " FROM " + t.name
}

func (t pgTable[T]) returning() string {
	return " RETURNING id, " + strings.Join(t.columns, ", ")
}

func (t pgTable[T]) query(ctx context.Context, where string, args ...any) ([]T, error) {
	q := t.selectSQL()
	if where != "" {
		q += " WHERE " + where
	}
	q += " ORDER BY id ASC"

	rows, err := t.db.Query(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]T, 0)
	for rows.Next() {
		v, err := t.scan(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (t pgTable[T]) List(ctx context.Context) ([]T, error) {
	return t.query(ctx, "")
}

func (t pgTable[T]) GetByID(ctx context.Context, id int64) (T, error) {
	v, err := t.scan(t.db.QueryRow(ctx, t.selectSQL()+" WHERE id = $1", id))
	if err != nil {
		var zero T
		if isNoRows(err) {
			return zero, fmt.Errorf("%s %d: %w", t.name, id, apperrors.ErrNotFound)
		}
		return zero, err
	}
	return v, nil
}

func (t pgTable[T]) Create(ctx context.Context, v T) (T, error) {
	marks := make([]string, len(t.columns))
	for i := range t.columns {
		marks[i] = "$" + strconv.Itoa(i+1)
	}
	q := "INSERT INTO " + t.name + " (" + strings.Join(t.columns, ", ") + ") VALUES (" + strings.Join(marks, ", ") + ")" + t.returning()

	created, err := t.scan(t.db.QueryRow(ctx, q, t.values(v)...))
	if err != nil {
		var zero T
		return zero, t.mapWriteErr(err)
	}
	return created, nil
}

func (t pgTable[T]) Update(ctx context.Context, v T) (T, error) {
	sets := make([]string, len(t.columns))
	for i, c := range t.columns {
		sets[i] = c + " = $" + strconv.Itoa(i+1)
	}
	id := t.key(v)
	args := append(t.values(v), id)
	q := "UPDATE " + t.name + " SET " + strings.Join(sets, ", ") + " WHERE id = $" + strconv.Itoa(len(args)) + t.returning()

	updated, err := t.scan(t.db.QueryRow(ctx, q, args...))
	if err != nil {
		var zero T
		if isNoRows(err) {
			return zero, fmt.Errorf("%s %d: %w", t.name, id, apperrors.ErrNotFound)
		}
		return zero, t.mapWriteErr(err)
	}
	return updated, nil
}

func (t pgTable[T]) Delete(ctx context.Context, id int64) error {
	affected, err := t.db.Exec(ctx, "DELETE FROM "+t.name+" WHERE id = $1", id)
	if err != nil {
		return err
	}
	if affected == 0 {
		return fmt.Errorf("%s %d: %w", t.name, id, apperrors.ErrNotFound)
	}
	return nil
}

// findActivePair returns the lowest-id active row for (left, right).
func (t pgTable[T]) findActivePair(ctx context.Context, leftCol, rightCol string, left, right int64) (T, bool, error) {
	rows, err := t.query(ctx, "is_active AND "+leftCol+" = $1 AND "+rightCol+" = $2", left, right)
	if err != nil || len(rows) == 0 {
		var zero T
		return zero, false, err
	}
	return rows[0], true, nil
}

func (t pgTable[T]) mapWriteErr(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return fmt.Errorf("%s: %w", t.name, apperrors.ErrConflict)
	}
	return err
}

func isNoRows(err error) bool {
	return err == sql.ErrNoRows || errors.Is(err, pgx.ErrNoRows)
}

func auditDest(a *catalog.Audit) []any {
	return []any{&a.CreatedBy, &a.CreatedAt, &a.UpdatedBy, &a.UpdatedAt}
}

func auditValues(a catalog.Audit) []any {
	return []any{a.CreatedBy, a.CreatedAt, a.UpdatedBy, a.UpdatedAt}
}

func withAudit(cols ...string) []string {
	return append(cols, auditColumns...)
}
