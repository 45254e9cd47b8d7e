package repo

import (
	"database/sql"

	"gorm.io/gorm"
)

// rowsCursor читает строки результата по одной через gorm.ScanRows,
// не загружая выборку целиком.
type rowsCursor[T any] struct {
	db     *gorm.DB
	rows   *sql.Rows
	cur    T
	err    error
	closed bool
}

func newRowsCursor[T any](db *gorm.DB, rows *sql.Rows) *rowsCursor[T] {
	return &rowsCursor[T]{db: db, rows: rows}
}

func (c *rowsCursor[T]) Next() bool {
	if c.closed {
		return false
	}
	if !c.rows.Next() {
		c.err = c.rows.Err()
		_ = c.Close()
		return false
	}
	var v T
	if err := c.db.ScanRows(c.rows, &v); err != nil {
		c.err = err
		_ = c.Close()
		return false
	}
	c.cur = v
	return true
}

func (c *rowsCursor[T]) Current() T { return c.cur }
func (c *rowsCursor[T]) Err() error { return c.err }

func (c *rowsCursor[T]) Close() error {
	if c.closed {
		return nil
	}
	c.closed = true
	return c.rows.Close()
}
