package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"math"

	"github.com/google/uuid"
)

// ErrNotFound is returned for ids and positions with no item.
var ErrNotFound = errors.New("item not found")

// Item is a stored list entry. Size is its height in rows.
type Item struct {
	ID       string `json:"id"`
	Title    string `json:"title"`
	Size     int    `json:"size"`
	Sticky   bool   `json:"sticky"`
	Position int    `json:"position"`
}

// Store persists list items and their order. Positions are kept
// contiguous from zero.
type Store struct {
	db    *sql.DB
	stmts prepared
}

// NewStore prepares the store's statements on db.
func NewStore(ctx context.Context, db *sql.DB) (*Store, error) {
	stmts, err := prepare(ctx, db)
	if err != nil {
		return nil, err
	}
	return &Store{db: db, stmts: stmts}, nil
}

// Close releases the prepared statements. The database stays open.
func (s *Store) Close() error {
	return s.stmts.Close()
}

func scanItem(row interface{ Scan(...any) error }) (Item, error) {
	var it Item
	err := row.Scan(&it.ID, &it.Title, &it.Size, &it.Sticky, &it.Position)
	return it, err
}

// List returns every item in order.
func (s *Store) List(ctx context.Context) ([]Item, error) {
	rows, err := s.stmts[stmtList].QueryContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list items: %w", err)
	}
	defer rows.Close()

	var items []Item
	for rows.Next() {
		it, err := scanItem(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan item: %w", err)
		}
		items = append(items, it)
	}
	return items, rows.Err()
}

// Get returns the item with id.
func (s *Store) Get(ctx context.Context, id string) (Item, error) {
	it, err := scanItem(s.stmts[stmtGet].QueryRowContext(ctx, id))
	if errors.Is(err, sql.ErrNoRows) {
		return Item{}, fmt.Errorf("get %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return Item{}, fmt.Errorf("failed to get item %s: %w", id, err)
	}
	return it, nil
}

// Count returns the number of items.
func (s *Store) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.stmts[stmtCount].QueryRowContext(ctx).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count items: %w", err)
	}
	return n, nil
}

func (s *Store) tx(ctx context.Context, fn func(*sql.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck
	if err := fn(tx); err != nil {
		return err
	}
	return tx.Commit()
}

// Insert adds an item at position at. Positions past the end append.
func (s *Store) Insert(ctx context.Context, at int, title string, size int, sticky bool) (Item, error) {
	if size <= 0 {
		return Item{}, fmt.Errorf("item size must be positive: %d", size)
	}
	it := Item{ID: uuid.NewString(), Title: title, Size: size, Sticky: sticky}
	err := s.tx(ctx, func(tx *sql.Tx) error {
		var last int
		if err := s.stmts.in(ctx, tx, stmtMaxPos).QueryRowContext(ctx).Scan(&last); err != nil {
			return fmt.Errorf("failed to read last position: %w", err)
		}
		it.Position = last + 1
		if at >= 0 && at <= last {
			it.Position = at
			if _, err := s.stmts.in(ctx, tx, stmtShift).ExecContext(ctx, 1, at, math.MaxInt32); err != nil {
				return fmt.Errorf("failed to shift items: %w", err)
			}
		}
		if _, err := s.stmts.in(ctx, tx, stmtInsert).ExecContext(ctx, it.ID, it.Title, it.Size, it.Sticky, it.Position); err != nil {
			return fmt.Errorf("failed to insert item: %w", err)
		}
		return nil
	})
	return it, err
}

// Update stores the title, size and sticky flag of it.
func (s *Store) Update(ctx context.Context, it Item) error {
	res, err := s.stmts[stmtUpdate].ExecContext(ctx, it.Title, it.Size, it.Sticky, it.ID)
	if err != nil {
		return fmt.Errorf("failed to update item %s: %w", it.ID, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("update %s: %w", it.ID, ErrNotFound)
	}
	return nil
}

// Delete removes the item with id and closes the gap it leaves.
func (s *Store) Delete(ctx context.Context, id string) error {
	return s.tx(ctx, func(tx *sql.Tx) error {
		it, err := scanItem(s.stmts.in(ctx, tx, stmtGet).QueryRowContext(ctx, id))
		if errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("delete %s: %w", id, ErrNotFound)
		}
		if err != nil {
			return fmt.Errorf("failed to get item %s: %w", id, err)
		}
		if _, err := s.stmts.in(ctx, tx, stmtDelete).ExecContext(ctx, id); err != nil {
			return fmt.Errorf("failed to delete item %s: %w", id, err)
		}
		if _, err := s.stmts.in(ctx, tx, stmtShift).ExecContext(ctx, -1, it.Position+1, math.MaxInt32); err != nil {
			return fmt.Errorf("failed to shift items: %w", err)
		}
		return nil
	})
}

// Move moves the item at position from to position to.
func (s *Store) Move(ctx context.Context, from, to int) error {
	if from == to {
		return nil
	}
	return s.tx(ctx, func(tx *sql.Tx) error {
		at := s.stmts.in(ctx, tx, stmtAt)
		var id, target string
		for pos, dst := range map[int]*string{from: &id, to: &target} {
			err := at.QueryRowContext(ctx, pos).Scan(dst)
			if errors.Is(err, sql.ErrNoRows) {
				return fmt.Errorf("move %d to %d: position %d: %w", from, to, pos, ErrNotFound)
			}
			if err != nil {
				return fmt.Errorf("failed to read position %d: %w", pos, err)
			}
		}
		var err error
		if from < to {
			_, err = s.stmts.in(ctx, tx, stmtShift).ExecContext(ctx, -1, from+1, to)
		} else {
			_, err = s.stmts.in(ctx, tx, stmtShift).ExecContext(ctx, 1, to, from-1)
		}
		if err != nil {
			return fmt.Errorf("failed to shift items: %w", err)
		}
		if _, err := s.stmts.in(ctx, tx, stmtSetPos).ExecContext(ctx, to, id); err != nil {
			return fmt.Errorf("failed to move item %s: %w", id, err)
		}
		return nil
	})
}

var seedWords = []string{
	"apricot", "basil", "cedar", "dune", "ember", "fjord", "garnet", "harbor",
	"indigo", "juniper", "kelp", "lagoon", "meadow", "nectar", "orchid", "pebble",
	"quartz", "river", "saffron", "tundra", "umber", "violet", "willow", "yarrow",
}

// Seed fills an empty store with n items: every eighth one is a sticky
// section header, the rest cycle through sizes one to three. It returns
// how many items it added.
func (s *Store) Seed(ctx context.Context, n int) (int, error) {
	count, err := s.Count(ctx)
	if err != nil {
		return 0, err
	}
	if count > 0 || n <= 0 {
		return 0, nil
	}
	err = s.tx(ctx, func(tx *sql.Tx) error {
		insert := s.stmts.in(ctx, tx, stmtInsert)
		for i := range n {
			title := fmt.Sprintf("%s %d", seedWords[i%len(seedWords)], i)
			size, sticky := 1+i%3, false
			if i%8 == 0 {
				title, size, sticky = fmt.Sprintf("Section %d", i/8+1), 1, true
			}
			if _, err := insert.ExecContext(ctx, uuid.NewString(), title, size, sticky, i); err != nil {
				return fmt.Errorf("failed to seed item %d: %w", i, err)
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return n, nil
}
