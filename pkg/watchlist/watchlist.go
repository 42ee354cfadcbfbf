// Package watchlist keeps the ordered set of tracked coins for the lifetime of the process
package watchlist

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/raykavin/coinbot/pkg/core"
	"github.com/tidwall/buntdb"
)

const (
	keyPrefix = "coin:"
	// seqIndex orders entries by insertion
	seqIndex = "seq_index"
)

// Outcome is the non-error result of a watchlist mutation
type Outcome int

const (
	Added Outcome = iota + 1
	AlreadyPresent
	Removed
	NotPresent
)

func (o Outcome) String() string {
	switch o {
	case Added:
		return "added"
	case AlreadyPresent:
		return "already_present"
	case Removed:
		return "removed"
	case NotPresent:
		return "not_present"
	default:
		return "unknown"
	}
}

type entry struct {
	Seq     int64       `json:"seq"`
	Symbol  core.Symbol `json:"symbol"`
	AddedAt time.Time   `json:"added_at"`
}

// Watchlist is an insertion ordered set of symbols backed by an in-memory buntdb.
// buntdb allows a single writer at a time, which keeps add/remove/list atomic
// with respect to each other.
type Watchlist struct {
	db      *buntdb.DB
	lastSeq int64
}

// New creates an empty watchlist. Nothing is written to disk.
func New() (*Watchlist, error) {
	db, err := buntdb.Open(":memory:")
	if err != nil {
		return nil, fmt.Errorf("failed to open buntdb: %w", err)
	}

	err = db.CreateIndex(seqIndex, keyPrefix+"*", buntdb.IndexJSON("seq"))
	if err != nil {
		return nil, fmt.Errorf("failed to create index: %w", err)
	}

	return &Watchlist{db: db}, nil
}

func key(symbol core.Symbol) string {
	return keyPrefix + string(symbol)
}

// Add appends the normalized symbol unless it is already tracked
func (w *Watchlist) Add(raw string) (Outcome, error) {
	symbol, err := core.ParseSymbol(raw)
	if err != nil {
		return 0, err
	}

	outcome := Added
	err = w.db.Update(func(tx *buntdb.Tx) error {
		_, err := tx.Get(key(symbol))
		if err == nil {
			outcome = AlreadyPresent
			return nil
		}
		if !errors.Is(err, buntdb.ErrNotFound) {
			return err
		}

		// writers are serialized by buntdb, no atomic needed
		w.lastSeq++
		content, err := json.Marshal(entry{Seq: w.lastSeq, Symbol: symbol, AddedAt: time.Now()})
		if err != nil {
			return fmt.Errorf("failed to marshal entry: %w", err)
		}

		_, _, err = tx.Set(key(symbol), string(content), nil)
		return err
	})
	if err != nil {
		return 0, fmt.Errorf("failed to add %s: %w", symbol, err)
	}

	return outcome, nil
}

// Remove deletes the normalized symbol, keeping the order of the others
func (w *Watchlist) Remove(raw string) (Outcome, error) {
	symbol, err := core.ParseSymbol(raw)
	if err != nil {
		return 0, err
	}

	outcome := Removed
	err = w.db.Update(func(tx *buntdb.Tx) error {
		_, err := tx.Delete(key(symbol))
		if errors.Is(err, buntdb.ErrNotFound) {
			outcome = NotPresent
			return nil
		}
		return err
	})
	if err != nil {
		return 0, fmt.Errorf("failed to remove %s: %w", symbol, err)
	}

	return outcome, nil
}

// List returns a snapshot of the tracked symbols in insertion order
func (w *Watchlist) List() ([]core.Symbol, error) {
	symbols := make([]core.Symbol, 0)
	err := w.db.View(func(tx *buntdb.Tx) error {
		var decodeErr error
		err := tx.Ascend(seqIndex, func(_, value string) bool {
			var e entry
			if decodeErr = json.Unmarshal([]byte(value), &e); decodeErr != nil {
				return false
			}
			symbols = append(symbols, e.Symbol)
			return true
		})
		if err != nil {
			return err
		}
		return decodeErr
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list watchlist: %w", err)
	}

	return symbols, nil
}

// Len returns the number of tracked symbols
func (w *Watchlist) Len() (int, error) {
	var n int
	err := w.db.View(func(tx *buntdb.Tx) error {
		var err error
		n, err = tx.Len()
		return err
	})
	return n, err
}

// Close releases the underlying database
func (w *Watchlist) Close() error {
	return w.db.Close()
}
