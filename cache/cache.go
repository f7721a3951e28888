// Package cache holds the client-side view of the remote collections. The
// remote API owns all state; this cache only shortens the path between a
// mutation and the next render. Mutations never touch cached entries
// directly, they invalidate a tag and let the next read refetch.
package cache

import (
	"context"
	"fmt"
	"sync"

	"golang.org/x/sync/singleflight"

	"github.com/htol/libshelf/book"
	"github.com/htol/libshelf/logger"
)

// Tag names a logical remote collection
type Tag string

const (
	TagBook   Tag = "Book"
	TagBorrow Tag = "Borrow"
)

// Source fetches collections from the remote API. *gateway.Gateway
// satisfies it.
type Source interface {
	ListBooks(ctx context.Context) ([]book.Book, error)
	BorrowSummary(ctx context.Context) ([]book.BorrowSummaryItem, error)
}

// entry is one cached collection. gen increments on every invalidation so
// a fetch that raced with an invalidation cannot mark the entry fresh
// again with pre-mutation data.
type entry struct {
	fresh bool
	gen   uint64
}

// Inventory caches the book list and borrow summary with per-tag
// staleness. Concurrent reads of the same stale tag coalesce into a single
// fetch via singleflight.
type Inventory struct {
	source Source
	group  singleflight.Group

	mu      sync.Mutex
	books   []book.Book
	summary []book.BorrowSummaryItem
	state   map[Tag]*entry
}

// NewInventory creates an empty cache; both tags start stale so the first
// read fetches.
func NewInventory(source Source) *Inventory {
	return &Inventory{
		source: source,
		state: map[Tag]*entry{
			TagBook:   {},
			TagBorrow: {},
		},
	}
}

// Invalidate marks the given collections stale. The next read of each
// refetches from the source.
func (c *Inventory) Invalidate(tags ...Tag) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, tag := range tags {
		e, ok := c.state[tag]
		if !ok {
			logger.Warn("Invalidate called with unknown tag", "tag", tag)
			continue
		}
		e.fresh = false
		e.gen++
	}
}

// Books returns the cached book list, fetching it when stale
func (c *Inventory) Books(ctx context.Context) ([]book.Book, error) {
	c.mu.Lock()
	e := c.state[TagBook]
	if e.fresh {
		books := c.books
		c.mu.Unlock()
		return books, nil
	}
	gen := e.gen
	c.mu.Unlock()

	// The generation is part of the flight key: readers arriving after a
	// newer invalidation start their own fetch instead of joining this one.
	v, err, _ := c.group.Do(flightKey(TagBook, gen), func() (any, error) {
		books, err := c.source.ListBooks(ctx)
		if err != nil {
			return nil, err
		}
		c.mu.Lock()
		c.books = books
		if c.state[TagBook].gen == gen {
			c.state[TagBook].fresh = true
		}
		c.mu.Unlock()
		return books, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]book.Book), nil
}

// Summary returns the cached borrow summary, fetching it when stale
func (c *Inventory) Summary(ctx context.Context) ([]book.BorrowSummaryItem, error) {
	c.mu.Lock()
	e := c.state[TagBorrow]
	if e.fresh {
		items := c.summary
		c.mu.Unlock()
		return items, nil
	}
	gen := e.gen
	c.mu.Unlock()

	v, err, _ := c.group.Do(flightKey(TagBorrow, gen), func() (any, error) {
		items, err := c.source.BorrowSummary(ctx)
		if err != nil {
			return nil, err
		}
		c.mu.Lock()
		c.summary = items
		if c.state[TagBorrow].gen == gen {
			c.state[TagBorrow].fresh = true
		}
		c.mu.Unlock()
		return items, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]book.BorrowSummaryItem), nil
}

func flightKey(tag Tag, gen uint64) string {
	return fmt.Sprintf("%s#%d", tag, gen)
}
