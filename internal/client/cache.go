package client

import (
	"encoding/json"
	"fmt"

	"github.com/salestream/server/internal/realtime"
	"github.com/salestream/server/internal/sale"
)

// Cache mirrors the server's sales collection, newest first, keyed by id.
// It is populated by one List fetch and kept consistent by applying channel
// events. Every apply is idempotent, so the HTTP response of a local
// mutation and its broadcast echo can both be applied safely in either
// order. Not safe for concurrent use; callers apply events from a single
// goroutine.
type Cache struct {
	sales []*sale.Sale
}

func NewCache() *Cache {
	return &Cache{}
}

// Reset replaces the entire collection, as after the initial fetch or a
// manual refresh.
func (c *Cache) Reset(sales []*sale.Sale) {
	c.sales = make([]*sale.Sale, len(sales))
	copy(c.sales, sales)
}

// ApplyCreated inserts the record at the front, first removing any existing
// record with the same id.
func (c *Cache) ApplyCreated(s *sale.Sale) {
	c.ApplyDeleted(s.ID)
	c.sales = append([]*sale.Sale{s}, c.sales...)
}

// ApplyUpdated replaces the record with the matching id in place; unknown
// ids are ignored.
func (c *Cache) ApplyUpdated(s *sale.Sale) {
	for i, existing := range c.sales {
		if existing.ID == s.ID {
			c.sales[i] = s
			return
		}
	}
}

// ApplyDeleted removes the record with the matching id; unknown ids are
// ignored.
func (c *Cache) ApplyDeleted(id int64) {
	kept := c.sales[:0]

	for _, s := range c.sales {
		if s.ID != id {
			kept = append(kept, s)
		}
	}

	c.sales = kept
}

// Apply decodes one channel event and applies it. Unknown event kinds are
// ignored so newer servers stay compatible with older clients.
func (c *Cache) Apply(env realtime.Envelope) error {
	switch env.Event {
	case sale.EventCreated, sale.EventUpdated:
		var s sale.Sale
		if err := json.Unmarshal(env.Data, &s); err != nil {
			return fmt.Errorf("decoding %s payload: %w", env.Event, err)
		}

		if env.Event == sale.EventCreated {
			c.ApplyCreated(&s)
		} else {
			c.ApplyUpdated(&s)
		}

	case sale.EventDeleted:
		var id int64
		if err := json.Unmarshal(env.Data, &id); err != nil {
			return fmt.Errorf("decoding %s payload: %w", env.Event, err)
		}

		c.ApplyDeleted(id)
	}

	return nil
}

// Sales returns a copy of the collection in cache order.
func (c *Cache) Sales() []*sale.Sale {
	out := make([]*sale.Sale, len(c.sales))
	copy(out, c.sales)

	return out
}

// Get returns the cached record with the given id.
func (c *Cache) Get(id int64) (*sale.Sale, bool) {
	for _, s := range c.sales {
		if s.ID == id {
			return s, true
		}
	}

	return nil, false
}

func (c *Cache) Len() int { return len(c.sales) }
