package lazylist

import (
	"fmt"
	"slices"
	"sync"

	"github.com/charmbracelet/lazylist/internal/csync"
	"github.com/charmbracelet/lazylist/internal/geom"
)

// Key identifies an item across passes. Keys must be unique among the
// items present at the same time.
type Key string

// Box is one measured child of an item.
type Box struct {
	Size geom.Size
	// Align is the child's own cross-axis alignment, used when the list
	// alignment is [geom.AlignNone].
	Align geom.Alignment
	// View is handed to the render backend untouched.
	View any
}

// Factory produces the children of one item for the given constraints.
type Factory interface {
	Measure(c geom.Constraints) ([]Box, error)
}

// FactoryFunc adapts a function to [Factory].
type FactoryFunc func(c geom.Constraints) ([]Box, error)

// Measure implements Factory.
func (f FactoryFunc) Measure(c geom.Constraints) ([]Box, error) { return f(c) }

// Content describes the items of a list.
type Content interface {
	Len() int
	KeyAt(index int) Key
	Item(index int) Factory
	// StickyHeaders returns the sorted indices of header items.
	StickyHeaders() []int
}

// Versioned content bumps its version on every change, which lets a pass
// detect concurrent edits without comparing keys.
type Versioned interface {
	Version() uint64
}

// Mover is content that can reorder its items.
type Mover interface {
	Move(from, to int) error
}

// Item is one entry of [Items].
type Item struct {
	Key     Key
	Factory Factory
	Sticky  bool
}

// Items is a concurrent, versioned [Content] implementation.
type Items struct {
	order     *csync.Slice[Key]
	factories *csync.VersionedMap[Key, Item]

	mu          sync.Mutex
	headers     []int
	headersAt   uint64
	headersRead bool
}

var (
	_ Content   = (*Items)(nil)
	_ Versioned = (*Items)(nil)
	_ Mover     = (*Items)(nil)
)

// NewItems returns content holding items in order.
func NewItems(items ...Item) (*Items, error) {
	c := &Items{
		order:     csync.NewSlice[Key](),
		factories: csync.NewVersionedMap[Key, Item](),
	}
	if err := c.SetItems(items); err != nil {
		return nil, err
	}
	return c, nil
}

// Len implements Content.
func (c *Items) Len() int { return c.order.Len() }

// KeyAt implements Content. It returns the empty key out of range.
func (c *Items) KeyAt(index int) Key {
	k, _ := c.order.Get(index)
	return k
}

// Item implements Content.
func (c *Items) Item(index int) Factory {
	k, ok := c.order.Get(index)
	if !ok {
		return nil
	}
	it, ok := c.factories.Get(k)
	if !ok {
		return nil
	}
	return it.Factory
}

// StickyHeaders implements Content.
func (c *Items) StickyHeaders() []int {
	c.mu.Lock()
	defer c.mu.Unlock()
	v := c.Version()
	if c.headersRead && c.headersAt == v {
		return c.headers
	}
	var headers []int
	for i, k := range c.order.Seq2() {
		if it, ok := c.factories.Get(k); ok && it.Sticky {
			headers = append(headers, i)
		}
	}
	c.headers, c.headersAt, c.headersRead = headers, v, true
	return headers
}

// Version implements Versioned.
func (c *Items) Version() uint64 {
	return c.order.Version() + c.factories.Version()
}

// Index returns the index of key.
func (c *Items) Index(key Key) (int, bool) {
	i := c.order.IndexFunc(func(k Key) bool { return k == key })
	return i, i >= 0
}

// Get returns the item stored under key.
func (c *Items) Get(key Key) (Item, bool) {
	return c.factories.Get(key)
}

// Keys returns the keys in order.
func (c *Items) Keys() []Key {
	return slices.Collect(c.order.Seq())
}

// Move implements Mover.
func (c *Items) Move(from, to int) error {
	if !c.order.Move(from, to) {
		return fmt.Errorf("move %d to %d (count %d): %w", from, to, c.Len(), ErrOutOfRange)
	}
	return nil
}

// Insert adds item at index.
func (c *Items) Insert(index int, item Item) error {
	if _, ok := c.factories.Get(item.Key); ok {
		return fmt.Errorf("insert %q: %w", item.Key, ErrDuplicateKey)
	}
	if index < 0 || index > c.Len() {
		return fmt.Errorf("insert %q at %d (count %d): %w", item.Key, index, c.Len(), ErrOutOfRange)
	}
	c.factories.Set(item.Key, item)
	c.order.Insert(index, item.Key)
	return nil
}

// Append adds items at the end.
func (c *Items) Append(items ...Item) error {
	for _, it := range items {
		if err := c.Insert(c.Len(), it); err != nil {
			return err
		}
	}
	return nil
}

// Update replaces the item stored under its key without moving it.
func (c *Items) Update(item Item) error {
	if _, ok := c.factories.Get(item.Key); !ok {
		return fmt.Errorf("update %q: %w", item.Key, ErrNotFound)
	}
	c.factories.Set(item.Key, item)
	return nil
}

// Remove deletes the item stored under key.
func (c *Items) Remove(key Key) error {
	i, ok := c.Index(key)
	if !ok {
		return fmt.Errorf("remove %q: %w", key, ErrNotFound)
	}
	c.order.Delete(i)
	c.factories.Del(key)
	return nil
}

// SetItems replaces every item.
func (c *Items) SetItems(items []Item) error {
	keys := make([]Key, 0, len(items))
	seen := make(map[Key]struct{}, len(items))
	for _, it := range items {
		if _, ok := seen[it.Key]; ok {
			return fmt.Errorf("set items %q: %w", it.Key, ErrDuplicateKey)
		}
		seen[it.Key] = struct{}{}
		keys = append(keys, it.Key)
	}
	for k := range c.factories.Seq2() {
		if _, ok := seen[k]; !ok {
			c.factories.Del(k)
		}
	}
	for _, it := range items {
		c.factories.Set(it.Key, it)
	}
	c.order.SetSlice(keys)
	return nil
}
