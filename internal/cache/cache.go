// Package cache provides a small byte-value cache for event list pages,
// backed either by an in-process TTL map or by Redis when the app is
// deployed with more than one replica.
package cache

import (
	"context"
	"strconv"
	"strings"
	"sync"
	"time"

	"eventboard/internal/domain/event"
)

type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool)
	Set(ctx context.Context, key string, val []byte)
	Delete(ctx context.Context, key string)
	Clear(ctx context.Context)
}

type Memory struct {
	mu  sync.RWMutex
	ttl time.Duration
	m   map[string]entry
}

type entry struct {
	val []byte
	exp time.Time
}

func NewMemory(ttl time.Duration) *Memory {
	if ttl <= 0 {
		ttl = 5 * time.Second
	}

	return &Memory{
		ttl: ttl,
		m:   make(map[string]entry),
	}
}

func (c *Memory) Get(_ context.Context, key string) ([]byte, bool) {
	now := time.Now()
	c.mu.RLock()
	e, ok := c.m[key]
	c.mu.RUnlock()
	if !ok {
		return nil, false
	}

	if now.After(e.exp) {
		c.mu.Lock()
		delete(c.m, key)
		c.mu.Unlock()
		return nil, false
	}

	return e.val, true
}

func (c *Memory) Set(_ context.Context, key string, val []byte) {
	c.mu.Lock()
	c.m[key] = entry{val: val, exp: time.Now().Add(c.ttl)}
	c.mu.Unlock()
}

func (c *Memory) Delete(_ context.Context, key string) {
	c.mu.Lock()
	delete(c.m, key)
	c.mu.Unlock()
}

func (c *Memory) Clear(_ context.Context) {
	c.mu.Lock()
	c.m = make(map[string]entry)
	c.mu.Unlock()
}

// BuildEventsListKey derives a stable cache key from the full filter
// tuple, so distinct pages never collide.
func BuildEventsListKey(f event.Filter) string {
	deref := func(s *string) string {
		if s == nil {
			return ""
		}
		return strings.ToLower(strings.TrimSpace(*s))
	}
	d := ""
	if f.OnDate != nil {
		d = f.OnDate.UTC().Format("2006-01-02")
	}

	return "events:list:v1:title=" + deref(f.Title) +
		":location=" + deref(f.Location) +
		":category=" + deref(f.Category) +
		":date=" + d +
		":page=" + strconv.Itoa(f.PageNumber) +
		":size=" + strconv.Itoa(f.PageSize)
}
