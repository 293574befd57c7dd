package segment

import (
	"slices"
	"sync"
)

// Cache 按文本精确匹配缓存分词结果。分词是纯函数，缓存项永不失效。
// 可被多个渲染 worker 并发使用。
type Cache struct {
	next Segmenter

	mu      sync.Mutex
	entries map[string][]string
	hits    int
	misses  int
}

// NewCache wraps next with a memoizing cache.
func NewCache(next Segmenter) *Cache {
	return &Cache{next: next, entries: map[string][]string{}}
}

// Parse implements Segmenter. 返回的切片归调用方所有。
func (c *Cache) Parse(text string) []string {
	c.mu.Lock()
	if chunks, ok := c.entries[text]; ok {
		c.hits++
		c.mu.Unlock()
		return slices.Clone(chunks)
	}
	c.mu.Unlock()

	// 分词在锁外进行；并发未命中时可能重复计算，结果相同。
	chunks := c.next.Parse(text)

	c.mu.Lock()
	if _, ok := c.entries[text]; !ok {
		c.entries[text] = chunks
		c.misses++
	} else {
		c.hits++
	}
	c.mu.Unlock()
	return slices.Clone(chunks)
}

// Stats 返回命中与未命中次数。
func (c *Cache) Stats() (hits, misses int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.hits, c.misses
}

// Len 返回缓存中的文本条数。
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}
