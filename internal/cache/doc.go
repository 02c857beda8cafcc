// Package cache provides the generic LRU used to keep decoded image masks
// resident between frames.
//
// Entries are ordered by last access. Set and Get never evict; the owner
// calls Trim at a frame boundary so entries used in the current frame are
// never dropped mid-frame:
//
//	c := cache.New[uint64, *image.Alpha](64, nil)
//	c.Set(7, mask)
//	m, ok := c.Get(7)
//	evicted := c.Trim()
//
// Cache is safe for concurrent use and must not be copied after creation.
package cache
