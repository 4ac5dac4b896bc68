// Package hashcache tells whether the given inputs for an output
// were already seen by it.
package hashcache

import (
	"crypto/md5"
	"encoding/binary"
	"encoding/gob"
	"hash"
	"os"
	"path/filepath"
	"sync"
)

const hashSize = md5.Size

type Cache struct {
	sync.Mutex
	filename string
	m        map[string][hashSize]byte
	h        hash.Hash
}

// Open loads cache from filename. A missing file gives an empty cache.
// If filename is empty, the cache is kept in memory only.
func Open(filename string) (*Cache, error) {
	c := &Cache{
		filename: filename,
		m:        make(map[string][hashSize]byte),
		h:        md5.New(),
	}
	if filename == "" {
		return c, nil
	}
	f, err := os.Open(filename)
	if err != nil {
		if os.IsNotExist(err) {
			return c, nil
		}
		return nil, err
	}
	defer f.Close()
	if err := gob.NewDecoder(f).Decode(&c.m); err != nil {
		return nil, err
	}
	return c, nil
}

// contentHash returns hash of parts. Cache must be locked.
func (c *Cache) contentHash(parts []string) (sum [hashSize]byte) {
	c.h.Reset()
	var n [8]byte
	for _, p := range parts {
		binary.BigEndian.PutUint64(n[:], uint64(len(p)))
		c.h.Write(n[:])
		c.h.Write([]byte(p))
	}
	c.h.Sum(sum[:0])
	return
}

// Seen sets content hash for the given key to a new value.
// It returns true if the content was already cached and had the same hash.
func (c *Cache) Seen(key string, parts ...string) bool {
	c.Lock()
	defer c.Unlock()
	origHash, ok := c.m[key]
	newHash := c.contentHash(parts)
	if !ok || origHash != newHash {
		c.m[key] = newHash
		return false
	}
	return true
}

// Forget removes key from cache.
func (c *Cache) Forget(key string) {
	c.Lock()
	defer c.Unlock()
	delete(c.m, key)
}

// Save writes cache to the file it was opened from.
func (c *Cache) Save() (err error) {
	if c.filename == "" {
		return nil
	}
	c.Lock()
	defer c.Unlock()
	if err := os.MkdirAll(filepath.Dir(c.filename), 0755); err != nil {
		return err
	}
	f, err := os.Create(c.filename)
	if err != nil {
		return
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = cerr
		}
		if err != nil {
			os.Remove(c.filename)
		}
	}()
	return gob.NewEncoder(f).Encode(c.m)
}
