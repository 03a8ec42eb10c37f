package placeicon

import (
	"bytes"
	"hash/crc32"
	"sync"
)

var imageCache = &cache{}

// cache holds the last Image read from each icon path.
type cache struct {
	m sync.Map
}

// load returns the cached Image for path only if it was built from exactly b.
func (c *cache) load(path string, b []byte) (*Image, bool) {
	v, ok := c.m.Load(path)
	if !ok {
		return nil, false
	}
	i, ok := v.(*Image)
	if !ok {
		return nil, false
	}
	if i.Checksum() != crc32.ChecksumIEEE(b) || !bytes.Equal(i.b, b) {
		return nil, false
	}
	return i, true
}

func (c *cache) store(path string, i *Image) {
	if i == nil {
		return
	}
	c.m.Store(path, i)
}

func (c *cache) delete(path string) {
	c.m.Delete(path)
}
