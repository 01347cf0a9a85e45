package driver

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/vmihailenco/msgpack/v5"

	"sstlower/internal/diag"
	"sstlower/internal/vir"
)

// Current schema version; increment when DiskPayload or the dump format changes.
const diskCacheSchemaVersion uint16 = 2

// Digest is a cache key.
type Digest [sha256.Size]byte

func (d Digest) String() string { return hex.EncodeToString(d[:]) }

// DiskCache stores lowering results keyed by function content.
// Thread-safe for concurrent access.
type DiskCache struct {
	mu  sync.RWMutex
	dir string
}

// DiskPayload is the cached result of lowering one function.
type DiskPayload struct {
	Schema uint16
	Name   string
	// Dump is the textual SST; empty when lowering failed.
	Dump  string
	Diags []diag.Diagnostic
}

// OpenDiskCache opens (and creates) a cache rooted at dir.
func OpenDiskCache(dir string) (*DiskCache, error) {
	if dir == "" {
		return nil, errors.New("cache directory is empty")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &DiskCache{dir: dir}, nil
}

func (c *DiskCache) pathFor(key Digest) string {
	return filepath.Join(c.dir, "fns", key.String()+".mp")
}

// Put serializes and writes a payload, replacing the entry atomically.
func (c *DiskCache) Put(key Digest, payload *DiskPayload) (err error) {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	p := c.pathFor(key)
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return err
	}
	f, err := os.CreateTemp(filepath.Dir(p), "tmp-*")
	if err != nil {
		return err
	}
	renamed := false
	defer func() {
		if renamed {
			return
		}
		_ = f.Close()
		if rmErr := os.Remove(f.Name()); rmErr != nil && err == nil {
			err = rmErr
		}
	}()

	if err := msgpack.NewEncoder(f).Encode(payload); err != nil {
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	if err := os.Rename(f.Name(), p); err != nil {
		return err
	}
	renamed = true
	return nil
}

// Get reads a payload. It reports false for a missing entry or one written
// under another schema.
func (c *DiskCache) Get(key Digest, out *DiskPayload) (bool, error) {
	if c == nil {
		return false, nil
	}
	c.mu.RLock()
	defer c.mu.RUnlock()

	f, err := os.Open(c.pathFor(key))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return false, nil
		}
		return false, err
	}
	defer f.Close()
	if err := msgpack.NewDecoder(f).Decode(out); err != nil {
		return false, fmt.Errorf("cache entry %s: %w", key, err)
	}
	return out.Schema == diskCacheSchemaVersion, nil
}

// DropAll removes every entry.
func (c *DiskCache) DropAll() error {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return os.RemoveAll(filepath.Join(c.dir, "fns"))
}

// signatureDigest hashes what lowering reads from callees: names, modes
// and whether they return a value.
func signatureDigest(k *vir.Krate) Digest {
	h := sha256.New()
	for _, name := range k.Names() {
		fn, _ := k.Function(name)
		fmt.Fprintf(h, "%s\x00%s\x00%t\x00%t\n", fn.Name, fn.Mode, fn.Ret != nil, fn.IsConst)
	}
	var out Digest
	copy(out[:], h.Sum(nil))
	return out
}

// cacheKey: H(schema || options || signatures || raw function JSON).
func cacheKey(opts *Options, sig Digest, raw []byte) Digest {
	h := sha256.New()
	fmt.Fprintf(h, "%d\x00%t\x00%d\x00", diskCacheSchemaVersion, opts.ViewAsSpec, opts.MaxTriggers)
	_, _ = h.Write(sig[:])
	_, _ = h.Write(raw)
	var out Digest
	copy(out[:], h.Sum(nil))
	return out
}
