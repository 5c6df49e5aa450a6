package toolchain

import (
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"errors"
	"os"
	"path/filepath"
	"sync"

	"fortio.org/safecast"
	"github.com/vmihailenco/msgpack/v5"
)

// Current schema version - increment when cachePayload format changes.
const cacheSchemaVersion uint16 = 1

// DiskCache persists include-path introspection results keyed by the
// compiler binary's path and modification time, so repeated workspace
// generation does not re-run the compiler. Thread-safe.
type DiskCache struct {
	mu  sync.RWMutex
	dir string
}

type cachePayload struct {
	Schema       uint16
	CompilerPath string
	IncludePaths []string
}

// OpenDiskCache initializes and returns a disk cache at the standard
// location ($XDG_CACHE_HOME/<app> or ~/.cache/<app>).
func OpenDiskCache(app string) (*DiskCache, error) {
	base := os.Getenv("XDG_CACHE_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, err
		}
		base = filepath.Join(home, ".cache")
	}
	dir := filepath.Join(base, app)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &DiskCache{dir: dir}, nil
}

// cacheKey hashes the compiler identity. A compiler upgrade changes the
// binary's mtime, which invalidates the entry.
func cacheKey(compilerPath string) (string, error) {
	info, err := os.Stat(compilerPath)
	if err != nil {
		return "", err
	}
	nanos, err := safecast.Conv[uint64](info.ModTime().UnixNano())
	if err != nil {
		return "", err
	}
	h := sha256.New()
	h.Write([]byte(compilerPath))
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], nanos)
	h.Write(buf[:])
	return hex.EncodeToString(h.Sum(nil)), nil
}

func (c *DiskCache) pathFor(key string) string {
	// Subdirectory keeps the cache root tidy for manual cleanup.
	return filepath.Join(c.dir, "includes", key+".mp")
}

// Put serializes and atomically writes a result to the disk cache.
func (c *DiskCache) Put(result IncludePathResult) error {
	if c == nil {
		return nil
	}
	key, err := cacheKey(result.CompilerPath)
	if err != nil {
		return err
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
	defer os.Remove(f.Name())

	enc := msgpack.NewEncoder(f)
	if err := enc.Encode(&cachePayload{
		Schema:       cacheSchemaVersion,
		CompilerPath: result.CompilerPath,
		IncludePaths: result.IncludePaths,
	}); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	return os.Rename(f.Name(), p)
}

// Get reads a cached result for the given compiler binary. The boolean
// reports a hit; schema mismatches count as misses.
func (c *DiskCache) Get(compilerPath string) (IncludePathResult, bool, error) {
	if c == nil {
		return IncludePathResult{}, false, nil
	}
	key, err := cacheKey(compilerPath)
	if err != nil {
		return IncludePathResult{}, false, err
	}
	c.mu.RLock()
	defer c.mu.RUnlock()

	f, err := os.Open(c.pathFor(key))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return IncludePathResult{}, false, nil
		}
		return IncludePathResult{}, false, err
	}
	defer f.Close()

	var payload cachePayload
	if err := msgpack.NewDecoder(f).Decode(&payload); err != nil {
		return IncludePathResult{}, false, err
	}
	if payload.Schema != cacheSchemaVersion {
		return IncludePathResult{}, false, nil
	}
	return IncludePathResult{
		CompilerPath: payload.CompilerPath,
		IncludePaths: payload.IncludePaths,
	}, true, nil
}

// DropAll invalidates the whole cache.
func (c *DiskCache) DropAll() error {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return os.RemoveAll(filepath.Join(c.dir, "includes"))
}
