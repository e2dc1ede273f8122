package build

import (
	"os"
	"path/filepath"
	"sync"

	"github.com/zeebo/blake3"
)

// fingerprints remembers the content hash of every file the builder wrote so
// repeated builds (watch mode) leave unchanged outputs alone.
type fingerprints struct {
	mu   sync.Mutex
	sums map[string][32]byte
}

func newFingerprints() *fingerprints {
	return &fingerprints{sums: make(map[string][32]byte)}
}

func (f *fingerprints) reset() {
	f.mu.Lock()
	defer f.mu.Unlock()
	clear(f.sums)
}

// write stores data at target unless an identical file was written before
// and still exists. It reports whether the file was written.
func (f *fingerprints) write(target string, data []byte) (bool, error) {
	sum := blake3.Sum256(data)

	f.mu.Lock()
	prev, seen := f.sums[target]
	f.mu.Unlock()
	if seen && prev == sum {
		if _, err := os.Stat(target); err == nil {
			return false, nil
		}
	}

	if err := os.MkdirAll(filepath.Dir(target), 0o750); err != nil {
		return false, err
	}
	if err := os.WriteFile(target, data, 0o644); err != nil {
		return false, err
	}

	f.mu.Lock()
	f.sums[target] = sum
	f.mu.Unlock()
	return true, nil
}
