package metrics

import (
	"os"
	"path/filepath"

	prom "github.com/prometheus/client_golang/prometheus"
)

// WriteTextfile writes all metrics gathered from g to path atomically.
func WriteTextfile(path string, g prom.Gatherer) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return err
	}
	return prom.WriteToTextfile(path, g)
}
