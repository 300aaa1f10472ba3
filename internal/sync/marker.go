package sync

import (
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Marker persists the last successful sync time as a single ISO-8601 line.
// Writes go through a temp file and rename so a crash mid-write never leaves
// a torn marker.
type Marker struct {
	path string
}

func NewMarker(path string) *Marker {
	return &Marker{path: path}
}

// Write records t, overwriting any previous value.
func (m *Marker) Write(t time.Time) error {
	dir := filepath.Dir(m.path)
	tmp, err := os.CreateTemp(dir, ".last_sync-*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()

	if _, err := tmp.WriteString(t.UTC().Format(time.RFC3339) + "\n"); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return err
	}
	return os.Rename(tmpName, m.path)
}

// Read returns the recorded time, or the zero time if no marker exists yet.
func (m *Marker) Read() (time.Time, error) {
	data, err := os.ReadFile(m.path)
	if err != nil {
		if os.IsNotExist(err) {
			return time.Time{}, nil
		}
		return time.Time{}, err
	}
	return time.Parse(time.RFC3339, strings.TrimSpace(string(data)))
}
