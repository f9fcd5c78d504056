// Package manifest records the artifacts produced by a pipeline run.
package manifest

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/KaramelBytes/survival-cli/internal/utils"
	"github.com/google/uuid"
)

// FileName is the manifest's name inside the output directory.
const FileName = "manifest.json"

// Artifact kinds.
const (
	KindSummary = "summary"
	KindPlot    = "plot"
)

// Artifact is one file written by a run.
type Artifact struct {
	Kind  string `json:"kind"`
	Name  string `json:"name"`
	Path  string `json:"path"`
	Bytes int64  `json:"bytes"`
}

// Manifest describes one run.
type Manifest struct {
	ID         string     `json:"id"`
	Input      string     `json:"input"`
	Rows       int        `json:"rows"`
	Skipped    int        `json:"skipped"`
	StartedAt  time.Time  `json:"started_at"`
	FinishedAt time.Time  `json:"finished_at"`
	Artifacts  []Artifact `json:"artifacts"`
}

// New starts a manifest for input.
func New(input string) *Manifest {
	return &Manifest{
		ID:        uuid.NewString(),
		Input:     input,
		StartedAt: time.Now().UTC(),
	}
}

// Add records the file at path, reading its size from disk.
func (m *Manifest) Add(kind, name, path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("stat artifact: %w", err)
	}
	m.Artifacts = append(m.Artifacts, Artifact{Kind: kind, Name: name, Path: path, Bytes: info.Size()})
	return nil
}

// Find returns the first artifact with the given name.
func (m *Manifest) Find(name string) (Artifact, bool) {
	for _, a := range m.Artifacts {
		if a.Name == name {
			return a, true
		}
	}
	return Artifact{}, false
}

// Save stamps the finish time and writes manifest.json into dir atomically.
func (m *Manifest) Save(dir string) error {
	if dir == "" {
		return errors.New("manifest directory not set")
	}
	m.FinishedAt = time.Now().UTC()
	data, err := utils.PrettyJSON(m)
	if err != nil {
		return err
	}
	return utils.SafeWriteFile(filepath.Join(dir, FileName), data)
}

// Load reads manifest.json from dir.
func Load(dir string) (*Manifest, error) {
	path := filepath.Join(dir, FileName)
	b, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("manifest not found at %s: %w", path, err)
		}
		return nil, fmt.Errorf("read manifest: %w", err)
	}
	var m Manifest
	if err := json.Unmarshal(b, &m); err != nil {
		return nil, fmt.Errorf("parse manifest: %w", err)
	}
	return &m, nil
}
