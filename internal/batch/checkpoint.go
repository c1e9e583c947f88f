package batch

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Checkpoint is the crash-recovery state written after every batch.
// A resumed run skips the names already listed.
type Checkpoint struct {
	RunID     string   `yaml:"run_id"`
	Completed []string `yaml:"completed"`

	done map[string]bool
}

// LoadCheckpoint reads the checkpoint at path. A missing file is a
// fresh run, not an error.
func LoadCheckpoint(path string) (*Checkpoint, error) {
	cp := &Checkpoint{done: make(map[string]bool)}
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cp, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading checkpoint: %w", err)
	}
	if err := yaml.Unmarshal(data, cp); err != nil {
		return nil, fmt.Errorf("parsing checkpoint %s: %w", path, err)
	}
	cp.done = make(map[string]bool, len(cp.Completed))
	for _, name := range cp.Completed {
		cp.done[name] = true
	}
	return cp, nil
}

// Done reports whether the named mesh finished in a previous run.
func (c *Checkpoint) Done(name string) bool { return c.done[name] }

// Mark records the named mesh as completed. Safe on a zero-value
// Checkpoint; the lookup map is allocated on first use.
func (c *Checkpoint) Mark(name string) {
	if c.done[name] {
		return
	}
	if c.done == nil {
		c.done = make(map[string]bool)
	}
	c.done[name] = true
	c.Completed = append(c.Completed, name)
}

// Save writes the checkpoint atomically via a sibling temp file.
func (c *Checkpoint) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}
