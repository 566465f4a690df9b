package session

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/jrwynneiii/scopetrainer/scope"
)

// Store keeps one student's ViewSettings in a JSON file. Failures never
// reach the caller: Load falls back to defaults and Save only logs.
type Store struct {
	Path string
}

func New(path string) *Store {
	return &Store{Path: expandHome(path)}
}

func expandHome(path string) string {
	if !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, path[2:])
}

// Load returns the saved view, or the default view for shared when there
// is nothing usable on disk.
func (s *Store) Load(shared scope.SharedSettings) scope.ViewSettings {
	v, err := s.read()
	if err != nil {
		if !os.IsNotExist(err) {
			log.Warnf("[session] could not load %s, using defaults: %v", s.Path, err)
		}
		return scope.DefaultView(shared)
	}
	return fill(v, shared)
}

func (s *Store) read() (scope.ViewSettings, error) {
	var v scope.ViewSettings
	data, err := os.ReadFile(s.Path)
	if err != nil {
		return v, err
	}
	if err := json.Unmarshal(data, &v); err != nil {
		return v, fmt.Errorf("decode session: %w", err)
	}
	return v, nil
}

// fill patches holes a hand-edited or older file may have.
func fill(v scope.ViewSettings, shared scope.SharedSettings) scope.ViewSettings {
	def := scope.DefaultView(shared)
	if v.VoltsPerDiv <= 0 {
		v.VoltsPerDiv = def.VoltsPerDiv
	}
	if v.SecondsPerDiv <= 0 {
		v.SecondsPerDiv = def.SecondsPerDiv
	}
	if v.Measurements == nil {
		v.Measurements = def.Measurements
	}
	for id := 1; id <= scope.NumChannels; id++ {
		if _, ok := v.Measurements[id]; !ok {
			v.Measurements[id] = scope.Measurement{}
		}
	}
	return v
}

func (s *Store) Save(v scope.ViewSettings) {
	if err := s.write(v); err != nil {
		log.Warnf("[session] could not save %s: %v", s.Path, err)
	}
}

// write goes through a temp file and a rename so a crash never leaves a
// half-written session behind.
func (s *Store) write(v scope.ViewSettings) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}
	dir := filepath.Dir(s.Path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("create %s: %w", dir, err)
	}
	tmp, err := os.CreateTemp(dir, ".session-*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.Path); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("rename session file: %w", err)
	}
	return nil
}
