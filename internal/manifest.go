package internal

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// ManifestFile is the index written next to exported transcripts
const ManifestFile = "manifest.yaml"

const manifestVersion = "1"

// ManifestMetadata records what an export directory was produced from
type ManifestMetadata struct {
	DatabasePath    string    `yaml:"database_path"`
	DatabaseModTime time.Time `yaml:"database_mod_time"`
	Version         string    `yaml:"version"`
	Format          string    `yaml:"format"`
	Talker          string    `yaml:"talker,omitempty"`
	TimeZone        string    `yaml:"timezone"`
	CreatedAt       time.Time `yaml:"created_at"`
}

// ManifestEntry describes one exported transcript file
type ManifestEntry struct {
	ConversationID string `yaml:"conversation_id"`
	File           string `yaml:"file"`
	MessageCount   int    `yaml:"message_count"`
	FirstMessage   string `yaml:"first_message,omitempty"`
	LastMessage    string `yaml:"last_message,omitempty"`
}

// ExportManifest is the YAML index of an export directory
type ExportManifest struct {
	Conversations []ManifestEntry  `yaml:"conversations"`
	Metadata      ManifestMetadata `yaml:"metadata"`
}

// NewManifest starts a manifest for an export of dbPath rendered in the
// named time zone. The database modification time is recorded so a later
// run can tell whether the export is stale.
func NewManifest(dbPath, format, talker, timeZone string) (*ExportManifest, error) {
	info, err := os.Stat(dbPath)
	if err != nil {
		return nil, &StorageError{Path: dbPath, Op: "stat", Err: err}
	}
	return &ExportManifest{
		Conversations: make([]ManifestEntry, 0),
		Metadata: ManifestMetadata{
			DatabasePath:    dbPath,
			DatabaseModTime: info.ModTime(),
			Version:         manifestVersion,
			Format:          format,
			Talker:          talker,
			TimeZone:        timeZone,
			CreatedAt:       time.Now(),
		},
	}, nil
}

// Add records a written transcript; file is relative to the export directory
func (m *ExportManifest) Add(t *Transcript, file string) {
	entry := ManifestEntry{
		ConversationID: t.ConversationID,
		File:           file,
		MessageCount:   len(t.Messages),
	}
	if n := len(t.Messages); n > 0 {
		entry.FirstMessage = t.Messages[0].CreateTime
		entry.LastMessage = t.Messages[n-1].CreateTime
	}
	m.Conversations = append(m.Conversations, entry)
}

// MessageCount returns the number of messages across all entries
func (m *ExportManifest) MessageCount() int {
	total := 0
	for _, e := range m.Conversations {
		total += e.MessageCount
	}
	return total
}

// ManifestStore reads and writes the manifest of one export directory
type ManifestStore struct {
	dir string
}

// NewManifestStore creates a ManifestStore for dir
func NewManifestStore(dir string) *ManifestStore {
	return &ManifestStore{dir: dir}
}

// Path returns the manifest file path
func (s *ManifestStore) Path() string {
	return filepath.Join(s.dir, ManifestFile)
}

// Load reads the manifest. A missing manifest returns an error matching fs.ErrNotExist.
func (s *ManifestStore) Load() (*ExportManifest, error) {
	data, err := os.ReadFile(s.Path())
	if err != nil {
		return nil, err
	}

	var m ExportManifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("failed to unmarshal manifest: %w", err)
	}
	return &m, nil
}

// Save writes the manifest, creating the directory if needed
func (s *ManifestStore) Save(m *ExportManifest) error {
	if err := os.MkdirAll(s.dir, 0755); err != nil {
		return err
	}

	data, err := yaml.Marshal(m)
	if err != nil {
		return fmt.Errorf("failed to marshal manifest: %w", err)
	}
	return os.WriteFile(s.Path(), data, 0644)
}

// IsCurrent reports whether the directory already holds an export of dbPath
// in format for talker and timeZone, taken after the database last changed,
// with every listed file still present
func (s *ManifestStore) IsCurrent(dbPath, format, talker, timeZone string) (bool, error) {
	m, err := s.Load()
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		LogDebug("Ignoring unreadable manifest %s: %v", s.Path(), err)
		return false, nil
	}

	meta := m.Metadata
	if meta.Version != manifestVersion || meta.DatabasePath != dbPath ||
		meta.Format != format || meta.Talker != talker || meta.TimeZone != timeZone {
		return false, nil
	}

	info, err := os.Stat(dbPath)
	if err != nil {
		return false, &StorageError{Path: dbPath, Op: "stat", Err: err}
	}
	if !meta.DatabaseModTime.Equal(info.ModTime()) {
		return false, nil
	}

	for _, e := range m.Conversations {
		if _, err := os.Stat(filepath.Join(s.dir, e.File)); err != nil {
			return false, nil
		}
	}
	return true, nil
}
