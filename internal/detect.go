package internal

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// messageDBPrefix is the file name prefix of message database shards (MSG0.db, MSG1.db, ...)
const messageDBPrefix = "MSG"

// FindMessageDBs returns the message databases at path. A file is returned
// as-is; a directory is scanned (non-recursively) for MSG*.db files, sorted
// by name.
func FindMessageDBs(path string) ([]string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, &StorageError{Path: path, Op: "stat", Err: err}
	}
	if !info.IsDir() {
		return []string{path}, nil
	}

	entries, err := os.ReadDir(path)
	if err != nil {
		return nil, &StorageError{Path: path, Op: "scan", Err: err}
	}

	var dbs []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if strings.HasPrefix(name, messageDBPrefix) && strings.EqualFold(filepath.Ext(name), ".db") {
			dbs = append(dbs, filepath.Join(path, name))
		}
	}
	sort.Strings(dbs)

	if len(dbs) == 0 {
		LogInfo("Scanned %s, found %d entries but no %s*.db files", path, len(entries), messageDBPrefix)
	}
	return dbs, nil
}

// ResolveDatabase turns the --db argument into exactly one database file.
// A directory holding several shards is rejected so the caller picks one.
func ResolveDatabase(path string) (string, error) {
	if path == "" {
		return "", &ConfigError{Err: fmt.Errorf("no database given (use --db, WXMSG_DB or the config file)")}
	}

	dbs, err := FindMessageDBs(path)
	if err != nil {
		return "", err
	}

	switch len(dbs) {
	case 0:
		return "", &StorageError{Path: path, Op: "scan", Err: fmt.Errorf("no %s*.db files found", messageDBPrefix)}
	case 1:
		return dbs[0], nil
	default:
		names := make([]string, 0, len(dbs))
		for _, db := range dbs {
			names = append(names, filepath.Base(db))
		}
		return "", &StorageError{
			Path: path,
			Op:   "scan",
			Err:  fmt.Errorf("found %d message databases (%s); pass one with --db", len(dbs), strings.Join(names, ", ")),
		}
	}
}
