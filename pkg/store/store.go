// Package store keeps saved session scripts on disk, one file per
// directory the session was saved from.
package store

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/grovetools/tmuxession/errors"
	"github.com/grovetools/tmuxession/logging"
	"github.com/grovetools/tmuxession/pkg/paths"
	"github.com/grovetools/tmuxession/pkg/session"
	"github.com/moby/patternmatcher"
	"github.com/sirupsen/logrus"
)

// Extension is appended to every stored script.
const Extension = ".sh"

// Entry is one saved session found in the store.
type Entry struct {
	// Dir is the directory the session was saved from.
	Dir string `json:"dir"`
	// Session is the name on the script's identity line.
	Session string `json:"session"`
	Path    string `json:"path"`
}

// Store is a directory of saved scripts.
type Store struct {
	dir    string
	logger *logrus.Entry
}

// New returns a store rooted at dir.
func New(dir string) *Store {
	return &Store{dir: dir, logger: logging.NewLogger("store")}
}

// Default returns the store in the user's data directory, creating it if needed.
func Default() (*Store, error) {
	if err := paths.EnsureDirs(); err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeInternal, "failed to create data directory")
	}
	return New(paths.DataDir()), nil
}

// Dir returns the store's root directory.
func (s *Store) Dir() string {
	return s.dir
}

// PathFor returns where the script for sessions saved from dir lives.
func (s *Store) PathFor(dir string) string {
	return filepath.Join(s.dir, encodeKey(filepath.Clean(dir))+Extension)
}

// encodeKey percent-encodes everything except unreserved characters
// (letters, digits, "-", ".", "_", "~").
func encodeKey(dir string) string {
	return strings.ReplaceAll(url.QueryEscape(dir), "+", "%20")
}

// Write stores text as the script for dir and returns its path.
func (s *Store) Write(dir, text string) (string, error) {
	if err := os.MkdirAll(s.dir, 0755); err != nil {
		return "", errors.Wrap(err, errors.ErrCodeInternal, "failed to create data directory").
			WithDetail("path", s.dir)
	}

	path := s.PathFor(dir)
	if err := os.WriteFile(path, []byte(text), 0644); err != nil {
		return "", errors.Wrap(err, errors.ErrCodeInternal, "failed to write session script").
			WithDetail("path", path)
	}
	s.logger.WithFields(logrus.Fields{"dir": dir, "path": path}).Debug("Saved session script")
	return path, nil
}

// Read returns the text of the script at path.
func (s *Store) Read(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", errors.ScriptNotFound(path, err)
	}
	return string(data), nil
}

// ReadFor returns the script saved for dir.
func (s *Store) ReadFor(dir string) (string, string, error) {
	path := s.PathFor(dir)
	text, err := s.Read(path)
	return text, path, err
}

// List returns the saved sessions sorted by directory. Files that are not
// readable scripts with an identity line are skipped. A non-empty filter is
// a list of dockerignore-style patterns matched against the directory and
// the session name.
func (s *Store) List(filter ...string) ([]Entry, error) {
	var matcher *patternmatcher.PatternMatcher
	if len(filter) > 0 {
		pm, err := patternmatcher.New(filter)
		if err != nil {
			return nil, errors.Wrap(err, errors.ErrCodeInvalidInput, "invalid filter pattern").
				WithDetail("filter", strings.Join(filter, ","))
		}
		matcher = pm
	}

	files, err := os.ReadDir(s.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return []Entry{}, nil
		}
		return nil, errors.Wrap(err, errors.ErrCodeInternal, "failed to read data directory").
			WithDetail("path", s.dir)
	}

	entries := []Entry{}
	for _, f := range files {
		if f.IsDir() || !strings.HasSuffix(f.Name(), Extension) {
			continue
		}
		dir, err := url.PathUnescape(strings.TrimSuffix(f.Name(), Extension))
		if err != nil {
			s.logger.WithField("file", f.Name()).Debug("Skipping file with undecodable name")
			continue
		}

		path := filepath.Join(s.dir, f.Name())
		text, err := s.Read(path)
		if err != nil {
			s.logger.WithError(err).WithField("path", path).Debug("Skipping unreadable script")
			continue
		}
		name := session.ExtractIdentity(text)
		if name == "" {
			s.logger.WithField("path", path).Debug("Skipping script without session name")
			continue
		}

		entry := Entry{Dir: dir, Session: name, Path: path}
		if matcher != nil {
			ok, err := matches(matcher, entry)
			if err != nil {
				return nil, errors.Wrap(err, errors.ErrCodeInvalidInput, "invalid filter pattern")
			}
			if !ok {
				continue
			}
		}
		entries = append(entries, entry)
	}

	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Dir < entries[j].Dir
	})
	return entries, nil
}

func matches(pm *patternmatcher.PatternMatcher, e Entry) (bool, error) {
	for _, candidate := range []string{e.Dir, e.Session} {
		ok, err := pm.MatchesOrParentMatches(candidate)
		if err != nil {
			return false, err
		}
		if ok {
			return true, nil
		}
	}
	return false, nil
}

// Label renders an entry the way the session picker shows it.
func (e Entry) Label() string {
	return fmt.Sprintf("%s: %s", e.Session, e.Dir)
}
