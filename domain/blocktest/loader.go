package blocktest

import (
	"encoding/json"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/pkg/errors"
)

// Load loads the fixtures at path, which is either a single fixture file or
// a fixtures root directory
func Load(path string) ([]*Fixture, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	if !info.IsDir() {
		return LoadFile(filepath.Dir(path), filepath.Base(path))
	}
	return LoadDirectory(path)
}

// LoadDirectory loads every fixture file under root, except ignored ones,
// in lexical path order
func LoadDirectory(root string) ([]*Fixture, error) {
	var fixtures []*Fixture
	err := filepath.WalkDir(root, func(fullPath string, entry fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			return nil
		}
		path, err := filepath.Rel(root, fullPath)
		if err != nil {
			return err
		}
		if IsIgnored(path) {
			log.Tracef("Ignoring fixture file %s", path)
			return nil
		}

		fileFixtures, err := LoadFile(root, path)
		if err != nil {
			return err
		}
		fixtures = append(fixtures, fileFixtures...)
		return nil
	})
	if err != nil {
		return nil, errors.WithStack(err)
	}

	log.Debugf("Loaded %d fixtures from %s", len(fixtures), root)
	return fixtures, nil
}

// LoadFile loads the fixtures of the file at path, relative to root, sorted
// by name
func LoadFile(root, path string) ([]*Fixture, error) {
	data, err := os.ReadFile(filepath.Join(root, path))
	if err != nil {
		return nil, errors.WithStack(err)
	}
	return parseFixtures(path, data)
}

func parseFixtures(path string, data []byte) ([]*Fixture, error) {
	var rawFixtures map[string]json.RawMessage
	err := json.Unmarshal(data, &rawFixtures)
	if err != nil {
		return nil, errors.Wrapf(ErrMalformedFixture, "%s: %s", path, err)
	}

	names := make([]string, 0, len(rawFixtures))
	for name := range rawFixtures {
		names = append(names, name)
	}
	sort.Strings(names)

	fixtures := make([]*Fixture, 0, len(names))
	for _, name := range names {
		raw := &fixtureJSON{}
		err := json.Unmarshal(rawFixtures[name], raw)
		if err != nil {
			return nil, errors.Wrapf(ErrMalformedFixture, "%s:%s: %s", path, name, err)
		}
		fixture, err := normalizeFixture(name, path, raw)
		if err != nil {
			return nil, errors.Wrapf(err, "%s:%s", path, name)
		}
		fixture.SkipReason = skipReason(fixture)
		fixtures = append(fixtures, fixture)
	}
	return fixtures, nil
}
