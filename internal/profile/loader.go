package profile

import (
	"fmt"
	"os"

	"github.com/rs/zerolog/log"
	"gopkg.in/yaml.v3"
)

type profileFile struct {
	Profiles []Entry `yaml:"profiles"`
}

// LoadTable returns the built-in table extended with the entries in a YAML file.
// An empty path yields the built-in table unchanged.
func LoadTable(path string) (*Table, error) {
	base := Default()
	if path == "" {
		return base, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("error reading profile file: %w", err)
	}
	overrides, err := parseEntries(data)
	if err != nil {
		return nil, fmt.Errorf("error parsing profile file %s: %w", path, err)
	}
	log.Debug().Str("op", "profile/load").Msgf("Loaded %d profile entries from %s", len(overrides), path)
	return base.Merge(overrides)
}

func parseEntries(data []byte) ([]Entry, error) {
	var pf profileFile
	if err := yaml.Unmarshal(data, &pf); err != nil {
		return nil, err
	}
	return pf.Profiles, nil
}

// MarshalYAML renders the table in the same shape LoadTable accepts.
func (t *Table) MarshalYAML() (any, error) {
	return profileFile{Profiles: t.Entries()}, nil
}
