package toml

import "fmt"

const currentSchemaVersion = 1

type fileSchema struct {
	Version  int             `toml:"version"`
	Sessions []sessionSchema `toml:"sessions"`
}

func (s *fileSchema) applyDefaults() {
	if s.Version == 0 {
		s.Version = currentSchemaVersion
	}
}

func (s fileSchema) validateVersion() error {
	if s.Version > currentSchemaVersion {
		return fmt.Errorf("unsupported sessions schema version %d (current %d)", s.Version, currentSchemaVersion)
	}

	return nil
}

type sessionSchema struct {
	ID      string `toml:"id"`
	Seq     int64  `toml:"seq"`
	Subject string `toml:"subject"`
	Teacher string `toml:"teacher"`
	Room    string `toml:"room"`
	Day     string `toml:"day"`
	Start   string `toml:"start"`
	End     string `toml:"end"`
	Color   string `toml:"color,omitempty"`
}
