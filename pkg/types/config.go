package types

import "errors"

// DefaultDBFile is the snapshot file used when no db_file is configured.
const DefaultDBFile = "database.json"

// ErrDBFileEmpty is returned by Config.Validate when no snapshot path is set.
var ErrDBFileEmpty = errors.New("db_file must not be empty")

// Config selects where the registry snapshot lives.
type Config struct {
	DBFile   string `json:"db_file" yaml:"db_file"`
	LogLevel string `json:"log_level,omitempty" yaml:"log_level,omitempty"`
}

// Validate checks that the Config names a snapshot file.
func (c Config) Validate() error {
	if c.DBFile == "" {
		return ErrDBFileEmpty
	}
	return nil
}
