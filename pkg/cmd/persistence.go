package cmd

import (
	"github.com/dataloom/dataloom/pkg/persistence"
	"github.com/dataloom/dataloom/pkg/persistence/file"
)

// NewPersistence builds a project store from a database URL. Only file-backed
// storage ships today; a bare directory path and a file:// URL both work.
func NewPersistence(databaseURL string) persistence.Persistence {
	return file.NewPersistence(databaseURL)
}
