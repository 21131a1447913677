package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/mrz1836/agenda/internal/constants"
	"github.com/mrz1836/agenda/internal/errors"
)

// GlobalConfigDir returns the path to the agenda home directory: $AGENDA_HOME
// when set, otherwise ~/.agenda.
//
// Returns an error if the home directory cannot be determined.
func GlobalConfigDir() (string, error) {
	if dir := os.Getenv("AGENDA_HOME"); dir != "" {
		return dir, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", errors.Wrap(err, "failed to get home directory")
	}
	return filepath.Join(home, constants.AgendaHome), nil
}

// GlobalConfigPath returns the full path to the global configuration file.
func GlobalConfigPath() (string, error) {
	dir, err := GlobalConfigDir()
	if err != nil {
		return "", fmt.Errorf("get global config path: %w", err)
	}
	return filepath.Join(dir, constants.GlobalConfigName), nil
}

// ProjectConfigPath returns the relative path to the project configuration file.
// This is always .agenda/config.yaml relative to the working directory.
func ProjectConfigPath() string {
	return filepath.Join(constants.ProjectConfigDir, constants.ProjectConfigName)
}

// JournalPath resolves the journal database location.
func (c *JournalConfig) JournalPath() (string, error) {
	if c.Path != "" {
		return c.Path, nil
	}
	dir, err := GlobalConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, constants.JournalFileName), nil
}
