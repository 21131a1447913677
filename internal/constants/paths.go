package constants

// Log file names.
const (
	// CLILogFileName is the name of the rotating CLI log file.
	// This file is located in ~/.agenda/logs/agenda.log
	CLILogFileName = "agenda.log"
)

// Configuration and data file names.
const (
	// GlobalConfigName is the name of the global configuration file.
	// This file is located in the agenda home directory.
	GlobalConfigName = "config.yaml"

	// ProjectConfigName is the name of the project-specific configuration file
	// inside ProjectConfigDir.
	ProjectConfigName = "config.yaml"

	// JournalFileName is the SQLite execution journal in the agenda home directory.
	JournalFileName = "journal.db"

	// DotEnvFileName is loaded from the working directory before config resolution.
	DotEnvFileName = ".env"
)
