// Package constants contains names shared across beakersync packages.
package constants

const (
	// AppName is the directory name used under the XDG data home.
	AppName = "beakersync"

	// LogFilename is the default log file name.
	LogFilename = "beakersync.log"

	// DatabaseFilename is the settings store database used by the serve command.
	DatabaseFilename = "settings.db"

	// ConfigFilename is the default client configuration file.
	ConfigFilename = "beakersync.yml"
)
