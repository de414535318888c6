// Package config handles dayplan client configuration.
package config

import "time"

const (
	// AppName names the directory under the user config dir.
	AppName = "dayplan"
	// DefaultBaseURL is the hosted mock API the client talks to.
	DefaultBaseURL = "https://677a9e66671ca030683469a3.mockapi.io/todo"
	// DefaultCollection is the task resource under the base URL.
	DefaultCollection = "createTodo"
	// DefaultTimeout bounds each store request.
	DefaultTimeout = "10s"
	// DefaultRefreshInterval is how often the TUI refetches tasks.
	DefaultRefreshInterval = "1m"
	// DefaultReminder is the reminder preselected on new tasks.
	DefaultReminder = "none"
	// DefaultRepeat is the repeat preselected on new tasks.
	DefaultRepeat = "never"
	// DefaultUpcomingDays limits the Upcoming tab; 0 shows everything.
	DefaultUpcomingDays = 0

	// ConfigFileName is the name of the config file within the app directory.
	ConfigFileName = "config.yml"
	// EnvFileName is an optional dotenv file in the app directory.
	EnvFileName = ".env"

	// CurrentVersion is the current config schema version.
	CurrentVersion = 3

	// minRefresh keeps the periodic refresh from hammering the store.
	minRefresh = 5 * time.Second
)

// Environment overrides.
const (
	EnvAPIURL     = "DAYPLAN_API_URL"
	EnvCollection = "DAYPLAN_API_COLLECTION"
	EnvDir        = "DAYPLAN_DIR"
)
