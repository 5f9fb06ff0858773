package constants

const (
	AppName            = "habitpulse"
	DefaultKeyringUser = "gemini-api-key"
	DefaultConfigPath  = "~/.config/habitpulse/habitpulse.db"
	Version            = "v0.1.0"

	// SchemaVersion is the highest migration shipped with this binary
	SchemaVersion = 1

	// DateFormat is the standard date format used throughout the application (YYYY-MM-DD)
	DateFormat = "2006-01-02"

	// Table names
	TableHabits = "habits"
	TableLogs   = "logs"

	// Environment variables
	EnvDBConnection = "HABITPULSE_DB"
	EnvAPIKey       = "GEMINI_API_KEY"
	EnvTestPostgres = "HABITPULSE_TEST_POSTGRES"

	// Aggregation constants
	ChartWindowDays   = 7
	AssumedPeriodDays = 30
	QuickLogValue     = 1

	// Insight constants
	InsightModel         = "gemini-2.5-flash"
	InsightMaxLogs       = 50
	InsightDefaultPeriod = "Recent activity"
	InsightNotConfigured = "API Key not configured."
	InsightEmptyResponse = "Could not generate analysis."
	InsightRequestFailed = "Error analyzing data. Please check your connection or API key."

	// Defaults for new habits
	DefaultEmoji = "💧"
	DefaultUnit  = "count"
)

