package constants

import "time"

const (
	AppName           = "habitcoach"
	DefaultConfigPath = "~/.config/habitcoach/habitcoach.db"
	DefaultSettings   = "~/.config/habitcoach/config.yaml"
	Version           = "v0.1.0"

	// DateFormat is the standard date format used throughout the application (YYYY-MM-DD)
	DateFormat = "2006-01-02"

	// Keyring accounts
	KeyringUserDatabase = "database-connection"
	KeyringUserAI       = "ai-api-key"
	KeyringUserTelegram = "telegram-token"

	// Environment overrides
	EnvDBConnection  = "HABITCOACH_DB_CONNECTION"
	EnvAIAPIKey      = "HABITCOACH_AI_API_KEY"
	EnvAIProvider    = "HABITCOACH_AI_PROVIDER"
	EnvTelegramToken = "HABITCOACH_TELEGRAM_TOKEN"

	// Insight cache
	InsightCacheTTLDays = 30

	// Risk detection
	RiskWindowWeeks    = 4
	RiskMinValidPoints = 2
	RiskThreshold      = 0.5

	// AI request defaults
	AIProviderOpenAI      = "openai"
	AIProviderGemini      = "gemini"
	DefaultOpenAIBaseURL  = "https://api.openai.com/v1"
	DefaultOpenAIModel    = "gpt-4o-mini"
	DefaultGeminiModel    = "gemini-2.0-flash"
	DefaultAITimeout      = 30 * time.Second
	AITemperature         = 0.7
	WeeklyInsightMaxToken = 300
	DailyNudgeMaxToken    = 120

	// Scheduled jobs
	DefaultDailyCron  = "0 8 * * *"
	DefaultWeeklyCron = "0 9 * * MON"
	JobMaxAttempts    = 3
	JobRetryBaseDelay = 30 * time.Second

	// Notify constants
	NotifyMaxRetries       = 3
	NotifyRetryDelay       = 100 * time.Millisecond
	NotifierLockfileName   = "habitcoach-notifier.lock"
	NotificationDurationMs = 5000
	TrayAppIdentifier      = "com.julianstephens.habitcoach"
	TrayExecutablePrefix   = "habitcoach-tray"
	DailyNudgeTitle        = "Your Daily Habit Nudge 🎯"
	WeeklyInsightTitle     = "Your Weekly Habit Insight 📊"
)
