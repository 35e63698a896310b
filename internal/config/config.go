package config

// Config holds all application configuration.
// It organizes settings into logical groups for better maintainability.
type Config struct {
	Server       ServerConfig       `mapstructure:"server"       validate:"required"`
	Database     DatabaseConfig     `mapstructure:"database"     validate:"required"`
	Auth         AuthConfig         `mapstructure:"auth"         validate:"required"`
	Rules        RulesConfig        `mapstructure:"rules"        validate:"required"`
	Notification NotificationConfig `mapstructure:"notification" validate:"required"`
}

// ServerConfig contains all server-related configuration settings.
type ServerConfig struct {
	Port     int    `mapstructure:"port"      validate:"required,gt=0,lt=65536"`
	LogLevel string `mapstructure:"log_level" validate:"required,oneof=debug info warn error"`
}

// DatabaseConfig contains all database-related configuration settings.
type DatabaseConfig struct {
	URL string `mapstructure:"url" validate:"required,url"`
}

// AuthConfig contains all authentication and authorization settings.
type AuthConfig struct {
	JWTSecret            string `mapstructure:"jwt_secret"             validate:"required,min=32"`
	TokenLifetimeMinutes int    `mapstructure:"token_lifetime_minutes" validate:"required,gt=0"`
	BcryptCost           int    `mapstructure:"bcrypt_cost"            validate:"required,gte=4,lte=31"`
}

// RulesConfig holds the to-do list business rules.
type RulesConfig struct {
	NameFormat            string `mapstructure:"name_format"            validate:"required"`
	MaxContentLength      int    `mapstructure:"max_content_length"     validate:"required,gt=0"`
	MaxTodolistCapacity   int    `mapstructure:"max_todolist_capacity"  validate:"required,gt=0"`
	NotificationThreshold int    `mapstructure:"notification_threshold" validate:"required,gt=0"`
	MinimumAgeYears       int    `mapstructure:"minimum_age_years"      validate:"gte=0"`
	ItemCooldownMinutes   int    `mapstructure:"item_cooldown_minutes"  validate:"gte=0"`
}

// NotificationConfig controls asynchronous notification delivery.
type NotificationConfig struct {
	QueueSize   int `mapstructure:"queue_size"   validate:"required,gt=0"`
	WorkerCount int `mapstructure:"worker_count" validate:"required,gt=0"`
	MaxRetries  int `mapstructure:"max_retries"  validate:"gte=0"`
}
