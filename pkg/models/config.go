package models

// LoggingConfig holds the event logger settings.
type LoggingConfig struct {
	Level         string   `yaml:"level" mapstructure:"level"`
	Sinks         []string `yaml:"sinks" mapstructure:"sinks"`
	File          string   `yaml:"file,omitempty" mapstructure:"file"`
	SeqURL        string   `yaml:"seq_url" mapstructure:"seq_url"`
	SeqAPIKey     string   `yaml:"seq_api_key,omitempty" mapstructure:"seq_api_key"`
	TimeoutSecs   int      `yaml:"timeout_seconds" mapstructure:"timeout_seconds"`
	MetricsFile   string   `yaml:"metrics_file,omitempty" mapstructure:"metrics_file"`
	CorrelationID string   `yaml:"correlation_id,omitempty" mapstructure:"correlation_id"`
}

// CommitConfig overrides the commit author taken from git configuration.
type CommitConfig struct {
	AuthorName  string `yaml:"author_name,omitempty" mapstructure:"author_name"`
	AuthorEmail string `yaml:"author_email,omitempty" mapstructure:"author_email"`
}

// Config is the effective ogit configuration after merging defaults,
// .ogitconfig, environment variables and command-line flags.
type Config struct {
	Logging LoggingConfig `yaml:"logging" mapstructure:"logging"`
	Commit  CommitConfig  `yaml:"commit" mapstructure:"commit"`
}
