package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// OverrideFileName is an optional java-properties style file layered on
// top of everything else. It exists so a locally provisioned Gemini key
// can outrank environment and config-file values without editing either.
const OverrideFileName = "application-gemini.properties"

type Config struct {
	Server        ServerConfig
	Database      DatabaseConfig
	Redis         RedisConfig
	Elasticsearch ElasticsearchConfig
	LLM           LLMConfig
	Similarity    SimilarityConfig
	Generator     GeneratorConfig
	Document      DocumentConfig
	Notion        NotionConfig
	Git           GitConfig
	Logger        LoggerConfig
}

type ServerConfig struct {
	Port         int
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

type DatabaseConfig struct {
	URL string
}

type RedisConfig struct {
	Address  string
	Password string
	DB       int
}

type ElasticsearchConfig struct {
	Addresses []string
	Index     string
}

type LLMConfig struct {
	APIURL  string
	Model   string
	APIKey  string
	Timeout time.Duration
}

type SimilarityConfig struct {
	Threshold float64
	Analyzer  string
}

type GeneratorConfig struct {
	MaxAttempts        int
	MaxCountPerRequest int
	RecentPreviewLimit int
	PreviewCharLimit   int
	PreviewCacheTTL    time.Duration
}

type DocumentConfig struct {
	SaveDir string
}

type NotionConfig struct {
	APIKey       string
	Version      string
	ParentPageID string
}

type GitConfig struct {
	WorkDir string
	Remote  string
	Branch  string
}

type LoggerConfig struct {
	Level string
	Env   string
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.read_timeout", 20)
	v.SetDefault("server.write_timeout", 20)
	v.SetDefault("elasticsearch.index", "questions")
	v.SetDefault("llm.api.url", "https://generativelanguage.googleapis.com/v1beta")
	v.SetDefault("llm.model", "gemini-1.5-flash")
	v.SetDefault("llm.timeout", 30)
	v.SetDefault("similarity.threshold", 0.7)
	v.SetDefault("similarity.analyzer", "korean")
	v.SetDefault("generator.maxAttempts", 3)
	v.SetDefault("generator.maxCountPerRequest", 20)
	v.SetDefault("generator.recentPreviewLimit", 30)
	v.SetDefault("generator.previewCharLimit", 50)
	v.SetDefault("generator.previewCacheTTL", 300)
	v.SetDefault("document.saveDir", "./saved_quizzes")
	v.SetDefault("notion.version", "2022-06-28")
	v.SetDefault("git.workDir", "./saved_quizzes")
	v.SetDefault("git.remote", "origin")
	v.SetDefault("git.branch", "main")
	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.env", "development")
}

// LoadConfig reads config.yaml (optional), environment variables, and the
// local override file, in increasing order of precedence.
func LoadConfig() (*Config, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")

	setDefaults(v)
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(envKeyReplacer())

	if err := v.ReadInConfig(); err != nil {
		// A missing config file is fine; env vars and defaults carry.
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	if err := applyOverrideFile(v, OverrideFileName); err != nil {
		return nil, err
	}

	return fromViper(v), nil
}

// applyOverrideFile layers a properties file on top of every other source.
// Unreadable files are ignored so a malformed override never breaks startup.
func applyOverrideFile(v *viper.Viper, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return nil
	}
	defer f.Close()

	ov := viper.New()
	ov.SetConfigType("properties")
	if err := ov.ReadConfig(f); err != nil {
		return nil
	}
	// viper.Set has the highest precedence, above env and config files.
	for _, key := range ov.AllKeys() {
		v.Set(key, ov.Get(key))
	}
	return nil
}

// envKeyReplacer maps dotted config keys onto env var names,
// e.g. llm.api.key -> LLM_API_KEY.
func envKeyReplacer() *strings.Replacer {
	return strings.NewReplacer(".", "_")
}

// secondsDuration reads a timeout key that is always a number of
// seconds. Reading the integer directly avoids GetDuration treating a
// bare number as nanoseconds or a "20s" value as a duration to be
// multiplied again.
func secondsDuration(v *viper.Viper, key string) time.Duration {
	return time.Duration(v.GetInt(key)) * time.Second
}

func fromViper(v *viper.Viper) *Config {
	return &Config{
		Server: ServerConfig{
			Port:         v.GetInt("server.port"),
			ReadTimeout:  secondsDuration(v, "server.read_timeout"),
			WriteTimeout: secondsDuration(v, "server.write_timeout"),
		},
		Database: DatabaseConfig{
			URL: v.GetString("db.url"),
		},
		Redis: RedisConfig{
			Address:  v.GetString("redis.address"),
			Password: v.GetString("redis.password"),
			DB:       v.GetInt("redis.db"),
		},
		Elasticsearch: ElasticsearchConfig{
			Addresses: v.GetStringSlice("elasticsearch.addresses"),
			Index:     v.GetString("elasticsearch.index"),
		},
		LLM: LLMConfig{
			APIURL:  v.GetString("llm.api.url"),
			Model:   v.GetString("llm.model"),
			APIKey:  v.GetString("llm.api.key"),
			Timeout: secondsDuration(v, "llm.timeout"),
		},
		Similarity: SimilarityConfig{
			Threshold: v.GetFloat64("similarity.threshold"),
			Analyzer:  v.GetString("similarity.analyzer"),
		},
		Generator: GeneratorConfig{
			MaxAttempts:        v.GetInt("generator.maxAttempts"),
			MaxCountPerRequest: v.GetInt("generator.maxCountPerRequest"),
			RecentPreviewLimit: v.GetInt("generator.recentPreviewLimit"),
			PreviewCharLimit:   v.GetInt("generator.previewCharLimit"),
			PreviewCacheTTL:    secondsDuration(v, "generator.previewCacheTTL"),
		},
		Document: DocumentConfig{
			SaveDir: v.GetString("document.saveDir"),
		},
		Notion: NotionConfig{
			APIKey:       v.GetString("notion.api.key"),
			Version:      v.GetString("notion.version"),
			ParentPageID: v.GetString("notion.parent.pageId"),
		},
		Git: GitConfig{
			WorkDir: v.GetString("git.workDir"),
			Remote:  v.GetString("git.remote"),
			Branch:  v.GetString("git.branch"),
		},
		Logger: LoggerConfig{
			Level: v.GetString("logger.level"),
			Env:   v.GetString("logger.env"),
		},
	}
}
