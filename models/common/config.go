package common

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/APTrust/dart-profiles/constants"
	"github.com/APTrust/dart-profiles/util"
	"github.com/op/go-logging"
	"github.com/spf13/viper"
)

type Config struct {
	ConfigName        string
	CORSOrigins       []string
	FetchTimeout      time.Duration
	HttpAddr          string
	ImportChannel     string
	ImportTopic       string
	InstitutionDomain string
	LogDir            string
	LogLevel          logging.Level
	NsqLookupd        string
	NsqURL            string
	ProfileBucket     string
	RedisDefaultDB    int
	RedisPassword     string
	RedisURL          string
	S3Host            string
	S3Key             string
	S3Region          string
	S3Secret          string
	S3UseSSL          bool
}

var logLevels = map[string]logging.Level{
	"CRITICAL": logging.CRITICAL,
	"ERROR":    logging.ERROR,
	"WARNING":  logging.WARNING,
	"NOTICE":   logging.NOTICE,
	"INFO":     logging.INFO,
	"DEBUG":    logging.DEBUG,
}

// NewConfig returns a new config based on the env vars
// DART_CONFIG_DIR and DART_CONFIG. It panics if the config can't
// be loaded, since none of our services can run without it.
func NewConfig() *Config {
	configDir, envName := getEnvVars()
	config, err := LoadConfig(configDir, envName)
	if err != nil {
		panic(fmt.Errorf("Fatal error config file: %s \n", err))
	}
	return config
}

// LoadConfig loads .env.<envName> from configDir. Settings can be
// overridden by environment variables of the same name.
func LoadConfig(configDir, envName string) (*Config, error) {
	v := viper.New()
	v.AddConfigPath(configDir)
	v.SetConfigName(".env." + envName)
	v.SetConfigType("env")
	v.AutomaticEnv()
	setDefaults(v)
	err := v.ReadInConfig()
	if err != nil {
		return nil, err
	}
	config := &Config{
		ConfigName:        envName,
		CORSOrigins:       splitList(v.GetString("CORS_ALLOWED_ORIGINS")),
		FetchTimeout:      v.GetDuration("FETCH_TIMEOUT"),
		HttpAddr:          v.GetString("HTTP_ADDR"),
		ImportChannel:     v.GetString("IMPORT_CHANNEL"),
		ImportTopic:       v.GetString("IMPORT_TOPIC"),
		InstitutionDomain: v.GetString("INSTITUTION_DOMAIN"),
		LogDir:            v.GetString("LOG_DIR"),
		LogLevel:          parseLogLevel(v.GetString("LOG_LEVEL")),
		NsqLookupd:        v.GetString("NSQ_LOOKUPD"),
		NsqURL:            v.GetString("NSQ_URL"),
		ProfileBucket:     v.GetString("PROFILE_BUCKET"),
		RedisDefaultDB:    v.GetInt("REDIS_DEFAULT_DB"),
		RedisPassword:     v.GetString("REDIS_PASSWORD"),
		RedisURL:          v.GetString("REDIS_URL"),
		S3Host:            v.GetString("S3_HOST"),
		S3Key:             v.GetString("S3_KEY"),
		S3Region:          v.GetString("S3_REGION"),
		S3Secret:          v.GetString("S3_SECRET"),
		S3UseSSL:          v.GetBool("S3_USE_SSL"),
	}
	if err := config.expandPaths(); err != nil {
		return nil, err
	}
	return config, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("CORS_ALLOWED_ORIGINS", "*")
	v.SetDefault("FETCH_TIMEOUT", "30s")
	v.SetDefault("HTTP_ADDR", ":8080")
	v.SetDefault("IMPORT_CHANNEL", constants.ImportChannel)
	v.SetDefault("IMPORT_TOPIC", constants.ImportTopic)
	v.SetDefault("LOG_LEVEL", "INFO")
	v.SetDefault("S3_REGION", "us-east-1")
}

// splitList splits a comma-separated setting, dropping empty items.
func splitList(value string) []string {
	items := make([]string, 0)
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}
	return items
}

func parseLogLevel(name string) logging.Level {
	if level, ok := logLevels[name]; ok {
		return level
	}
	return logging.INFO
}

func getEnvVars() (string, string) {
	configDir := getRequiredEnvVar("DART_CONFIG_DIR")
	envName := getRequiredEnvVar("DART_CONFIG")
	return configDir, envName
}

func getRequiredEnvVar(varName string) string {
	value := os.Getenv(varName)
	if value == "" {
		panic(fmt.Sprintf("Required env var %s not set", varName))
	}
	return value
}

// Expand ~ to home dir in path settings.
func (c *Config) expandPaths() error {
	dir, err := util.ExpandTilde(c.LogDir)
	if err != nil {
		return err
	}
	c.LogDir = dir
	return nil
}

// MakeDirs creates the log directory if it doesn't exist.
func (c *Config) MakeDirs() error {
	return util.EnsureDir(c.LogDir)
}
