package common

import (
	"fmt"

	"github.com/APTrust/dart-profiles/network"
	"github.com/APTrust/dart-profiles/util/logger"
	"github.com/op/go-logging"
)

// Context holds the config, logger, and network clients shared by
// the profile services.
type Context struct {
	Config         *Config
	Fetcher        *network.ProfileFetcher
	Logger         *logging.Logger
	NSQClient      *network.NSQClient
	ProfileArchive *network.ProfileArchive
	RedisClient    *network.RedisClient
	Settings       *Settings
}

// NewContext builds a context from the config named in the
// environment. It panics if anything is misconfigured.
func NewContext() *Context {
	config := NewConfig()
	if err := config.MakeDirs(); err != nil {
		panic(err)
	}
	_logger, _ := logger.InitLogger(config.LogDir, config.LogLevel)
	context, err := NewContextWithLogger(config, _logger)
	if err != nil {
		panic(err)
	}
	return context
}

// NewContextWithLogger builds a context from config. Tests use this
// to point the context at in-memory Redis and S3 servers.
func NewContextWithLogger(config *Config, _logger *logging.Logger) (*Context, error) {
	redisClient := network.NewRedisClient(
		config.RedisURL,
		config.RedisPassword,
		config.RedisDefaultDB)
	archive, err := network.NewProfileArchive(
		config.S3Host,
		config.S3Key,
		config.S3Secret,
		config.S3Region,
		config.S3UseSSL,
		config.ProfileBucket)
	if err != nil {
		return nil, fmt.Errorf("Could not initialize profile archive: %v", err)
	}
	return &Context{
		Config:         config,
		Fetcher:        network.NewProfileFetcher(config.FetchTimeout),
		Logger:         _logger,
		NSQClient:      network.NewNSQClient(config.NsqURL),
		ProfileArchive: archive,
		RedisClient:    redisClient,
		Settings:       NewSettings(redisClient, config),
	}, nil
}
