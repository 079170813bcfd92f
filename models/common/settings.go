package common

import (
	"github.com/APTrust/dart-profiles/constants"
	"github.com/APTrust/dart-profiles/network"
)

// Settings provides application settings, such as the institution
// domain used in bag names. Values saved in Redis win. Anything not
// in Redis comes from the config file.
type Settings struct {
	redis  *network.RedisClient
	config *Config
}

func NewSettings(redis *network.RedisClient, config *Config) *Settings {
	return &Settings{
		redis:  redis,
		config: config,
	}
}

// Setting returns the named setting, or an empty string if it's not
// set anywhere. Redis errors fall through to the config.
func (s *Settings) Setting(name string) string {
	if s.redis != nil {
		if value, err := s.redis.SettingGet(name); err == nil && value != "" {
			return value
		}
	}
	return s.fromConfig(name)
}

// Save stores a setting in Redis.
func (s *Settings) Save(name, value string) error {
	return s.redis.SettingSave(name, value)
}

func (s *Settings) fromConfig(name string) string {
	if s.config == nil {
		return ""
	}
	switch name {
	case constants.SettingInstitutionDomain:
		return s.config.InstitutionDomain
	}
	return ""
}
