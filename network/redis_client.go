package network

import (
	"sort"

	"github.com/APTrust/dart-profiles/bagit"
	"github.com/APTrust/dart-profiles/constants"
	"github.com/go-redis/redis/v7"
	"github.com/pkg/errors"
)

// RedisClient stores BagIt profiles and application settings in
// Redis. Profiles live as JSON in a single hash keyed by profile id.
// Settings live in a second hash keyed by setting name.
type RedisClient struct {
	client *redis.Client
}

func NewRedisClient(address, password string, db int) *RedisClient {
	return &RedisClient{
		client: redis.NewClient(&redis.Options{
			Addr:     address,
			Password: password,
			DB:       db,
		}),
	}
}

func (c *RedisClient) Ping() (string, error) {
	return c.client.Ping().Result()
}

// ProfileGet returns the profile with the specified id. The error
// wraps bagit.ErrProfileNotFound if there is no such profile.
func (c *RedisClient) ProfileGet(id string) (*bagit.BagItProfile, error) {
	data, err := c.client.HGet(constants.RedisProfileKey, id).Result()
	if err == redis.Nil {
		return nil, errors.Wrapf(bagit.ErrProfileNotFound, "ProfileGet (%s)", id)
	}
	if err != nil {
		return nil, errors.Wrapf(err, "ProfileGet (%s)", id)
	}
	profile, err := bagit.BagItProfileFromJson(data)
	if err != nil {
		return nil, errors.Wrapf(err, "ProfileGet (%s): bad JSON", id)
	}
	return profile, nil
}

// ProfileSave saves profile, replacing any existing profile with
// the same id.
func (c *RedisClient) ProfileSave(profile *bagit.BagItProfile) error {
	jsonData, err := profile.ToJson()
	if err != nil {
		return errors.Wrapf(err, "ProfileSave (%s)", profile.Id)
	}
	_, err = c.client.HSet(constants.RedisProfileKey, profile.Id, jsonData).Result()
	return errors.Wrapf(err, "ProfileSave (%s)", profile.Id)
}

// ProfileList returns all saved profiles, sorted by name.
func (c *RedisClient) ProfileList() ([]*bagit.BagItProfile, error) {
	all, err := c.client.HGetAll(constants.RedisProfileKey).Result()
	if err != nil {
		return nil, errors.Wrap(err, "ProfileList")
	}
	profiles := make([]*bagit.BagItProfile, 0, len(all))
	for id, data := range all {
		profile, err := bagit.BagItProfileFromJson(data)
		if err != nil {
			return nil, errors.Wrapf(err, "ProfileList: bad JSON for %s", id)
		}
		profiles = append(profiles, profile)
	}
	sort.Slice(profiles, func(i, j int) bool {
		if profiles[i].Name == profiles[j].Name {
			return profiles[i].Id < profiles[j].Id
		}
		return profiles[i].Name < profiles[j].Name
	})
	return profiles, nil
}

// ProfileDelete deletes the profile with the specified id. It refuses
// to delete built-in profiles and profiles the user may not delete,
// returning an error that wraps bagit.ErrBuiltInProfile.
func (c *RedisClient) ProfileDelete(id string) error {
	profile, err := c.ProfileGet(id)
	if err != nil {
		return err
	}
	if profile.IsBuiltIn || !profile.UserCanDelete {
		return errors.Wrapf(bagit.ErrBuiltInProfile, "ProfileDelete (%s)", id)
	}
	_, err = c.client.HDel(constants.RedisProfileKey, id).Result()
	return errors.Wrapf(err, "ProfileDelete (%s)", id)
}

// SettingGet returns the value of the named setting, or an empty
// string if it has not been set.
func (c *RedisClient) SettingGet(name string) (string, error) {
	value, err := c.client.HGet(constants.RedisSettingsKey, name).Result()
	if err == redis.Nil {
		return "", nil
	}
	return value, errors.Wrapf(err, "SettingGet (%s)", name)
}

func (c *RedisClient) SettingSave(name, value string) error {
	_, err := c.client.HSet(constants.RedisSettingsKey, name, value).Result()
	return errors.Wrapf(err, "SettingSave (%s)", name)
}
