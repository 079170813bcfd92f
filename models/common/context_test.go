package common_test

import (
	"bytes"
	"testing"

	"github.com/APTrust/dart-profiles/constants"
	"github.com/APTrust/dart-profiles/models/common"
	"github.com/APTrust/dart-profiles/util/logger"
	"github.com/APTrust/dart-profiles/util/testutil"
	"github.com/op/go-logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func getTestContext(t *testing.T) (*common.Context, *testutil.RedisServer) {
	redisServer := testutil.NewRedisServer()
	t.Cleanup(redisServer.Close)
	config, err := common.LoadConfig(testutil.PathToConfigDir(), "test")
	require.Nil(t, err)
	config.RedisURL = redisServer.Addr()
	log := logger.InitWriterLogger("context-test", &bytes.Buffer{}, logging.DEBUG)
	context, err := common.NewContextWithLogger(config, log)
	require.Nil(t, err)
	return context, redisServer
}

func TestNewContextWithLogger(t *testing.T) {
	context, _ := getTestContext(t)
	assert.NotNil(t, context.Config)
	assert.NotNil(t, context.Fetcher)
	assert.NotNil(t, context.Logger)
	assert.NotNil(t, context.NSQClient)
	assert.Equal(t, "http://localhost:4151", context.NSQClient.URL)
	assert.NotNil(t, context.ProfileArchive)
	assert.Equal(t, "profiles", context.ProfileArchive.Bucket)
	assert.NotNil(t, context.RedisClient)
	assert.NotNil(t, context.Settings)

	pong, err := context.RedisClient.Ping()
	require.Nil(t, err)
	assert.Equal(t, "PONG", pong)
}

func TestSettings(t *testing.T) {
	context, _ := getTestContext(t)

	// Falls back to config
	assert.Equal(t, "test.edu", context.Settings.Setting(constants.SettingInstitutionDomain))
	assert.Equal(t, "", context.Settings.Setting("No Such Setting"))

	// Redis wins
	require.Nil(t, context.Settings.Save(constants.SettingInstitutionDomain, "saved.edu"))
	assert.Equal(t, "saved.edu", context.Settings.Setting(constants.SettingInstitutionDomain))
}

func TestSettingsRedisDown(t *testing.T) {
	context, redisServer := getTestContext(t)
	redisServer.Close()
	assert.Equal(t, "test.edu", context.Settings.Setting(constants.SettingInstitutionDomain))
}

func TestSettingsWithoutRedis(t *testing.T) {
	settings := common.NewSettings(nil, &common.Config{InstitutionDomain: "config.edu"})
	assert.Equal(t, "config.edu", settings.Setting(constants.SettingInstitutionDomain))
	assert.Equal(t, "", common.NewSettings(nil, nil).Setting(constants.SettingInstitutionDomain))
}
