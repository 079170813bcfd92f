package logger_test

import (
	"bytes"
	"os"
	"testing"

	"github.com/APTrust/dart-profiles/util/logger"
	"github.com/op/go-logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitLogger(t *testing.T) {
	logDir := t.TempDir()
	log, filename := logger.InitLogger(logDir, logging.INFO)
	require.NotNil(t, log)
	log.Info("Profile imported")
	log.Debug("Not written at INFO level")

	data, err := os.ReadFile(filename)
	require.Nil(t, err)
	assert.Contains(t, string(data), "[INFO] Profile imported")
	assert.NotContains(t, string(data), "Not written")
}

func TestInitWriterLogger(t *testing.T) {
	buf := &bytes.Buffer{}
	log := logger.InitWriterLogger("writer-test", buf, logging.WARNING)
	log.Warningf("Profile %s is invalid", "abc")
	log.Info("Ignored")
	assert.Contains(t, buf.String(), "[WARNING] Profile abc is invalid")
	assert.NotContains(t, buf.String(), "Ignored")
}

func TestInitConsoleLogger(t *testing.T) {
	assert.NotNil(t, logger.InitConsoleLogger(logging.ERROR))
}
