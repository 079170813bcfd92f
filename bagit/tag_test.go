package bagit_test

import (
	"os"
	"strings"
	"testing"

	"github.com/APTrust/dart-profiles/bagit"
	"github.com/APTrust/dart-profiles/constants"
	"github.com/APTrust/dart-profiles/util/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTag(t *testing.T) {
	tag := bagit.NewTag(constants.BagInfoFile, "Bag-Count", "1 of 3")
	assert.Equal(t, constants.BagInfoFile, tag.TagFile)
	assert.Equal(t, "Bag-Count", tag.TagName)
	assert.Equal(t, "1 of 3", tag.Value)
}

func TestParseTagFileContents(t *testing.T) {
	file, err := os.Open(testutil.PathToTagFile("bag-info.txt"))
	require.Nil(t, err)
	defer file.Close()

	tags, err := bagit.ParseTagFileContents(file, constants.BagInfoFile)
	require.Nil(t, err)
	require.Equal(t, 8, len(tags))

	expected := []struct{ name, value string }{
		{"Source-Organization", "Example University"},
		{"Bagging-Date", "2018-11-09"},
		{"Contact-Name", "Jane Archivist"},
		{"Contact-Email", "jane@example.edu"},
		{"External-Description", "Letters and photographs from the Smith family collection, 1890-1920."},
		{"Internal-Sender-Identifier", "smith-0001"},
		{"Internal-Sender-Identifier", "smith-0002"},
		{"Project-Code", "SMITH"},
	}
	for i, tag := range tags {
		assert.Equal(t, constants.BagInfoFile, tag.TagFile)
		assert.Equal(t, expected[i].name, tag.TagName)
		assert.Equal(t, expected[i].value, tag.Value)
	}
}

func TestParseTagFileContentsColonInValue(t *testing.T) {
	tags, err := bagit.ParseTagFileContents(
		strings.NewReader("Source-URL: https://example.com/bags\r\nEmpty-Tag:\r\n"),
		"custom.txt")
	require.Nil(t, err)
	require.Equal(t, 2, len(tags))
	assert.Equal(t, "https://example.com/bags", tags[0].Value)
	assert.Equal(t, "Empty-Tag", tags[1].TagName)
	assert.Equal(t, "", tags[1].Value)
}

func TestParseTagFileContentsErrors(t *testing.T) {
	_, err := bagit.ParseTagFileContents(strings.NewReader("No colon here"), constants.BagInfoFile)
	require.NotNil(t, err)
	assert.Contains(t, err.Error(), "bag-info.txt line 1")

	_, err = bagit.ParseTagFileContents(strings.NewReader("  starts with a continuation"), constants.BagInfoFile)
	require.NotNil(t, err)
	assert.Contains(t, err.Error(), "continuation line")
}
