package bagit_test

import (
	"encoding/json"
	"os"
	"testing"

	"github.com/APTrust/dart-profiles/bagit"
	"github.com/APTrust/dart-profiles/constants"
	"github.com/APTrust/dart-profiles/util/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func loadDocument(t *testing.T, path string) bagit.Document {
	data, err := os.ReadFile(path)
	require.Nil(t, err)
	doc, err := bagit.ParseProfileDocument(data)
	require.Nil(t, err)
	return doc
}

func parseDocument(t *testing.T, text string) bagit.Document {
	doc, err := bagit.ParseProfileDocument([]byte(text))
	require.Nil(t, err, text)
	return doc
}

func TestGuessProfileTypeFixtures(t *testing.T) {
	fixtures := map[string]bagit.ProfileDialect{
		testutil.PathToProfile(constants.DefaultProfileFile):       bagit.DialectDart,
		testutil.PathToImportFixture("standard_profile.json"):      bagit.DialectBagItProfiles,
		testutil.PathToImportFixture("standard_profile.yaml"):      bagit.DialectBagItProfiles,
		testutil.PathToImportFixture("loc_ordered_profile.json"):   bagit.DialectLOCOrdered,
		testutil.PathToImportFixture("loc_unordered_profile.json"): bagit.DialectLOCUnordered,
		testutil.PathToImportFixture("unknown.json"):               bagit.DialectUnknown,
	}
	for path, expected := range fixtures {
		assert.Equal(t, expected, bagit.GuessProfileType(loadDocument(t, path)), path)
	}
}

func TestGuessProfileTypePriority(t *testing.T) {
	// tags beats everything else
	doc := parseDocument(t, `{"tags": [], "ordered": [], "Bag-Info": {}}`)
	assert.Equal(t, bagit.DialectDart, bagit.GuessProfileType(doc))

	// ordered beats Bag-Info
	doc = parseDocument(t, `{"ordered": [], "Bag-Info": {}}`)
	assert.Equal(t, bagit.DialectLOCOrdered, bagit.GuessProfileType(doc))

	// tags and ordered must be lists
	doc = parseDocument(t, `{"tags": "nope", "ordered": {}, "Bag-Info": {}}`)
	assert.Equal(t, bagit.DialectBagItProfiles, bagit.GuessProfileType(doc))

	// Bag-Info must be an object
	doc = parseDocument(t, `{"Bag-Info": []}`)
	assert.Equal(t, bagit.DialectUnknown, bagit.GuessProfileType(doc))

	doc = parseDocument(t, `{"A": {"fieldRequired": false}, "B": {"requiredValue": "x"}}`)
	assert.Equal(t, bagit.DialectLOCUnordered, bagit.GuessProfileType(doc))

	// One entry without either marker spoils it.
	doc = parseDocument(t, `{"A": {"fieldRequired": false}, "B": {"defaultValue": "x"}}`)
	assert.Equal(t, bagit.DialectUnknown, bagit.GuessProfileType(doc))

	doc = parseDocument(t, `{"A": {"fieldRequired": false}, "B": "x"}`)
	assert.Equal(t, bagit.DialectUnknown, bagit.GuessProfileType(doc))

	// Nothing contradicts the LOC shape in an empty object.
	assert.Equal(t, bagit.DialectLOCUnordered, bagit.GuessProfileType(parseDocument(t, `{}`)))
}

func TestProfileDialectString(t *testing.T) {
	assert.Equal(t, "dart", bagit.DialectDart.String())
	assert.Equal(t, "bagit_profiles", bagit.DialectBagItProfiles.String())
	assert.Equal(t, "loc_ordered", bagit.DialectLOCOrdered.String())
	assert.Equal(t, "loc_unordered", bagit.DialectLOCUnordered.String())
	assert.Equal(t, "unknown", bagit.DialectUnknown.String())
	assert.Equal(t, "unknown", bagit.ProfileDialect(99).String())

	data, err := json.Marshal(map[string]bagit.ProfileDialect{"dialect": bagit.DialectLOCOrdered})
	require.Nil(t, err)
	assert.Equal(t, `{"dialect":"loc_ordered"}`, string(data))
}

func TestParseProfileDocument(t *testing.T) {
	doc, err := bagit.ParseProfileDocument([]byte(`{"Bag-Info": {"Title": {"required": true}}}`))
	require.Nil(t, err)
	bagInfo, ok := doc["Bag-Info"].(map[string]interface{})
	require.True(t, ok)
	assert.NotNil(t, bagInfo["Title"])

	doc, err = bagit.ParseProfileDocument([]byte("Bag-Info:\n  Title:\n    required: true\n"))
	require.Nil(t, err)
	assert.Equal(t, bagit.DialectBagItProfiles, bagit.GuessProfileType(doc))

	_, err = bagit.ParseProfileDocument([]byte(`[1, 2, 3]`))
	assert.NotNil(t, err)

	_, err = bagit.ParseProfileDocument([]byte(`just a string`))
	assert.NotNil(t, err)
}
