package bagit_test

import (
	"testing"

	"github.com/APTrust/dart-profiles/bagit"
	"github.com/APTrust/dart-profiles/util/testutil"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNameLooksLegal(t *testing.T) {
	assert.True(t, bagit.NameLooksLegal("legal-name"))
	assert.True(t, bagit.NameLooksLegal("Legal_Name"))
	assert.True(t, bagit.NameLooksLegal("test.edu.bag-1552576166000"))
	assert.True(t, bagit.NameLooksLegal("Photos1999"))

	for _, name := range []string{
		"star*name",
		"question?name",
		"back\\slash",
		"forward/slash",
		"has space",
		"colon:name",
		"carriage\rreturn",
		"new\nline",
		"tab\tname",
	} {
		assert.False(t, bagit.NameLooksLegal(name), name)
	}
}

func TestCleanBagName(t *testing.T) {
	assert.Equal(t, "example.edu.photos", bagit.CleanBagName("example.edu.photos.tar"))
	assert.Equal(t, "example.edu.photos", bagit.CleanBagName("example.edu.photos.b01.of12.tar"))
	assert.Equal(t, "example.edu.photos", bagit.CleanBagName("example.edu.photos.b123.of456"))
	assert.Equal(t, "example.edu.photos", bagit.CleanBagName("example.edu.photos"))
	assert.Equal(t, "photos.tar.gz", bagit.CleanBagName("photos.tar.gz"))
}

func TestLooksLikeUUID(t *testing.T) {
	assert.True(t, bagit.LooksLikeUUID(testutil.FixedUUID))
	assert.True(t, bagit.LooksLikeUUID(uuid.NewString()))
	assert.False(t, bagit.LooksLikeUUID(""))
	assert.False(t, bagit.LooksLikeUUID("bag-1552576166000"))
	assert.False(t, bagit.LooksLikeUUID("6C9E5EC0-8BB5-4C33-A5C5-1F2F5F5E0A3D"))
	assert.False(t, bagit.LooksLikeUUID("{6c9e5ec0-8bb5-4c33-a5c5-1f2f5f5e0a3d}"))
	assert.False(t, bagit.LooksLikeUUID("urn:uuid:6c9e5ec0-8bb5-4c33-a5c5-1f2f5f5e0a3d"))
	// Version 1
	assert.False(t, bagit.LooksLikeUUID("6c9e5ec0-8bb5-1c33-a5c5-1f2f5f5e0a3d"))
}

func TestSuggestGenericBagName(t *testing.T) {
	namer := testutil.NewTestNamer()
	assert.Equal(t, "bag-1552576166000", namer.SuggestGenericBagName())
}

func TestSuggestBagName(t *testing.T) {
	namer := testutil.NewTestNamer()

	aptrust, err := testutil.LoadAPTrustProfile()
	require.Nil(t, err)
	name, err := namer.SuggestBagName(aptrust)
	require.Nil(t, err)
	assert.Equal(t, "test.edu.bag-1552576166000", name)

	name, err = namer.SuggestBagName(testutil.NewDPNProfile())
	require.Nil(t, err)
	assert.Equal(t, testutil.FixedUUID, name)

	name, err = namer.SuggestBagName(bagit.NewBagItProfile("", ""))
	require.Nil(t, err)
	assert.Equal(t, "bag-1552576166000", name)
}

func TestSuggestBagNameDefaults(t *testing.T) {
	namer := bagit.NewNamer(testutil.StaticSettings{})
	name, err := namer.SuggestBagName(testutil.NewDPNProfile())
	require.Nil(t, err)
	assert.True(t, bagit.LooksLikeUUID(name))
	other, err := namer.SuggestBagName(testutil.NewDPNProfile())
	require.Nil(t, err)
	assert.NotEqual(t, name, other)
	assert.Regexp(t, `^bag-\d+$`, namer.SuggestGenericBagName())
}

func TestNamingWithoutInstitutionDomain(t *testing.T) {
	aptrust, err := testutil.LoadAPTrustProfile()
	require.Nil(t, err)
	for _, namer := range []*bagit.Namer{
		bagit.NewNamer(testutil.StaticSettings{}),
		bagit.NewNamer(nil),
	} {
		name, err := namer.SuggestBagName(aptrust)
		assert.Equal(t, "", name)
		assert.ErrorIs(t, err, bagit.ErrNoInstitutionDomain)

		assert.False(t, namer.IsValidBagName(aptrust, ".foo"))
		assert.False(t, namer.IsValidBagName(aptrust, "foo"))
		assert.False(t, namer.IsValidBagFileName(aptrust, ".foo.tar"))

		// Profiles that don't need the domain are unaffected.
		assert.True(t, namer.IsValidBagName(bagit.NewBagItProfile("", ""), "foo"))
	}
}

func TestIsValidBagName(t *testing.T) {
	namer := testutil.NewTestNamer()

	aptrust, err := testutil.LoadAPTrustProfile()
	require.Nil(t, err)
	assert.True(t, namer.IsValidBagName(aptrust, "test.edu.photos"))
	assert.True(t, namer.IsValidBagName(aptrust, "test.edu.bag-1552576166000"))
	assert.False(t, namer.IsValidBagName(aptrust, "photos"))
	assert.False(t, namer.IsValidBagName(aptrust, "other.edu.photos"))
	assert.False(t, namer.IsValidBagName(aptrust, "test.edu.my photos"))
	assert.False(t, namer.IsValidBagName(aptrust, "test.edu"))

	dpn := testutil.NewDPNProfile()
	assert.True(t, namer.IsValidBagName(dpn, testutil.FixedUUID))
	assert.False(t, namer.IsValidBagName(dpn, "test.edu.photos"))
	assert.False(t, namer.IsValidBagName(dpn, "bag-1552576166000"))

	generic := bagit.NewBagItProfile("", "")
	assert.True(t, namer.IsValidBagName(generic, "legal-name"))
	assert.True(t, namer.IsValidBagName(generic, testutil.FixedUUID))
	assert.False(t, namer.IsValidBagName(generic, "illegal name"))
	assert.False(t, namer.IsValidBagName(generic, "illegal:name"))
}

func TestIsValidBagFileName(t *testing.T) {
	namer := testutil.NewTestNamer()
	aptrust, err := testutil.LoadAPTrustProfile()
	require.Nil(t, err)
	assert.True(t, namer.IsValidBagFileName(aptrust, "test.edu.photos.tar"))
	assert.True(t, namer.IsValidBagFileName(aptrust, "test.edu.photos.b01.of04.tar"))
	assert.False(t, namer.IsValidBagFileName(aptrust, "photos.b01.of04.tar"))

	dpn := testutil.NewDPNProfile()
	assert.True(t, namer.IsValidBagFileName(dpn, testutil.FixedUUID+".tar"))
}
