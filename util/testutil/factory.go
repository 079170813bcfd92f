package testutil

import (
	"time"

	"github.com/APTrust/dart-profiles/bagit"
	"github.com/APTrust/dart-profiles/constants"
)

// FixedNow is the clock reading used by test namers and converters.
var FixedNow, _ = time.Parse(time.RFC3339, "2019-03-14T15:09:26Z")

const (
	Institution = "test.edu"
	FixedUUID   = "6c9e5ec0-8bb5-4c33-a5c5-1f2f5f5e0a3d"
)

// StaticSettings is a bagit.SettingsProvider backed by a map.
type StaticSettings map[string]string

func (s StaticSettings) Setting(name string) string {
	return s[name]
}

// NewTestNamer returns a Namer with a fixed clock, a fixed UUID, and
// Institution as the institution domain.
func NewTestNamer() *bagit.Namer {
	namer := bagit.NewNamer(StaticSettings{
		constants.SettingInstitutionDomain: Institution,
	})
	namer.NewUUID = func() string { return FixedUUID }
	namer.Now = func() time.Time { return FixedNow }
	return namer
}

// LoadAPTrustProfile loads the built-in APTrust profile fixture.
func LoadAPTrustProfile() (*bagit.BagItProfile, error) {
	return bagit.BagItProfileLoad(PathToProfile(constants.DefaultProfileFile))
}

// NewDPNProfile returns a default profile with a DPN tag file, which
// makes its bags use UUID names.
func NewDPNProfile() *bagit.BagItProfile {
	profile := bagit.NewBagItProfile("DPN", "Digital Preservation Network")
	tag := bagit.NewTagDefinition(constants.DPNInfoFile, "Member-Id")
	tag.Required = true
	profile.Tags = append(profile.Tags, tag)
	return profile
}

// NewCustomFileProfile returns a default profile with one user-added
// tag file, custom-tags.txt, which has a Contact-Name tag.
func NewCustomFileProfile() *bagit.BagItProfile {
	profile := bagit.NewBagItProfile("Custom", "Profile with a custom tag file")
	tag := bagit.NewTagDefinition("custom-tags.txt", "Contact-Name")
	tag.IsUserAddedFile = true
	tag.IsUserAddedTag = true
	tag.Required = true
	profile.Tags = append(profile.Tags, tag)
	return profile
}
