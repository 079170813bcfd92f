package bagit

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/APTrust/dart-profiles/constants"
	"github.com/google/uuid"
)

// The tar files that make up multipart bags include a suffix
// that follows this pattern. For example, after stripping off
// the .tar suffix, you'll have a name like "my_bag.b04.of12"
var MultipartSuffix = regexp.MustCompile("\\.b\\d+\\.of\\d+$")

// Matches strings that end with .tar
var TarSuffix = regexp.MustCompile("\\.tar$")

// Characters that may not appear in a bag name.
var illegalNameChars = regexp.MustCompile("[*?\\\\/: \r\n\t]")

// CleanBagName returns the clean bag name. That's the tar file name minus
// the tar extension and any ".bagN.ofN" suffix.
func CleanBagName(bagName string) string {
	nameMinusTarSuffix := TarSuffix.ReplaceAllString(bagName, "")
	return MultipartSuffix.ReplaceAllString(nameMinusTarSuffix, "")
}

// NameLooksLegal returns true if name contains none of the characters
// that cause trouble in file names on common operating systems:
// asterisk, question mark, slash, backslash, colon, space, carriage
// return, newline and tab.
func NameLooksLegal(name string) bool {
	return !illegalNameChars.MatchString(name)
}

// LooksLikeUUID returns true if s is a canonical version 4 UUID.
func LooksLikeUUID(s string) bool {
	id, err := uuid.Parse(s)
	if err != nil {
		return false
	}
	// uuid.Parse also accepts urn: and braced forms.
	return id.Version() == 4 && id.String() == strings.ToLower(s)
}

// SettingsProvider returns application settings by name, such as
// the institution's domain name.
type SettingsProvider interface {
	Setting(name string) string
}

// Namer suggests and checks bag names according to the conventions
// of the repository a profile targets.
type Namer struct {
	Settings SettingsProvider
	NewUUID  func() string
	Now      func() time.Time
}

// NewNamer returns a Namer that reads the institution domain from
// settings and uses the system clock.
func NewNamer(settings SettingsProvider) *Namer {
	return &Namer{
		Settings: settings,
		NewUUID:  uuid.NewString,
		Now:      time.Now,
	}
}

func (n *Namer) institutionDomain() string {
	if n.Settings == nil {
		return ""
	}
	return n.Settings.Setting(constants.SettingInstitutionDomain)
}

// SuggestBagName suggests a name for a bag built with profile.
// APTrust bags start with the institution's domain. DPN bags are
// named with a UUID. Anything else gets a generic name. The error
// wraps ErrNoInstitutionDomain when the name needs a domain and
// there is none.
func (n *Namer) SuggestBagName(profile *BagItProfile) (string, error) {
	if usesInstitutionPrefix(profile) {
		domain := n.institutionDomain()
		if domain == "" {
			return "", fmt.Errorf("cannot name bags for %s: %w", profile.Name, ErrNoInstitutionDomain)
		}
		return fmt.Sprintf("%s.%s", domain, n.SuggestGenericBagName()), nil
	}
	if usesUUIDNames(profile) {
		return n.NewUUID(), nil
	}
	return n.SuggestGenericBagName(), nil
}

// SuggestGenericBagName returns "bag-" followed by the current time
// in milliseconds.
func (n *Namer) SuggestGenericBagName() string {
	return fmt.Sprintf("bag-%d", n.Now().UnixNano()/int64(time.Millisecond))
}

// IsValidBagName returns true if name follows the naming rules of
// profile. Without an institution domain, no name is valid for
// profiles that require one.
func (n *Namer) IsValidBagName(profile *BagItProfile, name string) bool {
	if usesInstitutionPrefix(profile) {
		domain := n.institutionDomain()
		if domain == "" {
			return false
		}
		prefix := domain + "."
		return strings.HasPrefix(name, prefix) && NameLooksLegal(strings.TrimPrefix(name, prefix))
	}
	if usesUUIDNames(profile) {
		return LooksLikeUUID(name)
	}
	return NameLooksLegal(name)
}

// IsValidBagFileName is like IsValidBagName, but it accepts the
// name of a serialized bag, such as "example.edu.photos.b01.of04.tar".
func (n *Namer) IsValidBagFileName(profile *BagItProfile, fileName string) bool {
	return n.IsValidBagName(profile, CleanBagName(fileName))
}

func usesInstitutionPrefix(profile *BagItProfile) bool {
	return profile.HasTagFile(constants.APTrustInfoFile)
}

func usesUUIDNames(profile *BagItProfile) bool {
	return profile.HasTagFile(constants.DPNInfoFile)
}
