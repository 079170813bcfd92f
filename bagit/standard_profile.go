package bagit

import (
	"encoding/json"

	"github.com/APTrust/dart-profiles/constants"
	"github.com/APTrust/dart-profiles/util"
	"gopkg.in/yaml.v3"
)

// StandardProfile is a BagIt profile in the format described at
// https://github.com/bagit-profiles/bagit-profiles-specification.
// It can only describe tags in bag-info.txt.
type StandardProfile struct {
	AcceptBagItVersion   []string               `json:"Accept-BagIt-Version" yaml:"Accept-BagIt-Version"`
	AcceptSerialization  []string               `json:"Accept-Serialization" yaml:"Accept-Serialization"`
	AllowFetchTxt        bool                   `json:"Allow-Fetch.txt" yaml:"Allow-Fetch.txt"`
	BagInfo              map[string]StandardTag `json:"Bag-Info" yaml:"Bag-Info"`
	BagItProfileInfo     StandardProfileInfo    `json:"BagIt-Profile-Info" yaml:"BagIt-Profile-Info"`
	ManifestsAllowed     []string               `json:"Manifests-Allowed" yaml:"Manifests-Allowed"`
	ManifestsRequired    []string               `json:"Manifests-Required" yaml:"Manifests-Required"`
	Serialization        string                 `json:"Serialization" yaml:"Serialization"`
	TagFilesAllowed      []string               `json:"Tag-Files-Allowed" yaml:"Tag-Files-Allowed"`
	TagFilesRequired     []string               `json:"Tag-Files-Required" yaml:"Tag-Files-Required"`
	TagManifestsAllowed  []string               `json:"Tag-Manifests-Allowed" yaml:"Tag-Manifests-Allowed"`
	TagManifestsRequired []string               `json:"Tag-Manifests-Required" yaml:"Tag-Manifests-Required"`
}
type tmpStandardProfile StandardProfile // used for Unmarshal

type StandardProfileInfo struct {
	BagItProfileIdentifier string `json:"BagIt-Profile-Identifier" yaml:"BagIt-Profile-Identifier"`
	BagItProfileVersion    string `json:"BagIt-Profile-Version" yaml:"BagIt-Profile-Version"`
	ContactEmail           string `json:"Contact-Email" yaml:"Contact-Email"`
	ContactName            string `json:"Contact-Name" yaml:"Contact-Name"`
	ExternalDescription    string `json:"External-Description" yaml:"External-Description"`
	SourceOrganization     string `json:"Source-Organization" yaml:"Source-Organization"`
	Version                string `json:"Version" yaml:"Version"`
}

type StandardTag struct {
	DefaultValue string   `json:"defaultValue,omitempty" yaml:"defaultValue,omitempty"`
	Required     bool     `json:"required" yaml:"required"`
	Values       []string `json:"values,omitempty" yaml:"values,omitempty"`
}

func (prof *StandardProfile) UnmarshalJSON(b []byte) error {
	// bagit-profiles defaults that a missing key would otherwise zero
	tmp := tmpStandardProfile{
		AllowFetchTxt: true,
		Serialization: constants.SerializationOptional,
	}
	if err := json.Unmarshal(b, &tmp); err != nil {
		return err
	}
	*prof = StandardProfile(tmp)
	return nil
}

// ToJson returns the profile as indented JSON.
func (prof *StandardProfile) ToJson() (string, error) {
	bytes, err := json.MarshalIndent(prof, "", "  ")
	if err != nil {
		return "", err
	}
	return string(bytes), nil
}

// ToYaml returns the profile as YAML, with the same keys as ToJson.
func (prof *StandardProfile) ToYaml() (string, error) {
	bytes, err := yaml.Marshal(prof)
	if err != nil {
		return "", err
	}
	return string(bytes), nil
}

// toDart copies the profile-level settings of a standard profile
// into p. Tags are handled separately.
func (prof *StandardProfile) toDart(p *BagItProfile) {
	p.Name = prof.BagItProfileInfo.ExternalDescription
	p.AcceptBagItVersion = nonNil(prof.AcceptBagItVersion)
	p.AcceptSerialization = nonNil(prof.AcceptSerialization)
	p.AllowFetchTxt = prof.AllowFetchTxt
	p.Serialization = prof.Serialization
	p.ManifestsRequired = nonNil(prof.ManifestsRequired)
	p.ManifestsAllowed = orDefault(prof.ManifestsAllowed, constants.DigestAlgorithms)
	p.TagManifestsRequired = nonNil(prof.TagManifestsRequired)
	p.TagManifestsAllowed = orDefault(prof.TagManifestsAllowed, constants.DigestAlgorithms)
	p.TagFilesAllowed = orDefault(prof.TagFilesAllowed, []string{constants.TagFilesAllowAny})
	p.BagItProfileInfo = BagItProfileInfo{
		BagItProfileIdentifier: prof.BagItProfileInfo.BagItProfileIdentifier,
		BagItProfileVersion:    prof.BagItProfileInfo.BagItProfileVersion,
		ContactEmail:           prof.BagItProfileInfo.ContactEmail,
		ContactName:            prof.BagItProfileInfo.ContactName,
		ExternalDescription:    prof.BagItProfileInfo.ExternalDescription,
		SourceOrganization:     prof.BagItProfileInfo.SourceOrganization,
		Version:                prof.BagItProfileInfo.Version,
	}
}

// NewStandardProfile converts p to the bagit-profiles format.
//
// This loses information. Only bag-info.txt tags carry over, and only
// whether they're required and which values they allow. Tags from
// bagit.txt are dropped. For any other tag file, the most we can say
// is that it's required, which we do if any of its tags is required.
func NewStandardProfile(p *BagItProfile) *StandardProfile {
	prof := &StandardProfile{
		AcceptBagItVersion:   nonNil(p.AcceptBagItVersion),
		AcceptSerialization:  nonNil(p.AcceptSerialization),
		AllowFetchTxt:        p.AllowFetchTxt,
		BagInfo:              make(map[string]StandardTag),
		ManifestsAllowed:     nonNil(p.ManifestsAllowed),
		ManifestsRequired:    nonNil(p.ManifestsRequired),
		Serialization:        p.Serialization,
		TagFilesAllowed:      nonNil(p.TagFilesAllowed),
		TagFilesRequired:     make([]string, 0),
		TagManifestsAllowed:  nonNil(p.TagManifestsAllowed),
		TagManifestsRequired: nonNil(p.TagManifestsRequired),
		BagItProfileInfo: StandardProfileInfo{
			BagItProfileIdentifier: p.BagItProfileInfo.BagItProfileIdentifier,
			BagItProfileVersion:    p.BagItProfileInfo.BagItProfileVersion,
			ContactEmail:           p.BagItProfileInfo.ContactEmail,
			ContactName:            p.BagItProfileInfo.ContactName,
			ExternalDescription:    p.BagItProfileInfo.ExternalDescription,
			SourceOrganization:     p.BagItProfileInfo.SourceOrganization,
			Version:                p.BagItProfileInfo.Version,
		},
	}
	for _, tag := range p.Tags {
		switch tag.TagFile {
		case constants.BagItFile:
			continue
		case constants.BagInfoFile:
			stdTag := StandardTag{Required: tag.Required}
			if len(tag.Values) > 0 {
				stdTag.Values = copyList(tag.Values)
			}
			prof.BagInfo[tag.TagName] = stdTag
		default:
			if tag.Required && !util.StringListContains(prof.TagFilesRequired, tag.TagFile) {
				prof.TagFilesRequired = append(prof.TagFilesRequired, tag.TagFile)
			}
		}
	}
	return prof
}

func nonNil(list []string) []string {
	if list == nil {
		return make([]string, 0)
	}
	return copyList(list)
}

func orDefault(list, defaultList []string) []string {
	if list == nil {
		return copyList(defaultList)
	}
	return copyList(list)
}
