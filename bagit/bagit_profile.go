package bagit

import (
	"encoding/json"
	"io/ioutil"
	"os"
	"sort"
	"strings"

	"github.com/APTrust/dart-profiles/constants"
	"github.com/APTrust/dart-profiles/util"
	"github.com/bmatcuk/doublestar/v4"
	"github.com/google/uuid"
)

// BagItProfile represents a DART-type BagItProfile, as described at
// https://aptrust.github.io/dart/BagItProfile.html. This format differs
// slightly from the profiles at
// https://github.com/bagit-profiles/bagit-profiles-specification. The
// DART specification is richer and can describe requirements that the
// other profile format cannot. See converter.go for conversion between
// the formats.
//
// Tags are kept in order. The order determines the order of lines in
// rendered tag files.
type BagItProfile struct {
	AcceptBagItVersion     []string         `json:"acceptBagItVersion"`
	AcceptSerialization    []string         `json:"acceptSerialization"`
	AllowFetchTxt          bool             `json:"allowFetchTxt"`
	AllowMiscDirectories   bool             `json:"allowMiscDirectories"`
	AllowMiscTopLevelFiles bool             `json:"allowMiscTopLevelFiles"`
	BagItProfileInfo       BagItProfileInfo `json:"bagItProfileInfo"`
	BaseProfileId          string           `json:"baseProfileId"`
	Description            string           `json:"description"`
	Id                     string           `json:"id"`
	IsBuiltIn              bool             `json:"isBuiltIn"`
	ManifestsAllowed       []string         `json:"manifestsAllowed"`
	ManifestsRequired      []string         `json:"manifestsRequired"`
	Name                   string           `json:"name"`
	Serialization          string           `json:"serialization"`
	TagFilesAllowed        []string         `json:"tagFilesAllowed"`
	TagManifestsAllowed    []string         `json:"tagManifestsAllowed"`
	TagManifestsRequired   []string         `json:"tagManifestsRequired"`
	Tags                   []*TagDefinition `json:"tags"`
	UserCanDelete          bool             `json:"userCanDelete"`
}

// NewBagItProfile returns a profile with the default settings and
// the standard tags for bagit.txt and bag-info.txt. Empty name and
// description get generic defaults.
func NewBagItProfile(name, description string) *BagItProfile {
	if name == "" {
		name = "New BagIt Profile"
	}
	if description == "" {
		description = "New custom BagIt profile"
	}
	return &BagItProfile{
		AcceptBagItVersion:   []string{constants.BagItVersionDefault},
		AcceptSerialization:  []string{constants.SerializationTar},
		Description:          description,
		Id:                   uuid.NewString(),
		ManifestsAllowed:     copyList(constants.DigestAlgorithms),
		ManifestsRequired:    []string{constants.AlgSha256},
		Name:                 name,
		Serialization:        constants.SerializationOptional,
		TagFilesAllowed:      []string{constants.TagFilesAllowAny},
		TagManifestsAllowed:  copyList(constants.DigestAlgorithms),
		TagManifestsRequired: make([]string, 0),
		Tags:                 defaultTags(),
		UserCanDelete:        true,
	}
}

// defaultBagInfoTags are the bag-info.txt tags described in the
// BagIt spec, with help text for the profile editor.
var defaultBagInfoTags = []struct {
	name string
	help string
}{
	{"Bag-Count", "The number of bags that make up this object, in the form 'N of T'."},
	{"Bag-Group-Identifier", "Identifies the logical group or collection to which this bag belongs."},
	{"Bag-Size", "The size of the bag in human-readable form, such as '260 GB'."},
	{"Bagging-Date", "The date this bag was created. The bagging software should set this."},
	{"Contact-Email", "Email address of the person responsible for this bag."},
	{"Contact-Name", "Name of the person responsible for this bag."},
	{"Contact-Phone", "Phone number of the person responsible for this bag."},
	{"External-Description", "A description of the bag's contents for people outside your organization."},
	{"External-Identifier", "An identifier for this bag that is meaningful outside your organization."},
	{"Internal-Sender-Description", "A description of the bag's contents for the sender's internal use."},
	{"Internal-Sender-Identifier", "A unique identifier for this bag inside your organization."},
	{"Organization-Address", "Mailing address of the organization that produced this bag."},
	{"Payload-Oxum", "The number of octets and files in the payload, as 'OctetCount.StreamCount'."},
	{"Source-Organization", "The organization that produced this bag, or is responsible for its contents."},
}

func defaultTags() []*TagDefinition {
	tags := make([]*TagDefinition, 0, 2+len(defaultBagInfoTags))

	version := NewTagDefinition(constants.BagItFile, "BagIt-Version")
	version.Required = true
	version.Values = []string{"0.97", "1.0"}
	version.DefaultValue = constants.BagItVersionDefault
	version.IsBuiltIn = true
	version.Help = "Which version of the BagIt specification describes this bag's format?"
	tags = append(tags, version)

	encoding := NewTagDefinition(constants.BagItFile, "Tag-File-Character-Encoding")
	encoding.Required = true
	encoding.DefaultValue = constants.TagFileEncodingDefault
	encoding.IsBuiltIn = true
	encoding.Help = "How are this bag's plain-text tag files encoded? (Usually UTF-8.)"
	tags = append(tags, encoding)

	for _, item := range defaultBagInfoTags {
		tag := NewTagDefinition(constants.BagInfoFile, item.name)
		tag.EmptyOk = true
		tag.IsBuiltIn = true
		tag.Help = item.help
		tags = append(tags, tag)
	}
	return tags
}

func BagItProfileLoad(filename string) (*BagItProfile, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	defer file.Close()
	data, err := ioutil.ReadAll(file)
	if err != nil {
		return nil, err
	}
	return BagItProfileFromJson(string(data))
}

type tmpBagItProfile BagItProfile // used for Unmarshal

// UnmarshalJSON drops null entries from the tags list, so the rest of
// the package never sees a nil tag.
func (p *BagItProfile) UnmarshalJSON(b []byte) error {
	tmp := tmpBagItProfile{}
	if err := json.Unmarshal(b, &tmp); err != nil {
		return err
	}
	if tmp.Tags != nil {
		tags := make([]*TagDefinition, 0, len(tmp.Tags))
		for _, tag := range tmp.Tags {
			if tag != nil {
				tags = append(tags, tag)
			}
		}
		tmp.Tags = tags
	}
	*p = BagItProfile(tmp)
	return nil
}

func BagItProfileFromJson(jsonData string) (*BagItProfile, error) {
	p := &BagItProfile{}
	err := json.Unmarshal([]byte(jsonData), p)
	if err != nil {
		return nil, err
	}
	return p, nil
}

func (p *BagItProfile) ToJson() (string, error) {
	bytes, err := json.MarshalIndent(p, "", "  ")
	if err != nil {
		return "", err
	}
	return string(bytes), nil
}

// MakeUserProfile marks p as a profile the user may edit and delete.
// Profiles that arrive from outside go through this, since only the
// profiles package installs built-ins.
func (p *BagItProfile) MakeUserProfile() {
	p.IsBuiltIn = false
	p.UserCanDelete = true
}

// Clone returns a deep copy of this profile. Tag ids are preserved.
func (p *BagItProfile) Clone() *BagItProfile {
	clone := *p
	clone.AcceptBagItVersion = copyList(p.AcceptBagItVersion)
	clone.AcceptSerialization = copyList(p.AcceptSerialization)
	clone.ManifestsAllowed = copyList(p.ManifestsAllowed)
	clone.ManifestsRequired = copyList(p.ManifestsRequired)
	clone.TagFilesAllowed = copyList(p.TagFilesAllowed)
	clone.TagManifestsAllowed = copyList(p.TagManifestsAllowed)
	clone.TagManifestsRequired = copyList(p.TagManifestsRequired)
	clone.Tags = make([]*TagDefinition, len(p.Tags))
	for i, tag := range p.Tags {
		clone.Tags[i] = tag.Copy()
	}
	return &clone
}

// FindMatchingTags returns all tags whose field matches value, in
// the order they appear in the profile. If field is not searchable,
// this returns an empty list.
func (p *BagItProfile) FindMatchingTags(field TagField, value string) []*TagDefinition {
	matches := make([]*TagDefinition, 0)
	for _, tag := range p.Tags {
		if fieldValue, ok := tag.valueOf(field); ok && fieldValue == value {
			matches = append(matches, tag)
		}
	}
	return matches
}

// FirstMatchingTag returns the first tag whose field matches value.
// The bool is false if nothing matched.
func (p *BagItProfile) FirstMatchingTag(field TagField, value string) (*TagDefinition, bool) {
	for _, tag := range p.Tags {
		if fieldValue, ok := tag.valueOf(field); ok && fieldValue == value {
			return tag, true
		}
	}
	return nil, false
}

// GetTagsFromFile returns all tags with the specified name in the
// specified file. The BagIt spec allows a tag to appear more than
// once, so there may be more than one.
func (p *BagItProfile) GetTagsFromFile(tagFile, tagName string) []*TagDefinition {
	tags := make([]*TagDefinition, 0)
	for _, tag := range p.Tags {
		if tag.TagFile == tagFile && tag.TagName == tagName {
			tags = append(tags, tag)
		}
	}
	return tags
}

// HasTagFile returns true if any tag belongs to the named file.
func (p *BagItProfile) HasTagFile(name string) bool {
	for _, tag := range p.Tags {
		if tag.TagFile == name {
			return true
		}
	}
	return false
}

// TagFileNames returns the names of all tag files described in this
// profile, sorted and without duplicates.
func (p *BagItProfile) TagFileNames() []string {
	names := make([]string, len(p.Tags))
	for i, tag := range p.Tags {
		names[i] = tag.TagFile
	}
	names = util.UniqueStrings(names)
	sort.Strings(names)
	return names
}

// TagsGroupedByFile maps each tag file name to its tags. Each list
// keeps the profile's tag order.
func (p *BagItProfile) TagsGroupedByFile() map[string][]*TagDefinition {
	groups := make(map[string][]*TagDefinition)
	for _, tag := range p.Tags {
		groups[tag.TagFile] = append(groups[tag.TagFile], tag)
	}
	return groups
}

// GetTagFileContents returns the text of the named tag file, one
// "Name: Value" line per tag that has a value, in profile order.
// Tags with no user or default value are omitted. There is no
// trailing newline.
func (p *BagItProfile) GetTagFileContents(tagFile string) string {
	lines := make([]string, 0)
	for _, tag := range p.Tags {
		if tag.TagFile != tagFile {
			continue
		}
		value := tag.ResolvedValue()
		if value == "" {
			continue
		}
		lines = append(lines, tag.TagName+": "+value)
	}
	return strings.Join(lines, "\n")
}

// IsCustomTagFile returns true if the named file was added by the
// user. bagit.txt and bag-info.txt are never custom. Other files
// that ship with a profile, like aptrust-info.txt, are not custom
// either, unless the user added them.
func (p *BagItProfile) IsCustomTagFile(tagFile string) bool {
	if util.StringListContains(constants.CanonicalTagFiles, tagFile) {
		return false
	}
	for _, tag := range p.Tags {
		if tag.TagFile == tagFile && tag.IsUserAddedFile {
			return true
		}
	}
	return false
}

// MustBeTarred returns true if this profile requires serialization
// and accepts tar. A profile may accept tar without requiring
// serialization, or require some other format.
func (p *BagItProfile) MustBeTarred() bool {
	return p.Serialization == constants.SerializationRequired &&
		util.StringListContains(p.AcceptSerialization, constants.SerializationTar)
}

// TagFileAllowed returns true if the named tag file matches one of
// the TagFilesAllowed patterns. "*" allows anything, including files
// in subdirectories. Other patterns use doublestar syntax.
// Malformed patterns match nothing.
func (p *BagItProfile) TagFileAllowed(name string) bool {
	for _, pattern := range p.TagFilesAllowed {
		if pattern == constants.TagFilesAllowAny {
			return true
		}
		if matched, err := doublestar.Match(pattern, name); err == nil && matched {
			return true
		}
	}
	return false
}

// SetTagValues copies values from parsed tags into the UserValue of
// matching tag definitions. When a tag appears more than once, the
// values fill matching definitions in order. Tags the profile does
// not describe are added as user-added tags.
func (p *BagItProfile) SetTagValues(tags []*Tag) {
	used := make(map[string]bool)
	for _, tag := range tags {
		var target *TagDefinition
		for _, def := range p.GetTagsFromFile(tag.TagFile, tag.TagName) {
			if !used[def.Id] {
				target = def
				break
			}
		}
		if target == nil {
			target = NewTagDefinition(tag.TagFile, tag.TagName)
			target.IsUserAddedTag = true
			target.IsUserAddedFile = !p.HasTagFile(tag.TagFile)
			p.Tags = append(p.Tags, target)
		}
		target.UserValue = tag.Value
		used[target.Id] = true
	}
}

func copyList(list []string) []string {
	if list == nil {
		return nil
	}
	return append(make([]string, 0, len(list)), list...)
}
