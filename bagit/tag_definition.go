package bagit

import (
	"fmt"
	"strconv"

	"github.com/APTrust/dart-profiles/util"
	"github.com/google/uuid"
)

// TagDefinition describes a tag in a BagItProfile, whether it's
// required, what values are allowed, etc. A profile may contain
// several definitions with the same TagFile and TagName, since
// BagIt allows repeated tags. Id is what tells them apart.
type TagDefinition struct {
	DefaultValue    string   `json:"defaultValue"`
	EmptyOk         bool     `json:"emptyOk"`
	Help            string   `json:"help"`
	Id              string   `json:"id"`
	IsBuiltIn       bool     `json:"isBuiltIn"`
	IsUserAddedFile bool     `json:"isUserAddedFile"`
	IsUserAddedTag  bool     `json:"isUserAddedTag"`
	Required        bool     `json:"required"`
	TagFile         string   `json:"tagFile"`
	TagName         string   `json:"tagName"`
	UserValue       string   `json:"userValue"`
	Values          []string `json:"values"`
}

// NewTagDefinition returns a TagDefinition with a new unique id.
func NewTagDefinition(tagFile, tagName string) *TagDefinition {
	return &TagDefinition{
		Id:      uuid.NewString(),
		TagFile: tagFile,
		TagName: tagName,
		Values:  make([]string, 0),
	}
}

// ResolvedValue returns the UserValue if it's set, or the
// DefaultValue otherwise. This is the value that goes into the
// tag file.
func (t *TagDefinition) ResolvedValue() string {
	if t.UserValue != "" {
		return t.UserValue
	}
	return t.DefaultValue
}

// Validate returns an error if this definition is missing its name
// or file, or if its default or user value is not one of the allowed
// values.
func (t *TagDefinition) Validate() error {
	if t.TagName == "" {
		return fmt.Errorf("TagName cannot be empty.")
	}
	if t.TagFile == "" {
		return fmt.Errorf("TagFile cannot be empty.")
	}
	if len(t.Values) > 0 {
		if t.DefaultValue != "" && !util.StringListContains(t.Values, t.DefaultValue) {
			return fmt.Errorf("The default value for %s is not in the list of allowed values.", t.TagName)
		}
		if t.UserValue != "" && !util.StringListContains(t.Values, t.UserValue) {
			return fmt.Errorf("The value for %s is not in the list of allowed values.", t.TagName)
		}
	}
	return nil
}

// Copy returns a deep copy of this tag definition, including its id.
func (t *TagDefinition) Copy() *TagDefinition {
	tagCopy := *t
	tagCopy.Values = copyList(t.Values)
	return &tagCopy
}

// TagField names one of the TagDefinition fields that
// FindMatchingTags can search on.
type TagField string

const (
	FieldDefaultValue    TagField = "defaultValue"
	FieldEmptyOk         TagField = "emptyOk"
	FieldHelp            TagField = "help"
	FieldId              TagField = "id"
	FieldIsBuiltIn       TagField = "isBuiltIn"
	FieldIsUserAddedFile TagField = "isUserAddedFile"
	FieldIsUserAddedTag  TagField = "isUserAddedTag"
	FieldRequired        TagField = "required"
	FieldTagFile         TagField = "tagFile"
	FieldTagName         TagField = "tagName"
	FieldUserValue       TagField = "userValue"
)

// tagFieldAccessors maps each searchable field to a function that
// returns that field's value as a string. Booleans come back as
// "true" or "false".
var tagFieldAccessors = map[TagField]func(*TagDefinition) string{
	FieldDefaultValue:    func(t *TagDefinition) string { return t.DefaultValue },
	FieldEmptyOk:         func(t *TagDefinition) string { return strconv.FormatBool(t.EmptyOk) },
	FieldHelp:            func(t *TagDefinition) string { return t.Help },
	FieldId:              func(t *TagDefinition) string { return t.Id },
	FieldIsBuiltIn:       func(t *TagDefinition) string { return strconv.FormatBool(t.IsBuiltIn) },
	FieldIsUserAddedFile: func(t *TagDefinition) string { return strconv.FormatBool(t.IsUserAddedFile) },
	FieldIsUserAddedTag:  func(t *TagDefinition) string { return strconv.FormatBool(t.IsUserAddedTag) },
	FieldRequired:        func(t *TagDefinition) string { return strconv.FormatBool(t.Required) },
	FieldTagFile:         func(t *TagDefinition) string { return t.TagFile },
	FieldTagName:         func(t *TagDefinition) string { return t.TagName },
	FieldUserValue:       func(t *TagDefinition) string { return t.UserValue },
}

// ParseTagField returns the TagField with the given name. The bool
// is false if no such field is searchable.
func ParseTagField(name string) (TagField, bool) {
	field := TagField(name)
	_, ok := tagFieldAccessors[field]
	return field, ok
}

// valueOf returns the string value of field, and false if
// field is not searchable.
func (t *TagDefinition) valueOf(field TagField) (string, bool) {
	accessor, ok := tagFieldAccessors[field]
	if !ok {
		return "", false
	}
	return accessor(t), true
}
