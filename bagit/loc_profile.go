package bagit

// LOCTag is a tag definition from a Library of Congress profile, like
// the ones in https://github.com/LibraryOfCongress/bagger. Unordered
// LOC profiles map tag names to LOCTags. Ordered profiles have an
// "ordered" list of single-entry objects of the same shape.
type LOCTag struct {
	DefaultValue  string   `json:"defaultValue"`
	FieldRequired bool     `json:"fieldRequired"`
	RequiredValue string   `json:"requiredValue"`
	ValueList     []string `json:"valueList"`
}

// applyTo copies this tag's requirements into def. A requiredValue
// overrides everything else: the tag becomes required and that value
// is both the only allowed value and the default.
func (t *LOCTag) applyTo(def *TagDefinition) {
	def.Required = t.FieldRequired
	def.Values = nonNil(t.ValueList)
	def.DefaultValue = t.DefaultValue
	if t.RequiredValue != "" {
		def.Required = true
		def.Values = []string{t.RequiredValue}
		def.DefaultValue = t.RequiredValue
	}
}
