package bagit

import (
	"sort"
	"strings"

	"github.com/APTrust/dart-profiles/constants"
	"github.com/APTrust/dart-profiles/util"
)

// ValidationResult collects field-level problems found while
// validating a profile. Errors maps a field name to a message,
// which may span several lines.
type ValidationResult struct {
	Errors map[string]string `json:"errors"`
}

func NewValidationResult() *ValidationResult {
	return &ValidationResult{
		Errors: make(map[string]string),
	}
}

// IsValid returns true if no errors were recorded.
func (r *ValidationResult) IsValid() bool {
	return len(r.Errors) == 0
}

// Add records message for field. If field already has a message,
// the new one goes on the next line.
func (r *ValidationResult) Add(field, message string) {
	if existing, ok := r.Errors[field]; ok {
		r.Errors[field] = existing + "\n" + message
		return
	}
	r.Errors[field] = message
}

// Keys returns the names of the fields that have errors, sorted.
func (r *ValidationResult) Keys() []string {
	keys := make([]string, 0, len(r.Errors))
	for key := range r.Errors {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

// String returns all errors, one "field: message" per line.
func (r *ValidationResult) String() string {
	lines := make([]string, 0, len(r.Errors))
	for _, key := range r.Keys() {
		lines = append(lines, key+": "+r.Errors[key])
	}
	return strings.Join(lines, "\n")
}

// Validate checks that the profile is well formed, using the
// default English messages. It never fails. Check IsValid() on
// the result.
func (p *BagItProfile) Validate() *ValidationResult {
	return p.ValidateWithMessages(DefaultMessages)
}

// ValidateWithMessages is Validate with a caller-supplied message
// catalog. All checks run, even when earlier checks fail, so the
// caller can show every problem at once.
func (p *BagItProfile) ValidateWithMessages(messages MessageCatalog) *ValidationResult {
	result := NewValidationResult()
	if p.Id == "" {
		result.Add("id", messages.Message(MsgIdEmpty))
	}
	if p.Name == "" {
		result.Add("name", messages.Message(MsgNameEmpty))
	}
	if len(p.AcceptBagItVersion) == 0 {
		result.Add("acceptBagItVersion", messages.Message(MsgAcceptBagItVersion))
	}
	if len(p.ManifestsRequired) == 0 {
		result.Add("manifestsRequired", messages.Message(MsgManifestsRequired))
	}
	for _, tagFile := range constants.CanonicalTagFiles {
		if !p.HasTagFile(tagFile) {
			result.Add("tags", messages.Message(MsgMissingTagFile, tagFile))
		}
	}
	if !util.StringListContains(constants.SerializationOptions, p.Serialization) {
		options := strings.Join(constants.SerializationOptions, ", ")
		result.Add("serialization", messages.Message(MsgSerialization, options))
	}
	return result
}

// ValidateTags validates each tag definition. The result is keyed
// by tag id. This is separate from Validate, which checks the
// profile's structure.
func (p *BagItProfile) ValidateTags() *ValidationResult {
	result := NewValidationResult()
	for _, tag := range p.Tags {
		if err := tag.Validate(); err != nil {
			result.Add(tag.Id, err.Error())
		}
	}
	return result
}
