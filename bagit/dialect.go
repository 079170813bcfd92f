package bagit

import (
	"encoding/json"
	"errors"

	"github.com/APTrust/dart-profiles/constants"
	"gopkg.in/yaml.v3"
)

var (
	// ErrWrongDialect means a document was handed to an importer
	// for a format it is not in.
	ErrWrongDialect = errors.New("wrong profile dialect")

	// ErrProfileNotFound means no profile exists with the requested id.
	ErrProfileNotFound = errors.New("profile not found")

	// ErrBuiltInProfile means someone tried to delete a profile that
	// ships with the application.
	ErrBuiltInProfile = errors.New("built-in profiles cannot be deleted")

	// ErrNoInstitutionDomain means a profile's bag names must start
	// with the institution domain, and none is configured.
	ErrNoInstitutionDomain = errors.New("institution domain is not set")
)

// ProfileDialect identifies one of the JSON formats used to describe
// BagIt profiles.
type ProfileDialect int

const (
	DialectUnknown ProfileDialect = iota
	DialectDart
	DialectBagItProfiles
	DialectLOCOrdered
	DialectLOCUnordered
)

var dialectNames = map[ProfileDialect]string{
	DialectUnknown:       constants.DialectUnknown,
	DialectDart:          constants.DialectDart,
	DialectBagItProfiles: constants.DialectBagItProfiles,
	DialectLOCOrdered:    constants.DialectLOCOrdered,
	DialectLOCUnordered:  constants.DialectLOCUnordered,
}

func (d ProfileDialect) String() string {
	if name, ok := dialectNames[d]; ok {
		return name
	}
	return constants.DialectUnknown
}

func (d ProfileDialect) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// Document is a profile document of unknown format, as decoded
// from JSON or YAML.
type Document map[string]interface{}

// ParseProfileDocument decodes data as JSON or, failing that, YAML.
// The top level must be an object.
func ParseProfileDocument(data []byte) (Document, error) {
	doc := make(Document)
	jsonErr := json.Unmarshal(data, &doc)
	if jsonErr == nil {
		return doc, nil
	}
	doc = make(Document)
	if yamlErr := yaml.Unmarshal(data, &doc); yamlErr != nil {
		return nil, jsonErr
	}
	return doc, nil
}

// GuessProfileType tries to identify the format of doc from its keys.
// The checks run in a fixed order and the first match wins:
//
//   - a "tags" list means a DART profile
//   - an "ordered" list means an ordered Library of Congress profile
//   - a "Bag-Info" object means a bagit-profiles profile
//   - if every value is an object with "fieldRequired" or
//     "requiredValue", it's an unordered Library of Congress profile.
//     An empty object passes this test.
//
// Anything else is unknown. See https://aptrust.github.io/dart-docs/users/bagit/importing/
func GuessProfileType(doc Document) ProfileDialect {
	if _, ok := doc["tags"].([]interface{}); ok {
		return DialectDart
	}
	if _, ok := doc["ordered"].([]interface{}); ok {
		return DialectLOCOrdered
	}
	if _, ok := doc["Bag-Info"].(map[string]interface{}); ok {
		return DialectBagItProfiles
	}
	if everythingLooksLikeALOCTag(doc) {
		return DialectLOCUnordered
	}
	return DialectUnknown
}

func everythingLooksLikeALOCTag(doc Document) bool {
	for _, value := range doc {
		item, ok := value.(map[string]interface{})
		if !ok {
			return false
		}
		_, hasFieldRequired := item["fieldRequired"]
		_, hasRequiredValue := item["requiredValue"]
		if !hasFieldRequired && !hasRequiredValue {
			return false
		}
	}
	return true
}

// decodeInto converts a generic decoded value into a typed struct.
func decodeInto(value interface{}, target interface{}) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, target)
}
