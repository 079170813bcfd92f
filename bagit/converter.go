package bagit

import (
	"fmt"
	"sort"
	"time"

	"github.com/APTrust/dart-profiles/constants"
)

// Converter imports profiles from the formats GuessProfileType knows
// about, and exports DART profiles to the bagit-profiles format.
type Converter struct {
	Messages MessageCatalog
	Now      func() time.Time
}

// NewConverter returns a Converter with English messages and the
// system clock.
func NewConverter() *Converter {
	return &Converter{
		Messages: DefaultMessages,
		Now:      time.Now,
	}
}

// Import converts doc to a DART profile, using whichever importer
// matches the document's format. sourceURL is optional. It's used to
// name profiles imported from Library of Congress formats, which have
// no name of their own.
func (c *Converter) Import(doc Document, sourceURL string) (*BagItProfile, error) {
	switch GuessProfileType(doc) {
	case DialectDart:
		profile := &BagItProfile{}
		if err := decodeInto(doc, profile); err != nil {
			return nil, fmt.Errorf("%s: %w", c.Messages.Message(MsgUnknownDialect), err)
		}
		return profile, nil
	case DialectBagItProfiles:
		return c.ImportFromStandard(doc)
	case DialectLOCOrdered:
		return c.ImportFromLOCOrdered(doc, sourceURL)
	case DialectLOCUnordered:
		return c.ImportFromLOC(doc, sourceURL)
	}
	return nil, fmt.Errorf("%s: %w", c.Messages.Message(MsgUnknownDialect), ErrWrongDialect)
}

// ImportFromStandard converts a profile in the bagit-profiles format
// to a DART profile. The new profile starts with the default tags.
// Each Bag-Info entry updates the existing bag-info.txt tag of the
// same name, or adds a new one. New tags are added in alphabetical
// order, since JSON objects have no order.
func (c *Converter) ImportFromStandard(doc Document) (*BagItProfile, error) {
	if GuessProfileType(doc) != DialectBagItProfiles {
		return nil, c.wrongDialect(MsgNotStandardProfile)
	}
	std := &StandardProfile{}
	if err := decodeInto(doc, std); err != nil {
		return nil, fmt.Errorf("%s: %w", c.Messages.Message(MsgNotStandardProfile), err)
	}
	p := NewBagItProfile("", "")
	std.toDart(p)
	p.Description = c.Messages.Message(MsgImportedFrom, std.BagItProfileInfo.BagItProfileIdentifier)
	for _, tagName := range sortedKeys(std.BagInfo) {
		stdTag := std.BagInfo[tagName]
		def := findOrAddBagInfoTag(p, tagName)
		def.Required = stdTag.Required
		def.Values = nonNil(stdTag.Values)
		def.DefaultValue = stdTag.DefaultValue
		if len(stdTag.Values) == 1 {
			def.DefaultValue = stdTag.Values[0]
		}
	}
	return p, nil
}

// ImportFromLOCOrdered converts an ordered Library of Congress
// profile, like SANC-state-profile.json, to a DART profile.
func (c *Converter) ImportFromLOCOrdered(doc Document, sourceURL string) (*BagItProfile, error) {
	if GuessProfileType(doc) != DialectLOCOrdered {
		return nil, c.wrongDialect(MsgNotLOCOrdered)
	}
	items := make([]map[string]LOCTag, 0)
	if err := decodeInto(doc["ordered"], &items); err != nil {
		return nil, fmt.Errorf("%s: %w", c.Messages.Message(MsgNotLOCOrdered), err)
	}
	p := c.newImportedProfile(sourceURL)
	for _, item := range items {
		for _, tagName := range sortedKeys(item) {
			locTag := item[tagName]
			locTag.applyTo(findOrAddBagInfoTag(p, tagName))
		}
	}
	return p, nil
}

// ImportFromLOC converts an unordered Library of Congress profile,
// like other-project-profile.json, to a DART profile. Tags are
// processed in alphabetical order.
func (c *Converter) ImportFromLOC(doc Document, sourceURL string) (*BagItProfile, error) {
	if GuessProfileType(doc) != DialectLOCUnordered {
		return nil, c.wrongDialect(MsgNotLOCUnordered)
	}
	tags := make(map[string]LOCTag)
	if err := decodeInto(doc, &tags); err != nil {
		return nil, fmt.Errorf("%s: %w", c.Messages.Message(MsgNotLOCUnordered), err)
	}
	p := c.newImportedProfile(sourceURL)
	for _, tagName := range sortedKeys(tags) {
		locTag := tags[tagName]
		locTag.applyTo(findOrAddBagInfoTag(p, tagName))
	}
	return p, nil
}

// ExportToStandard converts p to the bagit-profiles format. See
// NewStandardProfile for what gets lost along the way.
func (c *Converter) ExportToStandard(p *BagItProfile) *StandardProfile {
	return NewStandardProfile(p)
}

// newImportedProfile returns a default profile named after the URL
// it came from, or after the current time if there is no URL.
func (c *Converter) newImportedProfile(sourceURL string) *BagItProfile {
	var name string
	if sourceURL != "" {
		name = c.Messages.Message(MsgProfileImportedFrom, sourceURL)
	} else {
		timestamp := c.Now().UTC().Format("2006-01-02T15:04:05.000Z07:00")
		name = c.Messages.Message(MsgImportedProfile, timestamp)
	}
	return NewBagItProfile(name, name)
}

func (c *Converter) wrongDialect(key string) error {
	return fmt.Errorf("%s: %w", c.Messages.Message(key), ErrWrongDialect)
}

// findOrAddBagInfoTag returns the first bag-info.txt tag named
// tagName, adding one to the end of the profile if there is none.
func findOrAddBagInfoTag(p *BagItProfile, tagName string) *TagDefinition {
	if tags := p.GetTagsFromFile(constants.BagInfoFile, tagName); len(tags) > 0 {
		return tags[0]
	}
	def := NewTagDefinition(constants.BagInfoFile, tagName)
	p.Tags = append(p.Tags, def)
	return def
}

func sortedKeys[T any](m map[string]T) []string {
	keys := make([]string, 0, len(m))
	for key := range m {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}
