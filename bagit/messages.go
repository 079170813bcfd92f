package bagit

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/message/catalog"
)

// Message keys. The English text doubles as the key, so an empty
// catalog still produces readable messages.
const (
	MsgAcceptBagItVersion  = "Profile must accept at least one BagIt version."
	MsgIdEmpty             = "Id cannot be empty."
	MsgImportedFrom        = "Imported from %s"
	MsgImportedProfile     = "Imported Profile %s"
	MsgManifestsRequired   = "Profile must require at least one manifest."
	MsgMissingTagFile      = "Profile lacks requirements for %s tag file."
	MsgNameEmpty           = "Name cannot be empty."
	MsgNotLOCOrdered       = "Object does not look like an ordered Library of Congress BagIt profile"
	MsgNotLOCUnordered     = "Object does not look like an unordered Library of Congress BagIt profile"
	MsgNotStandardProfile  = "Object does not look like a BagIt profile"
	MsgProfileImportedFrom = "Profile imported from %s"
	MsgSerialization       = "Serialization must be one of: %s."
	MsgUnknownDialect      = "Cannot determine the format of this BagIt profile"
)

// MessageCatalog supplies user-facing text for validation and
// conversion errors.
type MessageCatalog interface {
	Message(key string, args ...interface{}) string
}

// Messages is a MessageCatalog backed by golang.org/x/text.
type Messages struct {
	printer *message.Printer
}

// NewMessages returns a catalog for the given language. Translations
// maps message keys (the Msg* constants) to translated format strings.
// Keys with no translation print as themselves.
func NewMessages(tag language.Tag, translations map[string]string) (*Messages, error) {
	builder := catalog.NewBuilder(catalog.Fallback(language.English))
	for key, text := range translations {
		if err := builder.SetString(tag, key, text); err != nil {
			return nil, err
		}
	}
	return &Messages{
		printer: message.NewPrinter(tag, message.Catalog(builder)),
	}, nil
}

// Message returns the formatted text for key.
func (m *Messages) Message(key string, args ...interface{}) string {
	return m.printer.Sprintf(key, args...)
}

// DefaultMessages is the English catalog used when the caller
// doesn't supply one.
var DefaultMessages MessageCatalog = mustEnglish()

func mustEnglish() *Messages {
	m, err := NewMessages(language.English, nil)
	if err != nil {
		panic(err)
	}
	return m
}
