package workers

import (
	"encoding/json"
	"time"

	"github.com/APTrust/dart-profiles/models/common"
)

// Settings contains settings for the profile import worker.
type Settings struct {
	// ArchiveStandardCopy describes whether to save a bagit-profiles
	// export next to the native copy of each imported profile.
	ArchiveStandardCopy bool

	// ChannelBufferSize is the number of messages the worker may
	// have in flight at once.
	ChannelBufferSize int

	// MaxAttempts is the maximum number of times NSQ should deliver
	// a message before giving up. Note that this applies only to
	// attempts that fail from non-fatal (transient) errors. The
	// worker finishes messages with fatal errors on the first try.
	MaxAttempts int

	// NSQChannel is the NSQ channel the worker should subscribe
	// to to receive messages.
	NSQChannel string

	// NSQTopic is the NSQ topic the worker should subscribe
	// to to receive messages.
	NSQTopic string

	// ProcessTimeout caps the time spent on one import, including
	// the download.
	ProcessTimeout time.Duration

	// RequeueTimeout describes how long NSQ should wait before
	// redelivering a message that failed with non-fatal errors.
	RequeueTimeout time.Duration
}

// NewImporterSettings returns the import worker settings for config.
func NewImporterSettings(config *common.Config) *Settings {
	return &Settings{
		ArchiveStandardCopy: true,
		ChannelBufferSize:   4,
		MaxAttempts:         5,
		NSQChannel:          config.ImportChannel,
		NSQTopic:            config.ImportTopic,
		ProcessTimeout:      2 * config.FetchTimeout,
		RequeueTimeout:      1 * time.Minute,
	}
}

func (settings *Settings) ToJSON() string {
	data, _ := json.Marshal(settings)
	return string(data)
}
