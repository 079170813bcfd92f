package workers

import (
	"context"
	"errors"
	"fmt"

	"github.com/APTrust/dart-profiles/bagit"
	"github.com/APTrust/dart-profiles/models/common"
	"github.com/APTrust/dart-profiles/network"
	"github.com/nsqio/go-nsq"
)

// ProfileImporter reads ImportRequests from NSQ, converts the
// documents they point to into DART profiles, and saves the results
// to Redis and the profile archive.
type ProfileImporter struct {
	// Context contains connections to Redis, S3, and the web.
	Context *common.Context

	// Converter turns documents of any known format into DART
	// profiles.
	Converter *bagit.Converter

	// NSQConsumer implements HandleMessage to receive messages from NSQ.
	NSQConsumer *nsq.Consumer

	// Settings controls the NSQ subscription and retries.
	Settings *Settings
}

func NewProfileImporter(appContext *common.Context) *ProfileImporter {
	return &ProfileImporter{
		Context:   appContext,
		Converter: bagit.NewConverter(),
		Settings:  NewImporterSettings(appContext.Config),
	}
}

// RegisterAsNsqConsumer registers this worker as an NSQ consumer on
// Settings.NSQTopic and Settings.NSQChannel. Note that as soon as you
// call this, the worker will start handling messages if any are
// available.
func (p *ProfileImporter) RegisterAsNsqConsumer() error {
	config := nsq.NewConfig()
	config.Set("heartbeat_interval", "10s")
	config.Set("max_in_flight", p.Settings.ChannelBufferSize)
	config.Set("max_attempts", p.Settings.MaxAttempts)
	config.Set("default_requeue_delay", p.Settings.RequeueTimeout)
	consumer, err := nsq.NewConsumer(p.Settings.NSQTopic, p.Settings.NSQChannel, config)
	if err != nil {
		return err
	}
	p.NSQConsumer = consumer
	p.NSQConsumer.AddHandler(p)
	err = p.NSQConsumer.ConnectToNSQLookupd(p.Context.Config.NsqLookupd)
	if err != nil {
		return err
	}
	p.Context.Logger.Infof("Registered as NSQ consumer on %s/%s", p.Settings.NSQTopic, p.Settings.NSQChannel)
	return nil
}

// HandleMessage imports the profile described by the message body.
// Returning nil tells NSQ we're done with the message. We return nil
// for fatal errors too, since a bad document won't get any better on
// the next try. Transient errors come back as errors, so NSQ will
// requeue the message.
func (p *ProfileImporter) HandleMessage(message *nsq.Message) error {
	p.Context.Logger.Info("NSQ Message body: ", string(message.Body))
	req, err := common.ImportRequestFromJson(message.Body)
	if err != nil {
		p.Context.Logger.Errorf("Could not parse import request: %v", err)
		return nil
	}
	if err := req.Validate(); err != nil {
		p.Context.Logger.Errorf("Rejecting import request: %v", err)
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), p.Settings.ProcessTimeout)
	defer cancel()
	profile, procErr := p.Import(ctx, req)
	if procErr != nil {
		if procErr.IsFatal {
			p.Context.Logger.Error(procErr.Detail())
			return nil
		}
		p.Context.Logger.Warningf("Attempt %d to import %s failed: %s",
			message.Attempts, req.Source(), procErr.Detail())
		return procErr
	}
	p.Context.Logger.Infof("Imported profile %s (%s) from %s", profile.Id, profile.Name, req.Source())
	return nil
}

// Import fetches, converts, validates, and saves the profile that req
// points to. Errors marked fatal will not go away on retry.
func (p *ProfileImporter) Import(ctx context.Context, req *common.ImportRequest) (*bagit.BagItProfile, *common.Error) {
	data, err := p.readDocument(ctx, req)
	if err != nil {
		return nil, common.NewError("Could not read "+req.Source(), err, isPermanent(err))
	}
	doc, err := bagit.ParseProfileDocument(data)
	if err != nil {
		return nil, common.NewError(req.Source()+" is neither JSON nor YAML", err, true)
	}
	profile, err := p.Converter.Import(doc, req.Source())
	if err != nil {
		return nil, common.NewError("Could not convert "+req.Source(), err, true)
	}
	if req.ProfileId != "" {
		profile.Id = req.ProfileId
	}
	profile.MakeUserProfile()
	if result := profile.Validate(); !result.IsValid() {
		msg := fmt.Sprintf("Profile from %s is not valid:\n%s", req.Source(), result.String())
		return nil, common.NewError(msg, nil, true)
	}
	if procErr := p.checkReplaceable(profile.Id); procErr != nil {
		return nil, procErr
	}
	if procErr := p.save(ctx, profile); procErr != nil {
		return nil, procErr
	}
	return profile, nil
}

func (p *ProfileImporter) readDocument(ctx context.Context, req *common.ImportRequest) ([]byte, error) {
	if req.URL != "" {
		return p.Context.Fetcher.Fetch(ctx, req.URL)
	}
	return p.Context.ProfileArchive.GetDocument(ctx, req.Bucket, req.Key)
}

// checkReplaceable makes sure an import won't overwrite a built-in
// profile.
func (p *ProfileImporter) checkReplaceable(profileId string) *common.Error {
	existing, err := p.Context.RedisClient.ProfileGet(profileId)
	if errors.Is(err, bagit.ErrProfileNotFound) {
		return nil
	}
	if err != nil {
		return common.NewError("Could not check for existing profile "+profileId, err, false)
	}
	if existing.IsBuiltIn {
		return common.NewError("Import would replace built-in profile "+profileId, bagit.ErrBuiltInProfile, true)
	}
	return nil
}

func (p *ProfileImporter) save(ctx context.Context, profile *bagit.BagItProfile) *common.Error {
	if err := p.Context.RedisClient.ProfileSave(profile); err != nil {
		return common.NewError("Could not save profile to Redis", err, false)
	}
	if _, err := p.Context.ProfileArchive.PutProfile(ctx, profile); err != nil {
		return common.NewError("Could not archive profile", err, false)
	}
	if p.Settings.ArchiveStandardCopy {
		if _, err := p.Context.ProfileArchive.PutStandardProfile(ctx, profile); err != nil {
			return common.NewError("Could not archive bagit-profiles export", err, false)
		}
	}
	return nil
}

// isPermanent returns true for read errors that retrying won't fix:
// missing objects and HTTP responses other than 5xx.
func isPermanent(err error) bool {
	if errors.Is(err, bagit.ErrProfileNotFound) {
		return true
	}
	var httpErr *network.HttpError
	if errors.As(err, &httpErr) {
		return httpErr.StatusCode != 0 && httpErr.StatusCode < 500
	}
	return false
}
