package workers_test

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/APTrust/dart-profiles/bagit"
	"github.com/APTrust/dart-profiles/models/common"
	"github.com/APTrust/dart-profiles/network"
	"github.com/APTrust/dart-profiles/profiles"
	"github.com/APTrust/dart-profiles/util/logger"
	"github.com/APTrust/dart-profiles/util/testutil"
	"github.com/APTrust/dart-profiles/workers"
	"github.com/nsqio/go-nsq"
	"github.com/op/go-logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func getImporter(t *testing.T) *workers.ProfileImporter {
	redisServer := testutil.NewRedisServer()
	s3Server := testutil.NewS3Server()
	t.Cleanup(func() {
		redisServer.Close()
		s3Server.Close()
	})
	config, err := common.LoadConfig(testutil.PathToConfigDir(), "test")
	require.Nil(t, err)
	config.RedisURL = redisServer.Addr()
	config.S3Host = s3Server.Host()
	log := logger.InitWriterLogger("importer-test", &bytes.Buffer{}, logging.DEBUG)
	appContext, err := common.NewContextWithLogger(config, log)
	require.Nil(t, err)

	importer := workers.NewProfileImporter(appContext)
	importer.Converter.Now = func() time.Time { return testutil.FixedNow }
	return importer
}

// profileHost serves the import fixtures. /broken always returns 500.
func profileHost(t *testing.T) *httptest.Server {
	mux := http.NewServeMux()
	mux.HandleFunc("/broken", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})
	mux.Handle("/", http.FileServer(http.Dir(testutil.PathToImportFixture(""))))
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server
}

func message(t *testing.T, req *common.ImportRequest) *nsq.Message {
	body, err := req.ToJson()
	require.Nil(t, err)
	id := nsq.MessageID{'1', '2', '3', '4', '5', '6', '7', '8', '9', '0', 'a', 'b', 'c', 'd', 'e', 'f'}
	return nsq.NewMessage(id, body)
}

func TestNewImporterSettings(t *testing.T) {
	importer := getImporter(t)
	settings := importer.Settings
	assert.Equal(t, "profile_import_topic", settings.NSQTopic)
	assert.Equal(t, "profile_importer", settings.NSQChannel)
	assert.Equal(t, 60*time.Second, settings.ProcessTimeout)
	assert.True(t, settings.ArchiveStandardCopy)
	assert.Contains(t, settings.ToJSON(), `"NSQTopic":"profile_import_topic"`)
}

func TestImportFromURL(t *testing.T) {
	importer := getImporter(t)
	host := profileHost(t)
	req := &common.ImportRequest{
		URL:       host.URL + "/standard_profile.json",
		ProfileId: "imported-standard",
	}
	assert.Nil(t, importer.HandleMessage(message(t, req)))

	saved, err := importer.Context.RedisClient.ProfileGet("imported-standard")
	require.Nil(t, err)
	assert.Equal(t, "imported-standard", saved.Id)
	assert.True(t, saved.Validate().IsValid())

	archived, err := importer.Context.ProfileArchive.GetProfile(context.Background(), "imported-standard")
	require.Nil(t, err)
	assert.Equal(t, saved, archived)

	data, err := importer.Context.ProfileArchive.GetDocument(
		context.Background(), testutil.ProfileBucket, network.StandardKey("imported-standard"))
	require.Nil(t, err)
	doc, err := bagit.ParseProfileDocument(data)
	require.Nil(t, err)
	assert.Equal(t, bagit.DialectBagItProfiles, bagit.GuessProfileType(doc))
}

func TestImportFromS3(t *testing.T) {
	importer := getImporter(t)
	data, err := testutil.ReadImportFixture("loc_unordered_profile.json")
	require.Nil(t, err)
	err = importer.Context.ProfileArchive.PutDocument(
		context.Background(), testutil.ImportBucket, "loc/other.json", data)
	require.Nil(t, err)

	req := &common.ImportRequest{Bucket: testutil.ImportBucket, Key: "loc/other.json"}
	profile, procErr := importer.Import(context.Background(), req)
	require.Nil(t, procErr)
	assert.Equal(t, "Profile imported from s3://profile-imports/loc/other.json", profile.Name)

	saved, err := importer.Context.RedisClient.ProfileGet(profile.Id)
	require.Nil(t, err)
	assert.Equal(t, profile.Name, saved.Name)
}

func TestImportSkipsStandardCopy(t *testing.T) {
	importer := getImporter(t)
	importer.Settings.ArchiveStandardCopy = false
	host := profileHost(t)
	req := &common.ImportRequest{URL: host.URL + "/loc_ordered_profile.json", ProfileId: "sanc"}
	_, procErr := importer.Import(context.Background(), req)
	require.Nil(t, procErr)

	_, err := importer.Context.ProfileArchive.GetDocument(
		context.Background(), testutil.ProfileBucket, network.StandardKey("sanc"))
	assert.NotNil(t, err)
}

func TestImportUnknownFormat(t *testing.T) {
	importer := getImporter(t)
	host := profileHost(t)
	req := &common.ImportRequest{URL: host.URL + "/unknown.json", ProfileId: "unknown"}
	_, procErr := importer.Import(context.Background(), req)
	require.NotNil(t, procErr)
	assert.True(t, procErr.IsFatal)
	assert.ErrorIs(t, procErr, bagit.ErrWrongDialect)

	// Fatal errors finish the message.
	assert.Nil(t, importer.HandleMessage(message(t, req)))
	_, err := importer.Context.RedisClient.ProfileGet("unknown")
	assert.ErrorIs(t, err, bagit.ErrProfileNotFound)
}

func TestImportInvalidProfile(t *testing.T) {
	importer := getImporter(t)
	host := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"id": "bad", "name": "", "tags": []}`))
	}))
	defer host.Close()

	req := &common.ImportRequest{URL: host.URL + "/bad.json"}
	_, procErr := importer.Import(context.Background(), req)
	require.NotNil(t, procErr)
	assert.True(t, procErr.IsFatal)
	assert.Contains(t, procErr.Error(), "name: Name cannot be empty.")

	_, err := importer.Context.RedisClient.ProfileGet("bad")
	assert.ErrorIs(t, err, bagit.ErrProfileNotFound)
}

func TestImportNullTags(t *testing.T) {
	importer := getImporter(t)
	host := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"id": "null-tags", "name": "Null Tags", "acceptBagItVersion": ["0.97"],
			"manifestsRequired": ["sha256"], "serialization": "optional", "tags": [null]}`))
	}))
	defer host.Close()

	req := &common.ImportRequest{URL: host.URL + "/null-tags.json"}
	_, procErr := importer.Import(context.Background(), req)
	require.NotNil(t, procErr)
	assert.True(t, procErr.IsFatal)
	assert.Contains(t, procErr.Error(), "Profile lacks requirements for bagit.txt tag file.")

	assert.NotPanics(t, func() {
		assert.Nil(t, importer.HandleMessage(message(t, req)))
	})
	_, err := importer.Context.RedisClient.ProfileGet("null-tags")
	assert.ErrorIs(t, err, bagit.ErrProfileNotFound)
}

func TestImportNotFound(t *testing.T) {
	importer := getImporter(t)
	host := profileHost(t)

	req := &common.ImportRequest{URL: host.URL + "/no-such-profile.json"}
	_, procErr := importer.Import(context.Background(), req)
	require.NotNil(t, procErr)
	assert.True(t, procErr.IsFatal)

	req = &common.ImportRequest{Bucket: testutil.ImportBucket, Key: "missing.json"}
	_, procErr = importer.Import(context.Background(), req)
	require.NotNil(t, procErr)
	assert.True(t, procErr.IsFatal)
}

func TestImportServerError(t *testing.T) {
	importer := getImporter(t)
	host := profileHost(t)
	req := &common.ImportRequest{URL: host.URL + "/broken"}

	_, procErr := importer.Import(context.Background(), req)
	require.NotNil(t, procErr)
	assert.False(t, procErr.IsFatal)

	// Transient errors go back to NSQ for requeue.
	assert.NotNil(t, importer.HandleMessage(message(t, req)))
}

func TestImportWontReplaceBuiltIn(t *testing.T) {
	importer := getImporter(t)
	require.Nil(t, profiles.Install(context.Background(), importer.Context))
	builtIn, err := testutil.LoadAPTrustProfile()
	require.Nil(t, err)

	host := profileHost(t)
	req := &common.ImportRequest{URL: host.URL + "/standard_profile.json", ProfileId: builtIn.Id}
	_, procErr := importer.Import(context.Background(), req)
	require.NotNil(t, procErr)
	assert.True(t, procErr.IsFatal)
	assert.ErrorIs(t, procErr, bagit.ErrBuiltInProfile)

	saved, err := importer.Context.RedisClient.ProfileGet(builtIn.Id)
	require.Nil(t, err)
	assert.Equal(t, builtIn.Name, saved.Name)
}

func TestImportIsNeverBuiltIn(t *testing.T) {
	importer := getImporter(t)
	host := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		profile := bagit.NewBagItProfile("Says Built In", "")
		profile.Id = "says-built-in"
		profile.IsBuiltIn = true
		profile.UserCanDelete = false
		data, _ := profile.ToJson()
		w.Write([]byte(data))
	}))
	defer host.Close()

	req := &common.ImportRequest{URL: host.URL + "/profile.json"}
	profile, procErr := importer.Import(context.Background(), req)
	require.Nil(t, procErr)
	assert.False(t, profile.IsBuiltIn)
	assert.True(t, profile.UserCanDelete)
	assert.Nil(t, importer.Context.RedisClient.ProfileDelete("says-built-in"))
}

func TestHandleMessageBadRequests(t *testing.T) {
	importer := getImporter(t)
	id := nsq.MessageID{}
	assert.Nil(t, importer.HandleMessage(nsq.NewMessage(id, []byte("not json"))))
	assert.Nil(t, importer.HandleMessage(nsq.NewMessage(id, []byte("{}"))))
}
