package network

import (
	"bytes"
	"context"
	"fmt"
	"io"

	"github.com/APTrust/dart-profiles/bagit"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/pkg/errors"
)

const (
	// Native DART profiles go under this prefix.
	ArchivePrefixDart = "dart"

	// Profiles exported to the bagit-profiles format go under this
	// prefix, where other tools can pick them up.
	ArchivePrefixStandard = "bagit-profiles"
)

// ProfileArchive keeps copies of profiles in an S3-compatible bucket
// and reads profile documents that people drop into buckets for
// import.
type ProfileArchive struct {
	Bucket string
	client *minio.Client
}

// NewProfileArchive returns an archive that writes to bucket on the
// S3 service at host. We force path-style bucket lookup so this works
// with Minio and other local S3 services.
func NewProfileArchive(host, keyId, secretKey, region string, useSSL bool, bucket string) (*ProfileArchive, error) {
	client, err := minio.New(host, &minio.Options{
		Creds:        credentials.NewStaticV4(keyId, secretKey, ""),
		Secure:       useSSL,
		Region:       region,
		BucketLookup: minio.BucketLookupPath,
	})
	if err != nil {
		return nil, errors.Wrapf(err, "Cannot create S3 client for %s", host)
	}
	return &ProfileArchive{
		Bucket: bucket,
		client: client,
	}, nil
}

// DartKey returns the key under which profile's native JSON is stored.
func DartKey(profileId string) string {
	return fmt.Sprintf("%s/%s.json", ArchivePrefixDart, profileId)
}

// StandardKey returns the key under which profile's bagit-profiles
// export is stored.
func StandardKey(profileId string) string {
	return fmt.Sprintf("%s/%s.json", ArchivePrefixStandard, profileId)
}

// PutProfile saves profile's native JSON and returns its key.
func (a *ProfileArchive) PutProfile(ctx context.Context, profile *bagit.BagItProfile) (string, error) {
	data, err := profile.ToJson()
	if err != nil {
		return "", errors.Wrapf(err, "PutProfile (%s)", profile.Id)
	}
	key := DartKey(profile.Id)
	return key, a.PutDocument(ctx, a.Bucket, key, []byte(data))
}

// PutStandardProfile exports profile to the bagit-profiles format,
// saves it, and returns its key. The export loses information. See
// bagit.NewStandardProfile.
func (a *ProfileArchive) PutStandardProfile(ctx context.Context, profile *bagit.BagItProfile) (string, error) {
	data, err := bagit.NewStandardProfile(profile).ToJson()
	if err != nil {
		return "", errors.Wrapf(err, "PutStandardProfile (%s)", profile.Id)
	}
	key := StandardKey(profile.Id)
	return key, a.PutDocument(ctx, a.Bucket, key, []byte(data))
}

// GetProfile reads back a native profile saved by PutProfile.
func (a *ProfileArchive) GetProfile(ctx context.Context, profileId string) (*bagit.BagItProfile, error) {
	data, err := a.GetDocument(ctx, a.Bucket, DartKey(profileId))
	if err != nil {
		return nil, err
	}
	return bagit.BagItProfileFromJson(string(data))
}

// GetDocument returns the raw contents of any object. The importer
// uses this to read profile documents of unknown format.
func (a *ProfileArchive) GetDocument(ctx context.Context, bucket, key string) ([]byte, error) {
	obj, err := a.client.GetObject(ctx, bucket, key, minio.GetObjectOptions{})
	if err != nil {
		return nil, errors.Wrapf(err, "GetDocument (%s/%s)", bucket, key)
	}
	defer obj.Close()
	data, err := io.ReadAll(io.LimitReader(obj, MaxProfileSize+1))
	if err != nil {
		if minio.ToErrorResponse(err).Code == "NoSuchKey" {
			return nil, errors.Wrapf(bagit.ErrProfileNotFound, "GetDocument (%s/%s)", bucket, key)
		}
		return nil, errors.Wrapf(err, "GetDocument (%s/%s)", bucket, key)
	}
	if len(data) > MaxProfileSize {
		return nil, fmt.Errorf("GetDocument (%s/%s): document is larger than %d bytes", bucket, key, MaxProfileSize)
	}
	return data, nil
}

// Delete removes both copies of a profile. Missing objects are not
// an error.
func (a *ProfileArchive) Delete(ctx context.Context, profileId string) error {
	for _, key := range []string{DartKey(profileId), StandardKey(profileId)} {
		err := a.client.RemoveObject(ctx, a.Bucket, key, minio.RemoveObjectOptions{})
		if err != nil {
			return errors.Wrapf(err, "Delete (%s)", key)
		}
	}
	return nil
}

// PutDocument writes data to bucket/key, which need not be in the
// profile bucket.
func (a *ProfileArchive) PutDocument(ctx context.Context, bucket, key string, data []byte) error {
	_, err := a.client.PutObject(
		ctx,
		bucket,
		key,
		bytes.NewReader(data),
		int64(len(data)),
		minio.PutObjectOptions{ContentType: "application/json"},
	)
	return errors.Wrapf(err, "PutDocument (%s/%s)", bucket, key)
}
