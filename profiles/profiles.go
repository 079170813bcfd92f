// Package profiles holds the BagIt profiles that ship with DART and
// installs them into the profile store.
package profiles

import (
	"context"
	"embed"
	"fmt"
	"io/fs"

	"github.com/APTrust/dart-profiles/bagit"
	"github.com/APTrust/dart-profiles/models/common"
)

//go:embed *.json
var files embed.FS

// BuiltIn returns the shipped profiles in file name order. Each is
// marked built-in and undeletable, whatever its file says.
func BuiltIn() ([]*bagit.BagItProfile, error) {
	names, err := fs.Glob(files, "*.json")
	if err != nil {
		return nil, err
	}
	builtIns := make([]*bagit.BagItProfile, 0, len(names))
	for _, name := range names {
		data, err := files.ReadFile(name)
		if err != nil {
			return nil, err
		}
		profile, err := bagit.BagItProfileFromJson(string(data))
		if err != nil {
			return nil, fmt.Errorf("built-in profile %s: %w", name, err)
		}
		if result := profile.Validate(); !result.IsValid() {
			return nil, fmt.Errorf("built-in profile %s is invalid:\n%s", name, result.String())
		}
		profile.IsBuiltIn = true
		profile.UserCanDelete = false
		builtIns = append(builtIns, profile)
	}
	return builtIns, nil
}

// Install saves every shipped profile to Redis, replacing older
// copies, and archives it. Archive failures are only logged. The
// embedded files are the real backup for these.
func Install(ctx context.Context, appContext *common.Context) error {
	builtIns, err := BuiltIn()
	if err != nil {
		return err
	}
	for _, profile := range builtIns {
		if err := appContext.RedisClient.ProfileSave(profile); err != nil {
			return err
		}
		if _, err := appContext.ProfileArchive.PutProfile(ctx, profile); err != nil {
			appContext.Logger.Warningf("Installed built-in profile %s, but could not archive it: %v", profile.Id, err)
		} else if _, err := appContext.ProfileArchive.PutStandardProfile(ctx, profile); err != nil {
			appContext.Logger.Warningf("Installed built-in profile %s, but could not archive its standard copy: %v", profile.Id, err)
		}
		appContext.Logger.Infof("Installed built-in profile %s (%s)", profile.Id, profile.Name)
	}
	return nil
}
