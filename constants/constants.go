package constants

const (
	AlgMd5                   = "md5"
	AlgSha1                  = "sha1"
	AlgSha224                = "sha224"
	AlgSha256                = "sha256"
	AlgSha384                = "sha384"
	AlgSha512                = "sha512"
	APTrustInfoFile          = "aptrust-info.txt"
	BagInfoFile              = "bag-info.txt"
	BagItFile                = "bagit.txt"
	BagItVersionDefault      = "0.97"
	DefaultProfileFile       = "aptrust-v2.2.json"
	DialectBagItProfiles     = "bagit_profiles"
	DialectDart              = "dart"
	DialectLOCOrdered        = "loc_ordered"
	DialectLOCUnordered      = "loc_unordered"
	DialectUnknown           = "unknown"
	DPNInfoFile              = "dpn-tags/dpn-info.txt"
	ImportChannel            = "profile_importer"
	ImportTopic              = "profile_import_topic"
	RedisProfileKey          = "dart:profiles"
	RedisSettingsKey         = "dart:settings"
	SerializationForbidden   = "forbidden"
	SerializationOptional    = "optional"
	SerializationRequired    = "required"
	SerializationTar         = "application/tar"
	SettingInstitutionDomain = "Institution Domain"
	TagFileEncodingDefault   = "UTF-8"
	TagFilesAllowAny         = "*"
)

// DigestAlgorithms is the full set of manifest algorithms a profile
// may allow. Profiles that don't narrow their allowed manifests get
// all of these.
var DigestAlgorithms []string = []string{
	AlgMd5,
	AlgSha1,
	AlgSha224,
	AlgSha256,
	AlgSha384,
	AlgSha512,
}

// SerializationOptions lists the legal values of
// BagItProfile.Serialization, in the order we report them.
var SerializationOptions []string = []string{
	SerializationRequired,
	SerializationOptional,
	SerializationForbidden,
}

// CanonicalTagFiles are the tag files every profile must describe.
var CanonicalTagFiles []string = []string{
	BagItFile,
	BagInfoFile,
}
