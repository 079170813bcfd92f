package testutil

import (
	"os"
	"path"

	"github.com/APTrust/dart-profiles/util"
)

func PathToTestData() string {
	return path.Join(util.ProjectRoot(), "testdata")
}

// PathToProfile returns the path to one of the profiles shipped in
// the profiles package.
func PathToProfile(filename string) string {
	return path.Join(util.ProjectRoot(), "profiles", filename)
}

// PathToImportFixture returns the path to a profile document in one
// of the foreign formats the converter imports.
func PathToImportFixture(filename string) string {
	return path.Join(PathToTestData(), "import", filename)
}

// PathToTagFile returns the path to a sample tag file.
func PathToTagFile(filename string) string {
	return path.Join(PathToTestData(), "tagfiles", filename)
}

// PathToConfigDir returns the directory holding .env.test.
func PathToConfigDir() string {
	return path.Join(PathToTestData(), "config")
}

// ReadImportFixture returns the raw bytes of an import fixture.
func ReadImportFixture(filename string) ([]byte, error) {
	return os.ReadFile(PathToImportFixture(filename))
}
