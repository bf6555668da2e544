package typegen

// version is overridden at build time with
// -ldflags "-X github.com/goliatone/go-typegen.version=v1.2.3".
var version = "dev"

// Version returns the build version, "dev" for source builds.
func Version() string {
	return version
}
