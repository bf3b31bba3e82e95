package version

// Version is the semantic version of the relay binary. Release builds
// override this with -ldflags.
var Version = "0.1.0"
