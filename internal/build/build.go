package build

import "fmt"

// Set with -ldflags "-X github.com/bornholm/folio/internal/build.ProjectVersion=..."
var (
	ProjectVersion = "unknown"
	GitRef         = "unknown"
	BuildDate      = "unknown"
)

var LongVersion = fmt.Sprintf("%s (%s, %s)", ProjectVersion, GitRef, BuildDate)
