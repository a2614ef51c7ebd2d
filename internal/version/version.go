// Package version holds build metadata, overridable at link time:
//
//	go build -ldflags "-X github.com/ndewijer/Trading-Journal-Backend/internal/version.Version=1.2.0"
package version

// Version is the application version.
var Version = "dev"
