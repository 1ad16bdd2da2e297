// Package version exposes build information for strata binaries and the
// default User-Agent sent by httpclient.
//
// Values are injected at link time:
//
//	go build -ldflags "-X github.com/kbukum/strata/version.Version=1.0.0"
//
// Missing commit and build time fall back to the VCS stamp embedded by the
// Go toolchain.
package version
