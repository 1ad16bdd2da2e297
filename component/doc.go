// Package component defines lifecycle-managed parts of a strata service and
// a Registry that starts them in order and stops them in reverse.
//
// The HTTP client component (httpclient.Component) owns a worker pool that
// must be drained on shutdown; registering it lets the service stop it after
// everything that may still submit work.
package component
