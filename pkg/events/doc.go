// Package events provides the page-session event dispatcher shared by the
// question presenters, the registry, the dependency resolver and the
// submission controller. A Bus is created once per session and torn down with
// Close when the session ends.
package events
