// Package notifications delivers run events via ntfy.
//
// The default implementation publishes to the ntfy topic configured in
// config.toml and degrades to a no-op when no topic is set. Run summaries and
// error alerts can be switched off independently.
package notifications
