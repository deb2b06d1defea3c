// SPDX-License-Identifier: MPL-2.0

// Package session holds the mutable state of one emulator session: the
// current working path and the user/host identity shown in the prompt.
package session

import "github.com/archsh/archsh/pkg/types"

// RootAlias is the display name of the starting directory. It does not have
// to exist as an archive entry.
const RootAlias types.EntryName = "Home"

// State is owned by a single emulator and is not safe for concurrent use.
type State struct {
	currentPath types.EntryName
	username    string
	hostname    string
}

// New returns a State positioned at RootAlias.
func New(username, hostname string) *State {
	return &State{
		currentPath: RootAlias,
		username:    username,
		hostname:    hostname,
	}
}

// CurrentPath returns the current working path.
func (s *State) CurrentPath() types.EntryName { return s.currentPath }

// SetCurrentPath replaces the current working path without validation.
func (s *State) SetCurrentPath(path types.EntryName) { s.currentPath = path }

// Reset moves the session back to RootAlias.
func (s *State) Reset() { s.currentPath = RootAlias }

// Username returns the session user.
func (s *State) Username() string { return s.username }

// Hostname returns the session host.
func (s *State) Hostname() string { return s.hostname }

// Prompt returns the "user@host: " prefix used when echoing input lines.
func (s *State) Prompt() string { return s.username + "@" + s.hostname + ": " }

// Join returns name resolved against the current path.
func (s *State) Join(name string) types.EntryName {
	return types.EntryName(string(s.currentPath) + "/" + name)
}
