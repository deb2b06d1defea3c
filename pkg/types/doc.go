// SPDX-License-Identifier: MPL-2.0

// Package types holds small validated value types shared by archsh packages:
// archive entry names, filesystem paths from the settings file, and TCP
// listen ports for the SSH adapter.
package types
