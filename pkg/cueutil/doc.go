// SPDX-License-Identifier: MPL-2.0

// Package cueutil validates decoded configuration data against an embedded
// CUE schema.
//
// Configuration files are decoded from their own format (TOML) into generic
// Go maps first; the map is then encoded into CUE, unified with a schema
// definition and decoded back, so defaults and constraints in the schema
// apply regardless of the source format.
//
// # Usage
//
//	//go:embed config_schema.cue
//	var schema []byte
//
//	validated, err := cueutil.ValidateMap(schema, "#Config", raw,
//	    cueutil.WithFilename("config.toml"),
//	)
//	if err != nil {
//	    return err // Error includes the field path
//	}
package cueutil
