// SPDX-License-Identifier: MPL-2.0

// Package cueutil validates CUE documents against an embedded schema.
//
// A document is compiled next to the schema, unified with one of its
// definitions, validated, and decoded into a plain map so callers such as
// Viper can merge it over their defaults:
//
//	//go:embed config_schema.cue
//	var schema string
//
//	values, err := cueutil.DecodeMap(schema, data, "#Config", "config.cue")
//	if err != nil {
//	    return err // err carries file and field paths
//	}
package cueutil
