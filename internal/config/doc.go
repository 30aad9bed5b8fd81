// SPDX-License-Identifier: MPL-2.0

// Package config loads nssedit settings with Viper, using CUE as the file format.
//
// The file is looked up at $XDG_CONFIG_HOME/nssedit/config.cue (the
// platform equivalent on macOS and Windows), then ./config.cue. A path given
// with --config is used exclusively. Every key can be overridden from the
// environment with the NSSEDIT_ prefix, e.g. NSSEDIT_FILES_PROJECT_ROOT.
//
// Files are validated against the embedded config_schema.cue before they are
// merged over the defaults.
package config
