// SPDX-License-Identifier: MPL-2.0

// Package watch reports changes to the .nss files of a Nilesoft Shell
// project so an open session can be re-read after external edits.
//
// Events arriving within the debounce window are coalesced into one
// callback carrying every changed path.
package watch
