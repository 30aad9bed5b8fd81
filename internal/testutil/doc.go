// SPDX-License-Identifier: MPL-2.0

// Package testutil provides test helpers that fail the test on setup errors
// instead of returning them.
package testutil
