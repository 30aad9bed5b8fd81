// SPDX-License-Identifier: MPL-2.0

// Command nssedit edits the managed parts of a Nilesoft Shell configuration.
package main

import "github.com/nssedit/nssedit/cmd/nssedit"

func main() {
	cmd.Execute()
}
