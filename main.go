// SPDX-License-Identifier: MPL-2.0

// Command archsh is a read-only shell over an archive.
package main

import (
	"os"

	cmd "github.com/archsh/archsh/cmd/archsh"
)

func main() {
	os.Exit(cmd.Main())
}
