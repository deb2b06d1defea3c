// SPDX-License-Identifier: MPL-2.0

package shell

import (
	"context"
	"fmt"
	"strings"
)

type lsBuiltin struct{}

func init() {
	RegisterDefault(lsBuiltin{})
}

func (lsBuiltin) Name() string  { return "ls" }
func (lsBuiltin) Usage() string { return "ls" }

// Run prints the immediate children of the current path, one per line, in
// archive order. Operands are ignored.
func (lsBuiltin) Run(ctx context.Context, _ []string) error {
	hc := GetHandlerContext(ctx)

	children := hc.Index.Children(hc.Session.CurrentPath())
	names := make([]string, len(children))
	for i, c := range children {
		names[i] = c.String()
	}
	_, err := fmt.Fprint(hc.Stdout, strings.Join(names, "\n"))
	return err
}
