// SPDX-License-Identifier: MPL-2.0

package shell

import (
	"context"
	"fmt"
	"strings"
)

// TailLines is how many trailing lines tail prints.
const TailLines = 10

type tailBuiltin struct{}

func init() {
	RegisterDefault(tailBuiltin{})
}

func (tailBuiltin) Name() string  { return "tail" }
func (tailBuiltin) Usage() string { return "tail FILE" }

// Run prints the last TailLines lines of FILE under the current path.
func (tailBuiltin) Run(ctx context.Context, args []string) error {
	if err := requireArgs(args, 1); err != nil {
		return err
	}
	hc := GetHandlerContext(ctx)

	lines, err := hc.Content.Tail(ctx, hc.Session.Join(args[1]), TailLines)
	if err != nil {
		return err
	}
	_, err = fmt.Fprint(hc.Stdout, strings.Join(lines, ""))
	return err
}
