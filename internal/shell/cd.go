// SPDX-License-Identifier: MPL-2.0

package shell

import (
	"context"
	"fmt"

	"github.com/archsh/archsh/pkg/types"
)

type cdBuiltin struct{}

func init() {
	RegisterDefault(cdBuiltin{})
}

func (cdBuiltin) Name() string  { return "cd" }
func (cdBuiltin) Usage() string { return "cd PATH" }

// Run moves the session to PATH when it is an entry name, or else to the
// current path joined with PATH when that is an entry name. Any entry is a
// valid destination, files included. The reply echoes PATH as typed.
func (cdBuiltin) Run(ctx context.Context, args []string) error {
	if err := requireArgs(args, 1); err != nil {
		return err
	}
	hc := GetHandlerContext(ctx)
	arg := args[1]

	if literal := types.EntryName(arg); hc.Index.Contains(literal) {
		hc.Session.SetCurrentPath(literal)
	} else if joined := hc.Session.Join(arg); hc.Index.Contains(joined) {
		hc.Session.SetCurrentPath(joined)
	} else {
		return ErrDirectoryNotFound
	}

	_, err := fmt.Fprint(hc.Stdout, "Changed directory to "+arg)
	return err
}
