// SPDX-License-Identifier: MPL-2.0

package shell

import "context"

type exitBuiltin struct{}

func init() {
	RegisterDefault(exitBuiltin{})
}

func (exitBuiltin) Name() string  { return "exit" }
func (exitBuiltin) Usage() string { return "exit" }
func (exitBuiltin) unaudited()    {}

func (exitBuiltin) Run(context.Context, []string) error { return ErrExit }
