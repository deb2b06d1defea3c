// SPDX-License-Identifier: MPL-2.0

package shell

import (
	"context"
	"fmt"
	"strings"
)

type echoBuiltin struct{}

func init() {
	RegisterDefault(echoBuiltin{})
}

func (echoBuiltin) Name() string  { return "echo" }
func (echoBuiltin) Usage() string { return "echo [ARG]..." }

func (echoBuiltin) Run(ctx context.Context, args []string) error {
	_, err := fmt.Fprint(GetHandlerContext(ctx).Stdout, strings.Join(args[1:], " "))
	return err
}
