// SPDX-License-Identifier: MPL-2.0

package tui

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
)

// RunPlain is the line-oriented front end for pipes and scripts. Each input
// line is echoed after the prompt, followed by its output. It returns when
// the input ends, exit is run or ctx is done.
func RunPlain(ctx context.Context, exec Executor, in io.Reader, out io.Writer) error {
	sc := bufio.NewScanner(in)
	for sc.Scan() {
		if err := ctx.Err(); err != nil {
			return err
		}
		line := sc.Text()
		if _, err := fmt.Fprintf(out, "%s%s\n", exec.Prompt(), line); err != nil {
			return err
		}

		res := exec.Execute(ctx, line)
		if res.Exit {
			return nil
		}
		if err := writeBlock(out, res.Output); err != nil {
			return err
		}
	}
	return sc.Err()
}

// RunLines executes each line in order and writes only the output blocks.
// It stops at exit.
func RunLines(ctx context.Context, exec Executor, lines []string, out io.Writer) error {
	for _, line := range lines {
		res := exec.Execute(ctx, line)
		if res.Exit {
			return nil
		}
		if err := writeBlock(out, res.Output); err != nil {
			return err
		}
	}
	return nil
}

// writeBlock writes output terminated by exactly one newline; an empty
// block from a command that printed nothing is written as an empty line.
func writeBlock(out io.Writer, output string) error {
	_, err := io.WriteString(out, strings.TrimSuffix(output, "\n")+"\n")
	return err
}
