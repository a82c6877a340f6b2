package repl

import (
	"bufio"
	"context"
	"fmt"
	"io"
)

// RunPlain runs the REPL as a line loop for non-interactive input. Output
// matches the interactive REPL: an empty or unreadable history prints the
// no-history notice, EOF prints CTRL-D and a cancelled ctx prints CTRL-C.
func RunPlain(ctx context.Context, session *Session, in io.Reader, out io.Writer) error {
	if lines, err := session.LoadHistory(ctx); err != nil || len(lines) == 0 {
		fmt.Fprintln(out, MsgNoHistory)
	}

	lines := make(chan string)
	readErr := make(chan error, 1)
	go func() {
		scanner := bufio.NewScanner(in)
		scanner.Buffer(make([]byte, 64*1024), 4*1024*1024)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-ctx.Done():
				return
			}
		}
		readErr <- scanner.Err()
		close(lines)
	}()

	for {
		fmt.Fprint(out, session.Prompt())

		select {
		case <-ctx.Done():
			fmt.Fprintln(out, MsgInterrupted)
			return nil

		case line, ok := <-lines:
			if !ok {
				if err := <-readErr; err != nil {
					return err
				}
				fmt.Fprintln(out, MsgEOF)
				return nil
			}
			res := session.Eval(ctx, line)
			fmt.Fprint(out, res.Output)
			if res.Quit {
				return nil
			}
		}
	}
}
