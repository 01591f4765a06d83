package internal

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/mattn/go-isatty"
	"golang.org/x/term"
)

// Confirm asks for a single-key yes/no answer, re-asking until it gets one.
// y proceeds, n aborts, anything else is rejected. There is no retry cap.
func Confirm(in io.Reader, out io.Writer) (bool, error) {
	for {
		fmt.Fprint(out, "OK? [yn] ")
		key, err := readKey(in)
		fmt.Fprintln(out)
		if err != nil {
			return false, err
		}

		switch key {
		case 'y':
			return true, nil
		case 'n':
			return false, nil
		default:
			fmt.Fprintln(out, "Invalid input")
		}
	}
}

// readKey reads one keypress. On a terminal it flips raw mode to get the
// byte immediately; otherwise it takes the first byte of the next line.
func readKey(in io.Reader) (byte, error) {
	if f, ok := in.(*os.File); ok {
		fd := f.Fd()
		if isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd) {
			if old, err := term.MakeRaw(int(fd)); err == nil {
				defer term.Restore(int(fd), old)
				var buf [1]byte
				if _, err := f.Read(buf[:]); err != nil {
					return 0, err
				}
				return buf[0], nil
			}
		}
	}

	line, err := readLine(in)
	if err != nil {
		return 0, err
	}
	if len(line) == 0 {
		return '\n', nil
	}
	return line[0], nil
}

// readLine consumes input up to and including the next newline, one byte at
// a time so it never takes more than its own line from the reader.
func readLine(in io.Reader) ([]byte, error) {
	var line []byte
	buf := make([]byte, 1)
	for {
		n, err := in.Read(buf)
		if n > 0 {
			if buf[0] == '\n' {
				return line, nil
			}
			line = append(line, buf[0])
		}
		if err != nil {
			if errors.Is(err, io.EOF) && len(line) > 0 {
				return line, nil
			}
			return nil, err
		}
	}
}
