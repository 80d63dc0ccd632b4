package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"golang.org/x/term"

	"github.com/lixenwraith/termsweep/terminal"
)

var telnetFlag = flag.Bool("telnet", false, "Strip telnet negotiation from stdin (for piping captured sessions)")

// Prints each decoded key until Ctrl+C
func main() {
	flag.Parse()

	fd := int(os.Stdin.Fd())
	if term.IsTerminal(fd) {
		raw, err := terminal.NewRawMode(fd)
		if err != nil {
			fmt.Fprintf(os.Stderr, "init failed: %v\n", err)
			os.Exit(1)
		}
		if err := raw.Enable(); err != nil {
			fmt.Fprintf(os.Stderr, "init failed: %v\n", err)
			os.Exit(1)
		}
		defer raw.Disable()

		os.Stdout.Write(terminal.MouseEnable)
		defer os.Stdout.Write(terminal.MouseDisable)

		if w, h, err := term.GetSize(fd); err == nil {
			fmt.Printf("Input Test %dx%d - Press keys, click the mouse - Ctrl+C to quit\r\n", w, h)
		}
	}
	// Piped input is decoded as is, until Ctrl+C or end of input
	if err := echoKeys(os.Stdin, os.Stdout, *telnetFlag); err != nil {
		fmt.Printf("ERROR: %v\r\n", err)
	}
}

// echoKeys prints every key decoded from r, one per line, until Ctrl+C or end of input
func echoKeys(r io.Reader, w io.Writer, telnet bool) error {
	if telnet {
		r = terminal.NewTelnetReader(r)
	}
	dec := terminal.NewDecoder(r)

	for {
		key, err := dec.ReadKey()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "%s\r\n", key)
		if key == terminal.Control('C') {
			return nil
		}
	}
}
