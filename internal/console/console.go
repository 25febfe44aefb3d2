// Package console is the server operator's line console: a reader
// goroutine collects stdin lines, the tick loop polls and executes them.
// Poll never blocks, which is the contract the tick loop relies on.
package console

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"
)

const promptStr = ">>> "

// Console dispatches typed lines against an ordered command registry.
type Console struct {
	rt       Runtime
	commands []Command
	lines    chan string
	out      io.Writer
	tty      bool
}

// New creates a console bound to the runtime, writing to out. When out is
// nil, stdout is used.
func New(rt Runtime, out io.Writer) *Console {
	c := &Console{
		rt:    rt,
		lines: make(chan string, 16),
		out:   out,
	}
	if c.out == nil {
		c.out = os.Stdout
		c.tty = term.IsTerminal(int(os.Stdin.Fd()))
	}
	c.commands = Commands(c)
	return c
}

// Start launches the reader goroutine over r (stdin in production). The
// goroutine exits when r is exhausted or closed.
func (c *Console) Start(r io.Reader) {
	go func() {
		scanner := bufio.NewScanner(r)
		for scanner.Scan() {
			line := strings.TrimSpace(scanner.Text())
			if line == "" {
				continue
			}
			c.lines <- line
		}
	}()
	c.Printf("Use 'quit' command to exit.")
	c.prompt()
}

// Poll executes every line typed since the previous tick. Non-blocking.
func (c *Console) Poll() {
	for {
		select {
		case line := <-c.lines:
			c.Execute(line)
			c.prompt()
		default:
			return
		}
	}
}

// Execute runs one command line.
func (c *Console) Execute(line string) {
	name, tail, _ := strings.Cut(line, " ")

	if name == "clear" {
		c.clear()
		return
	}

	for i := range c.commands {
		cmd := &c.commands[i]
		if cmd.Name != name {
			continue
		}
		args := SplitArguments(tail)
		if err := validateArgs(cmd, args); err != nil {
			c.Printf("%s.", capitalize(err.Error()))
			return
		}
		if err := cmd.Run(args, c.rt); err != nil {
			c.Printf("Command %q failed: %v.", name, err)
		}
		return
	}

	c.Printf("Requested command %q cannot be executed now.", name)
}

// Printf prints one console line.
func (c *Console) Printf(format string, args ...any) {
	fmt.Fprintf(c.out, format+"\n", args...)
}

func (c *Console) prompt() {
	if c.tty {
		fmt.Fprint(c.out, promptStr)
	}
}

func (c *Console) clear() {
	if c.tty {
		fmt.Fprint(c.out, "\033[2J\033[H")
	}
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
