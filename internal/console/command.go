package console

import (
	"fmt"
	"time"
)

// Runtime is the handle commands mutate. The server implements it; passing
// it explicitly keeps the engine singleton of old designs out.
type Runtime interface {
	TickCount() uint64
	LastTickDuration() time.Duration
	ClientCount() int
	Stop()
}

// Command is one console command: a name, an accepted argument range and
// the function run with the parsed arguments.
type Command struct {
	Name    string
	MinArgs int
	MaxArgs int
	Run     func(args []string, rt Runtime) error
}

// Commands returns the built-in command set, in stable dispatch order.
func Commands(out Printer) []Command {
	return []Command{
		{
			Name: "quit",
			Run: func(_ []string, rt Runtime) error {
				rt.Stop()
				return nil
			},
		},
		{
			Name: "ticks",
			Run: func(_ []string, rt Runtime) error {
				out.Printf("Total ticks: %d", rt.TickCount())
				out.Printf("Last tick time: %.4f ms", float64(rt.LastTickDuration().Nanoseconds())/1e6)
				return nil
			},
		},
		{
			Name: "clients",
			Run: func(_ []string, rt Runtime) error {
				out.Printf("Connected clients: %d", rt.ClientCount())
				return nil
			},
		},
	}
}

// Printer is where command output lands.
type Printer interface {
	Printf(format string, args ...any)
}

// SplitArguments splits a command tail into arguments. Double quotes group
// words, backslash escapes the next rune.
func SplitArguments(args string) []string {
	var slices []string
	var slice []byte

	escaped := false
	inQuotes := false
	for i := 0; i < len(args); i++ {
		c := args[i]
		if escaped {
			slice = append(slice, c)
			escaped = false
			continue
		}
		switch {
		case c == '\\':
			escaped = true
		case c == '"':
			inQuotes = !inQuotes
		case !inQuotes && c == ' ':
			if len(slice) > 0 {
				slices = append(slices, string(slice))
				slice = slice[:0]
			}
		default:
			slice = append(slice, c)
		}
	}
	if len(slice) > 0 {
		slices = append(slices, string(slice))
	}
	return slices
}

// validateArgs checks the argument count against the command's range.
func validateArgs(cmd *Command, args []string) error {
	if len(args) < cmd.MinArgs {
		return fmt.Errorf("not enough arguments in %q command", cmd.Name)
	}
	if len(args) > cmd.MaxArgs {
		return fmt.Errorf("too many arguments in %q command", cmd.Name)
	}
	return nil
}
