package cli

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/riemann-research/zeta/internal/numparse"
)

// NormalizeArgs moves the positional values of a root invocation behind a
// "--" terminator so that negative numbers such as "-1" or "-2.5+1j" reach
// the command as values instead of being read as shorthand flags. Subcommand
// invocations are returned unchanged.
func NormalizeArgs(root *cobra.Command, args []string) []string {
	if len(args) > 0 {
		for _, sub := range root.Commands() {
			if sub.Name() == args[0] || sub.HasAlias(args[0]) {
				return args
			}
		}
		if args[0] == "help" || args[0] == "completion" {
			return args
		}
	}

	var flagArgs, values []string

	for i := 0; i < len(args); i++ {
		arg := args[i]

		switch {
		case arg == "--":
			values = append(values, args[i+1:]...)
			i = len(args)

		case !strings.HasPrefix(arg, "-") || arg == "-":
			values = append(values, arg)

		case isNumber(arg):
			values = append(values, arg)

		default:
			flagArgs = append(flagArgs, arg)
			if takesValue(root, arg) && !strings.Contains(arg, "=") && i+1 < len(args) {
				i++
				flagArgs = append(flagArgs, args[i])
			}
		}
	}

	if len(values) == 0 {
		return flagArgs
	}
	return append(append(flagArgs, "--"), values...)
}

func isNumber(arg string) bool {
	_, err := numparse.Parse(arg)
	return err == nil
}

// takesValue reports whether arg names a flag that consumes the next argument.
func takesValue(root *cobra.Command, arg string) bool {
	name := strings.TrimLeft(arg, "-")
	if i := strings.Index(name, "="); i >= 0 {
		name = name[:i]
	}

	flag := root.Flags().Lookup(name)
	if flag == nil && !strings.HasPrefix(arg, "--") && len(name) == 1 {
		flag = root.Flags().ShorthandLookup(name)
	}
	if flag == nil {
		flag = root.PersistentFlags().Lookup(name)
	}
	if flag == nil {
		return false
	}
	return flag.NoOptDefVal == ""
}
