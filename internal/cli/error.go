package cli

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/hlop3z/fkmig/internal/alerr"
	"github.com/hlop3z/fkmig/internal/strutil"
)

// FormatError formats an error for CLI display in Cargo/rustc style.
// Coded errors show their context and help lines; driver errors show the
// native error code when one is known.
func FormatError(err error) string {
	if err == nil {
		return ""
	}

	var coded *alerr.Error
	if errors.As(err, &coded) {
		return formatCodedError(coded)
	}
	return formatGenericError(err)
}

// formatCodedError renders:
//
//	error[E3005]: Table 'astronauts' has no foreign key for planets
//	   |
//	   | table: astronauts
//	help: did you mean 'rockets'?
func formatCodedError(err *alerr.Error) string {
	var b strings.Builder

	b.WriteString(Error("error"))
	b.WriteString("[")
	b.WriteString(Code(string(err.GetCode())))
	b.WriteString("]: ")
	b.WriteString(err.GetMessage())
	b.WriteString("\n")

	ctx := err.GetContext()
	keys := make([]string, 0, len(ctx))
	for k := range ctx {
		if k != "helps" {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)

	if len(keys) > 0 {
		b.WriteString("   ")
		b.WriteString(Pipe())
		b.WriteString("\n")
		for _, k := range keys {
			b.WriteString("   ")
			b.WriteString(Pipe())
			b.WriteString(" ")
			value := fmt.Sprintf("%v", ctx[k])
			if strings.Contains(value, "\n") {
				// Multi-line values (statements) go below their key.
				b.WriteString(k + ":\n")
				b.WriteString(strutil.Indent(value, 5))
			} else {
				b.WriteString(k + ": " + value)
			}
			b.WriteString("\n")
		}
	}

	for _, help := range err.Helps() {
		b.WriteString(Help("help"))
		b.WriteString(": ")
		b.WriteString(help)
		b.WriteString("\n")
	}

	if cause := err.GetCause(); cause != nil {
		b.WriteString("   ")
		b.WriteString(Pipe())
		b.WriteString("\n")
		b.WriteString(Note("cause"))
		b.WriteString(": ")
		b.WriteString(firstLine(causeMessage(cause)))
		b.WriteString("\n")
	}

	return b.String()
}

// causeMessage returns the message of a nested coded error without its
// context block, or the plain error text.
func causeMessage(err error) string {
	var coded *alerr.Error
	if errors.As(err, &coded) {
		return fmt.Sprintf("[%s] %s", coded.GetCode(), coded.GetMessage())
	}
	if code := alerr.DriverCode(err); code != "" {
		return fmt.Sprintf("%s (driver code %s)", err.Error(), code)
	}
	return err.Error()
}

func firstLine(s string) string {
	if idx := strings.IndexByte(s, '\n'); idx != -1 {
		return s[:idx]
	}
	return s
}

// formatGenericError formats a non-coded error.
func formatGenericError(err error) string {
	var b strings.Builder
	b.WriteString(Error("error"))
	if code := alerr.DriverCode(err); code != "" {
		b.WriteString("[")
		b.WriteString(Code(code))
		b.WriteString("]")
	}
	b.WriteString(": ")
	b.WriteString(err.Error())
	b.WriteString("\n")
	return b.String()
}
