package loaders

import (
	"errors"
	"fmt"
	"os"
	"reflect"

	"github.com/spf13/pflag"
)

// ErrUnexpectedArg is returned for positional arguments. The usual cause is
// "--flag false" on a boolean flag, which must be written "--flag=false".
var ErrUnexpectedArg = errors.New("unexpected argument")

// FlagLoader sets fields tagged `flag:"name"` from command line arguments.
// Only flags present on the command line override earlier loaders.
type FlagLoader struct {
	args []string
}

func NewFlagLoader() *FlagLoader {
	return NewFlagLoaderWithArgs(os.Args[1:])
}

func NewFlagLoaderWithArgs(args []string) *FlagLoader {
	return &FlagLoader{args: args}
}

func (f *FlagLoader) Load(dest any) error {
	flags := pflag.NewFlagSet("config", pflag.ContinueOnError)
	flags.ParseErrorsWhitelist.UnknownFlags = true // flags belonging to other config sections
	flags.Usage = func() {}

	values := make(map[string]*string)
	targets := make(map[string]reflect.Value)
	err := eachTaggedField(dest, "flag", func(field reflect.Value, tag string) error {
		if field.Kind() == reflect.Bool {
			values[tag] = flags.String(tag, "", fmt.Sprintf("boolean, --%s or --%s=false", tag, tag))
			flags.Lookup(tag).NoOptDefVal = "true" // allow bare --flag
		} else {
			values[tag] = flags.String(tag, "", "")
		}
		targets[tag] = field
		return nil
	})
	if err != nil {
		return err
	}

	if err := flags.Parse(f.args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return nil
		}
		return err
	}
	if flags.NArg() > 0 {
		return fmt.Errorf("%w %q: boolean flags take the --name=false form", ErrUnexpectedArg, flags.Arg(0))
	}

	for name, field := range targets {
		if !flags.Changed(name) {
			continue
		}
		if err := setEnvironmentVariable(field, *values[name]); err != nil {
			return err
		}
	}

	return nil
}
