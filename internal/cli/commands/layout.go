package commands

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/ccollicutt/fwf/pkg/config"
	"github.com/ccollicutt/fwf/pkg/layouts"
	"github.com/ccollicutt/fwf/pkg/record"
)

// ExitCode is set by commands to indicate the result
var ExitCode = 0

// schema is what commands need from a layout: a variant to parse with and
// the kind each field ends up holding.
type schema interface {
	Variant() *record.Variant
	KindOf(field string) record.Kind
}

// resolveLayout loads a layout file, or a builtin when no file by that name
// exists.
func resolveLayout(ctx context.Context, arg string) (schema, error) {
	_, statErr := os.Stat(arg)
	if statErr == nil {
		l, err := config.Load(ctx, arg)
		if err != nil {
			return nil, fmt.Errorf("loading layout: %w", err)
		}
		return l, nil
	}
	if !errors.Is(statErr, fs.ErrNotExist) {
		return nil, fmt.Errorf("loading layout: %w", statErr)
	}

	if b, ok := layouts.Lookup(arg); ok {
		return b, nil
	}
	return nil, fmt.Errorf("layout not found: %s (not a file or one of: %s)", arg, builtinNames())
}

func builtinNames() string {
	var names []string
	for _, b := range layouts.All() {
		names = append(names, b.Name)
	}
	return strings.Join(names, ", ")
}
