package show

import (
	"github.com/tapcraft-io/rk/pkg/types"
)

// Created wraps an object returned by a create call. Its table form is the
// "<kind>/<name> created" confirmation line.
type Created[T Object] struct {
	Object T
	// DryRun is "", "client" or "server"
	DryRun string
}

func NewCreated[T Object](obj T, dryRun string) *Created[T] {
	return &Created[T]{Object: obj, DryRun: dryRun}
}

func (c *Created[T]) Header(format types.OutputFormat) []string {
	return c.Object.Header(format)
}

func (c *Created[T]) Data(params types.ShowParams, format types.OutputFormat) []string {
	return c.Object.Data(params, format)
}

func (c *Created[T]) Text(types.ShowParams, types.OutputFormat) string {
	text := c.Object.Name() + " created"
	switch c.DryRun {
	case "client":
		text += " (dry run)"
	case "server":
		text += " (server dry run)"
	}
	return text
}

func (c *Created[T]) JSON(params types.ShowParams) (string, error) {
	return c.Object.JSON(params)
}

func (c *Created[T]) YAML(params types.ShowParams) (string, error) {
	return c.Object.YAML(params)
}

func (c *Created[T]) Name() string {
	return c.Object.Name()
}
