package show

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/tapcraft-io/rk/pkg/types"
)

// ErrNotImplemented is matched by NotImplementedError
var ErrNotImplemented = errors.New("not implemented")

// NotImplementedError reports an output format with no printer
type NotImplementedError struct {
	Format types.OutputFormat
}

func (e *NotImplementedError) Error() string {
	return fmt.Sprintf("output format %q is not implemented", e.Format)
}

// Is lets errors.Is(err, ErrNotImplemented) match
func (e *NotImplementedError) Is(target error) bool {
	return target == ErrNotImplemented
}

// Renderable is anything the output dispatcher can print
type Renderable interface {
	// Header returns the column titles for format. It depends only on the
	// type and the format, never on the instance.
	Header(format types.OutputFormat) []string
	// Data returns one row aligned with Header
	Data(params types.ShowParams, format types.OutputFormat) []string
	JSON(params types.ShowParams) (string, error)
	YAML(params types.ShowParams) (string, error)
	// Name returns "<kind>/<name>"
	Name() string
}

// multiRow is implemented by renderables that print more than one table row
type multiRow interface {
	Rows(params types.ShowParams, format types.OutputFormat) [][]string
}

// labeled is implemented by renderables that can fill a LABELS column, one
// label set per row. No label sets means no LABELS column.
type labeled interface {
	RowLabels() []map[string]string
}

// texter is implemented by renderables whose table form is free text
type texter interface {
	Text(params types.ShowParams, format types.OutputFormat) string
}

const namespaceColumn = "NAMESPACE"

// Output renders r in format. The NAMESPACE column is dropped from tables
// unless namespaceVisible is set. The result has no trailing newline.
func Output(r Renderable, namespaceVisible bool, params types.ShowParams, format types.OutputFormat) (string, error) {
	switch format {
	case types.OutputNormal, types.OutputWide:
		if t, ok := r.(texter); ok {
			return t.Text(params, format), nil
		}
		header, rows := Table(r, params, format)
		if !namespaceVisible {
			header, rows = dropColumn(header, rows, namespaceColumn)
		}
		return renderTable(header, rows), nil
	case types.OutputJSON:
		return r.JSON(params)
	case types.OutputYAML:
		out, err := r.YAML(params)
		return strings.TrimRight(out, "\n"), err
	case types.OutputName:
		return r.Name(), nil
	default:
		return "", &NotImplementedError{Format: format}
	}
}

// Table returns the header and rows r prints as, including the LABELS
// column when requested.
func Table(r Renderable, params types.ShowParams, format types.OutputFormat) ([]string, [][]string) {
	header := slices.Clone(r.Header(format))

	var rows [][]string
	if m, ok := r.(multiRow); ok {
		rows = m.Rows(params, format)
	} else {
		rows = [][]string{r.Data(params, format)}
	}

	if params.ShowLabels {
		if l, ok := r.(labeled); ok && len(l.RowLabels()) > 0 {
			header = append(header, "LABELS")
			labels := l.RowLabels()
			for i := range rows {
				var set map[string]string
				if i < len(labels) {
					set = labels[i]
				}
				rows[i] = append(rows[i], FormatLabels(set))
			}
		}
	}
	return header, rows
}

func dropColumn(header []string, rows [][]string, name string) ([]string, [][]string) {
	idx := slices.Index(header, name)
	if idx < 0 {
		return header, rows
	}
	header = slices.Delete(slices.Clone(header), idx, idx+1)
	out := make([][]string, len(rows))
	for i, row := range rows {
		if idx < len(row) {
			row = slices.Delete(slices.Clone(row), idx, idx+1)
		}
		out[i] = row
	}
	return header, out
}
