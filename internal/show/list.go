package show

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/tapcraft-io/rk/pkg/types"
)

// List renders a collection. Tables print one header and one row per item;
// json and yaml produce a single v1 List document.
type List[T Renderable] struct {
	Items []T
}

// NewList creates a list of items
func NewList[T Renderable](items ...T) *List[T] {
	return &List[T]{Items: items}
}

func (l *List[T]) Len() int {
	return len(l.Items)
}

// Header is the element header; an empty list has no header
func (l *List[T]) Header(format types.OutputFormat) []string {
	if len(l.Items) == 0 {
		return nil
	}
	return l.Items[0].Header(format)
}

// Data returns nil; lists print through Rows
func (l *List[T]) Data(types.ShowParams, types.OutputFormat) []string {
	return nil
}

func (l *List[T]) Rows(params types.ShowParams, format types.OutputFormat) [][]string {
	rows := make([][]string, 0, len(l.Items))
	for _, item := range l.Items {
		if m, ok := any(item).(multiRow); ok {
			rows = append(rows, m.Rows(params, format)...)
			continue
		}
		rows = append(rows, item.Data(params, format))
	}
	return rows
}

func (l *List[T]) RowLabels() []map[string]string {
	labels := make([]map[string]string, 0, len(l.Items))
	for _, item := range l.Items {
		if lb, ok := any(item).(labeled); ok {
			labels = append(labels, lb.RowLabels()...)
			continue
		}
		labels = append(labels, nil)
	}
	return labels
}

type listMeta struct {
	ResourceVersion string `json:"resourceVersion"`
}

type listDocument struct {
	APIVersion string            `json:"apiVersion"`
	Items      []json.RawMessage `json:"items"`
	Kind       string            `json:"kind"`
	Metadata   listMeta          `json:"metadata"`
}

func (l *List[T]) document(params types.ShowParams) (listDocument, error) {
	doc := listDocument{
		APIVersion: "v1",
		Items:      make([]json.RawMessage, 0, len(l.Items)),
		Kind:       "List",
	}
	for _, item := range l.Items {
		var raw []byte
		var err error
		if o, ok := any(item).(Object); ok {
			raw, err = json.Marshal(o.Serializable(params))
		} else {
			var s string
			s, err = item.JSON(params)
			raw = []byte(s)
		}
		if err != nil {
			return doc, fmt.Errorf("failed to encode %s: %w", item.Name(), err)
		}
		doc.Items = append(doc.Items, raw)
	}
	return doc, nil
}

func (l *List[T]) JSON(params types.ShowParams) (string, error) {
	doc, err := l.document(params)
	if err != nil {
		return "", err
	}
	return toJSON(doc)
}

func (l *List[T]) YAML(params types.ShowParams) (string, error) {
	doc, err := l.document(params)
	if err != nil {
		return "", err
	}
	return toYAML(doc)
}

// Name lists every item's name, one per line
func (l *List[T]) Name() string {
	names := make([]string, 0, len(l.Items))
	for _, item := range l.Items {
		names = append(names, item.Name())
	}
	return strings.Join(names, "\n")
}
