package show

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/tapcraft-io/rk/pkg/types"
	"k8s.io/apimachinery/pkg/api/meta"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/runtime"
	"k8s.io/apimachinery/pkg/runtime/schema"
	"sigs.k8s.io/yaml"
)

const none = "<none>"

// Object is a single API object
type Object interface {
	Renderable
	Labels() map[string]string
	// Serializable returns a copy of the object ready for json/yaml output:
	// apiVersion and kind are set and managed fields are removed unless
	// params.ShowManagedFields.
	Serializable(params types.ShowParams) runtime.Object
}

// object carries the behaviour shared by every wrapped API object
type object struct {
	obj runtime.Object
	gvk schema.GroupVersionKind
}

func newObject(obj runtime.Object, gvk schema.GroupVersionKind) object {
	if got := obj.GetObjectKind().GroupVersionKind(); !got.Empty() {
		gvk = got
	}
	return object{obj: obj, gvk: gvk}
}

func (o object) meta() metav1.Object {
	m, err := meta.Accessor(o.obj)
	if err != nil {
		panic(fmt.Sprintf("%T has no object metadata: %v", o.obj, err))
	}
	return m
}

func (o object) kind() string {
	return strings.ToLower(o.gvk.Kind)
}

// Name returns "<kind>/<name>"
func (o object) Name() string {
	return o.kind() + "/" + o.meta().GetName()
}

func (o object) Labels() map[string]string {
	return o.meta().GetLabels()
}

func (o object) RowLabels() []map[string]string {
	return []map[string]string{o.Labels()}
}

func (o object) Serializable(params types.ShowParams) runtime.Object {
	c := o.obj.DeepCopyObject()
	if !params.ShowManagedFields {
		if m, err := meta.Accessor(c); err == nil {
			m.SetManagedFields(nil)
		}
	}
	c.GetObjectKind().SetGroupVersionKind(o.gvk)
	return c
}

func (o object) JSON(params types.ShowParams) (string, error) {
	return toJSON(o.Serializable(params))
}

func (o object) YAML(params types.ShowParams) (string, error) {
	return toYAML(o.Serializable(params))
}

// nameCell is the NAME column value, kind-prefixed when requested
func (o object) nameCell(params types.ShowParams) string {
	if params.ShowKind {
		return o.Name()
	}
	return o.meta().GetName()
}

func (o object) namespace() string {
	return o.meta().GetNamespace()
}

func (o object) age() string {
	return Age(o.meta().GetCreationTimestamp())
}

func toJSON(v any) (string, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to encode json: %w", err)
	}
	return string(data), nil
}

func toYAML(v any) (string, error) {
	data, err := yaml.Marshal(v)
	if err != nil {
		return "", fmt.Errorf("failed to encode yaml: %w", err)
	}
	return string(data), nil
}

// FormatLabels renders labels as sorted "k=v" pairs, or <none>
func FormatLabels(labels map[string]string) string {
	if len(labels) == 0 {
		return none
	}
	pairs := make([]string, 0, len(labels))
	for k, v := range labels {
		pairs = append(pairs, k+"="+v)
	}
	sort.Strings(pairs)
	return strings.Join(pairs, ",")
}

func orNone(s string) string {
	if s == "" {
		return none
	}
	return s
}
