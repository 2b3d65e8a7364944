package show

import (
	"github.com/tapcraft-io/rk/pkg/types"
	"k8s.io/apimachinery/pkg/apis/meta/v1/unstructured"
)

// Unstructured renders any object fetched through the dynamic client
type Unstructured struct {
	object
}

func NewUnstructured(u *unstructured.Unstructured) *Unstructured {
	return &Unstructured{object: newObject(u, u.GroupVersionKind())}
}

func (u *Unstructured) Header(types.OutputFormat) []string {
	return []string{"NAMESPACE", "NAME", "AGE"}
}

func (u *Unstructured) Data(params types.ShowParams, _ types.OutputFormat) []string {
	return []string{u.namespace(), u.nameCell(params), u.age()}
}
