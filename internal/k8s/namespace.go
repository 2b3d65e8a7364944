package k8s

import (
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
)

// NamespaceMode says where namespaced requests go
type NamespaceMode int

const (
	// NamespaceDefault uses the namespace of the current context
	NamespaceDefault NamespaceMode = iota
	// NamespaceAll spans every namespace
	NamespaceAll
	// NamespaceNamed uses an explicitly requested namespace
	NamespaceNamed
)

// Namespace is the namespace selection for one invocation
type Namespace struct {
	Mode NamespaceMode
	Name string
}

// AllNamespaces selects every namespace
func AllNamespaces() Namespace {
	return Namespace{Mode: NamespaceAll}
}

// DefaultNamespace selects the context namespace
func DefaultNamespace() Namespace {
	return Namespace{Mode: NamespaceDefault}
}

// NamedNamespace selects name, or the context namespace when name is empty
func NamedNamespace(name string) Namespace {
	if name == "" {
		return DefaultNamespace()
	}
	return Namespace{Mode: NamespaceNamed, Name: name}
}

// Resolve returns the namespace to put in requests. contextDefault is the
// namespace of the current kubeconfig context; all namespaces resolve to "".
func (n Namespace) Resolve(contextDefault string) string {
	switch n.Mode {
	case NamespaceAll:
		return metav1.NamespaceAll
	case NamespaceNamed:
		return n.Name
	default:
		if contextDefault == "" {
			return metav1.NamespaceDefault
		}
		return contextDefault
	}
}

// Visible reports whether results can span namespaces, in which case the
// NAMESPACE column is printed.
func (n Namespace) Visible() bool {
	return n.Mode == NamespaceAll
}

func (n Namespace) String() string {
	switch n.Mode {
	case NamespaceAll:
		return "all"
	case NamespaceNamed:
		return n.Name
	default:
		return "default"
	}
}
