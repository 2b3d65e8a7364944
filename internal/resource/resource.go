package resource

import (
	"fmt"
	"strings"

	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/runtime/schema"
)

// Kind identifies a well-known resource type, or Dynamic for anything
// resolved through discovery.
type Kind int

const (
	Pods Kind = iota
	Namespaces
	Nodes
	ConfigMaps
	ComponentStatuses
	Services
	Dynamic
)

// APIResource is the discovery information needed to address a type
type APIResource struct {
	Group      string
	Version    string
	Kind       string
	Plural     string
	Namespaced bool
}

// GroupVersion returns "group/version", or "version" for the core group
func (a APIResource) GroupVersion() string {
	return schema.GroupVersion{Group: a.Group, Version: a.Version}.String()
}

var wellKnown = map[Kind]APIResource{
	Pods:              {Version: "v1", Kind: "Pod", Plural: "pods", Namespaced: true},
	Namespaces:        {Version: "v1", Kind: "Namespace", Plural: "namespaces"},
	Nodes:             {Version: "v1", Kind: "Node", Plural: "nodes"},
	ConfigMaps:        {Version: "v1", Kind: "ConfigMap", Plural: "configmaps", Namespaced: true},
	ComponentStatuses: {Version: "v1", Kind: "ComponentStatus", Plural: "componentstatuses"},
	Services:          {Version: "v1", Kind: "Service", Plural: "services", Namespaced: true},
}

// aliases is matched case-sensitively
var aliases = map[string]Kind{
	"po":                Pods,
	"pod":               Pods,
	"pods":              Pods,
	"ns":                Namespaces,
	"namespace":         Namespaces,
	"namespaces":        Namespaces,
	"no":                Nodes,
	"node":              Nodes,
	"nodes":             Nodes,
	"cm":                ConfigMaps,
	"configmap":         ConfigMaps,
	"configmaps":        ConfigMaps,
	"cs":                ComponentStatuses,
	"componentstatus":   ComponentStatuses,
	"componentstatuses": ComponentStatuses,
	"svc":               Services,
	"service":           Services,
	"services":          Services,
}

// Aliases returns every well-known alias
func Aliases() []string {
	out := make([]string, 0, len(aliases))
	for a := range aliases {
		out = append(out, a)
	}
	return out
}

// Resource identifies a resource type: either a well-known kind or a
// dynamically discovered one. Values are comparable.
type Resource struct {
	kind    Kind
	dynamic APIResource
}

// WellKnown returns the resource for a well-known kind
func WellKnown(k Kind) Resource {
	if k == Dynamic {
		panic("resource.WellKnown called with Dynamic")
	}
	return Resource{kind: k}
}

// FromAPIResource builds a dynamic resource from a discovery entry
func FromAPIResource(groupVersion string, r metav1.APIResource) (Resource, error) {
	gv, err := schema.ParseGroupVersion(groupVersion)
	if err != nil {
		return Resource{}, fmt.Errorf("invalid group version %q: %w", groupVersion, err)
	}
	if r.Group != "" {
		gv.Group = r.Group
	}
	if r.Version != "" {
		gv.Version = r.Version
	}
	return Resource{
		kind: Dynamic,
		dynamic: APIResource{
			Group:      gv.Group,
			Version:    gv.Version,
			Kind:       r.Kind,
			Plural:     r.Name,
			Namespaced: r.Namespaced,
		},
	}, nil
}

// Kind returns the well-known kind, or Dynamic
func (r Resource) Kind() Kind {
	return r.kind
}

// API returns the discovery information for r
func (r Resource) API() APIResource {
	if r.kind == Dynamic {
		return r.dynamic
	}
	return wellKnown[r.kind]
}

func (r Resource) GroupVersionResource() schema.GroupVersionResource {
	a := r.API()
	return schema.GroupVersionResource{Group: a.Group, Version: a.Version, Resource: a.Plural}
}

func (r Resource) GroupVersionKind() schema.GroupVersionKind {
	a := r.API()
	return schema.GroupVersionKind{Group: a.Group, Version: a.Version, Kind: a.Kind}
}

func (r Resource) Namespaced() bool {
	return r.API().Namespaced
}

// String is the lower-cased kind ("pod", "widget")
func (r Resource) String() string {
	return strings.ToLower(r.API().Kind)
}
