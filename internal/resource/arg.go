package resource

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sort"
	"strings"

	"github.com/sahilm/fuzzy"
	"github.com/tapcraft-io/rk/internal/discovery"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/runtime/schema"
	"k8s.io/klog/v2"
)

const maxSuggestions = 3

// Arg is one resolved resource argument: a bare Resource means "list",
// a NamedResource means "get one".
type Arg interface {
	Type() Resource
	String() string
	isArg()
}

func (r Resource) Type() Resource { return r }
func (Resource) isArg()           {}

// NamedResource is a resource type plus an object name
type NamedResource struct {
	Resource Resource
	Name     string
}

func (n NamedResource) Type() Resource { return n.Resource }
func (NamedResource) isArg()           {}

// String is "<kind>/<name>"
func (n NamedResource) String() string {
	return n.Resource.String() + "/" + n.Name
}

// Catalog supplies discovery data for types that are not well known
type Catalog interface {
	PreferredResources(ctx context.Context) ([]*metav1.APIResourceList, error)
}

// ParseArgs resolves command line tokens into resource arguments. Tokens are
// either all "type/name", or a comma separated type list followed by names,
// which yields every type paired with every name. catalog may be nil, in
// which case only well-known types resolve.
func ParseArgs(ctx context.Context, tokens []string, catalog Catalog) ([]Arg, error) {
	if len(tokens) == 0 {
		return nil, &InvalidResourceSpecError{Reason: Empty}
	}
	r := &resolver{catalog: catalog}

	if slices.ContainsFunc(tokens, func(t string) bool { return strings.Contains(t, "/") }) {
		args := make([]Arg, 0, len(tokens))
		for _, token := range tokens {
			typ, name, ok := strings.Cut(token, "/")
			if !ok {
				return nil, &InvalidResourceSpecError{Reason: MixedForms, Token: token}
			}
			if typ == "" || name == "" {
				return nil, &InvalidResourceSpecError{Reason: EmptyName, Token: token}
			}
			res, err := r.resolve(ctx, typ)
			if err != nil {
				return nil, err
			}
			args = append(args, NamedResource{Resource: res, Name: name})
		}
		return args, nil
	}

	var resources []Resource
	for _, typ := range strings.Split(tokens[0], ",") {
		if typ == "" {
			continue
		}
		res, err := r.resolve(ctx, typ)
		if err != nil {
			return nil, err
		}
		resources = append(resources, res)
	}
	if len(resources) == 0 {
		return nil, &InvalidResourceSpecError{Reason: Empty, Token: tokens[0]}
	}

	names := tokens[1:]
	if len(names) == 0 {
		args := make([]Arg, 0, len(resources))
		for _, res := range resources {
			args = append(args, res)
		}
		return args, nil
	}

	args := make([]Arg, 0, len(resources)*len(names))
	for _, res := range resources {
		for _, name := range names {
			if name == "" {
				return nil, &InvalidResourceSpecError{Reason: EmptyName, Token: res.String() + "/"}
			}
			args = append(args, NamedResource{Resource: res, Name: name})
		}
	}
	return args, nil
}

// MultipleTypes reports whether args refer to more than one resource type
func MultipleTypes(args []Arg) bool {
	seen := map[Resource]struct{}{}
	for _, a := range args {
		seen[a.Type()] = struct{}{}
	}
	return len(seen) > 1
}

type resolver struct {
	catalog Catalog
	loaded  bool
	lists   []*metav1.APIResourceList
}

func (r *resolver) resolve(ctx context.Context, token string) (Resource, error) {
	if k, ok := aliases[token]; ok {
		return WellKnown(k), nil
	}

	lists, err := r.discovered(ctx)
	if err != nil {
		return Resource{}, err
	}
	if res, ok, err := match(lists, token); ok || err != nil {
		return res, err
	}

	return Resource{}, &InvalidResourceSpecError{
		Reason:      UnknownType,
		Token:       token,
		Suggestions: suggest(token, lists),
	}
}

// discovered fetches the catalog once per resolver
func (r *resolver) discovered(ctx context.Context) ([]*metav1.APIResourceList, error) {
	if r.loaded || r.catalog == nil {
		return r.lists, nil
	}
	lists, err := r.catalog.PreferredResources(ctx)
	switch {
	case errors.Is(err, discovery.ErrNoDiscovery):
		klog.FromContext(ctx).V(4).Info("No discovery data, only well-known types resolve")
	case err != nil:
		return nil, fmt.Errorf("failed to resolve resource types: %w", err)
	}
	r.lists, r.loaded = lists, true
	return r.lists, nil
}

// match looks token up by plural, singular and short name, then as
// "<plural|singular|short>.<group>".
func match(lists []*metav1.APIResourceList, token string) (Resource, bool, error) {
	for _, list := range lists {
		for _, ar := range list.APIResources {
			if !isSubresource(ar) && matchesName(ar, token) {
				res, err := FromAPIResource(list.GroupVersion, ar)
				return res, true, err
			}
		}
	}

	name, group, ok := strings.Cut(token, ".")
	if !ok || name == "" || group == "" {
		return Resource{}, false, nil
	}
	for _, list := range lists {
		gv, err := schema.ParseGroupVersion(list.GroupVersion)
		if err != nil || gv.Group != group {
			continue
		}
		for _, ar := range list.APIResources {
			if !isSubresource(ar) && matchesName(ar, name) {
				res, err := FromAPIResource(list.GroupVersion, ar)
				return res, true, err
			}
		}
	}
	return Resource{}, false, nil
}

func isSubresource(ar metav1.APIResource) bool {
	return strings.Contains(ar.Name, "/")
}

func matchesName(ar metav1.APIResource, token string) bool {
	if ar.Name == token || ar.SingularName == token {
		return true
	}
	if ar.SingularName == "" && strings.ToLower(ar.Kind) == token {
		return true
	}
	return slices.Contains(ar.ShortNames, token)
}

func suggest(token string, lists []*metav1.APIResourceList) []string {
	seen := map[string]struct{}{}
	add := func(s string) {
		if s != "" {
			seen[s] = struct{}{}
		}
	}
	for _, a := range Aliases() {
		add(a)
	}
	for _, list := range lists {
		for _, ar := range list.APIResources {
			if isSubresource(ar) {
				continue
			}
			add(ar.Name)
			add(ar.SingularName)
			for _, s := range ar.ShortNames {
				add(s)
			}
		}
	}

	candidates := make([]string, 0, len(seen))
	for s := range seen {
		candidates = append(candidates, s)
	}
	sort.Strings(candidates)

	var out []string
	for _, m := range fuzzy.Find(token, candidates) {
		out = append(out, m.Str)
		if len(out) == maxSuggestions {
			break
		}
	}
	return out
}
