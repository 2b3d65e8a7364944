// Package complete produces shell completion candidates for resource
// arguments: types (aliases and discovered names) and object names.
package complete

import (
	"context"
	"sort"
	"strings"

	"github.com/sahilm/fuzzy"
	"github.com/spf13/cobra"
	"github.com/tapcraft-io/rk/internal/resource"
	"k8s.io/klog/v2"
)

type SuggestionKind string

const (
	SuggestResourceType SuggestionKind = "resource-type"
	SuggestResourceName SuggestionKind = "resource-name"
)

type Suggestion struct {
	Value       string
	Kind        SuggestionKind
	Description string
	Score       float64
}

// NameLister lists the object names of a resource type
type NameLister func(ctx context.Context, res resource.Resource) ([]string, error)

type Completer struct {
	Catalog resource.Catalog
	Names   NameLister
}

func NewCompleter(catalog resource.Catalog, names NameLister) *Completer {
	return &Completer{Catalog: catalog, Names: names}
}

// Complete suggests the next resource token given the arguments already
// typed and the partial word under the cursor.
func (c *Completer) Complete(ctx context.Context, args []string, toComplete string) []Suggestion {
	if typ, partial, ok := strings.Cut(toComplete, "/"); ok {
		return c.suggestNamedForm(ctx, typ, partial)
	}
	if len(args) == 0 {
		return c.suggestTypes(ctx, toComplete)
	}
	if strings.Contains(args[0], "/") {
		// type/name form continues with more type/name tokens
		return c.suggestTypes(ctx, toComplete)
	}
	return c.suggestNames(ctx, args[0], args[1:], toComplete)
}

// Types returns every resource type token: well-known aliases plus the
// plural, singular and short names found by discovery.
func (c *Completer) Types(ctx context.Context) []string {
	seen := map[string]struct{}{}
	for _, a := range resource.Aliases() {
		seen[a] = struct{}{}
	}
	if c.Catalog != nil {
		lists, err := c.Catalog.PreferredResources(ctx)
		if err != nil {
			klog.FromContext(ctx).V(4).Info("Completion without discovery", "err", err)
		}
		for _, list := range lists {
			for _, ar := range list.APIResources {
				if strings.Contains(ar.Name, "/") {
					continue
				}
				seen[ar.Name] = struct{}{}
				if ar.SingularName != "" {
					seen[ar.SingularName] = struct{}{}
				}
				for _, s := range ar.ShortNames {
					seen[s] = struct{}{}
				}
			}
		}
	}

	out := make([]string, 0, len(seen))
	for t := range seen {
		out = append(out, t)
	}
	sort.Strings(out)
	return out
}

func (c *Completer) suggestTypes(ctx context.Context, toComplete string) []Suggestion {
	// complete only the last entry of a comma separated list
	done, partial := "", toComplete
	if i := strings.LastIndex(toComplete, ","); i >= 0 {
		done, partial = toComplete[:i+1], toComplete[i+1:]
	}

	out := rank(c.Types(ctx), partial, 55, func(v string) Suggestion {
		return Suggestion{Value: done + v, Kind: SuggestResourceType, Description: "Resource type"}
	})
	sortSuggestions(out)
	return out
}

func (c *Completer) suggestNamedForm(ctx context.Context, typ, partial string) []Suggestion {
	res, ok := c.resolve(ctx, typ)
	if !ok {
		return nil
	}
	out := rank(c.names(ctx, res), partial, 50, func(v string) Suggestion {
		return Suggestion{Value: typ + "/" + v, Kind: SuggestResourceName, Description: res.String()}
	})
	sortSuggestions(out)
	return out
}

func (c *Completer) suggestNames(ctx context.Context, types string, given []string, partial string) []Suggestion {
	used := map[string]bool{}
	for _, g := range given {
		used[g] = true
	}

	var out []Suggestion
	for _, typ := range strings.Split(types, ",") {
		if typ == "" {
			continue
		}
		res, ok := c.resolve(ctx, typ)
		if !ok {
			continue
		}
		var names []string
		for _, n := range c.names(ctx, res) {
			if !used[n] {
				names = append(names, n)
			}
		}
		out = append(out, rank(names, partial, 50, func(v string) Suggestion {
			return Suggestion{Value: v, Kind: SuggestResourceName, Description: res.String()}
		})...)
	}
	out = dedupe(out)
	sortSuggestions(out)
	return out
}

func (c *Completer) resolve(ctx context.Context, typ string) (resource.Resource, bool) {
	args, err := resource.ParseArgs(ctx, []string{typ}, c.Catalog)
	if err != nil || len(args) != 1 {
		return resource.Resource{}, false
	}
	return args[0].Type(), true
}

func (c *Completer) names(ctx context.Context, res resource.Resource) []string {
	if c.Names == nil {
		return nil
	}
	names, err := c.Names(ctx, res)
	if err != nil {
		klog.FromContext(ctx).V(4).Info("Failed to list names for completion", "resource", res.String(), "err", err)
		return nil
	}
	return names
}

// rank keeps the values matching partial, prefix matches first, then fuzzy
// subsequence matches by fuzzy score.
func rank(values []string, partial string, base float64, build func(string) Suggestion) []Suggestion {
	if partial == "" {
		out := make([]Suggestion, 0, len(values))
		for _, v := range values {
			s := build(v)
			s.Score = base
			out = append(out, s)
		}
		return out
	}

	matches := fuzzy.Find(partial, values)
	out := make([]Suggestion, 0, len(matches))
	for _, m := range matches {
		s := build(m.Str)
		s.Score = base + scorePrefix(m.Str, partial) + float64(m.Score)/100
		out = append(out, s)
	}
	return out
}

func scorePrefix(value, prefix string) float64 {
	if prefix == "" {
		return 0
	}
	if strings.HasPrefix(value, prefix) {
		return float64(len(prefix)) + 10
	}
	if strings.Contains(value, prefix) {
		return float64(len(prefix))
	}
	return 0
}

func sortSuggestions(s []Suggestion) {
	sort.Slice(s, func(i, j int) bool {
		if s[i].Score == s[j].Score {
			return s[i].Value < s[j].Value
		}
		return s[i].Score > s[j].Score
	})
}

// dedupe drops repeated values, keeping the first
func dedupe(s []Suggestion) []Suggestion {
	seen := map[string]bool{}
	out := s[:0]
	for _, v := range s {
		if seen[v.Value] {
			continue
		}
		seen[v.Value] = true
		out = append(out, v)
	}
	return out
}

// Cobra converts suggestions to the form a cobra ValidArgsFunction returns
func Cobra(suggestions []Suggestion) ([]string, cobra.ShellCompDirective) {
	out := make([]string, 0, len(suggestions))
	for _, s := range suggestions {
		if s.Description == "" {
			out = append(out, s.Value)
			continue
		}
		out = append(out, s.Value+"\t"+s.Description)
	}
	return out, cobra.ShellCompDirectiveNoFileComp
}
