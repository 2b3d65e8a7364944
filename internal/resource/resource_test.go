package resource

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/go-logr/logr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tapcraft-io/rk/internal/discovery"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/runtime/schema"
)

func widgetLists() []*metav1.APIResourceList {
	return []*metav1.APIResourceList{
		{
			GroupVersion: "v1",
			APIResources: []metav1.APIResource{
				{Name: "pods", SingularName: "pod", Namespaced: true, Kind: "Pod", ShortNames: []string{"po"}},
				{Name: "pods/log", Namespaced: true, Kind: "Pod"},
				{Name: "secrets", SingularName: "secret", Namespaced: true, Kind: "Secret"},
			},
		},
		{
			GroupVersion: "example.com/v1",
			APIResources: []metav1.APIResource{
				{Name: "widgets", SingularName: "widget", Namespaced: true, Kind: "Widget", ShortNames: []string{"wg"}},
				{Name: "widgets/status", Namespaced: true, Kind: "Widget"},
				{Name: "gizmos", Namespaced: false, Kind: "Gizmo"},
			},
		},
	}
}

// writeCache lays out a discovery snapshot the way kubectl stores it
func writeCache(t *testing.T, lists []*metav1.APIResourceList) string {
	t.Helper()
	dir := t.TempDir()
	write := func(path string, v any) {
		data, err := json.Marshal(v)
		require.NoError(t, err)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, data, 0o644))
	}

	groups := &metav1.APIGroupList{}
	for _, l := range lists {
		gv, err := schema.ParseGroupVersion(l.GroupVersion)
		require.NoError(t, err)
		v := metav1.GroupVersionForDiscovery{GroupVersion: l.GroupVersion, Version: gv.Version}
		groups.Groups = append(groups.Groups, metav1.APIGroup{
			Name:             gv.Group,
			Versions:         []metav1.GroupVersionForDiscovery{v},
			PreferredVersion: v,
		})
		write(filepath.Join(dir, l.GroupVersion, "serverresources.json"), l)
	}
	write(filepath.Join(dir, "servergroups.json"), groups)
	return dir
}

func widgetCatalog(t *testing.T) *discovery.Catalog {
	t.Helper()
	return discovery.NewCatalog(discovery.Load(writeCache(t, widgetLists()), logr.Discard()), nil)
}

type failingCatalog struct{ err error }

func (f failingCatalog) PreferredResources(context.Context) ([]*metav1.APIResourceList, error) {
	return nil, f.err
}

func TestResolveAliases(t *testing.T) {
	ctx := context.Background()
	for alias, kind := range aliases {
		args, err := ParseArgs(ctx, []string{alias}, nil)
		require.NoError(t, err, alias)
		require.Len(t, args, 1)
		assert.Equal(t, WellKnown(kind), args[0].Type(), alias)
	}

	_, err := ParseArgs(ctx, []string{"Pods"}, nil)
	assert.ErrorIs(t, err, ErrInvalidResourceSpec, "aliases are case sensitive")
}

func TestResolveAliasWinsOverDiscovery(t *testing.T) {
	args, err := ParseArgs(context.Background(), []string{"po"}, widgetCatalog(t))
	require.NoError(t, err)
	assert.Equal(t, Pods, args[0].Type().Kind())
}

func TestResolveFromCache(t *testing.T) {
	ctx := context.Background()
	catalog := widgetCatalog(t)

	for _, token := range []string{"wg", "widget", "widgets", "widgets.example.com", "wg.example.com"} {
		args, err := ParseArgs(ctx, []string{token}, catalog)
		require.NoError(t, err, token)
		require.Len(t, args, 1)

		res := args[0].Type()
		assert.Equal(t, Dynamic, res.Kind(), token)
		assert.Equal(t, schema.GroupVersionResource{Group: "example.com", Version: "v1", Resource: "widgets"}, res.GroupVersionResource())
		assert.Equal(t, "Widget", res.GroupVersionKind().Kind)
		assert.True(t, res.Namespaced())
		assert.Equal(t, "widget", res.String())
	}

	args, err := ParseArgs(ctx, []string{"gizmo"}, catalog)
	require.NoError(t, err, "lower-cased kind matches when singular is empty")
	assert.False(t, args[0].Type().Namespaced())
	assert.Equal(t, "example.com/v1", args[0].Type().API().GroupVersion())
}

func TestResolvePrefersCoreGroup(t *testing.T) {
	event := func(gv string, short ...string) *metav1.APIResourceList {
		return &metav1.APIResourceList{
			GroupVersion: gv,
			APIResources: []metav1.APIResource{
				{Name: "events", SingularName: "event", Namespaced: true, Kind: "Event", ShortNames: short},
			},
		}
	}

	// servergroups.json listing events.k8s.io ahead of the core group
	dir := writeCache(t, []*metav1.APIResourceList{event("events.k8s.io/v1"), event("v1", "ev")})
	catalog := discovery.NewCatalog(discovery.Load(dir, logr.Discard()), nil)

	for _, token := range []string{"events", "event", "ev"} {
		args, err := ParseArgs(context.Background(), []string{token}, catalog)
		require.NoError(t, err, token)
		assert.Equal(t, schema.GroupVersionResource{Version: "v1", Resource: "events"}, args[0].Type().GroupVersionResource(), token)
	}

	args, err := ParseArgs(context.Background(), []string{"events.events.k8s.io"}, catalog)
	require.NoError(t, err)
	assert.Equal(t, "events.k8s.io", args[0].Type().GroupVersionResource().Group)
}

func TestResolveSkipsSubresources(t *testing.T) {
	_, err := ParseArgs(context.Background(), []string{"widgets/status"}, widgetCatalog(t))
	require.NoError(t, err, "parsed as type/name")

	_, err = ParseArgs(context.Background(), []string{"status"}, widgetCatalog(t))
	assert.ErrorIs(t, err, ErrInvalidResourceSpec)
}

func TestResolveUnknownSuggests(t *testing.T) {
	_, err := ParseArgs(context.Background(), []string{"wdgt"}, widgetCatalog(t))

	var spec *InvalidResourceSpecError
	require.ErrorAs(t, err, &spec)
	assert.Equal(t, UnknownType, spec.Reason)
	assert.Equal(t, "wdgt", spec.Token)
	assert.Contains(t, spec.Suggestions, "widget")
	assert.LessOrEqual(t, len(spec.Suggestions), maxSuggestions)
	assert.Contains(t, err.Error(), `the server doesn't have a resource type "wdgt"`)
	assert.Contains(t, err.Error(), "did you mean")
}

func TestResolveWithoutDiscovery(t *testing.T) {
	ctx := context.Background()

	empty := discovery.NewCatalog(discovery.Load(t.TempDir(), logr.Discard()), nil)
	_, err := ParseArgs(ctx, []string{"widgets"}, empty)
	var spec *InvalidResourceSpecError
	require.ErrorAs(t, err, &spec)
	assert.Equal(t, UnknownType, spec.Reason)

	args, err := ParseArgs(ctx, []string{"svc"}, empty)
	require.NoError(t, err)
	assert.Equal(t, Services, args[0].Type().Kind())
}

func TestResolveCatalogError(t *testing.T) {
	boom := errors.New("connection refused")
	_, err := ParseArgs(context.Background(), []string{"widgets"}, failingCatalog{err: boom})
	assert.ErrorIs(t, err, boom)
	assert.NotErrorIs(t, err, ErrInvalidResourceSpec)

	// well-known types never consult the catalog
	_, err = ParseArgs(context.Background(), []string{"pods"}, failingCatalog{err: boom})
	assert.NoError(t, err)
}

func TestParseArgsCrossProduct(t *testing.T) {
	args, err := ParseArgs(context.Background(), []string{"po,svc", "a", "b"}, nil)
	require.NoError(t, err)

	var got []string
	for _, a := range args {
		got = append(got, a.String())
	}
	assert.Equal(t, []string{"pod/a", "pod/b", "service/a", "service/b"}, got)
	assert.True(t, MultipleTypes(args))
}

func TestParseArgsTypesOnly(t *testing.T) {
	args, err := ParseArgs(context.Background(), []string{"pods,,ns,"}, nil)
	require.NoError(t, err)
	require.Len(t, args, 2)
	assert.Equal(t, WellKnown(Pods), args[0])
	assert.Equal(t, WellKnown(Namespaces), args[1])

	_, ok := args[0].(NamedResource)
	assert.False(t, ok)
}

func TestParseArgsSlashForm(t *testing.T) {
	args, err := ParseArgs(context.Background(), []string{"po/a", "ns/kube-system", "cm/x/y"}, nil)
	require.NoError(t, err)
	require.Len(t, args, 3)
	assert.Equal(t, NamedResource{Resource: WellKnown(Pods), Name: "a"}, args[0])
	assert.Equal(t, "namespace/kube-system", args[1].String())
	assert.Equal(t, "x/y", args[2].(NamedResource).Name, "split once")
	assert.True(t, MultipleTypes(args))
}

func TestParseArgsErrors(t *testing.T) {
	tests := []struct {
		name   string
		tokens []string
		reason Reason
	}{
		{"no tokens", nil, Empty},
		{"only commas", []string{",,"}, Empty},
		{"mixed forms", []string{"pods", "svc/a"}, MixedForms},
		{"empty name after slash", []string{"pods/"}, EmptyName},
		{"empty type before slash", []string{"/a"}, EmptyName},
		{"empty name argument", []string{"pods", ""}, EmptyName},
		{"unknown", []string{"nope"}, UnknownType},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseArgs(context.Background(), tt.tokens, nil)
			var spec *InvalidResourceSpecError
			require.ErrorAs(t, err, &spec)
			assert.Equal(t, tt.reason, spec.Reason)
			assert.ErrorIs(t, err, ErrInvalidResourceSpec)
		})
	}
}

func TestMultipleTypes(t *testing.T) {
	assert.False(t, MultipleTypes(nil))
	assert.False(t, MultipleTypes([]Arg{
		NamedResource{Resource: WellKnown(Pods), Name: "a"},
		NamedResource{Resource: WellKnown(Pods), Name: "b"},
	}))
}

func TestFromAPIResource(t *testing.T) {
	res, err := FromAPIResource("apps/v1", metav1.APIResource{Name: "deployments", Kind: "Deployment", Namespaced: true})
	require.NoError(t, err)
	assert.Equal(t, APIResource{Group: "apps", Version: "v1", Kind: "Deployment", Plural: "deployments", Namespaced: true}, res.API())

	_, err = FromAPIResource("a/b/c", metav1.APIResource{Name: "x"})
	assert.Error(t, err)
}

func TestWellKnownPanicsOnDynamic(t *testing.T) {
	assert.Panics(t, func() { WellKnown(Dynamic) })
}
