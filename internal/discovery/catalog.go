package discovery

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"golang.org/x/sync/errgroup"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/client-go/discovery"
	"k8s.io/klog/v2"
)

// ErrNoDiscovery is returned when there is neither a cached snapshot nor a
// live discovery client to ask.
var ErrNoDiscovery = errors.New("no discovery information available")

// Catalog answers discovery questions from the cache when it has data and
// from the live server otherwise. Live answers are not written back.
type Catalog struct {
	cache *Cache
	live  discovery.DiscoveryInterface
}

// NewCatalog creates a catalog. Either argument may be nil.
func NewCatalog(cache *Cache, live discovery.DiscoveryInterface) *Catalog {
	return &Catalog{cache: cache, live: live}
}

// Groups returns the server's API groups
func (c *Catalog) Groups(ctx context.Context) (*metav1.APIGroupList, error) {
	if c == nil {
		return nil, ErrNoDiscovery
	}
	if groups, ok := c.cache.APIGroups(); ok {
		return groups, nil
	}
	if c.live == nil {
		return nil, ErrNoDiscovery
	}

	klog.FromContext(ctx).V(4).Info("Fetching API groups from server")
	groups, err := c.live.ServerGroups()
	if err != nil {
		return nil, fmt.Errorf("failed to discover API groups: %w", err)
	}
	return groups, nil
}

// Resources returns resource lists for every cached group-version, or, on a
// cache miss, for each group's preferred version fetched live.
func (c *Catalog) Resources(ctx context.Context) ([]*metav1.APIResourceList, error) {
	if c == nil {
		return nil, ErrNoDiscovery
	}
	if lists, ok := c.cache.APIResources(); ok {
		return lists, nil
	}
	return c.liveResources(ctx)
}

// PreferredResources returns one resource list per group, core group first.
// From the cache that is the preferred version when it was cached, otherwise
// the first cached version of the group.
func (c *Catalog) PreferredResources(ctx context.Context) ([]*metav1.APIResourceList, error) {
	if c == nil {
		return nil, ErrNoDiscovery
	}
	if _, ok := c.cache.APIResources(); !ok {
		return c.liveResources(ctx)
	}
	groups, _ := c.cache.APIGroups()

	out := make([]*metav1.APIResourceList, 0, len(groups.Groups))
	for _, g := range coreFirst(groups.Groups) {
		if list, ok := c.cachedVersion(g); ok {
			out = append(out, list)
		}
	}
	return out, nil
}

func (c *Catalog) cachedVersion(g metav1.APIGroup) (*metav1.APIResourceList, bool) {
	if list, ok := c.cache.resourceList(preferredVersion(g)); ok {
		return list, true
	}
	for _, v := range g.Versions {
		if list, ok := c.cache.resourceList(v.GroupVersion); ok {
			return list, true
		}
	}
	return nil, false
}

// APIVersions returns every served group/version, sorted
func (c *Catalog) APIVersions(ctx context.Context) ([]string, error) {
	groups, err := c.Groups(ctx)
	if err != nil {
		return nil, err
	}

	var versions []string
	for _, g := range groups.Groups {
		for _, v := range g.Versions {
			versions = append(versions, v.GroupVersion)
		}
	}
	sort.Strings(versions)
	return versions, nil
}

func (c *Catalog) liveResources(ctx context.Context) ([]*metav1.APIResourceList, error) {
	if c.live == nil {
		return nil, ErrNoDiscovery
	}
	logger := klog.FromContext(ctx)

	groups, err := c.live.ServerGroups()
	if err != nil {
		return nil, fmt.Errorf("failed to discover API groups: %w", err)
	}

	// each goroutine owns one slot, which keeps the server's group order
	ordered := coreFirst(groups.Groups)
	found := make([]*metav1.APIResourceList, len(ordered))

	g, gctx := errgroup.WithContext(ctx)
	for i, group := range ordered {
		gv := preferredVersion(group)
		if gv == "" {
			continue
		}
		i := i
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			logger.V(4).Info("Fetching resources from server", "groupVersion", gv)
			list, err := c.live.ServerResourcesForGroupVersion(gv)
			if err != nil {
				return fmt.Errorf("failed to discover resources for %s: %w", gv, err)
			}
			if list.GroupVersion == "" {
				list.GroupVersion = gv
			}
			found[i] = list
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	lists := make([]*metav1.APIResourceList, 0, len(found))
	for _, list := range found {
		if list != nil {
			lists = append(lists, list)
		}
	}
	return lists, nil
}

// preferredVersion falls back to the first listed version when the group
// does not name a preferred one.
func preferredVersion(g metav1.APIGroup) string {
	if g.PreferredVersion.GroupVersion != "" {
		return g.PreferredVersion.GroupVersion
	}
	if len(g.Versions) > 0 {
		return g.Versions[0].GroupVersion
	}
	return ""
}
