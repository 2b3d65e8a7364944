package discovery

import (
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/go-logr/logr"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/util/json"
)

const (
	groupsFile    = "servergroups.json"
	resourcesFile = "serverresources.json"
)

// Cache is a discovery snapshot read from disk. It is never written to and
// never refreshed; a missing or unreadable snapshot simply holds no data.
type Cache struct {
	groups *metav1.APIGroupList
	// resources is keyed by group-version ("v1", "apps/v1")
	resources map[string]*metav1.APIResourceList
	// order lists the cached group-versions in server order, core group first
	order []string
	took  time.Duration
}

// Load reads the snapshot stored in dir. It never fails: I/O and decode
// errors are logged at trace level and leave the corresponding entry empty.
func Load(dir string, logger logr.Logger) *Cache {
	start := time.Now()
	c := &Cache{resources: map[string]*metav1.APIResourceList{}}

	if dir == "" {
		c.took = time.Since(start)
		return c
	}

	groups := &metav1.APIGroupList{}
	if err := readJSON(filepath.Join(dir, groupsFile), groups); err != nil {
		logger.V(6).Info("No cached API groups", "dir", dir, "err", err)
		c.took = time.Since(start)
		return c
	}
	c.groups = groups

	for _, group := range coreFirst(groups.Groups) {
		for _, version := range group.Versions {
			gv := version.GroupVersion
			list := &metav1.APIResourceList{}
			path := filepath.Join(dir, filepath.FromSlash(gv), resourcesFile)
			if err := readJSON(path, list); err != nil {
				logger.V(6).Info("Skipping cached resources", "groupVersion", gv, "err", err)
				continue
			}
			if list.GroupVersion == "" {
				list.GroupVersion = gv
			}
			c.resources[gv] = list
			c.order = append(c.order, gv)
		}
	}

	c.took = time.Since(start)
	logger.V(6).Info("Loaded discovery cache", "dir", dir, "groups", len(groups.Groups), "groupVersions", len(c.resources), "took", c.took)
	return c
}

func readJSON(path string, into any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, into)
}

// APIGroups returns the cached group list. ok is false when nothing was cached.
func (c *Cache) APIGroups() (*metav1.APIGroupList, bool) {
	if c == nil || c.groups == nil || len(c.groups.Groups) == 0 {
		return nil, false
	}
	return c.groups, true
}

// APIResources returns the cached resource lists in servergroups.json order
// with the core group first. ok is false when nothing was cached.
func (c *Cache) APIResources() ([]*metav1.APIResourceList, bool) {
	if c == nil || len(c.resources) == 0 {
		return nil, false
	}
	lists := make([]*metav1.APIResourceList, 0, len(c.order))
	for _, gv := range c.order {
		lists = append(lists, c.resources[gv])
	}
	return lists, true
}

func (c *Cache) resourceList(gv string) (*metav1.APIResourceList, bool) {
	if c == nil {
		return nil, false
	}
	list, ok := c.resources[gv]
	return list, ok
}

// coreFirst returns groups in their original order except that the legacy
// core group ("") is moved to the front. Lookups take the first match, so
// pods and events resolve to v1 before any named group.
func coreFirst(groups []metav1.APIGroup) []metav1.APIGroup {
	out := make([]metav1.APIGroup, len(groups))
	copy(out, groups)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Name == "" && out[j].Name != ""
	})
	return out
}

// Took is how long Load spent reading the snapshot
func (c *Cache) Took() time.Duration {
	if c == nil {
		return 0
	}
	return c.took
}
