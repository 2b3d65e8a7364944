package show

import (
	"fmt"
	"slices"
	"sort"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/tapcraft-io/rk/pkg/types"
	corev1 "k8s.io/api/core/v1"
)

// ImageInfo folds the names a node reports for one image into a single
// entry: the registry host it is primarily known under, other hosts
// mirroring it, the repository path, tags and digests.
type ImageInfo struct {
	Host    string            `json:"host"`
	Also    []string          `json:"also,omitempty"`
	Path    string            `json:"path"`
	Tags    []string          `json:"tags,omitempty"`
	Digests map[string]string `json:"digests,omitempty"`
	Size    int64             `json:"sizeBytes"`
}

// NewImageInfo returns false for images reported without names
func NewImageInfo(img corev1.ContainerImage) (*ImageInfo, bool) {
	if len(img.Names) == 0 {
		return nil, false
	}

	info := &ImageInfo{Size: img.SizeBytes}
	var hosts, paths []string
	for _, name := range img.Names {
		ref := parseImageName(name)
		hosts = append(hosts, ref.host)
		paths = append(paths, ref.path)
		switch {
		case ref.algorithm != "":
			if info.Digests == nil {
				info.Digests = map[string]string{}
			}
			info.Digests[ref.algorithm] = ref.id
		case ref.id != "":
			info.Tags = append(info.Tags, ref.id)
		}
	}

	slices.Sort(paths)
	info.Path = paths[0]
	info.Host = hosts[primaryHost(hosts)]
	for _, h := range hosts {
		if h != info.Host && !slices.Contains(info.Also, h) {
			info.Also = append(info.Also, h)
		}
	}
	return info, true
}

func (i *ImageInfo) Ref() string {
	return i.Host + i.Path
}

func (i *ImageInfo) digests() string {
	algs := make([]string, 0, len(i.Digests))
	for alg := range i.Digests {
		algs = append(algs, alg)
	}
	sort.Strings(algs)
	pairs := make([]string, 0, len(algs))
	for _, alg := range algs {
		pairs = append(pairs, alg+"="+i.Digests[alg])
	}
	return strings.Join(pairs, ", ")
}

func (i *ImageInfo) size() string {
	if i.Size < 0 {
		return "-"
	}
	return humanize.IBytes(uint64(i.Size))
}

type imageRef struct {
	host      string
	path      string
	algorithm string
	id        string
}

// parseImageName splits "host/path:tag" and "host/path@alg:digest".
// Names without a "/" have no host and keep the whole name as the path.
func parseImageName(name string) imageRef {
	host, rest, ok := strings.Cut(name, "/")
	if !ok {
		return imageRef{path: name}
	}
	ref := imageRef{host: host, path: "/" + rest}
	i := strings.LastIndex(rest, ":")
	if i < 0 {
		return ref
	}
	path, id := rest[:i], rest[i+1:]
	if at := strings.LastIndex(path, "@"); at >= 0 {
		ref.path = "/" + path[:at]
		ref.algorithm = path[at+1:]
		ref.id = id
		return ref
	}
	ref.path = "/" + path
	ref.id = id
	return ref
}

// primaryHost picks the shortest host when every other host ends with it
// (docker.io vs registry-1.docker.io), otherwise the first one.
func primaryHost(hosts []string) int {
	shortest := 0
	for i, h := range hosts {
		if len(h) < len(hosts[shortest]) {
			shortest = i
		}
	}
	for _, h := range hosts {
		if !strings.HasSuffix(h, hosts[shortest]) {
			return 0
		}
	}
	return shortest
}

// NodeImages lists the images cached on one node
type NodeImages struct {
	Node   string       `json:"node"`
	Images []*ImageInfo `json:"images"`
}

func NewNodeImages(node *corev1.Node) *NodeImages {
	out := &NodeImages{Node: node.Name, Images: []*ImageInfo{}}
	for _, img := range node.Status.Images {
		if info, ok := NewImageInfo(img); ok {
			out.Images = append(out.Images, info)
		}
	}
	return out
}

func (n *NodeImages) Header(types.OutputFormat) []string {
	return []string{"IMAGE", "TAGS", "SIZE"}
}

func (n *NodeImages) Data(params types.ShowParams, format types.OutputFormat) []string {
	rows := n.Rows(params, format)
	if len(rows) == 0 {
		return nil
	}
	return rows[0]
}

func (n *NodeImages) Rows(types.ShowParams, types.OutputFormat) [][]string {
	rows := make([][]string, 0, len(n.Images))
	for _, img := range n.Images {
		tags := strings.Join(img.Tags, ",")
		if tags == "" {
			tags = "<none>"
		}
		rows = append(rows, []string{img.Ref(), tags, img.size()})
	}
	return rows
}

func (n *NodeImages) Text(types.ShowParams, types.OutputFormat) string {
	var b strings.Builder
	b.WriteString(n.Node)
	b.WriteString("\n")
	for _, img := range n.Images {
		fmt.Fprintf(&b, "\nImage: %s     (%s)\n", img.Ref(), img.size())
		if len(img.Also) > 0 {
			fmt.Fprintf(&b, " Also in: %s\n", strings.Join(img.Also, ", "))
		}
		if len(img.Tags) > 0 {
			fmt.Fprintf(&b, " Tags: %s\n", strings.Join(img.Tags, ", "))
		}
		if len(img.Digests) > 0 {
			fmt.Fprintf(&b, " Hash: %s\n", img.digests())
		}
	}
	return strings.TrimRight(b.String(), "\n")
}

func (n *NodeImages) JSON(types.ShowParams) (string, error) { return toJSON(n) }
func (n *NodeImages) YAML(types.ShowParams) (string, error) { return toYAML(n) }

func (n *NodeImages) Name() string {
	return "node/" + n.Node
}
