package show

import (
	"sort"

	"github.com/tapcraft-io/rk/pkg/types"
	corev1 "k8s.io/api/core/v1"
)

// NodeInfo renders a node's system info as a titled key/value table
func NodeInfo(node *corev1.Node) *Properties {
	info := node.Status.NodeInfo
	pairs := [][2]string{
		{"Architecture", info.Architecture},
		{"Boot ID", info.BootID},
		{"Container Runtime Version", info.ContainerRuntimeVersion},
		{"Kernel Version", info.KernelVersion},
		{"Kube Proxy Version", info.KubeProxyVersion},
		{"Kubelet Version", info.KubeletVersion},
		{"Machine ID", info.MachineID},
		{"OS Image", info.OSImage},
		{"Operating System", info.OperatingSystem},
		{"System UUID", info.SystemUUID},
	}
	return &Properties{
		Title:  node.Name,
		Ident:  "node/" + node.Name,
		Pairs:  pairs,
		Source: info,
	}
}

var standardResources = []corev1.ResourceName{
	corev1.ResourceCPU,
	corev1.ResourceMemory,
	corev1.ResourceEphemeralStorage,
	corev1.ResourcePods,
	"hugepages-1Gi",
	"hugepages-2Mi",
}

// NodeResources is a NODE column followed by one column per resource name
// seen on any node.
type NodeResources struct {
	Capacity  bool
	resources []corev1.ResourceName
	nodes     []*corev1.Node
}

// NewNodeResources reports allocatable quantities, or capacity when
// capacity is set.
func NewNodeResources(nodes []*corev1.Node, capacity bool) *NodeResources {
	seen := map[corev1.ResourceName]bool{}
	for _, n := range nodes {
		for name := range nodeResourceList(n, capacity) {
			seen[name] = true
		}
	}

	var ordered []corev1.ResourceName
	for _, name := range standardResources {
		if seen[name] {
			ordered = append(ordered, name)
			delete(seen, name)
		}
	}
	rest := make([]corev1.ResourceName, 0, len(seen))
	for name := range seen {
		rest = append(rest, name)
	}
	sort.Slice(rest, func(i, j int) bool { return rest[i] < rest[j] })

	return &NodeResources{
		Capacity:  capacity,
		resources: append(ordered, rest...),
		nodes:     nodes,
	}
}

func nodeResourceList(n *corev1.Node, capacity bool) corev1.ResourceList {
	if capacity {
		return n.Status.Capacity
	}
	return n.Status.Allocatable
}

func (r *NodeResources) Header(types.OutputFormat) []string {
	header := []string{"NODE"}
	for _, name := range r.resources {
		header = append(header, string(name))
	}
	return header
}

// Data returns the first node's row
func (r *NodeResources) Data(params types.ShowParams, format types.OutputFormat) []string {
	rows := r.Rows(params, format)
	if len(rows) == 0 {
		return nil
	}
	return rows[0]
}

func (r *NodeResources) Rows(types.ShowParams, types.OutputFormat) [][]string {
	rows := make([][]string, 0, len(r.nodes))
	for _, n := range r.nodes {
		list := nodeResourceList(n, r.Capacity)
		row := []string{n.Name}
		for _, name := range r.resources {
			if q, ok := list[name]; ok {
				row = append(row, q.String())
			} else {
				row = append(row, "-")
			}
		}
		rows = append(rows, row)
	}
	return rows
}

func (r *NodeResources) source() map[string]corev1.ResourceList {
	out := make(map[string]corev1.ResourceList, len(r.nodes))
	for _, n := range r.nodes {
		out[n.Name] = nodeResourceList(n, r.Capacity)
	}
	return out
}

func (r *NodeResources) JSON(types.ShowParams) (string, error) { return toJSON(r.source()) }
func (r *NodeResources) YAML(types.ShowParams) (string, error) { return toYAML(r.source()) }

func (r *NodeResources) Name() string {
	return "resources"
}
