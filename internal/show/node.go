package show

import (
	"sort"
	"strings"

	"github.com/tapcraft-io/rk/pkg/types"
	corev1 "k8s.io/api/core/v1"
)

const (
	nodeRolePrefix = "node-role.kubernetes.io/"
	nodeRoleLabel  = "kubernetes.io/role"
)

// Node renders a core/v1 Node
type Node struct {
	object
	node *corev1.Node
}

func NewNode(node *corev1.Node) *Node {
	return &Node{object: newObject(node, corev1.SchemeGroupVersion.WithKind("Node")), node: node}
}

func (n *Node) Header(format types.OutputFormat) []string {
	header := []string{"NAME", "STATUS", "ROLES", "AGE", "VERSION"}
	if format.IsWide() {
		header = append(header, "INTERNAL-IP", "EXTERNAL-IP", "OS-IMAGE", "KERNEL-VERSION", "CONTAINER-RUNTIME")
	}
	return header
}

func (n *Node) Data(params types.ShowParams, format types.OutputFormat) []string {
	info := n.node.Status.NodeInfo
	row := []string{
		n.nameCell(params),
		NodeStatus(n.node),
		strings.Join(NodeRoles(n.node), ","),
		n.age(),
		info.KubeletVersion,
	}
	if len(row[2]) == 0 {
		row[2] = none
	}
	if format.IsWide() {
		row = append(row,
			nodeAddress(n.node, corev1.NodeInternalIP),
			nodeAddress(n.node, corev1.NodeExternalIP),
			orNone(info.OSImage),
			orNone(info.KernelVersion),
			orNone(info.ContainerRuntimeVersion),
		)
	}
	return row
}

// NodeStatus is the Ready condition rendered the way kubectl does
func NodeStatus(node *corev1.Node) string {
	status := "Unknown"
	for _, c := range node.Status.Conditions {
		if c.Type != corev1.NodeReady {
			continue
		}
		switch c.Status {
		case corev1.ConditionTrue:
			status = "Ready"
		case corev1.ConditionFalse:
			status = "NotReady"
		}
		break
	}
	if node.Spec.Unschedulable {
		status += ",SchedulingDisabled"
	}
	return status
}

// NodeRoles collects roles from node-role.kubernetes.io/<role> and
// kubernetes.io/role labels, sorted.
func NodeRoles(node *corev1.Node) []string {
	roles := map[string]struct{}{}
	for k, v := range node.Labels {
		switch {
		case strings.HasPrefix(k, nodeRolePrefix):
			if role := strings.TrimPrefix(k, nodeRolePrefix); role != "" {
				roles[role] = struct{}{}
			}
		case k == nodeRoleLabel && v != "":
			roles[v] = struct{}{}
		}
	}
	out := make([]string, 0, len(roles))
	for r := range roles {
		out = append(out, r)
	}
	sort.Strings(out)
	return out
}

func nodeAddress(node *corev1.Node, t corev1.NodeAddressType) string {
	for _, a := range node.Status.Addresses {
		if a.Type == t {
			return a.Address
		}
	}
	return none
}
