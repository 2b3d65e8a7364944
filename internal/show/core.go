package show

import (
	"strconv"

	"github.com/tapcraft-io/rk/pkg/types"
	corev1 "k8s.io/api/core/v1"
)

// Namespace renders a core/v1 Namespace
type Namespace struct {
	object
	ns *corev1.Namespace
}

func NewNamespace(ns *corev1.Namespace) *Namespace {
	return &Namespace{object: newObject(ns, corev1.SchemeGroupVersion.WithKind("Namespace")), ns: ns}
}

func (n *Namespace) Header(types.OutputFormat) []string {
	return []string{"NAME", "STATUS", "AGE"}
}

func (n *Namespace) Data(params types.ShowParams, _ types.OutputFormat) []string {
	return []string{n.nameCell(params), string(n.ns.Status.Phase), n.age()}
}

// ConfigMap renders a core/v1 ConfigMap
type ConfigMap struct {
	object
	cm *corev1.ConfigMap
}

func NewConfigMap(cm *corev1.ConfigMap) *ConfigMap {
	return &ConfigMap{object: newObject(cm, corev1.SchemeGroupVersion.WithKind("ConfigMap")), cm: cm}
}

func (c *ConfigMap) Header(types.OutputFormat) []string {
	return []string{"NAMESPACE", "NAME", "DATA", "AGE"}
}

func (c *ConfigMap) Data(params types.ShowParams, _ types.OutputFormat) []string {
	count := len(c.cm.Data) + len(c.cm.BinaryData)
	return []string{c.namespace(), c.nameCell(params), strconv.Itoa(count), c.age()}
}

// ComponentStatus renders a core/v1 ComponentStatus
type ComponentStatus struct {
	object
	cs *corev1.ComponentStatus
}

func NewComponentStatus(cs *corev1.ComponentStatus) *ComponentStatus {
	return &ComponentStatus{object: newObject(cs, corev1.SchemeGroupVersion.WithKind("ComponentStatus")), cs: cs}
}

func (c *ComponentStatus) Header(types.OutputFormat) []string {
	return []string{"NAME", "STATUS", "MESSAGE", "ERROR"}
}

func (c *ComponentStatus) Data(params types.ShowParams, _ types.OutputFormat) []string {
	status, message, errMsg := "Unknown", "", ""
	for _, cond := range c.cs.Conditions {
		if cond.Type != corev1.ComponentHealthy {
			continue
		}
		status = "Unhealthy"
		if cond.Status == corev1.ConditionTrue {
			status = "Healthy"
		}
		message, errMsg = cond.Message, cond.Error
		break
	}
	return []string{c.nameCell(params), status, message, errMsg}
}
