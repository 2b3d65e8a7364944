package show

import (
	"fmt"
	"strconv"

	"github.com/tapcraft-io/rk/pkg/types"
	corev1 "k8s.io/api/core/v1"
)

// Pod renders a core/v1 Pod
type Pod struct {
	object
	pod *corev1.Pod
}

func NewPod(pod *corev1.Pod) *Pod {
	return &Pod{object: newObject(pod, corev1.SchemeGroupVersion.WithKind("Pod")), pod: pod}
}

func (p *Pod) Header(format types.OutputFormat) []string {
	header := []string{"NAMESPACE", "NAME", "READY", "STATUS", "RESTARTS", "AGE"}
	if format.IsWide() {
		header = append(header, "IP", "NODE")
	}
	return header
}

func (p *Pod) Data(params types.ShowParams, format types.OutputFormat) []string {
	status := PodStatus(p.pod)
	row := []string{
		p.namespace(),
		p.nameCell(params),
		fmt.Sprintf("%d/%d", status.Ready, status.Total),
		status.Reason,
		strconv.Itoa(int(status.Restarts)),
		p.age(),
	}
	if format.IsWide() {
		row = append(row, orNone(p.pod.Status.PodIP), orNone(p.pod.Spec.NodeName))
	}
	return row
}

// PodSummary is what the READY, STATUS and RESTARTS columns show
type PodSummary struct {
	Ready    int
	Total    int
	Restarts int32
	Reason   string
}

// PodStatus derives the kubectl-style status of a pod
func PodStatus(pod *corev1.Pod) PodSummary {
	s := PodSummary{
		Total:  len(pod.Spec.Containers),
		Reason: string(pod.Status.Phase),
	}
	if pod.Status.Reason != "" {
		s.Reason = pod.Status.Reason
	}

	for _, c := range pod.Status.Conditions {
		if c.Type == corev1.PodScheduled && c.Reason == corev1.PodReasonSchedulingGated {
			s.Reason = corev1.PodReasonSchedulingGated
		}
	}

	sidecars := map[string]bool{}
	for _, c := range pod.Spec.InitContainers {
		if c.RestartPolicy != nil && *c.RestartPolicy == corev1.ContainerRestartPolicyAlways {
			sidecars[c.Name] = true
			s.Total++
		}
	}

	initializing := false
	for i, cs := range pod.Status.InitContainerStatuses {
		s.Restarts += cs.RestartCount
		if sidecars[cs.Name] && cs.Started != nil && *cs.Started {
			if cs.Ready {
				s.Ready++
			}
			continue
		}
		switch {
		case cs.State.Terminated != nil && cs.State.Terminated.ExitCode == 0:
			continue
		case cs.State.Terminated != nil:
			switch {
			case cs.State.Terminated.Reason != "":
				s.Reason = "Init:" + cs.State.Terminated.Reason
			case cs.State.Terminated.Signal != 0:
				s.Reason = fmt.Sprintf("Init:Signal:%d", cs.State.Terminated.Signal)
			default:
				s.Reason = fmt.Sprintf("Init:ExitCode:%d", cs.State.Terminated.ExitCode)
			}
		case cs.State.Waiting != nil && cs.State.Waiting.Reason != "" && cs.State.Waiting.Reason != "PodInitializing":
			s.Reason = "Init:" + cs.State.Waiting.Reason
		default:
			s.Reason = fmt.Sprintf("Init:%d/%d", i, len(pod.Spec.InitContainers))
		}
		initializing = true
		break
	}

	if !initializing {
		hasRunning := false
		for i := len(pod.Status.ContainerStatuses) - 1; i >= 0; i-- {
			cs := pod.Status.ContainerStatuses[i]
			s.Restarts += cs.RestartCount
			switch {
			case cs.State.Waiting != nil && cs.State.Waiting.Reason != "":
				s.Reason = cs.State.Waiting.Reason
			case cs.State.Terminated != nil && cs.State.Terminated.Reason != "":
				s.Reason = cs.State.Terminated.Reason
			case cs.State.Terminated != nil && cs.State.Terminated.Signal != 0:
				s.Reason = fmt.Sprintf("Signal:%d", cs.State.Terminated.Signal)
			case cs.State.Terminated != nil:
				s.Reason = fmt.Sprintf("ExitCode:%d", cs.State.Terminated.ExitCode)
			case cs.Ready && cs.State.Running != nil:
				hasRunning = true
				s.Ready++
			}
		}

		if s.Reason == "Completed" && hasRunning {
			s.Reason = "NotReady"
			if podReady(pod) {
				s.Reason = string(corev1.PodRunning)
			}
		}
	}

	if pod.DeletionTimestamp != nil {
		if pod.Status.Reason == "NodeLost" {
			s.Reason = "Unknown"
		} else {
			s.Reason = "Terminating"
		}
	}
	return s
}

func podReady(pod *corev1.Pod) bool {
	for _, c := range pod.Status.Conditions {
		if c.Type == corev1.PodReady && c.Status == corev1.ConditionTrue {
			return true
		}
	}
	return false
}
