package show

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tapcraft-io/rk/pkg/types"
	authenticationv1 "k8s.io/api/authentication/v1"
	authorizationv1 "k8s.io/api/authorization/v1"
	corev1 "k8s.io/api/core/v1"
	"k8s.io/apimachinery/pkg/api/resource"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
)

func boolPtr(b bool) *bool { return &b }

func TestPodStatus(t *testing.T) {
	always := corev1.ContainerRestartPolicyAlways

	tests := []struct {
		name string
		pod  corev1.Pod
		want PodSummary
	}{
		{
			name: "running",
			pod: corev1.Pod{
				Spec: corev1.PodSpec{Containers: []corev1.Container{{Name: "app"}}},
				Status: corev1.PodStatus{
					Phase: corev1.PodRunning,
					ContainerStatuses: []corev1.ContainerStatus{
						{Name: "app", Ready: true, RestartCount: 2, State: corev1.ContainerState{Running: &corev1.ContainerStateRunning{}}},
					},
				},
			},
			want: PodSummary{Ready: 1, Total: 1, Restarts: 2, Reason: "Running"},
		},
		{
			name: "crash loop",
			pod: corev1.Pod{
				Spec: corev1.PodSpec{Containers: []corev1.Container{{Name: "app"}}},
				Status: corev1.PodStatus{
					Phase: corev1.PodRunning,
					ContainerStatuses: []corev1.ContainerStatus{
						{Name: "app", RestartCount: 7, State: corev1.ContainerState{Waiting: &corev1.ContainerStateWaiting{Reason: "CrashLoopBackOff"}}},
					},
				},
			},
			want: PodSummary{Total: 1, Restarts: 7, Reason: "CrashLoopBackOff"},
		},
		{
			name: "terminated by signal",
			pod: corev1.Pod{
				Spec: corev1.PodSpec{Containers: []corev1.Container{{Name: "app"}}},
				Status: corev1.PodStatus{
					Phase: corev1.PodFailed,
					ContainerStatuses: []corev1.ContainerStatus{
						{Name: "app", State: corev1.ContainerState{Terminated: &corev1.ContainerStateTerminated{Signal: 9, ExitCode: 137}}},
					},
				},
			},
			want: PodSummary{Total: 1, Reason: "Signal:9"},
		},
		{
			name: "evicted",
			pod: corev1.Pod{
				Spec:   corev1.PodSpec{Containers: []corev1.Container{{Name: "app"}}},
				Status: corev1.PodStatus{Phase: corev1.PodFailed, Reason: "Evicted"},
			},
			want: PodSummary{Total: 1, Reason: "Evicted"},
		},
		{
			name: "scheduling gated",
			pod: corev1.Pod{
				Spec: corev1.PodSpec{Containers: []corev1.Container{{Name: "app"}}},
				Status: corev1.PodStatus{
					Phase:      corev1.PodPending,
					Conditions: []corev1.PodCondition{{Type: corev1.PodScheduled, Reason: corev1.PodReasonSchedulingGated}},
				},
			},
			want: PodSummary{Total: 1, Reason: "SchedulingGated"},
		},
		{
			name: "init container failed",
			pod: corev1.Pod{
				Spec: corev1.PodSpec{
					InitContainers: []corev1.Container{{Name: "setup"}},
					Containers:     []corev1.Container{{Name: "app"}},
				},
				Status: corev1.PodStatus{
					Phase: corev1.PodPending,
					InitContainerStatuses: []corev1.ContainerStatus{
						{Name: "setup", RestartCount: 3, State: corev1.ContainerState{Terminated: &corev1.ContainerStateTerminated{Reason: "Error", ExitCode: 1}}},
					},
				},
			},
			want: PodSummary{Total: 1, Restarts: 3, Reason: "Init:Error"},
		},
		{
			name: "init container pending",
			pod: corev1.Pod{
				Spec: corev1.PodSpec{
					InitContainers: []corev1.Container{{Name: "a"}, {Name: "b"}},
					Containers:     []corev1.Container{{Name: "app"}},
				},
				Status: corev1.PodStatus{
					Phase: corev1.PodPending,
					InitContainerStatuses: []corev1.ContainerStatus{
						{Name: "a", State: corev1.ContainerState{Terminated: &corev1.ContainerStateTerminated{ExitCode: 0}}},
						{Name: "b", State: corev1.ContainerState{Running: &corev1.ContainerStateRunning{}}},
					},
				},
			},
			want: PodSummary{Total: 1, Reason: "Init:1/2"},
		},
		{
			name: "started sidecar does not block",
			pod: corev1.Pod{
				Spec: corev1.PodSpec{
					InitContainers: []corev1.Container{{Name: "proxy", RestartPolicy: &always}},
					Containers:     []corev1.Container{{Name: "app"}},
				},
				Status: corev1.PodStatus{
					Phase: corev1.PodRunning,
					InitContainerStatuses: []corev1.ContainerStatus{
						{Name: "proxy", Ready: true, Started: boolPtr(true), State: corev1.ContainerState{Running: &corev1.ContainerStateRunning{}}},
					},
					ContainerStatuses: []corev1.ContainerStatus{
						{Name: "app", Ready: true, State: corev1.ContainerState{Running: &corev1.ContainerStateRunning{}}},
					},
				},
			},
			want: PodSummary{Ready: 2, Total: 2, Reason: "Running"},
		},
		{
			name: "completed with running container",
			pod: corev1.Pod{
				Spec: corev1.PodSpec{Containers: []corev1.Container{{Name: "a"}, {Name: "b"}}},
				Status: corev1.PodStatus{
					Phase: corev1.PodRunning,
					ContainerStatuses: []corev1.ContainerStatus{
						{Name: "a", State: corev1.ContainerState{Terminated: &corev1.ContainerStateTerminated{Reason: "Completed"}}},
						{Name: "b", Ready: true, State: corev1.ContainerState{Running: &corev1.ContainerStateRunning{}}},
					},
				},
			},
			want: PodSummary{Ready: 1, Total: 2, Reason: "NotReady"},
		},
		{
			name: "terminating",
			pod: corev1.Pod{
				ObjectMeta: metav1.ObjectMeta{DeletionTimestamp: &metav1.Time{Time: testNow}},
				Spec:       corev1.PodSpec{Containers: []corev1.Container{{Name: "app"}}},
				Status:     corev1.PodStatus{Phase: corev1.PodRunning},
			},
			want: PodSummary{Total: 1, Reason: "Terminating"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, PodStatus(&tt.pod))
		})
	}
}

func TestPod_Row(t *testing.T) {
	withClock(t, testNow)
	pod := &corev1.Pod{
		ObjectMeta: metav1.ObjectMeta{Namespace: "web", Name: "nginx", CreationTimestamp: ago(2 * time.Hour)},
		Spec:       corev1.PodSpec{NodeName: "node-1", Containers: []corev1.Container{{Name: "nginx"}}},
		Status: corev1.PodStatus{
			Phase: corev1.PodRunning,
			PodIP: "10.0.0.7",
			ContainerStatuses: []corev1.ContainerStatus{
				{Name: "nginx", Ready: true, State: corev1.ContainerState{Running: &corev1.ContainerStateRunning{}}},
			},
		},
	}
	p := NewPod(pod)

	assert.Equal(t, []string{"web", "nginx", "1/1", "Running", "0", "120m"}, p.Data(types.ShowParams{}, types.OutputNormal))
	assert.Equal(t, []string{"web", "pod/nginx", "1/1", "Running", "0", "120m", "10.0.0.7", "node-1"}, p.Data(types.ShowParams{ShowKind: true}, types.OutputWide))
	assert.Equal(t, []string{"NAMESPACE", "NAME", "READY", "STATUS", "RESTARTS", "AGE", "IP", "NODE"}, p.Header(types.OutputWide))
}

func TestNode(t *testing.T) {
	withClock(t, testNow)
	node := &corev1.Node{
		ObjectMeta: metav1.ObjectMeta{
			Name:              "cp-1",
			CreationTimestamp: ago(30 * 24 * time.Hour),
			Labels: map[string]string{
				"node-role.kubernetes.io/control-plane": "",
				"kubernetes.io/role":                    "master",
				"kubernetes.io/hostname":                "cp-1",
			},
		},
		Spec: corev1.NodeSpec{Unschedulable: true},
		Status: corev1.NodeStatus{
			Conditions: []corev1.NodeCondition{{Type: corev1.NodeReady, Status: corev1.ConditionTrue}},
			Addresses:  []corev1.NodeAddress{{Type: corev1.NodeInternalIP, Address: "192.168.1.10"}},
			NodeInfo: corev1.NodeSystemInfo{
				KubeletVersion:          "v1.31.0",
				OSImage:                 "Ubuntu 24.04",
				KernelVersion:           "6.8.0",
				ContainerRuntimeVersion: "containerd://1.7.0",
			},
		},
	}
	n := NewNode(node)

	assert.Equal(t, []string{"cp-1", "Ready,SchedulingDisabled", "control-plane,master", "30d", "v1.31.0"}, n.Data(types.ShowParams{}, types.OutputNormal))
	wide := n.Data(types.ShowParams{}, types.OutputWide)
	assert.Equal(t, []string{"192.168.1.10", "<none>", "Ubuntu 24.04", "6.8.0", "containerd://1.7.0"}, wide[5:])

	bare := NewNode(&corev1.Node{ObjectMeta: metav1.ObjectMeta{Name: "w"}})
	row := bare.Data(types.ShowParams{}, types.OutputNormal)
	assert.Equal(t, "Unknown", row[1])
	assert.Equal(t, "<none>", row[2])
	assert.Equal(t, "<unknown>", row[3])
}

func TestComponentStatus(t *testing.T) {
	tests := []struct {
		conds []corev1.ComponentCondition
		want  []string
	}{
		{nil, []string{"etcd-0", "Unknown", "", ""}},
		{[]corev1.ComponentCondition{{Type: corev1.ComponentHealthy, Status: corev1.ConditionTrue, Message: "ok"}}, []string{"etcd-0", "Healthy", "ok", ""}},
		{[]corev1.ComponentCondition{{Type: corev1.ComponentHealthy, Status: corev1.ConditionFalse, Error: "refused"}}, []string{"etcd-0", "Unhealthy", "", "refused"}},
	}
	for _, tt := range tests {
		cs := NewComponentStatus(&corev1.ComponentStatus{ObjectMeta: metav1.ObjectMeta{Name: "etcd-0"}, Conditions: tt.conds})
		assert.Equal(t, tt.want, cs.Data(types.ShowParams{}, types.OutputNormal))
	}
}

func TestService(t *testing.T) {
	withClock(t, testNow)
	svc := &corev1.Service{
		ObjectMeta: metav1.ObjectMeta{Namespace: "web", Name: "front", CreationTimestamp: ago(time.Minute)},
		Spec: corev1.ServiceSpec{
			Type:      corev1.ServiceTypeLoadBalancer,
			ClusterIP: "10.96.0.10",
			Ports: []corev1.ServicePort{
				{Port: 80, NodePort: 30080, Protocol: corev1.ProtocolTCP},
				{Port: 53, Protocol: corev1.ProtocolUDP},
			},
			Selector: map[string]string{"app": "front"},
		},
	}

	s := NewService(svc)
	assert.Equal(t, []string{"web", "front", "LoadBalancer", "10.96.0.10", "<pending>", "80:30080/TCP,53/UDP", "60s", "app=front"},
		s.Data(types.ShowParams{}, types.OutputWide))

	svc.Status.LoadBalancer.Ingress = []corev1.LoadBalancerIngress{{IP: "1.2.3.4"}, {Hostname: "lb.example.com"}}
	assert.Equal(t, "1.2.3.4,lb.example.com", s.Data(types.ShowParams{}, types.OutputNormal)[4])

	headless := NewService(&corev1.Service{Spec: corev1.ServiceSpec{Type: corev1.ServiceTypeClusterIP}})
	row := headless.Data(types.ShowParams{}, types.OutputWide)
	assert.Equal(t, []string{"<none>", "<none>", "<none>"}, []string{row[3], row[4], row[5]})
	assert.Equal(t, "<none>", row[7])

	ext := NewService(&corev1.Service{Spec: corev1.ServiceSpec{Type: corev1.ServiceTypeExternalName, ExternalName: "db.example.com"}})
	assert.Equal(t, "db.example.com", ext.Data(types.ShowParams{}, types.OutputNormal)[4])
}

func TestAccessReview(t *testing.T) {
	review := func(status authorizationv1.SubjectAccessReviewStatus) *AccessReview {
		return NewAccessReview(&authorizationv1.SelfSubjectAccessReview{Status: status})
	}

	tests := []struct {
		name   string
		status authorizationv1.SubjectAccessReviewStatus
		format types.OutputFormat
		want   string
	}{
		{"allowed", authorizationv1.SubjectAccessReviewStatus{Allowed: true, Reason: "rbac"}, types.OutputNormal, "yes"},
		{"allowed wide", authorizationv1.SubjectAccessReviewStatus{Allowed: true, Reason: "rbac"}, types.OutputWide, "yes - rbac"},
		{"refused", authorizationv1.SubjectAccessReviewStatus{}, types.OutputNormal, "no"},
		{"denied", authorizationv1.SubjectAccessReviewStatus{Denied: true, Reason: "policy"}, types.OutputNormal, "no (denied) - policy"},
		{"evaluation error", authorizationv1.SubjectAccessReviewStatus{EvaluationError: "webhook down"}, types.OutputNormal, "no - webhook down"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := Output(review(tt.status), false, types.ShowParams{}, tt.format)
			require.NoError(t, err)
			assert.Equal(t, tt.want, out)
		})
	}

	out, err := Output(review(authorizationv1.SubjectAccessReviewStatus{Allowed: true}), false, types.ShowParams{}, types.OutputJSON)
	require.NoError(t, err)
	assert.Contains(t, out, `"kind": "SelfSubjectAccessReview"`)
	assert.Contains(t, out, `"apiVersion": "authorization.k8s.io/v1"`)
}

func TestSubjectReview(t *testing.T) {
	r := NewSubjectReview(&authenticationv1.SelfSubjectReview{
		Status: authenticationv1.SelfSubjectReviewStatus{
			UserInfo: authenticationv1.UserInfo{
				Username: "jane",
				UID:      "42",
				Groups:   []string{"dev", "system:authenticated"},
				Extra: map[string]authenticationv1.ExtraValue{
					"scopes": {"read", "write"},
					"org":    {"acme"},
				},
			},
		},
	})

	assert.Equal(t, [][]string{
		{"Username", "jane"},
		{"UID", "42"},
		{"Groups", "[dev,system:authenticated]"},
		{"Extra: org", "[acme]"},
		{"Extra: scopes", "[read,write]"},
	}, r.Rows(types.ShowParams{}, types.OutputNormal))

	out, err := Output(r, false, types.ShowParams{ShowLabels: true}, types.OutputNormal)
	require.NoError(t, err)
	assert.Equal(t, []string{"ATTRIBUTE", "VALUE"}, strings.Fields(lines(out)[0]))
	assert.Len(t, lines(out), 6)
}

func TestNodeInfo(t *testing.T) {
	node := &corev1.Node{
		ObjectMeta: metav1.ObjectMeta{Name: "n1"},
		Status: corev1.NodeStatus{NodeInfo: corev1.NodeSystemInfo{
			Architecture:    "amd64",
			OperatingSystem: "linux",
			OSImage:         "Ubuntu",
		}},
	}

	out, err := Output(NodeInfo(node), false, types.ShowParams{}, types.OutputNormal)
	require.NoError(t, err)
	got := lines(out)
	assert.Equal(t, "n1", got[0])
	assert.Equal(t, "", got[1])
	assert.Equal(t, []string{"Architecture", "amd64"}, strings.Fields(got[2]))
	assert.Equal(t, "OS Image", strings.Join(strings.Fields(got[9])[:2], " "))
	assert.Equal(t, "Operating System", strings.Join(strings.Fields(got[10])[:2], " "))

	j, err := Output(NodeInfo(node), false, types.ShowParams{}, types.OutputJSON)
	require.NoError(t, err)
	assert.Contains(t, j, `"architecture": "amd64"`)
}

func TestNodeResources(t *testing.T) {
	node := func(name string, alloc corev1.ResourceList) *corev1.Node {
		return &corev1.Node{
			ObjectMeta: metav1.ObjectMeta{Name: name},
			Status: corev1.NodeStatus{
				Allocatable: alloc,
				Capacity:    corev1.ResourceList{corev1.ResourceCPU: resource.MustParse("8")},
			},
		}
	}
	nodes := []*corev1.Node{
		node("a", corev1.ResourceList{
			"nvidia.com/gpu":      resource.MustParse("1"),
			corev1.ResourcePods:   resource.MustParse("110"),
			corev1.ResourceCPU:    resource.MustParse("3500m"),
			"example.com/dongle":  resource.MustParse("2"),
			corev1.ResourceMemory: resource.MustParse("16Gi"),
			"hugepages-2Mi":       resource.MustParse("0"),
		}),
		node("b", corev1.ResourceList{corev1.ResourceCPU: resource.MustParse("2")}),
	}

	r := NewNodeResources(nodes, false)
	assert.Equal(t, []string{"NODE", "cpu", "memory", "pods", "hugepages-2Mi", "example.com/dongle", "nvidia.com/gpu"}, r.Header(types.OutputNormal))
	assert.Equal(t, [][]string{
		{"a", "3500m", "16Gi", "110", "0", "2", "1"},
		{"b", "2", "-", "-", "-", "-", "-"},
	}, r.Rows(types.ShowParams{}, types.OutputNormal))

	capacity := NewNodeResources(nodes, true)
	assert.Equal(t, []string{"NODE", "cpu"}, capacity.Header(types.OutputNormal))
	assert.Equal(t, [][]string{{"a", "8"}, {"b", "8"}}, capacity.Rows(types.ShowParams{}, types.OutputNormal))
}
