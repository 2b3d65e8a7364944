package resource

import (
	"context"
	"errors"

	"github.com/tapcraft-io/rk/internal/k8s"
	"github.com/tapcraft-io/rk/internal/show"
	corev1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/apis/meta/v1/unstructured"
	"k8s.io/client-go/dynamic"
	"k8s.io/klog/v2"
)

// ErrNamedAcrossNamespaces rejects a get by name in all-namespaces mode
var ErrNamedAcrossNamespaces = errors.New("a resource cannot be retrieved by name across all namespaces")

type typedClient[T, L any] interface {
	Get(ctx context.Context, name string, opts metav1.GetOptions) (*T, error)
	List(ctx context.Context, opts metav1.ListOptions) (*L, error)
}

// Fetch retrieves what arg refers to: the named object, or every object of
// the type in the selected namespace.
func Fetch(ctx context.Context, c *k8s.Client, arg Arg) ([]show.Object, error) {
	res := arg.Type()
	name := ""
	if n, ok := arg.(NamedResource); ok {
		name = n.Name
	}

	ns := ""
	if res.Namespaced() {
		if name != "" && c.Namespace.Mode == k8s.NamespaceAll {
			return nil, ErrNamedAcrossNamespaces
		}
		ns = c.TargetNamespace()
	}
	klog.FromContext(ctx).V(4).Info("Fetching", "resource", res.GroupVersionResource().String(), "namespace", ns, "name", name)

	core := c.Clientset.CoreV1()
	switch res.Kind() {
	case Pods:
		return fetchTyped[corev1.Pod, corev1.PodList](ctx, core.Pods(ns), name,
			func(l *corev1.PodList) []corev1.Pod { return l.Items },
			func(o *corev1.Pod) show.Object { return show.NewPod(o) })
	case Namespaces:
		return fetchTyped[corev1.Namespace, corev1.NamespaceList](ctx, core.Namespaces(), name,
			func(l *corev1.NamespaceList) []corev1.Namespace { return l.Items },
			func(o *corev1.Namespace) show.Object { return show.NewNamespace(o) })
	case Nodes:
		return fetchTyped[corev1.Node, corev1.NodeList](ctx, core.Nodes(), name,
			func(l *corev1.NodeList) []corev1.Node { return l.Items },
			func(o *corev1.Node) show.Object { return show.NewNode(o) })
	case ConfigMaps:
		return fetchTyped[corev1.ConfigMap, corev1.ConfigMapList](ctx, core.ConfigMaps(ns), name,
			func(l *corev1.ConfigMapList) []corev1.ConfigMap { return l.Items },
			func(o *corev1.ConfigMap) show.Object { return show.NewConfigMap(o) })
	case ComponentStatuses:
		return fetchTyped[corev1.ComponentStatus, corev1.ComponentStatusList](ctx, core.ComponentStatuses(), name,
			func(l *corev1.ComponentStatusList) []corev1.ComponentStatus { return l.Items },
			func(o *corev1.ComponentStatus) show.Object { return show.NewComponentStatus(o) })
	case Services:
		return fetchTyped[corev1.Service, corev1.ServiceList](ctx, core.Services(ns), name,
			func(l *corev1.ServiceList) []corev1.Service { return l.Items },
			func(o *corev1.Service) show.Object { return show.NewService(o) })
	default:
		return fetchDynamic(ctx, c.Dynamic, res, ns, name)
	}
}

func fetchTyped[T, L any](
	ctx context.Context,
	client typedClient[T, L],
	name string,
	items func(*L) []T,
	wrap func(*T) show.Object,
) ([]show.Object, error) {
	if name != "" {
		obj, err := client.Get(ctx, name, metav1.GetOptions{})
		if err != nil {
			return nil, err
		}
		return []show.Object{wrap(obj)}, nil
	}

	list, err := client.List(ctx, metav1.ListOptions{})
	if err != nil {
		return nil, err
	}
	all := items(list)
	objs := make([]show.Object, 0, len(all))
	for i := range all {
		objs = append(objs, wrap(&all[i]))
	}
	return objs, nil
}

func fetchDynamic(ctx context.Context, client dynamic.Interface, res Resource, ns, name string) ([]show.Object, error) {
	var ri dynamic.ResourceInterface = client.Resource(res.GroupVersionResource())
	if res.Namespaced() {
		ri = client.Resource(res.GroupVersionResource()).Namespace(ns)
	}

	if name != "" {
		obj, err := ri.Get(ctx, name, metav1.GetOptions{})
		if err != nil {
			return nil, err
		}
		return []show.Object{wrapUnstructured(obj, res)}, nil
	}

	list, err := ri.List(ctx, metav1.ListOptions{})
	if err != nil {
		return nil, err
	}
	objs := make([]show.Object, 0, len(list.Items))
	for i := range list.Items {
		objs = append(objs, wrapUnstructured(&list.Items[i], res))
	}
	return objs, nil
}

func wrapUnstructured(u *unstructured.Unstructured, res Resource) show.Object {
	if u.GroupVersionKind().Empty() {
		u.SetGroupVersionKind(res.GroupVersionKind())
	}
	return show.NewUnstructured(u)
}
