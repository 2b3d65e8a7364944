package k8s

import (
	"context"
	"fmt"
	"time"

	"k8s.io/client-go/discovery"
	"k8s.io/client-go/dynamic"
	"k8s.io/client-go/kubernetes"
	"k8s.io/client-go/rest"
	"k8s.io/client-go/tools/clientcmd"
	"k8s.io/klog/v2"
)

// Options are the connection settings collected from flags and config
type Options struct {
	Kubeconfig string
	Context    string
	Cluster    string
	User       string

	Namespace     string
	AllNamespaces bool

	As       string
	AsGroups []string
	AsUID    string

	RequestTimeout time.Duration
}

// Client wraps the Kubernetes clients used by one invocation
type Client struct {
	Clientset  kubernetes.Interface
	Dynamic    dynamic.Interface
	Discovery  discovery.DiscoveryInterface
	RestConfig *rest.Config

	// Namespace is the requested selection; ContextNamespace is the
	// namespace configured for the active kubeconfig context.
	Namespace        Namespace
	ContextNamespace string
}

// NewClient creates a new Kubernetes client
func NewClient(ctx context.Context, opts Options) (*Client, error) {
	logger := klog.FromContext(ctx)

	clientConfig := opts.clientConfig()

	config, err := clientConfig.ClientConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to build config: %w", err)
	}
	if opts.RequestTimeout > 0 {
		config.Timeout = opts.RequestTimeout
	}

	contextNamespace, _, err := clientConfig.Namespace()
	if err != nil {
		return nil, fmt.Errorf("failed to read context namespace: %w", err)
	}

	clientset, err := kubernetes.NewForConfig(config)
	if err != nil {
		return nil, fmt.Errorf("failed to create clientset: %w", err)
	}

	dyn, err := dynamic.NewForConfig(config)
	if err != nil {
		return nil, fmt.Errorf("failed to create dynamic client: %w", err)
	}

	ns := NamedNamespace(opts.Namespace)
	if opts.AllNamespaces {
		ns = AllNamespaces()
	}

	logger.V(4).Info("Connecting", "host", config.Host, "namespace", ns.Resolve(contextNamespace))

	return &Client{
		Clientset:        clientset,
		Dynamic:          dyn,
		Discovery:        clientset.Discovery(),
		RestConfig:       config,
		Namespace:        ns,
		ContextNamespace: contextNamespace,
	}, nil
}

func (o Options) clientConfig() clientcmd.ClientConfig {
	rules := clientcmd.NewDefaultClientConfigLoadingRules()
	if o.Kubeconfig != "" {
		rules.ExplicitPath = o.Kubeconfig
	}

	overrides := &clientcmd.ConfigOverrides{
		CurrentContext: o.Context,
	}
	overrides.Context.Cluster = o.Cluster
	overrides.Context.AuthInfo = o.User
	overrides.AuthInfo.Impersonate = o.As
	overrides.AuthInfo.ImpersonateGroups = o.AsGroups
	overrides.AuthInfo.ImpersonateUID = o.AsUID

	return clientcmd.NewNonInteractiveDeferredLoadingClientConfig(rules, overrides)
}

// TargetNamespace is the namespace namespaced requests are sent to
func (c *Client) TargetNamespace() string {
	return c.Namespace.Resolve(c.ContextNamespace)
}

// Host returns the API server URL
func (c *Client) Host() string {
	if c.RestConfig == nil {
		return ""
	}
	return c.RestConfig.Host
}

// Raw performs a GET against an absolute API path and returns the body verbatim
func (c *Client) Raw(ctx context.Context, path string) ([]byte, error) {
	klog.FromContext(ctx).V(4).Info("Raw request", "path", path)
	body, err := c.Clientset.Discovery().RESTClient().Get().AbsPath(path).DoRaw(ctx)
	if err != nil {
		return nil, fmt.Errorf("GET %s: %w", path, err)
	}
	return body, nil
}
