package k8s

import (
	"fmt"
	"sort"

	"k8s.io/client-go/tools/clientcmd"
	clientcmdapi "k8s.io/client-go/tools/clientcmd/api"
)

// ContextInfo describes one kubeconfig context
type ContextInfo struct {
	Name      string
	Cluster   string
	AuthInfo  string
	Namespace string
	Current   bool
}

// LoadKubeconfig reads the kubeconfig at path, or the default loading chain
// ($KUBECONFIG, then $HOME/.kube/config) when path is empty.
func LoadKubeconfig(path string) (*clientcmdapi.Config, error) {
	if path != "" {
		config, err := clientcmd.LoadFromFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to load kubeconfig %s: %w", path, err)
		}
		return config, nil
	}

	config, err := clientcmd.NewDefaultClientConfigLoadingRules().Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load kubeconfig: %w", err)
	}
	return config, nil
}

// GetCurrentContext returns the current kubectl context
func GetCurrentContext(kubeconfigPath string) (string, error) {
	config, err := LoadKubeconfig(kubeconfigPath)
	if err != nil {
		return "", err
	}
	if config.CurrentContext == "" {
		return "", fmt.Errorf("current-context is not set")
	}
	return config.CurrentContext, nil
}

// GetContexts returns all available contexts sorted by name
func GetContexts(kubeconfigPath string) ([]ContextInfo, error) {
	config, err := LoadKubeconfig(kubeconfigPath)
	if err != nil {
		return nil, err
	}

	contexts := make([]ContextInfo, 0, len(config.Contexts))
	for name, c := range config.Contexts {
		contexts = append(contexts, ContextInfo{
			Name:      name,
			Cluster:   c.Cluster,
			AuthInfo:  c.AuthInfo,
			Namespace: c.Namespace,
			Current:   name == config.CurrentContext,
		})
	}
	sort.Slice(contexts, func(i, j int) bool { return contexts[i].Name < contexts[j].Name })

	return contexts, nil
}

// GetClusters returns the cluster names defined in the kubeconfig
func GetClusters(kubeconfigPath string) ([]string, error) {
	config, err := LoadKubeconfig(kubeconfigPath)
	if err != nil {
		return nil, err
	}
	return sortedKeys(config.Clusters), nil
}

// GetUsers returns the user names defined in the kubeconfig
func GetUsers(kubeconfigPath string) ([]string, error) {
	config, err := LoadKubeconfig(kubeconfigPath)
	if err != nil {
		return nil, err
	}
	return sortedKeys(config.AuthInfos), nil
}

// ViewKubeconfig returns the kubeconfig as YAML. Credentials and certificate
// data are redacted unless raw is set.
func ViewKubeconfig(kubeconfigPath string, raw bool) ([]byte, error) {
	config, err := LoadKubeconfig(kubeconfigPath)
	if err != nil {
		return nil, err
	}
	if !raw {
		clientcmdapi.ShortenConfig(config)
	}
	out, err := clientcmd.Write(*config)
	if err != nil {
		return nil, fmt.Errorf("failed to serialize kubeconfig: %w", err)
	}
	return out, nil
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
