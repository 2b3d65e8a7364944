package cli

import (
	"github.com/spf13/cobra"
	"github.com/tapcraft-io/rk/internal/k8s"
	"github.com/tapcraft-io/rk/internal/resource"
	"github.com/tapcraft-io/rk/internal/show"
	"github.com/tapcraft-io/rk/pkg/types"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
)

func newSecretCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "secret",
		Short: "Inspect secrets",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "show NAME [KEY...]",
		Short: "Print decoded secret values",
		Long: `Print decoded secret values. A single key prints its bare value, several
keys print as "key: value" lines. Helm release records are unpacked and
docker config secrets are pretty-printed.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			c, ns, err := a.namedTarget(cmd)
			if err != nil {
				return err
			}
			secret, err := c.Clientset.CoreV1().Secrets(ns).Get(ctx, args[0], metav1.GetOptions{})
			if err != nil {
				return err
			}
			contents, err := show.SecretContents(secret, args[1:])
			if err != nil {
				return err
			}
			return a.print(contents, false, types.ShowParams{})
		},
	})
	return cmd
}

func newConfigMapCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "configmap",
		Aliases: []string{"cm"},
		Short:   "Inspect config maps",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "show NAME [KEY...]",
		Short: "Print config map values",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			c, ns, err := a.namedTarget(cmd)
			if err != nil {
				return err
			}
			cm, err := c.Clientset.CoreV1().ConfigMaps(ns).Get(ctx, args[0], metav1.GetOptions{})
			if err != nil {
				return err
			}
			contents, err := show.ConfigMapContents(cm, args[1:])
			if err != nil {
				return err
			}
			return a.print(contents, false, types.ShowParams{})
		},
	})
	return cmd
}

// namedTarget returns the client and namespace for a get by name
func (a *app) namedTarget(cmd *cobra.Command) (*k8s.Client, string, error) {
	c, err := a.client(cmd.Context())
	if err != nil {
		return nil, "", err
	}
	if c.Namespace.Mode == k8s.NamespaceAll {
		return nil, "", resource.ErrNamedAcrossNamespaces
	}
	return c, c.TargetNamespace(), nil
}
