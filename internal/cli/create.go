package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/tapcraft-io/rk/internal/show"
	"github.com/tapcraft-io/rk/pkg/types"
	corev1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
)

func newCreateCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a resource",
	}
	cmd.AddCommand(newCreateNamespaceCmd(a))
	return cmd
}

func newCreateNamespaceCmd(a *app) *cobra.Command {
	var dryRun string

	cmd := &cobra.Command{
		Use:     "namespace NAME",
		Aliases: []string{"ns"},
		Short:   "Create a namespace with the specified name",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			ns := &corev1.Namespace{ObjectMeta: metav1.ObjectMeta{Name: args[0]}}
			opts := metav1.CreateOptions{}
			switch dryRun {
			case "none":
				dryRun = ""
			case "server":
				opts.DryRun = []string{metav1.DryRunAll}
			case "client":
			default:
				return fmt.Errorf(`invalid dry-run value (%s). Must be "none", "server", or "client"`, dryRun)
			}

			if dryRun != "client" {
				c, err := a.client(ctx)
				if err != nil {
					return err
				}
				created, err := c.Clientset.CoreV1().Namespaces().Create(ctx, ns, opts)
				if err != nil {
					return err
				}
				ns = created
			}
			return a.print(show.NewCreated(show.NewNamespace(ns), dryRun), false, types.ShowParams{})
		},
	}

	cmd.Flags().StringVar(&dryRun, "dry-run", "none", `must be "none", "server", or "client"`)
	return cmd
}
