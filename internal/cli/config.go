package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/tapcraft-io/rk/internal/k8s"
	"github.com/tapcraft-io/rk/internal/show"
	"github.com/tapcraft-io/rk/pkg/types"
)

func newConfigCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect kubeconfig files",
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "current-context",
			Short: "Display the current-context",
			Args:  cobra.NoArgs,
			RunE: func(*cobra.Command, []string) error {
				name, err := k8s.GetCurrentContext(a.kubeconfigPath())
				if err != nil {
					return err
				}
				fmt.Fprintln(a.stdout, name)
				return nil
			},
		},
		&cobra.Command{
			Use:   "get-contexts",
			Short: "Describe one or many contexts",
			Args:  cobra.NoArgs,
			RunE: func(*cobra.Command, []string) error {
				contexts, err := k8s.GetContexts(a.kubeconfigPath())
				if err != nil {
					return err
				}
				items := make([]*show.Context, 0, len(contexts))
				for _, c := range contexts {
					items = append(items, &show.Context{KubeContext: show.KubeContext{
						Name:      c.Name,
						Cluster:   c.Cluster,
						AuthInfo:  c.AuthInfo,
						Namespace: c.Namespace,
						Current:   c.Current,
					}})
				}
				return a.print(show.NewList(items...), true, types.ShowParams{})
			},
		},
		&cobra.Command{
			Use:   "get-clusters",
			Short: "Display clusters defined in the kubeconfig",
			Args:  cobra.NoArgs,
			RunE: func(*cobra.Command, []string) error {
				clusters, err := k8s.GetClusters(a.kubeconfigPath())
				if err != nil {
					return err
				}
				return a.printEntries("cluster", clusters)
			},
		},
		&cobra.Command{
			Use:   "get-users",
			Short: "Display users defined in the kubeconfig",
			Args:  cobra.NoArgs,
			RunE: func(*cobra.Command, []string) error {
				users, err := k8s.GetUsers(a.kubeconfigPath())
				if err != nil {
					return err
				}
				return a.printEntries("user", users)
			},
		},
		newConfigViewCmd(a),
	)
	return cmd
}

func newConfigViewCmd(a *app) *cobra.Command {
	var raw bool
	cmd := &cobra.Command{
		Use:   "view",
		Short: "Display merged kubeconfig settings",
		Args:  cobra.NoArgs,
		RunE: func(*cobra.Command, []string) error {
			data, err := k8s.ViewKubeconfig(a.kubeconfigPath(), raw)
			if err != nil {
				return err
			}
			_, err = a.stdout.Write(data)
			return err
		},
	}
	cmd.Flags().BoolVar(&raw, "raw", false, "display raw byte data and sensitive data")
	return cmd
}

func (a *app) printEntries(kind string, values []string) error {
	items := make([]*show.Entry, 0, len(values))
	for _, v := range values {
		items = append(items, &show.Entry{Kind: kind, Column: "NAME", Value: v})
	}
	return a.print(show.NewList(items...), true, types.ShowParams{})
}
