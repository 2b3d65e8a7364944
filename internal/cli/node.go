package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/tapcraft-io/rk/internal/k8s"
	"github.com/tapcraft-io/rk/internal/show"
	"github.com/tapcraft-io/rk/pkg/types"
	corev1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
)

func newNodeCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "node",
		Aliases: []string{"nodes", "no"},
		Short:   "Inspect cluster nodes",
	}
	cmd.AddCommand(newNodeInfoCmd(a), newNodeListImagesCmd(a), newNodeResourcesCmd(a))
	return cmd
}

func newNodeInfoCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "info [NAME...]",
		Short: "Show system information of nodes",
		RunE: func(cmd *cobra.Command, args []string) error {
			nodes, err := a.nodes(cmd.Context(), args)
			if err != nil {
				return err
			}
			for i, n := range nodes {
				if i > 0 {
					fmt.Fprintln(a.stdout)
				}
				if err := a.print(show.NodeInfo(n), false, types.ShowParams{}); err != nil {
					return err
				}
			}
			return nil
		},
	}
}

func newNodeListImagesCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:     "list-images [NAME...]",
		Aliases: []string{"images"},
		Short:   "List the container images cached on nodes",
		RunE: func(cmd *cobra.Command, args []string) error {
			nodes, err := a.nodes(cmd.Context(), args)
			if err != nil {
				return err
			}
			for i, n := range nodes {
				if i > 0 {
					fmt.Fprintln(a.stdout)
				}
				if err := a.print(show.NewNodeImages(n), false, types.ShowParams{}); err != nil {
					return err
				}
			}
			return nil
		},
	}
}

func newNodeResourcesCmd(a *app) *cobra.Command {
	var capacity bool
	cmd := &cobra.Command{
		Use:   "resources [NAME...]",
		Short: "Show allocatable or capacity resources of nodes",
		RunE: func(cmd *cobra.Command, args []string) error {
			nodes, err := a.nodes(cmd.Context(), args)
			if err != nil {
				return err
			}
			return a.print(show.NewNodeResources(nodes, capacity), false, types.ShowParams{})
		},
	}
	cmd.Flags().BoolVar(&capacity, "capacity", false, "show total capacity instead of allocatable")
	return cmd
}

// nodes fetches the named nodes, or every node when names is empty
func (a *app) nodes(ctx context.Context, names []string) ([]*corev1.Node, error) {
	c, err := a.client(ctx)
	if err != nil {
		return nil, err
	}
	return listNodes(ctx, c, names)
}

func listNodes(ctx context.Context, c *k8s.Client, names []string) ([]*corev1.Node, error) {
	api := c.Clientset.CoreV1().Nodes()
	if len(names) == 0 {
		list, err := api.List(ctx, metav1.ListOptions{})
		if err != nil {
			return nil, err
		}
		nodes := make([]*corev1.Node, 0, len(list.Items))
		for i := range list.Items {
			nodes = append(nodes, &list.Items[i])
		}
		return nodes, nil
	}

	nodes := make([]*corev1.Node, 0, len(names))
	for _, name := range names {
		n, err := api.Get(ctx, name, metav1.GetOptions{})
		if err != nil {
			return nil, err
		}
		nodes = append(nodes, n)
	}
	return nodes, nil
}
