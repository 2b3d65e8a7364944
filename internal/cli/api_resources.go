package cli

import (
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"
	"github.com/tapcraft-io/rk/internal/show"
	"github.com/tapcraft-io/rk/pkg/types"
	"k8s.io/apimachinery/pkg/runtime/schema"
)

func newAPIResourcesCmd(a *app) *cobra.Command {
	var (
		namespaced   bool
		subresources bool
	)

	cmd := &cobra.Command{
		Use:   "api-resources",
		Short: "Print the supported API resources on the server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			c, err := a.client(ctx)
			if err != nil {
				return err
			}
			lists, err := a.catalog(ctx, c).PreferredResources(ctx)
			if err != nil {
				return err
			}

			filterScope := cmd.Flags().Changed("namespaced")
			var rows []*show.APIResource
			for _, list := range lists {
				for _, r := range list.APIResources {
					if !subresources && strings.Contains(r.Name, "/") {
						continue
					}
					if filterScope && r.Namespaced != namespaced {
						continue
					}
					rows = append(rows, &show.APIResource{GroupVersion: list.GroupVersion, Resource: r})
				}
			}
			sort.SliceStable(rows, func(i, j int) bool {
				gi, gj := group(rows[i].GroupVersion), group(rows[j].GroupVersion)
				if gi != gj {
					return gi < gj
				}
				return rows[i].Resource.Name < rows[j].Resource.Name
			})
			return a.print(show.NewList(rows...), true, types.ShowParams{})
		},
	}

	cmd.Flags().BoolVar(&namespaced, "namespaced", true, "if false, only non-namespaced resources are returned, otherwise only namespaced ones")
	cmd.Flags().BoolVar(&subresources, "subresources", false, "include subresources")
	return cmd
}

func newAPIVersionsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "api-versions",
		Short: `Print the supported API versions on the server, in the form of "group/version"`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			c, err := a.client(ctx)
			if err != nil {
				return err
			}
			versions, err := a.catalog(ctx, c).APIVersions(ctx)
			if err != nil {
				return err
			}
			for _, v := range versions {
				fmt.Fprintln(a.stdout, v)
			}
			return nil
		},
	}
}

func group(groupVersion string) string {
	gv, err := schema.ParseGroupVersion(groupVersion)
	if err != nil {
		return groupVersion
	}
	return gv.Group
}
