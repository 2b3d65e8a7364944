package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/tapcraft-io/rk/internal/complete"
	"github.com/tapcraft-io/rk/internal/k8s"
	"github.com/tapcraft-io/rk/internal/resource"
	"github.com/tapcraft-io/rk/internal/show"
	"github.com/tapcraft-io/rk/pkg/types"
	"k8s.io/klog/v2"
)

func newGetCmd(a *app) *cobra.Command {
	var (
		raw    string
		params types.ShowParams
	)

	cmd := &cobra.Command{
		Use:   "get TYPE[,TYPE...] [NAME...] | TYPE/NAME ...",
		Short: "Display one or many resources",
		Example: `  rk get pods
  rk get po,svc -n kube-system
  rk get node/worker-1 -o yaml
  rk get widgets.example.com -A`,
		ValidArgsFunction: a.completeResources,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			c, err := a.client(ctx)
			if err != nil {
				return err
			}

			if raw != "" {
				if len(args) > 0 {
					return fmt.Errorf("arguments may not be passed when --raw is specified")
				}
				body, err := c.Raw(ctx, raw)
				if err != nil {
					return err
				}
				_, err = a.stdout.Write(body)
				return err
			}

			rargs, err := resource.ParseArgs(ctx, args, a.catalog(ctx, c))
			if err != nil {
				return err
			}
			klog.FromContext(ctx).V(4).Info("Resolved arguments", "args", argStrings(rargs))

			p := params
			p.ShowKind = p.ShowKind || resource.MultipleTypes(rargs)
			return a.get(ctx, c, rargs, p)
		},
	}

	cmd.Flags().StringVar(&raw, "raw", "", "raw URI to request from the server")
	cmd.Flags().BoolVar(&params.ShowKind, "show-kind", false, "list the resource type for the requested objects")
	cmd.Flags().BoolVar(&params.ShowLabels, "show-labels", false, "show all labels as the last column")
	cmd.Flags().BoolVar(&params.ShowManagedFields, "show-managed-fields", false, "keep managedFields when printing objects in JSON or YAML")
	return cmd
}

func (a *app) get(ctx context.Context, c *k8s.Client, args []resource.Arg, params types.ShowParams) error {
	format, err := a.format()
	if err != nil {
		return err
	}

	// consecutive arguments of one type share a table
	var groups [][]show.Object
	var last resource.Resource
	var all []show.Object
	for i, arg := range args {
		objs, err := resource.Fetch(ctx, c, arg)
		if err != nil {
			return err
		}
		if i == 0 || arg.Type() != last {
			groups = append(groups, nil)
		}
		groups[len(groups)-1] = append(groups[len(groups)-1], objs...)
		all = append(all, objs...)
		last = arg.Type()
	}

	if !format.IsTable() {
		if _, named := args[0].(resource.NamedResource); named && len(args) == 1 && len(all) == 1 {
			return a.print(all[0], c.Namespace.Visible(), params)
		}
		return a.print(show.NewList(all...), c.Namespace.Visible(), params)
	}

	if len(all) == 0 {
		if ns := c.TargetNamespace(); ns != "" && args[0].Type().Namespaced() {
			fmt.Fprintf(a.stderr, "No resources found in %s namespace.\n", ns)
		} else {
			fmt.Fprintln(a.stderr, "No resources found")
		}
		return nil
	}

	first := true
	for _, g := range groups {
		if len(g) == 0 {
			continue
		}
		if !first {
			fmt.Fprintln(a.stdout)
		}
		first = false
		if err := a.print(show.NewList(g...), c.Namespace.Visible(), params); err != nil {
			return err
		}
	}
	return nil
}

func argStrings(args []resource.Arg) []string {
	out := make([]string, 0, len(args))
	for _, a := range args {
		out = append(out, a.String())
	}
	return out
}

func (a *app) completeResources(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	ctx := cmd.Context()
	c, err := a.client(ctx)
	if err != nil {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	completer := complete.NewCompleter(a.catalog(ctx, c), func(ctx context.Context, res resource.Resource) ([]string, error) {
		objs, err := resource.Fetch(ctx, c, res)
		if err != nil {
			return nil, err
		}
		names := make([]string, 0, len(objs))
		for _, o := range objs {
			_, name, _ := strings.Cut(o.Name(), "/")
			names = append(names, name)
		}
		return names, nil
	})
	return complete.Cobra(completer.Complete(ctx, args, toComplete))
}
