package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/tapcraft-io/rk/internal/features"
	"github.com/tapcraft-io/rk/internal/show"
	"github.com/tapcraft-io/rk/pkg/types"
	"k8s.io/apimachinery/pkg/version"
)

func newFeaturesCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "features",
		Short: "List the feature gates reported by the API server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			c, err := a.client(ctx)
			if err != nil {
				return err
			}
			gates, err := features.Get(ctx, c)
			if err != nil {
				return err
			}
			items := make([]*show.Gate, 0, len(gates))
			for _, g := range gates {
				items = append(items, &show.Gate{FeatureGate: g})
			}
			return a.print(show.NewList(items...), false, types.ShowParams{})
		},
	}
}

func newInfoCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "info",
		Short: "Display API server version information",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			c, err := a.client(cmd.Context())
			if err != nil {
				return err
			}
			info, err := c.Discovery.ServerVersion()
			if err != nil {
				return err
			}
			return a.print(serverInfo(c.Host(), info), false, types.ShowParams{})
		},
	}
}

func serverInfo(host string, info *version.Info) *show.Properties {
	return &show.Properties{
		Title: host,
		Ident: "server/" + info.GitVersion,
		Pairs: [][2]string{
			{"Major", info.Major},
			{"Minor", info.Minor},
			{"Git Version", info.GitVersion},
			{"Git Commit", info.GitCommit},
			{"Git Tree State", info.GitTreeState},
			{"Build Date", info.BuildDate},
			{"Go Version", info.GoVersion},
			{"Compiler", info.Compiler},
			{"Platform", info.Platform},
		},
		Source: info,
	}
}

func newVersionCmd(a *app) *cobra.Command {
	var clientOnly bool
	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print the client and server version information",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			fmt.Fprintf(a.stdout, "Client Version: %s\n", Version)
			if clientOnly {
				return nil
			}
			c, err := a.client(cmd.Context())
			if err != nil {
				return err
			}
			info, err := c.Discovery.ServerVersion()
			if err != nil {
				return err
			}
			fmt.Fprintf(a.stdout, "Server Version: %s\n", info.GitVersion)
			return nil
		},
	}
	cmd.Flags().BoolVar(&clientOnly, "client", false, "print the client version only")
	return cmd
}
