package cli

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/tapcraft-io/rk/internal/config"
	"github.com/tapcraft-io/rk/internal/discovery"
	"github.com/tapcraft-io/rk/internal/k8s"
	"github.com/tapcraft-io/rk/internal/show"
	"github.com/tapcraft-io/rk/pkg/types"
	"k8s.io/klog/v2"
)

// Version is set at build time with -ldflags "-X ...cli.Version=..."
var Version = "dev"

type clientFactory func(ctx context.Context, opts k8s.Options) (*k8s.Client, error)

type app struct {
	cfg    *config.Config
	cfgErr error

	opts     k8s.Options
	output   types.OutputFormat
	cacheDir string

	root      *cobra.Command
	newClient clientFactory
	stdout    io.Writer
	stderr    io.Writer
}

// NewRootCommand builds the rk command tree using $HOME/.rk/config.yaml
func NewRootCommand() *cobra.Command {
	cfg, err := config.NewConfig()
	if cfg == nil {
		cfg = &config.Config{}
	}
	return newRootCommand(cfg, err, os.Stdout, os.Stderr, k8s.NewClient)
}

func newRootCommand(cfg *config.Config, cfgErr error, out, errOut io.Writer, newClient clientFactory) *cobra.Command {
	a := &app{
		cfg:       cfg,
		cfgErr:    cfgErr,
		newClient: newClient,
		stdout:    out,
		stderr:    errOut,
	}

	cmd := &cobra.Command{
		Use:           "rk",
		Short:         "Query and inspect Kubernetes clusters",
		Long:          "rk is a kubectl-compatible client for reading cluster state: resources, discovery, auth checks and kubeconfig.",
		SilenceUsage:  true,
		SilenceErrors: true,
		Version:       Version,
	}
	cmd.SetOut(out)
	cmd.SetErr(errOut)
	a.root = cmd

	flags := cmd.PersistentFlags()
	flags.StringVarP(&a.opts.Namespace, "namespace", "n", "", "namespace scope for this request")
	flags.BoolVarP(&a.opts.AllNamespaces, "all-namespaces", "A", false, "list the requested objects across all namespaces")
	flags.VarP(&a.output, "output", "o", "output format: "+strings.Join(types.OutputFormats(), "|"))
	flags.StringVar(&a.opts.Kubeconfig, "kubeconfig", "", "path to the kubeconfig file")
	flags.StringVar(&a.opts.Context, "context", "", "the kubeconfig context to use")
	flags.StringVar(&a.opts.Cluster, "cluster", "", "the kubeconfig cluster to use")
	flags.StringVar(&a.opts.User, "user", "", "the kubeconfig user to use")
	flags.StringVar(&a.opts.As, "as", "", "username to impersonate for the operation")
	flags.StringArrayVar(&a.opts.AsGroups, "as-group", nil, "group to impersonate for the operation, can be repeated")
	flags.StringVar(&a.opts.AsUID, "as-uid", "", "UID to impersonate for the operation")
	flags.StringVar(&a.cacheDir, "cache-dir", cfg.CacheDir, "default cache directory")
	flags.DurationVar(&a.opts.RequestTimeout, "request-timeout", cfg.RequestTimeout, "how long to wait for a single server request, 0 means no timeout")

	klogFlags := flag.NewFlagSet("klog", flag.ContinueOnError)
	klog.InitFlags(klogFlags)
	flags.AddGoFlagSet(klogFlags)

	cmd.AddCommand(
		newGetCmd(a),
		newAPIResourcesCmd(a),
		newAPIVersionsCmd(a),
		newAuthCmd(a),
		newConfigCmd(a),
		newCreateCmd(a),
		newFeaturesCmd(a),
		newInfoCmd(a),
		newNodeCmd(a),
		newSecretCmd(a),
		newConfigMapCmd(a),
		newVersionCmd(a),
		newCompletionCmd(cmd),
	)

	cmd.SetVersionTemplate("rk {{.Version}}\n")

	cmd.PersistentPreRunE = func(cmd *cobra.Command, _ []string) error {
		if a.cfgErr != nil {
			return fmt.Errorf("invalid %s: %w", a.cfg.ConfigFile, a.cfgErr)
		}
		klog.FromContext(cmd.Context()).V(2).Info("Running command", "command", cmd.CommandPath())
		return nil
	}

	return cmd
}

// format is the -o flag, or the configured default when the flag is unset
func (a *app) format() (types.OutputFormat, error) {
	if a.root.PersistentFlags().Changed("output") || a.cfg.DefaultOutput == "" {
		return a.output, nil
	}
	return types.ParseOutputFormat(a.cfg.DefaultOutput)
}

// kubeconfigPath is the --kubeconfig flag or the configured path. A
// KUBECONFIG list is left to the client-go loading rules.
func (a *app) kubeconfigPath() string {
	if a.opts.Kubeconfig != "" {
		return a.opts.Kubeconfig
	}
	if strings.ContainsRune(a.cfg.KubeconfigPath, os.PathListSeparator) {
		return ""
	}
	return a.cfg.KubeconfigPath
}

func (a *app) client(ctx context.Context) (*k8s.Client, error) {
	opts := a.opts
	opts.Kubeconfig = a.kubeconfigPath()
	if opts.RequestTimeout < 0 {
		return nil, fmt.Errorf("invalid request timeout %s", opts.RequestTimeout)
	}
	return a.newClient(ctx, opts)
}

// catalog loads the cluster's discovery snapshot and falls back to the
// client's live discovery.
func (a *app) catalog(ctx context.Context, c *k8s.Client) *discovery.Catalog {
	logger := klog.FromContext(ctx)
	dir := k8s.DiscoveryCacheDir(filepath.Join(a.cacheDir, "discovery"), c.Host())
	cache := discovery.Load(dir, logger)
	logger.V(6).Info("Discovery cache", "dir", dir, "took", cache.Took().Round(time.Microsecond))
	return discovery.NewCatalog(cache, c.Discovery)
}

// print renders r and writes it to stdout followed by a newline
func (a *app) print(r show.Renderable, namespaceVisible bool, params types.ShowParams) error {
	format, err := a.format()
	if err != nil {
		return err
	}
	out, err := show.Output(r, namespaceVisible, params, format)
	if err != nil {
		return err
	}
	if out == "" {
		return nil
	}
	_, err = fmt.Fprintln(a.stdout, out)
	return err
}
