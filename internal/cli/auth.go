package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/tapcraft-io/rk/internal/k8s"
	"github.com/tapcraft-io/rk/internal/resource"
	"github.com/tapcraft-io/rk/internal/show"
	"github.com/tapcraft-io/rk/pkg/types"
	authenticationv1 "k8s.io/api/authentication/v1"
	authorizationv1 "k8s.io/api/authorization/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
)

func newAuthCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "auth",
		Short: "Inspect authorization",
	}
	cmd.AddCommand(newCanICmd(a), newWhoamiCmd(a))
	return cmd
}

func newCanICmd(a *app) *cobra.Command {
	var subresource string

	cmd := &cobra.Command{
		Use:   "can-i VERB TYPE[/NAME] | VERB /NONRESOURCE-URL",
		Short: "Check whether an action is allowed",
		Example: `  rk auth can-i create pods
  rk auth can-i get node/worker-1
  rk auth can-i get /logs/`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			c, err := a.client(ctx)
			if err != nil {
				return err
			}

			spec, err := a.accessReviewSpec(ctx, c, args[0], args[1], subresource)
			if err != nil {
				return err
			}
			review, err := c.Clientset.AuthorizationV1().SelfSubjectAccessReviews().Create(ctx,
				&authorizationv1.SelfSubjectAccessReview{Spec: spec}, metav1.CreateOptions{})
			if err != nil {
				return err
			}
			return a.print(show.NewAccessReview(review), false, types.ShowParams{})
		},
	}

	cmd.Flags().StringVar(&subresource, "subresource", "", "subresource such as pod/log or deployment/scale")
	return cmd
}

func (a *app) accessReviewSpec(ctx context.Context, c *k8s.Client, verb, object, subresource string) (authorizationv1.SelfSubjectAccessReviewSpec, error) {
	if strings.HasPrefix(object, "/") {
		return authorizationv1.SelfSubjectAccessReviewSpec{
			NonResourceAttributes: &authorizationv1.NonResourceAttributes{Path: object, Verb: verb},
		}, nil
	}

	args, err := resource.ParseArgs(ctx, []string{object}, a.catalog(ctx, c))
	if err != nil {
		return authorizationv1.SelfSubjectAccessReviewSpec{}, err
	}
	if len(args) != 1 {
		return authorizationv1.SelfSubjectAccessReviewSpec{}, fmt.Errorf("expected a single resource, got %d", len(args))
	}

	res := args[0].Type()
	attrs := &authorizationv1.ResourceAttributes{
		Verb:        verb,
		Group:       res.API().Group,
		Version:     res.API().Version,
		Resource:    res.API().Plural,
		Subresource: subresource,
	}
	if named, ok := args[0].(resource.NamedResource); ok {
		attrs.Name = named.Name
	}
	if res.Namespaced() {
		attrs.Namespace = c.TargetNamespace()
	}
	return authorizationv1.SelfSubjectAccessReviewSpec{ResourceAttributes: attrs}, nil
}

func newWhoamiCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the subject attributes of the current user",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			c, err := a.client(ctx)
			if err != nil {
				return err
			}
			review, err := c.Clientset.AuthenticationV1().SelfSubjectReviews().Create(ctx,
				&authenticationv1.SelfSubjectReview{}, metav1.CreateOptions{})
			if err != nil {
				return err
			}
			return a.print(show.NewSubjectReview(review), false, types.ShowParams{})
		},
	}
}
