package show

import (
	"sort"
	"strings"

	"github.com/tapcraft-io/rk/pkg/types"
	authenticationv1 "k8s.io/api/authentication/v1"
	authorizationv1 "k8s.io/api/authorization/v1"
)

// AccessReview renders the answer to "auth can-i"
type AccessReview struct {
	object
	review *authorizationv1.SelfSubjectAccessReview
}

func NewAccessReview(review *authorizationv1.SelfSubjectAccessReview) *AccessReview {
	return &AccessReview{
		object: newObject(review, authorizationv1.SchemeGroupVersion.WithKind("SelfSubjectAccessReview")),
		review: review,
	}
}

func (a *AccessReview) Header(types.OutputFormat) []string {
	return []string{"ALLOWED"}
}

func (a *AccessReview) Data(params types.ShowParams, format types.OutputFormat) []string {
	return []string{a.Text(params, format)}
}

// Text is "yes" or "no", with the reason in wide output and denial details
// whenever access was refused.
func (a *AccessReview) Text(_ types.ShowParams, format types.OutputFormat) string {
	status := a.review.Status
	reason := ""
	if status.Reason != "" {
		reason = " - " + status.Reason
	}

	if status.Allowed {
		if format.IsWide() {
			return "yes" + reason
		}
		return "yes"
	}

	text := "no"
	if status.Denied {
		text += " (denied)"
	}
	text += reason
	if status.EvaluationError != "" {
		text += " - " + status.EvaluationError
	}
	return text
}

// SubjectReview renders the answer to "auth whoami"
type SubjectReview struct {
	object
	review *authenticationv1.SelfSubjectReview
}

func NewSubjectReview(review *authenticationv1.SelfSubjectReview) *SubjectReview {
	return &SubjectReview{
		object: newObject(review, authenticationv1.SchemeGroupVersion.WithKind("SelfSubjectReview")),
		review: review,
	}
}

func (s *SubjectReview) Header(types.OutputFormat) []string {
	return []string{"ATTRIBUTE", "VALUE"}
}

// Data returns the Username row
func (s *SubjectReview) Data(params types.ShowParams, format types.OutputFormat) []string {
	rows := s.Rows(params, format)
	if len(rows) == 0 {
		return nil
	}
	return rows[0]
}

func (s *SubjectReview) Rows(types.ShowParams, types.OutputFormat) [][]string {
	info := s.review.Status.UserInfo

	var rows [][]string
	if info.Username != "" {
		rows = append(rows, []string{"Username", info.Username})
	}
	if info.UID != "" {
		rows = append(rows, []string{"UID", info.UID})
	}
	if len(info.Groups) > 0 {
		rows = append(rows, []string{"Groups", bracketed(info.Groups)})
	}

	keys := make([]string, 0, len(info.Extra))
	for k := range info.Extra {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		rows = append(rows, []string{"Extra: " + k, bracketed(info.Extra[k])})
	}
	return rows
}

func (s *SubjectReview) RowLabels() []map[string]string {
	return nil
}

func bracketed(values []string) string {
	return "[" + strings.Join(values, ",") + "]"
}
