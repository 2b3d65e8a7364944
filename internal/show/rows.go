package show

import (
	"strconv"
	"strings"

	"github.com/tapcraft-io/rk/pkg/types"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/runtime/schema"
)

// Properties is a headerless two column key/value table, optionally
// preceded by a title line. Source is what json and yaml serialize.
type Properties struct {
	Title  string
	Ident  string
	Pairs  [][2]string
	Source any
}

func (p *Properties) Header(types.OutputFormat) []string {
	return nil
}

func (p *Properties) Data(params types.ShowParams, format types.OutputFormat) []string {
	if len(p.Pairs) == 0 {
		return nil
	}
	return p.Pairs[0][:]
}

func (p *Properties) Rows(types.ShowParams, types.OutputFormat) [][]string {
	rows := make([][]string, 0, len(p.Pairs))
	for _, kv := range p.Pairs {
		rows = append(rows, []string{kv[0], kv[1]})
	}
	return rows
}

func (p *Properties) Text(params types.ShowParams, format types.OutputFormat) string {
	body := renderTable(nil, p.Rows(params, format))
	if p.Title == "" {
		return body
	}
	return p.Title + "\n\n" + body
}

func (p *Properties) JSON(types.ShowParams) (string, error) {
	return toJSON(p.Source)
}

func (p *Properties) YAML(types.ShowParams) (string, error) {
	return toYAML(p.Source)
}

func (p *Properties) Name() string {
	return p.Ident
}

// Entry is a single named value printed under one column, such as a
// cluster or user name from the kubeconfig.
type Entry struct {
	Kind   string `json:"kind"`
	Column string `json:"-"`
	Value  string `json:"name"`
}

func (e *Entry) Header(types.OutputFormat) []string {
	return []string{e.Column}
}

func (e *Entry) Data(types.ShowParams, types.OutputFormat) []string {
	return []string{e.Value}
}

func (e *Entry) JSON(types.ShowParams) (string, error) { return toJSON(e) }
func (e *Entry) YAML(types.ShowParams) (string, error) { return toYAML(e) }

func (e *Entry) Name() string {
	return e.Kind + "/" + e.Value
}

// FeatureGate is one feature gate reported by the API server
type FeatureGate struct {
	Name    string `json:"name"`
	Stage   string `json:"stage"`
	Enabled bool   `json:"enabled"`
}

// Gate wraps a FeatureGate for output
type Gate struct {
	FeatureGate
}

func (g *Gate) Header(types.OutputFormat) []string {
	return []string{"NAME", "STAGE", "ENABLED"}
}

func (g *Gate) Data(types.ShowParams, types.OutputFormat) []string {
	return []string{g.FeatureGate.Name, orNone(g.Stage), strconv.FormatBool(g.Enabled)}
}

func (g *Gate) JSON(types.ShowParams) (string, error) { return toJSON(g.FeatureGate) }
func (g *Gate) YAML(types.ShowParams) (string, error) { return toYAML(g.FeatureGate) }

func (g *Gate) Name() string {
	return "feature/" + g.FeatureGate.Name
}

// APIResource is one row of "api-resources"
type APIResource struct {
	GroupVersion string
	Resource     metav1.APIResource
}

func (a *APIResource) Header(format types.OutputFormat) []string {
	header := []string{"NAME", "SHORTNAMES", "APIVERSION", "NAMESPACED", "KIND"}
	if format.IsWide() {
		header = append(header, "VERBS", "CATEGORIES")
	}
	return header
}

func (a *APIResource) Data(_ types.ShowParams, format types.OutputFormat) []string {
	r := a.Resource
	row := []string{
		r.Name,
		strings.Join(r.ShortNames, ","),
		a.GroupVersion,
		strconv.FormatBool(r.Namespaced),
		r.Kind,
	}
	if format.IsWide() {
		row = append(row, "["+strings.Join(r.Verbs, " ")+"]", strings.Join(r.Categories, ","))
	}
	return row
}

func (a *APIResource) withGroupVersion() metav1.APIResource {
	r := a.Resource
	if gv, err := schema.ParseGroupVersion(a.GroupVersion); err == nil {
		if r.Group == "" {
			r.Group = gv.Group
		}
		if r.Version == "" {
			r.Version = gv.Version
		}
	}
	return r
}

func (a *APIResource) JSON(types.ShowParams) (string, error) { return toJSON(a.withGroupVersion()) }
func (a *APIResource) YAML(types.ShowParams) (string, error) { return toYAML(a.withGroupVersion()) }

// Name is the plural qualified by group, as "api-resources -o name" prints it
func (a *APIResource) Name() string {
	r := a.withGroupVersion()
	if r.Group == "" {
		return r.Name
	}
	return r.Name + "." + r.Group
}

// KubeContext describes a kubeconfig context
type KubeContext struct {
	Name      string `json:"name"`
	Cluster   string `json:"cluster"`
	AuthInfo  string `json:"user"`
	Namespace string `json:"namespace,omitempty"`
	Current   bool   `json:"current"`
}

// Context is one row of "config get-contexts"
type Context struct {
	KubeContext
}

func (c *Context) Header(types.OutputFormat) []string {
	return []string{"CURRENT", "NAME", "CLUSTER", "AUTHINFO", "NAMESPACE"}
}

func (c *Context) Data(types.ShowParams, types.OutputFormat) []string {
	current := ""
	if c.Current {
		current = "*"
	}
	return []string{current, c.KubeContext.Name, c.Cluster, c.AuthInfo, c.Namespace}
}

func (c *Context) JSON(types.ShowParams) (string, error) { return toJSON(c.KubeContext) }
func (c *Context) YAML(types.ShowParams) (string, error) { return toYAML(c.KubeContext) }

func (c *Context) Name() string {
	return "context/" + c.KubeContext.Name
}
