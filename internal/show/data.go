package show

import (
	"bytes"
	"compress/gzip"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/tapcraft-io/rk/pkg/types"
	corev1 "k8s.io/api/core/v1"
)

// SecretTypeHelmRelease is the type helm stores release records under
const SecretTypeHelmRelease corev1.SecretType = "helm.sh/release.v1"

// DataItem is one decoded entry of a Secret or ConfigMap
type DataItem struct {
	Key   string
	Value string
}

// Contents prints decoded Secret or ConfigMap values. A single item prints
// as its bare value, several as "key: value" lines.
type Contents struct {
	Kind   string
	Object string
	Items  []DataItem
}

// MissingKeyError reports a requested key the object does not hold
type MissingKeyError struct {
	Kind   string
	Object string
	Key    string
}

func (e *MissingKeyError) Error() string {
	return fmt.Sprintf("%s %q has no key %q", e.Kind, e.Object, e.Key)
}

// SecretContents decodes secret data according to the secret type. keys
// limits the output to those entries.
func SecretContents(secret *corev1.Secret, keys []string) (*Contents, error) {
	raw := make(map[string]string, len(secret.Data)+len(secret.StringData))
	for k, v := range secret.Data {
		raw[k] = decodeSecretValue(secret.Type, v)
	}
	for k, v := range secret.StringData {
		raw[k] = v
	}
	return newContents("secret", secret.Name, raw, keys)
}

// ConfigMapContents merges data and binaryData, the latter read as text
func ConfigMapContents(cm *corev1.ConfigMap, keys []string) (*Contents, error) {
	raw := make(map[string]string, len(cm.Data)+len(cm.BinaryData))
	for k, v := range cm.BinaryData {
		raw[k] = strings.ToValidUTF8(string(v), "�")
	}
	for k, v := range cm.Data {
		raw[k] = v
	}
	return newContents("configmap", cm.Name, raw, keys)
}

func newContents(kind, name string, raw map[string]string, keys []string) (*Contents, error) {
	c := &Contents{Kind: kind, Object: name}
	if len(keys) == 0 {
		for k := range raw {
			keys = append(keys, k)
		}
		sort.Strings(keys)
	}
	for _, k := range keys {
		v, ok := raw[k]
		if !ok {
			return nil, &MissingKeyError{Kind: kind, Object: name, Key: k}
		}
		c.Items = append(c.Items, DataItem{Key: k, Value: v})
	}
	return c, nil
}

func decodeSecretValue(typ corev1.SecretType, value []byte) string {
	switch typ {
	case SecretTypeHelmRelease:
		if text, err := decodeHelmRelease(value); err == nil {
			return text
		}
	case corev1.SecretTypeDockerConfigJson:
		var out bytes.Buffer
		if err := json.Indent(&out, value, "", "  "); err == nil {
			return out.String()
		}
	}
	return strings.ToValidUTF8(string(value), "�")
}

// helm stores releases as base64 encoded gzip on top of the secret encoding
func decodeHelmRelease(value []byte) (string, error) {
	compressed, err := base64.StdEncoding.DecodeString(string(value))
	if err != nil {
		return "", err
	}
	r, err := gzip.NewReader(bytes.NewReader(compressed))
	if err != nil {
		return "", err
	}
	defer r.Close()
	text, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}
	return string(text), nil
}

func (c *Contents) Header(types.OutputFormat) []string {
	return []string{"KEY", "VALUE"}
}

func (c *Contents) Data(params types.ShowParams, format types.OutputFormat) []string {
	rows := c.Rows(params, format)
	if len(rows) == 0 {
		return nil
	}
	return rows[0]
}

func (c *Contents) Rows(types.ShowParams, types.OutputFormat) [][]string {
	rows := make([][]string, 0, len(c.Items))
	for _, it := range c.Items {
		rows = append(rows, []string{it.Key, it.Value})
	}
	return rows
}

func (c *Contents) Text(types.ShowParams, types.OutputFormat) string {
	if len(c.Items) == 1 {
		return c.Items[0].Value
	}
	lines := make([]string, 0, len(c.Items))
	for _, it := range c.Items {
		lines = append(lines, it.Key+": "+it.Value)
	}
	return strings.Join(lines, "\n")
}

func (c *Contents) values() map[string]string {
	out := make(map[string]string, len(c.Items))
	for _, it := range c.Items {
		out[it.Key] = it.Value
	}
	return out
}

func (c *Contents) JSON(types.ShowParams) (string, error) { return toJSON(c.values()) }
func (c *Contents) YAML(types.ShowParams) (string, error) { return toYAML(c.values()) }

func (c *Contents) Name() string {
	return c.Kind + "/" + c.Object
}
