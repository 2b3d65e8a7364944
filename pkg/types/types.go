package types

import (
	"fmt"
	"strings"

	"github.com/spf13/pflag"
)

// OutputFormat selects how results are printed
type OutputFormat int

const (
	OutputNormal OutputFormat = iota
	OutputWide
	OutputJSON
	OutputYAML
	OutputName
	OutputGoTemplate
	OutputGoTemplateFile
	OutputTemplate
	OutputTemplateFile
	OutputJSONPath
	OutputJSONPathAsJSON
	OutputJSONPathFile
	OutputCustomColumns
	OutputCustomColumnsFile
)

var outputFormatNames = map[OutputFormat]string{
	OutputNormal:            "",
	OutputWide:              "wide",
	OutputJSON:              "json",
	OutputYAML:              "yaml",
	OutputName:              "name",
	OutputGoTemplate:        "go-template",
	OutputGoTemplateFile:    "go-template-file",
	OutputTemplate:          "template",
	OutputTemplateFile:      "templatefile",
	OutputJSONPath:          "jsonpath",
	OutputJSONPathAsJSON:    "jsonpath-as-json",
	OutputJSONPathFile:      "jsonpath-file",
	OutputCustomColumns:     "custom-columns",
	OutputCustomColumnsFile: "custom-columns-file",
}

// OutputFormats lists the accepted --output values in display order
func OutputFormats() []string {
	out := make([]string, 0, len(outputFormatNames)-1)
	for f := OutputWide; f <= OutputCustomColumnsFile; f++ {
		out = append(out, outputFormatNames[f])
	}
	return out
}

// ParseOutputFormat converts an --output value to an OutputFormat.
// Anything after '=' (e.g. "jsonpath={.items}") selects the family only.
func ParseOutputFormat(s string) (OutputFormat, error) {
	name, _, _ := strings.Cut(strings.TrimSpace(s), "=")
	name = strings.ToLower(name)
	if name == "" || name == "table" {
		return OutputNormal, nil
	}
	for f, n := range outputFormatNames {
		if n == name {
			return f, nil
		}
	}
	return OutputNormal, fmt.Errorf("unable to match a printer suitable for the output format %q, allowed formats are: %s",
		s, strings.Join(OutputFormats(), ","))
}

func (f OutputFormat) String() string {
	if name, ok := outputFormatNames[f]; ok {
		return name
	}
	return fmt.Sprintf("OutputFormat(%d)", int(f))
}

var _ pflag.Value = (*OutputFormat)(nil)

// Set implements pflag.Value
func (f *OutputFormat) Set(s string) error {
	parsed, err := ParseOutputFormat(s)
	if err != nil {
		return err
	}
	*f = parsed
	return nil
}

// Type implements pflag.Value
func (f *OutputFormat) Type() string {
	return "string"
}

// IsTable reports whether the format renders a table
func (f OutputFormat) IsTable() bool {
	return f == OutputNormal || f == OutputWide
}

// IsWide reports whether extra columns are requested
func (f OutputFormat) IsWide() bool {
	return f == OutputWide
}

// IsTemplate reports whether the format belongs to the template families
// (go-template, template, jsonpath, custom-columns).
func (f OutputFormat) IsTemplate() bool {
	return f >= OutputGoTemplate && f <= OutputCustomColumnsFile
}

// ShowParams tunes how objects are rendered
type ShowParams struct {
	// ShowKind prefixes names with the lower-cased kind ("pod/foo")
	ShowKind bool
	// ShowLabels appends a LABELS column to tables
	ShowLabels bool
	// ShowManagedFields keeps metadata.managedFields in json/yaml output
	ShowManagedFields bool
}
