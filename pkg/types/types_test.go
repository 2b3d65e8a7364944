package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseOutputFormat(t *testing.T) {
	tests := []struct {
		input    string
		expected OutputFormat
	}{
		{"", OutputNormal},
		{"table", OutputNormal},
		{"wide", OutputWide},
		{"json", OutputJSON},
		{"JSON", OutputJSON},
		{"yaml", OutputYAML},
		{"name", OutputName},
		{"go-template", OutputGoTemplate},
		{"templatefile", OutputTemplateFile},
		{"jsonpath={.items[*].metadata.name}", OutputJSONPath},
		{"jsonpath-as-json", OutputJSONPathAsJSON},
		{"custom-columns=NAME:.metadata.name", OutputCustomColumns},
		{"custom-columns-file", OutputCustomColumnsFile},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseOutputFormat(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestParseOutputFormat_Unknown(t *testing.T) {
	_, err := ParseOutputFormat("xml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "xml")
	assert.Contains(t, err.Error(), "yaml")
}

func TestOutputFormat_Families(t *testing.T) {
	assert.True(t, OutputNormal.IsTable())
	assert.True(t, OutputWide.IsTable())
	assert.True(t, OutputWide.IsWide())
	assert.False(t, OutputNormal.IsWide())
	assert.False(t, OutputJSON.IsTable())

	for _, f := range []OutputFormat{OutputNormal, OutputWide, OutputJSON, OutputYAML, OutputName} {
		assert.False(t, f.IsTemplate(), f.String())
	}
	for f := OutputGoTemplate; f <= OutputCustomColumnsFile; f++ {
		assert.True(t, f.IsTemplate(), f.String())
	}
}

func TestOutputFormat_PflagValue(t *testing.T) {
	var f OutputFormat
	require.NoError(t, f.Set("yaml"))
	assert.Equal(t, OutputYAML, f)
	assert.Equal(t, "yaml", f.String())
	assert.Equal(t, "string", f.Type())
	assert.Error(t, f.Set("bogus"))
	assert.Equal(t, OutputYAML, f, "failed Set must not change the value")
}

func TestOutputFormats_ExcludesNormal(t *testing.T) {
	formats := OutputFormats()
	assert.Len(t, formats, 13)
	assert.Equal(t, "wide", formats[0])
	assert.NotContains(t, formats, "")
}
