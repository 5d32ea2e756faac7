package remind

import (
	"bytes"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/orris-inc/subtrack/internal/application/reminder/dto"
)

func sampleReport() *dto.SweepReport {
	return &dto.SweepReport{
		RanAt:   time.Date(2024, 6, 1, 8, 0, 0, 0, time.UTC),
		Checked: 3,
		Due:     2,
		Sent:    1,
		Failed:  1,
		Items: []dto.SweepItem{
			{Mapping: "asg_a", Customer: "Ada", Product: "Hosting", Expiry: "2024-06-16", Result: dto.ResultSent},
			{Mapping: "asg_b", Customer: "Grace", Product: "Domain", Expiry: "2024-06-10", Result: dto.ResultFailed, Error: "smtp down"},
		},
	}
}

func TestWriteReportYAML(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteReport(&buf, sampleReport(), formatYAML))

	var decoded struct {
		Checked int `yaml:"checked"`
		Items   []struct {
			Mapping string `yaml:"mapping"`
			Error   string `yaml:"error"`
		} `yaml:"items"`
	}
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, 3, decoded.Checked)
	require.Len(t, decoded.Items, 2)
	assert.Equal(t, "smtp down", decoded.Items[1].Error)
}

func TestWriteReportJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteReport(&buf, sampleReport(), formatJSON))

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.EqualValues(t, 2, decoded["due"])
	assert.Equal(t, false, decoded["dryRun"])
}

func TestWriteReportText(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteReport(&buf, sampleReport(), formatText))

	out := buf.String()
	assert.Contains(t, out, "checked=3 due=2 sent=1 failed=1 skipped=0")
	assert.Contains(t, out, "asg_b")
	assert.Contains(t, out, "failed: smtp down")
}

func TestWriteReportTextDryRunWithoutItems(t *testing.T) {
	r := sampleReport()
	r.DryRun = true
	r.Items = nil

	var buf bytes.Buffer
	require.NoError(t, WriteReport(&buf, r, formatText))
	assert.Contains(t, buf.String(), "(dry run)")
	assert.NotContains(t, buf.String(), "MAPPING")
}

func TestValidFormat(t *testing.T) {
	assert.True(t, validFormat("yaml"))
	assert.True(t, validFormat("text"))
	assert.False(t, validFormat("xml"))
}
