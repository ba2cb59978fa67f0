package reporter

import (
	"bytes"
	"errors"
	"os"
	"testing"

	"itassets/internal/app/pipeline"
	assetmodel "itassets/internal/model/asset"
	"itassets/internal/service/asset/etl"
	"itassets/internal/service/asset/indexer"

	"github.com/pterm/pterm"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func captureOutput(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	pterm.DisableStyling()
	pterm.SetDefaultOutput(&buf)
	t.Cleanup(func() {
		pterm.SetDefaultOutput(os.Stdout)
		pterm.EnableStyling()
	})
	return &buf
}

func TestConsoleReporter_PrintAssets(t *testing.T) {
	buf := captureOutput(t)
	date := "2010-01-01"

	err := NewConsoleReporter().PrintAssets([]assetmodel.ITAsset{
		{Hostname: "host1", Country: "US", OSName: "Linux", OSProvider: "RedHat", LifecycleStatus: "EOL", InstallDate: &date},
		{Hostname: "host3", Country: "UNKNOWN", OSName: "Linux", OSProvider: "Unknown", LifecycleStatus: "EOS"},
	})
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "install_date")
	assert.Contains(t, out, "host1")
	assert.Contains(t, out, "2010-01-01")
	assert.Contains(t, out, "UNKNOWN")
	assert.Contains(t, out, "2 rows")
}

func TestConsoleReporter_PrintResult(t *testing.T) {
	buf := captureOutput(t)

	NewConsoleReporter().PrintResult(&pipeline.Result{
		Stored:   3,
		Mode:     pipeline.ModeStoreOnly,
		Degraded: etl.NewError(etl.ErrConfiguration, "index", errors.New("please set ES_ENDPOINT and ES_API_KEY")),
	})

	out := buf.String()
	assert.Contains(t, out, "please set ES_ENDPOINT and ES_API_KEY")
	assert.Contains(t, out, "relational-store-only")
}

func TestConsoleReporter_PrintVerifyReport(t *testing.T) {
	buf := captureOutput(t)

	err := NewConsoleReporter().PrintVerifyReport(&indexer.VerifyReport{
		Index:   "itassets_demo",
		Exists:  false,
		Indices: []indexer.IndexInfo{{Name: "other", Health: "green", Status: "open", DocsCount: "7"}},
	})
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "itassets_demo does not exist")
	assert.Contains(t, out, "other")
}
