package asset

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestEnrichedITAsset_JSONNullDate 缺失的安装日期显式提交为 null
func TestEnrichedITAsset_JSONNullDate(t *testing.T) {
	doc := EnrichedITAsset{
		ITAsset: ITAsset{
			Hostname:        "host1",
			Country:         "US",
			OSName:          "Linux",
			OSProvider:      "RedHat",
			LifecycleStatus: "EOL",
		},
		RiskLevel: RiskHigh,
	}

	raw, err := json.Marshal(doc)
	require.NoError(t, err)

	var got map[string]interface{}
	require.NoError(t, json.Unmarshal(raw, &got))

	v, present := got["install_date"]
	assert.True(t, present)
	assert.Nil(t, v)
	assert.Equal(t, "host1", got["hostname"])
	assert.Equal(t, "High", got["risk_level"])
	assert.Equal(t, float64(0), got["system_age_years"])
	assert.Len(t, got, 8)
}

func TestITAsset_Values(t *testing.T) {
	date := "2010-01-01"
	a := ITAsset{Hostname: "h", Country: "US", OSName: "n", OSProvider: "p", LifecycleStatus: "EOS", InstallDate: &date}
	assert.Equal(t, []string{"h", "US", "n", "p", "EOS", "2010-01-01"}, a.Values())

	a.InstallDate = nil
	assert.Equal(t, "", a.Values()[5])
	assert.Len(t, CanonicalColumns, len(a.Values()))
	assert.Equal(t, "it_assets", ITAsset{}.TableName())
}
