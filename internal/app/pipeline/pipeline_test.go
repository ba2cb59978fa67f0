package pipeline

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"itassets/internal/config"
	"itassets/internal/pkg/database"
	"itassets/internal/pkg/search/searchtest"
	assetrepo "itassets/internal/repo/sqlite/asset"
	"itassets/internal/service/asset/etl"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

const inventory = `hostname,country,operating_system_name,operating_system_provider,operating_system_lifecycle_status,operating_system_installation_date,owner
 host1 ,us,Linux,RedHat,EOL,01/01/2010,alice
host2,de,Windows,Microsoft,Supported,13/02/2015,bob
host2,fr,Windows,Microsoft,EOS,14/02/2015,carol
host3,,Linux,,EOS,not-a-date,dave
`

func clock() time.Time {
	return time.Date(2024, time.June, 1, 8, 0, 0, 0, time.UTC)
}

func setup(t *testing.T) (*config.Config, *gorm.DB) {
	t.Helper()
	dir := t.TempDir()

	input := filepath.Join(dir, "it_asset_inventory.csv")
	require.NoError(t, os.WriteFile(input, []byte(inventory), 0644))

	cfg := config.Default()
	cfg.Database.Path = filepath.Join(dir, "data", "itassets.db")
	cfg.Pipeline.InputPath = input
	cfg.Search.Index = "itassets_test"

	db, err := database.NewConnection(&cfg.Database)
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close(db) })

	return cfg, db
}

// TestRun_StoreOnly 未配置搜索引擎时降级为仅关系库
func TestRun_StoreOnly(t *testing.T) {
	cfg, db := setup(t)

	result, err := New(cfg, db, clock).Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, ModeStoreOnly, result.Mode)
	assert.True(t, errors.Is(result.Degraded, etl.ErrConfiguration))
	assert.Nil(t, result.Index)
	assert.Contains(t, result.Summary(), "relational-store-only")

	require.NotNil(t, result.Clean)
	assert.Equal(t, 1, result.Clean.DuplicatesFound)
	assert.FileExists(t, result.LoadPath)
	assert.Equal(t, 3, result.Loaded)
	assert.Equal(t, 3, result.Stored)
	assert.Equal(t, 2, result.HighRisk)

	total, err := assetrepo.NewITAssetRepository(db).Count(context.Background())
	require.NoError(t, err)
	assert.EqualValues(t, 3, total)

	host1 := result.Assets[0]
	assert.Equal(t, "host1", host1.Hostname)
	assert.Equal(t, "US", host1.Country)
	require.NotNil(t, host1.InstallDate)
	assert.Equal(t, "2010-01-01", *host1.InstallDate)

	// 清洗阶段填充的 Unknown 日期在转换阶段变为 NULL
	host3 := result.Assets[2]
	assert.Equal(t, "UNKNOWN", host3.Country)
	assert.Equal(t, "Unknown", host3.OSProvider)
	assert.Nil(t, host3.InstallDate)
}

// TestRun_SearchPartiallyConfigured 只配置了 endpoint 时不连接搜索服务
func TestRun_SearchPartiallyConfigured(t *testing.T) {
	cfg, db := setup(t)
	srv := searchtest.NewServer()
	defer srv.Close()
	cfg.Search.Endpoint = srv.URL
	cfg.Search.APIKey = "   "

	result, err := New(cfg, db, clock).Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, ModeStoreOnly, result.Mode)
	assert.True(t, errors.Is(result.Degraded, etl.ErrConfiguration))
	assert.Contains(t, result.Degraded.Error(), "please set ES_API_KEY")
	assert.Zero(t, srv.BulkRequests())
	assert.Zero(t, srv.Count("itassets_test"))
}

func TestRun_FullyIndexed(t *testing.T) {
	cfg, db := setup(t)
	srv := searchtest.NewServer()
	defer srv.Close()
	cfg.Search.Endpoint = srv.URL
	cfg.Search.APIKey = "test-key"

	result, err := New(cfg, db, clock).Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, ModeFullyIndexed, result.Mode)
	assert.NoError(t, result.Degraded)
	require.NotNil(t, result.Index)
	assert.Equal(t, 3, result.Index.Succeeded)
	assert.Contains(t, result.Summary(), "fully indexed")
	assert.Equal(t, 3, srv.Count("itassets_test"))

	doc, ok := srv.Document("itassets_test", "host1_0")
	require.True(t, ok)
	assert.Equal(t, "High", doc["risk_level"])
	assert.EqualValues(t, 14, doc["system_age_years"])

	doc, ok = srv.Document("itassets_test", "host3_2")
	require.True(t, ok)
	assert.Nil(t, doc["install_date"])
	assert.EqualValues(t, 0, doc["system_age_years"])
}

// TestRun_Rerun 重复运行时关系库整表替换
func TestRun_Rerun(t *testing.T) {
	cfg, db := setup(t)
	p := New(cfg, db, clock)

	_, err := p.Run(context.Background())
	require.NoError(t, err)
	result, err := p.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, result.Stored)
}

func TestRun_SkipClean(t *testing.T) {
	cfg, db := setup(t)
	cfg.Pipeline.SkipClean = true

	result, err := New(cfg, db, clock).Run(context.Background())
	require.NoError(t, err)

	assert.Nil(t, result.Clean)
	assert.Equal(t, cfg.Pipeline.InputPath, result.LoadPath)
	// 未去重
	assert.Equal(t, 4, result.Stored)
	assert.NoFileExists(t, etl.CleanedPath(cfg.Pipeline.InputPath))
}

func TestRun_SearchUnreachable(t *testing.T) {
	cfg, db := setup(t)
	srv := searchtest.NewServer()
	cfg.Search.Endpoint = srv.URL
	cfg.Search.APIKey = "test-key"
	srv.Close()

	result, err := New(cfg, db, clock).Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, ModeStoreOnly, result.Mode)
	assert.True(t, errors.Is(result.Degraded, etl.ErrIndexConnectivity))
	assert.Equal(t, 3, result.Stored)
}

func TestRun_Fatal(t *testing.T) {
	t.Run("missing input", func(t *testing.T) {
		cfg, db := setup(t)
		cfg.Pipeline.InputPath = filepath.Join(t.TempDir(), "missing.csv")

		_, err := New(cfg, db, clock).Run(context.Background())
		require.Error(t, err)
		assert.True(t, errors.Is(err, etl.ErrFileAccess))
	})

	t.Run("missing columns", func(t *testing.T) {
		cfg, db := setup(t)
		require.NoError(t, os.WriteFile(cfg.Pipeline.InputPath, []byte("hostname,country\nh1,us\n"), 0644))

		_, err := New(cfg, db, clock).Run(context.Background())
		require.Error(t, err)
		assert.True(t, errors.Is(err, etl.ErrSchema))
	})

	t.Run("closed store", func(t *testing.T) {
		cfg, db := setup(t)
		require.NoError(t, database.Close(db))

		_, err := New(cfg, db, clock).Run(context.Background())
		require.Error(t, err)
		assert.True(t, errors.Is(err, etl.ErrStorage))
	})
}
