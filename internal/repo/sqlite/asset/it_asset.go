package asset

import (
	"context"
	"fmt"

	assetmodel "itassets/internal/model/asset"
	"itassets/internal/pkg/logger"

	"gorm.io/gorm"
)

const createTableSQL = `
CREATE TABLE IF NOT EXISTS it_assets (
  hostname TEXT,
  country TEXT,
  os_name TEXT,
  os_provider TEXT,
  lifecycle_status TEXT,
  install_date TEXT
)`

// insertBatchSize 批量插入的每批行数
const insertBatchSize = 500

// ITAssetRepository 规范化资产仓库
// 负责 it_assets 表的建表、整表替换和读取
type ITAssetRepository struct {
	db *gorm.DB
}

// NewITAssetRepository 创建 ITAssetRepository 实例
func NewITAssetRepository(db *gorm.DB) *ITAssetRepository {
	return &ITAssetRepository{db: db}
}

// CreateTable 建表，表已存在时不做任何事
func (r *ITAssetRepository) CreateTable(ctx context.Context) error {
	if err := r.db.WithContext(ctx).Exec(createTableSQL).Error; err != nil {
		logger.LogError(err, "REPO", "create_it_assets_table", nil)
		return err
	}
	return nil
}

// ReplaceAll 整表替换
// 删表重建后写入全部记录，只写六个规范化字段
func (r *ITAssetRepository) ReplaceAll(ctx context.Context, assets []assetmodel.ITAsset) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec("DROP TABLE IF EXISTS it_assets").Error; err != nil {
			return fmt.Errorf("drop table: %w", err)
		}
		if err := tx.Exec(createTableSQL).Error; err != nil {
			return fmt.Errorf("create table: %w", err)
		}
		if len(assets) == 0 {
			return nil
		}
		if err := tx.Select(assetmodel.CanonicalColumns).CreateInBatches(&assets, insertBatchSize).Error; err != nil {
			return fmt.Errorf("insert rows: %w", err)
		}
		return nil
	})
	if err != nil {
		logger.LogError(err, "REPO", "replace_it_assets", map[string]interface{}{
			"rows": len(assets),
		})
		return err
	}
	return nil
}

// ListAll 读取全部记录，按存储顺序返回
func (r *ITAssetRepository) ListAll(ctx context.Context) ([]assetmodel.ITAsset, error) {
	var assets []assetmodel.ITAsset
	if err := r.db.WithContext(ctx).Find(&assets).Error; err != nil {
		logger.LogError(err, "REPO", "list_it_assets", nil)
		return nil, err
	}
	return assets, nil
}

// Count 统计记录数
func (r *ITAssetRepository) Count(ctx context.Context) (int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&assetmodel.ITAsset{}).Count(&total).Error; err != nil {
		logger.LogError(err, "REPO", "count_it_assets", nil)
		return 0, err
	}
	return total, nil
}
