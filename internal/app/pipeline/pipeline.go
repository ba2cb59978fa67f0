/**
 * 资产流水线
 * @description: 按顺序执行 清洗 -> 读取 -> 转换 -> 入库 -> 回读 -> 富化 -> 索引。
 * 搜索引擎未配置或不可达时降级为仅关系库，其余错误中止流水线。
 */
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"time"

	"itassets/internal/config"
	assetmodel "itassets/internal/model/asset"
	"itassets/internal/pkg/logger"
	"itassets/internal/pkg/search"
	assetrepo "itassets/internal/repo/sqlite/asset"
	"itassets/internal/service/asset/etl"
	"itassets/internal/service/asset/indexer"

	"gorm.io/gorm"
)

// 运行结果模式
const (
	ModeFullyIndexed = "fully indexed"
	ModeStoreOnly    = "relational-store-only"
)

// Result 一次运行的结果
type Result struct {
	InputPath string               // 原始输入
	LoadPath  string               // 实际读取的文件 (清洗后或原始)
	Clean     *etl.CleanReport     // 清洗统计，跳过清洗时为 nil
	Loaded    int                  // 读取行数
	Stored    int                  // 入库行数
	HighRisk  int                  // 高风险资产数
	Index     *indexer.IndexResult // 索引统计，降级时为 nil
	Mode      string               // ModeFullyIndexed 或 ModeStoreOnly
	Degraded  error                // 降级原因
	Assets    []assetmodel.ITAsset // 入库后回读的记录
	Duration  time.Duration        // 总耗时
}

// Summary 最终摘要行
func (r *Result) Summary() string {
	if r.Mode == ModeFullyIndexed && r.Index != nil {
		return fmt.Sprintf("Pipeline complete (%s): %d rows stored, %d documents indexed into %s, %d failed",
			r.Mode, r.Stored, r.Index.Succeeded, r.Index.Index, r.Index.Failed)
	}
	return fmt.Sprintf("Pipeline complete (%s): %d rows stored", r.Mode, r.Stored)
}

// Pipeline 资产流水线
type Pipeline struct {
	cfg      *config.Config
	repo     *assetrepo.ITAssetRepository
	cleaner  *etl.Cleaner
	enricher *etl.Enricher
}

// New 创建流水线，now 为富化阶段使用的时钟 (nil 使用 time.Now)
func New(cfg *config.Config, db *gorm.DB, now func() time.Time) *Pipeline {
	return &Pipeline{
		cfg:      cfg,
		repo:     assetrepo.NewITAssetRepository(db),
		cleaner:  etl.NewCleaner(),
		enricher: etl.NewEnricher(now),
	}
}

// Run 执行完整流水线
func (p *Pipeline) Run(ctx context.Context) (*Result, error) {
	start := time.Now()
	result := &Result{
		InputPath: p.cfg.Pipeline.InputPath,
		LoadPath:  p.cfg.Pipeline.InputPath,
		Mode:      ModeStoreOnly,
	}

	// 1. 清洗
	if !p.cfg.Pipeline.SkipClean {
		report, err := p.cleaner.Clean(ctx, p.cfg.Pipeline.InputPath)
		if err != nil {
			return nil, p.fail("clean", err)
		}
		result.Clean = report
		result.LoadPath = report.OutputPath
	}

	// 2. 读取
	table, err := etl.LoadTable(result.LoadPath)
	if err != nil {
		return nil, p.fail("load", err)
	}
	result.Loaded = table.Len()

	// 3. 转换
	assets, err := etl.Transform(table)
	if err != nil {
		return nil, p.fail("transform", err)
	}

	// 4. 入库
	if err := p.store(ctx, assets); err != nil {
		return nil, p.fail("store", err)
	}

	// 5. 回读
	stored, err := p.repo.ListAll(ctx)
	if err != nil {
		return nil, p.fail("read", etl.NewError(etl.ErrStorage, "read", err))
	}
	result.Assets = stored
	result.Stored = len(stored)

	// 6. 富化
	enriched := p.enricher.Enrich(stored)
	for _, a := range enriched {
		if a.RiskLevel == assetmodel.RiskHigh {
			result.HighRisk++
		}
	}

	// 7. 索引
	indexResult, err := p.index(ctx, enriched)
	switch {
	case err == nil:
		result.Index = indexResult
		result.Mode = ModeFullyIndexed
	case etl.IsFatal(err):
		return nil, p.fail("index", err)
	default:
		result.Degraded = err
		logger.LogPipelineStage(logger.PipelineLogEntry{
			Stage:   "index",
			Status:  "degraded",
			Records: 0,
			Message: "Indexing skipped, relational store only: " + err.Error(),
		}, nil)
	}

	result.Duration = time.Since(start)
	logger.LogInfo(result.Summary(), "PIPELINE", "run", map[string]interface{}{
		"duration": result.Duration.Milliseconds(),
	})
	return result, nil
}

func (p *Pipeline) store(ctx context.Context, assets []assetmodel.ITAsset) error {
	start := time.Now()
	if err := p.repo.CreateTable(ctx); err != nil {
		return etl.NewError(etl.ErrStorage, "store", err)
	}
	if err := p.repo.ReplaceAll(ctx, assets); err != nil {
		return etl.NewError(etl.ErrStorage, "store", err)
	}
	logger.LogPipelineStage(logger.PipelineLogEntry{
		Stage:    "store",
		Status:   "success",
		Records:  len(assets),
		Duration: time.Since(start).Milliseconds(),
		Message:  "Loaded data into relational store",
	}, map[string]interface{}{
		"table": assetmodel.ITAsset{}.TableName(),
	})
	return nil
}

func (p *Pipeline) index(ctx context.Context, assets []assetmodel.EnrichedITAsset) (*indexer.IndexResult, error) {
	if !p.cfg.Search.Enabled() {
		return nil, etl.NewError(etl.ErrConfiguration, "index", p.cfg.Search.Validate())
	}
	client, err := search.NewClient(&p.cfg.Search)
	if err != nil {
		return nil, etl.NewError(etl.ErrConfiguration, "index", err)
	}
	return indexer.NewIndexer(client, &p.cfg.Search).Index(ctx, p.cfg.Search.Index, assets)
}

func (p *Pipeline) fail(stage string, err error) error {
	var pe *etl.PipelineError
	if errors.As(err, &pe) {
		stage = pe.Stage
	}
	logger.LogPipelineStage(logger.PipelineLogEntry{
		Stage:   stage,
		Status:  "failed",
		Message: err.Error(),
	}, nil)
	return err
}
