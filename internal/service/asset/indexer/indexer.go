/**
 * Indexer 搜索引擎批量索引
 * @description: 将富化后的资产以单个批量请求提交到 Elasticsearch，逐文档统计成功/失败，
 * 单个文档失败不会中止批次。提交完成后同步刷新索引。
 */
package indexer

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"itassets/internal/config"
	assetmodel "itassets/internal/model/asset"
	"itassets/internal/pkg/logger"
	"itassets/internal/pkg/search"
	"itassets/internal/service/asset/etl"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esutil"
)

// IndexResult 索引统计
type IndexResult struct {
	Index     string   // 目标索引
	Succeeded int      // 成功文档数
	Failed    int      // 失败文档数
	Errors    []string // 前 N 个失败原因
}

// Indexer 批量索引器
type Indexer struct {
	client *elasticsearch.Client
	cfg    *config.SearchConfig
}

// NewIndexer 创建索引器
func NewIndexer(client *elasticsearch.Client, cfg *config.SearchConfig) *Indexer {
	return &Indexer{client: client, cfg: cfg}
}

// DocumentID 文档 id 为 "{hostname}_{i}"，i 为记录在本次批次中的位置(从 0 开始)
func DocumentID(hostname string, i int) string {
	return fmt.Sprintf("%s_%d", hostname, i)
}

// Index 将 assets 提交到 index
// 服务不可达返回 ErrIndexConnectivity；单文档失败只计数，不返回错误
func (x *Indexer) Index(ctx context.Context, index string, assets []assetmodel.EnrichedITAsset) (*IndexResult, error) {
	start := time.Now()
	result := &IndexResult{Index: index}

	if err := search.Ping(ctx, x.client); err != nil {
		return nil, etl.NewError(etl.ErrIndexConnectivity, "index", err)
	}

	var (
		mu       sync.Mutex
		flushErr error
	)
	sampleSize := x.cfg.ErrorSampleSize
	if sampleSize <= 0 {
		sampleSize = 3
	}
	recordFailure := func(msg string) {
		mu.Lock()
		defer mu.Unlock()
		result.Failed++
		if len(result.Errors) < sampleSize {
			result.Errors = append(result.Errors, msg)
		}
	}

	bi, err := esutil.NewBulkIndexer(esutil.BulkIndexerConfig{
		Client:     x.client,
		Index:      index,
		NumWorkers: 1,
		FlushBytes: x.cfg.FlushBytes,
		OnError: func(_ context.Context, err error) {
			mu.Lock()
			defer mu.Unlock()
			if flushErr == nil {
				flushErr = err
			}
		},
	})
	if err != nil {
		return nil, etl.NewError(etl.ErrIndexConnectivity, "index", err)
	}

	for i, a := range assets {
		id := DocumentID(a.Hostname, i)
		body, err := json.Marshal(a)
		if err != nil {
			recordFailure(fmt.Sprintf("%s: %v", id, err))
			continue
		}

		err = bi.Add(ctx, esutil.BulkIndexerItem{
			Action:     "index",
			DocumentID: id,
			Body:       bytes.NewReader(body),
			OnSuccess: func(_ context.Context, _ esutil.BulkIndexerItem, _ esutil.BulkIndexerResponseItem) {
				mu.Lock()
				defer mu.Unlock()
				result.Succeeded++
			},
			OnFailure: func(_ context.Context, item esutil.BulkIndexerItem, res esutil.BulkIndexerResponseItem, err error) {
				if err != nil {
					recordFailure(fmt.Sprintf("%s: %v", item.DocumentID, err))
					return
				}
				recordFailure(fmt.Sprintf("%s: %s: %s", item.DocumentID, res.Error.Type, res.Error.Reason))
			},
		})
		if err != nil {
			recordFailure(fmt.Sprintf("%s: %v", id, err))
		}
	}

	if err := bi.Close(ctx); err != nil {
		return nil, etl.NewError(etl.ErrIndexConnectivity, "index", err)
	}

	// 整批提交失败且没有任何文档成功，视为服务不可达
	if flushErr != nil && result.Succeeded == 0 && len(assets) > 0 {
		return nil, etl.NewError(etl.ErrIndexConnectivity, "index", flushErr)
	}

	if err := x.refresh(ctx, index); err != nil {
		logger.LogWarn("Index refresh failed", "INDEXER", "refresh", map[string]interface{}{
			"index": index,
			"error": err.Error(),
		})
	}

	status := "success"
	if result.Failed > 0 {
		status = "degraded"
		for _, msg := range result.Errors {
			logger.LogError(etl.NewError(etl.ErrIndexDocument, "index", fmt.Errorf("%s", msg)), "INDEXER", "bulk", map[string]interface{}{
				"index": index,
			})
		}
	}
	logger.LogPipelineStage(logger.PipelineLogEntry{
		Stage:    "index",
		Status:   status,
		Records:  result.Succeeded,
		Duration: time.Since(start).Milliseconds(),
		Message:  fmt.Sprintf("Indexed %d documents into %s", result.Succeeded, index),
	}, map[string]interface{}{
		"failed": result.Failed,
	})

	return result, nil
}

func (x *Indexer) refresh(ctx context.Context, index string) error {
	res, err := x.client.Indices.Refresh(
		x.client.Indices.Refresh.WithContext(ctx),
		x.client.Indices.Refresh.WithIndex(index),
	)
	if err != nil {
		return err
	}
	defer res.Body.Close()
	if res.IsError() {
		return fmt.Errorf("refresh %s: %s", index, res.Status())
	}
	return nil
}
