package indexer

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"itassets/internal/pkg/logger"
	"itassets/internal/service/asset/etl"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"
)

// IndexInfo _cat/indices 中的一行
type IndexInfo struct {
	Name      string `json:"index"`
	Health    string `json:"health"`
	Status    string `json:"status"`
	DocsCount string `json:"docs.count"`
}

// VerifyReport 索引核对结果
type VerifyReport struct {
	Index   string                 // 目标索引
	Exists  bool                   // 索引是否存在
	Count   int                    // 文档数
	Sample  map[string]interface{} // 一条样本文档，索引为空时为 nil
	Indices []IndexInfo            // 名称包含过滤串的索引；目标索引不存在时为全部索引
}

// Verifier 只读核对索引内容
type Verifier struct {
	client *elasticsearch.Client
	filter string
}

// NewVerifier 创建核对器，filter 为列出索引时的名称子串
func NewVerifier(client *elasticsearch.Client, filter string) *Verifier {
	return &Verifier{client: client, filter: filter}
}

// Verify 检查索引是否存在、文档数、一条样本文档以及相关索引列表
func (v *Verifier) Verify(ctx context.Context, index string) (*VerifyReport, error) {
	report := &VerifyReport{Index: index}

	exists, err := v.exists(ctx, index)
	if err != nil {
		return nil, etl.NewError(etl.ErrIndexConnectivity, "verify", err)
	}
	report.Exists = exists

	if !exists {
		report.Indices, err = v.listIndices(ctx, "")
		if err != nil {
			return nil, etl.NewError(etl.ErrIndexConnectivity, "verify", err)
		}
		logger.LogWarn("Index does not exist", "VERIFIER", "verify", map[string]interface{}{
			"index":   index,
			"indices": len(report.Indices),
		})
		return report, nil
	}

	if report.Count, err = v.count(ctx, index); err != nil {
		return nil, etl.NewError(etl.ErrIndexConnectivity, "verify", err)
	}
	if report.Sample, err = v.sample(ctx, index); err != nil {
		return nil, etl.NewError(etl.ErrIndexConnectivity, "verify", err)
	}
	if report.Indices, err = v.listIndices(ctx, v.filter); err != nil {
		return nil, etl.NewError(etl.ErrIndexConnectivity, "verify", err)
	}

	logger.LogInfo("Index verified", "VERIFIER", "verify", map[string]interface{}{
		"index": index,
		"count": report.Count,
	})
	return report, nil
}

func (v *Verifier) exists(ctx context.Context, index string) (bool, error) {
	res, err := v.client.Indices.Exists([]string{index}, v.client.Indices.Exists.WithContext(ctx))
	if err != nil {
		return false, err
	}
	defer res.Body.Close()

	switch res.StatusCode {
	case 200:
		return true, nil
	case 404:
		return false, nil
	default:
		return false, fmt.Errorf("index exists %s: %s", index, res.Status())
	}
}

func (v *Verifier) count(ctx context.Context, index string) (int, error) {
	res, err := v.client.Count(
		v.client.Count.WithContext(ctx),
		v.client.Count.WithIndex(index),
	)
	if err != nil {
		return 0, err
	}

	var body struct {
		Count int `json:"count"`
	}
	if err := decode(res, &body); err != nil {
		return 0, fmt.Errorf("count %s: %w", index, err)
	}
	return body.Count, nil
}

func (v *Verifier) sample(ctx context.Context, index string) (map[string]interface{}, error) {
	res, err := v.client.Search(
		v.client.Search.WithContext(ctx),
		v.client.Search.WithIndex(index),
		v.client.Search.WithSize(1),
	)
	if err != nil {
		return nil, err
	}

	var body struct {
		Hits struct {
			Hits []struct {
				Source map[string]interface{} `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := decode(res, &body); err != nil {
		return nil, fmt.Errorf("search %s: %w", index, err)
	}
	if len(body.Hits.Hits) == 0 {
		return nil, nil
	}
	return body.Hits.Hits[0].Source, nil
}

// listIndices 列出名称包含 filter 的索引，filter 为空时返回全部
func (v *Verifier) listIndices(ctx context.Context, filter string) ([]IndexInfo, error) {
	res, err := v.client.Cat.Indices(
		v.client.Cat.Indices.WithContext(ctx),
		v.client.Cat.Indices.WithFormat("json"),
	)
	if err != nil {
		return nil, err
	}

	var all []IndexInfo
	if err := decode(res, &all); err != nil {
		return nil, fmt.Errorf("cat indices: %w", err)
	}

	out := make([]IndexInfo, 0, len(all))
	for _, info := range all {
		if filter == "" || strings.Contains(info.Name, filter) {
			out = append(out, info)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

// decode 读取响应体并关闭，错误状态码转为 error
func decode(res *esapi.Response, v interface{}) error {
	defer res.Body.Close()
	if res.IsError() {
		return fmt.Errorf("%s", res.String())
	}
	return json.NewDecoder(res.Body).Decode(v)
}
