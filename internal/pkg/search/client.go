/**
 * Elasticsearch 客户端
 * @description: 根据 SearchConfig 创建 go-elasticsearch 客户端，使用 API Key 认证。
 * 演示环境默认跳过证书校验 (insecure_skip_verify)。
 */
package search

import (
	"context"
	"crypto/tls"
	"fmt"
	"net/http"
	"time"

	"itassets/internal/config"

	"github.com/elastic/go-elasticsearch/v8"
)

// NewClient 创建搜索客户端
// endpoint 或 api_key 缺失时返回 cfg.Validate() 的错误
func NewClient(cfg *config.SearchConfig) (*elasticsearch.Client, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	client, err := elasticsearch.NewClient(elasticsearch.Config{
		Addresses: []string{cfg.Endpoint},
		APIKey:    cfg.APIKey,
		Transport: &http.Transport{
			TLSClientConfig:       &tls.Config{InsecureSkipVerify: cfg.InsecureSkipVerify}, // #nosec G402
			ResponseHeaderTimeout: 30 * time.Second,
		},
		MaxRetries: 1,
	})
	if err != nil {
		return nil, fmt.Errorf("create elasticsearch client: %w", err)
	}
	return client, nil
}

// Ping 探测服务是否可达
func Ping(ctx context.Context, client *elasticsearch.Client) error {
	res, err := client.Ping(client.Ping.WithContext(ctx))
	if err != nil {
		return err
	}
	defer res.Body.Close()
	if res.IsError() {
		return fmt.Errorf("ping %s", res.Status())
	}
	return nil
}
