package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestDump(t *testing.T) {
	cfg := Default()
	cfg.Search.Endpoint = "https://localhost:9200"
	cfg.Search.APIKey = "secret-key"
	cfg.Database.DSN = "root:hunter2@tcp(127.0.0.1:3306)/itassets"

	out, err := Dump(cfg)
	require.NoError(t, err)

	text := string(out)
	assert.NotContains(t, text, "secret-key")
	assert.NotContains(t, text, "hunter2")
	assert.Contains(t, text, "root:******@tcp(127.0.0.1:3306)/itassets")

	var back Config
	require.NoError(t, yaml.Unmarshal(out, &back))
	assert.Equal(t, "https://localhost:9200", back.Search.Endpoint)
	assert.Equal(t, "******", back.Search.APIKey)
	assert.Equal(t, cfg.Search.Index, back.Search.Index)

	// 原配置不被修改
	assert.Equal(t, "secret-key", cfg.Search.APIKey)
}

func TestMaskDSN(t *testing.T) {
	assert.Equal(t, "", maskDSN(""))
	assert.Equal(t, "tcp(127.0.0.1)/db", maskDSN("tcp(127.0.0.1)/db"))
	assert.Equal(t, "u@tcp(h)/db", maskDSN("u@tcp(h)/db"))
	assert.Equal(t, "u:******@tcp(h)/db", maskDSN("u:p@ss@tcp(h)/db"))
}
