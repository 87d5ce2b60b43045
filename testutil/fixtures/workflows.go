// Package fixtures 提供 GenStudio 测试使用的样例数据。
package fixtures

import (
	"encoding/json"
	"fmt"
)

// --- 社区工作流 ---

// SimpleWorkflow 单节点工作流文档
const SimpleWorkflow = `{"nodes":[{"id":"prompt-1","type":"prompt","data":{"text":"a lighthouse"}}],"edges":[]}`

// ImageToVideoWorkflow 图生视频工作流文档
const ImageToVideoWorkflow = `{
  "nodes": [
    {"id": "img-1", "type": "image-input", "data": {"url": "https://cdn.example/in.png"}},
    {"id": "gen-1", "type": "generate", "data": {"provider": "wavespeed", "model": "wavespeed-ai/wan-2.1/i2v-480p"}}
  ],
  "edges": [{"source": "img-1", "target": "gen-1"}]
}`

// CommunityWorkflows 默认的社区工作流集合
func CommunityWorkflows() map[string]string {
	return map[string]string{
		"wf-1":          SimpleWorkflow,
		"wf-i2v":        ImageToVideoWorkflow,
		"team/flow one": SimpleWorkflow,
	}
}

// --- 设置 blob ---

// SettingsBlob 构造含各 provider API Key 的设置文档；空 key 省略
func SettingsBlob(keys map[string]string) string {
	providers := make(map[string]map[string]string, len(keys))
	for id, key := range keys {
		if key == "" {
			continue
		}
		providers[id] = map[string]string{"apiKey": key}
	}
	b, err := json.Marshal(map[string]any{
		"theme":     "dark",
		"providers": providers,
	})
	if err != nil {
		panic(fmt.Sprintf("fixtures: marshal settings blob: %v", err))
	}
	return string(b)
}

// --- 生成端点响应 ---

// GenerationSuccess 生成端点成功响应
const GenerationSuccess = `{"success":true,"data":{"id":"pred-9","status":"completed","outputs":["https://cdn.example/out.png"]}}`

// GenerationFailure 生成端点业务失败响应
const GenerationFailure = `{"success":false,"error":"content policy violation"}`
