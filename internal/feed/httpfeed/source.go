// Package httpfeed 从上游分析管线的 HTTP 端点拉取 setup 候选。
// 上游可能返回裸数组、包装对象或单个对象，这里做宽松归一化，
// 再用 JSON Schema 做逐条的最低限度校验。
package httpfeed

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"traq/internal/feed"
	"traq/internal/logger"
	"traq/internal/setup"

	"github.com/santhosh-tekuri/jsonschema/v5"
	"github.com/tidwall/gjson"
)

const maxResponseBytes = 4 << 20

// candidateSchemaJSON 只约束硬性字段：id 必填且为字符串。
// 其余字段由 setup.Candidate 的宽松反序列化兜底。
const candidateSchemaJSON = `{
  "type": "object",
  "required": ["id"],
  "properties": {
    "id":   {"type": "string", "minLength": 1},
    "side": {"type": "string"},
    "type": {"type": "string"}
  }
}`

// Config 描述 HTTP 候选源。
type Config struct {
	Endpoint    string
	HTTPTimeout time.Duration
}

func (c Config) withDefaults() Config {
	if c.HTTPTimeout <= 0 {
		c.HTTPTimeout = 10 * time.Second
	}
	return c
}

// Source 实现 feed.CandidateSource。
type Source struct {
	cfg    Config
	client *http.Client
	schema *jsonschema.Schema
}

func New(cfg Config) (*Source, error) {
	final := cfg.withDefaults()
	if strings.TrimSpace(final.Endpoint) == "" {
		return nil, fmt.Errorf("httpfeed requires endpoint")
	}
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource("candidate.json", strings.NewReader(candidateSchemaJSON)); err != nil {
		return nil, fmt.Errorf("add candidate schema: %w", err)
	}
	schema, err := compiler.Compile("candidate.json")
	if err != nil {
		return nil, fmt.Errorf("compile candidate schema: %w", err)
	}
	return &Source{
		cfg:    final,
		client: &http.Client{Timeout: final.HTTPTimeout},
		schema: schema,
	}, nil
}

// Candidates 拉取并归一化一个 symbol 的候选列表。
// 单条候选不合法只跳过该条，不让整个 tick 失败。
func (s *Source) Candidates(ctx context.Context, symbol string) ([]setup.Candidate, error) {
	symbol = strings.TrimSpace(symbol)
	if symbol == "" {
		return nil, fmt.Errorf("symbol is required")
	}
	endpoint := strings.ReplaceAll(s.cfg.Endpoint, "{symbol}", symbol)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("build feed request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch candidates %s: %w", symbol, err)
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, fmt.Errorf("read feed response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("feed endpoint returned %d", resp.StatusCode)
	}
	return s.decode(symbol, string(body))
}

func (s *Source) decode(symbol, raw string) ([]setup.Candidate, error) {
	arrayJSON, err := CoerceCandidateArrayJSON(raw)
	if err != nil {
		return nil, fmt.Errorf("normalize feed payload: %w", err)
	}
	out := make([]setup.Candidate, 0, 8)
	gjson.Parse(arrayJSON).ForEach(func(_, value gjson.Result) bool {
		var node interface{}
		if err := json.Unmarshal([]byte(value.Raw), &node); err != nil {
			logger.Debugf("httpfeed: %s 候选解析失败，跳过: %v", symbol, err)
			return true
		}
		if err := s.schema.Validate(node); err != nil {
			logger.Debugf("httpfeed: %s 候选未通过 schema 校验，跳过: %v", symbol, err)
			return true
		}
		var c setup.Candidate
		if err := json.Unmarshal([]byte(value.Raw), &c); err != nil {
			logger.Debugf("httpfeed: %s 候选反序列化失败，跳过: %v", symbol, err)
			return true
		}
		out = append(out, c)
		return true
	})
	return out, nil
}

var _ feed.CandidateSource = (*Source)(nil)
