package httpfeed

import (
	"fmt"
	"strings"

	"github.com/tidwall/gjson"
)

// CoerceCandidateArrayJSON 将上游响应统一成候选数组 JSON。
// 兼容三种形态：裸数组、{"setups":[...]} 包装、单个候选对象。
func CoerceCandidateArrayJSON(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", fmt.Errorf("json 内容为空")
	}
	if !gjson.Valid(raw) {
		return "", fmt.Errorf("json 格式无效")
	}
	parsed := gjson.Parse(raw)
	if parsed.IsArray() {
		return raw, nil
	}
	if !parsed.IsObject() {
		return "", fmt.Errorf("根节点必须是 JSON 数组或对象")
	}
	if setups := parsed.Get("setups"); setups.Exists() {
		if !setups.IsArray() {
			return "", fmt.Errorf("setups 必须是数组")
		}
		return strings.TrimSpace(setups.Raw), nil
	}
	if candidates := parsed.Get("candidates"); candidates.Exists() {
		if !candidates.IsArray() {
			return "", fmt.Errorf("candidates 必须是数组")
		}
		return strings.TrimSpace(candidates.Raw), nil
	}

	if strings.TrimSpace(parsed.Get("id").String()) == "" &&
		strings.TrimSpace(parsed.Get("key").String()) == "" {
		return "", fmt.Errorf("根节点为对象但未包含 setups 数组或 id 字段")
	}
	return "[" + raw + "]", nil
}
