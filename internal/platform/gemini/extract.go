package gemini

import (
	"encoding/json"
	"errors"
	"regexp"
	"strings"
)

var (
	// 匹配 ```json ... ``` 或 ``` ... ``` 形式的 code fence
	fenceRe = regexp.MustCompile("(?s)```(?:json)?\\s*(.*?)\\s*```")
	// 退路：抓出第一個頂層的 JSON 物件或陣列
	bareJSONRe = regexp.MustCompile(`(?s)(\{.*\}|\[.*\])`)
)

// ExtractJSON 從模型輸出中取出 JSON 並解析到 out。
// 依序嘗試：整段直接解析、code fence 內容、正則抓出的裸 JSON。
func ExtractJSON(text string, out interface{}) error {
	trimmed := strings.TrimSpace(text)
	if err := json.Unmarshal([]byte(trimmed), out); err == nil {
		return nil
	}

	if m := fenceRe.FindStringSubmatch(trimmed); m != nil {
		if err := json.Unmarshal([]byte(m[1]), out); err == nil {
			return nil
		}
	}

	if m := bareJSONRe.FindStringSubmatch(trimmed); m != nil {
		if err := json.Unmarshal([]byte(m[1]), out); err == nil {
			return nil
		}
	}

	return errors.New("no valid JSON found in model output")
}
