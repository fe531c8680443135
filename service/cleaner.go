package service

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"baby-namer/model"
	"baby-namer/pkg/prompt"
)

// ErrMalformedCompletion 模型返回的内容不是约定的 JSON
var ErrMalformedCompletion = errors.New("malformed completion")

const (
	sentenceMarks = "。！？!?"
	clauseMarks   = "；，;,"
)

// ParseNames 从模型输出中解析名字列表，scope 要求的数组必须存在
func ParseNames(content string, scope model.Gender) (model.NameLists, error) {
	var lists model.NameLists

	obj := extractObject(stripCodeFences(content))
	if obj == "" {
		return lists, fmt.Errorf("%w: no json object found", ErrMalformedCompletion)
	}

	var raw struct {
		BoyNames  *[]model.GeneratedName `json:"boyNames"`
		GirlNames *[]model.GeneratedName `json:"girlNames"`
	}
	if err := json.Unmarshal([]byte(obj), &raw); err != nil {
		return lists, fmt.Errorf("%w: %v", ErrMalformedCompletion, err)
	}

	wantBoy := scope != model.GenderGirl
	wantGirl := scope != model.GenderBoy
	if wantBoy && raw.BoyNames == nil {
		return lists, fmt.Errorf("%w: boyNames missing", ErrMalformedCompletion)
	}
	if wantGirl && raw.GirlNames == nil {
		return lists, fmt.Errorf("%w: girlNames missing", ErrMalformedCompletion)
	}

	if wantBoy {
		lists.BoyNames = *raw.BoyNames
	}
	if wantGirl {
		lists.GirlNames = *raw.GirlNames
	}
	lists.Normalize()
	return lists, nil
}

// CleanNames 修剪字段并截断过长的解释
func CleanNames(names []model.GeneratedName, maxExplanation int) []model.GeneratedName {
	out := make([]model.GeneratedName, 0, len(names))
	for _, n := range names {
		n.ChineseName = strings.TrimSpace(n.ChineseName)
		if n.ChineseName == "" {
			continue
		}
		n.Pinyin = strings.TrimSpace(n.Pinyin)
		n.EnglishName = strings.TrimSpace(n.EnglishName)
		n.Explanation = TruncateExplanation(strings.TrimSpace(n.Explanation), maxExplanation)
		out = append(out, n)
	}
	return out
}

// TruncateExplanation 超过 limit 个字符时截断：
// 优先保留到最后一个句末标点，其次在最后一个分句标点处截断并加省略号，都没有则硬截断。
func TruncateExplanation(s string, limit int) string {
	runes := []rune(s)
	if limit <= 0 || len(runes) <= limit {
		return s
	}

	head := runes[:limit]
	if i := lastIndexOf(head, sentenceMarks); i > 0 {
		return string(head[:i+1])
	}
	if i := lastIndexOf(head, clauseMarks); i > 0 {
		return string(head[:i]) + "…"
	}
	return string(runes[:limit-1]) + "…"
}

func lastIndexOf(runes []rune, marks string) int {
	for i := len(runes) - 1; i >= 0; i-- {
		if strings.ContainsRune(marks, runes[i]) {
			return i
		}
	}
	return -1
}

func stripCodeFences(s string) string {
	s = strings.TrimSpace(s)
	s = strings.ReplaceAll(s, "```json", "")
	s = strings.ReplaceAll(s, "```JSON", "")
	return strings.TrimSpace(strings.ReplaceAll(s, "```", ""))
}

// extractObject 取第一个 { 到最后一个 } 之间的内容
func extractObject(s string) string {
	start := strings.Index(s, "{")
	end := strings.LastIndex(s, "}")
	if start < 0 || end <= start {
		return ""
	}
	return s[start : end+1]
}

// Narrative 命理分析解析结果。Parsed 为 false 时只有 Raw 可用
type Narrative struct {
	Parsed         bool
	ZodiacAnalysis string
	Career         string
	Hobbies        string
	Raw            string
}

// ParseNarrative 按分隔符拆分三段内容
func ParseNarrative(text string) Narrative {
	text = strings.TrimSpace(text)
	parts := strings.Split(text, prompt.NarrativeDelimiter)
	if len(parts) < 3 || strings.TrimSpace(parts[0]) == "" {
		return Narrative{Raw: text}
	}
	return Narrative{
		Parsed:         true,
		ZodiacAnalysis: strings.TrimSpace(parts[0]),
		Career:         strings.TrimSpace(parts[1]),
		Hobbies:        strings.TrimSpace(strings.Join(parts[2:], " ")),
		Raw:            text,
	}
}

// Apply 写入元数据；无法解析时整段文本作为性格分析
func (n Narrative) Apply(meta *model.Metadata) {
	if !n.Parsed {
		meta.ZodiacAnalysis = n.Raw
		return
	}
	meta.ZodiacAnalysis = n.ZodiacAnalysis
	meta.Career = n.Career
	meta.Hobbies = n.Hobbies
}
