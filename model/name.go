package model

import (
	"fmt"
	"strings"
	"time"
)

// Gender 生成范围，both 表示男女都要
type Gender string

const (
	GenderBoy  Gender = "boy"
	GenderGirl Gender = "girl"
	GenderBoth Gender = "both"
)

// NameLength 名字字数
type NameLength string

const (
	NameLengthSingle NameLength = "single" // 单字名
	NameLengthDouble NameLength = "double" // 双字名
	NameLengthBoth   NameLength = "both"   // 单双字搭配
)

// Preferences 取名偏好，每类可多选
type Preferences struct {
	Cultural          []string `json:"cultural,omitempty"`
	Meaning           []string `json:"meaning,omitempty"`
	Style             []string `json:"style,omitempty"`
	Element           []string `json:"element,omitempty"`
	CustomExpectation string   `json:"customExpectation,omitempty"`
}

// PreferenceCategory 某一类偏好及其已选项
type PreferenceCategory struct {
	Label   string
	Options []string
}

// Categories 按固定顺序返回已填写的偏好类别，空类别不返回
func (p Preferences) Categories() []PreferenceCategory {
	all := []PreferenceCategory{
		{Label: "经典文化偏好", Options: p.Cultural},
		{Label: "寓意方向", Options: p.Meaning},
		{Label: "风格偏好", Options: p.Style},
		{Label: "五行补益", Options: p.Element},
	}

	var out []PreferenceCategory
	for _, c := range all {
		opts := compact(c.Options)
		if len(opts) == 0 {
			continue
		}
		out = append(out, PreferenceCategory{Label: c.Label, Options: opts})
	}
	return out
}

// Expectation 去除首尾空白后的特别期望
func (p Preferences) Expectation() string {
	return strings.TrimSpace(p.CustomExpectation)
}

// NameRequest 取名请求
type NameRequest struct {
	FatherName    string      `json:"fatherName"`
	MotherName    string      `json:"motherName"`
	BirthDate     string      `json:"birthDate,omitempty"` // YYYY-MM-DD
	BirthTime     string      `json:"birthTime,omitempty"` // HH:mm
	Preferences   Preferences `json:"preferences"`
	SurnameChoice string      `json:"surnameChoice"` // father | mother
	PreviousNames []string    `json:"previousNames,omitempty"`
	NameCount     int         `json:"nameCount"`
	Gender        Gender      `json:"gender,omitempty"`
	NameLength    NameLength  `json:"nameLength,omitempty"`
	BabyGender    []Gender    `json:"babyGender,omitempty"`
}

// Surname 按 surnameChoice 取父亲或母亲姓名的首字
func (r *NameRequest) Surname() string {
	source := r.FatherName
	if r.SurnameChoice == "mother" {
		source = r.MotherName
	}
	for _, ch := range strings.TrimSpace(source) {
		return string(ch)
	}
	return ""
}

// Scope 解析本次生成的性别范围；gender 优先，其次 babyGender，无法确定时返回空
func (r *NameRequest) Scope() Gender {
	switch r.Gender {
	case GenderBoy, GenderGirl, GenderBoth:
		return r.Gender
	case "":
	default:
		return ""
	}

	var boy, girl bool
	for _, g := range r.BabyGender {
		switch g {
		case GenderBoy:
			boy = true
		case GenderGirl:
			girl = true
		}
	}
	switch {
	case boy && girl:
		return GenderBoth
	case boy:
		return GenderBoy
	case girl:
		return GenderGirl
	}
	return ""
}

// Exclusions 需要避开的历史名字，去重并保持顺序
func (r *NameRequest) Exclusions() []string {
	return compact(r.PreviousNames)
}

// GeneratedName 模型生成的单个名字
type GeneratedName struct {
	ChineseName string `json:"chineseName"`
	Pinyin      string `json:"pinyin"`
	EnglishName string `json:"englishName"`
	Explanation string `json:"explanation"`
}

// Favorite 收藏名字，收藏数据保存在客户端
func (n GeneratedName) Favorite(gender Gender, at time.Time) FavoriteName {
	return FavoriteName{
		GeneratedName: n,
		Gender:        gender,
		AddedAt:       at.UnixMilli(),
	}
}

// FavoriteName 收藏的名字
type FavoriteName struct {
	GeneratedName
	Gender  Gender `json:"gender"`
	AddedAt int64  `json:"addedAt"` // unix 毫秒
}

// NameLists 男女名字列表，JSON 中始终输出数组
type NameLists struct {
	BoyNames  []GeneratedName `json:"boyNames"`
	GirlNames []GeneratedName `json:"girlNames"`
}

// Normalize 将 nil 列表替换为空列表
func (l *NameLists) Normalize() {
	if l.BoyNames == nil {
		l.BoyNames = []GeneratedName{}
	}
	if l.GirlNames == nil {
		l.GirlNames = []GeneratedName{}
	}
}

// Metadata 生辰信息与模型生成的性格、职业、爱好描述
type Metadata struct {
	Zodiac         string `json:"zodiac,omitempty"`
	ZodiacYear     int    `json:"zodiacYear,omitempty"`
	Element        string `json:"element,omitempty"`
	WesternZodiac  string `json:"westernZodiac,omitempty"`
	BirthDate      string `json:"birthDate,omitempty"`
	ZodiacAnalysis string `json:"zodiacAnalysis"`
	Career         string `json:"career"`
	Hobbies        string `json:"hobbies"`
}

// GenerationResult 一次生成的完整结果
type GenerationResult struct {
	Names    NameLists `json:"names"`
	Metadata Metadata  `json:"metadata"`
}

// FormatBirthDate 格式化为 2024年2月4日
func FormatBirthDate(t time.Time) string {
	return fmt.Sprintf("%d年%d月%d日", t.Year(), int(t.Month()), t.Day())
}

func compact(in []string) []string {
	if len(in) == 0 {
		return nil
	}
	seen := make(map[string]struct{}, len(in))
	out := make([]string, 0, len(in))
	for _, s := range in {
		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	return out
}
