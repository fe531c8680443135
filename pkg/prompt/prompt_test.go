package prompt

import (
	"strings"
	"testing"

	"baby-namer/model"
)

func baseRequest() *model.NameRequest {
	return &model.NameRequest{
		FatherName: "李明",
		MotherName: "王芳",
		BirthTime:  "08:30",
	}
}

var birthMeta = model.Metadata{
	Zodiac:        "龙",
	Element:       "水",
	WesternZodiac: "水瓶座",
	BirthDate:     "2024年2月4日",
}

func TestBuildNamePrompt_DiversityForMultipleOptions(t *testing.T) {
	req := baseRequest()
	req.Preferences.Cultural = []string{"诗经", "楚辞"}

	p := BuildNamePrompt(NameInput{Request: req, Metadata: birthMeta, Scope: model.GenderBoy, Count: 5})

	if !strings.Contains(p, "经典文化偏好：诗经、楚辞") {
		t.Fatalf("expected cultural clause, got:\n%s", p)
	}
	if !strings.Contains(p, "多样性要求：经典文化偏好同时选择了诗经、楚辞") {
		t.Fatalf("expected diversity instruction, got:\n%s", p)
	}
}

func TestBuildNamePrompt_SingleOptionHasNoDiversity(t *testing.T) {
	req := baseRequest()
	req.Preferences.Meaning = []string{"聪慧"}

	p := BuildNamePrompt(NameInput{Request: req, Metadata: birthMeta, Scope: model.GenderGirl, Count: 3})
	if strings.Contains(p, "多样性") {
		t.Fatalf("did not expect diversity instruction:\n%s", p)
	}
	if !strings.Contains(p, "寓意方向：聪慧") {
		t.Fatalf("expected meaning clause:\n%s", p)
	}
}

func TestBuildNamePrompt_NoPreferencesNoSection(t *testing.T) {
	p := BuildNamePrompt(NameInput{Request: baseRequest(), Metadata: birthMeta, Scope: model.GenderBoth, Count: 2})

	for _, s := range []string{"偏好", "寓意方向", "五行补益", "多样性", "【取名偏好】"} {
		if strings.Contains(p, s) {
			t.Fatalf("expected no preference text, found %q in:\n%s", s, p)
		}
	}
}

func TestBuildNamePrompt_CustomExpectationComesFirst(t *testing.T) {
	req := baseRequest()
	req.Preferences.CustomExpectation = "  名字里要有“安”字 "

	p := BuildNamePrompt(NameInput{Request: req, Metadata: birthMeta, Scope: model.GenderBoy, Count: 5})

	if !strings.Contains(p, "【用户特别要求 - 最高优先级】") {
		t.Fatalf("expected highlighted block:\n%s", p)
	}
	if !strings.Contains(p, "1. ⚠️ 【首要要求】名字里要有“安”字") {
		t.Fatalf("expected expectation as first requirement:\n%s", p)
	}
	if !strings.Contains(p, "2. 生成5个男宝宝名字") {
		t.Fatalf("expected count requirement renumbered to 2:\n%s", p)
	}

	plain := BuildNamePrompt(NameInput{Request: baseRequest(), Metadata: birthMeta, Scope: model.GenderBoy, Count: 5})
	if !strings.Contains(plain, "1. 生成5个男宝宝名字") {
		t.Fatalf("expected count requirement first without expectation:\n%s", plain)
	}
}

func TestBuildNamePrompt_SchemaFollowsScope(t *testing.T) {
	cases := []struct {
		scope     model.Gender
		wantBoy   bool
		wantGirl  bool
		countText string
	}{
		{model.GenderBoy, true, false, "生成4个男宝宝名字"},
		{model.GenderGirl, false, true, "生成4个女宝宝名字"},
		{model.GenderBoth, true, true, "生成4个男宝宝名字和4个女宝宝名字"},
	}
	for _, tc := range cases {
		t.Run(string(tc.scope), func(t *testing.T) {
			p := BuildNamePrompt(NameInput{Request: baseRequest(), Metadata: birthMeta, Scope: tc.scope, Count: 4})
			if got := strings.Contains(p, `"boyNames"`); got != tc.wantBoy {
				t.Fatalf("boyNames present=%v, want %v", got, tc.wantBoy)
			}
			if got := strings.Contains(p, `"girlNames"`); got != tc.wantGirl {
				t.Fatalf("girlNames present=%v, want %v", got, tc.wantGirl)
			}
			if !strings.Contains(p, tc.countText) {
				t.Fatalf("expected %q in prompt", tc.countText)
			}
		})
	}
}

func TestBuildNamePrompt_ExclusionsAndLength(t *testing.T) {
	req := baseRequest()
	req.PreviousNames = []string{"李思齐", "李修远", "李思齐"}
	req.NameLength = model.NameLengthSingle

	p := BuildNamePrompt(NameInput{Request: req, Metadata: birthMeta, Scope: model.GenderBoy, Count: 5})
	if !strings.Contains(p, "请避免重复，生成全新的名字：\n李思齐、李修远\n") {
		t.Fatalf("expected exclusion list:\n%s", p)
	}
	if !strings.Contains(p, "单字名") {
		t.Fatalf("expected name length clause:\n%s", p)
	}
}

func TestBuildNamePrompt_CitationContract(t *testing.T) {
	p := BuildNamePrompt(NameInput{Request: baseRequest(), Metadata: birthMeta, Scope: model.GenderBoy, Count: 5})
	if !strings.Contains(p, "名字的字必须出现在引用的原文中") || !strings.Contains(p, "《诗经·大雅·思齐》") {
		t.Fatalf("expected worked citation examples:\n%s", p)
	}
}

func TestBuildNamePrompt_WithoutBirthDate(t *testing.T) {
	p := BuildNamePrompt(NameInput{Request: baseRequest(), Scope: model.GenderBoy, Count: 5})
	if strings.Contains(p, "生肖：") || strings.Contains(p, "出生时辰") {
		t.Fatalf("expected no birth info without a birth date:\n%s", p)
	}
	if !strings.Contains(p, "姓氏：李") {
		t.Fatalf("expected surname line:\n%s", p)
	}
}

func TestBuildNarrativePrompt(t *testing.T) {
	p := BuildNarrativePrompt(birthMeta, "08:30")
	for _, s := range []string{"2024年2月4日", "水瓶座", "龙", "出生时辰：08:30", NarrativeDelimiter} {
		if !strings.Contains(p, s) {
			t.Fatalf("expected %q in narrative prompt:\n%s", s, p)
		}
	}
}
