// Package prompt 拼装发送给大模型的取名与命理分析提示词，不做任何 I/O。
package prompt

import (
	"fmt"
	"strings"

	"baby-namer/model"
)

// NarrativeDelimiter 命理分析三段内容之间的分隔符
const NarrativeDelimiter = "|||"

const (
	NameSystemPrompt      = "你是一个专业的中国传统起名专家，精通五行八字、诗词典故。请始终返回有效的JSON格式数据，不要添加任何markdown标记或额外说明。"
	NarrativeSystemPrompt = "你是一个精通中西方占星学的专家，擅长结合生辰八字和星座分析性格、职业倾向与兴趣爱好。"
)

const nameItemSchema = `    {
      "chineseName": "姓名",
      "pinyin": "xing ming",
      "englishName": "Name",
      "explanation": "属X，源自《XX·篇章》「包含名字中字的原文引用」，寓意..."
    }`

var citationExamples = []string{
	`名字"思齐"必须源自《诗经·大雅·思齐》"思齐大任，文王之母"`,
	`名字"修远"必须源自《楚辞·离骚》"路漫漫其修远兮，吾将上下而求索"`,
	`名字"君行"必须源自《易经·乾卦》"天行健，君子以自强不息"`,
	`名字"明德"必须源自《大学》"大学之道，在明明德"`,
}

// NameInput 一次取名调用所需的全部信息
type NameInput struct {
	Request  *model.NameRequest
	Metadata model.Metadata // 生辰推算结果，未提供出生日期时为空
	Scope    model.Gender   // 本次调用的性别范围
	Count    int            // 每个性别生成的数量
}

// BuildNamePrompt 生成取名提示词
func BuildNamePrompt(in NameInput) string {
	req := in.Request
	surname := req.Surname()
	expectation := req.Preferences.Expectation()
	categories := req.Preferences.Categories()

	var b strings.Builder
	b.WriteString("作为一个专业的中国传统起名专家，请根据以下信息生成名字：\n\n")
	fmt.Fprintf(&b, "父亲姓名：%s\n母亲姓名：%s\n", strings.TrimSpace(req.FatherName), strings.TrimSpace(req.MotherName))
	writeBirthInfo(&b, in.Metadata, req.BirthTime)
	fmt.Fprintf(&b, "姓氏：%s\n", surname)

	if len(categories) > 0 {
		b.WriteString("\n【取名偏好】\n")
		for _, c := range categories {
			fmt.Fprintf(&b, "%s：%s\n", c.Label, strings.Join(c.Options, "、"))
		}
		for _, c := range categories {
			if len(c.Options) > 1 {
				fmt.Fprintf(&b, "多样性要求：%s同时选择了%s，请让这批名字均衡覆盖每一个方向，不要集中在第一个选项上。\n",
					c.Label, strings.Join(c.Options, "、"))
			}
		}
	}

	if excl := req.Exclusions(); len(excl) > 0 {
		fmt.Fprintf(&b, "\n特别注意：以下名字已经生成过，请避免重复，生成全新的名字：\n%s\n", strings.Join(excl, "、"))
	}

	if expectation != "" {
		b.WriteString("\n⚠️ ⚠️ ⚠️ 【用户特别要求 - 最高优先级】⚠️ ⚠️ ⚠️\n")
		fmt.Fprintf(&b, "必须100%%严格遵守：%s\n", expectation)
		b.WriteString("这是最重要的要求，必须在生成每个名字时都遵守！\n")
	}

	b.WriteString("\n要求：\n")
	for i, r := range requirements(in, surname, expectation, len(categories) > 0) {
		fmt.Fprintf(&b, "%d. %s\n", i+1, r)
	}
	b.WriteString("\n")
	b.WriteString(jsonSchema(in.Scope))
	b.WriteString("\n\n请直接返回JSON，不要有markdown标记或其他说明文字。")
	return b.String()
}

func writeBirthInfo(b *strings.Builder, meta model.Metadata, birthTime string) {
	if meta.BirthDate == "" {
		return
	}
	fmt.Fprintf(b, "宝宝出生日期：%s\n", meta.BirthDate)
	if t := strings.TrimSpace(birthTime); t != "" {
		fmt.Fprintf(b, "出生时辰：%s\n", t)
	}
	fmt.Fprintf(b, "生肖：%s\n五行属性：%s\n星座：%s\n", meta.Zodiac, meta.Element, meta.WesternZodiac)
}

// requirements 按顺序返回编号要求，特别期望存在时排在第一位
func requirements(in NameInput, surname, expectation string, hasPreferences bool) []string {
	var reqs []string
	if expectation != "" {
		reqs = append(reqs, fmt.Sprintf("⚠️ 【首要要求】%s - 这是最高优先级，必须100%%严格遵守！", expectation))
	}

	reqs = append(reqs, countRequirement(in.Scope, in.Count))
	if clause := lengthClause(in.Request.NameLength); clause != "" {
		reqs = append(reqs, clause)
	}
	reqs = append(reqs,
		fmt.Sprintf("每个名字必须包含：\n   - 完整中文名（%s+名字）\n   - 拼音\n   - 对应的英文名\n   - 详细解释（80字内，必须包含：五行属性 + 具体出处 + 寓意解析）", surname),
		"名字需符合中国传统文化、五行平衡、生辰八字原理",
	)
	if hasPreferences {
		reqs = append(reqs, "严格遵循用户的偏好设置进行取名")
	}
	reqs = append(reqs,
		"寓意美好、音韵优美、易读易记",
		"英文名可以是音译或意境对应的英文名",
		citationRequirement(),
		"出处格式要求：\n   - 必须精确到具体篇章\n   - 必须引用包含名字中字的原文，引文控制在20字以内，不要整段照抄\n   - 格式：源自《典籍·篇章》\"原文引用（必须包含名字中的字）\"",
		"必须严格按照以下JSON格式返回，不要添加任何其他文字：",
	)
	return reqs
}

func countRequirement(scope model.Gender, n int) string {
	switch scope {
	case model.GenderBoy:
		return fmt.Sprintf("生成%d个男宝宝名字", n)
	case model.GenderGirl:
		return fmt.Sprintf("生成%d个女宝宝名字", n)
	}
	return fmt.Sprintf("生成%d个男宝宝名字和%d个女宝宝名字", n, n)
}

func lengthClause(l model.NameLength) string {
	switch l {
	case model.NameLengthSingle:
		return "名字全部为单字名（姓氏之后只有一个字）"
	case model.NameLengthDouble:
		return "名字全部为双字名（姓氏之后两个字）"
	case model.NameLengthBoth:
		return "单字名与双字名搭配生成，两种都要有"
	}
	return ""
}

func citationRequirement() string {
	var b strings.Builder
	b.WriteString("🔴【关键要求】出处必须与名字中的具体字有直接关联！\n")
	for _, ex := range citationExamples {
		fmt.Fprintf(&b, "   - 例如：%s\n", ex)
	}
	b.WriteString("   - 不要生成与出处无关的名字！名字的字必须出现在引用的原文中！")
	return b.String()
}

func jsonSchema(scope model.Gender) string {
	var fields []string
	if scope != model.GenderGirl {
		fields = append(fields, "  \"boyNames\": [\n"+nameItemSchema+"\n  ]")
	}
	if scope != model.GenderBoy {
		fields = append(fields, "  \"girlNames\": [\n"+nameItemSchema+"\n  ]")
	}
	return "{\n" + strings.Join(fields, ",\n") + "\n}"
}

// BuildNarrativePrompt 生成性格、职业、爱好三段分析的提示词，三段用 NarrativeDelimiter 分隔
func BuildNarrativePrompt(meta model.Metadata, birthTime string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "请为%s出生的宝宝进行命理分析。\n", meta.BirthDate)
	fmt.Fprintf(&b, "星座：%s\n生肖：%s\n五行：%s\n", meta.WesternZodiac, meta.Zodiac, meta.Element)
	if t := strings.TrimSpace(birthTime); t != "" {
		fmt.Fprintf(&b, "出生时辰：%s\n", t)
	}
	b.WriteString("\n请依次输出三段内容：\n")
	b.WriteString("1. 星座性格分析（80字内）：简洁优雅地描述性格特点、天赋才能和未来发展方向，融合中西方占星学精髓\n")
	b.WriteString("2. 职业倾向（30字内）：结合五行八字和星座特点，预测适合的职业领域和发展方向\n")
	b.WriteString("3. 兴趣爱好（30字内）：结合五行八字和星座特点，预测可能喜欢的兴趣爱好和活动\n")
	fmt.Fprintf(&b, "\n三段之间用 %s 分隔，不要标题、编号或其他说明文字。", NarrativeDelimiter)
	return b.String()
}
