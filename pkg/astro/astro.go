// Package astro 根据公历日期推算生肖、五行与星座。
package astro

import "time"

var zodiacAnimals = [12]string{"鼠", "牛", "虎", "兔", "龙", "蛇", "马", "羊", "猴", "鸡", "狗", "猪"}

var fiveElements = [5]string{"金", "木", "水", "火", "土"}

// 各年立春日期（月, 日）；表外年份按 2 月 4 日近似
var springBegin = map[int][2]int{
	2020: {2, 4}, 2021: {2, 3}, 2022: {2, 4}, 2023: {2, 4}, 2024: {2, 4},
	2025: {2, 3}, 2026: {2, 4}, 2027: {2, 4}, 2028: {2, 4}, 2029: {2, 3},
	2030: {2, 4}, 2031: {2, 4}, 2032: {2, 4}, 2033: {2, 3}, 2034: {2, 4},
	2035: {2, 4}, 2036: {2, 4}, 2037: {2, 3}, 2038: {2, 4}, 2039: {2, 4},
	2040: {2, 4},
}

const (
	fallbackSpringMonth = time.February
	fallbackSpringDay   = 4
)

type signBoundary struct {
	name     string
	endMonth time.Month
	endDay   int
}

// 按结束日期升序排列，日期不超过 end 即属于该星座
var westernSigns = []signBoundary{
	{"摩羯座", time.January, 19},
	{"水瓶座", time.February, 18},
	{"双鱼座", time.March, 20},
	{"白羊座", time.April, 19},
	{"金牛座", time.May, 20},
	{"双子座", time.June, 21},
	{"巨蟹座", time.July, 22},
	{"狮子座", time.August, 22},
	{"处女座", time.September, 22},
	{"天秤座", time.October, 23},
	{"天蝎座", time.November, 22},
	{"射手座", time.December, 21},
}

// Profile 由出生日期推导出的命理信息
type Profile struct {
	Zodiac        string `json:"zodiac"`
	ZodiacYear    int    `json:"zodiacYear"`
	Element       string `json:"element"`
	WesternZodiac string `json:"westernZodiac"`
}

// SpringBegin 返回 year 年立春的月、日，以及是否来自立春表
func SpringBegin(year int) (time.Month, int, bool) {
	if md, ok := springBegin[year]; ok {
		return time.Month(md[0]), md[1], true
	}
	return fallbackSpringMonth, fallbackSpringDay, false
}

// ZodiacYear 立春前出生归入上一年
func ZodiacYear(date time.Time) int {
	year, month, day := date.Date()
	springMonth, springDay, _ := SpringBegin(year)

	if month < springMonth || (month == springMonth && day < springDay) {
		return year - 1
	}
	return year
}

// ChineseZodiac 以立春为界计算生肖
func ChineseZodiac(date time.Time) string {
	return zodiacAnimals[mod(ZodiacYear(date)-1900, 12)]
}

// FiveElement 简化五行：按年份对 5 取模
func FiveElement(year int) string {
	return fiveElements[mod(year, 5)]
}

// WesternZodiac 根据月日返回星座，12 月下旬及之后为摩羯座
func WesternZodiac(month time.Month, day int) string {
	for _, s := range westernSigns {
		if month < s.endMonth || (month == s.endMonth && day <= s.endDay) {
			return s.name
		}
	}
	return "摩羯座"
}

// Derive 计算完整的命理信息
func Derive(date time.Time) Profile {
	_, month, day := date.Date()
	return Profile{
		Zodiac:        ChineseZodiac(date),
		ZodiacYear:    ZodiacYear(date),
		Element:       FiveElement(date.Year()),
		WesternZodiac: WesternZodiac(month, day),
	}
}

func mod(a, n int) int {
	return ((a % n) + n) % n
}
