// Package taxonomy 实现文档的两级分类（分类/品牌）与描述列内编码字符串之间的转换.
//
// 历史包袱：documents 表的 category 列受旧约束限制，只能存固定枚举
// （document/catalog/manual），真实的分类结构被塞进了 description 列的前缀：
//
//	Cat:<category>|<brand>[ - <notes>]
//
// 本包是这套迷你语法的唯一实现，纯函数、无副作用. 所有读写编码串的代码
// （上传、批量改名、AI 整理）都必须经由这里，避免列与编码串再次分叉.
//
// 约束：category 与 brand 不允许包含分隔符 '|'，notes 与 brand 不允许包含
// 序列 " - "（编码不做转义，录入校验负责拦截）. 历史数据中分类名后偶见一个
// 多余空格（"Cat:HVAC |Daikin"），解码与匹配必须同时容忍两种形态.
package taxonomy

import (
	"regexp"
	"strings"
)

const (
	// prefix 编码串的固定前缀.
	prefix = "Cat:"
	// delim 分类与品牌之间的分隔符.
	delim = "|"
	// notesSep 品牌与自由备注之间的分隔序列.
	notesSep = " - "
)

// pattern 提取编码串的分类与剩余部分. 分类捕获组保留原始空白，由调用方裁剪.
var pattern = regexp.MustCompile(`^Cat:([^|]+)\|(.*)$`)

// Entry 是解码后的结构化分类.
type Entry struct {
	Category string `json:"category"`
	Brand    string `json:"brand"`
	Notes    string `json:"notes,omitempty"`
}

// Encode 生成编码串. notes 为空时不输出备注段.
func Encode(category, brand, notes string) string {
	var b strings.Builder

	b.WriteString(prefix)
	b.WriteString(category)
	b.WriteString(delim)
	b.WriteString(brand)

	if notes != "" {
		b.WriteString(notesSep)
		b.WriteString(notes)
	}

	return b.String()
}

// Decode 解析编码串. 返回 false 表示该描述不携带编码分类，
// 调用方应回退到遗留的 category 列做展示.
// 分类名两侧空白会被裁剪（容忍历史录入的尾部空格）.
func Decode(encoded string) (Entry, bool) {
	m := pattern.FindStringSubmatch(encoded)
	if m == nil {
		return Entry{}, false
	}

	entry := Entry{Category: strings.TrimSpace(m[1])}
	if entry.Category == "" {
		return Entry{}, false
	}

	rest := m[2]
	if i := strings.Index(rest, notesSep); i >= 0 {
		entry.Brand = rest[:i]
		entry.Notes = rest[i+len(notesSep):]
	} else {
		entry.Brand = rest
	}

	return entry, true
}

// LikePatterns 返回匹配指定分类的两个 LIKE 模式：精确形态与带尾部空格的
// 漂移形态. '%' 与 '_' 已用反斜杠转义，查询需配合 ESCAPE '\' 使用.
func LikePatterns(category string) (exact, drifted string) {
	esc := EscapeLike(category)

	return prefix + esc + delim + "%", prefix + esc + " " + delim + "%"
}

// EscapeLike 转义 LIKE 通配符，查询需配合 ESCAPE '\' 使用.
func EscapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}
