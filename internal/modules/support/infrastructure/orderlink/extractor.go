package orderlink

import (
	"regexp"
	"strings"
)

// 订单号抽取模式，按优先级依次尝试，首个命中即生效
var orderPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)ORD[-\s]?(\d+)`),
	regexp.MustCompile(`(?i)order\s*(?:id|number|#)?\s*:?\s*(ORD[-\s]?\d+)`),
	regexp.MustCompile(`(?i)my\s*order\s*(?:is|id)?\s*(ORD[-\s]?\d+)`),
}

// ExtractOrderID 从用户消息中抽取订单号并归一化；未命中返回空串
//
// 归一化：去空格与连字符、转大写、补 ORD 前缀。
// "ord 301" / "ORD-301" / "my order is ORD301" 均归一为 ORD301。
func ExtractOrderID(message string) string {
	for _, p := range orderPatterns {
		m := p.FindStringSubmatch(message)
		if m == nil {
			continue
		}
		return normalize(m[1])
	}
	return ""
}

func normalize(raw string) string {
	s := strings.ReplaceAll(raw, " ", "")
	s = strings.ReplaceAll(s, "-", "")
	s = strings.ToUpper(s)
	if !strings.HasPrefix(s, "ORD") {
		s = "ORD" + s
	}
	return s
}

// 时间偏好关键词（小写匹配）
var datetimeKeywords = []string{
	"tomorrow",
	"monday", "tuesday", "wednesday", "thursday", "friday", "saturday", "sunday",
	"next week",
	"pm", "am",
	"december", "january",
}

// LooksLikeDatetime 判断消息是否疑似时间偏好表达
func LooksLikeDatetime(message string) bool {
	lower := strings.ToLower(message)
	for _, kw := range datetimeKeywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}

// LooksLikeReason 判断消息是否疑似原因陈述
//
// 已有订单号且原因槽位为空时，长度足够且非疑问句的消息按原因陈述捕获。
func LooksLikeReason(message string) bool {
	trimmed := strings.TrimSpace(message)
	return len(trimmed) > 10 && !strings.HasSuffix(trimmed, "?")
}
