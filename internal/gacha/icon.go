package gacha

import "regexp"

type iconRule struct {
	pattern *regexp.Regexp
	icon    string
}

// iconRules are checked in order; the first match wins.
var iconRules = []iconRule{
	{regexp.MustCompile(`(?i)neural|deep|net|神经|深度`), "🧠"},
	{regexp.MustCompile(`(?i)agent|robot|bot|智能体|机器人`), "🤖"},
	{regexp.MustCompile(`(?i)learn|train|reinforce|学习|训练|强化`), "📚"},
	{regexp.MustCompile(`(?i)vision|cnn|image|视觉|图像`), "👁️"},
	{regexp.MustCompile(`(?i)language|nlp|gpt|llm|语言`), "💬"},
	{regexp.MustCompile(`(?i)search|optimi[sz]|path|搜索|优化|路径`), "🔍"},
	{regexp.MustCompile(`(?i)data|stat|analy|数据|统计|分析`), "📊"},
	{regexp.MustCompile(`(?i)math|logic|algo|数学|逻辑|算法`), "🧮"},
	{regexp.MustCompile(`(?i)chip|gpu|cpu|hard|芯片|硬件`), "💻"},
	{regexp.MustCompile(`(?i)app|real|应用|现实`), "📱"},
}

const defaultIcon = "📄"

// Icon picks a glyph for a card from keywords in its term.
func Icon(term string) string {
	for _, r := range iconRules {
		if r.pattern.MatchString(term) {
			return r.icon
		}
	}
	return defaultIcon
}
