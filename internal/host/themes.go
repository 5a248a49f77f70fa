package host

const otherTheme = "other"

type theme struct {
	name     string
	keywords []string
}

// contentThemes are matched as substrings of the lowercased titles. Order
// breaks ties for the dominant theme.
var contentThemes = []theme{
	{name: "business_tech", keywords: []string{"business", "startup", "entrepreneur", "ceo", "founder", "company", "tech", "technology", "ai", "marketing", "sales", "strategy"}},
	{name: "personal_development", keywords: []string{"success", "mindset", "motivation", "life", "career", "growth", "habits", "productivity", "leadership"}},
	{name: "finance_investing", keywords: []string{"money", "invest", "crypto", "finance", "wealth", "bitcoin", "stock", "trading"}},
	{name: "health_wellness", keywords: []string{"health", "fitness", "wellness", "mental", "meditation", "diet"}},
}

// titleStopwords are ignored when counting frequent title keywords.
var titleStopwords = map[string]struct{}{
	"the": {}, "and": {}, "with": {}, "from": {}, "this": {}, "that": {}, "have": {}, "will": {},
	"they": {}, "been": {}, "their": {}, "said": {}, "each": {}, "which": {}, "more": {}, "very": {},
	"what": {}, "know": {}, "just": {}, "first": {}, "time": {}, "over": {}, "think": {}, "also": {},
	"back": {}, "after": {}, "come": {}, "most": {}, "where": {},
}
