package match

import "strings"

type roleLevel string

const (
	levelEntry    roleLevel = "entry"
	levelMid      roleLevel = "mid"
	levelSenior   roleLevel = "senior"
	levelLead     roleLevel = "lead"
	levelManager  roleLevel = "manager"
	levelDirector roleLevel = "director"
)

type roleType string

const (
	typeTechnical  roleType = "technical"
	typeManagement roleType = "management"
	typeHybrid     roleType = "hybrid"
	typeSales      roleType = "sales"
	typeConsulting roleType = "consulting"
)

type roleClassification struct {
	Level roleLevel
	Type  roleType
	Focus []string
}

var managementIndicators = []string{
	"manage team", "manages team", "team of", "direct reports",
	"p&l", "profit and loss", "revenue target", "book of business",
	"hiring", "performance management", "talent decisions",
}

var managementKeywords = []string{
	"manage team", "manages team", "team of", "p&l", "revenue",
	"book of business", "client escalations", "performance management",
	"hiring", "talent decisions", "gross profit", "budget",
}

var technicalKeywords = []string{
	"implement", "configure", "develop", "code", "script",
	"technical implementation", "hands-on", "build", "deploy",
}

var consultingKeywords = []string{
	"consulting", "advisory", "client engagement", "assessment",
	"audit", "review", "recommendations", "advisory services",
}

var salesKeywords = []string{
	"sales", "cross sell", "upsell", "renewals", "scoping",
	"pre-sales", "account management", "qbr", "quarterly business review",
}

func countContains(desc string, kws []string) int {
	n := 0
	for _, kw := range kws {
		if strings.Contains(desc, kw) {
			n++
		}
	}
	return n
}

// classifyRole infers seniority and role type, title keywords first, falling
// back to description heuristics. Both inputs must be lowercased already;
// title may contain mixed case since it is lowered here.
func classifyRole(title, desc string) roleClassification {
	title = strings.ToLower(title)

	level := levelMid
	switch {
	case strings.Contains(title, "director") || strings.Contains(title, "vp") || strings.Contains(title, "vice president"):
		level = levelDirector
	case strings.Contains(title, "manager") || strings.Contains(title, "head of"):
		level = levelManager
	case strings.Contains(title, "lead") || strings.Contains(title, "principal") || strings.Contains(title, "staff"):
		level = levelLead
	case strings.Contains(title, "senior") || strings.Contains(title, "sr."):
		level = levelSenior
	case strings.Contains(title, "junior") || strings.Contains(title, "jr.") || strings.Contains(title, "associate"):
		level = levelEntry
	default:
		if countContains(desc, managementIndicators) >= 3 {
			level = levelManager
		} else if strings.Contains(desc, "lead") && strings.Contains(desc, "team") {
			level = levelLead
		}
	}

	managementCount := countContains(desc, managementKeywords)
	technicalCount := countContains(desc, technicalKeywords)
	consultingCount := countContains(desc, consultingKeywords)
	salesCount := countContains(desc, salesKeywords)

	rt := typeHybrid
	switch {
	case managementCount >= 4:
		rt = typeManagement
	case salesCount >= 3:
		rt = typeSales
	case consultingCount >= 3 && managementCount >= 2:
		rt = typeHybrid
	case consultingCount >= 3:
		rt = typeConsulting
	case technicalCount >= 3:
		rt = typeTechnical
	}

	var focus []string
	if managementCount >= 2 {
		focus = append(focus, "team management")
	}
	if salesCount >= 2 {
		focus = append(focus, "sales")
	}
	if strings.Contains(desc, "p&l") || strings.Contains(desc, "revenue") || strings.Contains(desc, "profit") {
		focus = append(focus, "p&l")
	}
	if consultingCount >= 2 {
		focus = append(focus, "consulting")
	}
	if technicalCount >= 2 {
		focus = append(focus, "technical")
	}

	return roleClassification{Level: level, Type: rt, Focus: focus}
}

func hasFocus(c roleClassification, f string) bool {
	for _, x := range c.Focus {
		if x == f {
			return true
		}
	}
	return false
}

// assessRoleMatch compares the posting's classification against profile
// evidence and returns the penalty to subtract plus a reason string.
// Penalties are tiered by mismatch severity.
func assessRoleMatch(c roleClassification, profile string) (int, string) {
	anyOf := func(phrases ...string) bool {
		for _, p := range phrases {
			if strings.Contains(profile, p) {
				return true
			}
		}
		return false
	}

	hasManagement := anyOf("managed team", "led team", "supervised", "direct reports",
		"hiring", "performance reviews", "mentored", "coached")
	hasPL := anyOf("p&l", "profit and loss", "revenue", "budget", "financial")
	hasSales := anyOf("sales", "business development", "account management",
		"cross sell", "upsell", "renewals", "scoping")

	if (c.Level == levelDirector || c.Level == levelManager) && !hasManagement {
		return 30, "role requires team management experience not evident in the profile"
	}

	if c.Type == typeManagement && hasFocus(c, "p&l") && !hasPL {
		return 25, "role requires P&L responsibility not evident in the profile"
	}

	if c.Type == typeSales && !hasSales {
		return 20, "role is sales-oriented and the profile shows no sales experience"
	}

	if c.Type == typeHybrid && hasFocus(c, "team management") {
		hasTechnical := anyOf("implement", "configure", "automat")
		if !hasManagement && !hasPL && hasTechnical {
			return 15, "hybrid role requires management skills not evident in the profile"
		}
	}

	return 0, ""
}
