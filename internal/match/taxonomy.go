package match

import "regexp"

// Concept is one entry in the scoring taxonomy: a canonical term, its
// synonyms, and an importance weight from 1 to 5.
type Concept struct {
	Canonical string
	Synonyms  []string
	Weight    int
	Category  string
}

var taxonomy = []Concept{
	// critical federal terms
	{Canonical: "fedramp", Synonyms: []string{"fed ramp", "federal risk and authorization management program"}, Weight: 5, Category: "framework"},
	{Canonical: "ato", Synonyms: []string{"authorization to operate", "authority to operate", "ato process"}, Weight: 5, Category: "authorization"},
	{Canonical: "poam", Synonyms: []string{"poa&m", "plan of action and milestones", "plan of actions and milestones", "poams"}, Weight: 5, Category: "documentation"},
	{Canonical: "ssp", Synonyms: []string{"system security plan", "system security plans", "ssps"}, Weight: 5, Category: "documentation"},
	{Canonical: "rmf", Synonyms: []string{"risk management framework", "nist rmf", "rmf process"}, Weight: 5, Category: "framework"},
	{Canonical: "fisma", Synonyms: []string{"federal information security management act", "fisma compliance"}, Weight: 5, Category: "framework"},

	// NIST standards
	{Canonical: "nist 800-53", Synonyms: []string{"nist sp 800-53", "800-53", "sp 800-53"}, Weight: 5, Category: "standard"},
	{Canonical: "nist 800-37", Synonyms: []string{"nist sp 800-37", "800-37", "sp 800-37"}, Weight: 4, Category: "standard"},
	{Canonical: "nist 800-171", Synonyms: []string{"nist sp 800-171", "800-171", "sp 800-171"}, Weight: 4, Category: "standard"},

	// roles
	{Canonical: "isso", Synonyms: []string{"information system security officer", "information systems security officer", "issos"}, Weight: 4, Category: "role"},
	{Canonical: "issm", Synonyms: []string{"information system security manager", "information systems security manager"}, Weight: 3, Category: "role"},

	// processes
	{Canonical: "continuous monitoring", Synonyms: []string{"conmon", "ongoing monitoring", "continuous assessment"}, Weight: 4, Category: "process"},
	{Canonical: "security assessment", Synonyms: []string{"security assessments", "security assessment report", "control assessment"}, Weight: 4, Category: "process"},
	{Canonical: "risk assessment", Synonyms: []string{"risk assessments", "security risk assessment", "risk analysis"}, Weight: 4, Category: "process"},
	{Canonical: "vulnerability management", Synonyms: []string{"vuln management", "vulnerability scanning", "vulnerability assessment"}, Weight: 4, Category: "process"},

	// commercial frameworks
	{Canonical: "iso 27001", Synonyms: []string{"iso27001", "iso 27001:2013", "iso 27001:2022"}, Weight: 3, Category: "framework"},
	{Canonical: "soc 2", Synonyms: []string{"soc2", "soc ii", "soc 2 type 2", "soc 2 type ii"}, Weight: 3, Category: "framework"},
	{Canonical: "pci dss", Synonyms: []string{"pci-dss", "pci", "payment card industry"}, Weight: 3, Category: "framework"},

	// tools
	{Canonical: "servicenow", Synonyms: []string{"service now", "servicenow grc"}, Weight: 2, Category: "tool"},
	{Canonical: "jira", Synonyms: []string{"atlassian jira", "jira software"}, Weight: 2, Category: "tool"},

	// cloud
	{Canonical: "aws", Synonyms: []string{"amazon web services", "aws cloud"}, Weight: 3, Category: "cloud"},
	{Canonical: "azure", Synonyms: []string{"microsoft azure", "azure cloud"}, Weight: 3, Category: "cloud"},

	// certifications
	{Canonical: "cissp", Synonyms: []string{"certified information systems security professional"}, Weight: 4, Category: "certification"},
	{Canonical: "cism", Synonyms: []string{"certified information security manager"}, Weight: 4, Category: "certification"},
	{Canonical: "cisa", Synonyms: []string{"certified information systems auditor"}, Weight: 3, Category: "certification"},
}

// contextPatterns catch phrasing that implies a concept without the literal
// term. Keyed by the canonical term they resolve to.
var contextPatterns = map[string][]*regexp.Regexp{
	"ato": {
		regexp.MustCompile(`obtain(?:ed|ing)?\s+(?:an?\s+)?authorit(?:y|ies)\s+to\s+operate`),
		regexp.MustCompile(`accreditation\s+(?:package|boundary|process)`),
	},
	"security assessment": {
		regexp.MustCompile(`manag(?:e|ed|ing)\s+(?:security\s+)?compliance\s+audits?`),
		regexp.MustCompile(`assess(?:ed|ing)?\s+(?:security\s+)?controls?`),
	},
	"continuous monitoring": {
		regexp.MustCompile(`ongoing\s+authorization`),
		regexp.MustCompile(`monitor(?:ed|ing)?\s+(?:security\s+)?controls?\s+on\s+an?\s+ongoing`),
	},
	"vulnerability management": {
		regexp.MustCompile(`scan(?:ned|ning)?\s+(?:systems?\s+)?for\s+vulnerabilit`),
		regexp.MustCompile(`remediat(?:e|ed|ing)\s+(?:security\s+)?findings?`),
	},
	"risk assessment": {
		regexp.MustCompile(`analyz(?:e|ed|ing)\s+(?:security\s+)?risks?`),
		regexp.MustCompile(`identif(?:y|ied|ying)\s+and\s+prioritiz(?:e|ed|ing)\s+risks?`),
	},
}

// termMatchers holds a compiled word-boundary matcher per canonical term and
// per synonym, indexed by taxonomy position. Plain substring checks would let
// short terms like "ato" or "pci" match inside unrelated words.
var termMatchers [][]*regexp.Regexp

func init() {
	termMatchers = make([][]*regexp.Regexp, len(taxonomy))
	for i, c := range taxonomy {
		terms := append([]string{c.Canonical}, c.Synonyms...)
		ms := make([]*regexp.Regexp, 0, len(terms))
		for _, t := range terms {
			ms = append(ms, regexp.MustCompile(`\b`+regexp.QuoteMeta(t)+`\b`))
		}
		termMatchers[i] = ms
	}
}

// conceptIn reports whether taxonomy entry i appears in text, either
// literally or via a context pattern. Text must already be lowercased.
func conceptIn(i int, text string) bool {
	for _, m := range termMatchers[i] {
		if m.MatchString(text) {
			return true
		}
	}
	for _, p := range contextPatterns[taxonomy[i].Canonical] {
		if p.MatchString(text) {
			return true
		}
	}
	return false
}
