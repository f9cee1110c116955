package match

import "strings"

// DeriveTerms turns profile text into the search terms the gatherer should
// run. Output order is deterministic for a given profile.
func DeriveTerms(profileText string) []string {
	profile := strings.ToLower(profileText)

	var out []string
	seen := map[string]bool{}
	add := func(terms ...string) {
		for _, t := range terms {
			if !seen[t] {
				seen[t] = true
				out = append(out, t)
			}
		}
	}

	add("GRC Engineer", "Security Engineer", "Cyber Security Analyst", "Information Security Manager")

	anyOf := func(markers ...string) bool {
		for _, m := range markers {
			if strings.Contains(profile, m) {
				return true
			}
		}
		return false
	}

	if anyOf("aws", "azure", "gcp", "cloud") {
		add("Cloud Security Engineer", "Cloud Compliance")
	}
	if anyOf("risk assessment", "risk management", "third party") {
		add("Risk Management Analyst", "Third Party Risk", "IT Risk Analyst")
	}
	if anyOf("fedramp", "fisma", "rmf", "ato") {
		add("ISSO", "FedRAMP Consultant", "Security Control Assessor")
	}
	if anyOf("privacy", "gdpr", "ccpa") {
		add("Privacy Engineer", "Data Privacy Analyst")
	}
	if anyOf("audit", "soc 2", "iso 27001") {
		add("IT Auditor", "Compliance Analyst", "Security Compliance Manager")
	}
	if anyOf("manager", "lead", "director") {
		add("GRC Manager", "Security Manager")
	} else {
		add("Security Analyst", "Cybersecurity Analyst")
	}
	if anyOf("python", "automation", "scripting") {
		add("Security Automation Engineer", "DevSecOps")
	}

	if len(out) < 5 {
		add("Information Security Analyst", "Cybersecurity Consultant", "Governance Risk Compliance")
	}

	return out
}
