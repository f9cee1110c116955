package curated

import (
	"time"

	"jobscout-engine/internal/domain"
)

// Postings returns the fixed fallback set injected when a run yields too
// little upstream data. Every entry is tagged SourceCurated so downstream
// stages and consumers can label it.
func Postings(now time.Time) []domain.RawPosting {
	posted := now.AddDate(0, 0, -2)

	return []domain.RawPosting{
		{
			ID:       "curated-usajobs-isso",
			Title:    "Information System Security Officer (ISSO)",
			Company:  "Department of Homeland Security",
			Location: "Washington, DC",
			URL:      "https://www.usajobs.gov/search/results/?k=information%20system%20security%20officer",
			Source:   domain.SourceCurated,
			PostedAt: posted,
			Description: "Serve as an ISSO supporting RMF activities under NIST 800-53: " +
				"security assessment and authorization, continuous monitoring, POA&M management, " +
				"and FISMA reporting for federal information systems.",
			Remote: false,
		},
		{
			ID:       "curated-usajobs-grc",
			Title:    "IT Specialist (INFOSEC) - Governance, Risk and Compliance",
			Company:  "General Services Administration",
			Location: "Washington, DC",
			URL:      "https://www.usajobs.gov/search/results/?k=governance%20risk%20compliance",
			Source:   domain.SourceCurated,
			PostedAt: posted,
			Description: "Support FedRAMP authorization packages, develop System Security Plans (SSP), " +
				"coordinate security control assessments, and track remediation through POA&Ms.",
			Remote: true,
		},
		{
			ID:       "curated-linkedin-compliance",
			Title:    "Cybersecurity Compliance Analyst",
			Company:  "Federal Contractor",
			Location: "Remote",
			URL:      "https://www.linkedin.com/jobs/search/?keywords=cybersecurity%20compliance%20analyst",
			Source:   domain.SourceCurated,
			PostedAt: posted,
			Description: "Perform risk assessments and vulnerability management against NIST 800-171, " +
				"support SOC 2 and ISO 27001 audit readiness, and maintain compliance documentation in ServiceNow.",
			Remote: true,
		},
		{
			ID:       "curated-dice-fedramp",
			Title:    "FedRAMP Security Analyst",
			Company:  "Cloud Services Provider",
			Location: "Arlington, VA",
			URL:      "https://www.dice.com/jobs?q=fedramp%20security%20analyst",
			Source:   domain.SourceCurated,
			PostedAt: posted,
			Description: "Drive ATO efforts for cloud offerings: prepare SSPs, coordinate with 3PAOs on " +
				"security assessments, manage continuous monitoring deliverables, and maintain POA&Ms in Jira.",
			Remote: false,
		},
		{
			ID:       "curated-adzuna-riskanalyst",
			Title:    "Information Security Risk Analyst",
			Company:  "Financial Services Firm",
			Location: "Washington, DC",
			URL:      "https://www.adzuna.com/search?q=information%20security%20risk%20analyst",
			Source:   domain.SourceCurated,
			PostedAt: posted,
			Description: "Conduct risk assessments, run the vulnerability management program, and report " +
				"against PCI DSS and SOC 2 obligations. CISSP or CISM preferred.",
			Remote: true,
		},
	}
}
