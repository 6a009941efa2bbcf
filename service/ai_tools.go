package service

import (
	"strings"
	"text/template"

	"propcalc/domain"
)

type aiTool struct {
	info   domain.ToolInfo
	system string
	prompt *template.Template
}

func newTool(info domain.ToolInfo, system, prompt string) aiTool {
	return aiTool{
		info:   info,
		system: system,
		prompt: template.Must(template.New(info.Name).Option("missingkey=zero").Parse(prompt)),
	}
}

func (t aiTool) render(input domain.ToolInput) (string, error) {
	var b strings.Builder
	if err := t.prompt.Execute(&b, map[string]string(input)); err != nil {
		return "", err
	}
	return strings.TrimSpace(b.String()), nil
}

func field(name, label string, required bool, maxLength int) domain.ToolField {
	return domain.ToolField{Name: name, Label: label, Required: required, MaxLength: maxLength}
}

const copywriterSystem = `You are an experienced real estate copywriter and investment analyst in the United States. ` +
	`Write clearly, stay factual, never invent details the user did not provide, ` +
	`and comply with fair housing rules: do not describe or target buyers or tenants by protected characteristics.`

func defaultTools() []aiTool {
	return []aiTool{
		newTool(domain.ToolInfo{
			Name:        "listing-description",
			Title:       "Listing Description Generator",
			Description: "Turn property facts into a polished MLS-ready listing description.",
			Fields: []domain.ToolField{
				field("propertyType", "Property Type", true, 100),
				field("location", "Location", true, 200),
				field("bedrooms", "Bedrooms", false, 10),
				field("bathrooms", "Bathrooms", false, 10),
				field("squareFeet", "Square Feet", false, 20),
				field("features", "Key Features", true, 1000),
				{Name: "tone", Label: "Tone", MaxLength: 20, Options: []string{"professional", "warm", "luxury", "concise"}},
			},
		}, copywriterSystem, `
Write a listing description of 120 to 180 words{{with .tone}} in a {{.}} tone{{end}}.

Property type: {{.propertyType}}
Location: {{.location}}
{{with .bedrooms}}Bedrooms: {{.}}
{{end}}{{with .bathrooms}}Bathrooms: {{.}}
{{end}}{{with .squareFeet}}Square feet: {{.}}
{{end}}Features: {{.features}}

Return only the description text.`),

		newTool(domain.ToolInfo{
			Name:        "property-analysis",
			Title:       "Rental Property Analyzer",
			Description: "Get a structured first-pass read on a potential rental deal.",
			JSONMode:    true,
			Fields: []domain.ToolField{
				field("address", "Property Address or Area", true, 200),
				field("purchasePrice", "Purchase Price", true, 20),
				field("monthlyRent", "Expected Monthly Rent", true, 20),
				field("monthlyExpenses", "Monthly Expenses", false, 20),
				field("notes", "Notes", false, 1000),
			},
		}, copywriterSystem+` Respond only with a JSON object.`, `
Analyze this rental property as an investor would.

Address or area: {{.address}}
Purchase price: {{.purchasePrice}}
Expected monthly rent: {{.monthlyRent}}
{{with .monthlyExpenses}}Monthly expenses: {{.}}
{{end}}{{with .notes}}Notes: {{.}}
{{end}}
Return a JSON object with the keys "summary" (string), "strengths" (array of strings),
"risks" (array of strings), "onePercentRule" (boolean) and "verdict" (one of "pass", "review", "strong").`),

		newTool(domain.ToolInfo{
			Name:        "offer-letter",
			Title:       "Offer Letter Writer",
			Description: "Draft a personal cover letter to accompany a purchase offer.",
			Fields: []domain.ToolField{
				field("buyerName", "Buyer Name", true, 100),
				field("sellerName", "Seller Name", false, 100),
				field("propertyAddress", "Property Address", true, 200),
				field("offerPrice", "Offer Price", true, 20),
				field("personalNote", "What You Love About the Home", false, 1000),
			},
		}, copywriterSystem, `
Write a short, sincere offer letter from {{.buyerName}} to {{with .sellerName}}{{.}}{{else}}the seller{{end}}
for {{.propertyAddress}} with an offer of {{.offerPrice}}.
{{with .personalNote}}Mention this: {{.}}
{{end}}Keep it under 250 words and do not include personal details about the buyer's family, religion or background.`),

		newTool(domain.ToolInfo{
			Name:        "market-summary",
			Title:       "Local Market Summary",
			Description: "A plain-language overview of what to check in a local market before buying.",
			Fields: []domain.ToolField{
				field("location", "City or Neighborhood", true, 200),
				field("propertyType", "Property Type", false, 100),
				{Name: "investorGoal", Label: "Goal", MaxLength: 20, Options: []string{"cash-flow", "appreciation", "short-term-rental", "house-hack"}},
			},
		}, copywriterSystem, `
Summarize what an investor should research about the {{.location}} market{{with .propertyType}} for {{.}} properties{{end}}{{with .investorGoal}} with a {{.}} goal{{end}}.
Cover demand drivers, rent-to-price expectations, regulation to check and data sources to verify.
Say clearly that figures must be confirmed with current local data.`),

		newTool(domain.ToolInfo{
			Name:        "tenant-screening-email",
			Title:       "Tenant Application Response",
			Description: "Write a professional reply to a rental applicant.",
			Fields: []domain.ToolField{
				field("applicantName", "Applicant Name", true, 100),
				field("propertyAddress", "Property Address", true, 200),
				{Name: "decision", Label: "Decision", Required: true, MaxLength: 20, Options: []string{"approved", "denied", "more-info"}},
				field("details", "Details to Include", false, 1000),
			},
		}, copywriterSystem, `
Write an email to {{.applicantName}} about their application for {{.propertyAddress}}.
Decision: {{.decision}}.
{{with .details}}Include: {{.}}
{{end}}If the decision is denied, state that the applicant may request the reason in writing and keep the tone neutral.`),
	}
}
