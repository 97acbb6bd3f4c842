package llm

import (
	"strings"

	"github.com/linkscout/linkscout-api/internal/ports"
)

const draftSystemPrompt = `You are an expert at writing LinkedIn connection request messages. ` +
	`Write a single message only. Never invent facts about the sender or the recipient ` +
	`beyond what is provided. Return only the message text, with no quotes or commentary.`

const extractSystemPrompt = `You are a data extraction assistant. Extract professional profile information from the given text and return ONLY valid JSON with no additional text or markdown formatting.

Return a JSON object with these exact keys:
- education: array of school/university names
- experience: array of company names (past and present)
- current_company: string (most recent company, or empty string)
- current_role: string (most recent job title, or empty string)
- interests: array of skills, interests, or focus areas (5-10 items)

Example output:
{
  "education": ["University of Hong Kong", "MIT"],
  "experience": ["Google", "Stripe", "Startup Inc"],
  "current_company": "Startup Inc",
  "current_role": "Product Manager",
  "interests": ["AI", "B2B SaaS", "product management", "developer tools", "machine learning"]
}`

// buildDraftPrompt assembles the user prompt for a connection-request draft.
func buildDraftPrompt(in ports.DraftInput) string {
	var b strings.Builder

	b.WriteString("Write a professional LinkedIn connection request message.\n\n")

	b.WriteString("From: ")
	if in.SenderName != "" {
		b.WriteString(in.SenderName)
	} else {
		b.WriteString("User")
	}
	if in.SenderRole != "" {
		b.WriteString(", " + in.SenderRole)
	}
	if in.SenderCompany != "" {
		b.WriteString(" at " + in.SenderCompany)
	}
	b.WriteString("\n")

	b.WriteString("To: " + in.RecipientName)
	if in.School != "" {
		b.WriteString(" (" + in.School + " alumni)")
	}
	if in.Company != "" {
		b.WriteString(" at " + in.Company)
	}
	b.WriteString("\n\n")

	if len(in.Commonalities) > 0 {
		b.WriteString("Commonalities to highlight:\n")
		for _, c := range in.Commonalities {
			b.WriteString("- " + c + "\n")
		}
		b.WriteString("\n")
	}

	if in.SenderInterest != "" {
		b.WriteString("Sender's interests/focus: " + in.SenderInterest + "\n\n")
	}

	b.WriteString("Requirements:\n")
	b.WriteString("- Maximum 250 characters (strict LinkedIn connection request limit)\n")
	b.WriteString("- Professional but warm tone\n")
	if len(in.Commonalities) > 0 {
		b.WriteString("- Lead with the commonality naturally\n")
	} else {
		b.WriteString("- Focus on mutual interests or school connection\n")
	}
	b.WriteString("- Include a subtle reason to connect\n")
	b.WriteString(`- No generic phrases like "I came across your profile"` + "\n")
	b.WriteString("- Make it feel personal and genuine\n")
	b.WriteString("- Do NOT use emojis")

	return b.String()
}
