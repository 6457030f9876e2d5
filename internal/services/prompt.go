package services

import (
	"fmt"
)

type PromptTemplate string

const (
	TemplateRoleAndCompany PromptTemplate = "role_and_company"
	TemplateRoleOnly       PromptTemplate = "role_only"
	TemplateCompanyOnly    PromptTemplate = "company_only"
	TemplateGeneral        PromptTemplate = "general"
)

// SelectTemplate picks the prompt shape from which hints were supplied.
func SelectTemplate(role, company string) PromptTemplate {
	switch {
	case role != "" && company != "":
		return TemplateRoleAndCompany
	case role != "":
		return TemplateRoleOnly
	case company != "":
		return TemplateCompanyOnly
	default:
		return TemplateGeneral
	}
}

// RequestedFields lists the top-level keys the template asks the model for.
func (t PromptTemplate) RequestedFields() []string {
	switch t {
	case TemplateRoleAndCompany:
		return []string{"summary", "strengths", "shortcomings", "selection_chance", "selection_reasoning", "recommendations"}
	case TemplateRoleOnly:
		return []string{"summary", "strengths", "shortcomings", "recommended_companies", "selection_chance", "selection_reasoning", "recommendations"}
	case TemplateCompanyOnly:
		return []string{"summary", "strengths", "shortcomings", "recommended_roles", "selection_chance", "selection_reasoning", "recommendations"}
	default:
		return []string{"summary", "strengths", "shortcomings", "recommended_roles", "recommended_companies", "roadmap", "overall_assessment", "recommendations"}
	}
}

type PromptBuilder struct{}

func NewPromptBuilder() *PromptBuilder {
	return &PromptBuilder{}
}

// BuildAnalysisPrompt creates the résumé analysis prompt. The résumé text is appended verbatim.
func (pb *PromptBuilder) BuildAnalysisPrompt(resumeText, role, company string) (string, PromptTemplate) {
	template := SelectTemplate(role, company)

	switch template {
	case TemplateRoleAndCompany:
		return fmt.Sprintf(`Analyze the following resume for a %[1]s position at %[2]s.

Provide a detailed analysis in JSON format with the following structure:
{
  "summary": "Brief 2-3 sentence summary of the candidate",
  "strengths": ["list of key strengths relevant to %[1]s at %[2]s"],
  "shortcomings": ["specific weaknesses or missing skills for %[1]s at %[2]s"],
  "selection_chance": "percentage (e.g., 75%%)",
  "selection_reasoning": "Detailed explanation of why this percentage, what increases/decreases chances",
  "recommendations": ["specific actionable improvements for %[1]s at %[2]s"]
}

Resume text:
%[3]s`, role, company, resumeText), template

	case TemplateRoleOnly:
		return fmt.Sprintf(`Analyze the following resume for a %[1]s position.

Provide a detailed analysis in JSON format with the following structure:
{
  "summary": "Brief 2-3 sentence summary of the candidate",
  "strengths": ["list of key strengths relevant to %[1]s"],
  "shortcomings": ["specific weaknesses or missing skills for %[1]s"],
  "recommended_companies": ["companies that would be a good fit based on the profile"],
  "selection_chance": "percentage for typical %[1]s positions (e.g., 70%%)",
  "selection_reasoning": "Detailed explanation of the percentage",
  "recommendations": ["specific actionable improvements for %[1]s"]
}

Resume text:
%[2]s`, role, resumeText), template

	case TemplateCompanyOnly:
		return fmt.Sprintf(`Analyze the following resume for positions at %[1]s.

Provide a detailed analysis in JSON format with the following structure:
{
  "summary": "Brief 2-3 sentence summary of the candidate",
  "strengths": ["list of key strengths relevant to %[1]s"],
  "shortcomings": ["specific weaknesses or missing skills for %[1]s"],
  "recommended_roles": ["roles at %[1]s that would be a good fit"],
  "selection_chance": "percentage for positions at %[1]s (e.g., 65%%)",
  "selection_reasoning": "Detailed explanation of the percentage",
  "recommendations": ["specific actionable improvements for %[1]s"]
}

Resume text:
%[2]s`, company, resumeText), template

	default:
		return fmt.Sprintf(`Analyze the following resume and provide career guidance.

Provide a detailed analysis in JSON format with the following structure:
{
  "summary": "Brief 2-3 sentence summary of the candidate",
  "strengths": ["list of key strengths"],
  "shortcomings": ["areas for improvement"],
  "recommended_roles": ["roles that would be a best fit based on skills and experience"],
  "recommended_companies": ["types of companies or specific companies that match the profile"],
  "roadmap": {
    "short_term": ["steps for the next 0-6 months"],
    "mid_term": ["steps for the next 6-18 months"],
    "long_term": ["goals for the next 2-5 years"]
  },
  "overall_assessment": "General assessment of career readiness and marketability",
  "recommendations": ["specific actionable improvements"]
}

Resume text:
%s`, resumeText), template
	}
}
