package analysis

import (
	"strings"

	"gitalyzer/internal/models"
)

// Fallback builds a deterministic analysis from the repository context
// alone. It keeps the endpoint working when no API key was supplied or the
// model call failed. The context is structured line-by-line, so a few hints
// can be pulled out of it by hand.
func Fallback(repoContext string) models.Analysis {
	var description, languages string
	descFound, langFound := false, false
	for _, raw := range strings.Split(repoContext, "\n") {
		line := strings.TrimSpace(raw)
		if line == "" {
			continue
		}
		if !descFound && strings.HasPrefix(line, "Description:") {
			description = strings.TrimSpace(strings.SplitN(line, ":", 2)[1])
			descFound = true
		}
		if !langFound && strings.HasPrefix(line, "Languages:") {
			languages = strings.TrimSpace(strings.SplitN(line, ":", 2)[1])
			langFound = true
		}
	}

	headline := description
	if headline == "" {
		headline = "This repository does not include a description on GitHub."
	}

	topicsLine := "Not specified"
	primaryLanguage := "Unknown"
	if languages != "" {
		topicsLine = languages
		primaryLanguage = strings.SplitN(languages, ",", 2)[0]
	}

	return models.Analysis{
		ProjectSummary: headline,
		HowItHelpsPeople: "This project could be useful to people who are interested in exploring the code base. " +
			"Provide an OpenAI API key to unlock a tailored explanation.",
		MainFeatures: []string{
			"Automatic GitHub metadata gathering",
			"Displays the README excerpt if one exists",
			"Summarises recent commit messages for a quick update",
		},
		HowItWorks: []string{
			"The app downloads information directly from GitHub using their public API.",
			"It organises the repository details, language statistics, and README summary.",
			"Without an AI key it falls back to this simple overview to keep the experience working.",
		},
		TechStack: []string{
			"GitHub topics: " + topicsLine,
			"Primary language reported by GitHub: " + primaryLanguage,
			"Recent commits are highlighted to show ongoing work.",
		},
		GettingStarted: []string{
			"Paste a public GitHub repository URL into the form.",
			"Optionally provide an OpenAI API key so the AI guide can craft a custom explanation.",
			"Review the generated summary online or export it as a PDF.",
		},
		NextSteps: []string{
			"Add an OpenAI API key to unlock richer, human-friendly storytelling.",
			"Share the generated PDF with teammates who need a high-level overview.",
			"Explore the README and commits directly on GitHub for deeper technical context.",
		},
		Glossary: []models.GlossaryItem{
			{Term: "Repository", Definition: "A storage space on GitHub that holds a project's files."},
			{Term: "Commit", Definition: "A snapshot of changes developers save to the project."},
			{Term: "README", Definition: "A document that usually explains what the project is about."},
		},
	}
}
