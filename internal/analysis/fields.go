package analysis

// SystemPrompt frames every model call as a plain-language guide for
// non-programmers.
const SystemPrompt = "You are Gitalyzer, an AI guide that explains software projects in plain language. " +
	"Assume the listener has no background in programming. Use friendly, non-technical " +
	"language, keep sentences short, and provide helpful analogies when possible. " +
	"Highlight what problems the project solves, what someone can do with it, and the " +
	"minimum technical steps needed to try it out. Always sound encouraging and practical."

type fieldSpec struct {
	name        string
	description string
}

// analysisFields is the schema of the structured analysis, in the order the
// prompt presents it. Keeping it in one place avoids duplication between the
// prompt, the schema endpoint, and the CLI.
var analysisFields = []fieldSpec{
	{"project_summary", "A warm, one-paragraph overview that explains the project at a very high level."},
	{"how_it_helps_people", "A plain-language explanation of the real-world value it delivers."},
	{"main_features", "Three to five bullet points describing the most important things the project can do."},
	{"how_it_works", "Step-by-step bullets that describe, without jargon, how the project behaves behind the scenes."},
	{"tech_stack", "A bullet list of the main tools, frameworks, or languages, each explained simply."},
	{"getting_started", "A checklist someone could follow to see the project running, phrased for non-experts."},
	{"next_steps", "Friendly suggestions for future improvements or directions to explore."},
	{"glossary", "A short dictionary of tricky words with beginner-friendly definitions."},
}

// FieldSchema returns the analysis field names mapped to their descriptions.
func FieldSchema() map[string]string {
	m := make(map[string]string, len(analysisFields))
	for _, f := range analysisFields {
		m[f.name] = f.description
	}
	return m
}
