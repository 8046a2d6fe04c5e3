// Package agent defines the static assistant personas and the keyword router
// that decides which persona handles a message.
package agent

// Layer classifies where an agent sits in the org chart. It is presentational
// only and never alters behavior.
type Layer string

const (
	LayerSupervisor Layer = "supervisor"
	LayerLead       Layer = "lead"
	LayerExecution  Layer = "execution"
	LayerUtility    Layer = "utility"
)

// Definition is one assistant persona: a fixed system prompt selected by id.
type Definition struct {
	ID           string `json:"id"`
	Label        string `json:"label"`
	Role         string `json:"role"`
	Layer        Layer  `json:"layer"`
	SystemPrompt string `json:"-"`
}

// DefaultAgentID is the supervisor agent every fallback resolves to.
const DefaultAgentID = "chief"

// Agent identifiers.
const (
	Chief          = "chief"
	ProjectManager = "projectManager"
	WebEngineer    = "webEngineer"
	ContentWriter  = "contentWriter"
	SEOSpecialist  = "seoSpecialist"
	TaskRunner     = "taskRunner"
)

// definitions is the static agent table, loaded once at process start.
var definitions = []Definition{
	{
		ID:           Chief,
		Label:        "Chief of Staff",
		Role:         "Supervises the assistant team, answers general questions and delegates specialist work.",
		Layer:        LayerSupervisor,
		SystemPrompt: chiefPrompt,
	},
	{
		ID:           ProjectManager,
		Label:        "Project Manager",
		Role:         "Tracks projects, deadlines and deliverables for agency clients.",
		Layer:        LayerLead,
		SystemPrompt: projectManagerPrompt,
	},
	{
		ID:           WebEngineer,
		Label:        "Web Engineer",
		Role:         "Handles website pages, templates, deployments and technical site changes.",
		Layer:        LayerExecution,
		SystemPrompt: webEngineerPrompt,
	},
	{
		ID:           ContentWriter,
		Label:        "Content Writer",
		Role:         "Writes and edits posts, articles and marketing copy.",
		Layer:        LayerExecution,
		SystemPrompt: contentWriterPrompt,
	},
	{
		ID:           SEOSpecialist,
		Label:        "SEO Specialist",
		Role:         "Improves search ranking, keywords and metadata.",
		Layer:        LayerExecution,
		SystemPrompt: seoSpecialistPrompt,
	},
	{
		ID:           TaskRunner,
		Label:        "Task Runner",
		Role:         "Turns requests into tracked tasks and reports their status.",
		Layer:        LayerUtility,
		SystemPrompt: taskRunnerPrompt,
	},
}

var byID = func() map[string]Definition {
	m := make(map[string]Definition, len(definitions))
	for _, d := range definitions {
		m[d.ID] = d
	}
	return m
}()

// Lookup returns the definition for id. Unknown keys fall back to the default
// supervisor agent so soft references from stored rows always resolve.
func Lookup(id string) Definition {
	if d, ok := byID[id]; ok {
		return d
	}
	return byID[DefaultAgentID]
}

// Known reports whether id names a registered agent.
func Known(id string) bool {
	_, ok := byID[id]
	return ok
}

// All returns the agent table in registration order.
func All() []Definition {
	out := make([]Definition, len(definitions))
	copy(out, definitions)
	return out
}
