package agent

import "strings"

// Rule maps a keyword set to a target agent. Rules are evaluated in order;
// the first rule with any matching keyword wins.
type Rule struct {
	Keywords []string
	Target   string
}

// routingRules is an ordered list, not a set. Rule order is the sole
// tie-break, so routing stays reproducible.
var routingRules = []Rule{
	{Keywords: []string{"deadline", "timeline", "milestone", "deliverable", "schedule"}, Target: ProjectManager},
	{Keywords: []string{"page", "website", "deploy", "template", "navigation", "redirect"}, Target: WebEngineer},
	{Keywords: []string{"post", "article", "blog", "copy", "newsletter"}, Target: ContentWriter},
	{Keywords: []string{"seo", "ranking", "keyword", "search", "metadata"}, Target: SEOSpecialist},
	{Keywords: []string{"task", "todo", "remind", "follow up"}, Target: TaskRunner},
}

// Route maps (current agent, message text) to the agent that should handle
// the message. Matching is case-insensitive substring against the ordered
// rule table; no match falls back to the current agent, and an empty current
// agent falls back to the default supervisor. Pure function, no I/O.
func Route(currentAgent, text string) string {
	lowered := strings.ToLower(text)
	for _, rule := range routingRules {
		for _, kw := range rule.Keywords {
			if strings.Contains(lowered, kw) {
				return rule.Target
			}
		}
	}
	if currentAgent != "" {
		return currentAgent
	}
	return DefaultAgentID
}

// Rules returns a copy of the routing table in evaluation order.
func Rules() []Rule {
	out := make([]Rule, len(routingRules))
	copy(out, routingRules)
	return out
}
