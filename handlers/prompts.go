// ABOUTME: MCP prompt handlers for reusable CRM workflow templates
// ABOUTME: Provides contact summary, follow-up, and pipeline review prompts
package handlers

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/harperreed/yongu/app"
	"github.com/harperreed/yongu/models"
	"github.com/harperreed/yongu/viz"
)

type PromptHandlers struct {
	ctrl *app.Controller
	now  func() time.Time
}

func NewPromptHandlers(ctrl *app.Controller) *PromptHandlers {
	return &PromptHandlers{ctrl: ctrl, now: time.Now}
}

// GetPrompt generates the prompt message based on the template
func (h *PromptHandlers) GetPrompt(ctx context.Context, request *mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
	name := request.Params.Name
	arguments := request.Params.Arguments
	switch name {
	case "contact-summary":
		return h.getContactSummaryPrompt(arguments)
	case "follow-up-suggestions":
		return h.getFollowUpSuggestionsPrompt(arguments)
	case "pipeline-review":
		return h.getPipelineReviewPrompt()
	default:
		return nil, fmt.Errorf("unknown prompt: %s", name)
	}
}

func (h *PromptHandlers) getContactSummaryPrompt(args map[string]string) (*mcp.GetPromptResult, error) {
	contactID, ok := args["contact_id"]
	if !ok {
		return nil, fmt.Errorf("contact_id is required")
	}

	contact, err := h.ctrl.Contact(contactID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch contact: %w", err)
	}

	// Build the prompt
	var promptText strings.Builder
	promptText.WriteString("Please provide a comprehensive summary of this contact:\n\n")
	promptText.WriteString(fmt.Sprintf("Name: %s\n", contact.Name))
	promptText.WriteString(fmt.Sprintf("Company: %s\n", contact.Company))
	if contact.Role != "" {
		promptText.WriteString(fmt.Sprintf("Role: %s\n", contact.Role))
	}
	promptText.WriteString(fmt.Sprintf("Status: %s (since %s)\n", contact.Status, contact.StatusUpdatedAt.Format("2006-01-02")))
	promptText.WriteString(fmt.Sprintf("Sector: %s, %s\n", contact.Sector, contact.Continent))
	if contact.Rate != "" {
		promptText.WriteString(fmt.Sprintf("Rate: %s\n", contact.Rate))
	}
	if contact.LastContactDate != nil {
		promptText.WriteString(fmt.Sprintf("Last Contacted: %s\n", contact.LastContactDate.Format("2006-01-02")))
	}
	if len(contact.Logs) > 0 {
		promptText.WriteString("\nInteraction history:\n")
		for _, entry := range contact.Logs {
			promptText.WriteString(fmt.Sprintf("- %s %s %s\n", entry.Date.Format("2006-01-02"), entry.Type, entry.Notes))
		}
	}
	if contact.Notes != "" {
		promptText.WriteString(fmt.Sprintf("\nNotes: %s\n", contact.Notes))
	}

	promptText.WriteString("\nPlease analyze this contact and provide:")
	promptText.WriteString("\n1. A brief summary of their role and the work so far")
	promptText.WriteString("\n2. Recommendations for next steps or follow-up actions")
	promptText.WriteString("\n3. Any patterns or insights from their interaction history")

	return userPrompt(fmt.Sprintf("Summary for contact: %s", contact.Name), promptText.String()), nil
}

func (h *PromptHandlers) getFollowUpSuggestionsPrompt(args map[string]string) (*mcp.GetPromptResult, error) {
	// Default to 30 days
	threshold := viz.StaleAfterDays
	if d, ok := args["days_since_contact"]; ok {
		n, err := strconv.Atoi(d)
		if err != nil || n < 0 {
			return nil, fmt.Errorf("days_since_contact must be a non-negative number")
		}
		threshold = n
	}

	now := h.now()
	var promptText strings.Builder
	promptText.WriteString(fmt.Sprintf("Contacts that may need follow-up (no contact in %d+ days):\n\n", threshold))

	count := 0
	for _, contact := range h.ctrl.Contacts(app.Filter{}) {
		if contact.Status == models.StatusArchived || contact.Status == models.StatusCompleted {
			continue
		}
		days := contact.DaysSinceContact(now)
		switch {
		case days < 0:
			promptText.WriteString(fmt.Sprintf("- %s at %s (never contacted)\n", contact.Name, contact.Company))
		case days >= threshold:
			promptText.WriteString(fmt.Sprintf("- %s at %s (%d days, %s)\n", contact.Name, contact.Company, days, contact.Status))
		default:
			continue
		}
		count++
	}

	if count == 0 {
		promptText.WriteString("All contacts have been contacted recently.\n")
	}

	promptText.WriteString("\nPlease:")
	promptText.WriteString("\n1. Prioritize which contacts to reach out to first")
	promptText.WriteString("\n2. Suggest personalized outreach approaches for each")
	promptText.WriteString("\n3. Identify any patterns in follow-up gaps")

	return userPrompt("Follow-up suggestions for contacts", promptText.String()), nil
}

func (h *PromptHandlers) getPipelineReviewPrompt() (*mcp.GetPromptResult, error) {
	stats := viz.GenerateDashboardStats(h.ctrl.Document(), h.now())

	var promptText strings.Builder
	promptText.WriteString("Here is my freelance pipeline:\n\n")
	promptText.WriteString(viz.RenderDashboard(stats))
	promptText.WriteString("\nPlease review it and suggest where to focus this week.")

	return userPrompt("Pipeline review", promptText.String()), nil
}

func userPrompt(description, text string) *mcp.GetPromptResult {
	return &mcp.GetPromptResult{
		Description: description,
		Messages: []*mcp.PromptMessage{
			{
				Role:    "user",
				Content: &mcp.TextContent{Text: text},
			},
		},
	}
}
