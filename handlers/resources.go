// ABOUTME: MCP resource handlers for exposing CRM data
// ABOUTME: Provides read-only access to contacts, the pipeline, and follow-ups via URI
package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/harperreed/yongu/app"
	"github.com/harperreed/yongu/models"
)

type ResourceHandlers struct {
	ctrl *app.Controller
	now  func() time.Time
}

func NewResourceHandlers(ctrl *app.Controller) *ResourceHandlers {
	return &ResourceHandlers{ctrl: ctrl, now: time.Now}
}

// ReadResource handles resource read requests
func (h *ResourceHandlers) ReadResource(ctx context.Context, request *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
	uri := request.Params.URI
	// Parse the URI
	if !strings.HasPrefix(uri, "crm://") {
		return nil, fmt.Errorf("invalid URI scheme: expected crm://")
	}

	path := strings.TrimPrefix(uri, "crm://")
	parts := strings.Split(path, "/")

	switch parts[0] {
	case "contacts":
		if len(parts) == 1 || parts[1] == "" {
			return h.readAllContacts()
		}
		return h.readContact(parts[1])

	case "pipeline":
		return h.readPipeline()

	case "followups":
		return h.readFollowups()

	default:
		return nil, fmt.Errorf("unknown resource: %s", parts[0])
	}
}

func (h *ResourceHandlers) readAllContacts() (*mcp.ReadResourceResult, error) {
	return jsonResource("crm://contacts", h.ctrl.Document().Clients)
}

func (h *ResourceHandlers) readContact(id string) (*mcp.ReadResourceResult, error) {
	contact, err := h.ctrl.Contact(id)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch contact: %w", err)
	}
	return jsonResource("crm://contacts/"+id, contact)
}

type pipelineStage struct {
	Status   string   `json:"status"`
	Count    int      `json:"count"`
	Contacts []string `json:"contacts"`
}

func (h *ResourceHandlers) readPipeline() (*mcp.ReadResourceResult, error) {
	doc := h.ctrl.Document()

	stages := make([]pipelineStage, 0, len(models.Statuses))
	index := make(map[models.Status]int)
	for _, s := range models.Statuses {
		index[s] = len(stages)
		stages = append(stages, pipelineStage{Status: string(s), Contacts: []string{}})
	}
	for _, c := range doc.Clients {
		i, ok := index[c.Status]
		if !ok {
			i = len(stages)
			index[c.Status] = i
			stages = append(stages, pipelineStage{Status: string(c.Status), Contacts: []string{}})
		}
		stages[i].Count++
		stages[i].Contacts = append(stages[i].Contacts, c.Name)
	}

	return jsonResource("crm://pipeline", stages)
}

func (h *ResourceHandlers) readFollowups() (*mcp.ReadResourceResult, error) {
	due := h.ctrl.FollowUps(h.now())
	if due == nil {
		due = []models.Contact{}
	}
	return jsonResource("crm://followups", due)
}

func jsonResource(uri string, v any) (*mcp.ReadResourceResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal %s: %w", uri, err)
	}

	return &mcp.ReadResourceResult{Contents: []*mcp.ResourceContents{
		{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(data),
		},
	}}, nil
}
