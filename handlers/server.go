// ABOUTME: MCP server assembly
// ABOUTME: Registers every CRM tool, resource, and prompt against one controller
package handlers

import (
	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/harperreed/yongu/app"
)

// NewServer builds an MCP server whose tools read and write through ctrl.
func NewServer(ctrl *app.Controller, version string) *mcp.Server {
	contactHandlers := NewContactHandlers(ctrl)
	documentHandlers := NewDocumentHandlers(ctrl)
	vizHandlers := NewVizHandlers(ctrl)
	resourceHandlers := NewResourceHandlers(ctrl)
	promptHandlers := NewPromptHandlers(ctrl)

	server := mcp.NewServer(&mcp.Implementation{
		Name:    "yongu",
		Version: version,
	}, nil)

	// Register tools
	mcp.AddTool(server, &mcp.Tool{
		Name:        "find_contacts",
		Description: "Search contacts by text, status, sector, continent, or tag",
	}, contactHandlers.FindContacts)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "add_contact",
		Description: "Add a new contact to the CRM",
	}, contactHandlers.AddContact)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "update_contact",
		Description: "Update an existing contact's information",
	}, contactHandlers.UpdateContact)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "set_contact_status",
		Description: "Move a contact to another pipeline status",
	}, contactHandlers.SetContactStatus)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "log_contact_interaction",
		Description: "Log an interaction with a contact and update last contact date",
	}, contactHandlers.LogContactInteraction)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "delete_contact",
		Description: "Delete a contact and its interaction history",
	}, contactHandlers.DeleteContact)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "export_contacts_csv",
		Description: "Export every contact as CSV text",
	}, documentHandlers.ExportCSV)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "import_contacts_csv",
		Description: "Import contacts from CSV text; columns are matched by header keywords",
	}, documentHandlers.ImportCSV)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "crm_dashboard",
		Description: "Pipeline, geography, and follow-up overview",
	}, documentHandlers.Dashboard)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "generate_graph",
		Description: "Generate a GraphViz DOT graph of the pipeline or of contacts by continent",
	}, vizHandlers.GenerateGraph)

	// Register resources
	server.AddResource(&mcp.Resource{
		URI:         "crm://contacts",
		Name:        "contacts",
		Description: "Every contact as JSON",
		MIMEType:    "application/json",
	}, resourceHandlers.ReadResource)

	server.AddResourceTemplate(&mcp.ResourceTemplate{
		URITemplate: "crm://contacts/{id}",
		Name:        "contact",
		Description: "One contact with its interaction logs",
		MIMEType:    "application/json",
	}, resourceHandlers.ReadResource)

	server.AddResource(&mcp.Resource{
		URI:         "crm://pipeline",
		Name:        "pipeline",
		Description: "Contacts grouped by pipeline status",
		MIMEType:    "application/json",
	}, resourceHandlers.ReadResource)

	server.AddResource(&mcp.Resource{
		URI:         "crm://followups",
		Name:        "followups",
		Description: "Contacts whose follow-up date has arrived",
		MIMEType:    "application/json",
	}, resourceHandlers.ReadResource)

	// Register prompts
	server.AddPrompt(&mcp.Prompt{
		Name:        "contact-summary",
		Description: "Summarize one contact and suggest next steps",
		Arguments: []*mcp.PromptArgument{
			{Name: "contact_id", Description: "Contact ID", Required: true},
		},
	}, promptHandlers.GetPrompt)

	server.AddPrompt(&mcp.Prompt{
		Name:        "follow-up-suggestions",
		Description: "Contacts that have gone quiet, with outreach suggestions",
		Arguments: []*mcp.PromptArgument{
			{Name: "days_since_contact", Description: "Days without contact (default 30)"},
		},
	}, promptHandlers.GetPrompt)

	server.AddPrompt(&mcp.Prompt{
		Name:        "pipeline-review",
		Description: "Review the whole pipeline",
	}, promptHandlers.GetPrompt)

	return server
}
