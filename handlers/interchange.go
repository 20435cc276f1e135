// ABOUTME: CSV interchange and dashboard MCP tool handlers
// ABOUTME: Implements export_contacts_csv, import_contacts_csv, and crm_dashboard
package handlers

import (
	"context"
	"fmt"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/harperreed/yongu/app"
	"github.com/harperreed/yongu/interchange"
	"github.com/harperreed/yongu/viz"
)

type DocumentHandlers struct {
	ctrl *app.Controller
	now  func() time.Time
}

func NewDocumentHandlers(ctrl *app.Controller) *DocumentHandlers {
	return &DocumentHandlers{ctrl: ctrl, now: time.Now}
}

type ExportCSVInput struct{}

type ExportCSVOutput struct {
	Filename string `json:"filename"`
	Count    int    `json:"count"`
	CSV      string `json:"csv"`
}

func (h *DocumentHandlers) ExportCSV(_ context.Context, request *mcp.CallToolRequest, input ExportCSVInput) (*mcp.CallToolResult, ExportCSVOutput, error) {
	doc := h.ctrl.Document()
	return nil, ExportCSVOutput{
		Filename: interchange.ExportFilename(h.now()),
		Count:    len(doc.Clients),
		CSV:      h.ctrl.ExportCSV(),
	}, nil
}

type ImportCSVInput struct {
	CSV string `json:"csv" jsonschema:"CSV text with a header row; needs a column whose header contains 'name'"`
}

type ImportCSVOutput struct {
	Imported int      `json:"imported"`
	Skipped  int      `json:"skipped"`
	Warnings []string `json:"warnings"`
}

func (h *DocumentHandlers) ImportCSV(ctx context.Context, request *mcp.CallToolRequest, input ImportCSVInput) (*mcp.CallToolResult, ImportCSVOutput, error) {
	res, err := h.ctrl.ImportCSV(ctx, input.CSV)
	if err != nil {
		return nil, ImportCSVOutput{}, fmt.Errorf("failed to import CSV: %w", err)
	}

	warnings := res.Warnings
	if warnings == nil {
		warnings = []string{}
	}
	return nil, ImportCSVOutput{
		Imported: len(res.Contacts),
		Skipped:  res.Skipped,
		Warnings: warnings,
	}, nil
}

type DashboardInput struct{}

type DashboardOutput struct {
	Text          string         `json:"text"`
	TotalContacts int            `json:"total_contacts"`
	ByStatus      map[string]int `json:"by_status"`
	ByContinent   map[string]int `json:"by_continent"`
	FollowUpsDue  []string       `json:"follow_ups_due"`
	StaleContacts int            `json:"stale_contacts"`
}

func (h *DocumentHandlers) Dashboard(_ context.Context, request *mcp.CallToolRequest, input DashboardInput) (*mcp.CallToolResult, DashboardOutput, error) {
	stats := viz.GenerateDashboardStats(h.ctrl.Document(), h.now())

	out := DashboardOutput{
		Text:          viz.RenderDashboard(stats),
		TotalContacts: stats.TotalContacts,
		ByStatus:      make(map[string]int, len(stats.ByStatus)),
		ByContinent:   make(map[string]int, len(stats.ByContinent)),
		FollowUpsDue:  make([]string, 0, len(stats.FollowUpsDue)),
		StaleContacts: len(stats.StaleContacts),
	}
	for s, n := range stats.ByStatus {
		out.ByStatus[string(s)] = n
	}
	for c, n := range stats.ByContinent {
		out.ByContinent[string(c)] = n
	}
	for _, f := range stats.FollowUpsDue {
		out.FollowUpsDue = append(out.FollowUpsDue, f.Name)
	}
	return nil, out, nil
}
