// ABOUTME: Contact MCP tool handlers
// ABOUTME: Implements find, add, update, status, log, and delete tools over the controller
package handlers

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/harperreed/yongu/app"
	"github.com/harperreed/yongu/models"
)

const timeFormat = "2006-01-02T15:04:05Z07:00"

type ContactHandlers struct {
	ctrl *app.Controller
	now  func() time.Time
}

func NewContactHandlers(ctrl *app.Controller) *ContactHandlers {
	return &ContactHandlers{ctrl: ctrl, now: time.Now}
}

type LogOutput struct {
	ID    string `json:"id"`
	Date  string `json:"date"`
	Type  string `json:"type"`
	Notes string `json:"notes,omitempty"`
}

type ContactOutput struct {
	ID              string      `json:"id"`
	Name            string      `json:"name"`
	Company         string      `json:"company"`
	Role            string      `json:"role,omitempty"`
	Status          string      `json:"status"`
	StatusUpdatedAt string      `json:"status_updated_at"`
	Sector          string      `json:"sector"`
	Continent       string      `json:"continent"`
	Email           string      `json:"email,omitempty"`
	Phone           string      `json:"phone,omitempty"`
	Website         string      `json:"website,omitempty"`
	Location        string      `json:"location,omitempty"`
	Rate            string      `json:"rate,omitempty"`
	Notes           string      `json:"notes,omitempty"`
	Tags            []string    `json:"tags"`
	LastContactDate *string     `json:"last_contact_date,omitempty"`
	NextFollowUp    *string     `json:"next_follow_up,omitempty"`
	Logs            []LogOutput `json:"logs"`
}

type AddContactInput struct {
	Name      string   `json:"name" jsonschema:"Contact name (required)"`
	Company   string   `json:"company" jsonschema:"Company or studio name (required)"`
	Role      string   `json:"role,omitempty" jsonschema:"Job title or role"`
	Status    string   `json:"status,omitempty" jsonschema:"Pipeline status: Old, New, Contacted, Negotiating, Active, Completed, Archived (default New)"`
	Sector    string   `json:"sector,omitempty" jsonschema:"Sector: Film, Television, Advertising, Games, Animation, Architecture, Music, Other (default Other)"`
	Continent string   `json:"continent,omitempty" jsonschema:"Continent: Europe, North America, South America, Asia, Africa, Oceania (default Europe)"`
	Email     string   `json:"email,omitempty" jsonschema:"Contact email address"`
	Phone     string   `json:"phone,omitempty" jsonschema:"Contact phone number"`
	Website   string   `json:"website,omitempty" jsonschema:"Website URL"`
	Location  string   `json:"location,omitempty" jsonschema:"City or region"`
	Rate      string   `json:"rate,omitempty" jsonschema:"Agreed or quoted rate, free text"`
	Notes     string   `json:"notes,omitempty" jsonschema:"Additional notes about the contact"`
	Tags      []string `json:"tags,omitempty" jsonschema:"Tags such as tools or skills"`
}

func (h *ContactHandlers) AddContact(ctx context.Context, request *mcp.CallToolRequest, input AddContactInput) (*mcp.CallToolResult, ContactOutput, error) {
	if strings.TrimSpace(input.Name) == "" {
		return nil, ContactOutput{}, fmt.Errorf("name is required")
	}
	if strings.TrimSpace(input.Company) == "" {
		return nil, ContactOutput{}, fmt.Errorf("company is required")
	}

	contact := models.NewContact(input.Name, input.Company, h.now())
	contact.Role = input.Role
	contact.Email = input.Email
	contact.Phone = input.Phone
	contact.Website = input.Website
	contact.Location = input.Location
	contact.Rate = input.Rate
	contact.Notes = input.Notes
	for _, tag := range input.Tags {
		contact.AddTag(tag)
	}
	if err := applyClassification(&contact, input.Status, input.Sector, input.Continent); err != nil {
		return nil, ContactOutput{}, err
	}

	added, err := h.ctrl.AddContact(ctx, contact)
	if err != nil {
		return nil, ContactOutput{}, fmt.Errorf("failed to add contact: %w", err)
	}

	return nil, contactToOutput(&added), nil
}

type FindContactsInput struct {
	Query     string `json:"query,omitempty" jsonschema:"Search text (name, company, role, email, location, notes, tags)"`
	Status    string `json:"status,omitempty" jsonschema:"Filter by pipeline status"`
	Sector    string `json:"sector,omitempty" jsonschema:"Filter by sector"`
	Continent string `json:"continent,omitempty" jsonschema:"Filter by continent"`
	Tag       string `json:"tag,omitempty" jsonschema:"Filter by tag"`
	Limit     int    `json:"limit,omitempty" jsonschema:"Maximum number of results (default 10)"`
}

type FindContactsOutput struct {
	Contacts []ContactOutput `json:"contacts"`
	Total    int             `json:"total"`
}

func (h *ContactHandlers) FindContacts(_ context.Context, request *mcp.CallToolRequest, input FindContactsInput) (*mcp.CallToolResult, FindContactsOutput, error) {
	limit := input.Limit
	if limit <= 0 {
		limit = 10
	}

	contacts := h.ctrl.Contacts(app.Filter{
		Query:     input.Query,
		Status:    models.Status(input.Status),
		Sector:    models.Sector(input.Sector),
		Continent: models.Continent(input.Continent),
		Tag:       input.Tag,
	})

	result := make([]ContactOutput, 0, min(limit, len(contacts)))
	for i := range contacts {
		if len(result) == limit {
			break
		}
		result = append(result, contactToOutput(&contacts[i]))
	}

	return nil, FindContactsOutput{Contacts: result, Total: len(contacts)}, nil
}

type UpdateContactInput struct {
	ID        string   `json:"id" jsonschema:"Contact ID (required)"`
	Name      string   `json:"name,omitempty" jsonschema:"Updated contact name"`
	Company   string   `json:"company,omitempty" jsonschema:"Updated company"`
	Role      string   `json:"role,omitempty" jsonschema:"Updated role"`
	Sector    string   `json:"sector,omitempty" jsonschema:"Updated sector"`
	Continent string   `json:"continent,omitempty" jsonschema:"Updated continent"`
	Email     string   `json:"email,omitempty" jsonschema:"Updated email address"`
	Phone     string   `json:"phone,omitempty" jsonschema:"Updated phone number"`
	Location  string   `json:"location,omitempty" jsonschema:"Updated location"`
	Rate      string   `json:"rate,omitempty" jsonschema:"Updated rate"`
	Notes     string   `json:"notes,omitempty" jsonschema:"Updated notes"`
	AddTags   []string `json:"add_tags,omitempty" jsonschema:"Tags to add"`
	FollowUp  string   `json:"next_follow_up,omitempty" jsonschema:"Next follow-up date (YYYY-MM-DD or RFC3339)"`
}

func (h *ContactHandlers) UpdateContact(ctx context.Context, request *mcp.CallToolRequest, input UpdateContactInput) (*mcp.CallToolResult, ContactOutput, error) {
	if input.ID == "" {
		return nil, ContactOutput{}, fmt.Errorf("id is required")
	}

	contact, err := h.ctrl.Contact(input.ID)
	if err != nil {
		return nil, ContactOutput{}, err
	}

	// Update fields if provided
	set := func(dst *string, v string) {
		if v != "" {
			*dst = v
		}
	}
	set(&contact.Name, input.Name)
	set(&contact.Company, input.Company)
	set(&contact.Role, input.Role)
	set(&contact.Email, input.Email)
	set(&contact.Phone, input.Phone)
	set(&contact.Location, input.Location)
	set(&contact.Rate, input.Rate)
	set(&contact.Notes, input.Notes)
	for _, tag := range input.AddTags {
		contact.AddTag(tag)
	}
	if err := applyClassification(&contact, "", input.Sector, input.Continent); err != nil {
		return nil, ContactOutput{}, err
	}
	if input.FollowUp != "" {
		due, err := parseDate(input.FollowUp)
		if err != nil {
			return nil, ContactOutput{}, fmt.Errorf("invalid next_follow_up: %w", err)
		}
		contact.NextFollowUp = &due
	}

	if err := h.ctrl.UpdateContact(ctx, contact); err != nil {
		return nil, ContactOutput{}, fmt.Errorf("failed to update contact: %w", err)
	}

	updated, err := h.ctrl.Contact(input.ID)
	if err != nil {
		return nil, ContactOutput{}, err
	}
	return nil, contactToOutput(&updated), nil
}

type SetContactStatusInput struct {
	ID     string `json:"id" jsonschema:"Contact ID (required)"`
	Status string `json:"status" jsonschema:"New pipeline status (required)"`
}

func (h *ContactHandlers) SetContactStatus(ctx context.Context, request *mcp.CallToolRequest, input SetContactStatusInput) (*mcp.CallToolResult, ContactOutput, error) {
	if input.ID == "" {
		return nil, ContactOutput{}, fmt.Errorf("id is required")
	}
	status, ok := models.ParseStatus(input.Status)
	if !ok {
		return nil, ContactOutput{}, fmt.Errorf("unknown status %q", input.Status)
	}

	if err := h.ctrl.SetStatus(ctx, input.ID, status); err != nil {
		return nil, ContactOutput{}, fmt.Errorf("failed to set status: %w", err)
	}

	contact, err := h.ctrl.Contact(input.ID)
	if err != nil {
		return nil, ContactOutput{}, err
	}
	return nil, contactToOutput(&contact), nil
}

type LogContactInteractionInput struct {
	ContactID       string `json:"contact_id" jsonschema:"Contact ID (required)"`
	Type            string `json:"type,omitempty" jsonschema:"Interaction type: Email, Call, Meeting, Social (default Email)"`
	Note            string `json:"note,omitempty" jsonschema:"Note about the interaction"`
	InteractionDate string `json:"interaction_date,omitempty" jsonschema:"Date of interaction (ISO 8601 format, defaults to now)"`
}

func (h *ContactHandlers) LogContactInteraction(ctx context.Context, request *mcp.CallToolRequest, input LogContactInteractionInput) (*mcp.CallToolResult, ContactOutput, error) {
	if input.ContactID == "" {
		return nil, ContactOutput{}, fmt.Errorf("contact_id is required")
	}

	entry := models.LogEntry{Notes: input.Note}
	if input.Type != "" {
		logType, ok := models.ParseLogType(input.Type)
		if !ok {
			return nil, ContactOutput{}, fmt.Errorf("unknown interaction type %q", input.Type)
		}
		entry.Type = logType
	}

	// Parse interaction date or use current time
	if input.InteractionDate != "" {
		parsedTime, err := parseDate(input.InteractionDate)
		if err != nil {
			return nil, ContactOutput{}, fmt.Errorf("invalid interaction_date format (use ISO 8601/RFC3339): %w", err)
		}
		entry.Date = parsedTime
	}

	if _, err := h.ctrl.AddLog(ctx, input.ContactID, entry); err != nil {
		return nil, ContactOutput{}, fmt.Errorf("failed to log interaction: %w", err)
	}

	// Reload contact to get updated values
	contact, err := h.ctrl.Contact(input.ContactID)
	if err != nil {
		return nil, ContactOutput{}, err
	}
	return nil, contactToOutput(&contact), nil
}

type DeleteContactInput struct {
	ID string `json:"id" jsonschema:"Contact ID (required)"`
}

type DeleteContactOutput struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

func (h *ContactHandlers) DeleteContact(ctx context.Context, request *mcp.CallToolRequest, input DeleteContactInput) (*mcp.CallToolResult, DeleteContactOutput, error) {
	if input.ID == "" {
		return nil, DeleteContactOutput{}, fmt.Errorf("id is required")
	}

	contact, err := h.ctrl.Contact(input.ID)
	if err != nil {
		return nil, DeleteContactOutput{}, err
	}

	if err := h.ctrl.DeleteContact(ctx, input.ID); err != nil {
		return nil, DeleteContactOutput{}, fmt.Errorf("failed to delete contact: %w", err)
	}

	return nil, DeleteContactOutput{
		Success: true,
		Message: fmt.Sprintf("Deleted contact: %s (%s)", contact.Name, input.ID),
	}, nil
}

// applyClassification sets the enum fields that are non-blank. Labels are
// matched case-insensitively; anything else is rejected.
func applyClassification(c *models.Contact, status, sector, continent string) error {
	if status != "" {
		s, ok := models.ParseStatus(status)
		if !ok {
			return fmt.Errorf("unknown status %q", status)
		}
		c.Status = s
	}
	if sector != "" {
		s, ok := models.ParseSector(sector)
		if !ok {
			return fmt.Errorf("unknown sector %q", sector)
		}
		c.Sector = s
	}
	if continent != "" {
		ct, ok := models.ParseContinent(continent)
		if !ok {
			return fmt.Errorf("unknown continent %q", continent)
		}
		c.Continent = ct
	}
	return nil
}

func parseDate(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02", s)
}

func contactToOutput(contact *models.Contact) ContactOutput {
	output := ContactOutput{
		ID:              contact.ID,
		Name:            contact.Name,
		Company:         contact.Company,
		Role:            contact.Role,
		Status:          string(contact.Status),
		StatusUpdatedAt: contact.StatusUpdatedAt.Format(timeFormat),
		Sector:          string(contact.Sector),
		Continent:       string(contact.Continent),
		Email:           contact.Email,
		Phone:           contact.Phone,
		Website:         contact.Website,
		Location:        contact.Location,
		Rate:            contact.Rate,
		Notes:           contact.Notes,
		Tags:            contact.Tags,
		Logs:            make([]LogOutput, 0, len(contact.Logs)),
	}
	if output.Tags == nil {
		output.Tags = []string{}
	}

	if contact.LastContactDate != nil {
		lcd := contact.LastContactDate.Format(timeFormat)
		output.LastContactDate = &lcd
	}
	if contact.NextFollowUp != nil {
		nfu := contact.NextFollowUp.Format(timeFormat)
		output.NextFollowUp = &nfu
	}

	for _, entry := range contact.Logs {
		output.Logs = append(output.Logs, LogOutput{
			ID:    entry.ID,
			Date:  entry.Date.Format(timeFormat),
			Type:  string(entry.Type),
			Notes: entry.Notes,
		})
	}

	return output
}
