package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/harperreed/yongu/models"
)

// Form field order.
const (
	fieldName = iota
	fieldCompany
	fieldRole
	fieldEmail
	fieldPhone
	fieldLocation
	fieldRate
	fieldSector
	fieldContinent
	fieldTags
	fieldNotes
	fieldCount
)

func (m Model) renderEditView() string {
	var s strings.Builder

	// Title
	if m.selectedID == "" {
		s.WriteString(titleStyle.Render("NEW CONTACT"))
	} else {
		s.WriteString(titleStyle.Render("EDIT CONTACT"))
	}
	s.WriteString("\n\n")

	// Form fields
	for i, input := range m.formInputs {
		if i == m.focusIndex {
			s.WriteString("> ")
		} else {
			s.WriteString("  ")
		}
		s.WriteString(input.View())
		s.WriteString("\n")
	}

	s.WriteString("\n")

	if m.err != nil {
		s.WriteString(errorStyle.Render("Error: " + m.err.Error()))
		s.WriteString("\n")
	}

	// Help
	s.WriteString(m.renderEditHelp())

	return s.String()
}

func (m Model) renderEditHelp() string {
	help := []string{
		"Tab: Next field",
		"Shift+Tab: Previous field",
		"Enter: Save",
		"Esc: Cancel",
	}
	return helpStyle.Render(strings.Join(help, " • "))
}

func (m Model) handleEditKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.err = nil
		if m.selectedID == "" {
			m.viewMode = ViewList
		} else {
			m.viewMode = ViewDetail
		}
		return m, nil
	case "tab", "down":
		m.focusIndex = (m.focusIndex + 1) % len(m.formInputs)
		m.updateFormFocus()
		return m, nil
	case "shift+tab", "up":
		m.focusIndex = (m.focusIndex + len(m.formInputs) - 1) % len(m.formInputs)
		m.updateFormFocus()
		return m, nil
	case "enter":
		return m.saveContact()
	}

	// Update current input
	var cmd tea.Cmd
	m.formInputs[m.focusIndex], cmd = m.formInputs[m.focusIndex].Update(msg)
	return m, cmd
}

func (m *Model) initFormInputs() {
	placeholders := [fieldCount]string{
		fieldName:      "Name",
		fieldCompany:   "Company",
		fieldRole:      "Role",
		fieldEmail:     "Email",
		fieldPhone:     "Phone",
		fieldLocation:  "Location",
		fieldRate:      "Rate",
		fieldSector:    "Sector (" + joinLabels(models.Sectors) + ")",
		fieldContinent: "Continent (" + joinLabels(models.Continents) + ")",
		fieldTags:      "Tags (comma separated)",
		fieldNotes:     "Notes",
	}

	inputs := make([]textinput.Model, fieldCount)
	for i := range inputs {
		inputs[i] = textinput.New()
		inputs[i].Placeholder = placeholders[i]
		inputs[i].CharLimit = 100
	}
	inputs[fieldNotes].CharLimit = 500

	// If editing, populate fields
	if m.selectedID != "" {
		contact, err := m.ctrl.Contact(m.selectedID)
		if err == nil {
			inputs[fieldName].SetValue(contact.Name)
			inputs[fieldCompany].SetValue(contact.Company)
			inputs[fieldRole].SetValue(contact.Role)
			inputs[fieldEmail].SetValue(contact.Email)
			inputs[fieldPhone].SetValue(contact.Phone)
			inputs[fieldLocation].SetValue(contact.Location)
			inputs[fieldRate].SetValue(contact.Rate)
			inputs[fieldSector].SetValue(string(contact.Sector))
			inputs[fieldContinent].SetValue(string(contact.Continent))
			inputs[fieldTags].SetValue(strings.Join(contact.Tags, ", "))
			inputs[fieldNotes].SetValue(contact.Notes)
		}
	}

	m.formInputs = inputs
	m.focusIndex = 0
	m.err = nil
	m.updateFormFocus()
}

func (m *Model) updateFormFocus() {
	for i := range m.formInputs {
		if i == m.focusIndex {
			m.formInputs[i].Focus()
		} else {
			m.formInputs[i].Blur()
		}
	}
}

// contactFromForm overlays the form onto base.
func (m Model) contactFromForm(base models.Contact) (models.Contact, error) {
	value := func(i int) string { return strings.TrimSpace(m.formInputs[i].Value()) }

	c := base.Clone()
	c.Name = value(fieldName)
	c.Company = value(fieldCompany)
	c.Role = value(fieldRole)
	c.Email = value(fieldEmail)
	c.Phone = value(fieldPhone)
	c.Location = value(fieldLocation)
	c.Rate = value(fieldRate)
	c.Notes = value(fieldNotes)

	if v := value(fieldSector); v != "" {
		sector, ok := models.ParseSector(v)
		if !ok {
			return c, fmt.Errorf("unknown sector %q", v)
		}
		c.Sector = sector
	}
	if v := value(fieldContinent); v != "" {
		continent, ok := models.ParseContinent(v)
		if !ok {
			return c, fmt.Errorf("unknown continent %q", v)
		}
		c.Continent = continent
	}

	c.Tags = []string{}
	for _, tag := range strings.Split(value(fieldTags), ",") {
		c.AddTag(tag)
	}
	return c, nil
}

func (m Model) saveContact() (tea.Model, tea.Cmd) {
	var base models.Contact
	if m.selectedID != "" {
		existing, err := m.ctrl.Contact(m.selectedID)
		if err != nil {
			m.err = err
			return m, nil
		}
		base = existing
	}

	contact, err := m.contactFromForm(base)
	if err != nil {
		m.err = err
		return m, nil
	}
	if contact.Name == "" || contact.Company == "" {
		m.err = fmt.Errorf("name and company are required")
		return m, nil
	}
	m.err = nil

	if m.selectedID == "" {
		m.viewMode = ViewList
		cmd := m.persist("✓ Added "+contact.Name, func(ctx context.Context) error {
			_, err := m.ctrl.AddContact(ctx, contact)
			return err
		})
		return m, cmd
	}

	m.viewMode = ViewDetail
	cmd := m.persist("✓ Saved "+contact.Name, func(ctx context.Context) error {
		return m.ctrl.UpdateContact(ctx, contact)
	})
	return m, cmd
}

func joinLabels[T ~string](labels []T) string {
	parts := make([]string, len(labels))
	for i, l := range labels {
		parts[i] = string(l)
	}
	return strings.Join(parts, "/")
}
