// ABOUTME: Google People API client for contacts import
// ABOUTME: Pages through connections and flattens each person to a GoogleContact
package sync

import (
	"context"
	"fmt"

	"golang.org/x/oauth2"
	"google.golang.org/api/option"
	"google.golang.org/api/people/v1"
)

// GoogleContact is the subset of a People API person yongu imports.
type GoogleContact struct {
	ResourceName string
	Name         string
	Email        string
	Phone        string
	Company      string
	JobTitle     string
	Notes        string
}

// Source yields Google contacts.
type Source interface {
	FetchContacts(ctx context.Context) ([]GoogleContact, error)
}

// PeopleSource reads the signed-in user's connections.
type PeopleSource struct {
	svc *people.Service
}

// NewPeopleSource creates an authenticated People API source.
func NewPeopleSource(ctx context.Context, config *oauth2.Config, token *oauth2.Token) (*PeopleSource, error) {
	if token == nil {
		return nil, fmt.Errorf("token cannot be nil")
	}

	client := config.Client(ctx, token)
	svc, err := people.NewService(ctx, option.WithHTTPClient(client))
	if err != nil {
		return nil, fmt.Errorf("failed to create People service: %w", err)
	}
	return &PeopleSource{svc: svc}, nil
}

func (s *PeopleSource) FetchContacts(ctx context.Context) ([]GoogleContact, error) {
	var out []GoogleContact
	pageToken := ""
	for {
		call := s.svc.People.Connections.List("people/me").
			PageSize(1000).
			PersonFields("names,emailAddresses,phoneNumbers,organizations,biographies").
			Context(ctx)
		if pageToken != "" {
			call = call.PageToken(pageToken)
		}

		resp, err := call.Do()
		if err != nil {
			return nil, fmt.Errorf("failed to fetch contacts: %w", err)
		}
		if resp == nil {
			break
		}
		for _, person := range resp.Connections {
			out = append(out, convertPerson(person))
		}

		pageToken = resp.NextPageToken
		if pageToken == "" {
			break
		}
	}
	return out, nil
}

// convertPerson converts a People API Person to GoogleContact.
func convertPerson(person *people.Person) GoogleContact {
	gc := GoogleContact{
		ResourceName: person.ResourceName,
	}

	if len(person.Names) > 0 && person.Names[0].DisplayName != "" {
		gc.Name = person.Names[0].DisplayName
	}

	// Prefer primary, otherwise first available
	for _, email := range person.EmailAddresses {
		if email.Value == "" {
			continue
		}
		if gc.Email == "" {
			gc.Email = email.Value
		}
		if email.Metadata != nil && email.Metadata.Primary {
			gc.Email = email.Value
			break
		}
	}

	for _, phone := range person.PhoneNumbers {
		if phone.Value == "" {
			continue
		}
		if gc.Phone == "" {
			gc.Phone = phone.Value
		}
		if phone.Metadata != nil && phone.Metadata.Primary {
			gc.Phone = phone.Value
			break
		}
	}

	if len(person.Organizations) > 0 {
		org := person.Organizations[0]
		gc.Company = org.Name
		gc.JobTitle = org.Title
	}

	if len(person.Biographies) > 0 && person.Biographies[0].Value != "" {
		gc.Notes = person.Biographies[0].Value
	}

	return gc
}
