package models

import (
	"errors"
	"fmt"
	"strings"
)

var ErrMissingField = errors.New("missing required field")

// ValidationError names the first required field that was absent.
type ValidationError struct {
	Field string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", ErrMissingField.Error(), e.Field)
}

func (e *ValidationError) Unwrap() error {
	return ErrMissingField
}

// Submission is the inbound profile payload. Name, Email, TechStacks and
// Location are required; everything else is optional passthrough.
type Submission struct {
	Name             string `json:"name"`
	Email            string `json:"email"`
	Phone            string `json:"phone,omitempty"`
	TechStacks       string `json:"techStacks"`
	Location         string `json:"location"`
	City             string `json:"city,omitempty"`
	ProjectDetails   string `json:"projectDetails,omitempty"`
	Experience       string `json:"experience,omitempty"`
	PreferredRole    string `json:"preferredRole,omitempty"`
	SMSNotifications bool   `json:"smsNotifications,omitempty"`
}

// Validate trims the required fields and reports the first one missing.
func (s *Submission) Validate() error {
	s.Name = strings.TrimSpace(s.Name)
	s.Email = strings.TrimSpace(s.Email)
	s.TechStacks = strings.TrimSpace(s.TechStacks)
	s.Location = strings.TrimSpace(s.Location)
	s.Phone = strings.TrimSpace(s.Phone)

	required := []struct {
		name  string
		value string
	}{
		{"name", s.Name},
		{"email", s.Email},
		{"techStacks", s.TechStacks},
		{"location", s.Location},
	}
	for _, field := range required {
		if field.value == "" {
			return &ValidationError{Field: field.name}
		}
	}
	return nil
}

// Params builds the search inputs the engine needs from a submission.
func (s Submission) Params() SearchParams {
	return SearchParams{Skills: s.TechStacks, Location: s.Location}
}

// CandidateRecord is the row persisted by the candidate store.
type CandidateRecord struct {
	Name             string `json:"name"`
	Email            string `json:"email"`
	PhoneNumber      string `json:"phone_number"`
	TechStacks       string `json:"tech_stacks"`
	Location         string `json:"location"`
	City             string `json:"city"`
	ProjectDetails   string `json:"project_details"`
	Experience       string `json:"experience"`
	PreferredRole    string `json:"preferred_role"`
	SMSNotifications bool   `json:"sms_notifications"`
}

// Record maps a submission onto the store schema.
func (s Submission) Record() CandidateRecord {
	return CandidateRecord{
		Name:             s.Name,
		Email:            s.Email,
		PhoneNumber:      s.Phone,
		TechStacks:       s.TechStacks,
		Location:         s.Location,
		City:             s.City,
		ProjectDetails:   s.ProjectDetails,
		Experience:       s.Experience,
		PreferredRole:    s.PreferredRole,
		SMSNotifications: s.SMSNotifications,
	}
}
