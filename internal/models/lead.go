package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Lead is a prospective buyer tracked through the sales pipeline. Status is
// free-form; the API does not enforce transitions.
type Lead struct {
	ID           string    `gorm:"type:uuid;primaryKey" json:"id"`
	Name         string    `gorm:"not null" json:"name"`
	Phone        *string   `gorm:"size:32;index" json:"phone"`
	Email        *string   `json:"email"`
	Source       *string   `gorm:"size:64" json:"source"`
	Status       *string   `gorm:"size:32;index" json:"status"`
	Budget       *float64  `gorm:"type:decimal(14,2)" json:"budget"`
	Notes        *string   `gorm:"type:text" json:"notes"`
	ProjectID    *string   `gorm:"type:uuid;index" json:"project_id"`
	AssignedToID *string   `gorm:"type:uuid;index" json:"assigned_to_id"`
	CreatedByID  string    `gorm:"type:uuid;not null;index" json:"created_by_id"`
	CreatedAt    time.Time `gorm:"index" json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`

	// Associations
	Project    *Project `gorm:"foreignKey:ProjectID;constraint:OnDelete:SET NULL" json:"project,omitempty"`
	AssignedTo *User    `gorm:"foreignKey:AssignedToID;constraint:OnDelete:SET NULL" json:"assigned_to,omitempty"`
	CreatedBy  *User    `gorm:"foreignKey:CreatedByID" json:"created_by,omitempty"`
}

// TableName specifies the table name for Lead
func (Lead) TableName() string {
	return "leads"
}

func (l *Lead) BeforeCreate(tx *gorm.DB) error {
	if l.ID == "" {
		l.ID = uuid.NewString()
	}
	return nil
}

func (l *Lead) GetID() string {
	return l.ID
}

func (l *Lead) AssigneeID() *string {
	return l.AssignedToID
}

func (l *Lead) RelatedLeadID() *string {
	return &l.ID
}

func (l *Lead) DisplayName() string {
	return l.Name
}

// LeadPreloads are the relations expanded on every read.
var LeadPreloads = []string{"Project", "AssignedTo", "CreatedBy"}

// LeadInput is the create/update payload for leads.
type LeadInput struct {
	Name         *string  `json:"name"`
	Phone        *string  `json:"phone"`
	Email        *string  `json:"email"`
	Source       *string  `json:"source"`
	Status       *string  `json:"status"`
	Budget       *float64 `json:"budget"`
	Notes        *string  `json:"notes"`
	ProjectID    *string  `json:"project_id"`
	AssignedToID *string  `json:"assigned_to_id"`
}

func (in *LeadInput) Validate() error {
	if err := requireString("name", in.Name); err != nil {
		return err
	}
	if in.Budget != nil && *in.Budget < 0 {
		return &FieldError{Field: "budget", Reason: "must not be negative"}
	}
	_, err := in.References()
	return err
}

func (in *LeadInput) Build(createdByID string) *Lead {
	return &Lead{
		Name:         orEmpty(in.Name),
		Phone:        in.Phone,
		Email:        in.Email,
		Source:       in.Source,
		Status:       in.Status,
		Budget:       in.Budget,
		Notes:        in.Notes,
		ProjectID:    in.ProjectID,
		AssignedToID: in.AssignedToID,
		CreatedByID:  createdByID,
	}
}

func (in *LeadInput) Changes() (map[string]any, error) {
	if in.Name != nil {
		if err := requireString("name", in.Name); err != nil {
			return nil, err
		}
	}
	if in.Budget != nil && *in.Budget < 0 {
		return nil, &FieldError{Field: "budget", Reason: "must not be negative"}
	}
	if _, err := in.References(); err != nil {
		return nil, err
	}
	c := changeSet{}
	c.str("name", in.Name)
	c.str("phone", in.Phone)
	c.str("email", in.Email)
	c.str("source", in.Source)
	c.str("status", in.Status)
	c.float("budget", in.Budget)
	c.str("notes", in.Notes)
	c.str("project_id", in.ProjectID)
	c.str("assigned_to_id", in.AssignedToID)
	return c, nil
}

func (in *LeadInput) References() ([]Reference, error) {
	var refs []Reference
	var err error
	if refs, err = reference(refs, "projects", "project_id", in.ProjectID); err != nil {
		return nil, err
	}
	return reference(refs, "users", "assigned_to_id", in.AssignedToID)
}

func (in *LeadInput) Summary() string {
	return summarize("name", in.Name, "status", in.Status, "assigned_to", in.AssignedToID)
}

func (in *LeadInput) Assignee() *string {
	return in.AssignedToID
}
