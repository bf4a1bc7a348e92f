package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Meeting is a scheduled conversation with a client, optionally tied to a
// lead, a project or a specific inventory unit.
type Meeting struct {
	ID           string    `gorm:"type:uuid;primaryKey" json:"id"`
	Title        string    `gorm:"not null" json:"title"`
	Client       *string   `json:"client"`
	Date         *Date     `gorm:"index" json:"date"`
	Time         *string   `gorm:"size:16" json:"time"`
	Duration     *string   `gorm:"size:32" json:"duration"`
	Type         *string   `gorm:"size:32" json:"type"`
	Status       *string   `gorm:"size:32;index" json:"status"`
	LocationType *string   `gorm:"size:32" json:"location_type"`
	Notes        *string   `gorm:"type:text" json:"notes"`
	Objections   *string   `gorm:"type:text" json:"objections"`
	Location     *string   `json:"location"`
	LeadID       *string   `gorm:"type:uuid;index" json:"lead_id"`
	InventoryID  *string   `gorm:"type:uuid;index" json:"inventory_id"`
	ProjectID    *string   `gorm:"type:uuid;index" json:"project_id"`
	AssignedToID *string   `gorm:"type:uuid;index" json:"assigned_to_id"`
	CreatedByID  string    `gorm:"type:uuid;not null;index" json:"created_by_id"`
	CreatedAt    time.Time `gorm:"index" json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`

	// Associations
	Lead       *Lead      `gorm:"foreignKey:LeadID;constraint:OnDelete:SET NULL" json:"lead,omitempty"`
	Inventory  *Inventory `gorm:"foreignKey:InventoryID;constraint:OnDelete:SET NULL" json:"inventory,omitempty"`
	Project    *Project   `gorm:"foreignKey:ProjectID;constraint:OnDelete:SET NULL" json:"project,omitempty"`
	AssignedTo *User      `gorm:"foreignKey:AssignedToID;constraint:OnDelete:SET NULL" json:"assigned_to,omitempty"`
	CreatedBy  *User      `gorm:"foreignKey:CreatedByID" json:"created_by,omitempty"`
}

// TableName specifies the table name for Meeting
func (Meeting) TableName() string {
	return "meetings"
}

func (m *Meeting) BeforeCreate(tx *gorm.DB) error {
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	return nil
}

func (m *Meeting) GetID() string {
	return m.ID
}

func (m *Meeting) AssigneeID() *string {
	return m.AssignedToID
}

func (m *Meeting) RelatedLeadID() *string {
	return m.LeadID
}

func (m *Meeting) DisplayName() string {
	return m.Title
}

// MeetingPreloads are the relations expanded on every read.
var MeetingPreloads = []string{"Lead", "Inventory", "Project", "AssignedTo", "CreatedBy"}

// MeetingInput is the create/update payload for meetings. A nil field is
// absent; any non-nil value, including "", is applied.
type MeetingInput struct {
	Title        *string `json:"title"`
	Client       *string `json:"client"`
	Date         *Date   `json:"date"`
	Time         *string `json:"time"`
	Duration     *string `json:"duration"`
	Type         *string `json:"type"`
	Status       *string `json:"status"`
	LocationType *string `json:"location_type"`
	Notes        *string `json:"notes"`
	Objections   *string `json:"objections"`
	Location     *string `json:"location"`
	LeadID       *string `json:"lead_id"`
	InventoryID  *string `json:"inventory_id"`
	ProjectID    *string `json:"project_id"`
	AssignedToID *string `json:"assigned_to_id"`
}

func (in *MeetingInput) Validate() error {
	if err := requireString("title", in.Title); err != nil {
		return err
	}
	_, err := in.References()
	return err
}

func (in *MeetingInput) Build(createdByID string) *Meeting {
	return &Meeting{
		Title:        orEmpty(in.Title),
		Client:       in.Client,
		Date:         in.Date,
		Time:         in.Time,
		Duration:     in.Duration,
		Type:         in.Type,
		Status:       in.Status,
		LocationType: in.LocationType,
		Notes:        in.Notes,
		Objections:   in.Objections,
		Location:     in.Location,
		LeadID:       in.LeadID,
		InventoryID:  in.InventoryID,
		ProjectID:    in.ProjectID,
		AssignedToID: in.AssignedToID,
		CreatedByID:  createdByID,
	}
}

func (in *MeetingInput) Changes() (map[string]any, error) {
	if in.Title != nil {
		if err := requireString("title", in.Title); err != nil {
			return nil, err
		}
	}
	if _, err := in.References(); err != nil {
		return nil, err
	}
	c := changeSet{}
	c.str("title", in.Title)
	c.str("client", in.Client)
	c.date("date", in.Date)
	c.str("time", in.Time)
	c.str("duration", in.Duration)
	c.str("type", in.Type)
	c.str("status", in.Status)
	c.str("location_type", in.LocationType)
	c.str("notes", in.Notes)
	c.str("objections", in.Objections)
	c.str("location", in.Location)
	c.str("lead_id", in.LeadID)
	c.str("inventory_id", in.InventoryID)
	c.str("project_id", in.ProjectID)
	c.str("assigned_to_id", in.AssignedToID)
	return c, nil
}

func (in *MeetingInput) References() ([]Reference, error) {
	var refs []Reference
	var err error
	if refs, err = reference(refs, "leads", "lead_id", in.LeadID); err != nil {
		return nil, err
	}
	if refs, err = reference(refs, "inventory_units", "inventory_id", in.InventoryID); err != nil {
		return nil, err
	}
	if refs, err = reference(refs, "projects", "project_id", in.ProjectID); err != nil {
		return nil, err
	}
	return reference(refs, "users", "assigned_to_id", in.AssignedToID)
}

func (in *MeetingInput) Summary() string {
	return summarize("title", in.Title, "status", in.Status, "date", in.Date, "assigned_to", in.AssignedToID)
}

// Assignee returns the user the payload assigns the meeting to, if any.
func (in *MeetingInput) Assignee() *string {
	return in.AssignedToID
}
