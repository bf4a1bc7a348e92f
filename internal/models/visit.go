package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Visit records a lead's site visit. Visits always belong to a lead and are
// removed with it.
type Visit struct {
	ID          string    `gorm:"type:uuid;primaryKey" json:"id"`
	LeadID      string    `gorm:"type:uuid;not null;index" json:"lead_id"`
	Date        *Date     `gorm:"index" json:"date"`
	Time        *string   `gorm:"size:16" json:"time"`
	Status      *string   `gorm:"size:32;index" json:"status"`
	Location    *string   `json:"location"`
	Notes       *string   `gorm:"type:text" json:"notes"`
	Objections  *string   `gorm:"type:text" json:"objections"`
	ProjectID   *string   `gorm:"type:uuid;index" json:"project_id"`
	InventoryID *string   `gorm:"type:uuid;index" json:"inventory_id"`
	CreatedByID string    `gorm:"type:uuid;not null;index" json:"created_by_id"`
	CreatedAt   time.Time `gorm:"index" json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	// Associations
	Lead      *Lead      `gorm:"foreignKey:LeadID;constraint:OnDelete:CASCADE" json:"lead,omitempty"`
	Project   *Project   `gorm:"foreignKey:ProjectID;constraint:OnDelete:SET NULL" json:"project,omitempty"`
	Inventory *Inventory `gorm:"foreignKey:InventoryID;constraint:OnDelete:SET NULL" json:"inventory,omitempty"`
	CreatedBy *User      `gorm:"foreignKey:CreatedByID" json:"created_by,omitempty"`
}

// TableName specifies the table name for Visit
func (Visit) TableName() string {
	return "visits"
}

func (v *Visit) BeforeCreate(tx *gorm.DB) error {
	if v.ID == "" {
		v.ID = uuid.NewString()
	}
	return nil
}

func (v *Visit) GetID() string {
	return v.ID
}

func (v *Visit) RelatedLeadID() *string {
	return &v.LeadID
}

var VisitPreloads = []string{"Lead", "Project", "Inventory", "CreatedBy"}

// VisitInput is the create/update payload for visits.
type VisitInput struct {
	LeadID      *string `json:"lead_id"`
	Date        *Date   `json:"date"`
	Time        *string `json:"time"`
	Status      *string `json:"status"`
	Location    *string `json:"location"`
	Notes       *string `json:"notes"`
	Objections  *string `json:"objections"`
	ProjectID   *string `json:"project_id"`
	InventoryID *string `json:"inventory_id"`
}

func (in *VisitInput) Validate() error {
	if err := requireString("lead_id", in.LeadID); err != nil {
		return err
	}
	_, err := in.References()
	return err
}

func (in *VisitInput) Build(createdByID string) *Visit {
	return &Visit{
		LeadID:      orEmpty(in.LeadID),
		Date:        in.Date,
		Time:        in.Time,
		Status:      in.Status,
		Location:    in.Location,
		Notes:       in.Notes,
		Objections:  in.Objections,
		ProjectID:   in.ProjectID,
		InventoryID: in.InventoryID,
		CreatedByID: createdByID,
	}
}

func (in *VisitInput) Changes() (map[string]any, error) {
	if _, err := in.References(); err != nil {
		return nil, err
	}
	c := changeSet{}
	c.str("lead_id", in.LeadID)
	c.date("date", in.Date)
	c.str("time", in.Time)
	c.str("status", in.Status)
	c.str("location", in.Location)
	c.str("notes", in.Notes)
	c.str("objections", in.Objections)
	c.str("project_id", in.ProjectID)
	c.str("inventory_id", in.InventoryID)
	return c, nil
}

func (in *VisitInput) References() ([]Reference, error) {
	var refs []Reference
	var err error
	if refs, err = reference(refs, "leads", "lead_id", in.LeadID); err != nil {
		return nil, err
	}
	if refs, err = reference(refs, "projects", "project_id", in.ProjectID); err != nil {
		return nil, err
	}
	return reference(refs, "inventory_units", "inventory_id", in.InventoryID)
}

func (in *VisitInput) Summary() string {
	return summarize("lead", in.LeadID, "status", in.Status, "date", in.Date)
}
