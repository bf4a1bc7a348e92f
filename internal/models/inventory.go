package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Inventory is a sellable unit inside a project.
type Inventory struct {
	ID          string    `gorm:"type:uuid;primaryKey" json:"id"`
	Title       string    `gorm:"not null" json:"title"`
	ProjectID   string    `gorm:"type:uuid;not null;index" json:"project_id"`
	UnitType    *string   `gorm:"size:32" json:"unit_type"`
	Area        *float64  `gorm:"type:decimal(10,2)" json:"area"`
	Price       *float64  `gorm:"type:decimal(14,2)" json:"price"`
	Status      *string   `gorm:"size:32;index" json:"status"`
	Notes       *string   `gorm:"type:text" json:"notes"`
	CreatedByID string    `gorm:"type:uuid;not null" json:"created_by_id"`
	CreatedAt   time.Time `gorm:"index" json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	Project   *Project `gorm:"foreignKey:ProjectID;constraint:OnDelete:CASCADE" json:"project,omitempty"`
	CreatedBy *User    `gorm:"foreignKey:CreatedByID" json:"created_by,omitempty"`
}

// TableName specifies the table name for Inventory
func (Inventory) TableName() string {
	return "inventory_units"
}

func (i *Inventory) BeforeCreate(tx *gorm.DB) error {
	if i.ID == "" {
		i.ID = uuid.NewString()
	}
	return nil
}

func (i *Inventory) GetID() string {
	return i.ID
}

func (i *Inventory) RelatedLeadID() *string {
	return nil
}

var InventoryPreloads = []string{"Project", "CreatedBy"}

type InventoryInput struct {
	Title     *string  `json:"title"`
	ProjectID *string  `json:"project_id"`
	UnitType  *string  `json:"unit_type"`
	Area      *float64 `json:"area"`
	Price     *float64 `json:"price"`
	Status    *string  `json:"status"`
	Notes     *string  `json:"notes"`
}

func (in *InventoryInput) Validate() error {
	if err := requireString("title", in.Title); err != nil {
		return err
	}
	if err := requireString("project_id", in.ProjectID); err != nil {
		return err
	}
	return in.checkAmounts()
}

func (in *InventoryInput) checkAmounts() error {
	if in.Area != nil && *in.Area < 0 {
		return &FieldError{Field: "area", Reason: "must not be negative"}
	}
	if in.Price != nil && *in.Price < 0 {
		return &FieldError{Field: "price", Reason: "must not be negative"}
	}
	return nil
}

func (in *InventoryInput) Build(createdByID string) *Inventory {
	return &Inventory{
		Title:       orEmpty(in.Title),
		ProjectID:   orEmpty(in.ProjectID),
		UnitType:    in.UnitType,
		Area:        in.Area,
		Price:       in.Price,
		Status:      in.Status,
		Notes:       in.Notes,
		CreatedByID: createdByID,
	}
}

func (in *InventoryInput) Changes() (map[string]any, error) {
	if in.Title != nil {
		if err := requireString("title", in.Title); err != nil {
			return nil, err
		}
	}
	if err := in.checkAmounts(); err != nil {
		return nil, err
	}
	if _, err := in.References(); err != nil {
		return nil, err
	}
	c := changeSet{}
	c.str("title", in.Title)
	c.str("project_id", in.ProjectID)
	c.str("unit_type", in.UnitType)
	c.float("area", in.Area)
	c.float("price", in.Price)
	c.str("status", in.Status)
	c.str("notes", in.Notes)
	return c, nil
}

func (in *InventoryInput) References() ([]Reference, error) {
	return reference(nil, "projects", "project_id", in.ProjectID)
}

func (in *InventoryInput) Summary() string {
	return summarize("title", in.Title, "status", in.Status, "price", in.Price)
}
