package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Project is a development the sales team markets (a tower, a compound).
type Project struct {
	ID          string    `gorm:"type:uuid;primaryKey" json:"id"`
	Name        string    `gorm:"not null;index" json:"name"`
	Developer   *string   `json:"developer"`
	Location    *string   `json:"location"`
	Status      *string   `gorm:"size:32" json:"status"`
	Description *string   `gorm:"type:text" json:"description"`
	CreatedByID string    `gorm:"type:uuid;not null" json:"created_by_id"`
	CreatedAt   time.Time `gorm:"index" json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	CreatedBy *User `gorm:"foreignKey:CreatedByID" json:"created_by,omitempty"`
}

// TableName specifies the table name for Project
func (Project) TableName() string {
	return "projects"
}

func (p *Project) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	return nil
}

func (p *Project) GetID() string {
	return p.ID
}

func (p *Project) RelatedLeadID() *string {
	return nil
}

var ProjectPreloads = []string{"CreatedBy"}

type ProjectInput struct {
	Name        *string `json:"name"`
	Developer   *string `json:"developer"`
	Location    *string `json:"location"`
	Status      *string `json:"status"`
	Description *string `json:"description"`
}

func (in *ProjectInput) Validate() error {
	return requireString("name", in.Name)
}

func (in *ProjectInput) Build(createdByID string) *Project {
	return &Project{
		Name:        orEmpty(in.Name),
		Developer:   in.Developer,
		Location:    in.Location,
		Status:      in.Status,
		Description: in.Description,
		CreatedByID: createdByID,
	}
}

func (in *ProjectInput) Changes() (map[string]any, error) {
	if in.Name != nil {
		if err := requireString("name", in.Name); err != nil {
			return nil, err
		}
	}
	c := changeSet{}
	c.str("name", in.Name)
	c.str("developer", in.Developer)
	c.str("location", in.Location)
	c.str("status", in.Status)
	c.str("description", in.Description)
	return c, nil
}

func (in *ProjectInput) References() ([]Reference, error) {
	return nil, nil
}

func (in *ProjectInput) Summary() string {
	return summarize("name", in.Name, "status", in.Status)
}
