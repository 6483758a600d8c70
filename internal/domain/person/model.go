package person

import (
	"strings"
	"time"
)

type Person struct {
	ID         string     `gorm:"type:uuid;primaryKey"`
	TreeID     string     `gorm:"column:family_tree_id;type:uuid;not null;index"`
	FirstName  string     `gorm:"size:100;not null"`
	LastName   string     `gorm:"size:100"`
	MaidenName string     `gorm:"size:100"`
	BirthDate  *time.Time `gorm:"type:date"`
	DeathDate  *time.Time `gorm:"type:date"`
	BirthPlace string     `gorm:"size:255"`
	DeathPlace string     `gorm:"size:255"`
	Bio        string     `gorm:"type:text"`
	PhotoURL   string     `gorm:"column:profile_photo_url;size:500"`
	CreatedAt  time.Time  `gorm:"autoCreateTime"`
	UpdatedAt  time.Time  `gorm:"autoUpdateTime"`
}

func (Person) TableName() string {
	return "people"
}

func (p *Person) FullName() string {
	if p.LastName == "" {
		return p.FirstName
	}
	return strings.TrimSpace(p.FirstName + " " + p.LastName)
}
