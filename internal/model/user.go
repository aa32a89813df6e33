package model

import (
	"time"
)

type UserRole string

const (
	Customer UserRole = "customer"
	Admin    UserRole = "admin"
)

// swagger:model User
type User struct {
	BaseModel
	Username  string   `gorm:"size:100;unique;not null" json:"username"`
	Email     string   `gorm:"size:100;unique;not null" json:"email"`
	Password  string   `gorm:"size:100;not null" json:"-"`
	FirstName string   `gorm:"size:100" json:"first_name"`
	LastName  string   `gorm:"size:100" json:"last_name"`
	Phone     string   `gorm:"size:30" json:"phone"`
	Address   string   `gorm:"size:255" json:"address"`
	City      string   `gorm:"size:100" json:"city"`
	State     string   `gorm:"size:100" json:"state"`
	Role      UserRole `gorm:"type:enum('customer','admin');default:'customer'" json:"role"`

	LastLogin time.Time `gorm:"default:CURRENT_TIMESTAMP(3)" json:"last_login"`
}

func (User) TableName() string {
	return "users"
}
