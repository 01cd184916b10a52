package models

import "gorm.io/gorm"

type UserRole string

const (
	RoleAdmin  UserRole = "admin"
	RoleMember UserRole = "member"
)

type User struct {
	gorm.Model
	Username     string   `gorm:"uniqueIndex;size:255;not null" json:"username"`
	PasswordHash string   `gorm:"not null" json:"-"`
	Role         UserRole `gorm:"type:varchar(20);not null" json:"role"`
	// set by an admin; unapproved users can log in but see no data
	Approved bool `gorm:"not null;default:false" json:"approved"`
}
