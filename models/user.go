package models

import "time"

type Role string

const (
	RoleCustomer Role = "Customer"
	RoleAdmin    Role = "Admin"
)

type User struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Username     string    `gorm:"uniqueIndex;not null" json:"username"`
	PasswordHash string    `gorm:"not null" json:"-"` // never serialized
	Role         Role      `gorm:"type:VARCHAR(20);default:'Customer'" json:"role"`
	CreatedAt    time.Time `json:"created_at"`
}
