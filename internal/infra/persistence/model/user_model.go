package model

import (
	"time"

	"github.com/google/uuid"
)

// UserModel mirrors the 'users' table. PostgreSQL generates UUIDs via uuid_generate_v7().
// It is an exported type so it can be used by the GORM Gen tool from other packages.
type UserModel struct {
	ID              uuid.UUID `gorm:"type:uuid;primary_key;default:uuid_generate_v7()"`
	Email           string    `gorm:"type:varchar(255);unique;not null"`
	Username        string    `gorm:"type:varchar(30);unique;not null"`
	DisplayName     string    `gorm:"type:varchar(100)"`
	Bio             string    `gorm:"type:text"`
	IsEmailVerified bool      `gorm:"not null;default:false"`
	IsBanned        bool      `gorm:"not null;default:false"`
	BanReason       string    `gorm:"type:text"`
	LastLoginAt     *time.Time
	CreatedAt       time.Time
	UpdatedAt       time.Time
	DeletedAt       *time.Time `gorm:"index"`

	Credential *CredentialModel `gorm:"foreignKey:UserID"`
}

// TableName explicitly sets the table name for GORM.
func (UserModel) TableName() string {
	return "users"
}

// CredentialModel mirrors the 'user_credentials' table. The one-time token
// columns are nullable; a NULL token means none is outstanding.
type CredentialModel struct {
	ID                    uuid.UUID `gorm:"type:uuid;primary_key;default:uuid_generate_v7()"`
	UserID                uuid.UUID `gorm:"type:uuid;not null;unique"`
	PasswordHash          string    `gorm:"type:varchar(255);not null"`
	VerificationToken     *string   `gorm:"type:text;uniqueIndex"`
	VerificationExpiresAt *time.Time
	ResetToken            *string `gorm:"type:text;uniqueIndex"`
	ResetExpiresAt        *time.Time
	CreatedAt             time.Time
	UpdatedAt             time.Time
}

// TableName explicitly sets the table name for GORM.
func (CredentialModel) TableName() string {
	return "user_credentials"
}
