package models

import (
	"time"

	"alliance-srp/internal/core/domain"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ============================================================
// Auth & User Tables
// ============================================================

// User represents users table
type User struct {
	ID            uint           `gorm:"primaryKey" json:"id"`
	Username      string         `gorm:"uniqueIndex;size:50;not null" json:"username"`
	CharacterID   int64          `gorm:"uniqueIndex;not null" json:"character_id"`
	CharacterName string         `gorm:"size:100;not null" json:"character_name"`
	Password      string         `gorm:"size:255;not null" json:"-"`
	Role          string         `gorm:"size:20;default:'MEMBER'" json:"role"`
	IsActive      bool           `gorm:"default:true" json:"is_active"`
	CreatedAt     time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt     time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt     gorm.DeletedAt `gorm:"index" json:"-"`
}

func (User) TableName() string {
	return "users"
}

// UserResponse DTO
type UserResponse struct {
	ID            uint      `json:"id"`
	Username      string    `json:"username"`
	CharacterID   int64     `json:"character_id"`
	CharacterName string    `json:"character_name"`
	Role          string    `json:"role"`
	IsActive      bool      `json:"is_active"`
	CreatedAt     time.Time `json:"created_at"`
}

func (u *User) ToResponse() *UserResponse {
	return &UserResponse{
		ID:            u.ID,
		Username:      u.Username,
		CharacterID:   u.CharacterID,
		CharacterName: u.CharacterName,
		Role:          u.Role,
		IsActive:      u.IsActive,
		CreatedAt:     u.CreatedAt,
	}
}

// RefreshToken represents refresh_tokens table
type RefreshToken struct {
	ID        uint       `gorm:"primaryKey" json:"id"`
	UserID    uint       `gorm:"index;not null" json:"user_id"`
	TokenHash string     `gorm:"size:255;not null;index" json:"-"`
	ExpiresAt time.Time  `gorm:"not null" json:"expires_at"`
	CreatedAt time.Time  `gorm:"autoCreateTime" json:"created_at"`
	RevokedAt *time.Time `gorm:"index" json:"revoked_at"`
	User      User       `gorm:"foreignKey:UserID" json:"-"`
}

func (RefreshToken) TableName() string {
	return "refresh_tokens"
}

func (rt *RefreshToken) IsRevoked() bool {
	return rt.RevokedAt != nil
}

func (rt *RefreshToken) IsExpired() bool {
	return time.Now().After(rt.ExpiresAt)
}

// ============================================================
// Reference Tables
// ============================================================

// ShipClass is one row of the ship class lookup dataset
type ShipClass struct {
	ID          uint                `gorm:"primaryKey" json:"id"`
	GroupName   string              `gorm:"size:100;uniqueIndex;not null" json:"group_name"`
	TierCeiling decimal.NullDecimal `gorm:"type:decimal(20,2)" json:"tier_ceiling"`
	IsSpecial   bool                `gorm:"default:false" json:"is_special"`
	CreatedAt   time.Time           `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time           `gorm:"autoUpdateTime" json:"updated_at"`
}

func (ShipClass) TableName() string {
	return "ship_classes"
}

// ============================================================
// SRP Tables
// ============================================================

// Fleet is an operation run by a fleet commander
type Fleet struct {
	ID            string         `gorm:"type:char(36);primaryKey" json:"id"`
	Name          string         `gorm:"size:150;not null" json:"name"`
	ScheduledAt   time.Time      `gorm:"not null;index" json:"scheduled_at"`
	Location      string         `gorm:"size:150" json:"location"`
	Description   string         `gorm:"type:text" json:"description"`
	CommanderID   uint           `gorm:"not null;index" json:"commander_id"`
	CommanderName string         `gorm:"size:100;not null" json:"commander_name"`
	Status        string         `gorm:"size:20;not null;default:'active'" json:"status"`
	CreatedAt     time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt     time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt     gorm.DeletedAt `gorm:"index" json:"-"`
}

func (Fleet) TableName() string {
	return "fleets"
}

func (f *Fleet) BeforeCreate(tx *gorm.DB) error {
	if f.ID == "" {
		f.ID = uuid.NewString()
	}
	return nil
}

// Claim is an SRP request for one lost ship. It has no status column:
// status is derived from its ProcessLogEntry rows.
type Claim struct {
	ID               string              `gorm:"type:char(36);primaryKey" json:"id"`
	ClaimantID       uint                `gorm:"not null;index" json:"claimant_id"`
	CharacterID      int64               `gorm:"not null" json:"character_id"`
	CharacterName    string              `gorm:"size:100;not null" json:"character_name"`
	PayeeName        string              `gorm:"size:100;not null;index" json:"payee_name"`
	KillmailID       int64               `gorm:"uniqueIndex;not null" json:"killmail_id"`
	KillmailHash     string              `gorm:"size:64" json:"killmail_hash"`
	ShipTypeID       int64               `gorm:"not null" json:"ship_type_id"`
	ShipGroup        string              `gorm:"size:100;index" json:"ship_group"`
	BaseValue        decimal.Decimal     `gorm:"type:decimal(20,2);not null" json:"base_value"`
	OperationContext string              `gorm:"size:10;not null" json:"operation_context"`
	SpecialRole      bool                `gorm:"default:false" json:"special_role"`
	Description      string              `gorm:"type:text" json:"description"`
	FleetID          *string             `gorm:"type:char(36);index" json:"fleet_id"`
	EstimatedPayout  decimal.Decimal     `gorm:"type:decimal(20,2);not null" json:"estimated_payout"`
	PayoutAmount     decimal.NullDecimal `gorm:"type:decimal(20,2)" json:"payout_amount"`
	ReviewerID       *uint               `json:"reviewer_id"`
	ReviewerName     string              `gorm:"size:100" json:"reviewer_name"`
	ReviewerNote     string              `gorm:"type:text" json:"reviewer_note"`
	ReviewedAt       *time.Time          `json:"reviewed_at"`
	PaidAt           *time.Time          `json:"paid_at"`
	PaidBy           string              `gorm:"size:100" json:"paid_by"`
	CreatedAt        time.Time           `gorm:"autoCreateTime;index" json:"created_at"`
	UpdatedAt        time.Time           `gorm:"autoUpdateTime" json:"updated_at"`

	// Relations
	Fleet *Fleet `gorm:"foreignKey:FleetID" json:"fleet,omitempty"`
}

func (Claim) TableName() string {
	return "claims"
}

func (c *Claim) BeforeCreate(tx *gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	return nil
}

// ClaimResponse DTO
type ClaimResponse struct {
	ID               string             `json:"id"`
	ClaimantID       uint               `json:"claimant_id"`
	CharacterName    string             `json:"character_name"`
	PayeeName        string             `json:"payee_name"`
	KillmailID       int64              `json:"killmail_id"`
	ShipTypeID       int64              `json:"ship_type_id"`
	ShipGroup        string             `json:"ship_group"`
	BaseValue        decimal.Decimal    `json:"base_value"`
	OperationContext string             `json:"operation_context"`
	SpecialRole      bool               `json:"special_role"`
	Description      string             `json:"description"`
	FleetID          *string            `json:"fleet_id"`
	FleetName        string             `json:"fleet_name,omitempty"`
	Status           domain.ClaimStatus `json:"status"`
	EstimatedPayout  decimal.Decimal    `json:"estimated_payout"`
	PayoutAmount     *decimal.Decimal   `json:"payout_amount"`
	ReviewerName     string             `json:"reviewer_name,omitempty"`
	ReviewerNote     string             `json:"reviewer_note,omitempty"`
	ReviewedAt       *time.Time         `json:"reviewed_at"`
	PaidAt           *time.Time         `json:"paid_at"`
	CreatedAt        time.Time          `json:"created_at"`
}

// ToResponse builds the DTO; status must already be derived by the caller.
func (c *Claim) ToResponse(status domain.ClaimStatus) *ClaimResponse {
	resp := &ClaimResponse{
		ID:               c.ID,
		ClaimantID:       c.ClaimantID,
		CharacterName:    c.CharacterName,
		PayeeName:        c.PayeeName,
		KillmailID:       c.KillmailID,
		ShipTypeID:       c.ShipTypeID,
		ShipGroup:        c.ShipGroup,
		BaseValue:        c.BaseValue,
		OperationContext: c.OperationContext,
		SpecialRole:      c.SpecialRole,
		Description:      c.Description,
		FleetID:          c.FleetID,
		Status:           status,
		EstimatedPayout:  c.EstimatedPayout,
		ReviewerName:     c.ReviewerName,
		ReviewerNote:     c.ReviewerNote,
		ReviewedAt:       c.ReviewedAt,
		PaidAt:           c.PaidAt,
		CreatedAt:        c.CreatedAt,
	}

	if c.PayoutAmount.Valid {
		amount := c.PayoutAmount.Decimal
		resp.PayoutAmount = &amount
	}
	if c.Fleet != nil {
		resp.FleetName = c.Fleet.Name
	}

	return resp
}

// ProcessLogEntry is one immutable lifecycle event of a claim.
// The auto-increment ID doubles as the insertion sequence.
type ProcessLogEntry struct {
	ID        uint64    `gorm:"primaryKey;autoIncrement" json:"id"`
	ClaimID   string    `gorm:"type:char(36);not null;index:idx_log_claim_time,priority:1" json:"claim_id"`
	Kind      string    `gorm:"size:20;not null;index" json:"kind"`
	ActorID   *uint     `json:"actor_id"`
	ActorName string    `gorm:"size:100;not null" json:"actor_name"`
	Note      string    `gorm:"type:text" json:"note"`
	CreatedAt time.Time `gorm:"not null;index:idx_log_claim_time,priority:2" json:"created_at"`
}

func (ProcessLogEntry) TableName() string {
	return "process_log_entries"
}

func (e *ProcessLogEntry) EventKind() domain.EventKind { return domain.EventKind(e.Kind) }
func (e *ProcessLogEntry) OccurredAt() time.Time       { return e.CreatedAt }
func (e *ProcessLogEntry) Sequence() uint64            { return e.ID }

// ============================================================
// Auto Migration
// ============================================================

// AutoMigrate runs auto migration for all tables
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&User{},
		&RefreshToken{},
		&ShipClass{},
		&Fleet{},
		&Claim{},
		&ProcessLogEntry{},
	)
}
