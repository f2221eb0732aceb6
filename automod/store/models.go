package store

import (
	"time"
)

// Row types for the moderation database. All natural keys are Telegram-side
// identifiers; internal auto-increment IDs exist only for row identity (eg,
// warning removal buttons reference a warning row ID).

type User struct {
	ID         uint  `gorm:"primarykey"`
	TelegramID int64 `gorm:"uniqueIndex"`
	Username   string
	FirstName  string
	LastName   string
	IsBot      bool
	Language   string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

type Chat struct {
	ID           uint  `gorm:"primarykey"`
	TelegramID   int64 `gorm:"uniqueIndex"`
	Title        string
	Type         string
	Language     string
	FederationID *uint `gorm:"index"`
	CreatedAt    time.Time
	UpdatedAt    time.Time

	Config *ChatConfig `gorm:"foreignKey:ChatID"`
}

// Per-chat moderation configuration. One row per chat, created lazily with
// defaults on first contact.
type ChatConfig struct {
	ID           uint `gorm:"primarykey"`
	ChatID       uint `gorm:"uniqueIndex"`
	AdaShield    bool `gorm:"default:true"`
	Captcha      bool
	Greetings    bool
	WarningLimit int `gorm:"default:3"`
}

// Member is the per-(user, chat) relation row. Joined/Checked track the
// verification state machine; both writes are upserts keyed on
// (user_id, chat_id) so concurrent pipeline runs converge.
type Member struct {
	ID       uint `gorm:"primarykey"`
	UserID   uint `gorm:"uniqueIndex:idx_member_user_chat"`
	ChatID   uint `gorm:"uniqueIndex:idx_member_user_chat"`
	Joined   bool
	Checked  bool
	Date     time.Time
	LastSeen time.Time
}

type Warning struct {
	ID        uint `gorm:"primarykey"`
	UserID    uint `gorm:"index:idx_warning_user_chat"`
	ChatID    uint `gorm:"index:idx_warning_user_chat"`
	Reason    string
	CreatedAt time.Time
}

// Ban rows are scoped to a chat, or to the chat's federation when
// FederationID is set (the ban then applies to every chat in that
// federation; ChatID records where it was issued).
type Ban struct {
	ID           uint `gorm:"primarykey"`
	UserID       uint `gorm:"uniqueIndex:idx_ban_user_chat"`
	ChatID       uint `gorm:"uniqueIndex:idx_ban_user_chat"`
	FederationID *uint `gorm:"index"`
	Reason       string
	CreatedAt    time.Time
}

// ShieldEntry is the global spammer registry: keyed by Telegram user ID
// only, not per chat. Once present it gates membership events everywhere
// without re-querying the external reputation source.
type ShieldEntry struct {
	ID         uint  `gorm:"primarykey"`
	TelegramID int64 `gorm:"uniqueIndex"`
	Username   string `gorm:"index"`
	Reason     string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

type Federation struct {
	ID          uint   `gorm:"primarykey"`
	Hash        string `gorm:"uniqueIndex"`
	Description string
	OwnerID     uint
	CreatedAt   time.Time
}

const (
	TermActionMute = "mute"
	TermActionBan  = "ban"
	TermActionWarn = "warn"
)

// BlockedTerm is owned by the chat that defined it and matched
// case-insensitively against message text.
type BlockedTerm struct {
	ID        uint   `gorm:"primarykey"`
	ChatID    uint   `gorm:"uniqueIndex:idx_term_chat"`
	Term      string `gorm:"uniqueIndex:idx_term_chat"`
	Action    string
	CreatedAt time.Time
}

func AllModels() []any {
	return []any{
		&User{},
		&Chat{},
		&ChatConfig{},
		&Member{},
		&Warning{},
		&Ban{},
		&ShieldEntry{},
		&Federation{},
		&BlockedTerm{},
	}
}
