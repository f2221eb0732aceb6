package store

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/mleandrojr/mslovelace-bot/telegram"
)

var (
	ErrNotFound            = errors.New("record not found")
	ErrAlreadyInFederation = errors.New("chat already belongs to a federation")
	ErrNoFederation        = errors.New("chat does not belong to a federation")
)

// Store is the persistence collaborator for the moderation engine. Every
// write is an upsert keyed on the entity's natural key, so retried or
// concurrent pipeline runs for the same entity converge to the same state.
type Store struct {
	db *gorm.DB
}

func New(db *gorm.DB) (*Store, error) {
	if err := db.AutoMigrate(AllModels()...); err != nil {
		return nil, fmt.Errorf("migrating moderation schema: %w", err)
	}
	return &Store{db: db}, nil
}

// users and chats ======

func (s *Store) UpsertUser(ctx context.Context, tu telegram.User) (*User, error) {
	row := User{
		TelegramID: tu.ID,
		Username:   tu.Username,
		FirstName:  tu.FirstName,
		LastName:   tu.LastName,
		IsBot:      tu.IsBot,
		Language:   tu.LanguageCode,
	}
	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "telegram_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"username", "first_name", "last_name", "updated_at"}),
	}).Create(&row).Error
	if err != nil {
		return nil, err
	}
	return s.GetUser(ctx, tu.ID)
}

func (s *Store) GetUser(ctx context.Context, telegramID int64) (*User, error) {
	var row User
	err := s.db.WithContext(ctx).Where("telegram_id = ?", telegramID).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &row, nil
}

func (s *Store) GetUserByUsername(ctx context.Context, username string) (*User, error) {
	var row User
	err := s.db.WithContext(ctx).Where("username = ?", username).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &row, nil
}

func (s *Store) UpsertChat(ctx context.Context, tc telegram.Chat) (*Chat, error) {
	row := Chat{
		TelegramID: tc.ID,
		Title:      tc.Title,
		Type:       tc.Type,
		Language:   "en",
	}
	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "telegram_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"title", "type", "updated_at"}),
	}).Create(&row).Error
	if err != nil {
		return nil, err
	}
	chat, err := s.GetChat(ctx, tc.ID)
	if err != nil {
		return nil, err
	}
	// config row is created lazily with defaults on first contact
	if chat.Config == nil {
		cfg := ChatConfig{ChatID: chat.ID, AdaShield: true, WarningLimit: 3}
		if err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "chat_id"}},
			DoNothing: true,
		}).Create(&cfg).Error; err != nil {
			return nil, err
		}
		chat.Config = &cfg
	}
	return chat, nil
}

func (s *Store) GetChat(ctx context.Context, telegramID int64) (*Chat, error) {
	var row Chat
	err := s.db.WithContext(ctx).Preload("Config").Where("telegram_id = ?", telegramID).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &row, nil
}

// WarningLimit returns the chat's configured warning threshold, defaulting
// to 3 when no config row exists.
func (c *Chat) WarningLimit() int {
	if c.Config == nil || c.Config.WarningLimit <= 0 {
		return 3
	}
	return c.Config.WarningLimit
}

func (s *Store) SetAdaShield(ctx context.Context, chatID uint, enabled bool) error {
	cfg := ChatConfig{ChatID: chatID, AdaShield: enabled, WarningLimit: 3}
	return s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "chat_id"}},
		DoUpdates: clause.Assignments(map[string]any{"ada_shield": enabled}),
	}).Create(&cfg).Error
}

func (s *Store) SetGreetings(ctx context.Context, chatID uint, enabled bool) error {
	cfg := ChatConfig{ChatID: chatID, AdaShield: true, Greetings: enabled, WarningLimit: 3}
	return s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "chat_id"}},
		DoUpdates: clause.Assignments(map[string]any{"greetings": enabled}),
	}).Create(&cfg).Error
}

// members ======

// RecordJoin upserts the (user, chat) relation row. The checked flag is only
// written on first creation; repeated joins just refresh joined/last_seen.
func (s *Store) RecordJoin(ctx context.Context, userID, chatID uint, checked bool) error {
	now := time.Now()
	row := Member{
		UserID:   userID,
		ChatID:   chatID,
		Joined:   true,
		Checked:  checked,
		Date:     now,
		LastSeen: now,
	}
	return s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "chat_id"}},
		DoUpdates: clause.Assignments(map[string]any{"joined": true, "last_seen": now}),
	}).Create(&row).Error
}

// MarkMemberFlagged records a shield-banned member: joined and checked both
// false, whether or not a relation row already exists.
func (s *Store) MarkMemberFlagged(ctx context.Context, userID, chatID uint) error {
	now := time.Now()
	row := Member{
		UserID:   userID,
		ChatID:   chatID,
		Date:     now,
		LastSeen: now,
	}
	return s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "chat_id"}},
		DoUpdates: clause.Assignments(map[string]any{"joined": false, "checked": false, "last_seen": now}),
	}).Create(&row).Error
}

func (s *Store) GetMember(ctx context.Context, userID, chatID uint) (*Member, error) {
	var row Member
	err := s.db.WithContext(ctx).Where("user_id = ? AND chat_id = ?", userID, chatID).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &row, nil
}

// warnings ======

func (s *Store) AddWarning(ctx context.Context, userID, chatID uint, reason string) (*Warning, error) {
	row := Warning{UserID: userID, ChatID: chatID, Reason: reason}
	if err := s.db.WithContext(ctx).Create(&row).Error; err != nil {
		return nil, err
	}
	return &row, nil
}

func (s *Store) ListWarnings(ctx context.Context, userID, chatID uint) ([]Warning, error) {
	var rows []Warning
	err := s.db.WithContext(ctx).
		Where("user_id = ? AND chat_id = ?", userID, chatID).
		Order("id ASC").
		Find(&rows).Error
	return rows, err
}

// DeleteWarning removes one warning row, scoped to the chat so callback data
// cannot be replayed across chats.
func (s *Store) DeleteWarning(ctx context.Context, warningID, chatID uint) error {
	return s.db.WithContext(ctx).
		Where("id = ? AND chat_id = ?", warningID, chatID).
		Delete(&Warning{}).Error
}

func (s *Store) ClearWarnings(ctx context.Context, userID, chatID uint) error {
	return s.db.WithContext(ctx).
		Where("user_id = ? AND chat_id = ?", userID, chatID).
		Delete(&Warning{}).Error
}

// bans ======

// CreateBan persists a ban record. Repeated bans for the same (user, chat)
// are no-ops rather than errors.
func (s *Store) CreateBan(ctx context.Context, userID, chatID uint, federationID *uint, reason string) error {
	row := Ban{
		UserID:       userID,
		ChatID:       chatID,
		FederationID: federationID,
		Reason:       reason,
	}
	return s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "chat_id"}},
		DoNothing: true,
	}).Create(&row).Error
}

// IsBanned reports whether the user is banned in the chat, either by a
// chat-scoped ban or by a ban in the chat's federation.
func (s *Store) IsBanned(ctx context.Context, userID, chatID uint, federationID *uint) (bool, error) {
	q := s.db.WithContext(ctx).Model(&Ban{}).Where("user_id = ?", userID)
	if federationID != nil {
		q = q.Where("chat_id = ? OR federation_id = ?", chatID, *federationID)
	} else {
		q = q.Where("chat_id = ?", chatID)
	}
	var count int64
	if err := q.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// shield ======

// GetShieldEntry looks up the global spammer registry by Telegram user ID,
// falling back to username.
func (s *Store) GetShieldEntry(ctx context.Context, telegramID int64, username string) (*ShieldEntry, error) {
	var row ShieldEntry
	err := s.db.WithContext(ctx).Where("telegram_id = ?", telegramID).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) && username != "" {
		err = s.db.WithContext(ctx).Where("username = ?", username).First(&row).Error
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &row, nil
}

func (s *Store) UpsertShieldEntry(ctx context.Context, telegramID int64, username, reason string) error {
	row := ShieldEntry{
		TelegramID: telegramID,
		Username:   username,
		Reason:     reason,
	}
	return s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "telegram_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"reason", "updated_at"}),
	}).Create(&row).Error
}

// federations ======

func (s *Store) GetFederationByHash(ctx context.Context, hash string) (*Federation, error) {
	var row Federation
	err := s.db.WithContext(ctx).Where("hash = ?", hash).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &row, nil
}

func (s *Store) GetFederationByID(ctx context.Context, id uint) (*Federation, error) {
	var row Federation
	err := s.db.WithContext(ctx).First(&row, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &row, nil
}

// CreateFederation mints a federation with a random join hash.
func (s *Store) CreateFederation(ctx context.Context, ownerID uint, description string) (*Federation, error) {
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		return nil, err
	}
	row := Federation{
		Hash:        hex.EncodeToString(buf),
		Description: description,
		OwnerID:     ownerID,
	}
	if err := s.db.WithContext(ctx).Create(&row).Error; err != nil {
		return nil, err
	}
	return &row, nil
}

// JoinFederation attaches the chat to a federation. Fails with
// ErrAlreadyInFederation when the chat already belongs to one (including the
// same one).
func (s *Store) JoinFederation(ctx context.Context, chatID uint, federationID uint) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var chat Chat
		if err := tx.First(&chat, chatID).Error; err != nil {
			return err
		}
		if chat.FederationID != nil {
			return ErrAlreadyInFederation
		}
		return tx.Model(&Chat{}).Where("id = ?", chatID).
			Update("federation_id", federationID).Error
	})
}

// LeaveFederation detaches the chat from its federation, failing with
// ErrNoFederation when none is set.
func (s *Store) LeaveFederation(ctx context.Context, chatID uint) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var chat Chat
		if err := tx.First(&chat, chatID).Error; err != nil {
			return err
		}
		if chat.FederationID == nil {
			return ErrNoFederation
		}
		return tx.Model(&Chat{}).Where("id = ?", chatID).
			Update("federation_id", nil).Error
	})
}

// blocked terms ======

func (s *Store) ListBlockedTerms(ctx context.Context, chatID uint) ([]BlockedTerm, error) {
	var rows []BlockedTerm
	err := s.db.WithContext(ctx).Where("chat_id = ?", chatID).Order("id ASC").Find(&rows).Error
	return rows, err
}

func (s *Store) UpsertBlockedTerm(ctx context.Context, chatID uint, term, action string) error {
	row := BlockedTerm{ChatID: chatID, Term: term, Action: action}
	return s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "chat_id"}, {Name: "term"}},
		DoUpdates: clause.Assignments(map[string]any{"action": action}),
	}).Create(&row).Error
}

func (s *Store) DeleteBlockedTerm(ctx context.Context, chatID uint, term string) error {
	return s.db.WithContext(ctx).
		Where("chat_id = ? AND term = ?", chatID, term).
		Delete(&BlockedTerm{}).Error
}
