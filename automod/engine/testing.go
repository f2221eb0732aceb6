package engine

import (
	"context"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/mleandrojr/mslovelace-bot/automod/cachestore"
	"github.com/mleandrojr/mslovelace-bot/automod/shield"
	"github.com/mleandrojr/mslovelace-bot/automod/store"
	"github.com/mleandrojr/mslovelace-bot/telegram"
)

// APIRecorder is a ChatAPI implementation for tests: it records every
// outbound call and can be told to fail specific methods. Intentionally
// exported for use in other packages' tests.
type APIRecorder struct {
	mu         sync.Mutex
	Sent       []telegram.SendMessageParams
	Deleted    [][2]int64 // (chatID, messageID)
	Banned     [][2]int64 // (chatID, userID)
	Restricted [][2]int64 // (chatID, userID)
	Answered   []string
	Admins     map[int64][]telegram.ChatMember
	// AdminFetches counts GetChatAdministrators calls.
	AdminFetches int

	FailBans  bool
	FailSends bool
}

func NewAPIRecorder() *APIRecorder {
	return &APIRecorder{Admins: make(map[int64][]telegram.ChatMember)}
}

func (r *APIRecorder) SendMessage(ctx context.Context, params telegram.SendMessageParams) (*telegram.Message, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.FailSends {
		return nil, errFailInjected
	}
	r.Sent = append(r.Sent, params)
	return &telegram.Message{MessageID: int64(len(r.Sent)), Chat: telegram.Chat{ID: params.ChatID}}, nil
}

func (r *APIRecorder) DeleteMessage(ctx context.Context, chatID, messageID int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Deleted = append(r.Deleted, [2]int64{chatID, messageID})
	return nil
}

func (r *APIRecorder) BanChatMember(ctx context.Context, chatID, userID int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.FailBans {
		return errFailInjected
	}
	r.Banned = append(r.Banned, [2]int64{chatID, userID})
	return nil
}

func (r *APIRecorder) RestrictChatMember(ctx context.Context, chatID, userID int64, perms telegram.ChatPermissions) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Restricted = append(r.Restricted, [2]int64{chatID, userID})
	return nil
}

func (r *APIRecorder) GetChatAdministrators(ctx context.Context, chatID int64) ([]telegram.ChatMember, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.AdminFetches++
	return r.Admins[chatID], nil
}

func (r *APIRecorder) AnswerCallbackQuery(ctx context.Context, callbackID, text string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Answered = append(r.Answered, callbackID)
	return nil
}

type injectedError struct{}

func (injectedError) Error() string { return "injected failure" }

var errFailInjected = injectedError{}

// StubReputation is a shield.Reputation for tests, counting lookups.
type StubReputation struct {
	Flagged bool
	Err     error
	Calls   int
}

func (s *StubReputation) Check(ctx context.Context, userID int64) (bool, error) {
	s.Calls++
	return s.Flagged, s.Err
}

// EngineTestFixture builds an engine over an in-memory database, a mem
// cachestore, and a recording API client. SelfID is 111.
func EngineTestFixture(t testing.TB) (*Engine, *APIRecorder) {
	t.Helper()

	db, err := store.SetupDatabase("sqlite://:memory:", 1)
	if err != nil {
		t.Fatalf("opening test database: %v", err)
	}
	st, err := store.New(db)
	if err != nil {
		t.Fatalf("initializing test store: %v", err)
	}

	api := NewAPIRecorder()
	logger := slog.Default()
	eng := &Engine{
		Logger: logger,
		Store:  st,
		API:    api,
		Cache:  cachestore.NewMemCacheStore(100, time.Hour),
		Shield: &shield.Gate{
			Logger: logger,
			Store:  st,
			CAS:    &StubReputation{},
		},
		SelfID: 111,
	}
	return eng, api
}
