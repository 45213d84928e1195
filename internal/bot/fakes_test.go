package bot

import (
	"context"
	"errors"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/bobmcallan/stonkbot/internal/clients/iex"
	"github.com/bobmcallan/stonkbot/internal/models"
)

type fakeStore struct {
	mu      sync.Mutex
	ledgers map[int64]*models.Ledger
	notify  map[int64]bool
	saves   int
	failAll bool
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		ledgers: make(map[int64]*models.Ledger),
		notify:  make(map[int64]bool),
	}
}

func (f *fakeStore) Load(_ context.Context, chatID int64) (*models.Ledger, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failAll {
		return nil, errors.New("store down")
	}
	if l, ok := f.ledgers[chatID]; ok {
		return l, nil
	}
	return models.NewLedger(), nil
}

func (f *fakeStore) Save(_ context.Context, chatID int64, ledger *models.Ledger) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failAll {
		return errors.New("store down")
	}
	f.ledgers[chatID] = ledger
	f.saves++
	return nil
}

func (f *fakeStore) SetNotify(_ context.Context, chatID int64, enabled bool) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failAll {
		return errors.New("store down")
	}
	if enabled {
		f.notify[chatID] = true
	} else {
		delete(f.notify, chatID)
	}
	return nil
}

func (f *fakeStore) ListNotify(_ context.Context) ([]int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var chats []int64
	for chatID := range f.notify {
		chats = append(chats, chatID)
	}
	return chats, nil
}

func (f *fakeStore) Close() error { return nil }

type fakePrices struct {
	mu     sync.Mutex
	quotes map[string]decimal.Decimal
	calls  int
}

func newFakePrices(quotes map[string]string) *fakePrices {
	parsed := make(map[string]decimal.Decimal, len(quotes))
	for ticker, price := range quotes {
		parsed[ticker] = decimal.RequireFromString(price)
	}
	return &fakePrices{quotes: parsed}
}

func (f *fakePrices) GetPrice(_ context.Context, ticker string) (decimal.Decimal, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	price, ok := f.quotes[ticker]
	if !ok {
		return decimal.Zero, iex.ErrPriceUnavailable
	}
	return price, nil
}

type fakeScheduler struct {
	mu   sync.Mutex
	jobs map[string][]models.TriggerPayload
}

func newFakeScheduler() *fakeScheduler {
	return &fakeScheduler{jobs: make(map[string][]models.TriggerPayload)}
}

func (f *fakeScheduler) RegisterDaily(name string, _, _ int, payload models.TriggerPayload) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.jobs[name] = append(f.jobs[name], payload)
	return nil
}

func (f *fakeScheduler) CancelByName(name string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	count := len(f.jobs[name])
	delete(f.jobs, name)
	return count
}

func (f *fakeScheduler) ListByName(name string) []models.TriggerPayload {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]models.TriggerPayload(nil), f.jobs[name]...)
}

func (f *fakeScheduler) Start()          {}
func (f *fakeScheduler) Shutdown() error { return nil }

type sentMessage struct {
	chatID   int64
	text     string
	markdown bool
}

type fakeMessenger struct {
	mu   sync.Mutex
	sent []sentMessage
}

func (f *fakeMessenger) SendMessage(chatID int64, text string, markdown bool) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, sentMessage{chatID: chatID, text: text, markdown: markdown})
	return nil
}

func (f *fakeMessenger) texts() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	texts := make([]string, len(f.sent))
	for i, m := range f.sent {
		texts[i] = m.text
	}
	return texts
}
