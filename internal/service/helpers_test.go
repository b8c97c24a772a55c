package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/Skotchmaster/school_canteen/internal/models"
	"github.com/Skotchmaster/school_canteen/internal/repo"
	"github.com/Skotchmaster/school_canteen/internal/repo/repotest"
	"github.com/Skotchmaster/school_canteen/internal/transport"
	"github.com/Skotchmaster/school_canteen/pkg/events"
)

const (
	today    = "2030-03-03" // Sunday
	tomorrow = "2030-03-04" // Monday
	saturday = "2030-03-09"
)

var jakarta = time.FixedZone("WIB", 7*60*60)

func at(date, clock string) FixedClock {
	t, err := time.ParseInLocation("2006-01-02 15:04", date+" "+clock, jakarta)
	if err != nil {
		panic(err)
	}
	return FixedClock(t)
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []events.OrderEvent
}

func (p *recordingPublisher) PublishEvent(_ context.Context, _ string, event any) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event.(events.OrderEvent))
	return nil
}

func (p *recordingPublisher) Types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, 0, len(p.events))
	for _, e := range p.events {
		out = append(out, e.Type)
	}
	return out
}

type fixture struct {
	repo   *repo.GormRepo
	orders *OrderService
	events *recordingPublisher
	parent uuid.UUID
	child  *models.Child
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	r := repotest.New(t)
	pub := &recordingPublisher{}
	parent := uuid.New()
	return &fixture{
		repo:   r,
		orders: &OrderService{Repo: r, Clock: at(today, "10:00"), Events: pub, MaxNotesLength: 500},
		events: pub,
		parent: parent,
		child:  repotest.Child(t, r, parent, "Budi"),
	}
}

func (f *fixture) cart(lines ...transport.CartItem) transport.CreateOrderRequest {
	return transport.CreateOrderRequest{ChildID: f.child.ID, Items: lines, DeliveryDate: tomorrow}
}

func line(m *models.DailyMenu, qty int) transport.CartItem {
	return transport.CartItem{DailyMenuID: m.ID, Quantity: qty}
}

func countOrders(t *testing.T, r *repo.GormRepo) int64 {
	t.Helper()
	var n int64
	if err := r.DB.Model(&models.Order{}).Count(&n).Error; err != nil {
		t.Fatalf("count orders: %v", err)
	}
	return n
}

func countOrderItems(t *testing.T, r *repo.GormRepo) int64 {
	t.Helper()
	var n int64
	if err := r.DB.Model(&models.OrderItem{}).Count(&n).Error; err != nil {
		t.Fatalf("count order items: %v", err)
	}
	return n
}
