package marketing

import (
	"context"
	"errors"
	"net/url"
	"strings"
	"testing"
	"time"

	"petshop-crm/internal/domain/assistant"
	"petshop-crm/internal/domain/clients"
	"petshop-crm/internal/domain/pets"
	"petshop-crm/internal/platform/logger"
)

// -------------------------
// Test repo (in-memory)
// -------------------------

type testRepo struct {
	byID map[string]Campaign
}

func newTestRepo() *testRepo { return &testRepo{byID: map[string]Campaign{}} }

func (r *testRepo) Create(_ context.Context, c Campaign) error {
	r.byID[c.ID] = c
	return nil
}

func (r *testRepo) Update(_ context.Context, c Campaign) error {
	if _, ok := r.byID[c.ID]; !ok {
		return ErrNotFound
	}
	r.byID[c.ID] = c
	return nil
}

func (r *testRepo) GetByID(_ context.Context, id string) (Campaign, error) {
	c, ok := r.byID[id]
	if !ok {
		return Campaign{}, ErrNotFound
	}
	return c, nil
}

func (r *testRepo) List(context.Context) ([]Campaign, error) {
	return nil, errors.New("db down")
}

func (r *testRepo) Delete(_ context.Context, id string) error {
	if _, ok := r.byID[id]; !ok {
		return ErrNotFound
	}
	delete(r.byID, id)
	return nil
}

type testClients struct {
	items    []clients.Client
	lastDays int
}

func (c *testClients) Inactive(_ context.Context, days int) ([]clients.Client, error) {
	c.lastDays = days
	return c.items, nil
}

type testPets struct {
	byClient map[string][]pets.Pet
	calls    int
}

func (p *testPets) ByClient(_ context.Context, clientID string) []pets.Pet {
	p.calls++
	return p.byClient[clientID]
}

type testGenerator struct{ got assistant.MessageRequest }

func (g *testGenerator) GenerateMarketingMessage(_ context.Context, in assistant.MessageRequest) assistant.Message {
	g.got = in
	return assistant.Message{Text: "Oi! " + in.PetName, AIGenerated: true}
}

var testNow = time.Date(2025, 5, 20, 10, 0, 0, 0, time.UTC)

func newTestService(cl *testClients, pt *testPets, gen *testGenerator) (*Service, *testRepo) {
	repo := newTestRepo()
	svc := NewService(repo, cl, pt, gen, "55", logger.Nop())
	svc.now = func() time.Time { return testNow }
	return svc, repo
}

func intPtr(v int) *int { return &v }

// -------------------------
// Tests
// -------------------------

func TestCreate_DefaultsAndValidation(t *testing.T) {
	svc, repo := newTestService(&testClients{}, &testPets{}, &testGenerator{})

	c, err := svc.Create(context.Background(), CreateInput{Name: " Volta ", Message: "Oi {nome}", DiscountPercent: 10})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if c.Name != "Volta" || c.Status != StatusDraft || c.TargetDaysInactive != DefaultTargetDays || c.SentCount != 0 {
		t.Fatalf("unexpected campaign: %+v", c)
	}
	if _, ok := repo.byID[c.ID]; !ok {
		t.Fatalf("campaign not stored")
	}

	bad := []CreateInput{
		{Message: "x"},
		{Name: "x"},
		{Name: "x", Message: "y", DiscountPercent: 101},
		{Name: "x", Message: "y", DiscountPercent: -1},
		{Name: "x", Message: "y", TargetDaysInactive: intPtr(0)},
	}
	st := Status("sent")
	bad = append(bad, CreateInput{Name: "x", Message: "y", Status: &st})
	for i, in := range bad {
		if _, err := svc.Create(context.Background(), in); !errors.Is(err, ErrInvalidInput) {
			t.Fatalf("case %d: expected ErrInvalidInput, got %v", i, err)
		}
	}
}

func TestUpdate_PartialAndKeepsSentCount(t *testing.T) {
	svc, repo := newTestService(&testClients{}, &testPets{}, &testGenerator{})
	c, _ := svc.Create(context.Background(), CreateInput{Name: "A", Message: "m"})

	stored := repo.byID[c.ID]
	stored.SentCount = 4
	repo.byID[c.ID] = stored

	active := StatusActive
	got, err := svc.Update(context.Background(), c.ID, UpdateInput{Status: &active, DiscountPercent: intPtr(15)})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if got.Status != StatusActive || got.DiscountPercent != 15 || got.Name != "A" || got.SentCount != 4 {
		t.Fatalf("unexpected campaign: %+v", got)
	}

	if _, err := svc.Update(context.Background(), c.ID, UpdateInput{DiscountPercent: intPtr(200)}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
	if _, err := svc.Update(context.Background(), "missing", UpdateInput{}); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestList_Degrades(t *testing.T) {
	svc, _ := newTestService(&testClients{}, &testPets{}, &testGenerator{})
	got := svc.List(context.Background())
	if got == nil || len(got) != 0 {
		t.Fatalf("expected empty non-nil slice, got %#v", got)
	}
}

func TestInactiveClients_WhatsAppLinks(t *testing.T) {
	cl := &testClients{items: []clients.Client{
		{ID: "c1", Name: "Maria Silva", Phone: "(11) 98765-4321"},
		{ID: "c2", Name: "João", Phone: "+55 21 99999-0000"},
		{ID: "c3", Name: "Sem Fone"},
	}}
	pt := &testPets{byClient: map[string][]pets.Pet{
		"c1": {{Name: "Velho", Active: false}, {Name: "Thor", Active: true}},
	}}
	svc, _ := newTestService(cl, pt, &testGenerator{})

	got, err := svc.InactiveClients(context.Background(), 45, "")
	if err != nil {
		t.Fatalf("InactiveClients: %v", err)
	}
	if cl.lastDays != 45 {
		t.Fatalf("days not forwarded: %d", cl.lastDays)
	}
	if len(got) != 3 {
		t.Fatalf("expected 3 recipients, got %d", len(got))
	}
	if got[0].WhatsAppURL != "https://wa.me/5511987654321" {
		t.Fatalf("unexpected link: %s", got[0].WhatsAppURL)
	}
	if got[1].WhatsAppURL != "https://wa.me/5521999990000" {
		t.Fatalf("country code duplicated: %s", got[1].WhatsAppURL)
	}
	if got[2].WhatsAppURL != "" {
		t.Fatalf("expected no link without phone, got %s", got[2].WhatsAppURL)
	}
	if pt.calls != 0 {
		t.Fatalf("pets should not be looked up without campaign")
	}

	c, _ := svc.Create(context.Background(), CreateInput{
		Name:            "Volta",
		Message:         "Oi {nome}! O {nome_pet} merece {desconto}% off & carinho",
		DiscountPercent: 20,
	})
	got, err = svc.InactiveClients(context.Background(), 30, c.ID)
	if err != nil {
		t.Fatalf("InactiveClients with campaign: %v", err)
	}

	u, err := url.Parse(got[0].WhatsAppURL)
	if err != nil {
		t.Fatalf("parse link: %v", err)
	}
	if want := "Oi Maria! O Thor merece 20% off & carinho"; u.Query().Get("text") != want {
		t.Fatalf("text = %q, want %q", u.Query().Get("text"), want)
	}
	if !strings.Contains(got[1].WhatsAppURL, url.QueryEscape("O seu pet merece")) {
		t.Fatalf("expected default pet name, got %s", got[1].WhatsAppURL)
	}

	if _, err := svc.InactiveClients(context.Background(), 30, "missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestGenerateMessage(t *testing.T) {
	gen := &testGenerator{}
	svc, _ := newTestService(&testClients{}, &testPets{}, gen)

	msg, err := svc.GenerateMessage(context.Background(), GenerateMessageInput{PetName: " Thor ", DiscountPercent: 15})
	if err != nil {
		t.Fatalf("GenerateMessage: %v", err)
	}
	if !msg.AIGenerated || msg.Text != "Oi! Thor" {
		t.Fatalf("unexpected message: %+v", msg)
	}
	if gen.got.DaysInactive != DefaultTargetDays || gen.got.DiscountPercent != 15 {
		t.Fatalf("unexpected request: %+v", gen.got)
	}

	for _, in := range []GenerateMessageInput{
		{PetName: ""},
		{PetName: "Thor", DiscountPercent: 150},
		{PetName: "Thor", DaysInactive: -3},
	} {
		if _, err := svc.GenerateMessage(context.Background(), in); !errors.Is(err, ErrInvalidInput) {
			t.Fatalf("expected ErrInvalidInput for %+v, got %v", in, err)
		}
	}
}

func TestWhatsAppURL_ShortNumberStartingWithCountryCode(t *testing.T) {
	// DDD 55 (RS): 11 dígitos locales, no trae código de país
	if got := whatsAppURL("55 99123-4567", "55", ""); got != "https://wa.me/5555991234567" {
		t.Fatalf("unexpected link: %s", got)
	}
}
