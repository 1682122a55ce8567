package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"github.com/atelierbois/portfolio/internal/core/domain"
	"github.com/atelierbois/portfolio/internal/core/ports"
)

type stubClientRepo struct {
	clients   map[string]*domain.Client
	seq       int
	failWrite bool
}

func newStubClientRepo() *stubClientRepo {
	return &stubClientRepo{clients: make(map[string]*domain.Client)}
}

func cloneClient(c *domain.Client) *domain.Client {
	clone := *c
	return &clone
}

func (r *stubClientRepo) Create(_ context.Context, c *domain.Client) (*domain.Client, error) {
	if r.failWrite {
		return nil, errors.New("db down")
	}
	for _, existing := range r.clients {
		if existing.NameKey == c.NameKey {
			return nil, domain.ErrClientNameTaken
		}
	}
	r.seq++
	created := cloneClient(c)
	created.ID = fmt.Sprintf("c%d", r.seq)
	r.clients[created.ID] = cloneClient(created)
	return created, nil
}

func (r *stubClientRepo) FindByID(_ context.Context, id string) (*domain.Client, error) {
	c, ok := r.clients[id]
	if !ok {
		return nil, domain.ErrClientNotFound
	}
	return cloneClient(c), nil
}

func (r *stubClientRepo) NameExists(_ context.Context, nameKey, excludeID string) (bool, error) {
	for id, c := range r.clients {
		if c.NameKey == nameKey && id != excludeID {
			return true, nil
		}
	}
	return false, nil
}

func (r *stubClientRepo) Update(_ context.Context, c *domain.Client) error {
	if r.failWrite {
		return errors.New("db down")
	}
	if _, ok := r.clients[c.ID]; !ok {
		return domain.ErrClientNotFound
	}
	r.clients[c.ID] = cloneClient(c)
	return nil
}

func (r *stubClientRepo) Delete(_ context.Context, id string) error {
	if _, ok := r.clients[id]; !ok {
		return domain.ErrClientNotFound
	}
	delete(r.clients, id)
	return nil
}

func (r *stubClientRepo) List(_ context.Context, filter domain.ClientFilter) ([]*domain.Client, int64, error) {
	var out []*domain.Client
	for _, c := range r.clients {
		if strings.Contains(c.NameKey, strings.ToLower(filter.Search)) {
			out = append(out, cloneClient(c))
		}
	}
	return out, int64(len(out)), nil
}

func newClientFixture() (*ClientService, *stubClientRepo, *memStore) {
	repo := newStubClientRepo()
	media, store, _ := newTestMedia()
	return NewClientService(repo, media, zerolog.Nop()), repo, store
}

func TestClientService_Create(t *testing.T) {
	svc, _, store := newClientFixture()

	c, err := svc.Create(context.Background(), ports.ClientFields{Name: " Acme Woods ", ContactEmail: "hello@acme.test"}, upload("logo"))
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	if c.Name != "Acme Woods" || c.NameKey != "acme woods" {
		t.Fatalf("unexpected name fields: %+v", c)
	}
	if !strings.HasPrefix(c.Logo, "/images/clients/acme_woods/logo_") || !store.has(c.Logo) {
		t.Fatalf("unexpected logo %q", c.Logo)
	}
}

func TestClientService_Create_DuplicateNameIgnoresCase(t *testing.T) {
	svc, _, store := newClientFixture()

	if _, err := svc.Create(context.Background(), ports.ClientFields{Name: "Acme"}, nil); err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	_, err := svc.Create(context.Background(), ports.ClientFields{Name: "acme"}, upload("logo"))
	if !errors.Is(err, domain.ErrClientNameTaken) {
		t.Fatalf("expected ErrClientNameTaken, got %v", err)
	}
	if len(store.paths()) != 0 {
		t.Fatalf("expected no logo stored for rejected client, got %v", store.paths())
	}
}

func TestClientService_Create_Validation(t *testing.T) {
	svc, _, _ := newClientFixture()

	if _, err := svc.Create(context.Background(), ports.ClientFields{Name: "  "}, nil); !domain.IsValidation(err) {
		t.Fatalf("expected validation error for empty name, got %v", err)
	}
	if _, err := svc.Create(context.Background(), ports.ClientFields{Name: "Acme", ContactEmail: "nope"}, nil); !domain.IsValidation(err) {
		t.Fatalf("expected validation error for bad email, got %v", err)
	}
}

func TestClientService_Update(t *testing.T) {
	svc, _, store := newClientFixture()
	ctx := context.Background()

	if _, err := svc.Create(ctx, ports.ClientFields{Name: "Globex"}, nil); err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	c, _ := svc.Create(ctx, ports.ClientFields{Name: "Acme"}, upload("logo1"))
	oldLogo := c.Logo

	taken := "GLOBEX"
	if _, err := svc.Update(ctx, c.ID, ports.ClientPatch{Name: &taken}); !errors.Is(err, domain.ErrClientNameTaken) {
		t.Fatalf("expected ErrClientNameTaken, got %v", err)
	}

	sameKey := "ACME"
	renamed, err := svc.Update(ctx, c.ID, ports.ClientPatch{Name: &sameKey, Logo: upload("logo2")})
	if err != nil {
		t.Fatalf("Update returned error: %v", err)
	}
	if renamed.Name != "ACME" {
		t.Fatalf("expected case-only rename to be allowed, got %q", renamed.Name)
	}
	if renamed.Logo == oldLogo || store.has(oldLogo) || !store.has(renamed.Logo) {
		t.Fatal("expected logo replaced and old file deleted")
	}

	cleared, err := svc.Update(ctx, c.ID, ports.ClientPatch{RemoveLogo: true})
	if err != nil {
		t.Fatalf("Update returned error: %v", err)
	}
	if cleared.Logo != "" || store.has(renamed.Logo) {
		t.Fatal("expected logo removed")
	}

	if _, err := svc.Update(ctx, "missing", ports.ClientPatch{}); !errors.Is(err, domain.ErrClientNotFound) {
		t.Fatalf("expected ErrClientNotFound, got %v", err)
	}
}

func TestClientService_KeepsLogoWhenSaveFails(t *testing.T) {
	svc, repo, store := newClientFixture()
	ctx := context.Background()

	c, _ := svc.Create(ctx, ports.ClientFields{Name: "Hooli"}, upload("logo1"))

	repo.failWrite = true
	if _, err := svc.Update(ctx, c.ID, ports.ClientPatch{Logo: upload("logo2")}); err == nil {
		t.Fatal("expected error")
	}
	if _, err := svc.Create(ctx, ports.ClientFields{Name: "Umbrella"}, upload("logo3")); err == nil {
		t.Fatal("expected error")
	}

	// the old logo is untouched and both new uploads stay behind
	if !store.has(c.Logo) {
		t.Fatal("expected the current logo to survive")
	}
	if got := store.paths(); len(got) != 3 {
		t.Fatalf("expected three stored logos, got %v", got)
	}
}

func TestClientService_Delete(t *testing.T) {
	svc, _, store := newClientFixture()
	ctx := context.Background()

	c, _ := svc.Create(ctx, ports.ClientFields{Name: "Initech"}, upload("logo"))
	store.failRemove = true

	if err := svc.Delete(ctx, c.ID); err != nil {
		t.Fatalf("Delete returned error: %v", err)
	}
	if _, err := svc.Get(ctx, c.ID); !errors.Is(err, domain.ErrClientNotFound) {
		t.Fatalf("expected ErrClientNotFound, got %v", err)
	}
}

func TestClientService_List(t *testing.T) {
	svc, _, _ := newClientFixture()
	ctx := context.Background()
	for _, name := range []string{"Acme", "Acme North", "Globex"} {
		if _, err := svc.Create(ctx, ports.ClientFields{Name: name}, nil); err != nil {
			t.Fatalf("Create returned error: %v", err)
		}
	}

	page, err := svc.List(ctx, domain.ClientFilter{Search: " acme "})
	if err != nil {
		t.Fatalf("List returned error: %v", err)
	}
	if page.Total != 2 || page.Limit != DefaultPageLimit || page.TotalPages != 1 {
		t.Fatalf("unexpected page %+v", page)
	}
}
