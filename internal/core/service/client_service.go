package service

import (
	"context"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/atelierbois/portfolio/internal/api/metrics"
	"github.com/atelierbois/portfolio/internal/core/domain"
	"github.com/atelierbois/portfolio/internal/core/ports"
	"github.com/atelierbois/portfolio/internal/imaging"
)

const clientAssetRoot = "/images/clients"

// ClientService implements client use cases. Client names are unique
// ignoring case and surrounding whitespace.
type ClientService struct {
	repo  ports.ClientRepository
	media ports.MediaService
	log   zerolog.Logger
	now   func() time.Time
}

func NewClientService(repo ports.ClientRepository, media ports.MediaService, log zerolog.Logger) *ClientService {
	return &ClientService{repo: repo, media: media, log: log, now: time.Now}
}

func clientLogoDest(name string) string {
	folder := domain.FolderName(name)
	if folder == "" {
		folder = "client"
	}
	return clientAssetRoot + "/" + folder + "/" + assetName("logo_")
}

func validateContactEmail(email string) error {
	if email != "" && !domain.ValidateEmailFormat(email) {
		return domain.NewValidationError("contactEmail", "invalid email format")
	}
	return nil
}

func (s *ClientService) Create(ctx context.Context, fields ports.ClientFields, logo *ports.Upload) (*domain.Client, error) {
	name := strings.TrimSpace(fields.Name)
	if name == "" {
		return nil, domain.NewValidationError("name", "name is required")
	}
	contactEmail := strings.TrimSpace(fields.ContactEmail)
	if err := validateContactEmail(contactEmail); err != nil {
		return nil, err
	}

	key := domain.ClientNameKey(name)
	taken, err := s.repo.NameExists(ctx, key, "")
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, domain.ErrClientNameTaken
	}

	var logoPath string
	if logo != nil && len(logo.Data) > 0 {
		if logoPath, err = s.media.Store(ctx, *logo, clientLogoDest(name), imaging.Logo); err != nil {
			return nil, err
		}
	}

	now := s.now().UTC()
	created, err := s.repo.Create(ctx, &domain.Client{
		Name:         name,
		NameKey:      key,
		Logo:         logoPath,
		Website:      strings.TrimSpace(fields.Website),
		Description:  strings.TrimSpace(fields.Description),
		ContactEmail: contactEmail,
		ContactPhone: strings.TrimSpace(fields.ContactPhone),
		Address:      strings.TrimSpace(fields.Address),
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if err != nil {
		return nil, err
	}

	metrics.ClientsMutatedTotal.WithLabelValues("create").Inc()
	s.log.Info().Str("client_id", created.ID).Msg("client created")
	return created, nil
}

func (s *ClientService) Update(ctx context.Context, id string, patch ports.ClientPatch) (*domain.Client, error) {
	c, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if patch.Name != nil {
		name := strings.TrimSpace(*patch.Name)
		if name == "" {
			return nil, domain.NewValidationError("name", "name is required")
		}
		key := domain.ClientNameKey(name)
		if key != c.NameKey {
			taken, err := s.repo.NameExists(ctx, key, c.ID)
			if err != nil {
				return nil, err
			}
			if taken {
				return nil, domain.ErrClientNameTaken
			}
		}
		c.Name = name
		c.NameKey = key
	}
	if patch.ContactEmail != nil {
		email := strings.TrimSpace(*patch.ContactEmail)
		if err := validateContactEmail(email); err != nil {
			return nil, err
		}
		c.ContactEmail = email
	}
	if patch.Website != nil {
		c.Website = strings.TrimSpace(*patch.Website)
	}
	if patch.Description != nil {
		c.Description = strings.TrimSpace(*patch.Description)
	}
	if patch.ContactPhone != nil {
		c.ContactPhone = strings.TrimSpace(*patch.ContactPhone)
	}
	if patch.Address != nil {
		c.Address = strings.TrimSpace(*patch.Address)
	}

	var obsolete []string
	if patch.RemoveLogo && c.Logo != "" {
		obsolete = append(obsolete, c.Logo)
		c.Logo = ""
	}
	if patch.Logo != nil && len(patch.Logo.Data) > 0 {
		path, err := s.media.Store(ctx, *patch.Logo, clientLogoDest(c.Name), imaging.Logo)
		if err != nil {
			return nil, err
		}
		if c.Logo != "" {
			obsolete = append(obsolete, c.Logo)
		}
		c.Logo = path
	}

	c.UpdatedAt = s.now().UTC()
	if err := s.repo.Update(ctx, c); err != nil {
		return nil, err
	}

	cleanupCtx := context.WithoutCancel(ctx)
	for _, path := range obsolete {
		s.media.Discard(cleanupCtx, path)
	}

	metrics.ClientsMutatedTotal.WithLabelValues("update").Inc()
	return c, nil
}

// Delete removes the record, then its logo on a best-effort basis.
func (s *ClientService) Delete(ctx context.Context, id string) error {
	c, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.media.Discard(context.WithoutCancel(ctx), c.Logo)

	metrics.ClientsMutatedTotal.WithLabelValues("delete").Inc()
	s.log.Info().Str("client_id", id).Msg("client deleted")
	return nil
}

func (s *ClientService) Get(ctx context.Context, id string) (*domain.Client, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *ClientService) List(ctx context.Context, filter domain.ClientFilter) (*ports.Page[*domain.Client], error) {
	filter.Page, filter.Limit = normalizePaging(filter.Page, filter.Limit)
	filter.Search = strings.TrimSpace(filter.Search)

	items, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	return newPage(items, total, filter.Page, filter.Limit), nil
}
