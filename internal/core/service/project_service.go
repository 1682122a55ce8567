package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/atelierbois/portfolio/internal/api/metrics"
	"github.com/atelierbois/portfolio/internal/core/domain"
	"github.com/atelierbois/portfolio/internal/core/ports"
	"github.com/atelierbois/portfolio/internal/imaging"
)

const projectAssetRoot = "/images/projects"

// ProjectService implements project use cases.
//
// Writes are not transactional across the database and the asset store.
// New files are written before the record is saved and stay on disk when
// a later step fails; files a change makes obsolete are removed only after
// the save succeeded. Concurrent updates of one project are last write wins.
type ProjectService struct {
	repo  ports.ProjectRepository
	users ports.UserRepository
	media ports.MediaService
	log   zerolog.Logger
	now   func() time.Time
}

func NewProjectService(repo ports.ProjectRepository, users ports.UserRepository, media ports.MediaService, log zerolog.Logger) *ProjectService {
	return &ProjectService{repo: repo, users: users, media: media, log: log, now: time.Now}
}

func assetName(prefix string) string {
	return prefix + strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
}

func (s *ProjectService) Create(ctx context.Context, in ports.CreateProjectInput) (*domain.Project, error) {
	f := in.Fields
	title := strings.TrimSpace(f.Title)
	description := strings.TrimSpace(f.Description)
	if title == "" || description == "" {
		return nil, domain.NewValidationError("", "title and description are required")
	}
	if in.MainImage == nil || len(in.MainImage.Data) == 0 {
		return nil, domain.NewValidationError("mainImage", "main image is required")
	}

	slug := domain.Slugify(title)
	if slug == "" {
		return nil, domain.NewValidationError("title", "title must contain letters or digits")
	}
	now := s.now().UTC()

	taken, err := s.repo.SlugExists(ctx, slug, "")
	if err != nil {
		return nil, err
	}
	folder := domain.FolderName(title)
	folderTaken, err := s.repo.FolderInUse(ctx, folder)
	if err != nil {
		return nil, err
	}
	suffix := fmt.Sprintf("%d", now.UnixMilli())
	if taken {
		slug = slug + "-" + suffix
	}
	if taken || folderTaken {
		folder = folder + "_" + suffix
	}
	dir := projectAssetRoot + "/" + folder

	mainPath, err := s.media.Store(ctx, *in.MainImage, dir+"/"+assetName("main_"), imaging.ProjectImage)
	if err != nil {
		return nil, err
	}

	var logoPath string
	if in.ClientLogo != nil && len(in.ClientLogo.Data) > 0 {
		if logoPath, err = s.media.Store(ctx, *in.ClientLogo, dir+"/"+assetName("client_logo_"), imaging.Logo); err != nil {
			return nil, err
		}
	}

	images := []string{mainPath}
	for _, up := range in.AdditionalImages {
		if len(up.Data) == 0 {
			continue
		}
		p, err := s.media.Store(ctx, up, dir+"/"+assetName("image_"), imaging.ProjectImage)
		if err != nil {
			return nil, err
		}
		images = append(images, p)
	}

	project := &domain.Project{
		Title:        title,
		Slug:         slug,
		Description:  description,
		Client:       strings.TrimSpace(f.Client),
		ClientLogo:   logoPath,
		Images:       images,
		Tags:         domain.NormalizeTags(f.Tags),
		Year:         strings.TrimSpace(f.Year),
		Materials:    strings.TrimSpace(f.Materials),
		Techniques:   strings.TrimSpace(f.Techniques),
		Technologies: strings.TrimSpace(f.Technologies),
		AssetFolder:  folder,
		CreatedBy:    in.CreatedBy,
		CreatedAt:    now,
		UpdatedAt:    now,
		PublishedAt:  &now,
	}

	created, err := s.repo.Create(ctx, project)
	if err != nil {
		return nil, err
	}

	metrics.ProjectsMutatedTotal.WithLabelValues("create").Inc()
	s.log.Info().Str("project_id", created.ID).Str("slug", created.Slug).Int("images", len(images)).Msg("project created")
	return created, nil
}

func (s *ProjectService) Update(ctx context.Context, id string, patch ports.ProjectPatch, files *ports.ProjectFileChanges) (*domain.Project, error) {
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := s.applyPatch(ctx, p, patch); err != nil {
		return nil, err
	}

	var obsolete []string
	if !files.Empty() {
		if obsolete, err = s.applyFiles(ctx, p, files); err != nil {
			return nil, err
		}
	}

	p.UpdatedAt = s.now().UTC()
	if err := s.repo.Update(ctx, p); err != nil {
		return nil, err
	}

	cleanupCtx := context.WithoutCancel(ctx)
	for _, path := range obsolete {
		s.media.Discard(cleanupCtx, path)
	}

	metrics.ProjectsMutatedTotal.WithLabelValues("update").Inc()
	s.log.Info().Str("project_id", p.ID).Int("discarded", len(obsolete)).Msg("project updated")
	return p, nil
}

func (s *ProjectService) applyPatch(ctx context.Context, p *domain.Project, patch ports.ProjectPatch) error {
	if patch.Title != nil {
		title := strings.TrimSpace(*patch.Title)
		if title == "" {
			return domain.NewValidationError("title", "title is required")
		}
		if title != p.Title {
			slug := domain.Slugify(title)
			if slug == "" {
				return domain.NewValidationError("title", "title must contain letters or digits")
			}
			if slug != p.Slug {
				taken, err := s.repo.SlugExists(ctx, slug, p.ID)
				if err != nil {
					return err
				}
				if taken {
					slug = fmt.Sprintf("%s-%d", slug, s.now().UnixMilli())
				}
				p.Slug = slug
			}
			p.Title = title
		}
	}
	if patch.Description != nil {
		description := strings.TrimSpace(*patch.Description)
		if description == "" {
			return domain.NewValidationError("description", "description is required")
		}
		p.Description = description
	}
	if patch.Client != nil {
		p.Client = strings.TrimSpace(*patch.Client)
	}
	if patch.Tags != nil {
		p.Tags = domain.NormalizeTags(*patch.Tags)
	}
	if patch.Year != nil {
		p.Year = strings.TrimSpace(*patch.Year)
	}
	if patch.Materials != nil {
		p.Materials = strings.TrimSpace(*patch.Materials)
	}
	if patch.Techniques != nil {
		p.Techniques = strings.TrimSpace(*patch.Techniques)
	}
	if patch.Technologies != nil {
		p.Technologies = strings.TrimSpace(*patch.Technologies)
	}
	return nil
}

// applyFiles runs the file operations of an update in a fixed order:
// additional-image removals (indices of the view before this update),
// main image removal, main image replacement, logo removal, logo
// replacement, then new additional images. It returns the paths the
// update made obsolete.
func (s *ProjectService) applyFiles(ctx context.Context, p *domain.Project, files *ports.ProjectFileChanges) ([]string, error) {
	var obsolete []string
	dir := projectAssetRoot + "/" + s.folderOf(p)
	images := p.Images

	if len(files.RemoveAdditional) > 0 {
		var removed []string
		images, removed = domain.RemoveAdditionalImages(images, files.RemoveAdditional)
		obsolete = append(obsolete, removed...)
	}

	if files.RemoveMainImage {
		var removed string
		images, removed = domain.RemoveMainImage(images)
		if removed != "" {
			obsolete = append(obsolete, removed)
		}
	}

	if files.MainImage != nil && len(files.MainImage.Data) > 0 {
		path, err := s.media.Store(ctx, *files.MainImage, dir+"/"+assetName("main_"), imaging.ProjectImage)
		if err != nil {
			return nil, err
		}
		var replaced string
		images, replaced = domain.ReplaceMainImage(images, path, !files.RemoveMainImage)
		if replaced != "" {
			obsolete = append(obsolete, replaced)
		}
	}

	logo := p.ClientLogo
	if files.RemoveClientLogo && logo != "" {
		obsolete = append(obsolete, logo)
		logo = ""
	}
	if files.ClientLogo != nil && len(files.ClientLogo.Data) > 0 {
		path, err := s.media.Store(ctx, *files.ClientLogo, dir+"/"+assetName("client_logo_"), imaging.Logo)
		if err != nil {
			return nil, err
		}
		if logo != "" {
			obsolete = append(obsolete, logo)
		}
		logo = path
	}

	for _, up := range files.AdditionalImages {
		if len(up.Data) == 0 {
			continue
		}
		path, err := s.media.Store(ctx, up, dir+"/"+assetName("image_"), imaging.ProjectImage)
		if err != nil {
			return nil, err
		}
		images = append(images, path)
	}

	if images == nil {
		images = []string{}
	}
	p.Images = images
	p.ClientLogo = logo
	return obsolete, nil
}

// folderOf returns the asset folder fixed at creation. Records written
// before the folder was persisted fall back to the slug.
func (s *ProjectService) folderOf(p *domain.Project) string {
	if p.AssetFolder != "" {
		return p.AssetFolder
	}
	return domain.FolderName(p.Slug)
}

// Delete removes the record first, then the project's assets. Asset
// cleanup is best-effort and never fails the call.
func (s *ProjectService) Delete(ctx context.Context, id string) error {
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	metrics.ProjectsMutatedTotal.WithLabelValues("delete").Inc()

	cleanupCtx := context.WithoutCancel(ctx)
	if !s.media.DiscardDir(cleanupCtx, projectAssetRoot+"/"+s.folderOf(p)) {
		for _, path := range p.AssetPaths() {
			s.media.Discard(cleanupCtx, path)
		}
	}

	s.log.Info().Str("project_id", id).Msg("project deleted")
	return nil
}

// Get returns the project with its creator. A creator that no longer
// exists, or cannot be loaded, yields a nil Creator.
func (s *ProjectService) Get(ctx context.Context, id string) (*ports.ProjectDetail, error) {
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	detail := &ports.ProjectDetail{Project: p}
	if p.CreatedBy == "" {
		return detail, nil
	}
	creator, err := s.users.FindByID(ctx, p.CreatedBy)
	if err != nil {
		if !errors.Is(err, domain.ErrUserNotFound) {
			s.log.Warn().Err(err).Str("project_id", id).Msg("creator lookup failed")
		}
		return detail, nil
	}
	detail.Creator = creator.Summary()
	return detail, nil
}

func (s *ProjectService) GetBySlug(ctx context.Context, slug string) (*domain.Project, error) {
	return s.repo.FindBySlug(ctx, strings.ToLower(strings.TrimSpace(slug)))
}

func (s *ProjectService) List(ctx context.Context, filter domain.ProjectFilter) (*ports.Page[*domain.Project], error) {
	filter.Page, filter.Limit = normalizePaging(filter.Page, filter.Limit)
	filter.Search = strings.TrimSpace(filter.Search)

	items, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	return newPage(items, total, filter.Page, filter.Limit), nil
}
