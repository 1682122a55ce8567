package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/atelierbois/portfolio/internal/core/domain"
)

const collectionProjects = "projects"

type ProjectRepository struct {
	col *mongo.Collection
}

func NewProjectRepository(db *mongo.Database) *ProjectRepository {
	return &ProjectRepository{col: db.Collection(collectionProjects)}
}

type mongoProject struct {
	ID           primitive.ObjectID `bson:"_id,omitempty"`
	Title        string             `bson:"title"`
	Slug         string             `bson:"slug"`
	Description  string             `bson:"description"`
	Client       string             `bson:"client"`
	ClientLogo   string             `bson:"client_logo,omitempty"`
	Images       []string           `bson:"images"`
	Tags         []string           `bson:"tags"`
	Year         string             `bson:"year,omitempty"`
	Materials    string             `bson:"materials,omitempty"`
	Techniques   string             `bson:"techniques,omitempty"`
	Technologies string             `bson:"technologies,omitempty"`
	AssetFolder  string             `bson:"asset_folder"`
	CreatedBy    string             `bson:"created_by,omitempty"`
	CreatedAt    time.Time          `bson:"created_at"`
	UpdatedAt    time.Time          `bson:"updated_at"`
	PublishedAt  *time.Time         `bson:"published_at,omitempty"`
}

func projectDoc(p *domain.Project) mongoProject {
	images := p.Images
	if images == nil {
		images = []string{}
	}
	tags := p.Tags
	if tags == nil {
		tags = []string{}
	}
	return mongoProject{
		Title:        p.Title,
		Slug:         p.Slug,
		Description:  p.Description,
		Client:       p.Client,
		ClientLogo:   p.ClientLogo,
		Images:       images,
		Tags:         tags,
		Year:         p.Year,
		Materials:    p.Materials,
		Techniques:   p.Techniques,
		Technologies: p.Technologies,
		AssetFolder:  p.AssetFolder,
		CreatedBy:    p.CreatedBy,
		CreatedAt:    p.CreatedAt,
		UpdatedAt:    p.UpdatedAt,
		PublishedAt:  p.PublishedAt,
	}
}

func (mp *mongoProject) toDomain() *domain.Project {
	p := &domain.Project{
		ID:           mp.ID.Hex(),
		Title:        mp.Title,
		Slug:         mp.Slug,
		Description:  mp.Description,
		Client:       mp.Client,
		ClientLogo:   mp.ClientLogo,
		Images:       mp.Images,
		Tags:         mp.Tags,
		Year:         mp.Year,
		Materials:    mp.Materials,
		Techniques:   mp.Techniques,
		Technologies: mp.Technologies,
		AssetFolder:  mp.AssetFolder,
		CreatedBy:    mp.CreatedBy,
		CreatedAt:    mp.CreatedAt.UTC(),
		UpdatedAt:    mp.UpdatedAt.UTC(),
		PublishedAt:  mp.PublishedAt,
	}
	if p.Images == nil {
		p.Images = []string{}
	}
	if p.Tags == nil {
		p.Tags = []string{}
	}
	return p
}

func (r *ProjectRepository) Create(ctx context.Context, p *domain.Project) (*domain.Project, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := projectDoc(p)
	doc.ID = primitive.NewObjectID()
	if _, err := r.col.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, domain.ErrSlugTaken
		}
		return nil, fmt.Errorf("insert project: %w", err)
	}
	return doc.toDomain(), nil
}

func (r *ProjectRepository) FindByID(ctx context.Context, id string) (*domain.Project, error) {
	oid, ok := objectID(id)
	if !ok {
		return nil, domain.ErrProjectNotFound
	}
	return r.findOne(ctx, bson.M{"_id": oid})
}

func (r *ProjectRepository) FindBySlug(ctx context.Context, slug string) (*domain.Project, error) {
	return r.findOne(ctx, bson.M{"slug": slug})
}

func (r *ProjectRepository) findOne(ctx context.Context, filter bson.M) (*domain.Project, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var mp mongoProject
	if err := r.col.FindOne(ctx, filter).Decode(&mp); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrProjectNotFound
		}
		return nil, fmt.Errorf("find project: %w", err)
	}
	return mp.toDomain(), nil
}

func (r *ProjectRepository) SlugExists(ctx context.Context, slug, excludeID string) (bool, error) {
	filter := bson.M{"slug": slug}
	if oid, ok := objectID(excludeID); ok {
		filter["_id"] = bson.M{"$ne": oid}
	}
	return r.exists(ctx, filter)
}

func (r *ProjectRepository) FolderInUse(ctx context.Context, folder string) (bool, error) {
	return r.exists(ctx, bson.M{"asset_folder": folder})
}

func (r *ProjectRepository) exists(ctx context.Context, filter bson.M) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	n, err := r.col.CountDocuments(ctx, filter, options.Count().SetLimit(1))
	if err != nil {
		return false, fmt.Errorf("count projects: %w", err)
	}
	return n > 0, nil
}

// Update replaces the whole document. There is no version check, so the
// last concurrent writer wins.
func (r *ProjectRepository) Update(ctx context.Context, p *domain.Project) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	oid, ok := objectID(p.ID)
	if !ok {
		return domain.ErrProjectNotFound
	}
	doc := projectDoc(p)
	doc.ID = oid

	res, err := r.col.ReplaceOne(ctx, bson.M{"_id": oid}, doc)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return domain.ErrSlugTaken
		}
		return fmt.Errorf("update project: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrProjectNotFound
	}
	return nil
}

func (r *ProjectRepository) Delete(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	oid, ok := objectID(id)
	if !ok {
		return domain.ErrProjectNotFound
	}
	res, err := r.col.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return fmt.Errorf("delete project: %w", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrProjectNotFound
	}
	return nil
}

// List returns projects newest first. Search matches title, description,
// client and tags as a case-insensitive substring.
func (r *ProjectRepository) List(ctx context.Context, filter domain.ProjectFilter) ([]*domain.Project, int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	query := bson.M{}
	if filter.Search != "" {
		re := containsInsensitive(filter.Search)
		query["$or"] = bson.A{
			bson.M{"title": re},
			bson.M{"description": re},
			bson.M{"client": re},
			bson.M{"tags": re},
		}
	}

	total, err := r.col.CountDocuments(ctx, query)
	if err != nil {
		return nil, 0, fmt.Errorf("count projects: %w", err)
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}}).
		SetSkip(skipFor(filter.Page, filter.Limit)).
		SetLimit(int64(filter.Limit))

	cur, err := r.col.Find(ctx, query, opts)
	if err != nil {
		return nil, 0, fmt.Errorf("list projects: %w", err)
	}
	defer cur.Close(ctx)

	var docs []mongoProject
	if err := cur.All(ctx, &docs); err != nil {
		return nil, 0, fmt.Errorf("decode projects: %w", err)
	}

	items := make([]*domain.Project, 0, len(docs))
	for i := range docs {
		items = append(items, docs[i].toDomain())
	}
	return items, total, nil
}

// EnsureIndexes creates necessary indexes on the projects collection.
func (r *ProjectRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, indexTimeout)
	defer cancel()

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "slug", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "asset_folder", Value: 1}}},
		{Keys: bson.D{{Key: "created_at", Value: -1}}},
	}

	_, err := r.col.Indexes().CreateMany(ctx, indexes)
	return err
}
