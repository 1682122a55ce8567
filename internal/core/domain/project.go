package domain

import (
	"sort"
	"time"
)

// Project is a portfolio entry. Images[0] is the main image; there is no
// separate flag, the position is the schema.
type Project struct {
	ID           string     `json:"id"`
	Title        string     `json:"title"`
	Slug         string     `json:"slug"`
	Description  string     `json:"description"`
	Client       string     `json:"client"`
	ClientLogo   string     `json:"clientLogo"`
	Images       []string   `json:"images"`
	Tags         []string   `json:"tags"`
	Year         string     `json:"year"`
	Materials    string     `json:"materials"`
	Techniques   string     `json:"techniques"`
	Technologies string     `json:"technologies"`
	AssetFolder  string     `json:"-"`
	CreatedBy    string     `json:"createdBy"`
	CreatedAt    time.Time  `json:"createdAt"`
	UpdatedAt    time.Time  `json:"updatedAt"`
	PublishedAt  *time.Time `json:"publishedAt,omitempty"`
}

// MainImage returns the image at position 0, or "" when there is none.
func (p *Project) MainImage() string {
	if len(p.Images) == 0 {
		return ""
	}
	return p.Images[0]
}

// AdditionalImages returns the view of Images that excludes the main image.
func (p *Project) AdditionalImages() []string {
	if len(p.Images) <= 1 {
		return []string{}
	}
	return p.Images[1:]
}

// AssetPaths lists every stored file the project references.
func (p *Project) AssetPaths() []string {
	paths := make([]string, 0, len(p.Images)+1)
	paths = append(paths, p.Images...)
	if p.ClientLogo != "" {
		paths = append(paths, p.ClientLogo)
	}
	return paths
}

// AbsoluteImageIndex maps an index into the additional-images view onto
// its position in Images.
func AbsoluteImageIndex(additional int) int {
	return additional + 1
}

// RemoveAdditionalImages drops the entries addressed by indices into the
// additional-images view. Removals run in descending absolute order so an
// earlier removal never shifts a later one. Out-of-range and repeated
// indices are ignored. It returns the remaining images and the removed paths.
func RemoveAdditionalImages(images []string, indices []int) (kept []string, removed []string) {
	abs := make([]int, 0, len(indices))
	seen := make(map[int]struct{}, len(indices))
	for _, idx := range indices {
		pos := AbsoluteImageIndex(idx)
		if idx < 0 || pos >= len(images) {
			continue
		}
		if _, dup := seen[pos]; dup {
			continue
		}
		seen[pos] = struct{}{}
		abs = append(abs, pos)
	}
	sort.Sort(sort.Reverse(sort.IntSlice(abs)))

	kept = append([]string(nil), images...)
	for _, pos := range abs {
		removed = append(removed, kept[pos])
		kept = append(kept[:pos], kept[pos+1:]...)
	}
	return kept, removed
}

// RemoveMainImage shifts Images left by one and returns the removed path.
func RemoveMainImage(images []string) (rest []string, removed string) {
	if len(images) == 0 {
		return images, ""
	}
	return append([]string(nil), images[1:]...), images[0]
}

// ReplaceMainImage installs path at position 0. When the current main
// image is kept (replace is true and one exists) it is overwritten and
// returned; otherwise path is prepended.
func ReplaceMainImage(images []string, path string, replace bool) (out []string, replaced string) {
	if replace && len(images) > 0 {
		out = append([]string(nil), images...)
		replaced = out[0]
		out[0] = path
		return out, replaced
	}
	return append([]string{path}, images...), ""
}

// ProjectFilter carries the list query for projects.
type ProjectFilter struct {
	Search string
	Page   int
	Limit  int
}
