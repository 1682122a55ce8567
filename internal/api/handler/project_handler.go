package handler

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/atelierbois/portfolio/internal/core/domain"
	"github.com/atelierbois/portfolio/internal/core/ports"
)

type ProjectHandler struct {
	projectService ports.ProjectService
}

func NewProjectHandler(projectService ports.ProjectService) *ProjectHandler {
	return &ProjectHandler{projectService: projectService}
}

// listQuery reads search, page and limit. Unparseable numbers fall back to
// the service defaults.
func listQuery(c echo.Context) (search string, page, limit int) {
	page, _ = strconv.Atoi(c.QueryParam("page"))
	limit, _ = strconv.Atoi(c.QueryParam("limit"))
	return strings.TrimSpace(c.QueryParam("search")), page, limit
}

// List returns a page of projects, newest first.
//
// @Summary      List projects
// @Tags         projects
// @Produce      json
// @Param        search  query     string  false  "Case-insensitive search over title, description, client and tags"
// @Param        page    query     int     false  "Page number (default 1)"
// @Param        limit   query     int     false  "Page size (default 12, max 100)"
// @Success      200     {object}  pageResponse[projectResponse]
// @Failure      500     {object}  errorResponse
// @Router       /projects [get]
func (h *ProjectHandler) List(c echo.Context) error {
	search, page, limit := listQuery(c)
	result, err := h.projectService.List(c.Request().Context(), domain.ProjectFilter{
		Search: search,
		Page:   page,
		Limit:  limit,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toPageResponse(result, toProjectResponse))
}

// Get returns a project with its creator.
//
// @Summary      Get project
// @Tags         projects
// @Produce      json
// @Param        id   path      string  true  "Project ID"
// @Success      200  {object}  projectDetailResponse
// @Failure      404  {object}  errorResponse
// @Router       /projects/{id} [get]
func (h *ProjectHandler) Get(c echo.Context) error {
	detail, err := h.projectService.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toProjectDetailResponse(detail))
}

// GetBySlug returns the project published under slug.
//
// @Summary      Get project by slug
// @Tags         projects
// @Produce      json
// @Param        slug  path      string  true  "Project slug"
// @Success      200   {object}  projectResponse
// @Failure      404   {object}  errorResponse
// @Router       /projects/slug/{slug} [get]
func (h *ProjectHandler) GetBySlug(c echo.Context) error {
	p, err := h.projectService.GetBySlug(c.Request().Context(), c.Param("slug"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toProjectResponse(p))
}

// Create stores a new project with its images.
//
// @Summary      Create project
// @Tags         projects
// @Accept       multipart/form-data
// @Produce      json
// @Security     BearerAuth
// @Param        title         formData  string  true   "Title"
// @Param        description   formData  string  true   "Description"
// @Param        client        formData  string  false  "Client name"
// @Param        tags          formData  string  false  "Comma-separated tags"
// @Param        year          formData  string  false  "Year"
// @Param        materials     formData  string  false  "Materials"
// @Param        techniques    formData  string  false  "Techniques"
// @Param        technologies  formData  string  false  "Technologies"
// @Param        mainImage     formData  file    false  "Main image"
// @Param        clientLogo    formData  file    false  "Client logo"
// @Param        files         formData  file    false  "Additional images"
// @Success      201  {object}  projectResponse
// @Failure      400  {object}  errorResponse
// @Failure      401  {object}  errorResponse
// @Failure      403  {object}  errorResponse
// @Failure      409  {object}  errorResponse
// @Router       /projects [post]
func (h *ProjectHandler) Create(c echo.Context) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}
	f, err := parseForm(c)
	if err != nil {
		return err
	}

	in := ports.CreateProjectInput{
		Fields: ports.ProjectFields{
			Title:        f.value("title"),
			Description:  f.value("description"),
			Client:       f.value("client"),
			Tags:         f.value("tags"),
			Year:         f.value("year"),
			Materials:    f.value("materials"),
			Techniques:   f.value("techniques"),
			Technologies: f.value("technologies"),
		},
		CreatedBy: user.ID,
	}
	if in.MainImage, err = f.file("mainImage"); err != nil {
		return err
	}
	if in.ClientLogo, err = f.file("clientLogo"); err != nil {
		return err
	}
	if in.AdditionalImages, err = f.files("files[]", "files", "additionalImages[]", "additionalImages"); err != nil {
		return err
	}

	p, err := h.projectService.Create(c.Request().Context(), in)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, toProjectResponse(p))
}

// Update edits a project. A JSON body changes text fields only; a
// multipart body may also add, replace and remove images.
//
// @Summary      Update project
// @Tags         projects
// @Accept       json,multipart/form-data
// @Produce      json
// @Security     BearerAuth
// @Param        id                      path      string                true   "Project ID"
// @Param        body                    body      updateProjectRequest  false  "Text fields (JSON form)"
// @Param        removeMainImage         formData  bool                  false  "Remove the main image"
// @Param        removeClientLogo        formData  bool                  false  "Remove the client logo"
// @Param        removeAdditionalImages  formData  string                false  "JSON array of additional-image indices to remove"
// @Param        mainImage               formData  file                  false  "New main image"
// @Param        clientLogo              formData  file                  false  "New client logo"
// @Param        additionalImages        formData  file                  false  "Images to append"
// @Success      200  {object}  projectResponse
// @Failure      400  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Failure      409  {object}  errorResponse
// @Router       /projects/{id} [put]
func (h *ProjectHandler) Update(c echo.Context) error {
	var (
		patch ports.ProjectPatch
		files *ports.ProjectFileChanges
	)

	if strings.HasPrefix(c.Request().Header.Get(echo.HeaderContentType), echo.MIMEMultipartForm) {
		var err error
		if patch, files, err = projectUpdateFromForm(c); err != nil {
			return err
		}
	} else {
		var req updateProjectRequest
		if err := c.Bind(&req); err != nil {
			return c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid payload"})
		}
		if err := c.Validate(&req); err != nil {
			return c.JSON(http.StatusBadRequest, errorResponse{Error: err.Error()})
		}
		patch = req.toPatch()
	}

	p, err := h.projectService.Update(c.Request().Context(), c.Param("id"), patch, files)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toProjectResponse(p))
}

func projectUpdateFromForm(c echo.Context) (ports.ProjectPatch, *ports.ProjectFileChanges, error) {
	f, err := parseForm(c)
	if err != nil {
		return ports.ProjectPatch{}, nil, err
	}

	patch := ports.ProjectPatch{
		Title:        f.optional("title"),
		Description:  f.optional("description"),
		Client:       f.optional("client"),
		Tags:         f.optional("tags"),
		Year:         f.optional("year"),
		Materials:    f.optional("materials"),
		Techniques:   f.optional("techniques"),
		Technologies: f.optional("technologies"),
	}

	files := &ports.ProjectFileChanges{
		RemoveMainImage:  f.flag("removeMainImage"),
		RemoveClientLogo: f.flag("removeClientLogo"),
	}
	if files.RemoveAdditional, err = f.indices("removeAdditionalImages"); err != nil {
		return patch, nil, err
	}
	if files.MainImage, err = f.file("mainImage"); err != nil {
		return patch, nil, err
	}
	if files.ClientLogo, err = f.file("clientLogo"); err != nil {
		return patch, nil, err
	}
	if files.AdditionalImages, err = f.files("additionalImages[]", "additionalImages", "files[]", "files"); err != nil {
		return patch, nil, err
	}
	return patch, files, nil
}

// Delete removes a project and its stored images.
//
// @Summary      Delete project
// @Tags         projects
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Project ID"
// @Success      200  {object}  messageResponse
// @Failure      404  {object}  errorResponse
// @Router       /projects/{id} [delete]
func (h *ProjectHandler) Delete(c echo.Context) error {
	if err := h.projectService.Delete(c.Request().Context(), c.Param("id")); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, messageResponse{Message: "project deleted"})
}
