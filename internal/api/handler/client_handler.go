package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/atelierbois/portfolio/internal/core/domain"
	"github.com/atelierbois/portfolio/internal/core/ports"
)

type ClientHandler struct {
	clientService ports.ClientService
}

func NewClientHandler(clientService ports.ClientService) *ClientHandler {
	return &ClientHandler{clientService: clientService}
}

// List returns a page of clients ordered by name.
//
// @Summary      List clients
// @Tags         clients
// @Produce      json
// @Security     BearerAuth
// @Param        search  query     string  false  "Case-insensitive name search"
// @Param        page    query     int     false  "Page number (default 1)"
// @Param        limit   query     int     false  "Page size (default 12, max 100)"
// @Success      200     {object}  pageResponse[domain.Client]
// @Failure      401     {object}  errorResponse
// @Failure      403     {object}  errorResponse
// @Router       /admin/clients [get]
func (h *ClientHandler) List(c echo.Context) error {
	search, page, limit := listQuery(c)
	result, err := h.clientService.List(c.Request().Context(), domain.ClientFilter{
		Search: search,
		Page:   page,
		Limit:  limit,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toPageResponse(result, func(cl *domain.Client) *domain.Client { return cl }))
}

// Get returns a single client.
//
// @Summary      Get client
// @Tags         clients
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Client ID"
// @Success      200  {object}  domain.Client
// @Failure      404  {object}  errorResponse
// @Router       /admin/clients/{id} [get]
func (h *ClientHandler) Get(c echo.Context) error {
	cl, err := h.clientService.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, cl)
}

// Create adds a client with an optional logo.
//
// @Summary      Create client
// @Tags         clients
// @Accept       multipart/form-data
// @Produce      json
// @Security     BearerAuth
// @Param        name          formData  string  true   "Client name"
// @Param        website       formData  string  false  "Website"
// @Param        description   formData  string  false  "Description"
// @Param        contactEmail  formData  string  false  "Contact email"
// @Param        contactPhone  formData  string  false  "Contact phone"
// @Param        address       formData  string  false  "Address"
// @Param        logo          formData  file    false  "Logo"
// @Success      201  {object}  domain.Client
// @Failure      400  {object}  errorResponse
// @Failure      409  {object}  errorResponse
// @Router       /admin/clients [post]
func (h *ClientHandler) Create(c echo.Context) error {
	f, err := parseForm(c)
	if err != nil {
		return err
	}
	logo, err := f.file("logo")
	if err != nil {
		return err
	}

	cl, err := h.clientService.Create(c.Request().Context(), ports.ClientFields{
		Name:         f.value("name"),
		Website:      f.value("website"),
		Description:  f.value("description"),
		ContactEmail: f.value("contactEmail"),
		ContactPhone: f.value("contactPhone"),
		Address:      f.value("address"),
	}, logo)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, cl)
}

// Update edits a client. Fields that are not sent keep their value.
//
// @Summary      Update client
// @Tags         clients
// @Accept       multipart/form-data
// @Produce      json
// @Security     BearerAuth
// @Param        id            path      string  true   "Client ID"
// @Param        name          formData  string  false  "Client name"
// @Param        website       formData  string  false  "Website"
// @Param        description   formData  string  false  "Description"
// @Param        contactEmail  formData  string  false  "Contact email"
// @Param        contactPhone  formData  string  false  "Contact phone"
// @Param        address       formData  string  false  "Address"
// @Param        removeLogo    formData  bool    false  "Remove the current logo"
// @Param        logo          formData  file    false  "New logo"
// @Success      200  {object}  domain.Client
// @Failure      400  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Failure      409  {object}  errorResponse
// @Router       /admin/clients/{id} [put]
func (h *ClientHandler) Update(c echo.Context) error {
	f, err := parseForm(c)
	if err != nil {
		return err
	}

	patch := ports.ClientPatch{
		Name:         f.optional("name"),
		Website:      f.optional("website"),
		Description:  f.optional("description"),
		ContactEmail: f.optional("contactEmail"),
		ContactPhone: f.optional("contactPhone"),
		Address:      f.optional("address"),
		RemoveLogo:   f.flag("removeLogo"),
	}
	if patch.Logo, err = f.file("logo"); err != nil {
		return err
	}

	cl, err := h.clientService.Update(c.Request().Context(), c.Param("id"), patch)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, cl)
}

// Delete removes a client and its logo.
//
// @Summary      Delete client
// @Tags         clients
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Client ID"
// @Success      200  {object}  messageResponse
// @Failure      404  {object}  errorResponse
// @Router       /admin/clients/{id} [delete]
func (h *ClientHandler) Delete(c echo.Context) error {
	if err := h.clientService.Delete(c.Request().Context(), c.Param("id")); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, messageResponse{Message: "client deleted"})
}
