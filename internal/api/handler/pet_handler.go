package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/huellitas/vetrecords/internal/core/domain"
	"github.com/huellitas/vetrecords/internal/core/ports"
)

// PetHandler handles pet profiles and their clinical history.
type PetHandler struct {
	service ports.PetService
}

func NewPetHandler(service ports.PetService) *PetHandler {
	return &PetHandler{service: service}
}

// List handles GET /v1/pets.
//
// @Summary      List pets
// @Tags         pets
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   domain.Pet
// @Failure      403  {object}  errorResponse
// @Router       /v1/pets [get]
func (h *PetHandler) List(c echo.Context, _ domain.SessionIdentity) error {
	pets, err := h.service.List(c.Request().Context(), domain.PetFilter{})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, pets)
}

// Search handles GET /v1/pets/search. Both filters match case-insensitively
// anywhere in the field.
//
// @Summary      Search pets by name or species
// @Tags         pets
// @Produce      json
// @Security     BearerAuth
// @Param        name     query     string  false  "Name contains"
// @Param        species  query     string  false  "Species contains"
// @Success      200      {array}   domain.Pet
// @Failure      403      {object}  errorResponse
// @Router       /v1/pets/search [get]
func (h *PetHandler) Search(c echo.Context, _ domain.SessionIdentity) error {
	pets, err := h.service.List(c.Request().Context(), domain.PetFilter{
		Name:    c.QueryParam("name"),
		Species: c.QueryParam("species"),
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, pets)
}

// Get handles GET /v1/pets/:id.
//
// @Summary      Get a pet profile
// @Tags         pets
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Pet id"
// @Success      200  {object}  domain.Pet
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /v1/pets/{id} [get]
func (h *PetHandler) Get(c echo.Context, _ domain.SessionIdentity) error {
	pet, err := h.service.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, pet)
}

// Create handles POST /v1/pets.
//
// @Summary      Register a pet
// @Tags         pets
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      petRequest  true  "Pet profile"
// @Success      201   {object}  domain.Pet
// @Failure      400   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Router       /v1/pets [post]
func (h *PetHandler) Create(c echo.Context, _ domain.SessionIdentity) error {
	var req petRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	pet, err := h.service.Create(c.Request().Context(), req.profile())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, pet)
}

// Update handles PUT /v1/pets/:id. Only profile fields can be changed here;
// the clinical history grows through RecordVisit alone.
//
// @Summary      Update a pet profile
// @Tags         pets
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string      true  "Pet id"
// @Param        body  body      petRequest  true  "Pet profile"
// @Success      200   {object}  domain.Pet
// @Failure      400   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Router       /v1/pets/{id} [put]
func (h *PetHandler) Update(c echo.Context, _ domain.SessionIdentity) error {
	var req petRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	pet, err := h.service.UpdateProfile(c.Request().Context(), c.Param("id"), req.profile())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, pet)
}

// Delete handles DELETE /v1/pets/:id.
//
// @Summary      Delete a pet
// @Tags         pets
// @Security     BearerAuth
// @Param        id   path  string  true  "Pet id"
// @Success      204
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /v1/pets/{id} [delete]
func (h *PetHandler) Delete(c echo.Context, _ domain.SessionIdentity) error {
	if err := h.service.Delete(c.Request().Context(), c.Param("id")); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// History handles GET /v1/pets/:id/history.
//
// @Summary      Get a pet's clinical history
// @Tags         clinical
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Pet id"
// @Success      200  {object}  historyResponse
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /v1/pets/{id}/history [get]
func (h *PetHandler) History(c echo.Context, _ domain.SessionIdentity) error {
	pet, err := h.service.History(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toHistoryResponse(pet))
}

// RecordVisit handles POST /v1/pets/:id/visits. The visit is appended to the
// pet's history, dated with the current day.
//
// @Summary      Record a clinical visit
// @Tags         clinical
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string        true  "Pet id"
// @Param        body  body      visitRequest  true  "Visit"
// @Success      201   {object}  historyResponse
// @Failure      400   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Failure      409   {object}  errorResponse
// @Router       /v1/pets/{id}/visits [post]
func (h *PetHandler) RecordVisit(c echo.Context, caller domain.SessionIdentity) error {
	var req visitRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	pet, err := h.service.RecordVisit(c.Request().Context(), caller, c.Param("id"), req.visit())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, toHistoryResponse(pet))
}
