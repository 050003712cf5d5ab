package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/movie-rental-store/internal/model"
	"github.com/iliyamo/movie-rental-store/internal/repository"
)

// CustomerHandler serves CRUD endpoints for customers.
type CustomerHandler struct {
	Customers *repository.CustomerRepo
}

// NewCustomerHandler constructs a CustomerHandler.
func NewCustomerHandler(customers *repository.CustomerRepo) *CustomerHandler {
	if customers == nil {
		panic("nil repository passed to NewCustomerHandler")
	}
	return &CustomerHandler{Customers: customers}
}

type customerReq struct {
	Name   string `json:"name"`
	Phone  string `json:"phone"`
	IsGold bool   `json:"isGold"`
}

func (r *customerReq) validate() error {
	r.Name = strings.TrimSpace(r.Name)
	r.Phone = strings.TrimSpace(r.Phone)
	if len(r.Name) < 5 || len(r.Name) > 50 {
		return errors.New("name must be 5 to 50 characters")
	}
	if len(r.Phone) < 5 || len(r.Phone) > 50 {
		return errors.New("phone must be 5 to 50 characters")
	}
	return nil
}

// List handles GET /api/customers.
func (h *CustomerHandler) List(c echo.Context) error {
	customers, err := h.Customers.List(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.JSON(http.StatusOK, customers)
}

// Get handles GET /api/customers/:id.
func (h *CustomerHandler) Get(c echo.Context) error {
	id, ok := pathID(c)
	if !ok {
		return invalidID(c)
	}
	customer, err := h.Customers.GetByID(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrCustomerNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "customer not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.JSON(http.StatusOK, customer)
}

// Create handles POST /api/customers.
func (h *CustomerHandler) Create(c echo.Context) error {
	var req customerReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if err := req.validate(); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	customer := &model.Customer{Name: req.Name, Phone: req.Phone, IsGold: req.IsGold}
	if err := h.Customers.Create(c.Request().Context(), customer); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create customer failed"})
	}
	return c.JSON(http.StatusOK, customer)
}

// Update handles PUT /api/customers/:id.
func (h *CustomerHandler) Update(c echo.Context) error {
	id, ok := pathID(c)
	if !ok {
		return invalidID(c)
	}
	var req customerReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if err := req.validate(); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	customer := &model.Customer{ID: id, Name: req.Name, Phone: req.Phone, IsGold: req.IsGold}
	if err := h.Customers.Update(c.Request().Context(), customer); err != nil {
		if errors.Is(err, repository.ErrCustomerNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "customer not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update customer failed"})
	}
	return c.JSON(http.StatusOK, customer)
}

// Delete handles DELETE /api/customers/:id.
func (h *CustomerHandler) Delete(c echo.Context) error {
	id, ok := pathID(c)
	if !ok {
		return invalidID(c)
	}
	if err := h.Customers.Delete(c.Request().Context(), id); err != nil {
		if errors.Is(err, repository.ErrCustomerNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "customer not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete customer failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"deleted": id})
}
