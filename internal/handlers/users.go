package handlers

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"github.com/BradenHooton/userdir/internal/models"
	pkghttp "github.com/BradenHooton/userdir/pkg/http"
	"github.com/go-chi/chi/v5"
)

// UserService defines the interface for user detail lookups
type UserService interface {
	GetUserDetail(ctx context.Context, id int) (*models.UserDetail, error)
}

// UserHandler handles user detail HTTP requests
type UserHandler struct {
	service UserService
}

// NewUserHandler creates a new UserHandler
func NewUserHandler(service UserService) *UserHandler {
	return &UserHandler{
		service: service,
	}
}

// GeneralSection is the first tab of the detail view
type GeneralSection struct {
	Username   string         `json:"username"`
	Email      string         `json:"email"`
	Phone      string         `json:"phone"`
	Gender     string         `json:"gender"`
	Age        int            `json:"age"`
	BirthDate  string         `json:"birth_date"`
	BloodGroup string         `json:"blood_group"`
	University string         `json:"university"`
	Address    models.Address `json:"address"`
}

// UserDetailResponse holds the requested tabs of the detail view
type UserDetailResponse struct {
	ID       int             `json:"id"`
	Name     string          `json:"name"`
	Image    string          `json:"image"`
	Sections []string        `json:"sections"`
	General  *GeneralSection `json:"general,omitempty"`
	Bank     *models.Bank    `json:"bank,omitempty"`
	Company  *models.Company `json:"company,omitempty"`
}

// detailToResponse renders section, or every section when section is ""
func detailToResponse(u *models.UserDetail, section string) *UserDetailResponse {
	resp := &UserDetailResponse{
		ID:       u.ID,
		Name:     u.FullName(),
		Image:    u.Image,
		Sections: models.DetailSections,
	}

	if section == "" || section == models.SectionGeneral {
		resp.General = &GeneralSection{
			Username:   u.Username,
			Email:      u.Email,
			Phone:      u.Phone,
			Gender:     u.Gender,
			Age:        u.Age,
			BirthDate:  u.BirthDate,
			BloodGroup: u.BloodGroup,
			University: u.University,
			Address:    u.Address,
		}
	}
	if section == "" || section == models.SectionBank {
		bank := u.Bank
		resp.Bank = &bank
	}
	if section == "" || section == models.SectionCompany {
		company := u.Company
		resp.Company = &company
	}
	return resp
}

// RegisterRoutes registers all user routes with the chi router
func (h *UserHandler) RegisterRoutes(router chi.Router) {
	router.Route("/users", func(r chi.Router) {
		r.Get("/{id}", h.GetUser) // GET /users/{id}
	})
}

// GetUser retrieves the detail record of a user
//
// @Summary Get user detail
// @Param id path int true "User ID"
// @Param section query string false "general, bank or company"
// @Produce json
// @Success 200 {object} UserDetailResponse
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 502 {object} ErrorResponse
// @Router /users/{id} [get]
func (h *UserHandler) GetUser(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil || id <= 0 {
		pkghttp.WriteBadRequest(w, "User ID must be a positive integer")
		return
	}

	section := strings.ToLower(strings.TrimSpace(r.URL.Query().Get("section")))
	if section != "" && !models.IsValidSection(section) {
		pkghttp.WriteBadRequest(w, "section must be one of: general bank company")
		return
	}

	user, err := h.service.GetUserDetail(r.Context(), id)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	pkghttp.WriteJSON(w, http.StatusOK, detailToResponse(user, section))
}
