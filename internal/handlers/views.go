package handlers

import (
	"context"
	"net/http"

	"github.com/BradenHooton/userdir/internal/directory"
	pkghttp "github.com/BradenHooton/userdir/pkg/http"
	"github.com/go-chi/chi/v5"
)

// DirectoryService defines the interface for directory view business logic
type DirectoryService interface {
	Activate(ctx context.Context) (*directory.VisiblePage, string, error)
	Reactivate(ctx context.Context, id string) (*directory.VisiblePage, error)
	Deactivate(ctx context.Context, id string) error
	Page(ctx context.Context, id string) (*directory.VisiblePage, error)
	SubmitQuery(ctx context.Context, id, query string) (*directory.VisiblePage, error)
	DraftQuery(ctx context.Context, id, query string) error
	SetStateFilter(ctx context.Context, id, state string) (*directory.VisiblePage, error)
	ResetFilters(ctx context.Context, id string) (*directory.VisiblePage, error)
	ToggleSort(ctx context.Context, id, key string) (*directory.VisiblePage, error)
	SetSort(ctx context.Context, id, key, dir string) (*directory.VisiblePage, error)
	GoToPage(ctx context.Context, id string, n int) (*directory.VisiblePage, error)
	NextPage(ctx context.Context, id string) (*directory.VisiblePage, error)
	PrevPage(ctx context.Context, id string) (*directory.VisiblePage, error)
	SetMode(ctx context.Context, id, mode string) (*directory.VisiblePage, error)
	States(ctx context.Context, id string) ([]string, error)
}

// ViewHandler handles directory view HTTP requests
type ViewHandler struct {
	service DirectoryService
}

// NewViewHandler creates a new ViewHandler
func NewViewHandler(service DirectoryService) *ViewHandler {
	return &ViewHandler{service: service}
}

// Request DTOs

// QueryRequest carries the name search text
type QueryRequest struct {
	Query string `json:"query" validate:"max=100"`
}

// FilterRequest carries the state filter; "" clears it
type FilterRequest struct {
	State string `json:"state" validate:"max=100"`
}

// SortRequest toggles a column, or sets it when Direction is given
type SortRequest struct {
	Key       string `json:"key" validate:"required,oneof=id name email age gender phone state"`
	Direction string `json:"direction" validate:"omitempty,oneof=asc desc none"`
}

// PageRequest moves to a page number or steps with next/prev
type PageRequest struct {
	Page   int    `json:"page" validate:"omitempty,gte=1"`
	Action string `json:"action" validate:"omitempty,oneof=next prev"`
}

// ModeRequest switches presentation mode
type ModeRequest struct {
	Mode string `json:"mode" validate:"required,oneof=table grid"`
}

// Response DTOs

type SortResponse struct {
	Key       string `json:"key"`
	Direction string `json:"direction"`
}

// UserRowResponse is one directory row
type UserRowResponse struct {
	ID     int    `json:"id"`
	Name   string `json:"name"`
	Email  string `json:"email"`
	Age    int    `json:"age"`
	Gender string `json:"gender"`
	Phone  string `json:"phone"`
	State  string `json:"state"`
	Image  string `json:"image"`
}

// PageResponse is the rendered state of a view
type PageResponse struct {
	ViewID       string            `json:"view_id"`
	Status       string            `json:"status"`
	Error        string            `json:"error,omitempty"`
	Mode         string            `json:"mode"`
	Query        string            `json:"query"`
	StateFilter  string            `json:"state_filter"`
	Sort         SortResponse      `json:"sort"`
	Page         int               `json:"page"`
	PageSize     int               `json:"page_size"`
	TotalPages   int               `json:"total_pages"`
	TotalMatches int               `json:"total_matches"`
	Window       []int             `json:"window"`
	HasPrev      bool              `json:"has_prev"`
	HasNext      bool              `json:"has_next"`
	FilterCount  int               `json:"filter_count"`
	Empty        bool              `json:"empty"`
	Users        []UserRowResponse `json:"users"`
}

// StatesResponse lists the values of the state filter
type StatesResponse struct {
	ViewID string   `json:"view_id"`
	States []string `json:"states"`
}

func pageToResponse(id string, p *directory.VisiblePage) *PageResponse {
	users := make([]UserRowResponse, 0, len(p.Rows))
	for _, u := range p.Rows {
		users = append(users, UserRowResponse{
			ID:     u.ID,
			Name:   u.FullName(),
			Email:  u.Email,
			Age:    u.Age,
			Gender: u.Gender,
			Phone:  u.Phone,
			State:  u.Address.State,
			Image:  u.Image,
		})
	}

	window := p.Window
	if window == nil {
		window = []int{}
	}

	return &PageResponse{
		ViewID:       id,
		Status:       string(p.Status),
		Error:        p.LoadError,
		Mode:         string(p.Mode),
		Query:        p.Query,
		StateFilter:  p.StateFilter,
		Sort:         SortResponse{Key: string(p.SortKey), Direction: string(p.SortDirection)},
		Page:         p.PageIndex,
		PageSize:     p.PageSize,
		TotalPages:   p.TotalPages,
		TotalMatches: p.TotalMatches,
		Window:       window,
		HasPrev:      p.HasPrev,
		HasNext:      p.HasNext,
		FilterCount:  p.FilterCount,
		Empty:        p.Empty(),
		Users:        users,
	}
}

// RegisterRoutes registers all view routes with the chi router
func (h *ViewHandler) RegisterRoutes(router chi.Router) {
	router.Route("/views", func(r chi.Router) {
		r.Post("/", h.Activate)                  // POST /views
		r.Get("/{id}", h.GetPage)                // GET /views/{id}
		r.Delete("/{id}", h.Deactivate)          // DELETE /views/{id}
		r.Post("/{id}/activate", h.Reactivate)   // POST /views/{id}/activate
		r.Put("/{id}/query", h.SubmitQuery)      // PUT /views/{id}/query
		r.Put("/{id}/query/draft", h.DraftQuery) // PUT /views/{id}/query/draft
		r.Put("/{id}/filter", h.SetFilter)       // PUT /views/{id}/filter
		r.Delete("/{id}/filter", h.ResetFilters) // DELETE /views/{id}/filter
		r.Post("/{id}/sort", h.Sort)             // POST /views/{id}/sort
		r.Put("/{id}/page", h.SetPage)           // PUT /views/{id}/page
		r.Put("/{id}/mode", h.SetMode)           // PUT /views/{id}/mode
		r.Get("/{id}/states", h.States)          // GET /views/{id}/states
	})
}

// writePage renders a service result
func writePage(w http.ResponseWriter, status int, id string, page *directory.VisiblePage, err error) {
	if err != nil {
		writeServiceError(w, err)
		return
	}
	pkghttp.WriteJSON(w, status, pageToResponse(id, page))
}

// Activate starts a new view. The page is returned while the users are still loading.
//
// @Summary Activate a directory view
// @Produce json
// @Success 201 {object} PageResponse
// @Router /views [post]
func (h *ViewHandler) Activate(w http.ResponseWriter, r *http.Request) {
	page, id, err := h.service.Activate(r.Context())
	if err == nil {
		w.Header().Set("Location", "/views/"+id)
	}
	writePage(w, http.StatusCreated, id, page, err)
}

// GetPage returns the current page of a view
//
// @Summary Get the visible page
// @Param id path string true "View ID"
// @Produce json
// @Success 200 {object} PageResponse
// @Failure 404 {object} ErrorResponse
// @Router /views/{id} [get]
func (h *ViewHandler) GetPage(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	page, err := h.service.Page(r.Context(), id)
	writePage(w, http.StatusOK, id, page, err)
}

// Reactivate resets a view and fetches the users again
func (h *ViewHandler) Reactivate(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	page, err := h.service.Reactivate(r.Context(), id)
	writePage(w, http.StatusOK, id, page, err)
}

// Deactivate removes a view
//
// @Summary Deactivate a directory view
// @Param id path string true "View ID"
// @Success 204
// @Failure 404 {object} ErrorResponse
// @Router /views/{id} [delete]
func (h *ViewHandler) Deactivate(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Deactivate(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// SubmitQuery applies the search text immediately
func (h *ViewHandler) SubmitQuery(w http.ResponseWriter, r *http.Request) {
	var req QueryRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	id := chi.URLParam(r, "id")
	page, err := h.service.SubmitQuery(r.Context(), id, req.Query)
	writePage(w, http.StatusOK, id, page, err)
}

// DraftQuery records search text as it is typed; it is applied after the debounce delay
//
// @Summary Debounced search
// @Accept json
// @Param id path string true "View ID"
// @Success 202
// @Router /views/{id}/query/draft [put]
func (h *ViewHandler) DraftQuery(w http.ResponseWriter, r *http.Request) {
	var req QueryRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	if err := h.service.DraftQuery(r.Context(), chi.URLParam(r, "id"), req.Query); err != nil {
		writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusAccepted)
}

// SetFilter sets or clears the state filter
func (h *ViewHandler) SetFilter(w http.ResponseWriter, r *http.Request) {
	var req FilterRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	id := chi.URLParam(r, "id")
	page, err := h.service.SetStateFilter(r.Context(), id, req.State)
	writePage(w, http.StatusOK, id, page, err)
}

// ResetFilters clears the state filter and the search text
func (h *ViewHandler) ResetFilters(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	page, err := h.service.ResetFilters(r.Context(), id)
	writePage(w, http.StatusOK, id, page, err)
}

// Sort toggles a column, or sets its direction explicitly
func (h *ViewHandler) Sort(w http.ResponseWriter, r *http.Request) {
	var req SortRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	id := chi.URLParam(r, "id")
	var (
		page *directory.VisiblePage
		err  error
	)
	if req.Direction == "" {
		page, err = h.service.ToggleSort(r.Context(), id, req.Key)
	} else {
		page, err = h.service.SetSort(r.Context(), id, req.Key, req.Direction)
	}
	writePage(w, http.StatusOK, id, page, err)
}

// SetPage navigates between pages. Out-of-range page numbers are clamped.
func (h *ViewHandler) SetPage(w http.ResponseWriter, r *http.Request) {
	var req PageRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}
	if (req.Page == 0) == (req.Action == "") {
		pkghttp.WriteBadRequest(w, "Provide either page or action")
		return
	}

	id := chi.URLParam(r, "id")
	var (
		page *directory.VisiblePage
		err  error
	)
	switch req.Action {
	case "next":
		page, err = h.service.NextPage(r.Context(), id)
	case "prev":
		page, err = h.service.PrevPage(r.Context(), id)
	default:
		page, err = h.service.GoToPage(r.Context(), id, req.Page)
	}
	writePage(w, http.StatusOK, id, page, err)
}

// SetMode switches between table and grid
func (h *ViewHandler) SetMode(w http.ResponseWriter, r *http.Request) {
	var req ModeRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	id := chi.URLParam(r, "id")
	page, err := h.service.SetMode(r.Context(), id, req.Mode)
	writePage(w, http.StatusOK, id, page, err)
}

// States lists the distinct address states of the loaded users
func (h *ViewHandler) States(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	states, err := h.service.States(r.Context(), id)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	pkghttp.WriteJSON(w, http.StatusOK, StatesResponse{ViewID: id, States: states})
}
