package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/scioly/portal/internal/core/domain"
	"github.com/scioly/portal/internal/core/ports"
)

// UserHandler exposes profile reads and updates.
type UserHandler struct {
	userService ports.UserService
}

func NewUserHandler(userService ports.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

type userResponse struct {
	Status string   `json:"status"`
	Data   userData `json:"data"`
}

type listUsersResponse struct {
	Status  string `json:"status"`
	Results int    `json:"results"`
	Data    struct {
		Users []domain.User `json:"users"`
	} `json:"data"`
}

type updateProfileRequest struct {
	School     *string            `json:"school"`
	Coursework *domain.Coursework `json:"coursework"`
	Categories *domain.Categories `json:"categories"`
}

// Me returns the authenticated user.
//
// @Summary      Current user
// @Tags         users
// @Produce      json
// @Success      200  {object}  userResponse
// @Failure      401  {object}  map[string]string
// @Router       /api/v1/users/me [get]
func (h *UserHandler) Me(c echo.Context) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, userResponse{Status: "success", Data: userData{User: user}})
}

// UpdateMe mutates the authenticated user's profile fields. Password and role
// are not reachable through this endpoint.
//
// @Summary      Update profile
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        body  body      updateProfileRequest  true  "Profile fields"
// @Success      200   {object}  userResponse
// @Failure      401   {object}  map[string]string
// @Router       /api/v1/users/me [patch]
func (h *UserHandler) UpdateMe(c echo.Context) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}

	var req updateProfileRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}

	updated, err := h.userService.UpdateProfile(c.Request().Context(), user.ID, ports.UpdateProfileInput{
		School:     req.School,
		Coursework: req.Coursework,
		Categories: req.Categories,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, userResponse{Status: "success", Data: userData{User: updated}})
}

// List returns every user. Admin only.
//
// @Summary      List users
// @Tags         users
// @Produce      json
// @Success      200  {object}  listUsersResponse
// @Failure      401  {object}  map[string]string
// @Failure      403  {object}  map[string]string
// @Router       /api/v1/users [get]
func (h *UserHandler) List(c echo.Context) error {
	users, err := h.userService.List(c.Request().Context())
	if err != nil {
		return err
	}

	res := listUsersResponse{Status: "success", Results: len(users)}
	res.Data.Users = users
	return c.JSON(http.StatusOK, res)
}
