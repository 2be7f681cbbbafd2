package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	errs "tasktrack/internal/errors"
	"tasktrack/internal/model"
)

// UserPublic is the projection of a user exposed over the wire. The
// password hash never leaves the service layer.
type UserPublic struct {
	ID       uint   `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

// UserList wraps a page of users.
type UserList struct {
	Users []UserPublic `json:"users"`
}

// TaskList wraps a page of tasks.
type TaskList struct {
	Todos []model.Task `json:"todos"`
}

func newUserPublic(u *model.User) UserPublic {
	return UserPublic{ID: u.ID, Username: u.Username, Email: u.Email}
}

// domainError translates a typed domain outcome into an echo HTTP error.
// Unauthenticated responses carry the WWW-Authenticate hint.
func domainError(c echo.Context, err error) error {
	httpErr := errs.MapErrorToHTTP(err)
	if httpErr.StatusCode == http.StatusUnauthorized {
		c.Response().Header().Set(echo.HeaderWWWAuthenticate, "Bearer")
	}
	return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
}

// currentUser pulls the authenticated user placed in context by the auth
// middleware.
func currentUser(c echo.Context) (*model.User, error) {
	user, ok := c.Get("user").(*model.User)
	if !ok {
		return nil, domainError(c, errs.ErrUnauthenticated)
	}
	return user, nil
}
