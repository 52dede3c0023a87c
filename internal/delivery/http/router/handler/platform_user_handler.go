package handler

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"soulgate/internal/delivery/http/middleware"
	"soulgate/internal/delivery/http/response"
	"soulgate/internal/domain/entity"
	domainerrors "soulgate/internal/domain/errors"
	"soulgate/internal/usecase"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

// PlatformUserHandler holds dependencies for membership management handlers.
type PlatformUserHandler struct {
	uc     usecase.PlatformUserUsecase
	logger *slog.Logger
}

// NewPlatformUserHandler is the constructor for PlatformUserHandler, injected by Fx.
func NewPlatformUserHandler(uc usecase.PlatformUserUsecase, logger *slog.Logger) *PlatformUserHandler {
	return &PlatformUserHandler{uc: uc, logger: logger}
}

type addUserRequest struct {
	UserID int64 `json:"userId" validate:"required"`
	// Roles may be omitted; the membership then starts as a plain member.
	Roles []string `json:"roles" validate:"omitempty,min=1"`
}

type setRolesRequest struct {
	Roles []string `json:"roles" validate:"required,min=1"`
}

type memberView struct {
	User      *userView `json:"user"`
	Roles     []string  `json:"roles"`
	CreatedAt time.Time `json:"createdAt"`
}

type memberListView struct {
	Members    []memberView `json:"members"`
	TotalCount int64        `json:"totalCount"`
}

func toMemberView(membership *entity.PlatformUser) memberView {
	view := memberView{
		Roles:     membership.Roles.ToStrings(),
		CreatedAt: membership.CreatedAt,
	}
	if membership.User != nil {
		view.User = toUserView(membership.User)
	} else {
		view.User = &userView{ID: membership.UserID}
	}

	return view
}

// ListMembers returns one page of a platform's memberships.
func (h *PlatformUserHandler) ListMembers(c echo.Context) error {
	platformID, err := pathID(c, "platform_id")
	if err != nil {
		return err
	}

	page, _ := strconv.Atoi(c.QueryParam("page"))
	pageSize, _ := strconv.Atoi(c.QueryParam("pageSize"))

	output, err := h.uc.ListMembers(c.Request().Context(), usecase.ListMembersInput{
		PlatformID: platformID,
		Page:       page,
		PageSize:   pageSize,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	view := memberListView{
		Members:    make([]memberView, 0, len(output.Members)),
		TotalCount: output.TotalCount,
	}
	for _, membership := range output.Members {
		view.Members = append(view.Members, toMemberView(membership))
	}

	return response.Success(c, http.StatusOK, view, "")
}

// GetMember returns a single membership.
func (h *PlatformUserHandler) GetMember(c echo.Context) error {
	platformID, err := pathID(c, "platform_id")
	if err != nil {
		return err
	}
	userID, err := pathID(c, "user_id")
	if err != nil {
		return err
	}

	membership, err := h.uc.FindOne(c.Request().Context(), platformID, userID)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, toMemberView(membership), "")
}

// AddMember enrolls a user on the platform, as a plain member unless an
// explicit role set is supplied.
func (h *PlatformUserHandler) AddMember(c echo.Context) error {
	platformID, err := pathID(c, "platform_id")
	if err != nil {
		return err
	}

	var input addUserRequest
	if err := c.Bind(&input); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid member input")
	}
	if err := c.Validate(&input); err != nil {
		return err
	}

	roles, err := entity.ParseRoles(input.Roles)
	if err != nil {
		return domainerrors.ErrValidationFailed.WrapMessage(err.Error())
	}

	membership, err := h.uc.AddUser(c.Request().Context(), usecase.AddUserInput{
		PlatformID: platformID,
		UserID:     input.UserID,
		Roles:      roles,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusCreated, toMemberView(membership), "Member added")
}

// SetRoles replaces a member's role set.
func (h *PlatformUserHandler) SetRoles(c echo.Context) error {
	platformID, err := pathID(c, "platform_id")
	if err != nil {
		return err
	}
	userID, err := pathID(c, "user_id")
	if err != nil {
		return err
	}

	var input setRolesRequest
	if err := c.Bind(&input); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid roles input")
	}
	if err := c.Validate(&input); err != nil {
		return err
	}

	roles, err := entity.ParseRoles(input.Roles)
	if err != nil {
		return domainerrors.ErrValidationFailed.WrapMessage(err.Error())
	}

	membership, err := h.uc.SetRoles(c.Request().Context(), usecase.SetRolesInput{
		PlatformID: platformID,
		UserID:     userID,
		Roles:      roles,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, toMemberView(membership), "Roles updated")
}

// RemoveMember deletes a membership.
func (h *PlatformUserHandler) RemoveMember(c echo.Context) error {
	platformID, err := pathID(c, "platform_id")
	if err != nil {
		return err
	}
	userID, err := pathID(c, "user_id")
	if err != nil {
		return err
	}

	if err := h.uc.RemoveUser(c.Request().Context(), platformID, userID); err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, nil, "Member removed")
}

// Quit lets the authenticated caller leave the platform.
func (h *PlatformUserHandler) Quit(c echo.Context) error {
	claims := middleware.ClaimsFromEcho(c)
	if claims == nil {
		return domainerrors.ErrInvalidToken
	}

	platformID, err := pathID(c, "platform_id")
	if err != nil {
		return err
	}

	if err := h.uc.Quit(c.Request().Context(), platformID, claims.UserID); err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, nil, "Left platform")
}

func pathID(c echo.Context, name string) (int64, error) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil {
		return 0, domainerrors.ErrValidationFailed.WrapMessage(name + " must be an integer")
	}

	return id, nil
}
