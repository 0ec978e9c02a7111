package controller

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"

	"github.com/mkarani499/video-platform-2/app/factory"
	"github.com/mkarani499/video-platform-2/app/service"
	"github.com/mkarani499/video-platform-2/app/types"
)

type UserController struct {
	userService *service.UserService
	logger      logrus.FieldLogger
}

func NewUserController(userService *service.UserService) *UserController {
	return &UserController{
		userService: userService,
		logger:      factory.NewModuleLogger("user-controller"),
	}
}

func (c *UserController) Register(ctx echo.Context) error {
	req, err := types.NewRegisterUserRequestFromContext(ctx)
	if err != nil {
		return c.writeError(ctx, http.StatusBadRequest, "invalid request body")
	}
	if err := req.Validate(); err != nil {
		return c.writeError(ctx, http.StatusBadRequest, err.Error())
	}

	user, err := c.userService.Register(ctx.Request().Context(), req)
	if err != nil {
		if errors.Is(err, service.ErrUserExists) {
			return c.writeError(ctx, http.StatusConflict, "email is already registered")
		}
		factory.LoggerWithContext(c.logger, ctx).WithError(err).Error("Register user failed")
		return c.writeError(ctx, http.StatusInternalServerError, "internal server error")
	}

	return ctx.JSON(http.StatusCreated, &types.RegisterUserResponse{
		Success: true,
		Message: "User registered successfully",
		UserID:  user.ID,
	})
}

func (c *UserController) writeError(ctx echo.Context, statusCode int, message string) error {
	return ctx.JSON(statusCode, &types.ErrorResponse{Error: message})
}
