package types

import (
	"errors"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"
)

type CreateVideoRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Price       int64  `json:"price"`
	URL         string `json:"url"`
	Thumbnail   string `json:"thumbnail"`
	Duration    int32  `json:"duration"`
	IsPublic    bool   `json:"isPublic"`
}

func NewCreateVideoRequestFromContext(ctx echo.Context) (*CreateVideoRequest, error) {
	var body CreateVideoRequest
	if err := ctx.Bind(&body); err != nil {
		return nil, err
	}

	body.Title = strings.TrimSpace(body.Title)
	body.URL = strings.TrimSpace(body.URL)

	return &body, nil
}

func (r *CreateVideoRequest) Validate() error {
	if r.Title == "" {
		return errors.New("title is required")
	}
	if r.URL == "" {
		return errors.New("url is required")
	}
	if r.Price <= 0 {
		return errors.New("price must be > 0")
	}
	return nil
}

type GetVideoRequest struct {
	ID uint64
}

func NewGetVideoRequestFromContext(ctx echo.Context) (*GetVideoRequest, error) {
	id, err := strconv.ParseUint(ctx.Param("id"), 10, 64)
	if err != nil {
		return nil, err
	}
	return &GetVideoRequest{ID: id}, nil
}

func (r *GetVideoRequest) Validate() error {
	if r.ID == 0 {
		return errors.New("invalid video id")
	}
	return nil
}

type VideoResponse struct {
	ID          uint64 `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Price       int64  `json:"price"`
	URL         string `json:"url"`
	Thumbnail   string `json:"thumbnail"`
	Duration    int32  `json:"duration"`
	IsPublic    bool   `json:"isPublic"`
	CreatedAt   string `json:"createdAt"`
}

type CreateVideoResponse struct {
	Success bool           `json:"success"`
	Message string         `json:"message"`
	Video   *VideoResponse `json:"video"`
}
