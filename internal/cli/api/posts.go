package api

import (
	"context"
	"net/http"
	"net/url"

	"JourFlow/internal/cli/model"
)

// Snapshot — полный набор постов и изображений пользователя на сервере.
type Snapshot struct {
	Posts  []model.Post  `json:"posts"`
	Images []model.Image `json:"images"`
}

// FetchAll — GET /api/posts/{userId}.
func (c *Client) FetchAll(ctx context.Context, userID string) (*Snapshot, error) {
	var snap Snapshot
	if err := c.callJSON(ctx, "fetch posts", http.MethodGet, "/api/posts/"+url.PathEscape(userID), nil, &snap, true); err != nil {
		return nil, err
	}
	if snap.Posts == nil {
		snap.Posts = []model.Post{}
	}
	if snap.Images == nil {
		snap.Images = []model.Image{}
	}
	return &snap, nil
}

// AddPosts — POST /api/posts/add-post.
func (c *Client) AddPosts(ctx context.Context, posts []model.Post) error {
	return c.mutate(ctx, "add posts", http.MethodPost, "/api/posts/add-post", posts)
}

// AddImages — POST /api/posts/add-image.
func (c *Client) AddImages(ctx context.Context, images []model.Image) error {
	return c.mutate(ctx, "add images", http.MethodPost, "/api/posts/add-image", images)
}

// postUpdate — пост в теле PUT update: сервер заменяет изображения поста набором image_ids.
type postUpdate struct {
	model.Post
	ImageIDs []string `json:"image_ids"`
}

// UpdatePosts — PUT /api/posts/update.
func (c *Client) UpdatePosts(ctx context.Context, posts []model.Post) error {
	body := make([]postUpdate, 0, len(posts))
	for _, p := range posts {
		ids := p.ImageIDs
		if ids == nil {
			ids = []string{}
		}
		body = append(body, postUpdate{Post: p, ImageIDs: ids})
	}
	return c.mutate(ctx, "update posts", http.MethodPut, "/api/posts/update", body)
}

// DeletePosts — DELETE /api/posts/delete.
func (c *Client) DeletePosts(ctx context.Context, posts []model.Post) error {
	return c.mutate(ctx, "delete posts", http.MethodDelete, "/api/posts/delete", posts)
}
