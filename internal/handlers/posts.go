package handlers

import (
	"JourFlow/internal/middleware"
	"JourFlow/internal/model"
	"JourFlow/internal/repo"
	"JourFlow/internal/service"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// PostHandler обрабатывает синхронизацию постов и изображений.
type PostHandler struct {
	PostService *service.PostService
	Logger      *zap.SugaredLogger
}

// NewPostHandler создаёт хендлер постов
func NewPostHandler(s *service.PostService, logger *zap.SugaredLogger) *PostHandler {
	return &PostHandler{PostService: s, Logger: logger}
}

// PostDTO — пост на проводе.
type PostDTO struct {
	ID         string    `json:"id"`
	UserID     string    `json:"user_id"`
	Title      string    `json:"title"`
	Content    string    `json:"content"`
	IconPath   string    `json:"icon_path"`
	PostDate   time.Time `json:"post_date"`
	UpdateDate time.Time `json:"update_date"`
	SyncStatus int       `json:"sync_status"`
	// ImageIDs приходит только в PUT update
	ImageIDs []string `json:"image_ids,omitempty"`
}

// ImageDTO — изображение на проводе.
type ImageDTO struct {
	ID            string `json:"id"`
	PostID        string `json:"post_id"`
	URL           string `json:"url"`
	PublicID      string `json:"public_id"`
	CloudinaryURL string `json:"cloudinary_url"`
	SyncStatus    int    `json:"sync_status"`
}

// SnapshotResponse — ответ GET /api/posts/{userID}.
type SnapshotResponse struct {
	Posts  []PostDTO  `json:"posts"`
	Images []ImageDTO `json:"images"`
}

// GetPosts отдаёт все посты и изображения пользователя
func (h *PostHandler) GetPosts(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}
	if chi.URLParam(r, "userID") != userID {
		http.Error(w, "forbidden", http.StatusForbidden)
		return
	}

	posts, images, err := h.PostService.Snapshot(r.Context(), userID)
	if err != nil {
		h.Logger.Errorw("GetPosts: service error", "user_id", userID, "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	resp := SnapshotResponse{
		Posts:  make([]PostDTO, 0, len(posts)),
		Images: make([]ImageDTO, 0, len(images)),
	}
	for _, p := range posts {
		resp.Posts = append(resp.Posts, PostDTO{
			ID:         p.ID,
			UserID:     p.UserID,
			Title:      p.Title,
			Content:    p.Content,
			IconPath:   p.IconPath,
			PostDate:   p.PostDate.UTC(),
			UpdateDate: p.UpdateDate.UTC(),
			SyncStatus: model.StatusSynced,
		})
	}
	for _, im := range images {
		resp.Images = append(resp.Images, ImageDTO{
			ID:            im.ID,
			PostID:        im.PostID,
			URL:           im.URL,
			PublicID:      im.PublicID,
			CloudinaryURL: im.CloudinaryURL,
			SyncStatus:    model.StatusSynced,
		})
	}
	writeJSON(w, http.StatusOK, resp)
}

// AddPosts сохраняет новые посты
func (h *PostHandler) AddPosts(w http.ResponseWriter, r *http.Request) {
	h.applyPosts(w, r, "AddPosts", h.PostService.AddPosts)
}

// UpdatePosts применяет правки постов
func (h *PostHandler) UpdatePosts(w http.ResponseWriter, r *http.Request) {
	h.applyPosts(w, r, "UpdatePosts", h.PostService.UpdatePosts)
}

// DeletePosts удаляет посты
func (h *PostHandler) DeletePosts(w http.ResponseWriter, r *http.Request) {
	h.applyPosts(w, r, "DeletePosts", h.PostService.DeletePosts)
}

// AddImages сохраняет загруженные изображения
func (h *PostHandler) AddImages(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}
	var req []ImageDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.Logger.Warnw("AddImages: invalid request body", "error", err)
		http.Error(w, "invalid request", http.StatusBadRequest)
		return
	}
	in := make([]service.ImageChange, 0, len(req))
	for _, im := range req {
		in = append(in, service.ImageChange{
			Image: model.Image{
				ID:            im.ID,
				PostID:        im.PostID,
				URL:           im.URL,
				PublicID:      im.PublicID,
				CloudinaryURL: im.CloudinaryURL,
			},
			SyncStatus: im.SyncStatus,
		})
	}
	if _, err := h.PostService.AddImages(r.Context(), userID, in); err != nil {
		h.fail(w, "AddImages", userID, err)
		return
	}
	writeSuccess(w)
}

func (h *PostHandler) applyPosts(
	w http.ResponseWriter,
	r *http.Request,
	op string,
	apply func(ctx context.Context, userID string, in []service.PostChange) (service.BatchResult, error),
) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}
	var req []PostDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.Logger.Warnw(op+": invalid request body", "error", err)
		http.Error(w, "invalid request", http.StatusBadRequest)
		return
	}
	in := make([]service.PostChange, 0, len(req))
	for _, p := range req {
		in = append(in, service.PostChange{
			Post: model.Post{
				ID:         p.ID,
				UserID:     userID,
				Title:      p.Title,
				Content:    p.Content,
				IconPath:   p.IconPath,
				PostDate:   p.PostDate.UTC(),
				UpdateDate: p.UpdateDate.UTC(),
				ImageIDs:   p.ImageIDs,
			},
			SyncStatus: p.SyncStatus,
		})
	}
	if _, err := apply(r.Context(), userID, in); err != nil {
		h.fail(w, op, userID, err)
		return
	}
	writeSuccess(w)
}

func (h *PostHandler) fail(w http.ResponseWriter, op, userID string, err error) {
	if errors.Is(err, service.ErrEmptyBatch) {
		http.Error(w, "no rows provided", http.StatusBadRequest)
		return
	}
	if errors.Is(err, repo.ErrUnknownPost) {
		h.Logger.Warnw(op+": rejected", "user_id", userID, "error", err)
		http.Error(w, "post not found", http.StatusConflict)
		return
	}
	h.Logger.Errorw(op+": service error", "user_id", userID, "error", err)
	http.Error(w, "internal error", http.StatusInternalServerError)
}
