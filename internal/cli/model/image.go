package model

// Image — вложение поста.
type Image struct {
	ID            string     `json:"id"`
	PostID        string     `json:"post_id"`
	URL           string     `json:"url"` // локальный путь до загрузки, URL CDN после
	PublicID      string     `json:"public_id"`
	CloudinaryURL string     `json:"cloudinary_url"`
	SyncStatus    SyncStatus `json:"sync_status"`
}

// Uploaded сообщает, что у изображения уже есть долговечный удалённый URL.
func (i Image) Uploaded() bool { return i.CloudinaryURL != "" }

// MergeResult — итог слияния удалённого снимка с локальным хранилищем.
type MergeResult struct {
	PostsInserted  int
	PostsSkipped   int
	ImagesInserted int
	ImagesSkipped  int
}
