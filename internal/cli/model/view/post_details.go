package view

// PostDetails — DTO для вывода поста в CLI.
type PostDetails struct {
	ID      string
	Day     string
	Icon    string
	Title   string
	Content string
	Status  string
	Updated string

	Images []ImageLine
}

// ImageLine — строка вывода изображения: что показывать и загружено ли оно.
type ImageLine struct {
	ID       string
	URL      string
	Uploaded bool
}
