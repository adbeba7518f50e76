package model

import (
	"strings"
	"time"
)

// DayLayout — формат календарного дня поста.
const DayLayout = "2006-01-02"

// MoodIcon — идентификатор иконки настроения.
type MoodIcon string

const (
	IconAngry      MoodIcon = "angry"
	IconHappy      MoodIcon = "happy"
	IconNormal     MoodIcon = "normal"
	IconSad        MoodIcon = "sad"
	IconSoSo       MoodIcon = "soSo"
	IconTerrible   MoodIcon = "terrible"
	IconVeryAngry  MoodIcon = "veryAngry"
	IconVerryHappy MoodIcon = "verryHappy" // так пишется в API, не исправлять
	IconVerySad    MoodIcon = "verySad"
)

// MoodIcons — допустимые иконки в порядке отображения.
var MoodIcons = []MoodIcon{
	IconAngry, IconHappy, IconNormal, IconSad, IconSoSo,
	IconTerrible, IconVeryAngry, IconVerryHappy, IconVerySad,
}

// Valid проверяет, что иконка входит в фиксированный набор.
func (m MoodIcon) Valid() bool {
	for _, ic := range MoodIcons {
		if ic == m {
			return true
		}
	}
	return false
}

// Post — запись дневника.
type Post struct {
	ID         string     `json:"id"`
	UserID     string     `json:"user_id"`
	Title      string     `json:"title"`
	Content    string     `json:"content"`
	IconPath   MoodIcon   `json:"icon_path"`
	PostDate   time.Time  `json:"post_date"`
	UpdateDate time.Time  `json:"update_date"`
	SyncStatus SyncStatus `json:"sync_status"`

	// ImageIDs — полный набор изображений поста для отправки правки; nil вне push updates.
	ImageIDs []string `json:"-"`
}

// Day возвращает календарный день поста (UTC).
func (p Post) Day() string { return p.PostDate.UTC().Format(DayLayout) }

// NewPost — входные данные для создания поста.
type NewPost struct {
	Title      string
	Content    string
	IconPath   MoodIcon
	PostDate   time.Time
	ImagePaths []string // локальные пути к уже сохранённым файлам
}

// PostPatch — частичное изменение поста. nil-поле означает «не передано».
// ImagePaths != nil (в том числе пустой срез) полностью заменяет изображения.
type PostPatch struct {
	Title      *string
	Content    *string
	IconPath   *MoodIcon
	ImagePaths []string
}

// PostFilter — фильтр выборки постов.
type PostFilter struct {
	Day  string // YYYY-MM-DD, пусто — без фильтра
	Text string // подстрока заголовка или текста
}

// BlankText сообщает, что и заголовок, и текст пустые.
func BlankText(title, content string) bool {
	return strings.TrimSpace(title) == "" && strings.TrimSpace(content) == ""
}

// NormalizePostDate приводит дату поста к полуночи UTC её календарного дня.
func NormalizePostDate(t time.Time) time.Time {
	u := t.UTC()
	return time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
}

// ParseDay разбирает YYYY-MM-DD в полночь UTC.
func ParseDay(s string) (time.Time, error) {
	return time.ParseInLocation(DayLayout, strings.TrimSpace(s), time.UTC)
}
