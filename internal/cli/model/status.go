package model

// SyncStatus — статус синхронизации строки. Числовые значения совпадают с
// форматом удалённого API и хранятся в SQLite как INTEGER.
type SyncStatus int

const (
	NotSynced   SyncStatus = 0 // создана локально, сервер её не видел
	Synced      SyncStatus = 1
	NeedsUpdate SyncStatus = 2 // изменена после синхронизации
	Deleted     SyncStatus = 3 // мягко удалена, ждёт подтверждения сервера
)

func (s SyncStatus) String() string {
	switch s {
	case NotSynced:
		return "NOT_SYNCED"
	case Synced:
		return "SYNCED"
	case NeedsUpdate:
		return "NEEDS_UPDATE"
	case Deleted:
		return "DELETED"
	default:
		return "UNKNOWN"
	}
}

// Pending сообщает, что удалённая сторона ещё не видела текущее локальное состояние.
func (s SyncStatus) Pending() bool { return s != Synced }

// SettleKind — вид подтверждённой синхронизации.
type SettleKind int

const (
	SettleAdd    SettleKind = iota // NOT_SYNCED -> SYNCED
	SettleUpdate                   // NEEDS_UPDATE -> SYNCED
	SettleDelete                   // DELETED -> purge
)

func (k SettleKind) String() string {
	switch k {
	case SettleAdd:
		return "add"
	case SettleUpdate:
		return "update"
	case SettleDelete:
		return "delete"
	default:
		return "unknown"
	}
}
