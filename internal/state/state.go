// Package state хранит состояние многошаговых диалогов в памяти процесса.
// Оно энергозависимо: перезапуск бота молча обрывает все начатые сценарии.
package state

import "sync"

// Step — текущий шаг диалога.
type Step int

const (
	// Мастера создания тикетов.
	ReturnItem Step = iota
	BugReport
	TechQuestion
	// Админские режимы.
	AwaitAdminID
	AwaitTicketReply
	AwaitBroadcast
)

// Data — накопленные поля текущего сценария.
type Data struct {
	Nick        string
	Description string
	Proofs      []string

	// Для быстрого ответа на тикет.
	TicketID   int64
	TargetUser int64
	AdminName  string
}

// Conversation — шаг и данные одного чата.
type Conversation struct {
	Step Step
	Data Data
}

// Tracker — отображение chatID -> Conversation. Обновления приходят
// по одному, но доступ всё равно под мьютексом, чтобы трекер оставался
// корректным при конкурентной обработке.
type Tracker struct {
	mu sync.Mutex
	m  map[int64]Conversation
}

// NewTracker создаёт пустой трекер.
func NewTracker() *Tracker {
	return &Tracker{m: make(map[int64]Conversation)}
}

// Get возвращает состояние чата.
func (t *Tracker) Get(chatID int64) (Conversation, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	c, ok := t.m[chatID]
	return c, ok
}

// Set сохраняет состояние чата.
func (t *Tracker) Set(chatID int64, c Conversation) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.m[chatID] = c
}

// Clear сбрасывает состояние чата.
func (t *Tracker) Clear(chatID int64) {
	t.mu.Lock()
	defer t.mu.Unlock()
	delete(t.m, chatID)
}
