package usecase

import (
	"sync"

	"github.com/happy-paws/catalog-backend/pkg/e"
)

// pendingConfirmation — единственный слот отложенного действия.
// Action == nil означает чисто информационный диалог.
type pendingConfirmation struct {
	message string
	action  func()
}

// ConfirmGate отделяет «действие требует подтверждения человеком» от самого действия.
// Состояния: Idle (pending == nil) и Pending. Повторный Open в состоянии Pending
// перезаписывает слот, прежнее действие никогда не вызывается.
type ConfirmGate struct {
	mu      sync.Mutex
	pending *pendingConfirmation
}

func NewConfirmGate() *ConfirmGate {
	return &ConfirmGate{}
}

// Open переводит гейт в состояние Pending с сообщением и отложенным действием.
func (g *ConfirmGate) Open(message string, action func()) {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.pending = &pendingConfirmation{message: message, action: action}
}

// Confirm сбрасывает состояние и затем вызывает отложенное действие.
// Гейт не дожидается результата действия: действие само сообщает об ошибке
// через новый Open. Состояние очищается до вызова, иначе действие,
// открывающее новый диалог, было бы немедленно затёрто.
func (g *ConfirmGate) Confirm() error {
	g.mu.Lock()
	pending := g.pending
	g.pending = nil
	g.mu.Unlock()

	if pending == nil {
		return e.ErrNoPendingAction
	}

	if pending.action != nil {
		pending.action()
	}

	return nil
}

// Cancel отбрасывает отложенное действие, не вызывая его.
func (g *ConfirmGate) Cancel() error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.pending == nil {
		return e.ErrNoPendingAction
	}
	g.pending = nil

	return nil
}

// Pending возвращает представление текущего слота, если он занят.
func (g *ConfirmGate) Pending() (*PendingConfirmationView, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.pending == nil {
		return nil, false
	}

	return &PendingConfirmationView{
		Message:   g.pending.message,
		HasAction: g.pending.action != nil,
	}, true
}
