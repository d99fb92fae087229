package scoring

import (
	"slices"

	"quiz-scoreboard/internal/domain"
)

// ScoreManager keeps the live scoreboard of one game plus its undo and redo
// history. Scoreboards are values, so every stack entry is an independent
// snapshot. ScoreManager does no locking of its own.
type ScoreManager struct {
	scoreboard domain.Scoreboard
	operation  Operation
	undoStack  []domain.Scoreboard
	redoStack  []domain.Scoreboard
	keepRedo   bool
}

// ManagerOption configures a ScoreManager.
type ManagerOption func(*ScoreManager)

// KeepRedoOnApply leaves the redo stack intact when a new event is applied.
func KeepRedoOnApply() ManagerOption {
	return func(m *ScoreManager) { m.keepRedo = true }
}

func NewScoreManager(scoreboard domain.Scoreboard, operation Operation, opts ...ManagerOption) *ScoreManager {
	m := &ScoreManager{scoreboard: scoreboard, operation: operation}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Apply runs the payload through the operation. On error the manager is left
// exactly as it was.
func (m *ScoreManager) Apply(payload domain.Payload) error {
	next, err := Apply(m.operation, m.scoreboard, payload)
	if err != nil {
		return err
	}
	m.undoStack = append(m.undoStack, m.scoreboard)
	if !m.keepRedo {
		m.redoStack = nil
	}
	m.scoreboard = next
	return nil
}

// Undo steps back one event. It reports false when there is nothing to undo.
func (m *ScoreManager) Undo() bool {
	if len(m.undoStack) == 0 {
		return false
	}
	m.redoStack = append(m.redoStack, m.scoreboard)
	last := len(m.undoStack) - 1
	m.scoreboard = m.undoStack[last]
	m.undoStack = m.undoStack[:last]
	return true
}

// Redo replays the last undone event. It reports false when there is nothing to redo.
func (m *ScoreManager) Redo() bool {
	if len(m.redoStack) == 0 {
		return false
	}
	m.undoStack = append(m.undoStack, m.scoreboard)
	last := len(m.redoStack) - 1
	m.scoreboard = m.redoStack[last]
	m.redoStack = m.redoStack[:last]
	return true
}

func (m *ScoreManager) Scoreboard() domain.Scoreboard {
	return m.scoreboard
}

// UndoStack returns the undo history, oldest first.
func (m *ScoreManager) UndoStack() []domain.Scoreboard {
	return slices.Clone(m.undoStack)
}

// RedoStack returns the redo history, oldest first.
func (m *ScoreManager) RedoStack() []domain.Scoreboard {
	return slices.Clone(m.redoStack)
}

func (m *ScoreManager) CanUndo() bool { return len(m.undoStack) > 0 }

func (m *ScoreManager) CanRedo() bool { return len(m.redoStack) > 0 }
