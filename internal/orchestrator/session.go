package orchestrator

import (
	"sync"

	"marketsage/internal/dataflows"
	"marketsage/internal/models"
)

// ChatTurn is one completed user/assistant exchange.
type ChatTurn struct {
	UserMessage string
	Reply       string
}

// Session holds the workflow state for one logical analysis run or chat
// conversation. Sessions are never shared across unrelated symbols or
// users; each caller creates its own.
type Session struct {
	mu sync.Mutex

	symbol     string
	assetClass models.AssetClass

	researchResult    string
	calculationResult string

	history     []ChatTurn
	windowTurns int
}

func NewSession(windowTurns int) *Session {
	if windowTurns <= 0 {
		windowTurns = 5
	}
	return &Session{windowTurns: windowTurns}
}

// SetSymbol assigns the asset under analysis. Stage results from any
// previous symbol are discarded so they cannot leak into the new run.
func (s *Session) SetSymbol(symbol string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.symbol = dataflows.NormalizeSymbol(symbol)
	s.assetClass = models.Classify(s.symbol)
	s.researchResult = ""
	s.calculationResult = ""
}

func (s *Session) Symbol() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.symbol
}

func (s *Session) AssetClass() models.AssetClass {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.assetClass
}

func (s *Session) ResearchResult() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.researchResult
}

func (s *Session) setResearchResult(result string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.researchResult = result
}

func (s *Session) CalculationResult() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calculationResult
}

func (s *Session) setCalculationResult(result string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calculationResult = result
}

// AppendTurn records a completed exchange. History grows without bound;
// only the context window is trimmed.
func (s *Session) AppendTurn(userMessage, reply string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.history = append(s.history, ChatTurn{UserMessage: userMessage, Reply: reply})
}

// RecentTurns returns at most the last windowTurns exchanges, oldest
// first.
func (s *Session) RecentTurns() []ChatTurn {
	s.mu.Lock()
	defer s.mu.Unlock()

	start := len(s.history) - s.windowTurns
	if start < 0 {
		start = 0
	}
	recent := make([]ChatTurn, len(s.history)-start)
	copy(recent, s.history[start:])
	return recent
}

// TurnCount reports total accumulated turns, windowed or not.
func (s *Session) TurnCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.history)
}
