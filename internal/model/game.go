package model

import (
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/benbeisheim/chessbot-backend/internal/ws"
	"github.com/gofiber/fiber/v2/log"
	"github.com/gofiber/websocket/v2"
)

var (
	ErrGameFull       = errors.New("game is full")
	ErrNotInGame      = errors.New("player not in game")
	ErrNotYourTurn    = errors.New("not your turn")
	ErrOutOfBounds    = errors.New("invalid move, out of bounds")
	ErrNoPiece        = errors.New("no piece at from square")
	ErrIllegalMove    = errors.New("invalid move, not legal")
	ErrGameOver       = errors.New("game is over")
	ErrNothingToUndo  = errors.New("nothing to undo")
	ErrUndoNotAllowed = errors.New("undo is only available against the engine")
	ErrStaleSearch    = errors.New("position changed during search")
)

const (
	ResultCheckmate = "checkmate"
	ResultStalemate = "stalemate"
	ResultTimeout   = "timeout"
)

// Conn is the part of a websocket connection a game writes to.
type Conn interface {
	WriteJSON(v interface{}) error
	WriteMessage(messageType int, data []byte) error
	Close() error
}

// The connections for a specific game
type GameConnections struct {
	connections map[string]Conn // playerID -> connection
	mu          sync.RWMutex
	lastSent    uint64 // sequence of the newest state written
}

// Game owns one Position and the turn order around it. The rules engine
// itself knows nothing about whose turn it is.
type Game struct {
	ID          string
	mu          sync.Mutex
	position    *Position
	toMove      Color
	players     Players
	botColor    Color
	resolve     *string
	sound       string
	moveHistory []Ply
	clocks      map[Color]*Clock
	connections *GameConnections

	// version changes on every move and every take-back, so equal versions
	// mean the same position even when the ply count has come back around.
	version uint64
	// stateSeq orders broadcasts; older states never overwrite newer ones.
	stateSeq uint64
}

type PieceState struct {
	Type     PieceType `json:"type"`
	Color    Color     `json:"color"`
	Position Square    `json:"position"`
	HasMoved bool      `json:"hasMoved"`
}

// GameState is the snapshot sent to clients.
type GameState struct {
	Sound       string          `json:"sound"`
	Board       [][]*PieceState `json:"board"`
	ToMove      Color           `json:"toMove"`
	MoveHistory []Ply           `json:"moveHistory"`
	IsCheck     bool            `json:"isCheck"`
	LegalMoves  []Move          `json:"legalMoves"`
	Resolve     *string         `json:"resolve"`
	Players     Players         `json:"players"`
	LastMove    *Move           `json:"lastMove"`
	Ply         int             `json:"ply"`
}

func NewGame(id string, clockTime time.Duration) *Game {
	return NewGameFromPosition(id, NewPosition(), White, clockTime)
}

// NewGameFromPosition starts a game from an arbitrary position with the given
// side to move.
func NewGameFromPosition(id string, position *Position, toMove Color, clockTime time.Duration) *Game {
	g := &Game{
		ID:          id,
		position:    position,
		toMove:      toMove,
		moveHistory: make([]Ply, 0),
		clocks: map[Color]*Clock{
			White: NewClock(clockTime),
			Black: NewClock(clockTime),
		},
		connections: NewGameConnections(),
	}
	g.players.White.Color = White
	g.players.Black.Color = Black
	g.updateResolve()
	return g
}

func NewGameConnections() *GameConnections {
	return &GameConnections{
		connections: make(map[string]Conn),
	}
}

// AddPlayer seats the player in the first free seat, White first. A player
// already seated gets their colour back.
func (g *Game) AddPlayer(playerID string) (Color, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	log.Debugf("adding player %s to game %s", playerID, g.ID)

	if color := g.players.colorOf(playerID); color != 0 {
		return color, nil
	}
	for _, color := range []Color{White, Black} {
		seat := g.players.seat(color)
		if seat.ID == "" {
			seat.ID = playerID
			return color, nil
		}
	}
	return 0, ErrGameFull
}

// AddBot gives the engine the seat of the given colour.
func (g *Game) AddBot(color Color) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	seat := g.players.seat(color)
	if seat.ID != "" && seat.ID != BotPlayerID {
		return ErrGameFull
	}
	seat.ID = BotPlayerID
	seat.IsBot = true
	g.botColor = color
	return nil
}

func (g *Game) GetState() GameState {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.snapshot()
}

func (g *Game) IsPlayerInGame(playerID string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.players.colorOf(playerID) != 0
}

func (g *Game) CanSpectate() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.canSpectate()
}

func (g *Game) canSpectate() bool {
	return g.players.White.ID == "" || g.players.Black.ID == ""
}

func (g *Game) MakeMove(playerID string, move Move) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	log.Debugf("player %s moves %v-%v in game %s", playerID, move.From, move.To, g.ID)

	color := g.players.colorOf(playerID)
	if color == 0 {
		return ErrNotInGame
	}
	if color != g.toMove {
		return ErrNotYourTurn
	}
	return g.executeMove(move)
}

// SearchSnapshot hands the engine a private copy of the position when it is
// the engine's turn. version identifies the position for ApplyBotMove.
func (g *Game) SearchSnapshot() (position *Position, color Color, version uint64, ok bool) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.botColor == 0 || g.toMove != g.botColor || g.resolve != nil {
		return nil, 0, 0, false
	}
	return g.position.Clone(), g.botColor, g.version, true
}

// ApplyBotMove commits the engine's move if nothing has been played or taken
// back since the snapshot with the given version was taken.
func (g *Game) ApplyBotMove(move Move, version uint64) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.version != version || g.toMove != g.botColor {
		return ErrStaleSearch
	}
	return g.executeMove(move)
}

// Undo takes back the player's last move and everything played after it,
// which against the engine is usually the engine's reply.
func (g *Game) Undo(playerID string) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	color := g.players.colorOf(playerID)
	if color == 0 {
		return ErrNotInGame
	}
	if g.botColor == 0 {
		return ErrUndoNotAllowed
	}
	if g.resolve != nil && *g.resolve == ResultTimeout {
		return ErrGameOver
	}

	last := -1
	for i, ply := range g.moveHistory {
		if ply.Color == color {
			last = i
		}
	}
	if last < 0 {
		return ErrNothingToUndo
	}
	for len(g.moveHistory) > last {
		g.undoPly()
	}

	g.resolve = nil
	g.updateResolve()
	g.sound = "move"
	g.publish()
	return nil
}

func (g *Game) undoPly() {
	g.clocks[g.toMove].Stop()
	g.position.UndoMove()
	g.version++
	g.moveHistory = g.moveHistory[:len(g.moveHistory)-1]
	g.switchTurn()
	g.clocks[g.toMove].Start()
}

func (g *Game) executeMove(move Move) error {
	if g.resolve != nil {
		return ErrGameOver
	}
	if !boundaryCheck(move.From) || !boundaryCheck(move.To) {
		return ErrOutOfBounds
	}
	piece := g.position.PieceAt(move.From)
	if piece == nil {
		return ErrNoPiece
	}
	if piece.Color != g.toMove {
		return ErrNotYourTurn
	}
	if g.clocks[g.toMove].Expired() {
		result := ResultTimeout
		g.resolve = &result
		g.publish()
		return ErrGameOver
	}

	record := g.position.ApplyMove(move.From, move.To)
	if record == nil {
		return ErrIllegalMove
	}
	g.version++

	// Stop current player's clock
	g.clocks[g.toMove].Stop()

	g.sound = "move"
	if record.Captured != nil {
		g.sound = "capture"
	}
	g.moveHistory = append(g.moveHistory, Ply{
		Color:    g.toMove,
		From:     record.Start,
		To:       record.End,
		Notation: Notation(record),
	})

	g.switchTurn()
	g.updateResolve()
	if g.position.InCheck(g.toMove) {
		g.sound = "check"
	}

	// Start opposing players clock
	if g.resolve == nil {
		g.clocks[g.toMove].Start()
	}

	g.publish()
	return nil
}

// publish sends the current state to every connection. Must hold g.mu.
func (g *Game) publish() {
	g.stateSeq++
	go g.broadcastState(g.snapshot(), g.stateSeq)
}

// updateResolve marks the game over when the side to move has no legal move.
func (g *Game) updateResolve() {
	if g.position.HasLegalMove(g.toMove) {
		return
	}
	result := ResultStalemate
	if g.position.InCheck(g.toMove) {
		result = ResultCheckmate
	}
	g.resolve = &result
}

func (g *Game) switchTurn() {
	g.toMove = g.toMove.Opponent()
}

func (g *Game) snapshot() GameState {
	board := make([][]*PieceState, 8)
	for y := range board {
		board[y] = make([]*PieceState, 8)
	}
	for _, p := range g.position.Pieces() {
		board[p.Square.Y][p.Square.X] = &PieceState{
			Type:     p.Type,
			Color:    p.Color,
			Position: p.Square,
			HasMoved: p.HasMoved(),
		}
	}

	state := GameState{
		Sound:       g.sound,
		Board:       board,
		ToMove:      g.toMove,
		MoveHistory: append([]Ply(nil), g.moveHistory...),
		IsCheck:     g.position.InCheck(g.toMove),
		LegalMoves:  []Move{},
		Resolve:     g.resolve,
		Players:     g.players,
		Ply:         g.position.Ply(),
	}
	if g.resolve == nil {
		state.LegalMoves = g.position.AllLegalMoves(g.toMove)
	}
	if last := g.position.LastMove(); last != nil {
		state.LastMove = &Move{From: last.Start, To: last.End}
	}
	state.Players.White.TimeLeft = g.clocks[White].tenths()
	state.Players.Black.TimeLeft = g.clocks[Black].tenths()
	return state
}

func (g *Game) RegisterConnection(playerID string, conn Conn) error {
	connID := fmt.Sprintf("%p", conn)
	log.Debugf("starting RegisterConnection for player %s, conn %s", playerID, connID)

	g.mu.Lock()
	isAuthorized := g.players.colorOf(playerID) != 0 || g.canSpectate()
	g.mu.Unlock()

	if !isAuthorized {
		return errors.New("not authorized to join this game")
	}

	g.connections.mu.Lock()
	if _, exists := g.connections.connections[playerID]; exists {
		// If we already have a healthy connection, keep it and reject the new one
		g.connections.mu.Unlock()
		conn.WriteMessage(
			websocket.CloseMessage,
			websocket.FormatCloseMessage(
				websocket.CloseNormalClosure,
				"Connection already exists",
			),
		)
		conn.Close()
		return nil // Not really an error, just rejecting duplicate connection
	}

	g.connections.connections[playerID] = conn
	g.connections.mu.Unlock()
	log.Infof("registered connection %s for player %s in game %s", connID, playerID, g.ID)

	// The snapshot is taken after the connection is added, so any newer state
	// that would supersede it also reaches this connection.
	g.mu.Lock()
	g.publish()
	g.mu.Unlock()
	return nil
}

func (g *Game) UnregisterConnection(playerID string, conn Conn) {
	g.connections.mu.Lock()
	defer g.connections.mu.Unlock()

	// Only unregister if this is still the current connection
	if current, exists := g.connections.connections[playerID]; exists && current == conn {
		log.Infof("unregistering connection %p for player %s", conn, playerID)
		delete(g.connections.connections, playerID)
	}
}

// broadcastState writes state, numbered seq, to every connection unless a
// newer state has already been written.
func (g *Game) broadcastState(state GameState, seq uint64) {
	payload, err := json.Marshal(state)
	if err != nil {
		log.Errorf("failed to marshal state of game %s: %v", g.ID, err)
		return
	}

	g.connections.mu.Lock()
	defer g.connections.mu.Unlock()
	if seq <= g.connections.lastSent {
		log.Debugf("dropping superseded state %d of game %s", seq, g.ID)
		return
	}
	g.connections.lastSent = seq
	for playerID, conn := range g.connections.connections {
		if err := conn.WriteJSON(ws.Message{
			Type:    ws.MessageTypeGameState,
			Payload: json.RawMessage(payload),
		}); err != nil {
			log.Warnf("failed to send state to player %s: %v", playerID, err)
			delete(g.connections.connections, playerID)
			continue
		}
	}
}
