// service/game_manager.go
package service

import (
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/benbeisheim/chessbot-backend/internal/engine"
	"github.com/benbeisheim/chessbot-backend/internal/model"
	"github.com/gofiber/fiber/v2/log"
	"github.com/google/uuid"
)

var (
	ErrGameNotFound = errors.New("game not found")
	ErrGameExists   = errors.New("game already exists")
)

type GameManager struct {
	games            map[string]*model.Game
	queue            *model.Queue
	matchingChannels map[string]chan string
	mu               sync.RWMutex

	engine    *engine.Engine
	clockTime time.Duration

	stop     chan struct{}
	stopOnce sync.Once
	matcher  sync.WaitGroup
	bots     sync.WaitGroup
}

func NewGameManager(eng *engine.Engine, clockTime, matchInterval time.Duration) *GameManager {
	gm := &GameManager{
		games:            make(map[string]*model.Game),
		queue:            model.NewQueue(),
		matchingChannels: make(map[string]chan string),
		engine:           eng,
		clockTime:        clockTime,
		stop:             make(chan struct{}),
	}

	// Start matchmaking processor
	gm.matcher.Add(1)
	go gm.processMatchmaking(matchInterval)

	return gm
}

// Close stops matchmaking and waits for running engine searches to finish.
// Searches cannot be interrupted, so this blocks for up to one full search.
func (gm *GameManager) Close() {
	gm.stopOnce.Do(func() { close(gm.stop) })
	gm.matcher.Wait()
	gm.waitForBots()
}

func (gm *GameManager) waitForBots() {
	gm.bots.Wait()
}

func (gm *GameManager) RegisterMatchmakingChannel(playerID string, ch chan string) error {
	gm.mu.Lock()
	defer gm.mu.Unlock()
	log.Debugf("registering matchmaking channel for player %s", playerID)

	// If there's an existing channel, we need to handle it properly
	if existingCh, exists := gm.matchingChannels[playerID]; exists {
		// Remove from map first to prevent any new writes
		delete(gm.matchingChannels, playerID)
		close(existingCh)
	}

	gm.matchingChannels[playerID] = ch
	return nil
}

func (gm *GameManager) UnregisterMatchmakingChannel(playerID string, ch chan string) {
	gm.mu.Lock()
	defer gm.mu.Unlock()

	// The creator of the channel is responsible for closing it
	if current, exists := gm.matchingChannels[playerID]; exists && current == ch {
		delete(gm.matchingChannels, playerID)
		gm.queue.Remove(playerID)
	}
}

func (gm *GameManager) processMatchmaking(interval time.Duration) {
	defer gm.matcher.Done()
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-gm.stop:
			return
		case <-ticker.C:
			gm.matchNextPair()
		}
	}
}

func (gm *GameManager) matchNextPair() {
	gm.mu.Lock()
	defer gm.mu.Unlock()

	player1, player2, ok := gm.queue.GetNextPair()
	if !ok {
		return
	}

	gameID := uuid.New().String()
	game := model.NewGame(gameID, gm.clockTime)

	p1Color, err := game.AddPlayer(player1.ID)
	if err != nil {
		log.Errorf("error adding player to game: %v", err)
		return
	}
	p2Color, err := game.AddPlayer(player2.ID)
	if err != nil {
		log.Errorf("error adding player to game: %v", err)
		return
	}
	gm.games[gameID] = game
	log.Infof("matched %s and %s in game %s", player1.ID, player2.ID, gameID)

	// Helper function to send event and clean up channel
	sendEventAndCleanup := func(playerID string, event model.MatchFoundEvent) bool {
		ch, ok := gm.matchingChannels[playerID]
		if !ok {
			return false
		}
		payload, err := json.Marshal(event)
		if err != nil {
			log.Errorf("failed to marshal match event: %v", err)
			return false
		}
		select {
		case ch <- string(payload):
			delete(gm.matchingChannels, playerID)
			close(ch)
			return true
		default:
			log.Warnf("failed to send match event to player %s", playerID)
			return false
		}
	}

	sent1 := sendEventAndCleanup(player1.ID, model.MatchFoundEvent{GameID: gameID, Color: p1Color})
	sent2 := sendEventAndCleanup(player2.ID, model.MatchFoundEvent{GameID: gameID, Color: p2Color})
	if !sent1 || !sent2 {
		// The game exists either way; a player without a channel can still
		// find it through the REST API.
		log.Warnf("failed to notify all players of game %s", gameID)
	}
}

func (gm *GameManager) CreateGame(gameID string) error {
	gm.mu.Lock()
	defer gm.mu.Unlock()

	if _, exists := gm.games[gameID]; exists {
		return ErrGameExists
	}

	gm.games[gameID] = model.NewGame(gameID, gm.clockTime)
	return nil
}

// CreateBotGame seats the player with the given colour and gives the other
// seat to the engine. If the engine has White it starts thinking right away.
func (gm *GameManager) CreateBotGame(gameID, playerID string, color model.Color) error {
	game := model.NewGame(gameID, gm.clockTime)
	if err := game.AddBot(color.Opponent()); err != nil {
		return err
	}
	if _, err := game.AddPlayer(playerID); err != nil {
		return err
	}

	gm.mu.Lock()
	if _, exists := gm.games[gameID]; exists {
		gm.mu.Unlock()
		return ErrGameExists
	}
	gm.games[gameID] = game
	gm.mu.Unlock()

	gm.startBot(game)
	return nil
}

func (gm *GameManager) GetGame(gameID string) (*model.Game, error) {
	gm.mu.RLock()
	defer gm.mu.RUnlock()

	game, exists := gm.games[gameID]
	if !exists {
		return nil, ErrGameNotFound
	}

	return game, nil
}

func (gm *GameManager) AddPlayerToGame(gameID string, playerID string) (model.Color, error) {
	game, err := gm.GetGame(gameID)
	if err != nil {
		return 0, err
	}
	return game.AddPlayer(playerID)
}

func (gm *GameManager) JoinMatchmaking(playerID string) error {
	gm.mu.Lock()
	defer gm.mu.Unlock()

	if err := gm.queue.AddPlayer(model.Player{ID: playerID}); err != nil {
		log.Warnf("error adding player %s to matchmaking queue: %v", playerID, err)
		return err
	}

	return nil
}

func (gm *GameManager) GetGameState(gameID string) (model.GameState, error) {
	game, err := gm.GetGame(gameID)
	if err != nil {
		return model.GameState{}, err
	}
	return game.GetState(), nil
}

func (gm *GameManager) MakeMove(gameID string, playerID string, move model.Move) error {
	game, err := gm.GetGame(gameID)
	if err != nil {
		return err
	}
	if err := game.MakeMove(playerID, move); err != nil {
		return err
	}
	gm.startBot(game)
	return nil
}

func (gm *GameManager) Undo(gameID string, playerID string) error {
	game, err := gm.GetGame(gameID)
	if err != nil {
		return err
	}
	return game.Undo(playerID)
}

// startBot runs the engine off the caller's goroutine when it is the engine's
// turn. The search works on a clone, so the game stays readable meanwhile.
func (gm *GameManager) startBot(game *model.Game) {
	position, color, version, ok := game.SearchSnapshot()
	if !ok {
		return
	}

	gm.bots.Add(1)
	go func() {
		defer gm.bots.Done()
		started := time.Now()
		move, found := gm.engine.GenerateMove(position, color)
		if !found {
			log.Warnf("engine found no move in game %s", game.ID)
			return
		}
		log.Infof("engine plays %v-%v in game %s after %v", move.From, move.To, game.ID, time.Since(started))
		if err := game.ApplyBotMove(move, version); err != nil {
			log.Warnf("engine move discarded in game %s: %v", game.ID, err)
		}
	}()
}

func (gm *GameManager) RegisterConnection(gameID string, playerID string, conn model.Conn) error {
	game, err := gm.GetGame(gameID)
	if err != nil {
		return err
	}
	return game.RegisterConnection(playerID, conn)
}

func (gm *GameManager) UnregisterConnection(gameID string, playerID string, conn model.Conn) {
	game, err := gm.GetGame(gameID)
	if err != nil {
		return
	}
	game.UnregisterConnection(playerID, conn)
}
