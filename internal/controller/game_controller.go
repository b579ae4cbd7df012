package controller

import (
	"errors"

	"github.com/benbeisheim/chessbot-backend/internal/model"
	"github.com/benbeisheim/chessbot-backend/internal/service"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
	"github.com/gofiber/fiber/v2/utils"
)

type GameController struct {
	gameService *service.GameService
}

func NewGameController(gameService *service.GameService) *GameController {
	return &GameController{gameService: gameService}
}

type botGameRequest struct {
	Color model.Color `json:"color"`
}

// statusFor maps domain errors onto HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, service.ErrGameNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, model.ErrGameFull),
		errors.Is(err, service.ErrGameExists),
		errors.Is(err, model.ErrAlreadyQueued):
		return fiber.StatusConflict
	case errors.Is(err, model.ErrNotInGame):
		return fiber.StatusForbidden
	case errors.Is(err, model.ErrNotYourTurn),
		errors.Is(err, model.ErrOutOfBounds),
		errors.Is(err, model.ErrNoPiece),
		errors.Is(err, model.ErrIllegalMove),
		errors.Is(err, model.ErrGameOver),
		errors.Is(err, model.ErrNothingToUndo),
		errors.Is(err, model.ErrUndoNotAllowed):
		return fiber.StatusUnprocessableEntity
	default:
		return fiber.StatusInternalServerError
	}
}

func sendError(c *fiber.Ctx, err error) error {
	return c.Status(statusFor(err)).JSON(fiber.Map{
		"error": err.Error(),
	})
}

// gameIDOf copies the route parameter, which otherwise aliases the request
// buffer and may change once the handler returns.
func gameIDOf(c *fiber.Ctx) string {
	return utils.CopyString(c.Params("gameId"))
}

func playerIDOf(c *fiber.Ctx) string {
	playerID, _ := c.Locals("playerID").(string)
	return playerID
}

func (gc *GameController) CreateGame(c *fiber.Ctx) error {
	gameID, err := gc.gameService.CreateGame()
	if err != nil {
		return sendError(c, err)
	}
	return c.JSON(fiber.Map{
		"message": "Game created",
		"game_id": gameID,
	})
}

// CreateBotGame starts a game against the engine. The body picks the
// player's colour and defaults to white.
func (gc *GameController) CreateBotGame(c *fiber.Ctx) error {
	req := botGameRequest{Color: model.White}
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "invalid request body",
			})
		}
	}
	if req.Color == 0 {
		req.Color = model.White
	}

	gameID, err := gc.gameService.CreateBotGame(playerIDOf(c), req.Color)
	if err != nil {
		return sendError(c, err)
	}
	return c.JSON(fiber.Map{
		"message": "Game created",
		"game_id": gameID,
		"color":   req.Color,
	})
}

func (gc *GameController) JoinGame(c *fiber.Ctx) error {
	gameID := gameIDOf(c)
	playerID := playerIDOf(c)
	log.Debugf("player %s joining game %s", playerID, gameID)

	color, err := gc.gameService.JoinGame(gameID, playerID)
	if err != nil {
		return sendError(c, err)
	}

	return c.JSON(fiber.Map{
		"message": "Game joined",
		"color":   color,
	})
}

func (gc *GameController) GetGameState(c *fiber.Ctx) error {
	gameState, err := gc.gameService.GetGameState(gameIDOf(c))
	if err != nil {
		return sendError(c, err)
	}

	return c.JSON(gameState)
}

func (gc *GameController) MakeMove(c *fiber.Ctx) error {
	var move model.Move
	if err := c.BodyParser(&move); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid move",
		})
	}

	gameID := gameIDOf(c)
	if err := gc.gameService.HandleMove(gameID, playerIDOf(c), move); err != nil {
		return sendError(c, err)
	}
	return gc.GetGameState(c)
}

func (gc *GameController) Undo(c *fiber.Ctx) error {
	if err := gc.gameService.HandleUndo(gameIDOf(c), playerIDOf(c)); err != nil {
		return sendError(c, err)
	}
	return gc.GetGameState(c)
}

func (gc *GameController) JoinMatchmaking(c *fiber.Ctx) error {
	if err := gc.gameService.JoinMatchmaking(playerIDOf(c)); err != nil {
		return sendError(c, err)
	}

	return c.JSON(fiber.Map{
		"status": "queued",
	})
}
