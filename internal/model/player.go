package model

// BotPlayerID fills the seat taken by the engine.
const BotPlayerID = "engine"

type Player struct {
	ID string
}

type ClientPlayer struct {
	ID       string `json:"name"`
	Color    Color  `json:"color"`
	TimeLeft int    `json:"timeLeft"`
	IsBot    bool   `json:"isBot"`
}

type Players struct {
	White ClientPlayer `json:"white"`
	Black ClientPlayer `json:"black"`
}

func (p *Players) seat(color Color) *ClientPlayer {
	if color == White {
		return &p.White
	}
	return &p.Black
}

// colorOf returns 0 when the player holds neither seat.
func (p *Players) colorOf(playerID string) Color {
	switch {
	case playerID == "":
		return 0
	case p.White.ID == playerID:
		return White
	case p.Black.ID == playerID:
		return Black
	}
	return 0
}
