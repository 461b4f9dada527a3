// internal/handlers/game_server.go
package handlers

import (
	"github.com/jason-s-yu/unobot/internal/game"
	"github.com/sirupsen/logrus"
)

// GameServer exposes the game controller to web clients.
type GameServer struct {
	Controller *game.Controller
	Logger     *logrus.Logger
}

func NewGameServer(ctrl *game.Controller, logger *logrus.Logger) *GameServer {
	return &GameServer{
		Controller: ctrl,
		Logger:     logger,
	}
}
