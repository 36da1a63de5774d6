package game

import (
	"github.com/l1jgo/arena/internal/core/event"
	"go.uber.org/zap"
)

func (g *Game) handleEntityDied(ev event.EntityDied) {
	if ev.Enemy {
		g.sounds.Death()
	}
}

func (g *Game) handlePlayerHit(ev event.PlayerHit) {
	g.sounds.Hit()
	g.log.Debug("player hit", zap.Float64("amount", ev.Amount), zap.Float64("hp", ev.HP))
}

func (g *Game) handlePlayerDied(ev event.PlayerDied) {
	kills := 0
	if p := g.ctx.Player; p != nil {
		kills = p.Kills()
	}
	g.log.Info("player died", zap.String("player", ev.Name), zap.Int("kills", kills))
	g.sounds.Death()
	if g.onPlayerDied == nil {
		return
	}
	if err := g.onPlayerDied(); err != nil {
		g.log.Warn("player death hook failed", zap.Error(err))
	}
}
