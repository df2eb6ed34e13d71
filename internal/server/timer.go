package server

import (
	"github.com/mkrall/pokerroom/internal/game"
)

// Turn timeout and bot scheduling. Each room has at most one pending timer;
// re-arming always cancels the previous one. Fired closures re-validate the
// room generation before touching any state, so a timer from a superseded
// turn is a no-op.

// rearm schedules the room's next timed event for the current acting seat:
// the think delay for a bot, the turn timeout for a human. Nothing is armed
// in waiting or showdown. Callers must hold the room lock.
func (s *GameService) rearm(h *RoomHandle) {
	h.gen++
	gen := h.gen
	h.stopTimer()

	r := h.Room
	seat := r.CurrentSeat()
	if seat == nil {
		return
	}
	code := r.Code

	if seat.IsBot() {
		h.timer = s.clock.AfterFunc(s.botThink, func() {
			s.onBotTimer(code, gen)
		})
		return
	}

	h.timer = s.clock.AfterFunc(s.turnTimeout, func() {
		s.onTurnTimeout(code, gen)
	})
}

// onTurnTimeout fires when a human seat ran out of time: stand pat in the
// draw phase, fold in a betting phase.
func (s *GameService) onTurnTimeout(code string, gen uint64) {
	h, ok := s.registry.Get(code)
	if !ok {
		return
	}
	h.lock()
	defer h.unlock()

	if h.gen != gen {
		s.logger.Debug("stale turn timer ignored", "room", code)
		return
	}
	seat := h.Room.CurrentSeat()
	if seat == nil {
		return
	}

	s.logger.Info("turn timed out", "room", code, "player", seat.Name, "phase", h.Room.Phase)

	var err error
	if h.Room.Phase == game.PhaseDraw {
		err = h.Room.DiscardAndDraw(seat.UserID, nil)
	} else {
		err = h.Room.ApplyAction(seat.UserID, game.Action{Type: game.ActionFold})
	}
	if err != nil {
		s.logger.Error("timeout action failed", "room", code, "player", seat.Name, "error", err)
		return
	}
	s.sync(h)
}

// onBotTimer fires after a bot's think delay and applies the policy's
// decision. The seat is re-validated first: if the turn moved on while the
// bot was "thinking" the decision is discarded.
func (s *GameService) onBotTimer(code string, gen uint64) {
	h, ok := s.registry.Get(code)
	if !ok {
		return
	}
	h.lock()
	defer h.unlock()

	if h.gen != gen {
		s.logger.Debug("stale bot timer ignored", "room", code)
		return
	}
	seat := h.Room.CurrentSeat()
	if seat == nil || !seat.IsBot() {
		return
	}

	var err error
	if h.Room.Phase == game.PhaseDraw {
		err = h.Room.DiscardAndDraw(seat.UserID, game.BotDrawDecision(h.Room, h.Room.TurnIdx))
	} else {
		act := game.BotDecide(h.Room, h.Room.TurnIdx, h.rng)
		s.logger.Debug("bot decision", "room", code, "player", seat.Name, "action", act.Type, "amount", act.Amount)
		err = h.Room.ApplyAction(seat.UserID, act)
	}

	// A bot has no rejection channel; an illegal decision becomes a fold
	if err != nil {
		s.logger.Warn("bot action invalid, folding", "room", code, "player", seat.Name, "error", err)
		if foldErr := h.Room.ApplyAction(seat.UserID, game.Action{Type: game.ActionFold}); foldErr != nil {
			s.logger.Error("bot forced fold failed", "room", code, "player", seat.Name, "error", foldErr)
			return
		}
	}
	s.sync(h)
}
