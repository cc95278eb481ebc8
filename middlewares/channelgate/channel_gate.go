package channelgate

import (
	"context"

	"maxy/internal/config"
	mw "maxy/internal/middleware"
)

// Gate drops messages arriving outside the configured auto-reply channels.
// Cancel without a replacement means the bot stays silent.
type Gate struct {
	cfg *config.Store
}

func New(cfg *config.Store) *Gate {
	return &Gate{cfg: cfg}
}

func (*Gate) ID() string    { return "channel_gate" }
func (*Gate) Priority() int { return 120 } // run before anything produces a reply

func (*Gate) ShouldLoad(_ context.Context, e *mw.Event) bool {
	return e != nil && e.Name == mw.EventIncomingMessage
}

func (g *Gate) OnEvent(_ context.Context, e *mw.Event) (mw.Decision, error) {
	if e == nil || e.Name != mw.EventIncomingMessage {
		return mw.Decision{}, nil
	}
	if len(g.cfg.Channels()) == 0 {
		// No channels configured: the bot auto-replies nowhere.
		return mw.Decision{Cancel: true, Reason: "no auto-FAQ channels configured"}, nil
	}
	if !g.cfg.HasChannel(e.ChannelID) {
		return mw.Decision{Cancel: true, Reason: "channel not on allowlist"}, nil
	}
	return mw.Decision{}, nil
}
