package game

import (
	"errors"

	"github.com/pthm-cable/msa3d/channel"
	"github.com/pthm-cable/msa3d/protocol"
	"github.com/pthm-cable/msa3d/telemetry"
	"github.com/pthm-cable/msa3d/voice"
)

// UpdateHeadless advances one tick without graphics or input.
func (g *Game) UpdateHeadless() {
	g.simulationStep()
}

// simulationStep runs one tick: apply pending messages, step the field,
// then telemetry.
func (g *Game) simulationStep() {
	g.perfCollector.StartTick()

	g.perfCollector.StartPhase(telemetry.PhaseMessages)
	g.drainInbox()
	g.drainVoice()

	g.perfCollector.StartPhase(telemetry.PhaseStep)
	g.field.Step()
	g.tick++

	g.perfCollector.StartPhase(telemetry.PhaseTelemetry)
	g.flushTelemetry()

	g.perfCollector.EndTick()
}

// drainInbox applies every pending shape in arrival order. Only the last
// one is visible afterwards since each replaces all targets.
func (g *Game) drainInbox() {
	for {
		select {
		case resp := <-g.channel.Inbox():
			g.applyShape(resp)
		default:
			return
		}
	}
}

func (g *Game) applyShape(resp protocol.Response) {
	g.field.AssignTargets(resp.Points)
	g.shape = resp.Shape
	g.points = len(resp.Points)
	g.collector.RecordShape()
	g.logger.Debug("shape applied", "shape", resp.Shape, "points", len(resp.Points), "tick", g.tick)
}

// drainVoice handles every pending transcript.
func (g *Game) drainVoice() {
	if g.listener == nil {
		return
	}
	for {
		select {
		case ev := <-g.listener.Events():
			g.handleTranscript(ev)
		default:
			return
		}
	}
}

func (g *Game) handleTranscript(ev voice.Event) {
	if !ev.Wake {
		g.voiceLine = "Voice: heard -> " + ev.Transcript
		return
	}
	g.voiceLine = "Voice: MSA3D detected"
	g.collector.RecordWake()
	if g.chime != nil {
		g.chime.Play()
	}
	g.Wake()
}

// Wake sends a wake request carrying the selected shape.
func (g *Game) Wake() {
	g.send(protocol.NewWake(g.SelectedShape(), g.cfg.Voice.Trigger))
}

// RequestShape selects shape i of the shape bar and requests it.
func (g *Game) RequestShape(i int) {
	if !g.shapeBar.Select(i) {
		return
	}
	g.send(protocol.NewShape(g.shapeBar.Selected()))
}

// send hands a request to the channel. While disconnected the request is
// dropped; the next one after reconnect goes through.
func (g *Game) send(req protocol.Request) {
	err := g.channel.Send(req)
	g.collector.RecordRequest(err)
	switch {
	case err == nil:
		g.logger.Info("request sent", "cmd", req.Cmd, "shape", req.Shape)
	case errors.Is(err, channel.ErrNotConnected):
		g.logger.Info("request dropped", "cmd", req.Cmd, "shape", req.Shape, "reason", "not connected")
	default:
		g.logger.Warn("request failed", "cmd", req.Cmd, "error", err)
	}
}

// resize regenerates the field for a new viewport. All targets are lost
// until the next shape arrives.
func (g *Game) resize(width, height float32) {
	if width == g.width && height == g.height {
		return
	}
	g.width, g.height = width, height
	g.field.Reset(width, height)
	if g.inspector != nil {
		g.inspector.Resize(int32(width))
	}
	g.logger.Info("viewport resized", "width", width, "height", height, "particles", g.field.Len())
}

// StatusLines returns the channel and voice status text with an ok flag each.
func (g *Game) StatusLines() (chLine string, chOK bool, voiceLine string, voiceOK bool) {
	st := g.channel.Status()
	chLine, chOK = st.String(), st == channel.StatusConnected

	if g.listener == nil {
		return chLine, chOK, "Voice: off", false
	}
	vs := g.listener.Status()
	switch {
	case vs == voice.StatusError || vs == voice.StatusUnavailable:
		return chLine, chOK, vs.String(), false
	case g.voiceLine != "":
		return chLine, chOK, g.voiceLine, true
	default:
		return chLine, chOK, vs.String(), vs == voice.StatusListening
	}
}
