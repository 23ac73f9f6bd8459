package control

import (
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/vibrowolf/vibrowolf/internal/engine"
	"github.com/vibrowolf/vibrowolf/internal/logging"
)

var log = logging.For("control")

var upgrader = websocket.Upgrader{
	ReadBufferSize:  4096,
	WriteBufferSize: 4096,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// Server is the WebSocket control-plane endpoint. Each client
// connection gets its own read goroutine (per spec.md §5's "Control
// dispatcher" role); a shared broadcaster drains the engine's
// notification queue at 10Hz and fans each frame out to every
// connected client, matching the teacher's one-reader-goroutine,
// one-writer-fanout split in src/server.go.
type Server struct {
	commands engine.CommandQueue
	notify   engine.NotificationQueue
	stream   *engine.WifiStream
	blockLen int
	snapshot func() string // builds a treatment-state JSON snapshot on demand

	peripherals Peripherals

	mu      sync.Mutex
	clients map[*client]struct{}
}

type client struct {
	conn *websocket.Conn
	mu   sync.Mutex // serializes writes; gorilla conns are not write-safe from multiple goroutines
}

func (c *client) send(frame string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	_ = c.conn.WriteMessage(websocket.TextMessage, []byte(frame))
}

// NewServer binds a control server to the engine's command and
// notification queues. snapshot builds the JSON body of a
// treatment-state frame on demand (see BroadcastState), kept as
// a callback so this package never needs to know engine.PlayerState's
// shape directly.
func NewServer(commands engine.CommandQueue, notify engine.NotificationQueue, stream *engine.WifiStream, blockLen int, snapshot func() string) *Server {
	s := &Server{
		commands: commands,
		notify:   notify,
		stream:   stream,
		blockLen: blockLen,
		snapshot: snapshot,
		clients:  make(map[*client]struct{}),
	}
	go s.broadcastLoop()
	return s
}

// ServeHTTP upgrades the connection and spawns its read loop.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Warn("websocket upgrade failed", "err", err)
		return
	}
	c := &client{conn: conn}

	s.mu.Lock()
	s.clients[c] = struct{}{}
	s.mu.Unlock()

	log.Info("control client connected", "remote", r.RemoteAddr)
	s.readLoop(c)

	s.mu.Lock()
	delete(s.clients, c)
	s.mu.Unlock()
	conn.Close()
	log.Info("control client disconnected", "remote", r.RemoteAddr)
}

func (s *Server) readLoop(c *client) {
	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			return
		}
		frame := s.handleMessage(data)
		if frame != "" {
			c.send(frame)
		}
	}
}

// handleMessage parses one inbound frame, translates it into a
// command posted to the engine, and returns the immediate ack/error
// frame (spec.md §7: parse errors keep the connection open).
func (s *Server) handleMessage(data []byte) string {
	msg, err := parseInMessage(data)
	if err != nil {
		return errorFrame(errBadJSON)
	}

	switch msg.Action {
	case ActionWifiStreamStart, ActionWifiStreamStop, ActionWifiStreamData:
		return s.handleWifiStream(msg)
	}

	if frame, handled := s.handlePeripheralAction(msg); handled {
		return frame
	}

	cmd, ackPayload, ferr := translate(msg)
	if ferr != "" {
		return errorFrame(ferr)
	}

	select {
	case s.commands <- cmd:
	default:
		log.Warn("command queue full, dropping", "action", msg.Action)
	}

	if ackPayload == "" {
		return ackFrame(msg.Action)
	}
	return ackFrameWith(msg.Action, ackPayload)
}

// translate maps one parsed inbound message to an engine.Command.
// Returns a non-empty ferr (one of the §7 error codes) instead when
// the action is unrecognised; CmdPlaySequence validity (non-empty
// after filtering) is checked by the engine itself, which returns
// engine.ErrNothingToPlay back through the notification queue.
func translate(msg inMessage) (cmd engine.Command, ackPayload string, ferr string) {
	switch msg.Action {
	case ActionPlaySelected:
		return engine.Command{Kind: engine.CmdPlayRow, Row: toRow(msg.Row)}, "", ""

	case ActionPlayAll:
		rows := make([]engine.Row, 0, len(msg.Rows))
		for _, r := range msg.Rows {
			rows = append(rows, toRow(r))
		}
		return engine.Command{Kind: engine.CmdPlaySequence, Sequence: engine.NewSequence(rows)}, "", ""

	case ActionPause:
		return engine.Command{Kind: engine.CmdPause}, "", ""

	case ActionResume:
		c := engine.Command{Kind: engine.CmdResume}
		if msg.ResumeState != nil {
			c.ResumeSnapshot = toSnapshot(*msg.ResumeState)
		}
		return c, "", ""

	case ActionStop:
		return engine.Command{Kind: engine.CmdStop}, "", ""

	case ActionSetUserControl:
		control, ok := toUserControl(msg.Control)
		if !ok {
			return cmd, "", errUnknownAction
		}
		return engine.Command{Kind: engine.CmdSetUserControl, Control: control, Value: msg.Value}, "", ""

	case ActionSetMix:
		return engine.Command{Kind: engine.CmdSetMix, MixValue: msg.Value}, "", ""

	case ActionBTSetMono:
		return engine.Command{Kind: engine.CmdBTSetMono, Mono: msg.Mono}, "", ""

	default:
		return cmd, "", errUnknownAction
	}
}

func toRow(r rowJSON) engine.Row {
	return engine.Row{
		TimeS:        r.TimeS,
		FrequencyHz:  r.FrequencyHz,
		FreqSweepHz:  r.FreqSweepHz,
		SweepSpeedHz: r.SweepSpeedHz,
		PhaseDeg:     r.PhaseDeg,
		ModSpeedStep: r.ModSpeedStep,
		Mode:         r.Mode,
		Strength:     r.Strength,
		Neck:         r.Neck,
		Back:         r.Back,
		Thighs:       r.Thighs,
		Legs:         r.Legs,
	}
}

func toSnapshot(s resumeStateJSON) *engine.Snapshot {
	var phases [4]engine.OutputPhase
	for k, p := range s.ModPhase {
		phases[k] = engine.OutputPhase{
			SinePhase: p.SinePhase,
			PeriodPos: p.PeriodPos,
			BurstIdx:  p.BurstIdx,
		}
	}
	return &engine.Snapshot{
		Row:            toRow(s.Row),
		ElapsedAtPause: s.ElapsedAtPause,
		CarrierPhase:   s.CarrierPhase,
		Modulator:      engine.ModulatorFromPhases(phases),
		SequenceIndex:  s.SequenceIndex,
		IsSequence:     s.IsSequence,
	}
}

func toUserControl(name string) (engine.UserControl, bool) {
	switch name {
	case ControlMaster:
		return engine.ControlMaster, true
	case ControlNeck:
		return engine.ControlNeck, true
	case ControlBack:
		return engine.ControlBack, true
	case ControlThighs:
		return engine.ControlThighs, true
	case ControlLegs:
		return engine.ControlLegs, true
	default:
		return 0, false
	}
}

// broadcastLoop drains the engine's notification queue at 10Hz
// (spec.md §4.I) and fans each event out to every connected client as
// the corresponding plain-text frame.
func (s *Server) broadcastLoop() {
	ticker := time.NewTicker(100 * time.Millisecond)
	defer ticker.Stop()
	for range ticker.C {
		s.drainOnce()
	}
}

func (s *Server) drainOnce() {
	for {
		select {
		case n := <-s.notify:
			s.broadcast(notificationFrame(n))
		default:
			return
		}
	}
}

func notificationFrame(n engine.Notification) string {
	switch n.Kind {
	case engine.NotifyHighlight:
		return highlightFrame(n.Index)
	case engine.NotifyClearHighlight:
		return frameClearHighlight
	case engine.NotifyPauseComplete:
		return framePauseComplete
	case engine.NotifyResumeComplete:
		return frameResumeComplete
	case engine.NotifyError:
		if n.Err == engine.ErrNothingToPlay.Error() {
			return errorFrame(errNothingToPlay)
		}
		return errorFrame(n.Err)
	default:
		return ""
	}
}

func (s *Server) broadcast(frame string) {
	if frame == "" {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for c := range s.clients {
		c.send(frame)
	}
}

// BroadcastState pushes a treatment-state:<json> frame to every
// client immediately, for callers (e.g. after applying a preset) that
// want to push state outside the 10Hz notification cadence.
func (s *Server) BroadcastState() {
	if s.snapshot == nil {
		return
	}
	body := s.snapshot()
	s.broadcast(treatmentStateFrame(body))
}
