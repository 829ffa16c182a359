// internal/api/progress.go
package api

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/neeleshsethi/brand-intelligence-platform/internal/common/config"
	"github.com/neeleshsethi/brand-intelligence-platform/internal/common/logger"
	"github.com/neeleshsethi/brand-intelligence-platform/internal/common/metrics"
)

const (
	ActionAnalyze      = "analyze"
	ActionGeneratePlan = "generate_plan"

	stepComplete = "Complete"
	writeWait    = 10 * time.Second
)

// ProgressFrame is one message on the progress channel.
type ProgressFrame struct {
	Action   string `json:"action,omitempty"`
	Step     string `json:"step"`
	Progress int    `json:"progress"`
	BrandID  string `json:"brandId,omitempty"`
}

type progressStep struct {
	step     string
	progress int
}

var progressSteps = map[string][]progressStep{
	ActionAnalyze: {
		{"Fetching brand data", 10},
		{"Analyzing market landscape", 30},
		{"Evaluating competitors", 50},
		{"Generating insights", 70},
		{"Developing strategy", 90},
		{stepComplete, 100},
	},
	ActionGeneratePlan: {
		{"Loading brand context", 15},
		{"Analyzing market position", 30},
		{"Developing strategic framework", 50},
		{"Creating tactical initiatives", 70},
		{"Calculating KPIs and budget", 85},
		{stepComplete, 100},
	},
}

type progressConn struct {
	ws *websocket.Conn
	mu sync.Mutex
}

func (c *progressConn) send(frame ProgressFrame) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	_ = c.ws.SetWriteDeadline(time.Now().Add(writeWait))
	return c.ws.WriteJSON(frame)
}

// ProgressHub serves the progress websocket and tracks open connections for broadcasts.
type ProgressHub struct {
	upgrader websocket.Upgrader
	delays   map[string]time.Duration
	logger   logger.Logger
	sleep    func(time.Duration)

	mu    sync.Mutex
	conns map[*progressConn]struct{}
}

func NewProgressHub(demoMode bool, cfg config.ProgressConfig, log logger.Logger) *ProgressHub {
	delays := map[string]time.Duration{
		ActionAnalyze:      config.GetDuration(cfg.AnalyzeDelay),
		ActionGeneratePlan: config.GetDuration(cfg.PlanDelay),
	}
	if demoMode {
		delays[ActionAnalyze] = config.GetDuration(cfg.DemoDelay)
		delays[ActionGeneratePlan] = config.GetDuration(cfg.DemoDelay)
	}

	return &ProgressHub{
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
		delays: delays,
		logger: log.Named("progress"),
		sleep:  time.Sleep,
		conns:  make(map[*progressConn]struct{}),
	}
}

// AllowOrigins restricts upgrades to the given browser origins. Requests without an Origin
// header are always accepted.
func (h *ProgressHub) AllowOrigins(origins []string) {
	allowed := make(map[string]bool, len(origins))
	for _, o := range origins {
		allowed[o] = true
	}
	h.upgrader.CheckOrigin = func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		return origin == "" || allowed["*"] || allowed[origin]
	}
}

// Connections returns the number of open connections.
func (h *ProgressHub) Connections() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.conns)
}

func (h *ProgressHub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ws, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("Websocket upgrade failed", map[string]interface{}{"error": err.Error()})
		return
	}

	conn := &progressConn{ws: ws}
	h.add(conn)
	defer h.remove(conn)

	for {
		_, data, err := ws.ReadMessage()
		if err != nil {
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				h.logger.Debug("Progress connection closed", map[string]interface{}{"error": err.Error()})
			}
			return
		}

		var msg struct {
			Action string `json:"action"`
		}
		if err := json.Unmarshal(data, &msg); err != nil {
			h.logger.Debug("Ignoring malformed progress message", map[string]interface{}{"error": err.Error()})
			continue
		}

		if err := h.run(conn, msg.Action); err != nil {
			h.logger.Debug("Progress write failed", map[string]interface{}{"action": msg.Action, "error": err.Error()})
			return
		}
	}
}

// run streams the steps of action to conn. Unknown actions send nothing.
func (h *ProgressHub) run(conn *progressConn, action string) error {
	steps, ok := progressSteps[action]
	if !ok {
		return nil
	}
	for i, st := range steps {
		if err := conn.send(ProgressFrame{Action: action, Step: st.step, Progress: st.progress}); err != nil {
			return err
		}
		if i < len(steps)-1 {
			h.sleep(h.delays[action])
		}
	}
	return nil
}

// Broadcast sends frame to every open connection. Write failures are logged and skipped.
func (h *ProgressHub) Broadcast(frame ProgressFrame) {
	h.mu.Lock()
	conns := make([]*progressConn, 0, len(h.conns))
	for c := range h.conns {
		conns = append(conns, c)
	}
	h.mu.Unlock()

	for _, c := range conns {
		if err := c.send(frame); err != nil {
			h.logger.Debug("Broadcast to progress connection failed", map[string]interface{}{"error": err.Error()})
		}
	}
}

// Close closes every open connection.
func (h *ProgressHub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for c := range h.conns {
		c.mu.Lock()
		_ = c.ws.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseGoingAway, "server shutting down"),
			time.Now().Add(time.Second))
		_ = c.ws.Close()
		c.mu.Unlock()
	}
}

func (h *ProgressHub) add(c *progressConn) {
	h.mu.Lock()
	h.conns[c] = struct{}{}
	h.mu.Unlock()
	metrics.ProgressConnectionsActive.Inc()
}

func (h *ProgressHub) remove(c *progressConn) {
	h.mu.Lock()
	_, ok := h.conns[c]
	delete(h.conns, c)
	h.mu.Unlock()
	if ok {
		metrics.ProgressConnectionsActive.Dec()
	}
	_ = c.ws.Close()
}
