package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/eduforge/mathcore/backend/internal/engine"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// wsRequest is one inbound frame on the interactive stream.
type wsRequest struct {
	Type      string        `json:"type"`
	Angle     float64       `json:"angle"`
	Operation string        `json:"operation"`
	Params    engine.Params `json:"params"`
}

// Stream serves the interactive WebSocket. The client drives it with small
// frames: "angle" frames stream unit-circle snapshots as a slider moves,
// "compute" frames run any engine operation, "ping" keeps the connection
// alive. Every response frame carries a full computation envelope, so the
// client renders streamed results exactly like HTTP ones.
func (s *Server) Stream(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		s.log.Warn("websocket upgrade failed", zap.Error(err))
		return
	}
	defer conn.Close()

	if s.metrics != nil {
		s.metrics.IncWSConnections()
		defer s.metrics.DecWSConnections()
	}

	s.send(conn, gin.H{"type": "system", "message": "connected"})

	for {
		var msg wsRequest
		if err := conn.ReadJSON(&msg); err != nil {
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				s.log.Debug("websocket read ended", zap.Error(err))
			}
			return
		}
		if s.metrics != nil {
			s.metrics.RecordWSFrame("in")
		}

		switch msg.Type {
		case "angle":
			res := s.engine.Do("trig.unit_circle", engine.Params{"angle": msg.Angle})
			s.send(conn, gin.H{"type": "frame", "angle": msg.Angle, "result": res})
		case "compute":
			if msg.Operation == "" {
				s.sendError(conn, "compute frame needs an operation")
				continue
			}
			params := msg.Params
			if params == nil {
				params = engine.Params{}
			}
			res := s.engine.Do(msg.Operation, params)
			s.send(conn, gin.H{"type": "result", "operation": msg.Operation, "result": res})
		case "ping":
			s.send(conn, gin.H{"type": "pong"})
		default:
			s.sendError(conn, "unknown frame type")
		}
	}
}

func (s *Server) send(conn *websocket.Conn, data interface{}) {
	if err := conn.WriteJSON(data); err != nil {
		s.log.Debug("websocket write failed", zap.Error(err))
		return
	}
	if s.metrics != nil {
		s.metrics.RecordWSFrame("out")
	}
}

func (s *Server) sendError(conn *websocket.Conn, msg string) {
	s.send(conn, gin.H{"type": "error", "message": msg})
}
