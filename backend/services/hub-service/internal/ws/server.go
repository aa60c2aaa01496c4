package ws

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"roamhub/backend/libs/oicp/ids"
	"roamhub/backend/services/hub-service/internal/auth"
)

// Server upgrades HTTP connections to status feed subscriptions.
type Server struct {
	hub          *Hub
	logger       *zap.Logger
	pingInterval time.Duration
	writeTimeout time.Duration
	upgrader     websocket.Upgrader
}

// NewServer builds ws server.
func NewServer(hub *Hub, pingInterval, writeTimeout time.Duration, logger *zap.Logger) *Server {
	if pingInterval <= 0 {
		pingInterval = 30 * time.Second
	}
	return &Server{
		hub:          hub,
		logger:       logger,
		pingInterval: pingInterval,
		writeTimeout: writeTimeout,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 4096,
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
	}
}

// HandleFeed is HTTP handler for /feed/evse-status. The optional operator_id
// query parameter narrows the feed to one operator.
func (s *Server) HandleFeed(w http.ResponseWriter, r *http.Request) {
	partner, ok := auth.PartnerFromContext(r.Context())
	if !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}
	operator := ""
	if raw := strings.TrimSpace(r.URL.Query().Get("operator_id")); raw != "" {
		id, err := ids.ParseOperatorID(raw)
		if err != nil {
			http.Error(w, "invalid operator_id", http.StatusBadRequest)
			return
		}
		operator = id.String()
	}

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Error("websocket upgrade failed", zap.Error(err))
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	connection := NewConnection(uuid.NewString(), partner.Name, operator, conn, s.writeTimeout, s.logger, func(id string) {
		s.hub.Remove(id)
		cancel()
	})
	s.hub.Add(connection)
	s.logger.Info("feed subscriber joined", zap.String("partner", partner.Name), zap.String("operator_id", operator))

	go connection.Start(ctx, s.pingInterval)
}
