// internal/server/handlers/websocket.go

package handlers

import (
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"
	"github.com/nats-io/nats.go"
)

// MetricsStreamTopics names the event bus topics fanned out to
// metrics stream clients
type MetricsStreamTopics struct {
	Analytics string
	Forecast  string
}

// metricsClient represents a connected metrics stream client. The
// stream is one-way: clients only receive events.
type metricsClient struct {
	conn              *websocket.Conn
	send              chan []byte
	platform          string
	natsSubscriptions []*nats.Subscription
}

// WebSocketConfig contains configuration for WebSocket connections
type WebSocketConfig struct {
	// Time allowed to write a message to the peer
	WriteWait time.Duration

	// Time allowed to read the next pong message from the peer
	PongWait time.Duration

	// Send pings to peer with this period
	PingPeriod time.Duration

	// Maximum message size allowed from peer
	MaxMessageSize int64
}

// DefaultWebSocketConfig returns the default WebSocket configuration
func DefaultWebSocketConfig() WebSocketConfig {
	return WebSocketConfig{
		WriteWait:      10 * time.Second,
		PongWait:       60 * time.Second,
		PingPeriod:     (60 * time.Second * 9) / 10,
		MaxMessageSize: 4096,
	}
}

// WebSocketUpgrader is used to upgrade HTTP connections to WebSocket
var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// In production, this should be more restrictive
		return true
	},
}

// MetricsWebSocketHandler streams analysis and prediction events for a
// platform over WebSocket. Events for other platforms are filtered out
// server-side.
func MetricsWebSocketHandler(natsConn *nats.Conn, topics MetricsStreamTopics) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		platform := chi.URLParam(r, "platform")
		if platform == "" {
			http.Error(w, "Missing platform", http.StatusBadRequest)
			return
		}

		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			log.Printf("Failed to upgrade to WebSocket: %v", err)
			return
		}

		client := &metricsClient{
			conn:     conn,
			send:     make(chan []byte, 256),
			platform: platform,
		}

		go client.writePump()
		go client.readPump()

		if err := client.subscribe(natsConn, topics); err != nil {
			log.Printf("Failed to subscribe to metrics topics: %v", err)
			client.closeConnection()
			return
		}

		welcomeMsg := map[string]interface{}{
			"type":     "welcome",
			"platform": platform,
			"time":     time.Now(),
		}

		welcomeJSON, _ := json.Marshal(welcomeMsg)
		client.send <- welcomeJSON

		log.Printf("New metrics stream connection for platform %s", platform)
	}
}

// subscribe wires the client to the analysis and prediction topics,
// forwarding only events for the client's platform
func (c *metricsClient) subscribe(natsConn *nats.Conn, topics MetricsStreamTopics) error {
	forward := func(msg *nats.Msg) {
		if !c.matchesPlatform(msg.Data) {
			return
		}
		select {
		case c.send <- msg.Data:
		default:
			// Slow consumer; drop the event rather than block the bus
		}
	}

	analysisSub, err := natsConn.Subscribe(topics.Analytics+".engagement", forward)
	if err != nil {
		return err
	}
	c.natsSubscriptions = append(c.natsSubscriptions, analysisSub)

	predictionSub, err := natsConn.Subscribe(topics.Forecast+".generated", forward)
	if err != nil {
		return err
	}
	c.natsSubscriptions = append(c.natsSubscriptions, predictionSub)

	return nil
}

// matchesPlatform reports whether an event payload targets the
// client's platform. All-platform events, published with an empty
// platform, reach every client.
func (c *metricsClient) matchesPlatform(payload []byte) bool {
	var event struct {
		Platform string `json:"platform"`
	}
	if err := json.Unmarshal(payload, &event); err != nil {
		return false
	}
	return event.Platform == "" || event.Platform == c.platform
}

// readPump consumes control frames from the connection. Incoming data
// messages are discarded; the stream is read-only for clients.
func (c *metricsClient) readPump() {
	config := DefaultWebSocketConfig()

	defer func() {
		c.closeConnection()
	}()

	c.conn.SetReadLimit(config.MaxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(config.PongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(config.PongWait))
		return nil
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("WebSocket error: %v", err)
			}
			break
		}
	}
}

// writePump pumps events from the send channel to the WebSocket
// connection
func (c *metricsClient) writePump() {
	config := DefaultWebSocketConfig()
	ticker := time.NewTicker(config.PingPeriod)
	defer func() {
		ticker.Stop()
		c.closeConnection()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(config.WriteWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			w, err := c.conn.NextWriter(websocket.TextMessage)
			if err != nil {
				return
			}
			w.Write(message)

			// Add queued events to the current WebSocket message
			n := len(c.send)
			for i := 0; i < n; i++ {
				w.Write([]byte{'\n'})
				w.Write(<-c.send)
			}

			if err := w.Close(); err != nil {
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(config.WriteWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// closeConnection closes the WebSocket connection and cleans up
// resources
func (c *metricsClient) closeConnection() {
	for _, sub := range c.natsSubscriptions {
		sub.Unsubscribe()
	}

	c.conn.Close()

	log.Printf("Metrics stream connection closed for platform %s", c.platform)
}
