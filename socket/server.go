package socket

import (
	"context"
	"log"
	"net"

	socketio "github.com/googollee/go-socket.io"

	"assume_server/models"
	"assume_server/services"
)

const (
	queueNamespace = "/queue"
	chatNamespace  = "/chat"
)

// chatBroadcaster adapts the socket.io server to the relay's room fan-out
// interface, pinned to the chat namespace.
type chatBroadcaster struct {
	server *socketio.Server
}

func (b *chatBroadcaster) BroadcastToRoom(room, event string, args ...interface{}) {
	b.server.BroadcastToRoom(chatNamespace, room, event, args...)
}

func (b *chatBroadcaster) ForEach(room string, f func(services.Emitter)) {
	b.server.ForEach(chatNamespace, room, func(c socketio.Conn) {
		f(c)
	})
}

// NewSocketServer initializes the Socket.IO server and wires the /queue
// namespace to the matchmaking engine and the /chat namespace to the session
// relay. When redisAddr is set, the redis adapter is attached so broadcasts
// reach clients connected to other instances.
func NewSocketServer(match *services.MatchService, relay *services.RelayService, redisAddr string) *socketio.Server {
	server := socketio.NewServer(nil)
	relay.Broadcast = &chatBroadcaster{server: server}

	if redisAddr != "" {
		host, port, err := net.SplitHostPort(redisAddr)
		if err != nil {
			log.Printf("⚠️ Invalid REDIS_ADDR %q, skipping socket.io adapter: %v", redisAddr, err)
		} else if ok, err := server.Adapter(&socketio.RedisAdapterOptions{
			Host:   host,
			Port:   port,
			Prefix: "socket.io",
		}); err != nil || !ok {
			log.Printf("⚠️ Redis adapter unavailable, broadcasts stay single-instance: %v", err)
		} else {
			log.Println("✅ Redis adapter configured for socket.io broadcasts")
		}
	}

	// ----- queue namespace -----

	server.OnConnect(queueNamespace, func(c socketio.Conn) error {
		c.SetContext("")
		log.Println("🔌 [Queue] socket connected:", c.ID())
		match.HandleConnect(context.Background(), c)
		return nil
	})

	server.OnEvent(queueNamespace, models.QueueEventJoinQueue, func(c socketio.Conn, preferences map[string]string) {
		match.JoinQueue(context.Background(), c, preferences)
	})

	server.OnEvent(queueNamespace, models.QueueEventLeaveQueue, func(c socketio.Conn) {
		match.LeaveQueue(context.Background(), c.ID())
	})

	server.OnEvent(queueNamespace, models.QueueEventFinishChat, func(c socketio.Conn) {
		match.FinishChat(context.Background(), c.ID())
	})

	server.OnEvent(queueNamespace, models.QueueEventReconnectToRoom, func(c socketio.Conn, payload models.RoomPayload) {
		match.ReconnectToRoom(context.Background(), c, payload.RoomID)
	})

	server.OnDisconnect(queueNamespace, func(c socketio.Conn, reason string) {
		log.Printf("❌ [Queue] socket disconnected: %s (%s)", c.ID(), reason)
		match.Disconnect(context.Background(), c.ID())
	})

	server.OnError(queueNamespace, func(c socketio.Conn, e error) {
		log.Printf("❌ [Queue] socket error: %v", e)
	})

	// ----- chat namespace -----

	server.OnConnect(chatNamespace, func(c socketio.Conn) error {
		c.SetContext("")
		log.Println("🔌 [Chat] socket connected:", c.ID())
		return nil
	})

	server.OnEvent(chatNamespace, models.ChatEventJoinRoom, func(c socketio.Conn, payload models.RoomPayload) {
		relay.JoinRoom(c, payload.RoomID)
	})

	server.OnEvent(chatNamespace, models.ChatEventLeaveRoom, func(c socketio.Conn, payload models.RoomPayload) {
		relay.LeaveRoom(c, payload.RoomID)
	})

	server.OnEvent(chatNamespace, models.ChatEventHandshake, func(c socketio.Conn, payload models.HandshakePayload) {
		relay.Handshake(c, payload)
	})

	server.OnEvent(chatNamespace, models.ChatEventMessage, func(c socketio.Conn, payload models.MessagePayload) {
		relay.Message(c, payload)
	})

	server.OnEvent(chatNamespace, models.ChatEventTyping, func(c socketio.Conn, payload models.TypingPayload) {
		relay.Typing(c, payload)
	})

	server.OnEvent(chatNamespace, models.ChatEventStopTyping, func(c socketio.Conn, payload models.TypingPayload) {
		relay.StopTyping(c, payload)
	})

	server.OnEvent(chatNamespace, models.ChatEventVideoOffer, func(c socketio.Conn, payload models.SignalPayload) {
		relay.Offer(c, payload)
	})

	server.OnEvent(chatNamespace, models.ChatEventVideoAnswer, func(c socketio.Conn, payload models.SignalPayload) {
		relay.Answer(c, payload)
	})

	server.OnEvent(chatNamespace, models.ChatEventVideoICECandidate, func(c socketio.Conn, payload models.SignalPayload) {
		relay.Candidate(c, payload)
	})

	server.OnEvent(chatNamespace, models.ChatEventEndCall, func(c socketio.Conn, payload models.RoomPayload) {
		relay.EndCall(c, payload)
	})

	server.OnDisconnect(chatNamespace, func(c socketio.Conn, reason string) {
		log.Printf("❌ [Chat] socket disconnected: %s (%s)", c.ID(), reason)
		relay.Disconnect(c)
	})

	server.OnError(chatNamespace, func(c socketio.Conn, e error) {
		log.Printf("❌ [Chat] socket error: %v", e)
	})

	return server
}
