package ingress

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/lootrush/lootrush/pkg/clock"
	"github.com/lootrush/lootrush/pkg/command"
	"github.com/lootrush/lootrush/pkg/game"
	"github.com/lootrush/lootrush/pkg/utils"

	"github.com/fxamacker/cbor/v2"
	"github.com/rs/zerolog/log"
	"github.com/sasha-s/go-deadlock"
	"golang.org/x/time/rate"
	"nhooyr.io/websocket"
)

const clientMessageLimit = 64

// WSClient is one connected spectator or operator console.
type WSClient struct {
	host      string
	send      chan []byte
	limiter   *rate.Limiter
	closeSlow func()
}

func NewWSClient() *WSClient {
	return &WSClient{
		send: make(chan []byte, clientMessageLimit),
		// Operator commands are hand-typed; anything faster is abuse.
		limiter: rate.NewLimiter(rate.Limit(5), 10),
	}
}

func (c *WSClient) Host() string {
	return c.host
}

// WSIngress fans the orchestrator's event feed out to websocket clients and
// feeds their command lines onto the scheduler goroutine.
type WSIngress struct {
	sched      *clock.Scheduler
	events     *utils.Topic[game.Event]
	commands   *command.CommandGroup[*WSClient]
	clients    map[*WSClient]struct{}
	mutex      deadlock.Mutex
	httpServer *http.Server
}

func NewWSIngress(sched *clock.Scheduler, events *utils.Topic[game.Event], deps command.GameDeps) *WSIngress {
	server := &WSIngress{
		sched:   sched,
		events:  events,
		clients: make(map[*WSClient]struct{}),
	}

	server.commands = command.NewCommandGroup[*WSClient]("lr", func(client *WSClient, message string) {
		bytes, _ := cbor.Marshal(ServerMessage{
			Op:      ServerMessageOp,
			Message: message,
		})
		select {
		case client.send <- bytes:
		default:
		}
	})
	command.RegisterGameCommands(server.commands, deps)

	return server
}

func WriteTimeout(ctx context.Context, timeout time.Duration, c *websocket.Conn, msg []byte) error {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	return c.Write(ctx, websocket.MessageBinary, msg)
}

func (server *WSIngress) AddClient(client *WSClient) {
	server.mutex.Lock()
	server.clients[client] = struct{}{}
	server.mutex.Unlock()
}

func (server *WSIngress) RemoveClient(client *WSClient) {
	server.mutex.Lock()
	delete(server.clients, client)
	server.mutex.Unlock()
}

// dispatch hands a command line to the scheduler goroutine and waits for the
// result, so all game mutations stay on the logical clock.
func (server *WSIngress) dispatch(ctx context.Context, client *WSClient, line string) error {
	result := make(chan error, 1)
	server.sched.Run(func() {
		result <- server.commands.Handle(client, strings.Fields(line))
	})

	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	select {
	case err := <-result:
		return err
	case <-ctx.Done():
		return fmt.Errorf("command timed out")
	}
}

func (server *WSIngress) HandleClient(ctx context.Context, c *websocket.Conn, host string) error {
	client := NewWSClient()
	client.host = host
	client.closeSlow = func() {
		c.Close(websocket.StatusPolicyViolation, "connection too slow to keep up with events")
	}

	server.AddClient(client)
	defer server.RemoveClient(client)

	session := utils.NewSession(ctx)
	defer session.Cancel()
	ctx = session.Ctx()

	logger := log.With().Str("host", host).Logger()
	logger.Info().Msg("client joined")
	defer func() {
		logger.Info().Dur("connected", time.Since(session.Started())).Msg("session closed")
	}()

	receive := make(chan []byte)
	go func() {
		for {
			if ctx.Err() != nil {
				return
			}

			typ, message, err := c.Read(ctx)
			if err != nil {
				return
			}
			if typ != websocket.MessageBinary {
				continue
			}
			receive <- message
		}
	}()

	for {
		select {
		case msg := <-receive:
			var commandMessage CommandMessage
			if err := cbor.Unmarshal(msg, &commandMessage); err != nil ||
				commandMessage.Op != CommandOp {
				continue
			}

			response := ResponseMessage{
				Op: ResponseOp,
				Id: commandMessage.Id,
			}

			if !client.limiter.Allow() {
				response.Response = "too many commands; slow down"
			} else if err := server.dispatch(ctx, client, commandMessage.Command); err != nil {
				response.Response = err.Error()
			} else {
				response.Success = true
			}

			bytes, _ := cbor.Marshal(response)
			select {
			case client.send <- bytes:
			default:
			}
		case msg := <-client.send:
			if err := WriteTimeout(ctx, 5*time.Second, c, msg); err != nil {
				logger.Error().Msg("client missed write timeout; disconnecting")
				return err
			}
		case <-ctx.Done():
			logger.Info().Msg("client left")
			return ctx.Err()
		}
	}
}

func (server *WSIngress) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	c, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		OriginPatterns: []string{"*"},
	})
	if err != nil {
		log.Error().Err(err).Msg("error accepting client connection")
		return
	}

	defer c.Close(websocket.StatusInternalError, "operational fault during relay")

	hostname := r.RemoteAddr
	if forwarded, ok := r.Header["X-Forwarded-For"]; ok {
		hostname = forwarded[0]
	}

	err = server.HandleClient(r.Context(), c, hostname)
	if errors.Is(err, context.Canceled) {
		return
	}
	if websocket.CloseStatus(err) == websocket.StatusNormalClosure ||
		websocket.CloseStatus(err) == websocket.StatusGoingAway {
		return
	}
	if err != nil {
		log.Error().Err(err).Msg("failed to close client port")
	}
}

func (server *WSIngress) Broadcast(msg []byte) {
	server.mutex.Lock()
	defer server.mutex.Unlock()

	for client := range server.clients {
		select {
		case client.send <- msg:
		default:
			go client.closeSlow()
		}
	}
}

// StartBroadcasting relays every orchestrator event to all clients until the
// context is cancelled.
func (server *WSIngress) StartBroadcasting(ctx context.Context) {
	subscriber := server.events.Subscribe()

	go func() {
		defer subscriber.Done()
		for {
			select {
			case <-ctx.Done():
				return
			case event := <-subscriber.Recv():
				bytes, err := cbor.Marshal(EventMessage{
					Op:    EventOp,
					Event: event,
				})
				if err != nil {
					log.Error().Err(err).Msg("could not encode event")
					continue
				}
				server.Broadcast(bytes)
			}
		}
	}()
}

func (server *WSIngress) Serve(ctx context.Context, address string) error {
	listen, err := net.Listen("tcp", address)
	if err != nil {
		log.Error().Err(err).Msg("failed to bind WebSocket port")
		return err
	}

	log.Info().Msgf("listening on http://%v", listen.Addr())

	server.httpServer = &http.Server{
		Handler: server,
	}

	server.StartBroadcasting(ctx)

	return server.httpServer.Serve(listen)
}

func (server *WSIngress) Shutdown(ctx context.Context) {
	server.httpServer.Shutdown(ctx)
}
