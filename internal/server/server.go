// Package server is the TCP binding layer: it accepts client connections,
// decodes wire.NewOrderMessage requests, drives a book.Book, and writes
// back wire.Report execution/error reports. Adapted from the teacher's
// internal/net/server.go (accept loop, worker pool, client session map,
// tomb-supervised goroutines); CancelOrder handling and the LogBook command
// are dropped along with internal/net — cancellation is out of scope
// (spec.md Non-goals) and LogBook had no equivalent operation on book.Book.
package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"gopkg.in/tomb.v2"

	"fenrir/internal/book"
	"fenrir/internal/common"
	"fenrir/internal/wire"
	"fenrir/internal/workerpool"
)

const (
	maxRecvSize        = 4 * 1024
	defaultNWorkers    = 10
	defaultConnTimeout = time.Second
)

var (
	ErrImproperConversion = errors.New("server: improper type conversion")
	ErrClientDoesNotExist = errors.New("server: client does not exist")
)

type clientSession struct {
	conn      net.Conn
	sessionID string
}

type clientMessage struct {
	clientAddress string
	msgType       wire.MessageType
	body          []byte
}

// Server accepts wire.NewOrderMessage requests over TCP and drives a single
// book.Book. Execution reports are pushed to both sides of a trade when
// their owning order's submitter is still connected.
type Server struct {
	address string
	port    int
	book    *book.Book

	pool   *workerpool.Pool
	cancel context.CancelFunc

	clientSessions     map[string]clientSession
	clientSessionsLock sync.Mutex

	orderOwners     map[uint64]string
	orderOwnersLock sync.Mutex

	clientMessages chan clientMessage

	orderObserver func(common.Side, common.OrderType)
}

// SetOrderObserver installs a hook invoked once per decoded order, before
// it is submitted to the book, so orders the book rejects are counted too.
// Intended for metrics; nil disables it.
func (s *Server) SetOrderObserver(fn func(common.Side, common.OrderType)) {
	s.orderObserver = fn
}

// New constructs a Server bound to address:port, driving book. Callers
// still own book's trade callback slot — wire OnTrade into it directly, or
// chain it alongside other observers (metrics, a stream hub):
//
//	srv := server.New(addr, port, b)
//	b.SetTradeCallback(srv.OnTrade)
func New(address string, port int, b *book.Book) *Server {
	return &Server{
		address:        address,
		port:           port,
		book:           b,
		pool:           workerpool.New(defaultNWorkers),
		clientSessions: make(map[string]clientSession),
		orderOwners:    make(map[uint64]string),
		clientMessages: make(chan clientMessage, 1),
	}
}

func (s *Server) Shutdown() {
	log.Info().Msg("server shutting down")
	if s.cancel != nil {
		s.cancel()
	}
}

// Run blocks accepting connections until ctx is cancelled.
func (s *Server) Run(ctx context.Context) {
	defer s.Shutdown()

	ctx, s.cancel = context.WithCancel(ctx)
	t, ctx := tomb.WithContext(ctx)

	var lc net.ListenConfig
	listener, err := lc.Listen(ctx, "tcp", fmt.Sprintf("%s:%d", s.address, s.port))
	if err != nil {
		log.Error().Err(err).Msg("unable to start listener")
		return
	}
	defer func() {
		if err := listener.Close(); err != nil {
			log.Error().Err(err).Msg("unable to close listener")
		}
	}()

	t.Go(func() error {
		s.pool.Setup(t, s.handleConnection)
		return nil
	})

	t.Go(func() error {
		return s.sessionHandler(t)
	})

	log.Info().Str("symbol", s.book.Symbol()).Msg("server running")

	for {
		select {
		case <-ctx.Done():
			return
		default:
			conn, err := listener.Accept()
			if err != nil {
				log.Error().Err(err).Msg("error accepting client")
				continue
			}
			sessionID := uuid.New().String()
			log.Info().
				Str("address", conn.RemoteAddr().String()).
				Str("sessionID", sessionID).
				Msg("new client added")
			s.addClientSession(conn, sessionID)
			s.pool.AddTask(conn)
		}
	}
}

// OnTrade is meant to be installed (directly or chained) as the book's
// trade callback. It runs under the book's lock (spec.md §5) — it must not
// block or re-enter the book, so it only does session-map lookups and
// best-effort, non-retrying writes.
func (s *Server) OnTrade(trade common.Trade) {
	makerOwner, takerOwner := s.ownersFor(trade)
	report := wire.TradeReport(trade.Symbol, trade)

	if makerOwner != "" {
		s.sendReport(makerOwner, report)
	}
	if takerOwner != "" && takerOwner != makerOwner {
		s.sendReport(takerOwner, report)
	}
}

func (s *Server) ownersFor(trade common.Trade) (makerOwner, takerOwner string) {
	s.orderOwnersLock.Lock()
	defer s.orderOwnersLock.Unlock()
	return s.orderOwners[trade.MakerOrderID], s.orderOwners[trade.TakerOrderID]
}

func (s *Server) sendReport(owner string, report wire.Report) {
	s.clientSessionsLock.Lock()
	client, ok := s.clientSessions[owner]
	s.clientSessionsLock.Unlock()
	if !ok {
		return
	}
	if _, err := client.conn.Write(report.Encode()); err != nil {
		log.Error().Err(err).Str("owner", owner).Msg("unable to send report")
	}
}

func (s *Server) reportError(clientAddress string, cause error) {
	s.clientSessionsLock.Lock()
	client, ok := s.clientSessions[clientAddress]
	s.clientSessionsLock.Unlock()
	if !ok {
		return
	}
	report := wire.ErrorReportMsg(cause)
	if _, err := client.conn.Write(report.Encode()); err != nil {
		log.Error().Err(err).Str("address", clientAddress).Msg("unable to send error report")
	}
}

// sessionHandler serializes message handling: every message is processed
// one at a time, regardless of which worker read it off the wire.
func (s *Server) sessionHandler(t *tomb.Tomb) error {
	for {
		select {
		case <-t.Dying():
			return nil
		case message := <-s.clientMessages:
			if err := s.handleMessage(message); err != nil {
				log.Error().
					Err(err).
					Str("clientAddress", message.clientAddress).
					Msg("error handling message")
				s.reportError(message.clientAddress, err)
			}
		}
	}
}

func (s *Server) handleMessage(message clientMessage) error {
	switch message.msgType {
	case wire.NewOrder:
		order, err := wire.DecodeNewOrder(message.body)
		if err != nil {
			return err
		}
		return s.placeOrder(message.clientAddress, order)
	case wire.Heartbeat:
		return nil
	default:
		log.Error().Int("messageType", int(message.msgType)).Msg("invalid message type")
		return wire.ErrInvalidMessageType
	}
}

// placeOrder routes execution reports back to clientAddress, the TCP peer
// that submitted the order — order.Owner is a caller-supplied label that is
// not used for routing, since the session table is keyed by peer address.
func (s *Server) placeOrder(clientAddress string, order wire.NewOrderMessage) error {
	if s.orderObserver != nil {
		s.orderObserver(order.Side, order.OrderType)
	}

	orderID, trades, err := s.book.AddOrderWithID(order.Price, order.Quantity, order.Side, order.OrderType)
	if err != nil {
		return err
	}

	// Recorded unconditionally, even for MARKET/IOC/FOK orders that leave no
	// resting remainder. A later trade against a resting remainder of this
	// order (as maker) is routed through this entry.
	s.orderOwnersLock.Lock()
	s.orderOwners[orderID] = clientAddress
	s.orderOwnersLock.Unlock()

	// The trades of this call fired OnTrade before orderID was recorded, so
	// their taker side is reported here, unless the maker report already
	// went to the same client.
	for _, trade := range trades {
		if makerOwner, _ := s.ownersFor(trade); makerOwner != clientAddress {
			s.sendReport(clientAddress, wire.TradeReport(trade.Symbol, trade))
		}
	}
	return nil
}

// handleConnection reads the next message off conn, decodes it, and hands
// it to sessionHandler. The connection stays open and is re-queued for its
// next message; it is closed only when reading or decoding fails, or the
// tomb is dying. Any returned error is fatal to the worker pool.
func (s *Server) handleConnection(t *tomb.Tomb, task any) error {
	conn, ok := task.(net.Conn)
	if !ok {
		return ErrImproperConversion
	}

	closeConn := func() {
		if err := conn.Close(); err != nil {
			log.Error().Str("address", conn.RemoteAddr().String()).Err(err).Msg("closing connection")
		}
	}

	if err := conn.SetDeadline(time.Now().Add(defaultConnTimeout)); err != nil {
		log.Error().Err(err).Str("address", conn.RemoteAddr().String()).Msg("failed setting deadline")
		closeConn()
		return nil
	}

	buffer := make([]byte, maxRecvSize)
	select {
	case <-t.Dying():
		closeConn()
		return nil
	default:
		n, err := conn.Read(buffer)
		if err != nil {
			log.Error().Err(err).Str("address", conn.RemoteAddr().String()).Msg("error reading from connection")
			s.deleteClientSession(conn.RemoteAddr().String())
			closeConn()
			return nil
		}

		msgType, body, err := wire.Decode(buffer[:n])
		if err != nil {
			log.Error().Err(err).Str("address", conn.RemoteAddr().String()).Msg("error decoding message")
			s.deleteClientSession(conn.RemoteAddr().String())
			closeConn()
			return nil
		}

		s.clientMessages <- clientMessage{
			clientAddress: conn.RemoteAddr().String(),
			msgType:       msgType,
			body:          body,
		}
		s.pool.AddTask(conn)
	}
	return nil
}

func (s *Server) addClientSession(conn net.Conn, sessionID string) {
	s.clientSessionsLock.Lock()
	defer s.clientSessionsLock.Unlock()
	s.clientSessions[conn.RemoteAddr().String()] = clientSession{conn: conn, sessionID: sessionID}
}

func (s *Server) deleteClientSession(address string) {
	s.clientSessionsLock.Lock()
	defer s.clientSessionsLock.Unlock()
	delete(s.clientSessions, address)
}
