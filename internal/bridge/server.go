package bridge

import (
	"bufio"
	"context"
	"crypto/subtle"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/url"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/querykiln/kiln/internal/domain"
	"go.uber.org/zap"
)

// TokenQueryParam carries the token for clients that cannot set headers,
// such as a browser EventSource on /events.
const TokenQueryParam = "token"

var ErrEmptyToken = errors.New("bridge server token is empty")

// NewToken returns a random token for one server run.
func NewToken() string {
	return strings.ReplaceAll(uuid.NewString()+uuid.NewString(), "-", "")
}

// Server exposes the bridge to an out-of-process UI over loopback HTTP.
// Bridge and event routes require the run token and a loopback origin.
type Server struct {
	app      *fiber.App
	bridge   *Bridge
	notifier *Notifier
	version  string
	token    string
	log      *zap.Logger
}

func NewServer(bridge *Bridge, notifier *Notifier, version string, token string, log *zap.Logger) (*Server, error) {
	if token == "" {
		return nil, ErrEmptyToken
	}
	if log == nil {
		log = zap.NewNop()
	}

	s := &Server{
		app: fiber.New(fiber.Config{
			DisableStartupMessage: true,
			AppName:               "kiln",
		}),
		bridge:   bridge,
		notifier: notifier,
		version:  version,
		token:    token,
		log:      log,
	}

	s.app.Use(recover.New())
	s.app.Get("/healthz", s.handleHealth)
	s.app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))
	s.app.Post("/bridge/:operation", s.requireLoopback, s.requireToken, s.requireJSON, s.handleOperation)
	s.app.Get("/events", s.requireLoopback, s.requireToken, s.handleEvents)

	return s, nil
}

func (s *Server) App() *fiber.App {
	return s.app
}

func (s *Server) Listen(addr string) error {
	s.log.Info("bridge server listening", zap.String("addr", addr))
	return s.app.Listen(addr)
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.app.ShutdownWithContext(ctx)
}

// requireLoopback rejects requests addressed to a non-loopback host name or
// sent from a non-loopback page origin.
func (s *Server) requireLoopback(c *fiber.Ctx) error {
	if !isLoopbackHost(string(c.Request().Host())) {
		return s.reject(c, fiber.StatusForbidden, "host not allowed")
	}

	if origin := c.Get(fiber.HeaderOrigin); origin != "" {
		parsed, err := url.Parse(origin)
		if err != nil || !isLoopbackHost(parsed.Host) {
			return s.reject(c, fiber.StatusForbidden, "origin not allowed")
		}
	}

	return c.Next()
}

func (s *Server) requireToken(c *fiber.Ctx) error {
	presented := strings.TrimPrefix(c.Get(fiber.HeaderAuthorization), "Bearer ")
	if presented == "" {
		presented = c.Query(TokenQueryParam)
	}

	if subtle.ConstantTimeCompare([]byte(presented), []byte(s.token)) != 1 {
		return s.reject(c, fiber.StatusUnauthorized, "missing or invalid token")
	}

	return c.Next()
}

func (s *Server) requireJSON(c *fiber.Ctx) error {
	mediaType, _, _ := strings.Cut(c.Get(fiber.HeaderContentType), ";")
	if !strings.EqualFold(strings.TrimSpace(mediaType), fiber.MIMEApplicationJSON) {
		return s.reject(c, fiber.StatusUnsupportedMediaType, "content type must be application/json")
	}

	return c.Next()
}

func (s *Server) reject(c *fiber.Ctx, status int, reason string) error {
	s.log.Warn("bridge request rejected",
		zap.String("path", c.Path()),
		zap.String("origin", c.Get(fiber.HeaderOrigin)),
		zap.String("reason", reason),
	)
	return c.Status(status).JSON(fiber.Map{"error": reason})
}

// isLoopbackHost accepts "localhost" and loopback IPs, with or without a port.
func isLoopbackHost(hostport string) bool {
	host := hostport
	if h, _, err := net.SplitHostPort(hostport); err == nil {
		host = h
	}
	host = strings.Trim(host, "[]")

	if strings.EqualFold(host, "localhost") {
		return true
	}
	ip := net.ParseIP(host)
	return ip != nil && ip.IsLoopback()
}

func (s *Server) handleHealth(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": "ok", "version": s.version})
}

func (s *Server) handleOperation(c *fiber.Ctx) error {
	operation := c.Params("operation")

	resp, err := s.bridge.Dispatch(c.UserContext(), operation, json.RawMessage(c.Body()))
	if err != nil {
		status := fiber.StatusInternalServerError
		switch {
		case errors.Is(err, ErrUnknownOperation):
			status = fiber.StatusNotFound
		case errors.Is(err, ErrBadArguments):
			status = fiber.StatusBadRequest
		}
		return c.Status(status).JSON(fiber.Map{"error": err.Error()})
	}

	encoded, err := json.Marshal(resp)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	c.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	return c.Send(encoded)
}

// handleEvents streams update events as server-sent events. A new
// connection replaces the previous subscriber.
func (s *Server) handleEvents(c *fiber.Ctx) error {
	events, cancel := s.notifier.Subscribe()

	c.Set(fiber.HeaderContentType, "text/event-stream")
	c.Set(fiber.HeaderCacheControl, "no-cache")
	c.Set(fiber.HeaderConnection, "keep-alive")

	c.Context().SetBodyStreamWriter(func(w *bufio.Writer) {
		defer cancel()

		if err := w.Flush(); err != nil {
			return
		}
		for event := range events {
			if err := writeEvent(w, event); err != nil {
				s.log.Debug("event stream closed", zap.Error(err))
				return
			}
			if err := w.Flush(); err != nil {
				return
			}
		}
	})

	return nil
}

// writeEvent encodes one event with the same payload the desktop UI
// received: the release info, the progress figures, or the error.
func writeEvent(w io.Writer, event domain.UpdateEvent) error {
	var data any
	switch {
	case event.Progress != nil:
		data = event.Progress
	case event.Info != nil:
		data = event.Info
	default:
		data = fiber.Map{"error": event.Error}
	}

	encoded, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("encode %s event: %w", event.Kind, err)
	}

	_, err = fmt.Fprintf(w, "event: %s\ndata: %s\n\n", event.Kind, encoded)
	return err
}
