package httpapi

import (
	"sync"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/jonboulle/clockwork"

	"github.com/m4l0n6/task-quest-gamify/internal/engine"
	"github.com/m4l0n6/task-quest-gamify/internal/logger"
	"github.com/m4l0n6/task-quest-gamify/internal/session"
	"github.com/m4l0n6/task-quest-gamify/internal/shop"
)

type Deps struct {
	Engine   *engine.Service
	Shop     *shop.Service
	Sessions *session.Manager

	// Telegram and Local are optional; a nil provider disables its route.
	Telegram session.IdentityProvider
	Local    session.IdentityProvider

	Secret   []byte
	TokenTTL time.Duration
	Log      *logger.Logger

	// Serial is held around every handler that touches the store. Share it
	// with background jobs working on the same store.
	Serial *sync.Mutex
}

type Server struct {
	app      *fiber.App
	engine   *engine.Service
	shop     *shop.Service
	sessions *session.Manager
	telegram session.IdentityProvider
	local    session.IdentityProvider
	secret   []byte
	ttl      time.Duration
	clock    clockwork.Clock
	log      *logger.Logger
	serial   *sync.Mutex
}

func New(d Deps) *Server {
	s := &Server{
		engine:   d.Engine,
		shop:     d.Shop,
		sessions: d.Sessions,
		telegram: d.Telegram,
		local:    d.Local,
		secret:   d.Secret,
		ttl:      d.TokenTTL,
		clock:    d.Engine.Clock(),
		log:      d.Log,
		serial:   d.Serial,
	}
	if s.log == nil {
		s.log = logger.Nop()
	}
	if s.serial == nil {
		s.serial = &sync.Mutex{}
	}
	if s.ttl <= 0 {
		s.ttl = 72 * time.Hour
	}
	s.app = fiber.New(fiber.Config{
		AppName:               "taskquest",
		DisableStartupMessage: true,
		ErrorHandler:          s.errorHandler,
	})
	s.routes()
	return s
}

func (s *Server) App() *fiber.App { return s.app }

func (s *Server) Listen(addr string) error {
	s.log.Info("http listening", "addr", addr)
	return s.app.Listen(addr)
}

func (s *Server) Shutdown() error { return s.app.Shutdown() }

func (s *Server) serialize(c *fiber.Ctx) error {
	s.serial.Lock()
	defer s.serial.Unlock()
	return c.Next()
}

func (s *Server) routes() {
	s.app.Get("/health", func(c *fiber.Ctx) error {
		return ok(c, fiber.Map{"status": "ok", "time": s.clock.Now()})
	})

	s.app.Post("/auth/telegram", s.serialize, s.loginTelegram)
	s.app.Post("/auth/local", s.serialize, s.loginLocal)

	secured := func(h fiber.Handler) []fiber.Handler {
		return []fiber.Handler{s.requireSession, s.serialize, s.requireCurrent, h}
	}
	s.app.Post("/auth/logout", secured(s.logout)...)
	s.app.Get("/me", secured(s.me)...)

	s.app.Get("/tasks", secured(s.listTasks)...)
	s.app.Post("/tasks", secured(s.createTask)...)
	s.app.Get("/tasks/:id", secured(s.getTask)...)
	s.app.Patch("/tasks/:id", secured(s.updateTask)...)
	s.app.Delete("/tasks/:id", secured(s.deleteTask)...)
	s.app.Post("/tasks/:id/complete", secured(s.completeTask)...)

	s.app.Get("/daily", secured(s.dailyTasks)...)
	s.app.Get("/leaderboard", secured(s.leaderboard)...)
	s.app.Get("/badges", secured(s.badges)...)

	s.app.Get("/notifications", secured(s.notifications)...)
	s.app.Post("/notifications/read-all", secured(s.markAllRead)...)
	s.app.Post("/notifications/:id/read", secured(s.markRead)...)

	s.app.Get("/store", secured(s.storeItems)...)
	s.app.Post("/store/:id/purchase", secured(s.purchase)...)
	s.app.Post("/store/:id/activate", secured(s.activate)...)
}

// requireCurrent rejects tokens issued to a user who is no longer the
// signed-in user of this store.
func (s *Server) requireCurrent(c *fiber.Ctx) error {
	cur, err := s.sessions.Current(c.UserContext())
	if err != nil {
		if engine.IsNotFound(err) {
			return fiber.NewError(fiber.StatusUnauthorized, "session ended, log in again")
		}
		return err
	}
	if cur.UserID != sessionOf(c).UserID {
		return fiber.NewError(fiber.StatusUnauthorized, "session ended, log in again")
	}
	return c.Next()
}
