package httpapi

import (
	"errors"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"

	"github.com/m4l0n6/task-quest-gamify/internal/engine"
	"github.com/m4l0n6/task-quest-gamify/internal/session"
)

const sessionKey = "session"

func (s *Server) issueToken(userID string) (string, time.Time, error) {
	now := s.clock.Now()
	exp := now.Add(s.ttl)
	claims := jwt.RegisteredClaims{
		Subject:   userID,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(exp),
	}
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return tok, exp, nil
}

func (s *Server) parseToken(raw string) (*jwt.RegisteredClaims, error) {
	claims := &jwt.RegisteredClaims{}
	_, err := jwt.ParseWithClaims(raw, claims, func(*jwt.Token) (any, error) {
		return s.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithTimeFunc(s.clock.Now))
	if err != nil {
		return nil, err
	}
	if claims.Subject == "" {
		return nil, errors.New("token has no subject")
	}
	return claims, nil
}

// requireSession turns a Bearer token into the request's session.
func (s *Server) requireSession(c *fiber.Ctx) error {
	header := c.Get(fiber.HeaderAuthorization)
	raw, found := strings.CutPrefix(header, "Bearer ")
	if !found || raw == "" {
		return fiber.NewError(fiber.StatusUnauthorized, "missing bearer token")
	}
	claims, err := s.parseToken(raw)
	if err != nil {
		return fiber.NewError(fiber.StatusUnauthorized, "invalid token")
	}
	started := s.clock.Now()
	if claims.IssuedAt != nil {
		started = claims.IssuedAt.Time
	}
	c.Locals(sessionKey, &engine.Session{UserID: claims.Subject, StartedAt: started})
	return c.Next()
}

func sessionOf(c *fiber.Ctx) *engine.Session {
	sess, _ := c.Locals(sessionKey).(*engine.Session)
	return sess
}

type telegramLoginRequest struct {
	InitData string `json:"initData"`
}

type localLoginRequest struct {
	Username string `json:"username"`
}

type loginResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
	NewUser   bool      `json:"newUser"`
	Login     any       `json:"login"`
	User      any       `json:"user"`
}

func (s *Server) loginTelegram(c *fiber.Ctx) error {
	if s.telegram == nil {
		return fiber.NewError(fiber.StatusNotFound, "telegram login is not enabled")
	}
	var req telegramLoginRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	return s.login(c, s.telegram, req.InitData)
}

func (s *Server) loginLocal(c *fiber.Ctx) error {
	if s.local == nil {
		return fiber.NewError(fiber.StatusNotFound, "local login is not enabled")
	}
	var req localLoginRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
		}
	}
	return s.login(c, s.local, req.Username)
}

func (s *Server) login(c *fiber.Ctx, provider session.IdentityProvider, credential string) error {
	res, err := s.sessions.Login(c.UserContext(), provider, credential)
	if err != nil {
		return err
	}
	tok, exp, err := s.issueToken(res.User.ID)
	if err != nil {
		return err
	}
	return ok(c, loginResponse{
		Token:     tok,
		ExpiresAt: exp,
		NewUser:   res.NewUser,
		Login: fiber.Map{
			"firstLoginToday": res.Login.FirstLoginToday,
			"tokensAwarded":   res.Login.TokensAwarded,
			"streak":          res.Login.Streak,
		},
		User: res.User,
	})
}

func (s *Server) logout(c *fiber.Ctx) error {
	if err := s.sessions.Logout(c.UserContext()); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}
