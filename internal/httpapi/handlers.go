package httpapi

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/m4l0n6/task-quest-gamify/internal/catalog"
	"github.com/m4l0n6/task-quest-gamify/internal/engine"
)

type profileResponse struct {
	ID               string     `json:"id"`
	Username         string     `json:"username"`
	AvatarURL        string     `json:"avatarUrl"`
	XP               int        `json:"xp"`
	Level            int        `json:"level"`
	XPProgress       int        `json:"xpProgress"`
	XPForNextLevel   int        `json:"xpForNextLevel"`
	Tokens           int        `json:"tokens"`
	CompletedTasks   int        `json:"completedTasks"`
	DailyLoginStreak int        `json:"dailyLoginStreak"`
	LastDailyLogin   *time.Time `json:"lastDailyLogin,omitempty"`
	Rank             int        `json:"rank"`
	UnreadCount      int        `json:"unreadCount"`
	ActiveTheme      string     `json:"activeTheme,omitempty"`
	ActiveAvatar     string     `json:"activeAvatar,omitempty"`
}

func (s *Server) me(c *fiber.Ctx) error {
	ctx, sess := c.UserContext(), sessionOf(c)
	u, err := s.engine.CurrentUser(ctx, sess)
	if err != nil {
		return err
	}
	rank, err := s.engine.UserRank(ctx, sess)
	if err != nil {
		return err
	}
	unread, err := s.engine.UnreadCount(ctx)
	if err != nil {
		return err
	}
	out := profileResponse{
		ID:               u.ID,
		Username:         u.Username,
		AvatarURL:        u.AvatarURL,
		XP:               u.XP,
		Level:            u.Level,
		XPProgress:       engine.XPProgress(u.XP, u.Level),
		XPForNextLevel:   engine.XPForNextLevel(u.Level),
		Tokens:           u.Tokens,
		CompletedTasks:   u.CompletedTasks,
		DailyLoginStreak: u.DailyLoginStreak,
		LastDailyLogin:   u.LastDailyLogin,
		Rank:             rank,
		UnreadCount:      unread,
	}
	if it, err := s.shop.Active(ctx, sess, catalog.ItemTheme); err != nil {
		return err
	} else if it != nil {
		out.ActiveTheme = it.ID
	}
	if it, err := s.shop.Active(ctx, sess, catalog.ItemAvatar); err != nil {
		return err
	} else if it != nil {
		out.ActiveAvatar = it.ID
	}
	return ok(c, out)
}

func (s *Server) listTasks(c *fiber.Ctx) error {
	filter, valid := engine.ParseTaskFilter(c.Query("filter"))
	if !valid {
		return fiber.NewError(fiber.StatusBadRequest, "filter must be all, active or completed")
	}
	order, valid := engine.ParseTaskSort(c.Query("sort"))
	if !valid {
		return fiber.NewError(fiber.StatusBadRequest, "unknown sort order")
	}
	tasks, err := s.engine.ListTasks(c.UserContext(), sessionOf(c), filter, order)
	if err != nil {
		return err
	}
	return ok(c, tasks)
}

type createTaskRequest struct {
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Deadline    *time.Time `json:"deadline"`
	XPReward    int        `json:"xpReward"`
}

func (s *Server) createTask(c *fiber.Ctx) error {
	var req createTaskRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	t, err := s.engine.CreateTask(c.UserContext(), sessionOf(c), engine.CreateTaskInput{
		Title:       req.Title,
		Description: req.Description,
		Deadline:    req.Deadline,
		XPReward:    req.XPReward,
	})
	if err != nil {
		return err
	}
	return created(c, t)
}

func (s *Server) getTask(c *fiber.Ctx) error {
	t, err := s.engine.GetTask(c.UserContext(), sessionOf(c), c.Params("id"))
	if err != nil {
		return err
	}
	return ok(c, t)
}

type updateTaskRequest struct {
	Title         *string    `json:"title"`
	Description   *string    `json:"description"`
	Deadline      *time.Time `json:"deadline"`
	ClearDeadline bool       `json:"clearDeadline"`
	XPReward      *int       `json:"xpReward"`
}

func (s *Server) updateTask(c *fiber.Ctx) error {
	var req updateTaskRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	t, err := s.engine.UpdateTask(c.UserContext(), sessionOf(c), c.Params("id"), engine.TaskPatch{
		Title:         req.Title,
		Description:   req.Description,
		Deadline:      req.Deadline,
		ClearDeadline: req.ClearDeadline,
		XPReward:      req.XPReward,
	})
	if err != nil {
		return err
	}
	return ok(c, t)
}

func (s *Server) deleteTask(c *fiber.Ctx) error {
	if err := s.engine.DeleteTask(c.UserContext(), sessionOf(c), c.Params("id")); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (s *Server) completeTask(c *fiber.Ctx) error {
	res, err := s.engine.CompleteTask(c.UserContext(), sessionOf(c), c.Params("id"))
	if err != nil {
		return err
	}
	return ok(c, fiber.Map{
		"task":           res.Task,
		"xpGained":       res.XPGained,
		"tokensGained":   res.TokensGained,
		"levelBefore":    res.LevelBefore,
		"levelAfter":     res.LevelAfter,
		"levelUp":        res.LevelUp,
		"unlockedBadges": res.UnlockedBadges,
		"dailyCompleted": res.DailyCompleted,
	})
}

func (s *Server) dailyTasks(c *fiber.Ctx) error {
	ctx := c.UserContext()
	if _, err := s.engine.RefreshDailyTasks(ctx); err != nil {
		return err
	}
	tasks, err := s.engine.DailyTasks(ctx)
	if err != nil {
		return err
	}
	return ok(c, tasks)
}

func (s *Server) leaderboard(c *fiber.Ctx) error {
	ctx, sess := c.UserContext(), sessionOf(c)
	board, err := s.engine.Leaderboard(ctx)
	if err != nil {
		return err
	}
	rank, err := s.engine.UserRank(ctx, sess)
	if err != nil {
		return err
	}
	return ok(c, fiber.Map{"entries": board, "rank": rank})
}

func (s *Server) badges(c *fiber.Ctx) error {
	badges, err := s.engine.Badges(c.UserContext())
	if err != nil {
		return err
	}
	unlocked := 0
	for _, b := range badges {
		if b.Unlocked() {
			unlocked++
		}
	}
	return ok(c, fiber.Map{"badges": badges, "unlocked": unlocked, "total": len(badges)})
}

func (s *Server) notifications(c *fiber.Ctx) error {
	ctx := c.UserContext()
	ns, err := s.engine.Notifications(ctx)
	if err != nil {
		return err
	}
	unread, err := s.engine.UnreadCount(ctx)
	if err != nil {
		return err
	}
	return ok(c, fiber.Map{"items": ns, "unread": unread})
}

func (s *Server) markRead(c *fiber.Ctx) error {
	if err := s.engine.MarkRead(c.UserContext(), c.Params("id")); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (s *Server) markAllRead(c *fiber.Ctx) error {
	if err := s.engine.MarkAllRead(c.UserContext()); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (s *Server) storeItems(c *fiber.Ctx) error {
	items, err := s.shop.Items(c.UserContext(), sessionOf(c))
	if err != nil {
		return err
	}
	return ok(c, items)
}

func (s *Server) purchase(c *fiber.Ctx) error {
	p, err := s.shop.Purchase(c.UserContext(), sessionOf(c), c.Params("id"))
	if err != nil {
		return err
	}
	return created(c, p)
}

func (s *Server) activate(c *fiber.Ctx) error {
	toggled, err := s.shop.Activate(c.UserContext(), sessionOf(c), c.Params("id"))
	if err != nil {
		return err
	}
	if !toggled {
		return fiber.NewError(fiber.StatusNotFound, "You don't own this item.")
	}
	return ok(c, fiber.Map{"toggled": true})
}
