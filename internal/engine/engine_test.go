package engine

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/m4l0n6/task-quest-gamify/internal/catalog"
	"github.com/m4l0n6/task-quest-gamify/internal/storage"
)

var testStart = time.Date(2024, 3, 10, 9, 0, 0, 0, time.UTC)

type testEnv struct {
	svc   *Service
	sess  *Session
	clock *clockwork.FakeClock
}

func newTestService(t *testing.T) *testEnv {
	t.Helper()
	ctx := context.Background()

	kv, err := storage.Open(ctx, filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { _ = kv.Close() })

	clock := clockwork.NewFakeClockAt(testStart)
	svc := NewService(kv, WithClock(clock), WithLocation(time.UTC))
	if _, err := svc.EnsureBadgeCatalog(ctx); err != nil {
		t.Fatalf("seed badges: %v", err)
	}
	u := &storage.User{ID: "u1", Username: "ann", Level: 1, CreatedAt: testStart}
	if err := svc.UserRepo().Save(ctx, u); err != nil {
		t.Fatalf("save user: %v", err)
	}
	return &testEnv{svc: svc, sess: &Session{UserID: u.ID, StartedAt: testStart}, clock: clock}
}

func (e *testEnv) user(t *testing.T) *storage.User {
	t.Helper()
	u, err := e.svc.CurrentUser(context.Background(), e.sess)
	if err != nil {
		t.Fatalf("current user: %v", err)
	}
	return u
}

func (e *testEnv) setXP(t *testing.T, xp int) {
	t.Helper()
	u := e.user(t)
	u.XP = xp
	u.Level = Level(xp)
	if err := e.svc.UserRepo().Save(context.Background(), u); err != nil {
		t.Fatalf("save user: %v", err)
	}
}

func (e *testEnv) addTask(t *testing.T, title string, xp int) *storage.Task {
	t.Helper()
	task, err := e.svc.CreateTask(context.Background(), e.sess, CreateTaskInput{Title: title, XPReward: xp})
	if err != nil {
		t.Fatalf("create task: %v", err)
	}
	return task
}

func (e *testEnv) countNotifications(t *testing.T, typ NotificationType) int {
	t.Helper()
	ns, err := e.svc.Notifications(context.Background())
	if err != nil {
		t.Fatalf("notifications: %v", err)
	}
	n := 0
	for _, x := range ns {
		if x.Type == string(typ) {
			n++
		}
	}
	return n
}

func (e *testEnv) badgeUnlocked(t *testing.T, name string) bool {
	t.Helper()
	badges, err := e.svc.Badges(context.Background())
	if err != nil {
		t.Fatalf("badges: %v", err)
	}
	for _, b := range badges {
		if b.Name == name {
			return b.Unlocked()
		}
	}
	t.Fatalf("badge %q not in catalog", name)
	return false
}

func TestLevelBoundaries(t *testing.T) {
	cases := []struct{ xp, want int }{
		{0, 1}, {99, 1}, {100, 2}, {250, 3}, {4899, 49}, {4900, 50}, {4999, 50}, {100000, 50},
	}
	for _, c := range cases {
		if got := Level(c.xp); got != c.want {
			t.Fatalf("Level(%d)=%d, want %d", c.xp, got, c.want)
		}
	}
	if got := XPForNextLevel(3); got != 300 {
		t.Fatalf("XPForNextLevel(3)=%d, want 300", got)
	}
	if got := XPProgress(150, 2); got != 50 {
		t.Fatalf("XPProgress(150,2)=%d, want 50", got)
	}
	if got := XPProgress(9000, MaxLevel); got != 100 {
		t.Fatalf("XPProgress at max=%d, want 100", got)
	}
}

func TestTokenFormulas(t *testing.T) {
	cases := map[int]int{1: 1, 5: 1, 6: 2, 15: 3, 50: 10, 100: 20}
	for xp, want := range cases {
		if got := TokenRewardFor(xp); got != want {
			t.Fatalf("TokenRewardFor(%d)=%d, want %d", xp, got, want)
		}
	}
	logins := map[int]int{1: 5, 2: 6, 3: 7, 6: 10, 11: 15}
	for streak, want := range logins {
		if got := LoginReward(streak); got != want {
			t.Fatalf("LoginReward(%d)=%d, want %d", streak, got, want)
		}
	}
}

func TestCompleteTaskAwardsOnce(t *testing.T) {
	env := newTestService(t)
	ctx := context.Background()

	task := env.addTask(t, "Write report", 100)
	res, err := env.svc.CompleteTask(ctx, env.sess, task.ID)
	if err != nil {
		t.Fatalf("complete: %v", err)
	}
	if res.XPGained != 100 || res.TokensGained != 20 {
		t.Fatalf("gained xp=%d tokens=%d, want 100/20", res.XPGained, res.TokensGained)
	}
	if !res.LevelUp || res.LevelAfter != 2 {
		t.Fatalf("level up=%v after=%d, want true/2", res.LevelUp, res.LevelAfter)
	}
	if !env.badgeUnlocked(t, "First Task") {
		t.Fatalf("First Task badge not unlocked")
	}

	u := env.user(t)
	if u.XP != 100 || u.Tokens != 20 || u.CompletedTasks != 1 {
		t.Fatalf("user xp=%d tokens=%d done=%d, want 100/20/1", u.XP, u.Tokens, u.CompletedTasks)
	}

	_, err = env.svc.CompleteTask(ctx, env.sess, task.ID)
	if !errors.Is(err, ErrAlreadyCompleted) {
		t.Fatalf("second complete err=%v, want ErrAlreadyCompleted", err)
	}
	u = env.user(t)
	if u.XP != 100 || u.Tokens != 20 || u.CompletedTasks != 1 {
		t.Fatalf("second complete mutated user: xp=%d tokens=%d done=%d", u.XP, u.Tokens, u.CompletedTasks)
	}
	if got := env.countNotifications(t, NotifyLevelUp); got != 1 {
		t.Fatalf("levelUp notifications=%d, want 1", got)
	}
}

func TestCompleteTaskNotFound(t *testing.T) {
	env := newTestService(t)
	ctx := context.Background()

	if _, err := env.svc.CompleteTask(ctx, env.sess, "missing"); !IsNotFound(err) {
		t.Fatalf("err=%v, want NotFound", err)
	}
	if _, err := env.svc.CompleteTask(ctx, nil, "missing"); !IsNotFound(err) {
		t.Fatalf("nil session err=%v, want NotFound", err)
	}
	if _, err := env.svc.AddXP(ctx, &Session{UserID: "someone-else"}, 10); !IsNotFound(err) {
		t.Fatalf("foreign session err=%v, want NotFound", err)
	}
}

func TestLevelBadgeThresholds(t *testing.T) {
	env := newTestService(t)
	ctx := context.Background()

	env.setXP(t, 390)
	res, err := env.svc.AddXP(ctx, env.sess, 10)
	if err != nil {
		t.Fatalf("add xp: %v", err)
	}
	if res.LevelAfter != 5 || len(res.Badges) != 1 || res.Badges[0].Name != "Apprentice" {
		t.Fatalf("level=%d badges=%v, want 5 and Apprentice", res.LevelAfter, res.Badges)
	}

	res, err = env.svc.AddXP(ctx, env.sess, 100)
	if err != nil {
		t.Fatalf("add xp: %v", err)
	}
	if len(res.Badges) != 0 {
		t.Fatalf("badges=%v, want none at level 6", res.Badges)
	}

	// Skipping past several thresholds unlocks each of them.
	res, err = env.svc.AddXP(ctx, env.sess, 2000)
	if err != nil {
		t.Fatalf("add xp: %v", err)
	}
	if res.LevelAfter != 26 {
		t.Fatalf("level=%d, want 26", res.LevelAfter)
	}
	if !env.badgeUnlocked(t, "Expert") || !env.badgeUnlocked(t, "Master") {
		t.Fatalf("Expert/Master not unlocked at level 26")
	}
	if env.badgeUnlocked(t, "Grandmaster") {
		t.Fatalf("Grandmaster unlocked early")
	}
	if got := env.countNotifications(t, NotifyBadge); got != 3 {
		t.Fatalf("badge notifications=%d, want 3", got)
	}
}

func TestAddXPRejectsNonPositive(t *testing.T) {
	env := newTestService(t)
	if _, err := env.svc.AddXP(context.Background(), env.sess, 0); !IsInvalidState(err) {
		t.Fatalf("err=%v, want InvalidState", err)
	}
}

func TestAddTokensRefusesOverdraw(t *testing.T) {
	env := newTestService(t)
	ctx := context.Background()
	if _, err := env.svc.AddTokens(ctx, env.sess, 10); err != nil {
		t.Fatalf("add tokens: %v", err)
	}
	if _, err := env.svc.AddTokens(ctx, env.sess, -11); !IsInsufficientFunds(err) {
		t.Fatalf("err=%v, want InsufficientFunds", err)
	}
	bal, err := env.svc.AddTokens(ctx, env.sess, -4)
	if err != nil || bal != 6 {
		t.Fatalf("balance=%d err=%v, want 6", bal, err)
	}
}

func TestDailyLoginStreak(t *testing.T) {
	env := newTestService(t)
	ctx := context.Background()

	// Late evening so the next check crosses midnight in well under 24h.
	env.clock.Advance(14*time.Hour + 30*time.Minute) // 23:30

	res, err := env.svc.ProcessDailyLogin(ctx, env.sess)
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if !res.FirstLoginToday || res.Streak != 1 || res.TokensAwarded != 5 {
		t.Fatalf("day1 = %+v, want first/1/5", res)
	}

	res, err = env.svc.ProcessDailyLogin(ctx, env.sess)
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if res.FirstLoginToday || res.TokensAwarded != 0 || res.Streak != 1 {
		t.Fatalf("repeat = %+v, want no-op with streak 1", res)
	}

	env.clock.Advance(time.Hour) // 00:30 next day
	res, err = env.svc.ProcessDailyLogin(ctx, env.sess)
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if res.Streak != 2 || res.TokensAwarded != 6 {
		t.Fatalf("day2 = %+v, want streak 2 / 6 tokens", res)
	}
	if got := env.countNotifications(t, NotifyStreak); got != 1 {
		t.Fatalf("streak notifications=%d, want 1", got)
	}

	env.clock.Advance(48 * time.Hour) // skipped a day
	res, err = env.svc.ProcessDailyLogin(ctx, env.sess)
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if res.Streak != 1 || res.TokensAwarded != 5 {
		t.Fatalf("after gap = %+v, want reset to 1", res)
	}

	if got := env.user(t).Tokens; got != 16 {
		t.Fatalf("tokens=%d, want 16", got)
	}
}

func TestDailyTaskRegeneration(t *testing.T) {
	env := newTestService(t)
	ctx := context.Background()

	refreshed, err := env.svc.RefreshDailyTasks(ctx)
	if err != nil || !refreshed {
		t.Fatalf("refresh=%v err=%v, want true", refreshed, err)
	}
	tasks, _ := env.svc.DailyTasks(ctx)
	if len(tasks) != 3 {
		t.Fatalf("daily tasks=%d, want 3", len(tasks))
	}
	want := map[string][2]int{
		string(DailyLogin):        {1, 5},
		string(DailyCompleteTask): {2, 10},
		string(DailyReachStreak):  {3, 15},
	}
	nextMidnight := time.Date(2024, 3, 11, 0, 0, 0, 0, time.UTC)
	for _, d := range tasks {
		w, ok := want[d.Type]
		if !ok || d.Requirement != w[0] || d.TokenReward != w[1] {
			t.Fatalf("daily %s req=%d reward=%d, unexpected", d.Type, d.Requirement, d.TokenReward)
		}
		exp := nextMidnight
		if d.Type == string(DailyReachStreak) {
			exp = nextMidnight.AddDate(0, 0, 3)
		}
		if !d.ExpiresAt.Equal(exp) {
			t.Fatalf("daily %s expires %v, want %v", d.Type, d.ExpiresAt, exp)
		}
	}

	refreshed, err = env.svc.RefreshDailyTasks(ctx)
	if err != nil || refreshed {
		t.Fatalf("second refresh=%v err=%v, want false", refreshed, err)
	}

	// The streak task still runs, so the set stays.
	env.clock.Advance(24 * time.Hour)
	if refreshed, _ = env.svc.RefreshDailyTasks(ctx); refreshed {
		t.Fatalf("refreshed while streak challenge open")
	}

	env.clock.Advance(5 * 24 * time.Hour)
	if refreshed, _ = env.svc.RefreshDailyTasks(ctx); !refreshed {
		t.Fatalf("not refreshed after everything expired")
	}
	fresh, _ := env.svc.DailyTasks(ctx)
	for _, f := range fresh {
		for _, old := range tasks {
			if f.ID == old.ID {
				t.Fatalf("expired daily task %s survived regeneration", old.ID)
			}
		}
	}
}

func TestDailyProgressPaysOnce(t *testing.T) {
	env := newTestService(t)
	ctx := context.Background()
	if _, err := env.svc.RefreshDailyTasks(ctx); err != nil {
		t.Fatalf("refresh: %v", err)
	}

	var paid int
	for i := 0; i < 3; i++ {
		task := env.addTask(t, "chore", 10)
		res, err := env.svc.CompleteTask(ctx, env.sess, task.ID)
		if err != nil {
			t.Fatalf("complete: %v", err)
		}
		paid += len(res.DailyCompleted)
	}
	if paid != 1 {
		t.Fatalf("daily completions=%d, want 1", paid)
	}
	// 3 tasks * 2 tokens + 10 for the challenge.
	if got := env.user(t).Tokens; got != 16 {
		t.Fatalf("tokens=%d, want 16", got)
	}
	tasks, _ := env.svc.DailyTasks(ctx)
	for _, d := range tasks {
		if d.Type == string(DailyCompleteTask) && (d.Progress != 2 || !d.Completed || d.CompletedAt == nil) {
			t.Fatalf("complete_task daily = %+v, want progress 2 completed", d)
		}
	}
}

func TestDailyProgressNeedsCurrentUser(t *testing.T) {
	env := newTestService(t)
	ctx := context.Background()
	if _, err := env.svc.RefreshDailyTasks(ctx); err != nil {
		t.Fatalf("refresh: %v", err)
	}

	for _, sess := range []*Session{nil, {UserID: "someone-else"}} {
		if _, err := env.svc.UpdateDailyTaskProgress(ctx, sess, DailyCompleteTask, 5); !IsNotFound(err) {
			t.Fatalf("session %+v: err=%v, want NotFound", sess, err)
		}
	}
	tasks, err := env.svc.DailyTasks(ctx)
	if err != nil {
		t.Fatalf("daily tasks: %v", err)
	}
	for _, d := range tasks {
		if d.Progress != 0 || d.Completed {
			t.Fatalf("daily %s = %+v, want untouched", d.Type, d)
		}
	}
	if got := env.user(t).Tokens; got != 0 {
		t.Fatalf("tokens=%d, want 0", got)
	}
}

func TestReachStreakIsAbsolute(t *testing.T) {
	env := newTestService(t)
	ctx := context.Background()
	if _, err := env.svc.RefreshDailyTasks(ctx); err != nil {
		t.Fatalf("refresh: %v", err)
	}
	streakProgress := func() int {
		tasks, _ := env.svc.DailyTasks(ctx)
		for _, d := range tasks {
			if d.Type == string(DailyReachStreak) {
				return d.Progress
			}
		}
		return -1
	}

	if _, err := env.svc.UpdateDailyTaskProgress(ctx, env.sess, DailyReachStreak, 2); err != nil {
		t.Fatalf("update: %v", err)
	}
	if got := streakProgress(); got != 2 {
		t.Fatalf("progress=%d, want 2", got)
	}
	if _, err := env.svc.UpdateDailyTaskProgress(ctx, env.sess, DailyReachStreak, 1); err != nil {
		t.Fatalf("update: %v", err)
	}
	if got := streakProgress(); got != 2 {
		t.Fatalf("progress=%d after lower value, want 2", got)
	}
	done, err := env.svc.UpdateDailyTaskProgress(ctx, env.sess, DailyReachStreak, 7)
	if err != nil || len(done) != 1 {
		t.Fatalf("done=%v err=%v, want one completion", done, err)
	}
	if got := streakProgress(); got != 3 {
		t.Fatalf("progress=%d, want clamped 3", got)
	}
	if got := env.user(t).Tokens; got != 15 {
		t.Fatalf("tokens=%d, want 15", got)
	}
}

func TestLoginCreditsLoginChallenge(t *testing.T) {
	env := newTestService(t)
	ctx := context.Background()
	if _, err := env.svc.RefreshDailyTasks(ctx); err != nil {
		t.Fatalf("refresh: %v", err)
	}
	if _, err := env.svc.ProcessDailyLogin(ctx, env.sess); err != nil {
		t.Fatalf("login: %v", err)
	}
	if got := env.user(t).Tokens; got != 10 {
		t.Fatalf("tokens=%d, want 5 login + 5 challenge", got)
	}
}

func TestGenerateLeaderboardStable(t *testing.T) {
	users := []storage.User{
		{ID: "a", XP: 100},
		{ID: "b", XP: 300},
		{ID: "c", XP: 100},
		{ID: "d", XP: 0},
	}
	board := GenerateLeaderboard(users)
	order := ""
	for i, e := range board {
		order += e.UserID
		if e.Rank != i+1 {
			t.Fatalf("rank[%d]=%d, want %d", i, e.Rank, i+1)
		}
	}
	if order != "bacd" {
		t.Fatalf("order=%s, want bacd", order)
	}
	if users[0].ID != "a" {
		t.Fatalf("input slice was reordered")
	}
}

func TestLeaderboardClimbNotifies(t *testing.T) {
	env := newTestService(t)
	ctx := context.Background()

	dir, _ := env.svc.UserRepo().Directory(ctx)
	dir = append(dir, storage.User{ID: "rival", Username: "bob", XP: 50, Level: 1})
	if err := env.svc.UserRepo().SaveDirectory(ctx, dir); err != nil {
		t.Fatalf("save directory: %v", err)
	}
	if rank, _ := env.svc.UserRank(ctx, env.sess); rank != 2 {
		t.Fatalf("rank=%d, want 2", rank)
	}

	res, err := env.svc.AddXP(ctx, env.sess, 60)
	if err != nil {
		t.Fatalf("add xp: %v", err)
	}
	if res.RankBefore != 2 || res.RankAfter != 1 {
		t.Fatalf("rank %d -> %d, want 2 -> 1", res.RankBefore, res.RankAfter)
	}
	if got := env.countNotifications(t, NotifyLeaderboard); got != 1 {
		t.Fatalf("leaderboard notifications=%d, want 1", got)
	}

	if _, err := env.svc.AddXP(ctx, env.sess, 10); err != nil {
		t.Fatalf("add xp: %v", err)
	}
	if got := env.countNotifications(t, NotifyLeaderboard); got != 1 {
		t.Fatalf("leaderboard notifications=%d after staying first, want 1", got)
	}
}

func TestCreateTaskCapAndClamp(t *testing.T) {
	env := newTestService(t)
	ctx := context.Background()

	big := env.addTask(t, "big", 500)
	if big.XPReward != 100 || big.TokenReward != 20 {
		t.Fatalf("xp=%d tokens=%d, want 100/20", big.XPReward, big.TokenReward)
	}
	tiny := env.addTask(t, "tiny", 0)
	if tiny.XPReward != 1 || tiny.TokenReward != 1 {
		t.Fatalf("xp=%d tokens=%d, want 1/1", tiny.XPReward, tiny.TokenReward)
	}
	if _, err := env.svc.CreateTask(ctx, env.sess, CreateTaskInput{Title: "   "}); !IsInvalidState(err) {
		t.Fatalf("blank title err=%v, want InvalidState", err)
	}

	for i := 0; i < MaxTasksPerDay-2; i++ {
		env.addTask(t, "filler", 10)
	}
	if _, err := env.svc.CreateTask(ctx, env.sess, CreateTaskInput{Title: "one too many"}); !errors.Is(err, ErrDailyCap) {
		t.Fatalf("err=%v, want ErrDailyCap", err)
	}

	env.clock.Advance(24 * time.Hour)
	env.addTask(t, "tomorrow", 10)
}

func TestDeletingDoesNotReopenDailyCap(t *testing.T) {
	env := newTestService(t)
	ctx := context.Background()

	var last *storage.Task
	for i := 0; i < MaxTasksPerDay; i++ {
		last = env.addTask(t, "filler", 10)
	}
	if err := env.svc.DeleteTask(ctx, env.sess, last.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := env.svc.CreateTask(ctx, env.sess, CreateTaskInput{Title: "sneaky"}); !errors.Is(err, ErrDailyCap) {
		t.Fatalf("err=%v after delete, want ErrDailyCap", err)
	}
	if got, _ := env.svc.TodayTaskCount(ctx, env.sess); got != MaxTasksPerDay {
		t.Fatalf("today=%d, want %d", got, MaxTasksPerDay)
	}

	env.clock.Advance(24 * time.Hour)
	env.addTask(t, "tomorrow", 10)
	if got, _ := env.svc.TodayTaskCount(ctx, env.sess); got != 1 {
		t.Fatalf("today=%d on the next day, want 1", got)
	}
}

func TestCompletedTaskIsImmutable(t *testing.T) {
	env := newTestService(t)
	ctx := context.Background()

	task := env.addTask(t, "draft", 10)
	title := "final"
	xp := 15
	updated, err := env.svc.UpdateTask(ctx, env.sess, task.ID, TaskPatch{Title: &title, XPReward: &xp})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Title != "final" || updated.TokenReward != 3 {
		t.Fatalf("updated=%+v, want title final and 3 tokens", updated)
	}

	if _, err := env.svc.CompleteTask(ctx, env.sess, task.ID); err != nil {
		t.Fatalf("complete: %v", err)
	}
	if _, err := env.svc.UpdateTask(ctx, env.sess, task.ID, TaskPatch{Title: &title}); !errors.Is(err, ErrCompletedImmutable) {
		t.Fatalf("update err=%v, want ErrCompletedImmutable", err)
	}
	if err := env.svc.DeleteTask(ctx, env.sess, task.ID); !errors.Is(err, ErrCompletedImmutable) {
		t.Fatalf("delete err=%v, want ErrCompletedImmutable", err)
	}

	open := env.addTask(t, "scrap", 10)
	if err := env.svc.DeleteTask(ctx, env.sess, open.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := env.svc.DeleteTask(ctx, env.sess, open.ID); !IsNotFound(err) {
		t.Fatalf("second delete err=%v, want NotFound", err)
	}
}

func TestSweepDeadlinesRemindsOnce(t *testing.T) {
	env := newTestService(t)
	ctx := context.Background()

	soon := testStart.Add(3 * time.Hour)
	later := testStart.Add(72 * time.Hour)
	if _, err := env.svc.CreateTask(ctx, env.sess, CreateTaskInput{Title: "soon", Deadline: &soon, XPReward: 10}); err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := env.svc.CreateTask(ctx, env.sess, CreateTaskInput{Title: "later", Deadline: &later, XPReward: 10}); err != nil {
		t.Fatalf("create: %v", err)
	}

	due, err := env.svc.SweepDeadlines(ctx, env.sess)
	if err != nil || len(due) != 1 || due[0].Title != "soon" {
		t.Fatalf("due=%v err=%v, want just soon", due, err)
	}
	due, _ = env.svc.SweepDeadlines(ctx, env.sess)
	if len(due) != 0 {
		t.Fatalf("second sweep due=%v, want none", due)
	}

	env.clock.Advance(50 * time.Hour)
	due, _ = env.svc.SweepDeadlines(ctx, env.sess)
	if len(due) != 1 || due[0].Title != "later" {
		t.Fatalf("due=%v, want later", due)
	}
	if got := env.countNotifications(t, NotifyDeadline); got != 2 {
		t.Fatalf("deadline notifications=%d, want 2", got)
	}
}

func TestListTasksFilterAndSort(t *testing.T) {
	env := newTestService(t)
	ctx := context.Background()

	a := env.addTask(t, "a", 30)
	env.clock.Advance(time.Minute)
	env.addTask(t, "b", 80)
	env.clock.Advance(time.Minute)
	env.addTask(t, "c", 5)
	if _, err := env.svc.CompleteTask(ctx, env.sess, a.ID); err != nil {
		t.Fatalf("complete: %v", err)
	}

	titles := func(ts []storage.Task) string {
		s := ""
		for _, x := range ts {
			s += x.Title
		}
		return s
	}
	cases := []struct {
		filter TaskFilter
		order  TaskSort
		want   string
	}{
		{FilterAll, SortNewest, "cba"},
		{FilterAll, SortOldest, "abc"},
		{FilterActive, SortXPHigh, "bc"},
		{FilterCompleted, SortXPLow, "a"},
		{FilterAll, SortXPLow, "cab"},
	}
	for _, c := range cases {
		got, err := env.svc.ListTasks(ctx, env.sess, c.filter, c.order)
		if err != nil {
			t.Fatalf("list: %v", err)
		}
		if titles(got) != c.want {
			t.Fatalf("list(%s,%s)=%s, want %s", c.filter, c.order, titles(got), c.want)
		}
	}
}

func TestSortByDeadlineNilLast(t *testing.T) {
	d1 := testStart.Add(time.Hour)
	d2 := testStart.Add(2 * time.Hour)
	tasks := []storage.Task{{Title: "x"}, {Title: "late", Deadline: &d2}, {Title: "early", Deadline: &d1}}
	SortTasks(tasks, SortDeadline)
	if tasks[0].Title != "early" || tasks[1].Title != "late" || tasks[2].Title != "x" {
		t.Fatalf("order=%s,%s,%s", tasks[0].Title, tasks[1].Title, tasks[2].Title)
	}
}

func TestEligibleBadges(t *testing.T) {
	badges := catalog.DefaultBadges()
	got := EligibleBadges(catalog.TaskThresholds(), 10, badges)
	if len(got) != 2 || got[0] != "first-task" || got[1] != "taskmaster" {
		t.Fatalf("eligible=%v, want first-task, taskmaster", got)
	}
	now := testStart
	badges[0].UnlockedAt = &now
	got = EligibleBadges(catalog.TaskThresholds(), 10, badges)
	if len(got) != 1 || got[0] != "taskmaster" {
		t.Fatalf("eligible=%v, want taskmaster only", got)
	}
}

func TestMarkRead(t *testing.T) {
	env := newTestService(t)
	ctx := context.Background()
	if _, err := env.svc.AddTokens(ctx, env.sess, 3); err != nil {
		t.Fatalf("add tokens: %v", err)
	}
	if n, _ := env.svc.UnreadCount(ctx); n != 1 {
		t.Fatalf("unread=%d, want 1", n)
	}
	ns, _ := env.svc.Notifications(ctx)
	if err := env.svc.MarkRead(ctx, ns[0].ID); err != nil {
		t.Fatalf("mark read: %v", err)
	}
	if n, _ := env.svc.UnreadCount(ctx); n != 0 {
		t.Fatalf("unread=%d, want 0", n)
	}
	if err := env.svc.MarkRead(ctx, "nope"); !IsNotFound(err) {
		t.Fatalf("err=%v, want NotFound", err)
	}
}
