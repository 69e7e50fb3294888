package engine

const (
	XPPerLevel = 100
	MaxLevel   = 50

	// TaskTokenPercent is the share of a task's XP paid out as tokens.
	TaskTokenPercent = 20

	LoginTokenReward = 5
	// StreakBonusPercent of LoginTokenReward is added per streak day past the first.
	StreakBonusPercent = 20
)

// Level returns the level for a total XP amount, capped at MaxLevel.
func Level(xp int) int {
	if xp < 0 {
		xp = 0
	}
	lvl := xp/XPPerLevel + 1
	if lvl > MaxLevel {
		return MaxLevel
	}
	return lvl
}

// XPForNextLevel is the total XP at which level+1 starts.
func XPForNextLevel(level int) int {
	return level * XPPerLevel
}

// XPProgress is the percentage (0..100) through the current level band.
// At MaxLevel the bar is full.
func XPProgress(xp, level int) int {
	if level >= MaxLevel {
		return 100
	}
	into := xp - (level-1)*XPPerLevel
	if into < 0 {
		return 0
	}
	pct := into * 100 / XPPerLevel
	if pct > 100 {
		return 100
	}
	return pct
}

// TokenRewardFor is the token payout for a task worth xp: ceil(xp * 20%),
// computed in integers so 15 xp pays 3 tokens, not 4.
func TokenRewardFor(xp int) int {
	if xp <= 0 {
		return 0
	}
	return (xp*TaskTokenPercent + 99) / 100
}

// LoginReward is the token award for a daily login on the given streak day.
func LoginReward(streak int) int {
	if streak < 1 {
		streak = 1
	}
	return LoginTokenReward + LoginTokenReward*StreakBonusPercent*(streak-1)/100
}
