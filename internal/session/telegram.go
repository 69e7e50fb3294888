package session

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/jonboulle/clockwork"
)

// TelegramProvider verifies Telegram Mini App initData signed with the bot token.
type TelegramProvider struct {
	BotToken string
	// MaxAge bounds auth_date. Zero accepts any age.
	MaxAge time.Duration
	Clock  clockwork.Clock
}

type telegramUser struct {
	ID        int64  `json:"id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Username  string `json:"username"`
	PhotoURL  string `json:"photo_url"`
}

func (p TelegramProvider) Authenticate(_ context.Context, initData string) (*Profile, error) {
	if p.BotToken == "" {
		return nil, AuthError{Reason: "telegram bot token is not configured"}
	}
	vals, err := url.ParseQuery(initData)
	if err != nil {
		return nil, AuthError{Reason: "malformed init data", Err: err}
	}
	hash := vals.Get("hash")
	if hash == "" {
		return nil, AuthError{Reason: "init data is not signed"}
	}
	want := SignInitData(p.BotToken, vals)
	if !hmac.Equal([]byte(strings.ToLower(hash)), []byte(want)) {
		return nil, AuthError{Reason: "init data signature mismatch"}
	}

	authDate, err := strconv.ParseInt(vals.Get("auth_date"), 10, 64)
	if err != nil {
		return nil, AuthError{Reason: "missing auth_date", Err: err}
	}
	if p.MaxAge > 0 {
		clock := p.Clock
		if clock == nil {
			clock = clockwork.NewRealClock()
		}
		if clock.Since(time.Unix(authDate, 0)) > p.MaxAge {
			return nil, AuthError{Reason: "init data expired"}
		}
	}

	var tu telegramUser
	if err := json.Unmarshal([]byte(vals.Get("user")), &tu); err != nil {
		return nil, AuthError{Reason: "malformed user", Err: err}
	}
	if tu.ID == 0 {
		return nil, AuthError{Reason: "user has no id"}
	}
	id := strconv.FormatInt(tu.ID, 10)
	prof := &Profile{ID: id, Username: tu.Username, AvatarURL: tu.PhotoURL}
	if prof.Username == "" {
		prof.Username = strings.TrimSpace(tu.FirstName + tu.LastName)
	}
	if prof.Username == "" {
		prof.Username = "user" + id
	}
	if prof.AvatarURL == "" {
		prof.AvatarURL = defaultAvatar(id)
	}
	return prof, nil
}

// SignInitData computes the hex HMAC Telegram expects in the hash field:
// the sorted key=value lines (hash excluded) keyed by
// HMAC-SHA256("WebAppData", botToken).
func SignInitData(botToken string, vals url.Values) string {
	keys := make([]string, 0, len(vals))
	for k := range vals {
		if k == "hash" {
			continue
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)
	lines := make([]string, 0, len(keys))
	for _, k := range keys {
		lines = append(lines, k+"="+vals.Get(k))
	}

	secret := hmac.New(sha256.New, []byte("WebAppData"))
	secret.Write([]byte(botToken))
	mac := hmac.New(sha256.New, secret.Sum(nil))
	mac.Write([]byte(strings.Join(lines, "\n")))
	return hex.EncodeToString(mac.Sum(nil))
}
