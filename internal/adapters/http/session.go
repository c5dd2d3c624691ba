package http

import (
	"fmt"

	"github.com/gorilla/sessions"
	"github.com/labstack/echo-contrib/session"
	"github.com/labstack/echo/v4"
)

/// SessionName is the cookie holding the per-browser session: a boolean
// logged_in flag plus the one-shot flash queue.
const SessionName = "tasklist_session"

const loggedInKey = "logged_in"

func getSession(c echo.Context) (*sessions.Session, error) {
	sess, err := session.Get(SessionName, c)
	if err != nil {
		return nil, fmt.Errorf("get session: %w", err)
	}
	return sess, nil
}

// IsAuthenticated reports whether the session carries a true logged_in flag.
func IsAuthenticated(c echo.Context) bool {
	sess, err := getSession(c)
	if err != nil {
		return false
	}
	logged, ok := sess.Values[loggedInKey].(bool)
	return ok && logged
}

// AddFlash enqueues a one-shot message for the next rendered page.
func AddFlash(c echo.Context, message string) error {
	sess, err := getSession(c)
	if err != nil {
		return err
	}
	sess.AddFlash(message)
	return sess.Save(c.Request(), c.Response())
}

// ConsumeFlashes drains the flash queue. Saving the session is what clears
// the queue, so the messages display exactly once. The drained messages are
// returned even when the save fails; they have already left the queue and
// dropping them would lose them entirely.
func ConsumeFlashes(c echo.Context) ([]string, error) {
	sess, err := getSession(c)
	if err != nil {
		return nil, err
	}

	raw := sess.Flashes()
	messages := make([]string, 0, len(raw))
	for _, f := range raw {
		if msg, ok := f.(string); ok {
			messages = append(messages, msg)
		}
	}

	if err := sess.Save(c.Request(), c.Response()); err != nil {
		return messages, fmt.Errorf("save session: %w", err)
	}
	return messages, nil
}
