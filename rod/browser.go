package rod

import (
	"fmt"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
)

// session is one launched Chrome process and its CDP connection.
type session struct {
	browser  *rod.Browser
	launcher *launcher.Launcher
	pages    int
}

func launch(headless bool) (*session, error) {
	l := launcher.New().
		Set("disable-background-timer-throttling").
		Set("disable-renderer-backgrounding").
		Set("disable-dev-shm-usage").
		Leakless(true).
		Headless(headless)

	u, err := l.Launch()
	if err != nil {
		return nil, fmt.Errorf("launching browser: %w", err)
	}

	browser := rod.New().ControlURL(u)
	if err := browser.Connect(); err != nil {
		l.Kill()
		return nil, fmt.Errorf("connecting to browser: %w", err)
	}
	return &session{browser: browser, launcher: l}, nil
}

func (s *session) close() error {
	err := s.browser.Close()
	s.launcher.Kill()
	return err
}

func (s *session) pid() int {
	return s.launcher.PID()
}
