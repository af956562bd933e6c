package whoosh

import (
	"github.com/playwright-community/playwright-go"
	"github.com/rs/zerolog"
)

const challengeFrameSelector = `iframe[src*="recaptcha/api2/anchor"]`

// challengeControlSelectors are candidate controls inside the challenge
// frame, in order of preference. The markup is not contractually stable.
var challengeControlSelectors = []string{
	"#recaptcha-anchor",
	".recaptcha-checkbox-border",
	".recaptcha-checkbox-checkmark",
	"div.recaptcha-checkbox",
}

const (
	challengeClickTimeout = 3000.0
	challengeSettleMillis = 5000.0
)

// challengeStrategy is one way of interacting with the bot-check. attempt
// reports whether the interaction was confirmed; an error means the strategy
// could not complete and the next one should be tried.
type challengeStrategy interface {
	name() string
	attempt() (bool, error)
}

// runLadder tries each strategy in order until one confirms. Exhausting the
// ladder is not fatal; some sessions never require interactive confirmation.
func runLadder(lg zerolog.Logger, strategies []challengeStrategy) bool {
	for _, s := range strategies {
		ok, err := s.attempt()
		if err != nil {
			lg.Debug().Err(err).Str("strategy", s.name()).Msg("challenge attempt failed")
			continue
		}
		if ok {
			lg.Info().Str("strategy", s.name()).Msg("challenge interaction confirmed")
			return true
		}
	}
	return false
}

func pageStrategies(page playwright.Page) []challengeStrategy {
	return []challengeStrategy{
		&frameControlStrategy{page: page},
		&frameClickStrategy{page: page},
		&centerClickStrategy{page: page},
	}
}

// frameControlStrategy clicks one of the candidate controls inside the
// embedded challenge frame.
type frameControlStrategy struct {
	page playwright.Page
}

func (s *frameControlStrategy) name() string { return "frame-control" }

func (s *frameControlStrategy) attempt() (bool, error) {
	frame := s.page.FrameLocator(challengeFrameSelector).First()
	for _, sel := range challengeControlSelectors {
		err := frame.Locator(sel).First().Click(playwright.LocatorClickOptions{
			Timeout: playwright.Float(challengeClickTimeout),
			Force:   playwright.Bool(true),
		})
		if err == nil {
			s.page.WaitForTimeout(challengeSettleMillis)
			return true, nil
		}
	}
	return false, nil
}

// frameClickStrategy clicks the frame element itself as a whole.
type frameClickStrategy struct {
	page playwright.Page
}

func (s *frameClickStrategy) name() string { return "frame-click" }

func (s *frameClickStrategy) attempt() (bool, error) {
	err := s.page.Locator(challengeFrameSelector).First().Click(playwright.LocatorClickOptions{
		Timeout: playwright.Float(challengeClickTimeout),
		Force:   playwright.Bool(true),
	})
	if err != nil {
		return false, err
	}
	s.page.WaitForTimeout(challengeSettleMillis)
	return true, nil
}

// centerClickStrategy issues a raw coordinate click at the center of the
// frame's bounding box.
type centerClickStrategy struct {
	page playwright.Page
}

func (s *centerClickStrategy) name() string { return "center-click" }

func (s *centerClickStrategy) attempt() (bool, error) {
	box, err := s.page.Locator(challengeFrameSelector).First().BoundingBox()
	if err != nil {
		return false, err
	}
	if box == nil {
		return false, nil
	}
	x := box.X + box.Width/2
	y := box.Y + box.Height/2
	if err := s.page.Mouse().Click(x, y); err != nil {
		return false, err
	}
	s.page.WaitForTimeout(challengeSettleMillis)
	return true, nil
}
