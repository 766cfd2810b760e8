// Package dispatch routes inbound events to the crisis filter, the active
// session, command handlers, settings, report windows, or the fallback
// responder — an explicit ordered matcher list with first-match-wins
// semantics so the priority order stays auditable.
package dispatch

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"strings"
	"sync"
	"time"

	"github.com/svitlo-ai/svitlo/internal/crisis"
	"github.com/svitlo-ai/svitlo/internal/flow"
	"github.com/svitlo-ai/svitlo/internal/i18n"
	"github.com/svitlo-ai/svitlo/internal/messaging"
	"github.com/svitlo-ai/svitlo/internal/models"
	"github.com/svitlo-ai/svitlo/internal/report"
	"github.com/svitlo-ai/svitlo/internal/store"
)

// DefaultFallbackTimeout bounds one fallback responder call.
const DefaultFallbackTimeout = 15 * time.Second

// profileLookupTimeout bounds profile reads done off the dispatch loop
// (janitor notifications).
const profileLookupTimeout = 5 * time.Second

// Responder is the external chat-completion fallback.
type Responder interface {
	Respond(ctx context.Context, text string) (string, error)
}

// Settings mini-grammar and callback tokens: exact whole-message matches.
var (
	langRe     = regexp.MustCompile(`(?i)^lang\s+(en|uk)$`)
	countryRe  = regexp.MustCompile(`(?i)^country\s+(us|ua)$`)
	windowRe   = regexp.MustCompile(`^(7|30)$`)
	callbackRe = regexp.MustCompile(`^lang_(en|uk)$`)
)

// flowCommands maps entry commands to flow kinds.
var flowCommands = map[string]flow.Kind{
	"/daily":    flow.KindDaily,
	"/breath":   flow.KindBreathing,
	"/ground":   flow.KindGrounding,
	"/plan":     flow.KindPlan,
	"/triggers": flow.KindTriggers,
}

// Opts holds dispatcher configuration.
type Opts struct {
	DefaultLang     models.Lang
	DefaultCountry  models.Country
	Responder       Responder
	IdleTimeout     time.Duration
	FallbackTimeout time.Duration
}

// Option configures the dispatcher.
type Option func(*Opts)

// WithDefaults sets the language and country assigned on first contact.
func WithDefaults(lang models.Lang, country models.Country) Option {
	return func(o *Opts) {
		o.DefaultLang = lang
		o.DefaultCountry = country
	}
}

// WithResponder plugs in the fallback responder. Without one, unmatched
// messages get the localized command hint.
func WithResponder(r Responder) Option {
	return func(o *Opts) { o.Responder = r }
}

// WithIdleTimeout overrides the session idle timeout.
func WithIdleTimeout(d time.Duration) Option {
	return func(o *Opts) { o.IdleTimeout = d }
}

// WithFallbackTimeout overrides the fallback call timeout.
func WithFallbackTimeout(d time.Duration) Option {
	return func(o *Opts) { o.FallbackTimeout = d }
}

// matcher is one routing rule; match reports whether it claimed the event.
type matcher struct {
	name  string
	match func(ctx context.Context, user models.UserProfile, in models.Inbound) (bool, error)
}

// Dispatcher owns the per-user session table and routes every inbound event.
type Dispatcher struct {
	store           store.Store
	msg             messaging.Service
	sessions        *flow.SessionManager
	handlers        map[flow.Kind]flow.Handler
	responder       Responder
	defaultLang     models.Lang
	defaultCountry  models.Country
	fallbackTimeout time.Duration
	matchers        []matcher

	mu             sync.Mutex
	awaitingReport map[string]bool
}

// NewDispatcher wires the dispatcher with all five flow handlers.
func NewDispatcher(st store.Store, msg messaging.Service, opts ...Option) *Dispatcher {
	cfg := Opts{
		DefaultLang:     models.LangEN,
		DefaultCountry:  models.CountryUS,
		FallbackTimeout: DefaultFallbackTimeout,
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	d := &Dispatcher{
		store:           st,
		msg:             msg,
		sessions:        flow.NewSessionManager(cfg.IdleTimeout),
		responder:       cfg.Responder,
		defaultLang:     cfg.DefaultLang,
		defaultCountry:  cfg.DefaultCountry,
		fallbackTimeout: cfg.FallbackTimeout,
		awaitingReport:  make(map[string]bool),
	}
	d.handlers = map[flow.Kind]flow.Handler{
		flow.KindDaily:     flow.NewDailyFlow(st),
		flow.KindBreathing: flow.NewBreathingFlow(),
		flow.KindGrounding: flow.NewGroundingFlow(),
		flow.KindPlan:      flow.NewPlanFlow(st),
		flow.KindTriggers:  flow.NewTriggersFlow(st),
	}
	// Priority order: crisis before anything that could consume free text,
	// commands before the active session so flow entry and /cancel work
	// mid-flow, session before settings so flow steps can collect arbitrary
	// text, fallback last and unconditional.
	d.matchers = []matcher{
		{"callback", d.matchCallback},
		{"crisis", d.matchCrisis},
		{"command", d.matchCommand},
		{"session", d.matchSession},
		{"settings", d.matchSettings},
		{"report-window", d.matchReportWindow},
		{"fallback", d.matchFallback},
	}
	return d
}

// Run starts the session janitor and the inbound processing loop. Returns
// immediately; processing stops when ctx is canceled or the transport's
// response channel closes.
func (d *Dispatcher) Run(ctx context.Context) {
	d.sessions.StartJanitor(ctx, d.notifyExpired)
	go func() {
		slog.Info("Dispatcher processing started")
		defer slog.Info("Dispatcher processing stopped")
		for {
			select {
			case in, ok := <-d.msg.Responses():
				if !ok {
					return
				}
				if err := d.HandleInbound(ctx, in); err != nil {
					slog.Error("Dispatcher failed to handle inbound", "error", err, "userID", in.UserID)
				}
			case <-ctx.Done():
				return
			}
		}
	}()
}

// HandleInbound routes a single inbound event through the matcher list.
func (d *Dispatcher) HandleInbound(ctx context.Context, in models.Inbound) error {
	if in.UserID == "" {
		return models.ErrEmptyUserID
	}
	if strings.TrimSpace(in.Text) == "" && in.Callback == "" {
		slog.Debug("Dispatcher dropped empty event", "userID", in.UserID)
		return nil
	}

	defLang := d.defaultLang
	if hint := models.Lang(in.LangHint); models.IsValidLang(hint) {
		defLang = hint
	}
	user, err := d.store.GetOrCreateUser(ctx, in.UserID, defLang, d.defaultCountry)
	if err != nil {
		d.send(ctx, in.UserID, i18n.Text(d.defaultLang, i18n.KeyErrorGeneric))
		return fmt.Errorf("failed to load user profile: %w", err)
	}

	for _, m := range d.matchers {
		handled, err := m.match(ctx, user, in)
		if err != nil {
			slog.Error("Dispatcher matcher failed", "matcher", m.name, "error", err, "userID", user.UserID)
			d.send(ctx, user.UserID, i18n.Text(user.Lang, i18n.KeyErrorGeneric))
			return err
		}
		if handled {
			slog.Debug("Dispatcher event handled", "matcher", m.name, "userID", user.UserID)
			return nil
		}
	}
	return nil
}

// matchCallback handles inline button presses (language picker).
func (d *Dispatcher) matchCallback(ctx context.Context, user models.UserProfile, in models.Inbound) (bool, error) {
	if in.Callback == "" {
		return false, nil
	}
	if m := callbackRe.FindStringSubmatch(in.Callback); m != nil {
		lang := models.Lang(m[1])
		if err := d.store.SetUserLang(ctx, user.UserID, lang); err != nil {
			return true, fmt.Errorf("failed to set language: %w", err)
		}
		d.send(ctx, user.UserID, fmt.Sprintf("%s Language=%s", i18n.Text(lang, i18n.KeySaved), strings.ToUpper(string(lang))))
		return true, nil
	}
	// Unknown callbacks are acknowledged and dropped.
	d.send(ctx, user.UserID, i18n.Text(user.Lang, i18n.KeyOK))
	return true, nil
}

// matchCrisis gives the crisis filter first refusal on every free-text
// message: helpline reply, session terminated, nothing else sees the text.
func (d *Dispatcher) matchCrisis(ctx context.Context, user models.UserProfile, in models.Inbound) (bool, error) {
	if in.Text == "" {
		return false, nil
	}
	if crisis.Classify(in.Text) != crisis.Crisis {
		return false, nil
	}
	slog.Info("Dispatcher crisis interception", "userID", user.UserID)
	d.sessions.End(user.UserID)
	d.setAwaitingReport(user.UserID, false)
	d.send(ctx, user.UserID, i18n.Text(user.Lang, i18n.KeyCrisis))
	return true, nil
}

// matchCommand handles slash commands, including flow entry.
func (d *Dispatcher) matchCommand(ctx context.Context, user models.UserProfile, in models.Inbound) (bool, error) {
	text := strings.TrimSpace(in.Text)
	if !strings.HasPrefix(text, "/") {
		return false, nil
	}
	cmd := strings.ToLower(strings.Fields(text)[0])

	if kind, ok := flowCommands[cmd]; ok {
		return true, d.startFlow(ctx, user, kind)
	}

	switch cmd {
	case "/start":
		d.send(ctx, user.UserID, i18n.Text(user.Lang, i18n.KeyStart))
		buttons := []models.Button{{Label: "EN", Data: "lang_en"}, {Label: "UK", Data: "lang_uk"}}
		if err := d.msg.SendButtons(ctx, user.UserID, i18n.Text(user.Lang, i18n.KeyChooseLang), buttons); err != nil {
			slog.Error("Dispatcher failed to send language picker", "error", err, "userID", user.UserID)
		}
	case "/settings":
		d.send(ctx, user.UserID, fmt.Sprintf(i18n.Text(user.Lang, i18n.KeySettings), user.Lang, user.Country))
	case "/sleep":
		d.send(ctx, user.UserID, i18n.Text(user.Lang, i18n.KeySleepTips))
	case "/report":
		d.setAwaitingReport(user.UserID, true)
		d.send(ctx, user.UserID, i18n.Text(user.Lang, i18n.KeyReportIntro))
	case "/cancel":
		d.setAwaitingReport(user.UserID, false)
		if d.sessions.End(user.UserID) {
			d.send(ctx, user.UserID, i18n.Text(user.Lang, i18n.KeyCanceled))
		} else {
			d.send(ctx, user.UserID, i18n.Text(user.Lang, i18n.KeyOK))
		}
	default:
		d.send(ctx, user.UserID, i18n.Text(user.Lang, i18n.KeyUnknown))
	}
	return true, nil
}

// startFlow begins a new session, replacing any in-progress one.
func (d *Dispatcher) startFlow(ctx context.Context, user models.UserProfile, kind flow.Kind) error {
	handler := d.handlers[kind]
	res, err := handler.Begin(ctx, user)
	if err != nil {
		return fmt.Errorf("failed to begin %s flow: %w", kind, err)
	}
	d.setAwaitingReport(user.UserID, false)
	d.sessions.Start(user.UserID, kind)
	d.sendAll(ctx, user.UserID, res.Replies)
	return nil
}

// matchSession feeds free text to the active session's current step.
func (d *Dispatcher) matchSession(ctx context.Context, user models.UserProfile, in models.Inbound) (bool, error) {
	s := d.sessions.Get(user.UserID)
	if s == nil {
		return false, nil
	}
	handler, ok := d.handlers[s.Kind]
	if !ok {
		// Unknown kind means the table is corrupt; drop the session.
		slog.Error("Dispatcher found session with unknown flow kind", "kind", s.Kind, "userID", user.UserID)
		d.sessions.End(user.UserID)
		return false, nil
	}

	res, err := handler.Advance(ctx, user, s, in.Text)
	if err != nil {
		// Storage failure: surface a generic notice and keep the session
		// resumable at the same step.
		slog.Error("Dispatcher session step failed", "error", err, "kind", s.Kind, "userID", user.UserID)
		d.send(ctx, user.UserID, i18n.Text(user.Lang, i18n.KeyErrorGeneric))
		return true, nil
	}
	if res.Done {
		d.sessions.End(user.UserID)
	} else {
		d.sessions.Touch(user.UserID)
	}
	d.sendAll(ctx, user.UserID, res.Replies)
	return true, nil
}

// matchSettings applies the whole-message settings mini-grammar.
func (d *Dispatcher) matchSettings(ctx context.Context, user models.UserProfile, in models.Inbound) (bool, error) {
	text := strings.TrimSpace(in.Text)
	if m := langRe.FindStringSubmatch(text); m != nil {
		lang := models.Lang(strings.ToLower(m[1]))
		if err := d.store.SetUserLang(ctx, user.UserID, lang); err != nil {
			return true, fmt.Errorf("failed to set language: %w", err)
		}
		d.send(ctx, user.UserID, i18n.Text(lang, i18n.KeySaved))
		return true, nil
	}
	if m := countryRe.FindStringSubmatch(text); m != nil {
		country := models.Country(strings.ToUpper(m[1]))
		if err := d.store.SetUserCountry(ctx, user.UserID, country); err != nil {
			return true, fmt.Errorf("failed to set country: %w", err)
		}
		d.send(ctx, user.UserID, i18n.Text(user.Lang, i18n.KeySaved))
		return true, nil
	}
	return false, nil
}

// matchReportWindow resolves a pending /report request. The window values
// only fire for users who asked for a report, so a stray "7" from anyone
// else falls through to the fallback.
func (d *Dispatcher) matchReportWindow(ctx context.Context, user models.UserProfile, in models.Inbound) (bool, error) {
	if !d.isAwaitingReport(user.UserID) {
		return false, nil
	}
	text := strings.TrimSpace(in.Text)
	m := windowRe.FindStringSubmatch(text)
	if m == nil {
		// Invalid window: re-prompt, keep waiting. /cancel clears the flag.
		d.send(ctx, user.UserID, i18n.Text(user.Lang, i18n.KeyReportRetry))
		return true, nil
	}

	days := report.WindowWeek
	if m[1] == "30" {
		days = report.WindowMonth
	}
	d.setAwaitingReport(user.UserID, false)

	r, err := report.Aggregate(ctx, d.store, user.UserID, days)
	switch {
	case err == models.ErrNoData:
		d.send(ctx, user.UserID, i18n.Text(user.Lang, i18n.KeyNoData))
		return true, nil
	case err != nil:
		return true, fmt.Errorf("aggregation failed: %w", err)
	}

	d.send(ctx, user.UserID, fmt.Sprintf(i18n.Text(user.Lang, i18n.KeyReportReady),
		r.Days, r.AvgStress, r.Count, r.AvgSleep, report.FormatTopTriggers(r.TopTriggers)))
	return true, nil
}

// matchFallback forwards the text to the external responder off the critical
// path; the dispatch loop never waits on it.
func (d *Dispatcher) matchFallback(ctx context.Context, user models.UserProfile, in models.Inbound) (bool, error) {
	text := in.Text
	go func() {
		callCtx, cancel := context.WithTimeout(context.Background(), d.fallbackTimeout)
		defer cancel()

		reply := i18n.Text(user.Lang, i18n.KeyUnknown)
		if d.responder != nil {
			out, err := d.responder.Respond(callCtx, text)
			if err != nil {
				slog.Error("Dispatcher fallback responder failed", "error", err, "userID", user.UserID)
			} else if out != "" {
				reply = out
			}
		}
		d.send(callCtx, user.UserID, reply)
	}()
	return true, nil
}

// notifyExpired tells a user their idle session was terminated.
func (d *Dispatcher) notifyExpired(userID string) {
	ctx, cancel := context.WithTimeout(context.Background(), profileLookupTimeout)
	defer cancel()
	user, err := d.store.GetOrCreateUser(ctx, userID, d.defaultLang, d.defaultCountry)
	if err != nil {
		slog.Error("Dispatcher failed to load profile for expiry notice", "error", err, "userID", userID)
		return
	}
	d.send(ctx, userID, i18n.Text(user.Lang, i18n.KeySessionExpired))
}

func (d *Dispatcher) send(ctx context.Context, userID, body string) {
	if err := d.msg.SendMessage(ctx, userID, body); err != nil {
		slog.Error("Dispatcher failed to send message", "error", err, "userID", userID)
	}
}

func (d *Dispatcher) sendAll(ctx context.Context, userID string, bodies []string) {
	for _, body := range bodies {
		d.send(ctx, userID, body)
	}
}

func (d *Dispatcher) setAwaitingReport(userID string, awaiting bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if awaiting {
		d.awaitingReport[userID] = true
	} else {
		delete(d.awaitingReport, userID)
	}
}

func (d *Dispatcher) isAwaitingReport(userID string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.awaitingReport[userID]
}

// ActiveSessions exposes the session count for health reporting.
func (d *Dispatcher) ActiveSessions() int {
	return d.sessions.Count()
}
