package tui

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/Ozsumit/csf-pwa/internal/advisor"
	"github.com/Ozsumit/csf-pwa/internal/app"
	"github.com/Ozsumit/csf-pwa/internal/config"
	"github.com/Ozsumit/csf-pwa/internal/engine"
)

type sessionState int

const (
	statePlaying sessionState = iota
	stateConfirmReset
)

const maxLogLines = 200

// Inbox buffers engine events until the next Update drains them.
type Inbox struct {
	mu     sync.Mutex
	events []engine.Event
}

func NewInbox() *Inbox { return &Inbox{} }

func (in *Inbox) Notify(ev engine.Event) {
	in.mu.Lock()
	in.events = append(in.events, ev)
	in.mu.Unlock()
}

func (in *Inbox) drain() []engine.Event {
	in.mu.Lock()
	defer in.mu.Unlock()
	evs := in.events
	in.events = nil
	return evs
}

type model struct {
	state    sessionState
	eng      *engine.Engine
	advisor  advisor.Strategy
	inbox    *Inbox
	tick     time.Duration
	keys     keyMap
	help     help.Model
	progress progress.Model
	confirm  textinput.Model
	viewport viewport.Model
	gameLog  []string
	hint     string
	width    int
	height   int
}

var (
	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFA500")).
			Bold(true).
			Underline(true)

	statsStyle = lipgloss.NewStyle().
			Border(lipgloss.NormalBorder(), false, true, false, false).
			BorderForeground(lipgloss.Color("#3C3C3C")).
			PaddingRight(2)

	activeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#5FD75F")).
			Bold(true)

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#888888"))

	taxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#D75F5F")).
			Padding(0, 1)

	hintStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#AAAAAA")).
			Italic(true)
)

func NewModel(eng *engine.Engine, in *Inbox, strategy advisor.Strategy, tick time.Duration, debug bool) model {
	ti := textinput.New()
	ti.Placeholder = "type reset to confirm"
	ti.CharLimit = 16
	ti.Width = 24

	if strategy == nil {
		strategy = advisor.Greedy{}
	}
	return model{
		state:    statePlaying,
		eng:      eng,
		advisor:  strategy,
		inbox:    in,
		tick:     tick,
		keys:     newKeyMap(debug),
		help:     help.New(),
		progress: progress.New(progress.WithDefaultGradient(), progress.WithoutPercentage()),
		confirm:  ti,
		viewport: viewport.New(40, 12),
	}
}

type tickMsg time.Time

type taxArrivalMsg struct{}

type countdownMsg struct{ seq uint64 }

type hintMsg struct {
	suggestion advisor.Suggestion
	err        error
}

func tickCmd(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(t time.Time) tea.Msg { return tickMsg(t) })
}

func arrivalCmd(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(time.Time) tea.Msg { return taxArrivalMsg{} })
}

func countdownCmd(seq uint64) tea.Cmd {
	return tea.Tick(engine.TaxCountdownStep, func(time.Time) tea.Msg { return countdownMsg{seq} })
}

func (m model) Init() tea.Cmd {
	return tea.Batch(tickCmd(m.tick), arrivalCmd(m.eng.NextTaxDelay()))
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.viewport.Width = max(20, msg.Width/2-2)
		m.viewport.Height = max(5, msg.Height-12)
		m.progress.Width = max(10, msg.Width/2-6)
		m.help.Width = msg.Width
		m.viewport.SetContent(strings.Join(m.gameLog, "\n"))

	case tickMsg:
		m.eng.Tick(context.Background())
		cmd = tickCmd(m.tick)

	case taxArrivalMsg:
		cmd = arrivalCmd(m.eng.NextTaxDelay())
		if m.eng.FireTax() {
			cmd = tea.Batch(cmd, countdownCmd(m.eng.Snapshot().Tax.Seq))
		}

	case countdownMsg:
		if m.eng.CountdownTick(msg.seq) {
			cmd = countdownCmd(msg.seq)
		}

	case hintMsg:
		if msg.err != nil {
			m.hint = "advisor: " + msg.err.Error()
		} else {
			m.hint = "advisor suggests " + msg.suggestion.String()
		}

	case tea.KeyMsg:
		if m.state == stateConfirmReset {
			return m.updateConfirm(msg)
		}
		cmd = m.handleKey(msg)
	}

	m.drainEvents()
	return m, cmd
}

func (m *model) handleKey(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return tea.Quit
	case key.Matches(msg, m.keys.Donate):
		m.eng.Click()
	case key.Matches(msg, m.keys.BuyAuto):
		if !m.eng.PurchaseAutoClicker() {
			m.hint = "not enough coins for an auto-clicker"
		}
	case key.Matches(msg, m.keys.BuyUpgrade):
		if !m.eng.PurchaseUpgrade() {
			m.hint = "not enough coins for an upgrade"
		}
	case key.Matches(msg, m.keys.BuyItem):
		i, _ := strconv.Atoi(msg.String())
		items := m.eng.Snapshot().State.SpecialItems
		if i >= 1 && i <= len(items) && !m.eng.PurchaseSpecialItem(items[i-1].ID) {
			m.hint = "not enough coins for " + items[i-1].Name
		}
	case key.Matches(msg, m.keys.Prevent):
		m.eng.PreventClick()
	case key.Matches(msg, m.keys.Acknowledge):
		m.eng.Acknowledge()
	case key.Matches(msg, m.keys.ForceTax):
		if m.eng.ForceTaxEvent() {
			return countdownCmd(m.eng.Snapshot().Tax.Seq)
		}
	case key.Matches(msg, m.keys.Hint):
		m.hint = "asking the advisor..."
		return m.askAdvisor()
	case key.Matches(msg, m.keys.Reset):
		m.state = stateConfirmReset
		m.confirm.Reset()
		return m.confirm.Focus()
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
	}
	return nil
}

func (m model) updateConfirm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyCtrlC:
		return m, tea.Quit
	case tea.KeyEsc:
		m.state = statePlaying
		m.confirm.Blur()
		return m, nil
	case tea.KeyEnter:
		m.state = statePlaying
		m.confirm.Blur()
		if strings.TrimSpace(m.confirm.Value()) != "reset" {
			m.hint = "reset cancelled"
			return m, nil
		}
		if err := m.eng.Reset(context.Background()); err != nil {
			m.hint = "reset failed: " + err.Error()
		}
		m.drainEvents()
		return m, nil
	}
	var cmd tea.Cmd
	m.confirm, cmd = m.confirm.Update(msg)
	return m, cmd
}

func (m model) askAdvisor() tea.Cmd {
	snap := m.eng.Snapshot()
	strategy := m.advisor
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 20*time.Second)
		defer cancel()
		s, err := strategy.Suggest(ctx, snap)
		return hintMsg{s, err}
	}
}

func (m *model) drainEvents() {
	events := m.inbox.drain()
	if len(events) == 0 {
		return
	}
	for _, ev := range events {
		m.gameLog = append(m.gameLog, describe(ev))
	}
	if n := len(m.gameLog); n > maxLogLines {
		m.gameLog = m.gameLog[n-maxLogLines:]
	}
	m.viewport.SetContent(strings.Join(m.gameLog, "\n"))
	m.viewport.GotoBottom()
}

func describe(ev engine.Event) string {
	switch ev.Kind {
	case engine.EventAchievementUnlocked:
		return activeStyle.Render("Achievement unlocked: "+ev.Achievement.Name) + " " + dimStyle.Render(ev.Achievement.Description)
	case engine.EventItemActivated:
		return fmt.Sprintf("%s active for %s", ev.Item.Name, time.Duration(ev.Item.DurationMs)*time.Millisecond)
	case engine.EventItemExpired:
		return dimStyle.Render(ev.Item.Name + " wore off")
	case engine.EventTaxStarted:
		return fmt.Sprintf("%.1f%% tax incoming! %d clicks within %s to prevent it",
			ev.Tax.Rate, ev.Tax.RequiredClicks, ev.Tax.TimeLimit)
	case engine.EventTaxResolved:
		if ev.Tax.Outcome == engine.TaxAvoided {
			return activeStyle.Render("Tax prevented!")
		}
		return fmt.Sprintf("Time's up, %s coins will be taxed", FormatLarge(ev.Tax.Amount))
	case engine.EventTaxAcknowledged:
		if ev.Paid > 0 {
			return fmt.Sprintf("Paid %s coins in tax", FormatLarge(ev.Paid))
		}
		return "Kept every coin"
	case engine.EventGameReset:
		return "Game reset"
	}
	return string(ev.Kind)
}

func (m model) View() string {
	snap := m.eng.Snapshot()

	body := lipgloss.JoinHorizontal(lipgloss.Top,
		statsStyle.Render(m.renderStats(snap)),
		"  ",
		titleStyle.Render("LOG")+"\n"+m.viewport.View(),
	)

	parts := []string{body}
	if tax := m.renderTax(snap); tax != "" {
		parts = append(parts, tax)
	}
	if m.state == stateConfirmReset {
		parts = append(parts, "Reset all progress? "+m.confirm.View()+dimStyle.Render("  (esc to cancel)"))
	}
	if m.hint != "" {
		parts = append(parts, hintStyle.Render(m.hint))
	}
	parts = append(parts, m.help.View(m.keys))

	return "\n" + lipgloss.JoinVertical(lipgloss.Left, parts...) + "\n"
}

func (m model) renderStats(snap engine.Snapshot) string {
	s := snap.State
	var b strings.Builder

	b.WriteString(titleStyle.Render("COINS") + "\n")
	fmt.Fprintf(&b, "%s\n", FormatLarge(s.Currency))
	fmt.Fprintf(&b, "%s per click, %s per second\n\n", FormatLarge(engine.ClickGain(s)), FormatLarge(engine.AutoGain(s)))

	b.WriteString(titleStyle.Render("SHOP") + "\n")
	fmt.Fprintf(&b, "[a] auto-clicker lvl %s  %s\n", humanize.Comma(int64(s.AutoLevel)), FormatLarge(s.AutoCost))
	fmt.Fprintf(&b, "[u] click upgrade lvl %s  %s\n", humanize.Comma(int64(s.UpgradeLevel)), FormatLarge(s.UpgradeCost))
	for i, it := range s.SpecialItems {
		line := fmt.Sprintf("[%d] %s  %s", i+1, it.Name, FormatLarge(it.Cost))
		if fx, ok := snap.Active(it.ID); ok {
			left := fx.ExpiresAt.Sub(snap.Now).Round(time.Second)
			line = activeStyle.Render(fmt.Sprintf("%s  %s left", line, left))
		}
		b.WriteString(line + "\n")
	}

	fmt.Fprintf(&b, "\n%s %d/%d\n", titleStyle.Render("ACHIEVEMENTS"), s.UnlockedCount(), len(s.Achievements))
	saved := "never"
	if !snap.LastSaved.IsZero() {
		saved = humanize.RelTime(snap.LastSaved, snap.Now, "ago", "from now")
	}
	b.WriteString(dimStyle.Render("saved " + saved))
	return b.String()
}

func (m model) renderTax(snap engine.Snapshot) string {
	t := snap.Tax
	switch t.Phase {
	case engine.TaxPending:
		pct := 1.0
		if t.RequiredClicks > 0 {
			pct = float64(t.CurrentClicks) / float64(t.RequiredClicks)
		}
		return taxStyle.Render(fmt.Sprintf(
			"%.1f%% TAX on %s coins! Press p or donate to prevent it.\n%s %d/%d  %s left",
			t.Rate, FormatLarge(t.Amount), m.progress.ViewAs(pct), t.CurrentClicks, t.RequiredClicks, t.TimeLeft))
	case engine.TaxResolved:
		msg := "Tax prevented! Nothing lost."
		if t.Outcome == engine.TaxPaid {
			msg = fmt.Sprintf("Too slow. %s coins are due.", FormatLarge(t.Amount))
		}
		closeHint := "press c to close"
		if snap.Now.Before(snap.AckReadyAt) {
			closeHint = fmt.Sprintf("close available in %s", snap.AckReadyAt.Sub(snap.Now).Round(time.Second))
		}
		return taxStyle.Render(msg + "\n" + dimStyle.Render(closeHint))
	}
	return ""
}

// Run starts the interactive game for an opened app. in must be the
// notifier the app's engine was built with.
func Run(a *app.App, in *Inbox) error {
	m := NewModel(a.Engine, in, a.Advisor, a.Config.TickPeriod, a.Config.Debug)
	p := tea.NewProgram(m, tea.WithAltScreen())
	_, err := p.Run()
	return err
}

// Start loads configuration from the environment and runs the game.
func Start() error {
	cfg, err := config.LoadConfig("")
	if err != nil {
		return err
	}
	return StartWith(context.Background(), cfg)
}

func StartWith(ctx context.Context, cfg *config.Config) error {
	in := NewInbox()
	a, err := app.Open(ctx, cfg, engine.WithNotifier(in))
	if err != nil {
		return err
	}
	runErr := Run(a, in)
	if err := a.Close(); err != nil && runErr == nil {
		return err
	}
	return runErr
}
