package tui

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"github.com/diogo/tutorchat/internal/api"
	"github.com/diogo/tutorchat/internal/chat"
	"github.com/diogo/tutorchat/internal/format"
	"github.com/diogo/tutorchat/internal/logging"
	"github.com/diogo/tutorchat/internal/models"
	"github.com/diogo/tutorchat/internal/render"
)

const healthTimeout = 5 * time.Second

const helpMarkdown = `# Shortcuts

| Key | Action |
|---|---|
| **Enter** | Send the message |
| **Alt+Enter** | New line |
| **1-9** | Ask an example question (empty input, before the first message) |
| **PgUp PgDn Ctrl+↑ Ctrl+↓** | Scroll |
| **Esc** | Close help, or quit |

# Commands

- ` + "`/ask N`" + ` ask example question N
- ` + "`/copy`" + ` copy the last answer to the clipboard
- ` + "`/help`" + ` toggle this panel
- ` + "`/quit`" + ` leave
`

// Animation tick message
type animationTickMsg time.Time

type (
	replyMsg struct {
		reply chat.Reply
	}
	healthMsg struct {
		status *models.HealthStatus
		err    error
	}
	overlayDoneMsg struct{}
)

// screen is the chat.View driven by the controller. It is held by pointer so the
// controller's calls land on the same state the bubbletea model renders.
type screen struct {
	textarea     textarea.Model
	messages     []models.Message
	typing       bool
	inputEnabled bool

	// bodies holds each message's formatted body keyed by message ID. Messages never
	// change once appended, so a body is formatted once.
	bodies      map[string][]format.Segment
	lastReplyID string
}

func newScreen(ta textarea.Model) *screen {
	return &screen{
		textarea:     ta,
		inputEnabled: true,
		bodies:       make(map[string][]format.Segment),
	}
}

func (s *screen) AppendMessage(msg models.Message) {
	s.messages = append(s.messages, msg)
	s.bodies[msg.ID] = format.Segments(msg.Content)
	if !msg.IsUser() {
		s.lastReplyID = msg.ID
	}
}

// body returns the formatted body of msg
func (s *screen) body(msg models.Message) []format.Segment {
	if segs, ok := s.bodies[msg.ID]; ok {
		return segs
	}
	return format.Segments(msg.Content)
}

func (s *screen) SetInputEnabled(enabled bool) {
	s.inputEnabled = enabled
	if !enabled {
		s.textarea.Blur()
	}
}

func (s *screen) SetTypingVisible(visible bool) {
	s.typing = visible
}

func (s *screen) ClearInput() {
	s.textarea.Reset()
}

func (s *screen) FocusInput() {
	s.textarea.Focus()
}

func (s *screen) SetInput(text string) {
	s.textarea.SetValue(text)
}

// Options configures the chat TUI
type Options struct {
	Presets      []string
	OverlayDelay time.Duration
	Logger       *zap.Logger
	Context      context.Context
}

// Model represents the TUI state
type Model struct {
	client  api.ChatClientInterface
	ctrl    *chat.Controller
	screen  *screen
	presets []string
	logger  *zap.Logger
	ctx     context.Context

	viewport viewport.Model
	spinner  spinner.Model

	ready          bool
	overlay        bool
	overlayDelay   time.Duration
	showHelp       bool
	notice         string
	health         *models.HealthStatus
	healthErr      error
	animationFrame int

	copyText func(string) error

	width  int
	height int
}

// NewChatModel creates a new chat TUI model bound to a backend client
func NewChatModel(client api.ChatClientInterface, opts Options) Model {
	ta := textarea.New()
	ta.Placeholder = "Ask a question about the course videos..."
	ta.CharLimit = 4000
	ta.ShowLineNumbers = false
	ta.SetHeight(2)
	ta.Focus()

	ta.FocusedStyle.CursorLine = lipgloss.NewStyle()
	ta.FocusedStyle.Base = lipgloss.NewStyle().Foreground(colorText)
	ta.FocusedStyle.Placeholder = lipgloss.NewStyle().Foreground(colorTextDim)
	ta.BlurredStyle = ta.FocusedStyle

	s := spinner.New()
	s.Spinner = spinner.Points
	s.Style = loadingStyle

	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}
	logger := logging.OrNop(opts.Logger)

	scr := newScreen(ta)

	return Model{
		client:       client,
		ctrl:         chat.NewController(client, scr, chat.WithLogger(logger)),
		screen:       scr,
		presets:      opts.Presets,
		logger:       logger,
		ctx:          ctx,
		spinner:      s,
		overlay:      opts.OverlayDelay > 0,
		overlayDelay: opts.OverlayDelay,
		copyText:     clipboard.WriteAll,
	}
}

// Init starts the cursor blink, the startup overlay timer and the health probe
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{textarea.Blink, m.spinner.Tick, m.checkHealth()}
	if m.overlay {
		cmds = append(cmds, tea.Tick(m.overlayDelay, func(time.Time) tea.Msg {
			return overlayDoneMsg{}
		}))
	}
	return tea.Batch(cmds...)
}

func animationTick() tea.Cmd {
	return tea.Tick(time.Millisecond*80, func(t time.Time) tea.Msg {
		return animationTickMsg(t)
	})
}

// Update handles messages and updates the model
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

		headerHeight := 3
		inputHeight := 5
		statusHeight := 2
		vpHeight := m.height - headerHeight - inputHeight - statusHeight - 2
		if vpHeight < 5 {
			vpHeight = 5
		}
		contentWidth := m.contentWidth()

		if !m.ready {
			m.viewport = viewport.New(contentWidth-4, vpHeight)
			m.viewport.KeyMap = scrollKeys()
			m.ready = true
		} else {
			m.viewport.Width = contentWidth - 4
			m.viewport.Height = vpHeight
		}
		m.screen.textarea.SetWidth(contentWidth - 4)
		m.updateViewport()
		m.viewport.GotoBottom()

	case overlayDoneMsg:
		m.overlay = false

	case healthMsg:
		m.health = msg.status
		m.healthErr = msg.err

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit
		case "esc":
			if m.showHelp {
				m.showHelp = false
				return m, nil
			}
			return m, tea.Quit
		}

		if m.overlay {
			return m, nil
		}

		switch msg.String() {
		case "enter":
			return m, m.handleEnter()
		case "alt+enter":
			if m.screen.inputEnabled {
				m.screen.textarea.InsertString("\n")
			}
			return m, nil
		}

		if idx, ok := m.presetKey(msg); ok {
			return m, m.ask(idx)
		}

	case replyMsg:
		// Failures are logged by the controller and shown as the fallback reply
		_ = m.ctrl.Complete(msg.reply)
		m.updateViewport()
		m.viewport.GotoBottom()

	case spinner.TickMsg:
		if m.screen.typing || m.overlay {
			m.spinner, cmd = m.spinner.Update(msg)
			cmds = append(cmds, cmd)
		}

	case animationTickMsg:
		if m.screen.typing {
			m.animationFrame++
			cmds = append(cmds, animationTick())
		}
	}

	// Only key presses reach the textarea, so terminal replies never leak into it
	if m.screen.inputEnabled && !m.overlay {
		if _, ok := msg.(tea.KeyMsg); ok {
			m.screen.textarea, cmd = m.screen.textarea.Update(msg)
			cmds = append(cmds, cmd)
		}
	}

	m.viewport, cmd = m.viewport.Update(msg)
	cmds = append(cmds, cmd)

	return m, tea.Batch(cmds...)
}

// handleEnter runs a slash command or submits the input
func (m *Model) handleEnter() tea.Cmd {
	input := strings.TrimSpace(m.screen.textarea.Value())
	if input == "" || m.ctrl.Busy() {
		return nil
	}

	switch {
	case input == "/quit" || input == "/exit":
		return tea.Quit
	case input == "/help":
		m.screen.ClearInput()
		m.showHelp = !m.showHelp
		return nil
	case input == "/copy":
		m.screen.ClearInput()
		m.copyLastReply()
		return nil
	case strings.HasPrefix(input, "/ask "):
		n, err := strconv.Atoi(strings.TrimSpace(strings.TrimPrefix(input, "/ask ")))
		if err != nil || n < 1 || n > len(m.presets) {
			m.notice = fmt.Sprintf("No example question %q", strings.TrimPrefix(input, "/ask "))
			return nil
		}
		return m.ask(n - 1)
	}

	pending, ok := m.ctrl.Submit(input)
	if !ok {
		return nil
	}
	return m.awaitReply(pending)
}

// ask submits a preset question through the input field
func (m *Model) ask(idx int) tea.Cmd {
	pending, ok := m.ctrl.AskQuestion(m.presets[idx])
	if !ok {
		return nil
	}
	return m.awaitReply(pending)
}

// awaitReply starts the typing animation and runs the outbound call off the loop
func (m *Model) awaitReply(pending chat.Pending) tea.Cmd {
	m.notice = ""
	m.showHelp = false
	m.animationFrame = 0
	m.updateViewport()
	m.viewport.GotoBottom()

	ctx := m.ctx
	return tea.Batch(
		func() tea.Msg {
			return replyMsg{reply: pending(ctx)}
		},
		m.spinner.Tick,
		animationTick(),
	)
}

// presetKey maps 1-9 to a preset while the welcome panel is showing
func (m Model) presetKey(msg tea.KeyMsg) (int, bool) {
	if len(m.screen.messages) > 0 || m.ctrl.Busy() {
		return 0, false
	}
	if strings.TrimSpace(m.screen.textarea.Value()) != "" {
		return 0, false
	}
	key := msg.String()
	if len(key) != 1 || key[0] < '1' || key[0] > '9' {
		return 0, false
	}
	idx := int(key[0] - '1')
	if idx >= len(m.presets) {
		return 0, false
	}
	return idx, true
}

func (m *Model) copyLastReply() {
	segs, ok := m.screen.bodies[m.screen.lastReplyID]
	if !ok {
		m.notice = "Nothing to copy yet"
		return
	}
	if err := m.copyText(format.Plain(segs)); err != nil {
		m.logger.Warn("clipboard copy failed", zap.Error(err))
		m.notice = "Could not copy to clipboard"
		return
	}
	m.notice = "Copied the last answer to the clipboard"
}

func (m Model) checkHealth() tea.Cmd {
	client := m.client
	ctx := m.ctx
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(ctx, healthTimeout)
		defer cancel()
		status, err := client.Health(ctx)
		return healthMsg{status: status, err: err}
	}
}

// scrollKeys keeps letter keys for the textarea; the message list scrolls with
// paging keys and the mouse wheel only.
func scrollKeys() viewport.KeyMap {
	return viewport.KeyMap{
		PageUp:   key.NewBinding(key.WithKeys("pgup")),
		PageDown: key.NewBinding(key.WithKeys("pgdown")),
		Up:       key.NewBinding(key.WithKeys("ctrl+up")),
		Down:     key.NewBinding(key.WithKeys("ctrl+down")),
	}
}

func (m Model) contentWidth() int {
	if m.width < 24 {
		return 20
	}
	return m.width - 4
}

// View renders the TUI
func (m Model) View() string {
	if !m.ready {
		return loadingStyle.Render("  Initializing...")
	}
	if m.overlay {
		return m.renderOverlay()
	}

	contentWidth := m.contentWidth()
	var sections []string

	headerContent := lipgloss.JoinHorizontal(lipgloss.Center,
		titleStyle.Render("📹 Course Assistant"),
		hintStyle.Render("  •  "),
		subtitleStyle.Render(m.client.BaseURL()),
	)
	sections = append(sections, headerStyle.Width(contentWidth).Render(headerContent))

	var body string
	switch {
	case m.showHelp:
		body = m.renderHelp()
	case len(m.screen.messages) == 0:
		body = m.renderWelcome()
	default:
		body = m.viewport.View()
	}
	sections = append(sections, messagesAreaStyle.
		Width(contentWidth).
		Height(m.viewport.Height).
		Render(body))

	var inputContent string
	if m.screen.typing {
		inputContent = m.renderTypingAnimation()
	} else {
		inputContent = lipgloss.JoinVertical(lipgloss.Left,
			inputLabelStyle.Render("You"),
			m.screen.textarea.View(),
		)
	}
	sections = append(sections, inputPanelStyle.Width(contentWidth).Render(inputContent))

	sections = append(sections, m.renderStatusBar(contentWidth))
	if m.notice != "" {
		sections = append(sections, noticeStyle.Render(m.notice))
	}

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m Model) renderOverlay() string {
	box := overlayStyle.Render(lipgloss.JoinVertical(lipgloss.Center,
		welcomeIconStyle.Render("📹"),
		"",
		m.spinner.View()+loadingStyle.Render(" Loading course assistant"),
	))
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, box)
}

// renderWelcome shows the greeting and the example question chips
func (m Model) renderWelcome() string {
	width := m.viewport.Width

	lines := []string{
		"",
		welcomeTitleStyle.Width(width).Align(lipgloss.Center).Render("Hi! Ask me anything about the course videos."),
		hintStyle.Width(width).Align(lipgloss.Center).Render("Answers point to the video and the moment it is discussed."),
		"",
	}
	if len(m.presets) > 0 {
		lines = append(lines, subtitleStyle.Render("Try one of these:"))
		for i, p := range m.presets {
			if i >= 9 {
				break
			}
			chip := chipKeyStyle.Render(strconv.Itoa(i+1)) + " " + p
			lines = append(lines, chipStyle.Render(chip))
		}
	}
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func (m Model) renderHelp() string {
	opts := render.OptionsForTheme(render.GetTUITheme().Name).WithWidth(m.viewport.Width)
	out, err := render.Markdown(helpMarkdown, opts)
	if err != nil {
		m.logger.Debug("help render failed", zap.Error(err))
		return helpMarkdown
	}
	return strings.TrimRight(out, "\n")
}

// renderTypingAnimation draws the typing indicator while a reply is pending
func (m Model) renderTypingAnimation() string {
	frame := m.animationFrame

	bar := strings.Builder{}
	for i := 0; i < 12; i++ {
		color := gradientColors[(i+frame)%len(gradientColors)]
		char := "▪"
		if (i+frame)%4 == 0 {
			char = "■"
		}
		bar.WriteString(lipgloss.NewStyle().Foreground(color).Render(char))
	}

	dots := ""
	numDots := (frame / 3) % 4
	for i := 0; i < 3; i++ {
		if i < numDots {
			dots += lipgloss.NewStyle().Foreground(gradientColors[(frame+i)%len(gradientColors)]).Render("●")
		} else {
			dots += lipgloss.NewStyle().Foreground(colorTextMute).Render("○")
		}
	}

	text := lipgloss.NewStyle().Foreground(colorText).Render(" Assistant is typing ")
	return fmt.Sprintf("%s %s %s %s", m.spinner.View(), bar.String(), text, dots)
}

func (m Model) renderStatusBar(width int) string {
	shortcuts := []struct {
		key  string
		desc string
	}{
		{"Enter", "Send"},
		{"Alt+Enter", "Newline"},
		{"/help", "Help"},
		{"Esc", "Quit"},
	}

	var items []string
	for _, s := range shortcuts {
		items = append(items, statusKeyStyle.Render(s.key)+statusDescStyle.Render(" "+s.desc))
	}

	if m.ctrl.Busy() {
		items = append(items, statusBadStyle.Render("sending disabled"))
	} else {
		items = append(items, statusOkStyle.Render("ready"))
	}
	items = append(items, m.healthLabel())

	return statusBarStyle.Width(width).Align(lipgloss.Center).Render(strings.Join(items, "  │  "))
}

func (m Model) healthLabel() string {
	switch {
	case m.healthErr != nil:
		return statusBadStyle.Render("backend offline")
	case m.health == nil:
		return statusDescStyle.Render("backend …")
	case !m.health.Healthy():
		return statusBadStyle.Render("backend " + m.health.Status)
	case !m.health.EmbeddingsLoaded:
		return noticeStyle.Render("backend up, no embeddings")
	default:
		return statusOkStyle.Render("backend healthy")
	}
}

// updateViewport refreshes the viewport content with styled messages
func (m *Model) updateViewport() {
	var content strings.Builder
	bubbleWidth := m.viewport.Width - 6
	if bubbleWidth < 10 {
		bubbleWidth = 10
	}

	for i, msg := range m.screen.messages {
		if i > 0 {
			content.WriteString("\n")
		}
		body := render.Segments(m.screen.body(msg), segmentStyles)
		clock := clockStyle.Render(" " + msg.Clock())

		if msg.IsUser() {
			content.WriteString(userLabelStyle.Render("You") + clock + "\n")
			content.WriteString(userBubbleStyle.Width(bubbleWidth).Render(body))
		} else {
			content.WriteString(assistantLabelStyle.Render("📹 Assistant") + clock + "\n")
			content.WriteString(assistantBubbleStyle.Width(bubbleWidth).Render(body))
		}
		content.WriteString("\n")
	}

	m.viewport.SetContent(content.String())
}

// RunChat starts the chat TUI and blocks until the user quits
func RunChat(client api.ChatClientInterface, opts Options) error {
	m := NewChatModel(client, opts)

	progOpts := []tea.ProgramOption{tea.WithAltScreen()}
	if opts.Context != nil {
		progOpts = append(progOpts, tea.WithContext(opts.Context))
	}

	_, err := tea.NewProgram(m, progOpts...).Run()
	return err
}
