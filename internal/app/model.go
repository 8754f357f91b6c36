package app

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/amit-agicent/crm-gemini/internal/api"
	"github.com/amit-agicent/crm-gemini/internal/entry"
	"github.com/amit-agicent/crm-gemini/internal/session"
)

type screen int

const (
	screenAuth screen = iota
	screenApp
)

type panel int

const (
	panelDashboard panel = iota
	panelEntry
	panelDAR
	panelHistory
)

var panelsByName = map[string]panel{
	"dashboard": panelDashboard,
	"entry":     panelEntry,
	"dar":       panelDAR,
	"history":   panelHistory,
}

var panelOrder = []panel{panelDashboard, panelEntry, panelDAR, panelHistory}

func panelLabel(p panel) string {
	switch p {
	case panelDashboard:
		return "Dashboard"
	case panelEntry:
		return "New Entry"
	case panelDAR:
		return "Daily Report"
	case panelHistory:
		return "History"
	default:
		return "Unknown"
	}
}

// panelSettleDelay is the cosmetic highlight applied after a panel switch.
// Data loading never waits on it.
const panelSettleDelay = 180 * time.Millisecond

const requestTimeout = 20 * time.Second

// Async results carry the session generation they were dispatched under.
// A result from a previous generation (the user logged out, or logged in
// again, while the request was in flight) is dropped on arrival.
type authResultMsg struct {
	gen    int64
	sess   session.Session
	signup bool
	err    error
}

type sessionSavedMsg struct {
	err error
}

type sessionClearedMsg struct {
	err error
}

type entrySavedMsg struct {
	gen int64
	err error
}

type darRowResult struct {
	index int
	err   error
}

type darSavedMsg struct {
	gen     int64
	results []darRowResult
}

type historyLoadedMsg struct {
	gen    int64
	kind   string
	result api.HistoryResult
	err    error
}

type statsLoadedMsg struct {
	gen   int64
	stats entry.Stats
	err   error
}

type themeSavedMsg struct {
	err error
}

type panelSettledMsg struct{}

type Options struct {
	// Endpoint overrides the stored session's URL when both are present.
	Endpoint    string
	Session     *session.Session
	Theme       string
	SessionNote string
}

type Model struct {
	store *session.Store

	ready  bool
	width  int
	height int

	themeName string
	styles    styles

	screen screen
	panel  panel

	sess       *session.Session
	sessionGen int64

	authInputs []textinput.Model
	authFocus  int
	authing    bool

	entryInputs []textinput.Model
	entryFocus  int
	savingEntry bool

	darRows   []darRowInputs
	darFocus  int
	savingDAR bool

	historyKind    string
	historyLoading bool
	historyLoaded  bool
	historyEmpty   bool
	historyTable   table.Model

	stats        entry.Stats
	statsLoaded  bool
	statsLoading bool

	spinner spinner.Model

	statusText string
	errorText  string
	panelFlash bool
}

const (
	authFieldEndpoint = iota
	authFieldUsername
	authFieldPassword
)

func NewModel(store *session.Store, opts Options) Model {
	endpointInput := textinput.New()
	endpointInput.Prompt = ""
	endpointInput.Placeholder = api.EndpointPrefix + "s/.../exec"
	endpointInput.CharLimit = 2048
	endpointInput.Width = 58

	usernameInput := textinput.New()
	usernameInput.Prompt = ""
	usernameInput.Placeholder = "username"
	usernameInput.CharLimit = 128
	usernameInput.Width = 32

	passwordInput := textinput.New()
	passwordInput.Prompt = ""
	passwordInput.Placeholder = "password"
	passwordInput.CharLimit = 128
	passwordInput.Width = 32
	passwordInput.EchoMode = textinput.EchoPassword

	spin := spinner.New()
	spin.Spinner = spinner.MiniDot

	themeName := session.ThemeLight
	if opts.Theme == session.ThemeDark {
		themeName = session.ThemeDark
	}

	model := Model{
		store:       store,
		themeName:   themeName,
		styles:      newStyles(themeName),
		screen:      screenAuth,
		panel:       panelDashboard,
		authInputs:  []textinput.Model{endpointInput, usernameInput, passwordInput},
		entryInputs: newEntryInputs(today()),
		darRows:     []darRowInputs{newDARRow()},
		historyKind: historyKindCRM,
		spinner:     spin,
		statusText:  "Sign in to get started.",
		errorText:   strings.TrimSpace(opts.SessionNote),
	}
	model.spinner.Style = model.styles.status

	endpoint := strings.TrimSpace(opts.Endpoint)
	if opts.Session != nil {
		sess := *opts.Session
		// An explicit endpoint wins over the URL the session was issued by.
		if endpoint != "" {
			sess.GasURL = endpoint
		} else {
			endpoint = sess.GasURL
		}
		model.sess = &sess
		model.screen = screenApp
		model.statsLoading = true
		model.statusText = "Welcome back, " + sess.Username + "."
	}
	model.authInputs[authFieldEndpoint].SetValue(endpoint)
	model.applyAuthFocus()
	return model
}

func (m Model) Init() tea.Cmd {
	if m.sess == nil {
		return textinput.Blink
	}
	return tea.Batch(m.spinner.Tick, loadStatsCmd(m.endpoint(), *m.sess, m.sessionGen))
}

// endpoint resolves the URL for the active context: the session's stored
// URL once authenticated, otherwise whatever is typed on the auth screen.
func (m Model) endpoint() string {
	if m.sess != nil && strings.TrimSpace(m.sess.GasURL) != "" {
		return strings.TrimSpace(m.sess.GasURL)
	}
	return strings.TrimSpace(m.authInputs[authFieldEndpoint].Value())
}

func (m Model) busy() bool {
	return m.authing || m.savingEntry || m.savingDAR || m.historyLoading || m.statsLoading
}

// --- commands ---

func loginCmd(endpoint, username, password string, gen int64) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		wire, err := api.NewClient(endpoint).Login(ctx, username, password)
		if err != nil {
			return authResultMsg{gen: gen, err: err}
		}
		return authResultMsg{gen: gen, sess: session.Session{Session: wire, GasURL: endpoint}}
	}
}

// signupCmd chains the account creation into an automatic login with the
// same credentials. The login starts only after the signup response; a
// failed follow-up login leaves the flow unauthenticated with no session.
func signupCmd(endpoint, username, password string, gen int64) tea.Cmd {
	return func() tea.Msg {
		client := api.NewClient(endpoint)

		signupCtx, cancelSignup := context.WithTimeout(context.Background(), requestTimeout)
		err := client.Signup(signupCtx, username, password)
		cancelSignup()
		if err != nil {
			return authResultMsg{gen: gen, signup: true, err: err}
		}

		loginCtx, cancelLogin := context.WithTimeout(context.Background(), requestTimeout)
		defer cancelLogin()
		wire, err := client.Login(loginCtx, username, password)
		if err != nil {
			return authResultMsg{gen: gen, signup: true, err: fmt.Errorf("account created but automatic sign-in failed: %w", err)}
		}
		return authResultMsg{gen: gen, signup: true, sess: session.Session{Session: wire, GasURL: endpoint}}
	}
}

func persistSessionCmd(store *session.Store, sess session.Session) tea.Cmd {
	return func() tea.Msg {
		if store == nil {
			return sessionSavedMsg{}
		}
		return sessionSavedMsg{err: store.Save(sess)}
	}
}

func clearSessionCmd(store *session.Store) tea.Cmd {
	return func() tea.Msg {
		if store == nil {
			return sessionClearedMsg{}
		}
		return sessionClearedMsg{err: store.Clear()}
	}
}

func saveEntryCmd(endpoint string, sess session.Session, record entry.CRMEntry, gen int64) tea.Cmd {
	row := record.Row(time.Now(), time.Local)
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		err := api.NewClient(endpoint).SaveEntry(ctx, sess.MasterSheetID, sess.DataSheetID, row)
		return entrySavedMsg{gen: gen, err: err}
	}
}

// saveDARCmd submits each row as its own sequential call and records the
// per-row outcome. A failure partway through does not stop later rows and
// is not rolled back; the outcome list is the report.
func saveDARCmd(endpoint string, sess session.Session, rows []entry.DARRow, gen int64) tea.Cmd {
	copied := append([]entry.DARRow(nil), rows...)
	return func() tea.Msg {
		client := api.NewClient(endpoint)
		results := make([]darRowResult, 0, len(copied))
		for idx, row := range copied {
			ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
			err := client.SaveEntry(ctx, sess.MasterSheetID, sess.DARSheetID, row.Row())
			cancel()
			results = append(results, darRowResult{index: idx, err: err})
		}
		return darSavedMsg{gen: gen, results: results}
	}
}

func loadHistoryCmd(endpoint string, sess session.Session, kind string, gen int64) tea.Cmd {
	sheetID := sess.DataSheetID
	if kind == historyKindDAR {
		sheetID = sess.DARSheetID
	}
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		result, err := api.NewClient(endpoint).History(ctx, sess.MasterSheetID, sheetID)
		return historyLoadedMsg{gen: gen, kind: kind, result: result, err: err}
	}
}

func loadStatsCmd(endpoint string, sess session.Session, gen int64) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		result, err := api.NewClient(endpoint).History(ctx, sess.MasterSheetID, sess.DataSheetID)
		if err != nil {
			return statsLoadedMsg{gen: gen, err: err}
		}
		rows := make([]map[string]any, 0, len(result.Rows))
		for _, row := range result.Rows {
			rows = append(rows, map[string]any(row))
		}
		return statsLoadedMsg{gen: gen, stats: entry.ComputeStats(rows)}
	}
}

func saveThemeCmd(store *session.Store, theme string) tea.Cmd {
	return func() tea.Msg {
		if store == nil {
			return themeSavedMsg{}
		}
		return themeSavedMsg{err: store.SaveTheme(theme)}
	}
}

func panelSettleCmd() tea.Cmd {
	return tea.Tick(panelSettleDelay, func(time.Time) tea.Msg {
		return panelSettledMsg{}
	})
}

// --- update ---

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true
		return m, nil

	case spinner.TickMsg:
		if !m.busy() {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case panelSettledMsg:
		m.panelFlash = false
		return m, nil

	case authResultMsg:
		if msg.gen != m.sessionGen {
			return m, nil
		}
		m.authing = false
		if msg.err != nil {
			m.errorText = "Error: " + msg.err.Error()
			m.statusText = "Sign-in did not complete."
			return m, nil
		}
		sess := msg.sess
		m.sess = &sess
		m.sessionGen++
		m.errorText = ""
		m.screen = screenApp
		m.authInputs[authFieldPassword].SetValue("")
		m.statusText = "Welcome, " + sess.Username + "."
		panelCmd := m.showPanel("dashboard")
		return m, tea.Batch(persistSessionCmd(m.store, sess), panelCmd)

	case sessionSavedMsg:
		if msg.err != nil {
			m.errorText = "Could not persist session: " + msg.err.Error()
		}
		return m, nil

	case sessionClearedMsg:
		if msg.err != nil {
			m.errorText = "Could not clear stored session: " + msg.err.Error()
		}
		return m, nil

	case entrySavedMsg:
		if msg.gen != m.sessionGen {
			return m, nil
		}
		m.savingEntry = false
		if msg.err != nil {
			m.errorText = "Save failed: " + msg.err.Error() + ". Your inputs are unchanged; retry when ready."
			return m, nil
		}
		m.errorText = ""
		m.statusText = "Entry saved."
		resetEntryInputs(m.entryInputs, today())
		m.entryFocus = 0
		m.applyEntryFocus()
		if m.sess == nil {
			return m, nil
		}
		m.statsLoading = true
		return m, tea.Batch(m.spinner.Tick, loadStatsCmd(m.endpoint(), *m.sess, m.sessionGen))

	case darSavedMsg:
		if msg.gen != m.sessionGen {
			return m, nil
		}
		m.savingDAR = false
		saved := 0
		failures := make([]darRowResult, 0)
		for _, result := range msg.results {
			if result.err == nil {
				saved++
			} else {
				failures = append(failures, result)
			}
		}
		if len(failures) == 0 {
			m.errorText = ""
			m.statusText = fmt.Sprintf("Saved %d DAR row(s).", saved)
			m.darRows = []darRowInputs{newDARRow()}
			m.darFocus = 0
			m.applyDARFocus()
			return m, nil
		}
		// Drop the rows that landed so a retry cannot append them twice.
		m.darRows = pruneSavedDARRows(m.darRows, msg.results)
		m.darFocus = 0
		m.applyDARFocus()
		first := failures[0]
		m.errorText = fmt.Sprintf(
			"Saved %d of %d DAR row(s); row %d failed: %s. Only the failed rows are kept for retry.",
			saved, len(msg.results), first.index+1, first.err.Error(),
		)
		return m, nil

	case historyLoadedMsg:
		if msg.gen != m.sessionGen || msg.kind != m.historyKind {
			return m, nil
		}
		m.historyLoading = false
		if msg.err != nil {
			m.historyLoaded = false
			m.errorText = "Could not load history: " + msg.err.Error()
			return m, nil
		}
		m.errorText = ""
		m.historyLoaded = true
		m.historyEmpty = len(msg.result.Rows) == 0
		if !m.historyEmpty {
			m.historyTable = buildHistoryTable(msg.result, m.styles, m.historyTableHeight())
		}
		m.statusText = fmt.Sprintf("Loaded %d history row(s).", len(msg.result.Rows))
		return m, nil

	case statsLoadedMsg:
		if msg.gen != m.sessionGen {
			return m, nil
		}
		m.statsLoading = false
		if msg.err != nil {
			m.errorText = "Could not refresh stats: " + msg.err.Error()
			return m, nil
		}
		m.stats = msg.stats
		m.statsLoaded = true
		return m, nil

	case themeSavedMsg:
		if msg.err != nil {
			m.errorText = "Could not save theme preference: " + msg.err.Error()
		}
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		return m, tea.Quit
	case "ctrl+t":
		m.themeName = toggledTheme(m.themeName)
		m.styles = newStyles(m.themeName)
		m.spinner.Style = m.styles.status
		m.statusText = "Theme: " + m.themeName
		return m, saveThemeCmd(m.store, m.themeName)
	}
	if m.screen == screenAuth {
		return m.handleAuthKey(msg)
	}
	return m.handleAppKey(msg)
}

func (m Model) handleAuthKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "tab", "down":
		m.authFocus = (m.authFocus + 1) % len(m.authInputs)
		m.applyAuthFocus()
		return m, nil
	case "shift+tab", "up":
		m.authFocus = (m.authFocus + len(m.authInputs) - 1) % len(m.authInputs)
		m.applyAuthFocus()
		return m, nil
	case "enter":
		return m.startAuth(false)
	case "ctrl+s":
		return m.startAuth(true)
	}

	var cmd tea.Cmd
	m.authInputs[m.authFocus], cmd = m.authInputs[m.authFocus].Update(msg)
	return m, cmd
}

// startAuth validates the form and dispatches login or signup. Validation
// failures never reach the network.
func (m Model) startAuth(signup bool) (tea.Model, tea.Cmd) {
	if m.authing {
		m.errorText = "Sign-in already in progress."
		return m, nil
	}

	endpoint := strings.TrimSpace(m.authInputs[authFieldEndpoint].Value())
	username := strings.TrimSpace(m.authInputs[authFieldUsername].Value())
	password := m.authInputs[authFieldPassword].Value()

	if endpoint == "" || username == "" || password == "" {
		m.errorText = "Please fill in the script URL, username, and password."
		return m, nil
	}
	if !api.ValidEndpoint(endpoint) {
		m.errorText = "Invalid URL. Must be a Google Apps Script web app URL."
		return m, nil
	}

	m.errorText = ""
	m.authing = true
	if signup {
		m.statusText = "Creating account..."
		return m, tea.Batch(m.spinner.Tick, signupCmd(endpoint, username, password, m.sessionGen))
	}
	m.statusText = "Signing in..."
	return m, tea.Batch(m.spinner.Tick, loginCmd(endpoint, username, password, m.sessionGen))
}

func (m Model) handleAppKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "f1":
		cmd := m.showPanel("dashboard")
		return m, cmd
	case "f2":
		cmd := m.showPanel("entry")
		return m, cmd
	case "f3":
		cmd := m.showPanel("dar")
		return m, cmd
	case "f4":
		cmd := m.showPanel("history")
		return m, cmd
	case "ctrl+n":
		next := panelOrder[(int(m.panel)+1)%len(panelOrder)]
		cmd := m.showPanel(panelName(next))
		return m, cmd
	case "ctrl+x":
		return m.logout()
	case "ctrl+r":
		cmd := m.refreshActivePanel()
		return m, cmd
	}

	switch m.panel {
	case panelEntry:
		return m.handleEntryKey(msg)
	case panelDAR:
		return m.handleDARKey(msg)
	case panelHistory:
		return m.handleHistoryKey(msg)
	default:
		return m, nil
	}
}

// logout drops the session locally: clear the store, forget the in-memory
// record, bump the generation so in-flight results are ignored. No network.
func (m Model) logout() (tea.Model, tea.Cmd) {
	m.sess = nil
	m.sessionGen++
	m.screen = screenAuth
	m.authing = false
	m.savingEntry = false
	m.savingDAR = false
	m.historyLoading = false
	m.historyLoaded = false
	m.statsLoading = false
	m.statsLoaded = false
	m.authInputs[authFieldPassword].SetValue("")
	m.authFocus = authFieldUsername
	m.applyAuthFocus()
	m.errorText = ""
	m.statusText = "Signed out."
	return m, clearSessionCmd(m.store)
}

func (m *Model) refreshActivePanel() tea.Cmd {
	if m.sess == nil {
		return nil
	}
	switch m.panel {
	case panelDashboard:
		m.statsLoading = true
		m.statusText = "Refreshing stats..."
		return tea.Batch(m.spinner.Tick, loadStatsCmd(m.endpoint(), *m.sess, m.sessionGen))
	case panelHistory:
		m.historyLoading = true
		m.statusText = "Loading history..."
		return tea.Batch(m.spinner.Tick, loadHistoryCmd(m.endpoint(), *m.sess, m.historyKind, m.sessionGen))
	default:
		return nil
	}
}

// showPanel activates the named panel exclusively. Unknown names are a
// no-op. The settle tick is cosmetic; the data load dispatches in the same
// batch and never waits for it.
func (m *Model) showPanel(name string) tea.Cmd {
	target, ok := panelsByName[strings.TrimSpace(name)]
	if !ok {
		return nil
	}
	m.panel = target
	m.panelFlash = true
	cmds := []tea.Cmd{panelSettleCmd()}

	switch target {
	case panelEntry:
		m.applyEntryFocus()
	case panelDAR:
		m.applyDARFocus()
	case panelDashboard:
		if m.sess != nil && !m.statsLoading {
			m.statsLoading = true
			cmds = append(cmds, m.spinner.Tick, loadStatsCmd(m.endpoint(), *m.sess, m.sessionGen))
		}
	case panelHistory:
		if m.sess != nil {
			m.historyLoading = true
			m.historyLoaded = false
			m.statusText = "Loading history..."
			cmds = append(cmds, m.spinner.Tick, loadHistoryCmd(m.endpoint(), *m.sess, m.historyKind, m.sessionGen))
		}
	}
	return tea.Batch(cmds...)
}

func panelName(p panel) string {
	switch p {
	case panelDashboard:
		return "dashboard"
	case panelEntry:
		return "entry"
	case panelDAR:
		return "dar"
	case panelHistory:
		return "history"
	default:
		return ""
	}
}

func (m Model) handleEntryKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "tab", "down":
		m.entryFocus = (m.entryFocus + 1) % len(m.entryInputs)
		m.applyEntryFocus()
		return m, nil
	case "shift+tab", "up":
		m.entryFocus = (m.entryFocus + len(m.entryInputs) - 1) % len(m.entryInputs)
		m.applyEntryFocus()
		return m, nil
	case "enter":
		return m.submitEntry()
	}

	var cmd tea.Cmd
	m.entryInputs[m.entryFocus], cmd = m.entryInputs[m.entryFocus].Update(msg)
	return m, cmd
}

func (m Model) submitEntry() (tea.Model, tea.Cmd) {
	if m.sess == nil {
		return m, nil
	}
	if m.savingEntry {
		m.errorText = "An entry save is already in progress."
		return m, nil
	}
	record := captureEntry(m.entryInputs)
	m.savingEntry = true
	m.errorText = ""
	m.statusText = "Saving entry..."
	return m, tea.Batch(m.spinner.Tick, saveEntryCmd(m.endpoint(), *m.sess, record, m.sessionGen))
}

func (m Model) handleDARKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	total := len(m.darRows) * darColumns
	switch msg.String() {
	case "tab", "down":
		m.darFocus = (m.darFocus + 1) % total
		m.applyDARFocus()
		return m, nil
	case "shift+tab", "up":
		m.darFocus = (m.darFocus + total - 1) % total
		m.applyDARFocus()
		return m, nil
	case "ctrl+o":
		m.darRows = append(m.darRows, newDARRow())
		m.darFocus = (len(m.darRows) - 1) * darColumns
		m.applyDARFocus()
		m.statusText = fmt.Sprintf("Added DAR row %d.", len(m.darRows))
		return m, nil
	case "enter":
		return m.submitDAR()
	}

	row := m.darFocus / darColumns
	column := m.darFocus % darColumns
	var cmd tea.Cmd
	input := m.darRows[row].input(column)
	*input, cmd = input.Update(msg)
	return m, cmd
}

func (m Model) submitDAR() (tea.Model, tea.Cmd) {
	if m.sess == nil {
		return m, nil
	}
	if m.savingDAR {
		m.errorText = "A DAR save is already in progress."
		return m, nil
	}
	rows := captureDARRows(m.darRows)
	if len(rows) == 0 {
		m.errorText = "Add at least one DAR row before saving."
		return m, nil
	}
	m.savingDAR = true
	m.errorText = ""
	m.statusText = fmt.Sprintf("Saving %d DAR row(s)...", len(rows))
	return m, tea.Batch(m.spinner.Tick, saveDARCmd(m.endpoint(), *m.sess, rows, m.sessionGen))
}

func (m Model) handleHistoryKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "left", "right":
		if m.historyKind == historyKindCRM {
			m.historyKind = historyKindDAR
		} else {
			m.historyKind = historyKindCRM
		}
		if m.sess == nil {
			return m, nil
		}
		m.historyLoading = true
		m.historyLoaded = false
		m.statusText = "Loading history..."
		return m, tea.Batch(m.spinner.Tick, loadHistoryCmd(m.endpoint(), *m.sess, m.historyKind, m.sessionGen))
	}

	if m.historyLoaded && !m.historyEmpty {
		var cmd tea.Cmd
		m.historyTable, cmd = m.historyTable.Update(msg)
		return m, cmd
	}
	return m, nil
}

// --- focus plumbing ---

func (m *Model) applyAuthFocus() {
	for idx := range m.authInputs {
		if idx == m.authFocus {
			m.authInputs[idx].Focus()
		} else {
			m.authInputs[idx].Blur()
		}
	}
}

func (m *Model) applyEntryFocus() {
	for idx := range m.entryInputs {
		if idx == m.entryFocus {
			m.entryInputs[idx].Focus()
		} else {
			m.entryInputs[idx].Blur()
		}
	}
}

func (m *Model) applyDARFocus() {
	for rowIdx := range m.darRows {
		for column := 0; column < darColumns; column++ {
			input := m.darRows[rowIdx].input(column)
			if rowIdx*darColumns+column == m.darFocus {
				input.Focus()
			} else {
				input.Blur()
			}
		}
	}
}

func (m Model) historyTableHeight() int {
	return clampInt(m.height-14, 5, 20)
}

// --- view ---

func (m Model) View() string {
	if !m.ready {
		return "Starting crm-gemini..."
	}

	innerWidth := maxInt(50, m.width-2)
	innerHeight := maxInt(14, m.height-2)

	header := m.styles.header.Render("CRM Gemini")

	statusPrefix := "*"
	if m.busy() {
		statusPrefix = m.spinner.View()
	}
	statusBody := strings.TrimSpace(m.statusText)
	if statusBody == "" {
		statusBody = "Ready"
	}
	statusLine := m.styles.status.Render(statusPrefix + " " + statusBody)
	if strings.TrimSpace(m.errorText) != "" {
		statusLine = m.styles.errorLine.Render(m.errorText)
	}

	var body string
	if m.screen == screenAuth {
		body = m.authView(innerWidth)
	} else {
		body = m.appView(innerWidth)
	}

	content := strings.Join([]string{header, statusLine, body}, "\n")
	content = fitTextHeight(content, innerHeight)
	return m.styles.screen.
		Width(innerWidth).
		Height(innerHeight).
		Render(content)
}

func (m Model) authView(width int) string {
	lines := []string{
		m.styles.label.Render("Script URL"),
		m.authInputs[authFieldEndpoint].View(),
		"",
		m.styles.label.Render("Username"),
		m.authInputs[authFieldUsername].View(),
		"",
		m.styles.label.Render("Password"),
		m.authInputs[authFieldPassword].View(),
	}
	panelBody := strings.Join(lines, "\n")
	authPanel := m.renderPanel("Sign In", panelBody, clampInt(width-4, 48, 72), 10, true)
	help := m.styles.help.Render("enter sign in | ctrl+s create account | tab next field | ctrl+t theme | ctrl+c quit")
	return authPanel + "\n" + help
}

func (m Model) appView(width int) string {
	tabs := make([]string, 0, len(panelOrder))
	for idx, p := range panelOrder {
		label := fmt.Sprintf("[F%d] %s", idx+1, panelLabel(p))
		if p == m.panel {
			tabs = append(tabs, m.styles.navActive.Render(label))
		} else {
			tabs = append(tabs, m.styles.navIdle.Render(label))
		}
	}
	nav := strings.Join(tabs, "  ")

	var body string
	switch m.panel {
	case panelDashboard:
		body = m.dashboardView(width)
	case panelEntry:
		body = m.entryView(width)
	case panelDAR:
		body = m.darView(width)
	case panelHistory:
		body = m.historyView(width)
	}

	help := m.styles.help.Render("f1-f4 panels | ctrl+n next panel | ctrl+t theme | ctrl+x sign out | ctrl+c quit")
	return nav + "\n" + body + "\n" + help
}

func (m Model) dashboardView(width int) string {
	var lines []string
	switch {
	case m.statsLoading && !m.statsLoaded:
		lines = []string{"Loading stats..."}
	case !m.statsLoaded:
		lines = []string{"Stats are not loaded yet. Press ctrl+r to refresh."}
	default:
		lines = []string{
			fmt.Sprintf("%s %d", m.styles.label.Render("Entries logged:      "), m.stats.Entries),
			fmt.Sprintf("%s %d", m.styles.label.Render("Connections sent:    "), m.stats.ConnectionsSent),
			fmt.Sprintf("%s %d", m.styles.label.Render("Connections accepted:"), m.stats.Accepted),
			fmt.Sprintf("%s %s", m.styles.label.Render("Conversion rate:     "), m.stats.ConversionRate()),
			fmt.Sprintf("%s %d", m.styles.label.Render("Replies received:    "), m.stats.Replies),
			fmt.Sprintf("%s %d", m.styles.label.Render("Calls booked:        "), m.stats.CallsBooked),
		}
	}
	username := ""
	if m.sess != nil {
		username = m.sess.Username
	}
	title := "Dashboard"
	if username != "" {
		title = "Dashboard - " + username
	}
	return m.renderPanel(title, strings.Join(lines, "\n"), clampInt(width-4, 48, 80), 8, m.panelFlash)
}

func (m Model) entryView(width int) string {
	lines := make([]string, 0, len(m.entryInputs))
	for idx, spec := range entryFieldSpecs {
		label := fmt.Sprintf("%-22s", spec.label)
		lines = append(lines, m.styles.label.Render(label)+" "+m.entryInputs[idx].View())
	}
	body := strings.Join(lines, "\n")
	body += "\n" + m.styles.help.Render("enter save entry | tab/shift+tab move between fields")
	return m.renderPanel("New Outreach Entry", body, clampInt(width-4, 60, 100), len(m.entryInputs)+2, m.panelFlash)
}

func (m Model) darView(width int) string {
	lines := []string{
		m.styles.label.Render(fmt.Sprintf("%-14s %-42s %s", "Date", "Activity", "Hours")),
	}
	for _, row := range m.darRows {
		lines = append(lines, row.date.View()+"  "+row.activity.View()+"  "+row.hours.View())
	}
	body := strings.Join(lines, "\n")
	body += "\n" + m.styles.help.Render("enter save all rows | ctrl+o add row | tab/shift+tab move between fields")
	return m.renderPanel("Daily Activity Report", body, clampInt(width-4, 60, 100), len(m.darRows)+4, m.panelFlash)
}

func (m Model) historyView(width int) string {
	kindLabel := "Outreach entries"
	if m.historyKind == historyKindDAR {
		kindLabel = "Daily activity reports"
	}

	var body string
	switch {
	case m.historyLoading:
		body = "Loading history..."
	case !m.historyLoaded:
		body = "Press ctrl+r to load history."
	case m.historyEmpty:
		body = "No history found."
	default:
		body = m.historyTable.View()
	}

	body = m.styles.label.Render(kindLabel+" (left/right to switch)") + "\n" + body
	return m.renderPanel("History", body, clampInt(width-4, 60, 120), m.historyTableHeight()+3, m.panelFlash)
}

func (m Model) renderPanel(title, body string, width, height int, highlighted bool) string {
	style := m.styles.panel.
		Width(width).
		Height(height)
	if highlighted {
		style = style.BorderForeground(m.styles.panelTitle.GetForeground())
	}
	titleLine := m.styles.panelTitle.Render(title)
	return style.Render(titleLine + "\n" + body)
}

// --- small helpers ---

func fitTextHeight(text string, height int) string {
	if height <= 0 {
		return ""
	}
	lines := strings.Split(text, "\n")
	if len(lines) > height {
		lines = lines[:height]
	}
	for len(lines) < height {
		lines = append(lines, "")
	}
	return strings.Join(lines, "\n")
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func clampInt(v, low, high int) int {
	if v < low {
		return low
	}
	if v > high {
		return high
	}
	return v
}
