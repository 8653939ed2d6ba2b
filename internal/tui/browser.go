// SPDX-License-Identifier: Apache-2.0

package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/mlevkov/go-vault-client/internal/service"
	"github.com/mlevkov/go-vault-client/models"
)

type browserScreen int

const (
	screenList browserScreen = iota
	screenDetail
)

// browserModel is the Bubble Tea model for the unlocked vault: a filterable
// account list and a per-account detail screen with clipboard copy. The
// vault snapshot is replaced wholesale after every sync; the model never
// mutates it.
type browserModel struct {
	ctx      context.Context
	services *service.Services
	sess     models.Session
	keys     models.KeyPair

	vault   *models.Vault
	screen  browserScreen
	cursor  int
	filter  string
	syncing bool
	status  string
	errMsg  string
	logout  bool
}

func newBrowserModel(ctx context.Context, services *service.Services, sess models.Session, keys models.KeyPair) *browserModel {
	return &browserModel{ctx: ctx, services: services, sess: sess, keys: keys}
}

// Init implements [tea.Model]. Kicks off the first vault load.
func (m *browserModel) Init() tea.Cmd {
	m.syncing = true
	return m.cmdSync()
}

// Update implements [tea.Model].
func (m *browserModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case vaultLoadedMsg:
		m.syncing = false
		if msg.err != nil {
			m.errMsg = msg.err.Error()
			return m, nil
		}
		m.errMsg = ""
		m.vault = msg.vault
		if m.cursor >= len(m.visible()) {
			m.cursor = 0
		}
		return m, nil

	case copiedMsg:
		m.status = msg.what + " copied to clipboard"
		return m, tea.Tick(3*time.Second, func(time.Time) tea.Msg { return clearStatusMsg{} })

	case clearStatusMsg:
		m.status = ""
		return m, nil

	case tea.KeyMsg:
		if m.screen == screenDetail {
			return m.updateDetail(msg)
		}
		return m.updateList(msg)
	}

	return m, nil
}

func (m *browserModel) updateList(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	items := m.visible()

	switch msg.String() {
	case "ctrl+c", "q":
		return m, tea.Quit
	case "ctrl+l":
		m.logout = true
		return m, tea.Quit
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(items)-1 {
			m.cursor++
		}
	case "enter":
		if len(items) > 0 {
			m.screen = screenDetail
		}
	case "ctrl+r":
		if !m.syncing {
			m.syncing = true
			return m, m.cmdSync()
		}
	case "backspace":
		if m.filter != "" {
			m.filter = m.filter[:len(m.filter)-1]
			m.cursor = 0
		}
	default:
		if len(msg.String()) == 1 {
			m.filter += msg.String()
			m.cursor = 0
		}
	}

	return m, nil
}

func (m *browserModel) updateDetail(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	acct := m.selected()
	if acct == nil {
		m.screen = screenList
		return m, nil
	}

	switch msg.String() {
	case "ctrl+c", "q", "esc":
		m.screen = screenList
	case "p":
		return m, cmdCopy("Password", acct.Password)
	case "u":
		return m, cmdCopy("Username", acct.Username)
	case "o":
		return m, cmdCopy("URL", acct.URL)
	}

	return m, nil
}

// View implements [tea.Model].
func (m *browserModel) View() string {
	if m.screen == screenDetail {
		return m.viewDetail()
	}
	return m.viewList()
}

func (m *browserModel) viewList() string {
	var b strings.Builder

	if m.filter != "" {
		b.WriteString("Filter: " + m.filter + "\n\n")
	}

	items := m.visible()
	if len(items) == 0 {
		if m.syncing {
			b.WriteString("Loading vault...\n")
		} else {
			b.WriteString("No accounts.\n")
		}
	}
	for i, acct := range items {
		line := fmt.Sprintf("%-40s %s", acct.Fullname, acct.Username)
		if acct.ShareID != "" {
			line += sharedStyle.Render("  [shared]")
		}
		if i == m.cursor {
			b.WriteString(cursorStyle.Render("> " + line))
		} else {
			b.WriteString("  " + line)
		}
		b.WriteString("\n")
	}

	if m.syncing && len(items) > 0 {
		b.WriteString("\nSyncing...\n")
	}
	if m.status != "" {
		b.WriteString("\n" + m.status + "\n")
	}
	if m.errMsg != "" {
		b.WriteString("\n" + errorStyle.Render("Error: "+m.errMsg) + "\n")
	}

	return renderPage("VAULT", strings.TrimRight(b.String(), "\n"),
		"type: filter │ enter: open │ ctrl+r: sync │ ctrl+l: logout │ q: quit")
}

func (m *browserModel) viewDetail() string {
	acct := m.selected()
	if acct == nil {
		return renderPage("ACCOUNT", "gone", "esc: back")
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Name      │ %s\n", acct.Fullname)
	fmt.Fprintf(&b, "Username  │ %s\n", acct.Username)
	fmt.Fprintf(&b, "Password  │ %s\n", strings.Repeat("*", len(acct.Password)))
	fmt.Fprintf(&b, "URL       │ %s\n", acct.URL)
	if acct.Notes != "" {
		fmt.Fprintf(&b, "Notes     │ %s\n", acct.Notes)
	}
	for _, f := range acct.Fields {
		fmt.Fprintf(&b, "%-9s │ %s\n", f.Name, f.Value)
	}
	if n := len(acct.Attachments); n > 0 {
		fmt.Fprintf(&b, "\n%d attachment(s)\n", n)
	}

	if m.status != "" {
		b.WriteString("\n" + m.status + "\n")
	}

	return renderPage("ACCOUNT", strings.TrimRight(b.String(), "\n"),
		"p: copy password │ u: copy username │ o: copy url │ esc: back")
}

// visible applies the live filter against name and username.
func (m *browserModel) visible() []models.Account {
	if m.vault == nil {
		return nil
	}
	if m.filter == "" {
		return m.vault.Accounts
	}

	needle := strings.ToLower(m.filter)
	var out []models.Account
	for _, acct := range m.vault.Accounts {
		if strings.Contains(strings.ToLower(acct.Fullname), needle) ||
			strings.Contains(strings.ToLower(acct.Username), needle) {
			out = append(out, acct)
		}
	}
	return out
}

func (m *browserModel) selected() *models.Account {
	items := m.visible()
	if m.cursor < 0 || m.cursor >= len(items) {
		return nil
	}
	return &items[m.cursor]
}

func (m *browserModel) cmdSync() tea.Cmd {
	ctx := m.ctx
	sync := m.services.Sync

	return func() tea.Msg {
		if err := sync.FullSync(ctx); err != nil {
			return vaultLoadedMsg{err: err}
		}
		return vaultLoadedMsg{vault: sync.Vault()}
	}
}

func cmdCopy(what, value string) tea.Cmd {
	return func() tea.Msg {
		if err := clipboard.WriteAll(value); err != nil {
			return vaultLoadedMsg{err: fmt.Errorf("copy to clipboard: %w", err)}
		}
		return copiedMsg{what: what}
	}
}
