// SPDX-License-Identifier: Apache-2.0

package tui

import (
	"context"
	"errors"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/mlevkov/go-vault-client/internal/adapter"
	"github.com/mlevkov/go-vault-client/internal/service"
	"github.com/mlevkov/go-vault-client/models"
)

// LoginModel is the Bubble Tea model for the login screen. It renders the
// email and master password inputs, growing a third one-time-code input
// when the server demands two-factor authentication. Submission runs as an
// async command so the PBKDF2 derivation never blocks the render loop.
type LoginModel struct {
	ctx  context.Context
	auth service.AuthService

	inputs     []textinput.Model
	focus      int
	otpNeeded  bool
	submitting bool
	errMsg     string

	quitByUser bool
	session    models.Session
	keys       models.KeyPair
	done       bool
}

// NewLoginModel creates a [LoginModel] with pre-configured email and
// password inputs. The email field receives focus immediately; the
// password field uses masked echo.
func NewLoginModel(ctx context.Context, auth service.AuthService) *LoginModel {
	emailInput := textinput.New()
	emailInput.Placeholder = "email"
	emailInput.CharLimit = 256
	emailInput.Width = 40
	emailInput.Focus()

	passwordInput := textinput.New()
	passwordInput.Placeholder = "master password"
	passwordInput.CharLimit = 256
	passwordInput.Width = 40
	passwordInput.EchoMode = textinput.EchoPassword
	passwordInput.EchoCharacter = '*'

	otpInput := textinput.New()
	otpInput.Placeholder = "one-time code"
	otpInput.CharLimit = 16
	otpInput.Width = 40

	return &LoginModel{
		ctx:    ctx,
		auth:   auth,
		inputs: []textinput.Model{emailInput, passwordInput, otpInput},
	}
}

// Init implements [tea.Model]. Starts the cursor-blink animation.
func (m *LoginModel) Init() tea.Cmd {
	return textinput.Blink
}

// Update implements [tea.Model]. Handled messages:
//   - [loginResultMsg] — finishes the program on success; on a two-factor
//     demand, reveals the OTP input; otherwise shows the error.
//   - esc/ctrl+c      — quits the login flow.
//   - tab/shift+tab   — moves focus between inputs.
//   - enter           — validates inputs and dispatches the async login.
func (m *LoginModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if result, ok := msg.(loginResultMsg); ok {
		m.submitting = false
		switch {
		case result.err == nil:
			m.session = result.session
			m.keys = result.keys
			m.done = true
			return m, tea.Quit
		case errors.Is(result.err, adapter.ErrTwoFactorRequired):
			m.otpNeeded = true
			m.errMsg = "Enter the code from your authenticator"
			m.setFocus(2)
		default:
			m.errMsg = result.err.Error()
		}
		return m, nil
	}

	keyMsg, ok := msg.(tea.KeyMsg)
	if ok {
		switch keyMsg.String() {
		case "esc", "ctrl+c":
			m.quitByUser = true
			return m, tea.Quit
		case "tab":
			m.setFocus((m.focus + 1) % m.visibleInputs())
			return m, nil
		case "shift+tab":
			m.setFocus((m.focus - 1 + m.visibleInputs()) % m.visibleInputs())
			return m, nil
		case "enter":
			if m.submitting {
				return m, nil
			}

			email := strings.TrimSpace(m.inputs[0].Value())
			pass := m.inputs[1].Value()
			if email == "" || pass == "" {
				m.errMsg = "Email and master password are required"
				return m, nil
			}

			m.errMsg = ""
			m.submitting = true
			return m, m.cmdLogin(email, pass, strings.TrimSpace(m.inputs[2].Value()))
		}
	}

	var cmd tea.Cmd
	m.inputs[m.focus], cmd = m.inputs[m.focus].Update(msg)
	return m, cmd
}

// View implements [tea.Model].
func (m *LoginModel) View() string {
	var b strings.Builder
	b.WriteString("Email     │ [")
	b.WriteString(m.inputs[0].View())
	b.WriteString("]\n")
	b.WriteString("Password  │ [")
	b.WriteString(m.inputs[1].View())
	b.WriteString("]\n")
	if m.otpNeeded {
		b.WriteString("Code      │ [")
		b.WriteString(m.inputs[2].View())
		b.WriteString("]\n")
	}

	if m.submitting {
		b.WriteString("\n[Unlocking...]\n")
	} else {
		b.WriteString("\n[Unlock]\n")
	}

	if m.errMsg != "" {
		b.WriteString("\n")
		b.WriteString(errorStyle.Render("Error: " + m.errMsg))
		b.WriteString("\n")
	}

	return renderPage("VAULT LOGIN", strings.TrimRight(b.String(), "\n"),
		"esc: quit │ tab: next field │ enter: unlock")
}

func (m *LoginModel) cmdLogin(email, pass, otp string) tea.Cmd {
	ctx := m.ctx
	auth := m.auth

	return func() tea.Msg {
		sess, keys, err := auth.Login(ctx, email, []byte(pass), otp, true)
		return loginResultMsg{session: sess, keys: keys, err: err}
	}
}

func (m *LoginModel) visibleInputs() int {
	if m.otpNeeded {
		return 3
	}
	return 2
}

func (m *LoginModel) setFocus(i int) {
	m.inputs[m.focus].Blur()
	m.focus = i
	m.inputs[m.focus].Focus()
}
