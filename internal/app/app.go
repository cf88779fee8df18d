// Package app contains the root application model.
package app

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/zjrosen/electryonz/internal/flags"
	"github.com/zjrosen/electryonz/internal/keys"
	"github.com/zjrosen/electryonz/internal/log"
	"github.com/zjrosen/electryonz/internal/qrpreview"
	"github.com/zjrosen/electryonz/internal/registration"
	"github.com/zjrosen/electryonz/internal/ui/form"
	"github.com/zjrosen/electryonz/internal/ui/logoverlay"
	"github.com/zjrosen/electryonz/internal/ui/markdown"
	"github.com/zjrosen/electryonz/internal/ui/modal"
	"github.com/zjrosen/electryonz/internal/ui/styles"
	"github.com/zjrosen/electryonz/internal/ui/toaster"
)

const defaultToastDuration = 4 * time.Second

// Services are the collaborators the app model drives.
type Services struct {
	Controller *registration.Controller
	Flags      *flags.Registry
	// QR draws the payment QR in the terminal. Nil disables the preview.
	QR *qrpreview.Renderer
	// Receipts renders the markdown receipt. Nil disables the receipt.
	Receipts      *markdown.Renderer
	ToastDuration time.Duration
	// Debug enables the log overlay.
	Debug bool
}

// Model is the root application state.
type Model struct {
	ctx    context.Context
	cancel context.CancelFunc

	ctrl     *registration.Controller
	flags    *flags.Registry
	qr       *qrpreview.Renderer
	receipts *markdown.Renderer
	toastFor time.Duration

	form       form.Model
	toaster    toaster.Model
	alert      modal.Model
	spinner    spinner.Model
	help       help.Model
	logOverlay logoverlay.Model
	logs       *log.Listener
	debug      bool

	qrArt   string
	receipt string

	width  int
	height int
}

// New builds the root model. Cancelling ctx, or quitting, aborts an
// outstanding registration request.
func New(ctx context.Context, svc Services) Model {
	ctx, cancel := context.WithCancel(ctx)

	sp := spinner.New()
	sp.Spinner = spinner.MiniDot
	sp.Style = lipgloss.NewStyle().Foreground(styles.SpinnerColor)

	toastFor := svc.ToastDuration
	if toastFor <= 0 {
		toastFor = defaultToastDuration
	}

	m := Model{
		ctx:        ctx,
		cancel:     cancel,
		ctrl:       svc.Controller,
		flags:      svc.Flags,
		qr:         svc.QR,
		receipts:   svc.Receipts,
		toastFor:   toastFor,
		form:       form.New(formConfig(svc.Controller.Pricing())),
		toaster:    toaster.New(),
		spinner:    sp,
		help:       help.New(),
		logOverlay: logoverlay.New(),
		debug:      svc.Debug,
	}
	if svc.Debug {
		m.logs = log.NewListener(ctx)
	}
	return m.refreshFooter()
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.form.Init(), m.logs.Listen())
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.alert.SetSize(msg.Width, msg.Height)
		m.logOverlay.SetSize(msg.Width, msg.Height)
		m.help.Width = msg.Width
		m = m.resizeForm()
		return m, nil

	case log.LogEvent:
		m.logOverlay.Refresh()
		return m, m.logs.Listen()

	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.MouseMsg:
		if m.alert.Visible() || m.logOverlay.Visible() {
			return m, nil
		}
		var cmd tea.Cmd
		m.form, cmd = m.form.Update(msg)
		return m, cmd

	case form.ChangeMsg:
		return m.applyChange(msg), nil

	case form.SubmitMsg:
		return m.startSubmit()

	case submitDoneMsg:
		return m.finishSubmit(msg)

	case qrpreview.RenderedMsg:
		if msg.Ref != m.ctrl.QRCodeURL() {
			return m, nil
		}
		if msg.Err != nil {
			log.Warn(log.CatQR, "qr preview unavailable", "error", msg.Err)
			return m, nil
		}
		m.qrArt = msg.Art
		return m.resizeForm(), nil

	case spinner.TickMsg:
		if !m.ctrl.Submitting() {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m.refreshFooter(), cmd

	case toaster.DismissMsg:
		m.toaster = m.toaster.Update(msg)
		return m, nil

	case modal.DismissMsg, logoverlay.ClosedMsg:
		return m, nil
	}

	var cmd tea.Cmd
	m.form, cmd = m.form.Update(msg)
	return m, cmd
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, keys.Form.Quit) {
		m.cancel()
		return m, tea.Quit
	}

	if m.debug && key.Matches(msg, keys.Form.Logs) {
		m.logOverlay.Toggle()
		return m, nil
	}
	if m.logOverlay.Visible() {
		var cmd tea.Cmd
		m.logOverlay, cmd = m.logOverlay.Update(msg)
		return m, cmd
	}

	if m.alert.Visible() {
		var cmd tea.Cmd
		m.alert, cmd = m.alert.Update(msg)
		return m, cmd
	}

	if key.Matches(msg, keys.Form.Help) {
		m.help.ShowAll = !m.help.ShowAll
		return m.resizeForm(), nil
	}

	var cmd tea.Cmd
	m.form, cmd = m.form.Update(msg)
	return m, cmd
}

// refreshFooter redraws the total line under the fields.
func (m Model) refreshFooter() Model {
	line := totalLine(m.ctrl)
	if m.ctrl.Submitting() {
		line += "\n " + m.spinner.View() + " " + styles.HintStyle.Render("Contacting registration service")
	}
	m.form = m.form.SetFooter(line)
	return m
}

// Close cancels background work started by the model.
func (m Model) Close() {
	m.cancel()
}
