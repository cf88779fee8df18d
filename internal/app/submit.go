package app

import (
	"context"
	"errors"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/zjrosen/electryonz/internal/flags"
	"github.com/zjrosen/electryonz/internal/log"
	"github.com/zjrosen/electryonz/internal/registration"
	"github.com/zjrosen/electryonz/internal/ui/modal"
	"github.com/zjrosen/electryonz/internal/ui/toaster"
)

// submitDoneMsg carries the registrar's answer back to the update loop,
// together with the payload that was sent.
type submitDoneMsg struct {
	payload registration.Payload
	receipt registration.Receipt
	err     error
}

func sendCmd(ctx context.Context, c *registration.Controller, p registration.Payload) tea.Cmd {
	return func() tea.Msg {
		r, err := c.Send(ctx, p)
		return submitDoneMsg{payload: p, receipt: r, err: err}
	}
}

// startSubmit validates the draft and, when it passes, fires the request.
func (m Model) startSubmit() (tea.Model, tea.Cmd) {
	p, err := m.ctrl.Begin()
	if errors.Is(err, registration.ErrSubmitInFlight) {
		return m, nil
	}

	var verr *registration.ValidationError
	if errors.As(err, &verr) {
		details := make([]string, 0, len(verr.Fields))
		for _, f := range verr.Fields {
			if label, ok := fieldLabels[f]; ok {
				details = append(details, label)
			} else {
				details = append(details, f)
			}
		}
		m.alert = modal.New(modal.Config{
			Title:   "Incomplete registration",
			Message: verr.Error(),
			Details: details,
		})
		m.alert.SetSize(m.width, m.height)
		return m, nil
	}
	if err != nil {
		log.ErrorErr(log.CatSubmit, "submit could not start", err)
		return m, nil
	}

	m.qrArt = ""
	m.receipt = ""
	m.form = m.form.SetLoading(true)
	m = m.refreshFooter().resizeForm()
	return m, tea.Batch(sendCmd(m.ctx, m.ctrl, p), m.spinner.Tick)
}

// finishSubmit records the outcome and tells the user about it.
func (m Model) finishSubmit(msg submitDoneMsg) (tea.Model, tea.Cmd) {
	outcome := m.ctrl.Finish(msg.receipt, msg.err)
	m.form = m.form.SetLoading(false)

	style := toaster.StyleError
	var cmds []tea.Cmd
	if outcome == registration.OutcomeAccepted {
		style = toaster.StyleSuccess
		ref := m.ctrl.QRCodeURL()
		if m.qr != nil && m.flags.Enabled(flags.FlagQRPreview) {
			cmds = append(cmds, m.qr.RenderCmd(m.ctx, ref))
		}
		if m.receipts != nil && m.flags.Enabled(flags.FlagReceiptMarkdown) {
			out, err := m.receipts.Render(receiptMarkdown(msg.payload, ref))
			if err != nil {
				log.ErrorErr(log.CatUI, "receipt render failed", err)
			} else {
				m.receipt = out
			}
		}
	}

	m.toaster = m.toaster.Show(outcome.Message(), style)
	cmds = append(cmds, m.toaster.ScheduleDismiss(m.toastFor))
	m = m.refreshFooter().resizeForm()
	return m, tea.Batch(cmds...)
}
