package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"lylebot/internal/contacts"
)

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.renderer = nil // rebuilt lazily at the new width
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		return m.handleKey(msg)

	case contactsMsg:
		m.loading = false
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.err = nil
		m.list = msg.list
		m.pager = m.pager.Clamp(len(m.list))
		m.clampCursor()
		return m, nil

	case mutationDoneMsg:
		m.loading = false
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.err = nil
		m.form.Close()
		m.status = fmt.Sprintf("contact %sd", msg.action)
		// Server is the source of truth: re-fetch instead of patching.
		return m, tea.Batch(m.loadContacts(), m.loadLogs())

	case logsMsg:
		if msg.err != nil {
			// A failed poll keeps the previous feed on screen.
			m.logger.Debug("log poll failed", zap.Error(msg.err))
			return m, nil
		}
		m.logs = msg.lines
		return m, nil

	case logTickMsg:
		cmds := []tea.Cmd{m.tickLogs()}
		if m.page == PageContacts {
			cmds = append(cmds, m.loadLogs())
		}
		return m, tea.Batch(cmds...)

	case emailMsg:
		m.loading = false
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.err = nil
		m.email = msg.result
		m.emailOpen = false
		for i := range m.emailInputs {
			m.emailInputs[i].SetValue("")
		}
		return m, nil

	case answerMsg:
		if msg.err != nil {
			m.transcript.Fail(msg.gen)
			return m, nil
		}
		m.transcript.Fill(msg.gen, msg.answer)
		if len(msg.answer.Sources) > 0 {
			// First cited source drives the viewer pane.
			return m, m.resolveSource(msg.gen, msg.answer.Sources[0])
		}
		return m, nil

	case sourceMsg:
		if msg.err != nil {
			// A failure anywhere in the fetch chain collapses the turn to
			// the fixed error text; the viewer keeps its previous content.
			m.logger.Debug("source resolution failed",
				zap.String("doc_id", msg.source.DocID), zap.Error(msg.err))
			m.transcript.Fail(msg.gen)
			return m, nil
		}
		m.transcript.SetViewer(msg.gen, msg.source, msg.url)
		return m, nil

	case filesMsg:
		m.loading = false
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.err = nil
		m.files = msg.files
		if m.fileCursor >= len(m.files) {
			m.fileCursor = len(m.files) - 1
		}
		if m.fileCursor < 0 {
			m.fileCursor = 0
		}
		return m, nil

	case fileOpMsg:
		m.loading = false
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.err = nil
		m.status = fmt.Sprintf("%s: %s ok", msg.action, msg.name)
		return m, m.loadFiles()
	}

	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.Type == tea.KeyCtrlC {
		return m, tea.Quit
	}

	if m.modalOpen() {
		return m.updateModal(msg)
	}

	// Page switching outside modals.
	switch msg.Type {
	case tea.KeyTab:
		m.page = (m.page + 1) % 3
		m.status = ""
		return m, nil
	case tea.KeyShiftTab:
		m.page = (m.page + 2) % 3
		m.status = ""
		return m, nil
	}

	switch m.page {
	case PageContacts:
		return m.updateContactsPage(msg)
	case PageChat:
		return m.updateChatPage(msg)
	case PageCorpus:
		return m.updateCorpusPage(msg)
	}
	return m, nil
}

func (m Model) updateContactsPage(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// A visible draft panel captures Esc first.
	if m.email != nil && msg.Type == tea.KeyEsc {
		m.email = nil
		return m, nil
	}

	switch msg.String() {
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.pageSlice())-1 {
			m.cursor++
		}
	case "left", "h":
		m.pager = m.pager.Prev()
		m.clampCursor()
	case "right", "l":
		m.pager = m.pager.Next(len(m.list))
		m.clampCursor()
	case "a":
		if m.form.OpenCreate() {
			m.openFormInputs()
		}
	case "e":
		if c, ok := m.selected(); ok && m.form.OpenEdit(c) {
			m.openFormInputs()
		}
	case "d":
		if c, ok := m.selected(); ok {
			m.confirm = &deleteTarget{
				contactID: c.ID,
				name:      fmt.Sprintf("%s %s", c.FirstName, c.LastName),
			}
		}
	case "g":
		m.emailOpen = true
		m.emailFocus = 0
		m.emailInputs[0].Focus()
		m.emailInputs[1].Blur()
	case "r":
		m.loading = true
		return m, tea.Batch(m.loadContacts(), m.loadLogs())
	case "esc":
		m.err = nil
		m.status = ""
	}
	return m, nil
}

// openFormInputs seeds the three field inputs from the freshly opened form.
func (m *Model) openFormInputs() {
	f := m.form.Fields
	values := [3]string{f.FirstName, f.LastName, f.Email}
	for i := range m.formInputs {
		m.formInputs[i].SetValue(values[i])
		m.formInputs[i].Blur()
	}
	m.formFocus = 0
	m.formInputs[0].Focus()
}

func (m Model) updateChatPage(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEnter:
		return m.submitChat(m.chatInput.Value())
	case tea.KeyEsc:
		m.err = nil
		m.status = ""
		return m, nil
	}

	// Digit 1 selects the sample question while the input is empty.
	if msg.String() == "1" && m.chatInput.Value() == "" && !m.suggestionUsed {
		m.suggestionUsed = true
		return m.submitChat(sampleQuestion)
	}

	var cmd tea.Cmd
	m.chatInput, cmd = m.chatInput.Update(msg)
	return m, cmd
}

// submitChat appends the query to the transcript and starts its fetch chain.
func (m Model) submitChat(query string) (tea.Model, tea.Cmd) {
	query = strings.TrimSpace(query)
	if query == "" {
		return m, nil
	}
	gen := m.transcript.Submit(query)
	m.chatInput.SetValue("")
	return m, m.ask(gen, query)
}

func (m Model) updateCorpusPage(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "up", "k":
		if m.fileCursor > 0 {
			m.fileCursor--
		}
	case "down", "j":
		if m.fileCursor < len(m.files)-1 {
			m.fileCursor++
		}
	case "u":
		m.uploadOpen = true
		m.uploadInput.SetValue("")
		m.uploadInput.Focus()
	case "d":
		if m.fileCursor >= 0 && m.fileCursor < len(m.files) {
			f := m.files[m.fileCursor]
			m.confirm = &deleteTarget{docID: f.DocID, name: f.Filename}
		}
	case "r":
		m.loading = true
		return m, m.loadFiles()
	case "esc":
		m.err = nil
		m.status = ""
	}
	return m, nil
}

// updateModal routes keys to whichever modal is open.
func (m Model) updateModal(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case m.confirm != nil:
		return m.updateConfirm(msg)
	case m.form.Active:
		return m.updateForm(msg)
	case m.emailOpen:
		return m.updateEmailPrompt(msg)
	case m.uploadOpen:
		return m.updateUploadPrompt(msg)
	}
	return m, nil
}

// updateConfirm handles the delete confirmation: y commits, esc or n
// cancels, everything else is swallowed.
func (m Model) updateConfirm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "y", "Y":
		target := *m.confirm
		m.confirm = nil
		m.loading = true
		if target.docID != "" {
			return m, m.deleteFile(target.docID, target.name)
		}
		return m, m.deleteContact(target.contactID)

	case "esc", "n", "N":
		m.confirm = nil
		return m, nil
	}
	return m, nil
}

func (m Model) updateForm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.form.Close()
		m.err = nil
		return m, nil

	case tea.KeyTab, tea.KeyDown:
		m.formFocus = (m.formFocus + 1) % len(m.formInputs)
		m.focusFormInput()
		return m, nil

	case tea.KeyShiftTab, tea.KeyUp:
		m.formFocus = (m.formFocus + len(m.formInputs) - 1) % len(m.formInputs)
		m.focusFormInput()
		return m, nil

	case tea.KeyEnter:
		fields := contacts.Fields{
			FirstName: strings.TrimSpace(m.formInputs[0].Value()),
			LastName:  strings.TrimSpace(m.formInputs[1].Value()),
			Email:     strings.TrimSpace(m.formInputs[2].Value()),
		}
		// Presence check aborts before any network call; the form stays
		// open with the error shown.
		if err := fields.Validate(); err != nil {
			m.err = err
			return m, nil
		}
		m.err = nil
		m.loading = true
		return m, m.saveContact(m.form.ID, fields)
	}

	var cmd tea.Cmd
	m.formInputs[m.formFocus], cmd = m.formInputs[m.formFocus].Update(msg)
	return m, cmd
}

func (m *Model) focusFormInput() {
	for i := range m.formInputs {
		if i == m.formFocus {
			m.formInputs[i].Focus()
		} else {
			m.formInputs[i].Blur()
		}
	}
}

func (m Model) updateEmailPrompt(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.emailOpen = false
		m.err = nil
		return m, nil

	case tea.KeyTab, tea.KeyShiftTab, tea.KeyDown, tea.KeyUp:
		m.emailFocus = 1 - m.emailFocus
		for i := range m.emailInputs {
			if i == m.emailFocus {
				m.emailInputs[i].Focus()
			} else {
				m.emailInputs[i].Blur()
			}
		}
		return m, nil

	case tea.KeyEnter:
		query := strings.TrimSpace(m.emailInputs[0].Value())
		purpose := strings.TrimSpace(m.emailInputs[1].Value())
		if query == "" || purpose == "" {
			m.err = contacts.ErrEmptyPrompt
			return m, nil
		}
		m.err = nil
		m.loading = true
		return m, m.generateEmail(query, purpose)
	}

	var cmd tea.Cmd
	m.emailInputs[m.emailFocus], cmd = m.emailInputs[m.emailFocus].Update(msg)
	return m, cmd
}

func (m Model) updateUploadPrompt(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.uploadOpen = false
		m.err = nil
		return m, nil

	case tea.KeyEnter:
		path := strings.TrimSpace(m.uploadInput.Value())
		if path == "" {
			return m, nil
		}
		m.uploadOpen = false
		m.loading = true
		return m, m.uploadFile(path)
	}

	var cmd tea.Cmd
	m.uploadInput, cmd = m.uploadInput.Update(msg)
	return m, cmd
}
