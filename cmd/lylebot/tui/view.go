package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"

	"lylebot/internal/contacts"
	"lylebot/internal/docchat"
)

func (m Model) View() string {
	var sb strings.Builder

	sb.WriteString(m.styles.Header.Render("LyleBot Console"))
	sb.WriteString("\n")
	sb.WriteString(m.renderTabs())
	sb.WriteString("\n\n")

	switch m.page {
	case PageContacts:
		sb.WriteString(m.renderContactsPage())
	case PageChat:
		sb.WriteString(m.renderChatPage())
	case PageCorpus:
		sb.WriteString(m.renderCorpusPage())
	}

	sb.WriteString("\n")
	if m.err != nil {
		sb.WriteString(m.styles.Error.Render("✗ " + m.err.Error()))
		sb.WriteString("\n")
	} else if m.status != "" {
		sb.WriteString(m.styles.Success.Render("✓ " + m.status))
		sb.WriteString("\n")
	}
	if m.loading {
		sb.WriteString(m.spin.View() + m.styles.Muted.Render(" working..."))
		sb.WriteString("\n")
	}

	sb.WriteString(m.styles.Footer.Render(m.footerHelp()))
	return sb.String()
}

func (m Model) renderTabs() string {
	tabs := make([]string, 0, 3)
	for _, p := range []Page{PageContacts, PageChat, PageCorpus} {
		if p == m.page {
			tabs = append(tabs, m.styles.TabActive.Render(p.String()))
		} else {
			tabs = append(tabs, m.styles.TabInactive.Render(p.String()))
		}
	}
	return m.styles.TabBar.Render(lipgloss.JoinHorizontal(lipgloss.Top, tabs...))
}

func (m Model) footerHelp() string {
	if m.confirm != nil {
		return "y: delete · esc: cancel"
	}
	if m.modalOpen() {
		return "enter: submit · tab: next field · esc: cancel"
	}
	switch m.page {
	case PageContacts:
		return "a: add · e: edit · d: delete · g: email · ←/→: page · tab: switch · ctrl+c: quit"
	case PageChat:
		return "enter: send · tab: switch page · ctrl+c: quit"
	case PageCorpus:
		return "u: upload · d: delete · r: refresh · tab: switch · ctrl+c: quit"
	}
	return ""
}

// ---- Contacts page ----

func (m Model) renderContactsPage() string {
	if m.confirm != nil {
		return m.renderConfirm()
	}
	if m.form.Active {
		return m.renderForm()
	}
	if m.emailOpen {
		return m.renderEmailPrompt()
	}

	var sb strings.Builder

	header := fmt.Sprintf("%-4s %-16s %-16s %-28s", "ID", "First Name", "Last Name", "Email")
	sb.WriteString(m.styles.TableHeader.Render(header))
	sb.WriteString("\n")

	page := m.pageSlice()
	if len(page) == 0 {
		sb.WriteString(m.styles.Muted.Render("No contacts yet. Press 'a' to add one."))
		sb.WriteString("\n")
	}
	for i, c := range page {
		row := fmt.Sprintf("%-4d %-16s %-16s %-28s", c.ID, c.FirstName, c.LastName, c.Email)
		if i == m.cursor {
			sb.WriteString(m.styles.TableRowSel.Render(row))
		} else {
			sb.WriteString(m.styles.TableRow.Render(row))
		}
		sb.WriteString("\n")
	}

	total := len(m.list)
	sb.WriteString(m.styles.PageIndicate.Render(
		fmt.Sprintf("Page %d of %d · %d contacts", m.pager.Page, totalPagesFor(m), total)))
	sb.WriteString("\n")

	if m.email != nil {
		sb.WriteString("\n")
		title := fmt.Sprintf("Draft for %s %s <%s>",
			m.email.Contact.FirstName, m.email.Contact.LastName, m.email.Contact.Email)
		sb.WriteString(m.styles.Viewer.Render(
			m.styles.Title.Render(title) + "\n" + m.safeRenderMarkdown(m.email.Content) +
				"\n" + m.styles.Muted.Render("esc: dismiss")))
		sb.WriteString("\n")
	}

	if len(m.logs) > 0 {
		sb.WriteString("\n")
		sb.WriteString(m.styles.Subtitle.Render("Activity"))
		sb.WriteString("\n")
		lines := m.logs
		if len(lines) > 5 {
			lines = lines[len(lines)-5:]
		}
		for _, line := range lines {
			sb.WriteString(m.styles.Muted.Render("  " + line))
			sb.WriteString("\n")
		}
	}

	return sb.String()
}

func totalPagesFor(m Model) int {
	return contacts.TotalPages(len(m.list), m.pager.PerPage)
}

func (m Model) renderForm() string {
	var sb strings.Builder

	title := "New Contact"
	if m.form.IsEdit() {
		title = fmt.Sprintf("Edit Contact #%d", m.form.ID)
	}
	sb.WriteString(m.styles.Title.Render(title))
	sb.WriteString("\n")

	labels := [3]string{"First name", "Last name", "Email"}
	for i := range m.formInputs {
		sb.WriteString(m.styles.FormLabel.Render(labels[i]))
		sb.WriteString("\n")
		sb.WriteString(m.formInputs[i].View())
		sb.WriteString("\n")
	}

	return m.styles.FormFrame.Render(sb.String())
}

func (m Model) renderConfirm() string {
	var sb strings.Builder
	sb.WriteString(m.styles.Title.Render("Confirm Delete"))
	sb.WriteString("\n")
	sb.WriteString(m.styles.Body.Render(fmt.Sprintf("Delete %s?", m.confirm.name)))
	sb.WriteString("\n\n")
	sb.WriteString(m.styles.Warning.Render("y") + m.styles.Muted.Render(": delete  ") +
		m.styles.Bold.Render("esc") + m.styles.Muted.Render(": cancel"))
	return m.styles.FormFrame.Render(sb.String())
}

func (m Model) renderEmailPrompt() string {
	var sb strings.Builder
	sb.WriteString(m.styles.Title.Render("Generate Email"))
	sb.WriteString("\n")

	labels := [2]string{"Who is it for?", "What is it about?"}
	for i := range m.emailInputs {
		sb.WriteString(m.styles.FormLabel.Render(labels[i]))
		sb.WriteString("\n")
		sb.WriteString(m.emailInputs[i].View())
		sb.WriteString("\n")
	}

	return m.styles.FormFrame.Render(sb.String())
}

// ---- Chat page ----

func (m Model) renderChatPage() string {
	var sb strings.Builder

	turns := m.transcript.Turns()
	if len(turns) == 0 {
		sb.WriteString(m.styles.Muted.Render("Ask anything about the uploaded documents."))
		sb.WriteString("\n\n")
	}

	for _, turn := range turns {
		switch {
		case turn.Role == docchat.RoleUser:
			sb.WriteString(m.styles.UserTurn.Render("You: " + turn.Text))
		case turn.Pending:
			sb.WriteString(m.styles.Pending.Render(m.spin.View() + " thinking..."))
		default:
			sb.WriteString(m.styles.BotTurn.Render(m.safeRenderMarkdown(turn.Text)))
			if len(turn.Sources) > 0 {
				names := make([]string, 0, len(turn.Sources))
				for _, s := range turn.Sources {
					names = append(names, s.Name)
				}
				sb.WriteString("\n")
				sb.WriteString(m.styles.Muted.Render("  sources: " + strings.Join(names, ", ")))
			}
		}
		sb.WriteString("\n")
	}

	if src, url, ok := m.transcript.Viewer(); ok {
		sb.WriteString("\n")
		sb.WriteString(m.styles.Viewer.Render(
			m.styles.Bold.Render("Viewing: "+src.Name) + "\n" +
				m.styles.SourceLink.Render(url)))
		sb.WriteString("\n")
	}

	if !m.suggestionUsed {
		sb.WriteString("\n")
		sb.WriteString(m.styles.Badge.Render("[1] " + sampleQuestion))
		sb.WriteString("\n")
	}

	sb.WriteString("\n")
	sb.WriteString(m.styles.Prompt.Render("> "))
	sb.WriteString(m.chatInput.View())
	sb.WriteString("\n")

	return sb.String()
}

// ---- Corpus page ----

func (m Model) renderCorpusPage() string {
	if m.confirm != nil {
		return m.renderConfirm()
	}
	if m.uploadOpen {
		var sb strings.Builder
		sb.WriteString(m.styles.Title.Render("Upload PDF"))
		sb.WriteString("\n")
		sb.WriteString(m.uploadInput.View())
		sb.WriteString("\n")
		return m.styles.FormFrame.Render(sb.String())
	}

	var sb strings.Builder
	sb.WriteString(m.styles.Title.Render("Uploaded Documents"))
	sb.WriteString("\n")

	if len(m.files) == 0 {
		sb.WriteString(m.styles.Muted.Render("Corpus is empty. Press 'u' to upload a PDF."))
		sb.WriteString("\n")
		return sb.String()
	}

	for i, f := range m.files {
		row := fmt.Sprintf("%-28s %s", f.Filename, m.styles.Muted.Render(f.DocID))
		if i == m.fileCursor {
			sb.WriteString(m.styles.TableRowSel.Render(row))
		} else {
			sb.WriteString(m.styles.TableRow.Render(row))
		}
		sb.WriteString("\n")
	}

	return sb.String()
}

// ---- Markdown ----

// safeRenderMarkdown renders markdown with panic recovery; glamour gets
// plain text duty if it misbehaves.
func (m *Model) safeRenderMarkdown(content string) (result string) {
	defer func() {
		if r := recover(); r != nil {
			result = content
		}
	}()

	if m.renderer == nil {
		width := m.width - 8
		if width < 20 {
			width = 80
		}
		r, err := glamour.NewTermRenderer(
			glamour.WithAutoStyle(),
			glamour.WithWordWrap(width),
		)
		if err != nil {
			return content
		}
		m.renderer = r
	}

	rendered, err := m.renderer.Render(content)
	if err != nil {
		return content
	}
	return strings.TrimRight(rendered, "\n")
}
