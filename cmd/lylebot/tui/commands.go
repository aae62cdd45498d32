package tui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"lylebot/internal/contacts"
	"lylebot/internal/docchat"
)

// Command constructors. Each returns a tea.Cmd that performs one network
// round trip and reports back with a typed message. Timeouts live on the
// underlying HTTP clients.

func (m Model) loadContacts() tea.Cmd {
	client := m.contactsClient
	return func() tea.Msg {
		list, err := client.List(context.Background())
		return contactsMsg{list: list, err: err}
	}
}

func (m Model) saveContact(id int, f contacts.Fields) tea.Cmd {
	client := m.contactsClient
	action := "create"
	if id != 0 {
		action = "update"
	}
	return func() tea.Msg {
		err := client.Save(context.Background(), id, f)
		return mutationDoneMsg{action: action, err: err}
	}
}

func (m Model) deleteContact(id int) tea.Cmd {
	client := m.contactsClient
	return func() tea.Msg {
		err := client.Delete(context.Background(), id)
		return mutationDoneMsg{action: "delete", err: err}
	}
}

func (m Model) loadLogs() tea.Cmd {
	client := m.contactsClient
	return func() tea.Msg {
		lines, err := client.Logs(context.Background())
		return logsMsg{lines: lines, err: err}
	}
}

func (m Model) tickLogs() tea.Cmd {
	return tea.Tick(m.pollEvery, func(t time.Time) tea.Msg {
		return logTickMsg(t)
	})
}

func (m Model) generateEmail(query, purpose string) tea.Cmd {
	client := m.contactsClient
	return func() tea.Msg {
		result, err := client.GenerateEmail(context.Background(), query, purpose)
		return emailMsg{result: result, err: err}
	}
}

// ask runs the first phase of the chat chain: fetch the answer for the
// submission tagged gen.
func (m Model) ask(gen int, query string) tea.Cmd {
	client := m.chatClient
	return func() tea.Msg {
		answer, err := client.Ask(context.Background(), query)
		return answerMsg{gen: gen, answer: answer, err: err}
	}
}

// resolveSource runs the second phase: exchange the answer's first source
// for a fresh download URL.
func (m Model) resolveSource(gen int, src docchat.Source) tea.Cmd {
	client := m.chatClient
	return func() tea.Msg {
		url, err := client.ResolveDownload(context.Background(), src.DocID)
		return sourceMsg{gen: gen, source: src, url: url, err: err}
	}
}

func (m Model) loadFiles() tea.Cmd {
	client := m.corpusClient
	return func() tea.Msg {
		files, err := client.List(context.Background())
		return filesMsg{files: files, err: err}
	}
}

func (m Model) uploadFile(path string) tea.Cmd {
	client := m.corpusClient
	return func() tea.Msg {
		_, err := client.UploadPath(context.Background(), path)
		return fileOpMsg{action: "upload", name: path, err: err}
	}
}

func (m Model) deleteFile(docID, name string) tea.Cmd {
	client := m.corpusClient
	return func() tea.Msg {
		err := client.Delete(context.Background(), docID)
		return fileOpMsg{action: "delete", name: name, err: err}
	}
}
