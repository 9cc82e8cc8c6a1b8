package reader

import (
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"github.com/yourEmotion/goonrails/internal/models"
	"go.uber.org/zap"
)

var backKey = key.NewBinding(key.WithKeys("esc", "backspace", "left", "h"))

// PostLoadedMsg delivers the detail fetch to the screen identified by Token.
type PostLoadedMsg struct {
	Token int
	Post  *models.Post
	Err   error
}

// DetailScreen shows a single post, content rendered as markdown.
type DetailScreen struct {
	src      PostSource
	id       int64
	token    int
	styles   Styles
	glamour  string
	post     *models.Post
	viewport viewport.Model
	width    int
}

func NewDetailScreen(src PostSource, id int64, token int, styles Styles, glamourStyle string) *DetailScreen {
	return &DetailScreen{
		src:      src,
		id:       id,
		token:    token,
		styles:   styles,
		glamour:  glamourStyle,
		viewport: viewport.New(80, 20),
		width:    80,
	}
}

// Init issues the screen's single detail request.
func (m *DetailScreen) Init() tea.Cmd {
	src, id, token := m.src, m.id, m.token
	return func() tea.Msg {
		post, err := src.GetPost(context.Background(), id)
		return PostLoadedMsg{Token: token, Post: post, Err: err}
	}
}

func (m *DetailScreen) SetSize(w, h int) {
	m.width = w
	m.viewport.Width = w
	if h > 0 {
		m.viewport.Height = h
	}
	m.render()
}

// Post returns the fetched post, nil until the response arrives.
func (m *DetailScreen) Post() *models.Post { return m.post }

func (m *DetailScreen) Update(msg tea.Msg) (Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case PostLoadedMsg:
		if msg.Token != m.token {
			return m, nil
		}
		if msg.Err != nil {
			zap.L().Debug("post fetch failed", zap.Int64("id", m.id), zap.Error(msg.Err))
			return m, nil
		}
		m.post = msg.Post
		m.render()
		return m, nil
	case tea.KeyMsg:
		if key.Matches(msg, backKey) {
			return m, Navigate(IndexPath)
		}
	}
	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

func (m *DetailScreen) View() string {
	if m.post == nil {
		return ""
	}
	return m.viewport.View()
}

func (m *DetailScreen) render() {
	if m.post == nil {
		return
	}
	var sb strings.Builder
	sb.WriteString(m.styles.Title.Render(m.post.Title))
	sb.WriteString("\n")
	if !m.post.CreatedAt.IsZero() {
		sb.WriteString(m.styles.Subtitle.Render(m.post.CreatedAt.Format("2006/1/2")))
		sb.WriteString("\n")
	}
	sb.WriteString(m.markdown(m.post.Content))
	m.viewport.SetContent(sb.String())
	m.viewport.GotoTop()
}

// markdown renders content with glamour, falling back to the raw text.
func (m *DetailScreen) markdown(content string) string {
	wrap := m.width - 4
	if wrap < 20 {
		wrap = 20
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithStylePath(m.glamour),
		glamour.WithWordWrap(wrap),
	)
	if err != nil {
		zap.L().Debug("markdown renderer unavailable", zap.Error(err))
		return content
	}
	out, err := r.Render(content)
	if err != nil {
		return content
	}
	return out
}
