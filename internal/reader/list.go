package reader

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/yourEmotion/goonrails/internal/models"
	"go.uber.org/zap"
)

const excerptLen = 140

// cardLines is the rendered height of one card including its margin.
const cardLines = 7

type listKeyMap struct {
	Up   key.Binding
	Down key.Binding
	Open key.Binding
}

var listKeys = listKeyMap{
	Up:   key.NewBinding(key.WithKeys("up", "k")),
	Down: key.NewBinding(key.WithKeys("down", "j")),
	Open: key.NewBinding(key.WithKeys("enter")),
}

// PostsLoadedMsg delivers the list fetch to the screen identified by Token.
type PostsLoadedMsg struct {
	Token int
	Posts []models.Post
	Err   error
}

// ListScreen shows one card per post.
type ListScreen struct {
	src    PostSource
	token  int
	styles Styles
	posts  []models.Post
	cursor int
	width  int
	height int
}

func NewListScreen(src PostSource, token int, styles Styles) *ListScreen {
	return &ListScreen{src: src, token: token, styles: styles}
}

// Init issues the screen's single list request.
func (m *ListScreen) Init() tea.Cmd {
	src, token := m.src, m.token
	return func() tea.Msg {
		posts, err := src.ListPosts(context.Background())
		return PostsLoadedMsg{Token: token, Posts: posts, Err: err}
	}
}

func (m *ListScreen) SetSize(w, h int) {
	m.width = w
	m.height = h
}

// Posts returns the fetched posts, nil until the response arrives.
func (m *ListScreen) Posts() []models.Post { return m.posts }

func (m *ListScreen) Update(msg tea.Msg) (Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case PostsLoadedMsg:
		if msg.Token != m.token {
			return m, nil
		}
		if msg.Err != nil {
			zap.L().Debug("post list fetch failed", zap.Error(msg.Err))
			return m, nil
		}
		m.posts = msg.Posts
		if m.posts == nil {
			m.posts = []models.Post{}
		}
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, listKeys.Up):
			if m.cursor > 0 {
				m.cursor--
			}
		case key.Matches(msg, listKeys.Down):
			if m.cursor < len(m.posts)-1 {
				m.cursor++
			}
		case key.Matches(msg, listKeys.Open):
			if m.cursor < len(m.posts) {
				return m, Navigate(PostPath(m.posts[m.cursor].ID))
			}
		}
	}
	return m, nil
}

func (m *ListScreen) View() string {
	if m.posts == nil {
		return ""
	}
	if len(m.posts) == 0 {
		return m.styles.Placeholder.Render("No posts yet.")
	}

	from, to := m.window()
	cards := make([]string, 0, to-from)
	for i := from; i < to; i++ {
		cards = append(cards, m.card(m.posts[i], i == m.cursor))
	}
	return lipgloss.JoinVertical(lipgloss.Left, cards...)
}

// window picks the cards that fit the height while keeping the cursor visible.
// Without a known height every card is shown.
func (m *ListScreen) window() (int, int) {
	n := len(m.posts)
	if m.height <= 0 {
		return 0, n
	}
	visible := max(1, m.height/cardLines)
	if visible >= n {
		return 0, n
	}
	from := max(0, m.cursor-visible+1)
	return from, min(n, from+visible)
}

func (m *ListScreen) card(p models.Post, selected bool) string {
	style := m.styles.Card
	if selected {
		style = m.styles.SelectedCard
	}
	if m.width > 4 {
		style = style.Width(m.width - 2)
	}
	body := strings.Join([]string{
		m.styles.Title.Render(p.Title),
		m.styles.Subtitle.Render(fmt.Sprintf("by user #%d", p.UserID)),
		m.styles.Body.Render(models.Excerpt(p.Content, excerptLen)),
		m.styles.Link.Render("Details → " + PostPath(p.ID)),
	}, "\n")
	return style.Render(body)
}
