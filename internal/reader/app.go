// Package reader is a terminal front end for a post store: a post list
// screen and a post detail screen, each fetching once when it is shown.
package reader

import (
	"context"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/yourEmotion/goonrails/internal/models"
	"go.uber.org/zap"
)

// PostSource is where screens read posts from.
type PostSource interface {
	ListPosts(ctx context.Context) ([]models.Post, error)
	GetPost(ctx context.Context, id int64) (*models.Post, error)
}

// Screen is one route's view. A screen is created on navigation and dropped
// when the user navigates away, together with the posts it fetched.
type Screen interface {
	Init() tea.Cmd
	Update(tea.Msg) (Screen, tea.Cmd)
	View() string
	SetSize(width, height int)
}

// NavigateMsg switches the app to Path.
type NavigateMsg struct {
	Path string
}

// Navigate returns a command that switches to path.
func Navigate(path string) tea.Cmd {
	return func() tea.Msg { return NavigateMsg{Path: path} }
}

// Options tune rendering. Zero values select defaults.
type Options struct {
	Styles       *Styles
	GlamourStyle string
}

// App is the root Bubble Tea model.
type App struct {
	src     PostSource
	styles  Styles
	glamour string
	route   Route
	screen  Screen
	seq     int
	width   int
	height  int
}

// New returns an app positioned on start ("/" or "/posts/:id").
func New(src PostSource, start string, opts Options) (*App, error) {
	route, err := ParseRoute(start)
	if err != nil {
		return nil, err
	}
	a := &App{src: src, styles: DefaultStyles(), glamour: opts.GlamourStyle}
	if opts.Styles != nil {
		a.styles = *opts.Styles
	}
	if a.glamour == "" {
		a.glamour = "dark"
	}
	a.mount(route)
	return a, nil
}

// Route reports the current route.
func (a *App) Route() Route { return a.route }

// Screen exposes the mounted screen.
func (a *App) Screen() Screen { return a.screen }

func (a *App) Init() tea.Cmd {
	return a.screen.Init()
}

func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			return a, tea.Quit
		}
	case tea.WindowSizeMsg:
		a.width, a.height = msg.Width, msg.Height
		a.screen.SetSize(a.width, a.bodyHeight())
		return a, nil
	case NavigateMsg:
		route, err := ParseRoute(msg.Path)
		if err != nil {
			zap.L().Debug("ignoring navigation", zap.String("path", msg.Path), zap.Error(err))
			return a, nil
		}
		a.mount(route)
		return a, a.screen.Init()
	}

	var cmd tea.Cmd
	a.screen, cmd = a.screen.Update(msg)
	return a, cmd
}

func (a *App) View() string {
	var sb strings.Builder
	sb.WriteString(a.styles.AppBar.Render("GoOnRails"))
	sb.WriteString("  ")
	sb.WriteString(a.styles.Help.Render(a.route.Path))
	sb.WriteString("\n\n")
	sb.WriteString(a.screen.View())
	sb.WriteString("\n")
	sb.WriteString(a.styles.Help.Render(a.help()))
	return sb.String()
}

func (a *App) help() string {
	if a.route.IsDetail() {
		return "↑/↓ scroll • esc back • q quit"
	}
	return "↑/↓ select • enter details • q quit"
}

// bodyHeight leaves room for the app bar and help line.
func (a *App) bodyHeight() int {
	if a.height <= 4 {
		return 0
	}
	return a.height - 4
}

// mount replaces the current screen. Each screen gets a fresh token so that
// responses addressed to a discarded screen are ignored.
func (a *App) mount(route Route) {
	a.seq++
	a.route = route
	if route.IsDetail() {
		a.screen = NewDetailScreen(a.src, route.ID, a.seq, a.styles, a.glamour)
	} else {
		a.screen = NewListScreen(a.src, a.seq, a.styles)
	}
	if a.width > 0 {
		a.screen.SetSize(a.width, a.bodyHeight())
	}
}
