package reader

import (
	"fmt"
	"strconv"
	"strings"
)

// Route identifies a screen. ID is set for the detail route only.
type Route struct {
	Path string
	ID   int64
}

func (r Route) IsDetail() bool { return r.ID > 0 }

// IndexPath and PostPath build the two navigable paths.
const IndexPath = "/"

func PostPath(id int64) string { return "/posts/" + strconv.FormatInt(id, 10) }

// ParseRoute accepts "/" and "/posts/:id". A leading "#" is tolerated so
// fragment links from the web front end can be pasted as is.
func ParseRoute(path string) (Route, error) {
	path = strings.TrimPrefix(path, "#")
	if path == "" || path == IndexPath {
		return Route{Path: IndexPath}, nil
	}
	rest, ok := strings.CutPrefix(path, "/posts/")
	if !ok || rest == "" || strings.Contains(rest, "/") {
		return Route{}, fmt.Errorf("unknown route %q", path)
	}
	id, err := strconv.ParseInt(rest, 10, 64)
	if err != nil || id <= 0 {
		return Route{}, fmt.Errorf("bad post id in %q", path)
	}
	return Route{Path: PostPath(id), ID: id}, nil
}
