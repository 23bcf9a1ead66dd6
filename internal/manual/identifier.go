package manual

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
)

// DefaultPath is the document shown when a route names no path.
const DefaultPath = "/introduction"

// MarkdownExt is the source file extension stripped from routes.
const MarkdownExt = ".md"

// ErrInvalidIdentifier is returned for identifier tokens with an empty name.
var ErrInvalidIdentifier = errors.New("invalid manual identifier")

// Identifier is a manual name with an optional pinned version. An empty
// Version means the latest, unpinned manual.
type Identifier struct {
	Name    string
	Version string
}

// String renders the identifier back into token form.
func (id Identifier) String() string {
	if id.Version == "" {
		return id.Name
	}
	return id.Name + "@" + id.Version
}

// ParseIdentifier splits "name" or "name@version" on the last '@'.
func ParseIdentifier(token string) (Identifier, error) {
	name, version := token, ""
	if i := strings.LastIndex(token, "@"); i >= 0 {
		name, version = token[:i], token[i+1:]
	}
	if name == "" {
		return Identifier{}, fmt.Errorf("%w: %q", ErrInvalidIdentifier, token)
	}
	return Identifier{Name: name, Version: version}, nil
}

// Location is a fully resolved request: which manual, which version and
// which document.
type Location struct {
	Name    string
	Version string
	Path    string
}

// Resolve turns an identifier token and path segments into a Location,
// defaulting an empty path to DefaultPath.
func Resolve(token string, segments []string) (Location, error) {
	return ResolveDefault(token, segments, DefaultPath)
}

// ResolveDefault is Resolve with a caller-chosen default document.
func ResolveDefault(token string, segments []string, defaultPath string) (Location, error) {
	id, err := ParseIdentifier(token)
	if err != nil {
		return Location{}, err
	}
	return Location{Name: id.Name, Version: id.Version, Path: JoinPath(segments, defaultPath)}, nil
}

// JoinPath joins non-empty segments with '/' under a leading '/'.
func JoinPath(segments []string, defaultPath string) string {
	parts := make([]string, 0, len(segments))
	for _, s := range segments {
		for _, p := range strings.Split(s, "/") {
			if p != "" {
				parts = append(parts, p)
			}
		}
	}
	if len(parts) == 0 {
		if defaultPath == "" {
			return DefaultPath
		}
		return defaultPath
	}
	return "/" + strings.Join(parts, "/")
}

// NeedsRedirect reports whether the path still carries the markdown
// extension and must be re-routed before anything is fetched.
func (l Location) NeedsRedirect() bool {
	return strings.HasSuffix(l.Path, MarkdownExt)
}

// Canonical returns the location with the markdown extension stripped.
// Canonical is idempotent.
func (l Location) Canonical() Location {
	for strings.HasSuffix(l.Path, MarkdownExt) {
		l.Path = strings.TrimSuffix(l.Path, MarkdownExt)
	}
	if l.Path == "" || l.Path == "/" {
		l.Path = DefaultPath
	}
	return l
}

// Identifier returns the identifier part of the location.
func (l Location) Identifier() Identifier {
	return Identifier{Name: l.Name, Version: l.Version}
}

// Route returns the route path for the location, e.g. /manual@v1.2.0/a/b.
func (l Location) Route() string {
	return RoutePath(l.Name, l.Version, l.Path)
}

// Segments splits Path back into its segments.
func (l Location) Segments() []string {
	return strings.Split(strings.TrimPrefix(l.Path, "/"), "/")
}

// RoutePath builds /name[@version]path.
func RoutePath(name, version, path string) string {
	id := Identifier{Name: name, Version: version}
	if path != "" && !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return "/" + id.String() + path
}

// ParseRoute parses a route path or URL (/manual@v1/a/b?x#y) into a Location.
func ParseRoute(route string) (Location, error) {
	return ParseRouteDefault(route, DefaultPath)
}

// ParseRouteDefault is ParseRoute with a caller-chosen default document.
func ParseRouteDefault(route, defaultPath string) (Location, error) {
	u, err := url.Parse(route)
	if err != nil {
		return Location{}, fmt.Errorf("parsing route %q: %w", route, err)
	}
	parts := strings.Split(strings.TrimPrefix(u.Path, "/"), "/")
	return ResolveDefault(parts[0], parts[1:], defaultPath)
}
