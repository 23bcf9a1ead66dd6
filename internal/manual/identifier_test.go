package manual

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseIdentifier(t *testing.T) {
	tests := []struct {
		token       string
		wantName    string
		wantVersion string
	}{
		{"manual", "manual", ""},
		{"manual@v1.2.0", "manual", "v1.2.0"},
		{"manual@", "manual", ""},
		{"std@0.50.0", "std", "0.50.0"},
		{"a@b@v1", "a@b", "v1"},
	}
	for _, tt := range tests {
		id, err := ParseIdentifier(tt.token)
		require.NoError(t, err, tt.token)
		assert.Equal(t, tt.wantName, id.Name, tt.token)
		assert.Equal(t, tt.wantVersion, id.Version, tt.token)
	}
}

func TestParseIdentifierRejectsEmptyName(t *testing.T) {
	for _, token := range []string{"", "@v1.0.0"} {
		_, err := ParseIdentifier(token)
		assert.ErrorIs(t, err, ErrInvalidIdentifier, token)
	}
}

func TestIdentifierString(t *testing.T) {
	assert.Equal(t, "manual", Identifier{Name: "manual"}.String())
	assert.Equal(t, "manual@v1.0.0", Identifier{Name: "manual", Version: "v1.0.0"}.String())
}

func TestResolve(t *testing.T) {
	tests := []struct {
		token    string
		segments []string
		want     Location
	}{
		{"manual", nil, Location{Name: "manual", Path: "/introduction"}},
		{"manual@v1.1.0", []string{}, Location{Name: "manual", Version: "v1.1.0", Path: "/introduction"}},
		{"manual", []string{"getting_started", "installation"}, Location{Name: "manual", Path: "/getting_started/installation"}},
		{"manual@v1.0.0", []string{"runtime"}, Location{Name: "manual", Version: "v1.0.0", Path: "/runtime"}},
		{"manual", []string{"", "a", ""}, Location{Name: "manual", Path: "/a"}},
	}
	for _, tt := range tests {
		got, err := Resolve(tt.token, tt.segments)
		require.NoError(t, err)
		assert.Equal(t, tt.want, got)
	}
}

func TestResolveIsIdempotent(t *testing.T) {
	inputs := [][]string{
		nil,
		{"a"},
		{"a", "b"},
		{"a", "b.md"},
		{"getting_started", "first_steps.md"},
		{"x/y", "z"},
	}
	for _, segs := range inputs {
		first, err := Resolve("manual@v1.0.0", segs)
		require.NoError(t, err)
		first = first.Canonical()

		second, err := Resolve(first.Identifier().String(), first.Segments())
		require.NoError(t, err)
		second = second.Canonical()

		assert.Equal(t, first, second, "segments %v", segs)
	}
}

func TestRedirectNormalization(t *testing.T) {
	loc, err := Resolve("manual@v1.2.0", []string{"getting_started", "setup.md"})
	require.NoError(t, err)
	require.True(t, loc.NeedsRedirect())

	canon := loc.Canonical()
	assert.False(t, canon.NeedsRedirect())
	assert.Equal(t, "/getting_started/setup", canon.Path)
	assert.Equal(t, "/manual@v1.2.0/getting_started/setup", canon.Route())
	assert.Equal(t, canon, canon.Canonical())

	bare := Location{Name: "manual", Path: "/.md"}.Canonical()
	assert.Equal(t, DefaultPath, bare.Path)
}

func TestRoutePath(t *testing.T) {
	assert.Equal(t, "/manual/introduction", RoutePath("manual", "", "/introduction"))
	assert.Equal(t, "/manual@v1.0.0/a/b", RoutePath("manual", "v1.0.0", "/a/b"))
	assert.Equal(t, "/manual@v1.0.0/a", RoutePath("manual", "v1.0.0", "a"))
}

func TestParseRoute(t *testing.T) {
	loc, err := ParseRoute("/manual@v1.1.0/runtime/workers?x=1#top")
	require.NoError(t, err)
	assert.Equal(t, Location{Name: "manual", Version: "v1.1.0", Path: "/runtime/workers"}, loc)

	loc, err = ParseRoute("http://localhost:8080/manual")
	require.NoError(t, err)
	assert.Equal(t, Location{Name: "manual", Path: DefaultPath}, loc)

	loc, err = ParseRouteDefault("/guide", "/start")
	require.NoError(t, err)
	assert.Equal(t, "/start", loc.Path)

	_, err = ParseRoute("/")
	assert.ErrorIs(t, err, ErrInvalidIdentifier)
}

func TestJoinPathDefault(t *testing.T) {
	assert.Equal(t, "/introduction", JoinPath(nil, ""))
	assert.Equal(t, "/start", JoinPath([]string{""}, "/start"))
	assert.True(t, strings.HasPrefix(JoinPath([]string{"a"}, ""), "/"))
}
