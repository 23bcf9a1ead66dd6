package navigation

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ziadkadry99/manualsite/internal/manual"
)

func TestVersionOptions(t *testing.T) {
	tests := []struct {
		name     string
		current  string
		versions []string
		want     []string
	}{
		{"unpinned", "", []string{"v1.0.0", "v1.1.0"}, []string{"master", "v1.0.0", "v1.1.0"}},
		{"pinned listed", "v1.1.0", []string{"v1.0.0", "v1.1.0"}, []string{"master", "v1.0.0", "v1.1.0"}},
		{"pinned unlisted", "v0.42.0", []string{"v1.0.0"}, []string{"v0.42.0", "master", "v1.0.0"}},
		{"pinned, catalog failed", "v1.0.0", nil, []string{"v1.0.0", "master"}},
		{"explicit default branch", "master", nil, []string{"master"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := State{Location: manual.Location{Name: "manual", Version: tt.current}, Versions: tt.versions}
			assert.Equal(t, tt.want, s.VersionOptions("master"))
		})
	}
}

func TestVersionsStatusJSON(t *testing.T) {
	out, err := json.Marshal(map[string]VersionsStatus{"a": VersionsLoading, "b": VersionsLoaded, "c": VersionsFailed})
	require.NoError(t, err)
	assert.JSONEq(t, `{"a":"loading","b":"loaded","c":"failed"}`, string(out))
}

type routeLog struct {
	events []string
}

func (l *routeLog) OnRouteChangeStart(route string) { l.events = append(l.events, "start "+route) }
func (l *routeLog) OnRouteChangeComplete(route string) {
	l.events = append(l.events, "complete "+route)
}

func TestMemoryRouter(t *testing.T) {
	r := NewMemoryRouter("/manual")
	log := &routeLog{}
	unsubscribe := r.Subscribe(log)

	r.Push("/manual/a")
	r.Replace("/manual/b")
	assert.Equal(t, []string{"/manual", "/manual/b"}, r.History())

	require.True(t, r.Back())
	assert.Equal(t, "/manual", r.Current())
	assert.False(t, r.Back())

	assert.Equal(t, []string{
		"start /manual/a", "complete /manual/a",
		"start /manual/b", "complete /manual/b",
		"start /manual", "complete /manual",
	}, log.events)

	unsubscribe()
	unsubscribe()
	r.Push("/manual/c")
	assert.Len(t, log.events, 6)
}
