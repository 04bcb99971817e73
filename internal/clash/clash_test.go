package clash

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T, handler http.HandlerFunc) (*httptest.Server, *atomic.Int32) {
	t.Helper()
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		assert.Equal(t, "Bearer test-token", r.Header.Get("Authorization"))
		handler(w, r)
	}))
	t.Cleanup(srv.Close)
	return srv, &hits
}

func TestGetClan(t *testing.T) {
	srv, _ := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/clans/%232PP", r.URL.EscapedPath())
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"tag":"#2PP","name":"Test Clan","clanLevel":12,"members":48,
			"warWins":200,"warLeague":{"id":48000010,"name":"Crystal League I"}}`))
	})

	client := NewClient("test-token", WithBaseURL(srv.URL))
	clan, err := client.GetClan(context.Background(), "2pp")
	require.NoError(t, err)

	assert.Equal(t, "#2PP", clan.Tag)
	assert.Equal(t, "Test Clan", clan.Name)
	assert.Equal(t, 12, clan.ClanLevel)
	assert.Equal(t, 48, clan.Members)
	require.NotNil(t, clan.WarLeague)
	assert.Equal(t, "Crystal League I", clan.WarLeague.Name)
}

func TestGetClan_NotFound(t *testing.T) {
	srv, _ := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"reason":"notFound"}`))
	})

	client := NewClient("test-token", WithBaseURL(srv.URL))
	_, err := client.GetClan(context.Background(), "#2PP")
	require.Error(t, err)
	assert.True(t, IsNotFound(err))

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "notFound", apiErr.Reason)
}

func TestGetClan_InvalidTagSkipsRequest(t *testing.T) {
	srv, hits := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {})

	client := NewClient("test-token", WithBaseURL(srv.URL))
	_, err := client.GetClan(context.Background(), "#hello!")
	assert.ErrorIs(t, err, ErrInvalidTag)
	assert.Zero(t, hits.Load())
}

func TestGetPlayer_Cached(t *testing.T) {
	srv, hits := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/players/%23YL0Q", r.URL.EscapedPath())
		_, _ = w.Write([]byte(`{"tag":"#YL0Q","name":"Chief","townHallLevel":16,"trophies":5123,
			"clan":{"tag":"#2PP","name":"Test Clan"},"heroes":[{"name":"Barbarian King","level":95,"maxLevel":95,"village":"home"}]}`))
	})

	client := NewClient("test-token", WithBaseURL(srv.URL), WithCache(NewDefaultCache()))
	for i := 0; i < 3; i++ {
		player, err := client.GetPlayer(context.Background(), "#ylOq")
		require.NoError(t, err)
		assert.Equal(t, "Chief", player.Name)
		assert.Equal(t, 16, player.TownHallLevel)
		require.NotNil(t, player.Clan)
		require.Len(t, player.Heroes, 1)
	}
	assert.Equal(t, int32(1), hits.Load())
}

func TestGetCurrentWar(t *testing.T) {
	srv, _ := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/clans/%232PP/currentwar", r.URL.EscapedPath())
		_, _ = w.Write([]byte(`{"state":"inWar","teamSize":15,"endTime":"20240131T183000.000Z",
			"clan":{"name":"Us","stars":30,"destructionPercentage":75.5},
			"opponent":{"name":"Them","stars":28,"destructionPercentage":70.1}}`))
	})

	client := NewClient("test-token", WithBaseURL(srv.URL))
	war, err := client.GetCurrentWar(context.Background(), "#2PP")
	require.NoError(t, err)
	assert.Equal(t, WarStateInWar, war.State)
	assert.Equal(t, 30, war.Clan.Stars)
	assert.InDelta(t, 70.1, war.Opponent.DestructionPercentage, 1e-9)

	end, err := ParseTime(war.EndTime)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 1, 31, 18, 30, 0, 0, time.UTC), end)
}

func TestGetCurrentWar_PrivateLog(t *testing.T) {
	srv, _ := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		_, _ = w.Write([]byte(`{"reason":"accessDenied","message":"Access denied"}`))
	})

	client := NewClient("test-token", WithBaseURL(srv.URL))
	_, err := client.GetCurrentWar(context.Background(), "#2PP")
	assert.True(t, IsPrivateWarLog(err))
	assert.False(t, IsInvalidToken(err))
	assert.False(t, IsNotFound(err))
}

func TestGetClanMembers(t *testing.T) {
	srv, _ := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/clans/%232PP/members", r.URL.EscapedPath())
		_, _ = w.Write([]byte(`{"items":[{"name":"A","trophies":10},{"name":"B","trophies":30}]}`))
	})

	client := NewClient("test-token", WithBaseURL(srv.URL+"/"))
	members, err := client.GetClanMembers(context.Background(), "#2PP")
	require.NoError(t, err)
	require.Len(t, members, 2)
	assert.Equal(t, "B", members[1].Name)
}

func TestErrorPredicates(t *testing.T) {
	assert.True(t, IsInvalidToken(&APIError{StatusCode: 403, Reason: "accessDenied.invalidIp"}))
	assert.True(t, IsMaintenance(&APIError{StatusCode: 503, Reason: "inMaintenance"}))
	assert.Contains(t, (&APIError{StatusCode: 404, Reason: "notFound"}).Error(), "notFound")
	assert.NotContains(t, (&APIError{StatusCode: 500}).Error(), "()")
}

func TestGetClan_ContextCanceled(t *testing.T) {
	srv, _ := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	client := NewClient("test-token", WithBaseURL(srv.URL))
	_, err := client.GetClan(ctx, "#2PP")
	assert.ErrorIs(t, err, context.Canceled)
}
