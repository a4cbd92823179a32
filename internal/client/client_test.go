package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"skill-matrix/internal/apperrors"
	"skill-matrix/internal/delivery/http/dto"
	"skill-matrix/internal/domain/catalog"
	"skill-matrix/internal/domain/mapping"
	"skill-matrix/internal/domain/resolution"
)

func writeEnvelope(w http.ResponseWriter, status int, message string, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]any{"status": status, "message": message, "data": data})
}

// fakeAPI serves the handful of endpoints the CLI uses. Grade ids above 10
// are rejected the way the server rejects unknown grades.
type fakeAPI struct {
	mu     sync.Mutex
	maps   map[int64]int64
	writes int
}

func (f *fakeAPI) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	switch {
	case r.URL.Path == "/api/v1/auth/login":
		var req dto.LoginRequest
		_ = json.NewDecoder(r.Body).Decode(&req)
		if req.Password != "pw" {
			writeEnvelope(w, http.StatusUnauthorized, "Invalid email or password", nil)
			return
		}
		writeEnvelope(w, http.StatusOK, "ok", dto.AuthResponse{Token: "tok", RefreshToken: "ref", User: catalog.User{ID: 1, Email: req.Email}})
	case r.Header.Get("Authorization") != "Bearer tok":
		writeEnvelope(w, http.StatusUnauthorized, "Unauthorized", nil)
	case r.URL.Path == "/api/v1/me":
		writeEnvelope(w, http.StatusOK, "ok", catalog.User{ID: 1, Name: "Lead"})
	case r.URL.Path == "/api/v1/users/2/scope":
		writeEnvelope(w, http.StatusOK, "ok", resolution.Scope{UserID: 2, Technologies: []resolution.TechnologyScope{}})
	case r.URL.Path == "/api/v1/skill-maps" && r.Method == http.MethodGet:
		f.mu.Lock()
		out := []mapping.SkillMap{}
		for sub, g := range f.maps {
			out = append(out, mapping.SkillMap{SubskillID: sub, UserID: 2, GradeID: g, Active: true})
		}
		f.mu.Unlock()
		writeEnvelope(w, http.StatusOK, "ok", out)
	case r.URL.Path == "/api/v1/skill-maps" && r.Method == http.MethodPost:
		var sm mapping.SkillMap
		_ = json.NewDecoder(r.Body).Decode(&sm)
		if sm.GradeID > 10 {
			writeEnvelope(w, http.StatusBadRequest, "validation failed: gradeId", map[string]any{"fields": []string{"gradeId"}})
			return
		}
		f.mu.Lock()
		f.writes++
		if sm.GradeID == mapping.NoGrade {
			delete(f.maps, sm.SubskillID)
		} else {
			f.maps[sm.SubskillID] = sm.GradeID
		}
		f.mu.Unlock()
		writeEnvelope(w, http.StatusOK, "ok", sm)
	default:
		writeEnvelope(w, http.StatusNotFound, "not found", nil)
	}
}

func newFakeServer(t *testing.T) (*httptest.Server, *fakeAPI) {
	t.Helper()
	api := &fakeAPI{maps: map[int64]int64{1: 3}}
	srv := httptest.NewServer(api)
	t.Cleanup(srv.Close)
	return srv, api
}

func TestClient_LoginKeepsToken(t *testing.T) {
	srv, _ := newFakeServer(t)
	ctx := context.Background()
	c := New(srv.URL)

	_, err := c.Me(ctx)
	assert.ErrorIs(t, err, apperrors.ErrUnauthorized)

	_, err = c.Login(ctx, "lead@example.com", "nope")
	assert.ErrorIs(t, err, apperrors.ErrUnauthorized)

	res, err := c.Login(ctx, "lead@example.com", "pw")
	require.NoError(t, err)
	assert.Equal(t, "ref", res.RefreshToken)

	me, err := c.Me(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Lead", me.Name)
}

func TestClient_StatusMapping(t *testing.T) {
	cases := []struct {
		status int
		data   any
		check  func(t *testing.T, err error)
	}{
		{http.StatusBadRequest, map[string]any{"fields": []string{"title"}}, func(t *testing.T, err error) {
			var v *apperrors.ValidationError
			require.ErrorAs(t, err, &v)
			assert.Equal(t, []string{"title"}, v.Fields)
			assert.True(t, apperrors.IsItemFailure(err))
		}},
		{http.StatusUnprocessableEntity, nil, func(t *testing.T, err error) {
			assert.True(t, apperrors.IsItemFailure(err))
		}},
		{http.StatusNotFound, nil, func(t *testing.T, err error) {
			assert.ErrorIs(t, err, apperrors.ErrNotFound)
			assert.True(t, apperrors.IsItemFailure(err))
		}},
		{http.StatusConflict, map[string]any{"id": 7}, func(t *testing.T, err error) {
			var dup *apperrors.DuplicateError
			require.ErrorAs(t, err, &dup)
			assert.JSONEq(t, `{"id":7}`, string(dup.Existing.(json.RawMessage)))
		}},
		{http.StatusForbidden, nil, func(t *testing.T, err error) {
			assert.ErrorIs(t, err, apperrors.ErrForbidden)
		}},
		{http.StatusInternalServerError, nil, func(t *testing.T, err error) {
			assert.True(t, IsTransport(err))
			assert.False(t, apperrors.IsItemFailure(err))
		}},
	}
	for _, tc := range cases {
		t.Run(http.StatusText(tc.status), func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				writeEnvelope(w, tc.status, "", tc.data)
			}))
			defer srv.Close()

			err := New(srv.URL, WithToken("tok")).AssignGrade(context.Background(), 1, 2, 3)
			require.Error(t, err)
			tc.check(t, err)
		})
	}
}

func TestClient_UnreachableServerIsTransport(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	err := New(url).AssignGrade(context.Background(), 1, 2, 3)
	require.Error(t, err)
	assert.True(t, IsTransport(err))
}

func TestClient_RemoteGradingSession(t *testing.T) {
	srv, api := newFakeServer(t)
	ctx := context.Background()
	c := New(srv.URL, WithToken("tok"))

	sess, err := c.LoadSession(ctx, 2)
	require.NoError(t, err)
	g, ok := sess.EffectiveGrade(1)
	require.True(t, ok)
	assert.Equal(t, int64(3), g)

	sess, err = sess.SetGrade(1, 0)
	require.NoError(t, err)
	sess, err = sess.SetGrade(2, 4)
	require.NoError(t, err)
	sess, err = sess.SetGrade(3, 99)
	require.NoError(t, err)

	next, err := sess.Save(ctx, c)
	var batch *apperrors.BatchError
	require.ErrorAs(t, err, &batch)
	assert.Equal(t, 2, batch.Succeeded)
	require.Len(t, batch.Failed, 1)
	assert.Equal(t, int64(3), batch.Failed[0].SubskillID)
	assert.Len(t, next.Staged(), 1, "only the failed edit stays staged")

	api.mu.Lock()
	defer api.mu.Unlock()
	assert.Equal(t, map[int64]int64{2: 4}, api.maps)
	assert.Equal(t, 2, api.writes)
}

func TestClient_TransportFailureKeepsEdits(t *testing.T) {
	srv, _ := newFakeServer(t)
	ctx := context.Background()
	c := New(srv.URL, WithToken("tok"))

	sess, err := c.LoadSession(ctx, 2)
	require.NoError(t, err)
	sess, err = sess.SetGrade(2, 4)
	require.NoError(t, err)

	srv.Close()
	next, err := sess.Save(ctx, c)
	require.ErrorIs(t, err, apperrors.ErrTransport)
	assert.Len(t, next.Staged(), 1)
	assert.True(t, strings.Contains(err.Error(), "transport"))
}
