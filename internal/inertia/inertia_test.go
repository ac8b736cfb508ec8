package inertia

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestWriteJSON(t *testing.T) {
	rec := httptest.NewRecorder()
	err := WriteJSON(rec, http.StatusOK, Page{Component: "About/Index", URL: "/en/about", Version: "v1"})
	require.NoError(t, err)

	require.Equal(t, "true", rec.Header().Get(HeaderInertia))
	require.Equal(t, HeaderInertia, rec.Header().Get("Vary"))

	var got map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	require.Equal(t, "About/Index", got["component"])
	require.Equal(t, map[string]any{}, got["props"])
	require.Equal(t, "/en/about", got["url"])
	require.Equal(t, "v1", got["version"])
}

func TestVersionCheck(t *testing.T) {
	h := VersionCheck(func() string { return "v2" })(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	cases := []struct {
		name    string
		method  string
		inertia bool
		version string
		want    int
	}{
		{name: "stale version", method: http.MethodGet, inertia: true, version: "v1", want: http.StatusConflict},
		{name: "current version", method: http.MethodGet, inertia: true, version: "v2", want: http.StatusNoContent},
		{name: "no version header", method: http.MethodGet, inertia: true, want: http.StatusNoContent},
		{name: "plain browser", method: http.MethodGet, version: "v1", want: http.StatusNoContent},
		{name: "post is not checked", method: http.MethodPost, inertia: true, version: "v1", want: http.StatusNoContent},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(tc.method, "/en/projects?page=2", nil)
			if tc.inertia {
				req.Header.Set(HeaderInertia, "true")
			}
			if tc.version != "" {
				req.Header.Set(HeaderVersion, tc.version)
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)
			require.Equal(t, tc.want, rec.Code)
			if tc.want == http.StatusConflict {
				require.Equal(t, "/en/projects?page=2", rec.Header().Get(HeaderLocation))
			}
		})
	}
}

func TestRedirectStatus(t *testing.T) {
	for method, want := range map[string]int{
		http.MethodGet:    http.StatusFound,
		http.MethodPost:   http.StatusFound,
		http.MethodPut:    http.StatusSeeOther,
		http.MethodDelete: http.StatusSeeOther,
	} {
		rec := httptest.NewRecorder()
		Redirect(rec, httptest.NewRequest(method, "/x", nil), "/en")
		require.Equal(t, want, rec.Code, method)
		require.Equal(t, "/en", rec.Header().Get("Location"))
	}
}

func TestLocation(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/lang/en", nil)
	req.Header.Set(HeaderInertia, "true")
	rec := httptest.NewRecorder()
	Location(rec, req, "/en")
	require.Equal(t, http.StatusConflict, rec.Code)
	require.Equal(t, "/en", rec.Header().Get(HeaderLocation))

	rec = httptest.NewRecorder()
	Location(rec, httptest.NewRequest(http.MethodGet, "/lang/en", nil), "/en")
	require.Equal(t, http.StatusFound, rec.Code)
}
