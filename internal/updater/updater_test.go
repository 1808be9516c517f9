package updater

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func newReleaseServer(t *testing.T, status int, body string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/repos/jaylinwylie/skeincare/releases/latest" {
			http.NotFound(w, r)
			return
		}
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestCheck(t *testing.T) {
	tests := []struct {
		name          string
		current       string
		skip          string
		tag           string
		wantAvailable bool
		wantSkipped   bool
	}{
		{name: "newer release", current: "v1.2.0", tag: "v1.3.0", wantAvailable: true},
		{name: "same version", current: "1.3.0", tag: "v1.3.0"},
		{name: "older release", current: "v2.0.0", tag: "v1.9.9"},
		{name: "patch compare is numeric", current: "v1.2.9", tag: "v1.2.10", wantAvailable: true},
		{name: "skipped tag", current: "v1.2.0", skip: "v1.3.0", tag: "v1.3.0", wantSkipped: true},
		{name: "skip of another tag", current: "v1.2.0", skip: "v1.2.5", tag: "v1.3.0", wantAvailable: true},
		{name: "development build", current: "dev", tag: "v1.3.0"},
		{name: "prerelease of the latest release", current: "v1.3.0-rc1", tag: "v1.3.0"},
		{name: "prerelease tag of the current release", current: "v1.3.0", tag: "v1.3.0-rc2"},
		{name: "prerelease of a newer release", current: "v1.2.0", tag: "v1.3.0-rc1", wantAvailable: true},
		{name: "skip matches prerelease tag", current: "v1.2.0", skip: "v1.3.0", tag: "v1.3.0-rc1", wantSkipped: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := newReleaseServer(t, http.StatusOK, `{"tag_name": "`+tt.tag+`", "html_url": "https://example.invalid/r"}`)
			c := NewChecker(srv.URL, "jaylinwylie/skeincare", time.Second, nil)

			result, err := c.Check(context.Background(), tt.current, tt.skip)
			if err != nil {
				t.Fatalf("Check() error = %v", err)
			}
			if result.Available != tt.wantAvailable || result.Skipped != tt.wantSkipped {
				t.Errorf("Check() = available %v skipped %v, want %v %v", result.Available, result.Skipped, tt.wantAvailable, tt.wantSkipped)
			}
			if result.Latest != tt.tag {
				t.Errorf("Expected latest %s, got %s", tt.tag, result.Latest)
			}
		})
	}
}

func TestCheck_Errors(t *testing.T) {
	tests := []struct {
		name     string
		status   int
		body     string
		wantType ErrorType
	}{
		{name: "not found", status: http.StatusNotFound, body: `{"message": "Not Found"}`, wantType: ErrTypeStatus},
		{name: "rate limited", status: http.StatusForbidden, body: `{"message": "rate limit"}`, wantType: ErrTypeStatus},
		{name: "bad json", status: http.StatusOK, body: `{"tag_name": `, wantType: ErrTypeDecode},
		{name: "missing tag", status: http.StatusOK, body: `{"name": "x"}`, wantType: ErrTypeDecode},
		{name: "non-version tag", status: http.StatusOK, body: `{"tag_name": "latest"}`, wantType: ErrTypeVersion},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := newReleaseServer(t, tt.status, tt.body)
			c := NewChecker(srv.URL+"/", "jaylinwylie/skeincare", time.Second, nil)

			_, err := c.Check(context.Background(), "v1.0.0", "")
			if !IsErrorType(err, tt.wantType) {
				t.Errorf("Expected %s error, got %v", tt.wantType, err)
			}
		})
	}
}

func TestCheck_Network(t *testing.T) {
	srv := newReleaseServer(t, http.StatusOK, `{}`)
	url := srv.URL
	srv.Close()

	c := NewChecker(url, "jaylinwylie/skeincare", time.Second, nil)
	if _, err := c.Check(context.Background(), "v1.0.0", ""); !IsErrorType(err, ErrTypeNetwork) {
		t.Errorf("Expected network error, got %v", err)
	}
}

func TestCanonical(t *testing.T) {
	tests := []struct {
		in   string
		want string
		ok   bool
	}{
		{"1.2.3", "v1.2.3", true},
		{"v1.2", "v1.2.0", true},
		{" v2.0.0-rc1 ", "v2.0.0", true},
		{"v1.2.3-beta.2+build", "v1.2.3", true},
		{"v1.2.3+build", "v1.2.3", true},
		{"dev", "", false},
		{"", "", false},
	}
	for _, tt := range tests {
		got, ok := Canonical(tt.in)
		if got != tt.want || ok != tt.ok {
			t.Errorf("Canonical(%q) = %q, %v; want %q, %v", tt.in, got, ok, tt.want, tt.ok)
		}
	}

	if Compare("1.10.0", "v1.9.0") != 1 {
		t.Error("Expected numeric component comparison")
	}
	if Compare("v1.2.3-rc1", "v1.2.3") != 0 {
		t.Error("Expected a prerelease to compare equal to its release")
	}
}
