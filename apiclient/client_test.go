package apiclient

import (
	"context"
	"crimewatch/models"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func newTestClient(t *testing.T, h http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	c, err := New(srv.URL, 5*time.Second, nil)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return c
}

func TestListReportsPassesStatus(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/reports" {
			t.Errorf("path = %s", r.URL.Path)
		}
		if got := r.URL.Query().Get("status"); got != "draft" {
			t.Errorf("status query = %q", got)
		}
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `[{"id":"1","crimeGenre":"Crime","status":"Draft","resolved":true}]`)
	})

	reports, err := c.ListReports(context.Background(), "draft")
	if err != nil {
		t.Fatalf("ListReports: %v", err)
	}
	if len(reports) != 1 || reports[0].ID != "1" || !reports[0].Resolved {
		t.Fatalf("unexpected reports: %+v", reports)
	}
}

func TestListReportsByGenreEscapesPath(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/reports/crime-genre/Sensação de insegurança" {
			t.Errorf("decoded path = %q", r.URL.Path)
		}
		if !strings.Contains(r.URL.RawPath+r.RequestURI, "%20") {
			t.Errorf("path was not escaped: %q", r.RequestURI)
		}
		io.WriteString(w, `[]`)
	})
	if _, err := c.ListReportsByGenre(context.Background(), "Sensação de insegurança"); err != nil {
		t.Fatalf("ListReportsByGenre: %v", err)
	}
}

func TestUpdateStatusSendsAPISpelling(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPatch || r.URL.Path != "/api/reports/42/status" {
			t.Errorf("got %s %s", r.Method, r.URL.Path)
		}
		var body models.UpdateStatusRequest
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Errorf("decode: %v", err)
		}
		if body.Status != "Approved" {
			t.Errorf("status = %q", body.Status)
		}
		io.WriteString(w, `{"id":"42","status":"Approved"}`)
	})
	r, err := c.UpdateStatus(context.Background(), "42", models.StatusApproved)
	if err != nil {
		t.Fatalf("UpdateStatus: %v", err)
	}
	if r.Status != "Approved" {
		t.Fatalf("status = %q", r.Status)
	}
}

func TestValidationErrorsAreJoined(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		io.WriteString(w, `{"traceId":"abc","errors":[{"field":"location","message":"required"},{"field":"crimeType","message":"too long"}]}`)
	})
	_, err := c.CreateReport(context.Background(), &models.CreateReportRequest{})
	apiErr, ok := AsAPIError(err)
	if !ok {
		t.Fatalf("expected APIError, got %T", err)
	}
	if apiErr.StatusCode != http.StatusBadRequest {
		t.Errorf("status = %d", apiErr.StatusCode)
	}
	if apiErr.Message != "location: required; crimeType: too long" {
		t.Errorf("message = %q", apiErr.Message)
	}
	if apiErr.TraceID() != "abc" {
		t.Errorf("trace id = %q", apiErr.TraceID())
	}
}

func TestGenericErrorFallbacks(t *testing.T) {
	cases := []struct {
		name   string
		status int
		body   string
		want   string
	}{
		{"server message", http.StatusConflict, `{"error":"already moderated"}`, "already moderated"},
		{"unparsable body", http.StatusBadGateway, `<html>oops</html>`, "Bad Gateway"},
		{"empty body", http.StatusNotFound, ``, "Not Found"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tc.status)
				io.WriteString(w, tc.body)
			})
			_, err := c.GetReport(context.Background(), "1")
			apiErr, ok := AsAPIError(err)
			if !ok {
				t.Fatalf("expected APIError, got %v", err)
			}
			if apiErr.Message != tc.want || apiErr.StatusCode != tc.status {
				t.Fatalf("got %d %q, want %d %q", apiErr.StatusCode, apiErr.Message, tc.status, tc.want)
			}
		})
	}
}

func TestTransportFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	c, err := New(url, time.Second, nil)
	if err != nil {
		t.Fatal(err)
	}
	_, err = c.ListReports(context.Background(), "")
	apiErr, ok := AsAPIError(err)
	if !ok || !apiErr.IsTransport() {
		t.Fatalf("expected transport APIError, got %v", err)
	}
	if apiErr.Message != msgConnection {
		t.Fatalf("message = %q", apiErr.Message)
	}
	if errors.Unwrap(apiErr) == nil {
		t.Fatal("transport error should wrap the cause")
	}
}

func TestNewRejectsBadBaseURL(t *testing.T) {
	if _, err := New("localhost", time.Second, nil); err == nil {
		t.Fatal("expected error for URL without scheme")
	}
}
