package sheets

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"

	"github.com/trysabi/sabi-admin/core"
	"github.com/trysabi/sabi-admin/core/catalog"
)

// fakeBackend emulates the Apps Script web app: one URL, action-tagged GET
// and POST, `{success: …}` envelopes.
func fakeBackend(t *testing.T, adminCode string) *httptest.Server {
	t.Helper()
	e := echo.New()

	e.GET("/", func(c echo.Context) error {
		if c.QueryParam("adminCode") != adminCode {
			return c.JSON(http.StatusOK, echo.Map{"success": false, "error": "Invalid admin code"})
		}
		switch c.QueryParam("action") {
		case "stats":
			return c.JSON(http.StatusOK, echo.Map{"success": true, "students": 2, "lessons": 1, "revenue": 500})
		case "admin":
			return c.JSON(http.StatusOK, echo.Map{
				"success": true,
				"students": []echo.Map{
					{"Code": "FL-001", "Name": "Ada", "School": "FULAFIA", "CreatedAt": "2024-01-01"},
					{"Code": "AT-002", "Name": "Bola", "School": "ATBU", "CreatedAt": "2024-01-02"},
				},
				"lessons":   []echo.Map{{"StudentCode": "FL-001", "Subject": "Maths"}},
				"payments":  []echo.Map{{"StudentCode": "FL-001", "Amount": 500}},
				"referrers": []echo.Map{{"CodeName": "CHIDI", "TotalPaidOut": 100}},
				"config":    echo.Map{"whatsappNumber": "2348000000000", "appURL": "sabi.app"},
			})
		}
		return c.JSON(http.StatusOK, echo.Map{"success": false, "error": "Unknown action"})
	})

	e.POST("/", func(c echo.Context) error {
		// Apps Script receives the JSON body with a text/plain content type
		var body map[string]interface{}
		if err := json.NewDecoder(c.Request().Body).Decode(&body); err != nil {
			return c.JSON(http.StatusOK, echo.Map{"success": false, "error": "bad body"})
		}
		if body["adminCode"] != adminCode {
			return c.JSON(http.StatusOK, echo.Map{"success": false, "error": "Invalid admin code"})
		}
		switch body["action"] {
		case "addStudent":
			if body["name"] == "Taken Name" {
				return c.JSON(http.StatusOK, echo.Map{"success": false, "error": "A student with this phone already exists"})
			}
			return c.JSON(http.StatusOK, echo.Map{"success": true, "code": "FL-043"})
		case "addLesson", "addPayment", "addReferrer":
			return c.JSON(http.StatusOK, echo.Map{"success": true})
		}
		return c.JSON(http.StatusOK, echo.Map{"success": false, "error": "Unknown action"})
	})

	srv := httptest.NewServer(e)
	t.Cleanup(srv.Close)
	return srv
}

func newTestClient(baseURL string) *Client {
	return NewClient(&core.Config{APIBaseURL: baseURL, HTTPTimeout: 5 * time.Second}, nil)
}

func TestClient_Verify(t *testing.T) {
	srv := fakeBackend(t, "SECRET")
	client := newTestClient(srv.URL)

	stats, err := client.Verify(context.Background(), "SECRET")
	if err != nil {
		t.Fatalf("Verify() failed: %v", err)
	}
	assert.Equal(t, catalog.Stats{Students: 2, Lessons: 1, Revenue: 500}, stats)

	_, err = client.Verify(context.Background(), "WRONG")
	if err != core.ErrCredentialRejected {
		t.Errorf("Verify() error = %v, want ErrCredentialRejected", err)
	}
}

func TestClient_LoadAll(t *testing.T) {
	srv := fakeBackend(t, "SECRET")
	client := newTestClient(srv.URL)

	snap, err := client.LoadAll(context.Background(), "SECRET")
	if err != nil {
		t.Fatalf("LoadAll() failed: %v", err)
	}
	if len(snap.Students) != 2 || len(snap.Lessons) != 1 || len(snap.Payments) != 1 || len(snap.Referrers) != 1 {
		t.Errorf("snapshot sizes = %d/%d/%d/%d, want 2/1/1/1",
			len(snap.Students), len(snap.Lessons), len(snap.Payments), len(snap.Referrers))
	}
	assert.Equal(t, "FL-001", snap.Students[0].Code)
	assert.Equal(t, "sabi.app", snap.Config.AppURL)

	_, err = client.LoadAll(context.Background(), "WRONG")
	if err != core.ErrCredentialRejected {
		t.Errorf("LoadAll() error = %v, want ErrCredentialRejected", err)
	}
}

func TestClient_Mutate(t *testing.T) {
	srv := fakeBackend(t, "SECRET")
	client := newTestClient(srv.URL)

	payload := struct {
		Name string `json:"name"`
	}{"Emeka"}

	res, err := client.Mutate(context.Background(), catalog.ActionAddStudent, payload, "SECRET")
	if err != nil {
		t.Fatalf("Mutate() failed: %v", err)
	}
	assert.Equal(t, "FL-043", res.Code)
}

func TestClient_Mutate_serverRejection(t *testing.T) {
	srv := fakeBackend(t, "SECRET")
	client := newTestClient(srv.URL)

	payload := struct {
		Name string `json:"name"`
	}{"Taken Name"}

	_, err := client.Mutate(context.Background(), catalog.ActionAddStudent, payload, "SECRET")
	if !core.IsServerError(err) {
		t.Fatalf("Mutate() error = %v, want server error", err)
	}
	// message travels back verbatim
	assert.Equal(t, "A student with this phone already exists", err.Error())
}

func TestClient_connectionErrors(t *testing.T) {
	t.Run("server down", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
		url := srv.URL
		srv.Close()

		client := newTestClient(url)
		_, err := client.Verify(context.Background(), "SECRET")
		if !core.IsConnectionError(err) {
			t.Errorf("Verify() error = %v, want connection error", err)
		}
	})

	t.Run("malformed response", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			_, _ = w.Write([]byte("<html>not json</html>"))
		}))
		t.Cleanup(srv.Close)

		client := newTestClient(srv.URL)
		_, err := client.LoadAll(context.Background(), "SECRET")
		if !core.IsConnectionError(err) {
			t.Errorf("LoadAll() error = %v, want connection error", err)
		}
	})

	t.Run("non-2xx status", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusBadGateway)
		}))
		t.Cleanup(srv.Close)

		client := newTestClient(srv.URL)
		_, err := client.Mutate(context.Background(), catalog.ActionAddLesson, struct{}{}, "SECRET")
		if !core.IsConnectionError(err) {
			t.Errorf("Mutate() error = %v, want connection error", err)
		}
	})
}

func TestMutationBody(t *testing.T) {
	payload := struct {
		Name     string `json:"name"`
		Referrer string `json:"referrer"`
	}{"Emeka", "CHIDI"}

	raw, err := mutationBody(catalog.ActionAddStudent, payload, "SECRET")
	if err != nil {
		t.Fatalf("mutationBody() failed: %v", err)
	}
	var body map[string]interface{}
	if err := json.Unmarshal(raw, &body); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}
	assert.Equal(t, "addStudent", body["action"])
	assert.Equal(t, "SECRET", body["adminCode"])
	assert.Equal(t, "Emeka", body["name"])
	assert.Equal(t, "CHIDI", body["referrer"])
}
