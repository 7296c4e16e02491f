package router_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"dog-kennel/internal/router"

	"golang.org/x/crypto/bcrypt"
)

const adminToken = "admin-secret"

func newServer(t *testing.T) (*httptest.Server, *router.Repositories) {
	t.Helper()

	repos := router.MemoryRepositories()
	h, err := router.NewRouter(router.Options{
		Repos:       repos,
		TokenSecret: []byte("router-test-secret"),
		BcryptCost:  bcrypt.MinCost,
		AdminToken:  adminToken,
	})
	if err != nil {
		t.Fatalf("new router: %v", err)
	}
	ts := httptest.NewServer(h)
	t.Cleanup(ts.Close)
	return ts, repos
}

func TestHTTP_EndToEnd_ClaimAndRelease(t *testing.T) {
	ts, repos := newServer(t)

	// 1) Dos usuarios se registran (y quedan logueados)
	aliceToken := register(t, ts.URL, "alice", "alice@example.com", "correct-horse")
	bobToken := register(t, ts.URL, "bob", "bob@example.com", "battery-staple")

	// 2) Admin crea la raza
	breedID := createBreed(t, ts.URL, "Beagle")

	// 3) Alice da de alta un perro; queda sin dueño
	dogID := createDog(t, ts.URL, aliceToken, map[string]any{
		"name":        "Snoopy",
		"breed_id":    breedID,
		"age":         3,
		"description": "likes naps",
		"birth_date":  "2020-08-10",
	})

	// 4) Alice lo reclama
	{
		st, body := doReq(t, ts.URL, "POST", "/dogs/"+dogID+"/claim", aliceToken, nil)
		if st != http.StatusOK {
			t.Fatalf("expected 200 claim, got %d body=%s", st, string(body))
		}
	}

	// 5) Bob no puede reclamarlo
	{
		st, body := doReq(t, ts.URL, "POST", "/dogs/"+dogID+"/claim", bobToken, nil)
		if st != http.StatusConflict {
			t.Fatalf("expected 409 claim by other user, got %d body=%s", st, string(body))
		}
	}

	// 6) Bob tampoco puede editarlo
	{
		st, _ := doReq(t, ts.URL, "PATCH", "/dogs/"+dogID, bobToken, map[string]any{"name": "Stolen"})
		if st != http.StatusForbidden {
			t.Fatalf("expected 403 patch by non owner, got %d", st)
		}
	}

	// 7) Alice lo ve en /me/dogs
	{
		st, body := doReq(t, ts.URL, "GET", "/me/dogs", aliceToken, nil)
		if st != http.StatusOK {
			t.Fatalf("expected 200 my dogs, got %d body=%s", st, string(body))
		}
		var out []struct {
			ID string `json:"id"`
		}
		_ = json.Unmarshal(body, &out)
		if len(out) != 1 || out[0].ID != dogID {
			t.Fatalf("expected my dogs to contain %s, got %s", dogID, string(body))
		}
	}

	// 8) Alice lo libera y Bob ya puede reclamarlo
	{
		st, body := doReq(t, ts.URL, "DELETE", "/dogs/"+dogID+"/claim", aliceToken, nil)
		if st != http.StatusOK {
			t.Fatalf("expected 200 release, got %d body=%s", st, string(body))
		}
		st, body = doReq(t, ts.URL, "POST", "/dogs/"+dogID+"/claim", bobToken, nil)
		if st != http.StatusOK {
			t.Fatalf("expected 200 claim after release, got %d body=%s", st, string(body))
		}
	}

	// 9) Listado público agrupado por raza, sin token
	{
		st, body := doReq(t, ts.URL, "GET", "/dogs?group_by_breed=true", "", nil)
		if st != http.StatusOK {
			t.Fatalf("expected 200 public list, got %d body=%s", st, string(body))
		}
	}

	// 10) Logout: el token deja de servir
	{
		st, _ := doReq(t, ts.URL, "POST", "/auth/logout", aliceToken, nil)
		if st != http.StatusNoContent {
			t.Fatalf("expected 204 logout, got %d", st)
		}
		st, _ = doReq(t, ts.URL, "GET", "/me", aliceToken, nil)
		if st != http.StatusUnauthorized {
			t.Fatalf("expected 401 after logout, got %d", st)
		}
	}

	// Bienvenidas encoladas en el outbox
	pending, err := repos.Notifications.ListPending(context.Background(), 0)
	if err != nil {
		t.Fatalf("list pending: %v", err)
	}
	if len(pending) != 2 {
		t.Fatalf("expected 2 welcome notifications, got %d", len(pending))
	}
}

func TestHTTP_Login_SameErrorForUnknownUserAndBadPassword(t *testing.T) {
	ts, _ := newServer(t)
	register(t, ts.URL, "alice", "alice@example.com", "correct-horse")

	stBad, bodyBad := doReq(t, ts.URL, "POST", "/auth/login", "", map[string]any{"username": "alice", "password": "nope-nope"})
	stUnknown, bodyUnknown := doReq(t, ts.URL, "POST", "/auth/login", "", map[string]any{"username": "carol", "password": "nope-nope"})

	if stBad != http.StatusUnauthorized || stUnknown != http.StatusUnauthorized {
		t.Fatalf("expected 401/401, got %d/%d", stBad, stUnknown)
	}
	if !bytes.Equal(bodyBad, bodyUnknown) {
		t.Fatalf("expected identical bodies, got %s vs %s", string(bodyBad), string(bodyUnknown))
	}

	st, _ := doReq(t, ts.URL, "POST", "/auth/login", "", map[string]any{"username": "alice", "password": "correct-horse"})
	if st != http.StatusOK {
		t.Fatalf("expected 200 login, got %d", st)
	}
}

func TestHTTP_Register_ValidationErrors(t *testing.T) {
	ts, _ := newServer(t)

	st, body := doReq(t, ts.URL, "POST", "/auth/register", "", map[string]any{
		"username":         "alice",
		"email":            "alice@example.com",
		"password":         "password1",
		"password_confirm": "password2",
	})
	if st != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d body=%s", st, string(body))
	}

	var resp struct {
		Fields []struct {
			Field string `json:"field"`
		} `json:"fields"`
	}
	_ = json.Unmarshal(body, &resp)
	if len(resp.Fields) != 1 || resp.Fields[0].Field != "password_confirm" {
		t.Fatalf("expected password_confirm field error, got %s", string(body))
	}
}

func TestHTTP_PasswordReset_SameResponseForUnknownEmail(t *testing.T) {
	ts, repos := newServer(t)
	register(t, ts.URL, "alice", "alice@example.com", "correct-horse")

	stKnown, bodyKnown := doReq(t, ts.URL, "POST", "/auth/password-reset", "", map[string]any{"email": "alice@example.com"})
	stUnknown, bodyUnknown := doReq(t, ts.URL, "POST", "/auth/password-reset", "", map[string]any{"email": "nobody@example.com"})

	if stKnown != http.StatusAccepted || stUnknown != http.StatusAccepted {
		t.Fatalf("expected 202/202, got %d/%d", stKnown, stUnknown)
	}
	if !bytes.Equal(bodyKnown, bodyUnknown) {
		t.Fatalf("expected identical bodies, got %s vs %s", string(bodyKnown), string(bodyUnknown))
	}

	// La contraseña vieja ya no sirve
	st, _ := doReq(t, ts.URL, "POST", "/auth/login", "", map[string]any{"username": "alice", "password": "correct-horse"})
	if st != http.StatusUnauthorized {
		t.Fatalf("expected 401 with old password, got %d", st)
	}

	pending, err := repos.Notifications.ListPending(context.Background(), 0)
	if err != nil {
		t.Fatalf("list pending: %v", err)
	}
	// bienvenida + reset
	if len(pending) != 2 {
		t.Fatalf("expected 2 notifications, got %d", len(pending))
	}
}

func TestHTTP_AdminRoutes(t *testing.T) {
	ts, _ := newServer(t)
	token := register(t, ts.URL, "alice", "alice@example.com", "correct-horse")

	st, _ := doReq(t, ts.URL, "POST", "/breeds", token, map[string]any{"name": "Pug"})
	if st != http.StatusForbidden {
		t.Fatalf("expected 403 create breed without admin token, got %d", st)
	}

	breedID := createBreed(t, ts.URL, "Pug")
	createDog(t, ts.URL, token, map[string]any{"name": "Otis", "breed_id": breedID})

	st, body := doReq(t, ts.URL, "GET", "/breeds/overview?sample=1", "", nil)
	if st != http.StatusOK {
		t.Fatalf("expected 200 overview, got %d body=%s", st, string(body))
	}

	// Borrar la raza se lleva a sus perros
	st, _ = doAdmin(t, ts.URL, "DELETE", "/breeds/"+breedID, nil)
	if st != http.StatusNoContent {
		t.Fatalf("expected 204 delete breed, got %d", st)
	}
	st, body = doReq(t, ts.URL, "GET", "/dogs", "", nil)
	if st != http.StatusOK || string(bytes.TrimSpace(body)) != "[]" {
		t.Fatalf("expected empty dog list after cascade, got %d body=%s", st, string(body))
	}
}

func TestHTTP_AuthRateLimitIgnoresForwardedFor(t *testing.T) {
	h, err := router.NewRouter(router.Options{
		TokenSecret: []byte("router-test-secret"),
		BcryptCost:  bcrypt.MinCost,
		RateLimit:   0.001,
		RateBurst:   1,
	})
	if err != nil {
		t.Fatalf("new router: %v", err)
	}
	ts := httptest.NewServer(h)
	defer ts.Close()

	login := map[string]any{"username": "nobody", "password": "nope-nope"}
	codes := make([]int, 0, 3)
	for _, fwd := range []string{"1.1.1.1", "2.2.2.2", "3.3.3.3"} {
		st, _ := send(t, ts.URL, "POST", "/auth/login", map[string]string{"X-Forwarded-For": fwd}, login)
		codes = append(codes, st)
	}
	if codes[0] != http.StatusUnauthorized || codes[1] != http.StatusTooManyRequests || codes[2] != http.StatusTooManyRequests {
		t.Fatalf("expected 401 then 429s, got %v", codes)
	}
}

func TestHTTP_HealthAndMetrics(t *testing.T) {
	ts, _ := newServer(t)

	for _, path := range []string{"/health", "/metrics"} {
		st, _ := doReq(t, ts.URL, "GET", path, "", nil)
		if st != http.StatusOK {
			t.Fatalf("expected 200 on %s, got %d", path, st)
		}
	}
}

func register(t *testing.T, baseURL, username, email, password string) string {
	t.Helper()

	st, body := doReq(t, baseURL, "POST", "/auth/register", "", map[string]any{
		"username":         username,
		"email":            email,
		"password":         password,
		"password_confirm": password,
	})
	if st != http.StatusCreated {
		t.Fatalf("expected 201 register, got %d body=%s", st, string(body))
	}

	var resp struct {
		Token string `json:"token"`
	}
	_ = json.Unmarshal(body, &resp)
	if resp.Token == "" {
		t.Fatalf("register: missing token body=%s", string(body))
	}
	return resp.Token
}

func createBreed(t *testing.T, baseURL, name string) string {
	t.Helper()

	st, body := doAdmin(t, baseURL, "POST", "/breeds", map[string]any{"name": name})
	if st != http.StatusCreated {
		t.Fatalf("expected 201 create breed, got %d body=%s", st, string(body))
	}

	var resp struct {
		ID string `json:"id"`
	}
	_ = json.Unmarshal(body, &resp)
	if resp.ID == "" {
		t.Fatalf("create breed: missing id body=%s", string(body))
	}
	return resp.ID
}

func createDog(t *testing.T, baseURL, token string, payload map[string]any) string {
	t.Helper()

	st, body := doReq(t, baseURL, "POST", "/dogs", token, payload)
	if st != http.StatusCreated {
		t.Fatalf("expected 201 create dog, got %d body=%s", st, string(body))
	}

	var resp struct {
		ID string `json:"id"`
	}
	_ = json.Unmarshal(body, &resp)
	if resp.ID == "" {
		t.Fatalf("create dog: missing id body=%s", string(body))
	}
	return resp.ID
}

func doAdmin(t *testing.T, baseURL, method, path string, body any) (int, []byte) {
	t.Helper()
	return send(t, baseURL, method, path, map[string]string{"X-Admin-Token": adminToken}, body)
}

func doReq(t *testing.T, baseURL, method, path, token string, body any) (int, []byte) {
	t.Helper()

	headers := map[string]string{}
	if token != "" {
		headers["Authorization"] = "Bearer " + token
	}
	return send(t, baseURL, method, path, headers, body)
}

func send(t *testing.T, baseURL, method, path string, headers map[string]string, body any) (int, []byte) {
	t.Helper()

	var rdr io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("json marshal: %v", err)
		}
		rdr = bytes.NewReader(b)
	}

	req, err := http.NewRequest(method, baseURL+path, rdr)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	res, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("do request: %v", err)
	}
	defer res.Body.Close()

	respBody, _ := io.ReadAll(res.Body)
	return res.StatusCode, respBody
}
