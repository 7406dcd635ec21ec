package user

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"user-service/internal/logging"
)

func newTestRouter(store Store) *chi.Mux {
	handler := NewHandler(NewService(store), logging.NewLogger(true))

	r := chi.NewRouter()
	r.Route("/user", func(r chi.Router) {
		r.Post("/", handler.Create)
		r.Get("/", handler.GetByID)
		r.Delete("/", handler.Delete)
		r.Put("/", handler.Activate)
		r.Patch("/", handler.Update)
		r.Get("/email/", handler.GetByEmail)
	})
	return r
}

func doRequest(t *testing.T, router http.Handler, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder, dst any) {
	t.Helper()
	if err := json.NewDecoder(rec.Body).Decode(dst); err != nil {
		t.Fatalf("decode response body: %v", err)
	}
}

func TestCreateUserEndpoint(t *testing.T) {
	id := uuid.New()
	store := &stubStore{
		createFn: func(_ context.Context, name, surname, email, hashedPassword string) (*User, error) {
			return &User{
				ID:             id,
				Name:           name,
				Surname:        surname,
				Email:          email,
				HashedPassword: hashedPassword,
				IsActive:       true,
			}, nil
		},
	}
	router := newTestRouter(store)

	rec := doRequest(t, router, http.MethodPost, "/user/",
		`{"name":"Jane","surname":"Doe","email":"jane@example.com","password":"password123"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp UserResponse
	decodeBody(t, rec, &resp)
	if resp.ID != id || resp.Name != "Jane" || resp.Surname != "Doe" || resp.Email != "jane@example.com" {
		t.Fatalf("unexpected response: %+v", resp)
	}
	if !resp.IsActive {
		t.Fatalf("expected created user to be active")
	}
	if strings.Contains(rec.Body.String(), "password") {
		t.Fatalf("response leaks password material: %s", rec.Body.String())
	}
}

func TestCreateUserDuplicateEmail(t *testing.T) {
	store := &stubStore{
		createFn: func(context.Context, string, string, string, string) (*User, error) {
			return nil, ErrDuplicateEmail
		},
	}
	router := newTestRouter(store)

	rec := doRequest(t, router, http.MethodPost, "/user/",
		`{"name":"Jane","surname":"Doe","email":"jane@example.com","password":"password123"}`)
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "database error") {
		t.Fatalf("expected a database-error message, got %s", rec.Body.String())
	}
}

func TestCreateUserBadRequests(t *testing.T) {
	cases := []struct {
		name string
		body string
	}{
		{"malformed json", `{"name":`},
		{"missing fields", `{"name":"Jane"}`},
		{"invalid email", `{"name":"Jane","surname":"Doe","email":"nope","password":"password123"}`},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			router := newTestRouter(&stubStore{})
			rec := doRequest(t, router, http.MethodPost, "/user/", tc.body)
			if rec.Code != http.StatusBadRequest {
				t.Fatalf("expected 400, got %d: %s", rec.Code, rec.Body.String())
			}
		})
	}
}

func TestGetUserByIDEndpoint(t *testing.T) {
	id := uuid.New()
	store := &stubStore{
		getByIDFn: func(_ context.Context, gotID uuid.UUID) (*User, error) {
			if gotID != id {
				return nil, ErrNotFound
			}
			return &User{ID: id, Name: "Jane", Surname: "Doe", Email: "jane@example.com", IsActive: false}, nil
		},
	}
	router := newTestRouter(store)

	rec := doRequest(t, router, http.MethodGet, "/user/?user_id="+id.String(), "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp UserResponse
	decodeBody(t, rec, &resp)
	if resp.ID != id {
		t.Fatalf("unexpected id: %s", resp.ID)
	}
	// An inactive user is still fetchable; the flag is reported as-is
	if resp.IsActive {
		t.Fatalf("expected is_active=false in response")
	}

	rec = doRequest(t, router, http.MethodGet, "/user/?user_id="+uuid.NewString(), "")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for unknown id, got %d", rec.Code)
	}

	rec = doRequest(t, router, http.MethodGet, "/user/?user_id=not-a-uuid", "")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for malformed id, got %d", rec.Code)
	}

	rec = doRequest(t, router, http.MethodGet, "/user/", "")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for missing id, got %d", rec.Code)
	}
}

func TestGetUserByEmailEndpoint(t *testing.T) {
	store := &stubStore{
		getByEmailFn: func(_ context.Context, email string) (*User, error) {
			if email != "jane@example.com" {
				return nil, ErrNotFound
			}
			return &User{ID: uuid.New(), Name: "Jane", Surname: "Doe", Email: email, IsActive: true}, nil
		},
	}
	router := newTestRouter(store)

	rec := doRequest(t, router, http.MethodGet, "/user/email/?email=jane@example.com", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	rec = doRequest(t, router, http.MethodGet, "/user/email/?email=ghost@example.com", "")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}

	rec = doRequest(t, router, http.MethodGet, "/user/email/", "")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for missing email, got %d", rec.Code)
	}
}

func TestDeleteUserEndpoint(t *testing.T) {
	id := uuid.New()
	store := &stubStore{
		softDeleteFn: func(_ context.Context, gotID uuid.UUID) (uuid.UUID, error) {
			if gotID != id {
				return uuid.Nil, ErrNotFound
			}
			return gotID, nil
		},
	}
	router := newTestRouter(store)

	rec := doRequest(t, router, http.MethodDelete, "/user/?user_id="+id.String(), "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp DeleteResponse
	decodeBody(t, rec, &resp)
	if resp.DeletedUserID != id {
		t.Fatalf("unexpected deleted_user_id: %s", resp.DeletedUserID)
	}

	rec = doRequest(t, router, http.MethodDelete, "/user/?user_id="+uuid.NewString(), "")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for ineligible id, got %d", rec.Code)
	}
}

func TestActivateUserEndpoint(t *testing.T) {
	id := uuid.New()
	store := &stubStore{
		activateFn: func(_ context.Context, gotID uuid.UUID) (uuid.UUID, error) {
			if gotID != id {
				return uuid.Nil, ErrNotFound
			}
			return gotID, nil
		},
	}
	router := newTestRouter(store)

	rec := doRequest(t, router, http.MethodPut, "/user/?user_id="+id.String(), "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp ActivateResponse
	decodeBody(t, rec, &resp)
	if resp.ActivatedUserID != id {
		t.Fatalf("unexpected activated_user_id: %s", resp.ActivatedUserID)
	}

	rec = doRequest(t, router, http.MethodPut, "/user/?user_id="+uuid.NewString(), "")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for ineligible id, got %d", rec.Code)
	}
}

func TestUpdateUserEndpoint(t *testing.T) {
	id := uuid.New()
	store := &stubStore{
		updateFn: func(_ context.Context, gotID uuid.UUID, params UpdateParams) (uuid.UUID, error) {
			if gotID != id {
				return uuid.Nil, ErrNotFound
			}
			if params.Email != nil && *params.Email == "taken@example.com" {
				return uuid.Nil, ErrDuplicateEmail
			}
			return gotID, nil
		},
	}
	router := newTestRouter(store)

	rec := doRequest(t, router, http.MethodPatch, "/user/?user_id="+id.String(), `{"name":"Janet"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp UpdateResponse
	decodeBody(t, rec, &resp)
	if resp.UpdatedUserID != id {
		t.Fatalf("unexpected updated_user_id: %s", resp.UpdatedUserID)
	}

	// Empty field set is rejected before any persistence access
	storeCallsBefore := store.calls
	rec = doRequest(t, router, http.MethodPatch, "/user/?user_id="+id.String(), `{}`)
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422 for empty field set, got %d", rec.Code)
	}
	if store.calls != storeCallsBefore {
		t.Fatalf("store was touched for an empty update")
	}

	rec = doRequest(t, router, http.MethodPatch, "/user/?user_id="+uuid.NewString(), `{"name":"Janet"}`)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for unknown id, got %d", rec.Code)
	}

	rec = doRequest(t, router, http.MethodPatch, "/user/?user_id="+id.String(), `{"email":"taken@example.com"}`)
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503 for email collision, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "database error") {
		t.Fatalf("expected a database-error message, got %s", rec.Body.String())
	}
}
