package user

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/sirupsen/logrus"

	"github.com/irsalhamdi/learner-portal/api/weberr"
	"github.com/irsalhamdi/learner-portal/core/claims"
	"github.com/irsalhamdi/learner-portal/upstream"
	"github.com/irsalhamdi/learner-portal/validate"
)

func validProfileForm() ProfileForm {
	year := 1990
	return ProfileForm{
		Name:         "Ada Lovelace",
		LegalAddress: LegalAddress{FirstName: "Ada", LastName: "Lovelace", Country: "GB"},
		Profile:      ProfileFields{YearOfBirth: &year},
	}
}

func TestProfileFormState(t *testing.T) {
	tests := []struct {
		country   string
		state     string
		wantError bool
	}{
		{"US", "", true},
		{"US", "US-MA", false},
		{"CA", "", true},
		{"CA", "CA-ON", false},
		{"GB", "", false},
		{"FR", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.country+"/"+tt.state, func(t *testing.T) {
			form := validProfileForm()
			form.LegalAddress.Country = tt.country
			form.LegalAddress.State = tt.state

			err := form.Validate()
			if !tt.wantError {
				if err != nil {
					t.Fatalf("valid form rejected: %v", err)
				}
				return
			}

			var fe validate.FieldErrors
			if !errors.As(err, &fe) {
				t.Fatalf("expected field errors, got %v", err)
			}
			if fe["legal_address.state"] != stateMessage {
				t.Fatalf("state not reported: %v", fe)
			}
			if len(fe) != 1 {
				t.Fatalf("expected only the state error, got %v", fe)
			}
		})
	}
}

func TestProfileFormRequired(t *testing.T) {
	err := ProfileForm{}.Validate()

	var fe validate.FieldErrors
	if !errors.As(err, &fe) {
		t.Fatalf("expected field errors, got %v", err)
	}
	for _, field := range []string{
		"name",
		"legal_address.first_name",
		"legal_address.last_name",
		"legal_address.country",
		"user_profile.year_of_birth",
	} {
		if _, ok := fe[field]; !ok {
			t.Errorf("%s not reported: %v", field, fe)
		}
	}
	if _, ok := fe["user_profile.gender"]; ok {
		t.Errorf("gender is optional: %v", fe)
	}
}

func TestProfileFormApply(t *testing.T) {
	year := 1970
	u := CurrentUser{
		Name:         "Old Name",
		Email:        "ada@example.com",
		LegalAddress: json.RawMessage(`{"first_name": "A", "last_name": "L", "country": "US", "state": "US-MA", "postal_code": "02139"}`),
		Profile:      &Profile{Gender: "f", YearOfBirth: &year, Company: "Acme", AddlFieldFlag: true},
	}

	form := validProfileForm()
	got, p, err := form.Apply(u)
	if err != nil {
		t.Fatal(err)
	}

	if got.Name != "Ada Lovelace" || got.Email != "ada@example.com" {
		t.Fatalf("unexpected account %+v", got)
	}

	var addr map[string]any
	if err := json.Unmarshal(got.LegalAddress, &addr); err != nil {
		t.Fatal(err)
	}
	wantAddr := map[string]any{
		"first_name":  "Ada",
		"last_name":   "Lovelace",
		"country":     "GB",
		"state":       nil,
		"postal_code": "02139",
	}
	if diff := cmp.Diff(wantAddr, addr); diff != "" {
		t.Fatalf("unexpected legal address (-want +got):\n%s", diff)
	}

	wantProfile := Profile{YearOfBirth: form.Profile.YearOfBirth, Company: "Acme", AddlFieldFlag: true}
	if diff := cmp.Diff(wantProfile, p); diff != "" {
		t.Fatalf("unexpected profile (-want +got):\n%s", diff)
	}
	if u.Profile.Gender != "f" || *u.Profile.YearOfBirth != 1970 {
		t.Fatal("current profile was modified")
	}
}

func TestHandleUpdateProfile(t *testing.T) {
	var patched map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			fmt.Fprint(w, `{"id": 1, "name": "Ada", "email": "ada@example.com", "is_authenticated": true, "legal_address": null, "user_profile": {"addl_field_flag": false}}`)
		case http.MethodPatch:
			if err := json.NewDecoder(r.Body).Decode(&patched); err != nil {
				t.Errorf("decoding patch: %v", err)
			}
			fmt.Fprint(w, `{"id": 1, "name": "Ada Lovelace", "is_authenticated": true, "user_profile": {"year_of_birth": 1990, "addl_field_flag": false}}`)
		}
	}))
	defer srv.Close()

	log := logrus.New()
	log.SetOutput(io.Discard)
	cl := upstream.New(upstream.Config{BaseURL: srv.URL, Timeout: time.Second, SessionCookie: "sessionid", CSRFCookie: "csrftoken", Log: log})

	ctx := claims.Set(context.Background(), claims.Claims{SessionID: "s", CSRFToken: "c"})
	body := `{"name": "Ada Lovelace", "legal_address": {"first_name": "Ada", "last_name": "Lovelace", "country": "US", "state": "US-MA"}, "user_profile": {"gender": null, "year_of_birth": 1990}}`
	req := httptest.NewRequest(http.MethodPatch, "/profile", strings.NewReader(body))
	rec := httptest.NewRecorder()

	if err := HandleUpdateProfile(cl, true)(ctx, rec, req); err != nil {
		t.Fatal(err)
	}

	if patched["name"] != "Ada Lovelace" {
		t.Fatalf("name not sent: %v", patched)
	}
	addr, _ := patched["legal_address"].(map[string]any)
	if addr["state"] != "US-MA" || addr["country"] != "US" {
		t.Fatalf("unexpected legal address %v", patched["legal_address"])
	}
	profile, _ := patched["user_profile"].(map[string]any)
	if profile["year_of_birth"] != float64(1990) {
		t.Fatalf("unexpected profile %v", profile)
	}

	var view View
	if err := json.NewDecoder(rec.Body).Decode(&view); err != nil {
		t.Fatal(err)
	}
	if !view.NeedsAddlFields {
		t.Fatalf("expected additional fields still to be needed, got %+v", view)
	}
}

func TestHandleUpdateProfileMissingState(t *testing.T) {
	cl := upstream.New(upstream.Config{BaseURL: "http://127.0.0.1:0"})

	body := `{"name": "Ada Lovelace", "legal_address": {"first_name": "Ada", "last_name": "Lovelace", "country": "CA"}, "user_profile": {"year_of_birth": 1990}}`
	req := httptest.NewRequest(http.MethodPatch, "/profile", strings.NewReader(body))
	err := HandleUpdateProfile(cl, false)(context.Background(), httptest.NewRecorder(), req)

	res, status, ok := weberr.Response(err)
	if !ok || status != http.StatusBadRequest {
		t.Fatalf("expected 400, got %v", err)
	}
	resp, _ := res.(*weberr.ErrorResponse)
	if resp == nil || resp.Fields["legal_address.state"] != stateMessage {
		t.Fatalf("unexpected body %+v", res)
	}
}
