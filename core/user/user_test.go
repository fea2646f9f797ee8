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

func TestNeedsAddlFields(t *testing.T) {
	tests := []struct {
		name    string
		user    *CurrentUser
		enabled bool
		want    bool
	}{
		{"flag off", &CurrentUser{}, false, false},
		{"no profile", &CurrentUser{}, true, true},
		{"not collected", &CurrentUser{Profile: &Profile{}}, true, true},
		{"collected", &CurrentUser{Profile: &Profile{AddlFieldFlag: true}}, true, false},
		{"nil user", nil, true, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.user.NeedsAddlFields(tt.enabled); got != tt.want {
				t.Fatalf("expected %v, got %v", tt.want, got)
			}
		})
	}
}

func TestAddlFieldsFormValidate(t *testing.T) {
	form := AddlFieldsForm{Profile: AddlFields{Company: strings.Repeat("x", 129)}}

	err := form.Validate()

	var fe validate.FieldErrors
	if !errors.As(err, &fe) {
		t.Fatalf("expected field errors, got %v", err)
	}
	if _, ok := fe["user_profile.company"]; !ok {
		t.Errorf("company length not reported: %v", fe)
	}
	if fe["user_profile.type_is_student"] != learnerTypeMessage {
		t.Errorf("learner type not reported: %v", fe)
	}

	ok := AddlFieldsForm{Profile: AddlFields{Company: "Acme", TypeIsProfessional: true}}
	if err := ok.Validate(); err != nil {
		t.Fatalf("valid form rejected: %v", err)
	}
}

func TestApplyKeepsOtherProfileFields(t *testing.T) {
	year := 1990
	size := 3
	current := &Profile{Gender: "f", YearOfBirth: &year, Company: "Old"}

	got := AddlFieldsForm{Profile: AddlFields{Company: "Acme", CompanySize: &size, TypeIsEducator: true}}.Apply(current)

	want := Profile{
		Gender:         "f",
		YearOfBirth:    &year,
		AddlFieldFlag:  true,
		Company:        "Acme",
		CompanySize:    &size,
		TypeIsEducator: true,
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("unexpected profile (-want +got):\n%s", diff)
	}
	if current.Company != "Old" {
		t.Fatal("current profile was modified")
	}
}

func TestHandleUpdateAddlFields(t *testing.T) {
	var patched map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			fmt.Fprint(w, `{"id": 1, "name": "Ada", "email": "ada@example.com", "is_authenticated": true, "user_profile": {"gender": "f", "addl_field_flag": false}}`)
		case http.MethodPatch:
			if err := json.NewDecoder(r.Body).Decode(&patched); err != nil {
				t.Errorf("decoding patch: %v", err)
			}
			fmt.Fprint(w, `{"id": 1, "name": "Ada", "is_authenticated": true, "user_profile": {"addl_field_flag": true}}`)
		}
	}))
	defer srv.Close()

	log := logrus.New()
	log.SetOutput(io.Discard)
	cl := upstream.New(upstream.Config{BaseURL: srv.URL, Timeout: time.Second, SessionCookie: "sessionid", CSRFCookie: "csrftoken", Log: log})

	ctx := claims.Set(context.Background(), claims.Claims{SessionID: "s", CSRFToken: "c"})
	body := `{"user_profile": {"company": "Acme", "type_is_student": true}}`
	req := httptest.NewRequest(http.MethodPatch, "/profile/addl-fields", strings.NewReader(body))
	rec := httptest.NewRecorder()

	if err := HandleUpdateAddlFields(cl)(ctx, rec, req); err != nil {
		t.Fatal(err)
	}

	profile, _ := patched["user_profile"].(map[string]any)
	if profile["addl_field_flag"] != true || profile["company"] != "Acme" || profile["gender"] != "f" {
		t.Fatalf("unexpected patch body %v", patched)
	}
	if patched["name"] != "Ada" {
		t.Fatalf("account fields not sent back: %v", patched)
	}

	var view View
	if err := json.NewDecoder(rec.Body).Decode(&view); err != nil {
		t.Fatal(err)
	}
	if view.NeedsAddlFields || view.User.Profile == nil || !view.User.Profile.AddlFieldFlag {
		t.Fatalf("unexpected view %+v", view)
	}
}

func TestHandleUpdateAddlFieldsInvalid(t *testing.T) {
	cl := upstream.New(upstream.Config{BaseURL: "http://127.0.0.1:0"})

	req := httptest.NewRequest(http.MethodPatch, "/profile/addl-fields", strings.NewReader(`{"user_profile": {}}`))
	err := HandleUpdateAddlFields(cl)(context.Background(), httptest.NewRecorder(), req)

	body, status, ok := weberr.Response(err)
	if !ok || status != http.StatusBadRequest {
		t.Fatalf("expected 400, got %v", err)
	}
	resp, _ := body.(*weberr.ErrorResponse)
	if resp == nil || resp.Fields["user_profile.type_is_student"] != learnerTypeMessage {
		t.Fatalf("unexpected body %+v", body)
	}
}
