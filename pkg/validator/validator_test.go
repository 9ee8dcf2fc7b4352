package validator_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	pkgvalidator "github.com/ghuser/workcosts/pkg/validator"
)

type reportFilter struct {
	ProjectID string `validate:"required,uuid"`
	Activity  string `validate:"required,min=1,max=10"`
	Contact   string `validate:"omitempty,email"`
}

func TestValidate_valid(t *testing.T) {
	s := reportFilter{
		ProjectID: "550e8400-e29b-41d4-a716-446655440000",
		Activity:  "design",
	}
	if err := pkgvalidator.Validate(&s); err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
}

func TestFormatValidationErrors(t *testing.T) {
	const validID = "550e8400-e29b-41d4-a716-446655440000"
	tests := []struct {
		name  string
		input reportFilter
		field string
		want  string
	}{
		{"required", reportFilter{}, "ProjectID", "This field is required"},
		{"uuid", reportFilter{ProjectID: "not-a-uuid", Activity: "ok"}, "ProjectID", "Must be a valid UUID"},
		{"max", reportFilter{ProjectID: validID, Activity: "12345678901"}, "Activity", "Maximum length is 10"},
		{"email", reportFilter{ProjectID: validID, Activity: "ok", Contact: "nope"}, "Contact", "Must be a valid email address"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := pkgvalidator.FormatValidationErrors(pkgvalidator.Validate(&tt.input))
			if m[tt.field] != tt.want {
				t.Errorf("%s message = %q, want %q (all: %v)", tt.field, m[tt.field], tt.want, m)
			}
		})
	}
}

func TestFormatValidationErrors_nonValidationError(t *testing.T) {
	m := pkgvalidator.FormatValidationErrors(http.ErrNoCookie)
	if len(m) != 0 {
		t.Errorf("expected empty map for non-validation error, got %v", m)
	}
}

// --- ValidateRequest ---

type settingsReq struct {
	Settings map[string]string `json:"settings" validate:"required,dive,keys,min=1,max=20,endkeys,max=8"`
}

func TestValidateRequest_valid(t *testing.T) {
	body := `{"settings":{"costs_currency":"USD"}}`
	r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	r.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	req, ok := pkgvalidator.ValidateRequest[settingsReq](w, r)
	if !ok {
		t.Fatalf("expected ok=true, got false. Response: %s", w.Body.String())
	}
	if req.Settings["costs_currency"] != "USD" {
		t.Errorf("unexpected settings: %v", req.Settings)
	}
}

func TestValidateRequest_rejected(t *testing.T) {
	tests := []struct {
		name     string
		body     string
		wantCode int
		wantBody string
	}{
		{"malformed json", "{bad json", http.StatusBadRequest, "Invalid JSON"},
		{"missing map", `{}`, http.StatusUnprocessableEntity, "This field is required"},
		{"blank key", `{"settings":{"":"USD"}}`, http.StatusUnprocessableEntity, "Validation failed"},
		{"long value", `{"settings":{"costs_currency":"123456789"}}`, http.StatusUnprocessableEntity, "Maximum length is 8"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(tt.body))
			w := httptest.NewRecorder()

			if _, ok := pkgvalidator.ValidateRequest[settingsReq](w, r); ok {
				t.Fatal("expected ok=false")
			}
			if w.Code != tt.wantCode {
				t.Errorf("expected %d, got %d", tt.wantCode, w.Code)
			}
			if !strings.Contains(w.Body.String(), tt.wantBody) {
				t.Errorf("expected %q in body, got: %s", tt.wantBody, w.Body.String())
			}
		})
	}
}

type pluginReq struct {
	Settings map[string]string `json:"settings" validate:"required,min=1,dive,keys,setting_key,endkeys,max=255"`
}

func TestValidateRequest_bodyHandling(t *testing.T) {
	tests := []struct {
		name        string
		contentType string
		body        string
		wantCode    int
		wantBody    string
	}{
		{"json with charset", "application/json; charset=utf-8", `{"settings":{"costs_currency":"USD"}}`, http.StatusOK, ""},
		{"no content type", "", `{"settings":{"costs_currency":"USD"}}`, http.StatusOK, ""},
		{"form content type", "application/x-www-form-urlencoded", "settings=1", http.StatusUnsupportedMediaType, "application/json"},
		{"empty body", "application/json", "", http.StatusBadRequest, "Request body is required"},
		{"unknown field", "application/json", `{"settings":{"costs_currency":"USD"},"extra":1}`, http.StatusBadRequest, "Unknown field"},
		{"trailing document", "application/json", `{"settings":{"a":"b"}} {"settings":{}}`, http.StatusBadRequest, "Invalid JSON"},
		{"too large", "application/json", `{"settings":{"a":"` + strings.Repeat("x", 70<<10) + `"}}`, http.StatusBadRequest, "too large"},
		{"empty map", "application/json", `{"settings":{}}`, http.StatusUnprocessableEntity, "Must contain at least 1 entries"},
		{"camelCase key", "application/json", `{"settings":{"costsCurrency":"USD"}}`, http.StatusUnprocessableEntity, "snake_case"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(tt.body))
			if tt.contentType != "" {
				r.Header.Set("Content-Type", tt.contentType)
			}
			w := httptest.NewRecorder()

			_, ok := pkgvalidator.ValidateRequest[pluginReq](w, r)
			if tt.wantCode == http.StatusOK {
				if !ok {
					t.Fatalf("expected ok=true, got response %d %s", w.Code, w.Body.String())
				}
				return
			}
			if ok {
				t.Fatal("expected ok=false")
			}
			if w.Code != tt.wantCode {
				t.Errorf("expected %d, got %d", tt.wantCode, w.Code)
			}
			if !strings.Contains(w.Body.String(), tt.wantBody) {
				t.Errorf("expected %q in body, got: %s", tt.wantBody, w.Body.String())
			}
		})
	}
}
