package core

import (
	"strings"
	"testing"
)

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		form   interface{}
		fields []string
	}{
		{
			name: "valid article",
			form: &ArticleForm{Title: "T", Body: "B"},
		},
		{
			name:   "article without title and body",
			form:   &ArticleForm{},
			fields: []string{"title", "body"},
		},
		{
			name:   "article title too long",
			form:   &ArticleForm{Title: strings.Repeat("ж", 201), Body: "B"},
			fields: []string{"title"},
		},
		{
			name:   "empty comment",
			form:   &CommentForm{},
			fields: []string{"body"},
		},
		{
			name: "valid registration",
			form: &RegisterForm{Username: "alice", Password: "p@ss1234", Password2: "p@ss1234"},
		},
		{
			name:   "registration with mismatching passwords",
			form:   &RegisterForm{Username: "alice", Password: "p@ss1234", Password2: "p@ss4321"},
			fields: []string{"password2"},
		},
		{
			name:   "registration with short password and bad name",
			form:   &RegisterForm{Username: "al ice", Password: "short", Password2: "short"},
			fields: []string{"username", "password"},
		},
		{
			name: "cyrillic user name",
			form: &RegisterForm{Username: "иван.петров", Password: "p@ss1234", Password2: "p@ss1234"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fe := Validate(tt.form)
			if len(fe) != len(tt.fields) {
				t.Fatalf("expected errors for %v, got %v", tt.fields, fe)
			}
			for _, field := range tt.fields {
				if fe[field] == "" {
					t.Fatalf("expected error for field %s, got %v", field, fe)
				}
			}
		})
	}
}

func TestFormErrorsError(t *testing.T) {
	fe := FormErrors{"title": "a", "": "b", "body": "c"}
	if got, want := fe.Error(), "b; body: c; title: a"; got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}
