package config

import (
	"strings"
	"testing"
)

func TestValidate_SecretLength(t *testing.T) {
	tests := []struct {
		name    string
		secret  string
		wantErr bool
	}{
		{name: "empty", secret: "", wantErr: true},
		{name: "too short", secret: "short-secret", wantErr: true},
		{name: "exactly minimum", secret: strings.Repeat("a", MinJWTSecretLength), wantErr: false},
		{name: "longer than minimum", secret: strings.Repeat("a", MinJWTSecretLength+8), wantErr: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &Config{
				DatabaseURL: "postgres://localhost/studyshare",
				AdminEmail:  "admin@example.com",
				JWTSecret:   tt.secret,
			}
			err := cfg.validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestValidate_RequiredFields(t *testing.T) {
	secret := strings.Repeat("s", MinJWTSecretLength)

	cfg := &Config{AdminEmail: "admin@example.com", JWTSecret: secret}
	if err := cfg.validate(); err == nil {
		t.Error("expected error for missing DATABASE_URL")
	}

	cfg = &Config{DatabaseURL: "postgres://localhost/studyshare", JWTSecret: secret}
	if err := cfg.validate(); err == nil {
		t.Error("expected error for missing ADMIN_EMAIL")
	}
}
