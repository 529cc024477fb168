package sheets

import (
	"encoding/json"
	"errors"
	"fmt"
)

var ErrCredential = errors.New("invalid credentials")

type credentialBlob struct {
	Type        string `json:"type"`
	ProjectID   string `json:"project_id"`
	PrivateKey  string `json:"private_key"`
	ClientEmail string `json:"client_email"`
}

// ValidateCredentials diagnoses a service-account JSON blob before it
// gets anywhere near the API, so a bad deployment fails with a field
// name instead of an opaque auth error.
func ValidateCredentials(blob []byte) error {
	var creds credentialBlob
	err := json.Unmarshal(blob, &creds)
	if err != nil {
		return fmt.Errorf("%w: not valid JSON: %s", ErrCredential, err)
	}

	required := []struct {
		field string
		value string
	}{
		{"type", creds.Type},
		{"project_id", creds.ProjectID},
		{"private_key", creds.PrivateKey},
		{"client_email", creds.ClientEmail},
	}
	for _, r := range required {
		if r.value == "" {
			return fmt.Errorf("%w: missing field %q", ErrCredential, r.field)
		}
	}

	if creds.Type != "service_account" {
		return fmt.Errorf("%w: unsupported credential type %q", ErrCredential, creds.Type)
	}
	return nil
}
