package gateway

import "testing"

func TestConfigValidateRequiresTLSFilesWhenEnabled(t *testing.T) {
	cfg := defaultConfig()
	cfg.TLSEnabled = true

	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error when TLS enabled without cert/key files")
	}

	cfg.TLSCertFile = "cert.pem"
	cfg.TLSKeyFile = "key.pem"
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
}

func TestConfigValidateRejectsNonPositiveShutdownTimeout(t *testing.T) {
	cfg := defaultConfig()
	cfg.ShutdownTimeout = 0

	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for non-positive shutdown timeout")
	}
}
