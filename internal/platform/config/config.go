package config

import "os"

// Server captures process-level configuration.
type Server struct {
	Addr             string
	SessionSignerKey string

	// Bootstrap CSV paths; empty values skip that list at startup.
	ApplicantListPath string
	ManagerListPath   string
	OfficerListPath   string
	ProjectListPath   string
}

// FromEnv builds a Server config from environment variables so main stays lean.
func FromEnv() Server {
	addr := os.Getenv("BTO_PORTAL_ADDR")
	if addr == "" {
		addr = ":8080"
	}

	signerKey := os.Getenv("SESSION_SIGNER_KEY")
	if signerKey == "" {
		// Use a default for development - should be overridden in production
		signerKey = "dev-secret-key-change-in-production"
	}

	return Server{
		Addr:              addr,
		SessionSignerKey:  signerKey,
		ApplicantListPath: os.Getenv("APPLICANT_LIST_CSV"),
		ManagerListPath:   os.Getenv("MANAGER_LIST_CSV"),
		OfficerListPath:   os.Getenv("OFFICER_LIST_CSV"),
		ProjectListPath:   os.Getenv("PROJECT_LIST_CSV"),
	}
}
