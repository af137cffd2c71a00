package provisioning

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/qserv/qserv-cloud/internal/util/prerequisites"
)

// checkTools is replaced in tests.
var checkTools = prerequisites.CheckDefault

// ValidationError represents a configuration validation error or warning.
type ValidationError struct {
	Field    string // Configuration field that failed validation
	Message  string // Human-readable error message
	Severity string // "error" or "warning"
}

// Error implements the error interface.
func (ve ValidationError) Error() string {
	return fmt.Sprintf("[%s] %s: %s", ve.Severity, ve.Field, ve.Message)
}

// IsError returns true if this is an error (not a warning).
func (ve ValidationError) IsError() bool {
	return ve.Severity == "error"
}

// ValidationPhase implements the Phase interface for pre-flight validation.
type ValidationPhase struct{}

// NewValidationPhase creates a new validation phase.
func NewValidationPhase() *ValidationPhase {
	return &ValidationPhase{}
}

// Name implements the Phase interface.
func (vp *ValidationPhase) Name() string {
	return "validation"
}

// Provision implements the Phase interface.
func (vp *ValidationPhase) Provision(ctx *Context) error {
	ctx.Observer.Printf("[Validation] Running pre-flight validation...")

	allErrors := validate(ctx)

	var errs []ValidationError
	var warnings []ValidationError
	for _, ve := range allErrors {
		if ve.IsError() {
			errs = append(errs, ve)
		} else {
			warnings = append(warnings, ve)
		}
	}

	for _, warning := range warnings {
		ctx.Observer.Printf("[Validation] WARNING: %s", warning.Message)
		ctx.Observer.Event(Event{
			Type:    EventValidationWarning,
			Phase:   vp.Name(),
			Message: warning.Message,
			Fields:  map[string]string{"field": warning.Field},
		})
	}

	if len(errs) > 0 {
		var errMsgs []string
		for _, e := range errs {
			errMsgs = append(errMsgs, e.Error())
		}
		return fmt.Errorf("configuration validation failed:\n  %s", strings.Join(errMsgs, "\n  "))
	}

	ctx.Observer.Printf("[Validation] Validation passed")
	return nil
}

// validate runs all validation checks and returns any errors or warnings.
func validate(ctx *Context) []ValidationError {
	var errs []ValidationError
	cfg := ctx.Config

	if cfg == nil {
		return []ValidationError{{Field: "Config", Message: "configuration is missing", Severity: "error"}}
	}

	if err := cfg.Validate(); err != nil {
		errs = append(errs, ValidationError{
			Field:    "Config",
			Message:  err.Error(),
			Severity: "error",
		})
	}

	if ctx.Infra == nil {
		errs = append(errs, ValidationError{
			Field:    "Infra",
			Message:  "cloud client is not initialized",
			Severity: "error",
		})
	}

	if cfg.Username == "" {
		errs = append(errs, ValidationError{
			Field:    "Username",
			Message:  "cloud username is required to name resources",
			Severity: "error",
		})
	}

	// --- Polling ---

	if t := ctx.Timeouts; t != nil {
		if t.PollInterval <= 0 {
			errs = append(errs, ValidationError{
				Field:    "PollInterval",
				Message:  fmt.Sprintf("poll interval must be positive, got %s", t.PollInterval),
				Severity: "error",
			})
		}
		if t.Build < 0 {
			errs = append(errs, ValidationError{
				Field:    "BuildTimeout",
				Message:  fmt.Sprintf("build timeout must not be negative, got %s", t.Build),
				Severity: "error",
			})
		}
	}

	// --- Local files ---

	if cfg.PublicKeyPath != "" {
		if _, err := os.Stat(cfg.PublicKeyPath); err != nil {
			switch {
			case errors.Is(err, os.ErrNotExist) && cfg.GenerateKey:
				errs = append(errs, ValidationError{
					Field:    "PublicKeyPath",
					Message:  fmt.Sprintf("public key %s does not exist and will be generated", cfg.PublicKeyPath),
					Severity: "warning",
				})
			default:
				errs = append(errs, ValidationError{
					Field:    "PublicKeyPath",
					Message:  fmt.Sprintf("public key is not readable: %v", err),
					Severity: "error",
				})
			}
		}
	}

	if cfg.IdentityFile != "" && !cfg.GenerateKey {
		if _, err := os.Stat(cfg.IdentityFile); err != nil {
			severity := "warning"
			if cfg.VerifySSH {
				severity = "error"
			}
			errs = append(errs, ValidationError{
				Field:    "IdentityFile",
				Message:  fmt.Sprintf("identity file %s is not readable: %v", cfg.IdentityFile, err),
				Severity: severity,
			})
		}
	}

	if cfg.OutputPath != "" {
		dir := filepath.Dir(cfg.OutputPath)
		if info, err := os.Stat(dir); err != nil || !info.IsDir() {
			errs = append(errs, ValidationError{
				Field:    "OutputPath",
				Message:  fmt.Sprintf("output directory %s does not exist", dir),
				Severity: "error",
			})
		}
	}

	// --- Local tools ---

	for _, tool := range checkTools().Missing {
		severity := "warning"
		if tool.Required {
			severity = "error"
		}
		errs = append(errs, ValidationError{
			Field:    "Tools",
			Message:  fmt.Sprintf("%s not found in PATH (%s)", tool.Name, tool.Description),
			Severity: severity,
		})
	}

	// --- Cluster shape ---

	if cfg.Workers == 0 {
		errs = append(errs, ValidationError{
			Field:    "Workers",
			Message:  "no workers requested, only the gateway will be created",
			Severity: "warning",
		})
	}

	return errs
}
