package config

import (
	"fmt"
	"os"
	"strconv"
)

// Environment variables read by LoadCredentials.
const (
	EnvOSUsername    = "OS_USERNAME"
	EnvOSPassword    = "OS_PASSWORD"
	EnvOSAuthURL     = "OS_AUTH_URL"
	EnvOSTenantName  = "OS_TENANT_NAME"
	EnvOSProjectName = "OS_PROJECT_NAME"
	EnvOSDomainName  = "OS_USER_DOMAIN_NAME"
	EnvOSRegionName  = "OS_REGION_NAME"
	EnvOSInsecure    = "OS_INSECURE"
	EnvOSAPIVersion  = "OS_COMPUTE_API_VERSION"

	EnvHCloudToken   = "HCLOUD_TOKEN"
	EnvQservUsername = "QSERV_USERNAME"
	EnvUser          = "USER"
)

// DefaultComputeAPIVersion is the compute microversion requested from Nova.
const DefaultComputeAPIVersion = "2.4"

// Credentials identify the caller to the cloud control plane. They are
// loaded once at startup and not modified afterwards.
type Credentials struct {
	AuthURL     string
	Username    string
	Password    string
	ProjectName string
	DomainName  string
	Region      string
	APIVersion  string
	// Insecure disables TLS certificate verification against the identity endpoint.
	Insecure bool

	// Token authenticates against Hetzner Cloud.
	Token string
}

// MissingEnvError reports a required environment variable that is not set.
type MissingEnvError struct {
	Name string
}

func (e *MissingEnvError) Error() string {
	return fmt.Sprintf("required environment variable %s is not set", e.Name)
}

// lookupEnv is replaced in tests.
var lookupEnv = os.LookupEnv

// LoadCredentials reads the credentials for provider from the environment.
// It fails on the first missing required variable and does not validate formats.
func LoadCredentials(provider Provider) (*Credentials, error) {
	switch provider {
	case ProviderOpenStack:
		return loadOpenStackCredentials()
	case ProviderHCloud:
		return loadHCloudCredentials()
	default:
		return nil, fmt.Errorf("unsupported provider %q", provider)
	}
}

func loadOpenStackCredentials() (*Credentials, error) {
	creds := &Credentials{
		APIVersion: DefaultComputeAPIVersion,
		Insecure:   true,
	}

	var err error
	if creds.Username, err = requireEnv(EnvOSUsername); err != nil {
		return nil, err
	}
	if creds.Password, err = requireEnv(EnvOSPassword); err != nil {
		return nil, err
	}
	if creds.AuthURL, err = requireEnv(EnvOSAuthURL); err != nil {
		return nil, err
	}
	if creds.ProjectName, err = requireEnv(EnvOSTenantName, EnvOSProjectName); err != nil {
		return nil, err
	}

	creds.DomainName = optionalEnv(EnvOSDomainName, "OS_DOMAIN_NAME")
	creds.Region = optionalEnv(EnvOSRegionName)
	if v := optionalEnv(EnvOSAPIVersion); v != "" {
		creds.APIVersion = v
	}
	if v := optionalEnv(EnvOSInsecure); v != "" {
		insecure, err := strconv.ParseBool(v)
		if err != nil {
			return nil, fmt.Errorf("invalid %s value %q: %w", EnvOSInsecure, v, err)
		}
		creds.Insecure = insecure
	}

	return creds, nil
}

func loadHCloudCredentials() (*Credentials, error) {
	token, err := requireEnv(EnvHCloudToken)
	if err != nil {
		return nil, err
	}
	username, err := requireEnv(EnvQservUsername, EnvUser)
	if err != nil {
		return nil, err
	}
	return &Credentials{Token: token, Username: username}, nil
}

// requireEnv returns the value of the first set variable among names.
// The error names the first variable, which is the preferred one.
func requireEnv(names ...string) (string, error) {
	if v := optionalEnv(names...); v != "" {
		return v, nil
	}
	return "", &MissingEnvError{Name: names[0]}
}

func optionalEnv(names ...string) string {
	for _, name := range names {
		if v, ok := lookupEnv(name); ok && v != "" {
			return v
		}
	}
	return ""
}
