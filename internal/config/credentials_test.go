package config

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// withEnv replaces the environment lookup for the duration of a test.
func withEnv(t *testing.T, env map[string]string) {
	t.Helper()
	original := lookupEnv
	lookupEnv = func(key string) (string, bool) {
		v, ok := env[key]
		return v, ok
	}
	t.Cleanup(func() { lookupEnv = original })
}

func openStackEnv() map[string]string {
	return map[string]string{
		EnvOSUsername:   "alice",
		EnvOSPassword:   "secret",
		EnvOSAuthURL:    "https://keystone.example.org:5000/v3",
		EnvOSTenantName: "LSST",
	}
}

func TestLoadCredentials_OpenStack(t *testing.T) {
	withEnv(t, openStackEnv())

	creds, err := LoadCredentials(ProviderOpenStack)
	require.NoError(t, err)
	assert.Equal(t, "alice", creds.Username)
	assert.Equal(t, "secret", creds.Password)
	assert.Equal(t, "https://keystone.example.org:5000/v3", creds.AuthURL)
	assert.Equal(t, "LSST", creds.ProjectName)
	assert.Equal(t, DefaultComputeAPIVersion, creds.APIVersion)
	assert.True(t, creds.Insecure)
	assert.Empty(t, creds.Region)
}

func TestLoadCredentials_OpenStackOptional(t *testing.T) {
	env := openStackEnv()
	delete(env, EnvOSTenantName)
	env[EnvOSProjectName] = "Qserv"
	env["OS_DOMAIN_NAME"] = "Default"
	env[EnvOSRegionName] = "RegionOne"
	env[EnvOSInsecure] = "false"
	env[EnvOSAPIVersion] = "2.60"
	withEnv(t, env)

	creds, err := LoadCredentials(ProviderOpenStack)
	require.NoError(t, err)
	assert.Equal(t, "Qserv", creds.ProjectName)
	assert.Equal(t, "Default", creds.DomainName)
	assert.Equal(t, "RegionOne", creds.Region)
	assert.Equal(t, "2.60", creds.APIVersion)
	assert.False(t, creds.Insecure)
}

func TestLoadCredentials_Missing(t *testing.T) {
	for _, name := range []string{EnvOSUsername, EnvOSPassword, EnvOSAuthURL, EnvOSTenantName} {
		t.Run(name, func(t *testing.T) {
			env := openStackEnv()
			delete(env, name)
			withEnv(t, env)

			_, err := LoadCredentials(ProviderOpenStack)
			require.Error(t, err)

			var missing *MissingEnvError
			require.True(t, errors.As(err, &missing))
			assert.Equal(t, name, missing.Name)
			assert.Contains(t, err.Error(), name)
		})
	}
}

func TestLoadCredentials_EmptyCountsAsMissing(t *testing.T) {
	env := openStackEnv()
	env[EnvOSPassword] = ""
	withEnv(t, env)

	_, err := LoadCredentials(ProviderOpenStack)
	var missing *MissingEnvError
	require.ErrorAs(t, err, &missing)
	assert.Equal(t, EnvOSPassword, missing.Name)
}

func TestLoadCredentials_InvalidInsecure(t *testing.T) {
	env := openStackEnv()
	env[EnvOSInsecure] = "maybe"
	withEnv(t, env)

	_, err := LoadCredentials(ProviderOpenStack)
	require.Error(t, err)
	assert.Contains(t, err.Error(), EnvOSInsecure)
}

func TestLoadCredentials_HCloud(t *testing.T) {
	t.Run("token and user", func(t *testing.T) {
		withEnv(t, map[string]string{EnvHCloudToken: "tok", EnvUser: "bob"})
		creds, err := LoadCredentials(ProviderHCloud)
		require.NoError(t, err)
		assert.Equal(t, "tok", creds.Token)
		assert.Equal(t, "bob", creds.Username)
	})

	t.Run("qserv username wins", func(t *testing.T) {
		withEnv(t, map[string]string{EnvHCloudToken: "tok", EnvUser: "bob", EnvQservUsername: "alice"})
		creds, err := LoadCredentials(ProviderHCloud)
		require.NoError(t, err)
		assert.Equal(t, "alice", creds.Username)
	})

	t.Run("missing token", func(t *testing.T) {
		withEnv(t, map[string]string{EnvUser: "bob"})
		_, err := LoadCredentials(ProviderHCloud)
		var missing *MissingEnvError
		require.ErrorAs(t, err, &missing)
		assert.Equal(t, EnvHCloudToken, missing.Name)
	})
}

func TestLoadCredentials_UnknownProvider(t *testing.T) {
	_, err := LoadCredentials("aws")
	require.Error(t, err)
}
